package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/asset-inventory/internal/domain"
	"github.com/spec-kit/asset-inventory/internal/repository"
)

// UserService manages accounts and the employee directory.
type UserService struct {
	users     repository.UserRepository
	employees repository.EmployeeRepository
	logger    *zap.Logger
	now       func() time.Time
}

// UserDependencies bundles repositories for the user service.
type UserDependencies struct {
	UserRepo     repository.UserRepository
	EmployeeRepo repository.EmployeeRepository
	Logger       *zap.Logger
	Now          func() time.Time
}

// NewUserService constructs the service.
func NewUserService(deps UserDependencies) *UserService {
	return &UserService{
		users:     deps.UserRepo,
		employees: deps.EmployeeRepo,
		logger:    orNop(deps.Logger),
		now:       orNow(deps.Now),
	}
}

// ListUsers returns accounts, optionally limited to one role. Managers only.
func (s *UserService) ListUsers(ctx context.Context, actor domain.Actor, role domain.UserRole) ([]domain.User, error) {
	if err := domain.RequireManager(actor, "list users"); err != nil {
		return nil, err
	}
	if role != "" && !role.IsValid() {
		return nil, domain.NewValidationError("role", "unknown role")
	}
	return s.users.List(ctx, role)
}

// ChangeRole sets the role of another user.
func (s *UserService) ChangeRole(ctx context.Context, actor domain.Actor, userID string, role domain.UserRole) (*domain.User, error) {
	if err := domain.RequireManager(actor, "change user roles"); err != nil {
		return nil, err
	}
	target, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	updated, err := domain.ChangeUserRole(actor, *target, role, s.now())
	if err != nil {
		return nil, err
	}
	if updated.Role == target.Role {
		return updated, nil
	}
	if err := s.users.UpdateRole(ctx, updated, target.Role); err != nil {
		return nil, staleOr(err, domain.ReasonStaleUser, "user role changed concurrently")
	}
	s.logger.Info("user role changed",
		zap.String("user_id", updated.ID),
		zap.String("from", target.Role.String()),
		zap.String("to", updated.Role.String()),
		zap.String("by", actor.ID))
	return updated, nil
}

// CreateEmployee adds a person to the directory. Managers only.
func (s *UserService) CreateEmployee(ctx context.Context, actor domain.Actor, candidate domain.Employee) (*domain.Employee, error) {
	if err := domain.RequireManager(actor, "create employees"); err != nil {
		return nil, err
	}
	employee, err := domain.NewEmployee(candidate, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.employees.Create(ctx, employee); err != nil {
		return nil, err
	}
	s.logger.Info("employee created", zap.String("employee_id", employee.ID))
	return employee, nil
}

// ListEmployees searches the directory by name, email or code.
func (s *UserService) ListEmployees(ctx context.Context, search string, limit, offset int) ([]domain.Employee, error) {
	return s.employees.List(ctx, search, limit, offset)
}

// GetEmployee loads one employee.
func (s *UserService) GetEmployee(ctx context.Context, id string) (*domain.Employee, error) {
	return s.employees.GetByID(ctx, id)
}
