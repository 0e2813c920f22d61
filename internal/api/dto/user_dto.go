package dto

import (
	"time"

	"github.com/spec-kit/asset-inventory/internal/domain"
)

// UserRegisterRequest payload for new users.
type UserRegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserLoginRequest payload for login.
type UserLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ChangeRoleRequest payload for PATCH /users/:id/role.
type ChangeRoleRequest struct {
	Role domain.UserRole `json:"role"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Role      domain.UserRole `json:"role"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewUserResponse hides the password hash.
func NewUserResponse(u domain.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt}
}

// EmployeeRequest payload for POST /employees.
type EmployeeRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	EmployeeCode string `json:"employee_code"`
	Department   string `json:"department"`
	Phone        string `json:"phone"`
	Location     string `json:"location"`
}

// EmployeeResponse is the public view of an employee.
type EmployeeResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	EmployeeCode string    `json:"employee_code"`
	Department   string    `json:"department"`
	Phone        string    `json:"phone"`
	Location     string    `json:"location"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewEmployeeResponse maps an employee.
func NewEmployeeResponse(e domain.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:           e.ID,
		Name:         e.Name,
		Email:        e.Email,
		EmployeeCode: e.EmployeeCode,
		Department:   e.Department,
		Phone:        e.Phone,
		Location:     e.Location,
		CreatedAt:    e.CreatedAt,
	}
}

// ToDomain converts the request into a candidate employee.
func (r EmployeeRequest) ToDomain() domain.Employee {
	return domain.Employee{
		Name:         r.Name,
		Email:        r.Email,
		EmployeeCode: r.EmployeeCode,
		Department:   r.Department,
		Phone:        r.Phone,
		Location:     r.Location,
	}
}
