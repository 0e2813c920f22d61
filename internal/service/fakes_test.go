package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spec-kit/asset-inventory/internal/domain"
	"github.com/spec-kit/asset-inventory/internal/events"
	"github.com/spec-kit/asset-inventory/internal/repository"
)

var testNow = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func notFound(entity string) error { return fmt.Errorf("%s: %w", entity, domain.ErrNotFound) }

type fakeAssets struct {
	mu        sync.Mutex
	byID      map[string]domain.Asset
	updateErr error
	lookups   int
	// afterBarcodeLookup runs once the barcode read returned, outside the lock.
	afterBarcodeLookup func()
	// editsAfterGet simulates a concurrent edit landing after each of the
	// next n GetByID calls.
	editsAfterGet int
}

func newFakeAssets(assets ...domain.Asset) *fakeAssets {
	f := &fakeAssets{byID: map[string]domain.Asset{}}
	for _, a := range assets {
		f.byID[a.ID] = a
	}
	return f
}

func (f *fakeAssets) Create(_ context.Context, asset *domain.Asset) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byID {
		if a.Barcode == asset.Barcode {
			return domain.NewConflictError(domain.ReasonDuplicateBarcode, "")
		}
	}
	f.byID[asset.ID] = *asset
	return nil
}

func (f *fakeAssets) Update(_ context.Context, asset *domain.Asset, expectedVersion int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	stored, ok := f.byID[asset.ID]
	if !ok || stored.Version != expectedVersion {
		return repository.ErrPreconditionFailed
	}
	asset.Version = expectedVersion + 1
	f.byID[asset.ID] = *asset
	return nil
}

func (f *fakeAssets) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return notFound("asset")
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeAssets) GetByID(_ context.Context, id string) (*domain.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return nil, notFound("asset")
	}
	if f.editsAfterGet > 0 {
		f.editsAfterGet--
		edited := a
		edited.Version++
		edited.Notes = fmt.Sprintf("edited v%d", edited.Version)
		f.byID[id] = edited
	}
	return &a, nil
}

func (f *fakeAssets) GetByBarcode(_ context.Context, barcode string) (*domain.Asset, error) {
	f.mu.Lock()
	f.lookups++
	var found *domain.Asset
	for _, a := range f.byID {
		if a.Barcode == barcode {
			found = &a
			break
		}
	}
	hook := f.afterBarcodeLookup
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	if found == nil {
		return nil, notFound("asset")
	}
	return found, nil
}

func (f *fakeAssets) List(_ context.Context, filter repository.AssetFilter) ([]domain.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Asset{}
	for _, a := range f.byID {
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.Category != "" && a.Category != filter.Category {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(a.Name), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeAssets) BarcodeExists(_ context.Context, barcode, excludeID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byID {
		if a.Barcode == barcode && a.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

type fakeAssignments struct {
	mu        sync.Mutex
	byID      map[string]domain.Assignment
	deleteErr error
	deleted   []string
}

func newFakeAssignments(items ...domain.Assignment) *fakeAssignments {
	f := &fakeAssignments{byID: map[string]domain.Assignment{}}
	for _, a := range items {
		f.byID[a.ID] = a
	}
	return f
}

func (f *fakeAssignments) Create(_ context.Context, a *domain.Assignment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[a.ID] = *a
	return nil
}

func (f *fakeAssignments) Close(_ context.Context, a *domain.Assignment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.byID[a.ID]
	if !ok || stored.ReturnDate != nil {
		return repository.ErrPreconditionFailed
	}
	stored.ReturnDate = a.ReturnDate
	f.byID[a.ID] = stored
	return nil
}

func (f *fakeAssignments) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	delete(f.byID, id)
	return nil
}

func (f *fakeAssignments) GetByID(_ context.Context, id string) (*domain.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return nil, notFound("assignment")
	}
	return &a, nil
}

func (f *fakeAssignments) List(_ context.Context, filter repository.AssignmentFilter) ([]domain.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Assignment{}
	for _, a := range f.byID {
		if filter.AssetID != "" && a.AssetID != filter.AssetID {
			continue
		}
		if filter.EmployeeID != "" && a.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.ActiveOnly && !a.IsActive() {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AssignedDate.Equal(out[j].AssignedDate) {
			return out[i].AssignedDate.After(out[j].AssignedDate)
		}
		return out[i].ID < out[j].ID
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

type fakeTickets struct {
	mu   sync.Mutex
	byID map[string]domain.MaintenanceLog
}

func newFakeTickets(items ...domain.MaintenanceLog) *fakeTickets {
	f := &fakeTickets{byID: map[string]domain.MaintenanceLog{}}
	for _, t := range items {
		f.byID[t.ID] = t
	}
	return f
}

func (f *fakeTickets) Create(_ context.Context, t *domain.MaintenanceLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[t.ID] = *t
	return nil
}

func (f *fakeTickets) UpdateStatus(_ context.Context, t *domain.MaintenanceLog, expected domain.MaintenanceStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.byID[t.ID]
	if !ok || stored.Status != expected {
		return repository.ErrPreconditionFailed
	}
	f.byID[t.ID] = *t
	return nil
}

func (f *fakeTickets) GetByID(_ context.Context, id string) (*domain.MaintenanceLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.byID[id]
	if !ok {
		return nil, notFound("maintenance log")
	}
	return &t, nil
}

func (f *fakeTickets) List(_ context.Context, filter repository.MaintenanceLogFilter) ([]domain.MaintenanceLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.MaintenanceLog{}
	for _, t := range f.byID {
		if filter.DeviceID != "" && t.DeviceID != filter.DeviceID {
			continue
		}
		if filter.UserID != "" && t.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.Type != "" && t.Type != filter.Type {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeHistory struct {
	mu        sync.Mutex
	entries   []domain.MaintenanceLogHistory
	createErr error
}

func (f *fakeHistory) Create(_ context.Context, h *domain.MaintenanceLogHistory) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.entries = append(f.entries, *h)
	return nil
}

func (f *fakeHistory) ListByLog(_ context.Context, logID string) ([]domain.MaintenanceLogHistory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.MaintenanceLogHistory{}
	for _, h := range f.entries {
		if h.LogID == logID {
			out = append(out, h)
		}
	}
	return out, nil
}

type fakeEmployees struct {
	byID map[string]domain.Employee
}

func newFakeEmployees(items ...domain.Employee) *fakeEmployees {
	f := &fakeEmployees{byID: map[string]domain.Employee{}}
	for _, e := range items {
		f.byID[e.ID] = e
	}
	return f
}

func (f *fakeEmployees) Create(_ context.Context, e *domain.Employee) error {
	f.byID[e.ID] = *e
	return nil
}

func (f *fakeEmployees) GetByID(_ context.Context, id string) (*domain.Employee, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, notFound("employee")
	}
	return &e, nil
}

func (f *fakeEmployees) List(_ context.Context, search string, _, _ int) ([]domain.Employee, error) {
	out := []domain.Employee{}
	for _, e := range f.byID {
		if search == "" || strings.Contains(strings.ToLower(e.Name), strings.ToLower(search)) {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeUsers struct {
	mu   sync.Mutex
	byID map[string]domain.User
}

func newFakeUsers(items ...domain.User) *fakeUsers {
	f := &fakeUsers{byID: map[string]domain.User{}}
	for _, u := range items {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[u.ID] = *u
	return nil
}

func (f *fakeUsers) UpdateRole(_ context.Context, u *domain.User, expected domain.UserRole) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.byID[u.ID]
	if !ok || stored.Role != expected {
		return repository.ErrPreconditionFailed
	}
	f.byID[u.ID] = *u
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, notFound("user")
	}
	return &u, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, notFound("user")
}

func (f *fakeUsers) List(_ context.Context, role domain.UserRole) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.User{}
	for _, u := range f.byID {
		if role == "" || u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeCategories struct {
	names []string
}

func (f *fakeCategories) EnsureNames(_ context.Context, names []string) (int, error) {
	added := 0
	for _, n := range names {
		found := false
		for _, existing := range f.names {
			if existing == n {
				found = true
				break
			}
		}
		if !found {
			f.names = append(f.names, n)
			added++
		}
	}
	return added, nil
}

func (f *fakeCategories) List(context.Context) ([]domain.Category, error) {
	out := make([]domain.Category, 0, len(f.names))
	for _, n := range f.names {
		out = append(out, domain.Category{ID: n, Name: n})
	}
	return out, nil
}

type fakeCache struct {
	mu          sync.Mutex
	entries     map[string]domain.Asset
	tags        map[string]int64
	generations map[string]int64
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]domain.Asset{}, tags: map[string]int64{}, generations: map[string]int64{}}
}

func (f *fakeCache) Get(_ context.Context, barcode string) (*domain.Asset, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	generation := f.generations[barcode]
	a, ok := f.entries[barcode]
	if !ok || f.tags[barcode] != generation {
		return nil, generation, nil
	}
	return &a, generation, nil
}

func (f *fakeCache) Fill(_ context.Context, asset domain.Asset, generation int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[asset.Barcode] = asset
	f.tags[asset.Barcode] = generation
	return nil
}

func (f *fakeCache) Invalidate(_ context.Context, barcodes ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range barcodes {
		f.generations[b]++
		delete(f.entries, b)
		f.invalidated = append(f.invalidated, b)
	}
	return nil
}

type fakeBaselines struct {
	stored *domain.StatsSnapshot
	saves  int
}

func (f *fakeBaselines) Load(context.Context) (*domain.StatsSnapshot, error) {
	if f.stored == nil {
		return nil, nil
	}
	s := *f.stored
	return &s, nil
}

func (f *fakeBaselines) Save(_ context.Context, snap domain.StatsSnapshot) error {
	f.stored = &snap
	f.saves++
	return nil
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, e events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, e)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) types() []events.EventType {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]events.EventType, 0, len(d.events))
	for _, e := range d.events {
		out = append(out, e.Type)
	}
	return out
}

var (
	manager    = domain.Actor{ID: "m1", Role: domain.UserRoleManager}
	technician = domain.Actor{ID: "t1", Role: domain.UserRoleTechnician}
	employee   = domain.Actor{ID: "e1", Role: domain.UserRoleEmployee}
)

func availableAsset(id, barcode string) domain.Asset {
	return domain.Asset{
		ID:        id,
		Name:      "Laptop " + id,
		Category:  "LAPTOPS",
		Barcode:   barcode,
		Status:    domain.AssetStatusAvailable,
		Version:   1,
		CreatedAt: testNow.AddDate(0, -1, 0),
		UpdatedAt: testNow.AddDate(0, -1, 0),
	}
}
