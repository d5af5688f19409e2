package employee

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// recordingTx discards staged writes when fn fails, like a rollback.
type recordingTx struct {
	repo *memoryEmployees
}

func (r recordingTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	snapshot := r.repo.clone()
	if err := fn(ctx); err != nil {
		*r.repo = snapshot
		return err
	}
	return nil
}

type memoryEmployees struct {
	employees  map[string]employee.Employee
	accounts   map[string]employee.Account
	salaries   map[string]employee.Salary
	allowances map[string][]employee.Allowance
	resources  map[string][]employee.Resource
	progress   map[string]employee.Progress

	failOn string
}

func newMemoryEmployees() *memoryEmployees {
	return &memoryEmployees{
		employees:  map[string]employee.Employee{},
		accounts:   map[string]employee.Account{},
		salaries:   map[string]employee.Salary{},
		allowances: map[string][]employee.Allowance{},
		resources:  map[string][]employee.Resource{},
		progress:   map[string]employee.Progress{},
	}
}

func (m *memoryEmployees) clone() memoryEmployees {
	c := *newMemoryEmployees()
	c.failOn = m.failOn
	for k, v := range m.employees {
		c.employees[k] = v
	}
	for k, v := range m.accounts {
		c.accounts[k] = v
	}
	for k, v := range m.salaries {
		c.salaries[k] = v
	}
	for k, v := range m.allowances {
		c.allowances[k] = v
	}
	for k, v := range m.resources {
		c.resources[k] = v
	}
	for k, v := range m.progress {
		c.progress[k] = v
	}
	return c
}

var errStorage = errors.New("storage unavailable")

func (m *memoryEmployees) Create(_ context.Context, e employee.Employee) (employee.Employee, error) {
	for _, existing := range m.employees {
		if existing.EmployeeCode == e.EmployeeCode {
			return employee.Employee{}, employee.ErrEmployeeCodeExists
		}
		if existing.Email == e.Email {
			return employee.Employee{}, employee.ErrEmailExists
		}
	}
	e.ID = uuid.NewString()
	m.employees[e.ID] = e
	return e, nil
}

func (m *memoryEmployees) CreateAccount(_ context.Context, a employee.Account) (employee.Account, error) {
	a.ID = uuid.NewString()
	m.accounts[a.EmployeeID] = a
	return a, nil
}

func (m *memoryEmployees) CreateSalary(_ context.Context, s employee.Salary) error {
	m.salaries[s.EmployeeID] = s
	return nil
}

func (m *memoryEmployees) CreateAllowances(_ context.Context, id string, a []employee.Allowance) error {
	m.allowances[id] = a
	return nil
}

func (m *memoryEmployees) CreateResources(_ context.Context, id string, r []employee.Resource) error {
	if m.failOn == "resources" {
		return errStorage
	}
	m.resources[id] = r
	return nil
}

func (m *memoryEmployees) SaveProgress(_ context.Context, p employee.Progress) error {
	m.progress[p.EmployeeID] = p
	return nil
}

func (m *memoryEmployees) GetByID(_ context.Context, id string) (employee.Employee, error) {
	e, ok := m.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (m *memoryEmployees) List(context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range m.employees {
		out = append(out, e)
	}
	return out, nil
}

func (m *memoryEmployees) ListAllowances(_ context.Context, id string) ([]employee.Allowance, error) {
	return m.allowances[id], nil
}

func (m *memoryEmployees) ListResources(_ context.Context, id string) ([]employee.Resource, error) {
	return m.resources[id], nil
}

func (m *memoryEmployees) GetProgress(_ context.Context, id string) (employee.Progress, error) {
	p, ok := m.progress[id]
	if !ok {
		return employee.Progress{}, employee.ErrProgressNotFound
	}
	return p, nil
}

func (m *memoryEmployees) Update(_ context.Context, req employee.UpdateEmployeeRequest) (employee.Employee, error) {
	e, ok := m.employees[req.ID]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	if req.Name != nil {
		e.Name = *req.Name
	}
	if req.Email != nil {
		e.Email = *req.Email
	}
	m.employees[e.ID] = e
	return e, nil
}

func (m *memoryEmployees) SyncAccountEmail(_ context.Context, id, email string) error {
	a := m.accounts[id]
	a.Email = email
	m.accounts[id] = a
	return nil
}

func (m *memoryEmployees) SetStatus(_ context.Context, id, status string) (employee.Employee, error) {
	e, ok := m.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	e.Status = status
	m.employees[id] = e
	return e, nil
}

func (m *memoryEmployees) Delete(_ context.Context, id string) error {
	if _, ok := m.employees[id]; !ok {
		return employee.ErrEmployeeNotFound
	}
	delete(m.employees, id)
	return nil
}

func ptr[T any](v T) *T {
	return &v
}

func validRequest() employee.CreateEmployeeRequest {
	return employee.CreateEmployeeRequest{
		EmployeeCode: "EMP-001",
		Name:         "Ayesha Khan",
		Email:        "Ayesha.Khan@Example.com",
		Password:     "night-shift-1",
		Phone:        "0300-1234567",
		Department:   "Support",
		Position:     "Agent",
		JoinDate:     "2026-10-01",
		BaseSalary:   decimal.NewFromInt(80000),
		Allowances: []employee.AllowanceInput{
			{Name: "Night", Amount: decimal.NewFromInt(10000)},
			{Name: "Fuel", Amount: decimal.RequireFromString("2500.50")},
		},
		Resources: []employee.ResourceInput{{Name: "Laptop", Serial: ptr("SN-42")}},
	}
}

func newService(repo *memoryEmployees) employee.EmployeeService {
	return NewEmployeeService(recordingTx{repo: repo}, repo)
}

func TestCreate(t *testing.T) {
	repo := newMemoryEmployees()
	svc := newService(repo)

	resp, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "EMP-001", resp.EmployeeCode)
	assert.Equal(t, "92500.5", resp.TotalSalary.String())

	emp := repo.employees[resp.ID]
	assert.Equal(t, "ayesha.khan@example.com", emp.Email)
	assert.Equal(t, employee.StatusActive, emp.Status)
	assert.Equal(t, "2026-10-01", emp.JoinDate.Format("2006-01-02"))

	account := repo.accounts[resp.ID]
	assert.Equal(t, resp.AccountID, account.ID)
	assert.True(t, account.RequestPasswordChange)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte("night-shift-1")))

	assert.True(t, repo.salaries[resp.ID].TotalSalary.Equal(resp.TotalSalary))
	assert.Len(t, repo.allowances[resp.ID], 2)
	assert.True(t, repo.progress[resp.ID].IsCompleted)
}

func TestCreate_RollsBackOnFailure(t *testing.T) {
	repo := newMemoryEmployees()
	repo.failOn = "resources"
	svc := newService(repo)

	_, err := svc.Create(context.Background(), validRequest())
	assert.ErrorIs(t, err, errStorage)
	assert.Empty(t, repo.employees)
	assert.Empty(t, repo.accounts)
}

func TestCreate_Validation(t *testing.T) {
	svc := newService(newMemoryEmployees())

	req := validRequest()
	req.Password = "short"
	req.BaseSalary = decimal.Zero
	req.Phone = "12345"

	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password")
	assert.Contains(t, err.Error(), "base_salary")
	assert.Contains(t, err.Error(), "phone")
}

func TestCreate_DuplicateCode(t *testing.T) {
	svc := newService(newMemoryEmployees())

	_, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	dup := validRequest()
	dup.Email = "other@example.com"
	_, err = svc.Create(context.Background(), dup)
	assert.ErrorIs(t, err, employee.ErrEmployeeCodeExists)
}

func TestUpdate_SyncsAccountEmail(t *testing.T) {
	repo := newMemoryEmployees()
	svc := newService(repo)

	created, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), employee.UpdateEmployeeRequest{ID: created.ID})
	assert.ErrorIs(t, err, employee.ErrNoFieldsToUpdate)

	updated, err := svc.Update(context.Background(), employee.UpdateEmployeeRequest{ID: created.ID, Email: ptr("New@Example.com")})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", updated.Email)
	assert.Equal(t, "new@example.com", repo.accounts[created.ID].Email)
}

func TestGet(t *testing.T) {
	repo := newMemoryEmployees()
	svc := newService(repo)

	created, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	detail, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ayesha Khan", detail.Name)
	assert.Len(t, detail.Allowances, 2)
	require.Len(t, detail.Resources, 1)
	assert.Equal(t, "SN-42", *detail.Resources[0].Serial)
	require.NotNil(t, detail.Progress)
	assert.Equal(t, 100, detail.Progress.CompletionPercentage)

	delete(repo.progress, created.ID)
	detail, err = svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Nil(t, detail.Progress)

	_, err = svc.Get(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestDeactivate(t *testing.T) {
	svc := newService(newMemoryEmployees())

	created, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	resp, err := svc.Deactivate(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, employee.StatusInactive, resp.Status)

	_, err = svc.Deactivate(context.Background(), created.ID)
	assert.ErrorIs(t, err, employee.ErrAlreadyInactive)
}

func TestDeleteAndProgress(t *testing.T) {
	svc := newService(newMemoryEmployees())

	created, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	progress, err := svc.Progress(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, progress.ReviewConfirm)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), created.ID), employee.ErrEmployeeNotFound)
}
