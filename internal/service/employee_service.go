package service

import (
	"context"

	"github.com/payhub/payhub-backend/internal/model"
	"github.com/payhub/payhub-backend/internal/repository"
)

// EmployeeService handles business logic for employees.
type EmployeeService struct {
	employeeRepo *repository.EmployeeRepository
	authService  *AuthService
}

// NewEmployeeService creates a new EmployeeService.
func NewEmployeeService(employeeRepo *repository.EmployeeRepository, authService *AuthService) *EmployeeService {
	return &EmployeeService{employeeRepo: employeeRepo, authService: authService}
}

// ListEmployees retrieves all employees ordered by name.
func (s *EmployeeService) ListEmployees(ctx context.Context) ([]model.Employee, error) {
	return s.employeeRepo.List(ctx)
}

// GetEmployeeByID retrieves an employee.
func (s *EmployeeService) GetEmployeeByID(ctx context.Context, id int) (*model.Employee, error) {
	return s.employeeRepo.GetByID(ctx, id)
}

// CreateEmployee registers a new employee with a hashed password.
func (s *EmployeeService) CreateEmployee(ctx context.Context, name, email, password string, roleID int) (*model.Employee, error) {
	hash, err := s.authService.HashPassword(password)
	if err != nil {
		return nil, err
	}

	emp := &model.Employee{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		RoleID:       roleID,
	}
	if err := s.employeeRepo.Create(ctx, emp); err != nil {
		return nil, err
	}
	return emp, nil
}

// UpdateEmployee updates an employee's profile. An empty password keeps the
// current one; a role change takes effect on the employee's next login.
func (s *EmployeeService) UpdateEmployee(ctx context.Context, id int, name, email, password string, roleID int) (*model.Employee, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	emp.Name = name
	emp.Email = email
	emp.RoleID = roleID
	emp.PasswordHash = ""
	if password != "" {
		hash, err := s.authService.HashPassword(password)
		if err != nil {
			return nil, err
		}
		emp.PasswordHash = hash
	}

	if err := s.employeeRepo.Update(ctx, emp); err != nil {
		return nil, err
	}
	return emp, nil
}

// DeleteEmployee removes an employee and revokes any active session.
func (s *EmployeeService) DeleteEmployee(ctx context.Context, id int) error {
	if err := s.employeeRepo.Delete(ctx, id); err != nil {
		return err
	}
	return s.authService.Logout(ctx, id)
}

// Login verifies credentials and issues a JWT.
func (s *EmployeeService) Login(ctx context.Context, email, password string) (string, *model.Employee, error) {
	emp, err := s.employeeRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := s.authService.CheckPassword(emp.PasswordHash, password); err != nil {
		return "", nil, err
	}

	token, err := s.authService.GenerateToken(ctx, emp)
	if err != nil {
		return "", nil, err
	}
	return token, emp, nil
}
