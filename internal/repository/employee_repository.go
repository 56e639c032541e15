package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/payhub/payhub-backend/internal/model"
)

// EmployeeRepository handles employee (system user) data access.
type EmployeeRepository struct {
	pool *pgxpool.Pool
}

// NewEmployeeRepository creates a new EmployeeRepository.
func NewEmployeeRepository(pool *pgxpool.Pool) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// GetByEmail retrieves an employee by email, including the password hash.
func (r *EmployeeRepository) GetByEmail(ctx context.Context, email string) (*model.Employee, error) {
	e := &model.Employee{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, email, password_hash, role_id, created_at
		 FROM employees WHERE email = $1`, email,
	).Scan(&e.ID, &e.Name, &e.Email, &e.PasswordHash, &e.RoleID, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// GetByID retrieves an employee by ID.
func (r *EmployeeRepository) GetByID(ctx context.Context, id int) (*model.Employee, error) {
	e := &model.Employee{ID: id}
	err := r.pool.QueryRow(ctx,
		`SELECT name, email, password_hash, role_id, created_at
		 FROM employees WHERE id = $1`, id,
	).Scan(&e.Name, &e.Email, &e.PasswordHash, &e.RoleID, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// List retrieves all employees ordered by name.
func (r *EmployeeRepository) List(ctx context.Context) ([]model.Employee, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, email, role_id, created_at FROM employees ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []model.Employee
	for rows.Next() {
		var e model.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Email, &e.RoleID, &e.CreatedAt); err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// Create inserts a new employee.
func (r *EmployeeRepository) Create(ctx context.Context, e *model.Employee) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO employees (name, email, password_hash, role_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		e.Name, e.Email, e.PasswordHash, e.RoleID,
	).Scan(&e.ID, &e.CreatedAt)
}

// Update updates an employee's profile. The password hash is only replaced
// when non-empty.
func (r *EmployeeRepository) Update(ctx context.Context, e *model.Employee) error {
	if e.PasswordHash != "" {
		_, err := r.pool.Exec(ctx,
			`UPDATE employees SET name = $1, email = $2, role_id = $3, password_hash = $4 WHERE id = $5`,
			e.Name, e.Email, e.RoleID, e.PasswordHash, e.ID)
		return err
	}
	_, err := r.pool.Exec(ctx,
		`UPDATE employees SET name = $1, email = $2, role_id = $3 WHERE id = $4`,
		e.Name, e.Email, e.RoleID, e.ID)
	return err
}

// Delete removes an employee.
func (r *EmployeeRepository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	return err
}
