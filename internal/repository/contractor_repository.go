package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/payhub/payhub-backend/internal/model"
)

type ContractorRepository struct {
	pool *pgxpool.Pool
}

func NewContractorRepository(pool *pgxpool.Pool) *ContractorRepository {
	return &ContractorRepository{pool: pool}
}

func (r *ContractorRepository) Create(ctx context.Context, c *model.Contractor) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO contractors (name, tax_id, email, phone)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		c.Name, c.TaxID, c.Email, c.Phone,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *ContractorRepository) GetByID(ctx context.Context, id int) (*model.Contractor, error) {
	c := &model.Contractor{ID: id}
	err := r.pool.QueryRow(ctx,
		`SELECT name, tax_id, email, phone, created_at, updated_at FROM contractors WHERE id = $1`, id,
	).Scan(&c.Name, &c.TaxID, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *ContractorRepository) List(ctx context.Context) ([]model.Contractor, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, tax_id, email, phone, created_at, updated_at
		 FROM contractors ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contractors []model.Contractor
	for rows.Next() {
		var c model.Contractor
		if err := rows.Scan(&c.ID, &c.Name, &c.TaxID, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		contractors = append(contractors, c)
	}
	return contractors, rows.Err()
}

func (r *ContractorRepository) Update(ctx context.Context, c *model.Contractor) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE contractors
		 SET name = $1, tax_id = $2, email = $3, phone = $4, updated_at = NOW()
		 WHERE id = $5`,
		c.Name, c.TaxID, c.Email, c.Phone, c.ID)
	return err
}

func (r *ContractorRepository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM contractors WHERE id = $1`, id)
	return err
}
