package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/payhub/payhub-backend/internal/model"
)

type InvoiceTypeRepository struct {
	pool *pgxpool.Pool
}

func NewInvoiceTypeRepository(pool *pgxpool.Pool) *InvoiceTypeRepository {
	return &InvoiceTypeRepository{pool: pool}
}

func (r *InvoiceTypeRepository) Create(ctx context.Context, t *model.InvoiceType) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO invoice_types (name) VALUES ($1) RETURNING id, created_at`,
		t.Name).Scan(&t.ID, &t.CreatedAt)
}

func (r *InvoiceTypeRepository) GetAll(ctx context.Context) ([]model.InvoiceType, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, created_at FROM invoice_types ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []model.InvoiceType
	for rows.Next() {
		var t model.InvoiceType
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

func (r *InvoiceTypeRepository) Update(ctx context.Context, t *model.InvoiceType) error {
	_, err := r.pool.Exec(ctx, `UPDATE invoice_types SET name = $1 WHERE id = $2`, t.Name, t.ID)
	return err
}

func (r *InvoiceTypeRepository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM invoice_types WHERE id = $1`, id)
	return err
}
