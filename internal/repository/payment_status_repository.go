package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/payhub/payhub-backend/internal/model"
)

type PaymentStatusRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentStatusRepository(pool *pgxpool.Pool) *PaymentStatusRepository {
	return &PaymentStatusRepository{pool: pool}
}

func (r *PaymentStatusRepository) Create(ctx context.Context, s *model.PaymentStatus) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO payment_statuses (name, color) VALUES ($1, $2) RETURNING id, created_at`,
		s.Name, s.Color).Scan(&s.ID, &s.CreatedAt)
}

func (r *PaymentStatusRepository) GetAll(ctx context.Context) ([]model.PaymentStatus, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, color, created_at FROM payment_statuses ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statuses []model.PaymentStatus
	for rows.Next() {
		var s model.PaymentStatus
		if err := rows.Scan(&s.ID, &s.Name, &s.Color, &s.CreatedAt); err != nil {
			return nil, err
		}
		statuses = append(statuses, s)
	}
	return statuses, rows.Err()
}

func (r *PaymentStatusRepository) Update(ctx context.Context, s *model.PaymentStatus) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE payment_statuses SET name = $1, color = $2 WHERE id = $3`, s.Name, s.Color, s.ID)
	return err
}

func (r *PaymentStatusRepository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM payment_statuses WHERE id = $1`, id)
	return err
}
