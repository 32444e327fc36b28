package customer

import (
	"context"
	"errors"
	"io"
	"log"

	"dancehub-storefront/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Create(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	const q = `
INSERT INTO customers (email, password_hash, first_name, last_name, subscription_plan)
VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5)
RETURNING id::text, email, password_hash, COALESCE(first_name, ''), COALESCE(last_name, ''), subscription_plan, created_at
`
	var out domain.Customer
	err := r.pool.QueryRow(ctx, q, c.Email, c.PasswordHash, c.FirstName, c.LastName, c.SubscriptionPlan).Scan(
		&out.ID,
		&out.Email,
		&out.PasswordHash,
		&out.FirstName,
		&out.LastName,
		&out.SubscriptionPlan,
		&out.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("customer repo: create email=%s error=%v", c.Email, err)
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	const q = `
SELECT id::text, email, password_hash, COALESCE(first_name, ''), COALESCE(last_name, ''), subscription_plan, created_at
FROM customers
WHERE email = $1
`
	return r.fetch(ctx, q, email)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	const q = `
SELECT id::text, email, password_hash, COALESCE(first_name, ''), COALESCE(last_name, ''), subscription_plan, created_at
FROM customers
WHERE id = $1
`
	return r.fetch(ctx, q, id)
}

func (r *postgresRepo) SetSubscriptionPlan(ctx context.Context, id, plan string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE customers SET subscription_plan = $1 WHERE id = $2`, plan, id)
	if err != nil {
		r.logger.Printf("customer repo: set plan id=%s error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) fetch(ctx context.Context, query, arg string) (*domain.Customer, error) {
	var out domain.Customer
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&out.ID,
		&out.Email,
		&out.PasswordHash,
		&out.FirstName,
		&out.LastName,
		&out.SubscriptionPlan,
		&out.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("customer repo: fetch error=%v", err)
		return nil, err
	}
	return &out, nil
}
