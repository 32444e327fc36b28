package resource

import (
	"context"
	"errors"
	"io"
	"log"

	"dancehub-storefront/internal/domain"
	"github.com/jackc/pgx/v5"
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

func (r *postgresRepo) List(ctx context.Context) ([]domain.Resource, error) {
	const q = `
SELECT id, title, COALESCE(description, ''), price::text, image_url, created_at
FROM resources
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("resource repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Resource
	for rows.Next() {
		var res domain.Resource
		if err := rows.Scan(&res.ID, &res.Title, &res.Description, &res.Price, &res.ImageURL, &res.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, res)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("resource repo: list rows error=%v", err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Resource, error) {
	const q = `
SELECT id, title, COALESCE(description, ''), price::text, image_url, created_at
FROM resources
WHERE id = $1
`
	var res domain.Resource
	err := r.pool.QueryRow(ctx, q, id).Scan(&res.ID, &res.Title, &res.Description, &res.Price, &res.ImageURL, &res.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("resource repo: get id=%d error=%v", id, err)
		return nil, err
	}
	return &res, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, in domain.Resource) (*domain.Resource, error) {
	const q = `
INSERT INTO resources (id, title, description, price, image_url)
VALUES (COALESCE(NULLIF($1, 0), nextval('resources_id_seq')), $2, NULLIF($3, ''), $4::numeric, $5)
ON CONFLICT (id) DO UPDATE SET
    title = EXCLUDED.title,
    description = EXCLUDED.description,
    price = EXCLUDED.price,
    image_url = EXCLUDED.image_url
RETURNING id, title, COALESCE(description, ''), price::text, image_url, created_at
`
	var res domain.Resource
	err := r.pool.QueryRow(ctx, q, in.ID, in.Title, in.Description, in.Price, in.ImageURL).Scan(
		&res.ID,
		&res.Title,
		&res.Description,
		&res.Price,
		&res.ImageURL,
		&res.CreatedAt,
	)
	if err != nil {
		r.logger.Printf("resource repo: upsert title=%q error=%v", in.Title, err)
		return nil, err
	}
	return &res, nil
}
