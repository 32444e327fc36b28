package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type resourceSeed struct {
	ID          int64
	Title       string
	Description string
	Price       string
	ImageURL    string
}

// Apply inserts basic catalog data for manual testing. It is idempotent via
// ON CONFLICT on fixed resource ids.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	resources := []resourceSeed{
		{
			ID:          1,
			Title:       "Ballet Basics: Positions and Posture",
			Description: "A first-year unit covering the five positions, barre etiquette and posture drills",
			Price:       "12.00",
			ImageURL:    "https://cdn.dancehub.example/images/resources/1/cover.png",
		},
		{
			ID:          2,
			Title:       "Jazz Warm-Up Sequences",
			Description: "Eight ready-to-teach warm-up sequences with printable counts",
			Price:       "8.50",
			ImageURL:    "https://cdn.dancehub.example/images/resources/2/cover.png",
		},
		{
			ID:          3,
			Title:       "Choreography Planning Workbook",
			Description: "Blank formation grids and phrase-mapping worksheets for recital pieces",
			Price:       "15.00",
			ImageURL:    "https://cdn.dancehub.example/images/resources/3/cover.png",
		},
		{
			ID:          4,
			Title:       "Tap Rhythms for Beginners",
			Description: "Shuffle, flap and cramp-roll progressions with audio reference tracks",
			Price:       "9.75",
			ImageURL:    "https://cdn.dancehub.example/images/resources/4/cover.png",
		},
	}

	for _, r := range resources {
		if err := upsertResource(ctx, pool, r); err != nil {
			return fmt.Errorf("upsert resource %d: %w", r.ID, err)
		}
	}

	// Seeded rows carry explicit ids; move the sequence past them so later
	// inserts do not collide.
	const bump = `SELECT setval('resources_id_seq', (SELECT MAX(id) FROM resources))`
	if _, err := pool.Exec(ctx, bump); err != nil {
		return fmt.Errorf("bump resources sequence: %w", err)
	}

	return nil
}

func upsertResource(ctx context.Context, pool *pgxpool.Pool, r resourceSeed) error {
	const q = `
INSERT INTO resources (id, title, description, price, image_url)
VALUES ($1, $2, $3, $4::numeric, $5)
ON CONFLICT (id) DO UPDATE
SET title = EXCLUDED.title,
    description = EXCLUDED.description,
    price = EXCLUDED.price,
    image_url = EXCLUDED.image_url
`
	_, err := pool.Exec(ctx, q, r.ID, r.Title, r.Description, r.Price, r.ImageURL)
	if err != nil {
		return err
	}
	return nil
}
