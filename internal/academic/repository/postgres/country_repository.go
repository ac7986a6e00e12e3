package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/AnthoniusHendriyanto/academy-service/internal/academic/domain"
	authrepo "github.com/AnthoniusHendriyanto/academy-service/internal/auth/repository/postgres"
)

type CountryRepository struct {
	db authrepo.DBTX
}

func NewCountryRepository(db authrepo.DBTX) *CountryRepository {
	return &CountryRepository{db: db}
}

func (r *CountryRepository) GetByID(ctx context.Context, id int64) (*domain.Country, error) {
	var c domain.Country
	err := r.db.QueryRow(ctx, `SELECT id, name, code FROM countries WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get country: %w", err)
	}
	return &c, nil
}

func (r *CountryRepository) List(ctx context.Context) ([]domain.Country, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, code FROM countries ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list countries: %w", err)
	}
	defer rows.Close()

	countries := []domain.Country{}
	for rows.Next() {
		var c domain.Country
		if err := rows.Scan(&c.ID, &c.Name, &c.Code); err != nil {
			return nil, fmt.Errorf("failed to scan country: %w", err)
		}
		countries = append(countries, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list countries: %w", err)
	}
	return countries, nil
}

// Upsert inserts the country or renames the existing row with the same code.
func (r *CountryRepository) Upsert(ctx context.Context, country *domain.Country) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO countries (name, code)
		VALUES ($1, $2)
		ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`,
		country.Name, country.Code,
	).Scan(&country.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert country %s: %w", country.Code, err)
	}
	return nil
}
