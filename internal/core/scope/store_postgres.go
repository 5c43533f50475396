package scope

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tipon-events/tipon/internal/platform/database/schema"
	"github.com/tipon-events/tipon/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) GetScope(ctx context.Context, code string) (*Scope, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
	`,
		schema.RefScope.Code, schema.RefScope.Name, schema.RefScope.Venue,
		schema.RefScope.AdmissionLimit, schema.RefScope.AlertThreshold,
		schema.RefScope.GeoMode, schema.RefScope.GeoPrefixes,
		schema.RefScope.Timezone, schema.RefScope.StartsOn, schema.RefScope.EndsOn,
		schema.RefScope.Table, schema.RefScope.Code,
	)

	s := &Scope{}
	err := repository.db.QueryRow(ctx, query, code).Scan(
		&s.Code, &s.Name, &s.Venue, &s.AdmissionLimit, &s.AlertThreshold,
		&s.GeoMode, &s.GeoPrefixes, &s.Timezone, &s.StartsOn, &s.EndsOn,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "get_scope")
	}
	return s, nil
}
