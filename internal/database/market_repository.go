package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/mohammadak95/yemen-market-analysis-go/internal/models"
)

// DatabasePool defines the read surface the repository needs from a pool.
// This interface allows for both real pool and mock pool implementations.
type DatabasePool interface {
	// QueryRow executes a query that is expected to return at most one row.
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	// Query executes a query that returns rows.
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// MarketRepository loads commodity price observations and precomputed
// spatial-autocorrelation rows. Prices are stored NUMERIC and scanned into
// decimals; they convert to float64 only at the analysis boundary.
type MarketRepository struct {
	pool DatabasePool
}

// NewMarketRepository creates a repository over the given pool.
func NewMarketRepository(pool DatabasePool) *MarketRepository {
	return &MarketRepository{pool: pool}
}

// FetchObservations returns price observations for a commodity in the date
// range, ordered by (region, observed_at). Rows that fail to scan are
// skipped.
func (r *MarketRepository) FetchObservations(ctx context.Context, commodity string, from, to time.Time) ([]models.Observation, error) {
	query := `
		SELECT region, observed_at, price, COALESCE(conflict_intensity, 0)
		FROM price_observations
		WHERE commodity = $1 AND observed_at BETWEEN $2 AND $3
		ORDER BY region, observed_at
	`

	rows, err := r.pool.Query(ctx, query, commodity, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query price observations: %w", err)
	}
	defer rows.Close()

	var observations []models.Observation
	for rows.Next() {
		var (
			region    string
			observed  time.Time
			price     decimal.Decimal
			intensity decimal.Decimal
		)
		if err := rows.Scan(&region, &observed, &price, &intensity); err != nil {
			continue
		}
		observations = append(observations, models.Observation{
			Region:            region,
			Timestamp:         observed,
			Price:             price.InexactFloat64(),
			ConflictIntensity: intensity.InexactFloat64(),
		})
	}

	return observations, nil
}

// FetchSpatialCorrelation loads the global Moran's I and per-region local
// indicators for a commodity. A commodity with no spatial rows returns nil,
// which downstream analyzers treat as insufficient data.
func (r *MarketRepository) FetchSpatialCorrelation(ctx context.Context, commodity string) (*models.SpatialCorrelation, error) {
	var globalI decimal.Decimal
	err := r.pool.QueryRow(ctx,
		`SELECT global_i FROM spatial_global WHERE commodity = $1`,
		commodity,
	).Scan(&globalI)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query global autocorrelation: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT region, local_i FROM spatial_local WHERE commodity = $1`,
		commodity,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query local autocorrelation: %w", err)
	}
	defer rows.Close()

	spatial := &models.SpatialCorrelation{
		GlobalI: globalI.InexactFloat64(),
		Local:   make(map[string]models.LocalIndicator),
	}
	for rows.Next() {
		var (
			region string
			localI decimal.Decimal
		)
		if err := rows.Scan(&region, &localI); err != nil {
			continue
		}
		spatial.Local[region] = models.LocalIndicator{LocalI: localI.InexactFloat64()}
	}

	return spatial, nil
}

// ListCommodities returns the distinct commodities with stored observations.
func (r *MarketRepository) ListCommodities(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT commodity FROM price_observations ORDER BY commodity`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query commodities: %w", err)
	}
	defer rows.Close()

	var commodities []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			continue
		}
		commodities = append(commodities, c)
	}

	return commodities, nil
}
