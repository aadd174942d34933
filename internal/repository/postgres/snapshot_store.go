package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/fuelstation-microservice/internal/domain"
	"github.com/fuelstation-microservice/internal/domain/repository"
)

// Стор генераций для многоузловых развёртываний: воркер пишет, API-узлы
// читают. Каскад по generation чистит станции вместе с генерацией.
const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	generation   TEXT PRIMARY KEY,
	built_at     TIMESTAMPTZ NOT NULL,
	total_count  INTEGER NOT NULL,
	total_states INTEGER NOT NULL,
	total_cities INTEGER NOT NULL,
	total_brands INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS stations (
	generation     TEXT NOT NULL REFERENCES snapshots(generation) ON DELETE CASCADE,
	position       INTEGER NOT NULL,
	id             TEXT NOT NULL,
	name           TEXT NOT NULL,
	brand          TEXT NOT NULL,
	address        TEXT NOT NULL,
	neighborhood   TEXT NOT NULL,
	city           TEXT NOT NULL,
	state          TEXT NOT NULL,
	latitude       DOUBLE PRECISION NOT NULL,
	longitude      DOUBLE PRECISION NOT NULL,
	price_gasoline DOUBLE PRECISION,
	price_ethanol  DOUBLE PRECISION,
	price_diesel   DOUBLE PRECISION,
	price_cng      DOUBLE PRECISION,
	collected_at   TIMESTAMPTZ NOT NULL,
	source         TEXT NOT NULL,
	merged_sources JSONB,
	PRIMARY KEY (generation, position)
);
`

type snapshotStore struct {
	db     *DB
	logger *zap.Logger
}

// NewSnapshotStore готовит схему и возвращает стор поверх общего пула
func NewSnapshotStore(ctx context.Context, db *DB, logger *zap.Logger) (repository.SnapshotStore, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("create snapshot schema: %w", err)
	}
	return &snapshotStore{db: db, logger: logger}, nil
}

func (s *snapshotStore) Save(ctx context.Context, data *domain.SnapshotData) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			s.logger.Warn("Snapshot save rollback failed", zap.Error(err))
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO snapshots (generation, built_at, total_count, total_states, total_cities, total_brands)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		data.Meta.Generation, data.Meta.BuiltAt.UTC(),
		data.Meta.TotalCount, data.Meta.TotalStates, data.Meta.TotalCities, data.Meta.TotalBrands,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot meta: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO stations (generation, position, id, name, brand, address, neighborhood, city, state,
		                       latitude, longitude, price_gasoline, price_ethanol, price_diesel, price_cng,
		                       collected_at, source, merged_sources)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`)
	if err != nil {
		return fmt.Errorf("prepare station insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range data.Records {
		merged, err := encodeMergedSources(rec.MergedSources)
		if err != nil {
			return fmt.Errorf("encode merged sources of %s: %w", rec.ID, err)
		}

		_, err = stmt.ExecContext(ctx,
			data.Meta.Generation, i,
			rec.ID, rec.Name, rec.Brand, rec.Address, rec.Neighborhood, rec.City, rec.State,
			rec.Latitude, rec.Longitude,
			rec.PriceGasoline, rec.PriceEthanol, rec.PriceDiesel, rec.PriceCNG,
			rec.CollectedAt.UTC(), rec.Source, merged,
		)
		if err != nil {
			return fmt.Errorf("insert station %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot save: %w", err)
	}

	s.logger.Debug("Snapshot generation saved",
		zap.String("generation", data.Meta.Generation),
		zap.Int("stations", len(data.Records)))
	return nil
}

func (s *snapshotStore) LoadLatest(ctx context.Context) (*domain.SnapshotData, error) {
	var meta domain.SnapshotMeta
	err := s.db.GetContext(ctx, &meta,
		`SELECT generation, built_at, total_count, total_states, total_cities, total_brands
		 FROM snapshots ORDER BY built_at DESC, generation DESC LIMIT 1`)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load latest snapshot meta: %w", err)
	}

	return s.loadRecords(ctx, meta)
}

func (s *snapshotStore) LoadGeneration(ctx context.Context, generation string) (*domain.SnapshotData, error) {
	var meta domain.SnapshotMeta
	err := s.db.GetContext(ctx, &meta,
		`SELECT generation, built_at, total_count, total_states, total_cities, total_brands
		 FROM snapshots WHERE generation = $1`, generation)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("snapshot generation %s not found", generation)
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot meta: %w", err)
	}

	return s.loadRecords(ctx, meta)
}

func (s *snapshotStore) ListGenerations(ctx context.Context, limit int) ([]domain.SnapshotMeta, error) {
	query := `SELECT generation, built_at, total_count, total_states, total_cities, total_brands
	          FROM snapshots ORDER BY built_at DESC, generation DESC`

	var (
		metas []domain.SnapshotMeta
		err   error
	)
	if limit > 0 {
		err = s.db.SelectContext(ctx, &metas, query+` LIMIT $1`, limit)
	} else {
		err = s.db.SelectContext(ctx, &metas, query)
	}
	if err != nil {
		return nil, fmt.Errorf("list generations: %w", err)
	}
	return metas, nil
}

func (s *snapshotStore) Prune(ctx context.Context, keep int) (int, error) {
	if keep <= 0 {
		return 0, nil
	}

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM snapshots WHERE generation NOT IN (
		     SELECT generation FROM snapshots ORDER BY built_at DESC, generation DESC LIMIT $1
		 )`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}

	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count pruned snapshots: %w", err)
	}
	return int(removed), nil
}

func (s *snapshotStore) Health(ctx context.Context) error {
	return s.db.Health(ctx)
}

func (s *snapshotStore) Close() error {
	return s.db.Close()
}

// stationRow расширяет запись колонкой merged_sources: в записи это поле
// не маппится на колонку напрямую
type stationRow struct {
	domain.StationRecord
	MergedSources []byte `db:"merged_sources"`
}

func (s *snapshotStore) loadRecords(ctx context.Context, meta domain.SnapshotMeta) (*domain.SnapshotData, error) {
	var rows []stationRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT id, name, brand, address, neighborhood, city, state,
		        latitude, longitude, price_gasoline, price_ethanol, price_diesel, price_cng,
		        collected_at, source, merged_sources
		 FROM stations WHERE generation = $1 ORDER BY position`, meta.Generation)
	if err != nil {
		return nil, fmt.Errorf("load stations of %s: %w", meta.Generation, err)
	}

	records := make([]domain.StationRecord, 0, len(rows))
	for _, row := range rows {
		rec := row.StationRecord
		if len(row.MergedSources) > 0 {
			if err := json.Unmarshal(row.MergedSources, &rec.MergedSources); err != nil {
				return nil, fmt.Errorf("decode merged sources of %s: %w", rec.ID, err)
			}
		}
		records = append(records, rec)
	}

	return &domain.SnapshotData{Meta: meta, Records: records}, nil
}

func encodeMergedSources(sources []string) (sql.NullString, error) {
	if len(sources) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(sources)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}
