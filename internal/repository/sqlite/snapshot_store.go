package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"go.uber.org/zap"

	"github.com/fuelstation-microservice/internal/domain"
	"github.com/fuelstation-microservice/internal/domain/repository"
)

// Встраиваемый стор генераций, бэкенд по умолчанию для одноузловых
// развёртываний. Времена хранятся текстом RFC3339: формат не зависит
// от договорённостей драйвера.
const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	generation   TEXT PRIMARY KEY,
	built_at     TEXT NOT NULL,
	total_count  INTEGER NOT NULL,
	total_states INTEGER NOT NULL,
	total_cities INTEGER NOT NULL,
	total_brands INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS stations (
	generation     TEXT NOT NULL,
	position       INTEGER NOT NULL,
	id             TEXT NOT NULL,
	name           TEXT NOT NULL,
	brand          TEXT NOT NULL,
	address        TEXT NOT NULL,
	neighborhood   TEXT NOT NULL,
	city           TEXT NOT NULL,
	state          TEXT NOT NULL,
	latitude       REAL NOT NULL,
	longitude      REAL NOT NULL,
	price_gasoline REAL,
	price_ethanol  REAL,
	price_diesel   REAL,
	price_cng      REAL,
	collected_at   TEXT NOT NULL,
	source         TEXT NOT NULL,
	merged_sources TEXT,
	PRIMARY KEY (generation, position)
);
`

type snapshotStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// New открывает (или создаёт) файл стора и готовит схему
func New(path string, logger *zap.Logger) (repository.SnapshotStore, error) {
	db, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, pragma := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("configure sqlite: %w", err)
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create sqlite schema: %w", err)
	}

	logger.Info("SQLite snapshot store ready", zap.String("path", path))

	return &snapshotStore{db: db, logger: logger}, nil
}

// Save пишет генерацию одной транзакцией: либо видна целиком, либо никак
func (s *snapshotStore) Save(ctx context.Context, data *domain.SnapshotData) error {
	tx, err := s.db.BeginTx(ctx, nil)
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
		 VALUES (?, ?, ?, ?, ?, ?)`,
		data.Meta.Generation,
		data.Meta.BuiltAt.UTC().Format(time.RFC3339Nano),
		data.Meta.TotalCount,
		data.Meta.TotalStates,
		data.Meta.TotalCities,
		data.Meta.TotalBrands,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot meta: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO stations (generation, position, id, name, brand, address, neighborhood, city, state,
		                       latitude, longitude, price_gasoline, price_ethanol, price_diesel, price_cng,
		                       collected_at, source, merged_sources)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare station insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range data.Records {
		merged, err := mergedSourcesJSON(rec.MergedSources)
		if err != nil {
			return fmt.Errorf("encode merged sources of %s: %w", rec.ID, err)
		}

		_, err = stmt.ExecContext(ctx,
			data.Meta.Generation, i,
			rec.ID, rec.Name, rec.Brand, rec.Address, rec.Neighborhood, rec.City, rec.State,
			rec.Latitude, rec.Longitude,
			rec.PriceGasoline, rec.PriceEthanol, rec.PriceDiesel, rec.PriceCNG,
			rec.CollectedAt.UTC().Format(time.RFC3339Nano), rec.Source, merged,
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
	row := s.db.QueryRowContext(ctx,
		`SELECT generation, built_at, total_count, total_states, total_cities, total_brands
		 FROM snapshots ORDER BY built_at DESC, generation DESC LIMIT 1`)

	meta, err := scanMeta(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load latest snapshot meta: %w", err)
	}

	return s.loadRecords(ctx, meta)
}

func (s *snapshotStore) LoadGeneration(ctx context.Context, generation string) (*domain.SnapshotData, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT generation, built_at, total_count, total_states, total_cities, total_brands
		 FROM snapshots WHERE generation = ?`, generation)

	meta, err := scanMeta(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("snapshot generation %s not found", generation)
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot meta: %w", err)
	}

	return s.loadRecords(ctx, meta)
}

func (s *snapshotStore) ListGenerations(ctx context.Context, limit int) ([]domain.SnapshotMeta, error) {
	if limit <= 0 {
		limit = -1 // без ограничения
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT generation, built_at, total_count, total_states, total_cities, total_brands
		 FROM snapshots ORDER BY built_at DESC, generation DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list generations: %w", err)
	}
	defer rows.Close()

	var metas []domain.SnapshotMeta
	for rows.Next() {
		meta, err := scanMeta(rows)
		if err != nil {
			return nil, fmt.Errorf("scan generation: %w", err)
		}
		metas = append(metas, meta)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list generations: %w", err)
	}
	return metas, nil
}

// Prune удаляет всё, кроме keep самых свежих генераций.
// Станции чистятся явно, без расчёта на каскад: прагма foreign_keys
// действует на соединение, а не на базу.
func (s *snapshotStore) Prune(ctx context.Context, keep int) (int, error) {
	if keep <= 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin prune transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			s.logger.Warn("Prune rollback failed", zap.Error(err))
		}
	}()

	const keepQuery = `SELECT generation FROM snapshots ORDER BY built_at DESC, generation DESC LIMIT ?`

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM stations WHERE generation NOT IN (`+keepQuery+`)`, keep); err != nil {
		return 0, fmt.Errorf("prune stations: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM snapshots WHERE generation NOT IN (`+keepQuery+`)`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}

	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count pruned snapshots: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit prune: %w", err)
	}

	return int(removed), nil
}

func (s *snapshotStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *snapshotStore) Close() error {
	s.logger.Info("Closing SQLite snapshot store")
	return s.db.Close()
}

func (s *snapshotStore) loadRecords(ctx context.Context, meta domain.SnapshotMeta) (*domain.SnapshotData, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, brand, address, neighborhood, city, state,
		        latitude, longitude, price_gasoline, price_ethanol, price_diesel, price_cng,
		        collected_at, source, merged_sources
		 FROM stations WHERE generation = ? ORDER BY position`, meta.Generation)
	if err != nil {
		return nil, fmt.Errorf("load stations of %s: %w", meta.Generation, err)
	}
	defer rows.Close()

	records := make([]domain.StationRecord, 0, meta.TotalCount)
	for rows.Next() {
		var (
			rec         domain.StationRecord
			collectedAt string
			merged      sql.NullString
		)
		err := rows.Scan(
			&rec.ID, &rec.Name, &rec.Brand, &rec.Address, &rec.Neighborhood, &rec.City, &rec.State,
			&rec.Latitude, &rec.Longitude,
			&rec.PriceGasoline, &rec.PriceEthanol, &rec.PriceDiesel, &rec.PriceCNG,
			&collectedAt, &rec.Source, &merged,
		)
		if err != nil {
			return nil, fmt.Errorf("scan station: %w", err)
		}

		rec.CollectedAt, err = time.Parse(time.RFC3339Nano, collectedAt)
		if err != nil {
			return nil, fmt.Errorf("parse collected_at of %s: %w", rec.ID, err)
		}

		if merged.Valid && merged.String != "" {
			if err := json.Unmarshal([]byte(merged.String), &rec.MergedSources); err != nil {
				return nil, fmt.Errorf("decode merged sources of %s: %w", rec.ID, err)
			}
		}

		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load stations of %s: %w", meta.Generation, err)
	}

	return &domain.SnapshotData{Meta: meta, Records: records}, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMeta(row rowScanner) (domain.SnapshotMeta, error) {
	var (
		meta    domain.SnapshotMeta
		builtAt string
	)
	err := row.Scan(&meta.Generation, &builtAt,
		&meta.TotalCount, &meta.TotalStates, &meta.TotalCities, &meta.TotalBrands)
	if err != nil {
		return domain.SnapshotMeta{}, err
	}

	meta.BuiltAt, err = time.Parse(time.RFC3339Nano, builtAt)
	if err != nil {
		return domain.SnapshotMeta{}, fmt.Errorf("parse built_at: %w", err)
	}
	return meta, nil
}

func mergedSourcesJSON(sources []string) (sql.NullString, error) {
	if len(sources) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(sources)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}
