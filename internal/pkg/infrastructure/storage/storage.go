package storage

import (
	"context"
	"fmt"

	"github.com/CTU-SematX/LegoCity/pkg/ngsild/types"
	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EntityStore persists serialized entity documents keyed by id and
// grouped by type.
type EntityStore interface {
	Types(ctx context.Context) ([]string, error)
	GetByType(ctx context.Context, entityType string) ([]EntityRecord, error)
	ReplaceAllOfType(ctx context.Context, entityType string, entitySet []types.Entity) (int, error)
	Upsert(ctx context.Context, e types.Entity) error
	Close()
}

type EntityRecord struct {
	ID   string
	Type string
	Data []byte
}

type Config struct {
	host     string
	user     string
	password string
	port     string
	dbname   string
	sslmode  string
}

func LoadConfiguration(ctx context.Context) Config {
	return Config{
		host:     env.GetVariableOrDefault(ctx, "POSTGRES_HOST", ""),
		user:     env.GetVariableOrDefault(ctx, "POSTGRES_USER", ""),
		password: env.GetVariableOrDefault(ctx, "POSTGRES_PASSWORD", ""),
		port:     env.GetVariableOrDefault(ctx, "POSTGRES_PORT", "5432"),
		dbname:   env.GetVariableOrDefault(ctx, "POSTGRES_DBNAME", "legocity"),
		sslmode:  env.GetVariableOrDefault(ctx, "POSTGRES_SSLMODE", "disable"),
	}
}

func (c Config) ConnStr() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", c.user, c.password, c.host, c.port, c.dbname, c.sslmode)
}

func Connect(ctx context.Context, cfg Config) (EntityStore, error) {
	pool, err := pgxpool.New(ctx, cfg.ConnStr())
	if err != nil {
		return nil, err
	}

	err = pool.Ping(ctx)
	if err != nil {
		return nil, err
	}

	store := &entityStore{pool: pool}

	err = store.initialize(ctx)
	if err != nil {
		pool.Close()
		return nil, err
	}

	return store, nil
}

type entityStore struct {
	pool *pgxpool.Pool
}

func (s *entityStore) initialize(ctx context.Context) error {
	sql := `
		CREATE TABLE IF NOT EXISTS entities (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			data JSONB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS entities_type_idx ON entities (type);`

	_, err := s.pool.Exec(ctx, sql)
	return err
}

func (s *entityStore) Types(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT type FROM entities ORDER BY type;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entityTypes := make([]string, 0)

	for rows.Next() {
		var t string
		err := rows.Scan(&t)
		if err != nil {
			return nil, err
		}
		entityTypes = append(entityTypes, t)
	}

	return entityTypes, rows.Err()
}

func (s *entityStore) GetByType(ctx context.Context, entityType string) ([]EntityRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, type, data FROM entities WHERE type=$1 ORDER BY id;`, entityType,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]EntityRecord, 0)

	for rows.Next() {
		record := EntityRecord{}
		err := rows.Scan(&record.ID, &record.Type, &record.Data)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// ReplaceAllOfType swaps the stored set of one type for the given
// entities in a single transaction. Entities without an id are not
// addressable and do not count towards the result.
func (s *entityStore) ReplaceAllOfType(ctx context.Context, entityType string, entitySet []types.Entity) (int, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `DELETE FROM entities WHERE type=$1;`, entityType)
	if err != nil {
		return 0, err
	}

	stored := 0

	for _, e := range entitySet {
		if e.ID() == "" {
			continue
		}

		data, err := e.MarshalJSON()
		if err != nil {
			return 0, err
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO entities (id, type, data) VALUES ($1, $2, $3)
			 ON CONFLICT (id) DO UPDATE SET type=excluded.type, data=excluded.data;`,
			e.ID(), entityType, data,
		)
		if err != nil {
			return 0, err
		}

		stored++
	}

	err = tx.Commit(ctx)
	if err != nil {
		return 0, err
	}

	return stored, nil
}

func (s *entityStore) Upsert(ctx context.Context, e types.Entity) error {
	if e.ID() == "" {
		return fmt.Errorf("entity has no id")
	}

	data, err := e.MarshalJSON()
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO entities (id, type, data) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET type=excluded.type, data=excluded.data;`,
		e.ID(), e.Type(), data,
	)

	return err
}

func (s *entityStore) Close() {
	s.pool.Close()
}
