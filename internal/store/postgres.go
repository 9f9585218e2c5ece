package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Postgres persists share records in a shared_itineraries table with a JSONB
// payload. Expiry is a nullable timestamp filtered on read.
type Postgres struct {
	db *sql.DB
}

const schema = `CREATE TABLE IF NOT EXISTS shared_itineraries (
    share_id   text PRIMARY KEY,
    payload    jsonb NOT NULL,
    created_at timestamptz NOT NULL DEFAULT now(),
    expires_at timestamptz
)`

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) SaveItinerary(ctx context.Context, rec Record, ttl time.Duration) error {
	var expires any
	if ttl > 0 {
		exp := time.Now().Add(ttl)
		rec.ExpiresAt = &exp
		expires = exp
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = p.db.ExecContext(ctx,
		`INSERT INTO shared_itineraries (share_id, payload, created_at, expires_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (share_id) DO UPDATE SET payload = $2, expires_at = $4`,
		rec.ShareID, payload, rec.CreatedAt, expires)
	return err
}

func (p *Postgres) GetItinerary(ctx context.Context, shareID string) (Record, error) {
	var payload []byte
	err := p.db.QueryRowContext(ctx,
		`SELECT payload FROM shared_itineraries
		 WHERE share_id = $1 AND (expires_at IS NULL OR expires_at > now())`,
		shareID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}
	var rec Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (p *Postgres) DeleteItinerary(ctx context.Context, shareID string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM shared_itineraries WHERE share_id = $1`, shareID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	rows, err := p.db.QueryContext(ctx,
		`SELECT payload FROM shared_itineraries
		 WHERE expires_at IS NULL OR expires_at > now()
		 ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Record
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var rec Record
		if err := json.Unmarshal(payload, &rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}
