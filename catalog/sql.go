package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/vortex-fintech/intlphone/geo"
)

// DefaultQuery reads the countries table in display order.
const DefaultQuery = `SELECT code, dial_code, flag, mask, names FROM countries ORDER BY position, code`

// Executor abstracts *sql.DB or *sql.Tx.
type Executor interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type sqlSource struct {
	exec  Executor
	query string
}

// SQL reads countries with query. Each row must yield
// (code, dial_code, flag, mask, names) where names is a JSON object of
// display names keyed by language. flag and names may be NULL.
func SQL(exec Executor, query string) Source {
	if query == "" {
		query = DefaultQuery
	}
	return sqlSource{exec: exec, query: query}
}

func (s sqlSource) Name() string { return "sql" }

func (s sqlSource) Load(ctx context.Context) ([]geo.Country, error) {
	rows, err := s.exec.QueryContext(ctx, s.query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []geo.Country
	for rows.Next() {
		var (
			c     geo.Country
			flag  sql.NullString
			names []byte
		)
		if err := rows.Scan(&c.Code, &c.DialCode, &flag, &c.Mask, &names); err != nil {
			return nil, err
		}
		c.Flag = flag.String
		if len(names) > 0 {
			if err := json.Unmarshal(names, &c.Names); err != nil {
				return nil, fmt.Errorf("catalog: country %s: decode names: %w", c.Code, err)
			}
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// OpenPostgres opens a pgx-backed *sql.DB and pings it.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
