package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/google/uuid"

	"github.com/gabonshop/gabonshop-backend/internal/gateway"
)

var fieldName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Documents implements gateway.Documents over the documents table.
type Documents struct {
	db *sql.DB
}

func NewDocuments(db *sql.DB) *Documents {
	return &Documents{db: db}
}

func (d *Documents) List(ctx context.Context, collection string, q gateway.Query) ([]gateway.Document, error) {
	query := `SELECT id, data FROM documents WHERE collection = $1`
	args := []interface{}{collection}

	if q.OrderBy != "" {
		if !fieldName.MatchString(q.OrderBy) {
			return nil, fmt.Errorf("list %s: invalid order field %q", collection, q.OrderBy)
		}
		dir := "ASC"
		if q.Desc {
			dir = "DESC"
		}
		// jsonb compares numbers numerically, which is what createdAt needs.
		query += ` ORDER BY data -> $2 ` + dir + `, created_at ` + dir
		args = append(args, q.OrderBy)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer rows.Close()

	var out []gateway.Document
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		data, err := decode(raw)
		if err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", collection, id, err)
		}
		out = append(out, gateway.Document{ID: id, Data: data})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	return out, nil
}

func (d *Documents) Get(ctx context.Context, collection, id string) (*gateway.Document, error) {
	var raw []byte
	err := d.db.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, gateway.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}

	data, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	return &gateway.Document{ID: id, Data: data}, nil
}

func (d *Documents) Add(ctx context.Context, collection string, data map[string]interface{}) (string, error) {
	id := uuid.NewString()
	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("marshal %s: %w", collection, err)
	}

	if _, err := d.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3)`,
		collection, id, raw,
	); err != nil {
		return "", fmt.Errorf("add %s: %w", collection, err)
	}
	return id, nil
}

func (d *Documents) Set(ctx context.Context, collection, id string, data map[string]interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", collection, id, err)
	}

	if _, err := d.db.ExecContext(ctx, `
		INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3)
		ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data`,
		collection, id, raw,
	); err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}
	return nil
}

func (d *Documents) Update(ctx context.Context, collection, id string, patch map[string]interface{}) error {
	raw, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", collection, id, err)
	}

	res, err := d.db.ExecContext(ctx,
		`UPDATE documents SET data = data || $3::jsonb WHERE collection = $1 AND id = $2`,
		collection, id, raw,
	)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	if n == 0 {
		return gateway.ErrNotFound
	}
	return nil
}

func (d *Documents) Delete(ctx context.Context, collection, id string) error {
	if _, err := d.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func decode(raw []byte) (map[string]interface{}, error) {
	data := make(map[string]interface{})
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return data, nil
}
