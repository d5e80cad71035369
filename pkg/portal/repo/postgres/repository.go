// Package postgres implements portal.Repository on PostgreSQL via pgx.
// List-valued fields (sections, tags, files) live in JSONB columns.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/athenaeum/portal/pkg/portal"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements portal.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with a connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// Error handling helper
func handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			if strings.Contains(pgErr.ConstraintName, "content") {
				return fmt.Errorf("content already exists")
			}
			return fmt.Errorf("duplicate entry")
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

func (r *Repository) CreateContent(ctx context.Context, content *portal.Content) error {
	sections, tags, files, err := marshalLists(content)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO content (
			id, title, description, format, sections, visibility, status,
			author, tags, owner_id, files, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err = r.db.Exec(ctx, query,
		content.ID, content.Title, content.Description, content.Format,
		sections, content.Visibility, content.Status, content.Author,
		tags, content.OwnerID, files, content.CreatedAt, content.UpdatedAt)

	if err != nil {
		return handlePostgresError("create content", err)
	}

	return nil
}

func (r *Repository) GetContent(ctx context.Context, id uuid.UUID) (*portal.Content, error) {
	query := `
		SELECT id, title, description, format, sections, visibility, status,
		       author, tags, owner_id, files, created_at, updated_at
		FROM content WHERE id = $1`

	content, err := scanContent(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, portal.ErrContentNotFound
		}
		return nil, err
	}

	return content, nil
}

func (r *Repository) UpdateContent(ctx context.Context, content *portal.Content) error {
	sections, tags, files, err := marshalLists(content)
	if err != nil {
		return err
	}

	query := `
		UPDATE content SET
			title = $2, description = $3, format = $4, sections = $5,
			visibility = $6, status = $7, author = $8, tags = $9,
			files = $10, updated_at = $11
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query,
		content.ID, content.Title, content.Description, content.Format,
		sections, content.Visibility, content.Status, content.Author,
		tags, files, content.UpdatedAt)

	if err != nil {
		return handlePostgresError("update content", err)
	}
	if result.RowsAffected() == 0 {
		return portal.ErrContentNotFound
	}

	return nil
}

func (r *Repository) DeleteContent(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM content WHERE id = $1`, id)
	if err != nil {
		return handlePostgresError("delete content", err)
	}
	if result.RowsAffected() == 0 {
		return portal.ErrContentNotFound
	}

	return nil
}

func (r *Repository) ListContent(ctx context.Context, section string) ([]*portal.Content, error) {
	query := `
		SELECT id, title, description, format, sections, visibility, status,
		       author, tags, owner_id, files, created_at, updated_at
		FROM content`
	var args []interface{}
	if section != "" {
		query += ` WHERE sections @> jsonb_build_array($1::text)`
		args = append(args, section)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, handlePostgresError("list content", err)
	}
	defer rows.Close()

	var contents []*portal.Content
	for rows.Next() {
		content, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		contents = append(contents, content)
	}

	return contents, rows.Err()
}

func marshalLists(content *portal.Content) (sections, tags, files []byte, err error) {
	if sections, err = json.Marshal(orEmpty(content.Sections)); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal sections: %w", err)
	}
	if tags, err = json.Marshal(orEmpty(content.Tags)); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal tags: %w", err)
	}
	filesList := content.Files
	if filesList == nil {
		filesList = []portal.FileDescriptor{}
	}
	if files, err = json.Marshal(filesList); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal files: %w", err)
	}
	return sections, tags, files, nil
}

func orEmpty(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

func scanContent(row pgx.Row) (*portal.Content, error) {
	var content portal.Content
	var sections, tags, files []byte

	err := row.Scan(
		&content.ID, &content.Title, &content.Description, &content.Format,
		&sections, &content.Visibility, &content.Status, &content.Author,
		&tags, &content.OwnerID, &files, &content.CreatedAt, &content.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(sections, &content.Sections); err != nil {
		return nil, fmt.Errorf("unmarshal sections: %w", err)
	}
	if err := json.Unmarshal(tags, &content.Tags); err != nil {
		return nil, fmt.Errorf("unmarshal tags: %w", err)
	}
	if err := json.Unmarshal(files, &content.Files); err != nil {
		return nil, fmt.Errorf("unmarshal files: %w", err)
	}

	return &content, nil
}
