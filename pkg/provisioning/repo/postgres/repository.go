package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/content-provisioning/pkg/provisioning"
)

// Schema creates the content_types and contents tables if they do not exist.
//
//go:embed schema.sql
var Schema string

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements provisioning.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// Migrate creates schema when it is not empty and applies Schema. Tables are
// created in the first schema of the connection's search_path, so connections
// should be opened with search_path set to schema.
func (r *Repository) Migrate(ctx context.Context, schema string) error {
	if schema != "" {
		stmt := fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", pgx.Identifier{schema}.Sanitize())
		if _, err := r.db.Exec(ctx, stmt); err != nil {
			return r.handlePostgresError("create schema", err)
		}
	}
	if _, err := r.db.Exec(ctx, Schema); err != nil {
		return r.handlePostgresError("migrate", err)
	}
	return nil
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			if strings.Contains(pgErr.ConstraintName, "content_types") {
				return provisioning.ErrContentTypeExists
			}
			return fmt.Errorf("duplicate entry in %s: %w", operation, err)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%w: %s", provisioning.ErrContentTypeNotFound, pgErr.Detail)
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

// parseID reports ok=false for ids that cannot be a stored key.
func parseID(id string) (uuid.UUID, bool) {
	parsed, err := uuid.Parse(id)
	return parsed, err == nil
}

// Content operations

func (r *Repository) CreateContent(ctx context.Context, content *provisioning.Content) error {
	id, ok := parseID(content.ID)
	if !ok {
		return fmt.Errorf("%w: content id %q is not a uuid", provisioning.ErrInvalidInput, content.ID)
	}
	typeID, ok := parseID(content.ContentTypeID)
	if !ok {
		return provisioning.ErrContentTypeNotFound
	}

	query := `
		INSERT INTO contents (
			id, title, description, url, cover, total_likes,
			content_type_id, company_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	var companyID *uuid.UUID
	if content.CompanyID != "" {
		parsed, ok := parseID(content.CompanyID)
		if !ok {
			return fmt.Errorf("%w: company id %q is not a uuid", provisioning.ErrInvalidInput, content.CompanyID)
		}
		companyID = &parsed
	}

	_, err := r.db.Exec(ctx, query,
		id, content.Title, nullString(content.Description), nullString(content.URL),
		nullString(content.Cover), content.TotalLikes, typeID, companyID,
		content.CreatedAt, content.UpdatedAt)

	if err != nil {
		return r.handlePostgresError("create content", err)
	}

	return nil
}

// GetContentWithType joins the content type; a dangling content_type_id
// yields a record with a nil ContentType.
func (r *Repository) GetContentWithType(ctx context.Context, id string) (*provisioning.Content, error) {
	contentID, ok := parseID(id)
	if !ok {
		return nil, provisioning.ErrContentNotFound
	}

	query := `
        SELECT c.id::text, c.title, c.description, c.url, c.cover, c.total_likes,
               c.content_type_id::text, c.company_id::text, c.created_at, c.updated_at,
               ct.id::text, ct.name
        FROM contents c
        LEFT JOIN content_types ct ON ct.id = c.content_type_id
        WHERE c.id = $1 AND c.deleted_at IS NULL`

	var (
		content                      provisioning.Content
		description, url, cover      *string
		contentTypeID, companyID     *string
		joinedTypeID, joinedTypeName *string
	)
	err := r.db.QueryRow(ctx, query, contentID).Scan(
		&content.ID, &content.Title, &description, &url, &cover, &content.TotalLikes,
		&contentTypeID, &companyID, &content.CreatedAt, &content.UpdatedAt,
		&joinedTypeID, &joinedTypeName)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, provisioning.ErrContentNotFound
		}
		return nil, r.handlePostgresError("get content", err)
	}

	content.Description = provisioning.StringValue(description)
	content.URL = provisioning.StringValue(url)
	content.Cover = provisioning.StringValue(cover)
	content.ContentTypeID = provisioning.StringValue(contentTypeID)
	content.CompanyID = provisioning.StringValue(companyID)
	if joinedTypeID != nil {
		content.ContentType = &provisioning.ContentType{
			ID:   *joinedTypeID,
			Name: provisioning.StringValue(joinedTypeName),
		}
	}

	return &content, nil
}

func (r *Repository) DeleteContent(ctx context.Context, id string) error {
	contentID, ok := parseID(id)
	if !ok {
		return provisioning.ErrContentNotFound
	}

	now := time.Now().UTC()
	tag, err := r.db.Exec(ctx,
		`UPDATE contents SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`,
		contentID, now)
	if err != nil {
		return r.handlePostgresError("delete content", err)
	}
	if tag.RowsAffected() == 0 {
		return provisioning.ErrContentNotFound
	}
	return nil
}

// Content type operations

func (r *Repository) GetContentType(ctx context.Context, id string) (*provisioning.ContentType, error) {
	typeID, ok := parseID(id)
	if !ok {
		return nil, provisioning.ErrContentTypeNotFound
	}
	return r.getContentType(ctx, `SELECT id::text, name FROM content_types WHERE id = $1`, typeID)
}

func (r *Repository) GetContentTypeByName(ctx context.Context, name string) (*provisioning.ContentType, error) {
	return r.getContentType(ctx, `SELECT id::text, name FROM content_types WHERE name = $1`, name)
}

func (r *Repository) getContentType(ctx context.Context, query string, arg interface{}) (*provisioning.ContentType, error) {
	var ct provisioning.ContentType
	if err := r.db.QueryRow(ctx, query, arg).Scan(&ct.ID, &ct.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, provisioning.ErrContentTypeNotFound
		}
		return nil, r.handlePostgresError("get content type", err)
	}
	return &ct, nil
}

func (r *Repository) CreateContentType(ctx context.Context, contentType *provisioning.ContentType) error {
	typeID, ok := parseID(contentType.ID)
	if !ok {
		return fmt.Errorf("%w: content type id %q is not a uuid", provisioning.ErrInvalidInput, contentType.ID)
	}

	_, err := r.db.Exec(ctx, `INSERT INTO content_types (id, name) VALUES ($1, $2)`, typeID, contentType.Name)
	if err != nil {
		return r.handlePostgresError("create content type", err)
	}
	return nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

var _ provisioning.Repository = (*Repository)(nil)
