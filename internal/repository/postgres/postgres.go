// Package postgres implements the content services on PostgreSQL through a
// pgx pool. Queries are built with squirrel; the schema is managed by the
// embedded golang-migrate migrations.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/goliatone/go-repoforms/pkg/content"
)

const (
	tableContentTypes    = "content_types"
	tableLocations       = "locations"
	tableContents        = "contents"
	tableContentVersions = "content_versions"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Pool is the subset of *pgxpool.Pool the repository uses.
type Pool interface {
	querier
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// Open connects a pool and checks the connection.
func Open(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return pool, nil
}

// Option configures a Repository.
type Option func(*Repository)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Repository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithRemoteIDs overrides how remote ids of new content are generated.
func WithRemoteIDs(fn func() string) Option {
	return func(r *Repository) {
		if fn != nil {
			r.remoteID = fn
		}
	}
}

// Repository implements content.ContentTypeService, content.LocationService
// and content.ContentService.
type Repository struct {
	pool     Pool
	remoteID func() string
	logger   *zap.Logger
}

var (
	_ content.ContentTypeService = (*Repository)(nil)
	_ content.LocationService    = (*Repository)(nil)
	_ content.ContentService     = (*Repository)(nil)
)

// New returns a repository using pool.
func New(pool Pool, opts ...Option) *Repository {
	r := &Repository{
		pool:     pool,
		remoteID: func() string { return strings.ReplaceAll(uuid.NewString(), "-", "") },
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Repository) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("postgres: begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // no-op once committed

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

func (r *Repository) LoadContentTypeByIdentifier(ctx context.Context, identifier string) (content.ContentType, error) {
	return loadContentType(ctx, r.pool, identifier, false)
}

func loadContentType(ctx context.Context, q querier, identifier string, forUpdate bool) (content.ContentType, error) {
	builder := psql.Select("id", "identifier", "main_language_code", "names", "field_definitions").
		From(tableContentTypes).
		Where(sq.Eq{"identifier": identifier})
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return content.ContentType{}, fmt.Errorf("error building query: %w", err)
	}

	var (
		ct          content.ContentType
		names, defs []byte
	)
	err = q.QueryRow(ctx, query, args...).Scan(&ct.ID, &ct.Identifier, &ct.MainLanguageCode, &names, &defs)
	if errors.Is(err, pgx.ErrNoRows) {
		return content.ContentType{}, content.NotFound("ContentType", identifier)
	}
	if err != nil {
		return content.ContentType{}, fmt.Errorf("postgres: load content type %q: %w", identifier, err)
	}
	if err := decodeJSON(names, &ct.Names); err != nil {
		return content.ContentType{}, fmt.Errorf("postgres: content type %q names: %w", identifier, err)
	}
	if err := decodeJSON(defs, &ct.FieldDefinitions); err != nil {
		return content.ContentType{}, fmt.Errorf("postgres: content type %q field definitions: %w", identifier, err)
	}
	return ct, nil
}

// CreateContentType stores a new content type. Field definitions without an
// id are numbered by their position in the list.
func (r *Repository) CreateContentType(ctx context.Context, ct content.ContentType) (content.ContentType, error) {
	if err := ct.Validate(); err != nil {
		return content.ContentType{}, err
	}
	ct.FieldDefinitions = append([]content.FieldDefinition(nil), ct.FieldDefinitions...)
	for i := range ct.FieldDefinitions {
		if ct.FieldDefinitions[i].ID == 0 {
			ct.FieldDefinitions[i].ID = int64(i + 1)
		}
	}
	names, defs, err := encodeContentType(ct)
	if err != nil {
		return content.ContentType{}, err
	}

	query, args, err := psql.Insert(tableContentTypes).
		Columns("identifier", "main_language_code", "names", "field_definitions").
		Values(ct.Identifier, ct.MainLanguageCode, names, defs).
		Suffix("ON CONFLICT (identifier) DO NOTHING RETURNING \"id\"").
		ToSql()
	if err != nil {
		return content.ContentType{}, fmt.Errorf("error building query: %w", err)
	}
	err = r.pool.QueryRow(ctx, query, args...).Scan(&ct.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return content.ContentType{}, content.InvalidArgument("identifier", fmt.Sprintf("content type %q already exists", ct.Identifier))
	}
	if err != nil {
		return content.ContentType{}, fmt.Errorf("postgres: create content type %q: %w", ct.Identifier, err)
	}
	return ct, nil
}

// UpdateFieldDefinition locks the content type row, merges the update into
// the named definition and writes the list back.
func (r *Repository) UpdateFieldDefinition(ctx context.Context, contentTypeIdentifier, fieldIdentifier string, update content.FieldDefinitionUpdateStruct) (content.ContentType, error) {
	var out content.ContentType
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		ct, err := loadContentType(ctx, tx, contentTypeIdentifier, true)
		if err != nil {
			return err
		}
		found := false
		for i, def := range ct.FieldDefinitions {
			if def.Identifier == fieldIdentifier {
				ct.FieldDefinitions[i] = update.Apply(def)
				found = true
				break
			}
		}
		if !found {
			return content.NotFound("FieldDefinition", fieldIdentifier)
		}
		if err := ct.Validate(); err != nil {
			return err
		}

		_, defs, err := encodeContentType(ct)
		if err != nil {
			return err
		}
		query, args, err := psql.Update(tableContentTypes).
			Set("field_definitions", defs).
			Set("updated_at", sq.Expr("now()")).
			Where(sq.Eq{"id": ct.ID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("error building query: %w", err)
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("postgres: update field definition %q: %w", fieldIdentifier, err)
		}
		out = ct
		return nil
	})
	if err != nil {
		return content.ContentType{}, err
	}
	return out, nil
}

func (r *Repository) LoadLocation(ctx context.Context, id int64) (content.Location, error) {
	return loadLocation(ctx, r.pool, id)
}

func loadLocation(ctx context.Context, q querier, id int64) (content.Location, error) {
	query, args, err := psql.Select("id", "COALESCE(content_id, 0)", "COALESCE(parent_location_id, 0)", "path_string", "hidden").
		From(tableLocations).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return content.Location{}, fmt.Errorf("error building query: %w", err)
	}
	var loc content.Location
	err = q.QueryRow(ctx, query, args...).Scan(&loc.ID, &loc.ContentID, &loc.ParentLocationID, &loc.PathString, &loc.Hidden)
	if errors.Is(err, pgx.ErrNoRows) {
		return content.Location{}, content.NotFound("Location", id)
	}
	if err != nil {
		return content.Location{}, fmt.Errorf("postgres: load location %d: %w", id, err)
	}
	return loc, nil
}

func (r *Repository) NewLocationCreateStruct(parentLocationID int64) content.LocationCreateStruct {
	return content.LocationCreateStruct{ParentLocationID: parentLocationID}
}

// CreateContent stores version 1 of a new, published content item and places
// it under every requested parent location in one transaction.
func (r *Repository) CreateContent(ctx context.Context, create content.ContentCreateStruct) (content.Content, error) {
	if len(create.Locations) == 0 {
		return content.Content{}, content.InvalidArgument("locations", "at least one parent location is required")
	}

	var out content.Content
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		ct, err := loadContentType(ctx, tx, create.ContentTypeIdentifier, false)
		if err != nil {
			return err
		}
		if err := checkFields(ct, create.Fields); err != nil {
			return err
		}

		c := content.Content{
			RemoteID:              r.remoteID(),
			ContentTypeIdentifier: ct.Identifier,
			VersionNo:             1,
			MainLanguageCode:      create.MainLanguageCode,
			Published:             true,
			Fields:                make(map[string]map[string]any, len(create.Fields)),
		}
		for identifier, v := range create.Fields {
			c.Fields[identifier] = map[string]any{create.MainLanguageCode: v}
		}

		query, args, err := psql.Insert(tableContents).
			Columns("remote_id", "content_type_identifier", "main_language_code", "published").
			Values(c.RemoteID, c.ContentTypeIdentifier, c.MainLanguageCode, c.Published).
			Suffix("RETURNING \"id\"").
			ToSql()
		if err != nil {
			return fmt.Errorf("error building query: %w", err)
		}
		if err := tx.QueryRow(ctx, query, args...).Scan(&c.ID); err != nil {
			return fmt.Errorf("postgres: insert content: %w", err)
		}

		for _, lc := range create.Locations {
			loc, err := placeContent(ctx, tx, c.ID, lc.ParentLocationID)
			if err != nil {
				return err
			}
			if c.MainLocationID == 0 {
				c.MainLocationID = loc.ID
			}
		}

		query, args, err = psql.Update(tableContents).
			Set("main_location_id", c.MainLocationID).
			Where(sq.Eq{"id": c.ID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("error building query: %w", err)
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("postgres: set main location: %w", err)
		}

		if err := insertVersion(ctx, tx, c); err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return content.Content{}, err
	}
	r.logger.Debug("content created",
		zap.Int64("contentId", out.ID),
		zap.String("contentType", out.ContentTypeIdentifier),
		zap.Int64("mainLocationId", out.MainLocationID),
	)
	return out, nil
}

// placeContent inserts a location for contentID below parentID. The path
// string needs the generated id, so it is written in a second statement.
func placeContent(ctx context.Context, tx pgx.Tx, contentID, parentID int64) (content.Location, error) {
	parent, err := loadLocation(ctx, tx, parentID)
	if err != nil {
		return content.Location{}, err
	}
	loc := content.Location{ContentID: contentID, ParentLocationID: parent.ID}

	query, args, err := psql.Insert(tableLocations).
		Columns("content_id", "parent_location_id").
		Values(contentID, parent.ID).
		Suffix("RETURNING \"id\"").
		ToSql()
	if err != nil {
		return content.Location{}, fmt.Errorf("error building query: %w", err)
	}
	if err := tx.QueryRow(ctx, query, args...).Scan(&loc.ID); err != nil {
		return content.Location{}, fmt.Errorf("postgres: insert location: %w", err)
	}

	loc.PathString = fmt.Sprintf("%s%d/", parent.PathString, loc.ID)
	query, args, err = psql.Update(tableLocations).
		Set("path_string", loc.PathString).
		Where(sq.Eq{"id": loc.ID}).
		ToSql()
	if err != nil {
		return content.Location{}, fmt.Errorf("error building query: %w", err)
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return content.Location{}, fmt.Errorf("postgres: set path of location %d: %w", loc.ID, err)
	}
	return loc, nil
}

func insertVersion(ctx context.Context, q querier, c content.Content) error {
	fields, err := json.Marshal(c.Fields)
	if err != nil {
		return fmt.Errorf("postgres: encode fields: %w", err)
	}
	query, args, err := psql.Insert(tableContentVersions).
		Columns("content_id", "version_no", "fields").
		Values(c.ID, c.VersionNo, fields).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building query: %w", err)
	}
	if _, err := q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("postgres: insert version %d of content %d: %w", c.VersionNo, c.ID, err)
	}
	return nil
}

func (r *Repository) LoadContent(ctx context.Context, id int64, versionNo int) (content.Content, error) {
	return loadContent(ctx, r.pool, id, versionNo, false)
}

func loadContent(ctx context.Context, q querier, id int64, versionNo int, forUpdate bool) (content.Content, error) {
	builder := psql.Select(
		"c.id", "c.remote_id", "c.content_type_identifier", "c.main_language_code",
		"COALESCE(c.main_location_id, 0)", "c.published", "v.version_no", "v.fields",
	).
		From(tableContents + " c").
		Join(tableContentVersions + " v ON v.content_id = c.id").
		Where(sq.Eq{"c.id": id, "v.version_no": versionNo})
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE OF v")
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return content.Content{}, fmt.Errorf("error building query: %w", err)
	}

	var (
		c      content.Content
		fields []byte
	)
	err = q.QueryRow(ctx, query, args...).Scan(
		&c.ID, &c.RemoteID, &c.ContentTypeIdentifier, &c.MainLanguageCode,
		&c.MainLocationID, &c.Published, &c.VersionNo, &fields,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return content.Content{}, content.NotFound("Content", id)
	}
	if err != nil {
		return content.Content{}, fmt.Errorf("postgres: load content %d: %w", id, err)
	}
	if err := decodeJSON(fields, &c.Fields); err != nil {
		return content.Content{}, fmt.Errorf("postgres: content %d fields: %w", id, err)
	}
	if c.Fields == nil {
		c.Fields = make(map[string]map[string]any)
	}
	return c, nil
}

// UpdateContent writes the language values of update into the stored
// version.
func (r *Repository) UpdateContent(ctx context.Context, update content.ContentUpdateStruct) (content.Content, error) {
	if update.LanguageCode == "" {
		return content.Content{}, content.InvalidArgument("languageCode", "language code is required")
	}

	var out content.Content
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		c, err := loadContent(ctx, tx, update.ContentID, update.VersionNo, true)
		if err != nil {
			return err
		}
		ct, err := loadContentType(ctx, tx, c.ContentTypeIdentifier, false)
		if err != nil {
			return err
		}
		if err := checkFields(ct, update.Fields); err != nil {
			return err
		}
		for identifier, v := range update.Fields {
			if c.Fields[identifier] == nil {
				c.Fields[identifier] = make(map[string]any)
			}
			c.Fields[identifier][update.LanguageCode] = v
		}

		fields, err := json.Marshal(c.Fields)
		if err != nil {
			return fmt.Errorf("postgres: encode fields: %w", err)
		}
		query, args, err := psql.Update(tableContentVersions).
			Set("fields", fields).
			Set("updated_at", sq.Expr("now()")).
			Where(sq.Eq{"content_id": c.ID, "version_no": c.VersionNo}).
			ToSql()
		if err != nil {
			return fmt.Errorf("error building query: %w", err)
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("postgres: update content %d: %w", c.ID, err)
		}
		out = c
		return nil
	})
	if err != nil {
		return content.Content{}, err
	}
	return out, nil
}

func checkFields(ct content.ContentType, fields map[string]any) error {
	for identifier := range fields {
		if _, ok := ct.FieldDefinition(identifier); !ok {
			return content.InvalidArgument("fields", fmt.Sprintf("content type %q has no field %q", ct.Identifier, identifier)).
				WithDetail("field", identifier)
		}
	}
	return nil
}

func encodeContentType(ct content.ContentType) (names, defs []byte, err error) {
	if ct.Names == nil {
		ct.Names = map[string]string{}
	}
	if ct.FieldDefinitions == nil {
		ct.FieldDefinitions = []content.FieldDefinition{}
	}
	if names, err = json.Marshal(ct.Names); err != nil {
		return nil, nil, fmt.Errorf("postgres: encode names: %w", err)
	}
	if defs, err = json.Marshal(ct.FieldDefinitions); err != nil {
		return nil, nil, fmt.Errorf("postgres: encode field definitions: %w", err)
	}
	return names, defs, nil
}

func decodeJSON(raw []byte, out any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}
