// Package memory implements the content services on top of maps guarded by a
// RWMutex. It backs the server when no database is configured and serves as
// the fixture store in tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-repoforms/internal/repository/fixtures"
	"github.com/goliatone/go-repoforms/pkg/content"
)

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
	mu           sync.RWMutex
	contentTypes map[string]content.ContentType
	locations    map[int64]content.Location
	contents     map[int64]map[int]content.Content

	nextTypeID     int64
	nextFieldID    int64
	nextLocationID int64
	nextContentID  int64

	remoteID func() string
	logger   *zap.Logger
}

var (
	_ content.ContentTypeService = (*Repository)(nil)
	_ content.LocationService    = (*Repository)(nil)
	_ content.ContentService     = (*Repository)(nil)
)

// New returns an empty repository.
func New(opts ...Option) *Repository {
	r := &Repository{
		contentTypes: make(map[string]content.ContentType),
		locations:    make(map[int64]content.Location),
		contents:     make(map[int64]map[int]content.Content),
		remoteID:     func() string { return strings.ReplaceAll(uuid.NewString(), "-", "") },
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// NewFromFixtures returns a repository seeded with set.
func NewFromFixtures(set fixtures.Set, opts ...Option) (*Repository, error) {
	r := New(opts...)
	if err := r.Seed(set); err != nil {
		return nil, err
	}
	return r, nil
}

// Seed stores every entry of set, replacing entries with the same key. Ids
// handed out afterwards continue past the highest seeded id.
func (r *Repository) Seed(set fixtures.Set) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ct := range set.ContentTypes {
		r.contentTypes[ct.Identifier] = cloneContentType(ct)
		r.nextTypeID = max(r.nextTypeID, ct.ID)
		for _, def := range ct.FieldDefinitions {
			r.nextFieldID = max(r.nextFieldID, def.ID)
		}
	}
	for _, loc := range set.Locations {
		r.locations[loc.ID] = loc
		r.nextLocationID = max(r.nextLocationID, loc.ID)
	}
	for _, c := range set.Contents {
		if c.VersionNo == 0 {
			c.VersionNo = 1
		}
		if r.contents[c.ID] == nil {
			r.contents[c.ID] = make(map[int]content.Content)
		}
		r.contents[c.ID][c.VersionNo] = cloneContent(c)
		r.nextContentID = max(r.nextContentID, c.ID)
	}
	r.logger.Debug("memory repository seeded",
		zap.Int("contentTypes", len(set.ContentTypes)),
		zap.Int("locations", len(set.Locations)),
		zap.Int("contents", len(set.Contents)),
	)
	return nil
}

// ContentTypes lists the stored content type identifiers, sorted.
func (r *Repository) ContentTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.contentTypes))
	for identifier := range r.contentTypes {
		out = append(out, identifier)
	}
	sort.Strings(out)
	return out
}

func (r *Repository) LoadContentTypeByIdentifier(ctx context.Context, identifier string) (content.ContentType, error) {
	if err := ctx.Err(); err != nil {
		return content.ContentType{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	ct, ok := r.contentTypes[identifier]
	if !ok {
		return content.ContentType{}, content.NotFound("ContentType", identifier)
	}
	return cloneContentType(ct), nil
}

// CreateContentType stores a new content type. Missing ids are assigned.
func (r *Repository) CreateContentType(ctx context.Context, ct content.ContentType) (content.ContentType, error) {
	if err := ctx.Err(); err != nil {
		return content.ContentType{}, err
	}
	if err := ct.Validate(); err != nil {
		return content.ContentType{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.contentTypes[ct.Identifier]; exists {
		return content.ContentType{}, content.InvalidArgument("identifier", fmt.Sprintf("content type %q already exists", ct.Identifier))
	}
	ct = cloneContentType(ct)
	if ct.ID == 0 {
		r.nextTypeID++
		ct.ID = r.nextTypeID
	}
	for i := range ct.FieldDefinitions {
		if ct.FieldDefinitions[i].ID == 0 {
			r.nextFieldID++
			ct.FieldDefinitions[i].ID = r.nextFieldID
		}
	}
	r.contentTypes[ct.Identifier] = ct
	return cloneContentType(ct), nil
}

func (r *Repository) UpdateFieldDefinition(ctx context.Context, contentTypeIdentifier, fieldIdentifier string, update content.FieldDefinitionUpdateStruct) (content.ContentType, error) {
	if err := ctx.Err(); err != nil {
		return content.ContentType{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	ct, ok := r.contentTypes[contentTypeIdentifier]
	if !ok {
		return content.ContentType{}, content.NotFound("ContentType", contentTypeIdentifier)
	}
	ct = cloneContentType(ct)
	for i, def := range ct.FieldDefinitions {
		if def.Identifier != fieldIdentifier {
			continue
		}
		ct.FieldDefinitions[i] = update.Apply(def)
		if err := ct.Validate(); err != nil {
			return content.ContentType{}, err
		}
		r.contentTypes[contentTypeIdentifier] = ct
		return cloneContentType(ct), nil
	}
	return content.ContentType{}, content.NotFound("FieldDefinition", fieldIdentifier)
}

func (r *Repository) LoadLocation(ctx context.Context, id int64) (content.Location, error) {
	if err := ctx.Err(); err != nil {
		return content.Location{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	loc, ok := r.locations[id]
	if !ok {
		return content.Location{}, content.NotFound("Location", id)
	}
	return loc, nil
}

func (r *Repository) NewLocationCreateStruct(parentLocationID int64) content.LocationCreateStruct {
	return content.LocationCreateStruct{ParentLocationID: parentLocationID}
}

// CreateContent stores version 1 of a new, published content item and places
// it under every requested parent location. The first new location becomes
// the main location.
func (r *Repository) CreateContent(ctx context.Context, create content.ContentCreateStruct) (content.Content, error) {
	if err := ctx.Err(); err != nil {
		return content.Content{}, err
	}
	if len(create.Locations) == 0 {
		return content.Content{}, content.InvalidArgument("locations", "at least one parent location is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	ct, ok := r.contentTypes[create.ContentTypeIdentifier]
	if !ok {
		return content.Content{}, content.NotFound("ContentType", create.ContentTypeIdentifier)
	}
	parents := make([]content.Location, 0, len(create.Locations))
	for _, lc := range create.Locations {
		parent, ok := r.locations[lc.ParentLocationID]
		if !ok {
			return content.Content{}, content.NotFound("Location", lc.ParentLocationID)
		}
		parents = append(parents, parent)
	}
	if err := checkFields(ct, create.Fields); err != nil {
		return content.Content{}, err
	}

	r.nextContentID++
	c := content.Content{
		ID:                    r.nextContentID,
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
	for _, parent := range parents {
		r.nextLocationID++
		loc := content.Location{
			ID:               r.nextLocationID,
			ContentID:        c.ID,
			ParentLocationID: parent.ID,
			PathString:       fmt.Sprintf("%s%d/", parent.PathString, r.nextLocationID),
		}
		r.locations[loc.ID] = loc
		if c.MainLocationID == 0 {
			c.MainLocationID = loc.ID
		}
	}
	r.contents[c.ID] = map[int]content.Content{c.VersionNo: c}

	r.logger.Debug("content created",
		zap.Int64("contentId", c.ID),
		zap.String("contentType", c.ContentTypeIdentifier),
		zap.Int64("mainLocationId", c.MainLocationID),
	)
	return cloneContent(c), nil
}

func (r *Repository) LoadContent(ctx context.Context, id int64, versionNo int) (content.Content, error) {
	if err := ctx.Err(); err != nil {
		return content.Content{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.contents[id][versionNo]
	if !ok {
		return content.Content{}, content.NotFound("Content", id)
	}
	return cloneContent(c), nil
}

// UpdateContent writes the language values of update into the stored version.
func (r *Repository) UpdateContent(ctx context.Context, update content.ContentUpdateStruct) (content.Content, error) {
	if err := ctx.Err(); err != nil {
		return content.Content{}, err
	}
	if update.LanguageCode == "" {
		return content.Content{}, content.InvalidArgument("languageCode", "language code is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.contents[update.ContentID][update.VersionNo]
	if !ok {
		return content.Content{}, content.NotFound("Content", update.ContentID)
	}
	ct, ok := r.contentTypes[c.ContentTypeIdentifier]
	if !ok {
		return content.Content{}, content.NotFound("ContentType", c.ContentTypeIdentifier)
	}
	if err := checkFields(ct, update.Fields); err != nil {
		return content.Content{}, err
	}

	c = cloneContent(c)
	for identifier, v := range update.Fields {
		if c.Fields[identifier] == nil {
			c.Fields[identifier] = make(map[string]any)
		}
		c.Fields[identifier][update.LanguageCode] = v
	}
	r.contents[c.ID][c.VersionNo] = c
	return cloneContent(c), nil
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

func cloneContentType(ct content.ContentType) content.ContentType {
	ct.FieldDefinitions = append([]content.FieldDefinition(nil), ct.FieldDefinitions...)
	return ct
}

func cloneContent(c content.Content) content.Content {
	fields := make(map[string]map[string]any, len(c.Fields))
	for identifier, perLanguage := range c.Fields {
		copied := make(map[string]any, len(perLanguage))
		for lang, v := range perLanguage {
			copied[lang] = v
		}
		fields[identifier] = copied
	}
	c.Fields = fields
	return c
}
