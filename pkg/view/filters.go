package view

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-repoforms/pkg/content"
	"github.com/goliatone/go-repoforms/pkg/form"
	"github.com/goliatone/go-repoforms/pkg/formtype"
	"github.com/goliatone/go-repoforms/pkg/mapper"
	"github.com/goliatone/go-repoforms/pkg/validation"
)

// Controllers the content filters are registered for.
const (
	ControllerCreateWithoutDraft = "ez_content_edit:createWithoutDraftAction"
	ControllerEditVersionDraft   = "ez_content_edit:editVersionDraftAction"
)

// FilterOption configures the content filters.
type FilterOption func(*filterConfig)

type filterConfig struct {
	factory     *formtype.Factory
	permissions content.PermissionResolver
	csrfToken   func(*http.Request) string
	logger      *zap.Logger
}

// WithFormFactory sets the form factory. Defaults to formtype.NewFactory().
func WithFormFactory(factory *formtype.Factory) FilterOption {
	return func(c *filterConfig) {
		if factory != nil {
			c.factory = factory
		}
	}
}

// WithPermissionResolver enables permission checks.
func WithPermissionResolver(resolver content.PermissionResolver) FilterOption {
	return func(c *filterConfig) { c.permissions = resolver }
}

// WithCSRFTokens sets the function returning the expected CSRF token of a
// request. Forms carry no token when unset or when it returns "".
func WithCSRFTokens(fn func(*http.Request) string) FilterOption {
	return func(c *filterConfig) { c.csrfToken = fn }
}

// WithFilterLogger sets the logger.
func WithFilterLogger(logger *zap.Logger) FilterOption {
	return func(c *filterConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func newFilterConfig(opts []FilterOption) filterConfig {
	cfg := filterConfig{logger: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.factory == nil {
		cfg.factory = formtype.NewFactory(formtype.WithLogger(cfg.logger))
	}
	return cfg
}

func (c filterConfig) authorize(ctx context.Context, function string, target any) error {
	if c.permissions == nil {
		return nil
	}
	ok, err := c.permissions.CanUser(ctx, content.ModuleContent, function, target)
	if err != nil {
		return fmt.Errorf("view: check %s/%s: %w", content.ModuleContent, function, err)
	}
	if !ok {
		return content.Unauthorized(content.ModuleContent, function)
	}
	return nil
}

func (c filterConfig) formOptions(req Request, languageCode, mainLanguageCode string) []form.Option {
	opts := []form.Option{
		form.WithLanguageCode(languageCode),
		form.WithMainLanguageCode(mainLanguageCode),
		form.WithDraftsEnabled(true),
	}
	if req.HTTP != nil {
		opts = append(opts, form.WithAction(req.HTTP.URL.RequestURI()))
		if c.csrfToken != nil {
			opts = append(opts, form.WithCSRFToken(c.csrfToken(req.HTTP)))
		}
	}
	return opts
}

// bind hands the request to the form. Validation happens as part of it.
func bind(f *form.Form, req Request) error {
	if req.HTTP == nil {
		return nil
	}
	if err := f.HandleRequest(req.HTTP); err != nil {
		return content.InvalidArgument("request", err.Error()).WithCause(err)
	}
	return nil
}

// ContentCreateViewFilter builds the content create form for requests
// routed to ControllerCreateWithoutDraft.
type ContentCreateViewFilter struct {
	locations    content.LocationService
	contentTypes content.ContentTypeService
	mapper       *mapper.ContentCreateMapper
	cfg          filterConfig
}

// NewContentCreateViewFilter wires the filter to its collaborators.
func NewContentCreateViewFilter(locations content.LocationService, contentTypes content.ContentTypeService, opts ...FilterOption) *ContentCreateViewFilter {
	cfg := newFilterConfig(opts)
	return &ContentCreateViewFilter{
		locations:    locations,
		contentTypes: contentTypes,
		mapper:       mapper.NewContentCreateMapper(cfg.factory.Registry()),
		cfg:          cfg,
	}
}

// Filter resolves the content type and parent location from the route
// attributes, binds the request to a fresh form and publishes it under
// "form". Other controllers are ignored. Not found and unauthorized errors
// are returned unchanged.
func (f *ContentCreateViewFilter) Filter(ctx context.Context, event *FilterParametersEvent) error {
	if event.Controller() != ControllerCreateWithoutDraft {
		return nil
	}
	req := event.Request
	languageCode := req.Attribute(AttrLanguage)
	if languageCode == "" {
		return content.NotFound("Language", "")
	}

	contentType, err := loadContentType(ctx, f.contentTypes, req.Attribute(AttrContentTypeIdentifier))
	if err != nil {
		return err
	}
	locationID, err := parseID("Location", req.Attribute(AttrParentLocationID))
	if err != nil {
		return err
	}
	location, err := f.locations.LoadLocation(ctx, locationID)
	if err != nil {
		return err
	}
	if err := f.cfg.authorize(ctx, content.FunctionRead, location); err != nil {
		return err
	}

	params := mapper.CreateParams{
		MainLanguageCode: languageCode,
		ParentLocation:   f.locations.NewLocationCreateStruct(location.ID),
	}
	opts := f.cfg.formOptions(req, languageCode, languageCode)

	bound := f.mapper.Map(contentType, params)
	built, err := f.cfg.factory.CreateFor(bound, opts...)
	if err != nil {
		return optionsError(err, languageCode)
	}
	if err := bind(built, req); err != nil {
		return err
	}

	f.cfg.logger.Debug("content create form resolved",
		zap.String("contentType", contentType.Identifier),
		zap.Int64("parentLocationId", location.ID),
		zap.String("language", languageCode),
		zap.Bool("submitted", built.IsSubmitted()),
	)
	event.Bag().Add(map[string]any{
		ParamForm:        built,
		ParamData:        bound,
		ParamContentType: contentType,
		ParamLocation:    location,
	})
	return nil
}

// ContentEditViewFilter builds the draft edit and translation form for
// requests routed to ControllerEditVersionDraft.
type ContentEditViewFilter struct {
	contents     content.ContentService
	contentTypes content.ContentTypeService
	mapper       *mapper.ContentUpdateMapper
	cfg          filterConfig
}

// NewContentEditViewFilter wires the filter to its collaborators.
func NewContentEditViewFilter(contents content.ContentService, contentTypes content.ContentTypeService, opts ...FilterOption) *ContentEditViewFilter {
	cfg := newFilterConfig(opts)
	return &ContentEditViewFilter{
		contents:     contents,
		contentTypes: contentTypes,
		mapper:       mapper.NewContentUpdateMapper(cfg.factory.Registry()),
		cfg:          cfg,
	}
}

// Filter loads the content version named by the route and publishes a form
// seeded with its values. Translations seed from fromLanguage.
func (f *ContentEditViewFilter) Filter(ctx context.Context, event *FilterParametersEvent) error {
	if event.Controller() != ControllerEditVersionDraft {
		return nil
	}
	req := event.Request
	languageCode := req.Attribute(AttrLanguage)
	if languageCode == "" {
		return content.NotFound("Language", "")
	}

	contentID, err := parseID("Content", req.Attribute(AttrContentID))
	if err != nil {
		return err
	}
	versionNo, err := parseID("Version", req.Attribute(AttrVersionNo))
	if err != nil {
		return err
	}
	stored, err := f.contents.LoadContent(ctx, contentID, int(versionNo))
	if err != nil {
		return err
	}
	if err := f.cfg.authorize(ctx, content.FunctionEdit, stored); err != nil {
		return err
	}
	contentType, err := loadContentType(ctx, f.contentTypes, stored.ContentTypeIdentifier)
	if err != nil {
		return err
	}

	updateData, err := f.mapper.MapToFormData(stored, contentType, mapper.UpdateParams{
		LanguageCode:        languageCode,
		InitialLanguageCode: req.Attribute(AttrFromLanguage),
	})
	if err != nil {
		return err
	}
	built, err := f.cfg.factory.ContentEdit(updateData, f.cfg.formOptions(req, languageCode, stored.MainLanguageCode)...)
	if err != nil {
		return optionsError(err, languageCode)
	}
	if err := bind(built, req); err != nil {
		return err
	}

	f.cfg.logger.Debug("content edit form resolved",
		zap.Int64("contentId", stored.ID),
		zap.Int("versionNo", stored.VersionNo),
		zap.String("language", languageCode),
		zap.Bool("translation", updateData.IsTranslation()),
	)
	event.Bag().Add(map[string]any{
		ParamForm:        built,
		ParamData:        updateData,
		ParamContentType: contentType,
		ParamContent:     stored,
	})
	return nil
}

// optionsError types form option failures. A malformed language code in the
// route names no language, so it is NotFound like a malformed id.
func optionsError(err error, languageCode string) error {
	if !errors.Is(err, formtype.ErrInvalidOptions) {
		return err
	}
	var fieldErrs validation.FieldErrors
	if errors.As(err, &fieldErrs) {
		if _, bad := fieldErrs["languageCode"]; bad {
			return content.NotFound("Language", languageCode).WithCause(err)
		}
	}
	return content.InvalidArgument("options", err.Error()).WithCause(err)
}

func loadContentType(ctx context.Context, service content.ContentTypeService, identifier string) (content.ContentType, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return content.ContentType{}, content.NotFound("ContentType", "")
	}
	ct, err := service.LoadContentTypeByIdentifier(ctx, identifier)
	if err != nil {
		return content.ContentType{}, err
	}
	if err := ct.Validate(); err != nil {
		return content.ContentType{}, err
	}
	return ct, nil
}

func parseID(kind, raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, content.NotFound(kind, raw)
	}
	return id, nil
}
