// Package repoforms builds editing forms for repository content types. A
// Generator resolves the create, edit and translate forms through the view
// dispatcher, renders them with any registered renderer and stores valid
// submissions through the content services.
package repoforms

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/goliatone/go-repoforms/pkg/content"
	"github.com/goliatone/go-repoforms/pkg/data"
	"github.com/goliatone/go-repoforms/pkg/form"
	"github.com/goliatone/go-repoforms/pkg/formtype"
	"github.com/goliatone/go-repoforms/pkg/mapper"
	"github.com/goliatone/go-repoforms/pkg/render"
	"github.com/goliatone/go-repoforms/pkg/renderers/vanilla"
	"github.com/goliatone/go-repoforms/pkg/validation"
	"github.com/goliatone/go-repoforms/pkg/view"
)

// ErrCanceled is returned by Save when the cancel button was clicked.
var ErrCanceled = errors.New("repoforms: submission canceled")

// ErrNotSubmitted is returned by Save for forms that were never bound.
var ErrNotSubmitted = errors.New("repoforms: form is not submitted")

// Buttons of the content forms.
const (
	ButtonPublish   = "publish"
	ButtonSaveDraft = "saveDraft"
	ButtonCancel    = "cancel"
	ButtonCreate    = "create"
)

// RenderOptions aliases render.RenderOptions for callers of Render.
type RenderOptions = render.RenderOptions

// EmbeddedTemplates exposes the vanilla renderer templates so callers can
// extend them.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// Services are the repositories forms are resolved against.
type Services struct {
	ContentTypes content.ContentTypeService
	Locations    content.LocationService
	Contents     content.ContentService
}

// Validate reports a missing service.
func (s Services) Validate() error {
	switch {
	case s.ContentTypes == nil:
		return errors.New("repoforms: content type service is required")
	case s.Locations == nil:
		return errors.New("repoforms: location service is required")
	case s.Contents == nil:
		return errors.New("repoforms: content service is required")
	}
	return nil
}

// Option configures a Generator.
type Option func(*config)

type config struct {
	logger      *zap.Logger
	permissions content.PermissionResolver
	factory     *formtype.Factory
	renderers   []render.Renderer
	filterOpts  []view.FilterOption
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithPermissions enables content/read, content/create and content/edit
// checks.
func WithPermissions(resolver content.PermissionResolver) Option {
	return func(c *config) { c.permissions = resolver }
}

// WithFactory sets the form factory.
func WithFactory(factory *formtype.Factory) Option {
	return func(c *config) { c.factory = factory }
}

// WithRenderer registers a renderer next to the default vanilla one. A
// renderer named "vanilla" replaces the default.
func WithRenderer(renderer render.Renderer) Option {
	return func(c *config) {
		if renderer != nil {
			c.renderers = append(c.renderers, renderer)
		}
	}
}

// WithFilterOptions passes extra options to the content view filters.
func WithFilterOptions(opts ...view.FilterOption) Option {
	return func(c *config) { c.filterOpts = append(c.filterOpts, opts...) }
}

// Generator resolves, renders and saves content forms.
type Generator struct {
	services    Services
	factory     *formtype.Factory
	permissions content.PermissionResolver
	renderers   *render.Registry
	dispatcher  *view.Dispatcher
	logger      *zap.Logger
}

// New wires the content filters and the renderer registry.
func New(services Services, opts ...Option) (*Generator, error) {
	if err := services.Validate(); err != nil {
		return nil, err
	}
	cfg := config{logger: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.factory == nil {
		cfg.factory = formtype.NewFactory(formtype.WithLogger(cfg.logger))
	}

	renderers := render.NewRegistry()
	custom := make(map[string]bool, len(cfg.renderers))
	for _, r := range cfg.renderers {
		custom[r.Name()] = true
	}
	if !custom["vanilla"] {
		html, err := vanilla.New(vanilla.WithDefaultStyles())
		if err != nil {
			return nil, fmt.Errorf("repoforms: %w", err)
		}
		renderers.MustRegister(html)
	}
	for _, r := range cfg.renderers {
		if err := renderers.Register(r); err != nil {
			return nil, fmt.Errorf("repoforms: %w", err)
		}
	}
	if custom["vanilla"] {
		if err := renderers.SetDefault("vanilla"); err != nil {
			return nil, fmt.Errorf("repoforms: %w", err)
		}
	}

	filterOpts := append([]view.FilterOption{
		view.WithFormFactory(cfg.factory),
		view.WithPermissionResolver(cfg.permissions),
		view.WithFilterLogger(cfg.logger),
	}, cfg.filterOpts...)
	dispatcher := view.NewDispatcher(view.WithDispatcherLogger(cfg.logger))
	dispatcher.MustRegister(view.ControllerCreateWithoutDraft,
		view.NewContentCreateViewFilter(services.Locations, services.ContentTypes, filterOpts...))
	dispatcher.MustRegister(view.ControllerEditVersionDraft,
		view.NewContentEditViewFilter(services.Contents, services.ContentTypes, filterOpts...))

	return &Generator{
		services:    services,
		factory:     cfg.factory,
		permissions: cfg.permissions,
		renderers:   renderers,
		dispatcher:  dispatcher,
		logger:      cfg.logger,
	}, nil
}

// Factory returns the form factory.
func (g *Generator) Factory() *formtype.Factory { return g.factory }

// Dispatcher returns the view dispatcher so callers can register more
// interceptors.
func (g *Generator) Dispatcher() *view.Dispatcher { return g.dispatcher }

// Renderers returns the renderer registry.
func (g *Generator) Renderers() *render.Registry { return g.renderers }

// Form is a resolved content form together with the view parameters it was
// built from.
type Form struct {
	*form.Form
	Request    view.Request
	Parameters *view.ParameterBag
}

// Context returns ctx carrying the routing details components render with.
func (f *Form) Context(ctx context.Context) context.Context {
	return form.ContextWithRequest(ctx, f.Request.Info())
}

// Language is the language the form edits.
func (f *Form) Language() string {
	return f.Request.Attribute(view.AttrLanguage)
}

// IsUpdate reports whether the form edits an existing version.
func (f *Form) IsUpdate() bool {
	_, ok := f.Parameters.Get(view.ParamData).(*data.ContentUpdateData)
	return ok
}

// CancelLocation is the location shown when the form is canceled: the parent
// of new content or the main location of edited content.
func (f *Form) CancelLocation() int64 {
	if loc, ok := f.Parameters.Get(view.ParamLocation).(content.Location); ok {
		return loc.ID
	}
	if c, ok := f.Parameters.Get(view.ParamContent).(content.Content); ok {
		return c.MainLocationID
	}
	return 0
}

// Title is the content type name in the form language.
func (f *Form) Title() string {
	if ct, ok := f.Parameters.Get(view.ParamContentType).(content.ContentType); ok {
		return ct.Name(f.Language())
	}
	return f.Name()
}

// Resolve dispatches req and returns the form its filters published.
func (g *Generator) Resolve(ctx context.Context, req view.Request) (*Form, error) {
	event := view.NewFilterParametersEvent(req)
	if err := g.dispatcher.Dispatch(form.ContextWithRequest(ctx, req.Info()), event); err != nil {
		return nil, err
	}
	f, ok := event.Parameters.Form()
	if !ok {
		return nil, fmt.Errorf("repoforms: no form resolved for controller %q", req.Controller)
	}
	return &Form{Form: f, Request: req, Parameters: event.Parameters}, nil
}

// CreateRequest names the form of a new content item.
type CreateRequest struct {
	ContentType      string
	Language         string
	ParentLocationID int64
}

// CreateForm resolves the create form without an HTTP request.
func (g *Generator) CreateForm(ctx context.Context, req CreateRequest) (*Form, error) {
	return g.Resolve(ctx, view.Request{
		Route:      form.RouteContentCreateNoDraft,
		Controller: view.ControllerCreateWithoutDraft,
		Attributes: map[string]string{
			view.AttrContentTypeIdentifier: req.ContentType,
			view.AttrLanguage:              req.Language,
			view.AttrParentLocationID:      strconv.FormatInt(req.ParentLocationID, 10),
		},
	})
}

// EditRequest names a content version and the language to edit. A
// FromLanguage different from Language resolves the translate form.
type EditRequest struct {
	ContentID    int64
	VersionNo    int
	Language     string
	FromLanguage string
}

// EditForm resolves the draft edit or translate form without an HTTP
// request.
func (g *Generator) EditForm(ctx context.Context, req EditRequest) (*Form, error) {
	attrs := map[string]string{
		view.AttrContentID: strconv.FormatInt(req.ContentID, 10),
		view.AttrVersionNo: strconv.Itoa(req.VersionNo),
		view.AttrLanguage:  req.Language,
	}
	route := form.RouteContentDraftEdit
	if req.FromLanguage != "" && req.FromLanguage != req.Language {
		route = form.RouteContentTranslate
		attrs[view.AttrFromLanguage] = req.FromLanguage
	}
	return g.Resolve(ctx, view.Request{
		Route:      route,
		Controller: view.ControllerEditVersionDraft,
		Attributes: attrs,
	})
}

// Render renders f with the named renderer; "" picks the default. The
// locale defaults to the form language. opts.Errors may be keyed by input
// name, dotted path or JSON pointer; keys matching no field are rendered as
// form errors.
func (g *Generator) Render(ctx context.Context, f *Form, rendererName string, opts RenderOptions) ([]byte, error) {
	renderer, err := g.renderers.Get(rendererName)
	if err != nil {
		return nil, fmt.Errorf("repoforms: %w", err)
	}
	if opts.Locale == "" {
		opts.Locale = f.Language()
	}
	ctx = f.Context(ctx)
	v := f.CreateView(ctx)
	if len(opts.Errors) > 0 {
		mapping := render.MapErrorPayload(v, opts.Errors)
		opts.Errors = mapping.Fields
		opts.FormErrors = render.MergeFormErrors(opts.FormErrors, mapping.Form...)
	}
	return renderer.Render(ctx, v, opts)
}

// Submit binds values to f and saves it.
func (g *Generator) Submit(ctx context.Context, f *Form, values url.Values) (content.Content, error) {
	if err := f.HandleValues(values); err != nil {
		return content.Content{}, fmt.Errorf("repoforms: %w", err)
	}
	return g.Save(ctx, f)
}

// Save stores a submitted form: new content for create forms, the edited
// language for update forms. Invalid forms return their errors as
// validation.FieldErrors and nothing is stored.
func (g *Generator) Save(ctx context.Context, f *Form) (content.Content, error) {
	switch {
	case !f.IsSubmitted():
		return content.Content{}, ErrNotSubmitted
	case f.ClickedButton() == ButtonCancel:
		return content.Content{}, ErrCanceled
	case !f.IsValid():
		return content.Content{}, validation.FieldErrors(f.Errors())
	}

	switch d := f.Parameters.Get(view.ParamData).(type) {
	case *data.ContentCreateData:
		return g.create(ctx, d)
	case *data.UserCreateData:
		return g.create(ctx, &d.ContentCreateData)
	case *data.ContentUpdateData:
		stored, _ := f.Parameters.Get(view.ParamContent).(content.Content)
		return g.update(ctx, stored, d)
	default:
		return content.Content{}, fmt.Errorf("repoforms: unexpected form data %T", d)
	}
}

func (g *Generator) authorize(ctx context.Context, function string, target any) error {
	if g.permissions == nil {
		return nil
	}
	ok, err := g.permissions.CanUser(ctx, content.ModuleContent, function, target)
	if err != nil {
		return fmt.Errorf("repoforms: check %s/%s: %w", content.ModuleContent, function, err)
	}
	if !ok {
		return content.Unauthorized(content.ModuleContent, function)
	}
	return nil
}

func (g *Generator) create(ctx context.Context, d *data.ContentCreateData) (content.Content, error) {
	if err := g.authorize(ctx, content.FunctionCreate, d.ContentType); err != nil {
		return content.Content{}, err
	}
	create, err := mapper.ToCreateStruct(g.factory.Registry(), d)
	if err != nil {
		return content.Content{}, err
	}
	created, err := g.services.Contents.CreateContent(ctx, create)
	if err != nil {
		return content.Content{}, err
	}
	g.logger.Info("content created",
		zap.Int64("contentId", created.ID),
		zap.String("contentType", created.ContentTypeIdentifier),
		zap.Int64("mainLocationId", created.MainLocationID),
	)
	return created, nil
}

func (g *Generator) update(ctx context.Context, stored content.Content, d *data.ContentUpdateData) (content.Content, error) {
	if err := g.authorize(ctx, content.FunctionEdit, stored); err != nil {
		return content.Content{}, err
	}
	update, err := mapper.ToUpdateStruct(g.factory.Registry(), d)
	if err != nil {
		return content.Content{}, err
	}
	updated, err := g.services.Contents.UpdateContent(ctx, update)
	if err != nil {
		return content.Content{}, err
	}
	g.logger.Info("content updated",
		zap.Int64("contentId", updated.ID),
		zap.Int("versionNo", updated.VersionNo),
		zap.String("language", d.LanguageCode),
	)
	return updated, nil
}
