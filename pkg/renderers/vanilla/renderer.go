package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-repoforms/pkg/form"
	"github.com/goliatone/go-repoforms/pkg/render"
	rendertemplate "github.com/goliatone/go-repoforms/pkg/render/template"
	"github.com/goliatone/go-repoforms/pkg/render/template/gotemplate"
	"github.com/goliatone/go-repoforms/pkg/renderers/vanilla/components"
)

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	registry         *components.Registry
	stylesheets      []string
	inlineStyles     bool
	classes          ChromeClasses
}

// WithTemplatesFS supplies an alternate template bundle.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponentRegistry replaces the component registry.
func WithComponentRegistry(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

// WithStylesheet links an external stylesheet before the form.
func WithStylesheet(href string) Option {
	return func(cfg *config) {
		if href = strings.TrimSpace(href); href != "" {
			cfg.stylesheets = append(cfg.stylesheets, href)
		}
	}
}

// WithDefaultStyles inlines the bundled stylesheet.
func WithDefaultStyles() Option {
	return func(cfg *config) {
		cfg.inlineStyles = true
	}
}

// WithChromeClasses overrides chrome CSS classes.
func WithChromeClasses(classes ChromeClasses) Option {
	return func(cfg *config) {
		cfg.classes = classes
	}
}

// Renderer renders form views as server-side HTML.
type Renderer struct {
	templates    rendertemplate.TemplateRenderer
	registry     *components.Registry
	stylesheets  []string
	inlineStyles string
	classes      map[string]string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer.
func New(options ...Option) (*Renderer, error) {
	cfg := config{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.registry == nil {
		cfg.registry = components.NewDefaultRegistry()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	out := &Renderer{
		templates:   renderer,
		registry:    cfg.registry,
		stylesheets: cfg.stylesheets,
		classes:     cfg.classes.resolve(),
	}
	if cfg.inlineStyles {
		out.inlineStyles = defaultStylesheet()
	}
	return out, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render writes the form element for the root view. Buttons are collected
// into the actions bar; every other child is rendered in tree order.
func (r *Renderer) Render(_ context.Context, view *form.View, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if view == nil {
		return nil, fmt.Errorf("vanilla renderer: view is nil")
	}

	formErrors := render.Prepare(view, opts)
	submission := render.ResolveSubmission(view, opts)
	themeCtx, partials := buildThemeContext(opts.Theme)

	fields := newComponentRenderer(r.templates, r.registry, partials, r.classes)
	var body, actions strings.Builder
	for _, child := range view.Children {
		rendered, err := fields.render(child)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: %w", err)
		}
		if child.Vars.InputType == "submit" {
			actions.WriteString(rendered)
			actions.WriteByte('\n')
			continue
		}
		body.WriteString(rendered)
	}

	stylesheets := append([]string(nil), r.stylesheets...)
	if href := themeAsset(opts.Theme, "vanilla.stylesheet"); href != "" {
		stylesheets = append(stylesheets, href)
	}
	componentStyles, scripts := fields.assets()
	stylesheets = append(stylesheets, componentStyles...)

	hidden := make([]map[string]string, 0, len(submission.Hidden))
	for _, field := range submission.Hidden {
		hidden = append(hidden, map[string]string{"name": field.Name, "value": field.Value})
	}
	scriptData := make([]map[string]any, 0, len(scripts))
	for _, script := range scripts {
		scriptData = append(scriptData, map[string]any{
			"src":    script.Src,
			"type":   script.Type,
			"inline": script.Inline,
			"defer":  script.Defer,
			"module": script.Module,
		})
	}

	result, err := r.templates.RenderTemplate("templates/form.tmpl", map[string]any{
		"form":          map[string]string{"id": view.Vars.ID, "name": view.Vars.Name},
		"submission":    map[string]string{"method": submission.Method, "action": submission.Action},
		"hidden":        hidden,
		"form_errors":   formErrors,
		"body":          body.String(),
		"actions":       actions.String(),
		"classes":       r.classes,
		"theme":         themeCtx,
		"stylesheets":   stylesheets,
		"inline_styles": r.inlineStyles,
		"scripts":       scriptData,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}
