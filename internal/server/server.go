// Package server exposes the content forms and their schemas over HTTP.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	gotemplatepkg "github.com/goliatone/go-template"
	"go.uber.org/zap"

	repoforms "github.com/goliatone/go-repoforms"
	"github.com/goliatone/go-repoforms/internal/permission"
	"github.com/goliatone/go-repoforms/pkg/content"
	"github.com/goliatone/go-repoforms/pkg/form"
	"github.com/goliatone/go-repoforms/pkg/formtype"
	formrender "github.com/goliatone/go-repoforms/pkg/render"
	rendertemplate "github.com/goliatone/go-repoforms/pkg/render/template"
	"github.com/goliatone/go-repoforms/pkg/view"
)

//go:embed templates/*.tmpl
var templates embed.FS

// Services are the repositories the handlers read from and write to.
type Services = repoforms.Services

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPermissions sets the permission resolver. Everything is allowed when
// unset.
func WithPermissions(resolver content.PermissionResolver) Option {
	return func(s *Server) { s.options = append(s.options, repoforms.WithPermissions(resolver)) }
}

// WithCSRFSecret enables CSRF tokens on every form.
func WithCSRFSecret(secret string) Option {
	return func(s *Server) { s.csrfSecret = secret }
}

// WithRenderer sets the renderer of HTML pages. It must produce markup that
// can be embedded in the page layout.
func WithRenderer(renderer formrender.Renderer) Option {
	return func(s *Server) {
		if renderer != nil {
			s.options = append(s.options, repoforms.WithRenderer(renderer))
			s.rendererName = renderer.Name()
		}
	}
}

// WithFactory sets the form factory shared by forms and schemas.
func WithFactory(factory *formtype.Factory) Option {
	return func(s *Server) { s.options = append(s.options, repoforms.WithFactory(factory)) }
}

// WithDefaultLanguage sets the language of schema requests without a
// ?language parameter. Defaults to the content type main language.
func WithDefaultLanguage(languageCode string) Option {
	return func(s *Server) { s.language = languageCode }
}

// WithTimeout bounds request handling. Defaults to 30s.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// Server routes form and API requests.
type Server struct {
	generator    *repoforms.Generator
	services     Services
	options      []repoforms.Option
	rendererName string
	pages        rendertemplate.TemplateRenderer
	logger       *zap.Logger
	csrfSecret   string
	language     string
	timeout      time.Duration
	router       chi.Router
}

// New wires the form generator, the page layout and the routes.
func New(services Services, opts ...Option) (*Server, error) {
	s := &Server{
		services: services,
		logger:   zap.NewNop(),
		timeout:  30 * time.Second,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	genOpts := append([]repoforms.Option{
		repoforms.WithLogger(s.logger),
		repoforms.WithFilterOptions(view.WithCSRFTokens(csrfTokens(s.csrfSecret))),
	}, s.options...)
	generator, err := repoforms.New(services, genOpts...)
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	s.generator = generator

	pages, err := gotemplatepkg.NewRenderer(gotemplatepkg.WithFS(templates), gotemplatepkg.WithExtension(".tmpl"))
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	s.pages = pages
	s.router = s.routes()
	return s, nil
}

// Dispatcher returns the view dispatcher so callers can register more
// interceptors.
func (s *Server) Dispatcher() *view.Dispatcher {
	return s.generator.Dispatcher()
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))
	r.Use(permission.Middleware)

	r.Get("/health", s.health)

	r.Route("/content", func(r chi.Router) {
		create := s.formHandler(form.RouteContentCreateNoDraft, view.ControllerCreateWithoutDraft)
		r.Get("/create/nodraft/{contentTypeIdentifier}/{language}/{parentLocationId}", create)
		r.Post("/create/nodraft/{contentTypeIdentifier}/{language}/{parentLocationId}", create)

		edit := s.formHandler(form.RouteContentDraftEdit, view.ControllerEditVersionDraft)
		r.Get("/edit/draft/{contentId}/{versionNo}/{language}", edit)
		r.Post("/edit/draft/{contentId}/{versionNo}/{language}", edit)

		translate := s.formHandler(form.RouteContentTranslate, view.ControllerEditVersionDraft)
		r.Get("/translate/{contentId}/{versionNo}/{fromLanguage}/{language}", translate)
		r.Post("/translate/{contentId}/{versionNo}/{fromLanguage}/{language}", translate)

		r.Get("/location/{locationId}", s.location)
	})

	r.Route("/api/content-types/{identifier}", func(r chi.Router) {
		r.Get("/schema", s.schema)
		r.Get("/openapi", s.document)
		r.Post("/validate", s.validate)
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
