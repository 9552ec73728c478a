package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/goliatone/go-repoforms/pkg/content"
	"github.com/goliatone/go-repoforms/pkg/openapi"
	"github.com/goliatone/go-repoforms/pkg/validation"
)

const maxPayloadBytes = 1 << 20

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

// contentTypeLanguage loads the content type named by the route and picks
// the language from ?language, the server default or the type itself.
func (s *Server) contentTypeLanguage(r *http.Request) (content.ContentType, string, error) {
	ct, err := s.services.ContentTypes.LoadContentTypeByIdentifier(r.Context(), chi.URLParam(r, "identifier"))
	if err != nil {
		return content.ContentType{}, "", err
	}
	language := r.URL.Query().Get("language")
	if language == "" {
		language = s.language
	}
	if language == "" {
		language = ct.MainLanguageCode
	}
	return ct, language, nil
}

func (s *Server) schema(w http.ResponseWriter, r *http.Request) {
	ct, language, err := s.contentTypeLanguage(r)
	if err != nil {
		s.writeJSONError(w, r, err)
		return
	}
	schema, err := openapi.SchemaFor(r.Context(), ct, language, openapi.WithFactory(s.generator.Factory()))
	if err != nil {
		s.writeJSONError(w, r, err)
		return
	}
	render.JSON(w, r, schema)
}

func (s *Server) document(w http.ResponseWriter, r *http.Request) {
	ct, language, err := s.contentTypeLanguage(r)
	if err != nil {
		s.writeJSONError(w, r, err)
		return
	}
	doc, err := openapi.DocumentFor(r.Context(), ct, language, openapi.WithFactory(s.generator.Factory()))
	if err != nil {
		s.writeJSONError(w, r, err)
		return
	}
	render.JSON(w, r, doc)
}

// validate checks a JSON create payload against the content type schema.
// Schema violations answer 422 with the issues; malformed bodies answer 400.
func (s *Server) validate(w http.ResponseWriter, r *http.Request) {
	ct, language, err := s.contentTypeLanguage(r)
	if err != nil {
		s.writeJSONError(w, r, err)
		return
	}
	schema, err := openapi.SchemaFor(r.Context(), ct, language, openapi.WithFactory(s.generator.Factory()))
	if err != nil {
		s.writeJSONError(w, r, err)
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	if err != nil {
		s.writeJSONError(w, r, content.InvalidArgument("body", err.Error()).WithCause(err))
		return
	}

	err = openapi.ValidatePayload(schema, payload)
	var fieldErrs validation.FieldErrors
	switch {
	case err == nil:
		render.JSON(w, r, validation.Result{Valid: true})
	case errors.As(err, &fieldErrs):
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, validation.Result{Valid: false, Issues: fieldErrs.Issues()})
	default:
		s.writeJSONError(w, r, content.InvalidArgument("body", err.Error()).WithCause(err))
	}
}
