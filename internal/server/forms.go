package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	repoforms "github.com/goliatone/go-repoforms"
	"github.com/goliatone/go-repoforms/pkg/content"
	"github.com/goliatone/go-repoforms/pkg/validation"
	"github.com/goliatone/go-repoforms/pkg/view"
)

// LocationURL is where a content item placed at location id is shown.
func LocationURL(id int64) string {
	return "/content/location/" + strconv.FormatInt(id, 10)
}

// EditDraftURL is the draft edit form of a content version.
func EditDraftURL(contentID int64, versionNo int, languageCode string) string {
	return fmt.Sprintf("/content/edit/draft/%d/%d/%s", contentID, versionNo, languageCode)
}

func routeAttributes(r *http.Request) map[string]string {
	attrs := make(map[string]string)
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return attrs
	}
	for i, key := range rctx.URLParams.Keys {
		if key == "*" || i >= len(rctx.URLParams.Values) {
			continue
		}
		attrs[key] = rctx.URLParams.Values[i]
	}
	return attrs
}

// formHandler resolves the form of a controller, renders it on GET and
// handles the submission on POST.
func (s *Server) formHandler(route, controller string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := s.generator.Resolve(r.Context(), view.Request{
			HTTP:       r,
			Route:      route,
			Controller: controller,
			Attributes: routeAttributes(r),
		})
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if !f.IsSubmitted() {
			s.renderForm(w, r, f, http.StatusOK, repoforms.RenderOptions{})
			return
		}

		button := f.ClickedButton()
		saved, err := s.generator.Save(r.Context(), f)
		var fieldErrs validation.FieldErrors
		switch {
		case errors.Is(err, repoforms.ErrCanceled):
			http.Redirect(w, r, cancelURL(f), http.StatusSeeOther)
		case errors.As(err, &fieldErrs):
			s.logger.Debug("form submission rejected",
				zap.String("route", route),
				zap.Any("errors", map[string][]string(fieldErrs)),
			)
			s.renderForm(w, r, f, http.StatusUnprocessableEntity, repoforms.RenderOptions{})
		case content.IsInvalidArgument(err):
			s.logger.Debug("content service rejected submission",
				zap.String("route", route),
				zap.Error(err),
			)
			s.renderForm(w, r, f, http.StatusUnprocessableEntity, repoforms.RenderOptions{
				Errors: submissionErrors(f, err),
			})
		case err != nil:
			s.writeError(w, r, err)
		case button == repoforms.ButtonSaveDraft && f.IsUpdate():
			http.Redirect(w, r, r.URL.RequestURI(), http.StatusSeeOther)
		case button == repoforms.ButtonSaveDraft:
			http.Redirect(w, r, EditDraftURL(saved.ID, saved.VersionNo, f.Language()), http.StatusSeeOther)
		default:
			http.Redirect(w, r, LocationURL(saved.MainLocationID), http.StatusSeeOther)
		}
	}
}

func cancelURL(f *repoforms.Form) string {
	if id := f.CancelLocation(); id > 0 {
		return LocationURL(id)
	}
	return "/"
}

// submissionErrors keys a rejected save by the input of the offending field.
// Errors without a field detail are reported on the form.
func submissionErrors(f *repoforms.Form, err error) map[string][]string {
	var typed *content.Error
	if !errors.As(err, &typed) {
		return map[string][]string{"form": {err.Error()}}
	}
	if field, ok := typed.Details["field"].(string); ok && field != "" {
		name := f.Name() + "[fieldsData][" + field + "][value]"
		return map[string][]string{name: {typed.Message}}
	}
	return map[string][]string{"form": {typed.Message}}
}

// renderForm renders the form and wraps it in the page layout.
func (s *Server) renderForm(w http.ResponseWriter, r *http.Request, f *repoforms.Form, status int, opts repoforms.RenderOptions) {
	markup, err := s.generator.Render(r.Context(), f, s.rendererName, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	page, err := s.pages.RenderTemplate("templates/page", map[string]any{
		"lang":  f.Language(),
		"title": f.Title(),
		"form":  string(markup),
	})
	if err != nil {
		s.writeError(w, r, fmt.Errorf("server: render page: %w", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(page))
}

// location answers the redirect target of saved content.
func (s *Server) location(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "locationId"), 10, 64)
	if err != nil || id <= 0 {
		s.writeJSONError(w, r, content.NotFound("Location", chi.URLParam(r, "locationId")))
		return
	}
	loc, err := s.services.Locations.LoadLocation(r.Context(), id)
	if err != nil {
		s.writeJSONError(w, r, err)
		return
	}
	render.JSON(w, r, loc)
}
