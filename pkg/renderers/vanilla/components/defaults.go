package components

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/goliatone/go-repoforms/pkg/form"
)

const templatePrefix = "templates/components/"

// Date picker assets emitted once per render when a date field is present.
const (
	DatePickerScript = "/assets/repoforms-date.js"
)

// NewDefaultRegistry returns a registry covering every base widget.
func NewDefaultRegistry() *Registry {
	registry := New()

	input := Descriptor{Renderer: templateComponentRenderer("forms.input", templatePrefix+"input.tmpl")}
	for _, name := range []string{NameText, NameEmail, NameURL, NamePassword, NameInteger, NameNumber} {
		registry.MustRegister(name, input)
	}
	registry.MustRegister(NameTextarea, Descriptor{
		Renderer: templateComponentRenderer("forms.textarea", templatePrefix+"textarea.tmpl"),
	})
	registry.MustRegister(NameChoice, Descriptor{
		Renderer: templateComponentRenderer("forms.choice", templatePrefix+"choice.tmpl"),
	})
	registry.MustRegister(NameCheckbox, Descriptor{
		Renderer: templateComponentRenderer("forms.checkbox", templatePrefix+"checkbox.tmpl"),
	})
	registry.MustRegister(NameHidden, Descriptor{
		Renderer:   templateComponentRenderer("forms.hidden", templatePrefix+"hidden.tmpl"),
		OwnsChrome: true,
	})
	registry.MustRegister(NameSubmit, Descriptor{
		Renderer:   templateComponentRenderer("forms.button", templatePrefix+"button.tmpl"),
		OwnsChrome: true,
	})
	registry.MustRegister(NameCompound, Descriptor{
		Renderer:   compoundRenderer,
		OwnsChrome: true,
	})

	date := Descriptor{
		Renderer: templateComponentRenderer("forms.date", templatePrefix+"date.tmpl"),
		Scripts:  []Script{{Src: DatePickerScript, Defer: true}},
	}
	registry.MustRegister(NameDate, date)
	registry.MustRegister(NameDateTime, date)

	return registry
}

func templateComponentRenderer(partialKey, templateName string) Renderer {
	return func(buf *bytes.Buffer, view *form.View, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}
		resolved := templateName
		if candidate := strings.TrimSpace(data.Partials[partialKey]); candidate != "" {
			resolved = candidate
		}
		rendered, err := data.Template.RenderTemplate(resolved, map[string]any{
			"field": view.Vars,
		})
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", resolved, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}

// compoundRenderer groups children in a container carrying the node id. The
// label is a plain <label> without "for": no single control owns it.
func compoundRenderer(buf *bytes.Buffer, view *form.View, data ComponentData) error {
	vars := view.Vars

	buf.WriteString(`<div class="repoforms-compound`)
	if !vars.Valid {
		buf.WriteString(` repoforms-compound--invalid`)
	}
	buf.WriteString(`"`)
	writeAttr(buf, "id", vars.ID)
	writeAttr(buf, "data-block-prefix", view.BlockPrefix())
	if fieldType := vars.Hints["field_type"]; fieldType != "" {
		writeAttr(buf, "data-field-type", fieldType)
	}
	buf.WriteString(">\n")

	if label := strings.TrimSpace(vars.Label); label != "" {
		buf.WriteString(`<label class="repoforms-compound__label`)
		if vars.Required {
			buf.WriteString(` required`)
		}
		buf.WriteString(`">`)
		buf.WriteString(html.EscapeString(label))
		buf.WriteString("</label>\n")
	}
	WriteErrors(buf, vars.Errors)

	for _, child := range view.Children {
		if data.RenderChild == nil {
			return fmt.Errorf("components: compound %q cannot render children", vars.FullName)
		}
		rendered, err := data.RenderChild(child)
		if err != nil {
			return err
		}
		buf.WriteString(rendered)
	}
	buf.WriteString("</div>\n")
	return nil
}

// WriteErrors renders an error list. Nothing is written for no errors.
func WriteErrors(buf *bytes.Buffer, errs []string) {
	if len(errs) == 0 {
		return
	}
	buf.WriteString(`<ul class="repoforms-errors" role="alert">`)
	for _, msg := range errs {
		buf.WriteString("<li>")
		buf.WriteString(html.EscapeString(msg))
		buf.WriteString("</li>")
	}
	buf.WriteString("</ul>\n")
}

func writeAttr(buf *bytes.Buffer, name, value string) {
	if value == "" {
		return
	}
	buf.WriteByte(' ')
	buf.WriteString(name)
	buf.WriteString(`="`)
	buf.WriteString(html.EscapeString(value))
	buf.WriteByte('"')
}
