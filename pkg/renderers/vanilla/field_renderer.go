package vanilla

import (
	"bytes"
	"fmt"
	"html"
	"slices"
	"strings"

	"github.com/goliatone/go-repoforms/pkg/form"
	"github.com/goliatone/go-repoforms/pkg/render/template"
	"github.com/goliatone/go-repoforms/pkg/renderers/vanilla/components"
)

type componentRenderer struct {
	templates template.TemplateRenderer
	registry  *components.Registry
	partials  map[string]string
	classes   map[string]string

	usedComponents map[string]struct{}
}

func newComponentRenderer(templates template.TemplateRenderer, registry *components.Registry, partials, classes map[string]string) *componentRenderer {
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}
	return &componentRenderer{
		templates:      templates,
		registry:       registry,
		partials:       partials,
		classes:        classes,
		usedComponents: make(map[string]struct{}),
	}
}

// render returns the markup of one node: the bare control for components
// owning their chrome, a labelled row otherwise.
func (r *componentRenderer) render(view *form.View) (string, error) {
	descriptor, ok := r.registry.Resolve(view.Vars.BlockPrefixes)
	if !ok {
		return "", fmt.Errorf("no component registered for %q (block prefixes %v)", view.Vars.FullName, view.Vars.BlockPrefixes)
	}

	data := components.ComponentData{
		Template:    r.templates,
		Partials:    r.partials,
		RenderChild: r.render,
	}
	var control bytes.Buffer
	if err := descriptor.Renderer(&control, view, data); err != nil {
		return "", fmt.Errorf("render component %q for %q: %w", descriptor.Name, view.Vars.FullName, err)
	}
	r.usedComponents[descriptor.Name] = struct{}{}

	if descriptor.OwnsChrome {
		return control.String(), nil
	}
	return r.buildFieldMarkup(view, descriptor.Name, control.String()), nil
}

func (r *componentRenderer) assets() (stylesheets []string, scripts []components.Script) {
	if len(r.usedComponents) == 0 {
		return nil, nil
	}
	names := make([]string, 0, len(r.usedComponents))
	for name := range r.usedComponents {
		names = append(names, name)
	}
	slices.Sort(names)
	return r.registry.Assets(names)
}

// buildFieldMarkup wraps a leaf control with its label, help and errors. The
// label points at the control id.
func (r *componentRenderer) buildFieldMarkup(view *form.View, componentName, control string) string {
	vars := view.Vars

	var b strings.Builder
	b.Grow(len(control) + 256)

	b.WriteString(`<div class="`)
	b.WriteString(html.EscapeString(r.classes["row"]))
	if !vars.Valid {
		b.WriteString(` repoforms-row--invalid`)
	}
	if extra := sanitizeClassList(vars.Hints["row_class"]); extra != "" {
		b.WriteByte(' ')
		b.WriteString(html.EscapeString(extra))
	}
	b.WriteString(`" data-component="`)
	b.WriteString(html.EscapeString(componentName))
	b.WriteString(`"`)
	if fieldType := vars.Hints["field_type"]; fieldType != "" {
		b.WriteString(` data-field-type="`)
		b.WriteString(html.EscapeString(fieldType))
		b.WriteString(`"`)
	}
	b.WriteString(">\n")

	if label := strings.TrimSpace(vars.Label); label != "" && vars.Hints["hide_label"] != "true" {
		b.WriteString(`<label for="`)
		b.WriteString(html.EscapeString(vars.ID))
		b.WriteString(`" id="`)
		b.WriteString(html.EscapeString(vars.ID + "_label"))
		b.WriteString(`"`)
		if vars.Required {
			b.WriteString(` class="required"`)
		}
		for _, key := range sortedKeys(vars.LabelAttr) {
			b.WriteByte(' ')
			b.WriteString(html.EscapeString(key))
			b.WriteString(`="`)
			b.WriteString(html.EscapeString(vars.LabelAttr[key]))
			b.WriteString(`"`)
		}
		b.WriteString(`>`)
		b.WriteString(html.EscapeString(label))
		b.WriteString("</label>\n")
	}

	for _, line := range strings.Split(control, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	if help := sanitizeHelp(vars.Help); help != "" {
		b.WriteString(`<small id="`)
		b.WriteString(html.EscapeString(vars.ID + "_help"))
		b.WriteString(`" class="`)
		b.WriteString(html.EscapeString(r.classes["help"]))
		b.WriteString(`">`)
		b.WriteString(help)
		b.WriteString("</small>\n")
	}

	var errs bytes.Buffer
	components.WriteErrors(&errs, vars.Errors)
	b.Write(errs.Bytes())

	b.WriteString("</div>\n")
	return b.String()
}

func sortedKeys(m map[string]string) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}
