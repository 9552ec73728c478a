package components

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-repoforms/pkg/form"
)

func noop(*bytes.Buffer, *form.View, ComponentData) error { return nil }

func TestRegistryDescriptorClone(t *testing.T) {
	reg := New()
	if err := reg.Register("test", Descriptor{Renderer: noop, Stylesheets: []string{"/a.css"}}); err != nil {
		t.Fatalf("register: %v", err)
	}

	desc, _ := reg.Descriptor("test")
	desc.Stylesheets = append(desc.Stylesheets, "/mutated.css")

	original, _ := reg.Descriptor("test")
	if diff := cmp.Diff([]string{"/a.css"}, original.Stylesheets); diff != "" {
		t.Fatalf("registry descriptor mutated (-want +got):\n%s", diff)
	}
	if err := reg.Register(" ", Descriptor{Renderer: noop}); err == nil {
		t.Fatalf("expected empty name to fail")
	}
	if err := reg.Register("nil", Descriptor{}); err == nil {
		t.Fatalf("expected nil renderer to fail")
	}
}

func TestRegistryResolvePrefersSpecificPrefix(t *testing.T) {
	reg := NewDefaultRegistry()

	desc, ok := reg.Resolve([]string{"form", "integer", "ezplatform_fieldtype_ezdate"})
	if !ok || desc.Name != NameDate {
		t.Fatalf("expected date component, got %q", desc.Name)
	}
	desc, ok = reg.Resolve([]string{"form", "integer", "ezplatform_fieldtype_ezinteger"})
	if !ok || desc.Name != NameInteger {
		t.Fatalf("expected integer component, got %q", desc.Name)
	}
	if _, ok := New().Resolve([]string{"form"}); ok {
		t.Fatalf("empty registry must not resolve")
	}
}

func TestRegistryAssetsDeduplicates(t *testing.T) {
	reg := NewDefaultRegistry()
	styles, scripts := reg.Assets([]string{NameDate, NameDateTime, NameText})
	if len(styles) != 0 {
		t.Fatalf("unexpected stylesheets %v", styles)
	}
	if diff := cmp.Diff([]Script{{Src: DatePickerScript, Defer: true}}, scripts); diff != "" {
		t.Fatalf("scripts mismatch (-want +got):\n%s", diff)
	}
}

func TestCompoundRendererUsesPlainLabel(t *testing.T) {
	view := &form.View{
		Vars: form.Vars{ID: "f_value", Label: "Field <b>", Compound: true, Valid: true, BlockPrefixes: []string{"form"}},
		Children: []*form.View{
			{Vars: form.Vars{Name: "a"}},
			{Vars: form.Vars{Name: "b"}},
		},
	}
	var buf bytes.Buffer
	err := compoundRenderer(&buf, view, ComponentData{
		RenderChild: func(child *form.View) (string, error) { return "[" + child.Vars.Name + "]", nil },
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`id="f_value"`, `<label class="repoforms-compound__label">Field &lt;b&gt;</label>`, "[a][b]"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %s", want, out)
		}
	}
	if strings.Contains(out, " for=") {
		t.Fatalf("compound label must not point at a control: %s", out)
	}
}
