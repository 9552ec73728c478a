package template

import (
	"io"

	gotemplatepkg "github.com/goliatone/go-template"
)

// TemplateRenderer is the engine contract renderers depend on. Templates are
// addressed by path inside the engine's file system. It extends the
// go-template Renderer, so a go-template Engine can be injected as is.
type TemplateRenderer interface {
	gotemplatepkg.Renderer
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}

var _ TemplateRenderer = (*gotemplatepkg.Engine)(nil)
