package render

import theme "github.com/goliatone/go-theme"

// RenderOptions describe per-request data that renderers can use to customise
// their output without touching the form tree.
type RenderOptions struct {
	// Method overrides the method declared by the root view. Renderers emit
	// POST plus a hidden _method input for PUT, PATCH and DELETE.
	Method string
	// Action overrides the root view action.
	Action string
	// HiddenFields are emitted as hidden inputs next to the form fields.
	HiddenFields map[string]string
	// Errors surfaces server-side feedback keyed by dotted view path
	// ("fieldsData.title.value"). Use MapErrorPayload to build it from
	// bracketed names or JSON pointers.
	Errors map[string][]string
	// FormErrors are rendered above the fields.
	FormErrors []string
	// Subset restricts rendering to some field definitions.
	Subset FieldSubset
	// Locale and Translator localise labels and help texts.
	Locale     string
	Translator Translator
	OnMissing  MissingTranslationHandler
	// Theme carries partial overrides, tokens and CSS variables.
	Theme *theme.RendererConfig
}
