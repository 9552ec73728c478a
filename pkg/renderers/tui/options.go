package tui

import "net/url"

// OutputFormat controls how collected values are serialized.
type OutputFormat string

const (
	// OutputFormatFormURLEncoded emits an application/x-www-form-urlencoded
	// body ready to POST to the form action.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatJSON emits the collected values keyed by input name.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatPrettyText emits a human-friendly text summary. Password
	// values are masked.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme captures optional message prefixes the renderer applies when
// printing through the driver.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// SubmitTransformer mutates collected values before serialization.
type SubmitTransformer func(url.Values) (url.Values, error)

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithSubmitTransformer allows callers to mutate collected values prior to
// serialization.
func WithSubmitTransformer(fn SubmitTransformer) Option {
	return func(r *Renderer) {
		r.submitTransformer = fn
	}
}

// WithButton names the submit button recorded as clicked ("publish",
// "saveDraft", "create"). Defaults to the first button of the form.
func WithButton(name string) Option {
	return func(r *Renderer) {
		r.button = name
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}
