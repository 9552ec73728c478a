package form

// Options configure content forms. They are validated by the factory before
// a form is built.
type Options struct {
	LanguageCode     string `json:"languageCode" validate:"required,langcode"`
	MainLanguageCode string `json:"mainLanguageCode" validate:"required,langcode"`
	DraftsEnabled    bool   `json:"drafts_enabled"`
	// Action is the URL the rendered form posts to.
	Action string `json:"action,omitempty"`
	// CSRFToken, when set, adds a hidden _token field that must round trip.
	CSRFToken string `json:"-"`
}

// Option mutates Options.
type Option func(*Options)

// WithLanguageCode sets the language edited by the form.
func WithLanguageCode(code string) Option {
	return func(o *Options) { o.LanguageCode = code }
}

// WithMainLanguageCode sets the main language of the content.
func WithMainLanguageCode(code string) Option {
	return func(o *Options) { o.MainLanguageCode = code }
}

// WithDraftsEnabled toggles the save draft action.
func WithDraftsEnabled(enabled bool) Option {
	return func(o *Options) { o.DraftsEnabled = enabled }
}

// WithAction sets the form action URL.
func WithAction(action string) Option {
	return func(o *Options) { o.Action = action }
}

// WithCSRFToken enables CSRF protection with the expected token.
func WithCSRFToken(token string) Option {
	return func(o *Options) { o.CSRFToken = token }
}

// NewOptions applies opts over zero Options.
func NewOptions(opts ...Option) Options {
	var out Options
	for _, opt := range opts {
		if opt != nil {
			opt(&out)
		}
	}
	return out
}
