package render

import (
	"errors"
	"strings"

	"github.com/goliatone/go-repoforms/pkg/form"
)

// Translator resolves a message key for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// TranslatorFunc adapts a function to Translator.
type TranslatorFunc func(locale, key string, args ...any) (string, error)

// Translate implements Translator.
func (fn TranslatorFunc) Translate(locale, key string, args ...any) (string, error) {
	return fn(locale, key, args...)
}

// MissingTranslationHandler decides what to render when a key has no
// translation. params carries {"default": fallback} as its first entry.
type MissingTranslationHandler func(locale, key string, params []any, err error) string

// ErrMissingTranslator is passed to the missing handler when no translator is
// configured.
var ErrMissingTranslator = errors.New("render: translator not configured")

// View hints holding translation keys.
const (
	HintLabelKey       = "label_key"
	HintHelpKey        = "help_key"
	HintPlaceholderKey = "placeholder_key"
	HintPlaceholder    = "placeholder"
)

// LocalizeView translates labels, help texts and placeholders in place. Nodes
// with a *_key hint use it; other labels are looked up by their text, and
// keep it when no translation exists.
func LocalizeView(root *form.View, opts RenderOptions) {
	if root == nil || (opts.Translator == nil && opts.OnMissing == nil) {
		return
	}
	onMissing := opts.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}

	root.Walk(func(v *form.View) {
		v.Vars.Label = localize(opts.Locale, v.Vars.Hints[HintLabelKey], v.Vars.Label, opts.Translator, onMissing)
		v.Vars.Help = localize(opts.Locale, v.Vars.Hints[HintHelpKey], v.Vars.Help, opts.Translator, onMissing)
		if placeholder, ok := v.Vars.Hints[HintPlaceholder]; ok {
			v.SetHint(HintPlaceholder, localize(opts.Locale, v.Vars.Hints[HintPlaceholderKey], placeholder, opts.Translator, onMissing))
		}
	})
}

func localize(locale, key, text string, t Translator, onMissing MissingTranslationHandler) string {
	key = strings.TrimSpace(key)
	if key == "" {
		if strings.TrimSpace(text) == "" || t == nil {
			return text
		}
		if msg, err := t.Translate(locale, text); err == nil && strings.TrimSpace(msg) != "" {
			return msg
		}
		return text
	}
	return translate(locale, key, text, t, onMissing)
}

func translate(locale, key, fallback string, t Translator, onMissing MissingTranslationHandler) string {
	if t == nil {
		return onMissing(locale, key, []any{map[string]any{"default": fallback}}, ErrMissingTranslator)
	}
	result, err := t.Translate(locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	return onMissing(locale, key, []any{map[string]any{"default": fallback}}, err)
}

func missingTranslationDefault(_ string, key string, params []any, _ error) string {
	if len(params) > 0 {
		if m, ok := params[0].(map[string]any); ok {
			if fallback, ok := m["default"].(string); ok && strings.TrimSpace(fallback) != "" {
				return fallback
			}
		}
	}
	return key
}
