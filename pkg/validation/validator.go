package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translation "github.com/go-playground/validator/v10/translations/en"
)

const defaultLocale = "en"

// TagLanguageCode validates repository language codes such as "eng-GB".
const TagLanguageCode = "langcode"

var languageCodePattern = regexp.MustCompile(`^[a-z]{3}-[A-Z]{2}$`)

// Issue represents a validation error with optional location metadata.
type Issue struct {
	Path    string `json:"path,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Result captures validation outcomes returned over the API.
type Result struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

// FieldErrors maps a field path to its translated messages.
type FieldErrors map[string][]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e[k], "; ")))
	}
	return "validation: " + strings.Join(parts, ", ")
}

// Issues flattens the map into a sorted slice.
func (e FieldErrors) Issues() []Issue {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var out []Issue
	for _, k := range keys {
		for _, msg := range e[k] {
			out = append(out, Issue{Path: k, Field: lastSegment(k), Message: msg})
		}
	}
	return out
}

// Validator wraps go-playground/validator with translated messages phrased
// for inline form errors.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// New builds a Validator with the default English translations plus the form
// specific overrides.
func New() (*Validator, error) {
	universalTranslator := ut.New(en.New(), en.New())
	translator, _ := universalTranslator.GetTranslator(defaultLocale)

	validate := validator.New()
	validate.RegisterTagNameFunc(tagName)
	if err := en_translation.RegisterDefaultTranslations(validate, translator); err != nil {
		return nil, fmt.Errorf("validation: register default translations: %w", err)
	}
	if err := validate.RegisterValidation(TagLanguageCode, func(fl validator.FieldLevel) bool {
		return languageCodePattern.MatchString(fl.Field().String())
	}); err != nil {
		return nil, fmt.Errorf("validation: register %s: %w", TagLanguageCode, err)
	}

	for _, t := range translations {
		if err := validate.RegisterTranslation(t.tag, translator, registerFn(t.tag, t.message), t.translate); err != nil {
			return nil, fmt.Errorf("validation: register translation %q: %w", t.tag, err)
		}
	}

	return &Validator{validate: validate, translator: translator}, nil
}

// MustNew panics when New fails. Useful for package level defaults.
func MustNew() *Validator {
	v, err := New()
	if err != nil {
		panic(err)
	}
	return v
}

// Struct validates a struct and returns FieldErrors keyed by the json name
// path of each failing field.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}
	out := make(FieldErrors)
	for _, fe := range validationErrs {
		field := fe.Namespace()
		if parts := strings.SplitN(field, ".", 2); len(parts) == 2 {
			field = parts[1]
		}
		out[field] = append(out[field], fe.Translate(v.translator))
	}
	return out
}

// Var validates a single value against a tag list (e.g. "email" or
// "min=3,max=10") and returns the translated messages, nil when valid.
func (v *Validator) Var(value any, tag string) []string {
	if strings.TrimSpace(tag) == "" {
		return nil
	}
	err := v.validate.Var(value, tag)
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		out = append(out, fe.Translate(v.translator))
	}
	return out
}

// Translate renders a message registered under key, substituting params.
func (v *Validator) Translate(key string, params ...string) string {
	msg, err := v.translator.T(key, params...)
	if err != nil {
		return key
	}
	return msg
}

type translation struct {
	tag       string
	message   string
	translate validator.TranslationFunc
}

// Messages follow the wording users see on the edit forms; the field name is
// omitted because errors render next to their input.
var translations = []translation{
	{tag: "required", message: "This value should not be blank.", translate: plain("required")},
	{tag: "email", message: "This value is not a valid email address.", translate: plain("email")},
	{tag: "url", message: "This value is not a valid URL.", translate: plain("url")},
	{tag: "eqfield", message: "The password fields must match.", translate: plain("eqfield")},
	{tag: TagLanguageCode, message: "{0} is not a valid language code.", translate: withValue(TagLanguageCode)},
	{tag: "min", message: "This value is too short. It should have {0} characters or more.", translate: lengthOrNumber("min", "This value should be {0} or more.")},
	{tag: "max", message: "This value is too long. It should have {0} characters or less.", translate: lengthOrNumber("max", "This value should be {0} or less.")},
	{tag: "oneof", message: "The value you selected is not a valid choice.", translate: plain("oneof")},
}

func registerFn(tag, message string) validator.RegisterTranslationsFunc {
	return func(trans ut.Translator) error {
		return trans.Add(tag, message, true)
	}
}

func plain(tag string) validator.TranslationFunc {
	return func(trans ut.Translator, _ validator.FieldError) string {
		msg, _ := trans.T(tag)
		return msg
	}
}

func withValue(tag string) validator.TranslationFunc {
	return func(trans ut.Translator, fe validator.FieldError) string {
		msg, _ := trans.T(tag, fmt.Sprint(fe.Value()))
		return msg
	}
}

func lengthOrNumber(tag, numeric string) validator.TranslationFunc {
	return func(trans ut.Translator, fe validator.FieldError) string {
		switch fe.Kind() {
		case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
			msg, _ := trans.T(tag, fe.Param())
			return msg
		default:
			return strings.ReplaceAll(numeric, "{0}", fe.Param())
		}
	}
}

func tagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

func lastSegment(path string) string {
	if idx := strings.LastIndex(path, "."); idx >= 0 {
		return path[idx+1:]
	}
	return path
}
