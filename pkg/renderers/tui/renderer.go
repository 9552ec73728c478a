// Package tui fills forms from the terminal. It walks a form view, prompts
// once per input and produces the values a browser would have submitted.
package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/golang-module/carbon/v2"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-repoforms/pkg/form"
	"github.com/goliatone/go-repoforms/pkg/render"
	"github.com/goliatone/go-repoforms/pkg/validation"
)

const noneOption = "(none)"

// Renderer implements render.Renderer for terminal sessions.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	button            string
	theme             Theme
	validator         *validation.Validator
	plain             *bluemonday.Policy
}

// New constructs a TUI renderer with defaults (survey driver, form output).
func New(options ...Option) (*Renderer, error) {
	v, err := validation.New()
	if err != nil {
		return nil, fmt.Errorf("tui: validator: %w", err)
	}
	r := &Renderer{
		outputFormat: OutputFormatFormURLEncoded,
		validator:    v,
		plain:        bluemonday.StrictPolicy(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver()
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatJSON:
		return "application/json"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/x-www-form-urlencoded"
	}
}

// Render prompts for the view and serializes the collected values.
func (r *Renderer) Render(ctx context.Context, root *form.View, opts render.RenderOptions) ([]byte, error) {
	values, err := r.Fill(ctx, root, opts)
	if err != nil {
		return nil, err
	}
	return r.serialize(root, values)
}

// Fill prompts for every enabled input of the view and returns the values
// keyed by full input name. Hidden inputs keep their value and the chosen
// submit button is recorded as clicked. Errors already attached to the view
// (or passed through opts) are printed before the prompt they belong to.
func (r *Renderer) Fill(ctx context.Context, root *form.View, opts render.RenderOptions) (url.Values, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if root == nil {
		return nil, errors.New("tui: view is nil")
	}

	for _, msg := range render.Prepare(root, opts) {
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+msg); err != nil {
			return nil, err
		}
	}

	values := url.Values{}
	for _, hidden := range render.ResolveSubmission(root, opts).Hidden {
		values.Set(hidden.Name, hidden.Value)
	}

	var buttons []*form.View
	for _, child := range root.Children {
		if child.Vars.InputType == "submit" {
			buttons = append(buttons, child)
			continue
		}
		if err := r.promptView(ctx, child, "", values); err != nil {
			return nil, err
		}
	}
	if err := r.clickButton(buttons, values); err != nil {
		return nil, err
	}

	if r.submitTransformer != nil {
		transformed, err := r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
		values = transformed
	}
	return values, nil
}

func (r *Renderer) clickButton(buttons []*form.View, values url.Values) error {
	if len(buttons) == 0 {
		return nil
	}
	if r.button == "" {
		values.Set(buttons[0].Vars.FullName, "")
		return nil
	}
	for _, button := range buttons {
		if button.Vars.Name == r.button {
			values.Set(button.Vars.FullName, "")
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrNoButton, r.button)
}

func (r *Renderer) promptView(ctx context.Context, view *form.View, parentLabel string, values url.Values) error {
	vars := view.Vars
	if vars.Disabled {
		return nil
	}
	label := r.label(view, parentLabel)

	if len(vars.Errors) > 0 {
		for _, msg := range vars.Errors {
			if err := r.driver.Info(ctx, fmt.Sprintf("%s%s: %s", r.theme.ErrorPrefix, label, msg)); err != nil {
				return err
			}
		}
	}

	if vars.Compound {
		for _, child := range view.Children {
			if err := r.promptView(ctx, child, label, values); err != nil {
				return err
			}
		}
		return nil
	}

	switch vars.InputType {
	case "hidden":
		values.Set(vars.FullName, stringValue(vars.Value))
		return nil
	case "submit":
		return nil
	case "checkbox":
		return r.promptCheckbox(ctx, view, label, values)
	case "select":
		return r.promptChoice(ctx, view, label, values)
	case "password":
		return r.promptPassword(ctx, view, label, values)
	case "textarea":
		return r.promptTextArea(ctx, view, label, values)
	case "number":
		return r.promptNumber(ctx, view, label, values)
	default:
		return r.promptText(ctx, view, label, values)
	}
}

func (r *Renderer) promptText(ctx context.Context, view *form.View, label string, values url.Values) error {
	vars := view.Vars
	tag := ""
	switch vars.InputType {
	case "email":
		tag = "email"
	case "url":
		tag = "url"
	}
	response, err := r.driver.Input(ctx, InputConfig{
		Message: label,
		Default: stringValue(vars.Value),
		Help:    r.help(vars),
		Validator: func(s string) error {
			s = strings.TrimSpace(s)
			if s == "" {
				return requiredError(vars.Required)
			}
			if tag != "" {
				if msgs := r.validator.Var(s, tag); len(msgs) > 0 {
					return errors.New(msgs[0])
				}
			}
			return nil
		},
	})
	if err != nil {
		return err
	}
	values.Set(vars.FullName, strings.TrimSpace(response))
	return nil
}

func (r *Renderer) promptPassword(ctx context.Context, view *form.View, label string, values url.Values) error {
	vars := view.Vars
	response, err := r.driver.Password(ctx, InputConfig{
		Message: label,
		Help:    r.help(vars),
		Validator: func(s string) error {
			if s == "" {
				return requiredError(vars.Required)
			}
			return nil
		},
	})
	if err != nil {
		return err
	}
	values.Set(vars.FullName, response)
	return nil
}

func (r *Renderer) promptTextArea(ctx context.Context, view *form.View, label string, values url.Values) error {
	vars := view.Vars
	for {
		response, err := r.driver.TextArea(ctx, TextAreaConfig{
			Message: label,
			Default: stringValue(vars.Value),
			Help:    r.help(vars),
		})
		if err != nil {
			return err
		}
		if vars.Required && strings.TrimSpace(response) == "" {
			if err := r.invalid(ctx, label, requiredError(true)); err != nil {
				return err
			}
			continue
		}
		values.Set(vars.FullName, response)
		return nil
	}
}

// promptNumber reads integers and floats. Date fields render as integer
// inputs holding a timestamp; they also accept any date carbon can parse.
func (r *Renderer) promptNumber(ctx context.Context, view *form.View, label string, values url.Values) error {
	vars := view.Vars
	integer := slices.Contains(vars.BlockPrefixes, form.WidgetInteger)
	date := isDateField(vars)

	for {
		response, err := r.driver.Input(ctx, InputConfig{
			Message: label,
			Default: stringValue(vars.Value),
			Help:    r.help(vars),
		})
		if err != nil {
			return err
		}
		response = strings.TrimSpace(response)
		if response == "" {
			if vars.Required {
				if err := r.invalid(ctx, label, requiredError(true)); err != nil {
					return err
				}
				continue
			}
			values.Set(vars.FullName, "")
			return nil
		}

		normalized, err := parseNumber(response, integer, date)
		if err != nil {
			if err := r.invalid(ctx, label, err); err != nil {
				return err
			}
			continue
		}
		values.Set(vars.FullName, normalized)
		return nil
	}
}

func parseNumber(raw string, integer, date bool) (string, error) {
	if integer {
		if _, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return raw, nil
		}
		if date {
			c := carbon.Parse(raw, carbon.UTC)
			if c.Error != nil || c.IsZero() {
				return "", fmt.Errorf("%q is not a date", raw)
			}
			return strconv.FormatInt(c.Timestamp(), 10), nil
		}
		return "", fmt.Errorf("%q is not a whole number", raw)
	}
	if _, err := strconv.ParseFloat(raw, 64); err != nil {
		return "", fmt.Errorf("%q is not a number", raw)
	}
	return raw, nil
}

func (r *Renderer) promptCheckbox(ctx context.Context, view *form.View, label string, values url.Values) error {
	vars := view.Vars
	for {
		checked, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: label,
			Default: vars.Checked,
			Help:    r.help(vars),
		})
		if err != nil {
			return err
		}
		if !checked {
			if vars.Required {
				if err := r.invalid(ctx, label, requiredError(true)); err != nil {
					return err
				}
				continue
			}
			values.Del(vars.FullName)
			return nil
		}
		values.Set(vars.FullName, stringValue(vars.Value))
		return nil
	}
}

func (r *Renderer) promptChoice(ctx context.Context, view *form.View, label string, values url.Values) error {
	vars := view.Vars
	options := make([]string, 0, len(vars.Choices)+1)
	for _, choice := range vars.Choices {
		options = append(options, choice.Label)
	}

	if vars.Multiple {
		var defaults []int
		for idx, choice := range vars.Choices {
			if choice.Selected {
				defaults = append(defaults, idx)
			}
		}
		for {
			indices, err := r.driver.MultiSelect(ctx, SelectConfig{
				Message:  label,
				Options:  options,
				Defaults: defaults,
				Help:     r.help(vars),
			})
			if err != nil {
				return err
			}
			if vars.Required && len(indices) == 0 {
				if err := r.invalid(ctx, label, requiredError(true)); err != nil {
					return err
				}
				continue
			}
			values.Del(vars.FullName)
			for _, idx := range indices {
				if idx >= 0 && idx < len(vars.Choices) {
					values.Add(vars.FullName, vars.Choices[idx].Value)
				}
			}
			return nil
		}
	}

	offset := 0
	if !vars.Required {
		options = append([]string{noneOption}, options...)
		offset = 1
	}
	defaultIdx := -1
	for idx, choice := range vars.Choices {
		if choice.Selected {
			defaultIdx = idx + offset
			break
		}
	}
	for {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      options,
			DefaultIndex: defaultIdx,
			Help:         r.help(vars),
		})
		if err != nil {
			return err
		}
		choice := idx - offset
		switch {
		case offset == 1 && idx == 0:
			values.Set(vars.FullName, "")
			return nil
		case choice >= 0 && choice < len(vars.Choices):
			values.Set(vars.FullName, vars.Choices[choice].Value)
			return nil
		}
		if err := r.invalid(ctx, label, errors.New("invalid selection")); err != nil {
			return err
		}
	}
}

func (r *Renderer) invalid(ctx context.Context, label string, err error) error {
	return r.driver.Info(ctx, fmt.Sprintf("%sInvalid %s: %v", r.theme.ErrorPrefix, label, err))
}

func (r *Renderer) label(view *form.View, parentLabel string) string {
	label := strings.TrimSpace(view.Vars.Label)
	switch {
	case label == "" && view.Vars.Compound:
		return parentLabel
	case label == "" && parentLabel == "":
		return view.Vars.Name
	case label == "":
		return parentLabel
	case parentLabel == "" || parentLabel == label:
		return label
	default:
		return parentLabel + " / " + label
	}
}

func (r *Renderer) help(vars form.Vars) string {
	if vars.Help == "" {
		return ""
	}
	return strings.TrimSpace(r.plain.Sanitize(vars.Help))
}

func requiredError(required bool) error {
	if required {
		return errors.New("a value is required")
	}
	return nil
}

func isDateField(vars form.Vars) bool {
	switch vars.Hints["field_type"] {
	case "ezdate", "ezdatetime":
		return true
	}
	return false
}

func stringValue(v any) string {
	switch typed := v.(type) {
	case nil:
		return ""
	case string:
		return typed
	case []string:
		return strings.Join(typed, ",")
	default:
		return fmt.Sprint(typed)
	}
}

func (r *Renderer) serialize(root *form.View, values url.Values) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatJSON:
		return json.MarshalIndent(values, "", "  ")
	case OutputFormatPrettyText:
		return []byte(prettyPrint(root, values)), nil
	default:
		return []byte(values.Encode()), nil
	}
}

func prettyPrint(root *form.View, values url.Values) string {
	secret := map[string]bool{}
	root.Walk(func(v *form.View) {
		if v.Vars.InputType == "password" {
			secret[v.Vars.FullName] = true
		}
	})

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		value := strings.Join(values[key], ", ")
		if secret[key] && value != "" {
			value = "********"
		}
		fmt.Fprintf(&b, "%s = %s\n", key, value)
	}
	return b.String()
}
