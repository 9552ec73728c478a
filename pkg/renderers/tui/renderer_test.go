package tui

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-repoforms/pkg/content"
	"github.com/goliatone/go-repoforms/pkg/form"
	"github.com/goliatone/go-repoforms/pkg/formtype"
	"github.com/goliatone/go-repoforms/pkg/mapper"
	"github.com/goliatone/go-repoforms/pkg/render"
	"github.com/goliatone/go-repoforms/pkg/testsupport"
)

// stubDriver replays scripted answers. Input and Password run the prompt
// validator the way survey does and move to the next answer on failure.
type stubDriver struct {
	inputs       []string
	passwords    []string
	confirm      []bool
	selectIdx    []int
	multiIdx     [][]int
	textAreas    []string
	infoMessages []string
	messages     []string
}

func (s *stubDriver) next(list *[]string, cfg InputConfig) (string, error) {
	s.messages = append(s.messages, cfg.Message)
	for len(*list) > 0 {
		val := (*list)[0]
		*list = (*list)[1:]
		if cfg.Validator != nil {
			if err := cfg.Validator(val); err != nil {
				s.infoMessages = append(s.infoMessages, err.Error())
				continue
			}
		}
		return val, nil
	}
	return "", errors.New("no answer scripted for " + cfg.Message)
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	return s.next(&s.inputs, cfg)
}

func (s *stubDriver) Password(_ context.Context, cfg InputConfig) (string, error) {
	return s.next(&s.passwords, cfg)
}

func (s *stubDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	s.messages = append(s.messages, cfg.Message)
	if len(s.confirm) == 0 {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[0]
	s.confirm = s.confirm[1:]
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.messages = append(s.messages, cfg.Message)
	if len(s.selectIdx) == 0 {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[0]
	s.selectIdx = s.selectIdx[1:]
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, cfg SelectConfig) ([]int, error) {
	s.messages = append(s.messages, cfg.Message)
	if len(s.multiIdx) == 0 {
		return nil, errors.New("no multiselect scripted")
	}
	val := s.multiIdx[0]
	s.multiIdx = s.multiIdx[1:]
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, cfg TextAreaConfig) (string, error) {
	s.messages = append(s.messages, cfg.Message)
	if len(s.textAreas) == 0 {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[0]
	s.textAreas = s.textAreas[1:]
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func buildView(t *testing.T, ct content.ContentType, opts ...form.Option) (*form.Form, *form.View) {
	t.Helper()
	factory := formtype.NewFactory()
	m := mapper.NewContentCreateMapper(factory.Registry())
	params := mapper.CreateParams{MainLanguageCode: "eng-GB"}
	opts = append([]form.Option{form.WithLanguageCode("eng-GB"), form.WithMainLanguageCode("eng-GB")}, opts...)

	var (
		f   *form.Form
		err error
	)
	if ct.HasFieldType(mapper.UserFieldType) {
		f, err = factory.UserCreate(m.MapToUserFormData(ct, params), opts...)
	} else {
		f, err = factory.ContentEdit(m.MapToFormData(ct, params), opts...)
	}
	if err != nil {
		t.Fatalf("build form: %v", err)
	}
	return f, f.CreateView(context.Background())
}

func TestFillTextLine(t *testing.T) {
	driver := &stubDriver{inputs: []string{"", "  Hello  "}}
	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	f, view := buildView(t, testsupport.SingleFieldContentType("ezstring", true),
		form.WithCSRFToken("tok"), form.WithDraftsEnabled(true))

	values, err := r.Fill(context.Background(), view, render.RenderOptions{})
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	want := url.Values{
		"ezrepoforms_content_edit[fieldsData][field][value]": {"Hello"},
		"ezrepoforms_content_edit[_token]":                   {"tok"},
		"ezrepoforms_content_edit[publish]":                  {""},
	}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a value is required"}, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}

	if err := f.HandleValues(values); err != nil {
		t.Fatalf("handle values: %v", err)
	}
	if !f.IsValid() || f.ClickedButton() != "publish" {
		t.Fatalf("filled values must submit cleanly, errors: %v", f.Errors())
	}
}

func TestFillNumbersRetry(t *testing.T) {
	driver := &stubDriver{inputs: []string{"forty", "1.5", "42"}}
	r, _ := New(WithPromptDriver(driver), WithButton("cancel"))
	_, view := buildView(t, testsupport.SingleFieldContentType("ezinteger", true))

	values, err := r.Fill(context.Background(), view, render.RenderOptions{})
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if got := values.Get("ezrepoforms_content_edit[fieldsData][field][value]"); got != "42" {
		t.Fatalf("value = %q, want 42", got)
	}
	if _, ok := values["ezrepoforms_content_edit[cancel]"]; !ok {
		t.Fatalf("expected cancel to be clicked, got %v", values)
	}
	if len(driver.infoMessages) != 2 {
		t.Fatalf("expected two invalid answers, got %v", driver.infoMessages)
	}
}

func TestFillDateAcceptsDateStrings(t *testing.T) {
	driver := &stubDriver{inputs: []string{"not a date", "2020-01-02"}}
	r, _ := New(WithPromptDriver(driver))
	_, view := buildView(t, testsupport.SingleFieldContentType("ezdate", true))

	values, err := r.Fill(context.Background(), view, render.RenderOptions{})
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if got := values.Get("ezrepoforms_content_edit[fieldsData][field][value]"); got != "1577923200" {
		t.Fatalf("value = %q, want 1577923200", got)
	}
}

func TestFillUserCreate(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"jdoe", "not-an-email", "jdoe@example.com"},
		passwords: []string{"secret", "secret"},
		confirm:   []bool{false},
	}
	r, _ := New(WithPromptDriver(driver))
	_, view := buildView(t, testsupport.SingleFieldContentType("ezuser", true))

	values, err := r.Fill(context.Background(), view, render.RenderOptions{})
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	prefix := "ezrepoforms_user_create[fieldsData][field][value]"
	want := url.Values{
		prefix + "[username]":         {"jdoe"},
		prefix + "[email]":            {"jdoe@example.com"},
		prefix + "[password]":         {"secret"},
		prefix + "[password_confirm]": {"secret"},
		"ezrepoforms_user_create[create]": {""},
	}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if !strings.HasPrefix(driver.messages[0], "Field / ") {
		t.Fatalf("child prompts carry the field label, got %q", driver.messages[0])
	}
}

func TestFillReportsViewErrors(t *testing.T) {
	driver := &stubDriver{inputs: []string{"Hello"}}
	r, _ := New(WithPromptDriver(driver), WithTheme(Theme{ErrorPrefix: "! "}))
	_, view := buildView(t, testsupport.SingleFieldContentType("ezstring", true))

	_, err := r.Fill(context.Background(), view, render.RenderOptions{
		Errors: map[string][]string{
			"fieldsData.field.value": {"Already taken."},
			"_global":                {"Try again."},
		},
	})
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	want := []string{"! Try again.", "! Field: Already taken."}
	if diff := cmp.Diff(want, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
}

func TestUnknownButton(t *testing.T) {
	r, _ := New(WithPromptDriver(&stubDriver{inputs: []string{"x"}}), WithButton("archive"))
	_, view := buildView(t, testsupport.SingleFieldContentType("ezstring", false))
	if _, err := r.Fill(context.Background(), view, render.RenderOptions{}); !errors.Is(err, ErrNoButton) {
		t.Fatalf("expected ErrNoButton, got %v", err)
	}
}

func TestRenderFormats(t *testing.T) {
	cases := []struct {
		format      OutputFormat
		contentType string
		want        string
	}{
		{format: OutputFormatFormURLEncoded, contentType: "application/x-www-form-urlencoded", want: "ezrepoforms_content_edit%5BfieldsData%5D%5Bfield%5D%5Bvalue%5D=Hi"},
		{format: OutputFormatJSON, contentType: "application/json", want: `"ezrepoforms_content_edit[fieldsData][field][value]": [`},
		{format: OutputFormatPrettyText, contentType: "text/plain; charset=utf-8", want: "ezrepoforms_content_edit[fieldsData][field][value] = Hi\n"},
	}
	for _, tc := range cases {
		t.Run(string(tc.format), func(t *testing.T) {
			r, _ := New(WithPromptDriver(&stubDriver{inputs: []string{"Hi"}}), WithOutputFormat(tc.format))
			_, view := buildView(t, testsupport.SingleFieldContentType("ezstring", false))
			out, err := r.Render(context.Background(), view, render.RenderOptions{})
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if r.ContentType() != tc.contentType {
				t.Fatalf("content type = %q", r.ContentType())
			}
			if !strings.Contains(string(out), tc.want) {
				t.Fatalf("output %q does not contain %q", out, tc.want)
			}
		})
	}
}

func TestPrettyPrintMasksPasswords(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"jdoe", "jdoe@example.com"},
		passwords: []string{"secret", "secret"},
		confirm:   []bool{true},
	}
	r, _ := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatPrettyText))
	_, view := buildView(t, testsupport.SingleFieldContentType("ezuser", true))

	out, err := r.Render(context.Background(), view, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(string(out), "secret") {
		t.Fatalf("password leaked:\n%s", out)
	}
	if !strings.Contains(string(out), "[enabled] = 1\n") {
		t.Fatalf("enabled checkbox missing:\n%s", out)
	}
}

func TestFillStopsOnAbort(t *testing.T) {
	r, _ := New(WithPromptDriver(abortDriver{&stubDriver{}}))
	_, view := buildView(t, testsupport.SingleFieldContentType("ezstring", false))
	if _, err := r.Fill(context.Background(), view, render.RenderOptions{}); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Fill(ctx, view, render.RenderOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

type abortDriver struct{ *stubDriver }

func (abortDriver) Input(context.Context, InputConfig) (string, error) { return "", ErrAborted }
