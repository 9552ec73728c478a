package fieldtype

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-repoforms/pkg/content"
	"github.com/goliatone/go-repoforms/pkg/form"
	"github.com/goliatone/go-repoforms/pkg/transformer"
	"github.com/goliatone/go-repoforms/pkg/value"
)

// URL handles ezurl fields with a link and an optional link text.
type URL struct{}

func (URL) FieldTypeIdentifier() string { return "ezurl" }
func (URL) BlockPrefix() string         { return BlockPrefixBase + "ezurl" }

func (c URL) Build(b *form.Builder, def content.FieldDefinition, opts BuildOptions) error {
	v := opts.validator()
	configure(c, b, def, opts, form.CompoundWidget()).
		AddModelTransformer(transformer.URLValueTransformer{})

	b.Add("link", form.URLWidget()).
		SetLabel("URL").
		SetRequired(opts.Required(c.FieldTypeIdentifier(), "link", def)).
		AddConstraint(func(f *form.Form) []string {
			link, _ := f.Data().(string)
			if strings.TrimSpace(link) == "" {
				return nil
			}
			return v.Var(strings.TrimSpace(link), "url")
		})
	b.Add("text", form.TextWidget()).
		SetLabel("Text").
		SetRequired(opts.Required(c.FieldTypeIdentifier(), "text", def))
	return nil
}

func (c URL) BindValue(_ content.FieldDefinition, raw any) (value.Value, error) {
	if s, ok := raw.(string); ok {
		return value.URL{Link: strings.TrimSpace(s)}, nil
	}
	return bindAs[value.URL](c.FieldTypeIdentifier(), transformer.URLValueTransformer{}, raw)
}

func (URL) Hash(v value.Value) any {
	typed, _ := v.(value.URL)
	return map[string]any{"link": typed.Link, "text": typed.Text}
}

func (URL) EmptyValue(content.FieldDefinition) value.Value { return value.URL{} }

func (URL) RenderHints(context.Context, content.FieldDefinition, *form.View) {}

// User handles ezuser fields. The account widget groups username, email,
// password with confirmation and the enabled switch.
type User struct{}

func (User) FieldTypeIdentifier() string { return "ezuser" }
func (User) BlockPrefix() string         { return BlockPrefixBase + "ezuser" }

func (c User) Build(b *form.Builder, def content.FieldDefinition, opts BuildOptions) error {
	v := opts.validator()
	required := func(child string) bool {
		return opts.Required(c.FieldTypeIdentifier(), child, def)
	}

	configure(c, b, def, opts, form.CompoundWidget()).
		AddModelTransformer(transformer.UserAccountValueTransformer{}).
		AddConstraint(func(f *form.Form) []string {
			password, _ := f.Child("password")
			confirm, _ := f.Child("password_confirm")
			if password == nil || confirm == nil {
				return nil
			}
			if password.ViewData() != confirm.ViewData() {
				return []string{v.Translate("eqfield")}
			}
			return nil
		})

	b.Add("username", form.TextWidget()).
		SetLabel("Username").
		SetRequired(required("username"))
	b.Add("email", form.EmailWidget()).
		SetLabel("Email").
		SetRequired(required("email")).
		AddConstraint(func(f *form.Form) []string {
			email, _ := f.Data().(string)
			if strings.TrimSpace(email) == "" {
				return nil
			}
			return v.Var(strings.TrimSpace(email), "email")
		})
	b.Add("password", form.PasswordWidget()).
		SetLabel("Password").
		SetRequired(required("password"))
	b.Add("password_confirm", form.PasswordWidget()).
		SetLabel("Confirm password").
		SetRequired(required("password_confirm"))
	b.Add("enabled", form.CheckboxWidget()).
		SetLabel("Enabled").
		SetRequired(required("enabled"))
	return nil
}

func (c User) BindValue(_ content.FieldDefinition, raw any) (value.Value, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return bindAs[value.UserAccount](c.FieldTypeIdentifier(), transformer.UserAccountValueTransformer{}, raw)
	}
	login := m["login"]
	if login == nil {
		login = m["username"]
	}
	account := value.UserAccount{
		Login:   strings.TrimSpace(fmt.Sprint(valueOr(login, ""))),
		Email:   strings.TrimSpace(fmt.Sprint(valueOr(m["email"], ""))),
		Enabled: true,
	}
	if enabled, ok := m["enabled"]; ok {
		account.Enabled = boolOf(enabled)
	}
	return account, nil
}

func (User) Hash(v value.Value) any {
	typed, _ := v.(value.UserAccount)
	return map[string]any{"login": typed.Login, "email": typed.Email, "enabled": typed.Enabled}
}

// EmptyValue is an enabled account without credentials.
func (User) EmptyValue(content.FieldDefinition) value.Value {
	return value.UserAccount{Enabled: true}
}

func (User) RenderHints(_ context.Context, _ content.FieldDefinition, view *form.View) {
	if password, ok := view.Child("password"); ok {
		password.SetAttr("autocomplete", "new-password")
	}
	if confirm, ok := view.Child("password_confirm"); ok {
		confirm.SetAttr("autocomplete", "new-password")
	}
}

func valueOr(v, fallback any) any {
	if v == nil {
		return fallback
	}
	return v
}
