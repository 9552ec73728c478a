package components

// Component names registered by NewDefaultRegistry. Widgets resolve to them
// through their block prefixes; field-type prefixes such as
// "ezplatform_fieldtype_ezdate" can be registered to override a widget.
const (
	NameCompound = "form"
	NameText     = "text"
	NameEmail    = "email"
	NameURL      = "url"
	NamePassword = "password"
	NameInteger  = "integer"
	NameNumber   = "number"
	NameTextarea = "textarea"
	NameChoice   = "choice"
	NameCheckbox = "checkbox"
	NameHidden   = "hidden"
	NameSubmit   = "submit"

	NameDate     = "ezplatform_fieldtype_ezdate"
	NameDateTime = "ezplatform_fieldtype_ezdatetime"
)
