package vanilla

// ChromeClass is a typed identifier for semantic chrome CSS classes.
type ChromeClass string

const (
	ClassForm    ChromeClass = "repoforms-form"
	ClassFields  ChromeClass = "repoforms-fields"
	ClassRow     ChromeClass = "repoforms-row"
	ClassHelp    ChromeClass = "repoforms-help"
	ClassActions ChromeClass = "repoforms-actions"
	ClassErrors  ChromeClass = "repoforms-errors"
)

// ChromeClasses overrides the class of each chrome element. Empty entries
// keep the defaults.
type ChromeClasses struct {
	Form    string
	Fields  string
	Row     string
	Help    string
	Actions string
	Errors  string
}

func (c ChromeClasses) resolve() map[string]string {
	pick := func(override string, fallback ChromeClass) string {
		if cleaned := sanitizeClassList(override); cleaned != "" {
			return cleaned
		}
		return string(fallback)
	}
	return map[string]string{
		"form":    pick(c.Form, ClassForm),
		"fields":  pick(c.Fields, ClassFields),
		"row":     pick(c.Row, ClassRow),
		"help":    pick(c.Help, ClassHelp),
		"actions": pick(c.Actions, ClassActions),
		"errors":  pick(c.Errors, ClassErrors),
	}
}
