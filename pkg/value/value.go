// Package value holds the domain values stored in content fields. Each field
// type has one value type; form components translate them to and from widget
// data through transformers.
package value

import (
	"strconv"
	"strings"
	"time"
)

// Value is implemented by every field value.
type Value interface {
	IsEmpty() bool
	String() string
}

// TextLine is the value of ezstring fields.
type TextLine struct {
	Text string `json:"text"`
}

func (v TextLine) IsEmpty() bool  { return strings.TrimSpace(v.Text) == "" }
func (v TextLine) String() string { return v.Text }

// TextBlock is the value of eztext fields.
type TextBlock struct {
	Text string `json:"text"`
}

func (v TextBlock) IsEmpty() bool  { return strings.TrimSpace(v.Text) == "" }
func (v TextBlock) String() string { return v.Text }

// Integer is the value of ezinteger fields. A nil Value is empty.
type Integer struct {
	Value *int64 `json:"value"`
}

// NewInteger returns an Integer holding n.
func NewInteger(n int64) Integer { return Integer{Value: &n} }

func (v Integer) IsEmpty() bool { return v.Value == nil }
func (v Integer) String() string {
	if v.Value == nil {
		return ""
	}
	return strconv.FormatInt(*v.Value, 10)
}

// Float is the value of ezfloat fields.
type Float struct {
	Value *float64 `json:"value"`
}

// NewFloat returns a Float holding f.
func NewFloat(f float64) Float { return Float{Value: &f} }

func (v Float) IsEmpty() bool { return v.Value == nil }
func (v Float) String() string {
	if v.Value == nil {
		return ""
	}
	return strconv.FormatFloat(*v.Value, 'f', -1, 64)
}

// Checkbox is the value of ezboolean fields. It is never empty.
type Checkbox struct {
	Bool bool `json:"bool"`
}

func (v Checkbox) IsEmpty() bool  { return false }
func (v Checkbox) String() string { return strconv.FormatBool(v.Bool) }

// EmailAddress is the value of ezemail fields.
type EmailAddress struct {
	Email string `json:"email"`
}

func (v EmailAddress) IsEmpty() bool  { return strings.TrimSpace(v.Email) == "" }
func (v EmailAddress) String() string { return v.Email }

// URL is the value of ezurl fields.
type URL struct {
	Link string `json:"link"`
	Text string `json:"text"`
}

func (v URL) IsEmpty() bool { return strings.TrimSpace(v.Link) == "" }
func (v URL) String() string {
	if v.Text != "" {
		return v.Text
	}
	return v.Link
}

// Date is the value of ezdate fields. Dates are kept at midnight UTC.
type Date struct {
	Date *time.Time `json:"date"`
}

// NewDate returns a Date normalised to midnight UTC.
func NewDate(t time.Time) Date {
	u := t.UTC()
	d := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return Date{Date: &d}
}

func (v Date) IsEmpty() bool { return v.Date == nil }
func (v Date) String() string {
	if v.Date == nil {
		return ""
	}
	return v.Date.Format("2006-01-02")
}

// DateTime is the value of ezdatetime fields, second precision, UTC.
type DateTime struct {
	Value *time.Time `json:"value"`
}

// NewDateTime returns a DateTime truncated to the second.
func NewDateTime(t time.Time) DateTime {
	u := t.UTC().Truncate(time.Second)
	return DateTime{Value: &u}
}

func (v DateTime) IsEmpty() bool { return v.Value == nil }
func (v DateTime) String() string {
	if v.Value == nil {
		return ""
	}
	return v.Value.Format(time.RFC3339)
}

// Selection is the value of ezselection fields: indexes into the options
// configured on the field definition.
type Selection struct {
	Selection []int `json:"selection"`
}

func (v Selection) IsEmpty() bool { return len(v.Selection) == 0 }
func (v Selection) String() string {
	parts := make([]string, 0, len(v.Selection))
	for _, idx := range v.Selection {
		parts = append(parts, strconv.Itoa(idx))
	}
	return strings.Join(parts, ",")
}

// UserAccount is the value of ezuser fields. Password is only populated on
// submission and never stored as is.
type UserAccount struct {
	Login    string `json:"login"`
	Email    string `json:"email"`
	Password string `json:"-"`
	Enabled  bool   `json:"enabled"`
}

func (v UserAccount) IsEmpty() bool  { return strings.TrimSpace(v.Login) == "" }
func (v UserAccount) String() string { return v.Login }
