package fieldtype

// Defaults returns the built-in components.
func Defaults() []Component {
	return []Component{
		TextLine{},
		TextBlock{},
		Integer{},
		Float{},
		Checkbox{},
		Email{},
		URL{},
		Date{},
		DateTime{},
		Selection{},
		User{},
	}
}
