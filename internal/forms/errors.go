package forms

// NonFieldErrors is the key for errors that do not belong to a single field.
const NonFieldErrors = "__all__"

// Errors maps a form field name to its validation messages.
type Errors map[string][]string

func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Get returns the first message for the field, or "".
func (e Errors) Get(field string) string {
	msgs := e[field]
	if len(msgs) == 0 {
		return ""
	}
	return msgs[0]
}

func (e Errors) NonField() []string {
	return e[NonFieldErrors]
}

func (e Errors) Any() bool {
	return len(e) > 0
}
