package model

import "strings"

// Person is the domain model for a phonebook entry. The id is assigned
// by the store; the client never sets it.
type Person struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Number string `json:"number"`
}

// Draft is the name/number pair bound to the input fields before
// submission. It has no identity until the store accepts it.
type Draft struct {
	Name   string `json:"name"`
	Number string `json:"number"`
}

// Trimmed returns a copy with surrounding whitespace stripped from both fields.
func (d Draft) Trimmed() Draft {
	return Draft{
		Name:   strings.TrimSpace(d.Name),
		Number: strings.TrimSpace(d.Number),
	}
}

// Blank reports whether either field is empty after trimming.
func (d Draft) Blank() bool {
	t := d.Trimmed()
	return t.Name == "" || t.Number == ""
}
