package models

// Teacher represents a staff member on the roster. Names are stored in
// normalized form and are unique case-insensitively.
type Teacher struct {
	ID          int64   `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	PhoneNumber *string `db:"phone_number" json:"phoneNumber"`
	Initials    string  `db:"initials" json:"initials"`
}
