package dto

// ClientRequest is the client form. Empty strings mean "not provided":
// on update they leave the stored value untouched.
type ClientRequest struct {
	Name     string `json:"name" validate:"omitempty,max=100"`
	Email    string `json:"email" validate:"omitempty,email,max=255"`
	Phone    string `json:"phone" validate:"omitempty,phone"`
	Company  string `json:"company" validate:"omitempty,max=100"`
	BoatType string `json:"boatType" validate:"omitempty,max=100"`
	Budget   string `json:"budget" validate:"omitempty,max=32"`
	Notes    string `json:"notes" validate:"omitempty,max=2000"`
}

// ReminderRequest sets a follow-up. Date is RFC 3339 or YYYY-MM-DD.
type ReminderRequest struct {
	Date string `json:"date"`
	Note string `json:"note" validate:"omitempty,max=500"`
}
