// Package model contains the JSON documents exchanged between the address book service and its
// clients.
package model

// Contact is the data structure for a person that we know. Phones keep their insertion order.
// Birthday uses the form DD.MM.YYYY and is omitted when unknown.
type Contact struct {
	Name     string   `json:"name"               binding:"required"`
	Phones   []string `json:"phones"`
	Birthday *string  `json:"birthday,omitempty"`
}

// PhoneRequest carries a single phone number, both for adding and for replacing one.
type PhoneRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// BirthdayRequest carries a birthday in the form DD.MM.YYYY.
type BirthdayRequest struct {
	Birthday string `json:"birthday" binding:"required"`
}

// UpcomingBirthday names a contact and the day (YYYY.MM.DD) on which to congratulate them.
type UpcomingBirthday struct {
	Name               string `json:"name"`
	CongratulationDate string `json:"congratulation_date"`
}

// Message is the body of responses that carry no document, including all errors.
type Message struct {
	Message string `json:"message"`
}
