package model

import (
	"regexp"
	"time"
)

// dateLayout accepts one or two digits for day and month and exactly four for the year.
const dateLayout = "2.1.2006"

// birthdayLayout is the canonical rendering of a birthday.
const birthdayLayout = "02.01.2006"

// invalidDateMessage is returned for every birthday that cannot be parsed.
const invalidDateMessage = "Invalid date format. Use DD.MM.YYYY"

// phonePattern matches exactly ten ASCII digits.
var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

// datePattern restricts input to digits before time.Parse gets to see it, so signed years are
// not accepted.
var datePattern = regexp.MustCompile(`^[0-9]{1,2}\.[0-9]{1,2}\.[0-9]{4}$`)

// PhoneNumber is a validated phone number consisting of exactly ten digits. Use NewPhoneNumber to
// construct it.
type PhoneNumber struct {
	value string
}

// NewPhoneNumber validates value and wraps it as a PhoneNumber.
func NewPhoneNumber(value string) (PhoneNumber, error) {
	if !phonePattern.MatchString(value) {
		return PhoneNumber{}, &ValidationError{
			Field:   "phone",
			Value:   value,
			Message: "phone must contain exactly 10 digits",
		}
	}
	return PhoneNumber{value: value}, nil
}

func (p PhoneNumber) String() string { return p.value }

// Birthday is a calendar date without a time component.
type Birthday struct {
	date time.Time
}

// NewBirthday parses a date in the form DD.MM.YYYY. Day and month may be given with or without
// a leading zero.
func NewBirthday(value string) (Birthday, error) {
	date, err := ParseDate(value)
	if err != nil {
		return Birthday{}, err
	}
	return Birthday{date: date}, nil
}

// ParseDate parses a DD.MM.YYYY string into a UTC date. Dates that do not exist in the
// calendar, such as 31.02.2020, are rejected.
func ParseDate(value string) (time.Time, error) {
	invalid := &ValidationError{Field: "birthday", Value: value, Message: invalidDateMessage}
	if !datePattern.MatchString(value) {
		return time.Time{}, invalid
	}
	date, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, invalid
	}
	return date, nil
}

// Date returns the birthday as midnight UTC.
func (b Birthday) Date() time.Time   { return b.date }
func (b Birthday) Year() int         { return b.date.Year() }
func (b Birthday) Month() time.Month { return b.date.Month() }
func (b Birthday) Day() int          { return b.date.Day() }

func (b Birthday) String() string { return b.date.Format(birthdayLayout) }
