package model

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Record is the data structure for a person that we know: a name, any number of phone numbers
// in insertion order and an optional birthday.
type Record struct {
	name     string
	phones   []PhoneNumber
	birthday *Birthday
}

// NewRecord creates an empty record. The name is stored as given.
func NewRecord(name string) *Record {
	return &Record{name: name}
}

// Name returns the name the record is stored under.
func (r *Record) Name() string {
	return r.name
}

// Phones returns a copy of the phone numbers in insertion order.
func (r *Record) Phones() []PhoneNumber {
	return slices.Clone(r.phones)
}

// Birthday returns the birthday, if one has been set.
func (r *Record) Birthday() (Birthday, bool) {
	if r.birthday == nil {
		return Birthday{}, false
	}
	return *r.birthday, true
}

// Clone returns a copy of the record that shares no mutable state with r.
func (r *Record) Clone() *Record {
	c := &Record{name: r.name, phones: slices.Clone(r.phones)}
	if r.birthday != nil {
		b := *r.birthday
		c.birthday = &b
	}
	return c
}

// AddPhone validates the value and appends it. Duplicates are kept.
func (r *Record) AddPhone(value string) error {
	phone, err := NewPhoneNumber(value)
	if err != nil {
		return err
	}
	r.phones = append(r.phones, phone)
	return nil
}

// RemovePhone removes the first phone equal to value. Nothing happens if there is none.
func (r *Record) RemovePhone(value string) {
	if i := r.indexOf(value); i >= 0 {
		r.phones = slices.Delete(r.phones, i, i+1)
	}
}

// EditPhone replaces the first phone equal to oldValue with newValue. If oldValue is not
// present the record stays unchanged and no error is returned; newValue is only validated when
// there is something to replace.
func (r *Record) EditPhone(oldValue, newValue string) error {
	i := r.indexOf(oldValue)
	if i < 0 {
		return nil
	}
	phone, err := NewPhoneNumber(newValue)
	if err != nil {
		return err
	}
	r.phones[i] = phone
	return nil
}

// FindPhone returns the first phone equal to value.
func (r *Record) FindPhone(value string) (PhoneNumber, bool) {
	if i := r.indexOf(value); i >= 0 {
		return r.phones[i], true
	}
	return PhoneNumber{}, false
}

// AddBirthday validates the value and replaces any previous birthday.
func (r *Record) AddBirthday(value string) error {
	birthday, err := NewBirthday(value)
	if err != nil {
		return err
	}
	r.birthday = &birthday
	return nil
}

func (r *Record) indexOf(value string) int {
	return slices.IndexFunc(r.phones, func(p PhoneNumber) bool { return p.value == value })
}

func (r *Record) String() string {
	phones := lo.Map(r.phones, func(p PhoneNumber, _ int) string { return p.String() })
	return fmt.Sprintf("Contact name: %s, phones: %s", r.name, strings.Join(phones, "; "))
}
