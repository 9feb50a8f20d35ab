package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// phoneValues returns the string values of the record's phones in order.
func phoneValues(r *Record) []string {
	var values []string
	for _, p := range r.Phones() {
		values = append(values, p.String())
	}
	return values
}

// recordWithPhones builds a record and adds the given phones, failing the test on error.
func recordWithPhones(t *testing.T, name string, phones ...string) *Record {
	r := NewRecord(name)
	for _, p := range phones {
		require.NoError(t, r.AddPhone(p))
	}
	return r
}

// TestNewRecord expects an empty record that keeps its name verbatim.
func TestNewRecord(t *testing.T) {
	r := NewRecord("  Erika Mustermann ")
	assert.Equal(t, "  Erika Mustermann ", r.Name())
	assert.Empty(t, r.Phones())
	_, ok := r.Birthday()
	assert.False(t, ok)
}

// TestAddPhone adds valid phones including a duplicate. It expects insertion order to be kept
// and the duplicate to be stored.
func TestAddPhone(t *testing.T) {
	r := recordWithPhones(t, "John", "1111111111", "2222222222", "1111111111")
	assert.Equal(t, []string{"1111111111", "2222222222", "1111111111"}, phoneValues(r))
}

// TestAddPhoneInvalid expects the validation error to be propagated and the list to stay
// unchanged.
func TestAddPhoneInvalid(t *testing.T) {
	r := recordWithPhones(t, "John", "1111111111")
	err := r.AddPhone("12345")
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, []string{"1111111111"}, phoneValues(r))
}

// TestEditPhone edits the first phone of a record with two phones.
func TestEditPhone(t *testing.T) {
	r := recordWithPhones(t, "John", "1111111111", "2222222222")
	require.NoError(t, r.EditPhone("1111111111", "3333333333"))
	assert.Equal(t, []string{"3333333333", "2222222222"}, phoneValues(r))
}

// TestEditPhoneOnlyFirstMatch expects that only the first of two equal phones is replaced.
func TestEditPhoneOnlyFirstMatch(t *testing.T) {
	r := recordWithPhones(t, "John", "1111111111", "2222222222", "1111111111")
	require.NoError(t, r.EditPhone("1111111111", "3333333333"))
	assert.Equal(t, []string{"3333333333", "2222222222", "1111111111"}, phoneValues(r))
}

// TestEditPhoneMissing edits a phone that the record does not have. It expects no error and an
// unchanged list, even when the replacement is malformed.
func TestEditPhoneMissing(t *testing.T) {
	r := recordWithPhones(t, "John", "1111111111", "2222222222")
	assert.NoError(t, r.EditPhone("9999999999", "3333333333"))
	assert.NoError(t, r.EditPhone("9999999999", "bad"))
	assert.Equal(t, []string{"1111111111", "2222222222"}, phoneValues(r))
}

// TestEditPhoneInvalid replaces an existing phone with a malformed one. It expects a
// ValidationError and an unchanged list.
func TestEditPhoneInvalid(t *testing.T) {
	r := recordWithPhones(t, "John", "1111111111", "2222222222")
	err := r.EditPhone("1111111111", "33")
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, []string{"1111111111", "2222222222"}, phoneValues(r))
}

// TestRemovePhone expects that at most one matching phone is removed per call.
func TestRemovePhone(t *testing.T) {
	r := recordWithPhones(t, "John", "1111111111", "2222222222", "1111111111")
	r.RemovePhone("1111111111")
	assert.Equal(t, []string{"2222222222", "1111111111"}, phoneValues(r))
	r.RemovePhone("1111111111")
	assert.Equal(t, []string{"2222222222"}, phoneValues(r))
}

// TestRemovePhoneMissing expects removing an unknown phone to be a no-op.
func TestRemovePhoneMissing(t *testing.T) {
	r := recordWithPhones(t, "John", "1111111111")
	r.RemovePhone("9999999999")
	r.RemovePhone("not a phone")
	assert.Equal(t, []string{"1111111111"}, phoneValues(r))
}

// TestFindPhone looks up present and absent phones.
func TestFindPhone(t *testing.T) {
	r := recordWithPhones(t, "John", "1111111111", "2222222222")
	phone, ok := r.FindPhone("2222222222")
	assert.True(t, ok)
	assert.Equal(t, "2222222222", phone.String())

	_, ok = r.FindPhone("3333333333")
	assert.False(t, ok)
}

// TestPhonesReturnsCopy expects that changing the returned slice does not touch the record.
func TestPhonesReturnsCopy(t *testing.T) {
	r := recordWithPhones(t, "John", "1111111111")
	phones := r.Phones()
	phones[0], _ = NewPhoneNumber("2222222222")
	assert.Equal(t, []string{"1111111111"}, phoneValues(r))
}

// TestAddBirthday sets a birthday and then overwrites it. An invalid value must not replace
// the stored one.
func TestAddBirthday(t *testing.T) {
	r := NewRecord("John")
	require.NoError(t, r.AddBirthday("12.06.1990"))
	birthday, ok := r.Birthday()
	require.True(t, ok)
	assert.Equal(t, "12.06.1990", birthday.String())

	require.NoError(t, r.AddBirthday("1.7.1991"))
	birthday, _ = r.Birthday()
	assert.Equal(t, "01.07.1991", birthday.String())

	err := r.AddBirthday("31.02.2020")
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
	birthday, _ = r.Birthday()
	assert.Equal(t, "01.07.1991", birthday.String())
}

// TestRecordString renders the human readable contact line.
func TestRecordString(t *testing.T) {
	r := recordWithPhones(t, "John", "1234567890", "5555555555")
	assert.Equal(t, "Contact name: John, phones: 1234567890; 5555555555", r.String())
	assert.Equal(t, "Contact name: Jane, phones: ", NewRecord("Jane").String())
}

// TestClone expects that changes to the clone are not visible in the original.
func TestClone(t *testing.T) {
	r := recordWithPhones(t, "John", "1111111111")
	require.NoError(t, r.AddBirthday("01.01.2000"))

	c := r.Clone()
	require.NoError(t, c.AddPhone("2222222222"))
	require.NoError(t, c.AddBirthday("02.02.2002"))

	assert.Equal(t, []string{"1111111111"}, phoneValues(r))
	birthday, _ := r.Birthday()
	assert.Equal(t, "01.01.2000", birthday.String())
	assert.Equal(t, []string{"1111111111", "2222222222"}, phoneValues(c))
}
