// Package addressbook holds the directory of contact records and answers the upcoming birthdays
// query.
package addressbook

import (
	"cmp"
	"slices"
	"strings"
	"sync"
	"time"

	"gitlab.com/dirk.krummacker/address-book/internal/model"
)

// congratulationLayout is the format of UpcomingBirthday.CongratulationDate. It is zero padded
// so that lexical and chronological order agree.
const congratulationLayout = "2006.01.02"

// upcomingWindow is the number of days ahead, inclusive, that the birthday query looks at.
const upcomingWindow = 7

// UpcomingBirthday names a contact and the day on which to congratulate them.
type UpcomingBirthday struct {
	Name               string `json:"name"`
	CongratulationDate string `json:"congratulation_date"`
}

// AddressBook maps contact names to records. Names are unique; adding a record under an
// existing name replaces the previous one.
//
// An AddressBook is safe for concurrent use. Records returned by Find are the stored ones and
// must not be modified while other goroutines use the book; to change a record, modify the copy
// returned by Get and store it with AddRecord.
type AddressBook struct {
	mux     sync.RWMutex
	records map[string]*model.Record
}

// New creates an empty AddressBook.
func New() *AddressBook {
	return &AddressBook{records: make(map[string]*model.Record)}
}

// AddRecord stores the record under its name, replacing any previous record of that name.
func (b *AddressBook) AddRecord(record *model.Record) {
	b.mux.Lock()
	defer b.mux.Unlock()
	b.records[record.Name()] = record
}

// Find returns the record stored under name.
func (b *AddressBook) Find(name string) (*model.Record, bool) {
	b.mux.RLock()
	defer b.mux.RUnlock()
	record, ok := b.records[name]
	return record, ok
}

// Delete removes the record stored under name. It returns a *model.KeyNotFoundError if there
// is none.
func (b *AddressBook) Delete(name string) error {
	b.mux.Lock()
	defer b.mux.Unlock()
	if _, ok := b.records[name]; !ok {
		return &model.KeyNotFoundError{Name: name}
	}
	delete(b.records, name)
	return nil
}

// Get returns a copy of the record stored under name.
func (b *AddressBook) Get(name string) (*model.Record, bool) {
	b.mux.RLock()
	defer b.mux.RUnlock()
	record, ok := b.records[name]
	if !ok {
		return nil, false
	}
	return record.Clone(), true
}

// Records returns copies of all records sorted by name.
func (b *AddressBook) Records() []*model.Record {
	b.mux.RLock()
	defer b.mux.RUnlock()
	records := make([]*model.Record, 0, len(b.records))
	for _, r := range b.records {
		records = append(records, r.Clone())
	}
	slices.SortFunc(records, func(x, y *model.Record) int { return strings.Compare(x.Name(), y.Name()) })
	return records
}

// Len returns the number of records.
func (b *AddressBook) Len() int {
	b.mux.RLock()
	defer b.mux.RUnlock()
	return len(b.records)
}

// UpcomingBirthdaysToday runs UpcomingBirthdays for the current local date.
func (b *AddressBook) UpcomingBirthdaysToday() []UpcomingBirthday {
	return b.UpcomingBirthdays(time.Now())
}

// UpcomingBirthdays returns the contacts whose next birthday is at most seven days after the
// reference date. Birthdays on a weekend are congratulated on the following Monday. The result
// is ordered by congratulation date, then by name. Records without a birthday are skipped.
//
// The next birthday is computed by moving the birth date by the difference between the
// reference year and the birth year. A 29 February birthday falls on 1 March in common years.
func (b *AddressBook) UpcomingBirthdays(reference time.Time) []UpcomingBirthday {
	today := dateOf(reference)

	b.mux.RLock()
	defer b.mux.RUnlock()

	result := []UpcomingBirthday{}
	for _, record := range b.records {
		birthday, ok := record.Birthday()
		if !ok {
			continue
		}

		yearDiff := today.Year() - birthday.Year()
		next := anniversary(birthday, birthday.Year()+yearDiff)
		if next.Before(today) {
			next = anniversary(birthday, next.Year()+1)
		}

		if daysBetween(today, next) > upcomingWindow {
			continue
		}

		if weekday := mondayBasedWeekday(next); weekday > 4 {
			next = next.AddDate(0, 0, 7-weekday)
		}

		result = append(result, UpcomingBirthday{
			Name:               record.Name(),
			CongratulationDate: next.Format(congratulationLayout),
		})
	}

	slices.SortFunc(result, func(x, y UpcomingBirthday) int {
		return cmp.Or(
			strings.Compare(x.CongratulationDate, y.CongratulationDate),
			strings.Compare(x.Name, y.Name),
		)
	})
	return result
}

// dateOf returns midnight UTC of the calendar date that t has in its own location.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// anniversary returns the birthday's month and day in the given year.
func anniversary(birthday model.Birthday, year int) time.Time {
	return time.Date(year, birthday.Month(), birthday.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the number of whole days from one UTC midnight to another.
func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

// mondayBasedWeekday numbers the days of the week from Monday=0 to Sunday=6.
func mondayBasedWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
