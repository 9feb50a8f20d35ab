// Package storage persists the address book as a snapshot in MySQL. The whole book is written on
// every save and read back on startup.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"gitlab.com/dirk.krummacker/address-book/internal/model"
)

// birthdayLayout converts stored dates back into the form accepted by model.Record.AddBirthday.
const birthdayLayout = "02.01.2006"

// contactRow is a row of the contacts table.
type contactRow struct {
	Name     string     `db:"name"`
	Birthday *time.Time `db:"birthday"`
}

// phoneRow is a row of the phones table.
type phoneRow struct {
	Name  string `db:"name"`
	Phone string `db:"phone"`
}

// Store reads and writes address book snapshots.
type Store struct {
	db *sqlx.DB
}

// CreateDatabase opens a connection pool to the MySQL database "contacts" on host.
func CreateDatabase(user, password, host string) (*sql.DB, error) {
	cfg := mysql.NewConfig()
	cfg.User = user
	cfg.Passwd = password
	cfg.Net = "tcp"
	cfg.Addr = host
	cfg.DBName = "contacts"
	cfg.ParseTime = true
	sqlDB, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return sqlDB, nil
}

// New wraps the sql database. It can be a real database for production use or a mock database
// within unit tests.
func New(sqlDB *sql.DB) *Store {
	return &Store{db: sqlx.NewDb(sqlDB, "mysql")}
}

// DB returns the underlying sqlx handle.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// Save replaces the stored snapshot with the given records in a single transaction. Phones are
// written with their position so that Load restores insertion order.
func (s *Store) Save(ctx context.Context, records []*model.Record) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM phones`); err != nil {
		return fmt.Errorf("clearing phones: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM contacts`); err != nil {
		return fmt.Errorf("clearing contacts: %w", err)
	}

	for _, record := range records {
		var birthday *time.Time
		if b, ok := record.Birthday(); ok {
			date := b.Date()
			birthday = &date
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO contacts (name, birthday) VALUES (?, ?)`,
			record.Name(), birthday,
		); err != nil {
			return fmt.Errorf("inserting contact %q: %w", record.Name(), err)
		}
		for position, phone := range record.Phones() {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO phones (name, position, phone) VALUES (?, ?, ?)`,
				record.Name(), position, phone.String(),
			); err != nil {
				return fmt.Errorf("inserting phone of %q: %w", record.Name(), err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}
	return nil
}

// Load reads the stored snapshot. Every value passes the same validation as user input, so a
// manipulated table cannot produce invalid records.
func (s *Store) Load(ctx context.Context) ([]*model.Record, error) {
	var contacts []contactRow
	if err := s.db.SelectContext(ctx, &contacts,
		`SELECT name, birthday FROM contacts ORDER BY name`,
	); err != nil {
		return nil, fmt.Errorf("selecting contacts: %w", err)
	}

	var phones []phoneRow
	if err := s.db.SelectContext(ctx, &phones,
		`SELECT name, phone FROM phones ORDER BY name, position`,
	); err != nil {
		return nil, fmt.Errorf("selecting phones: %w", err)
	}

	byName := make(map[string]*model.Record, len(contacts))
	records := make([]*model.Record, 0, len(contacts))
	for _, c := range contacts {
		record := model.NewRecord(c.Name)
		if c.Birthday != nil {
			if err := record.AddBirthday(c.Birthday.Format(birthdayLayout)); err != nil {
				return nil, fmt.Errorf("birthday of %q: %w", c.Name, err)
			}
		}
		byName[c.Name] = record
		records = append(records, record)
	}
	for _, p := range phones {
		record, ok := byName[p.Name]
		if !ok {
			return nil, fmt.Errorf("phone %s belongs to unknown contact %q", p.Phone, p.Name)
		}
		if err := record.AddPhone(p.Phone); err != nil {
			return nil, fmt.Errorf("phone of %q: %w", p.Name, err)
		}
	}
	return records, nil
}
