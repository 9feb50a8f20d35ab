package client

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/samber/lo"
	api "gitlab.com/dirk.krummacker/address-book/pkg/model"
)

// UsageError is returned when a command is unknown or called with the wrong arguments.
type UsageError struct {
	Usage string
}

func (e *UsageError) Error() string {
	return "usage: " + e.Usage
}

// command is one assistant command. args excludes the command name.
type command struct {
	usage string
	nargs []int
	run   func(ctx context.Context, c *Client, args []string, out io.Writer) error
}

var commands = map[string]command{
	"hello":         {"hello", []int{0}, hello},
	"add":           {"add <name> <phone>", []int{2}, add},
	"change":        {"change <name> <old phone> <new phone>", []int{3}, change},
	"phone":         {"phone <name>", []int{1}, showPhones},
	"all":           {"all", []int{0}, showAll},
	"add-birthday":  {"add-birthday <name> <DD.MM.YYYY>", []int{2}, addBirthday},
	"show-birthday": {"show-birthday <name>", []int{1}, showBirthday},
	"birthdays":     {"birthdays [DD.MM.YYYY]", []int{0, 1}, birthdays},
	"delete":        {"delete <name>", []int{1}, deleteContact},
}

// Usage lists all commands, one per line.
func Usage() string {
	names := lo.Keys(commands)
	sort.Strings(names)
	lines := lo.Map(names, func(name string, _ int) string { return "  " + commands[name].usage })
	return strings.Join(lines, "\n")
}

// Run executes the command in args[0] with the remaining arguments and writes its output to out.
func Run(ctx context.Context, c *Client, args []string, out io.Writer) error {
	if len(args) == 0 {
		return &UsageError{Usage: "<command> [arguments]\n" + Usage()}
	}
	cmd, ok := commands[strings.ToLower(args[0])]
	if !ok {
		return &UsageError{Usage: "<command> [arguments]\n" + Usage()}
	}
	if !lo.Contains(cmd.nargs, len(args)-1) {
		return &UsageError{Usage: cmd.usage}
	}
	return cmd.run(ctx, c, args[1:], out)
}

func hello(_ context.Context, _ *Client, _ []string, out io.Writer) error {
	_, err := fmt.Fprintln(out, "How can I help you?")
	return err
}

// add creates the contact if it does not exist yet and adds the phone.
func add(ctx context.Context, c *Client, args []string, out io.Writer) error {
	name, phone := args[0], args[1]
	_, err := c.GetContact(ctx, name)
	switch {
	case IsNotFound(err):
		if _, err := c.CreateContact(ctx, api.Contact{Name: name, Phones: []string{phone}}); err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, "Contact added.")
		return err
	case err != nil:
		return err
	}
	if _, err := c.AddPhone(ctx, name, phone); err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, "Contact updated.")
	return err
}

// change replaces a phone. The service ignores an absent old phone, so its presence is checked
// first.
func change(ctx context.Context, c *Client, args []string, out io.Writer) error {
	name, oldPhone, newPhone := args[0], args[1], args[2]
	contact, err := c.GetContact(ctx, name)
	if err != nil {
		return err
	}
	if !lo.Contains(contact.Phones, oldPhone) {
		_, err = fmt.Fprintf(out, "%s has no phone %s.\n", name, oldPhone)
		return err
	}
	if _, err := c.EditPhone(ctx, name, oldPhone, newPhone); err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, "Contact updated.")
	return err
}

func showPhones(ctx context.Context, c *Client, args []string, out io.Writer) error {
	contact, err := c.GetContact(ctx, args[0])
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, strings.Join(contact.Phones, "; "))
	return err
}

func showAll(ctx context.Context, c *Client, _ []string, out io.Writer) error {
	contacts, err := c.ListContacts(ctx)
	if err != nil {
		return err
	}
	if len(contacts) == 0 {
		_, err = fmt.Fprintln(out, "No contacts.")
		return err
	}
	for _, contact := range contacts {
		if _, err := fmt.Fprintln(out, render(contact)); err != nil {
			return err
		}
	}
	return nil
}

func addBirthday(ctx context.Context, c *Client, args []string, out io.Writer) error {
	if _, err := c.SetBirthday(ctx, args[0], args[1]); err != nil {
		return err
	}
	_, err := fmt.Fprintln(out, "Birthday added.")
	return err
}

func showBirthday(ctx context.Context, c *Client, args []string, out io.Writer) error {
	contact, err := c.GetContact(ctx, args[0])
	if err != nil {
		return err
	}
	if contact.Birthday == nil {
		_, err = fmt.Fprintf(out, "No birthday set for %s.\n", contact.Name)
		return err
	}
	_, err = fmt.Fprintln(out, *contact.Birthday)
	return err
}

func birthdays(ctx context.Context, c *Client, args []string, out io.Writer) error {
	date := ""
	if len(args) == 1 {
		date = args[0]
	}
	upcoming, err := c.UpcomingBirthdays(ctx, date)
	if err != nil {
		return err
	}
	if len(upcoming) == 0 {
		_, err = fmt.Fprintln(out, "No upcoming birthdays.")
		return err
	}
	for _, u := range upcoming {
		if _, err := fmt.Fprintf(out, "%s: %s\n", u.Name, u.CongratulationDate); err != nil {
			return err
		}
	}
	return nil
}

func deleteContact(ctx context.Context, c *Client, args []string, out io.Writer) error {
	if err := c.DeleteContact(ctx, args[0]); err != nil {
		return err
	}
	_, err := fmt.Fprintln(out, "Contact deleted.")
	return err
}

// render formats a contact the way the address book prints records.
func render(contact api.Contact) string {
	line := fmt.Sprintf("Contact name: %s, phones: %s", contact.Name, strings.Join(contact.Phones, "; "))
	if contact.Birthday != nil {
		line += ", birthday: " + *contact.Birthday
	}
	return line
}
