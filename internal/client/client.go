// Package client talks to the address book service over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	api "gitlab.com/dirk.krummacker/address-book/pkg/model"
)

// APIError is returned for every response with a status code outside 2xx.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// Client sends requests to one address book service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the service at baseURL, e.g. http://localhost:8080. If httpClient is
// nil, http.DefaultClient is used.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// ListContacts returns all contacts sorted by name.
func (c *Client) ListContacts(ctx context.Context) ([]api.Contact, error) {
	var contacts []api.Contact
	err := c.do(ctx, http.MethodGet, "/contacts", nil, &contacts)
	return contacts, err
}

// GetContact returns the contact with the given name.
func (c *Client) GetContact(ctx context.Context, name string) (api.Contact, error) {
	var contact api.Contact
	err := c.do(ctx, http.MethodGet, contactPath(name), nil, &contact)
	return contact, err
}

// CreateContact stores the contact, replacing any contact of the same name.
func (c *Client) CreateContact(ctx context.Context, contact api.Contact) (api.Contact, error) {
	var created api.Contact
	err := c.do(ctx, http.MethodPost, "/contacts", contact, &created)
	return created, err
}

// DeleteContact deletes the contact with the given name.
func (c *Client) DeleteContact(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, contactPath(name), nil, nil)
}

// AddPhone appends a phone to the contact.
func (c *Client) AddPhone(ctx context.Context, name, phone string) (api.Contact, error) {
	var contact api.Contact
	err := c.do(ctx, http.MethodPost, contactPath(name)+"/phones", api.PhoneRequest{Phone: phone}, &contact)
	return contact, err
}

// FindPhone checks whether the contact has the phone.
func (c *Client) FindPhone(ctx context.Context, name, phone string) (string, error) {
	var found api.PhoneRequest
	err := c.do(ctx, http.MethodGet, phonePath(name, phone), nil, &found)
	return found.Phone, err
}

// EditPhone replaces the first occurrence of oldPhone with newPhone.
func (c *Client) EditPhone(ctx context.Context, name, oldPhone, newPhone string) (api.Contact, error) {
	var contact api.Contact
	err := c.do(ctx, http.MethodPut, phonePath(name, oldPhone), api.PhoneRequest{Phone: newPhone}, &contact)
	return contact, err
}

// RemovePhone removes the first occurrence of phone.
func (c *Client) RemovePhone(ctx context.Context, name, phone string) (api.Contact, error) {
	var contact api.Contact
	err := c.do(ctx, http.MethodDelete, phonePath(name, phone), nil, &contact)
	return contact, err
}

// SetBirthday sets the birthday (DD.MM.YYYY) of the contact.
func (c *Client) SetBirthday(ctx context.Context, name, birthday string) (api.Contact, error) {
	var contact api.Contact
	err := c.do(ctx, http.MethodPut, contactPath(name)+"/birthday", api.BirthdayRequest{Birthday: birthday}, &contact)
	return contact, err
}

// UpcomingBirthdays returns the contacts to congratulate within the next week. An empty date
// means today.
func (c *Client) UpcomingBirthdays(ctx context.Context, date string) ([]api.UpcomingBirthday, error) {
	path := "/birthdays"
	if date != "" {
		path += "?" + url.Values{"date": {date}}.Encode()
	}
	var upcoming []api.UpcomingBirthday
	err := c.do(ctx, http.MethodGet, path, nil, &upcoming)
	return upcoming, err
}

// Ping checks that the service answers.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/contacts?limit=1", nil, nil)
}

func contactPath(name string) string {
	return "/contacts/" + url.PathEscape(name)
}

func phonePath(name, phone string) string {
	return contactPath(name) + "/phones/" + url.PathEscape(phone)
}

// do sends the request and decodes the response into out. A nil body sends no body, a nil out
// discards the response.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("could not marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error making http request: %w", err)
	}
	defer res.Body.Close()
	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("could not read response body: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		var message api.Message
		if json.Unmarshal(resBody, &message) != nil || message.Message == "" {
			message.Message = http.StatusText(res.StatusCode)
		}
		return &APIError{Status: res.StatusCode, Message: message.Message}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resBody, out); err != nil {
		return fmt.Errorf("could not unmarshal JSON: %w", err)
	}
	return nil
}
