package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"gitlab.com/dirk.krummacker/address-book/internal/addressbook"
	"gitlab.com/dirk.krummacker/address-book/internal/model"
	api "gitlab.com/dirk.krummacker/address-book/pkg/model"
)

// Snapshotter persists the complete address book.
type Snapshotter interface {
	Save(ctx context.Context, records []*model.Record) error
}

// book is the address book served by all endpoints.
var book *addressbook.AddressBook

// store receives a snapshot before every change is applied to book. It is nil when persistence is
// disabled.
var store Snapshotter

// writeMux serializes all changes, so that every snapshot contains exactly the changes applied
// before it. Readers are not blocked.
var writeMux sync.Mutex

// log is the logger for everything that is not an HTTP access log.
var log = slog.Default()

// now returns the reference date of the birthdays endpoint when none is given.
var now = time.Now

// SetupAddressBook sets the address book to be served and the optional snapshot store. The store
// can be a real database for production use or a mock within unit tests.
func SetupAddressBook(b *addressbook.AddressBook, s Snapshotter, logger *slog.Logger) {
	book = b
	store = s
	if logger != nil {
		log = logger
	}
}

// SetupHttpRouter initializes the REST API router and registers all endpoints.
func SetupHttpRouter(requestLogging bool) *gin.Engine {
	var router *gin.Engine
	if requestLogging {
		router = gin.Default()
	} else {
		log.Info("Turning off HTTP request logging.")
		router = gin.New()
		router.Use(gin.Recovery())
	}
	router.GET("/contacts", findContacts)
	router.POST("/contacts", createContact)
	router.GET("/contacts/:name", findContactByName)
	router.DELETE("/contacts/:name", deleteContactByName)
	router.POST("/contacts/:name/phones", addPhone)
	router.GET("/contacts/:name/phones/:phone", findPhone)
	router.PUT("/contacts/:name/phones/:phone", editPhone)
	router.DELETE("/contacts/:name/phones/:phone", removePhone)
	router.PUT("/contacts/:name/birthday", setBirthday)
	router.GET("/birthdays", findUpcomingBirthdays)
	return router
}

// findContacts responds with the list of contacts as JSON, sorted by name.
//
// The URL parameter 'name' is interpreted as the beginning of the contact's name.
//
// The URL parameter 'limit' specifies how many contacts matching the search criteria are returned.
// The URL parameter 'offset' specifies how many items from the sorted list of results are skipped
// in the beginning. Together with the 'limit' parameter, one can implement search result paging.
//
// REST API calls:
//
//	> curl "http://localhost:8080/contacts"
//	> curl "http://localhost:8080/contacts?name=Er"
//	> curl "http://localhost:8080/contacts?limit=20&offset=60"
func findContacts(c *gin.Context) {
	limit, offset, success := parseLimitAndOffset(c)
	if !success {
		return
	}
	prefix := c.Query("name")
	records := lo.Filter(book.Records(), func(r *model.Record, _ int) bool {
		return strings.HasPrefix(r.Name(), prefix)
	})
	end := len(records)
	if limit > 0 && limit < end-offset {
		end = offset + limit
	}
	records = lo.Slice(records, offset, end)
	c.IndentedJSON(http.StatusOK, lo.Map(records, func(r *model.Record, _ int) api.Contact {
		return toContact(r)
	}))
}

// parseLimitAndOffset inspects the URL parameters and determines values for limit and offset of
// the result set. A limit of zero means no limit.
func parseLimitAndOffset(c *gin.Context) (limit int, offset int, success bool) {
	var err error
	if l := c.Query("limit"); l != "" {
		limit, err = strconv.Atoi(l)
		if err != nil || limit < 1 {
			c.AbortWithStatusJSON(http.StatusBadRequest, api.Message{Message: "invalid limit parameter"})
			return 0, 0, false
		}
	}
	if o := c.Query("offset"); o != "" {
		offset, err = strconv.Atoi(o)
		if err != nil || offset < 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, api.Message{Message: "invalid offset parameter"})
			return 0, 0, false
		}
	}
	return limit, offset, true
}

// createContact stores the contact specified in the request's JSON, replacing any contact of the
// same name. Phones and birthday are validated; if any of them is invalid nothing is stored.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts --request "POST" --include --header "Content-Type: application/json" --data '{"name": "Erika Mustermann", "phones": ["0815471100"], "birthday": "02.03.1969"}'
func createContact(c *gin.Context) {
	var submitted api.Contact
	if err := c.ShouldBindJSON(&submitted); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, api.Message{Message: bindingMessage(err)})
		return
	}
	record := model.NewRecord(submitted.Name)
	for _, phone := range submitted.Phones {
		if err := record.AddPhone(phone); err != nil {
			respondError(c, err)
			return
		}
	}
	if submitted.Birthday != nil {
		if err := record.AddBirthday(*submitted.Birthday); err != nil {
			respondError(c, err)
			return
		}
	}
	writeMux.Lock()
	defer writeMux.Unlock()
	if !commit(c, withRecord(book.Records(), record)) {
		return
	}
	book.AddRecord(record)
	log.Info("contact stored", slog.String("name", record.Name()))
	c.IndentedJSON(http.StatusCreated, toContact(record))
}

// findContactByName locates the contact whose name matches the name parameter of the request URL,
// then returns that contact as a response.
//
// Example REST API call:
//
//	> curl "http://localhost:8080/contacts/Erika%20Mustermann"
func findContactByName(c *gin.Context) {
	record, ok := book.Get(c.Param("name"))
	if !ok {
		c.IndentedJSON(http.StatusNotFound, api.Message{Message: "contact not found"})
		return
	}
	c.IndentedJSON(http.StatusOK, toContact(record))
}

// deleteContactByName deletes the contact whose name matches the name parameter of the request
// URL.
//
// Example REST API call:
//
//	> curl "http://localhost:8080/contacts/Erika%20Mustermann" --request "DELETE"
func deleteContactByName(c *gin.Context) {
	name := c.Param("name")
	writeMux.Lock()
	defer writeMux.Unlock()
	if _, ok := book.Get(name); !ok {
		respondError(c, &model.KeyNotFoundError{Name: name})
		return
	}
	if !commit(c, withoutName(book.Records(), name)) {
		return
	}
	if err := book.Delete(name); err != nil {
		respondError(c, err)
		return
	}
	log.Info("contact deleted", slog.String("name", name))
	c.IndentedJSON(http.StatusOK, api.Message{Message: "contact deleted"})
}

// addPhone appends the phone in the request's JSON to the contact and responds with the full
// contact.
//
// Example REST API call:
//
//	> curl "http://localhost:8080/contacts/Erika%20Mustermann/phones" --request "POST" --header "Content-Type: application/json" --data '{"phone": "1234567890"}'
func addPhone(c *gin.Context) {
	var submitted api.PhoneRequest
	if err := c.ShouldBindJSON(&submitted); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, api.Message{Message: bindingMessage(err)})
		return
	}
	updateContact(c, http.StatusCreated, func(r *model.Record) error {
		return r.AddPhone(submitted.Phone)
	})
}

// findPhone responds with the phone of the contact that equals the phone parameter of the request
// URL.
//
// Example REST API call:
//
//	> curl "http://localhost:8080/contacts/Erika%20Mustermann/phones/1234567890"
func findPhone(c *gin.Context) {
	record, ok := book.Get(c.Param("name"))
	if !ok {
		c.IndentedJSON(http.StatusNotFound, api.Message{Message: "contact not found"})
		return
	}
	phone, ok := record.FindPhone(c.Param("phone"))
	if !ok {
		c.IndentedJSON(http.StatusNotFound, api.Message{Message: "phone not found"})
		return
	}
	c.IndentedJSON(http.StatusOK, api.PhoneRequest{Phone: phone.String()})
}

// editPhone replaces the phone given in the request URL with the one in the request's JSON. If the
// contact does not have that phone, the contact is returned unchanged.
//
// Example REST API call:
//
//	> curl "http://localhost:8080/contacts/Erika%20Mustermann/phones/1234567890" --request "PUT" --header "Content-Type: application/json" --data '{"phone": "0987654321"}'
func editPhone(c *gin.Context) {
	var submitted api.PhoneRequest
	if err := c.ShouldBindJSON(&submitted); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, api.Message{Message: bindingMessage(err)})
		return
	}
	updateContact(c, http.StatusOK, func(r *model.Record) error {
		return r.EditPhone(c.Param("phone"), submitted.Phone)
	})
}

// removePhone removes the phone given in the request URL from the contact. Removing a phone the
// contact does not have is not an error.
//
// Example REST API call:
//
//	> curl "http://localhost:8080/contacts/Erika%20Mustermann/phones/1234567890" --request "DELETE"
func removePhone(c *gin.Context) {
	updateContact(c, http.StatusOK, func(r *model.Record) error {
		r.RemovePhone(c.Param("phone"))
		return nil
	})
}

// setBirthday sets or replaces the birthday of the contact.
//
// Example REST API call:
//
//	> curl "http://localhost:8080/contacts/Erika%20Mustermann/birthday" --request "PUT" --header "Content-Type: application/json" --data '{"birthday": "02.03.1969"}'
func setBirthday(c *gin.Context) {
	var submitted api.BirthdayRequest
	if err := c.ShouldBindJSON(&submitted); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, api.Message{Message: bindingMessage(err)})
		return
	}
	updateContact(c, http.StatusOK, func(r *model.Record) error {
		return r.AddBirthday(submitted.Birthday)
	})
}

// findUpcomingBirthdays responds with the contacts to congratulate within the next seven days.
// The URL parameter 'date' (DD.MM.YYYY) replaces today as the reference date.
//
// REST API calls:
//
//	> curl "http://localhost:8080/birthdays"
//	> curl "http://localhost:8080/birthdays?date=10.06.2024"
func findUpcomingBirthdays(c *gin.Context) {
	reference := now()
	if date := c.Query("date"); date != "" {
		var err error
		reference, err = model.ParseDate(date)
		if err != nil {
			respondError(c, err)
			return
		}
	}
	upcoming := book.UpcomingBirthdays(reference)
	c.IndentedJSON(http.StatusOK, lo.Map(upcoming, func(u addressbook.UpcomingBirthday, _ int) api.UpcomingBirthday {
		return api.UpcomingBirthday{Name: u.Name, CongratulationDate: u.CongratulationDate}
	}))
}

// updateContact applies change to a copy of the contact named in the request URL. The copy
// replaces the stored contact only after the snapshot containing it has been saved, so a failed
// save leaves the address book unchanged. The response shows the copy.
func updateContact(c *gin.Context, status int, change func(*model.Record) error) {
	name := c.Param("name")
	writeMux.Lock()
	defer writeMux.Unlock()
	record, ok := book.Get(name)
	if !ok {
		respondError(c, &model.KeyNotFoundError{Name: name})
		return
	}
	if err := change(record); err != nil {
		respondError(c, err)
		return
	}
	if !commit(c, withRecord(book.Records(), record)) {
		return
	}
	book.AddRecord(record)
	c.IndentedJSON(status, toContact(record))
}

// commit saves records as the new snapshot if a store is configured. It responds with an error
// and returns false if saving fails. Callers hold writeMux.
func commit(c *gin.Context, records []*model.Record) bool {
	if store == nil {
		return true
	}
	if err := store.Save(c.Request.Context(), records); err != nil {
		log.ErrorContext(c.Request.Context(), "failed to save address book", "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, api.Message{Message: "could not save address book"})
		return false
	}
	return true
}

// withRecord returns the records with record added, replacing any record of the same name,
// sorted by name.
func withRecord(records []*model.Record, record *model.Record) []*model.Record {
	records = append(withoutName(records, record.Name()), record)
	slices.SortFunc(records, func(x, y *model.Record) int { return strings.Compare(x.Name(), y.Name()) })
	return records
}

// withoutName returns the records except the one stored under name.
func withoutName(records []*model.Record, name string) []*model.Record {
	return lo.Reject(records, func(r *model.Record, _ int) bool { return r.Name() == name })
}

// respondError translates domain errors into HTTP responses.
func respondError(c *gin.Context, err error) {
	var validationErr *model.ValidationError
	var notFoundErr *model.KeyNotFoundError
	switch {
	case errors.As(err, &validationErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, api.Message{Message: validationErr.Message})
	case errors.As(err, &notFoundErr):
		c.AbortWithStatusJSON(http.StatusNotFound, api.Message{Message: "contact not found"})
	default:
		log.ErrorContext(c.Request.Context(), "request failed", "error", err, "path", c.FullPath())
		c.AbortWithStatusJSON(http.StatusInternalServerError, api.Message{Message: "internal error"})
	}
}

// bindingMessage describes why a request body could not be bound.
func bindingMessage(err error) string {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		fields := lo.Map(validationErrs, func(fe validator.FieldError, _ int) string {
			return strings.ToLower(fe.Field())
		})
		return fmt.Sprintf("missing %s", strings.Join(fields, ", "))
	}
	return "invalid JSON"
}

// toContact converts a record into its JSON document.
func toContact(r *model.Record) api.Contact {
	contact := api.Contact{
		Name:   r.Name(),
		Phones: lo.Map(r.Phones(), func(p model.PhoneNumber, _ int) string { return p.String() }),
	}
	if birthday, ok := r.Birthday(); ok {
		contact.Birthday = lo.ToPtr(birthday.String())
	}
	return contact
}
