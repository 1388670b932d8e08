// Package validation performs normalization and field validation of contact
// submissions before anything touches the store, so validation rules stay
// independent of the storage schema.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/getmelinks/getmelinks/internal/model"
)

// FieldError describes one invalid or missing field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is a list of field violations. It implements error so services can
// return it directly and handlers can map it to a 400 response.
type Errors []FieldError

func (e Errors) Error() string {
	return strings.Join(e.Messages(), "; ")
}

// Messages returns the human-readable message per offending field
func (e Errors) Messages() []string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Message
	}
	return msgs
}

var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

// NormalizeSubmission trims all text fields and lower-cases the email
// address in place.
func NormalizeSubmission(c *model.Contact) {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Phone = strings.TrimSpace(c.Phone)
	c.Company = strings.TrimSpace(c.Company)
	c.Service = strings.TrimSpace(c.Service)
	c.Budget = strings.TrimSpace(c.Budget)
	c.Message = strings.TrimSpace(c.Message)
}

// ValidateSubmission checks required fields, the email pattern and enum
// membership. It returns nil when the submission is valid, otherwise an
// Errors value with one entry per offending field. Callers should normalize
// first.
func ValidateSubmission(c *model.Contact) error {
	var errs Errors

	if c.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "Name is required"})
	}

	switch {
	case c.Email == "":
		errs = append(errs, FieldError{Field: "email", Message: "Email is required"})
	case !emailPattern.MatchString(c.Email):
		errs = append(errs, FieldError{Field: "email", Message: "Please enter a valid email"})
	}

	switch {
	case c.Service == "":
		errs = append(errs, FieldError{Field: "service", Message: "Service is required"})
	case !model.ValidService(c.Service):
		errs = append(errs, FieldError{Field: "service", Message: fmt.Sprintf("%q is not a valid service", c.Service)})
	}

	if !model.ValidBudget(c.Budget) {
		errs = append(errs, FieldError{Field: "budget", Message: fmt.Sprintf("%q is not a valid budget range", c.Budget)})
	}

	if c.Message == "" {
		errs = append(errs, FieldError{Field: "message", Message: "Message is required"})
	}

	if c.Status != "" && !c.Status.Valid() {
		errs = append(errs, FieldError{Field: "status", Message: fmt.Sprintf("%q is not a valid status", c.Status)})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateStatus checks a status value against the closed set of states
func ValidateStatus(s model.ContactStatus) error {
	if !s.Valid() {
		return Errors{{Field: "status", Message: fmt.Sprintf("%q is not a valid status", s)}}
	}
	return nil
}
