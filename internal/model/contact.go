package model

import (
	"time"
)

// ContactStatus represents the follow-up state of a contact submission
type ContactStatus string

const (
	StatusNew        ContactStatus = "new"
	StatusContacted  ContactStatus = "contacted"
	StatusInProgress ContactStatus = "in-progress"
	StatusClosed     ContactStatus = "closed"
)

// Valid reports whether the status is one of the known states
func (s ContactStatus) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusInProgress, StatusClosed:
		return true
	}
	return false
}

// Services is the closed set of service categories a submitter may pick.
var Services = []string{
	"Link Building",
	"Content Marketing",
	"Technical SEO",
	"Local SEO",
	"E-commerce SEO",
	"Enterprise SEO",
	"SEO Audit",
	"Digital PR",
}

// Budgets is the closed set of budget bands. Budget is optional, so the
// empty string is always accepted alongside these.
var Budgets = []string{
	"$5,000 - $10,000",
	"$10,000 - $25,000",
	"$25,000 - $50,000",
	"$50,000 - $100,000",
	"$100,000+",
}

// ValidService reports whether v is one of the known service categories
func ValidService(v string) bool {
	for _, s := range Services {
		if v == s {
			return true
		}
	}
	return false
}

// ValidBudget reports whether v is one of the known budget bands or empty
func ValidBudget(v string) bool {
	if v == "" {
		return true
	}
	for _, b := range Budgets {
		if v == b {
			return true
		}
	}
	return false
}

// Contact represents one persisted contact-form submission
type Contact struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Phone     string        `json:"phone,omitempty"`
	Company   string        `json:"company,omitempty"`
	Service   string        `json:"service"`
	Budget    string        `json:"budget,omitempty"`
	Message   string        `json:"message"`
	Status    ContactStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}
