package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/getmelinks/getmelinks/internal/logger"
	"github.com/getmelinks/getmelinks/internal/model"
	"github.com/getmelinks/getmelinks/internal/validation"
)

// ErrStoreUnavailable indicates the backing store is unreachable. Submit
// checks reachability before attempting a write so the caller fails fast
// instead of hanging on an insert.
var ErrStoreUnavailable = errors.New("contact store unavailable")

// ContactStore is the persistence interface the service depends on,
// implemented by repository.ContactRepository.
type ContactStore interface {
	Create(ctx context.Context, c *model.Contact) error
	List(ctx context.Context) ([]model.Contact, error)
	GetByID(ctx context.Context, id string) (*model.Contact, error)
	UpdateStatus(ctx context.Context, id string, status model.ContactStatus) (*model.Contact, error)
	Ping(ctx context.Context) error
}

// Notifier dispatches the best-effort notification for a new submission.
type Notifier interface {
	NotifySubmission(ctx context.Context, c *model.Contact) error
}

// ContactService orchestrates the contact submission lifecycle:
// validate, persist, then notify.
type ContactService struct {
	store    ContactStore
	notifier Notifier
	log      *logger.Logger
}

// NewContactService creates a new ContactService. notifier may be nil, in
// which case no notification emails are sent.
func NewContactService(store ContactStore, notifier Notifier, log *logger.Logger) *ContactService {
	return &ContactService{
		store:    store,
		notifier: notifier,
		log:      log.WithComponent("contact_service"),
	}
}

// Submit validates and persists a new contact submission, then sends the
// operations notification. The record is authoritative once persisted: a
// notification failure is logged and discarded, never surfaced to the
// caller.
func (s *ContactService) Submit(ctx context.Context, c *model.Contact) (*model.Contact, error) {
	validation.NormalizeSubmission(c)
	if err := validation.ValidateSubmission(c); err != nil {
		return nil, err
	}

	// Fail fast when the store is down rather than timing out on the insert
	if err := s.store.Ping(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if err := s.store.Create(ctx, c); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.NotifySubmission(ctx, c); err != nil {
			// The contact is already saved; don't fail the request.
			s.log.Warn().Err(err).Str("contact_id", c.ID).Msg("notification send failed, continuing")
		}
	}

	return c, nil
}

// List returns the most recent contacts, newest first, capped by the store
func (s *ContactService) List(ctx context.Context) ([]model.Contact, error) {
	return s.store.List(ctx)
}

// Get returns a single contact by ID
func (s *ContactService) Get(ctx context.Context, id string) (*model.Contact, error) {
	return s.store.GetByID(ctx, id)
}

// UpdateStatus validates the status value, then updates the contact and
// returns the refreshed record.
func (s *ContactService) UpdateStatus(ctx context.Context, id string, status model.ContactStatus) (*model.Contact, error) {
	if err := validation.ValidateStatus(status); err != nil {
		return nil, err
	}
	return s.store.UpdateStatus(ctx, id, status)
}

// Ping reports whether the backing store is reachable
func (s *ContactService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
