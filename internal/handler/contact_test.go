package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/getmelinks/getmelinks/internal/config"
	"github.com/getmelinks/getmelinks/internal/email"
	"github.com/getmelinks/getmelinks/internal/handler"
	"github.com/getmelinks/getmelinks/internal/logger"
	"github.com/getmelinks/getmelinks/internal/middleware"
	"github.com/getmelinks/getmelinks/internal/model"
	"github.com/getmelinks/getmelinks/internal/repository"
	"github.com/getmelinks/getmelinks/internal/router"
	"github.com/getmelinks/getmelinks/internal/service"
)

// memStore is an in-memory ContactStore mirroring the repository contract.
// The err knobs force each operation to fail for error-path tests.
type memStore struct {
	mu        sync.Mutex
	contacts  []model.Contact
	pingErr   error
	createErr error
	listErr   error
	getErr    error
	updateErr error
}

func (s *memStore) Create(ctx context.Context, c *model.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	c.ID = uuid.NewString()
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.Status == "" {
		c.Status = model.StatusNew
	}
	s.contacts = append(s.contacts, *c)
	return nil
}

func (s *memStore) List(ctx context.Context) ([]model.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]model.Contact, len(s.contacts))
	copy(out, s.contacts)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > 50 {
		out = out[:50]
	}
	return out, nil
}

func (s *memStore) GetByID(ctx context.Context, id string) (*model.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, repository.ErrNotFound
	}
	for i := range s.contacts {
		if s.contacts[i].ID == id {
			c := s.contacts[i]
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memStore) UpdateStatus(ctx context.Context, id string, status model.ContactStatus) (*model.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	if !status.Valid() {
		return nil, repository.ErrInvalidInput
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, repository.ErrNotFound
	}
	for i := range s.contacts {
		if s.contacts[i].ID == id {
			s.contacts[i].Status = status
			s.contacts[i].UpdatedAt = time.Now().UTC()
			c := s.contacts[i]
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memStore) Ping(ctx context.Context) error {
	return s.pingErr
}

// captureSender implements email.Sender and records sent messages.
type captureSender struct {
	mu   sync.Mutex
	sent []email.Message
	err  error
}

func (c *captureSender) Send(ctx context.Context, msg email.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, msg)
	return nil
}

const opsMailbox = "ops@getmelinks.com"

func newTestServer(t *testing.T, store *memStore, sender *captureSender) *httptest.Server {
	return newTestServerEnv(t, store, sender, "production")
}

func newTestServerEnv(t *testing.T, store *memStore, sender *captureSender, env string) *httptest.Server {
	t.Helper()

	cfg := &config.Config{Environment: env}
	log := logger.New("disabled", "json")

	var notifier service.Notifier
	if sender != nil {
		notifier = service.NewNotificationService(sender, "GetMeLinks", opsMailbox, log)
	}
	svc := service.NewContactService(store, notifier, log)

	h := handler.New(svc, nil, log, cfg)
	mw := middleware.New(nil, log, cfg)

	srv := httptest.NewServer(router.New(h, mw, log))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func submission() map[string]interface{} {
	return map[string]interface{}{
		"name":    "Ada Lovelace",
		"email":   "ada@example.com",
		"service": "Link Building",
		"message": "I need links",
	}
}

func TestSubmitContactCreated(t *testing.T) {
	store := &memStore{}
	sender := &captureSender{}
	srv := newTestServer(t, store, sender)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/contact", submission())

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, true, body["success"])

	data := body["data"].(map[string]interface{})
	require.NotEmpty(t, data["id"])
	require.Equal(t, "Ada Lovelace", data["name"])
	require.Equal(t, "ada@example.com", data["email"])
	require.Equal(t, "Link Building", data["service"])
	require.NotEmpty(t, data["createdAt"])

	require.Len(t, store.contacts, 1)

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	require.Equal(t, opsMailbox, msg.To)
	require.Equal(t, "New Contact Form Submission - Link Building", msg.Subject)
	require.Equal(t, "ada@example.com", msg.ReplyTo)
	require.Contains(t, msg.HTMLBody, "Ada Lovelace")
}

func TestSubmitContactMissingRequiredFields(t *testing.T) {
	for _, field := range []string{"name", "email", "service", "message"} {
		t.Run(field, func(t *testing.T) {
			store := &memStore{}
			srv := newTestServer(t, store, nil)

			payload := submission()
			delete(payload, field)

			resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/contact", payload)

			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			require.Equal(t, false, body["success"])
			require.Equal(t,
				"Please provide all required fields: name, email, service, and message",
				body["message"])
			require.Empty(t, store.contacts, "nothing may be persisted")
		})
	}
}

func TestSubmitContactInvalidEnums(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(map[string]interface{})
		message string
	}{
		{"unknown service", func(p map[string]interface{}) { p["service"] = "Skywriting" }, `"Skywriting" is not a valid service`},
		{"unknown budget", func(p map[string]interface{}) { p["budget"] = "$1" }, `"$1" is not a valid budget range`},
		{"bad email", func(p map[string]interface{}) { p["email"] = "nope" }, "Please enter a valid email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memStore{}
			srv := newTestServer(t, store, nil)

			payload := submission()
			tt.mutate(payload)

			resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/contact", payload)

			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			require.Equal(t, "Validation error", body["message"])

			errs := body["errors"].([]interface{})
			require.Contains(t, errs, tt.message)
			require.Empty(t, store.contacts)
		})
	}
}

func TestSubmitContactMailFailureStill201(t *testing.T) {
	store := &memStore{}
	sender := &captureSender{err: errors.New("gmail down")}
	srv := newTestServer(t, store, sender)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/contact", submission())

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, true, body["success"])
	require.Len(t, store.contacts, 1, "record must survive the send failure")
}

func TestSubmitContactStoreUnavailable(t *testing.T) {
	store := &memStore{pingErr: errors.New("connection refused")}
	srv := newTestServer(t, store, nil)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/contact", submission())

	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.Equal(t, "Database connection error. Please try again later.", body["message"])
	require.Empty(t, store.contacts)
}

func TestStoreFailuresReturn500(t *testing.T) {
	boom := errors.New("pq: terminating connection")

	t.Run("submit", func(t *testing.T) {
		store := &memStore{createErr: boom}
		srv := newTestServer(t, store, nil)

		resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/contact", submission())

		require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		require.Equal(t, false, body["success"])
		require.Equal(t, "Something went wrong. Please try again later.", body["message"])
		require.Nil(t, body["error"], "error detail is never shown in production")
	})

	t.Run("list", func(t *testing.T) {
		store := &memStore{listErr: boom}
		srv := newTestServer(t, store, nil)

		resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/contact", nil)

		require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		require.Equal(t, false, body["success"])
		require.Equal(t, "Error fetching contacts", body["message"])
		require.Nil(t, body["error"])
	})

	t.Run("get", func(t *testing.T) {
		store := &memStore{getErr: boom}
		srv := newTestServer(t, store, nil)

		resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/contact/"+uuid.NewString(), nil)

		require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		require.Equal(t, false, body["success"])
		require.Equal(t, "Error fetching contact", body["message"])
		require.Nil(t, body["error"])
	})

	t.Run("update status", func(t *testing.T) {
		store := &memStore{updateErr: boom}
		srv := newTestServer(t, store, nil)

		resp, body := doJSON(t, http.MethodPatch, srv.URL+"/api/contact/"+uuid.NewString()+"/status",
			map[string]string{"status": "contacted"})

		require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		require.Equal(t, false, body["success"])
		require.Equal(t, "Error updating status", body["message"])
		require.Nil(t, body["error"])
	})
}

func TestServerErrorDetailOnlyInDevelopment(t *testing.T) {
	store := &memStore{listErr: errors.New("pq: broken pipe")}

	srv := newTestServerEnv(t, store, nil, "development")
	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/contact", nil)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.Equal(t, "pq: broken pipe", body["error"], "development echoes the underlying error")

	srv = newTestServerEnv(t, store, nil, "production")
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/contact", nil)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.Nil(t, body["error"])
}

func TestListContactsCappedAndSorted(t *testing.T) {
	store := &memStore{}
	base := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 55; i++ {
		store.contacts = append(store.contacts, model.Contact{
			ID:        uuid.NewString(),
			Name:      fmt.Sprintf("Visitor %d", i),
			Email:     fmt.Sprintf("v%d@example.com", i),
			Service:   "SEO Audit",
			Message:   "hi",
			Status:    model.StatusNew,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			UpdatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	srv := newTestServer(t, store, nil)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/contact", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, body["success"])
	require.Equal(t, float64(50), body["count"])

	data := body["data"].([]interface{})
	require.Len(t, data, 50)

	first := data[0].(map[string]interface{})
	last := data[49].(map[string]interface{})
	require.Equal(t, "Visitor 54", first["name"], "newest first")
	require.Equal(t, "Visitor 5", last["name"])
}

func TestGetContact(t *testing.T) {
	store := &memStore{}
	srv := newTestServer(t, store, nil)

	payload := submission()
	payload["phone"] = "555-0100"
	payload["company"] = "Analytical Engines"
	payload["budget"] = "$10,000 - $25,000"
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/contact", payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := body["data"].(map[string]interface{})["id"].(string)

	// Round-trip: every submitted field comes back unchanged
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/contact/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	require.Equal(t, "Ada Lovelace", data["name"])
	require.Equal(t, "ada@example.com", data["email"])
	require.Equal(t, "555-0100", data["phone"])
	require.Equal(t, "Analytical Engines", data["company"])
	require.Equal(t, "Link Building", data["service"])
	require.Equal(t, "$10,000 - $25,000", data["budget"])
	require.Equal(t, "I need links", data["message"])
	require.Equal(t, "new", data["status"])
}

func TestGetContactNotFound(t *testing.T) {
	srv := newTestServer(t, &memStore{}, nil)

	// Well-formed but absent
	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/contact/"+uuid.NewString(), nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "Contact not found", body["message"])

	// Malformed ids are "not found", never a server error
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/contact/not-a-uuid", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "Contact not found", body["message"])
}

func TestUpdateContactStatus(t *testing.T) {
	store := &memStore{}
	srv := newTestServer(t, store, nil)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/contact", submission())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := body["data"].(map[string]interface{})["id"].(string)

	// Valid transition
	resp, body = doJSON(t, http.MethodPatch, srv.URL+"/api/contact/"+id+"/status",
		map[string]string{"status": "contacted"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Status updated successfully", body["message"])
	require.Equal(t, "contacted", body["data"].(map[string]interface{})["status"])

	// Unknown status is rejected and leaves the record untouched
	resp, body = doJSON(t, http.MethodPatch, srv.URL+"/api/contact/"+id+"/status",
		map[string]string{"status": "bogus"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Invalid status", body["message"])
	require.Equal(t, model.StatusContacted, store.contacts[0].Status)

	// Absent id
	resp, body = doJSON(t, http.MethodPatch, srv.URL+"/api/contact/"+uuid.NewString()+"/status",
		map[string]string{"status": "closed"})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "Contact not found", body["message"])
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &memStore{}, nil)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", body["status"])
	require.NotEmpty(t, body["timestamp"])
}

func TestWelcome(t *testing.T) {
	srv := newTestServer(t, &memStore{}, nil)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Welcome to GetMeLinks API", body["message"])
}

func TestUnmatchedRoute(t *testing.T) {
	srv := newTestServer(t, &memStore{}, nil)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/nope", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "Not Found", body["error"])
	require.Equal(t, "Cannot GET /nope", body["message"])
}

func TestSubmissionLifecycle(t *testing.T) {
	store := &memStore{}
	srv := newTestServer(t, store, nil)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/contact", map[string]interface{}{
		"name":    "A",
		"email":   "a@b.com",
		"service": "Local SEO",
		"message": "hi",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	require.Equal(t, "Local SEO", data["service"])
	id := data["id"].(string)

	resp, body = doJSON(t, http.MethodPatch, srv.URL+"/api/contact/"+id+"/status",
		map[string]string{"status": "contacted"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "contacted", body["data"].(map[string]interface{})["status"])

	resp, _ = doJSON(t, http.MethodPatch, srv.URL+"/api/contact/"+id+"/status",
		map[string]string{"status": "bogus"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
