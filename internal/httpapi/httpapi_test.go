package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Manish1808/Cybernauts/internal/auth"
	"github.com/Manish1808/Cybernauts/internal/certificate"
	"github.com/Manish1808/Cybernauts/internal/domain"
	"github.com/Manish1808/Cybernauts/internal/mail"
	"github.com/Manish1808/Cybernauts/internal/media"
	"github.com/Manish1808/Cybernauts/internal/notify"
	"github.com/Manish1808/Cybernauts/internal/report"
	"github.com/Manish1808/Cybernauts/internal/service"
	"github.com/Manish1808/Cybernauts/internal/store/memory"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeSender struct {
	mu   sync.Mutex
	fail map[string]bool
	sent []mail.Message
}

func (s *fakeSender) Send(ctx context.Context, msg mail.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail[msg.To] {
		return errors.New("smtp: 550 mailbox unavailable")
	}
	s.sent = append(s.sent, msg)
	return nil
}

type testServer struct {
	router *gin.Engine
	store  *memory.Store
	sender *fakeSender
	tokens *auth.Tokens
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	st := memory.New()
	sender := &fakeSender{fail: map[string]bool{}}
	catalog := mail.NewCatalog("en")
	sweeper := notify.NewSweeper(sender, quiet)
	tokens := auth.NewTokens("test-secret", time.Hour)

	disk, err := media.NewDisk(t.TempDir(), "http://localhost:3001")
	require.NoError(t, err)

	now := func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) }
	events := service.NewEvents(st, disk, time.UTC, quiet)
	events.Now = now
	exports := service.NewExports(st, time.UTC)
	exports.Now = now

	svc := Services{
		Events:        events,
		Registrations: service.NewRegistrations(st, sender, catalog, "Cybernauts Team", quiet),
		Feedback:      service.NewFeedback(st, sweeper, catalog, "http://frontend", "Cybernauts Team", quiet),
		Notices:       service.NewNotices(st, sweeper, catalog, t.TempDir(), "Cybernauts Team", quiet),
		Certificates:  service.NewCertificates(st, sweeper, catalog, certificate.Renderer{}, "Principal", "Principal", "Cybernauts Team"),
		Exports:       exports,
		Contacts:      service.NewContacts(st, sender, catalog, quiet),
		Blogs:         service.NewBlogs(st, disk, quiet),
		Admins:        service.NewAdmins(st, tokens, quiet),
	}

	router := NewRouter(svc, tokens, nil, Options{ContactRetention: 5 * 24 * time.Hour}, quiet)
	return &testServer{router: router, store: st, sender: sender, tokens: tokens}
}

func (s *testServer) seed(t *testing.T, id, endDate string, participants ...domain.Participant) {
	t.Helper()
	end, err := domain.ParseDate(endDate)
	require.NoError(t, err)
	e := domain.Event{
		ID:           id,
		Title:        "Event " + id,
		Description:  "desc",
		StartDate:    end,
		EndDate:      end,
		Participants: participants,
	}
	require.NoError(t, s.store.CreateEvent(context.Background(), &e))
}

func (s *testServer) token(t *testing.T, role domain.Role) string {
	t.Helper()
	tok, err := s.tokens.Issue(domain.Admin{ID: "admin-" + string(role), Role: role})
	require.NoError(t, err)
	return tok
}

func (s *testServer) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestListEventsPartitions(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, "past", "2025-03-01")
	s.seed(t, "future", "2025-04-01")

	w := s.do(http.MethodGet, "/events", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	upcoming := body["upcomingEvents"].([]any)
	completed := body["completedEvents"].([]any)
	require.Len(t, upcoming, 1)
	require.Len(t, completed, 1)
	assert.Equal(t, "future", upcoming[0].(map[string]any)["id"])
	assert.Equal(t, "past", completed[0].(map[string]any)["id"])
}

func TestRecentAndMissingEvent(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/events/recent", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No recent events found", decode(t, w)["error"])

	w = s.do(http.MethodGet, "/events/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	s.seed(t, "past", "2025-03-01")
	w = s.do(http.MethodGet, "/events/recent", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "past", decode(t, w)["id"])
}

func TestRegisterParticipant(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, "e1", "2025-04-01")

	body := gin.H{"name": "Asha", "email": "asha@example.com", "branch": "CSE"}
	w := s.do(http.MethodPost, "/events/e1/participants", body, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Registration successful", decode(t, w)["message"])

	body["email"] = "  ASHA@example.com "
	w = s.do(http.MethodPost, "/events/e1/participants", body, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/events/e1/participants", gin.H{"name": "No Mail"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitFeedback(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, "e1", "2025-03-01", domain.Participant{Name: "Asha", Email: "asha@example.com"})

	w := s.do(http.MethodPost, "/feedback/e1/submit", gin.H{"email": "stranger@example.com", "rating": 4}, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/feedback/e1/submit", gin.H{"email": "asha@example.com", "rating": "4", "comment": "fun"}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Feedback submitted successfully!", decode(t, w)["message"])

	w = s.do(http.MethodPost, "/feedback/e1/submit", gin.H{"email": "Asha@example.com", "rating": 5}, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	e, err := s.store.GetEvent(context.Background(), "e1")
	require.NoError(t, err)
	assert.InDelta(t, 4.0, e.AverageRating, 0.0001)
}

func TestSubmitFeedback_NonNumericRatingKeepsListing(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, "e1", "2025-03-01", domain.Participant{Name: "Asha", Email: "asha@example.com"})

	for _, r := range []string{"NaN", "Inf", "-Infinity", "four"} {
		w := s.do(http.MethodPost, "/feedback/e1/submit", gin.H{"email": "asha@example.com", "rating": r}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, r)
	}

	w := s.do(http.MethodGet, "/events", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	completed := decode(t, w)["completedEvents"].([]any)
	require.Len(t, completed, 1)
	assert.Equal(t, 0.0, completed[0].(map[string]any)["averageRating"])

	w = s.do(http.MethodPost, "/feedback/e1/submit", gin.H{"email": "asha@example.com", "rating": 3}, "")
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestAdminRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/admin/events", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/admin/events", nil, "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/admin", nil, s.token(t, domain.RoleAdmin))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/admin", nil, s.token(t, domain.RoleSuperAdmin))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Fetched admins successfully", decode(t, w)["message"])

	w = s.do(http.MethodGet, "/admin/validate", nil, s.token(t, domain.RoleAdmin))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin", decode(t, w)["role"])
}

func TestCreateAndUpdateEvent(t *testing.T) {
	s := newTestServer(t)
	tok := s.token(t, domain.RoleAdmin)

	w := s.do(http.MethodPost, "/admin/events", gin.H{"title": "Hackathon"}, tok)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/admin/events", gin.H{
		"title":       "Hackathon",
		"description": "24h build",
		"startDate":   "2025-04-01",
		"endDate":     "2025-04-02",
		"faculty":     "Dr. Rao, Dr. Iyer",
	}, tok)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decode(t, w)["eventId"].(string)
	require.NotEmpty(t, id)

	w = s.do(http.MethodPut, "/admin/events/"+id, gin.H{"title": "Hackathon 2.0", "description": ""}, tok)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode(t, w)["updatedEvent"].(map[string]any)
	assert.Equal(t, "Hackathon 2.0", updated["title"])
	assert.Equal(t, "24h build", updated["description"])
	assert.Equal(t, []any{"Dr. Rao", "Dr. Iyer"}, updated["faculty"])

	w = s.do(http.MethodPut, "/admin/events/missing", gin.H{"title": "x"}, tok)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodDelete, "/admin/events/"+id, nil, tok)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Event Deleted Successfully", decode(t, w)["message"])
}

func TestAddWinner(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, "e1", "2025-03-01")
	tok := s.token(t, domain.RoleAdmin)

	w := s.do(http.MethodPost, "/admin/events/e1/winners", gin.H{"position": "1st", "type": "Squad"}, tok)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/admin/events/e1/winners", gin.H{
		"position":   "1st",
		"type":       "Individual",
		"prizeMoney": "5000",
		"members":    []gin.H{{"name": "Asha", "collegename": "MVSR"}},
	}, tok)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	ev := decode(t, w)["event"].(map[string]any)
	winners := ev["winners"].([]any)
	require.Len(t, winners, 1)
	assert.Equal(t, "5000", winners[0].(map[string]any)["prizeMoney"])
}

func TestRequestFeedbackCountsFailures(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, "e1", "2025-03-01",
		domain.Participant{Name: "A", Email: "a@example.com"},
		domain.Participant{Name: "B", Email: "b@example.com"},
		domain.Participant{Name: "C", Email: "c@example.com"},
	)
	s.sender.fail["b@example.com"] = true

	w := s.do(http.MethodPost, "/feedback/e1/request", nil, s.token(t, domain.RoleAdmin))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	assert.Equal(t, "Feedback requests sent. Success: 2, Failed: 1", body["message"])
	assert.EqualValues(t, 2, body["sentCount"])
	assert.EqualValues(t, 1, body["errorCount"])
}

func TestRequestFeedbackWithoutParticipants(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, "e1", "2025-03-01")

	w := s.do(http.MethodPost, "/feedback/e1/request", nil, s.token(t, domain.RoleAdmin))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No participants found for this event", decode(t, w)["error"])
}

func TestExportEvent(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, "e1", "2025-03-01", domain.Participant{Name: "A", Email: "a@example.com"})

	w := s.do(http.MethodGet, "/admin/events/e1/export", nil, s.token(t, domain.RoleAdmin))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, report.ContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `attachment; filename="Event_e1_registrations_`)
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))

	w = s.do(http.MethodGet, "/admin/events/export", nil, s.token(t, domain.RoleAdmin))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "all_events_registrations_")
}

func TestRemoveParticipant(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, "e1", "2025-04-01", domain.Participant{Name: "A", Email: "a@example.com"})
	tok := s.token(t, domain.RoleAdmin)

	w := s.do(http.MethodDelete, "/admin/events/e1/participants", gin.H{"email": "A@example.com"}, tok)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Member removed successfully", decode(t, w)["message"])
	require.Len(t, s.sender.sent, 1)

	w = s.do(http.MethodDelete, "/admin/events/e1/participants", gin.H{"email": "a@example.com"}, tok)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestContactFlow(t *testing.T) {
	s := newTestServer(t)
	tok := s.token(t, domain.RoleAdmin)

	w := s.do(http.MethodPost, "/contact", gin.H{"name": "Ravi"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/contact", gin.H{"name": "Ravi", "description": "When is the next meetup?", "email": "ravi@example.com"}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "Feedback received and will expire in 5 days.", body["message"])
	id := body["contact"].(map[string]any)["id"].(string)

	w = s.do(http.MethodGet, "/admin/contacts", nil, tok)
	require.Equal(t, http.StatusOK, w.Code)
	var contacts []domain.Contact
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &contacts))
	require.Len(t, contacts, 1)

	w = s.do(http.MethodPost, "/admin/contacts/"+id+"/response", gin.H{"response": "Next Friday"}, tok)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Len(t, s.sender.sent, 1)
	assert.Equal(t, "ravi@example.com", s.sender.sent[0].To)

	w = s.do(http.MethodDelete, "/admin/contacts/"+id, nil, tok)
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(http.MethodDelete, "/admin/contacts/"+id, nil, tok)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLoginAndSignup(t *testing.T) {
	s := newTestServer(t)
	super := s.token(t, domain.RoleSuperAdmin)
	w := s.do(http.MethodPost, "/auth/signup", gin.H{"name": "Neha", "email": "Neha@Example.com", "password": "pa55word"}, super)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	admin := decode(t, w)["admin"].(map[string]any)
	assert.Equal(t, "neha@example.com", admin["email"])
	assert.NotContains(t, admin, "passwordHash")

	w = s.do(http.MethodPost, "/auth/signup", gin.H{"name": "Neha", "email": "neha@example.com", "password": "x"}, super)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/auth/signup", gin.H{"name": "Neha", "email": "not-an-email", "password": "x"}, super)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "email must be a valid email address", decode(t, w)["error"])

	w = s.do(http.MethodPost, "/auth/login", gin.H{"email": "neha@example.com", "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/auth/login", gin.H{"email": "neha@example.com", "password": "pa55word"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "admin", body["role"])
	claims, err := s.tokens.Parse(body["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/events", nil)
	req.Header.Set("Origin", "http://frontend")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
