package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gpascual/shotbypascual/internal/config"
	"github.com/gpascual/shotbypascual/internal/mailer"
	"github.com/gpascual/shotbypascual/internal/models"
	"github.com/gpascual/shotbypascual/internal/ratelimit"
	"github.com/gpascual/shotbypascual/internal/repository/mock"
)

// fakeDispatcher records sent messages and can fail a specific send.
type fakeDispatcher struct {
	sent []*mailer.Message

	// failOn matches against the message subject prefix; when it matches,
	// Send returns failErr.
	failOn  string
	failErr error
}

func (f *fakeDispatcher) Send(ctx context.Context, msg *mailer.Message) error {
	if f.failOn != "" && strings.HasPrefix(msg.Subject, f.failOn) {
		return f.failErr
	}
	f.sent = append(f.sent, msg)
	return nil
}

func testComposer() *mailer.Composer {
	return &mailer.Composer{
		From:         "ShotByPascual <noreply@shotbypascual.com>",
		OwnerEmail:   "gabepmedia@gmail.com",
		SiteURL:      "https://shotbypascual.com",
		PortfolioURL: "https://shotbypascual.com/portfolio",
		InstagramURL: "https://instagram.com/shotbypascual",
	}
}

func testConfig() *config.Config {
	return &config.Config{
		TrustProxyHeaders: "false",
		RateLimitMessages: 10,
	}
}

func newContactHandler(repo *mock.RateLimitRepository, health *mock.HealthRepository, dispatcher mailer.Dispatcher, failOpen bool) http.HandlerFunc {
	limiter := ratelimit.New(repo, 10, 30*24*time.Hour, failOpen)
	return ContactHandler(testConfig(), health, limiter, testComposer(), dispatcher)
}

func postContact(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	req.RemoteAddr = "203.0.113.7:51000"
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp models.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return resp.Error
}

const validBody = `{"name":"Alice","email":"alice@example.com","message":"Love your work"}`

func TestContactHandler_GetLiveness(t *testing.T) {
	repo := mock.NewRateLimitRepository()
	dispatcher := &fakeDispatcher{}
	handler := newContactHandler(repo, &mock.HealthRepository{}, dispatcher, true)

	req := httptest.NewRequest(http.MethodGet, "/api/contact", nil)
	rr := httptest.NewRecorder()
	handler(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusOK)
	}

	var resp models.StatusResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Message != "Contact API is running." {
		t.Errorf("message = %q, want %q", resp.Message, "Contact API is running.")
	}

	// Liveness must not touch the store or send mail
	if repo.CheckAndRecordCallCount() != 0 {
		t.Error("GET should not consume rate limit")
	}
	if len(dispatcher.sent) != 0 {
		t.Error("GET should not send email")
	}
}

func TestContactHandler_MethodNotAllowed(t *testing.T) {
	handler := newContactHandler(mock.NewRateLimitRepository(), &mock.HealthRepository{}, &fakeDispatcher{}, true)

	for _, method := range []string{http.MethodPut, http.MethodDelete, http.MethodPatch} {
		req := httptest.NewRequest(method, "/api/contact", nil)
		rr := httptest.NewRecorder()
		handler(rr, req)

		if rr.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s: status = %d, want %d", method, rr.Code, http.StatusMethodNotAllowed)
		}
		if got := decodeError(t, rr); got != "Method not allowed" {
			t.Errorf("%s: error = %q, want %q", method, got, "Method not allowed")
		}
	}
}

func TestContactHandler_StoreUnreachable(t *testing.T) {
	repo := mock.NewRateLimitRepository()
	health := &mock.HealthRepository{PingError: errors.New("connection refused")}
	dispatcher := &fakeDispatcher{}
	handler := newContactHandler(repo, health, dispatcher, true)

	rr := postContact(t, handler, validBody)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
	if got := decodeError(t, rr); got != "Database connection failed" {
		t.Errorf("error = %q, want %q", got, "Database connection failed")
	}
	if repo.CheckAndRecordCallCount() != 0 {
		t.Error("submission should not reach the rate limiter when the store ping fails")
	}
	if len(dispatcher.sent) != 0 {
		t.Error("no email should be sent")
	}
}

func TestContactHandler_Success(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	handler := newContactHandler(mock.NewRateLimitRepository(), &mock.HealthRepository{}, dispatcher, true)

	rr := postContact(t, handler, validBody)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp models.SubmitResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.OK {
		t.Error("ok = false, want true")
	}

	if len(dispatcher.sent) != 2 {
		t.Fatalf("sent %d emails, want 2", len(dispatcher.sent))
	}

	owner := dispatcher.sent[0]
	if owner.To != "gabepmedia@gmail.com" {
		t.Errorf("owner notification To = %q, want owner address", owner.To)
	}
	if owner.Subject != "New inquiry from Alice" {
		t.Errorf("owner subject = %q, unexpected", owner.Subject)
	}
	if owner.ReplyTo != "Alice <alice@example.com>" {
		t.Errorf("owner Reply-To = %q, unexpected", owner.ReplyTo)
	}

	reply := dispatcher.sent[1]
	if reply.To != "alice@example.com" {
		t.Errorf("auto-reply To = %q, want submitter address", reply.To)
	}
	if !strings.Contains(reply.HTML, "Alice") {
		t.Error("auto-reply should be personalized with the submitter's name")
	}
}

func TestContactHandler_InvalidJSON(t *testing.T) {
	repo := mock.NewRateLimitRepository()
	dispatcher := &fakeDispatcher{}
	handler := newContactHandler(repo, &mock.HealthRepository{}, dispatcher, true)

	rr := postContact(t, handler, `{"name": "Alice", bad`)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if got := decodeError(t, rr); got != "Invalid JSON" {
		t.Errorf("error = %q, want %q", got, "Invalid JSON")
	}

	// Rate limit is consumed before the body is read
	if repo.CheckAndRecordCallCount() != 1 {
		t.Error("rate limit should be consumed before body parsing")
	}
	if len(dispatcher.sent) != 0 {
		t.Error("no email should be sent for invalid JSON")
	}
}

func TestContactHandler_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"EmptyName", `{"name":"","email":"a@example.com","message":"hi"}`},
		{"EmptyEmail", `{"name":"Alice","email":"","message":"hi"}`},
		{"EmptyMessage", `{"name":"Alice","email":"a@example.com","message":""}`},
		{"AbsentFields", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dispatcher := &fakeDispatcher{}
			handler := newContactHandler(mock.NewRateLimitRepository(), &mock.HealthRepository{}, dispatcher, true)

			rr := postContact(t, handler, tt.body)

			if rr.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rr.Code, http.StatusBadRequest)
			}
			if got := decodeError(t, rr); got != "Missing fields" {
				t.Errorf("error = %q, want %q", got, "Missing fields")
			}
			if len(dispatcher.sent) != 0 {
				t.Error("no email should be sent")
			}
		})
	}
}

func TestContactHandler_RateLimitExceeded(t *testing.T) {
	repo := mock.NewRateLimitRepository()
	dispatcher := &fakeDispatcher{}
	handler := newContactHandler(repo, &mock.HealthRepository{}, dispatcher, true)

	for i := 0; i < 10; i++ {
		rr := postContact(t, handler, validBody)
		if rr.Code != http.StatusOK {
			t.Fatalf("submission %d: status = %d, want 200", i+1, rr.Code)
		}
	}

	rr := postContact(t, handler, validBody)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("11th submission: status = %d, want %d", rr.Code, http.StatusTooManyRequests)
	}
	if got := decodeError(t, rr); got != "Monthly message limit reached. Please try again next month." {
		t.Errorf("error = %q, unexpected", got)
	}
	if len(dispatcher.sent) != 20 {
		t.Errorf("sent %d emails, want 20 (rejected submission must not email)", len(dispatcher.sent))
	}
}

func TestContactHandler_RateLimitFailOpen(t *testing.T) {
	repo := mock.NewRateLimitRepository()
	repo.CheckAndRecordError = errors.New("store down")
	dispatcher := &fakeDispatcher{}
	handler := newContactHandler(repo, &mock.HealthRepository{}, dispatcher, true)

	rr := postContact(t, handler, validBody)

	if rr.Code != http.StatusOK {
		t.Errorf("fail-open submission: status = %d, want 200 (body: %s)", rr.Code, rr.Body.String())
	}
	if len(dispatcher.sent) != 2 {
		t.Errorf("sent %d emails, want 2", len(dispatcher.sent))
	}
}

func TestContactHandler_RateLimitFailClosed(t *testing.T) {
	repo := mock.NewRateLimitRepository()
	repo.CheckAndRecordError = errors.New("store down")
	dispatcher := &fakeDispatcher{}
	handler := newContactHandler(repo, &mock.HealthRepository{}, dispatcher, false)

	rr := postContact(t, handler, validBody)

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("fail-closed submission: status = %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
	if len(dispatcher.sent) != 0 {
		t.Error("no email should be sent when the limiter fails closed")
	}
}

func TestContactHandler_OwnerEmailFails(t *testing.T) {
	dispatcher := &fakeDispatcher{
		failOn:  "New inquiry",
		failErr: &mailer.ProviderError{Message: "Invalid 'from' address"},
	}
	handler := newContactHandler(mock.NewRateLimitRepository(), &mock.HealthRepository{}, dispatcher, true)

	rr := postContact(t, handler, validBody)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
	// Provider message surfaces verbatim
	if got := decodeError(t, rr); got != "Invalid 'from' address" {
		t.Errorf("error = %q, want provider message", got)
	}
	// Auto-reply must not be attempted after the owner send fails
	if len(dispatcher.sent) != 0 {
		t.Errorf("sent %d emails, want 0", len(dispatcher.sent))
	}
}

func TestContactHandler_AutoReplyFails(t *testing.T) {
	dispatcher := &fakeDispatcher{
		failOn:  "Thank you",
		failErr: &mailer.ProviderError{Message: "Rate limit exceeded on provider"},
	}
	handler := newContactHandler(mock.NewRateLimitRepository(), &mock.HealthRepository{}, dispatcher, true)

	rr := postContact(t, handler, validBody)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
	if got := decodeError(t, rr); got != "Rate limit exceeded on provider" {
		t.Errorf("error = %q, want provider message", got)
	}
	// Owner notification went out before the auto-reply failed
	if len(dispatcher.sent) != 1 {
		t.Errorf("sent %d emails, want 1 (owner only)", len(dispatcher.sent))
	}
}

func TestContactHandler_TransportErrorGetsGenericMessage(t *testing.T) {
	dispatcher := &fakeDispatcher{
		failOn:  "New inquiry",
		failErr: errors.New("dial tcp: connection refused"),
	}
	handler := newContactHandler(mock.NewRateLimitRepository(), &mock.HealthRepository{}, dispatcher, true)

	rr := postContact(t, handler, validBody)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
	if got := decodeError(t, rr); got != "Failed to send email" {
		t.Errorf("error = %q, want generic message", got)
	}
}

func TestContactHandler_QuotaNotRefundedOnEmailFailure(t *testing.T) {
	repo := mock.NewRateLimitRepository()
	dispatcher := &fakeDispatcher{
		failOn:  "New inquiry",
		failErr: &mailer.ProviderError{Message: "boom"},
	}
	handler := newContactHandler(repo, &mock.HealthRepository{}, dispatcher, true)

	postContact(t, handler, validBody)

	record, err := repo.GetRecord(context.Background(), "203.0.113.7")
	if err != nil {
		t.Fatalf("GetRecord failed: %v", err)
	}
	if record == nil || record.Count != 1 {
		t.Error("failed email should still consume a quota slot")
	}
}

func TestContactHandler_ClientsTrackedSeparately(t *testing.T) {
	repo := mock.NewRateLimitRepository()
	dispatcher := &fakeDispatcher{}
	handler := newContactHandler(repo, &mock.HealthRepository{}, dispatcher, true)

	for i := 0; i < 10; i++ {
		postContact(t, handler, validBody)
	}

	// A different client is unaffected by the first client's exhausted quota
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(validBody))
	req.RemoteAddr = "198.51.100.9:40000"
	rr := httptest.NewRecorder()
	handler(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("second client: status = %d, want 200", rr.Code)
	}
}
