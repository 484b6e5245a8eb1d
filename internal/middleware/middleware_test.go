package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/conduit/conduit-api/internal/models"
	"github.com/sirupsen/logrus"
)

var errUnauthorized = errors.New("unauthorized")

// stubAuth accepts exactly one header value
type stubAuth struct {
	header string
	user   *models.AuthUser
}

func (s stubAuth) Authenticate(_ context.Context, header string, requiresIdentity bool) (*models.AuthUser, error) {
	if header == s.header {
		return s.user, nil
	}
	if requiresIdentity {
		return nil, errUnauthorized
	}
	return nil, nil
}

func writeStatus(w http.ResponseWriter, _ *http.Request, err error) {
	if errors.Is(err, errUnauthorized) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	w.WriteHeader(http.StatusInternalServerError)
}

func TestGuard(t *testing.T) {
	auth := stubAuth{header: "Token good", user: &models.AuthUser{ID: 7, Username: "alice"}}

	tests := []struct {
		name       string
		required   bool
		header     string
		wantStatus int
		wantUser   string
	}{
		{"public anonymous", false, "", http.StatusOK, ""},
		{"public bad token", false, "Token bad", http.StatusOK, ""},
		{"public good token", false, "Token good", http.StatusOK, "alice"},
		{"required anonymous", true, "", http.StatusUnauthorized, ""},
		{"required bad token", true, "Token bad", http.StatusUnauthorized, ""},
		{"required good token", true, "Token good", http.StatusOK, "alice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen *models.AuthUser
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				seen = UserFromContext(r.Context())
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			Guard(auth, tt.required, writeStatus)(next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if called != (tt.wantStatus == http.StatusOK) {
				t.Fatalf("next called = %v", called)
			}
			got := ""
			if seen != nil {
				got = seen.Username
			}
			if got != tt.wantUser {
				t.Fatalf("identity = %q, want %q", got, tt.wantUser)
			}
		})
	}
}

func TestUserFromContextEmpty(t *testing.T) {
	if u := UserFromContext(context.Background()); u != nil {
		t.Fatalf("expected nil identity, got %+v", u)
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetFormatter(&logrus.JSONFormatter{})

	var seenID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = RequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/tags", nil)
	rec := httptest.NewRecorder()
	RequestLogger(log)(next).ServeHTTP(rec, req)

	if seenID == "" || rec.Header().Get("X-Request-Id") != seenID {
		t.Fatalf("request id not propagated: ctx=%q header=%q", seenID, rec.Header().Get("X-Request-Id"))
	}
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log entry: %v", err)
	}
	if entry["status"] != float64(http.StatusTeapot) || entry["path"] != "/api/tags" || entry["request_id"] != seenID {
		t.Errorf("unexpected log entry %v", entry)
	}
}

func TestRequestLoggerKeepsIncomingID(t *testing.T) {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "abc")
	rec := httptest.NewRecorder()
	RequestLogger(log)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-Id"); got != "abc" {
		t.Fatalf("X-Request-Id = %q", got)
	}
}

func TestRecoverer(t *testing.T) {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})

	panicky := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
	rec := httptest.NewRecorder()
	Recoverer(log)(panicky).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["errors"]["kind"] != "InternalError" {
		t.Errorf("unexpected body %v", body)
	}
}
