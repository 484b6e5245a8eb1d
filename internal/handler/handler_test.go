package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/conduit/conduit-api/internal/config"
	"github.com/conduit/conduit-api/internal/repository"
	"github.com/conduit/conduit-api/internal/service"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := &config.Config{
		DBDriver:   config.DriverSQLite,
		DBConn:     fmt.Sprintf("file:http_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_")),
		JWTSecret:  "test-secret",
		JWTTTL:     time.Hour,
		BcryptCost: bcrypt.MinCost,
	}
	db, err := repository.OpenDB(context.Background(), cfg)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	log := logrus.New()
	log.SetOutput(io.Discard)

	svc := service.NewService(repository.NewRepository(db), log, cfg)
	ts := httptest.NewServer(NewHandler(svc, log).Router())
	t.Cleanup(func() {
		ts.Close()
		db.Close()
	})
	return ts
}

// call sends body as JSON with an optional token and decodes the response into out
func call(t *testing.T, ts *httptest.Server, method, path, token string, body any, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s response: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

type userEnvelope struct {
	User struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Bio      string `json:"bio"`
		Image    string `json:"image"`
		Token    string `json:"token"`
	} `json:"user"`
}

type errorEnvelope struct {
	Errors struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	} `json:"errors"`
}

type profileJSON struct {
	Username  string `json:"username"`
	Following bool   `json:"following"`
}

type articleJSON struct {
	Slug           string      `json:"slug"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Body           string      `json:"body"`
	TagList        []string    `json:"tagList"`
	Favorited      bool        `json:"favorited"`
	FavoritesCount int         `json:"favoritesCount"`
	Author         profileJSON `json:"author"`
}

type articleEnvelope struct {
	Article articleJSON `json:"article"`
}

type articlesEnvelope struct {
	Articles      []articleJSON `json:"articles"`
	ArticlesCount int           `json:"articlesCount"`
}

func registerUser(t *testing.T, ts *httptest.Server, username string) string {
	t.Helper()
	var out userEnvelope
	status := call(t, ts, http.MethodPost, "/api/users", "", map[string]any{
		"user": map[string]string{
			"username": username,
			"email":    username + "@example.com",
			"password": "password",
		},
	}, &out)
	if status != http.StatusCreated {
		t.Fatalf("register %s: status %d", username, status)
	}
	return out.User.Token
}

func createArticle(t *testing.T, ts *httptest.Server, token, title string, tags ...string) articleJSON {
	t.Helper()
	if tags == nil {
		tags = []string{}
	}
	var out articleEnvelope
	status := call(t, ts, http.MethodPost, "/api/articles", token, map[string]any{
		"article": map[string]any{
			"title":       title,
			"description": "about " + title,
			"body":        "body of " + title,
			"tagList":     tags,
		},
	}, &out)
	if status != http.StatusCreated {
		t.Fatalf("create article %q: status %d", title, status)
	}
	return out.Article
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	var out map[string]string
	if status := call(t, ts, http.MethodGet, "/api/healthz", "", nil, &out); status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if out["status"] != "ok" {
		t.Errorf("unexpected body %v", out)
	}
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t)
	var out errorEnvelope
	if status := call(t, ts, http.MethodGet, "/api/nope", "", nil, &out); status != http.StatusNotFound {
		t.Fatalf("status = %d", status)
	}
	if out.Errors.Kind != "NotFound" {
		t.Errorf("unexpected error %+v", out)
	}
}
