package handler

import (
	"net/http"
	"testing"
)

type profileEnvelope struct {
	Profile profileJSON `json:"profile"`
}

func TestProfileFollowFlow(t *testing.T) {
	ts := newTestServer(t)
	alice := registerUser(t, ts, "alice")
	registerUser(t, ts, "bob")

	var followed profileEnvelope
	if status := call(t, ts, http.MethodPost, "/api/profiles/bob/follow", alice, nil, &followed); status != http.StatusOK {
		t.Fatalf("follow status = %d", status)
	}
	if !followed.Profile.Following {
		t.Errorf("expected following true")
	}

	var asAlice, anon profileEnvelope
	call(t, ts, http.MethodGet, "/api/profiles/bob", alice, nil, &asAlice)
	call(t, ts, http.MethodGet, "/api/profiles/bob", "", nil, &anon)
	if !asAlice.Profile.Following {
		t.Errorf("alice should see following true")
	}
	if anon.Profile.Following {
		t.Errorf("anonymous caller should see following false")
	}

	var unfollowed profileEnvelope
	if status := call(t, ts, http.MethodDelete, "/api/profiles/bob/follow", alice, nil, &unfollowed); status != http.StatusOK {
		t.Fatalf("unfollow status = %d", status)
	}
	if unfollowed.Profile.Following {
		t.Errorf("expected following false")
	}

	if status := call(t, ts, http.MethodPost, "/api/profiles/bob/follow", "", nil, nil); status != http.StatusUnauthorized {
		t.Errorf("anonymous follow status = %d", status)
	}
	if status := call(t, ts, http.MethodGet, "/api/profiles/ghost", "", nil, nil); status != http.StatusNotFound {
		t.Errorf("unknown profile status = %d", status)
	}
}

func TestPublicRouteIgnoresBadToken(t *testing.T) {
	ts := newTestServer(t)
	registerUser(t, ts, "bob")

	var out profileEnvelope
	if status := call(t, ts, http.MethodGet, "/api/profiles/bob", "garbage", nil, &out); status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if out.Profile.Username != "bob" || out.Profile.Following {
		t.Errorf("unexpected profile %+v", out.Profile)
	}
}
