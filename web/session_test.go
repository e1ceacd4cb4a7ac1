package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSessionReuse(t *testing.T) {
	store := newSessionStore(time.Hour)

	w := httptest.NewRecorder()
	s1 := store.get(w, httptest.NewRequest(http.MethodGet, "/", nil))
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != sessionCookie {
		t.Fatalf("Expected a session cookie but got %v.", cookies)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	s2 := store.get(w, req)
	if s1 != s2 {
		t.Fatalf("Expected the same session for the same cookie.")
	}
	if len(w.Result().Cookies()) != 0 {
		t.Fatalf("Expected no new cookie for an existing session.")
	}
	if store.lookup(req) != s1 {
		t.Fatalf("Expected lookup to find the session.")
	}
}

func TestSessionExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store := newSessionStore(time.Hour)
	store.now = func() time.Time { return now }

	w := httptest.NewRecorder()
	s1 := store.get(w, httptest.NewRequest(http.MethodGet, "/", nil))
	s1.setStructure(&structureState{Identifier: "Q8N6V4"})
	cookie := w.Result().Cookies()[0]

	now = now.Add(59 * time.Minute)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	if s := store.lookup(req); s != s1 || s.getStructure() == nil {
		t.Fatalf("Expected the session to survive 59 idle minutes.")
	}

	now = now.Add(61 * time.Minute)
	if store.lookup(req) != nil {
		t.Fatalf("Expected the session to expire after 61 idle minutes.")
	}
	if store.len() != 0 {
		t.Fatalf("Expected no sessions left but got %d.", store.len())
	}

	s2 := store.get(httptest.NewRecorder(), req)
	if s2 == s1 || s2.getStructure() != nil {
		t.Fatalf("Expected a fresh session after expiry.")
	}
}
