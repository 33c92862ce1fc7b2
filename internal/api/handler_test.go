package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/ashureev/wattwise/internal/domain"
	"github.com/ashureev/wattwise/internal/store"
)

type stubRepo struct {
	store.Repository
	profile *domain.Profile
	err     error
}

func (s *stubRepo) GetProfile(_ context.Context, _ string) (*domain.Profile, error) {
	return s.profile, s.err
}

func TestVersion(t *testing.T) {
	h := NewHandler(&stubRepo{}, "1.2.3")

	rec := httptest.NewRecorder()
	h.Version(rec, httptest.NewRequest("GET", "/api/version", nil))

	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["version"] != "1.2.3" {
		t.Errorf("version = %q", body["version"])
	}
}

func TestProfile(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		h := NewHandler(&stubRepo{profile: &domain.Profile{UserID: "u1", City: "almaty"}}, "dev")

		rec := httptest.NewRecorder()
		h.Profile(rec, httptest.NewRequest("GET", "/api/profile?user_id=u1", nil))

		if rec.Code != 200 {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
		}
		var p domain.Profile
		if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if p.City != "almaty" {
			t.Errorf("city = %q", p.City)
		}
	})

	t.Run("missing user_id", func(t *testing.T) {
		h := NewHandler(&stubRepo{}, "dev")
		rec := httptest.NewRecorder()
		h.Profile(rec, httptest.NewRequest("GET", "/api/profile", nil))
		if rec.Code != 400 {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		h := NewHandler(&stubRepo{}, "dev")
		rec := httptest.NewRecorder()
		h.Profile(rec, httptest.NewRequest("GET", "/api/profile?user_id=ghost", nil))
		if rec.Code != 404 {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("store failure", func(t *testing.T) {
		h := NewHandler(&stubRepo{err: errors.New("boom")}, "dev")
		rec := httptest.NewRecorder()
		h.Profile(rec, httptest.NewRequest("GET", "/api/profile?user_id=u1", nil))
		if rec.Code != 500 {
			t.Errorf("status = %d, want 500", rec.Code)
		}
	})
}
