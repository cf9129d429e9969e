package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/geocoder89/shopapi/internal/domain/user"
	"github.com/geocoder89/shopapi/internal/http/handlers"
	"github.com/gin-gonic/gin"
)

func meRouter(repo *fakeUsersRepo, mw ...gin.HandlerFunc) http.Handler {
	h := handlers.NewMeHandler(repo)

	r := newEngine(mw...)
	r.GET("/api/users/me", h.Get)
	r.PATCH("/api/users/me", h.Update)
	r.DELETE("/api/users/me", h.Delete)
	return r
}

func TestMeHandler_UsesIdentityID(t *testing.T) {
	var gotID int64

	repo := &fakeUsersRepo{
		getByIDFn: func(_ context.Context, id int64) (user.User, error) {
			gotID = id
			return user.User{ID: id, Email: "a@x.com", Name: "Ann", Role: user.RoleUser}, nil
		},
	}

	w := doJSON(meRouter(repo, asUser(42, user.RoleUser)), http.MethodGet, "/api/users/me", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}
	if gotID != 42 {
		t.Fatalf("expected lookup of 42, got %d", gotID)
	}

	var got user.User
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != 42 {
		t.Fatalf("expected id 42, got %d", got.ID)
	}
}

func TestMeHandler_NoIdentity(t *testing.T) {
	w := doJSON(meRouter(&fakeUsersRepo{}), http.MethodGet, "/api/users/me", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestMeHandler_Update(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		updateErr  error
		wantStatus int
	}{
		{"renamed", `{"name":"Anna"}`, nil, http.StatusOK},
		{"empty body keeps fields", `{}`, nil, http.StatusOK},
		{"name too short", `{"name":"A"}`, nil, http.StatusBadRequest},
		{"account gone", `{"name":"Anna"}`, user.ErrNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeUsersRepo{
				updateFn: func(_ context.Context, id int64, req user.UpdateRequest) (user.User, error) {
					if tt.updateErr != nil {
						return user.User{}, tt.updateErr
					}
					u := user.User{ID: id, Name: "Ann"}
					if req.Name != nil {
						u.Name = *req.Name
					}
					return u, nil
				},
			}

			w := doJSON(meRouter(repo, asUser(5, user.RoleUser)), http.MethodPatch, "/api/users/me", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d body=%s", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestMeHandler_Delete(t *testing.T) {
	deleted := map[int64]bool{}

	repo := &fakeUsersRepo{
		deleteFn: func(_ context.Context, id int64) error {
			if deleted[id] {
				return user.ErrNotFound
			}
			deleted[id] = true
			return nil
		},
	}

	r := meRouter(repo, asUser(9, user.RoleUser))

	if w := doJSON(r, http.MethodDelete, "/api/users/me", ""); w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if w := doJSON(r, http.MethodDelete, "/api/users/me", ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", w.Code)
	}
}
