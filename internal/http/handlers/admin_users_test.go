package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/geocoder89/shopapi/internal/domain/user"
	"github.com/geocoder89/shopapi/internal/http/handlers"
)

func adminRouter(repo *fakeUsersRepo) http.Handler {
	h := handlers.NewAdminUsersHandler(repo)

	r := newEngine(asUser(1, user.RoleAdmin))
	r.GET("/api/admin/users", h.List)
	r.GET("/api/admin/users/:id", h.Get)
	r.PATCH("/api/admin/users/:id", h.Update)
	r.DELETE("/api/admin/users/:id", h.Delete)
	return r
}

func TestAdminUsers_List(t *testing.T) {
	repo := &fakeUsersRepo{
		listFn: func(context.Context) ([]user.User, error) {
			return []user.User{
				{ID: 1, Email: "admin@x.com", Role: user.RoleAdmin, PasswordHash: "h1"},
				{ID: 2, Email: "a@x.com", Role: user.RoleUser, PasswordHash: "h2"},
			}, nil
		},
	}

	w := doJSON(adminRouter(repo), http.MethodGet, "/api/admin/users", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var got []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 users, got %d", len(got))
	}
	if strings.Contains(w.Body.String(), "password") || strings.Contains(w.Body.String(), "h1") {
		t.Fatalf("list leaked password hashes: %s", w.Body.String())
	}
}

func TestAdminUsers_List_StoreError(t *testing.T) {
	repo := &fakeUsersRepo{
		listFn: func(context.Context) ([]user.User, error) { return nil, errors.New("boom") },
	}

	if w := doJSON(adminRouter(repo), http.MethodGet, "/api/admin/users", ""); w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestAdminUsers_InvalidID(t *testing.T) {
	called := false
	repo := &fakeUsersRepo{
		getByIDFn: func(context.Context, int64) (user.User, error) {
			called = true
			return user.User{}, nil
		},
	}

	r := adminRouter(repo)

	for _, id := range []string{"abc", "0", "-3", "1.5", "99999999999999999999"} {
		w := doJSON(r, http.MethodGet, "/api/admin/users/"+id, "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("id %q: expected 400, got %d", id, w.Code)
		}
		if code := decodeError(t, w).Error.Code; code != "invalid_request" {
			t.Fatalf("id %q: expected invalid_request, got %q", id, code)
		}
	}

	if called {
		t.Fatalf("store must not be queried with an invalid id")
	}
}

func TestAdminUsers_GetUpdateDelete(t *testing.T) {
	repo := &fakeUsersRepo{
		getByIDFn: func(_ context.Context, id int64) (user.User, error) {
			if id == 2 {
				return user.User{ID: 2, Name: "Bob"}, nil
			}
			return user.User{}, user.ErrNotFound
		},
		updateFn: func(_ context.Context, id int64, req user.UpdateRequest) (user.User, error) {
			if id != 2 {
				return user.User{}, user.ErrNotFound
			}
			return user.User{ID: 2, Name: *req.Name}, nil
		},
		deleteFn: func(_ context.Context, id int64) error {
			if id != 2 {
				return user.ErrNotFound
			}
			return nil
		},
	}

	r := adminRouter(repo)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"get existing", http.MethodGet, "/api/admin/users/2", "", http.StatusOK},
		{"get missing", http.MethodGet, "/api/admin/users/3", "", http.StatusNotFound},
		{"update existing", http.MethodPatch, "/api/admin/users/2", `{"name":"Robert"}`, http.StatusOK},
		{"update missing", http.MethodPatch, "/api/admin/users/3", `{"name":"Robert"}`, http.StatusNotFound},
		{"delete existing", http.MethodDelete, "/api/admin/users/2", "", http.StatusNoContent},
		{"delete missing", http.MethodDelete, "/api/admin/users/3", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, tt.method, tt.path, tt.body)
			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d body=%s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}
