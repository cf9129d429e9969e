package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/geocoder89/shopapi/internal/actorctx"
	"github.com/geocoder89/shopapi/internal/config"
	"github.com/geocoder89/shopapi/internal/domain/user"
	"github.com/geocoder89/shopapi/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

// Make sure Gin does not spam the console during the test
func init() {
	gin.SetMode(gin.TestMode)
}

// fakeUsersRepo implements handlers.UserStore; unset funcs return zero values.
type fakeUsersRepo struct {
	createFn     func(ctx context.Context, email, passwordHash, name, role string) (user.User, error)
	getByEmailFn func(ctx context.Context, email string) (user.User, error)
	getByIDFn    func(ctx context.Context, id int64) (user.User, error)
	listFn       func(ctx context.Context) ([]user.User, error)
	updateFn     func(ctx context.Context, id int64, req user.UpdateRequest) (user.User, error)
	deleteFn     func(ctx context.Context, id int64) error
}

func (f *fakeUsersRepo) Create(ctx context.Context, email, passwordHash, name, role string) (user.User, error) {
	if f.createFn != nil {
		return f.createFn(ctx, email, passwordHash, name, role)
	}
	return user.User{}, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	if f.getByEmailFn != nil {
		return f.getByEmailFn(ctx, email)
	}
	return user.User{}, user.ErrNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id int64) (user.User, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return user.User{}, user.ErrNotFound
}

func (f *fakeUsersRepo) List(ctx context.Context) ([]user.User, error) {
	if f.listFn != nil {
		return f.listFn(ctx)
	}
	return []user.User{}, nil
}

func (f *fakeUsersRepo) Update(ctx context.Context, id int64, req user.UpdateRequest) (user.User, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, id, req)
	}
	return user.User{}, user.ErrNotFound
}

func (f *fakeUsersRepo) Delete(ctx context.Context, id int64) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

type errorResponse struct {
	Error struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

// newEngine mounts the error middleware the router installs first, plus any extra middleware.
func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(middlewares.ErrorHandler(slog.New(slog.NewJSONHandler(io.Discard, nil)), config.EnvTest))
	r.Use(mw...)
	return r
}

// asUser attaches an identity the way the access gate does.
func asUser(id int64, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(actorctx.WithIdentity(c.Request.Context(), actorctx.Identity{
			UserID: id,
			Email:  "u@x.com",
			Role:   role,
		}))
		c.Next()
	}
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var rdr io.Reader
	if body != "" {
		rdr = bytes.NewBufferString(body)
	}

	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorResponse {
	t.Helper()

	var resp errorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal error response: %v body=%s", err, w.Body.String())
	}
	return resp
}
