package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/geocoder89/shopapi/internal/apperr"
	"github.com/geocoder89/shopapi/internal/config"
	"github.com/geocoder89/shopapi/internal/domain/user"
	"github.com/geocoder89/shopapi/internal/security"
	"github.com/gin-gonic/gin"
)

type TokenIssuer interface {
	GenerateAccessToken(userID int64, email, role string) (string, error)
}

type AuthObserver interface {
	ObserveLogin(result string)
	ObserveRegistration()
}

type AuthHandler struct {
	users UserStore
	jwt   TokenIssuer
	obs   AuthObserver
}

func NewAuthHandler(users UserStore, jwt TokenIssuer, obs AuthObserver) *AuthHandler {
	return &AuthHandler{
		users: users,
		jwt:   jwt,
		obs:   obs,
	}
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  user.Summary `json:"user"`
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req user.RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, security.ErrPasswordTooLong) {
			Fail(ctx, apperr.Validation("Invalid request body", gin.H{
				"fields": []FieldError{{Field: "password", Rule: "max", Param: "72", Message: "must be at most 72 bytes"}},
			}))
			return
		}
		Fail(ctx, apperr.Internal("Could not create user", err))
		return
	}

	cctx, cancel := config.WithRequestTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	u, err := h.users.Create(cctx, user.NormalizeEmail(req.Email), hash, req.Name, user.RoleUser)
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			Fail(ctx, apperr.Conflict("email_taken", "Email is already registered"))
			return
		}
		Fail(ctx, apperr.Internal("Could not create user", err))
		return
	}

	h.observeRegistration()
	ctx.JSON(http.StatusCreated, u)
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req user.LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithRequestTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	u, err := h.users.GetByEmail(cctx, user.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			// same bcrypt cost as a wrong password
			security.BurnCompare(req.Password)
			h.observeLogin("invalid_credentials")
			Fail(ctx, apperr.InvalidCredentials())
			return
		}
		h.observeLogin("error")
		Fail(ctx, apperr.Internal("Could not log in", err))
		return
	}

	if !security.CheckPassword(u.PasswordHash, req.Password) {
		h.observeLogin("invalid_credentials")
		Fail(ctx, apperr.InvalidCredentials())
		return
	}

	token, err := h.jwt.GenerateAccessToken(u.ID, u.Email, u.Role)
	if err != nil {
		h.observeLogin("error")
		Fail(ctx, apperr.Internal("Could not generate token", err))
		return
	}

	h.observeLogin("success")
	ctx.JSON(http.StatusOK, LoginResponse{
		Token: token,
		User:  u.Summary(),
	})
}

func (h *AuthHandler) observeLogin(result string) {
	if h.obs != nil {
		h.obs.ObserveLogin(result)
	}
}

func (h *AuthHandler) observeRegistration() {
	if h.obs != nil {
		h.obs.ObserveRegistration()
	}
}
