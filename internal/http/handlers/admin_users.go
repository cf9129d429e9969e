package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/geocoder89/shopapi/internal/apperr"
	"github.com/geocoder89/shopapi/internal/config"
	"github.com/geocoder89/shopapi/internal/domain/user"
	"github.com/gin-gonic/gin"
)

type AdminUsersHandler struct {
	users UserStore
}

func NewAdminUsersHandler(users UserStore) *AdminUsersHandler {
	return &AdminUsersHandler{users: users}
}

func (h *AdminUsersHandler) List(ctx *gin.Context) {
	cctx, cancel := config.WithRequestTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	users, err := h.users.List(cctx)
	if err != nil {
		Fail(ctx, apperr.Internal("Could not list users", err))
		return
	}

	ctx.JSON(http.StatusOK, users)
}

func (h *AdminUsersHandler) Get(ctx *gin.Context) {
	id, ok := parseUserID(ctx)
	if !ok {
		return
	}

	cctx, cancel := config.WithRequestTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	u, err := h.users.GetByID(cctx, id)
	if err != nil {
		Fail(ctx, userError(err, "Could not fetch user"))
		return
	}

	ctx.JSON(http.StatusOK, u)
}

func (h *AdminUsersHandler) Update(ctx *gin.Context) {
	id, ok := parseUserID(ctx)
	if !ok {
		return
	}

	var req user.UpdateRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithRequestTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	u, err := h.users.Update(cctx, id, req)
	if err != nil {
		Fail(ctx, userError(err, "Could not update user"))
		return
	}

	ctx.JSON(http.StatusOK, u)
}

func (h *AdminUsersHandler) Delete(ctx *gin.Context) {
	id, ok := parseUserID(ctx)
	if !ok {
		return
	}

	cctx, cancel := config.WithRequestTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.users.Delete(cctx, id); err != nil {
		Fail(ctx, userError(err, "Could not delete user"))
		return
	}

	ctx.Status(http.StatusNoContent)
}

func parseUserID(ctx *gin.Context) (int64, bool) {
	raw := ctx.Param("id")

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		Fail(ctx, apperr.Validation("Invalid user id", gin.H{
			"fields": []FieldError{{Field: "id", Rule: "positive_integer", Message: "must be a positive integer"}},
		}))
		return 0, false
	}

	return id, true
}
