package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/geocoder89/shopapi/internal/actorctx"
	"github.com/geocoder89/shopapi/internal/apperr"
	"github.com/geocoder89/shopapi/internal/config"
	"github.com/geocoder89/shopapi/internal/domain/user"
	"github.com/gin-gonic/gin"
)

// MeHandler serves the caller's own account. The id always comes from the verified
// identity on the request context, never from the path or body.
type MeHandler struct {
	users UserStore
}

func NewMeHandler(users UserStore) *MeHandler {
	return &MeHandler{users: users}
}

func (h *MeHandler) Get(ctx *gin.Context) {
	id, ok := callerID(ctx)
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

func (h *MeHandler) Update(ctx *gin.Context) {
	id, ok := callerID(ctx)
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

func (h *MeHandler) Delete(ctx *gin.Context) {
	id, ok := callerID(ctx)
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

func callerID(ctx *gin.Context) (int64, bool) {
	identity, ok := actorctx.IdentityFrom(ctx.Request.Context())
	if !ok {
		Fail(ctx, apperr.Authentication(errors.New("no identity on request")))
		return 0, false
	}
	return identity.UserID, true
}

// userError maps repository sentinels; anything else is internal.
func userError(err error, msg string) error {
	if errors.Is(err, user.ErrNotFound) {
		return apperr.NotFound("User not found")
	}
	return apperr.Internal(msg, err)
}
