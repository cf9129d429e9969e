package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	apiName    = "Shop Backend API"
	apiVersion = "1.0.0"
)

type IndexHandler struct{}

func NewIndexHandler() *IndexHandler {
	return &IndexHandler{}
}

func (h *IndexHandler) Root(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": "Server is running"})
}

func (h *IndexHandler) API(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"api":     apiName,
		"version": apiVersion,
		"docs":    "/api-docs",
		"paths": gin.H{
			"auth":  "/api/auth",
			"users": "/api/users",
			"admin": "/api/admin/users",
		},
	})
}

func (h *IndexHandler) Users(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"description": "Current user profile. Requires Authorization: Bearer <token>.",
		"me":          "/api/users/me",
		"methods":     []string{"GET", "PATCH", "DELETE"},
	})
}
