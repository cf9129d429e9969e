package handlers

import (
	"github.com/gin-gonic/gin"
)

// Fail hands err to the terminal error middleware and stops the chain.
func Fail(ctx *gin.Context, err error) {
	_ = ctx.Error(err)
	ctx.Abort()
}
