package handlers

import (
	_ "embed"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//go:embed openapi.json
var openAPIDoc []byte

const openAPIPath = "/api-docs.json"

type DocsHandler struct {
	doc  []byte
	etag string
	ui   gin.HandlerFunc
}

// NewDocsHandler fails only if the embedded document is not valid JSON.
func NewDocsHandler() (*DocsHandler, error) {
	if !json.Valid(openAPIDoc) {
		return nil, errors.New("embedded openapi.json is not valid JSON")
	}

	return &DocsHandler{
		doc:  openAPIDoc,
		etag: contentETag(openAPIDoc),
		ui:   ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL(openAPIPath)),
	}, nil
}

func (h *DocsHandler) OpenAPI(ctx *gin.Context) {
	serveCachedJSON(ctx, h.doc, h.etag)
}

func (h *DocsHandler) UI(ctx *gin.Context) {
	h.ui(ctx)
}

func (h *DocsHandler) Redirect(ctx *gin.Context) {
	ctx.Redirect(http.StatusMovedPermanently, "/api-docs/index.html")
}
