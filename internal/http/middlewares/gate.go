package middlewares

import (
	"net/http"
	"strings"
)

type Access int

const (
	AccessPublic Access = iota
	AccessProtected
	AccessAdmin
)

func (a Access) String() string {
	switch a {
	case AccessPublic:
		return "public"
	case AccessAdmin:
		return "admin"
	default:
		return "protected"
	}
}

const (
	adminPrefix = "/api/admin"
	docsPrefix  = "/api-docs/"
)

// publicRoutes are matched exactly. A nil method list means any method.
var publicRoutes = map[string][]string{
	"/":                  nil,
	"/api":               nil,
	"/api/users":         nil,
	"/api/auth/login":    nil,
	"/api/auth/register": {http.MethodPost},
	"/api-docs":          nil,
	"/api-docs.json":     nil,
	"/healthz":           nil,
	"/readyz":            nil,
	"/metrics":           nil,
}

// Classify decides the access level of a request. Anything not explicitly public is protected.
func Classify(method, path string) Access {
	if isPublic(method, path) {
		return AccessPublic
	}

	if path == adminPrefix || strings.HasPrefix(path, adminPrefix+"/") {
		return AccessAdmin
	}

	return AccessProtected
}

func isPublic(method, path string) bool {
	if methods, ok := publicRoutes[path]; ok {
		if methods == nil {
			return true
		}
		for _, m := range methods {
			if m == method {
				return true
			}
		}
		return false
	}

	// swagger ui assets
	return strings.HasPrefix(path, docsPrefix)
}
