package middlewares

const (
	CtxRequestID = "request_id"
)

const requestIDHeader = "X-Request-Id"
