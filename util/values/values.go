package values

// Response status strings returned in ServerResponse bodies. Mapped to
// HTTP status codes by util.StatusCode.
const (
	Success        = "success"
	Created        = "created"
	Error          = "error"
	BadRequestBody = "bad-request"
	Unprocessable  = "unprocessable"
	NotAllowed     = "not-allowed"
	Conflict       = "conflict"
	NotFound       = "not-found"
	NotAuthorised  = "not-authorised"
	TokenExpired   = "token-expired"
	ActiveLogin    = "active-login"
)

const (
	HeaderRequestID     = "X-Request-ID"
	HeaderRequestSource = "X-Request-Source"
)

type contextKey string

// ContextTracingKey carries the tracing.Context through a request.
const ContextTracingKey = contextKey("tracing-context")
