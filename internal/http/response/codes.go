package response

// Business codes mirrored in the envelope. They track the HTTP status of
// the response so API clients can branch without inspecting headers.
const (
	CodeOK              = 0
	CodeBadRequest      = 400
	CodeUnauthorized    = 401
	CodeForbidden       = 403
	CodeNotFound        = 404
	CodeTooManyRequests = 429
	CodeInternal        = 500
)
