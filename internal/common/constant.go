package common

const (
	// TokenBodyField is the JSON body field that may carry a session token.
	TokenBodyField = "token"

	// TokenHeaderName is the request header that may carry a session token.
	TokenHeaderName = "auth-token"
)
