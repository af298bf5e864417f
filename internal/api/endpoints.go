// Package api provides the Lumina service API client implementation.
package api

// Service endpoint paths, relative to the configured base URL.
const (
	PathToken    = "/token"
	PathRegister = "/register"
	PathMe       = "/users/me"
	PathProfile  = "/users/me/profile"
	PathChats    = "/chats"
	PathChat     = "/chat"
)

// GJSON paths for probing error payloads. The service emits two detail
// shapes: {"detail": "..."} and {"detail": [{loc, msg, type}, ...]}.
const (
	PathDetail         = "detail"
	PathDetailFirstMsg = "detail.0.msg"
)

// authExemptPaths are the endpoints whose 401 responses mean "these
// credentials are wrong", not "your session expired". The gateway never
// clears the store or navigates for them.
var authExemptPaths = map[string]bool{
	PathToken:    true,
	PathRegister: true,
}
