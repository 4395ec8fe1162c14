package common

// AuthHeaderName is the HTTP header carrying the bearer token, both on the
// login response and on authenticated requests.
const AuthHeaderName = "Auth"

// PurposeAuthentication is the only token purpose issued by the server.
const PurposeAuthentication = "authentication"
