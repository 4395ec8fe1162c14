// Package client talks to the todo API over HTTP.
//
// The Client interface is what the CLI depends on; HTTPClient is the
// implementation. It keeps the bearer token returned by Login and sends it in
// the Auth header of every later request.
//
// # Error Handling
//
// Transport failures are reported as ErrUnavailable. A 401 becomes
// ErrUnauthorized and a 404 ErrNotFound. Any other non-2xx answer is an
// *APIError carrying the server's code, field and message; it matches
// common.ErrValidation and common.ErrAlreadyExists under errors.Is.
package client
