package client

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/todoapi/internal/common"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = common.ErrUnauthorized
	ErrNotFound     = common.ErrNotFound
)

// Codes the server puts in JSON error bodies.
const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeAlreadyExists = "ALREADY_EXISTS"
	CodeInternal      = "INTERNAL_ERROR"
)

// APIError is a non-2xx response other than 401 and 404.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	s := fmt.Sprintf("server returned %d", e.Status)
	if e.Code != "" {
		s += " " + e.Code
	}
	if e.Field != "" {
		s += ": " + e.Field
		if e.Message != "" {
			s += " " + e.Message
		}
	}
	return s
}

func (e *APIError) Is(target error) bool {
	switch target {
	case common.ErrValidation:
		return e.Code == CodeValidation
	case common.ErrAlreadyExists:
		return e.Code == CodeAlreadyExists
	case common.ErrInternal:
		return e.Status >= 500
	}
	return false
}
