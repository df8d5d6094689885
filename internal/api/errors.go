package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dpetrov/go-messenger/internal/messenger"
)

type ApiError struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Err        error  `json:"-"`
}

func (e *ApiError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Err.Error())
	}

	return e.Message
}

func (e *ApiError) Unwrap() error {
	return e.Err
}

func lower(s string) string {
	return strings.ToLower(s)
}

func NewBadRequestError() *ApiError {
	return &ApiError{
		StatusCode: http.StatusBadRequest,
		Message:    lower(http.StatusText(http.StatusBadRequest)),
	}
}

func NewNotFoundError() *ApiError {
	return &ApiError{
		StatusCode: http.StatusNotFound,
		Message:    lower(http.StatusText(http.StatusNotFound)),
	}
}

func NewInternalServerError(err error) *ApiError {
	return &ApiError{
		StatusCode: http.StatusInternalServerError,
		Message:    lower(http.StatusText(http.StatusInternalServerError)),
		Err:        err,
	}
}

func NewUnauthorizedError() *ApiError {
	return &ApiError{
		StatusCode: http.StatusUnauthorized,
		Message:    lower(http.StatusText(http.StatusUnauthorized)),
	}
}

func NewForbiddenError() *ApiError {
	return &ApiError{
		StatusCode: http.StatusForbidden,
		Message:    lower(http.StatusText(http.StatusForbidden)),
	}
}

func NewMethodNotAllowedError() *ApiError {
	return &ApiError{
		StatusCode: http.StatusMethodNotAllowed,
		Message:    lower(http.StatusText(http.StatusMethodNotAllowed)),
	}
}

func NewConflictError(msg string) *ApiError {
	return &ApiError{
		StatusCode: http.StatusConflict,
		Message:    msg,
	}
}

// apiErrorFor translates a core error into its transport shape. Forbidden
// stays a bare 403 with no detail; conflicts and validation failures carry
// the domain message since they are user-actionable.
func apiErrorFor(err error) *ApiError {
	var vErr *messenger.ValidationError
	switch {
	case errors.As(err, &vErr):
		return &ApiError{StatusCode: http.StatusBadRequest, Message: vErr.Error()}
	case errors.Is(err, messenger.ErrInvalidCredentials):
		return &ApiError{StatusCode: http.StatusUnauthorized, Message: err.Error()}
	case errors.Is(err, messenger.ErrForbidden):
		return NewForbiddenError()
	case errors.Is(err, messenger.ErrNotOwner):
		return &ApiError{StatusCode: http.StatusForbidden, Message: messenger.ErrNotOwner.Error()}
	case errors.Is(err, messenger.ErrTargetIsOwner):
		return &ApiError{StatusCode: http.StatusBadRequest, Message: messenger.ErrTargetIsOwner.Error()}
	case errors.Is(err, messenger.ErrAlreadyAdmin):
		return NewConflictError(messenger.ErrAlreadyAdmin.Error())
	case errors.Is(err, messenger.ErrAdminNotFound):
		return &ApiError{StatusCode: http.StatusNotFound, Message: messenger.ErrAdminNotFound.Error()}
	case errors.Is(err, messenger.ErrUsernameTaken):
		return NewConflictError(messenger.ErrUsernameTaken.Error())
	case errors.Is(err, messenger.ErrNotFound):
		return NewNotFoundError()
	default:
		return NewInternalServerError(err)
	}
}
