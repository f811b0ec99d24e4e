package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure by how it reaches the user.
type Kind string

const (
	KindValidation  Kind = "validation"
	KindTransport   Kind = "transport"
	KindParse       Kind = "parse"
	KindRateLimited Kind = "rate_limited"
	KindInFlight    Kind = "in_flight"
	KindInternal    Kind = "internal"
)

// GenericMessage is shown when a failure carries no usable text.
const GenericMessage = "An error occurred"

type AppError struct {
	Kind    Kind   `json:"-"`
	Code    int    `json:"-"`
	Message string `json:"error"`
	Op      string `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func E(kind Kind, op string, err error, message string, code int) *AppError {
	return &AppError{
		Kind:    kind,
		Code:    code,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

func Validation(op string, err error, message string) *AppError {
	return E(KindValidation, op, err, message, http.StatusBadRequest)
}

func Transport(op string, err error, message string) *AppError {
	return E(KindTransport, op, err, message, http.StatusBadGateway)
}

func Parse(op string, err error, message string) *AppError {
	return E(KindParse, op, err, message, http.StatusBadGateway)
}

func RateLimited(op string) *AppError {
	return E(KindRateLimited, op, nil, "Rate limit exceeded, please try again in a moment", http.StatusTooManyRequests)
}

func InFlight(op string) *AppError {
	return E(KindInFlight, op, nil, "A request is already in progress", http.StatusConflict)
}

func Internal(op string, err error, message string) *AppError {
	return E(KindInternal, op, err, message, http.StatusInternalServerError)
}

// KindOf reports the kind of the first AppError in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// UserMessage returns the text a user should see for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		if appErr.Message != "" {
			return appErr.Message
		}
		if appErr.Err != nil {
			err = appErr.Err
		}
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return GenericMessage
}

// StatusCode maps err to an HTTP status code.
func StatusCode(err error) int {
	var appErr *AppError
	if stderrors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}
	return http.StatusInternalServerError
}
