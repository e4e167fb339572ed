package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/weather-outfit/internal/domain/location"
	apperrors "github.com/yanqian/weather-outfit/pkg/errors"
)

// HTTPError captures the metadata required to serialize an error response consistently.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewHTTPError is a helper to build an HTTPError instance.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *HTTPError) body() errorResponse {
	message := e.Message
	if message == "" {
		message = e.Error()
	}
	return errorResponse{Error: errorDetail{Code: e.Code, Message: message}}
}

// domainStatus maps registry error codes onto HTTP statuses.
var domainStatus = map[string]int{
	location.CodeInvalidInput:     http.StatusBadRequest,
	location.CodeCapacityExceeded: http.StatusBadRequest,
	location.CodeNotFound:         http.StatusNotFound,
	location.CodeGeocodeFailed:    http.StatusBadGateway,
	location.CodeStorage:          http.StatusInternalServerError,
}

// domainError converts an AppError into an HTTPError keeping its code.
func domainError(err error) *HTTPError {
	code := apperrors.CodeOf(err)
	status, known := domainStatus[code]
	if !known {
		return asHTTPError(err)
	}
	return NewHTTPError(status, code, apperrors.MessageOf(err), err)
}

func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "something went wrong",
		Err:     err,
	}
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}
