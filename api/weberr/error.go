package weberr

import (
	"net/http"
)

// Machine readable reasons carried by every error body.
const (
	ReasonBadRequest   = "BAD_REQUEST"
	ReasonNotFound     = "NOT_FOUND"
	ReasonUnauthorized = "UNAUTHORIZED"
	ReasonForbidden    = "FORBIDDEN"
	ReasonRateLimited  = "RATE_LIMITED"
	ReasonInternal     = "INTERNAL"

	ReasonAlreadyPurchased  = "ALREADY_PURCHASED"
	ReasonOrderExpired      = "ORDER_EXPIRED"
	ReasonInvalidInstrument = "INVALID_INSTRUMENT"
	ReasonProviderDeclined  = "PROVIDER_DECLINED"
)

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}

// NewError decorates err with a failure body carrying reason and msg.
func NewError(err error, reason string, msg string, status int, opts ...Opt) error {
	e := &Error{
		Err:    err,
		Status: status,
		Body:   ErrorResponse{Message: msg, Reason: reason},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func NotFound(err error, opts ...Opt) error {
	return NewError(
		err,
		ReasonNotFound,
		"the resource could not be found",
		http.StatusNotFound,
		opts...,
	)
}

func NotAuthorized(err error, opts ...Opt) error {
	return NewError(
		err,
		ReasonUnauthorized,
		"not authorized to access resource",
		http.StatusUnauthorized,
		opts...,
	)
}

func Forbidden(err error, opts ...Opt) error {
	return NewError(
		err,
		ReasonForbidden,
		"insufficient permissions for this resource",
		http.StatusForbidden,
		opts...,
	)
}

func InternalError(err error, opts ...Opt) error {
	return NewError(
		err,
		ReasonInternal,
		"the server encountered a problem and could not process your request",
		http.StatusInternalServerError,
		opts...,
	)
}

// BadRequest echoes err to the caller, so err must not carry internal detail.
func BadRequest(err error, opts ...Opt) error {
	return NewError(
		err,
		ReasonBadRequest,
		err.Error(),
		http.StatusBadRequest,
		opts...,
	)
}

func TooManyRequests(err error, opts ...Opt) error {
	return NewError(
		err,
		ReasonRateLimited,
		"too many requests, slow down",
		http.StatusTooManyRequests,
		opts...,
	)
}
