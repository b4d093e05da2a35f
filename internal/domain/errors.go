package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDeviceNotFound   = errors.New("no camera matches requested facing")
	ErrPrepareFailed    = errors.New("encoder prepare failed")
	ErrPreviewFailed    = errors.New("preview start failed")
	ErrNoActiveSession  = errors.New("no active session")
	ErrInvalidURL       = errors.New("invalid ingest url")
	ErrPublisherBusy    = errors.New("publisher connection already in flight")
	ErrAlreadyConnected = errors.New("publisher already connected")
	ErrConnectionFailed = errors.New("connection failed")
	ErrAuth             = errors.New("ingest rejected credentials")
)

// PrepareError reports which encoder stage could not be configured.
type PrepareError struct {
	Stage  string
	Reason error
}

func (e *PrepareError) Error() string {
	return fmt.Sprintf("prepare %s: %v", e.Stage, e.Reason)
}

func (e *PrepareError) Unwrap() []error { return []error{ErrPrepareFailed, e.Reason} }

// ErrorCode is the stable identifier reported to command clients.
type ErrorCode string

const (
	CodeNoSession     ErrorCode = "NO_SESSION"
	CodeNoCamera      ErrorCode = "NO_CAMERA"
	CodePrepareFailed ErrorCode = "PREPARE_FAILED"
	CodeInvalidURL    ErrorCode = "INVALID_URL"
	CodePublisherBusy ErrorCode = "PUBLISHER_BUSY"
	CodeInternal      ErrorCode = "INTERNAL"
)

func CodeOf(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrNoActiveSession):
		return CodeNoSession
	case errors.Is(err, ErrDeviceNotFound):
		return CodeNoCamera
	case errors.Is(err, ErrPrepareFailed), errors.Is(err, ErrPreviewFailed):
		return CodePrepareFailed
	case errors.Is(err, ErrInvalidURL):
		return CodeInvalidURL
	case errors.Is(err, ErrPublisherBusy), errors.Is(err, ErrAlreadyConnected):
		return CodePublisherBusy
	}
	return CodeInternal
}
