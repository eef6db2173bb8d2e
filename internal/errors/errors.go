package gerr

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	// ErrTransientFetch marks a single page or product request that failed on the wire
	// (network error, timeout, 5xx, rate limit). Retrying later may succeed.
	ErrTransientFetch = status.Error(codes.Unavailable, "transient fetch error")
	// ErrDataShape marks a payload that is not the shape the store API promises.
	ErrDataShape = status.Error(codes.DataLoss, "malformed store api payload")
	// ErrConfiguration marks missing or rejected store credentials/URL. Never retried.
	ErrConfiguration = status.Error(codes.FailedPrecondition, "store api is not configured")
	// ErrAdSpendUnavailable marks an ad-spend source that is not configured, errored or has no data.
	ErrAdSpendUnavailable = status.Error(codes.NotFound, "ad spend unavailable")
	// ErrAdSpendAuth marks an ad platform that rejected the configured credentials.
	ErrAdSpendAuth = status.Error(codes.Unauthenticated, "ad spend source rejected credentials")
)

// Kind classifies the result of a single remote operation.
type Kind int

const (
	KindSuccess Kind = iota
	KindTransient
	KindFatal
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindTransient:
		return "transient-error"
	default:
		return "fatal-error"
	}
}

// Classify maps an error onto a Kind. Configuration and data-shape errors are fatal for the
// operation that produced them; anything else is treated as transient.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindSuccess
	case errors.Is(err, ErrConfiguration), errors.Is(err, ErrDataShape):
		return KindFatal
	default:
		return KindTransient
	}
}

// Code returns the grpc code carried by the innermost taxonomy error, codes.Unknown otherwise.
func Code(err error) codes.Code {
	switch {
	case err == nil:
		return codes.OK
	case errors.Is(err, ErrConfiguration):
		return codes.FailedPrecondition
	case errors.Is(err, ErrDataShape):
		return codes.DataLoss
	case errors.Is(err, ErrTransientFetch):
		return codes.Unavailable
	case errors.Is(err, ErrAdSpendUnavailable):
		return codes.NotFound
	case errors.Is(err, ErrAdSpendAuth):
		return codes.Unauthenticated
	default:
		return status.Code(err)
	}
}
