package model

// This module defines the failure kinds used across the light driver so that
// callers can tell data entry errors apart from transport and device faults

import (
	"github.com/karlmutch/errors"
)

// Kind classifies a failure
type Kind int

const (
	Unclassified Kind = iota
	InvalidFormat
	UnknownTransformKind
	InvalidParameters
	ChannelUnavailable
	PublishFailed
	DeviceInitFailed
)

func (k Kind) String() string {
	switch k {
	case InvalidFormat:
		return "invalid format"
	case UnknownTransformKind:
		return "unknown transform kind"
	case InvalidParameters:
		return "invalid parameters"
	case ChannelUnavailable:
		return "channel unavailable"
	case PublishFailed:
		return "publish failed"
	case DeviceInitFailed:
		return "device init failed"
	}
	return "unclassified"
}

// Fault is an errors.Error tagged with the Kind of failure it represents
type Fault struct {
	Kind Kind
	wrapped
}

// wrapped names the embedded error so its Error method is promoted
type wrapped = errors.Error

// NewFault tags err with kind
func NewFault(kind Kind, err errors.Error) *Fault {
	return &Fault{Kind: kind, wrapped: err.With("kind", kind.String())}
}

// With adds context to the error, the result keeps the Kind of f
func (f *Fault) With(key string, value interface{}) errors.Error {
	return &Fault{Kind: f.Kind, wrapped: f.wrapped.With(key, value)}
}

// KindOf returns the Kind of a Fault, or Unclassified for any other error
func KindOf(err error) Kind {
	if f, isFault := err.(*Fault); isFault && f != nil {
		return f.Kind
	}
	return Unclassified
}
