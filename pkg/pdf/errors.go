package pdf

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure reported by an operation
type Kind int

const (
	KindUnknown Kind = iota
	KindMalformedDocument
	KindInvalidRange
	KindInsufficientInput
	KindEmptyWatermarkText
	KindUnsupportedForImageContent
	KindNoInputImages
	KindUnavailableDependency
	KindMalformedImage
	KindMissingInput
	KindInvalidParameter
)

var kindNames = map[Kind]string{
	KindUnknown:                    "Unknown",
	KindMalformedDocument:          "MalformedDocument",
	KindInvalidRange:               "InvalidRange",
	KindInsufficientInput:          "InsufficientInput",
	KindEmptyWatermarkText:         "EmptyWatermarkText",
	KindUnsupportedForImageContent: "UnsupportedForImageContent",
	KindNoInputImages:              "NoInputImages",
	KindUnavailableDependency:      "UnavailableDependency",
	KindMalformedImage:             "MalformedImage",
	KindMissingInput:               "MissingInput",
	KindInvalidParameter:           "InvalidParameter",
}

// String returns the taxonomy name of the kind
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsValidation reports whether the kind is a caller mistake detected
// before any transformation work started.
func (k Kind) IsValidation() bool {
	switch k {
	case KindInvalidRange, KindInsufficientInput, KindEmptyWatermarkText,
		KindUnsupportedForImageContent, KindNoInputImages, KindMalformedImage,
		KindMissingInput, KindInvalidParameter:
		return true
	}
	return false
}

// Error is the failure value returned by every operation
type Error struct {
	Kind Kind
	Op   string
	Msg  string

	// PageCount is set on InvalidRange failures caused by an end page
	// beyond the document.
	PageCount int

	Err error
}

// Sentinels for errors.Is comparisons. Only the Kind is compared.
var (
	ErrMalformedDocument          = &Error{Kind: KindMalformedDocument}
	ErrInvalidRange               = &Error{Kind: KindInvalidRange}
	ErrInsufficientInput          = &Error{Kind: KindInsufficientInput}
	ErrEmptyWatermarkText         = &Error{Kind: KindEmptyWatermarkText}
	ErrUnsupportedForImageContent = &Error{Kind: KindUnsupportedForImageContent}
	ErrNoInputImages              = &Error{Kind: KindNoInputImages}
	ErrUnavailableDependency      = &Error{Kind: KindUnavailableDependency}
	ErrMalformedImage             = &Error{Kind: KindMalformedImage}
	ErrMissingInput               = &Error{Kind: KindMissingInput}
	ErrInvalidParameter           = &Error{Kind: KindInvalidParameter}
)

// Errorf builds an Error of the given kind
func Errorf(kind Kind, op string, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error of the given kind around a lower level failure
func Wrap(kind Kind, op string, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...), Err: err}
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same Kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the Kind of the first *Error in err's chain
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
