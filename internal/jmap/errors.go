package jmap

import (
	"fmt"
	"strings"
)

// ErrorKind tags the failure class of a JMAP operation.
type ErrorKind int

const (
	// KindAuth means the credential was rejected by the server.
	KindAuth ErrorKind = iota
	// KindAPI means a transport or protocol failure.
	KindAPI
	// KindNotFound means an expected mailbox or message is absent.
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindAPI:
		return "api"
	case KindNotFound:
		return "not found"
	}
	return "unknown"
}

// Error is the closed error type for the JMAP adapter. MissingIDs is
// populated only for KindNotFound failures raised by VerifyMessagesExist.
type Error struct {
	Kind       ErrorKind
	Op         string
	MissingIDs []string
	Err        error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("jmap: %s: %s", e.Op, e.Kind)
	if len(e.MissingIDs) > 0 {
		msg += ": " + strings.Join(e.MissingIDs, ", ")
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func authErr(op string, err error) *Error {
	return &Error{Kind: KindAuth, Op: op, Err: err}
}

func apiErr(op string, err error) *Error {
	return &Error{Kind: KindAPI, Op: op, Err: err}
}

func notFoundErr(op string, err error) *Error {
	return &Error{Kind: KindNotFound, Op: op, Err: err}
}
