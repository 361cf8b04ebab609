package auth

import "errors"

type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindConflict
	KindUnauthorized
	KindBadRequest
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindBadRequest:
		return "bad_request"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Error is a failure the caller is allowed to see. Message is safe to return
// verbatim.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.Message
}

// Caller-facing messages. Login and reset failures share one message each so
// responses do not reveal whether an account exists.
const (
	MsgEmailTaken         = "A user with this email already exists"
	MsgInvalidCredentials = "Invalid credentials"
	MsgResetRequested     = "If that email exists, a reset link has been sent"
	MsgInvalidResetToken  = "Invalid or expired reset token"
	MsgWrongTokenPurpose  = "Invalid reset token"
	MsgUserNotFound       = "User not found"
	MsgPasswordReset      = "Password has been reset successfully"
	MsgNotAuthenticated   = "Not authenticated"
	MsgInvalidToken       = "Invalid or expired token"
	MsgInvalidClaims      = "Invalid token claims"
	MsgPasswordTooLong    = "Password must be at most 72 bytes"
)

func conflict(msg string) error     { return &Error{Kind: KindConflict, Message: msg} }
func unauthorized(msg string) error { return &Error{Kind: KindUnauthorized, Message: msg} }
func badRequest(msg string) error   { return &Error{Kind: KindBadRequest, Message: msg} }
func notFound(msg string) error     { return &Error{Kind: KindNotFound, Message: msg} }

// KindOf returns the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
