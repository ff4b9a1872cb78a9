// Package tgerr defines the error taxonomy of the client and the classifier
// that maps remote error envelopes onto it.
//
// Errors are rich errors (category + numeric code + text code + metadata).
// The text code is the stable kind callers branch on; the numeric code and
// metadata preserve the original remote diagnostics.
package tgerr

import (
	"fmt"

	goerrors "github.com/goliatone/go-errors"

	"tgclient/envelope"
	"tgclient/protocol"
)

// Kind is the stable identifier of an error kind, carried as the text code.
type Kind string

const (
	KindInvalidPhoneNumber      Kind = "TG_PHONE_NUMBER_INVALID"
	KindPasswordError           Kind = "TG_PASSWORD_ERROR"
	KindTwoFactorPasswordNeeded Kind = "TG_TWO_FACTOR_PASSWORD_NEEDED"
	KindPhoneCodeInvalid        Kind = "TG_PHONE_CODE_INVALID"
	KindNoPermission            Kind = "TG_NO_PERMISSION"
	KindObjectNotFound          Kind = "TG_OBJECT_NOT_FOUND"
	KindAlreadyAuthorized       Kind = "TG_ALREADY_AUTHORIZED"
	KindAlreadyLoggingOut       Kind = "TG_ALREADY_LOGGING_OUT"
	KindAuthError               Kind = "TG_AUTH_ERROR"
	KindTooManyRequests         Kind = "TG_TOO_MANY_REQUESTS"
	KindUnknown                 Kind = "TG_UNKNOWN"
	KindTimeout                 Kind = "TG_TIMEOUT"
	KindValidation              Kind = "TG_VALIDATION"
)

func categoryOf(kind Kind) goerrors.Category {
	switch kind {
	case KindInvalidPhoneNumber, KindPhoneCodeInvalid:
		return goerrors.CategoryBadInput
	case KindPasswordError, KindAuthError, KindTwoFactorPasswordNeeded:
		return goerrors.CategoryAuth
	case KindNoPermission:
		return goerrors.CategoryAuthz
	case KindObjectNotFound:
		return goerrors.CategoryNotFound
	case KindAlreadyAuthorized, KindAlreadyLoggingOut:
		return goerrors.CategoryConflict
	case KindTooManyRequests:
		return goerrors.CategoryRateLimit
	case KindValidation:
		return goerrors.CategoryValidation
	default:
		return goerrors.CategoryExternal
	}
}

// rule maps a remote (code, message) pair to a kind. Rules are evaluated in
// declaration order; message-text rules sit above code rules because a single
// code (401 in particular) co-occurs with messages that deserve a more
// specific kind.
type rule struct {
	matches func(code int, message string) bool
	kind    Kind
}

func exactMessage(text string, kind Kind) rule {
	return rule{
		matches: func(_ int, message string) bool { return message == text },
		kind:    kind,
	}
}

var rules = []rule{
	exactMessage(protocol.MsgPhoneNumberInvalid, KindInvalidPhoneNumber),
	exactMessage(protocol.MsgPasswordHashInvalid, KindPasswordError),
	exactMessage(protocol.MsgPhoneCodeInvalid, KindPhoneCodeInvalid),
	exactMessage(protocol.MsgMembersUnavailable, KindNoPermission),
	exactMessage(protocol.MsgChatNotFound, KindObjectNotFound),
	exactMessage(protocol.MsgSetPhoneUnexpected, KindAlreadyAuthorized),
	exactMessage(protocol.MsgAlreadyLoggingOut, KindAlreadyLoggingOut),
	{
		matches: func(code int, message string) bool {
			return code == protocol.CodeUnauthorized || message == protocol.MsgUnauthorized
		},
		kind: KindAuthError,
	},
	{
		matches: func(code int, _ string) bool {
			return code == protocol.CodeTooManyRequests || code == protocol.CodeFloodWait
		},
		kind: KindTooManyRequests,
	},
}

// Classify inspects a response envelope and returns the matching error, or
// nil when the envelope is not an error. Unmatched error envelopes yield
// KindUnknown with the original code and message preserved.
func Classify(resp envelope.Response) error {
	if !resp.IsError() {
		return nil
	}
	code64, _ := resp.Int64("code")
	code := int(code64)
	message := resp.String("message")
	if message == "" {
		message = "Empty error message"
	}
	kind := KindUnknown
	for _, r := range rules {
		if r.matches(code, message) {
			kind = r.kind
			break
		}
	}
	return Remote(kind, code, message)
}

// Remote builds an error for a classified remote failure.
func Remote(kind Kind, code int, message string) *goerrors.Error {
	err := goerrors.New(
		fmt.Sprintf("telegram error: %d -> %s", code, message),
		categoryOf(kind),
	).WithTextCode(string(kind)).WithMetadata(map[string]any{
		"remote_code":    code,
		"remote_message": message,
	})
	if code != 0 {
		err = err.WithCode(code)
	}
	return err
}

// New builds a locally raised error of the given kind.
func New(kind Kind, message string) *goerrors.Error {
	return goerrors.New(message, categoryOf(kind)).WithTextCode(string(kind))
}

// Validation builds a configuration/argument error. These are raised before
// any network interaction.
func Validation(format string, args ...any) *goerrors.Error {
	return New(KindValidation, fmt.Sprintf(format, args...))
}

// Timeout builds the error returned when no matching response arrives within
// the configured deadline.
func Timeout(method protocol.Method, message string) *goerrors.Error {
	return New(KindTimeout, message).WithMetadata(map[string]any{
		"method": string(method),
	})
}

// TwoFactorPasswordNeeded is raised locally when the account requires a
// two-step verification password and none was supplied.
func TwoFactorPasswordNeeded() *goerrors.Error {
	return New(KindTwoFactorPasswordNeeded, "two-step verification password required")
}

// IsKind reports whether err (or anything it wraps) carries the given kind.
func IsKind(err error, kind Kind) bool {
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return false
	}
	return rich.TextCode == string(kind)
}

// IsTimeout reports whether err is the correlator's deadline error.
func IsTimeout(err error) bool {
	return IsKind(err, KindTimeout)
}
