package tgerr

import (
	"encoding/json"
	"strconv"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"tgclient/envelope"
	"tgclient/protocol"
)

func errEnvelope(code int, message string) envelope.Response {
	resp := envelope.Response{protocol.FieldType: protocol.TypeError}
	if code != 0 {
		resp["code"] = json.Number(strconv.Itoa(code))
	}
	if message != "" {
		resp["message"] = message
	}
	return resp
}

func TestClassifyTable(t *testing.T) {
	cases := []struct {
		name    string
		code    int
		message string
		want    Kind
	}{
		{"phone number invalid", 400, protocol.MsgPhoneNumberInvalid, KindInvalidPhoneNumber},
		// Message rules outrank code rules: 401 alongside a more specific
		// message must not collapse into the generic auth kind.
		{"password hash invalid with 401", 401, protocol.MsgPasswordHashInvalid, KindPasswordError},
		{"phone code invalid", 400, protocol.MsgPhoneCodeInvalid, KindPhoneCodeInvalid},
		{"members unavailable", 400, protocol.MsgMembersUnavailable, KindNoPermission},
		{"chat not found", 400, protocol.MsgChatNotFound, KindObjectNotFound},
		{"already authorized", 400, protocol.MsgSetPhoneUnexpected, KindAlreadyAuthorized},
		{"already logging out", 400, protocol.MsgAlreadyLoggingOut, KindAlreadyLoggingOut},
		{"401 unmatched message", 401, "SESSION_REVOKED", KindAuthError},
		{"unauthorized text without code", 0, protocol.MsgUnauthorized, KindAuthError},
		{"429 unmatched message", 429, "Too Many Requests: retry after 30", KindTooManyRequests},
		{"420 flood wait", 420, "FLOOD_WAIT_17", KindTooManyRequests},
		{"unmatched error", 500, "Internal Server Error", KindUnknown},
		{"no code no message", 0, "", KindUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Classify(errEnvelope(tc.code, tc.message))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !IsKind(err, tc.want) {
				t.Fatalf("got %v, want kind %s", err, tc.want)
			}
		})
	}
}

func TestClassifyNonError(t *testing.T) {
	resp := envelope.Response{protocol.FieldType: "ok"}
	if err := Classify(resp); err != nil {
		t.Fatalf("non-error envelope classified as error: %v", err)
	}
}

func TestClassifyPreservesDiagnostics(t *testing.T) {
	err := Classify(errEnvelope(500, "Internal Server Error"))

	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected a rich error, got %T", err)
	}
	if rich.Code != 500 {
		t.Errorf("code: got %d, want 500", rich.Code)
	}
	if rich.Metadata["remote_message"] != "Internal Server Error" {
		t.Errorf("remote_message not preserved: %v", rich.Metadata)
	}
	if rich.Metadata["remote_code"] != 500 {
		t.Errorf("remote_code not preserved: %v", rich.Metadata)
	}
}

func TestClassifyEmptyMessageFallback(t *testing.T) {
	err := Classify(errEnvelope(500, ""))
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected a rich error, got %T", err)
	}
	if rich.Metadata["remote_message"] != "Empty error message" {
		t.Errorf("missing message placeholder: %v", rich.Metadata)
	}
}

func TestTimeoutKind(t *testing.T) {
	err := Timeout(protocol.MethodGetMe, "no response")
	if !IsTimeout(err) {
		t.Error("IsTimeout rejected a timeout error")
	}
	if !IsKind(err, KindTimeout) {
		t.Error("timeout error lost its kind")
	}
	if IsKind(err, KindUnknown) {
		t.Error("timeout error must carry its own kind, not the generic one")
	}
}

func TestValidationKind(t *testing.T) {
	err := Validation("page size must be greater than 1, got %d", 1)
	if !IsKind(err, KindValidation) {
		t.Fatalf("got %v", err)
	}
}

func TestIsKindOnForeignError(t *testing.T) {
	if IsKind(json.Unmarshal([]byte("{"), &struct{}{}), KindUnknown) {
		t.Error("foreign error matched a kind")
	}
}
