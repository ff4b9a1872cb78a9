// Package protocol defines the vocabulary of the tdjson wire dialect.
//
// Every object crossing the channel is a JSON mapping tagged with "@type".
// Requests additionally carry an "@extra" mapping holding the correlation
// identifier; the peer echoes "@extra" verbatim on the matching response.
//
// Request:
//
//	{"@type": "getChats", "@extra": {"request_id": "..."},
//	 "offset_order": ..., "offset_chat_id": ..., "limit": ...}
//
// Response (error form):
//
//	{"@type": "error", "@extra": {"request_id": "..."},
//	 "code": 401, "message": "Unauthorized"}
//
// Method names, authorization states, and error texts are closed enumerations
// here so the rest of the codebase never compares raw strings.
package protocol

// Envelope field keys.
const (
	FieldType      = "@type"
	FieldExtra     = "@extra"
	FieldRequestID = "request_id"
)

// TypeError is the type tag marking an error envelope.
const TypeError = "error"

// Method identifies a remote method name carried in the "@type" field
// of a request envelope.
type Method string

const (
	MethodGetAuthorizationState       Method = "getAuthorizationState"
	MethodSetTdlibParameters          Method = "setTdlibParameters"
	MethodCheckDatabaseEncryptionKey  Method = "checkDatabaseEncryptionKey"
	MethodAddProxy                    Method = "addProxy"
	MethodSetAuthenticationPhone      Method = "setAuthenticationPhoneNumber"
	MethodCheckAuthenticationCode     Method = "checkAuthenticationCode"
	MethodCheckAuthenticationPassword Method = "checkAuthenticationPassword"
	MethodLogOut                      Method = "logOut"
	MethodGetMe                       Method = "getMe"
	MethodGetChats                    Method = "getChats"
	MethodGetChat                     Method = "getChat"
	MethodGetBasicGroupFullInfo       Method = "getBasicGroupFullInfo"
	MethodGetSupergroupMembers        Method = "getSupergroupMembers"
	MethodGetUser                     Method = "getUser"
)

// AuthState enumerates the authorization states reported by
// getAuthorizationState.
type AuthState string

const (
	AuthStateReady AuthState = "authorizationStateReady"

	AuthStateWaitTdlibParameters AuthState = "authorizationStateWaitTdlibParameters"
	AuthStateWaitEncryptionKey   AuthState = "authorizationStateWaitEncryptionKey"
	AuthStateWaitPhoneNumber     AuthState = "authorizationStateWaitPhoneNumber"
	AuthStateWaitCode            AuthState = "authorizationStateWaitCode"
	AuthStateWaitPassword        AuthState = "authorizationStateWaitPassword"

	AuthStateLoggingOut AuthState = "authorizationStateLoggingOut"
	AuthStateClosing    AuthState = "authorizationStateClosing"
	AuthStateClosed     AuthState = "authorizationStateClosed"
)

// Chat type tags returned inside getChat's "type" field.
const (
	ChatTypeBasicGroup = "chatTypeBasicGroup"
	ChatTypeSupergroup = "chatTypeSupergroup"
)

// ProxyTypeSocks5 is the proxy type tag for addProxy.
const ProxyTypeSocks5 = "proxyTypeSocks5"

// Error message texts the remote side uses verbatim. Classification matches
// these exactly; they take precedence over status codes because one code can
// co-occur with several of them.
const (
	MsgPhoneNumberInvalid  = "PHONE_NUMBER_INVALID"
	MsgPasswordHashInvalid = "PASSWORD_HASH_INVALID"
	MsgPhoneCodeInvalid    = "PHONE_CODE_INVALID"
	MsgMembersUnavailable  = "Supergroup members are unavailable"
	MsgChatNotFound        = "Chat not found"
	MsgSetPhoneUnexpected  = "setAuthenticationPhoneNumber unexpected"
	MsgAlreadyLoggingOut   = "Already logging out"
	MsgUnauthorized        = "Unauthorized"
)

// Status codes with classification rules of their own.
const (
	CodeUnauthorized    = 401
	CodeFloodWait       = 420
	CodeTooManyRequests = 429
)
