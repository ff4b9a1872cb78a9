package client

import (
	"go.uber.org/zap"

	"tgclient/envelope"
	"tgclient/protocol"
	"tgclient/tgerr"
)

// GetAuthState returns the current authorization state.
func (c *Client) GetAuthState() (protocol.AuthState, error) {
	resp, err := c.Call(protocol.MethodGetAuthorizationState, nil)
	if err != nil {
		return "", err
	}
	return protocol.AuthState(resp.Type()), nil
}

// IsAuthorized reports whether the session is fully authorized.
func (c *Client) IsAuthorized() (bool, error) {
	state, err := c.GetAuthState()
	if err != nil {
		return false, err
	}
	return state == protocol.AuthStateReady, nil
}

// RequestAuthCode asks the service to send an authentication code to the
// configured phone number.
func (c *Client) RequestAuthCode() error {
	c.logger.Info("requesting auth code", zap.String("phone", c.cfg.Phone))
	_, err := c.Call(protocol.MethodSetAuthenticationPhone, envelope.Params{
		"phone_number":            c.cfg.Phone,
		"allow_flash_call":        false,
		"is_current_phone_number": true,
	})
	return err
}

// SubmitCode completes authentication with the received code. Accounts with
// two-step verification also need password; when the session is waiting for
// a password and none was supplied, the call fails locally with the
// two-factor kind before anything is sent.
func (c *Client) SubmitCode(code, password string) error {
	state, err := c.GetAuthState()
	if err != nil {
		return err
	}
	if state == protocol.AuthStateWaitCode {
		if _, err := c.Call(protocol.MethodCheckAuthenticationCode, envelope.Params{"code": code}); err != nil {
			return err
		}
		if state, err = c.GetAuthState(); err != nil {
			return err
		}
	}
	if state == protocol.AuthStateWaitPassword {
		if password == "" {
			return tgerr.TwoFactorPasswordNeeded()
		}
		if _, err := c.Call(protocol.MethodCheckAuthenticationPassword, envelope.Params{"password": password}); err != nil {
			return err
		}
	}

	// One more state read so the native side finishes persisting auth data
	// before the caller moves on.
	_, err = c.GetAuthState()
	return err
}

// LogOut terminates the session. Auth and already-logging-out failures are
// benign here and suppressed.
func (c *Client) LogOut() error {
	if _, err := c.Call(protocol.MethodLogOut, nil); err != nil {
		if !tgerr.IsKind(err, tgerr.KindAuthError) && !tgerr.IsKind(err, tgerr.KindAlreadyLoggingOut) {
			return err
		}
	}
	state, err := c.GetAuthState()
	if err != nil {
		return err
	}
	c.logger.Info("logged out", zap.String("phone", c.cfg.Phone), zap.String("state", string(state)))
	return nil
}

// GetMe returns the account's own user object.
func (c *Client) GetMe() (envelope.Response, error) {
	return c.Call(protocol.MethodGetMe, nil)
}

// GetUser returns a user by identifier. The native side answers this offline
// for non-bot sessions.
func (c *Client) GetUser(userID int64) (envelope.Response, error) {
	return c.Call(protocol.MethodGetUser, envelope.Params{"user_id": userID})
}
