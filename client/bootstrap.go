package client

import (
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"tgclient/envelope"
	"tgclient/protocol"
)

// Each bootstrap step gets a short fixed deadline; the native side answers
// these locally and anything slower means the handle is broken.
const bootstrapTimeout = 5 * time.Second

// bootstrap runs the fixed setup sequence the remote service requires before
// accepting any other request: library parameters, database encryption key,
// and optionally a SOCKS5 proxy.
func (c *Client) bootstrap() error {
	sessionDir := filepath.Join(c.cfg.SessionsDirectory, c.cfg.Phone)
	params := envelope.Params{
		"parameters": envelope.Params{
			"use_test_dc":          c.cfg.UseTestDataCenter,
			"api_id":               c.cfg.APIID,
			"api_hash":             c.cfg.APIHash,
			"device_model":         c.cfg.DeviceModel,
			"system_version":       c.cfg.SystemVersion,
			"application_version":  c.cfg.ApplicationVersion,
			"system_language_code": c.cfg.SystemLanguageCode,
			"use_message_database": c.cfg.UseMessageDatabase,
			"database_directory":   filepath.Join(sessionDir, "database"),
			"files_directory":      filepath.Join(sessionDir, "files"),
		},
	}
	if _, err := c.CallWithTimeout(protocol.MethodSetTdlibParameters, params, bootstrapTimeout); err != nil {
		return err
	}

	keyParams := envelope.Params{"encryption_key": c.cfg.DatabaseEncryptionKey}
	if _, err := c.CallWithTimeout(protocol.MethodCheckDatabaseEncryptionKey, keyParams, bootstrapTimeout); err != nil {
		return err
	}

	if c.cfg.Proxy != nil {
		if err := c.addProxy(c.cfg.Proxy.Host, c.cfg.Proxy.Port); err != nil {
			return err
		}
		c.logger.Info("proxy enabled", zap.String("host", c.cfg.Proxy.Host), zap.Int("port", c.cfg.Proxy.Port))
	}
	return nil
}

// addProxy registers a SOCKS5 proxy. Only SOCKS5 is supported.
func (c *Client) addProxy(host string, port int) error {
	_, err := c.CallWithTimeout(protocol.MethodAddProxy, envelope.Params{
		"server": host,
		"port":   port,
		"enable": true,
		"type":   envelope.Params{protocol.FieldType: protocol.ProxyTypeSocks5},
	}, bootstrapTimeout)
	return err
}
