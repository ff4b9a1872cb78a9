// Package config holds the client configuration: credentials, session
// storage, timing knobs, and pagination defaults. Validation runs before any
// network interaction.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"tgclient/tgerr"
)

// EncryptionKeyLength is the exact length the local database encryption key
// must have.
const EncryptionKeyLength = 12

// Defaults.
const (
	DefaultRequestTimeout  = 60 * time.Second
	DefaultPollInterval    = 100 * time.Millisecond
	DefaultRequestDelay    = 500 * time.Millisecond
	DefaultChatsPageSize   = 100
	DefaultMembersPageSize = 200

	DefaultSessionsDirectory  = "tdlib_sessions"
	DefaultDeviceModel        = "SpecialDevice"
	DefaultSystemVersion      = "5.45"
	DefaultAppVersion         = "7.62"
	DefaultSystemLanguageCode = "en"
)

// Proxy configures the optional SOCKS5 proxy added during bootstrap.
type Proxy struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Config is the full client configuration.
//
// RequestTimeout is the default wall-clock limit for one correlated call;
// zero means wait indefinitely, negative values fail validation. PollInterval is how long each bounded-wait
// receive blocks before re-checking the deadline. RequestDelay paces
// consecutive pagination pages.
type Config struct {
	APIID                 int32  `yaml:"apiId"`
	APIHash               string `yaml:"apiHash"`
	Phone                 string `yaml:"phone"`
	DatabaseEncryptionKey string `yaml:"databaseEncryptionKey"`

	RequestTimeout time.Duration `yaml:"requestTimeout"`
	PollInterval   time.Duration `yaml:"pollInterval"`
	RequestDelay   time.Duration `yaml:"requestDelay"`

	ChatsPageSize   int `yaml:"chatsPageSize"`
	MembersPageSize int `yaml:"membersPageSize"`

	SessionsDirectory  string `yaml:"sessionsDirectory"`
	UseTestDataCenter  bool   `yaml:"useTestDataCenter"`
	UseMessageDatabase bool   `yaml:"useMessageDatabase"`

	DeviceModel        string `yaml:"deviceModel"`
	SystemVersion      string `yaml:"systemVersion"`
	ApplicationVersion string `yaml:"applicationVersion"`
	SystemLanguageCode string `yaml:"systemLanguageCode"`

	Proxy *Proxy `yaml:"proxy"`
}

// Default returns a configuration with every tunable at its default.
// Credentials (APIID, APIHash, Phone, DatabaseEncryptionKey) must still be
// filled in by the caller.
func Default() Config {
	return Config{
		RequestTimeout:     DefaultRequestTimeout,
		PollInterval:       DefaultPollInterval,
		RequestDelay:       DefaultRequestDelay,
		ChatsPageSize:      DefaultChatsPageSize,
		MembersPageSize:    DefaultMembersPageSize,
		SessionsDirectory:  DefaultSessionsDirectory,
		UseMessageDatabase: true,
		DeviceModel:        DefaultDeviceModel,
		SystemVersion:      DefaultSystemVersion,
		ApplicationVersion: DefaultAppVersion,
		SystemLanguageCode: DefaultSystemLanguageCode,
	}
}

// Validate checks the configuration. Errors are validation kinds and carry no
// remote diagnostics; nothing has touched the network yet.
func (c Config) Validate() error {
	if c.APIID == 0 {
		return tgerr.Validation("apiId is required")
	}
	if c.APIHash == "" {
		return tgerr.Validation("apiHash is required")
	}
	if c.Phone == "" {
		return tgerr.Validation("phone is required")
	}
	if len(c.DatabaseEncryptionKey) != EncryptionKeyLength {
		return tgerr.Validation("databaseEncryptionKey length must be %d, got %d",
			EncryptionKeyLength, len(c.DatabaseEncryptionKey))
	}
	if c.RequestTimeout < 0 {
		return tgerr.Validation("requestTimeout must not be negative")
	}
	if c.PollInterval <= 0 {
		return tgerr.Validation("pollInterval must be positive")
	}
	if c.RequestDelay < 0 {
		return tgerr.Validation("requestDelay must not be negative")
	}
	if c.ChatsPageSize <= 1 {
		return tgerr.Validation("chatsPageSize must be greater than 1")
	}
	if c.MembersPageSize <= 1 {
		return tgerr.Validation("membersPageSize must be greater than 1")
	}
	return nil
}

// file mirrors Config with pointer fields where the zero value is meaningful,
// so an absent key does not clobber a default.
type file struct {
	APIID                 int32  `yaml:"apiId"`
	APIHash               string `yaml:"apiHash"`
	Phone                 string `yaml:"phone"`
	DatabaseEncryptionKey string `yaml:"databaseEncryptionKey"`
	RequestTimeout        *int64 `yaml:"requestTimeoutMs"`
	PollInterval          *int64 `yaml:"pollIntervalMs"`
	RequestDelay          *int64 `yaml:"requestDelayMs"`
	ChatsPageSize         *int   `yaml:"chatsPageSize"`
	MembersPageSize       *int   `yaml:"membersPageSize"`
	SessionsDirectory     string `yaml:"sessionsDirectory"`
	UseTestDataCenter     *bool  `yaml:"useTestDataCenter"`
	UseMessageDatabase    *bool  `yaml:"useMessageDatabase"`
	DeviceModel           string `yaml:"deviceModel"`
	SystemVersion         string `yaml:"systemVersion"`
	ApplicationVersion    string `yaml:"applicationVersion"`
	SystemLanguageCode    string `yaml:"systemLanguageCode"`
	Proxy                 *Proxy `yaml:"proxy"`
}

// LoadFromPath reads a YAML file and merges it over Default(). Timing fields
// are expressed in milliseconds in the file.
func LoadFromPath(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	var parsed file
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return cfg, err
	}
	merge(&cfg, parsed)
	return cfg, nil
}

func merge(dst *Config, src file) {
	if src.APIID != 0 {
		dst.APIID = src.APIID
	}
	if src.APIHash != "" {
		dst.APIHash = src.APIHash
	}
	if src.Phone != "" {
		dst.Phone = src.Phone
	}
	if src.DatabaseEncryptionKey != "" {
		dst.DatabaseEncryptionKey = src.DatabaseEncryptionKey
	}
	if src.RequestTimeout != nil {
		dst.RequestTimeout = time.Duration(*src.RequestTimeout) * time.Millisecond
	}
	if src.PollInterval != nil {
		dst.PollInterval = time.Duration(*src.PollInterval) * time.Millisecond
	}
	if src.RequestDelay != nil {
		dst.RequestDelay = time.Duration(*src.RequestDelay) * time.Millisecond
	}
	if src.ChatsPageSize != nil {
		dst.ChatsPageSize = *src.ChatsPageSize
	}
	if src.MembersPageSize != nil {
		dst.MembersPageSize = *src.MembersPageSize
	}
	if src.SessionsDirectory != "" {
		dst.SessionsDirectory = src.SessionsDirectory
	}
	if src.UseTestDataCenter != nil {
		dst.UseTestDataCenter = *src.UseTestDataCenter
	}
	if src.UseMessageDatabase != nil {
		dst.UseMessageDatabase = *src.UseMessageDatabase
	}
	if src.DeviceModel != "" {
		dst.DeviceModel = src.DeviceModel
	}
	if src.SystemVersion != "" {
		dst.SystemVersion = src.SystemVersion
	}
	if src.ApplicationVersion != "" {
		dst.ApplicationVersion = src.ApplicationVersion
	}
	if src.SystemLanguageCode != "" {
		dst.SystemLanguageCode = src.SystemLanguageCode
	}
	if src.Proxy != nil {
		dst.Proxy = src.Proxy
	}
}
