package types

import (
	"errors"
	"time"
)

// Supported store backend names.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// DefaultPromptTimeout is the deadline for free-text prompts.
const DefaultPromptTimeout = 60 * time.Second

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrTokenEmpty     = errors.New("telegram token must not be empty")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendJSON:   true,
	BackendSQLite: true,
}

// TelegramConfig holds the chat platform settings.
type TelegramConfig struct {
	// Token is the bot API token.
	Token string `json:"token" yaml:"token" mapstructure:"token"`

	// LogChatID is the chat that receives the action report after every
	// committed mutation.
	LogChatID int64 `json:"log_chat_id" yaml:"log_chat_id" mapstructure:"log_chat_id"`

	// AnnounceChatID is the chat that receives the readiness notice on
	// startup. Zero disables the announcement.
	AnnounceChatID int64 `json:"announce_chat_id" yaml:"announce_chat_id" mapstructure:"announce_chat_id"`
}

// Config holds backend selection and bot parameters.
type Config struct {
	Backend string `json:"backend" yaml:"backend" mapstructure:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`

	Telegram TelegramConfig `json:"telegram" yaml:"telegram" mapstructure:"telegram"`

	// PromptTimeout bounds how long a session waits for free-text input.
	// Zero means DefaultPromptTimeout.
	PromptTimeout time.Duration `json:"prompt_timeout" yaml:"prompt_timeout" mapstructure:"prompt_timeout"`
}

// Validate checks that the Config is well-formed for opening a store.
// It returns a sentinel error from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	return nil
}

// EffectivePromptTimeout returns PromptTimeout or the default when unset.
func (c Config) EffectivePromptTimeout() time.Duration {
	if c.PromptTimeout <= 0 {
		return DefaultPromptTimeout
	}
	return c.PromptTimeout
}
