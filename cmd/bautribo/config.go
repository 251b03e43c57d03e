// Config loading for the bautribo CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/k4doshh/bau-tribo/internal/paths"
	"github.com/k4doshh/bau-tribo/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// Config keys.
	cfgKeyBackend        = "backend"
	cfgKeyDataDir        = "data_dir"
	cfgKeyToken          = "telegram.token"
	cfgKeyLogChatID      = "telegram.log_chat_id"
	cfgKeyAnnounceChatID = "telegram.announce_chat_id"
	cfgKeyPromptTimeout  = "prompt_timeout"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# bau-tribo configuration

# Store backend: json or sqlite
backend: json

# Data directory (optional; overridable by --data-dir flag)
# data_dir:

telegram:
  # Bot API token; may also be set through the BAUTRIBO_TOKEN env var.
  # token:

  # Chat that receives the action report after every committed mutation.
  # log_chat_id:

  # Chat that receives the readiness notice on startup.
  # announce_chat_id:

# Deadline for free-text prompts.
prompt_timeout: 60s
`

// loadConfig reads config.yaml from the resolved config directory using
// Viper. It creates the config directory and a default config.yaml on first
// run. A missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendJSON)
	v.SetDefault(cfgKeyPromptTimeout, types.DefaultPromptTimeout)
	if err := v.BindEnv(cfgKeyToken, "BAUTRIBO_TOKEN"); err != nil {
		return nil, err
	}

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	return v, nil
}

// buildConfig assembles the runtime Config from viper values and the
// data-dir precedence chain.
func buildConfig(v *viper.Viper) (types.Config, error) {
	dataDir, err := paths.ResolveDataDir(flagDataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, err
	}

	return types.Config{
		Backend: v.GetString(cfgKeyBackend),
		DataDir: dataDir,
		Telegram: types.TelegramConfig{
			Token:          v.GetString(cfgKeyToken),
			LogChatID:      v.GetInt64(cfgKeyLogChatID),
			AnnounceChatID: v.GetInt64(cfgKeyAnnounceChatID),
		},
		PromptTimeout: v.GetDuration(cfgKeyPromptTimeout),
	}, nil
}

// ensureConfigDir creates the config directory if it does not exist.
func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
