package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:   "json backend accepted",
			config: Config{Backend: BackendJSON},
		},
		{
			name:   "sqlite backend accepted",
			config: Config{Backend: BackendSQLite},
		},
		{
			name:    "empty backend rejected",
			config:  Config{},
			wantErr: ErrBackendEmpty,
		},
		{
			name:    "unknown backend rejected",
			config:  Config{Backend: "postgres"},
			wantErr: ErrBackendUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigEffectivePromptTimeout(t *testing.T) {
	assert.Equal(t, DefaultPromptTimeout, Config{}.EffectivePromptTimeout())
	assert.Equal(t, DefaultPromptTimeout, Config{PromptTimeout: -time.Second}.EffectivePromptTimeout())
	assert.Equal(t, 5*time.Second, Config{PromptTimeout: 5 * time.Second}.EffectivePromptTimeout())
}
