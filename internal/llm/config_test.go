package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.NotEmpty(t, cfg.Models[TierLite])
	assert.NotEmpty(t, cfg.Models[TierStandard])
	assert.NotEmpty(t, cfg.Models[TierAdvanced])
}

func TestGetModel(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
		tier   ModelTier
		want   string
	}{
		{
			name:   "exact tier match",
			config: &Config{Models: map[ModelTier]string{TierLite: "model-a", TierStandard: "model-b"}},
			tier:   TierLite,
			want:   "model-a",
		},
		{
			name:   "missing tier falls back to standard",
			config: &Config{Models: map[ModelTier]string{TierStandard: "model-b"}},
			tier:   TierAdvanced,
			want:   "model-b",
		},
		{
			name:   "missing standard falls back to lite",
			config: &Config{Models: map[ModelTier]string{TierLite: "model-a"}},
			tier:   TierAdvanced,
			want:   "model-a",
		},
		{
			name:   "empty config returns empty string",
			config: &Config{Models: map[ModelTier]string{}},
			tier:   TierStandard,
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.config.GetModel(tt.tier))
		})
	}
}

func TestWithModel(t *testing.T) {
	base := DefaultConfig()
	modified := base.WithModel(TierLite, "custom-model")

	assert.Equal(t, "custom-model", modified.GetModel(TierLite))
	// Original config is unchanged
	assert.NotEqual(t, "custom-model", base.GetModel(TierLite))
	assert.Equal(t, base.GetModel(TierStandard), modified.GetModel(TierStandard))
}
