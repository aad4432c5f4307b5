package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite::memory:")
	t.Setenv("BLOB_BACKEND", "")
	t.Setenv("ESCALATION_MODE", "")
	t.Setenv("REUSE_EMPTY_CONVERSATION", "")
	t.Setenv("MATCHER_STOP_WORDS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, BlobBackendLocal, cfg.BlobBackend)
	assert.Equal(t, "./uploads", cfg.UploadDir)
	assert.Equal(t, EscalationModePending, cfg.EscalationMode)
	assert.False(t, cfg.ReuseEmptyConversation)
	assert.Empty(t, cfg.MatcherStopWords)
	assert.True(t, cfg.IsTest())
}

func TestLoadChatSettings(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite::memory:")
	t.Setenv("ESCALATION_MODE", EscalationModeAutoRespond)
	t.Setenv("REUSE_EMPTY_CONVERSATION", "true")
	t.Setenv("MATCHER_STOP_WORDS", "the, is ,a")
	t.Setenv("ALLOWED_ORIGINS", "https://support.example.com,https://admin.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EscalationModeAutoRespond, cfg.EscalationMode)
	assert.True(t, cfg.ReuseEmptyConversation)
	assert.Equal(t, []string{"the", "is", "a"}, cfg.MatcherStopWords)
	assert.Equal(t, []string{"https://support.example.com", "https://admin.example.com"}, cfg.AllowedOrigins)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{
			name:    "missing database url",
			config:  Config{BlobBackend: BlobBackendLocal, EscalationMode: EscalationModePending},
			wantErr: "DATABASE_URL is required",
		},
		{
			name:    "s3 without bucket",
			config:  Config{DatabaseURL: "x", BlobBackend: BlobBackendS3, EscalationMode: EscalationModePending},
			wantErr: "AWS_S3_BUCKET is required",
		},
		{
			name:    "minio without bucket",
			config:  Config{DatabaseURL: "x", BlobBackend: BlobBackendMinio, EscalationMode: EscalationModePending},
			wantErr: "MINIO_BUCKET is required",
		},
		{
			name:    "unknown blob backend",
			config:  Config{DatabaseURL: "x", BlobBackend: "ftp", EscalationMode: EscalationModePending},
			wantErr: "unknown BLOB_BACKEND",
		},
		{
			name:    "unknown escalation mode",
			config:  Config{DatabaseURL: "x", BlobBackend: BlobBackendLocal, EscalationMode: "email"},
			wantErr: "unknown ESCALATION_MODE",
		},
		{
			name:   "valid s3 config",
			config: Config{DatabaseURL: "x", BlobBackend: BlobBackendS3, AWSS3Bucket: "attachments", EscalationMode: EscalationModeAutoRespond},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetEnvBoolFallsBackOnInvalidValue(t *testing.T) {
	t.Setenv("SOME_FLAG", "not-a-bool")
	assert.True(t, getEnvBool("SOME_FLAG", true))

	t.Setenv("SOME_FLAG", "false")
	assert.False(t, getEnvBool("SOME_FLAG", true))
}

func TestGetSetConfig(t *testing.T) {
	original := GetConfig()
	defer SetConfig(original)

	cfg := &Config{Port: "9090"}
	SetConfig(cfg)
	assert.Same(t, cfg, GetConfig())
}
