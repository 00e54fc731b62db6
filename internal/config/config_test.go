package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NotNil(t, cfg)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "both", cfg.Logging.Output)
	assert.Equal(t, "data/uploads", cfg.Paths.UploadsDir)
	assert.Equal(t, 2*time.Minute, cfg.Analysis.Timeout)
	assert.True(t, cfg.Security.RateLimit.Enabled)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "default config is valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Server.Port = -1 },
			wantErr: "invalid server port",
		},
		{
			name:    "zero read timeout",
			mutate:  func(c *Config) { c.Server.ReadTimeout = 0 },
			wantErr: "read timeout must be positive",
		},
		{
			name:    "no allowed origins",
			mutate:  func(c *Config) { c.Security.AllowedOrigins = nil },
			wantErr: "allowed origin",
		},
		{
			name:    "zero analysis timeout",
			mutate:  func(c *Config) { c.Analysis.Timeout = 0 },
			wantErr: "analysis timeout must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateNormalizesLogging(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "xml"
	cfg.Logging.Output = "syslog"
	cfg.Logging.FilePath = ""

	require.NoError(t, cfg.validate())
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "both", cfg.Logging.Output)
	assert.Equal(t, "logs/app.log", cfg.Logging.FilePath)
}

func TestMergeConfigs(t *testing.T) {
	fileCfg := Config{}
	fileCfg.Server.Port = 9090
	fileCfg.Paths.UploadsDir = "custom/uploads"
	fileCfg.Analysis.Timeout = 5 * time.Minute

	envCfg := Config{}
	envCfg.Server.Port = 7070 // env wins

	merged := mergeConfigs(fileCfg, envCfg)
	assert.Equal(t, 7070, merged.Server.Port)
	assert.Equal(t, "custom/uploads", merged.Paths.UploadsDir)
	assert.Equal(t, 5*time.Minute, merged.Analysis.Timeout)
}

func TestResolvePath(t *testing.T) {
	cfg := Default()
	abs := cfg.resolvePath("/var/lib/assess")
	assert.Equal(t, "/var/lib/assess", abs)

	rel := cfg.resolvePath("data/uploads")
	assert.NotEqual(t, "data/uploads", rel)
	assert.Contains(t, rel, "data/uploads")
}
