package main

import (
	"os"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestEnvOverridesFlagDefaults(t *testing.T) {
	t.Setenv("CONVERSE_RATE_LIMIT_RPS", "3")
	t.Setenv("CONVERSE_RATE_LIMIT_BURST", "6")
	t.Setenv("CONVERSE_INSTANCE_URL", "https://chat.example.com")
	t.Setenv("CONVERSE_DRIVER", "postgres")

	assert.Equal(t, 3, viper.GetInt("rate-limit-rps"))
	assert.Equal(t, 6, viper.GetInt("rate-limit-burst"))
	assert.Equal(t, "https://chat.example.com", viper.GetString("instance-url"))
	assert.Equal(t, "postgres", viper.GetString("driver"))
}

func TestFlagDefaultsWithoutEnv(t *testing.T) {
	for _, key := range []string{"CONVERSE_RATE_LIMIT_RPS", "CONVERSE_RATE_LIMIT_BURST", "CONVERSE_DRIVER", "CONVERSE_PORT"} {
		os.Unsetenv(key)
	}

	assert.Equal(t, 10, viper.GetInt("rate-limit-rps"))
	assert.Equal(t, 20, viper.GetInt("rate-limit-burst"))
	assert.Equal(t, "sqlite", viper.GetString("driver"))
	assert.Equal(t, 8081, viper.GetInt("port"))
}
