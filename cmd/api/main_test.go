package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/vetclinic-service/internal/config"
	"github.com/spec-kit/vetclinic-service/internal/ratelimit"
)

func TestRootCommand_HasExpectedSubcommands(t *testing.T) {
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	for _, sub := range []string{"serve", "migrate", "create-vet", "sessions"} {
		assert.Contains(t, output, sub, "Help missing %q command", sub)
	}
}

func TestMigrateCommand_HasSubcommands(t *testing.T) {
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"migrate", "--help"})

	require.NoError(t, cmd.Execute())
	for _, sub := range []string{"up", "down", "version"} {
		assert.Contains(t, buf.String(), sub)
	}
}

func TestCreateVetCommand_RequiresFlags(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"create-vet", "--email", "vet@test.com"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestRequirePostgres(t *testing.T) {
	assert.NoError(t, requirePostgres(&config.Config{Storage: config.StorageConfig{Driver: config.DriverPostgres}}))
	assert.Error(t, requirePostgres(&config.Config{Storage: config.StorageConfig{Driver: config.DriverMongo}}))
}

func TestBuildLimiters(t *testing.T) {
	rule := config.LimitRule{Max: 1, Window: time.Minute}
	cfg := config.RateLimitConfig{General: rule, Auth: rule, Anamnese: rule}

	disabled := buildLimiters(cfg, ratelimit.NewMemoryStore(), zap.NewNop())
	assert.Nil(t, disabled.General)
	assert.Nil(t, disabled.Auth)

	cfg.Enabled = true
	enabled := buildLimiters(cfg, ratelimit.NewMemoryStore(), zap.NewNop())
	assert.NotNil(t, enabled.General)
	assert.NotNil(t, enabled.Auth)
	assert.NotNil(t, enabled.Anamnese)
}
