package serve_test

import (
	"context"
	"io"
	"testing"

	"fjacquet/fin-insights/cmd/root"
	"fjacquet/fin-insights/cmd/serve"
	"fjacquet/fin-insights/internal/config"
	"fjacquet/fin-insights/internal/container"
	"fjacquet/fin-insights/internal/logging"
	"fjacquet/fin-insights/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupContainer(t *testing.T) *container.Container {
	t.Helper()
	cfg := &config.Config{
		Log:      config.LogConfig{Level: "info", Format: "text"},
		Data:     config.DataConfig{Backend: config.BackendYAML, Directory: t.TempDir()},
		Insights: models.DefaultInsightPolicy(),
	}
	c, err := container.NewContainerWithLogger(cfg, logging.NewMockLogger())
	require.NoError(t, err)
	root.SetContainer(c)
	t.Cleanup(func() {
		root.SetContainer(nil)
		_ = c.Close()
	})
	return c
}

func TestServeCommand_Flags(t *testing.T) {
	assert.Equal(t, "serve", serve.Cmd.Use)
	flag := serve.Cmd.Flags().Lookup("addr")
	require.NotNil(t, flag)
	assert.Equal(t, "l", flag.Shorthand)
}

func TestServeCommand_StopsOnCancel(t *testing.T) {
	setupContainer(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	serve.Cmd.SetOut(io.Discard)
	serve.Cmd.SetArgs([]string{"--addr", "127.0.0.1:0"})
	assert.NoError(t, serve.Cmd.ExecuteContext(ctx))
}

func TestServeCommand_BadAddress(t *testing.T) {
	setupContainer(t)

	serve.Cmd.SetOut(io.Discard)
	serve.Cmd.SetErr(io.Discard)
	serve.Cmd.SetArgs([]string{"--addr", "not-an-address"})
	err := serve.Cmd.ExecuteContext(context.Background())
	assert.ErrorContains(t, err, "server failed")
}
