package confirm_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"fjacquet/fin-insights/cmd/confirm"
	"fjacquet/fin-insights/cmd/root"
	"fjacquet/fin-insights/internal/config"
	"fjacquet/fin-insights/internal/container"
	"fjacquet/fin-insights/internal/logging"
	"fjacquet/fin-insights/internal/models"

	"github.com/spf13/cobra"
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

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestConfirmCommand_Flags(t *testing.T) {
	assert.Equal(t, "confirm", confirm.Cmd.Use)
	for _, name := range []string{"merchant", "category", "canonical"} {
		assert.NotNil(t, confirm.Cmd.Flags().Lookup(name), name)
	}
}

func TestConfirmCommand_SavesMapping(t *testing.T) {
	c := setupContainer(t)
	ctx := context.Background()

	out, err := run(t, confirm.Cmd, "--merchant", "FRESSNAPF #123", "--category", "Pets", "--canonical", "Fressnapf")
	require.NoError(t, err)
	assert.Contains(t, out, "-> Pets (Fressnapf)")

	mappings, err := c.GetCategorizer().Mappings(ctx)
	require.NoError(t, err)
	require.Len(t, mappings, 1)
	assert.Equal(t, "Pets", mappings[0].Category)
}

func TestConfirmCommand_MissingCategory(t *testing.T) {
	setupContainer(t)

	_, err := run(t, confirm.Cmd, "--merchant", "Coop", "--category", " ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "category")
}
