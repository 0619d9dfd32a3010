package importer_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/fin-insights/cmd/importer"
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

func TestImportCommand(t *testing.T) {
	c := setupContainer(t)
	path := filepath.Join(t.TempDir(), "january.csv")
	require.NoError(t, os.WriteFile(path, []byte(`date,amount,type,merchant,notes,category
2025-01-03,-12.50,,Starbucks,,
2025-01-05,"3'000",income,ACME Paycheck,,Salary
`), 0600))

	out, err := run(t, importer.Cmd, path)
	require.NoError(t, err)
	assert.Contains(t, out, "2 imported")
	assert.Contains(t, out, "1 classified")

	txs, err := c.GetStore().ListTransactions(context.Background(), models.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, models.CategoryFoodAndDrink, txs[0].Category)
	assert.Equal(t, "3000", txs[1].Amount.String())
}

func TestImportCommand_Errors(t *testing.T) {
	setupContainer(t)

	_, err := run(t, importer.Cmd)
	assert.Error(t, err)

	_, err = run(t, importer.Cmd, filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorContains(t, err, "file does not exist")

	bad := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("date,amount\nnope,1\n"), 0600))
	_, err = run(t, importer.Cmd, bad)
	assert.ErrorContains(t, err, "row 2")
}
