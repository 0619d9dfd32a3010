package budget_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"fjacquet/fin-insights/cmd/budget"
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

func TestBudgetCommand_Metadata(t *testing.T) {
	assert.Equal(t, "budget", budget.Cmd.Use)
	names := []string{}
	for _, c := range budget.Cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"set", "status", "list", "delete"}, names)
}

func TestBudgetCommand_Lifecycle(t *testing.T) {
	c := setupContainer(t)

	out, err := run(t, budget.Cmd, "set", "--category", "Groceries", "--amount", "400", "--period", "weekly")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved weekly budget")
	assert.Contains(t, out, "400.00 (Groceries)")

	budgets, err := c.GetCalculator().ListBudgets(context.Background())
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	id := budgets[0].ID

	out, err = run(t, budget.Cmd, "list")
	require.NoError(t, err)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "weekly")

	out, err = run(t, budget.Cmd, "status", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Groceries")
	assert.Contains(t, out, "false")

	out, err = run(t, budget.Cmd, "delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted budget "+id)

	_, err = run(t, budget.Cmd, "status", id)
	assert.ErrorContains(t, err, "not found")
}

func TestBudgetCommand_InvalidInput(t *testing.T) {
	setupContainer(t)

	_, err := run(t, budget.Cmd, "set", "--amount", "abc")
	assert.ErrorContains(t, err, "not a valid amount")

	_, err = run(t, budget.Cmd, "set", "--amount", "10", "--period", "yearly")
	assert.ErrorContains(t, err, "must be monthly or weekly")
}
