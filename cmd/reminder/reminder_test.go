package reminder_test

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"fjacquet/fin-insights/cmd/reminder"
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

func TestReminderCommand_Lifecycle(t *testing.T) {
	c := setupContainer(t)
	today := time.Now().Format("2006-01-02")

	out, err := run(t, reminder.Cmd, "add", "--title", "Pay rent", "--due", today, "--note", "landlord")
	require.NoError(t, err)
	assert.Contains(t, out, "Added reminder")

	reminders, err := c.GetReminders().List(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	id := reminders[0].ID

	out, err = run(t, reminder.Cmd, "due")
	require.NoError(t, err)
	assert.Contains(t, out, "Pay rent")

	out, err = run(t, reminder.Cmd, "snooze", id, "--days", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Snoozed reminder "+id)

	out, err = run(t, reminder.Cmd, "due")
	require.NoError(t, err)
	assert.NotContains(t, out, "Pay rent")

	_, err = run(t, reminder.Cmd, "dismiss", id)
	require.NoError(t, err)

	out, err = run(t, reminder.Cmd, "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "Pay rent")

	out, err = run(t, reminder.Cmd, "list", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "Pay rent")
}

func TestReminderCommand_Errors(t *testing.T) {
	setupContainer(t)

	_, err := run(t, reminder.Cmd, "add", "--title", "x", "--due", "whenever")
	assert.ErrorContains(t, err, "not a valid date")

	_, err = run(t, reminder.Cmd, "dismiss", "missing")
	assert.ErrorContains(t, err, "not found")

	_, err = run(t, reminder.Cmd, "dismiss")
	assert.Error(t, err)
}
