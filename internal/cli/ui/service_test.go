package ui_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nkaewam/catalogctl/internal/cli/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptDefaultsAndEOF(t *testing.T) {
	var out bytes.Buffer
	svc := ui.NewService(strings.NewReader("\n  Sample Oil \nlast"), &out)

	got, err := svc.Prompt("Title", "Untitled")
	require.NoError(t, err)
	assert.Equal(t, "Untitled", got)

	got, err = svc.Prompt("Title", "")
	require.NoError(t, err)
	assert.Equal(t, "Sample Oil", got)

	got, err = svc.Prompt("Size", "")
	require.NoError(t, err)
	assert.Equal(t, "last", got, "final line without newline still counts")

	_, err = svc.Prompt("More", "")
	assert.ErrorIs(t, err, ui.ErrNoInput)
	assert.Contains(t, out.String(), "Title [Untitled]: ")
}

func TestConfirm(t *testing.T) {
	svc := ui.NewService(strings.NewReader("YES\nn\n\n"), &bytes.Buffer{})
	for _, want := range []bool{true, false, false} {
		got, err := svc.Confirm("Delete?")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestTableAndNotices(t *testing.T) {
	var out bytes.Buffer
	svc := ui.NewService(strings.NewReader(""), &out)
	svc.Table([]string{"ID", "TITLE"}, [][]string{{"p1", "Sample Oil"}, {"p22", "Tea"}})
	svc.Success("saved %d", 1)
	svc.Fail("no")

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "ID   TITLE", lines[0])
	assert.Equal(t, "p1   Sample Oil", lines[1])
	assert.Equal(t, "● saved 1", lines[3])
	assert.Equal(t, "❌ no", lines[4])
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	var out bytes.Buffer
	svc := ui.NewService(strings.NewReader(""), &out)
	stop := svc.ShowSpinner("Loading...")
	stop("Loaded")
	stop("Loaded again")
	assert.Equal(t, 1, strings.Count(out.String(), "✔"))
}
