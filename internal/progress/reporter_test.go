package progress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCIReporter(t *testing.T) {
	var buf bytes.Buffer
	r := &CIReporter{Task: "Exporting notes", Out: &buf}

	r.Start(2)
	r.Update(1, "Intro")
	r.Update(2, "Rollups")
	r.Finish()

	assert.Equal(t, "Exporting notes: 2 items\n[1/2] Intro\n[2/2] Rollups\nExporting notes: done\n", buf.String())
}

func TestNewReporterInCI(t *testing.T) {
	t.Setenv("CI", "true")
	r, ok := NewReporter("Exporting notes").(*CIReporter)
	assert.True(t, ok)
	assert.Equal(t, "Exporting notes", r.Task)
}

func TestNewReporterInTerminal(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("GITHUB_ACTIONS", "")
	_, ok := NewReporter("Exporting notes").(*TerminalReporter)
	assert.True(t, ok)
}
