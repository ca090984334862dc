package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/workspace"
)

func TestStatusChecksReflectsWhichStagesHaveRun(t *testing.T) {
	root := t.TempDir()
	ws, err := workspace.Resolve(root, "discrete audio tokens")
	require.NoError(t, err)

	checks := statusChecks(ws)
	require.NotEmpty(t, checks)
	for _, c := range checks {
		assert.False(t, workspace.Exists(c.path), "stage %q should not be done in a fresh workspace", c.stage)
	}

	seedCheck := checks[0]
	require.NoError(t, os.MkdirAll(filepath.Dir(seedCheck.path), 0o755))
	require.NoError(t, os.WriteFile(seedCheck.path, []byte("{}"), 0o644))

	checks = statusChecks(ws)
	assert.True(t, workspace.Exists(checks[0].path))
	for _, c := range checks[1:] {
		assert.False(t, workspace.Exists(c.path))
	}
}
