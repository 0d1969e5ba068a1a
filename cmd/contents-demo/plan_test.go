package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/saylorsolutions/contents/errorsx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPlan = `
parallel: true
scenes:
  - name: title
    boot_delay: 5ms
    children:
      - name: menu
      - name: music
        boot_delay: 1ms
  - name: hud
`

func TestLoadPlan(t *testing.T) {
	plan, err := LoadPlan(strings.NewReader(testPlan))
	require.NoError(t, err)
	assert.True(t, plan.Parallel)
	require.Len(t, plan.Scenes, 2)
	assert.Equal(t, "title", plan.Scenes[0].Name)
	assert.Equal(t, 5*time.Millisecond, plan.Scenes[0].BootDelay)
	require.Len(t, plan.Scenes[0].Children, 2)
	assert.Equal(t, time.Millisecond, plan.Scenes[0].Children[1].BootDelay)
	assert.Equal(t, 4, plan.Count())
}

func TestLoadPlan_Invalid(t *testing.T) {
	tests := map[string]struct {
		input    string
		argument bool
	}{
		"Empty":          {input: "", argument: true},
		"No scenes":      {input: "parallel: true\n", argument: true},
		"Missing name":   {input: "scenes:\n  - boot_delay: 1ms\n", argument: true},
		"Nested missing": {input: "scenes:\n  - name: a\n    children:\n      - {}\n", argument: true},
		"Negative delay": {input: "scenes:\n  - name: a\n    boot_delay: -1s\n", argument: true},
		"Unknown field":  {input: "scenes:\n  - name: a\n    delay: 1s\n"},
		"Bad duration":   {input: "scenes:\n  - name: a\n    boot_delay: soon\n"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadPlan(strings.NewReader(tc.input))
			require.Error(t, err)
			if tc.argument {
				assert.ErrorIs(t, err, errorsx.ErrArgument)
			}
		})
	}
}

func TestDefaultPlan(t *testing.T) {
	plan := DefaultPlan()
	assert.NoError(t, plan.Validate())
	assert.Equal(t, 5, plan.Count())
}

func TestLoadPlanFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testPlan), 0o600))
	plan, err := LoadPlanFile(path)
	require.NoError(t, err)
	assert.Equal(t, 4, plan.Count())

	_, err = LoadPlanFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
