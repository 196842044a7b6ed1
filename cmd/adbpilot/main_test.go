package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/adbpilot/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "adbpilot version "))
}

func TestRunCommand_DryRun(t *testing.T) {
	dir := t.TempDir()
	plan := filepath.Join(dir, "plan.yaml")
	require.NoError(t, os.WriteFile(plan, []byte(`
steps:
  - action: tap
    target: "10,20"
  - action: warp
`), 0644))

	out, err := execute(t, "run", plan, "--dry-run", "--output", "json", "--log-level", "error")
	require.NoError(t, err)

	var report domain.PlanReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.True(t, report.Success)
	require.Len(t, report.Results, 2)
	assert.True(t, report.Results[0].Success)
	assert.Equal(t, "Unknown action: warp", report.Results[1].Error)

	_, err = execute(t, "run", plan, "--dry-run", "--output", "json", "--log-level", "error", "--strict")
	assert.ErrorIs(t, err, errStepsFailed)
}

func TestRunCommand_MissingPlan(t *testing.T) {
	_, err := execute(t, "run", filepath.Join(t.TempDir(), "missing.yaml"), "--dry-run")
	assert.Error(t, err)
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(good, []byte(`{"steps":[{"action":"key","target":"66"}]}`), 0644))
	require.NoError(t, os.WriteFile(bad, []byte("- action: tap\n  target: nowhere\n- action: warp\n"), 0644))

	out, err := execute(t, "validate", good)
	require.NoError(t, err)
	assert.Equal(t, "Plan is valid: 1 step(s)\n", out)

	out, err = execute(t, "validate", bad)
	require.Error(t, err)
	assert.Contains(t, out, "step 1 (tap)")
	assert.Contains(t, out, "step 2 (warp): Unknown action: warp")
}

func TestGraphCommand(t *testing.T) {
	dir := t.TempDir()
	plan := filepath.Join(dir, "plan.yaml")
	report := filepath.Join(dir, "report.json")
	require.NoError(t, os.WriteFile(plan, []byte("- action: wait\n  target: \"100\"\n- action: warp\n"), 0644))
	require.NoError(t, os.WriteFile(report, []byte(`{"success":true,"results":[
		{"step":"wait","success":true},
		{"step":"warp","success":false,"error":"Unknown action: warp"}
	]}`), 0644))

	out, err := execute(t, "graph", plan)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	assert.NotContains(t, out, "classDef")

	out, err = execute(t, "graph", plan, "--report", report)
	require.NoError(t, err)
	assert.Contains(t, out, "class s2 failed;")
}
