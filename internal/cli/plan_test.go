package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/adbpilot/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPlan(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		return path
	}

	want := []domain.Step{
		{Action: domain.ActionOpenApp, Target: "com.android.chrome", Reasoning: "open browser"},
		{Action: domain.ActionWait, Target: "500"},
	}

	t.Run("YAML document", func(t *testing.T) {
		path := write("plan.yaml", `
steps:
  - action: open_app
    target: com.android.chrome
    reasoning: open browser
  - action: wait
    target: 500
`)
		plan, err := LoadPlan(path, nil)
		require.NoError(t, err)
		assert.Equal(t, want, plan.Steps)
	})

	t.Run("JSON document", func(t *testing.T) {
		path := write("plan.json", `{"steps":[
			{"action":"open_app","target":"com.android.chrome","reasoning":"open browser"},
			{"action":"wait","target":"500"}]}`)
		plan, err := LoadPlan(path, nil)
		require.NoError(t, err)
		assert.Equal(t, want, plan.Steps)
	})

	t.Run("bare list from stdin", func(t *testing.T) {
		plan, err := LoadPlan("-", strings.NewReader(`- action: key
  target: "3"
`))
		require.NoError(t, err)
		assert.Equal(t, []domain.Step{{Action: domain.ActionKey, Target: "3"}}, plan.Steps)
	})

	t.Run("missing steps", func(t *testing.T) {
		path := write("empty.yaml", "name: nothing\n")
		_, err := LoadPlan(path, nil)
		assert.ErrorIs(t, err, ErrNoSteps)
	})

	t.Run("empty steps", func(t *testing.T) {
		path := write("none.json", `{"steps":[]}`)
		plan, err := LoadPlan(path, nil)
		require.NoError(t, err)
		assert.Empty(t, plan.Steps)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		path := write("bad.json", `{"steps":`)
		_, err := LoadPlan(path, nil)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadPlan(filepath.Join(dir, "nope.yaml"), nil)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
