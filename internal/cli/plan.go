package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/adbpilot/pkg/domain"
	"gopkg.in/yaml.v3"
)

// ErrNoSteps is returned for a plan document without a steps list.
var ErrNoSteps = errors.New("plan has no steps list")

// LoadPlan reads a plan from path, or from stdin when path is "-".
// JSON is used for .json files, YAML otherwise. The document is either {steps: [...]} or a
// bare list of steps.
func LoadPlan(path string, stdin io.Reader) (domain.Plan, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return domain.Plan{}, fmt.Errorf("failed to read plan: %w", err)
	}

	plan, err := ParsePlan(data, strings.EqualFold(filepath.Ext(path), ".json"))
	if err != nil {
		return domain.Plan{}, fmt.Errorf("invalid plan %s: %w", path, err)
	}
	return plan, nil
}

// ParsePlan decodes a plan document. YAML is a superset of JSON, so asJSON only makes
// errors stricter.
func ParsePlan(data []byte, asJSON bool) (domain.Plan, error) {
	data = bytes.TrimSpace(data)
	if isList(data, asJSON) {
		var steps []domain.Step
		if err := unmarshal(data, asJSON, &steps); err != nil {
			return domain.Plan{}, err
		}
		if steps == nil {
			steps = []domain.Step{}
		}
		return domain.Plan{Steps: steps}, nil
	}

	var plan domain.Plan
	if err := unmarshal(data, asJSON, &plan); err != nil {
		return domain.Plan{}, err
	}
	if plan.Steps == nil {
		return domain.Plan{}, ErrNoSteps
	}
	return plan, nil
}

// isList reports whether the document is a bare list of steps.
func isList(data []byte, asJSON bool) bool {
	if len(data) == 0 {
		return false
	}
	if data[0] == '[' {
		return true
	}
	return !asJSON && data[0] == '-' && !bytes.HasPrefix(data, []byte("---"))
}

func unmarshal(data []byte, asJSON bool, v any) error {
	if asJSON {
		return json.Unmarshal(data, v)
	}
	return yaml.Unmarshal(data, v)
}
