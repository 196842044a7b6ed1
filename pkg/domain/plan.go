package domain

// Step is one declared intent in a plan.
// The meaning of Target and Text depends on Action (see ActionKind).
type Step struct {
	Action    ActionKind `json:"action" yaml:"action" mapstructure:"action"`
	Target    string     `json:"target,omitempty" yaml:"target,omitempty" mapstructure:"target"`
	Text      string     `json:"text,omitempty" yaml:"text,omitempty" mapstructure:"text"`
	Reasoning string     `json:"reasoning,omitempty" yaml:"reasoning,omitempty" mapstructure:"reasoning"`
	Browser   string     `json:"browser,omitempty" yaml:"browser,omitempty" mapstructure:"browser"`
	Subject   string     `json:"subject,omitempty" yaml:"subject,omitempty" mapstructure:"subject"`

	// Rejected marks a step refused before execution, e.g. by input sanitization.
	// The executor records it as a failed result without touching the device.
	Rejected error `json:"-" yaml:"-" mapstructure:"-"`
}

// Plan is an ordered sequence of steps.
// Order is significant: each step relies on the device state left by the previous one.
type Plan struct {
	Steps []Step `json:"steps" yaml:"steps" mapstructure:"steps"`
}

// StepOutcome is what a successful handler observed.
type StepOutcome struct {
	Output string
}

// StepResult is the reported outcome of one step.
type StepResult struct {
	Step      ActionKind `json:"step" yaml:"step"`
	Reasoning string     `json:"reasoning,omitempty" yaml:"reasoning,omitempty"`
	Success   bool       `json:"success" yaml:"success"`
	Output    string     `json:"output,omitempty" yaml:"output,omitempty"`
	Error     string     `json:"error,omitempty" yaml:"error,omitempty"`
}

// PlanReport is the ordered list of step results.
// Success is always true: failures are step-local.
type PlanReport struct {
	Success bool         `json:"success" yaml:"success"`
	Results []StepResult `json:"results" yaml:"results"`
	RunID   string       `json:"run_id,omitempty" yaml:"run_id,omitempty"`
}

// Failed returns the number of failed steps.
func (r PlanReport) Failed() int {
	n := 0
	for _, res := range r.Results {
		if !res.Success {
			n++
		}
	}
	return n
}
