package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/adbpilot/internal/runtime"
	"github.com/aretw0/adbpilot/pkg/device"
	"github.com/aretw0/adbpilot/pkg/domain"
)

// Overlay carries the outcome of a run to paint on top of the plan.
type Overlay struct {
	Results []domain.StepResult
}

// OverlayFromReport builds an Overlay from a finished report.
func OverlayFromReport(report domain.PlanReport) *Overlay {
	return &Overlay{Results: report.Results}
}

// messagingStages is the order the messaging sequence walks through.
var messagingStages = []runtime.MessagingState{
	runtime.StateMeasuring,
	runtime.StateAppLaunching,
	runtime.StateSearchOpen,
	runtime.StateRecipientEntered,
	runtime.StateResultSelected,
	runtime.StateMessageTyped,
	runtime.StateSendResolved,
}

// GenerateMermaid produces a Mermaid flowchart for a plan.
// Steps are chained in order between a start and an end marker.
// Shapes follow the action:
// - wait: {{Hexagon}}
// - whatsapp: [[Subroutine]], expanded into a subgraph of its stages
// - type/key: [/Parallelogram/]
// - unknown actions: >Flag]
// - default: [Rectangle]
// When an overlay is given, steps are classed ok/failed by result index.
func GenerateMermaid(plan domain.Plan, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	sb.WriteString("    start((\"start\"))\n")

	prev := "start"
	for i, step := range plan.Steps {
		id := stepID(i)
		label := stepLabel(i, step)

		opener, closer := "[", "]"
		switch {
		case !step.Action.Known():
			opener, closer = ">", "]"
		case step.Action == domain.ActionWait:
			opener, closer = "{{", "}}"
		case step.Action == domain.ActionMessagingSend:
			opener, closer = "[[", "]]"
		case step.Action == domain.ActionType || step.Action == domain.ActionKey:
			opener, closer = "[/", "/]"
		}

		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", id, opener, label, closer)
		fmt.Fprintf(&sb, "    %s --> %s\n", prev, id)
		if step.Action == domain.ActionMessagingSend {
			writeMessagingStages(&sb, id)
		}
		prev = id
	}

	sb.WriteString("    finish((\"end\"))\n")
	fmt.Fprintf(&sb, "    %s --> finish\n", prev)

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for contrast on light fills in either theme
		sb.WriteString("    classDef ok fill:#e8f5e9,stroke:#2e7d32,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef failed fill:#ffebee,stroke:#c62828,stroke-width:4px,color:#000;\n")
		for i, res := range overlay.Results {
			if i >= len(plan.Steps) {
				break
			}
			class := "ok"
			if !res.Success {
				class = "failed"
			}
			fmt.Fprintf(&sb, "    class %s %s;\n", stepID(i), class)
		}
	}

	return sb.String()
}

func writeMessagingStages(sb *strings.Builder, parent string) {
	fmt.Fprintf(sb, "    subgraph %s_stages [\"messaging\"]\n", parent)
	prev := ""
	for _, stage := range messagingStages {
		id := parent + "_" + string(stage)
		fmt.Fprintf(sb, "        %s(\"%s\")\n", id, stage)
		if prev != "" {
			fmt.Fprintf(sb, "        %s --> %s\n", prev, id)
		}
		prev = id
	}
	sb.WriteString("    end\n")
	fmt.Fprintf(sb, "    %s -.- %s_stages\n", parent, parent)
}

func stepID(i int) string {
	return fmt.Sprintf("s%d", i+1)
}

func stepLabel(i int, step domain.Step) string {
	label := fmt.Sprintf("%d. %s", i+1, sanitizeLabel(string(step.Action)))
	if detail := stepDetail(step); detail != "" {
		label += " <br/> " + sanitizeLabel(detail)
	}
	return label
}

func stepDetail(step domain.Step) string {
	switch step.Action {
	case domain.ActionWait:
		if step.Target == "" {
			return fmt.Sprintf("%dms", runtime.DefaultWait.Milliseconds())
		}
		return step.Target + "ms"
	case domain.ActionType:
		return truncate(step.Text, 32)
	case domain.ActionMessagingSend:
		return "to " + step.Target
	case domain.ActionKey:
		if name := device.KeyName(step.Target); name != "" {
			return fmt.Sprintf("%s (%s)", step.Target, name)
		}
	}
	return truncate(step.Target, 32)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// sanitizeLabel keeps a label from terminating its quoted Mermaid string.
func sanitizeLabel(s string) string {
	s = strings.ReplaceAll(s, "\"", "'")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
