package handlers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mbrennan-au/ccsteer/internal/resize"
)

var (
	planColorBlue  = lipgloss.Color("#3b82f6")
	planColorDim   = lipgloss.Color("#6b7280")
	planColorWhite = lipgloss.Color("#f9fafb")
	planColorGreen = lipgloss.Color("#22c55e")
)

// planStyles carries the render styles; unstyled output uses zero
// styles so piped output stays plain text.
type planStyles struct {
	title   lipgloss.Style
	section lipgloss.Style
	dim     lipgloss.Style
	done    lipgloss.Style
}

func newPlanStyles(styled bool) planStyles {
	if !styled {
		return planStyles{
			title:   lipgloss.NewStyle(),
			section: lipgloss.NewStyle(),
			dim:     lipgloss.NewStyle(),
			done:    lipgloss.NewStyle(),
		}
	}
	return planStyles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(planColorWhite),
		section: lipgloss.NewStyle().Bold(true).Foreground(planColorBlue),
		dim:     lipgloss.NewStyle().Foreground(planColorDim),
		done:    lipgloss.NewStyle().Foreground(planColorGreen),
	}
}

// renderResizePlan produces the stepped-plan table.
func renderResizePlan(current, target resize.Spec, steps []resize.Step, lim resize.Limits, styled bool) string {
	s := newPlanStyles(styled)
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(s.title.Render("  ccsteer resize plan"))
	b.WriteString("\n")
	b.WriteString(s.dim.Render("  " + strings.Repeat("═", 30)))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "    Current:  %s\n", formatSpec(current))
	fmt.Fprintf(&b, "    Target:   %s\n", formatSpec(target))
	b.WriteString("\n")

	if len(steps) == 0 {
		b.WriteString(s.done.Render("  Nothing to do: the disk is already at the target capacity."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(s.section.Render("  Steps"))
	b.WriteString("\n")
	b.WriteString(s.dim.Render("  " + strings.Repeat("─", 44)))
	b.WriteString("\n")
	b.WriteString(s.dim.Render(fmt.Sprintf("  %4s  %-18s %s", "#", "Call", "Resulting configuration")))
	b.WriteString("\n")

	state := resize.PlanStart(current, target, lim)
	if state.Speed != current.Speed {
		b.WriteString(s.dim.Render(fmt.Sprintf("  A conversion to %s precedes the capacity steps.", state.Speed)))
		b.WriteString("\n")
	}
	for i, step := range steps {
		state = resize.Apply(state, step)
		fmt.Fprintf(&b, "  %4d  %-18s %s\n", i+1, formatStep(step), formatSpec(state))
	}

	b.WriteString(s.dim.Render("  " + strings.Repeat("─", 44)))
	b.WriteString("\n")
	b.WriteString(s.done.Render(fmt.Sprintf("  %d calls, each awaited to NORMAL before the next.", len(steps))))
	b.WriteString("\n")
	return b.String()
}

func formatStep(step resize.Step) string {
	switch step.Kind {
	case resize.StepIOPS:
		return fmt.Sprintf("set IOPS %d", step.Value)
	case resize.StepSize:
		return fmt.Sprintf("set size %dGB", step.Value)
	default:
		return string(step.Kind)
	}
}

func formatSpec(spec resize.Spec) string {
	if spec.Speed == "" {
		return fmt.Sprintf("%dGB", spec.SizeGB)
	}
	if spec.IOPS == 0 {
		return fmt.Sprintf("%dGB %s", spec.SizeGB, spec.Speed)
	}
	return fmt.Sprintf("%dGB %s at %d IOPS", spec.SizeGB, spec.Speed, spec.IOPS)
}
