package workflow

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tyatlocalbzz/localbzz-app/internal/models"
)

// NoParent marks a planned step without a dependency.
const NoParent = -1

// PlannedStep is a step together with the position of its parent step in
// the same Plan, or NoParent.
type PlannedStep struct {
	Step   models.WorkflowStep
	Parent int
}

// Plan is a template's steps in execution order. Every Parent index is
// strictly smaller than the index of the step that holds it.
type Plan struct {
	Steps []PlannedStep
}

// NewPlan orders steps by step_order and links each dependency to the
// position of the step it names. References that do not point at an
// earlier step are dropped, so the step runs without a parent.
func NewPlan(steps []models.WorkflowStep) Plan {
	sorted := make([]models.WorkflowStep, len(steps))
	copy(sorted, steps)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StepOrder < sorted[j].StepOrder
	})

	plan := Plan{Steps: make([]PlannedStep, len(sorted))}
	position := make(map[int]int, len(sorted))
	for i, s := range sorted {
		parent := NoParent
		if s.IsDependentOnStep != nil {
			if j, ok := position[*s.IsDependentOnStep]; ok {
				parent = j
			}
		}
		plan.Steps[i] = PlannedStep{Step: s, Parent: parent}
		position[s.StepOrder] = i
	}
	return plan
}

// Len returns the number of planned steps.
func (p Plan) Len() int { return len(p.Steps) }

// ValidateSteps checks a template's steps at authoring time: at least one
// step, unique step orders, titles present, known task types and anchors,
// and dependencies that name an existing step with a smaller order.
// Generation does not call it; NewPlan tolerates invalid references.
func ValidateSteps(steps []models.WorkflowStep) error {
	if len(steps) == 0 {
		return fmt.Errorf("workflow: invalid template: at least one step is required")
	}

	orders := make(map[int]bool, len(steps))
	for _, s := range steps {
		orders[s.StepOrder] = true
	}

	var errs []string
	seen := make(map[int]bool, len(steps))
	for i, s := range steps {
		if seen[s.StepOrder] {
			errs = append(errs, fmt.Sprintf("steps[%d].step_order %d is duplicated", i, s.StepOrder))
		}
		seen[s.StepOrder] = true
		if strings.TrimSpace(s.TitleTemplate) == "" {
			errs = append(errs, fmt.Sprintf("steps[%d].title_template is required", i))
		}
		if !models.Contains(models.TaskTypes, s.TaskType) {
			errs = append(errs, fmt.Sprintf("steps[%d].task_type %q is not valid", i, s.TaskType))
		}
		switch Anchor(s.DateAnchor) {
		case AnchorStartDate, AnchorEndOfMonth, "":
		default:
			errs = append(errs, fmt.Sprintf("steps[%d].date_anchor %q is not valid", i, s.DateAnchor))
		}
		if dep := s.IsDependentOnStep; dep != nil {
			switch {
			case *dep >= s.StepOrder:
				errs = append(errs, fmt.Sprintf("steps[%d] depends on step %d, which does not come before step %d", i, *dep, s.StepOrder))
			case !orders[*dep]:
				errs = append(errs, fmt.Sprintf("steps[%d] depends on missing step %d", i, *dep))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("workflow: invalid template: %s", strings.Join(errs, "; "))
	}
	return nil
}
