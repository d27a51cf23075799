package models

// Step date anchors.
const (
	AnchorStartDate  = "start_date"
	AnchorEndOfMonth = "end_of_month"
)

// WorkflowTemplate is a named, ordered set of steps that expands into tasks.
type WorkflowTemplate struct {
	ID          string `gorm:"primaryKey;size:36" json:"id"`
	Name        string `gorm:"not null;index" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	Steps []WorkflowStep `gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE" json:"steps,omitempty"`
}

// WorkflowStep is one task blueprint within a template. IsDependentOnStep
// refers to the StepOrder of an earlier step in the same template.
type WorkflowStep struct {
	ID                string `gorm:"primaryKey;size:36" json:"id"`
	TemplateID        string `gorm:"size:36;not null;uniqueIndex:idx_template_step_order" json:"template_id"`
	StepOrder         int    `gorm:"not null;uniqueIndex:idx_template_step_order" json:"step_order"`
	TitleTemplate     string `gorm:"not null" json:"title_template"`
	TaskType          string `gorm:"size:16;not null" json:"task_type"`
	AssignRole        string `gorm:"size:32;not null" json:"assign_role"`
	RelativeDayOffset int    `gorm:"not null;default:0" json:"relative_day_offset"`
	DateAnchor        string `gorm:"size:16;default:start_date" json:"date_anchor"`
	IsDependentOnStep *int   `json:"is_dependent_on_step"`
}
