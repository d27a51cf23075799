package models

import "time"

// Client lifecycle statuses.
const (
	ClientActive  = "active"
	ClientLead    = "lead"
	ClientPaused  = "paused"
	ClientChurned = "churned"
)

// Client operational phases.
const (
	PhaseFoundations = "foundations"
	PhaseMonthly     = "monthly"
	PhaseProject     = "project"
)

// Client is an agency customer. Tasks belong to exactly one client.
type Client struct {
	ID                    string    `gorm:"primaryKey;size:36" json:"id"`
	Name                  string    `gorm:"not null" json:"name"`
	Status                string    `gorm:"size:16;default:active;index" json:"status"`
	Phase                 string    `gorm:"size:16;default:monthly" json:"phase"`
	Notes                 string    `gorm:"type:text" json:"notes"`
	PackageTier           string    `gorm:"size:32" json:"package_tier"`
	AutoWorkflowEnabled   bool      `gorm:"default:false" json:"auto_workflow_enabled"`
	DefaultTemplateID     *string   `gorm:"size:36" json:"default_template_id"`
	DefaultPhotographerID *string   `gorm:"size:64" json:"default_photographer_id"`
	DefaultEditorID       *string   `gorm:"size:64" json:"default_editor_id"`
	CreatedAt             time.Time `json:"created_at"`

	Tasks []Task `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"tasks,omitempty"`
}

// AutoGenerationEligible reports whether the rolling horizon may generate
// tasks for this client: it must be active, opted in, and have a default
// template.
func (c *Client) AutoGenerationEligible() bool {
	if c == nil {
		return false
	}
	return c.Status == ClientActive &&
		c.AutoWorkflowEnabled &&
		c.DefaultTemplateID != nil && *c.DefaultTemplateID != ""
}
