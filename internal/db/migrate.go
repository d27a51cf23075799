package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tyatlocalbzz/localbzz-app/internal/config"
	"github.com/tyatlocalbzz/localbzz-app/internal/models"
	"github.com/tyatlocalbzz/localbzz-app/internal/store"
	"github.com/tyatlocalbzz/localbzz-app/internal/workflow"
	"gorm.io/gorm"
)

// templateNamespace derives stable IDs for templates configured without one.
var templateNamespace = uuid.MustParse("6f1d3c1e-8a55-4d8e-9a61-0c2f4b7e9d10")

// AllModels returns the list of all GORM models for migration.
func AllModels() []interface{} {
	return []interface{}{
		&models.Client{},
		&models.WorkflowTemplate{},
		&models.WorkflowStep{},
		&models.Task{},
	}
}

// AutoMigrate creates or updates all tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}

// TemplateID returns the configured ID, or one derived from the name so
// that reseeding replaces the same template.
func TemplateID(tc config.TemplateConfig) string {
	if tc.ID != "" {
		return tc.ID
	}
	return uuid.NewSHA1(templateNamespace, []byte(tc.Name)).String()
}

// TemplateFromConfig converts a configured template into its model.
func TemplateFromConfig(tc config.TemplateConfig) models.WorkflowTemplate {
	t := models.WorkflowTemplate{
		ID:          TemplateID(tc),
		Name:        tc.Name,
		Description: tc.Description,
		Steps:       make([]models.WorkflowStep, len(tc.Steps)),
	}
	for i, sc := range tc.Steps {
		var dep *int
		if sc.DependsOn != nil {
			v := *sc.DependsOn
			dep = &v
		}
		t.Steps[i] = models.WorkflowStep{
			StepOrder:         sc.Order,
			TitleTemplate:     sc.Title,
			TaskType:          sc.TaskType,
			AssignRole:        sc.Role,
			RelativeDayOffset: sc.Offset,
			DateAnchor:        sc.Anchor,
			IsDependentOnStep: dep,
		}
	}
	return t
}

// SeedTemplates upserts workflow templates from configuration, replacing
// the steps of templates that already exist. Every template is validated
// before anything is written.
func SeedTemplates(db *gorm.DB, templates []config.TemplateConfig) error {
	if len(templates) == 0 {
		return nil
	}
	converted := make([]models.WorkflowTemplate, len(templates))
	for i, tc := range templates {
		converted[i] = TemplateFromConfig(tc)
		if err := workflow.ValidateSteps(converted[i].Steps); err != nil {
			return fmt.Errorf("db: seed template %q: %w", tc.Name, err)
		}
	}

	st := store.New(db)
	for i := range converted {
		if err := st.SaveTemplate(context.Background(), &converted[i]); err != nil {
			return fmt.Errorf("db: seed template %q: %w", converted[i].Name, err)
		}
	}
	return nil
}
