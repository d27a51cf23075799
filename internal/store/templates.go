package store

import (
	"context"
	"fmt"

	"github.com/tyatlocalbzz/localbzz-app/internal/models"
	"gorm.io/gorm"
)

// SaveTemplate inserts or replaces a template together with its steps in
// one transaction. Step rules are the caller's responsibility.
func (s *Store) SaveTemplate(ctx context.Context, t *models.WorkflowTemplate) error {
	if t.ID == "" {
		t.ID = NewID()
	}
	for i := range t.Steps {
		t.Steps[i].TemplateID = t.ID
		if t.Steps[i].ID == "" {
			t.Steps[i].ID = NewID()
		}
		if t.Steps[i].DateAnchor == "" {
			t.Steps[i].DateAnchor = models.AnchorStartDate
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("template_id = ?", t.ID).Delete(&models.WorkflowStep{}).Error; err != nil {
			return err
		}
		header := *t
		header.Steps = nil
		if err := tx.Save(&header).Error; err != nil {
			return err
		}
		if len(t.Steps) > 0 {
			if err := tx.Create(&t.Steps).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("store: save template %q: %w", t.Name, err)
	}
	return nil
}

// GetTemplate retrieves a template by ID without its steps.
func (s *Store) GetTemplate(ctx context.Context, id string) (*models.WorkflowTemplate, error) {
	var t models.WorkflowTemplate
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, notFound(err, "template", id)
	}
	return &t, nil
}

// ListTemplates returns every template ordered by name.
func (s *Store) ListTemplates(ctx context.Context) ([]models.WorkflowTemplate, error) {
	var templates []models.WorkflowTemplate
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&templates).Error; err != nil {
		return nil, fmt.Errorf("store: list templates: %w", err)
	}
	return templates, nil
}

// ListSteps returns a template's steps ordered by step_order. A template
// without steps yields ErrNotFound.
func (s *Store) ListSteps(ctx context.Context, templateID string) ([]models.WorkflowStep, error) {
	var steps []models.WorkflowStep
	if err := s.db.WithContext(ctx).
		Where("template_id = ?", templateID).
		Order("step_order ASC").
		Find(&steps).Error; err != nil {
		return nil, fmt.Errorf("store: list steps of %s: %w", templateID, err)
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("store: steps of template %s: %w", templateID, ErrNotFound)
	}
	return steps, nil
}
