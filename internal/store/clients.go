package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/tyatlocalbzz/localbzz-app/internal/models"
)

var clientStatuses = []string{models.ClientActive, models.ClientLead, models.ClientPaused, models.ClientChurned}

var clientPhases = []string{models.PhaseFoundations, models.PhaseMonthly, models.PhaseProject}

// ClientFilter holds optional filters for listing clients.
type ClientFilter struct {
	Status       string
	AutoWorkflow *bool
}

// CreateClient inserts c, assigning an ID and defaults when unset.
func (s *Store) CreateClient(ctx context.Context, c *models.Client) error {
	if strings.TrimSpace(c.Name) == "" {
		return invalidf("client name is required")
	}
	if c.Status == "" {
		c.Status = models.ClientActive
	}
	if c.Phase == "" {
		c.Phase = models.PhaseMonthly
	}
	if !models.Contains(clientStatuses, c.Status) {
		return invalidf("invalid client status %q", c.Status)
	}
	if !models.Contains(clientPhases, c.Phase) {
		return invalidf("invalid client phase %q", c.Phase)
	}
	if c.ID == "" {
		c.ID = NewID()
	}
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("store: create client: %w", err)
	}
	return nil
}

// GetClient retrieves a client by ID.
func (s *Store) GetClient(ctx context.Context, id string) (*models.Client, error) {
	var c models.Client
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, notFound(err, "client", id)
	}
	return &c, nil
}

// ListClients returns clients matching f, ordered by name.
func (s *Store) ListClients(ctx context.Context, f ClientFilter) ([]models.Client, error) {
	q := s.db.WithContext(ctx).Model(&models.Client{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.AutoWorkflow != nil {
		q = q.Where("auto_workflow_enabled = ?", *f.AutoWorkflow)
	}

	var clients []models.Client
	if err := q.Order("name ASC").Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("store: list clients: %w", err)
	}
	return clients, nil
}

// UpdateClient modifies client columns. Status and phase values are
// validated; unknown columns are rejected.
func (s *Store) UpdateClient(ctx context.Context, id string, updates map[string]interface{}) (*models.Client, error) {
	for k, v := range updates {
		switch k {
		case "name":
			if str, _ := v.(string); strings.TrimSpace(str) == "" {
				return nil, invalidf("client name is required")
			}
		case "notes", "package_tier", "auto_workflow_enabled",
			"default_template_id", "default_photographer_id", "default_editor_id":
		case "status":
			if str, _ := v.(string); !models.Contains(clientStatuses, str) {
				return nil, invalidf("invalid client status %v", v)
			}
		case "phase":
			if str, _ := v.(string); !models.Contains(clientPhases, str) {
				return nil, invalidf("invalid client phase %v", v)
			}
		default:
			return nil, invalidf("client column %q cannot be updated", k)
		}
	}

	res := s.db.WithContext(ctx).Model(&models.Client{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("store: update client %s: %w", id, res.Error)
	}
	return s.GetClient(ctx, id)
}

// DeleteClient removes a client. Its tasks go with it through the
// ON DELETE CASCADE foreign key on tasks.client_id.
func (s *Store) DeleteClient(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Client{})
	if res.Error != nil {
		return fmt.Errorf("store: delete client %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("store: client %s: %w", id, ErrNotFound)
	}
	return nil
}
