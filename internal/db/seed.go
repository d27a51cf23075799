package db

import (
	"context"
	"fmt"
	"time"

	"github.com/tyatlocalbzz/localbzz-app/internal/config"
	"github.com/tyatlocalbzz/localbzz-app/internal/models"
	"github.com/tyatlocalbzz/localbzz-app/internal/store"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Built-in template IDs.
const (
	MonthlyRetainerID = "11111111-1111-1111-1111-111111111111"
	FoundationsID     = "22222222-2222-2222-2222-222222222222"
)

// DefaultTemplates returns the templates every installation starts with.
func DefaultTemplates() []config.TemplateConfig {
	one, two := 1, 2
	return []config.TemplateConfig{
		{
			ID:          MonthlyRetainerID,
			Name:        "Monthly Retainer",
			Description: "Planning call, content shoot, edit and monthly report.",
			Steps: []config.StepConfig{
				{Order: 1, Title: "{{Month}} Strategy Call", TaskType: models.TaskMeeting, Role: "admin", Offset: -3},
				{Order: 2, Title: "{{Month}} Content Shoot", TaskType: models.TaskShoot, Role: "default_photographer", Offset: 7, DependsOn: &one},
				{Order: 3, Title: "{{Month}} Content Edit", TaskType: models.TaskDeliverable, Role: "default_editor", Offset: 14, DependsOn: &two},
				{Order: 4, Title: "{{Month}} Performance Report", TaskType: models.TaskDeliverable, Role: "admin", Offset: 3, Anchor: models.AnchorEndOfMonth},
			},
		},
		{
			ID:          FoundationsID,
			Name:        "Foundations",
			Description: "Onboarding: kickoff, brand shoot and asset library.",
			Steps: []config.StepConfig{
				{Order: 1, Title: "Kickoff Meeting", TaskType: models.TaskMeeting, Role: "admin"},
				{Order: 2, Title: "Brand Foundations Shoot", TaskType: models.TaskShoot, Role: "default_photographer", Offset: 10, DependsOn: &one},
				{Order: 3, Title: "Brand Asset Library", TaskType: models.TaskDeliverable, Role: "default_editor", Offset: 21, DependsOn: &two},
				{Order: 4, Title: "Foundations Complete", TaskType: models.TaskMilestone, Role: "admin", Offset: 0, Anchor: models.AnchorEndOfMonth},
			},
		},
	}
}

// Demo client IDs.
const (
	DemoSunriseID = "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
	DemoPeakID    = "bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb"
	DemoVerdeID   = "cccccccc-cccc-cccc-cccc-cccccccccccc"
	DemoCoastalID = "dddddddd-dddd-dddd-dddd-dddddddddddd"
	DemoBrewID    = "eeeeeeee-eeee-eeee-eeee-eeeeeeeeeeee"
	DemoTechID    = "ffffffff-ffff-ffff-ffff-ffffffffffff"
)

// SeedDemo loads the built-in templates plus a demo agency: six clients in
// every lifecycle state and tasks dated relative to now. Clients are
// upserted by ID; tasks are always inserted.
func SeedDemo(db *gorm.DB, now time.Time) error {
	if err := SeedTemplates(db, DefaultTemplates()); err != nil {
		return err
	}

	retainer := MonthlyRetainerID
	maya, leo := "maya", "leo"
	clients := []models.Client{
		{ID: DemoSunriseID, Name: "Sunrise Bakery", Status: models.ClientActive, Phase: models.PhaseMonthly, Notes: "Local bakery chain, 3 locations. Monthly content for all stores.", AutoWorkflowEnabled: true, DefaultTemplateID: &retainer, DefaultPhotographerID: &maya, DefaultEditorID: &leo},
		{ID: DemoPeakID, Name: "Peak Fitness Studio", Status: models.ClientActive, Phase: models.PhaseFoundations, Notes: "Boutique gym. Focus on transformation stories and class promos.", AutoWorkflowEnabled: true, DefaultTemplateID: &retainer},
		{ID: DemoVerdeID, Name: "Verde Garden Center", Status: models.ClientActive, Phase: models.PhaseMonthly, Notes: "Garden center with seasonal campaigns. Heavy Q2/Q3."},
		{ID: DemoCoastalID, Name: "Coastal Realty Group", Status: models.ClientLead, Phase: models.PhaseProject, Notes: "Real estate agency interested in property video tours."},
		{ID: DemoBrewID, Name: "Brew Brothers Coffee", Status: models.ClientPaused, Phase: models.PhaseMonthly, Notes: "Paused for renovation."},
		{ID: DemoTechID, Name: "TechStart Inc", Status: models.ClientChurned, Phase: models.PhaseMonthly, Notes: "Moved in-house. Good relationship, may return."},
	}
	for i := range clients {
		result := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "status", "phase", "notes", "auto_workflow_enabled", "default_template_id", "default_photographer_id", "default_editor_id"}),
		}).Create(&clients[i])
		if result.Error != nil {
			return fmt.Errorf("db: seed client %q: %w", clients[i].Name, result.Error)
		}
	}

	at := func(days int) *time.Time {
		t := now.AddDate(0, 0, days).UTC()
		return &t
	}
	tasks := []models.Task{
		{ClientID: DemoSunriseID, Title: "November Content Shoot", TaskType: models.TaskShoot, Status: models.StatusDone, DueDate: at(-30), StartTime: at(-32), AssignedTo: &maya, Location: "Main Street Location", Notes: "Holiday prep shots completed"},
		{ClientID: DemoSunriseID, Title: "November Content Edit", TaskType: models.TaskDeliverable, Status: models.StatusDone, DueDate: at(-25), AssignedTo: &leo, Notes: "Delivered 45 assets"},
		{ClientID: DemoSunriseID, Title: "December Content Shoot", TaskType: models.TaskShoot, Status: models.StatusScheduled, DueDate: at(5), StartTime: at(5), AssignedTo: &maya, Location: "All 3 Locations", Notes: "Holiday season shoot - need extra coverage"},
		{ClientID: DemoSunriseID, Title: "December Content Edit", TaskType: models.TaskDeliverable, Status: models.StatusTodo, DueDate: at(12), AssignedTo: &leo},
		{ClientID: DemoSunriseID, Title: "January Strategy Meeting", TaskType: models.TaskMeeting, Status: models.StatusTodo, DueDate: at(35), StartTime: at(35), AssignedTo: &maya, Location: "Zoom", Notes: "Q1 planning session"},

		{ClientID: DemoPeakID, Title: "Transformation Tuesday Edit", TaskType: models.TaskDeliverable, Status: models.StatusInProgress, Priority: models.PriorityHigh, DueDate: at(-3), AssignedTo: &leo, Notes: "Client waiting on final edits"},
		{ClientID: DemoPeakID, Title: "New Year Promo Shoot", TaskType: models.TaskShoot, Status: models.StatusTodo, Priority: models.PriorityCritical, DueDate: at(10), StartTime: at(10), Location: "Main Studio", Notes: "Need to assign photographer ASAP"},
		{ClientID: DemoPeakID, Title: "Weekly Class Schedule Post", TaskType: models.TaskDeliverable, Status: models.StatusReview, DueDate: at(1), AssignedTo: &leo, Notes: "Waiting for client approval"},
		{ClientID: DemoPeakID, Title: "Member Spotlight Interview", TaskType: models.TaskMeeting, Status: models.StatusScheduled, DueDate: at(7), StartTime: at(7), AssignedTo: &maya, Location: "Peak Fitness - Room B"},

		{ClientID: DemoVerdeID, Title: "Fall Planting Guide Shoot", TaskType: models.TaskShoot, Status: models.StatusDone, DueDate: at(-45), StartTime: at(-47), AssignedTo: &maya, Location: "Outdoor Nursery"},
		{ClientID: DemoVerdeID, Title: "Fall Planting Guide Edit", TaskType: models.TaskDeliverable, Status: models.StatusDone, DueDate: at(-40), AssignedTo: &leo, Notes: "Delivered video + 30 stills"},
		{ClientID: DemoVerdeID, Title: "Spring Campaign Kickoff", TaskType: models.TaskMilestone, Status: models.StatusTodo, DueDate: at(60), AssignedTo: &maya, Notes: "Plan spring content calendar"},

		{ClientID: DemoCoastalID, Title: "Discovery Call", TaskType: models.TaskMeeting, Status: models.StatusDone, DueDate: at(-7), StartTime: at(-7), Notes: "Interested in video tours"},
		{ClientID: DemoCoastalID, Title: "Send Proposal", TaskType: models.TaskOpportunity, Status: models.StatusInProgress, Priority: models.PriorityHigh, DueDate: at(2), AssignedTo: &maya, Notes: "Prepare property video package proposal"},
		{ClientID: DemoCoastalID, Title: "Follow-up Call", TaskType: models.TaskMeeting, Status: models.StatusTodo, DueDate: at(5), StartTime: at(5), AssignedTo: &maya},

		{ClientID: DemoBrewID, Title: "Renovation Complete Check-in", TaskType: models.TaskMeeting, Status: models.StatusTodo, DueDate: at(90), AssignedTo: &maya, Notes: "Discuss resuming services after renovation"},
	}
	ctx := context.Background()
	st := store.NewWithClock(db, func() time.Time { return now })
	for i := range tasks {
		if err := st.CreateTask(ctx, &tasks[i]); err != nil {
			return fmt.Errorf("db: seed task %q: %w", tasks[i].Title, err)
		}
	}
	return nil
}
