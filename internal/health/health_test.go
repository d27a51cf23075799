package health

import (
	"context"
	"testing"
	"time"

	"github.com/tyatlocalbzz/localbzz-app/internal/models"
	"github.com/tyatlocalbzz/localbzz-app/internal/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var now = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func task(status string, assigned *string, due *time.Time) models.Task {
	return models.Task{ID: "t", ClientID: "c", Title: "t", TaskType: models.TaskDeliverable, Status: status, AssignedTo: assigned, DueDate: due}
}

func TestAssess(t *testing.T) {
	tests := []struct {
		name string
		task models.Task
		want Status
	}{
		{"done overdue unassigned", task(models.StatusDone, nil, ptr(now.Add(-72*time.Hour))), Healthy},
		{"skipped unassigned", task(models.StatusSkipped, nil, nil), Healthy},
		{"unassigned", task(models.StatusTodo, nil, ptr(now.AddDate(0, 1, 0))), Critical},
		{"empty assignee", task(models.StatusTodo, ptr(""), nil), Critical},
		{"overdue", task(models.StatusInProgress, ptr("P1"), ptr(now.Add(-time.Minute))), Critical},
		{"due in a day", task(models.StatusTodo, ptr("P1"), ptr(now.Add(24*time.Hour))), Risk},
		{"due just inside window", task(models.StatusReview, ptr("P1"), ptr(now.Add(47*time.Hour))), Risk},
		{"due at window edge", task(models.StatusTodo, ptr("P1"), ptr(now.Add(RiskWindow))), Healthy},
		{"due now", task(models.StatusTodo, ptr("P1"), ptr(now)), Healthy},
		{"due next week", task(models.StatusScheduled, ptr("P1"), ptr(now.AddDate(0, 0, 7))), Healthy},
		{"no due date", task(models.StatusTodo, ptr("P1"), nil), Healthy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Assess(&tt.task, now); got != tt.want {
				t.Errorf("Assess() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAnnotateAndRedFlags(t *testing.T) {
	tasks := []models.Task{
		{ID: "ok", ClientID: "c1", Status: models.StatusTodo, AssignedTo: ptr("P1"), DueDate: ptr(now.AddDate(0, 0, 10))},
		{ID: "unassigned", ClientID: "c1", Status: models.StatusTodo},
		{ID: "late", ClientID: "c2", Status: models.StatusTodo, AssignedTo: ptr("E1"), DueDate: ptr(now.AddDate(0, 0, -3))},
		{ID: "soon", ClientID: "c2", Status: models.StatusTodo, AssignedTo: ptr("E1"), DueDate: ptr(now.Add(time.Hour))},
		{ID: "later-unassigned", ClientID: "c2", Status: models.StatusTodo, DueDate: ptr(now.AddDate(0, 0, 1))},
	}
	names := map[string]string{"c1": "Sunrise Bakery", "c2": "Peak Fitness"}

	annotated := Annotate(tasks, names, now)
	if len(annotated) != len(tasks) {
		t.Fatalf("len(Annotate) = %d, want %d", len(annotated), len(tasks))
	}
	if annotated[0].ClientName != "Sunrise Bakery" || annotated[0].Health != Healthy {
		t.Errorf("annotated[0] = %+v", annotated[0])
	}
	if annotated[3].Health != Risk || annotated[3].Flag != "" {
		t.Errorf("soon = %q flag %q, want risk without flag", annotated[3].Health, annotated[3].Flag)
	}

	flags := RedFlags(annotated)
	wantIDs := []string{"late", "later-unassigned", "unassigned"}
	wantFlags := []string{FlagOverdue, FlagUnassigned, FlagUnassigned}
	if len(flags) != len(wantIDs) {
		t.Fatalf("len(RedFlags) = %d, want %d", len(flags), len(wantIDs))
	}
	for i, f := range flags {
		if f.ID != wantIDs[i] {
			t.Errorf("flags[%d].ID = %q, want %q", i, f.ID, wantIDs[i])
		}
		if f.Flag != wantFlags[i] {
			t.Errorf("flags[%d].Flag = %q, want %q", i, f.Flag, wantFlags[i])
		}
	}
}

func TestGhostClients(t *testing.T) {
	clients := []models.Client{
		{ID: "booked", Status: models.ClientActive},
		{ID: "past-shoot", Status: models.ClientActive},
		{ID: "far-shoot", Status: models.ClientActive},
		{ID: "deliverable-only", Status: models.ClientActive},
		{ID: "paused", Status: models.ClientPaused},
	}
	shoots := []models.Task{
		{ClientID: "booked", TaskType: models.TaskShoot, StartTime: ptr(now.AddDate(0, 0, 10))},
		{ClientID: "past-shoot", TaskType: models.TaskShoot, StartTime: ptr(now.AddDate(0, 0, -1))},
		{ClientID: "far-shoot", TaskType: models.TaskShoot, StartTime: ptr(now.AddDate(0, 0, 40))},
		{ClientID: "deliverable-only", TaskType: models.TaskDeliverable, StartTime: ptr(now.AddDate(0, 0, 2))},
	}

	got := GhostClients(clients, shoots, now)
	want := []string{"past-shoot", "far-shoot", "deliverable-only"}
	if len(got) != len(want) {
		t.Fatalf("GhostClients() = %d clients, want %d", len(got), len(want))
	}
	for i, c := range got {
		if c.ID != want[i] {
			t.Errorf("ghost[%d] = %q, want %q", i, c.ID, want[i])
		}
	}
}

func testStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&models.Client{}, &models.Task{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store.New(db)
}

func TestReportAndGhosts_FromStore(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	bakery := &models.Client{Name: "Sunrise Bakery"}
	gym := &models.Client{Name: "Peak Fitness"}
	for _, c := range []*models.Client{bakery, gym} {
		if err := s.CreateClient(ctx, c); err != nil {
			t.Fatalf("CreateClient: %v", err)
		}
	}
	for _, tk := range []models.Task{
		{ClientID: bakery.ID, Title: "Shoot", TaskType: models.TaskShoot, AssignedTo: ptr("P1"), DueDate: ptr(now.AddDate(0, 0, 5)), StartTime: ptr(now.AddDate(0, 0, 5))},
		{ClientID: gym.ID, Title: "Edit", TaskType: models.TaskDeliverable, DueDate: ptr(now.AddDate(0, 0, -2))},
	} {
		tk := tk
		if err := s.CreateTask(ctx, &tk); err != nil {
			t.Fatalf("CreateTask: %v", err)
		}
	}

	report, err := Report(ctx, s, store.TaskFilter{OpenOnly: true}, now)
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	flags := RedFlags(report)
	if len(flags) != 1 || flags[0].ClientName != "Peak Fitness" || flags[0].Flag != FlagUnassigned {
		t.Errorf("RedFlags = %+v, want the gym's unassigned edit", flags)
	}

	ghosts, err := FindGhostClients(ctx, s, now)
	if err != nil {
		t.Fatalf("FindGhostClients: %v", err)
	}
	if len(ghosts) != 1 || ghosts[0].ID != gym.ID {
		t.Errorf("ghosts = %+v, want Peak Fitness only", ghosts)
	}
}
