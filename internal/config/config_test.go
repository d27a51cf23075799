package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const fullYAML = `
database:
  driver: mysql
  host: 10.0.0.5
  port: 3307
  user: bzz
  password: hunter2
  name: localbzz_test

server:
  port: 9000

horizon:
  enabled: true
  months: 4
  schedule: "15 * * * *"

events:
  url: amqp://guest:guest@mq:5672/

log:
  level: warn
  development: true

templates:
  - name: Monthly Retainer
    description: Standard monthly cadence
    steps:
      - order: 1
        title: "{{Month}} Planning Call"
        task_type: meeting
        role: admin
      - order: 2
        title: "{{Month}} Content Shoot"
        task_type: shoot
        role: default_photographer
        offset: 7
        depends_on: 1
      - order: 3
        title: "{{Month}} Report"
        task_type: deliverable
        role: default_editor
        offset: 5
        anchor: end_of_month
`

const minimalYAML = `
database:
  driver: sqlite
`

func TestParse_FullConfig(t *testing.T) {
	cfg, err := Parse([]byte(fullYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Database.Driver != DriverMySQL {
		t.Errorf("Database.Driver = %q, want %q", cfg.Database.Driver, DriverMySQL)
	}
	if cfg.Database.Host != "10.0.0.5" {
		t.Errorf("Database.Host = %q, want %q", cfg.Database.Host, "10.0.0.5")
	}
	if cfg.Database.Port != 3307 {
		t.Errorf("Database.Port = %d, want %d", cfg.Database.Port, 3307)
	}
	if cfg.Database.Name != "localbzz_test" {
		t.Errorf("Database.Name = %q, want %q", cfg.Database.Name, "localbzz_test")
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if !cfg.Horizon.Enabled {
		t.Error("Horizon.Enabled = false, want true")
	}
	if cfg.Horizon.Months != 4 {
		t.Errorf("Horizon.Months = %d, want 4", cfg.Horizon.Months)
	}
	if cfg.Horizon.Schedule != "15 * * * *" {
		t.Errorf("Horizon.Schedule = %q, want %q", cfg.Horizon.Schedule, "15 * * * *")
	}
	if cfg.Events.URL != "amqp://guest:guest@mq:5672/" {
		t.Errorf("Events.URL = %q", cfg.Events.URL)
	}
	if cfg.Log.Level != "warn" || !cfg.Log.Development {
		t.Errorf("Log = %+v, want warn/development", cfg.Log)
	}
	if len(cfg.Templates) != 1 {
		t.Fatalf("len(Templates) = %d, want 1", len(cfg.Templates))
	}

	steps := cfg.Templates[0].Steps
	if len(steps) != 3 {
		t.Fatalf("len(Steps) = %d, want 3", len(steps))
	}
	if steps[0].Anchor != "start_date" {
		t.Errorf("Steps[0].Anchor = %q, want default start_date", steps[0].Anchor)
	}
	if steps[1].DependsOn == nil || *steps[1].DependsOn != 1 {
		t.Errorf("Steps[1].DependsOn = %v, want 1", steps[1].DependsOn)
	}
	if steps[0].DependsOn != nil {
		t.Errorf("Steps[0].DependsOn = %v, want nil", *steps[0].DependsOn)
	}
	if steps[2].Anchor != "end_of_month" || steps[2].Offset != 5 {
		t.Errorf("Steps[2] = %+v, want end_of_month +5", steps[2])
	}
}

func TestParse_MinimalConfig_AppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(minimalYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Database.Path != "localbzz.db" {
		t.Errorf("Database.Path = %q, want %q (default)", cfg.Database.Path, "localbzz.db")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080 (default)", cfg.Server.Port)
	}
	if cfg.Horizon.Months != 6 {
		t.Errorf("Horizon.Months = %d, want 6 (default)", cfg.Horizon.Months)
	}
	if cfg.Horizon.Schedule != "0 * * * *" {
		t.Errorf("Horizon.Schedule = %q, want hourly default", cfg.Horizon.Schedule)
	}
	if cfg.Horizon.Enabled {
		t.Error("Horizon.Enabled = true, want false by default")
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info (default)", cfg.Log.Level)
	}
}

func TestParse_EmptyDocument_DefaultsToSQLite(t *testing.T) {
	cfg, err := Parse([]byte(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Driver != DriverSQLite {
		t.Errorf("Database.Driver = %q, want %q", cfg.Database.Driver, DriverSQLite)
	}
}

func TestParse_ServerDriverDefaults(t *testing.T) {
	tests := []struct {
		driver string
		port   int
	}{
		{DriverMySQL, 3306},
		{DriverPostgres, 5432},
	}
	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			cfg, err := Parse([]byte("database:\n  driver: " + tt.driver + "\n"))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.Database.Host != "127.0.0.1" {
				t.Errorf("Database.Host = %q, want 127.0.0.1", cfg.Database.Host)
			}
			if cfg.Database.Port != tt.port {
				t.Errorf("Database.Port = %d, want %d", cfg.Database.Port, tt.port)
			}
			if cfg.Database.Name != "localbzz" {
				t.Errorf("Database.Name = %q, want localbzz", cfg.Database.Name)
			}
		})
	}
}

func TestParse_EnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.override")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_USER", "svc")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_NAME", "override_db")
	t.Setenv("MQ_URL", "amqp://override/")
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := Parse([]byte(fullYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Host != "db.override" {
		t.Errorf("Database.Host = %q, want db.override", cfg.Database.Host)
	}
	if cfg.Database.Port != 6543 {
		t.Errorf("Database.Port = %d, want 6543", cfg.Database.Port)
	}
	if cfg.Database.User != "svc" || cfg.Database.Password != "pw" {
		t.Errorf("Database credentials = %q/%q, want svc/pw", cfg.Database.User, cfg.Database.Password)
	}
	if cfg.Database.Name != "override_db" {
		t.Errorf("Database.Name = %q, want override_db", cfg.Database.Name)
	}
	if cfg.Events.URL != "amqp://override/" {
		t.Errorf("Events.URL = %q, want amqp://override/", cfg.Events.URL)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("Log.Level = %q, want error", cfg.Log.Level)
	}
}

func TestParse_EnvPortNotNumeric_Ignored(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-port")
	cfg, err := Parse([]byte(fullYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Port != 3307 {
		t.Errorf("Database.Port = %d, want file value 3307", cfg.Database.Port)
	}
}

func TestParse_UnknownDriver(t *testing.T) {
	_, err := Parse([]byte("database:\n  driver: oracle\n"))
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
	if !strings.Contains(err.Error(), `database.driver "oracle"`) {
		t.Errorf("error = %q, want driver message", err.Error())
	}
}

func TestParse_BadSchedule(t *testing.T) {
	_, err := Parse([]byte("horizon:\n  schedule: \"every hour\"\n"))
	if err == nil {
		t.Fatal("expected error for bad schedule")
	}
	if !strings.Contains(err.Error(), "horizon.schedule") {
		t.Errorf("error = %q, want horizon.schedule message", err.Error())
	}
}

func TestParse_MultipleValidationErrors(t *testing.T) {
	yaml := `
server:
  port: 70000
log:
  level: chatty
templates:
  - description: nameless and stepless
`
	_, err := Parse([]byte(yaml))
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	for _, want := range []string{
		"server.port 70000 is out of range",
		`log.level "chatty"`,
		"templates[0].name is required",
		"templates[0].steps must not be empty",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("error missing %q: %s", want, msg)
		}
	}
}

func TestParse_DuplicateTemplateName(t *testing.T) {
	yaml := `
templates:
  - name: Retainer
    steps:
      - {order: 1, title: A, task_type: meeting, role: admin}
  - name: Retainer
    steps:
      - {order: 1, title: B, task_type: meeting, role: admin}
`
	_, err := Parse([]byte(yaml))
	if err == nil {
		t.Fatal("expected error for duplicate template name")
	}
	if !strings.Contains(err.Error(), `templates[1].name "Retainer" is duplicated`) {
		t.Errorf("error = %q", err.Error())
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte(":::invalid"))
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
	if !strings.Contains(err.Error(), "config: parse:") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "config: parse:")
	}
}

func TestLoad_ValidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bzz.yaml")
	if err := os.WriteFile(path, []byte(minimalYAML), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Driver != DriverSQLite {
		t.Errorf("Database.Driver = %q, want %q", cfg.Database.Driver, DriverSQLite)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/bzz.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "config: read") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "config: read")
	}
}

// --- Fixture-based tests using testdata/ files ---

func TestLoad_FullFixture(t *testing.T) {
	cfg, err := Load("testdata/valid_full.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Driver != DriverPostgres {
		t.Errorf("Database.Driver = %q, want %q", cfg.Database.Driver, DriverPostgres)
	}
	if len(cfg.Templates) != 1 || len(cfg.Templates[0].Steps) != 3 {
		t.Fatalf("Templates = %+v, want one template with 3 steps", cfg.Templates)
	}
	if cfg.Templates[0].ID == "" {
		t.Error("Templates[0].ID is empty, want fixture id")
	}
}

func TestLoad_MinimalFixture(t *testing.T) {
	cfg, err := Load("testdata/valid_minimal.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Horizon.Months != 6 {
		t.Errorf("Horizon.Months = %d, want default 6", cfg.Horizon.Months)
	}
}

func TestLoad_BadDriverFixture(t *testing.T) {
	_, err := Load("testdata/bad_driver.yaml")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "config: validation failed") {
		t.Errorf("error = %q, want validation failure", err.Error())
	}
}
