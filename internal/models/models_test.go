package models

import (
	"reflect"
	"strings"
	"testing"
)

// gormTag extracts the gorm tag from a struct field.
func gormTag(t *testing.T, typ reflect.Type, fieldName string) string {
	t.Helper()
	f, ok := typ.FieldByName(fieldName)
	if !ok {
		t.Fatalf("%s.%s: field not found", typ.Name(), fieldName)
	}
	return f.Tag.Get("gorm")
}

// assertGormTag checks that a struct field's gorm tag contains the expected value.
func assertGormTag(t *testing.T, typ reflect.Type, fieldName, expected string) {
	t.Helper()
	tag := gormTag(t, typ, fieldName)
	if !strings.Contains(tag, expected) {
		t.Errorf("%s.%s gorm tag = %q, want to contain %q", typ.Name(), fieldName, tag, expected)
	}
}

// assertFieldType checks that a struct field has the expected Go type.
func assertFieldType(t *testing.T, typ reflect.Type, fieldName, expectedType string) {
	t.Helper()
	f, ok := typ.FieldByName(fieldName)
	if !ok {
		t.Fatalf("%s.%s: field not found", typ.Name(), fieldName)
	}
	got := f.Type.String()
	if got != expectedType {
		t.Errorf("%s.%s type = %q, want %q", typ.Name(), fieldName, got, expectedType)
	}
}

func TestClient_Fields(t *testing.T) {
	typ := reflect.TypeOf(Client{})

	assertGormTag(t, typ, "ID", "primaryKey")
	assertGormTag(t, typ, "ID", "size:36")
	assertGormTag(t, typ, "Name", "not null")
	assertGormTag(t, typ, "Status", "default:active")
	assertGormTag(t, typ, "Status", "index")
	assertGormTag(t, typ, "Phase", "default:monthly")
	assertGormTag(t, typ, "Notes", "type:text")
	assertGormTag(t, typ, "AutoWorkflowEnabled", "default:false")
	assertGormTag(t, typ, "DefaultTemplateID", "size:36")

	assertFieldType(t, typ, "DefaultTemplateID", "*string")
	assertFieldType(t, typ, "DefaultPhotographerID", "*string")
	assertFieldType(t, typ, "DefaultEditorID", "*string")
	assertFieldType(t, typ, "CreatedAt", "time.Time")
}

func TestClient_Relations(t *testing.T) {
	typ := reflect.TypeOf(Client{})

	assertGormTag(t, typ, "Tasks", "foreignKey:ClientID")
	assertGormTag(t, typ, "Tasks", "constraint:OnDelete:CASCADE")
	assertFieldType(t, typ, "Tasks", "[]models.Task")
}

func TestWorkflowTemplate_Fields(t *testing.T) {
	typ := reflect.TypeOf(WorkflowTemplate{})

	assertGormTag(t, typ, "ID", "primaryKey")
	assertGormTag(t, typ, "Name", "not null")
	assertGormTag(t, typ, "Description", "type:text")
	assertGormTag(t, typ, "Steps", "foreignKey:TemplateID")
	assertGormTag(t, typ, "Steps", "constraint:OnDelete:CASCADE")
	assertFieldType(t, typ, "Steps", "[]models.WorkflowStep")
}

func TestWorkflowStep_Fields(t *testing.T) {
	typ := reflect.TypeOf(WorkflowStep{})

	assertGormTag(t, typ, "TemplateID", "uniqueIndex:idx_template_step_order")
	assertGormTag(t, typ, "StepOrder", "uniqueIndex:idx_template_step_order")
	assertGormTag(t, typ, "TitleTemplate", "not null")
	assertGormTag(t, typ, "AssignRole", "not null")
	assertGormTag(t, typ, "RelativeDayOffset", "default:0")
	assertGormTag(t, typ, "DateAnchor", "default:start_date")

	assertFieldType(t, typ, "StepOrder", "int")
	assertFieldType(t, typ, "RelativeDayOffset", "int")
	assertFieldType(t, typ, "IsDependentOnStep", "*int")
}

func TestTask_Fields(t *testing.T) {
	typ := reflect.TypeOf(Task{})

	assertGormTag(t, typ, "ID", "primaryKey")
	assertGormTag(t, typ, "ClientID", "not null")
	assertGormTag(t, typ, "ClientID", "index")
	assertGormTag(t, typ, "Title", "not null")
	assertGormTag(t, typ, "TaskType", "not null")
	assertGormTag(t, typ, "Status", "default:todo")
	assertGormTag(t, typ, "Priority", "default:normal")
	assertGormTag(t, typ, "DueDate", "index")
	assertGormTag(t, typ, "AssignedTo", "index")
	assertGormTag(t, typ, "ParentID", "index")
	assertGormTag(t, typ, "Notes", "type:text")
	assertGormTag(t, typ, "InternalNotes", "type:text")

	assertFieldType(t, typ, "DueDate", "*time.Time")
	assertFieldType(t, typ, "StartTime", "*time.Time")
	assertFieldType(t, typ, "EndTime", "*time.Time")
	assertFieldType(t, typ, "CompletedAt", "*time.Time")
	assertFieldType(t, typ, "AssignedTo", "*string")
	assertFieldType(t, typ, "ParentID", "*string")
	assertFieldType(t, typ, "WorkflowStage", "*string")
}

func TestJSONTags_SnakeCase(t *testing.T) {
	for _, v := range []interface{}{Client{}, WorkflowTemplate{}, WorkflowStep{}, Task{}} {
		typ := reflect.TypeOf(v)
		for i := 0; i < typ.NumField(); i++ {
			f := typ.Field(i)
			name := strings.Split(f.Tag.Get("json"), ",")[0]
			if name == "" {
				t.Errorf("%s.%s has no json name", typ.Name(), f.Name)
				continue
			}
			if strings.ToLower(name) != name {
				t.Errorf("%s.%s json name %q is not snake_case", typ.Name(), f.Name, name)
			}
		}
	}
}

func TestClient_AutoGenerationEligible(t *testing.T) {
	tpl := "tpl-1"
	empty := ""
	tests := []struct {
		name   string
		client *Client
		want   bool
	}{
		{"nil", nil, false},
		{"eligible", &Client{Status: ClientActive, AutoWorkflowEnabled: true, DefaultTemplateID: &tpl}, true},
		{"auto off", &Client{Status: ClientActive, DefaultTemplateID: &tpl}, false},
		{"no template", &Client{Status: ClientActive, AutoWorkflowEnabled: true}, false},
		{"empty template", &Client{Status: ClientActive, AutoWorkflowEnabled: true, DefaultTemplateID: &empty}, false},
		{"paused", &Client{Status: ClientPaused, AutoWorkflowEnabled: true, DefaultTemplateID: &tpl}, false},
	}
	for _, tt := range tests {
		if got := tt.client.AutoGenerationEligible(); got != tt.want {
			t.Errorf("%s: AutoGenerationEligible() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestTask_IsClosed(t *testing.T) {
	for _, status := range TaskStatuses {
		want := status == StatusDone || status == StatusSkipped
		if got := (&Task{Status: status}).IsClosed(); got != want {
			t.Errorf("IsClosed(%s) = %v, want %v", status, got, want)
		}
	}
}

func TestContains(t *testing.T) {
	if !Contains(TaskTypes, TaskShoot) {
		t.Error("TaskTypes should contain shoot")
	}
	if Contains(TaskTypes, "party") {
		t.Error("TaskTypes should not contain party")
	}
	if Contains(nil, "") {
		t.Error("nil slice should contain nothing")
	}
}
