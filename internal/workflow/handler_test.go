package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRunner struct {
	res *Result
	err error
}

func (s stubRunner) Run(context.Context, Request) (*Result, error) {
	if s.res == nil {
		s.res = &Result{}
	}
	return s.res, s.err
}

func TestHandle_Success(t *testing.T) {
	r := stubRunner{res: &Result{TaskIDs: []string{"a", "b", "c"}, Count: 3}}
	resp := Handle(context.Background(), r, Request{})

	assert.True(t, resp.Success)
	assert.Equal(t, "Created 3 tasks", resp.Message)
	assert.Equal(t, []string{"a", "b", "c"}, resp.TaskIDs)
	assert.Empty(t, resp.Error)
}

func TestHandle_Failure(t *testing.T) {
	r := stubRunner{
		res: &Result{TaskIDs: []string{"a"}, Count: 1},
		err: &StoreError{Op: "create task", Err: errors.New("disk full")},
	}
	resp := Handle(context.Background(), r, Request{})

	assert.False(t, resp.Success)
	assert.Equal(t, "Failed to create task: disk full", resp.Error)
	assert.Empty(t, resp.TaskIDs)
	assert.Empty(t, resp.Message)
}

func TestHandle_JSONShape(t *testing.T) {
	m := newMemStore()
	seedMonthly(m)
	resp := Handle(context.Background(), NewGenerator(m, GeneratorOpts{}), monthlyRequest())

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &got))

	assert.Equal(t, true, got["success"])
	assert.Equal(t, "Created 3 tasks", got["message"])
	assert.Len(t, got["taskIds"], 3)
	assert.NotContains(t, got, "error")
}

func TestRequest_JSONFieldNames(t *testing.T) {
	var req Request
	require.NoError(t, json.Unmarshal([]byte(`{"clientId":"c","templateId":"t","startDate":"2024-03-01","Source":"x"}`), &req))
	assert.Equal(t, Request{ClientID: "c", TemplateID: "t", StartDate: "2024-03-01"}, req)
}
