package workflow

import (
	"context"
	"fmt"
)

// Runner executes one workflow run.
type Runner interface {
	Run(ctx context.Context, req Request) (*Result, error)
}

// Response is the invocation boundary's reply.
type Response struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	TaskIDs []string `json:"taskIds,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// Handle runs req and folds the outcome into a Response. Any failure,
// including a partial run, is reported as success=false with the error
// text; tasks created before a store failure are not listed.
func Handle(ctx context.Context, r Runner, req Request) Response {
	res, err := r.Run(ctx, req)
	if err != nil {
		return Response{Success: false, Error: err.Error()}
	}
	return Response{
		Success: true,
		Message: fmt.Sprintf("Created %d tasks", res.Count),
		TaskIDs: res.TaskIDs,
	}
}
