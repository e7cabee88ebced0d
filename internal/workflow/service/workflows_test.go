package service

import (
	"context"
	"errors"
	"testing"
)

func TestGetWorkflowIDReturnsExistingMapping(t *testing.T) {
	env := newTestEnv()
	env.workflows.ids = []int64{7, 9}

	id, err := env.svc.GetWorkflowID(context.Background(), "acme-token", "ext-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 7 {
		t.Fatalf("expected the first mapping to win, got %d", id)
	}
	if env.workflows.creates != 0 {
		t.Fatal("existing mappings must not trigger an insert")
	}
}

func TestGetWorkflowIDCreatesMissingMapping(t *testing.T) {
	env := newTestEnv()
	env.workflows.nextID = 13

	id, err := env.svc.GetWorkflowID(context.Background(), "acme-token", "ext-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 13 {
		t.Fatalf("expected the freshly created id, got %d", id)
	}
	if env.workflows.creates != 1 {
		t.Fatalf("expected one insert, got %d", env.workflows.creates)
	}
}

func TestGetWorkflowIDLookupErrorPropagates(t *testing.T) {
	env := newTestEnv()
	env.workflows.getErr = errors.New("database unavailable")

	if _, err := env.svc.GetWorkflowID(context.Background(), "acme-token", "ext-1"); err == nil {
		t.Fatal("expected lookup error to propagate")
	}
	if env.workflows.creates != 0 {
		t.Fatal("no insert on lookup failure")
	}
}
