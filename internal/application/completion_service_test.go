package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/goal-tracker/internal/persistence"
)

type completionRepoStub struct {
	createErr error
	created   Completion

	getCompletion Completion
	getErr        error

	deleteErr error
	deletedID string
}

func (r *completionRepoStub) CreateCompletion(ctx context.Context, completion Completion) (Completion, error) {
	if r.createErr != nil {
		return Completion{}, r.createErr
	}
	r.created = completion
	return completion, nil
}

func (r *completionRepoStub) GetCompletion(ctx context.Context, id string) (Completion, error) {
	if r.getErr != nil {
		return Completion{}, r.getErr
	}
	if r.getCompletion.ID == "" {
		return Completion{}, persistence.ErrNotFound
	}
	return r.getCompletion, nil
}

func (r *completionRepoStub) DeleteCompletion(ctx context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.deletedID = id
	return nil
}

type actionableFinderStub struct {
	actionable Actionable
	err        error
}

func (a *actionableFinderStub) GetActionable(ctx context.Context, id string) (Actionable, error) {
	if a.err != nil {
		return Actionable{}, a.err
	}
	if a.actionable.ID == "" {
		return Actionable{}, persistence.ErrNotFound
	}
	return a.actionable, nil
}

func TestCompletionService_RecordCompletion(t *testing.T) {
	actionables := &actionableFinderStub{actionable: Actionable{ID: "act-1", GoalID: "goal-1"}}
	goals := &goalFinderStub{goal: Goal{ID: "goal-1", OwnerID: "user-1"}}
	occurrence := time.Date(2024, time.March, 4, 6, 30, 0, 0, time.UTC)

	t.Run("records a completion with generated metadata", func(t *testing.T) {
		repo := &completionRepoStub{}
		svc := NewCompletionService(repo, actionables, goals, func() string { return "comp-1" }, fixedNow, nil)

		completion, err := svc.RecordCompletion(context.Background(), RecordCompletionParams{
			Principal: Principal{UserID: "user-1"},
			Input:     CompletionInput{ActionableID: "act-1", OccurrenceStart: occurrence},
		})
		if err != nil {
			t.Fatalf("RecordCompletion returned error: %v", err)
		}
		if completion.ID != "comp-1" {
			t.Fatalf("expected generated id comp-1, got %q", completion.ID)
		}
		if !completion.OccurrenceStart.Equal(occurrence) {
			t.Fatalf("expected occurrence start %v, got %v", occurrence, completion.OccurrenceStart)
		}
		if !completion.CompletedAt.Equal(fixedNow()) {
			t.Fatalf("expected completed_at from injected clock, got %v", completion.CompletedAt)
		}
	})

	t.Run("normalizes occurrence start to UTC", func(t *testing.T) {
		repo := &completionRepoStub{}
		svc := NewCompletionService(repo, actionables, goals, nil, fixedNow, nil)
		tokyo := time.FixedZone("JST", 9*60*60)

		completion, err := svc.RecordCompletion(context.Background(), RecordCompletionParams{
			Principal: Principal{UserID: "user-1"},
			Input:     CompletionInput{ActionableID: "act-1", OccurrenceStart: occurrence.In(tokyo)},
		})
		if err != nil {
			t.Fatalf("RecordCompletion returned error: %v", err)
		}
		if completion.OccurrenceStart.Location() != time.UTC {
			t.Fatalf("expected UTC storage, got %v", completion.OccurrenceStart.Location())
		}
		if !completion.OccurrenceStart.Equal(occurrence) {
			t.Fatalf("expected same instant, got %v", completion.OccurrenceStart)
		}
	})

	t.Run("rejects duplicate occurrence completions", func(t *testing.T) {
		repo := &completionRepoStub{createErr: persistence.ErrDuplicate}
		svc := NewCompletionService(repo, actionables, goals, nil, fixedNow, nil)

		_, err := svc.RecordCompletion(context.Background(), RecordCompletionParams{
			Principal: Principal{UserID: "user-1"},
			Input:     CompletionInput{ActionableID: "act-1", OccurrenceStart: occurrence},
		})
		if !errors.Is(err, ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("requires actionable and occurrence start", func(t *testing.T) {
		svc := NewCompletionService(&completionRepoStub{}, actionables, goals, nil, fixedNow, nil)

		_, err := svc.RecordCompletion(context.Background(), RecordCompletionParams{
			Principal: Principal{UserID: "user-1"},
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if _, ok := vErr.FieldErrors["actionable_id"]; !ok {
			t.Fatalf("expected actionable_id error, got %v", vErr.FieldErrors)
		}
		if _, ok := vErr.FieldErrors["occurrence_start"]; !ok {
			t.Fatalf("expected occurrence_start error, got %v", vErr.FieldErrors)
		}
	})

	t.Run("rejects completing another user's actionable", func(t *testing.T) {
		svc := NewCompletionService(&completionRepoStub{}, actionables, goals, nil, fixedNow, nil)

		_, err := svc.RecordCompletion(context.Background(), RecordCompletionParams{
			Principal: Principal{UserID: "user-2"},
			Input:     CompletionInput{ActionableID: "act-1", OccurrenceStart: occurrence},
		})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestCompletionService_DeleteCompletion(t *testing.T) {
	actionables := &actionableFinderStub{actionable: Actionable{ID: "act-1", GoalID: "goal-1"}}
	goals := &goalFinderStub{goal: Goal{ID: "goal-1", OwnerID: "user-1"}}
	existing := Completion{ID: "comp-1", ActionableID: "act-1"}

	t.Run("removes an owned completion", func(t *testing.T) {
		repo := &completionRepoStub{getCompletion: existing}
		svc := NewCompletionService(repo, actionables, goals, nil, fixedNow, nil)

		if err := svc.DeleteCompletion(context.Background(), Principal{UserID: "user-1"}, "comp-1"); err != nil {
			t.Fatalf("DeleteCompletion returned error: %v", err)
		}
		if repo.deletedID != "comp-1" {
			t.Fatalf("expected delete of comp-1, got %q", repo.deletedID)
		}
	})

	t.Run("maps missing completion to ErrNotFound", func(t *testing.T) {
		svc := NewCompletionService(&completionRepoStub{}, actionables, goals, nil, fixedNow, nil)

		err := svc.DeleteCompletion(context.Background(), Principal{UserID: "user-1"}, "missing")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("rejects deleting another user's completion", func(t *testing.T) {
		repo := &completionRepoStub{getCompletion: existing}
		svc := NewCompletionService(repo, actionables, goals, nil, fixedNow, nil)

		err := svc.DeleteCompletion(context.Background(), Principal{UserID: "user-2"}, "comp-1")
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})
}
