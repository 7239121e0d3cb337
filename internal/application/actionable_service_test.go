package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/goal-tracker/internal/persistence"
)

type actionableRepoStub struct {
	createErr error
	created   Actionable

	getActionable Actionable
	getErr        error

	updateErr error
	updated   Actionable

	deleteErr error
	deletedID string

	list    []Actionable
	listErr error
}

func (r *actionableRepoStub) CreateActionable(ctx context.Context, actionable Actionable) (Actionable, error) {
	if r.createErr != nil {
		return Actionable{}, r.createErr
	}
	r.created = actionable
	return actionable, nil
}

func (r *actionableRepoStub) GetActionable(ctx context.Context, id string) (Actionable, error) {
	if r.getErr != nil {
		return Actionable{}, r.getErr
	}
	if r.getActionable.ID == "" {
		return Actionable{}, persistence.ErrNotFound
	}
	return r.getActionable, nil
}

func (r *actionableRepoStub) UpdateActionable(ctx context.Context, actionable Actionable) (Actionable, error) {
	if r.updateErr != nil {
		return Actionable{}, r.updateErr
	}
	r.updated = actionable
	return actionable, nil
}

func (r *actionableRepoStub) DeleteActionable(ctx context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.deletedID = id
	return nil
}

func (r *actionableRepoStub) ListActionablesForGoal(ctx context.Context, goalID string) ([]Actionable, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]Actionable, len(r.list))
	copy(out, r.list)
	return out, nil
}

type goalFinderStub struct {
	goal Goal
	err  error
}

func (g *goalFinderStub) GetGoal(ctx context.Context, id string) (Goal, error) {
	if g.err != nil {
		return Goal{}, g.err
	}
	if g.goal.ID == "" {
		return Goal{}, persistence.ErrNotFound
	}
	return g.goal, nil
}

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

func TestActionableService_CreateActionable(t *testing.T) {
	ownedGoal := &goalFinderStub{goal: Goal{ID: "goal-1", OwnerID: "user-1"}}

	t.Run("persists a valid actionable", func(t *testing.T) {
		repo := &actionableRepoStub{}
		svc := NewActionableService(repo, ownedGoal, func() string { return "act-1" }, fixedNow, nil)

		actionable, err := svc.CreateActionable(context.Background(), CreateActionableParams{
			Principal: Principal{UserID: "user-1"},
			Input: ActionableInput{
				GoalID:         "goal-1",
				Title:          "Morning run",
				StartDate:      "2024-03-04",
				StartTime:      strPtr("06:30"),
				RecurrenceRule: strPtr("FREQ=WEEKLY;BYDAY=MO,WE,FR"),
				Timezone:       strPtr("America/New_York"),
			},
		})
		if err != nil {
			t.Fatalf("CreateActionable returned error: %v", err)
		}
		if actionable.ID != "act-1" {
			t.Fatalf("expected generated id act-1, got %q", actionable.ID)
		}
		if actionable.IsPaused || actionable.IsArchived {
			t.Fatalf("expected new actionable to be active, got %+v", actionable)
		}
	})

	t.Run("rejects actionables under another user's goal", func(t *testing.T) {
		svc := NewActionableService(&actionableRepoStub{}, ownedGoal, nil, nil, nil)

		_, err := svc.CreateActionable(context.Background(), CreateActionableParams{
			Principal: Principal{UserID: "user-2"},
			Input:     ActionableInput{GoalID: "goal-1", Title: "Theirs", StartDate: "2024-03-04"},
		})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("validates scheduling fields", func(t *testing.T) {
		svc := NewActionableService(&actionableRepoStub{}, ownedGoal, nil, nil, nil)

		_, err := svc.CreateActionable(context.Background(), CreateActionableParams{
			Principal: Principal{UserID: "user-1"},
			Input: ActionableInput{
				GoalID:          "goal-1",
				Title:           "",
				StartDate:       "04-03-2024",
				EndDate:         strPtr("not-a-date"),
				StartTime:       strPtr("25:99"),
				DurationMinutes: intPtr(0),
				RecurrenceRule:  strPtr("FREQ=HOURLY"),
				Timezone:        strPtr("Mars/Olympus"),
				Color:           strPtr("blue"),
			},
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		for _, field := range []string{"title", "start_date", "end_date", "start_time", "duration_minutes", "recurrence_rule", "timezone", "color"} {
			if _, ok := vErr.FieldErrors[field]; !ok {
				t.Errorf("expected %s error, got %v", field, vErr.FieldErrors)
			}
		}
	})

	t.Run("rejects end date before start date", func(t *testing.T) {
		svc := NewActionableService(&actionableRepoStub{}, ownedGoal, nil, nil, nil)

		_, err := svc.CreateActionable(context.Background(), CreateActionableParams{
			Principal: Principal{UserID: "user-1"},
			Input: ActionableInput{
				GoalID:    "goal-1",
				Title:     "Backwards window",
				StartDate: "2024-03-10",
				EndDate:   strPtr("2024-03-01"),
			},
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if _, ok := vErr.FieldErrors["end_date"]; !ok {
			t.Fatalf("expected end_date error, got %v", vErr.FieldErrors)
		}
	})

	t.Run("maps missing goal to ErrNotFound", func(t *testing.T) {
		svc := NewActionableService(&actionableRepoStub{}, &goalFinderStub{}, nil, nil, nil)

		_, err := svc.CreateActionable(context.Background(), CreateActionableParams{
			Principal: Principal{UserID: "user-1"},
			Input:     ActionableInput{GoalID: "missing", Title: "Orphan", StartDate: "2024-03-04"},
		})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestActionableService_Lifecycle(t *testing.T) {
	ownedGoal := &goalFinderStub{goal: Goal{ID: "goal-1", OwnerID: "user-1"}}
	active := Actionable{ID: "act-1", GoalID: "goal-1", Title: "Run", StartDate: "2024-03-04"}

	t.Run("pause with until sets both flags", func(t *testing.T) {
		repo := &actionableRepoStub{getActionable: active}
		svc := NewActionableService(repo, ownedGoal, nil, fixedNow, nil)
		until := fixedNow().Add(72 * time.Hour)

		actionable, err := svc.Pause(context.Background(), PauseActionableParams{
			Principal:    Principal{UserID: "user-1"},
			ActionableID: "act-1",
			Until:        &until,
		})
		if err != nil {
			t.Fatalf("Pause returned error: %v", err)
		}
		if !actionable.IsPaused {
			t.Fatal("expected actionable to be paused")
		}
		if actionable.PausedUntil == nil || !actionable.PausedUntil.Equal(until) {
			t.Fatalf("expected paused_until %v, got %v", until, actionable.PausedUntil)
		}
	})

	t.Run("pause without until pauses indefinitely", func(t *testing.T) {
		repo := &actionableRepoStub{getActionable: active}
		svc := NewActionableService(repo, ownedGoal, nil, fixedNow, nil)

		actionable, err := svc.Pause(context.Background(), PauseActionableParams{
			Principal:    Principal{UserID: "user-1"},
			ActionableID: "act-1",
		})
		if err != nil {
			t.Fatalf("Pause returned error: %v", err)
		}
		if !actionable.IsPaused || actionable.PausedUntil != nil {
			t.Fatalf("expected indefinite pause, got %+v", actionable)
		}
	})

	t.Run("resume clears pause state", func(t *testing.T) {
		paused := active
		paused.IsPaused = true
		until := fixedNow()
		paused.PausedUntil = &until

		repo := &actionableRepoStub{getActionable: paused}
		svc := NewActionableService(repo, ownedGoal, nil, fixedNow, nil)

		actionable, err := svc.Resume(context.Background(), Principal{UserID: "user-1"}, "act-1")
		if err != nil {
			t.Fatalf("Resume returned error: %v", err)
		}
		if actionable.IsPaused || actionable.PausedUntil != nil {
			t.Fatalf("expected pause cleared, got %+v", actionable)
		}
	})

	t.Run("archive wins over pause", func(t *testing.T) {
		paused := active
		paused.IsPaused = true

		repo := &actionableRepoStub{getActionable: paused}
		svc := NewActionableService(repo, ownedGoal, nil, fixedNow, nil)

		actionable, err := svc.Archive(context.Background(), Principal{UserID: "user-1"}, "act-1")
		if err != nil {
			t.Fatalf("Archive returned error: %v", err)
		}
		if !actionable.IsArchived {
			t.Fatal("expected actionable to be archived")
		}
		if actionable.IsPaused || actionable.PausedUntil != nil {
			t.Fatalf("expected pause cleared on archive, got %+v", actionable)
		}
	})

	t.Run("archived actionables cannot be paused", func(t *testing.T) {
		archived := active
		archived.IsArchived = true

		repo := &actionableRepoStub{getActionable: archived}
		svc := NewActionableService(repo, ownedGoal, nil, fixedNow, nil)

		_, err := svc.Pause(context.Background(), PauseActionableParams{
			Principal:    Principal{UserID: "user-1"},
			ActionableID: "act-1",
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("lifecycle transitions require ownership", func(t *testing.T) {
		repo := &actionableRepoStub{getActionable: active}
		svc := NewActionableService(repo, ownedGoal, nil, fixedNow, nil)

		if _, err := svc.Pause(context.Background(), PauseActionableParams{
			Principal:    Principal{UserID: "user-2"},
			ActionableID: "act-1",
		}); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized from Pause, got %v", err)
		}
		if _, err := svc.Resume(context.Background(), Principal{UserID: "user-2"}, "act-1"); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized from Resume, got %v", err)
		}
		if _, err := svc.Archive(context.Background(), Principal{UserID: "user-2"}, "act-1"); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized from Archive, got %v", err)
		}
	})
}

func TestActionableService_UpdateActionable(t *testing.T) {
	ownedGoal := &goalFinderStub{goal: Goal{ID: "goal-1", OwnerID: "user-1"}}
	existing := Actionable{ID: "act-1", GoalID: "goal-1", Title: "Old", StartDate: "2024-03-04", CreatedAt: fixedNow().Add(-time.Hour)}

	t.Run("preserves lifecycle flags across updates", func(t *testing.T) {
		paused := existing
		paused.IsPaused = true

		repo := &actionableRepoStub{getActionable: paused}
		svc := NewActionableService(repo, ownedGoal, nil, fixedNow, nil)

		actionable, err := svc.UpdateActionable(context.Background(), UpdateActionableParams{
			Principal:    Principal{UserID: "user-1"},
			ActionableID: "act-1",
			Input:        ActionableInput{Title: "New title", StartDate: "2024-03-05"},
		})
		if err != nil {
			t.Fatalf("UpdateActionable returned error: %v", err)
		}
		if !actionable.IsPaused {
			t.Fatal("expected pause flag preserved")
		}
		if actionable.Title != "New title" || actionable.StartDate != "2024-03-05" {
			t.Fatalf("unexpected update result: %+v", actionable)
		}
	})

	t.Run("rejects moving between goals", func(t *testing.T) {
		repo := &actionableRepoStub{getActionable: existing}
		svc := NewActionableService(repo, ownedGoal, nil, fixedNow, nil)

		_, err := svc.UpdateActionable(context.Background(), UpdateActionableParams{
			Principal:    Principal{UserID: "user-1"},
			ActionableID: "act-1",
			Input:        ActionableInput{GoalID: "goal-2", Title: "Moved", StartDate: "2024-03-05"},
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if _, ok := vErr.FieldErrors["goal_id"]; !ok {
			t.Fatalf("expected goal_id error, got %v", vErr.FieldErrors)
		}
	})
}
