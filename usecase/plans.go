package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"planward/model"
	"planward/services"
	"planward/utils"
)

var (
	ErrInvalidPlan  = errors.New("invalid plan")
	ErrPlanNotFound = errors.New("plan not found")
)

// StateStore is the persistence seam for study state. The Mongo repository
// satisfies it in production; tests use an in-memory fake.
type StateStore interface {
	LoadState(ctx context.Context, userID string) (*model.StudyState, error)
	SaveState(ctx context.Context, userID string, state *model.StudyState) error
}

type PlanService struct {
	store StateStore
}

func NewPlanService(store StateStore) *PlanService {
	return &PlanService{store: store}
}

// mutate loads the caller's state, applies a transition, and persists the
// result wholesale.
func (svc *PlanService) mutate(ctx context.Context, userID string, fn func(*model.StudyState) error) (*model.StudyState, error) {
	state, err := svc.store.LoadState(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := fn(state); err != nil {
		return nil, err
	}
	if err := svc.store.SaveState(ctx, userID, state); err != nil {
		return nil, err
	}
	return state, nil
}

// ImportPlan validates raw plan JSON against the schema, decodes it, and
// installs it under the category. With merge set, weeks fold into the
// existing plan instead of replacing it.
func (svc *PlanService) ImportPlan(ctx context.Context, userID, categoryID string, raw []byte, merge bool) (model.Plan, error) {
	if err := services.ValidatePlanJSON(raw); err != nil {
		utils.TrackError("plan", "schema_validation")
		return model.Plan{}, fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}
	var plan model.Plan
	if err := json.Unmarshal(raw, &plan); err != nil {
		utils.TrackError("plan", "decode")
		return model.Plan{}, fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}

	state, err := svc.mutate(ctx, userID, func(state *model.StudyState) error {
		if merge {
			MergePlan(state, categoryID, plan)
		} else {
			ImportPlan(state, categoryID, plan)
		}
		return nil
	})
	if err != nil {
		return model.Plan{}, err
	}

	utils.TrackPlanOperation("import")
	return state.Plans[categoryID], nil
}

// GetPlan returns the category's plan; ok is false when none was imported.
func (svc *PlanService) GetPlan(ctx context.Context, userID, categoryID string) (model.Plan, bool, error) {
	state, err := svc.store.LoadState(ctx, userID)
	if err != nil {
		return model.Plan{}, false, err
	}
	plan, ok := state.Plans[categoryID]
	return plan, ok, nil
}

// Sections builds the category's progress view: per-day sections filtered by
// tag and query, then either grouped into period buckets or narrowed to the
// period containing today, per the strategy.
func (svc *PlanService) Sections(ctx context.Context, userID, categoryID, view, tag, query, strategy string) ([]model.Section, services.ViewMode, services.Strategy, error) {
	state, err := svc.store.LoadState(ctx, userID)
	if err != nil {
		return nil, "", "", err
	}
	plan, ok := state.Plans[categoryID]
	if !ok {
		return nil, "", "", fmt.Errorf("%w: %s", ErrPlanNotFound, categoryID)
	}

	mode := services.ParseViewMode(view)
	defaultStrategy := services.ParseStrategy(utils.GetEnvAsString("PERIOD_STRATEGY", string(services.StrategyGroup)), services.StrategyGroup)
	strat := services.ParseStrategy(strategy, defaultStrategy)

	sections := services.BuildSections(categoryID, plan, state.Progress)
	sections = services.FilterSections(sections, tag, query)

	switch strat {
	case services.StrategyCurrent:
		sections = services.FilterToCurrentPeriod(sections, mode, time.Now())
	default:
		sections = services.GroupByPeriod(sections, mode)
	}
	return sections, mode, strat, nil
}

func (svc *PlanService) ToggleTask(ctx context.Context, userID, key string) (model.TaskMeta, error) {
	state, err := svc.mutate(ctx, userID, func(state *model.StudyState) error {
		ToggleTask(state, key)
		return nil
	})
	if err != nil {
		return model.TaskMeta{}, err
	}
	meta := state.Progress[key]
	if meta.Completed {
		utils.TrackTaskCompletion()
	}
	return meta, nil
}

func (svc *PlanService) SetTaskNotes(ctx context.Context, userID, key, notes string) (model.TaskMeta, error) {
	return svc.taskMutation(ctx, userID, key, func(state *model.StudyState) {
		SetTaskNotes(state, key, notes)
	})
}

func (svc *PlanService) SetTaskTags(ctx context.Context, userID, key string, tags []string) (model.TaskMeta, error) {
	return svc.taskMutation(ctx, userID, key, func(state *model.StudyState) {
		SetTaskTags(state, key, tags)
	})
}

func (svc *PlanService) SetTaskTitle(ctx context.Context, userID, key, title string) (model.TaskMeta, error) {
	return svc.taskMutation(ctx, userID, key, func(state *model.StudyState) {
		SetTaskTitle(state, key, title)
	})
}

func (svc *PlanService) taskMutation(ctx context.Context, userID, key string, fn func(*model.StudyState)) (model.TaskMeta, error) {
	state, err := svc.mutate(ctx, userID, func(state *model.StudyState) error {
		fn(state)
		return nil
	})
	if err != nil {
		return model.TaskMeta{}, err
	}
	return state.Progress[key], nil
}

func (svc *PlanService) AddTask(ctx context.Context, userID, categoryID string, week int, day, title string) (string, error) {
	var key string
	_, err := svc.mutate(ctx, userID, func(state *model.StudyState) error {
		var err error
		key, err = AddTask(state, categoryID, week, day, title)
		return err
	})
	if err != nil {
		return "", err
	}
	utils.TrackPlanOperation("add_task")
	return key, nil
}

func (svc *PlanService) RemoveTask(ctx context.Context, userID, categoryID, key string) (bool, error) {
	var found bool
	_, err := svc.mutate(ctx, userID, func(state *model.StudyState) error {
		found = RemoveTask(state, categoryID, key)
		return nil
	})
	if err != nil {
		return false, err
	}
	if found {
		utils.TrackPlanOperation("remove_task")
	}
	return found, nil
}

// RemovePlan clears everything stored under a category; used when the
// category itself is deleted.
func (svc *PlanService) RemovePlan(ctx context.Context, userID, categoryID string) error {
	_, err := svc.mutate(ctx, userID, func(state *model.StudyState) error {
		RemovePlan(state, categoryID)
		return nil
	})
	return err
}

func (svc *PlanService) AddSubtask(ctx context.Context, userID, taskKey, parentViewID, title string) (string, error) {
	var viewID string
	_, err := svc.mutate(ctx, userID, func(state *model.StudyState) error {
		viewID = AddSubtask(state, taskKey, parentViewID, title)
		return nil
	})
	return viewID, err
}

func (svc *PlanService) ToggleSubtask(ctx context.Context, userID, taskKey, viewID string) (model.TaskMeta, error) {
	return svc.taskMutation(ctx, userID, taskKey, func(state *model.StudyState) {
		ToggleSubtaskView(state, taskKey, viewID)
	})
}

func (svc *PlanService) RemoveSubtask(ctx context.Context, userID, taskKey, viewID string) (model.TaskMeta, error) {
	return svc.taskMutation(ctx, userID, taskKey, func(state *model.StudyState) {
		RemoveSubtaskView(state, taskKey, viewID)
	})
}

func (svc *PlanService) SetSubtaskNotes(ctx context.Context, userID, taskKey, viewID, notes string) (model.TaskMeta, error) {
	return svc.taskMutation(ctx, userID, taskKey, func(state *model.StudyState) {
		SetSubtaskNotesView(state, taskKey, viewID, notes)
	})
}

func (svc *PlanService) RenameSubtask(ctx context.Context, userID, taskKey, viewID, title string) (model.TaskMeta, error) {
	return svc.taskMutation(ctx, userID, taskKey, func(state *model.StudyState) {
		RenameSubtaskView(state, taskKey, viewID, title)
	})
}
