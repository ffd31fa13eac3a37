package usecase

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"planward/model"
	"planward/services"
)

// State transitions. Every function here mutates a loaded StudyState snapshot
// in memory; persistence happens afterwards in the service layer, so a failed
// save never leaves a half-applied transition in the store.

// ImportPlan installs a plan under the category, replacing whatever was there.
// The first import of any plan marks the tracker as started.
func ImportPlan(state *model.StudyState, categoryID string, plan model.Plan) {
	state.EnsureMaps()
	state.Plans[categoryID] = plan
	state.Started = true
}

// MergePlan folds an incoming plan into the category's existing one: weeks
// with a matching number are replaced, new weeks are appended, and the result
// is sorted by week number. Title and start date are overridden only when the
// incoming plan sets them.
func MergePlan(state *model.StudyState, categoryID string, incoming model.Plan) {
	state.EnsureMaps()
	existing, ok := state.Plans[categoryID]
	if !ok {
		ImportPlan(state, categoryID, incoming)
		return
	}

	for _, week := range incoming.Schedule {
		replaced := false
		for i, have := range existing.Schedule {
			if have.Week == week.Week {
				existing.Schedule[i] = week
				replaced = true
				break
			}
		}
		if !replaced {
			existing.Schedule = append(existing.Schedule, week)
		}
	}
	sort.Slice(existing.Schedule, func(i, j int) bool {
		return existing.Schedule[i].Week < existing.Schedule[j].Week
	})

	if incoming.Title != "" {
		existing.Title = incoming.Title
	}
	if incoming.StartDate != "" {
		existing.StartDate = incoming.StartDate
	}

	state.Plans[categoryID] = existing
	state.Started = true
}

// ToggleTask flips a task's completion, creating its meta on first touch.
// A task with subtasks cascades the new value to its whole tree. Toggling a
// pattern parent fans out to every problem's independent meta, since the
// parent's own completion is only a reflection of theirs.
func ToggleTask(state *model.StudyState, key string) {
	state.EnsureMaps()
	if problems, ok := patternProblemKeys(state, key); ok {
		toggleProblemGroup(state, key, problems)
		return
	}
	meta := state.Progress[key]
	meta.Completed = !meta.Completed
	if len(meta.Subtasks) > 0 {
		meta.Subtasks = services.ForceSubtaskCompletion(meta.Subtasks, meta.Completed)
	}
	state.Progress[key] = meta
}

// patternProblemKeys reports whether key identifies a pattern parent in any
// plan, and if so the keys of its problems.
func patternProblemKeys(state *model.StudyState, key string) ([]string, bool) {
	categoryID := categoryFromKey(key)
	plan, ok := state.Plans[categoryID]
	if !ok {
		return nil, false
	}
	for _, week := range plan.Schedule {
		for _, day := range week.Days {
			for _, pattern := range day.Patterns {
				if services.MakeTaskKey(categoryID, week.Week, day.Day, services.BucketPattern, pattern.Name) != key {
					continue
				}
				keys := make([]string, len(pattern.Problems))
				for i, problem := range pattern.Problems {
					keys[i] = services.MakeTaskKey(categoryID, week.Week, day.Day, pattern.Name, problem)
				}
				return keys, true
			}
		}
	}
	return nil, false
}

func toggleProblemGroup(state *model.StudyState, parentKey string, problemKeys []string) {
	allComplete := len(problemKeys) > 0
	for _, pk := range problemKeys {
		if !state.Progress[pk].Completed {
			allComplete = false
			break
		}
	}
	target := !allComplete
	for _, pk := range problemKeys {
		meta := state.Progress[pk]
		meta.Completed = target
		if len(meta.Subtasks) > 0 {
			meta.Subtasks = services.ForceSubtaskCompletion(meta.Subtasks, target)
		}
		state.Progress[pk] = meta
	}
	parent := state.Progress[parentKey]
	parent.Completed = target
	state.Progress[parentKey] = parent
}

func SetTaskNotes(state *model.StudyState, key, notes string) {
	state.EnsureMaps()
	meta := state.Progress[key]
	meta.Notes = notes
	state.Progress[key] = meta
}

func SetTaskTags(state *model.StudyState, key string, tags []string) {
	state.EnsureMaps()
	meta := state.Progress[key]
	meta.Tags = tags
	state.Progress[key] = meta
}

func SetTaskTitle(state *model.StudyState, key, title string) {
	state.EnsureMaps()
	meta := state.Progress[key]
	meta.TitleOverride = title
	state.Progress[key] = meta
}

// AddTask appends an ad-hoc activity to a plan day, creating the week and day
// entries when they do not exist yet. Returns the new task's key.
func AddTask(state *model.StudyState, categoryID string, week int, day, title string) (string, error) {
	state.EnsureMaps()
	plan, ok := state.Plans[categoryID]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrPlanNotFound, categoryID)
	}

	wi := -1
	for i, w := range plan.Schedule {
		if w.Week == week {
			wi = i
			break
		}
	}
	if wi < 0 {
		plan.Schedule = append(plan.Schedule, model.ScheduleWeek{Week: week})
		wi = len(plan.Schedule) - 1
	}

	di := -1
	for i, d := range plan.Schedule[wi].Days {
		if d.Day == day {
			di = i
			break
		}
	}
	if di < 0 {
		plan.Schedule[wi].Days = append(plan.Schedule[wi].Days, model.ScheduleDay{Day: day})
		di = len(plan.Schedule[wi].Days) - 1
	}

	plan.Schedule[wi].Days[di].Activities = append(plan.Schedule[wi].Days[di].Activities, title)

	sort.Slice(plan.Schedule, func(i, j int) bool {
		return plan.Schedule[i].Week < plan.Schedule[j].Week
	})
	state.Plans[categoryID] = plan
	return services.MakeTaskKey(categoryID, week, day, services.BucketActivity, title), nil
}

// RemoveTask deletes the plan entry whose derived key matches: an activity, a
// whole pattern (by its parent key, taking every problem's meta with it), or
// a single problem. Days and weeks left empty are pruned. Returns false when
// no entry produces the key.
func RemoveTask(state *model.StudyState, categoryID, key string) bool {
	state.EnsureMaps()
	plan, ok := state.Plans[categoryID]
	if !ok {
		return false
	}

	found := false
	for wi := 0; wi < len(plan.Schedule) && !found; wi++ {
		week := &plan.Schedule[wi]
		for di := 0; di < len(week.Days) && !found; di++ {
			day := &week.Days[di]

			for ai, activity := range day.Activities {
				if services.MakeTaskKey(categoryID, week.Week, day.Day, services.BucketActivity, activity) == key {
					day.Activities = append(day.Activities[:ai], day.Activities[ai+1:]...)
					delete(state.Progress, key)
					found = true
					break
				}
			}
			if found {
				break
			}

			for pi, pattern := range day.Patterns {
				parentKey := services.MakeTaskKey(categoryID, week.Week, day.Day, services.BucketPattern, pattern.Name)
				if parentKey == key {
					for _, problem := range pattern.Problems {
						delete(state.Progress, services.MakeTaskKey(categoryID, week.Week, day.Day, pattern.Name, problem))
					}
					day.Patterns = append(day.Patterns[:pi], day.Patterns[pi+1:]...)
					delete(state.Progress, key)
					found = true
					break
				}

				for qi, problem := range pattern.Problems {
					if services.MakeTaskKey(categoryID, week.Week, day.Day, pattern.Name, problem) == key {
						pattern.Problems = append(pattern.Problems[:qi], pattern.Problems[qi+1:]...)
						if len(pattern.Problems) == 0 {
							day.Patterns = append(day.Patterns[:pi], day.Patterns[pi+1:]...)
							delete(state.Progress, parentKey)
						} else {
							day.Patterns[pi] = pattern
						}
						delete(state.Progress, key)
						found = true
						break
					}
				}
				if found {
					break
				}
			}
		}
	}
	if !found {
		return false
	}

	pruneEmpty(&plan)
	state.Plans[categoryID] = plan
	return true
}

// RemovePlan drops a category's plan and every progress entry keyed under it.
func RemovePlan(state *model.StudyState, categoryID string) {
	state.EnsureMaps()
	delete(state.Plans, categoryID)
	prefix := categoryID + "__"
	for key := range state.Progress {
		if strings.HasPrefix(key, prefix) {
			delete(state.Progress, key)
		}
	}
}

func pruneEmpty(plan *model.Plan) {
	var weeks []model.ScheduleWeek
	for _, week := range plan.Schedule {
		var days []model.ScheduleDay
		for _, day := range week.Days {
			if len(day.Activities) > 0 || len(day.Patterns) > 0 {
				days = append(days, day)
			}
		}
		week.Days = days
		if len(week.Days) > 0 {
			weeks = append(weeks, week)
		}
	}
	plan.Schedule = weeks
}

// resolveRef maps a subtask view ID onto the task meta that actually owns the
// node. Problems under a pattern parent redirect to their own key.
func resolveRef(taskKey, viewID string) (string, string) {
	ref := services.ParseSubtaskRef(viewID)
	if ref.Kind == services.RefPatternProblem {
		return ref.TaskKey, ref.SubID
	}
	return taskKey, ref.SubID
}

// categoryFromKey recovers the category segment of a task key.
func categoryFromKey(key string) string {
	if i := strings.Index(key, "__"); i >= 0 {
		return key[:i]
	}
	return key
}

// AddSubtask inserts a new node under the given parent view ID (empty or
// unknown parent appends at the root). Returns the new node's view ID.
func AddSubtask(state *model.StudyState, taskKey, parentViewID, title string) string {
	state.EnsureMaps()
	key := taskKey
	parentID := ""
	if parentViewID != "" {
		key, parentID = resolveRef(taskKey, parentViewID)
	}

	node := model.Subtask{ID: uuid.New().String(), Title: title}
	meta := state.Progress[key]
	meta.Subtasks = services.InsertSubtask(meta.Subtasks, node, parentID)
	syncCompletion(&meta)
	state.Progress[key] = meta

	if services.ParseSubtaskRef(parentViewID).Kind == services.RefPatternProblem {
		return services.EncodeProblemRef(key, node.ID)
	}
	return node.ID
}

// ToggleSubtaskView toggles the node behind a view ID. A bare problem ref
// ("k|<key>") toggles the problem task itself. An unknown subtask ID leaves
// the state untouched, including the owning task's own completion.
func ToggleSubtaskView(state *model.StudyState, taskKey, viewID string) {
	state.EnsureMaps()
	key, subID := resolveRef(taskKey, viewID)
	if subID == "" {
		if key != taskKey {
			ToggleTask(state, key)
		}
		return
	}
	meta := state.Progress[key]
	if !services.SubtaskExists(meta.Subtasks, subID) {
		return
	}
	meta.Subtasks = services.ToggleSubtask(meta.Subtasks, subID)
	syncCompletion(&meta)
	state.Progress[key] = meta
}

// RemoveSubtaskView removes the node behind a view ID. A bare problem ref
// removes the problem from the plan itself.
func RemoveSubtaskView(state *model.StudyState, taskKey, viewID string) {
	state.EnsureMaps()
	key, subID := resolveRef(taskKey, viewID)
	if subID == "" {
		if key != taskKey {
			RemoveTask(state, categoryFromKey(key), key)
		}
		return
	}
	meta := state.Progress[key]
	if !services.SubtaskExists(meta.Subtasks, subID) {
		return
	}
	meta.Subtasks = services.RemoveSubtask(meta.Subtasks, subID)
	syncCompletion(&meta)
	state.Progress[key] = meta
}

// SetSubtaskNotesView sets notes on the node behind a view ID; a bare problem
// ref targets the problem task's own notes.
func SetSubtaskNotesView(state *model.StudyState, taskKey, viewID, notes string) {
	state.EnsureMaps()
	key, subID := resolveRef(taskKey, viewID)
	if subID == "" {
		if key != taskKey {
			SetTaskNotes(state, key, notes)
		}
		return
	}
	meta := state.Progress[key]
	if !services.SubtaskExists(meta.Subtasks, subID) {
		return
	}
	meta.Subtasks = services.SetSubtaskNotes(meta.Subtasks, subID, notes)
	state.Progress[key] = meta
}

// RenameSubtaskView renames the node behind a view ID; a bare problem ref
// sets the problem task's title override.
func RenameSubtaskView(state *model.StudyState, taskKey, viewID, title string) {
	state.EnsureMaps()
	key, subID := resolveRef(taskKey, viewID)
	if subID == "" {
		if key != taskKey {
			SetTaskTitle(state, key, title)
		}
		return
	}
	meta := state.Progress[key]
	if !services.SubtaskExists(meta.Subtasks, subID) {
		return
	}
	meta.Subtasks = services.RenameSubtask(meta.Subtasks, subID, title)
	state.Progress[key] = meta
}

// syncCompletion lifts the tree invariant one level up: a task with subtasks
// is complete exactly when all of them are. A task whose last subtask was just
// removed falls out on the empty side of the rule and returns to incomplete;
// its earlier manual completion is not restored.
func syncCompletion(meta *model.TaskMeta) {
	meta.Completed = len(meta.Subtasks) > 0 && services.AllSubtasksComplete(meta.Subtasks)
}
