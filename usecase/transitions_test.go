package usecase

import (
	"errors"
	"testing"

	"planward/model"
	"planward/services"
)

func newState() *model.StudyState {
	s := &model.StudyState{}
	s.EnsureMaps()
	return s
}

func samplePlan() model.Plan {
	return model.Plan{
		Title: "Interview prep",
		Schedule: []model.ScheduleWeek{
			{
				Week:  1,
				Topic: "Arrays",
				Days: []model.ScheduleDay{
					{Day: "1", Activities: []string{"Read chapter 1"}},
					{
						Day: "2",
						Patterns: []model.Pattern{
							{Name: "Two Pointers", Problems: []string{"Two Sum", "3Sum"}},
						},
					},
				},
			},
		},
	}
}

func TestImportPlan(t *testing.T) {
	state := newState()
	ImportPlan(state, "algo", samplePlan())

	if !state.Started {
		t.Error("expected Started after first import")
	}
	if _, ok := state.Plans["algo"]; !ok {
		t.Fatal("plan not installed")
	}
}

func TestMergePlan(t *testing.T) {
	state := newState()
	ImportPlan(state, "algo", samplePlan())

	incoming := model.Plan{
		StartDate: "2024-01-01",
		Schedule: []model.ScheduleWeek{
			{Week: 2, Topic: "Graphs", Days: []model.ScheduleDay{{Day: "1", Activities: []string{"BFS"}}}},
			{Week: 1, Topic: "Arrays revisited", Days: []model.ScheduleDay{{Day: "1", Activities: []string{"Redo"}}}},
		},
	}
	MergePlan(state, "algo", incoming)

	plan := state.Plans["algo"]
	if len(plan.Schedule) != 2 {
		t.Fatalf("expected 2 weeks, got %d", len(plan.Schedule))
	}
	if plan.Schedule[0].Week != 1 || plan.Schedule[1].Week != 2 {
		t.Errorf("weeks not sorted: %d, %d", plan.Schedule[0].Week, plan.Schedule[1].Week)
	}
	if plan.Schedule[0].Topic != "Arrays revisited" {
		t.Errorf("week 1 not replaced, topic = %q", plan.Schedule[0].Topic)
	}
	if plan.Title != "Interview prep" {
		t.Errorf("empty incoming title should not override, got %q", plan.Title)
	}
	if plan.StartDate != "2024-01-01" {
		t.Errorf("start date not merged, got %q", plan.StartDate)
	}
}

func TestToggleTaskLazyMeta(t *testing.T) {
	state := newState()
	ToggleTask(state, "algo__w1__d1__activity__read-chapter-1")

	meta, ok := state.Progress["algo__w1__d1__activity__read-chapter-1"]
	if !ok {
		t.Fatal("meta not created on first toggle")
	}
	if !meta.Completed {
		t.Error("expected completed after toggle")
	}
}

func TestToggleTaskCascadesToSubtasks(t *testing.T) {
	state := newState()
	key := "algo__w1__d1__activity__read-chapter-1"
	state.Progress[key] = model.TaskMeta{
		Subtasks: []model.Subtask{
			{ID: "a", Title: "a", Children: []model.Subtask{{ID: "a1", Title: "a1"}}},
			{ID: "b", Title: "b"},
		},
	}

	ToggleTask(state, key)
	meta := state.Progress[key]
	if !meta.Completed {
		t.Fatal("expected task complete")
	}
	if !services.AllSubtasksComplete(meta.Subtasks) {
		t.Error("cascade did not reach all subtasks")
	}

	ToggleTask(state, key)
	meta = state.Progress[key]
	if meta.Completed {
		t.Error("expected task incomplete after second toggle")
	}
	if meta.Subtasks[0].Completed || meta.Subtasks[0].Children[0].Completed {
		t.Error("cascade did not clear subtasks")
	}
}

func TestTogglePatternParentFansOutToProblems(t *testing.T) {
	state := newState()
	ImportPlan(state, "algo", samplePlan())

	parentKey := services.MakeTaskKey("algo", 1, "2", services.BucketPattern, "Two Pointers")
	twoSum := services.MakeTaskKey("algo", 1, "2", "Two Pointers", "Two Sum")
	threeSum := services.MakeTaskKey("algo", 1, "2", "Two Pointers", "3Sum")

	ToggleTask(state, parentKey)
	if !state.Progress[twoSum].Completed || !state.Progress[threeSum].Completed {
		t.Fatal("pattern toggle did not complete problem metas")
	}

	// one problem cleared: next parent toggle completes instead of clearing
	ToggleTask(state, twoSum)
	ToggleTask(state, parentKey)
	if !state.Progress[twoSum].Completed || !state.Progress[threeSum].Completed {
		t.Error("parent toggle with a mixed group should complete all problems")
	}

	ToggleTask(state, parentKey)
	if state.Progress[twoSum].Completed || state.Progress[threeSum].Completed {
		t.Error("parent toggle on a complete group should clear all problems")
	}
}

func TestAddTask(t *testing.T) {
	state := newState()
	ImportPlan(state, "algo", samplePlan())

	key, err := AddTask(state, "algo", 2, "5", "Mock interview")
	if err != nil {
		t.Fatal(err)
	}
	want := services.MakeTaskKey("algo", 2, "5", services.BucketActivity, "Mock interview")
	if key != want {
		t.Errorf("key = %q, want %q", key, want)
	}

	plan := state.Plans["algo"]
	if len(plan.Schedule) != 2 {
		t.Fatalf("expected new week appended, got %d weeks", len(plan.Schedule))
	}
	week := plan.Schedule[1]
	if week.Week != 2 || len(week.Days) != 1 || week.Days[0].Day != "5" {
		t.Fatalf("unexpected week layout: %+v", week)
	}
	if week.Days[0].Activities[0] != "Mock interview" {
		t.Errorf("activity not appended")
	}

	if _, err := AddTask(state, "missing", 1, "1", "x"); !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("expected ErrPlanNotFound for category without a plan, got %v", err)
	}
}

func TestRemoveTaskRoundTrip(t *testing.T) {
	state := newState()
	ImportPlan(state, "algo", samplePlan())

	activityKey := services.MakeTaskKey("algo", 1, "1", services.BucketActivity, "Read chapter 1")
	ToggleTask(state, activityKey)

	if !RemoveTask(state, "algo", activityKey) {
		t.Fatal("activity not found for removal")
	}
	if _, ok := state.Progress[activityKey]; ok {
		t.Error("meta not deleted with task")
	}
	plan := state.Plans["algo"]
	if len(plan.Schedule) != 1 || len(plan.Schedule[0].Days) != 1 {
		t.Fatalf("empty day not pruned: %+v", plan.Schedule)
	}
	if plan.Schedule[0].Days[0].Day != "2" {
		t.Errorf("wrong day pruned")
	}

	if RemoveTask(state, "algo", activityKey) {
		t.Error("second removal should report not found")
	}
}

func TestRemoveLastProblemRemovesPattern(t *testing.T) {
	state := newState()
	ImportPlan(state, "algo", samplePlan())

	parentKey := services.MakeTaskKey("algo", 1, "2", services.BucketPattern, "Two Pointers")
	twoSum := services.MakeTaskKey("algo", 1, "2", "Two Pointers", "Two Sum")
	threeSum := services.MakeTaskKey("algo", 1, "2", "Two Pointers", "3Sum")
	ToggleTask(state, parentKey)

	if !RemoveTask(state, "algo", twoSum) {
		t.Fatal("problem not found")
	}
	if !RemoveTask(state, "algo", threeSum) {
		t.Fatal("second problem not found")
	}
	if _, ok := state.Progress[parentKey]; ok {
		t.Error("pattern parent meta should go with its last problem")
	}
	// day 2 had only the pattern; week 1 still has day 1
	plan := state.Plans["algo"]
	if len(plan.Schedule) != 1 || len(plan.Schedule[0].Days) != 1 || plan.Schedule[0].Days[0].Day != "1" {
		t.Fatalf("empty day not pruned: %+v", plan.Schedule)
	}
}

func TestRemovePatternParentRemovesProblems(t *testing.T) {
	state := newState()
	ImportPlan(state, "algo", samplePlan())

	parentKey := services.MakeTaskKey("algo", 1, "2", services.BucketPattern, "Two Pointers")
	twoSum := services.MakeTaskKey("algo", 1, "2", "Two Pointers", "Two Sum")
	ToggleTask(state, twoSum)

	if !RemoveTask(state, "algo", parentKey) {
		t.Fatal("pattern parent not found")
	}
	if _, ok := state.Progress[twoSum]; ok {
		t.Error("problem meta should be deleted with the pattern")
	}
}

func TestSubtaskViewRouting(t *testing.T) {
	state := newState()
	taskKey := "algo__w1__d1__activity__read-chapter-1"
	problemKey := "algo__w1__d2__two-pointers__two-sum"

	t.Run("direct id targets the owning task", func(t *testing.T) {
		id := AddSubtask(state, taskKey, "", "take notes")
		if id == "" {
			t.Fatal("no id returned")
		}
		ToggleSubtaskView(state, taskKey, id)
		meta := state.Progress[taskKey]
		if !meta.Subtasks[0].Completed {
			t.Error("direct subtask not toggled")
		}
		if !meta.Completed {
			t.Error("task should complete when its only subtask does")
		}
	})

	t.Run("bare problem ref toggles the problem meta", func(t *testing.T) {
		ImportPlan(state, "algo", samplePlan())
		viewID := services.EncodeProblemRef(problemKey, "")
		ToggleSubtaskView(state, "ignored-parent-key", viewID)
		if !state.Progress[problemKey].Completed {
			t.Error("problem meta not toggled through ref")
		}
	})

	t.Run("nested problem ref targets the problem's own tree", func(t *testing.T) {
		id := AddSubtask(state, "ignored", services.EncodeProblemRef(problemKey, ""), "edge cases")
		want := services.EncodeProblemRef(problemKey, services.ParseSubtaskRef(id).SubID)
		if id != want {
			t.Fatalf("returned id %q not a problem ref", id)
		}
		ToggleSubtaskView(state, "ignored", id)
		meta := state.Progress[problemKey]
		if len(meta.Subtasks) != 1 || !meta.Subtasks[0].Completed {
			t.Fatalf("nested node not toggled: %+v", meta.Subtasks)
		}
		if !meta.Completed {
			t.Error("problem should complete when all its subtasks do")
		}
	})

	t.Run("remove and rename through refs", func(t *testing.T) {
		RenameSubtaskView(state, "ignored", services.EncodeProblemRef(problemKey, ""), "Pair Sum")
		if state.Progress[problemKey].TitleOverride != "Pair Sum" {
			t.Error("bare ref rename should set the problem's title override")
		}

		meta := state.Progress[problemKey]
		subID := meta.Subtasks[0].ID
		RemoveSubtaskView(state, "ignored", services.EncodeProblemRef(problemKey, subID))
		if len(state.Progress[problemKey].Subtasks) != 0 {
			t.Error("nested node not removed")
		}
	})
}

func TestSubtaskNotesAndUnknownIDs(t *testing.T) {
	state := newState()
	key := "algo__w1__d1__activity__read-chapter-1"
	id := AddSubtask(state, key, "", "summarize")

	SetSubtaskNotesView(state, key, id, "three key ideas")
	if state.Progress[key].Subtasks[0].Notes != "three key ideas" {
		t.Error("notes not set")
	}

	before := state.Progress[key]
	ToggleSubtaskView(state, key, "no-such-id")
	RemoveSubtaskView(state, key, "no-such-id")
	after := state.Progress[key]
	if len(after.Subtasks) != len(before.Subtasks) || after.Completed != before.Completed {
		t.Error("unknown ids must be no-ops")
	}
}

func TestUnknownSubtaskIDKeepsCompletedTask(t *testing.T) {
	state := newState()
	key := "algo__w1__d1__activity__read-chapter-1"

	ToggleTask(state, key)
	if !state.Progress[key].Completed {
		t.Fatal("task should be complete")
	}

	ToggleSubtaskView(state, key, "no-such-id")
	if !state.Progress[key].Completed {
		t.Error("toggle with unknown id cleared completion")
	}

	RemoveSubtaskView(state, key, "no-such-id")
	if !state.Progress[key].Completed {
		t.Error("remove with unknown id cleared completion")
	}

	SetSubtaskNotesView(state, key, "no-such-id", "stray")
	RenameSubtaskView(state, key, "no-such-id", "stray")
	meta := state.Progress[key]
	if !meta.Completed || len(meta.Subtasks) != 0 {
		t.Error("unknown id mutated a subtask-less task")
	}
}
