package services

import (
	"testing"
	"time"

	"planward/model"
)

func TestParseDayRange(t *testing.T) {
	cases := []struct {
		raw  string
		want DayRange
	}{
		{"5", DayRange{5, 5}},
		{"3-4", DayRange{3, 4}},
		{"1-2-9", DayRange{1, 2}}, // extra parts ignored
		{" 7 ", DayRange{7, 7}},
		{"", DayRange{1, 1}},
		{"abc", DayRange{1, 1}},
		{"x-8", DayRange{8, 8}},
	}
	for _, tc := range cases {
		if got := ParseDayRange(tc.raw); got != tc.want {
			t.Errorf("ParseDayRange(%q) = %+v, want %+v", tc.raw, got, tc.want)
		}
	}
}

func TestParseSubtaskRef(t *testing.T) {
	if ref := ParseSubtaskRef("plain-id"); ref.Kind != RefDirect || ref.SubID != "plain-id" {
		t.Fatalf("direct ref mis-parsed: %+v", ref)
	}

	ref := ParseSubtaskRef("k|algo__w1__d1__two-pointers__two-sum")
	if ref.Kind != RefPatternProblem || ref.TaskKey != "algo__w1__d1__two-pointers__two-sum" || ref.SubID != "" {
		t.Fatalf("problem ref mis-parsed: %+v", ref)
	}

	ref = ParseSubtaskRef("k|somekey#child#with#hashes")
	if ref.TaskKey != "somekey" || ref.SubID != "child#with#hashes" {
		t.Fatalf("split must use first '#' only: %+v", ref)
	}

	if got := ParseSubtaskRef(EncodeProblemRef("key", "sub")); got.TaskKey != "key" || got.SubID != "sub" {
		t.Fatalf("encode/parse mismatch: %+v", got)
	}
}

func TestBuildSectionsSingleActivityNoStartDate(t *testing.T) {
	plan := model.Plan{
		Title: "Starter",
		Schedule: []model.ScheduleWeek{
			{Week: 1, Days: []model.ScheduleDay{
				{Day: "1", Activities: []string{"Read docs"}},
			}},
		},
	}

	sections := BuildSections("algo", plan, nil)
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	s := sections[0]
	if s.DayLabel != "Day 1" {
		t.Errorf("DayLabel = %q", s.DayLabel)
	}
	if s.DateLabel != "No start date" {
		t.Errorf("DateLabel = %q", s.DateLabel)
	}
	if s.DateStart != nil || s.DateEnd != nil {
		t.Error("dates must be nil without a start date")
	}
	if s.Title != "Week 1" {
		t.Errorf("Title = %q", s.Title)
	}
	if len(s.Tasks) != 1 || s.Tasks[0].Key != "algo__w1__d1__activity__read-docs" {
		t.Fatalf("tasks = %+v", s.Tasks)
	}
	if s.Stats.Completed != 0 || s.Stats.Total != 1 {
		t.Errorf("stats = %+v, want {0 1}", s.Stats)
	}
}

func TestBuildSectionsDayRangeDates(t *testing.T) {
	plan := model.Plan{
		StartDate: "2024-01-01",
		Schedule: []model.ScheduleWeek{
			{Week: 1, Topic: "Arrays", Days: []model.ScheduleDay{
				{Day: "3-4", Activities: []string{"Drill"}},
			}},
		},
	}

	s := BuildSections("algo", plan, nil)[0]
	if s.DayLabel != "Days 3-4" {
		t.Errorf("DayLabel = %q", s.DayLabel)
	}
	wantStart := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)
	if s.DateStart == nil || !s.DateStart.Equal(wantStart) {
		t.Errorf("DateStart = %v, want %v", s.DateStart, wantStart)
	}
	if s.DateEnd == nil || !s.DateEnd.Equal(wantEnd) {
		t.Errorf("DateEnd = %v, want %v", s.DateEnd, wantEnd)
	}
	if s.DateLabel != "Jan 3, 2024 - Jan 4, 2024" {
		t.Errorf("DateLabel = %q", s.DateLabel)
	}
	if s.Title != "Arrays" {
		t.Errorf("Title = %q, want week topic", s.Title)
	}
}

func TestBuildSectionsPatternParent(t *testing.T) {
	plan := model.Plan{
		Schedule: []model.ScheduleWeek{
			{Week: 1, Days: []model.ScheduleDay{
				{Day: "1", Patterns: []model.Pattern{
					{Name: "Two Pointers", Problems: []string{"Two Sum", "3Sum"}},
				}},
			}},
		},
	}
	twoSumKey := MakeTaskKey("algo", 1, "1", "Two Pointers", "Two Sum")
	threeSumKey := MakeTaskKey("algo", 1, "1", "Two Pointers", "3Sum")

	progress := map[string]model.TaskMeta{
		twoSumKey: {Completed: true, Notes: "hashmap", Tags: []string{"easy"}},
	}

	s := BuildSections("algo", plan, progress)[0]
	if len(s.Tasks) != 1 {
		t.Fatalf("expected one synthetic parent task, got %d", len(s.Tasks))
	}
	parent := s.Tasks[0]
	if !parent.IsPatternParent {
		t.Fatal("parent task not marked as pattern parent")
	}
	if parent.Key != MakeTaskKey("algo", 1, "1", "pattern", "Two Pointers") {
		t.Errorf("parent key = %q", parent.Key)
	}
	if parent.Completed {
		t.Error("parent must reflect its problems; 3Sum is open")
	}
	if len(s.Tags) != 1 || s.Tags[0] != "Two Pointers" {
		t.Errorf("section tags = %v", s.Tags)
	}

	if len(parent.Subtasks) != 2 {
		t.Fatalf("expected 2 problem views, got %d", len(parent.Subtasks))
	}
	first := parent.Subtasks[0]
	if first.ID != "k|"+twoSumKey {
		t.Errorf("problem view id = %q", first.ID)
	}
	if !first.Completed || first.Notes != "hashmap" {
		t.Errorf("problem view did not pick up its independent meta: %+v", first)
	}
	if parent.Subtasks[1].ID != "k|"+threeSumKey || parent.Subtasks[1].Completed {
		t.Errorf("second problem view wrong: %+v", parent.Subtasks[1])
	}

	// pattern stats count problem leaves
	if s.Stats.Completed != 1 || s.Stats.Total != 2 {
		t.Errorf("stats = %+v, want {1 2}", s.Stats)
	}
}

func TestBuildSectionsWrapsNestedProblemSubtasks(t *testing.T) {
	plan := model.Plan{
		Schedule: []model.ScheduleWeek{
			{Week: 1, Days: []model.ScheduleDay{
				{Day: "2", Patterns: []model.Pattern{
					{Name: "Sliding Window", Problems: []string{"Max Sum"}},
				}},
			}},
		},
	}
	problemKey := MakeTaskKey("algo", 1, "2", "Sliding Window", "Max Sum")
	progress := map[string]model.TaskMeta{
		problemKey: {Subtasks: []model.Subtask{
			{ID: "s1", Title: "brute force", Completed: true},
		}},
	}

	parent := BuildSections("algo", plan, progress)[0].Tasks[0]
	child := parent.Subtasks[0].Children[0]
	if child.ID != "k|"+problemKey+"#s1" {
		t.Errorf("nested child id = %q", child.ID)
	}
	ref := ParseSubtaskRef(child.ID)
	if ref.TaskKey != problemKey || ref.SubID != "s1" {
		t.Errorf("nested child ref = %+v", ref)
	}
}

func TestBuildSectionsTitleOverride(t *testing.T) {
	plan := model.Plan{
		Schedule: []model.ScheduleWeek{
			{Week: 1, Days: []model.ScheduleDay{
				{Day: "1", Activities: []string{"Read docs"}},
			}},
		},
	}
	key := MakeTaskKey("algo", 1, "1", BucketActivity, "Read docs")
	progress := map[string]model.TaskMeta{key: {TitleOverride: "Skim docs"}}

	task := BuildSections("algo", plan, progress)[0].Tasks[0]
	if task.Title != "Skim docs" {
		t.Errorf("title override not applied: %q", task.Title)
	}
	// key stays derived from the original title, not the override
	if task.Key != key {
		t.Errorf("key changed by override: %q", task.Key)
	}
}
