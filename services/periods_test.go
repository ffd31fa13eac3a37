package services

import (
	"testing"
	"time"

	"planward/model"
)

func datedSection(week int, dayRaw string, start, end time.Time, tasks ...model.SectionTask) model.Section {
	return model.Section{
		ID:        "algo__w" + dayRaw,
		Title:     "Week",
		Week:      week,
		DayRaw:    dayRaw,
		DateStart: &start,
		DateEnd:   &end,
		Tasks:     tasks,
		Stats:     ComputeStats(tasks),
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFilterSections(t *testing.T) {
	sections := []model.Section{
		{
			Tags: []string{"Two Pointers"},
			Tasks: []model.SectionTask{
				{Key: "t1", Title: "Two Sum", Notes: "use a map"},
				{Key: "t2", Title: "Valid Palindrome", Tags: []string{"strings"}},
			},
		},
		{
			Tasks: []model.SectionTask{
				{Key: "t3", Title: "Read chapter", Subtasks: []model.SubtaskView{
					{ID: "s1", Title: "take notes"},
				}},
			},
		},
	}

	t.Run("NoFilterKeepsEverything", func(t *testing.T) {
		out := FilterSections(sections, "", "")
		if len(out) != 2 || len(out[0].Tasks) != 2 {
			t.Fatalf("unexpected filtering with no filter active: %+v", out)
		}
	})

	t.Run("SectionTagAdmitsAllItsTasks", func(t *testing.T) {
		out := FilterSections(sections, "Two Pointers", "")
		if len(out) != 1 || len(out[0].Tasks) != 2 {
			t.Fatalf("section-level tag should admit both tasks: %+v", out)
		}
	})

	t.Run("TaskTag", func(t *testing.T) {
		out := FilterSections(sections, "strings", "")
		if len(out) != 1 || len(out[0].Tasks) != 1 || out[0].Tasks[0].Key != "t2" {
			t.Fatalf("got %+v", out)
		}
		if out[0].Stats.Total != 1 {
			t.Errorf("stats not recomputed post-filter: %+v", out[0].Stats)
		}
	})

	t.Run("QueryMatchesNotesAndSubtaskTitles", func(t *testing.T) {
		out := FilterSections(sections, "", "USE A MAP")
		if len(out) != 1 || out[0].Tasks[0].Key != "t1" {
			t.Fatalf("notes query failed: %+v", out)
		}
		out = FilterSections(sections, "", "take notes")
		if len(out) != 1 || out[0].Tasks[0].Key != "t3" {
			t.Fatalf("subtask title query failed: %+v", out)
		}
	})

	t.Run("AbsentTagYieldsNothing", func(t *testing.T) {
		if out := FilterSections(sections, "no-such-tag", ""); len(out) != 0 {
			t.Fatalf("expected zero sections, got %d", len(out))
		}
	})

	t.Run("PatternParentMatchesNestedProblemTags", func(t *testing.T) {
		pattern := []model.Section{{
			Tasks: []model.SectionTask{{
				Key:             "p",
				IsPatternParent: true,
				Subtasks: []model.SubtaskView{
					{ID: "k|x", Title: "Two Sum", Tags: []string{"hashmap"}},
				},
			}},
		}}
		if out := FilterSections(pattern, "hashmap", ""); len(out) != 1 {
			t.Fatal("nested problem tag did not admit pattern parent")
		}
	})
}

func TestGroupByPeriod(t *testing.T) {
	sections := []model.Section{
		datedSection(1, "1", day(2024, 1, 1), day(2024, 1, 1),
			model.SectionTask{Key: "a", Completed: true}),
		datedSection(1, "2", day(2024, 1, 2), day(2024, 1, 2),
			model.SectionTask{Key: "b"}),
		datedSection(2, "8", day(2024, 4, 8), day(2024, 4, 8),
			model.SectionTask{Key: "c"}),
	}

	t.Run("DayModeIsIdentity", func(t *testing.T) {
		out := GroupByPeriod(sections, ViewDay)
		if len(out) != 3 {
			t.Fatalf("day mode must not group, got %d", len(out))
		}
	})

	t.Run("WeekMode", func(t *testing.T) {
		out := GroupByPeriod(sections, ViewWeek)
		if len(out) != 2 {
			t.Fatalf("expected 2 week buckets, got %d", len(out))
		}
		first := out[0]
		if first.ID != "1" || len(first.Tasks) != 2 {
			t.Fatalf("week 1 bucket wrong: %+v", first)
		}
		if first.Stats.Completed != 1 || first.Stats.Total != 2 {
			t.Errorf("merged stats = %+v", first.Stats)
		}
		if first.Week != 1 || first.DayRaw != "1" {
			t.Errorf("representative day must come from the earliest member: %+v", first)
		}
		if !first.DateStart.Equal(day(2024, 1, 1)) || !first.DateEnd.Equal(day(2024, 1, 2)) {
			t.Errorf("bucket dates = %v .. %v", first.DateStart, first.DateEnd)
		}
	})

	t.Run("MonthModeZeroBasedPaddedKeys", func(t *testing.T) {
		out := GroupByPeriod(sections, ViewMonth)
		if len(out) != 2 {
			t.Fatalf("expected 2 month buckets, got %d", len(out))
		}
		if out[0].ID != "2024-00" || out[1].ID != "2024-03" {
			t.Fatalf("month keys = %q, %q", out[0].ID, out[1].ID)
		}
	})

	t.Run("QuarterHalfYearKeys", func(t *testing.T) {
		if out := GroupByPeriod(sections, ViewQuarter); out[0].ID != "2024-Q1" || out[1].ID != "2024-Q2" {
			t.Fatalf("quarter keys = %q, %q", out[0].ID, out[1].ID)
		}
		if out := GroupByPeriod(sections, ViewHalf); len(out) != 1 || out[0].ID != "2024-H1" {
			t.Fatalf("half grouping wrong: %+v", out)
		}
		if out := GroupByPeriod(sections, ViewYear); len(out) != 1 || out[0].ID != "2024" {
			t.Fatalf("year grouping wrong: %+v", out)
		}
	})

	t.Run("TagUnion", func(t *testing.T) {
		a := datedSection(1, "1", day(2024, 1, 1), day(2024, 1, 1), model.SectionTask{Key: "a"})
		a.Tags = []string{"x", "y"}
		b := datedSection(1, "2", day(2024, 1, 2), day(2024, 1, 2), model.SectionTask{Key: "b"})
		b.Tags = []string{"y", "z"}
		out := GroupByPeriod([]model.Section{a, b}, ViewWeek)
		if len(out[0].Tags) != 3 {
			t.Fatalf("tags not unioned: %v", out[0].Tags)
		}
	})
}

func TestFilterToCurrentPeriod(t *testing.T) {
	now := day(2024, 1, 10) // a Wednesday
	sections := []model.Section{
		datedSection(1, "1", day(2024, 1, 8), day(2024, 1, 9)),
		datedSection(2, "20", day(2024, 1, 20), day(2024, 1, 21)),
		datedSection(3, "40", day(2024, 2, 10), day(2024, 2, 11)),
	}

	t.Run("WeekWindow", func(t *testing.T) {
		out := FilterToCurrentPeriod(sections, ViewWeek, now)
		if len(out) != 1 || out[0].Week != 1 {
			t.Fatalf("expected only the Jan 8-9 section, got %+v", out)
		}
	})

	t.Run("MonthWindow", func(t *testing.T) {
		out := FilterToCurrentPeriod(sections, ViewMonth, now)
		if len(out) != 2 {
			t.Fatalf("expected the two January sections, got %d", len(out))
		}
	})

	t.Run("UndatedSectionsKept", func(t *testing.T) {
		undated := model.Section{Week: 9}
		out := FilterToCurrentPeriod([]model.Section{undated}, ViewWeek, now)
		if len(out) != 1 {
			t.Fatal("undated section must be kept")
		}
	})
}

func TestParseViewModeAndStrategy(t *testing.T) {
	if ParseViewMode("MONTH") != ViewMonth || ParseViewMode("bogus") != ViewDay {
		t.Fatal("ParseViewMode defaults wrong")
	}
	if ParseStrategy("current", StrategyGroup) != StrategyCurrent {
		t.Fatal("ParseStrategy ignored explicit value")
	}
	if ParseStrategy("", StrategyGroup) != StrategyGroup {
		t.Fatal("ParseStrategy ignored fallback")
	}
}
