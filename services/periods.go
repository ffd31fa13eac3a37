package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"planward/model"
)

// ViewMode selects the calendar bucket size for the progress view.
type ViewMode string

const (
	ViewDay     ViewMode = "day"
	ViewWeek    ViewMode = "week"
	ViewMonth   ViewMode = "month"
	ViewQuarter ViewMode = "quarter"
	ViewHalf    ViewMode = "half"
	ViewYear    ViewMode = "year"
)

// ParseViewMode maps a query string value onto a mode, defaulting to day.
func ParseViewMode(s string) ViewMode {
	switch ViewMode(strings.ToLower(s)) {
	case ViewWeek, ViewMonth, ViewQuarter, ViewHalf, ViewYear:
		return ViewMode(strings.ToLower(s))
	default:
		return ViewDay
	}
}

// Strategy picks how the view mode is applied: grouping the whole plan into
// period buckets, or narrowing to the period containing today.
type Strategy string

const (
	StrategyGroup   Strategy = "group"
	StrategyCurrent Strategy = "current"
)

func ParseStrategy(s string, fallback Strategy) Strategy {
	switch Strategy(strings.ToLower(s)) {
	case StrategyGroup, StrategyCurrent:
		return Strategy(strings.ToLower(s))
	default:
		return fallback
	}
}

// FilterSections applies the tag filter and free-text query to every
// section's task list and recomputes stats from the survivors. When either
// filter is active, sections left with no tasks are dropped entirely.
func FilterSections(sections []model.Section, tag, query string) []model.Section {
	active := tag != "" || query != ""
	query = strings.ToLower(query)

	var out []model.Section
	for _, section := range sections {
		filtered := section
		filtered.Tasks = nil
		for _, task := range section.Tasks {
			if taskMatchesTag(task, section, tag) && taskMatchesQuery(task, query) {
				filtered.Tasks = append(filtered.Tasks, task)
			}
		}
		if active && len(filtered.Tasks) == 0 {
			continue
		}
		filtered.Stats = ComputeStats(filtered.Tasks)
		out = append(out, filtered)
	}
	return out
}

// taskMatchesTag passes a task when no tag filter is set, when the task or
// its section carries the tag, or, for pattern parents, when any nested
// problem's meta carries it.
func taskMatchesTag(task model.SectionTask, section model.Section, tag string) bool {
	if tag == "" {
		return true
	}
	if containsString(task.Tags, tag) || containsString(section.Tags, tag) {
		return true
	}
	if task.IsPatternParent {
		for _, sub := range task.Subtasks {
			if containsString(sub.Tags, tag) {
				return true
			}
		}
	}
	return false
}

// taskMatchesQuery is a case-insensitive substring match against the
// resolved title, the notes, and direct subtask titles.
func taskMatchesQuery(task model.SectionTask, query string) bool {
	if query == "" {
		return true
	}
	if strings.Contains(strings.ToLower(task.Title), query) ||
		strings.Contains(strings.ToLower(task.Notes), query) {
		return true
	}
	for _, sub := range task.Subtasks {
		if strings.Contains(strings.ToLower(sub.Title), query) {
			return true
		}
	}
	return false
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// GroupByPeriod re-buckets per-day sections by the view mode's calendar key.
// Day mode is the identity. Each bucket concatenates its members' tasks
// (no dedup), unions their tags, recomputes stats, and takes min/max dates;
// week and dayRaw come from the chronologically first member so "add task
// here" actions still have a target day. Buckets come back in ascending key
// order.
func GroupByPeriod(sections []model.Section, mode ViewMode) []model.Section {
	if mode == ViewDay {
		return sections
	}

	buckets := make(map[string]*model.Section)
	var keys []string
	for _, section := range sections {
		key := sectionPeriodKey(section, mode)
		bucket, ok := buckets[key]
		if !ok {
			merged := section
			merged.ID = key
			merged.Title = periodTitle(section, mode, key)
			merged.DayLabel = ""
			merged.Tasks = append([]model.SectionTask(nil), section.Tasks...)
			merged.Tags = append([]string(nil), section.Tags...)
			buckets[key] = &merged
			keys = append(keys, key)
			continue
		}
		mergeSection(bucket, section)
	}

	sortPeriodKeys(keys, mode)

	out := make([]model.Section, 0, len(keys))
	for _, key := range keys {
		bucket := buckets[key]
		bucket.Stats = ComputeStats(bucket.Tasks)
		if bucket.DateStart != nil && bucket.DateEnd != nil {
			bucket.DateLabel = dateLabel(*bucket.DateStart, *bucket.DateEnd)
		}
		out = append(out, *bucket)
	}
	return out
}

func mergeSection(bucket *model.Section, section model.Section) {
	bucket.Tasks = append(bucket.Tasks, section.Tasks...)
	for _, tag := range section.Tags {
		bucket.Tags = appendUnique(bucket.Tags, tag)
	}
	if section.DateStart != nil {
		if bucket.DateStart == nil || section.DateStart.Before(*bucket.DateStart) {
			bucket.DateStart = section.DateStart
			// the chronologically first member owns the add-task target
			bucket.Week = section.Week
			bucket.DayRaw = section.DayRaw
		}
	}
	if section.DateEnd != nil {
		if bucket.DateEnd == nil || section.DateEnd.After(*bucket.DateEnd) {
			bucket.DateEnd = section.DateEnd
		}
	}
}

// sectionPeriodKey composes the bucket key for a section. Week mode keys on
// the plan's own week number; the calendar modes key on the section's start
// date, falling back to a shared "none" bucket for undated sections. Month
// keys use a zero-padded, zero-based month index so lexicographic order is
// chronological.
func sectionPeriodKey(section model.Section, mode ViewMode) string {
	if mode == ViewWeek {
		return strconv.Itoa(section.Week)
	}
	if section.DateStart == nil {
		return "none"
	}
	return periodKeyForTime(*section.DateStart, mode)
}

func periodKeyForTime(t time.Time, mode ViewMode) string {
	year, month, _ := t.Date()
	switch mode {
	case ViewMonth:
		return fmt.Sprintf("%d-%02d", year, int(month)-1)
	case ViewQuarter:
		return fmt.Sprintf("%d-Q%d", year, (int(month)-1)/3+1)
	case ViewHalf:
		return fmt.Sprintf("%d-H%d", year, (int(month)-1)/6+1)
	case ViewYear:
		return strconv.Itoa(year)
	default:
		return t.Format(startDateLayout)
	}
}

func periodTitle(section model.Section, mode ViewMode, key string) string {
	switch mode {
	case ViewWeek:
		return section.Title
	case ViewMonth:
		if section.DateStart != nil {
			return section.DateStart.Format("January 2006")
		}
	case ViewQuarter, ViewHalf:
		if i := strings.Index(key, "-"); i >= 0 {
			return key[i+1:] + " " + key[:i]
		}
	case ViewYear:
		return key
	}
	return section.Title
}

func sortPeriodKeys(keys []string, mode ViewMode) {
	if mode == ViewWeek {
		sort.Slice(keys, func(i, j int) bool {
			a, _ := strconv.Atoi(keys[i])
			b, _ := strconv.Atoi(keys[j])
			return a < b
		})
		return
	}
	sort.Strings(keys)
}

// FilterToCurrentPeriod keeps only the per-day sections whose date range
// overlaps the period containing now. Sections without resolved dates are
// kept, since there is nothing to compare against. Day mode keeps sections
// covering today itself.
func FilterToCurrentPeriod(sections []model.Section, mode ViewMode, now time.Time) []model.Section {
	windowStart, windowEnd := periodWindow(now, mode)

	var out []model.Section
	for _, section := range sections {
		if section.DateStart == nil || section.DateEnd == nil {
			out = append(out, section)
			continue
		}
		if !section.DateEnd.Before(windowStart) && !section.DateStart.After(windowEnd) {
			out = append(out, section)
		}
	}
	return out
}

// periodWindow returns the inclusive [start, end] of the period containing
// t. Weeks run Monday through Sunday.
func periodWindow(t time.Time, mode ViewMode) (time.Time, time.Time) {
	year, month, day := t.Date()
	today := time.Date(year, month, day, 0, 0, 0, 0, t.Location())

	switch mode {
	case ViewWeek:
		weekday := int(today.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		start := today.AddDate(0, 0, -(weekday - 1))
		return start, start.AddDate(0, 0, 6)
	case ViewMonth:
		start := time.Date(year, month, 1, 0, 0, 0, 0, t.Location())
		return start, start.AddDate(0, 1, -1)
	case ViewQuarter:
		qm := time.Month((int(month)-1)/3*3 + 1)
		start := time.Date(year, qm, 1, 0, 0, 0, 0, t.Location())
		return start, start.AddDate(0, 3, -1)
	case ViewHalf:
		hm := time.Month((int(month)-1)/6*6 + 1)
		start := time.Date(year, hm, 1, 0, 0, 0, 0, t.Location())
		return start, start.AddDate(0, 6, -1)
	case ViewYear:
		start := time.Date(year, time.January, 1, 0, 0, 0, 0, t.Location())
		return start, start.AddDate(1, 0, -1)
	default:
		return today, today
	}
}
