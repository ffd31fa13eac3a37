package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"planward/model"
)

const (
	startDateLayout = "2006-01-02"
	dateLabelLayout = "Jan 2, 2006"

	noStartDateLabel = "No start date"

	problemRefPrefix = "k|"
)

// RefKind says what a subtask view ID resolves to.
type RefKind int

const (
	// RefDirect targets a node in the owning task's own subtask tree.
	RefDirect RefKind = iota
	// RefPatternProblem targets an independent problem TaskMeta surfaced
	// under a synthetic pattern parent, optionally a node inside that
	// problem's own tree.
	RefPatternProblem
)

// SubtaskRef is the decoded form of a subtask view ID. Pattern parents show
// their problems as a two-level subtask tree, but each problem is really an
// independently tracked TaskMeta; the ref routes mutations to the right one.
type SubtaskRef struct {
	Kind    RefKind
	TaskKey string // problem task key, RefPatternProblem only
	SubID   string // node ID within the targeted task's own tree
}

// EncodeProblemRef builds the view ID for a problem under a pattern parent
// ("k|<problemKey>") or a node inside that problem's tree
// ("k|<problemKey>#<subID>").
func EncodeProblemRef(problemKey, subID string) string {
	if subID == "" {
		return problemRefPrefix + problemKey
	}
	return problemRefPrefix + problemKey + "#" + subID
}

// ParseSubtaskRef decodes a view ID once at the API boundary. IDs without
// the ref prefix address the owning task's own tree; prefixed IDs split on
// the first '#' into problem key and nested subtask ID.
func ParseSubtaskRef(viewID string) SubtaskRef {
	if !strings.HasPrefix(viewID, problemRefPrefix) {
		return SubtaskRef{Kind: RefDirect, SubID: viewID}
	}
	rest := strings.TrimPrefix(viewID, problemRefPrefix)
	if i := strings.Index(rest, "#"); i >= 0 {
		return SubtaskRef{Kind: RefPatternProblem, TaskKey: rest[:i], SubID: rest[i+1:]}
	}
	return SubtaskRef{Kind: RefPatternProblem, TaskKey: rest}
}

// DayRange is the parsed form of a schedule day string.
type DayRange struct {
	Start int
	End   int
}

// ParseDayRange splits the raw day string on '-' and keeps the numeric
// tokens: one token is a single day, two or more are a start/end pair with
// extras ignored. A string with no parseable number falls back to day 1
// rather than failing the whole section build.
func ParseDayRange(raw string) DayRange {
	var parts []int
	for _, tok := range strings.Split(raw, "-") {
		if n, err := strconv.Atoi(strings.TrimSpace(tok)); err == nil {
			parts = append(parts, n)
		}
	}
	switch len(parts) {
	case 0:
		return DayRange{Start: 1, End: 1}
	case 1:
		return DayRange{Start: parts[0], End: parts[0]}
	default:
		return DayRange{Start: parts[0], End: parts[1]}
	}
}

// BuildSections projects a plan plus the progress map into one section per
// (week, day) pair in schedule order. Sections are derived views and never
// persisted.
func BuildSections(categoryID string, plan model.Plan, progress map[string]model.TaskMeta) []model.Section {
	startDate := parseStartDate(plan.StartDate)

	var sections []model.Section
	for _, week := range plan.Schedule {
		for _, day := range week.Days {
			sections = append(sections, buildSection(categoryID, week, day, startDate, progress))
		}
	}
	return sections
}

func parseStartDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse(startDateLayout, raw)
	if err != nil {
		return nil
	}
	return &t
}

func buildSection(categoryID string, week model.ScheduleWeek, day model.ScheduleDay, startDate *time.Time, progress map[string]model.TaskMeta) model.Section {
	dayRange := ParseDayRange(day.Day)

	section := model.Section{
		ID:       fmt.Sprintf("%s__w%d__d%s", categoryID, week.Week, day.Day),
		Title:    weekTitle(week),
		DayLabel: dayLabel(dayRange),
		Week:     week.Week,
		DayRaw:   day.Day,
	}

	if startDate != nil {
		start := startDate.AddDate(0, 0, dayRange.Start-1)
		end := startDate.AddDate(0, 0, dayRange.End-1)
		section.DateStart = &start
		section.DateEnd = &end
		section.DateLabel = dateLabel(start, end)
	} else {
		section.DateLabel = noStartDateLabel
	}

	for _, pattern := range day.Patterns {
		section.Tags = appendUnique(section.Tags, pattern.Name)
		section.Tasks = append(section.Tasks, buildPatternTask(categoryID, week.Week, day.Day, pattern, progress))
	}
	for _, activity := range day.Activities {
		section.Tasks = append(section.Tasks, buildActivityTask(categoryID, week.Week, day.Day, activity, progress))
	}

	section.Stats = ComputeStats(section.Tasks)
	return section
}

func weekTitle(week model.ScheduleWeek) string {
	if week.Topic != "" {
		return week.Topic
	}
	return fmt.Sprintf("Week %d", week.Week)
}

func dayLabel(r DayRange) string {
	if r.Start == r.End {
		return fmt.Sprintf("Day %d", r.Start)
	}
	return fmt.Sprintf("Days %d-%d", r.Start, r.End)
}

func dateLabel(start, end time.Time) string {
	if start.Equal(end) {
		return start.Format(dateLabelLayout)
	}
	return start.Format(dateLabelLayout) + " - " + end.Format(dateLabelLayout)
}

// buildPatternTask synthesizes the parent task wrapping a pattern's problems
// as subtask views. The parent's completion is a read-only reflection of its
// problems; each problem remains an independently keyed TaskMeta.
func buildPatternTask(categoryID string, week int, day string, pattern model.Pattern, progress map[string]model.TaskMeta) model.SectionTask {
	parentKey := MakeTaskKey(categoryID, week, day, BucketPattern, pattern.Name)
	parentMeta := progress[parentKey]

	task := model.SectionTask{
		Key:             parentKey,
		Title:           resolveTitle(parentMeta, pattern.Name),
		Notes:           parentMeta.Notes,
		Tags:            parentMeta.Tags,
		IsPatternParent: true,
	}

	allComplete := len(pattern.Problems) > 0
	for _, problem := range pattern.Problems {
		problemKey := MakeTaskKey(categoryID, week, day, pattern.Name, problem)
		meta := progress[problemKey]
		if !meta.Completed {
			allComplete = false
		}
		task.Subtasks = append(task.Subtasks, model.SubtaskView{
			ID:        EncodeProblemRef(problemKey, ""),
			Title:     resolveTitle(meta, problem),
			Completed: meta.Completed,
			Notes:     meta.Notes,
			Tags:      meta.Tags,
			Children:  wrapProblemSubtasks(problemKey, meta.Subtasks),
		})
	}
	task.Completed = allComplete
	return task
}

// wrapProblemSubtasks re-IDs a problem's own subtask tree so every node
// carries a ref back to the problem's key.
func wrapProblemSubtasks(problemKey string, nodes []model.Subtask) []model.SubtaskView {
	if len(nodes) == 0 {
		return nil
	}
	views := make([]model.SubtaskView, len(nodes))
	for i, n := range nodes {
		views[i] = model.SubtaskView{
			ID:        EncodeProblemRef(problemKey, n.ID),
			Title:     n.Title,
			Completed: n.Completed,
			Notes:     n.Notes,
			Children:  wrapProblemSubtasks(problemKey, n.Children),
		}
	}
	return views
}

func buildActivityTask(categoryID string, week int, day, activity string, progress map[string]model.TaskMeta) model.SectionTask {
	key := MakeTaskKey(categoryID, week, day, BucketActivity, activity)
	meta := progress[key]
	return model.SectionTask{
		Key:       key,
		Title:     resolveTitle(meta, activity),
		Completed: meta.Completed,
		Notes:     meta.Notes,
		Tags:      meta.Tags,
		Subtasks:  directViews(meta.Subtasks),
	}
}

// directViews mirrors a task's own subtask tree; view IDs are the subtask
// IDs themselves.
func directViews(nodes []model.Subtask) []model.SubtaskView {
	if len(nodes) == 0 {
		return nil
	}
	views := make([]model.SubtaskView, len(nodes))
	for i, n := range nodes {
		views[i] = model.SubtaskView{
			ID:        n.ID,
			Title:     n.Title,
			Completed: n.Completed,
			Notes:     n.Notes,
			Children:  directViews(n.Children),
		}
	}
	return views
}

func resolveTitle(meta model.TaskMeta, original string) string {
	if meta.TitleOverride != "" {
		return meta.TitleOverride
	}
	return original
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
