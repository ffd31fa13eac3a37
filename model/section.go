package model

import "time"

// Stats counts completed vs total leaf units for a task list.
type Stats struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// SubtaskView is a display node of a task's subtask tree. For pattern parent
// tasks the IDs are encoded references routing back to the independent
// problem metas (see services.ParseSubtaskRef); for plain tasks they are the
// subtask IDs themselves.
type SubtaskView struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Completed bool          `json:"completed"`
	Notes     string        `json:"notes,omitempty"`
	Tags      []string      `json:"tags,omitempty"`
	Children  []SubtaskView `json:"children,omitempty"`
}

// SectionTask is the derived view of one task inside a section.
type SectionTask struct {
	Key             string        `json:"key"`
	Title           string        `json:"title"`
	Completed       bool          `json:"completed"`
	Notes           string        `json:"notes,omitempty"`
	Tags            []string      `json:"tags,omitempty"`
	Subtasks        []SubtaskView `json:"subtasks,omitempty"`
	IsPatternParent bool          `json:"isPatternParent,omitempty"`
}

// Section is the derived, never-persisted projection of one schedule day (or
// one merged period) of a plan.
type Section struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	DayLabel  string        `json:"dayLabel"`
	DateLabel string        `json:"dateLabel"`
	DateStart *time.Time    `json:"dateStart,omitempty"`
	DateEnd   *time.Time    `json:"dateEnd,omitempty"`
	Tags      []string      `json:"tags,omitempty"`
	Tasks     []SectionTask `json:"tasks"`
	Stats     Stats         `json:"stats"`
	Week      int           `json:"week"`
	DayRaw    string        `json:"dayRaw"`
}
