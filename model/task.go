package model

import "time"

// TaskMeta is the mutable per-task state, keyed by the derived task key. A
// missing entry reads as the zero value, so metas are only created on first
// mutation.
type TaskMeta struct {
	Completed     bool      `bson:"completed,omitempty" json:"completed,omitempty"`
	Notes         string    `bson:"notes,omitempty" json:"notes,omitempty"`
	Subtasks      []Subtask `bson:"subtasks,omitempty" json:"subtasks,omitempty"`
	Tags          []string  `bson:"tags,omitempty" json:"tags,omitempty"`
	TitleOverride string    `bson:"title_override,omitempty" json:"titleOverride,omitempty"`
}

// Subtask is one node of a task's nested checklist. IDs are caller-assigned
// and assumed unique within their tree; on duplicates the first match in
// depth-first listed order wins.
type Subtask struct {
	ID        string    `bson:"id" json:"id"`
	Title     string    `bson:"title" json:"title"`
	Completed bool      `bson:"completed,omitempty" json:"completed,omitempty"`
	Notes     string    `bson:"notes,omitempty" json:"notes,omitempty"`
	Children  []Subtask `bson:"children,omitempty" json:"children,omitempty"`
}

// StudyState is the whole tracker document for one user: plans keyed by
// category ID plus the flat progress map. It is loaded and replaced
// wholesale on every save (last writer wins).
type StudyState struct {
	UserID    string              `bson:"user_id" json:"-"`
	Started   bool                `bson:"started" json:"started"`
	Progress  map[string]TaskMeta `bson:"progress" json:"progress"`
	Plans     map[string]Plan     `bson:"plans" json:"plans"`
	UpdatedAt time.Time           `bson:"updated_at" json:"updated_at"`
}

// EnsureMaps makes the state safe to mutate after decoding a document that
// was stored with empty maps omitted.
func (s *StudyState) EnsureMaps() {
	if s.Progress == nil {
		s.Progress = make(map[string]TaskMeta)
	}
	if s.Plans == nil {
		s.Plans = make(map[string]Plan)
	}
}
