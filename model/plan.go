package model

// Plan is an imported schedule document. The schedule array is the source of
// truth for plan structure; all mutable per-task state lives in TaskMeta
// entries keyed by the derived task key, so the plan itself only changes when
// tasks are explicitly added or removed.
type Plan struct {
	Title     string         `bson:"title" json:"title"`
	StartDate string         `bson:"start_date,omitempty" json:"startDate,omitempty"` // YYYY-MM-DD, optional
	Schedule  []ScheduleWeek `bson:"schedule" json:"schedule"`
}

type ScheduleWeek struct {
	Week  int           `bson:"week" json:"week"`
	Topic string        `bson:"topic,omitempty" json:"topic,omitempty"`
	Days  []ScheduleDay `bson:"days" json:"days"`
}

// ScheduleDay covers a single day ("5") or an inclusive range ("3-4").
// The raw day string is kept as-is because it is embedded in task keys.
type ScheduleDay struct {
	Day         string    `bson:"day" json:"day"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Patterns    []Pattern `bson:"patterns,omitempty" json:"patterns,omitempty"`
	Activities  []string  `bson:"activities,omitempty" json:"activities,omitempty"`
}

// Pattern is a named group of problem items, e.g. an algorithmic technique
// with its practice problems.
type Pattern struct {
	Name     string   `bson:"name" json:"name"`
	Problems []string `bson:"problems" json:"problems"`
}
