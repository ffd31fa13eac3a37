package dto

// Task mutations address tasks by their derived key. Subtask mutations
// additionally carry the subtask's view ID, which for problems under a
// pattern parent encodes the problem's own key.

type TaskKeyRequest struct {
	Key string `json:"key" binding:"required"`
}

type TaskNotesRequest struct {
	Key   string `json:"key" binding:"required"`
	Notes string `json:"notes"`
}

type TaskTagsRequest struct {
	Key  string   `json:"key" binding:"required"`
	Tags []string `json:"tags"`
}

type TaskTitleRequest struct {
	Key   string `json:"key" binding:"required"`
	Title string `json:"title"`
}

type AddTaskRequest struct {
	Week  int    `json:"week" binding:"required,min=1"`
	Day   string `json:"day" binding:"required"`
	Title string `json:"title" binding:"required"`
}

type AddSubtaskRequest struct {
	Key      string `json:"key" binding:"required"`
	Title    string `json:"title" binding:"required"`
	ParentID string `json:"parent_id"`
}

type SubtaskRequest struct {
	Key       string `json:"key" binding:"required"`
	SubtaskID string `json:"subtask_id" binding:"required"`
}

type SubtaskNotesRequest struct {
	Key       string `json:"key" binding:"required"`
	SubtaskID string `json:"subtask_id" binding:"required"`
	Notes     string `json:"notes"`
}

type SubtaskTitleRequest struct {
	Key       string `json:"key" binding:"required"`
	SubtaskID string `json:"subtask_id" binding:"required"`
	Title     string `json:"title" binding:"required"`
}
