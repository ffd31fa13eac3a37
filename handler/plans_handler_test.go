package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"planward/model"
	"planward/usecase"
)

type memStateStore struct {
	states map[string]*model.StudyState
}

func newMemStateStore() *memStateStore {
	return &memStateStore{states: make(map[string]*model.StudyState)}
}

func (m *memStateStore) LoadState(_ context.Context, userID string) (*model.StudyState, error) {
	if state, ok := m.states[userID]; ok {
		return state, nil
	}
	state := &model.StudyState{UserID: userID}
	state.EnsureMaps()
	return state, nil
}

func (m *memStateStore) SaveState(_ context.Context, userID string, state *model.StudyState) error {
	state.UserID = userID
	m.states[userID] = state
	return nil
}

// testRouter wires the plan and task routes the way main does, with the auth
// middleware replaced by a stub that injects a fixed user.
func testRouter(store usecase.StateStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	plans := usecase.NewPlanService(store)
	plansHandler := NewPlansHandler(plans)
	tasksHandler := NewTasksHandler(plans)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", "test-user")
		c.Next()
	})

	api := r.Group("/api")
	api.POST("/categories/:id/plan/import", plansHandler.Import)
	api.GET("/categories/:id/plan", plansHandler.Get)
	api.GET("/categories/:id/sections", plansHandler.Sections)
	api.POST("/categories/:id/tasks", tasksHandler.Add)
	api.DELETE("/categories/:id/tasks", tasksHandler.Remove)
	api.POST("/tasks/toggle", tasksHandler.Toggle)
	api.PUT("/tasks/notes", tasksHandler.SetNotes)
	api.POST("/tasks/subtasks", tasksHandler.AddSubtask)
	api.POST("/tasks/subtasks/toggle", tasksHandler.ToggleSubtask)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body []byte) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var envelope struct {
		Data map[string]interface{} `json:"data"`
	}
	if len(w.Body.Bytes()) > 0 {
		json.Unmarshal(w.Body.Bytes(), &envelope)
	}
	return w, envelope.Data
}

const testPlanJSON = `{
	"title": "Interview prep",
	"startDate": "2024-01-01",
	"schedule": [
		{
			"week": 1,
			"topic": "Arrays",
			"days": [
				{"day": "1", "activities": ["Read chapter 1"]},
				{"day": "2-3", "patterns": [{"name": "Two Pointers", "problems": ["Two Sum"]}]}
			]
		}
	]
}`

func TestPlanImportEndpoint(t *testing.T) {
	r := testRouter(newMemStateStore())

	t.Run("rejects invalid plan shape", func(t *testing.T) {
		w, _ := doJSON(t, r, http.MethodPost, "/api/categories/algo/plan/import", []byte(`{"schedule": []}`))
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("rejects empty body", func(t *testing.T) {
		w, _ := doJSON(t, r, http.MethodPost, "/api/categories/algo/plan/import", nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("accepts a valid plan", func(t *testing.T) {
		w, data := doJSON(t, r, http.MethodPost, "/api/categories/algo/plan/import", []byte(testPlanJSON))
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
		if data["weeks"] != float64(1) || data["days"] != float64(2) {
			t.Errorf("unexpected summary: %v", data)
		}
	})
}

func TestSectionsEndpoint(t *testing.T) {
	r := testRouter(newMemStateStore())

	w, _ := doJSON(t, r, http.MethodGet, "/api/categories/algo/sections", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before import, got %d", w.Code)
	}

	if w, _ := doJSON(t, r, http.MethodPost, "/api/categories/algo/plan/import", []byte(testPlanJSON)); w.Code != http.StatusCreated {
		t.Fatalf("import failed: %d", w.Code)
	}

	w, data := doJSON(t, r, http.MethodGet, "/api/categories/algo/sections?view=day&strategy=group", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	sections, ok := data["sections"].([]interface{})
	if !ok || len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %v", data["sections"])
	}

	w, data = doJSON(t, r, http.MethodGet, "/api/categories/algo/sections?q=two+sum", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	sections = data["sections"].([]interface{})
	if len(sections) != 1 {
		t.Errorf("query filter should drop the empty day, got %d sections", len(sections))
	}
}

func TestTaskEndpoints(t *testing.T) {
	store := newMemStateStore()
	r := testRouter(store)

	if w, _ := doJSON(t, r, http.MethodPost, "/api/categories/algo/plan/import", []byte(testPlanJSON)); w.Code != http.StatusCreated {
		t.Fatalf("import failed: %d", w.Code)
	}
	key := "algo__w1__d1__activity__read-chapter-1"

	t.Run("toggle lazily creates the meta", func(t *testing.T) {
		body, _ := json.Marshal(gin.H{"key": key})
		w, data := doJSON(t, r, http.MethodPost, "/api/tasks/toggle", body)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		task := data["task"].(map[string]interface{})
		if task["completed"] != true {
			t.Errorf("task not completed: %v", task)
		}
		if !store.states["test-user"].Progress[key].Completed {
			t.Error("toggle not persisted")
		}
	})

	t.Run("missing key is a 400", func(t *testing.T) {
		w, _ := doJSON(t, r, http.MethodPost, "/api/tasks/toggle", []byte(`{}`))
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("subtask add and toggle", func(t *testing.T) {
		body, _ := json.Marshal(gin.H{"key": key, "title": "skim first"})
		w, data := doJSON(t, r, http.MethodPost, "/api/tasks/subtasks", body)
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d", w.Code)
		}
		subID := data["subtask_id"].(string)

		body, _ = json.Marshal(gin.H{"key": key, "subtask_id": subID})
		w, data = doJSON(t, r, http.MethodPost, "/api/tasks/subtasks/toggle", body)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		task := data["task"].(map[string]interface{})
		if task["completed"] != true {
			t.Error("completing the only subtask should complete the task")
		}
	})

	t.Run("remove task then 404 on repeat", func(t *testing.T) {
		body, _ := json.Marshal(gin.H{"key": key})
		w, _ := doJSON(t, r, http.MethodDelete, "/api/categories/algo/tasks", body)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		w, _ = doJSON(t, r, http.MethodDelete, "/api/categories/algo/tasks", body)
		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})

	t.Run("add task to a new day", func(t *testing.T) {
		body, _ := json.Marshal(gin.H{"week": 2, "day": "1", "title": "Mock interview"})
		w, data := doJSON(t, r, http.MethodPost, "/api/categories/algo/tasks", body)
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d", w.Code)
		}
		if data["key"] != "algo__w2__d1__activity__mock-interview" {
			t.Errorf("key = %v", data["key"])
		}
	})
}
