package services

import (
	"testing"

	"planward/model"
)

func TestComputeStats(t *testing.T) {
	t.Run("TaskWithoutSubtasksCountsItself", func(t *testing.T) {
		stats := ComputeStats([]model.SectionTask{
			{Key: "k1", Completed: true},
			{Key: "k2"},
		})
		if stats.Completed != 1 || stats.Total != 2 {
			t.Fatalf("got %+v, want {1 2}", stats)
		}
	})

	t.Run("OnlyLeavesCount", func(t *testing.T) {
		task := model.SectionTask{
			Key:       "k",
			Completed: true, // task's own flag must be ignored once it has subtasks
			Subtasks: []model.SubtaskView{
				{ID: "p", Completed: true, Children: []model.SubtaskView{
					{ID: "l1", Completed: true},
					{ID: "l2"},
				}},
				{ID: "l3", Completed: true},
			},
		}
		stats := ComputeStats([]model.SectionTask{task})
		// leaves are l1, l2, l3; the internal node p contributes nothing
		if stats.Total != 3 || stats.Completed != 2 {
			t.Fatalf("got %+v, want {2 3}", stats)
		}
	})

	t.Run("EmptyList", func(t *testing.T) {
		if stats := ComputeStats(nil); stats.Total != 0 || stats.Completed != 0 {
			t.Fatalf("got %+v, want zero", stats)
		}
	})
}
