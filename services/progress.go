package services

import "planward/model"

// ComputeStats counts leaf units over a task list. A task with subtasks
// contributes one unit per leaf node of its tree (internal parent nodes
// count for nothing); a task without subtasks contributes itself. Callers
// must recompute stats after filtering so hidden tasks never count.
func ComputeStats(tasks []model.SectionTask) model.Stats {
	var stats model.Stats
	for _, task := range tasks {
		if len(task.Subtasks) == 0 {
			stats.Total++
			if task.Completed {
				stats.Completed++
			}
			continue
		}
		countLeaves(task.Subtasks, &stats)
	}
	return stats
}

func countLeaves(nodes []model.SubtaskView, stats *model.Stats) {
	for _, n := range nodes {
		if len(n.Children) == 0 {
			stats.Total++
			if n.Completed {
				stats.Completed++
			}
			continue
		}
		countLeaves(n.Children, stats)
	}
}
