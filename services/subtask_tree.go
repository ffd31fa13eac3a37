package services

import "planward/model"

// Pure operations over a task's nested subtask tree. Every function returns
// a new tree and leaves its input untouched. Lookups are depth-first in
// listed order; when IDs collide the first match wins, and an unknown ID is
// a silent no-op.

func cloneSubtasks(tree []model.Subtask) []model.Subtask {
	if tree == nil {
		return nil
	}
	out := make([]model.Subtask, len(tree))
	for i, n := range tree {
		out[i] = n
		out[i].Children = cloneSubtasks(n.Children)
	}
	return out
}

// InsertSubtask appends node under the subtask with the given parent ID. If
// parentID is empty or matches nothing at any depth, the node is appended as
// a new root instead of being dropped.
func InsertSubtask(tree []model.Subtask, node model.Subtask, parentID string) []model.Subtask {
	out := cloneSubtasks(tree)
	if parentID == "" || !attachChild(out, node, parentID) {
		out = append(out, node)
	}
	propagateCompletion(out)
	return out
}

// attachChild reports whether a node with the parent ID was found, so the
// caller can fall back to a root append without comparing trees.
func attachChild(nodes []model.Subtask, node model.Subtask, parentID string) bool {
	for i := range nodes {
		if nodes[i].ID == parentID {
			nodes[i].Children = append(nodes[i].Children, node)
			return true
		}
		if attachChild(nodes[i].Children, node, parentID) {
			return true
		}
	}
	return false
}

// ToggleSubtask flips the completion of the target node. A node with
// children forces its whole subtree to the new value, discarding the
// children's individual states; afterwards parent completion is recomputed
// bottom-up across the entire tree.
func ToggleSubtask(tree []model.Subtask, targetID string) []model.Subtask {
	out := cloneSubtasks(tree)
	if !toggleNode(out, targetID) {
		return tree
	}
	propagateCompletion(out)
	return out
}

func toggleNode(nodes []model.Subtask, targetID string) bool {
	for i := range nodes {
		if nodes[i].ID == targetID {
			next := !nodes[i].Completed
			nodes[i].Completed = next
			if len(nodes[i].Children) > 0 {
				forceCompletion(nodes[i].Children, next)
			}
			return true
		}
		if toggleNode(nodes[i].Children, targetID) {
			return true
		}
	}
	return false
}

func forceCompletion(nodes []model.Subtask, completed bool) {
	for i := range nodes {
		nodes[i].Completed = completed
		forceCompletion(nodes[i].Children, completed)
	}
}

// ForceSubtaskCompletion sets every node in the tree to the given state.
// Used when a task-level toggle cascades into its subtasks.
func ForceSubtaskCompletion(tree []model.Subtask, completed bool) []model.Subtask {
	out := cloneSubtasks(tree)
	forceCompletion(out, completed)
	return out
}

// RemoveSubtask deletes the target node and its subtree, then recomputes
// parent completion the same way ToggleSubtask does.
func RemoveSubtask(tree []model.Subtask, targetID string) []model.Subtask {
	out, found := removeNode(cloneSubtasks(tree), targetID)
	if !found {
		return tree
	}
	propagateCompletion(out)
	return out
}

func removeNode(nodes []model.Subtask, targetID string) ([]model.Subtask, bool) {
	for i := range nodes {
		if nodes[i].ID == targetID {
			return append(nodes[:i], nodes[i+1:]...), true
		}
		if children, found := removeNode(nodes[i].Children, targetID); found {
			nodes[i].Children = children
			return nodes, true
		}
	}
	return nodes, false
}

// SetSubtaskNotes replaces the notes of the target node. No propagation.
func SetSubtaskNotes(tree []model.Subtask, targetID, notes string) []model.Subtask {
	return setField(tree, targetID, func(n *model.Subtask) { n.Notes = notes })
}

// RenameSubtask replaces the title of the target node. No propagation.
func RenameSubtask(tree []model.Subtask, targetID, title string) []model.Subtask {
	return setField(tree, targetID, func(n *model.Subtask) { n.Title = title })
}

func setField(tree []model.Subtask, targetID string, set func(*model.Subtask)) []model.Subtask {
	out := cloneSubtasks(tree)
	if !applyToNode(out, targetID, set) {
		return tree
	}
	return out
}

func applyToNode(nodes []model.Subtask, targetID string, set func(*model.Subtask)) bool {
	for i := range nodes {
		if nodes[i].ID == targetID {
			set(&nodes[i])
			return true
		}
		if applyToNode(nodes[i].Children, targetID, set) {
			return true
		}
	}
	return false
}

// SubtaskExists reports whether any node in the tree carries the ID. Callers
// that derive state from a mutation's outcome check this first, since the
// mutating ops signal an unknown ID only by returning their input.
func SubtaskExists(tree []model.Subtask, targetID string) bool {
	for _, n := range tree {
		if n.ID == targetID || SubtaskExists(n.Children, targetID) {
			return true
		}
	}
	return false
}

// PropagateCompletion recomputes parent completion bottom-up over the whole
// tree: a node with children is completed exactly when every child is
// completed, while leaves keep whatever was explicitly set.
func PropagateCompletion(tree []model.Subtask) []model.Subtask {
	out := cloneSubtasks(tree)
	propagateCompletion(out)
	return out
}

func propagateCompletion(nodes []model.Subtask) {
	for i := range nodes {
		if len(nodes[i].Children) == 0 {
			continue
		}
		propagateCompletion(nodes[i].Children)
		all := true
		for _, c := range nodes[i].Children {
			if !c.Completed {
				all = false
				break
			}
		}
		nodes[i].Completed = all
	}
}

// AllSubtasksComplete reports whether the tree is non-empty and every root
// is completed. Drives the owning task's derived completion after subtask
// mutations.
func AllSubtasksComplete(tree []model.Subtask) bool {
	if len(tree) == 0 {
		return false
	}
	for _, n := range tree {
		if !n.Completed {
			return false
		}
	}
	return true
}
