package task

import "context"

// Stats tallies a task collection.
type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`

	// ByPriority always has an entry for every valid priority.
	ByPriority map[Priority]int `json:"byPriority"`

	// ByCategory only has entries for categories in use.
	ByCategory map[string]int `json:"byCategory"`
}

// EmptyStats returns all-zero stats with every priority key present.
func EmptyStats() Stats {
	byPriority := make(map[Priority]int, len(ValidPriorities()))
	for _, p := range ValidPriorities() {
		byPriority[p] = 0
	}
	return Stats{
		ByPriority: byPriority,
		ByCategory: map[string]int{},
	}
}

// ComputeStats tallies tasks in a single pass.
func ComputeStats(tasks []Task) Stats {
	stats := EmptyStats()
	for _, t := range tasks {
		stats.Total++
		if t.Done {
			stats.Completed++
		} else {
			stats.Pending++
		}
		stats.ByPriority[t.Priority]++
		stats.ByCategory[t.Category]++
	}
	return stats
}

// Stats tallies the stored collection.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	if err := ctx.Err(); err != nil {
		return EmptyStats(), err
	}
	return ComputeStats(s.readTasks(ctx)), nil
}
