/*
plan.go - Incremental sync planning

PURPOSE:
  A run over a date window should not redo days the stats store already
  holds. Plan computes the set difference between the requested window
  and the days present in the sink, so repeated runs over overlapping
  windows stay cheap and idempotent. force bypasses the check and
  recomputes the whole window.
*/
package towing

// Plan returns the days in the window that need (re)computation, in
// ascending order. With force, the entire window is returned regardless
// of what the store holds. An inverted window yields an empty plan.
func Plan(window Period, present DateSet, force bool) []Date {
	days := window.Days()
	if force {
		return days
	}

	var todo []Date
	for _, d := range days {
		if !present.Has(d) {
			todo = append(todo, d)
		}
	}
	return todo
}
