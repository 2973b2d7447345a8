/*
accumulate.go - Per-day, per-category buckets

PURPOSE:
  The Accumulator collects expander output into buckets keyed by
  (day, category, dirtbike). It performs no classification and no date
  arithmetic: it is populated strictly by replaying Expansions, one per
  custody interval, and owns its buckets for the duration of one run.

ORDERING:
  Bucket contents are semantically a multiset; final bucket state does
  not depend on the order records were processed. The slice order within
  a bucket reflects insertion order and nothing downstream may rely on
  it - reducers sort or fold, they never index.

CONCURRENCY:
  Single-writer. One Accumulator belongs to one run; it must not be
  shared across goroutines.
*/
package towing

// Accumulator maps (day, category, dirtbike) to the ages of every vehicle
// on the lot under that key.
type Accumulator struct {
	buckets map[BucketKey][]AgeEntry
}

func NewAccumulator() *Accumulator {
	return &Accumulator{buckets: make(map[BucketKey][]AgeEntry)}
}

// Add records a single contribution in its bucket.
func (a *Accumulator) Add(c Contribution) {
	key := BucketKey{Day: c.Day, Category: c.Category, Dirtbike: c.Dirtbike}
	a.buckets[key] = append(a.buckets[key], AgeEntry{Age: c.Age, PropertyID: c.PropertyID})
}

// AddExpansion replays a whole expansion into the buckets.
func (a *Accumulator) AddExpansion(x *Expansion) {
	x.Each(func(c Contribution) bool {
		a.Add(c)
		return true
	})
}

// Bucket returns the entries for a key. The returned slice is the
// accumulator's own storage; callers must not mutate it.
func (a *Accumulator) Bucket(key BucketKey) []AgeEntry {
	return a.buckets[key]
}

// Buckets returns the number of distinct (day, category, dirtbike) keys.
func (a *Accumulator) Buckets() int {
	return len(a.buckets)
}
