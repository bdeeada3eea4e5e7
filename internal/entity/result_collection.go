package entity

// ResultCollection is the ordered set of results of one artifact, indexed by
// row identifier. A loaded artifact may hold the same identifier twice; both
// records are kept but the identifier counts as processed once.
type ResultCollection struct {
	records []*ClassificationResult
	seen    map[RowID]struct{}
}

func NewResultCollection(records []*ClassificationResult) *ResultCollection {
	c := &ResultCollection{
		records: make([]*ClassificationResult, 0, len(records)),
		seen:    make(map[RowID]struct{}, len(records)),
	}
	for _, r := range records {
		if r == nil {
			continue
		}
		c.Add(r)
	}
	return c
}

// Has reports whether id already has a record, whatever its outcome.
func (c *ResultCollection) Has(id RowID) bool {
	_, ok := c.seen[id]
	return ok
}

func (c *ResultCollection) Add(r *ClassificationResult) {
	c.records = append(c.records, r)
	c.seen[r.ID] = struct{}{}
}

func (c *ResultCollection) Len() int {
	return len(c.records)
}

// Records returns the records in insertion order. The slice is a copy.
func (c *ResultCollection) Records() []*ClassificationResult {
	return append([]*ClassificationResult(nil), c.records...)
}
