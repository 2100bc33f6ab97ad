// Package qagen turns seed (category, topic) pairs into labeled
// question/answer records by prompting a generative model and recovering
// structure from whatever text it returns.
package qagen

// SeedPair is one (category, topic) input driving one generation request.
type SeedPair struct {
	Category string
	Topic    string
}

// QARecord is a single recovered question/answer pair. Both fields are
// non-empty after trimming; records that trim to empty are discarded
// during parsing.
type QARecord struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// SeedResult holds the outcome for one seed: the records recovered from
// the model's response, or the failure that produced none. A failed seed
// still occupies its slot so downstream row numbering stays aligned with
// seed order.
type SeedResult struct {
	Seed    SeedPair
	Records []QARecord
	Err     error
}

// BatchResult accumulates seed results in seed iteration order.
// Wide-layout output is keyed by seed position, so order is load-bearing.
type BatchResult struct {
	Results []SeedResult
}

// TotalRecords returns the number of records across all seeds.
func (b *BatchResult) TotalRecords() int {
	var n int
	for _, r := range b.Results {
		n += len(r.Records)
	}
	return n
}

// FailedSeeds returns how many seeds produced an error.
func (b *BatchResult) FailedSeeds() int {
	var n int
	for _, r := range b.Results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
