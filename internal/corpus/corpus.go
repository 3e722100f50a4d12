package corpus

import (
	"fmt"
	"time"
)

// Corpus is an immutable, fully embedded set of job records. Every record
// carries an embedding of the same dimension. Readers share one Corpus
// across requests and must not modify the records it hands out.
type Corpus struct {
	jobs     []JobRecord
	byID     map[int64]int
	dim      int
	loadedAt time.Time
}

// Stats summarises a corpus for the /jobs-stats endpoint.
type Stats struct {
	TotalJobs       int
	UniqueCompanies int
	UniqueLocations int
	LoadedAt        time.Time
}

// New builds a corpus from records that already carry embeddings. Records
// without an embedding, or whose dimension differs from the first record,
// are rejected with an error.
func New(jobs []JobRecord, loadedAt time.Time) (*Corpus, error) {
	c := &Corpus{
		jobs:     jobs,
		byID:     make(map[int64]int, len(jobs)),
		loadedAt: loadedAt,
	}
	for i, j := range jobs {
		if len(j.Embedding) == 0 {
			return nil, fmt.Errorf("job %d has no embedding", j.JobID)
		}
		if c.dim == 0 {
			c.dim = len(j.Embedding)
		} else if len(j.Embedding) != c.dim {
			return nil, fmt.Errorf("job %d embedding has dimension %d, want %d", j.JobID, len(j.Embedding), c.dim)
		}
		if _, dup := c.byID[j.JobID]; !dup {
			c.byID[j.JobID] = i
		}
	}
	return c, nil
}

func (c *Corpus) Len() int { return len(c.jobs) }

// At returns the record at position i. The returned pointer aliases the
// corpus and is read-only.
func (c *Corpus) At(i int) *JobRecord { return &c.jobs[i] }

// Find looks a job up by id.
func (c *Corpus) Find(id int64) (*JobRecord, bool) {
	i, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	return &c.jobs[i], true
}

// Dimension is the embedding length shared by every record, 0 for an empty corpus.
func (c *Corpus) Dimension() int { return c.dim }

func (c *Corpus) LoadedAt() time.Time { return c.loadedAt }

func (c *Corpus) Stats() Stats {
	companies := make(map[string]struct{})
	locations := make(map[string]struct{})
	for i := range c.jobs {
		if name := c.jobs[i].OrgName; name != "" {
			companies[name] = struct{}{}
		}
		if loc := c.jobs[i].JobLocation; loc != "" {
			locations[loc] = struct{}{}
		}
	}
	return Stats{
		TotalJobs:       len(c.jobs),
		UniqueCompanies: len(companies),
		UniqueLocations: len(locations),
		LoadedAt:        c.loadedAt,
	}
}
