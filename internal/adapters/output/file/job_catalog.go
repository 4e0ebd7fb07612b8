package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"jobmatch-assistant/internal/domain"

	"github.com/sirupsen/logrus"
)

// JobCatalog serves a JSON job catalog loaded once at start-up
type JobCatalog struct {
	path string
	jobs []domain.Job
}

// NewJobCatalog reads and validates the catalog at path
func NewJobCatalog(path string) (*JobCatalog, error) {
	jobs, err := LoadJobs(path)
	if err != nil {
		return nil, err
	}
	logrus.Infof("Loaded %d jobs from %s", len(jobs), path)
	return &JobCatalog{path: path, jobs: jobs}, nil
}

// LoadJobs reads a JSON array of job records. Records keep file order.
func LoadJobs(path string) ([]domain.Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrCatalogUnavailable, path, err)
	}

	var jobs []domain.Job
	if err := json.Unmarshal(data, &jobs); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", domain.ErrCatalogUnavailable, path, err)
	}

	seen := make(map[string]struct{}, len(jobs))
	for i := range jobs {
		id := strings.TrimSpace(jobs[i].JobID)
		if id == "" {
			return nil, fmt.Errorf("%w: job at index %d has no job_id", domain.ErrCatalogUnavailable, i)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: duplicate job_id %q", domain.ErrCatalogUnavailable, id)
		}
		seen[id] = struct{}{}
		jobs[i].JobID = id
		jobs[i].Position = i
	}
	return jobs, nil
}

// Jobs returns a copy of the catalog in file order
func (c *JobCatalog) Jobs(context.Context) ([]domain.Job, error) {
	out := make([]domain.Job, len(c.jobs))
	copy(out, c.jobs)
	return out, nil
}
