package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fadilmartias/job-matcher/internal/apperror"
	"github.com/fadilmartias/job-matcher/internal/corpus"
	"github.com/fadilmartias/job-matcher/internal/dto"
	"github.com/fadilmartias/job-matcher/internal/logger"
	"github.com/fadilmartias/job-matcher/internal/util"
	"go.uber.org/zap"
)

const serviceName = "job-matcher"

type JobUsecase struct {
	store CorpusStore
	db    Pinger
	log   *zap.Logger
	now   func() time.Time
}

func NewJobUsecase(store CorpusStore, db Pinger, log *zap.Logger) *JobUsecase {
	return &JobUsecase{
		store: store,
		db:    db,
		log:   logger.OrNop(log).Named("jobs"),
		now:   time.Now,
	}
}

// Health never fails; problems are reported in the returned status.
func (uc *JobUsecase) Health(ctx context.Context) dto.HealthStatus {
	status := dto.HealthStatus{
		Status:      "healthy",
		Service:     serviceName,
		Database:    "connected",
		CorpusState: string(uc.store.State()),
		Timestamp:   uc.now(),
	}
	if err := uc.db.Ping(ctx); err != nil {
		status.Status = "unhealthy"
		status.Database = "disconnected"
		status.Error = err.Error()
		uc.log.Warn("health check: database unreachable", zap.Error(err))
	}
	if c, err := uc.store.Current(); err == nil {
		status.JobsLoaded = true
		status.JobsCount = c.Len()
	}
	return status
}

func (uc *JobUsecase) Stats() (dto.JobsStats, error) {
	c, err := uc.store.Current()
	if err != nil {
		return dto.JobsStats{}, err
	}
	s := c.Stats()
	return dto.JobsStats{
		TotalJobs:       s.TotalJobs,
		UniqueCompanies: s.UniqueCompanies,
		UniqueLocations: s.UniqueLocations,
		LastUpdated:     s.LoadedAt,
	}, nil
}

// JobsByIDs resolves a comma separated id list. Ids that are not integers
// are ignored, and so are ids missing from the corpus.
func (uc *JobUsecase) JobsByIDs(raw string) ([]dto.MatchResult, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, util.NewFormError("No valid job IDs provided", map[string]string{"ids": "expected a comma separated list of integers"})
	}

	c, err := uc.store.Current()
	if err != nil {
		return nil, err
	}
	jobs := make([]dto.MatchResult, 0, len(ids))
	for _, id := range ids {
		rec, ok := c.Find(id)
		if !ok {
			continue
		}
		jobs = append(jobs, resultFromRecord(rec))
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("no jobs found for ids %q: %w", raw, apperror.ErrNotFound)
	}
	return jobs, nil
}

func (uc *JobUsecase) Job(id int64) (dto.JobDetail, error) {
	c, err := uc.store.Current()
	if err != nil {
		return dto.JobDetail{}, err
	}
	rec, ok := c.Find(id)
	if !ok {
		return dto.JobDetail{}, fmt.Errorf("job %d: %w", id, apperror.ErrNotFound)
	}
	return detailFromRecord(rec), nil
}

// Reload rebuilds the corpus synchronously. On failure the previous corpus
// stays published.
func (uc *JobUsecase) Reload(ctx context.Context, refresh bool) (dto.ReloadResult, error) {
	start := uc.now()
	c, err := uc.store.Reload(ctx, refresh)
	if err != nil {
		return dto.ReloadResult{}, err
	}
	uc.log.Info("jobs reloaded", zap.Int("jobs", c.Len()), zap.Duration("took", time.Since(start)))
	return dto.ReloadResult{JobsCount: c.Len()}, nil
}

func resultFromRecord(rec *corpus.JobRecord) dto.MatchResult {
	return dto.MatchResult{
		JobID:          rec.JobID,
		JobTitle:       rec.JobTitle,
		JobDescription: rec.JobDesc,
		Salary:         rec.Salary,
		Location:       rec.JobLocation,
		Experience:     rec.Experience,
		DatePosted:     rec.DatePosted,
		WorkType:       rec.WorkType,
		OrgName:        orDefault(rec.OrgName, "Unknown"),
		ApplyLink:      rec.ApplyLink,
	}
}

func detailFromRecord(rec *corpus.JobRecord) dto.JobDetail {
	return dto.JobDetail{
		ID:            rec.JobID,
		Title:         rec.JobTitle,
		Company:       orDefault(rec.OrgName, "Unknown Company"),
		Location:      rec.JobLocation,
		Salary:        orDefault(rec.Salary, "Not specified"),
		Type:          orDefault(rec.WorkType, "Full-time"),
		Description:   rec.JobDesc,
		Qualification: rec.Qualification,
		Experience:    rec.Experience,
		DatePosted:    rec.DatePosted,
		ApplyURL:      orDefault(rec.ApplyLink, "#"),
	}
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
