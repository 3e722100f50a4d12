package usecase

import (
	"context"

	"github.com/fadilmartias/job-matcher/internal/corpus"
	"github.com/fadilmartias/job-matcher/internal/matching"
	"github.com/fadilmartias/job-matcher/internal/model"
	"github.com/fadilmartias/job-matcher/internal/profile"
	"github.com/fadilmartias/job-matcher/internal/repository"
)

type CorpusReader interface {
	Current() (*corpus.Corpus, error)
}

type CorpusStore interface {
	CorpusReader
	Reload(ctx context.Context, refresh bool) (*corpus.Corpus, error)
	State() corpus.State
}

type Matcher interface {
	Match(ctx context.Context, q profile.CandidateQuery, c *corpus.Corpus, topN int) ([]matching.Ranked, error)
}

type ProfileReader interface {
	FindByUserID(ctx context.Context, userID string) (*model.UserProfile, error)
}

type PreferenceStore interface {
	Latest(ctx context.Context, userID string) (*model.JobPreference, error)
	Replace(ctx context.Context, p *model.JobPreference) error
}

type ApplicationStore interface {
	AppliedJobIDs(ctx context.Context, userID string) ([]int64, error)
	Apply(ctx context.Context, userID string, jobID int64, resumeURL *string, coverLetterID *int64) error
	CountByUser(ctx context.Context, userID string) (int64, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]repository.ApplicationRow, error)
}

type ActivityReader interface {
	CountEnhancedResumes(ctx context.Context, userID string) (int64, error)
	CountCoverLetters(ctx context.Context, userID string) (int64, error)
	RecentApplications(ctx context.Context, userID string, limit int) ([]repository.ActivityRow, error)
	RecentResumes(ctx context.Context, userID string, limit int) ([]repository.ActivityRow, error)
}

type UsageStore interface {
	Track(ctx context.Context, userID, service string) error
	ByUser(ctx context.Context, userID string) ([]repository.UsageRow, error)
	CountForService(ctx context.Context, userID, service string) (int64, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}
