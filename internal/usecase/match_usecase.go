package usecase

import (
	"context"
	"strings"

	"github.com/fadilmartias/job-matcher/internal/dto"
	"github.com/fadilmartias/job-matcher/internal/logger"
	"github.com/fadilmartias/job-matcher/internal/matching"
	"github.com/fadilmartias/job-matcher/internal/metrics"
	"github.com/fadilmartias/job-matcher/internal/model"
	"github.com/fadilmartias/job-matcher/internal/profile"
	"github.com/fadilmartias/job-matcher/internal/util"
	"go.uber.org/zap"
)

// JobMatcherService is the service name recorded in service_usage.
const JobMatcherService = "job_matcher"

type MatchUsecase struct {
	corpus       CorpusReader
	matcher      Matcher
	profiles     ProfileReader
	preferences  PreferenceStore
	applications ApplicationStore
	usage        UsageStore
	defaultTopN  int
	log          *zap.Logger
}

func NewMatchUsecase(
	corpus CorpusReader,
	matcher Matcher,
	profiles ProfileReader,
	preferences PreferenceStore,
	applications ApplicationStore,
	usage UsageStore,
	defaultTopN int,
	log *zap.Logger,
) *MatchUsecase {
	if defaultTopN <= 0 {
		defaultTopN = 10
	}
	return &MatchUsecase{
		corpus:       corpus,
		matcher:      matcher,
		profiles:     profiles,
		preferences:  preferences,
		applications: applications,
		usage:        usage,
		defaultTopN:  defaultTopN,
		log:          logger.OrNop(log).Named("match"),
	}
}

// Match fills gaps in the request from the user's saved preferences and
// profile, excludes jobs the user already applied to, and ranks the corpus.
func (uc *MatchUsecase) Match(ctx context.Context, req dto.MatchRequest) ([]dto.MatchResult, error) {
	if strings.TrimSpace(req.UserID) == "" {
		return nil, util.NewFormError("user_id is required", map[string]string{"user_id": "required"})
	}

	c, err := uc.corpus.Current()
	if err != nil {
		metrics.MatchRequests.WithLabelValues(metrics.OutcomeNotReady).Inc()
		return nil, err
	}

	raw := uc.resolve(ctx, req)
	q := profile.Normalize(raw)
	if raw.SalaryRange != "" && q.ExpectedSalary == nil {
		_, perr := profile.ParseExpectedSalaryStrict(raw.SalaryRange)
		uc.log.Debug("ignoring salary constraint", zap.String("user_id", req.UserID), zap.Error(perr))
	}

	topN := req.TopN
	if topN <= 0 {
		topN = uc.defaultTopN
	}

	ranked, err := uc.matcher.Match(ctx, q, c, topN)
	if err != nil {
		metrics.MatchRequests.WithLabelValues(metrics.OutcomeFailed).Inc()
		return nil, err
	}

	outcome := metrics.OutcomeOK
	if len(ranked) == 0 {
		outcome = metrics.OutcomeEmpty
	}
	metrics.MatchRequests.WithLabelValues(outcome).Inc()

	if err := uc.usage.Track(ctx, req.UserID, JobMatcherService); err != nil {
		uc.log.Warn("failed to track service usage", zap.String("user_id", req.UserID), zap.Error(err))
	}

	uc.log.Info("match served",
		zap.String("user_id", req.UserID),
		zap.Int("results", len(ranked)),
		zap.Int("excluded", len(q.Excluded)))
	return matching.Assemble(ranked), nil
}

func (uc *MatchUsecase) resolve(ctx context.Context, req dto.MatchRequest) profile.RawRequest {
	var prefs *model.JobPreference
	if p, err := uc.preferences.Latest(ctx, req.UserID); err != nil {
		uc.log.Warn("failed to load preferences", zap.String("user_id", req.UserID), zap.Error(err))
	} else {
		prefs = p
	}

	var prof *model.UserProfile
	if p, err := uc.profiles.FindByUserID(ctx, req.UserID); err != nil {
		uc.log.Warn("failed to load profile", zap.String("user_id", req.UserID), zap.Error(err))
	} else {
		prof = p
	}

	raw := profile.RawRequest{
		Location:      req.Location,
		Domain:        req.Domain,
		Qualification: req.Qualification,
		Experience:    req.ExperienceLevel,
		SalaryRange:   string(req.SalaryRange),
	}
	if len(req.JobType) > 0 {
		raw.WorkType = req.JobType[0]
	}
	if raw.Location == "" && prefs != nil {
		raw.Location = prefs.Location
	}
	if raw.Domain == "" && prefs != nil {
		raw.Domain = profile.ParseTextBag(prefs.Keywords).Join(" ")
	}
	if raw.Experience == "" && prof != nil {
		raw.Experience = profile.ParseTextBag(prof.Experience).Join(" ")
	}
	if raw.Qualification == "" && prof != nil {
		raw.Qualification = profile.ParseTextBag(prof.Education).Join(" ")
	}

	applied, err := uc.applications.AppliedJobIDs(ctx, req.UserID)
	if err != nil {
		uc.log.Warn("failed to load applied jobs", zap.String("user_id", req.UserID), zap.Error(err))
	}
	raw.AppliedJobIDs = applied
	return raw
}
