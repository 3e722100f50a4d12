package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fadilmartias/job-matcher/internal/dto"
	"github.com/fadilmartias/job-matcher/internal/logger"
	"github.com/fadilmartias/job-matcher/internal/model"
	"github.com/fadilmartias/job-matcher/internal/profile"
	"github.com/fadilmartias/job-matcher/internal/repository"
	"github.com/fadilmartias/job-matcher/internal/response"
	"github.com/fadilmartias/job-matcher/internal/util"
	"go.uber.org/zap"
)

const (
	// jobsShownPerMatch approximates how many postings one match session displays.
	jobsShownPerMatch = 10

	recentApplications = 5
	recentResumes      = 3
	recentActivities   = 10
)

type UserUsecase struct {
	profiles     ProfileReader
	preferences  PreferenceStore
	applications ApplicationStore
	activity     ActivityReader
	usage        UsageStore
	log          *zap.Logger
	now          func() time.Time
}

func NewUserUsecase(
	profiles ProfileReader,
	preferences PreferenceStore,
	applications ApplicationStore,
	activity ActivityReader,
	usage UsageStore,
	log *zap.Logger,
) *UserUsecase {
	return &UserUsecase{
		profiles:     profiles,
		preferences:  preferences,
		applications: applications,
		activity:     activity,
		usage:        usage,
		log:          logger.OrNop(log).Named("user"),
		now:          time.Now,
	}
}

func requireUserID(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return util.NewFormError("user_id is required", map[string]string{"user_id": "required"})
	}
	return nil
}

// SavePreferences replaces whatever preferences the user had before.
func (uc *UserUsecase) SavePreferences(ctx context.Context, req dto.PreferencesRequest) error {
	if err := requireUserID(req.UserID); err != nil {
		return err
	}
	keywords, err := encodeList(req.Keywords)
	if err != nil {
		return fmt.Errorf("encode keywords: %w", err)
	}
	jobTypes, err := encodeList(req.JobTypes)
	if err != nil {
		return fmt.Errorf("encode job types: %w", err)
	}
	industries, err := encodeList(req.Industries)
	if err != nil {
		return fmt.Errorf("encode industries: %w", err)
	}

	p := &model.JobPreference{
		UserID:          req.UserID,
		Keywords:        keywords,
		Location:        req.Location,
		SalaryRange:     req.SalaryRange,
		JobTypes:        jobTypes,
		ExperienceLevel: req.ExperienceLevel,
		Industries:      industries,
	}
	if err := uc.preferences.Replace(ctx, p); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	uc.log.Info("preferences saved", zap.String("user_id", req.UserID))
	return nil
}

// Preferences returns nil when the user never saved any.
func (uc *UserUsecase) Preferences(ctx context.Context, userID string) (*dto.PreferencesResponse, error) {
	if err := requireUserID(userID); err != nil {
		return nil, err
	}
	p, err := uc.preferences.Latest(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	if p == nil {
		return nil, nil
	}
	return &dto.PreferencesResponse{
		Keywords:        profile.ParseTextBag(p.Keywords),
		Location:        p.Location,
		SalaryRange:     p.SalaryRange,
		JobTypes:        profile.ParseTextBag(p.JobTypes),
		ExperienceLevel: p.ExperienceLevel,
		Industries:      profile.ParseTextBag(p.Industries),
	}, nil
}

// Profile returns nil when the user has no stored profile.
func (uc *UserUsecase) Profile(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	if err := requireUserID(userID); err != nil {
		return nil, err
	}
	p, err := uc.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if p == nil {
		return nil, nil
	}
	return &dto.ProfileResponse{
		Name:             p.Name,
		Email:            p.Email,
		Phone:            p.Phone,
		Location:         p.Location,
		Education:        profile.ParseTextBag(p.Education),
		Skills:           profile.ParseTextBag(p.Skills),
		Experience:       profile.ParseTextBag(p.Experience),
		Projects:         profile.ParseTextBag(p.Projects),
		Achievements:     profile.ParseTextBag(p.Achievements),
		Societies:        profile.ParseTextBag(p.Societies),
		Links:            profile.ParseTextBag(p.Links),
		ProfileCompleted: p.ProfileCompleted,
	}, nil
}

func (uc *UserUsecase) Apply(ctx context.Context, req dto.ApplyRequest) error {
	fields := map[string]string{}
	if strings.TrimSpace(req.UserID) == "" {
		fields["user_id"] = "required"
	}
	if req.JobID <= 0 {
		fields["job_id"] = "must be a positive integer"
	}
	if len(fields) > 0 {
		return util.NewFormError("user_id and job_id are required", fields)
	}
	if err := uc.applications.Apply(ctx, req.UserID, req.JobID, req.EnhancedResumeURL, req.CoverLetterID); err != nil {
		return fmt.Errorf("apply to job %d: %w", req.JobID, err)
	}
	uc.log.Info("application recorded", zap.String("user_id", req.UserID), zap.Int64("job_id", req.JobID))
	return nil
}

// Applications lists the user's applications, newest first. A page of 0
// returns everything without pagination metadata.
func (uc *UserUsecase) Applications(ctx context.Context, userID string, page, pageSize int) ([]repository.ApplicationRow, *response.Pagination, error) {
	if err := requireUserID(userID); err != nil {
		return nil, nil, err
	}
	if page <= 0 {
		rows, err := uc.applications.ListByUser(ctx, userID, 0, 0)
		if err != nil {
			return nil, nil, fmt.Errorf("list applications: %w", err)
		}
		return nonNil(rows), nil, nil
	}

	total, err := uc.applications.CountByUser(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("count applications: %w", err)
	}
	pg := response.NewPagination(page, pageSize, total)
	rows, err := uc.applications.ListByUser(ctx, userID, pg.PageSize, pg.Offset())
	if err != nil {
		return nil, nil, fmt.Errorf("list applications: %w", err)
	}
	return nonNil(rows), pg, nil
}

func (uc *UserUsecase) Dashboard(ctx context.Context, userID string) (dto.DashboardStats, error) {
	var stats dto.DashboardStats
	if err := requireUserID(userID); err != nil {
		return stats, err
	}

	var err error
	if stats.TotalApplications, err = uc.applications.CountByUser(ctx, userID); err != nil {
		return stats, fmt.Errorf("count applications: %w", err)
	}
	if stats.TotalResumesGenerated, err = uc.activity.CountEnhancedResumes(ctx, userID); err != nil {
		return stats, fmt.Errorf("count resumes: %w", err)
	}
	if stats.TotalCoverLettersGenerated, err = uc.activity.CountCoverLetters(ctx, userID); err != nil {
		uc.log.Warn("cover letters unavailable", zap.String("user_id", userID), zap.Error(err))
		stats.TotalCoverLettersGenerated = 0
	}
	sessions, err := uc.usage.CountForService(ctx, userID, JobMatcherService)
	if err != nil {
		return stats, fmt.Errorf("count job matcher usage: %w", err)
	}
	stats.TotalJobsShown = sessions * jobsShownPerMatch
	stats.TotalJobsSelected = stats.TotalApplications
	return stats, nil
}

// RecentActivity merges the latest applications and resume enhancements.
func (uc *UserUsecase) RecentActivity(ctx context.Context, userID string) ([]dto.Activity, error) {
	if err := requireUserID(userID); err != nil {
		return nil, err
	}
	apps, err := uc.activity.RecentApplications(ctx, userID, recentApplications)
	if err != nil {
		return nil, fmt.Errorf("recent applications: %w", err)
	}
	resumes, err := uc.activity.RecentResumes(ctx, userID, recentResumes)
	if err != nil {
		return nil, fmt.Errorf("recent resumes: %w", err)
	}

	now := uc.now()
	activities := make([]dto.Activity, 0, len(apps)+len(resumes))
	for _, a := range apps {
		activities = append(activities, dto.Activity{
			Type:        "application",
			Date:        dateOr(a.Date, now),
			Title:       "Applied for " + orDefault(a.Title, "a job"),
			Subtitle:    orDefault(a.Subtitle, "Unknown Company"),
			Description: "Application submitted",
		})
	}
	for _, r := range resumes {
		activities = append(activities, dto.Activity{
			Type:        "resume",
			Date:        dateOr(r.Date, now),
			Title:       "Enhanced resume for " + orDefault(r.Title, "a job"),
			Subtitle:    "Resume Enhancement",
			Description: "Resume enhanced",
		})
	}
	sort.SliceStable(activities, func(i, j int) bool {
		return activities[i].Date.After(activities[j].Date)
	})
	if len(activities) > recentActivities {
		activities = activities[:recentActivities]
	}
	return activities, nil
}

func (uc *UserUsecase) ServiceUsage(ctx context.Context, userID string) ([]repository.UsageRow, error) {
	if err := requireUserID(userID); err != nil {
		return nil, err
	}
	rows, err := uc.usage.ByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service usage: %w", err)
	}
	return nonNil(rows), nil
}

// encodeList stores a list as a JSON array; nil becomes "[]".
func encodeList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	b, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func dateOr(t *time.Time, def time.Time) time.Time {
	if t == nil {
		return def
	}
	return *t
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
