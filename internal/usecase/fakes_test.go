package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/fadilmartias/job-matcher/internal/apperror"
	"github.com/fadilmartias/job-matcher/internal/corpus"
	"github.com/fadilmartias/job-matcher/internal/matching"
	"github.com/fadilmartias/job-matcher/internal/model"
	"github.com/fadilmartias/job-matcher/internal/profile"
	"github.com/fadilmartias/job-matcher/internal/repository"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	c         *corpus.Corpus
	state     corpus.State
	reloadErr error
	reloads   int
}

func (f *fakeStore) Current() (*corpus.Corpus, error) {
	if f.c == nil {
		return nil, apperror.ErrCorpusNotReady
	}
	return f.c, nil
}

func (f *fakeStore) State() corpus.State { return f.state }

func (f *fakeStore) Reload(_ context.Context, _ bool) (*corpus.Corpus, error) {
	f.reloads++
	if f.reloadErr != nil {
		return nil, f.reloadErr
	}
	return f.c, nil
}

type fakeMatcher struct {
	got    profile.CandidateQuery
	gotTop int
	out    []matching.Ranked
	err    error
}

func (f *fakeMatcher) Match(_ context.Context, q profile.CandidateQuery, c *corpus.Corpus, topN int) ([]matching.Ranked, error) {
	f.got = q
	f.gotTop = topN
	return f.out, f.err
}

type fakeProfiles struct {
	p   *model.UserProfile
	err error
}

func (f *fakeProfiles) FindByUserID(context.Context, string) (*model.UserProfile, error) {
	return f.p, f.err
}

type fakePreferences struct {
	p        *model.JobPreference
	err      error
	replaced *model.JobPreference
}

func (f *fakePreferences) Latest(context.Context, string) (*model.JobPreference, error) {
	return f.p, f.err
}

func (f *fakePreferences) Replace(_ context.Context, p *model.JobPreference) error {
	f.replaced = p
	return f.err
}

type fakeApplications struct {
	applied  []int64
	err      error
	total    int64
	rows     []repository.ApplicationRow
	limit    int
	offset   int
	appliedT struct {
		user   string
		job    int64
		resume *string
	}
}

func (f *fakeApplications) AppliedJobIDs(context.Context, string) ([]int64, error) {
	return f.applied, f.err
}

func (f *fakeApplications) Apply(_ context.Context, userID string, jobID int64, resumeURL *string, _ *int64) error {
	f.appliedT.user, f.appliedT.job, f.appliedT.resume = userID, jobID, resumeURL
	return f.err
}

func (f *fakeApplications) CountByUser(context.Context, string) (int64, error) {
	return f.total, f.err
}

func (f *fakeApplications) ListByUser(_ context.Context, _ string, limit, offset int) ([]repository.ApplicationRow, error) {
	f.limit, f.offset = limit, offset
	return f.rows, f.err
}

type fakeActivity struct {
	resumes      int64
	coverLetters int64
	coverErr     error
	apps         []repository.ActivityRow
	resumeRows   []repository.ActivityRow
}

func (f *fakeActivity) CountEnhancedResumes(context.Context, string) (int64, error) {
	return f.resumes, nil
}

func (f *fakeActivity) CountCoverLetters(context.Context, string) (int64, error) {
	return f.coverLetters, f.coverErr
}

func (f *fakeActivity) RecentApplications(_ context.Context, _ string, limit int) ([]repository.ActivityRow, error) {
	if len(f.apps) > limit {
		return f.apps[:limit], nil
	}
	return f.apps, nil
}

func (f *fakeActivity) RecentResumes(_ context.Context, _ string, limit int) ([]repository.ActivityRow, error) {
	if len(f.resumeRows) > limit {
		return f.resumeRows[:limit], nil
	}
	return f.resumeRows, nil
}

type fakeUsage struct {
	tracked  []string
	trackErr error
	rows     []repository.UsageRow
	count    int64
	service  string
}

func (f *fakeUsage) Track(_ context.Context, userID, service string) error {
	f.tracked = append(f.tracked, userID+":"+service)
	return f.trackErr
}

func (f *fakeUsage) ByUser(context.Context, string) ([]repository.UsageRow, error) {
	return f.rows, nil
}

func (f *fakeUsage) CountForService(_ context.Context, _ string, service string) (int64, error) {
	f.service = service
	return f.count, nil
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func testCorpus(t *testing.T) *corpus.Corpus {
	t.Helper()
	rows := []map[string]any{
		{"job_id": int64(1), "job_title": "Go Engineer", "org_name": "Acme", "job_location": "Berlin", "salary": "$60K-$90K", "apply_link": "https://acme.test/1", "work_type": "Full-time"},
		{"job_id": int64(2), "job_title": "Data Analyst", "org_name": "", "job_location": "Remote"},
		{"job_id": int64(3), "job_title": "SRE", "org_name": "Acme", "job_location": "Berlin"},
	}
	jobs := make([]corpus.JobRecord, 0, len(rows))
	for _, r := range rows {
		rec, err := corpus.RecordFromRow(r)
		require.NoError(t, err)
		rec.Embedding = []float32{1, 0}
		jobs = append(jobs, rec)
	}
	c, err := corpus.New(jobs, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return c
}
