package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fadilmartias/job-matcher/internal/apperror"
	"github.com/fadilmartias/job-matcher/internal/corpus"
	"github.com/fadilmartias/job-matcher/internal/matching"
	"github.com/fadilmartias/job-matcher/internal/model"
	"github.com/fadilmartias/job-matcher/internal/repository"
	"github.com/fadilmartias/job-matcher/internal/usecase"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Details    json.RawMessage `json:"details"`
	Pagination json.RawMessage `json:"pagination"`
	Data       json.RawMessage `json:"data"`
}

type stubStore struct {
	c         *corpus.Corpus
	reloadErr error
}

func (s *stubStore) Current() (*corpus.Corpus, error) {
	if s.c == nil {
		return nil, apperror.ErrCorpusNotReady
	}
	return s.c, nil
}

func (s *stubStore) State() corpus.State {
	if s.c == nil {
		return corpus.StateNoCache
	}
	return corpus.StateCached
}

func (s *stubStore) Reload(context.Context, bool) (*corpus.Corpus, error) {
	if s.reloadErr != nil {
		return nil, s.reloadErr
	}
	return s.c, nil
}

type stubEmbedder struct{ vec []float32 }

func (s stubEmbedder) EmbedOne(context.Context, string) []float32 { return s.vec }

type stubRepo struct {
	prefs   *model.JobPreference
	saved   *model.JobPreference
	prof    *model.UserProfile
	applied []int64
	applies []int64
	rows    []repository.ApplicationRow
	usage   []repository.UsageRow
	tracked int
}

func (r *stubRepo) FindByUserID(context.Context, string) (*model.UserProfile, error) {
	return r.prof, nil
}

func (r *stubRepo) Latest(context.Context, string) (*model.JobPreference, error) {
	return r.prefs, nil
}

func (r *stubRepo) Replace(_ context.Context, p *model.JobPreference) error {
	r.saved = p
	return nil
}

func (r *stubRepo) AppliedJobIDs(context.Context, string) ([]int64, error) {
	return r.applied, nil
}

func (r *stubRepo) Apply(_ context.Context, _ string, jobID int64, _ *string, _ *int64) error {
	r.applies = append(r.applies, jobID)
	return nil
}

func (r *stubRepo) CountByUser(context.Context, string) (int64, error) {
	return int64(len(r.rows)), nil
}

func (r *stubRepo) ListByUser(_ context.Context, _ string, limit, offset int) ([]repository.ApplicationRow, error) {
	if limit <= 0 {
		return r.rows, nil
	}
	end := min(offset+limit, len(r.rows))
	if offset >= end {
		return nil, nil
	}
	return r.rows[offset:end], nil
}

func (r *stubRepo) CountEnhancedResumes(context.Context, string) (int64, error) { return 1, nil }

func (r *stubRepo) CountCoverLetters(context.Context, string) (int64, error) {
	return 0, errors.New("no cover letters table")
}

func (r *stubRepo) RecentApplications(context.Context, string, int) ([]repository.ActivityRow, error) {
	return nil, nil
}

func (r *stubRepo) RecentResumes(context.Context, string, int) ([]repository.ActivityRow, error) {
	return nil, nil
}

func (r *stubRepo) Track(context.Context, string, string) error {
	r.tracked++
	return nil
}

func (r *stubRepo) ByUser(context.Context, string) ([]repository.UsageRow, error) {
	return r.usage, nil
}

func (r *stubRepo) CountForService(context.Context, string, string) (int64, error) {
	return int64(r.tracked), nil
}

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

func sampleCorpus(t *testing.T) *corpus.Corpus {
	t.Helper()
	rows := []map[string]any{
		{"job_id": int64(1), "job_title": "Go Engineer", "org_name": "Acme", "job_location": "Berlin", "work_type": "Full-time"},
		{"job_id": int64(2), "job_title": "Data Analyst", "job_location": "Remote", "work_type": "Contract"},
		{"job_id": int64(3), "job_title": "SRE", "org_name": "Acme", "job_location": "Berlin", "work_type": "Full-time"},
	}
	embeddings := [][]float32{{1, 0}, {0, 1}, {0.6, 0.8}}
	jobs := make([]corpus.JobRecord, 0, len(rows))
	for i, row := range rows {
		rec, err := corpus.RecordFromRow(row)
		require.NoError(t, err)
		rec.Embedding = embeddings[i]
		jobs = append(jobs, rec)
	}
	c, err := corpus.New(jobs, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return c
}

func newTestApp(t *testing.T, store *stubStore, repo *stubRepo) *fiber.App {
	t.Helper()
	engine := matching.NewEngine(stubEmbedder{vec: []float32{1, 0}}, nil)
	matchUC := usecase.NewMatchUsecase(store, engine, repo, repo, repo, repo, 10, nil)
	jobUC := usecase.NewJobUsecase(store, okPinger{}, nil)
	userUC := usecase.NewUserUsecase(repo, repo, repo, repo, repo, nil)

	app := fiber.New()
	NewMatchHandler(matchUC).RegisterRoutes(app)
	NewJobHandler(jobUC).RegisterRoutes(app)
	NewUserHandler(userUC).RegisterRoutes(app)
	return app
}

func do(t *testing.T, app *fiber.App, method, target, body string) (int, envelope) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestMatchJobsRanksAndExcludesApplied(t *testing.T) {
	repo := &stubRepo{applied: []int64{1}}
	app := newTestApp(t, &stubStore{c: sampleCorpus(t)}, repo)

	status, env := do(t, app, http.MethodPost, "/match-jobs", `{"user_id":"u1","location":"berlin","salaryRange":null}`)

	require.Equal(t, http.StatusOK, status)
	var results []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &results))
	require.Len(t, results, 1)
	assert.EqualValues(t, 3, results[0]["job_id"])
	assert.EqualValues(t, 60, results[0]["match_score"])
	assert.Equal(t, 1, repo.tracked)
}

func TestMatchJobsEmptyResult(t *testing.T) {
	app := newTestApp(t, &stubStore{c: sampleCorpus(t)}, &stubRepo{})

	status, env := do(t, app, http.MethodPost, "/match-jobs", `{"user_id":"u1","location":"tokyo"}`)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "No jobs matched the given filters", env.Message)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestMatchJobsErrors(t *testing.T) {
	tests := []struct {
		name   string
		store  *stubStore
		body   string
		status int
	}{
		{"missing user", &stubStore{c: sampleCorpus(t)}, `{"domain":"go"}`, http.StatusBadRequest},
		{"bad json", &stubStore{c: sampleCorpus(t)}, `{"user_id":`, http.StatusBadRequest},
		{"corpus not loaded", &stubStore{}, `{"user_id":"u1"}`, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t, tt.store, &stubRepo{})

			status, env := do(t, app, http.MethodPost, "/match-jobs", tt.body)

			assert.Equal(t, tt.status, status)
			assert.False(t, env.Success)
		})
	}
}

func TestHealthReportsCorpus(t *testing.T) {
	app := newTestApp(t, &stubStore{c: sampleCorpus(t)}, &stubRepo{})

	status, env := do(t, app, http.MethodGet, "/", "")

	require.Equal(t, http.StatusOK, status)
	var h map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &h))
	assert.Equal(t, "healthy", h["status"])
	assert.Equal(t, "CACHED", h["corpus_state"])
	assert.EqualValues(t, 3, h["jobs_count"])
}

func TestJobRoutes(t *testing.T) {
	app := newTestApp(t, &stubStore{c: sampleCorpus(t)}, &stubRepo{})

	status, env := do(t, app, http.MethodGet, "/get-job/2", "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"company":"Unknown Company"`)

	status, _ = do(t, app, http.MethodGet, "/get-job/99", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, app, http.MethodGet, "/get-job/abc", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = do(t, app, http.MethodGet, "/jobs?ids=3,x,1", "")
	require.Equal(t, http.StatusOK, status)
	var jobs []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &jobs))
	assert.Len(t, jobs, 2)

	status, _ = do(t, app, http.MethodGet, "/jobs?ids=x", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = do(t, app, http.MethodGet, "/jobs-stats", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"total_jobs":3,"unique_companies":1,"unique_locations":2,"last_updated":"2025-03-01T00:00:00Z"}`, string(env.Data))
}

func TestReloadJobs(t *testing.T) {
	store := &stubStore{c: sampleCorpus(t)}
	app := newTestApp(t, store, &stubRepo{})

	status, env := do(t, app, http.MethodGet, "/reload-jobs?refresh=true", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"jobs_count":3}`, string(env.Data))

	store.reloadErr = apperror.NewDataSourceError("fetch job rows", errors.New("connection refused"))
	status, env = do(t, app, http.MethodGet, "/reload-jobs", "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "job source unavailable", env.Message)

	store.reloadErr = errors.New("disk full")
	_, env = do(t, app, http.MethodGet, "/reload-jobs", "")
	assert.Equal(t, "failed to reload jobs", env.Message)
}

func TestPreferencesRoundTrip(t *testing.T) {
	repo := &stubRepo{}
	app := newTestApp(t, &stubStore{}, repo)

	status, env := do(t, app, http.MethodGet, "/get-preferences/u1", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{}`, string(env.Data))

	status, _ = do(t, app, http.MethodPost, "/save-preferences", `{"user_id":"u1","keywords":["go"],"location":"Berlin"}`)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, repo.saved)
	assert.Equal(t, `["go"]`, repo.saved.Keywords)

	repo.prefs = repo.saved
	status, env = do(t, app, http.MethodGet, "/get-preferences/u1", "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"keywords":["go"]`)
	assert.Contains(t, string(env.Data), `"job_types":[]`)
}

func TestProfileRoute(t *testing.T) {
	repo := &stubRepo{prof: &model.UserProfile{Name: "Ada", Skills: `["Go"]`}}
	app := newTestApp(t, &stubStore{}, repo)

	status, env := do(t, app, http.MethodGet, "/get-profile/u1", "")

	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"skills":["Go"]`)
	assert.Contains(t, string(env.Data), `"links":[]`)
}

func TestApplyJobBodyAndQuery(t *testing.T) {
	repo := &stubRepo{}
	app := newTestApp(t, &stubStore{}, repo)

	status, _ := do(t, app, http.MethodPost, "/apply-job", `{"user_id":"u1","job_id":7}`)
	assert.Equal(t, http.StatusCreated, status)

	status, _ = do(t, app, http.MethodPost, "/apply-job?user_id=u1&job_id=8", "")
	assert.Equal(t, http.StatusCreated, status)

	status, env := do(t, app, http.MethodPost, "/apply-job", `{"job_id":9}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(env.Details), "user_id")

	assert.Equal(t, []int64{7, 8}, repo.applies)
}

func TestUserApplicationsPagination(t *testing.T) {
	repo := &stubRepo{rows: []repository.ApplicationRow{{JobID: 1}, {JobID: 2}, {JobID: 3}}}
	app := newTestApp(t, &stubStore{}, repo)

	status, env := do(t, app, http.MethodGet, "/user-applications/u1?page=2&page_size=2", "")
	require.Equal(t, http.StatusOK, status)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	require.Len(t, rows, 1)
	assert.EqualValues(t, 3, rows[0]["job_id"])
	assert.Contains(t, string(env.Pagination), `"total_items":3`)

	status, env = do(t, app, http.MethodGet, "/user-applications/u1", "")
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, env.Pagination)
}

func TestDashboardAndUsage(t *testing.T) {
	repo := &stubRepo{
		rows:    []repository.ApplicationRow{{JobID: 1}},
		tracked: 2,
		usage:   []repository.UsageRow{{ServiceName: "job_matcher", UsageCount: 2}},
	}
	app := newTestApp(t, &stubStore{}, repo)

	status, env := do(t, app, http.MethodGet, "/dashboard-stats/u1", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{
		"totalJobsShown": 20,
		"totalJobsSelected": 1,
		"totalCoverLettersGenerated": 0,
		"totalResumesGenerated": 1,
		"totalApplications": 1
	}`, string(env.Data))

	status, env = do(t, app, http.MethodGet, "/service-usage/u1", "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"service_name":"job_matcher"`)

	status, env = do(t, app, http.MethodGet, "/recent-activity/u1", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(env.Data))
}
