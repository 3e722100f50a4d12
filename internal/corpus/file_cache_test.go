package corpus

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileCacheMissingFile(t *testing.T) {
	s := NewFileCacheStore(filepath.Join(t.TempDir(), "cache.json"), "m1")
	_, err := s.Load(context.Background())
	assert.ErrorIs(t, err, ErrNoCache)
}

func TestFileCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cache.json")
	s := NewFileCacheStore(path, "m1")
	avg := 100.0
	jobs := []JobRecord{{
		JobID:          1,
		JobTitle:       "Go Developer",
		Salary:         "$80K-$120K",
		CombinedText:   "Go Developer",
		AverageSalaryK: &avg,
		Embedding:      []float32{0.25, -1},
	}}

	require.NoError(t, s.Save(context.Background(), jobs))
	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, jobs, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file is cleaned up")
}

func TestFileCacheUsesSerializedFieldNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	s := NewFileCacheStore(path, "m1")
	require.NoError(t, s.Save(context.Background(), []JobRecord{{JobID: 1, Embedding: []float32{1}}}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"combined_job_text"`)
	assert.Contains(t, string(raw), `"Average_Salary_K"`)
	assert.Contains(t, string(raw), `"embedding"`)
}

func TestFileCacheRejectsOtherModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, NewFileCacheStore(path, "m1").Save(context.Background(), []JobRecord{{JobID: 1, Embedding: []float32{1}}}))

	_, err := NewFileCacheStore(path, "m2").Load(context.Background())
	assert.ErrorIs(t, err, ErrInvalidCache)
}

func TestFileCacheRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewFileCacheStore(path, "m1").Load(context.Background())
	assert.ErrorIs(t, err, ErrInvalidCache)
}
