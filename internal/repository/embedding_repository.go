package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fadilmartias/job-matcher/internal/corpus"
	"github.com/fadilmartias/job-matcher/internal/model"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

const embeddingInsertBatch = 200

// EmbeddingRepository stores the embedded corpus in pgvector, one row per job,
// scoped by embedding model. It satisfies corpus.CacheStore.
type EmbeddingRepository struct {
	db    *gorm.DB
	model string
}

func NewEmbeddingRepository(db *gorm.DB, embeddingModel string) *EmbeddingRepository {
	return &EmbeddingRepository{db: db, model: embeddingModel}
}

func (r *EmbeddingRepository) Load(ctx context.Context) ([]corpus.JobRecord, error) {
	var rows []model.JobEmbedding
	err := r.db.WithContext(ctx).
		Where("model = ?", r.model).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load job embeddings: %w", err)
	}
	if len(rows) == 0 {
		return nil, corpus.ErrNoCache
	}

	jobs := make([]corpus.JobRecord, 0, len(rows))
	for _, row := range rows {
		var rec corpus.JobRecord
		if err := json.Unmarshal([]byte(row.Payload), &rec); err != nil {
			return nil, fmt.Errorf("%w: job %d payload: %v", corpus.ErrInvalidCache, row.JobID, err)
		}
		rec.JobID = row.JobID
		rec.Embedding = row.Embedding.Slice()
		jobs = append(jobs, rec)
	}
	return jobs, nil
}

// Save replaces every row for the current model in one transaction.
func (r *EmbeddingRepository) Save(ctx context.Context, jobs []corpus.JobRecord) error {
	rows := make([]model.JobEmbedding, 0, len(jobs))
	for _, j := range jobs {
		vec := j.Embedding
		j.Embedding = nil
		payload, err := json.Marshal(j)
		if err != nil {
			return fmt.Errorf("encode job %d: %w", j.JobID, err)
		}
		rows = append(rows, model.JobEmbedding{
			JobID:     j.JobID,
			Model:     r.model,
			Payload:   string(payload),
			Embedding: pgvector.NewVector(vec),
		})
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("model = ?", r.model).Delete(&model.JobEmbedding{}).Error; err != nil {
			return fmt.Errorf("clear job embeddings: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(&rows, embeddingInsertBatch).Error; err != nil {
			return fmt.Errorf("insert job embeddings: %w", err)
		}
		return nil
	})
}
