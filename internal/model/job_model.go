package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

// JobEmbedding is one embedded posting in the pgvector-backed corpus cache.
// Payload holds the serialized job record; Embedding is the vector used for
// similarity.
type JobEmbedding struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	JobID     int64           `gorm:"index;not null" json:"job_id"`
	Model     string          `gorm:"type:varchar(128);index;not null" json:"model"`
	Payload   string          `gorm:"type:jsonb" json:"payload"`
	Embedding pgvector.Vector `gorm:"type:vector" json:"embedding"`
	CreatedAt time.Time       `json:"created_at"`
}

func (j *JobEmbedding) TableName() string {
	return "job_embeddings"
}
