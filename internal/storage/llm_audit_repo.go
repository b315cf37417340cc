package storage

import (
	"context"
	"fmt"
)

// LLMCallRecord is one row of the model-call audit trail. Status is "ok" or
// "failed"; ErrorType carries a short classification for failed calls.
type LLMCallRecord struct {
	CallID    string
	Operation string
	JobID     string
	Provider  string
	Model     string
	Status    string
	ErrorType string
}

type LLMAuditRepo struct {
	db *DB
}

func NewLLMAuditRepo(db *DB) *LLMAuditRepo {
	return &LLMAuditRepo{db: db}
}

func (r *LLMAuditRepo) Insert(ctx context.Context, rec LLMCallRecord) error {
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO llm_calls (call_id, operation, job_id, provider, model, status, error_type)
VALUES ($1, $2, NULLIF($3,''), $4, $5, $6, NULLIF($7,''))`,
		rec.CallID, rec.Operation, rec.JobID, rec.Provider, rec.Model, rec.Status, rec.ErrorType,
	)
	if err != nil {
		return fmt.Errorf("insert llm call record: %w", err)
	}
	return nil
}
