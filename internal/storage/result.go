package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/AOGbadamosi2018/AItext-evaluator/internal/domain"
)

type ResultRepo struct {
	db *PostgresDB
}

func NewResultRepo(db *PostgresDB) *ResultRepo {
	return &ResultRepo{db: db}
}

// SaveAggregate stores one row per evaluated kind plus a "safety" row
// carrying the aggregate score, all in a single batch.
func (r *ResultRepo) SaveAggregate(ctx context.Context, jobID string, result *domain.AggregateResult) error {
	batch := &pgx.Batch{}
	now := time.Now()

	const insert = `
		INSERT INTO evaluation_results (id, job_id, text, context, evaluation_type, score, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for kind, outcome := range result.Evaluations {
		details := outcome.Details
		if outcome.Error != "" {
			details = make(map[string]interface{}, len(outcome.Details)+1)
			for k, v := range outcome.Details {
				details[k] = v
			}
			details["error"] = outcome.Error
		}

		detailsJSON, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("marshal details: %w", err)
		}

		batch.Queue(insert,
			uuid.New().String(), jobID, result.Text, result.Context,
			string(kind), outcome.Score, detailsJSON, now)
	}

	batch.Queue(insert,
		uuid.New().String(), jobID, result.Text, result.Context,
		domain.AggregateResultType, result.SafetyScore, nil, now)

	results := r.db.Pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}

	return nil
}

func (r *ResultRepo) Query(ctx context.Context, req *domain.ResultsQueryRequest) (*domain.ResultsQueryResponse, error) {
	req.SetDefaults()

	var conditions []string
	var args []interface{}
	argIdx := 1

	if req.JobID != "" {
		conditions = append(conditions, fmt.Sprintf("job_id = $%d", argIdx))
		args = append(args, req.JobID)
		argIdx++
	}

	if req.EvaluationType != "" {
		conditions = append(conditions, fmt.Sprintf("evaluation_type = $%d", argIdx))
		args = append(args, req.EvaluationType)
		argIdx++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM evaluation_results %s", whereClause)
	var total int
	if err := r.db.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, job_id, text, context, evaluation_type, score, details, created_at
		FROM evaluation_results
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argIdx, argIdx+1)

	args = append(args, req.Limit, req.Offset)

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var stored []domain.StoredResult
	for rows.Next() {
		var res domain.StoredResult
		var jobID, resContext *string
		var detailsJSON []byte

		if err := rows.Scan(&res.ID, &jobID, &res.Text, &resContext,
			&res.EvaluationType, &res.Score, &detailsJSON, &res.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}

		if jobID != nil {
			res.JobID = *jobID
		}
		if resContext != nil {
			res.Context = *resContext
		}
		if detailsJSON != nil {
			if err := json.Unmarshal(detailsJSON, &res.Details); err != nil {
				return nil, fmt.Errorf("decode details for result %s: %w", res.ID, err)
			}
		}

		stored = append(stored, res)
	}

	return &domain.ResultsQueryResponse{
		Results: stored,
		Total:   total,
		Limit:   req.Limit,
		Offset:  req.Offset,
		HasMore: req.Offset+len(stored) < total,
	}, nil
}
