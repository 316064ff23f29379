package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/usario/creators-services/internal/events"
	"github.com/usario/creators-services/models"
)

const (
	submissionsTable = "submissions"
	submissionFields = `s.id, s.submitted_by_user_id, COALESCE(u.full_name, ''), s.influencer_count, s.notes, s.created_at,
		COALESCE(array_agg(si.influencer_id ORDER BY si.influencer_id) FILTER (WHERE si.influencer_id IS NOT NULL), '{}')`
	submissionFrom = ` FROM submissions s
		LEFT JOIN users u ON u.id = s.submitted_by_user_id
		LEFT JOIN submission_items si ON si.submission_id = s.id`
	submissionGroup = ` GROUP BY s.id, u.full_name`
)

func scanSubmission(row rowScanner) (models.Submission, error) {
	var s models.Submission
	var ids pq.Int64Array
	err := row.Scan(&s.ID, &s.SubmittedByUserID, &s.SubmittedByName, &s.InfluencerCount, &s.Notes, &s.CreatedAt, &ids)
	s.InfluencerIDs = []int64(ids)
	return s, err
}

// CreateSubmission submits a batch of influencers in one transaction. Every
// influencer must exist (ErrNotFound) and still be pending
// (ErrAlreadySubmitted). When ownerID is set every influencer must have been
// added by that user (ErrNotOwner).
func (db *CRMDB) CreateSubmission(ctx context.Context, submittedBy uuid.UUID, influencerIDs []int64, notes string, ownerID *uuid.UUID) (*models.Submission, error) {
	ids := uniqueIDs(influencerIDs)
	if len(ids) == 0 {
		return nil, fmt.Errorf("no influencers to submit")
	}

	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `
		SELECT id, added_by_user_id, submitted FROM influencers
		WHERE id = ANY($1) ORDER BY id FOR UPDATE`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("error locking influencers: %w", err)
	}

	found := 0
	for rows.Next() {
		var (
			id        int64
			addedBy   uuid.UUID
			submitted bool
		)
		if err := rows.Scan(&id, &addedBy, &submitted); err != nil {
			rows.Close()
			return nil, fmt.Errorf("error scanning influencers: %w", err)
		}
		found++
		if ownerID != nil && addedBy != *ownerID {
			rows.Close()
			return nil, fmt.Errorf("%w: influencer %d", ErrNotOwner, id)
		}
		if submitted {
			rows.Close()
			return nil, fmt.Errorf("%w: influencer %d", ErrAlreadySubmitted, id)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading influencers: %w", err)
	}
	if found != len(ids) {
		return nil, fmt.Errorf("%w: %d of %d influencers exist", ErrNotFound, found, len(ids))
	}

	submission := models.Submission{
		SubmittedByUserID: submittedBy,
		InfluencerCount:   len(ids),
		Notes:             notes,
		CreatedAt:         time.Now().UTC(),
		InfluencerIDs:     ids,
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO submissions (submitted_by_user_id, influencer_count, notes, created_at)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		submittedBy, submission.InfluencerCount, notes, submission.CreatedAt).Scan(&submission.ID)
	if err != nil {
		return nil, fmt.Errorf("error inserting submission: %w", translate(err))
	}

	if _, err := db.execQuery(ctx, tx, `
		INSERT INTO submission_items (submission_id, influencer_id)
		SELECT $1, unnest($2::bigint[])`,
		submission.ID, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("error inserting submission items: %w", err)
	}

	if _, err := db.execQuery(ctx, tx, `
		UPDATE influencers SET submitted = true WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("error marking influencers submitted: %w", err)
	}

	if err := db.CommitTransaction(tx); err != nil {
		return nil, err
	}

	db.publish(submissionsTable, events.Insert, submission)
	for _, id := range ids {
		db.publish(influencersTable, events.Update, map[string]any{"id": id, "submitted": true})
	}
	return &submission, nil
}

// ListSubmissions returns submissions newest first. When submittedBy is set
// only that user's submissions are returned.
func (db *CRMDB) ListSubmissions(ctx context.Context, submittedBy *uuid.UUID) ([]models.Submission, error) {
	query := `SELECT ` + submissionFields + submissionFrom
	var args []any
	if submittedBy != nil {
		query += ` WHERE s.submitted_by_user_id = $1`
		args = append(args, *submittedBy)
	}
	query += submissionGroup + ` ORDER BY s.created_at DESC, s.id DESC`

	rows, err := db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error retrieving submissions: %w", err)
	}
	defer rows.Close()

	submissions := []models.Submission{}
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning submissions: %w", err)
		}
		submissions = append(submissions, s)
	}
	return submissions, rows.Err()
}

// GetSubmission retrieves a submission with its influencers. A missing
// submission returns nil, nil.
func (db *CRMDB) GetSubmission(ctx context.Context, id int64) (*models.Submission, error) {
	row := db.DB.QueryRowContext(ctx, `SELECT `+submissionFields+submissionFrom+` WHERE s.id = $1`+submissionGroup, id)

	s, err := scanSubmission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error scanning submission: %w", err)
	}

	rows, err := db.DB.QueryContext(ctx, `SELECT `+influencerFields+influencerFrom+`
		JOIN submission_items si ON si.influencer_id = i.id
		WHERE si.submission_id = $1
		ORDER BY i.id`, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving submission influencers: %w", err)
	}
	s.Influencers, err = scanInfluencers(rows)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
