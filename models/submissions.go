package models

import (
	"time"

	"github.com/google/uuid"
)

// Submission groups influencers sent together for admin review.
type Submission struct {
	ID                int64        `json:"id"`
	SubmittedByUserID uuid.UUID    `json:"submitted_by_user_id"`
	SubmittedByName   string       `json:"submitted_by_name"`
	InfluencerCount   int          `json:"influencer_count"`
	Notes             string       `json:"notes"`
	CreatedAt         time.Time    `json:"created_at"`
	InfluencerIDs     []int64      `json:"influencer_ids,omitempty"`
	Influencers       []Influencer `json:"influencers,omitempty"`
}

// SubmissionRequest is the payload for submitting influencers.
type SubmissionRequest struct {
	InfluencerIDs []int64 `json:"influencer_ids"`
	Notes         string  `json:"notes"`
}

// SubmissionsResponse holds a list of submissions.
type SubmissionsResponse struct {
	Submissions []Submission `json:"submissions"`
}

// SubmissionResponse represents a response with a single submission.
type SubmissionResponse struct {
	Submission Submission `json:"submission"`
}

// HistoryDay is one day of submission history.
type HistoryDay struct {
	Date            string       `json:"date"`
	SubmissionCount int          `json:"submission_count"`
	InfluencerCount int          `json:"influencer_count"`
	Submissions     []Submission `json:"submissions"`
}

// HistoryResponse holds submission history grouped by day.
type HistoryResponse struct {
	History []HistoryDay `json:"history"`
}
