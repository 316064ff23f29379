package models

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the format of date_added and history dates.
const DateLayout = "2006-01-02"

// Influencer is a prospect creator sourced for a client.
type Influencer struct {
	ID                 int64     `json:"id"`
	ClientID           uuid.UUID `json:"client_id"`
	ClientName         string    `json:"client_name,omitempty"`
	AddedByUserID      uuid.UUID `json:"added_by_user_id"`
	Name               string    `json:"name"`
	BusinessEmail      string    `json:"business_email"`
	InstagramFollowers int64     `json:"instagram_followers"`
	TikTokFollowers    int64     `json:"tiktok_followers"`
	AverageViews       int64     `json:"average_views"`
	EngagementRate     float64   `json:"engagement_rate"`
	InstagramURL       string    `json:"instagram_url"`
	TikTokURL          string    `json:"tiktok_url"`
	Notes              string    `json:"notes"`
	Submitted          bool      `json:"submitted"`
	CreatedAt          time.Time `json:"created_at"`
	DateAdded          string    `json:"date_added"`
}

// InfluencersResponse holds a list of influencers.
type InfluencersResponse struct {
	Influencers []Influencer `json:"influencers"`
}

// InfluencerResponse represents a response with a single influencer.
type InfluencerResponse struct {
	Influencer Influencer `json:"influencer"`
}

// InfluencerRequest is the create payload for an influencer.
type InfluencerRequest struct {
	ClientID           string  `json:"client_id"`
	Name               string  `json:"name"`
	BusinessEmail      string  `json:"business_email"`
	InstagramFollowers int64   `json:"instagram_followers"`
	TikTokFollowers    int64   `json:"tiktok_followers"`
	AverageViews       int64   `json:"average_views"`
	EngagementRate     float64 `json:"engagement_rate"`
	InstagramURL       string  `json:"instagram_url"`
	TikTokURL          string  `json:"tiktok_url"`
	Notes              string  `json:"notes"`
}

// InfluencerUpdate holds the editable fields of an influencer. Nil fields are left unchanged.
type InfluencerUpdate struct {
	Name               *string  `json:"name"`
	BusinessEmail      *string  `json:"business_email"`
	InstagramFollowers *int64   `json:"instagram_followers"`
	TikTokFollowers    *int64   `json:"tiktok_followers"`
	AverageViews       *int64   `json:"average_views"`
	EngagementRate     *float64 `json:"engagement_rate"`
	InstagramURL       *string  `json:"instagram_url"`
	TikTokURL          *string  `json:"tiktok_url"`
	Notes              *string  `json:"notes"`
}

// Empty reports whether the update carries no fields.
func (u InfluencerUpdate) Empty() bool {
	return u.Name == nil && u.BusinessEmail == nil && u.InstagramFollowers == nil &&
		u.TikTokFollowers == nil && u.AverageViews == nil && u.EngagementRate == nil &&
		u.InstagramURL == nil && u.TikTokURL == nil && u.Notes == nil
}

// InfluencerFilter narrows an influencer listing.
//
// ClientIDs restricts results to the given clients when non-nil; an empty
// non-nil slice matches nothing.
type InfluencerFilter struct {
	ClientIDs []uuid.UUID
	ClientID  *uuid.UUID
	Submitted *bool
	AddedBy   *uuid.UUID
	AddedOn   *time.Time
	Search    string
}

// ImportResponse reports the outcome of a CSV bulk upload.
type ImportResponse struct {
	Message string       `json:"message"`
	Added   []Influencer `json:"added"`
	Errors  []string     `json:"errors"`
}
