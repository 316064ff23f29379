package models

import "github.com/google/uuid"

// ClientStats are the headline numbers of the client portal.
type ClientStats struct {
	TotalInfluencers      int     `json:"total_influencers"`
	AvgInstagramFollowers int64   `json:"avg_instagram_followers"`
	AvgTikTokFollowers    int64   `json:"avg_tiktok_followers"`
	AvgViews              int64   `json:"avg_views"`
	AvgEngagement         float64 `json:"avg_engagement"`
	NewToday              int     `json:"new_today"`
}

// PlatformShare is one slice of the platform distribution chart.
type PlatformShare struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// TopCreator is one bar of the top creators chart.
type TopCreator struct {
	Name       string  `json:"name"`
	Views      int64   `json:"views"`
	Engagement float64 `json:"engagement"`
}

// TimelinePoint counts creators added on a date.
type TimelinePoint struct {
	Date       string `json:"date"`
	Creators   int    `json:"creators"`
	Cumulative int    `json:"cumulative"`
}

// StatusCounts splits influencers by review status.
type StatusCounts struct {
	Total     int `json:"total"`
	Submitted int `json:"submitted"`
	Pending   int `json:"pending"`
}

// ClientAnalytics is the full client portal payload.
type ClientAnalytics struct {
	ClientID             uuid.UUID       `json:"client_id"`
	ClientName           string          `json:"client_name"`
	Stats                ClientStats     `json:"stats"`
	Status               StatusCounts    `json:"status"`
	PlatformDistribution []PlatformShare `json:"platform_distribution"`
	TopCreators          []TopCreator    `json:"top_creators"`
	Timeline             []TimelinePoint `json:"timeline"`
}

// ClientStatusCounts are status counts for one client.
type ClientStatusCounts struct {
	ClientID   uuid.UUID `json:"client_id"`
	ClientName string    `json:"client_name"`
	StatusCounts
}

// OverviewStats is the admin portal dashboard.
type OverviewStats struct {
	TotalInfluencers int                  `json:"total_influencers"`
	TotalSubmitted   int                  `json:"total_submitted"`
	TotalPending     int                  `json:"total_pending"`
	TotalClients     int                  `json:"total_clients"`
	Clients          []ClientStatusCounts `json:"clients"`
}
