package analytics

import (
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/usario/creators-services/models"
)

const (
	InstagramDominant = "Instagram Dominant"
	TikTokDominant    = "TikTok Dominant"
	EqualOther        = "Equal/Other"

	topCreatorsLimit = 5
)

// Stats computes the headline numbers for a set of influencers. today is a
// models.DateLayout date.
func Stats(influencers []models.Influencer, today string) models.ClientStats {
	n := len(influencers)
	if n == 0 {
		return models.ClientStats{}
	}

	var ig, tt, views int64
	var engagement float64
	newToday := 0
	for _, inf := range influencers {
		ig += inf.InstagramFollowers
		tt += inf.TikTokFollowers
		views += inf.AverageViews
		engagement += inf.EngagementRate
		if inf.DateAdded == today {
			newToday++
		}
	}

	return models.ClientStats{
		TotalInfluencers:      n,
		AvgInstagramFollowers: roundAvg(ig, n),
		AvgTikTokFollowers:    roundAvg(tt, n),
		AvgViews:              roundAvg(views, n),
		AvgEngagement:         math.Round(engagement/float64(n)*10) / 10,
		NewToday:              newToday,
	}
}

func roundAvg(sum int64, n int) int64 {
	return int64(math.Round(float64(sum) / float64(n)))
}

// PlatformDistribution counts influencers by their larger following.
func PlatformDistribution(influencers []models.Influencer) []models.PlatformShare {
	var ig, tt int
	for _, inf := range influencers {
		switch {
		case inf.InstagramFollowers > inf.TikTokFollowers:
			ig++
		case inf.TikTokFollowers > inf.InstagramFollowers:
			tt++
		}
	}
	return []models.PlatformShare{
		{Name: InstagramDominant, Value: ig},
		{Name: TikTokDominant, Value: tt},
		{Name: EqualOther, Value: len(influencers) - ig - tt},
	}
}

// TopCreators returns the five influencers with the most average views.
func TopCreators(influencers []models.Influencer) []models.TopCreator {
	sorted := make([]models.Influencer, len(influencers))
	copy(sorted, influencers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AverageViews > sorted[j].AverageViews
	})
	if len(sorted) > topCreatorsLimit {
		sorted = sorted[:topCreatorsLimit]
	}

	top := make([]models.TopCreator, 0, len(sorted))
	for _, inf := range sorted {
		top = append(top, models.TopCreator{
			Name:       inf.Name,
			Views:      inf.AverageViews,
			Engagement: inf.EngagementRate,
		})
	}
	return top
}

// Timeline counts influencers per date_added in ascending date order.
func Timeline(influencers []models.Influencer) []models.TimelinePoint {
	counts := make(map[string]int)
	for _, inf := range influencers {
		counts[inf.DateAdded]++
	}

	dates := make([]string, 0, len(counts))
	for d := range counts {
		dates = append(dates, d)
	}
	// DateLayout sorts lexically.
	sort.Strings(dates)

	points := make([]models.TimelinePoint, 0, len(dates))
	cumulative := 0
	for _, d := range dates {
		cumulative += counts[d]
		points = append(points, models.TimelinePoint{Date: d, Creators: counts[d], Cumulative: cumulative})
	}
	return points
}

// Status splits influencers into submitted and pending.
func Status(influencers []models.Influencer) models.StatusCounts {
	counts := models.StatusCounts{Total: len(influencers)}
	for _, inf := range influencers {
		if inf.Submitted {
			counts.Submitted++
		}
	}
	counts.Pending = counts.Total - counts.Submitted
	return counts
}

// ForClient builds the client portal payload.
func ForClient(client models.Client, influencers []models.Influencer, today string) models.ClientAnalytics {
	return models.ClientAnalytics{
		ClientID:             client.ID,
		ClientName:           client.Name,
		Stats:                Stats(influencers, today),
		Status:               Status(influencers),
		PlatformDistribution: PlatformDistribution(influencers),
		TopCreators:          TopCreators(influencers),
		Timeline:             Timeline(influencers),
	}
}

// Overview aggregates status counts across every client. Influencers whose
// client is not in clients still count towards the totals.
func Overview(clients []models.Client, influencers []models.Influencer) models.OverviewStats {
	byClient := make(map[uuid.UUID][]models.Influencer, len(clients))
	for _, inf := range influencers {
		byClient[inf.ClientID] = append(byClient[inf.ClientID], inf)
	}

	all := Status(influencers)
	overview := models.OverviewStats{
		TotalInfluencers: all.Total,
		TotalSubmitted:   all.Submitted,
		TotalPending:     all.Pending,
		TotalClients:     len(clients),
		Clients:          make([]models.ClientStatusCounts, 0, len(clients)),
	}
	for _, c := range clients {
		overview.Clients = append(overview.Clients, models.ClientStatusCounts{
			ClientID:     c.ID,
			ClientName:   c.Name,
			StatusCounts: Status(byClient[c.ID]),
		})
	}
	return overview
}

// History groups submissions by UTC creation date, newest date first.
// Submissions are expected newest first and keep that order within a day.
func History(submissions []models.Submission) []models.HistoryDay {
	index := make(map[string]int)
	history := []models.HistoryDay{}
	for _, s := range submissions {
		date := s.CreatedAt.UTC().Format(models.DateLayout)
		i, ok := index[date]
		if !ok {
			i = len(history)
			index[date] = i
			history = append(history, models.HistoryDay{Date: date})
		}
		day := &history[i]
		day.SubmissionCount++
		day.InfluencerCount += s.InfluencerCount
		day.Submissions = append(day.Submissions, s)
	}

	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Date > history[j].Date
	})
	return history
}
