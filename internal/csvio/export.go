package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/usario/creators-services/models"
)

const (
	ExportAll       = "all"
	ExportSubmitted = "submitted"
	ExportPending   = "pending"
)

// ExportHeader is the first line of every export.
var ExportHeader = []string{
	"Name", "Business Email", "Instagram Followers", "TikTok Followers",
	"Average Views", "Engagement Rate", "Notes", "Client", "Date Added", "Status",
}

// ValidExportType reports whether t names a known export.
func ValidExportType(t string) bool {
	switch t {
	case ExportAll, ExportSubmitted, ExportPending:
		return true
	}
	return false
}

// Filename returns the download name for an export type.
func Filename(exportType string) string {
	return fmt.Sprintf("%s_influencers.csv", exportType)
}

// WriteInfluencers writes influencers as CSV with the export header.
func WriteInfluencers(w io.Writer, influencers []models.Influencer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, inf := range influencers {
		client := inf.ClientName
		if client == "" {
			client = "Unknown"
		}
		status := "Pending"
		if inf.Submitted {
			status = "Submitted"
		}

		record := []string{
			inf.Name,
			inf.BusinessEmail,
			strconv.FormatInt(inf.InstagramFollowers, 10),
			strconv.FormatInt(inf.TikTokFollowers, 10),
			strconv.FormatInt(inf.AverageViews, 10),
			strconv.FormatFloat(inf.EngagementRate, 'f', -1, 64),
			inf.Notes,
			client,
			inf.DateAdded,
			status,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row for influencer %d: %w", inf.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
