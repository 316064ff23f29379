package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/usario/creators-services/models"
)

var ErrEmptyFile = errors.New("CSV file is empty")

// Header columns, compared after removing whitespace and lowercasing.
const (
	colName               = "name"
	colBusinessEmail      = "businessemail"
	colInstagramFollowers = "instagramfollowers"
	colTikTokFollowers    = "tiktokfollowers"
	colAverageViews       = "averageviews"
	colEngagementRate     = "engagementrate"
	colNotes              = "notes"
	colInstagramURL       = "instagramurl"
	colTikTokURL          = "tiktokurl"
)

// Row is a parsed data row. Number counts the header as row 1.
type Row struct {
	Number     int
	Influencer models.InfluencerRequest
}

// Parse reads a bulk upload. Rows that cannot be imported are reported in
// the returned messages and skipped. existing holds the lowercased emails
// already stored for the client; it is not modified.
func Parse(r io.Reader, existing map[string]bool) ([]Row, []string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, ErrEmptyFile
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = normalizeHeader(h)
	}

	seen := make(map[string]bool, len(existing))
	for email := range existing {
		seen[email] = true
	}

	var (
		rows     []Row
		messages []string
	)
	number := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err == nil && blankLine(record) {
			continue
		}
		number++

		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			messages = append(messages, fmt.Sprintf("Row %d: Malformed row. Skipping.", number))
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read CSV row %d: %w", number, err)
		}

		if len(record) != len(columns) {
			messages = append(messages, fmt.Sprintf("Row %d: Mismatched column count. Skipping.", number))
			continue
		}

		values := make(map[string]string, len(columns))
		for i, col := range columns {
			values[col] = strings.TrimSpace(record[i])
		}

		inf := models.InfluencerRequest{
			Name:               values[colName],
			BusinessEmail:      values[colBusinessEmail],
			InstagramFollowers: parseCount(values[colInstagramFollowers]),
			TikTokFollowers:    parseCount(values[colTikTokFollowers]),
			AverageViews:       parseCount(values[colAverageViews]),
			EngagementRate:     parseRate(values[colEngagementRate]),
			Notes:              values[colNotes],
			InstagramURL:       values[colInstagramURL],
			TikTokURL:          values[colTikTokURL],
		}

		if inf.Name == "" || inf.BusinessEmail == "" {
			messages = append(messages, fmt.Sprintf("Row %d: Name or Business Email missing. Skipping.", number))
			continue
		}

		key := strings.ToLower(inf.BusinessEmail)
		if seen[key] {
			messages = append(messages, DuplicateMessage(number, inf.BusinessEmail))
			continue
		}
		seen[key] = true

		rows = append(rows, Row{Number: number, Influencer: inf})
	}

	return rows, messages, nil
}

// DuplicateMessage is reported for a row whose email already exists for the client.
func DuplicateMessage(number int, email string) string {
	return fmt.Sprintf("Row %d: Influencer with email '%s' already exists for this client. Skipping.", number, email)
}

// blankLine reports a line holding only whitespace. encoding/csv already
// drops empty lines.
func blankLine(record []string) bool {
	return len(record) == 1 && strings.TrimSpace(record[0]) == ""
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, h)
}

func cleanNumber(s string) string {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	return strings.TrimSuffix(s, "%")
}

// parseCount accepts "12,500", "12500" or "12500.7" (truncated). Anything else is 0.
func parseCount(s string) int64 {
	s = cleanNumber(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int64(f)
}

func parseRate(s string) float64 {
	s = cleanNumber(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
