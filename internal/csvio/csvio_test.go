package csvio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/usario/creators-services/models"
)

func TestParse(t *testing.T) {
	input := "Name, Business Email ,Instagram Followers,TikTok Followers,Average Views,Engagement Rate,Notes\n" +
		"Alice,alice@example.com,\"12,500\",800,3000,4.5%,fitness\n" +
		"\n" +
		"Bob,bob@example.com,abc,,1000.9,2,\n"

	rows, messages, err := Parse(strings.NewReader(input), nil)
	require.NoError(t, err)
	assert.Empty(t, messages)
	require.Len(t, rows, 2)

	assert.Equal(t, 2, rows[0].Number)
	assert.Equal(t, models.InfluencerRequest{
		Name:               "Alice",
		BusinessEmail:      "alice@example.com",
		InstagramFollowers: 12500,
		TikTokFollowers:    800,
		AverageViews:       3000,
		EngagementRate:     4.5,
		Notes:              "fitness",
	}, rows[0].Influencer)

	// Blank lines are not counted.
	assert.Equal(t, 3, rows[1].Number)
	assert.Equal(t, int64(0), rows[1].Influencer.InstagramFollowers)
	assert.Equal(t, int64(0), rows[1].Influencer.TikTokFollowers)
	assert.Equal(t, int64(1000), rows[1].Influencer.AverageViews)
	assert.Equal(t, 2.0, rows[1].Influencer.EngagementRate)
}

func TestParse_RowErrors(t *testing.T) {
	input := "name,businessemail\n" +
		"Alice,alice@example.com,extra\n" +
		",nobody@example.com\n" +
		"Carol,CAROL@example.com\n" +
		"   \t \n" +
		"Dan,dan@example.com\n" +
		"Dan Again,DAN@example.com\n"

	existing := map[string]bool{"carol@example.com": true}
	rows, messages, err := Parse(strings.NewReader(input), existing)
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, "Dan", rows[0].Influencer.Name)
	assert.Equal(t, 5, rows[0].Number)

	assert.Equal(t, []string{
		"Row 2: Mismatched column count. Skipping.",
		"Row 3: Name or Business Email missing. Skipping.",
		"Row 4: Influencer with email 'CAROL@example.com' already exists for this client. Skipping.",
		"Row 6: Influencer with email 'DAN@example.com' already exists for this client. Skipping.",
	}, messages)

	// The caller's set is left alone.
	assert.Len(t, existing, 1)
}

func TestParse_WhitespaceLines(t *testing.T) {
	input := "Name,Business Email\n" +
		"Alice,alice@example.com\n" +
		"   \n" +
		"\t\n" +
		"Bob,bob@example.com\n"

	rows, messages, err := Parse(strings.NewReader(input), nil)
	require.NoError(t, err)
	assert.Empty(t, messages)
	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[0].Number)
	assert.Equal(t, 3, rows[1].Number)
}

func TestParse_Empty(t *testing.T) {
	_, _, err := Parse(strings.NewReader(""), nil)
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestParse_HeaderOnly(t *testing.T) {
	rows, messages, err := Parse(strings.NewReader("Name,Business Email\n"), nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Empty(t, messages)
}

func TestParseCount(t *testing.T) {
	assert.Equal(t, int64(1200000), parseCount("1,200,000"))
	assert.Equal(t, int64(42), parseCount(" 42 "))
	assert.Equal(t, int64(0), parseCount("n/a"))
	assert.Equal(t, 3.25, parseRate("3.25%"))
	assert.Equal(t, 0.0, parseRate("high"))
}

func TestWriteInfluencers(t *testing.T) {
	var buf bytes.Buffer
	err := WriteInfluencers(&buf, []models.Influencer{
		{
			Name:               "Alice, Fitness",
			BusinessEmail:      "alice@example.com",
			InstagramFollowers: 12500,
			TikTokFollowers:    800,
			AverageViews:       3000,
			EngagementRate:     4.5,
			Notes:              `says "hi"`,
			ClientName:         "Acme",
			DateAdded:          "2024-03-09",
			Submitted:          true,
		},
		{
			Name:          "Bob",
			BusinessEmail: "bob@example.com",
			DateAdded:     "2024-03-10",
		},
	})
	require.NoError(t, err)

	assert.Equal(t,
		"Name,Business Email,Instagram Followers,TikTok Followers,Average Views,Engagement Rate,Notes,Client,Date Added,Status\n"+
			"\"Alice, Fitness\",alice@example.com,12500,800,3000,4.5,\"says \"\"hi\"\"\",Acme,2024-03-09,Submitted\n"+
			"Bob,bob@example.com,0,0,0,0,,Unknown,2024-03-10,Pending\n",
		buf.String())
}

func TestExportTypes(t *testing.T) {
	assert.True(t, ValidExportType("all"))
	assert.True(t, ValidExportType("submitted"))
	assert.True(t, ValidExportType("pending"))
	assert.False(t, ValidExportType("rejected"))
	assert.Equal(t, "pending_influencers.csv", Filename(ExportPending))
}
