package services

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/usario/creators-services/db"
	"github.com/usario/creators-services/models"
)

const importCSV = "Name, Business Email ,Instagram Followers,TikTok Followers,Average Views,Engagement Rate,Notes\n" +
	"Jane,jane@example.com,\"12,500\",300,900,4.2%,great\n" +
	"Old,old@example.com,1,1,1,1,\n" +
	",nobody@example.com,1,1,1,1,\n" +
	"Race,race@example.com,1,1,1,1,\n" +
	"Short,short@example.com\n"

func TestImportInfluencersService_RawBody(t *testing.T) {
	svc, store := newTestService()
	va := testUser(models.RoleVA)
	clientID := uuid.New()

	store.On("IsAssigned", va.ID, clientID).Return(true, nil)
	store.On("ClientEmails", clientID).Return(map[string]bool{"old@example.com": true}, nil)
	store.On("CreateInfluencer", mock.MatchedBy(func(inf models.Influencer) bool {
		return inf.BusinessEmail == "jane@example.com" && inf.InstagramFollowers == 12500 &&
			inf.EngagementRate == 4.2 && inf.AddedByUserID == va.ID && inf.ClientID == clientID
	})).Return(&models.Influencer{ID: 1, Name: "Jane"}, nil)
	store.On("CreateInfluencer", mock.MatchedBy(func(inf models.Influencer) bool {
		return inf.BusinessEmail == "race@example.com"
	})).Return(nil, db.ErrConflict)

	r := newRequest(http.MethodPost, "/api/influencers/import?client_id="+clientID.String(), importCSV, &va, nil)
	r.Header.Set("Content-Type", "text/csv")
	w := httptest.NewRecorder()
	ImportInfluencersService(svc, w, r)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp models.ImportResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, "1 influencers added from CSV!", resp.Message)
	assert.Len(t, resp.Added, 1)
	assert.Equal(t, []string{
		"Row 3: Influencer with email 'old@example.com' already exists for this client. Skipping.",
		"Row 4: Name or Business Email missing. Skipping.",
		"Row 6: Mismatched column count. Skipping.",
		"Row 5: Influencer with email 'race@example.com' already exists for this client. Skipping.",
	}, resp.Errors)
}

func TestImportInfluencersService_Multipart(t *testing.T) {
	svc, store := newTestService()
	admin := testUser(models.RoleAdmin)
	clientID := uuid.New()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("client_id", clientID.String()))
	part, err := mw.CreateFormFile("file", "prospects.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("Name,Business Email\nOld,OLD@example.com\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	store.On("ClientEmails", clientID).Return(map[string]bool{"old@example.com": true}, nil)

	r := newRequest(http.MethodPost, "/api/influencers/import", body.String(), &admin, nil)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	ImportInfluencersService(svc, w, r)

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.ImportResponse
	decodeBody(t, w, &resp)
	assert.Empty(t, resp.Added)
	assert.Len(t, resp.Errors, 1)
	assert.True(t, strings.HasPrefix(resp.Message, "No new influencers were added"))
	store.AssertNotCalled(t, "CreateInfluencer", mock.Anything)
}

func TestImportInfluencersService_Rejects(t *testing.T) {
	va := testUser(models.RoleVA)
	clientID := uuid.New()

	t.Run("missing client", func(t *testing.T) {
		svc, _ := newTestService()
		w := httptest.NewRecorder()
		ImportInfluencersService(svc, w, newRequest(http.MethodPost, "/api/influencers/import", importCSV, &va, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "client_id is required", errorMessage(t, w))
	})

	t.Run("unassigned client", func(t *testing.T) {
		svc, store := newTestService()
		store.On("IsAssigned", va.ID, clientID).Return(false, nil)

		w := httptest.NewRecorder()
		ImportInfluencersService(svc, w, newRequest(http.MethodPost,
			"/api/influencers/import?client_id="+clientID.String(), importCSV, &va, nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("empty file", func(t *testing.T) {
		svc, store := newTestService()
		store.On("IsAssigned", va.ID, clientID).Return(true, nil)
		store.On("ClientEmails", clientID).Return(map[string]bool{}, nil)

		w := httptest.NewRecorder()
		ImportInfluencersService(svc, w, newRequest(http.MethodPost,
			"/api/influencers/import?client_id="+clientID.String(), "", &va, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "CSV file is empty", errorMessage(t, w))
	})
}

func exportRows() []models.Influencer {
	return []models.Influencer{
		{Name: "Jane, Jr.", BusinessEmail: "jane@example.com", InstagramFollowers: 10, ClientName: "Acme", DateAdded: "2024-03-09", Submitted: true},
		{Name: "Bob", BusinessEmail: "bob@example.com", Notes: "said \"maybe\"", DateAdded: "2024-03-08"},
	}
}

func TestExportInfluencersService(t *testing.T) {
	svc, store := newTestService()
	admin := testUser(models.RoleAdmin)
	submitted := true
	store.On("ListInfluencers", models.InfluencerFilter{Submitted: &submitted}).Return(exportRows()[:1], nil)

	w := httptest.NewRecorder()
	ExportInfluencersService(svc, w, newRequest(http.MethodGet, "/api/influencers/export?type=submitted", nil, &admin, nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="submitted_influencers.csv"`, w.Header().Get("Content-Disposition"))
	assert.Empty(t, w.Header().Get("X-Export-Location"))

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Name,Business Email,Instagram Followers,TikTok Followers,Average Views,Engagement Rate,Notes,Client,Date Added,Status", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], `"Jane, Jr.",jane@example.com,10,`))
	assert.True(t, strings.HasSuffix(lines[1], ",Acme,2024-03-09,Submitted"))
}

func TestExportInfluencersService_Archive(t *testing.T) {
	svc, store := newTestService()
	archiver := new(MockArchiver)
	svc.Archive = archiver
	admin := testUser(models.RoleAdmin)
	clientID := uuid.New()

	store.On("ListInfluencers", models.InfluencerFilter{ClientID: &clientID}).Return(exportRows(), nil)
	archiver.On("Store", "all_influencers.csv", "text/csv", mock.MatchedBy(func(data []byte) bool {
		return bytes.Contains(data, []byte(`"said ""maybe"""`)) && bytes.Contains(data, []byte("Unknown"))
	})).Return("exports/2024/03/09/120000-all_influencers.csv", nil)

	w := httptest.NewRecorder()
	ExportInfluencersService(svc, w, newRequest(http.MethodGet,
		"/api/influencers/export?archive=true&client_id="+clientID.String(), nil, &admin, nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "exports/2024/03/09/120000-all_influencers.csv", w.Header().Get("X-Export-Location"))
	archiver.AssertExpectations(t)
}

func TestExportInfluencersService_Errors(t *testing.T) {
	admin := testUser(models.RoleAdmin)

	t.Run("bad type", func(t *testing.T) {
		svc, _ := newTestService()
		w := httptest.NewRecorder()
		ExportInfluencersService(svc, w, newRequest(http.MethodGet, "/api/influencers/export?type=some", nil, &admin, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("no data", func(t *testing.T) {
		svc, store := newTestService()
		pending := false
		store.On("ListInfluencers", models.InfluencerFilter{Submitted: &pending}).Return([]models.Influencer{}, nil)

		w := httptest.NewRecorder()
		ExportInfluencersService(svc, w, newRequest(http.MethodGet, "/api/influencers/export?type=pending", nil, &admin, nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "No data to export", errorMessage(t, w))
	})

	t.Run("archive not configured", func(t *testing.T) {
		svc, _ := newTestService()
		w := httptest.NewRecorder()
		ExportInfluencersService(svc, w, newRequest(http.MethodGet, "/api/influencers/export?archive=1", nil, &admin, nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("archive failure", func(t *testing.T) {
		svc, store := newTestService()
		archiver := new(MockArchiver)
		svc.Archive = archiver
		store.On("ListInfluencers", models.InfluencerFilter{}).Return(exportRows(), nil)
		archiver.On("Store", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("s3 down"))

		w := httptest.NewRecorder()
		ExportInfluencersService(svc, w, newRequest(http.MethodGet, "/api/influencers/export?archive=true", nil, &admin, nil))
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}
