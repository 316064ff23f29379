package services

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/usario/creators-services/db"
	"github.com/usario/creators-services/models"
)

func TestGetInfluencersService_Filters(t *testing.T) {
	svc, store := newTestService()
	va := testUser(models.RoleVA)
	assigned := []uuid.UUID{uuid.New()}
	pending := false

	store.On("AssignedClientIDs", va.ID).Return(assigned, nil)
	store.On("ListInfluencers", mock.MatchedBy(func(f models.InfluencerFilter) bool {
		return assert.ObjectsAreEqual(assigned, f.ClientIDs) &&
			f.AddedBy != nil && *f.AddedBy == va.ID &&
			f.AddedOn != nil && f.AddedOn.Equal(fixedNow) &&
			f.Submitted != nil && *f.Submitted == pending &&
			f.Search == "jane"
	})).Return([]models.Influencer{{ID: 1, Name: "Jane"}}, nil)

	w := httptest.NewRecorder()
	GetInfluencersService(svc, w, newRequest(http.MethodGet,
		"/api/influencers?added_by=me&date=today&submitted=false&q=+jane+", nil, &va, nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.InfluencersResponse
	decodeBody(t, w, &resp)
	assert.Len(t, resp.Influencers, 1)
	store.AssertExpectations(t)
}

func TestGetInfluencersService_AdminSeesAll(t *testing.T) {
	svc, store := newTestService()
	admin := testUser(models.RoleAdmin)
	store.On("ListInfluencers", models.InfluencerFilter{}).Return([]models.Influencer{}, nil)

	w := httptest.NewRecorder()
	GetInfluencersService(svc, w, newRequest(http.MethodGet, "/api/influencers", nil, &admin, nil))

	assert.Equal(t, http.StatusOK, w.Code)
	store.AssertNotCalled(t, "AssignedClientIDs", mock.Anything)
}

func TestGetInfluencersService_BadQuery(t *testing.T) {
	svc, _ := newTestService()
	admin := testUser(models.RoleAdmin)

	for _, target := range []string{"/api/influencers?client_id=nope", "/api/influencers?date=yesterday", "/api/influencers?submitted=maybe"} {
		w := httptest.NewRecorder()
		GetInfluencersService(svc, w, newRequest(http.MethodGet, target, nil, &admin, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}
}

func TestCreateInfluencerService(t *testing.T) {
	va := testUser(models.RoleVA)
	clientID := uuid.New()
	req := models.InfluencerRequest{
		ClientID:           clientID.String(),
		Name:               " Jane ",
		BusinessEmail:      "jane@example.com",
		InstagramFollowers: 1200,
		EngagementRate:     2.5,
	}

	t.Run("created", func(t *testing.T) {
		svc, store := newTestService()
		store.On("IsAssigned", va.ID, clientID).Return(true, nil)
		store.On("CreateInfluencer", mock.MatchedBy(func(inf models.Influencer) bool {
			return inf.Name == "Jane" && inf.ClientID == clientID && inf.AddedByUserID == va.ID &&
				inf.TikTokFollowers == 0 && inf.InstagramFollowers == 1200
		})).Return(&models.Influencer{ID: 42, ClientID: clientID, Name: "Jane"}, nil)

		w := httptest.NewRecorder()
		CreateInfluencerService(svc, w, newRequest(http.MethodPost, "/api/influencers", req, &va, nil))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "/api/influencers/42", w.Header().Get("Location"))
	})

	t.Run("not assigned", func(t *testing.T) {
		svc, store := newTestService()
		store.On("IsAssigned", va.ID, clientID).Return(false, nil)

		w := httptest.NewRecorder()
		CreateInfluencerService(svc, w, newRequest(http.MethodPost, "/api/influencers", req, &va, nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "Access denied for this client", errorMessage(t, w))
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc, store := newTestService()
		store.On("IsAssigned", va.ID, clientID).Return(true, nil)
		store.On("CreateInfluencer", mock.Anything).Return(nil, db.ErrConflict)

		w := httptest.NewRecorder()
		CreateInfluencerService(svc, w, newRequest(http.MethodPost, "/api/influencers", req, &va, nil))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "Influencer with this email already exists for the selected client", errorMessage(t, w))
	})

	t.Run("required fields in order", func(t *testing.T) {
		svc, _ := newTestService()
		cases := []struct {
			req  models.InfluencerRequest
			want string
		}{
			{models.InfluencerRequest{}, "client_id is required"},
			{models.InfluencerRequest{ClientID: clientID.String()}, "name is required"},
			{models.InfluencerRequest{ClientID: clientID.String(), Name: "Jane"}, "business_email is required"},
		}
		for _, c := range cases {
			w := httptest.NewRecorder()
			CreateInfluencerService(svc, w, newRequest(http.MethodPost, "/api/influencers", c.req, &va, nil))
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, c.want, errorMessage(t, w))
		}
	})
}

func TestUpdateInfluencerService(t *testing.T) {
	owner := testUser(models.RoleVA)
	colleague := testUser(models.RoleVA)
	clientID := uuid.New()
	inf := models.Influencer{ID: 7, ClientID: clientID, AddedByUserID: owner.ID, Name: "Jane"}
	vars := map[string]string{"influencer-id": "7"}

	t.Run("owner", func(t *testing.T) {
		svc, store := newTestService()
		name := "Jane Doe"
		updated := inf
		updated.Name = name
		store.On("GetInfluencer", int64(7)).Return(&inf, nil)
		store.On("UpdateInfluencer", int64(7), models.InfluencerUpdate{Name: &name}).Return(&updated, nil)

		w := httptest.NewRecorder()
		UpdateInfluencerService(svc, w, newRequest(http.MethodPut, "/api/influencers/7",
			map[string]string{"name": " Jane Doe "}, &owner, vars))

		require.Equal(t, http.StatusOK, w.Code)
		var resp models.InfluencerResponse
		decodeBody(t, w, &resp)
		assert.Equal(t, "Jane Doe", resp.Influencer.Name)
	})

	t.Run("colleague on the same client", func(t *testing.T) {
		svc, store := newTestService()
		store.On("GetInfluencer", int64(7)).Return(&inf, nil)
		store.On("IsAssigned", colleague.ID, clientID).Return(true, nil)

		w := httptest.NewRecorder()
		UpdateInfluencerService(svc, w, newRequest(http.MethodPut, "/api/influencers/7",
			map[string]string{"name": "X"}, &colleague, vars))

		assert.Equal(t, http.StatusForbidden, w.Code)
		store.AssertNotCalled(t, "UpdateInfluencer", mock.Anything, mock.Anything)
	})

	t.Run("no fields", func(t *testing.T) {
		svc, store := newTestService()
		store.On("GetInfluencer", int64(7)).Return(&inf, nil)

		w := httptest.NewRecorder()
		UpdateInfluencerService(svc, w, newRequest(http.MethodPut, "/api/influencers/7",
			map[string]string{}, &owner, vars))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "No valid fields to update", errorMessage(t, w))
	})

	t.Run("negative count", func(t *testing.T) {
		svc, store := newTestService()
		store.On("GetInfluencer", int64(7)).Return(&inf, nil)

		w := httptest.NewRecorder()
		UpdateInfluencerService(svc, w, newRequest(http.MethodPut, "/api/influencers/7",
			map[string]int{"average_views": -1}, &owner, vars))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetInfluencerService_NotFound(t *testing.T) {
	svc, store := newTestService()
	va := testUser(models.RoleVA)
	store.On("GetInfluencer", int64(9)).Return(nil, nil)

	w := httptest.NewRecorder()
	GetInfluencerService(svc, w, newRequest(http.MethodGet, "/api/influencers/9", nil, &va,
		map[string]string{"influencer-id": "9"}))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Influencer not found", errorMessage(t, w))
}

func TestDeleteInfluencerService(t *testing.T) {
	svc, store := newTestService()
	admin := testUser(models.RoleAdmin)
	inf := models.Influencer{ID: 3, ClientID: uuid.New(), AddedByUserID: uuid.New()}

	store.On("GetInfluencer", int64(3)).Return(&inf, nil)
	store.On("DeleteInfluencer", int64(3)).Return(nil)

	w := httptest.NewRecorder()
	DeleteInfluencerService(svc, w, newRequest(http.MethodDelete, "/api/influencers/3", nil, &admin,
		map[string]string{"influencer-id": "3"}))

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.MessageResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, "Influencer deleted successfully", resp.Message)
}
