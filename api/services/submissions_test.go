package services

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/usario/creators-services/db"
	"github.com/usario/creators-services/models"
)

func TestCreateSubmissionService(t *testing.T) {
	svc, store := newTestService()
	notifier := new(MockNotifier)
	svc.Notifier = notifier
	va := testUser(models.RoleVA)

	created := models.Submission{ID: 5, SubmittedByUserID: va.ID, InfluencerCount: 2, Notes: "batch", InfluencerIDs: []int64{1, 2}}
	detail := created
	detail.Influencers = []models.Influencer{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}

	store.On("CreateSubmission", va.ID, []int64{1, 2}, "batch", &va.ID).Return(&created, nil)
	store.On("GetSubmission", int64(5)).Return(&detail, nil)
	notifier.On("NotifySubmission", mock.MatchedBy(func(s models.Submission) bool {
		return s.ID == 5 && len(s.Influencers) == 2 && s.SubmittedByName == va.FullName
	})).Return(nil)

	w := httptest.NewRecorder()
	CreateSubmissionService(svc, w, newRequest(http.MethodPost, "/api/submissions",
		models.SubmissionRequest{InfluencerIDs: []int64{1, 2}, Notes: "batch"}, &va, nil))

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/api/submissions/5", w.Header().Get("Location"))
	var resp models.SubmissionResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, 2, resp.Submission.InfluencerCount)
	assert.Equal(t, va.FullName, resp.Submission.SubmittedByName)
	notifier.AssertExpectations(t)
}

func TestCreateSubmissionService_AdminHasNoOwnerCheck(t *testing.T) {
	svc, store := newTestService()
	admin := testUser(models.RoleAdmin)
	store.On("CreateSubmission", admin.ID, []int64{9}, "", (*uuid.UUID)(nil)).
		Return(&models.Submission{ID: 1, InfluencerCount: 1}, nil)

	w := httptest.NewRecorder()
	CreateSubmissionService(svc, w, newRequest(http.MethodPost, "/api/submissions",
		models.SubmissionRequest{InfluencerIDs: []int64{9}}, &admin, nil))

	assert.Equal(t, http.StatusCreated, w.Code)
	store.AssertExpectations(t)
}

func TestCreateSubmissionService_NotificationFailureIsIgnored(t *testing.T) {
	svc, store := newTestService()
	notifier := new(MockNotifier)
	svc.Notifier = notifier
	va := testUser(models.RoleVA)

	store.On("CreateSubmission", va.ID, []int64{3}, "", &va.ID).Return(&models.Submission{ID: 2, InfluencerCount: 1}, nil)
	store.On("GetSubmission", int64(2)).Return(nil, errors.New("gone"))
	notifier.On("NotifySubmission", mock.Anything).Return(errors.New("ses throttled"))

	w := httptest.NewRecorder()
	CreateSubmissionService(svc, w, newRequest(http.MethodPost, "/api/submissions",
		models.SubmissionRequest{InfluencerIDs: []int64{3}}, &va, nil))

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateSubmissionService_Errors(t *testing.T) {
	va := testUser(models.RoleVA)

	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"not found", db.ErrNotFound, http.StatusNotFound, "One or more influencers were not found"},
		{"not owner", db.ErrNotOwner, http.StatusForbidden, "You can only submit influencers you added"},
		{"already submitted", db.ErrAlreadySubmitted, http.StatusConflict, "One or more influencers have already been submitted"},
		{"database", errors.New("boom"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestService()
			store.On("CreateSubmission", va.ID, []int64{1}, "", &va.ID).Return(nil, tt.err)

			w := httptest.NewRecorder()
			CreateSubmissionService(svc, w, newRequest(http.MethodPost, "/api/submissions",
				models.SubmissionRequest{InfluencerIDs: []int64{1}}, &va, nil))

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.msg, errorMessage(t, w))
		})
	}

	t.Run("no ids", func(t *testing.T) {
		svc, _ := newTestService()
		w := httptest.NewRecorder()
		CreateSubmissionService(svc, w, newRequest(http.MethodPost, "/api/submissions",
			models.SubmissionRequest{}, &va, nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "At least one influencer ID is required", errorMessage(t, w))
	})
}

func TestSubmitTodayService(t *testing.T) {
	va := testUser(models.RoleVA)
	pending := false
	todayFilter := models.InfluencerFilter{AddedBy: &va.ID, AddedOn: &fixedNow, Submitted: &pending}

	t.Run("submits today's prospects", func(t *testing.T) {
		svc, store := newTestService()
		store.On("ListInfluencers", todayFilter).Return([]models.Influencer{{ID: 4}, {ID: 6}}, nil)
		store.On("CreateSubmission", va.ID, []int64{4, 6}, "end of day", &va.ID).
			Return(&models.Submission{ID: 11, InfluencerCount: 2}, nil)

		w := httptest.NewRecorder()
		SubmitTodayService(svc, w, newRequest(http.MethodPost, "/api/submissions/today",
			models.SubmissionRequest{Notes: "end of day"}, &va, nil))

		assert.Equal(t, http.StatusCreated, w.Code)
		store.AssertExpectations(t)
	})

	t.Run("nothing pending", func(t *testing.T) {
		svc, store := newTestService()
		store.On("ListInfluencers", todayFilter).Return([]models.Influencer{}, nil)

		w := httptest.NewRecorder()
		SubmitTodayService(svc, w, newRequest(http.MethodPost, "/api/submissions/today", nil, &va, nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "No new prospects to submit today", errorMessage(t, w))
	})
}

func TestGetSubmissionsService(t *testing.T) {
	va := testUser(models.RoleVA)
	admin := testUser(models.RoleAdmin)

	svc, store := newTestService()
	store.On("ListSubmissions", &va.ID).Return([]models.Submission{{ID: 1}}, nil)
	store.On("ListSubmissions", (*uuid.UUID)(nil)).Return([]models.Submission{{ID: 1}, {ID: 2}}, nil)

	w := httptest.NewRecorder()
	GetSubmissionsService(svc, w, newRequest(http.MethodGet, "/api/submissions", nil, &va, nil))
	var resp models.SubmissionsResponse
	decodeBody(t, w, &resp)
	assert.Len(t, resp.Submissions, 1)

	w = httptest.NewRecorder()
	GetSubmissionsService(svc, w, newRequest(http.MethodGet, "/api/submissions", nil, &admin, nil))
	decodeBody(t, w, &resp)
	assert.Len(t, resp.Submissions, 2)
}

func TestGetSubmissionHistoryService(t *testing.T) {
	svc, store := newTestService()
	va := testUser(models.RoleVA)
	day1 := time.Date(2024, 3, 8, 23, 30, 0, 0, time.UTC)
	day2 := time.Date(2024, 3, 9, 9, 0, 0, 0, time.UTC)

	store.On("ListSubmissions", &va.ID).Return([]models.Submission{
		{ID: 3, InfluencerCount: 4, CreatedAt: day2},
		{ID: 2, InfluencerCount: 1, CreatedAt: day1},
		{ID: 1, InfluencerCount: 2, CreatedAt: day1.Add(-time.Hour)},
	}, nil)

	w := httptest.NewRecorder()
	GetSubmissionHistoryService(svc, w, newRequest(http.MethodGet, "/api/submissions/history", nil, &va, nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.HistoryResponse
	decodeBody(t, w, &resp)
	require.Len(t, resp.History, 2)
	assert.Equal(t, "2024-03-09", resp.History[0].Date)
	assert.Equal(t, 1, resp.History[0].SubmissionCount)
	assert.Equal(t, "2024-03-08", resp.History[1].Date)
	assert.Equal(t, 2, resp.History[1].SubmissionCount)
	assert.Equal(t, 3, resp.History[1].InfluencerCount)
}

func TestGetSubmissionService(t *testing.T) {
	va := testUser(models.RoleVA)
	other := testUser(models.RoleVA)
	sub := models.Submission{ID: 8, SubmittedByUserID: va.ID, Influencers: []models.Influencer{{ID: 1}}}
	vars := map[string]string{"submission-id": "8"}

	svc, store := newTestService()
	store.On("GetSubmission", int64(8)).Return(&sub, nil)
	store.On("GetSubmission", int64(99)).Return(nil, nil)

	w := httptest.NewRecorder()
	GetSubmissionService(svc, w, newRequest(http.MethodGet, "/api/submissions/8", nil, &va, vars))
	require.Equal(t, http.StatusOK, w.Code)
	var resp models.SubmissionResponse
	decodeBody(t, w, &resp)
	assert.Len(t, resp.Submission.Influencers, 1)

	w = httptest.NewRecorder()
	GetSubmissionService(svc, w, newRequest(http.MethodGet, "/api/submissions/8", nil, &other, vars))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	GetSubmissionService(svc, w, newRequest(http.MethodGet, "/api/submissions/99", nil, &other,
		map[string]string{"submission-id": "99"}))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
