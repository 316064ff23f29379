package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/usario/creators-services/models"
)

type MockCRMStore struct {
	mock.Mock
}

type MockRevoker struct {
	mock.Mock
}

type MockNotifier struct {
	mock.Mock
}

type MockArchiver struct {
	mock.Mock
}

func (m *MockCRMStore) CreateUser(ctx context.Context, user models.User, passwordHash string) (*models.User, error) {
	args := m.Called(user, passwordHash)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *MockCRMStore) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	args := m.Called(userID)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *MockCRMStore) GetUserCredentials(ctx context.Context, email string) (*models.User, string, error) {
	args := m.Called(email)
	u, _ := args.Get(0).(*models.User)
	return u, args.String(1), args.Error(2)
}

func (m *MockCRMStore) ListUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called()
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockCRMStore) UpdateUser(ctx context.Context, userID uuid.UUID, update models.UserUpdate) (*models.User, error) {
	args := m.Called(userID, update)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *MockCRMStore) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockCRMStore) CreateClient(ctx context.Context, req models.ClientRequest) (*models.Client, error) {
	args := m.Called(req)
	c, _ := args.Get(0).(*models.Client)
	return c, args.Error(1)
}

func (m *MockCRMStore) GetClient(ctx context.Context, clientID uuid.UUID) (*models.Client, error) {
	args := m.Called(clientID)
	c, _ := args.Get(0).(*models.Client)
	return c, args.Error(1)
}

func (m *MockCRMStore) ListClients(ctx context.Context) ([]models.Client, error) {
	args := m.Called()
	return args.Get(0).([]models.Client), args.Error(1)
}

func (m *MockCRMStore) ListUserClients(ctx context.Context, userID uuid.UUID) ([]models.Client, error) {
	args := m.Called(userID)
	return args.Get(0).([]models.Client), args.Error(1)
}

func (m *MockCRMStore) UpdateClient(ctx context.Context, clientID uuid.UUID, req models.ClientRequest) (*models.Client, error) {
	args := m.Called(clientID, req)
	c, _ := args.Get(0).(*models.Client)
	return c, args.Error(1)
}

func (m *MockCRMStore) DeleteClient(ctx context.Context, clientID uuid.UUID) error {
	args := m.Called(clientID)
	return args.Error(0)
}

func (m *MockCRMStore) AssignClient(ctx context.Context, userID, clientID uuid.UUID) (*models.Assignment, error) {
	args := m.Called(userID, clientID)
	a, _ := args.Get(0).(*models.Assignment)
	return a, args.Error(1)
}

func (m *MockCRMStore) UnassignClient(ctx context.Context, userID, clientID uuid.UUID) error {
	args := m.Called(userID, clientID)
	return args.Error(0)
}

func (m *MockCRMStore) IsAssigned(ctx context.Context, userID, clientID uuid.UUID) (bool, error) {
	args := m.Called(userID, clientID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCRMStore) AssignedClientIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(userID)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockCRMStore) ClientTeam(ctx context.Context, clientID uuid.UUID) ([]models.User, error) {
	args := m.Called(clientID)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockCRMStore) CreateInfluencer(ctx context.Context, inf models.Influencer) (*models.Influencer, error) {
	args := m.Called(inf)
	i, _ := args.Get(0).(*models.Influencer)
	return i, args.Error(1)
}

func (m *MockCRMStore) GetInfluencer(ctx context.Context, id int64) (*models.Influencer, error) {
	args := m.Called(id)
	i, _ := args.Get(0).(*models.Influencer)
	return i, args.Error(1)
}

func (m *MockCRMStore) ListInfluencers(ctx context.Context, filter models.InfluencerFilter) ([]models.Influencer, error) {
	args := m.Called(filter)
	return args.Get(0).([]models.Influencer), args.Error(1)
}

func (m *MockCRMStore) ClientEmails(ctx context.Context, clientID uuid.UUID) (map[string]bool, error) {
	args := m.Called(clientID)
	return args.Get(0).(map[string]bool), args.Error(1)
}

func (m *MockCRMStore) UpdateInfluencer(ctx context.Context, id int64, update models.InfluencerUpdate) (*models.Influencer, error) {
	args := m.Called(id, update)
	i, _ := args.Get(0).(*models.Influencer)
	return i, args.Error(1)
}

func (m *MockCRMStore) DeleteInfluencer(ctx context.Context, id int64) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockCRMStore) CreateSubmission(ctx context.Context, submittedBy uuid.UUID, influencerIDs []int64, notes string, ownerID *uuid.UUID) (*models.Submission, error) {
	args := m.Called(submittedBy, influencerIDs, notes, ownerID)
	s, _ := args.Get(0).(*models.Submission)
	return s, args.Error(1)
}

func (m *MockCRMStore) ListSubmissions(ctx context.Context, submittedBy *uuid.UUID) ([]models.Submission, error) {
	args := m.Called(submittedBy)
	return args.Get(0).([]models.Submission), args.Error(1)
}

func (m *MockCRMStore) GetSubmission(ctx context.Context, id int64) (*models.Submission, error) {
	args := m.Called(id)
	s, _ := args.Get(0).(*models.Submission)
	return s, args.Error(1)
}

func (m *MockRevoker) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(tokenID, ttl)
	return args.Error(0)
}

func (m *MockRevoker) Claim(ctx context.Context, tokenID string, ttl time.Duration) (bool, error) {
	args := m.Called(tokenID, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(tokenID)
	return args.Bool(0), args.Error(1)
}

func (m *MockNotifier) NotifySubmission(ctx context.Context, submission models.Submission) error {
	args := m.Called(submission)
	return args.Error(0)
}

func (m *MockArchiver) Store(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	args := m.Called(filename, contentType, data)
	return args.String(0), args.Error(1)
}
