package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/usario/creators-services/internal/appconfig"
	"github.com/usario/creators-services/internal/authn"
	"github.com/usario/creators-services/internal/sessions"
	"github.com/usario/creators-services/models"
)

// CRMStore is the persistence layer used by the services.
type CRMStore interface {
	CreateUser(ctx context.Context, user models.User, passwordHash string) (*models.User, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
	GetUserCredentials(ctx context.Context, email string) (*models.User, string, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, update models.UserUpdate) (*models.User, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) error

	CreateClient(ctx context.Context, req models.ClientRequest) (*models.Client, error)
	GetClient(ctx context.Context, clientID uuid.UUID) (*models.Client, error)
	ListClients(ctx context.Context) ([]models.Client, error)
	ListUserClients(ctx context.Context, userID uuid.UUID) ([]models.Client, error)
	UpdateClient(ctx context.Context, clientID uuid.UUID, req models.ClientRequest) (*models.Client, error)
	DeleteClient(ctx context.Context, clientID uuid.UUID) error

	AssignClient(ctx context.Context, userID, clientID uuid.UUID) (*models.Assignment, error)
	UnassignClient(ctx context.Context, userID, clientID uuid.UUID) error
	IsAssigned(ctx context.Context, userID, clientID uuid.UUID) (bool, error)
	AssignedClientIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	ClientTeam(ctx context.Context, clientID uuid.UUID) ([]models.User, error)

	CreateInfluencer(ctx context.Context, inf models.Influencer) (*models.Influencer, error)
	GetInfluencer(ctx context.Context, id int64) (*models.Influencer, error)
	ListInfluencers(ctx context.Context, filter models.InfluencerFilter) ([]models.Influencer, error)
	ClientEmails(ctx context.Context, clientID uuid.UUID) (map[string]bool, error)
	UpdateInfluencer(ctx context.Context, id int64, update models.InfluencerUpdate) (*models.Influencer, error)
	DeleteInfluencer(ctx context.Context, id int64) error

	CreateSubmission(ctx context.Context, submittedBy uuid.UUID, influencerIDs []int64, notes string, ownerID *uuid.UUID) (*models.Submission, error)
	ListSubmissions(ctx context.Context, submittedBy *uuid.UUID) ([]models.Submission, error)
	GetSubmission(ctx context.Context, id int64) (*models.Submission, error)
}

// Tokens issues and verifies session tokens.
type Tokens interface {
	Issue(user models.User) (*models.Session, error)
	Parse(token string) (authn.Claims, error)
}

// SubmissionNotifier tells admins about new submissions.
type SubmissionNotifier interface {
	NotifySubmission(ctx context.Context, submission models.Submission) error
}

// ExportArchiver keeps a copy of exported files.
type ExportArchiver interface {
	Store(ctx context.Context, filename, contentType string, data []byte) (string, error)
}

// Service contains all shared dependencies for handlers. Sessions, Notifier
// and Archive are optional.
type Service struct {
	Config   *appconfig.Config
	DB       CRMStore
	Tokens   Tokens
	Sessions sessions.Revoker
	Notifier SubmissionNotifier
	Archive  ExportArchiver

	now func() time.Time
}

func (svc *Service) clock() time.Time {
	if svc.now != nil {
		return svc.now().UTC()
	}
	return time.Now().UTC()
}

// today is the current UTC date in models.DateLayout.
func (svc *Service) today() string {
	return svc.clock().Format(models.DateLayout)
}
