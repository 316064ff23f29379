package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/usario/creators-services/models"
)

type MockAWSEmailClient struct {
	mock.Mock
}

func (m *MockAWSEmailClient) SendEmail(ctx context.Context, input *sesv2.SendEmailInput, opts ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	args := m.Called(ctx, input)
	out, _ := args.Get(0).(*sesv2.SendEmailOutput)
	return out, args.Error(1)
}

func TestNotifySubmission(t *testing.T) {
	client := new(MockAWSEmailClient)
	client.On("SendEmail", mock.Anything, mock.Anything).Return(&sesv2.SendEmailOutput{}, nil)

	mailer := NewMailer(client, "crm@example.com", []string{"admin@example.com"})
	err := mailer.NotifySubmission(context.Background(), models.Submission{
		ID:              7,
		SubmittedByName: "Jane VA",
		InfluencerCount: 2,
		Notes:           "fitness niche",
		Influencers: []models.Influencer{
			{Name: "Alice", BusinessEmail: "alice@example.com"},
			{Name: "Bob", BusinessEmail: "bob@example.com"},
		},
	})
	assert.NoError(t, err)

	client.AssertCalled(t, "SendEmail", mock.Anything, mock.MatchedBy(func(input *sesv2.SendEmailInput) bool {
		body := *input.Content.Simple.Body.Text.Data
		return *input.FromEmailAddress == "crm@example.com" &&
			input.Destination.ToAddresses[0] == "admin@example.com" &&
			strings.Contains(*input.Content.Simple.Subject.Data, "Jane VA") &&
			strings.Contains(body, "2 new influencer prospects") &&
			strings.Contains(body, "Notes: fitness niche") &&
			strings.Contains(body, "- Bob <bob@example.com>") &&
			strings.Contains(body, "Submission #7")
	}))
}

func TestNotifySubmission_NoAdmins(t *testing.T) {
	client := new(MockAWSEmailClient)
	mailer := NewMailer(client, "crm@example.com", nil)

	assert.NoError(t, mailer.NotifySubmission(context.Background(), models.Submission{ID: 1}))
	client.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything)
}

func TestNotifySubmission_Error(t *testing.T) {
	client := new(MockAWSEmailClient)
	client.On("SendEmail", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

	mailer := NewMailer(client, "crm@example.com", []string{"admin@example.com"})
	err := mailer.NotifySubmission(context.Background(), models.Submission{ID: 1, InfluencerCount: 1})
	assert.ErrorContains(t, err, "throttled")
}
