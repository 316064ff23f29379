package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/usario/creators-services/models"
)

// EmailClient is the subset of the SES v2 client used for notifications.
type EmailClient interface {
	SendEmail(ctx context.Context, input *sesv2.SendEmailInput, opts ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Mailer sends review notifications to the admin team.
type Mailer struct {
	client EmailClient
	from   string
	admins []string
}

func NewMailer(client EmailClient, from string, admins []string) *Mailer {
	return &Mailer{client: client, from: from, admins: admins}
}

// NotifySubmission tells the admins a batch of prospects is ready for review.
func (m *Mailer) NotifySubmission(ctx context.Context, submission models.Submission) error {
	if len(m.admins) == 0 {
		return nil
	}

	subject := fmt.Sprintf("New submission from %s: %d prospects", submitterName(submission), submission.InfluencerCount)
	body := submissionBody(submission)

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.from),
		Destination: &types.Destination{
			ToAddresses: m.admins,
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		},
	}

	if _, err := m.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send submission email: %w", err)
	}
	return nil
}

func submitterName(s models.Submission) string {
	if s.SubmittedByName != "" {
		return s.SubmittedByName
	}
	return "a team member"
}

func submissionBody(s models.Submission) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello Admin,\n\n%d new influencer prospects have been submitted for review by %s.\n",
		s.InfluencerCount, submitterName(s))
	if s.Notes != "" {
		fmt.Fprintf(&b, "\nNotes: %s\n", s.Notes)
	}
	if len(s.Influencers) > 0 {
		b.WriteString("\nProspects:\n")
		for _, inf := range s.Influencers {
			fmt.Fprintf(&b, "- %s <%s>\n", inf.Name, inf.BusinessEmail)
		}
	}
	fmt.Fprintf(&b, "\nSubmission #%d\n", s.ID)
	return b.String()
}
