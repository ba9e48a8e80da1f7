package services

import (
	"context"
	"testing"

	"marathonhub/internal/adapters/email"
	"marathonhub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to, subject, html, text string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, html, text string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, html: html, text: text})
	return nil
}

func TestEmailService(t *testing.T) {
	ctx := context.Background()
	mailer := &fakeMailer{}
	svc := NewEmailService(mailer, email.NewTemplateRenderer(), testLogger())

	require.NoError(t, svc.SendWelcomeMessage(ctx, &domain.WelcomeMessageEmailData{Email: "ana@example.com", DisplayName: "Ana"}))
	require.NoError(t, svc.SendRegistrationConfirmation(ctx, &domain.RegistrationConfirmationEmailData{
		Email:         "ana@example.com",
		FirstName:     "Ana",
		MarathonTitle: "Douro Run",
	}))
	require.Len(t, mailer.sent, 2)
	assert.Equal(t, "ana@example.com", mailer.sent[0].to)
	assert.Equal(t, "You're registered for Douro Run", mailer.sent[1].subject)

	assert.Error(t, svc.SendWelcomeMessage(ctx, nil))
	assert.Error(t, svc.SendRegistrationConfirmation(ctx, nil))

	mailer.err = errBoom
	err := svc.SendWelcomeMessage(ctx, &domain.WelcomeMessageEmailData{Email: "ana@example.com"})
	assert.ErrorIs(t, err, errBoom)
}
