package service

import (
	"context"
	"time"

	"github.com/getmelinks/getmelinks/internal/email"
	"github.com/getmelinks/getmelinks/internal/logger"
	"github.com/getmelinks/getmelinks/internal/model"
)

// NotificationService sends contact-form notification emails to the fixed
// operations mailbox. It implements Notifier.
type NotificationService struct {
	sender   email.Sender
	appName  string
	notifyTo string
	log      *logger.Logger
}

// NewNotificationService creates a new NotificationService. appName labels
// the email header; notifyTo is the operations mailbox that receives all
// submission notifications, regardless of who submitted the form.
func NewNotificationService(sender email.Sender, appName, notifyTo string, log *logger.Logger) *NotificationService {
	return &NotificationService{
		sender:   sender,
		appName:  appName,
		notifyTo: notifyTo,
		log:      log.WithComponent("notification"),
	}
}

// NotifySubmission renders and sends the notification email for a new
// contact. Reply-To is set to the submitter so operators can answer
// directly from their mailbox.
func (s *NotificationService) NotifySubmission(ctx context.Context, c *model.Contact) error {
	submittedAt := time.Now()

	msg := email.Message{
		To:       s.notifyTo,
		Subject:  "New Contact Form Submission - " + c.Service,
		HTMLBody: email.ContactNotificationHTML(c, submittedAt, s.appName),
		TextBody: email.ContactNotificationText(c, submittedAt),
		ReplyTo:  c.Email,
	}

	if err := s.sender.Send(ctx, msg); err != nil {
		return err
	}

	s.log.Info().Str("contact_id", c.ID).Str("to", s.notifyTo).Msg("notification email sent")
	return nil
}
