package services

import (
	"context"

	"go.uber.org/zap"

	"fundly/internal/models/db_models"
	"fundly/pkg/queue"
)

// Notifier is the external delivery collaborator. The emitter hands each
// recipient's payload over exactly once per event; retry and backoff belong
// to the implementation behind this interface.
type NotifierInterface interface {
	Notify(ctx context.Context, recipient db_models.User, activity *db_models.Activity, collectiveSlug, subject, body string) error
}

// QueueNotifier pushes deliveries onto the redis-backed job queue; the
// worker binary drains it and owns retries.
type QueueNotifier struct {
	queue  *queue.Queue
	logger *zap.Logger
}

func NewQueueNotifier(q *queue.Queue, logger *zap.Logger) NotifierInterface {
	return &QueueNotifier{queue: q, logger: logger}
}

func (n *QueueNotifier) Notify(ctx context.Context, recipient db_models.User, activity *db_models.Activity, collectiveSlug, subject, body string) error {
	return n.queue.EnqueueNotification(ctx, queue.NotificationPayload{
		ActivityID:     activity.ID,
		ActivityType:   activity.Type,
		RecipientID:    recipient.ID,
		RecipientEmail: recipient.Email,
		CollectiveSlug: collectiveSlug,
		Subject:        subject,
		Body:           body,
	})
}

// MailNotifier sends synchronously through SMTP. Used when no redis queue is
// configured.
type MailNotifier struct {
	mail   MailServiceInterface
	logger *zap.Logger
}

func NewMailNotifier(mail MailServiceInterface, logger *zap.Logger) NotifierInterface {
	return &MailNotifier{mail: mail, logger: logger}
}

func (n *MailNotifier) Notify(ctx context.Context, recipient db_models.User, activity *db_models.Activity, collectiveSlug, subject, body string) error {
	return n.mail.SendActivityMail(recipient.Email, subject, body, "View collective", "/"+collectiveSlug)
}
