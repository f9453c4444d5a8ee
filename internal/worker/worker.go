package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"fundly/internal/services"
	"fundly/pkg/queue"
)

// RetryBackoff is the pause after a dequeue or delivery failure.
const RetryBackoff = 2 * time.Second

// NotificationProcessor drains queued activity notifications and delivers
// them over SMTP. Delivery is at-least-once; failed jobs are re-enqueued
// until they exhaust their retries.
type NotificationProcessor struct {
	mail   services.MailServiceInterface
	queue  *queue.Queue
	logger *zap.Logger
}

func NewNotificationProcessor(mail services.MailServiceInterface, q *queue.Queue, logger *zap.Logger) *NotificationProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationProcessor{mail: mail, queue: q, logger: logger}
}

// Process delivers one notification job.
func (p *NotificationProcessor) Process(ctx context.Context, job *queue.Job) error {
	var payload queue.NotificationPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	if err := p.mail.SendActivityMail(payload.RecipientEmail, payload.Subject, payload.Body, "View collective", "/"+payload.CollectiveSlug); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	p.logger.Info("notification delivered",
		zap.String("activity_id", payload.ActivityID.String()),
		zap.String("activity_type", payload.ActivityType),
		zap.String("recipient", payload.RecipientID.String()),
	)
	return nil
}

// Run starts the worker loop: dequeue, deliver, retry on error.
func (p *NotificationProcessor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("notification worker stopping")
			return
		default:
		}

		job, err := p.queue.Dequeue(ctx)
		if err != nil {
			p.logger.Warn("dequeue error", zap.Error(err))
			time.Sleep(RetryBackoff)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.Int("attempt", job.Attempt))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			if reErr := p.queue.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			time.Sleep(RetryBackoff)
			continue
		}
	}
}
