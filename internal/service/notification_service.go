package service

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/bursary-portal/bursary-api/pkg/config"
	"github.com/bursary-portal/bursary-api/pkg/jobs"
	"github.com/bursary-portal/bursary-api/pkg/mailer"
)

// NotificationService fans notification emails out through the background
// queue. Delivery is best-effort: a send that exhausts its retries is
// logged and dropped. The one caller that must observe the outcome
// (status updates) uses Send instead of Enqueue.
type NotificationService struct {
	mailer  mailer.Mailer
	queue   *jobs.Queue
	metrics *MetricsService
	logger  *zap.Logger
	seq     atomic.Uint64
}

// NewNotificationService wires the mailer behind a worker queue.
func NewNotificationService(m mailer.Mailer, cfg config.MailerQueueConfig, metrics *MetricsService, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &NotificationService{mailer: m, metrics: metrics, logger: logger}
	s.queue = jobs.NewQueue("notifications", s.handle, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: cfg.BufferSize,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	return s
}

// Start launches the dispatch workers.
func (s *NotificationService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the workers.
func (s *NotificationService) Stop() {
	s.queue.Stop()
}

// Enqueue schedules a fire-and-forget send. Failure to enqueue is logged,
// never surfaced: the primary request has already succeeded.
func (s *NotificationService) Enqueue(msg mailer.Message) {
	job := jobs.Job{
		ID:      fmt.Sprintf("email-%d", s.seq.Add(1)),
		Type:    "send_email",
		Payload: msg,
	}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Warn("failed to enqueue notification",
			zap.String("to", msg.To), zap.Error(err))
	}
}

// Send delivers synchronously and reports the outcome.
func (s *NotificationService) Send(msg mailer.Message) error {
	if err := s.mailer.Send(msg); err != nil {
		if s.metrics != nil {
			s.metrics.IncEmailFailed()
		}
		return err
	}
	if s.metrics != nil {
		s.metrics.IncEmailSent()
	}
	return nil
}

func (s *NotificationService) handle(_ context.Context, job jobs.Job) error {
	msg, ok := job.Payload.(mailer.Message)
	if !ok {
		s.logger.Error("unexpected notification payload", zap.String("job_id", job.ID))
		return nil
	}
	return s.Send(msg)
}
