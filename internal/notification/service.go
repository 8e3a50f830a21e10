package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"gorm.io/datatypes"

	"github.com/senecapartners/seneca-cms-backend/internal/application"
)

const deliveryTimeout = 30 * time.Second

// Service fans a lead notification out to every configured channel. Delivery
// runs in the background; failures are logged and recorded, never returned.
type Service struct {
	repo     Repository
	channels []Channel
	timeout  time.Duration
	wg       sync.WaitGroup
}

func NewService(repo Repository, channels ...Channel) *Service {
	return &Service{repo: repo, channels: channels, timeout: deliveryTimeout}
}

func (s *Service) Channels() []Channel {
	return s.channels
}

// NotifyNewApplication implements application.Notifier.
func (s *Service) NotifyNewApplication(app application.Application) {
	if len(s.channels) == 0 {
		return
	}
	msg := NewApplicationMessage(app)

	for _, ch := range s.channels {
		s.wg.Add(1)
		go func(ch Channel) {
			defer s.wg.Done()
			s.deliver(ch, app, msg)
		}(ch)
	}
}

// Wait blocks until in-flight deliveries finish. Called on shutdown.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) deliver(ch Channel, app application.Application, msg Message) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ %s notification panicked: %v", ch.Name(), r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	entry := &NotificationLog{
		SiteID:        app.SiteID,
		ApplicationID: &app.ID,
		Channel:       ch.Name(),
		Subject:       msg.Subject,
		Body:          msg.Body,
		Status:        StatusSent,
	}
	if recipients, err := json.Marshal(ch.Recipients()); err == nil {
		entry.Recipients = datatypes.JSON(recipients)
	}

	if err := ch.Send(ctx, msg); err != nil {
		log.Printf("⚠️ %s notification for application %d failed: %v", ch.Name(), app.ID, err)
		errMsg := err.Error()
		entry.Status = StatusFailed
		entry.Error = &errMsg
	}

	if s.repo == nil {
		return
	}
	// the delivery deadline may already have passed
	if err := s.repo.CreateLog(context.WithoutCancel(ctx), entry); err != nil {
		log.Printf("⚠️ failed to record %s notification: %v", ch.Name(), err)
	}
}

func (s *Service) ListLogs(ctx context.Context, siteID uint, applicationID *uint, limit, offset int) ([]NotificationLog, int64, error) {
	return s.repo.ListLogs(ctx, siteID, applicationID, limit, offset)
}

// NewApplicationMessage builds the office notification for a new lead.
func NewApplicationMessage(app application.Application) Message {
	body := fmt.Sprintf(
		"Поступила новая заявка:\n\nID:    %d\nИмя:   %s\nТелефон: %s\nДата:  %s\n",
		app.ID, app.Name, app.Phone, app.CreatedAt.Format("2006-01-02 15:04"),
	)
	return Message{
		Subject: "Новая заявка от " + app.Name,
		Body:    body,
		Lead: LeadEvent{
			Event:         EventLeadCreated,
			ApplicationID: app.ID,
			SiteID:        app.SiteID,
			Name:          app.Name,
			Phone:         app.Phone,
			CreatedAt:     app.CreatedAt,
		},
	}
}
