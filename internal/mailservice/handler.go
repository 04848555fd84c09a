package mailservice

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/exp/rand"

	"github.com/sushihentaime/inkwell/internal/common"
)

const (
	welcomeTemplate   = "welcome_email.html"
	defaultMaxRetries = 5
	defaultBaseDelay  = 500 * time.Millisecond
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	Sender   string
}

func NewMailService(mb common.MessageConsumer, cfg Config, logger *slog.Logger) *MailService {
	ctx, cancel := context.WithCancel(context.Background())
	return &MailService{
		mb:         mb,
		m:          NewMailer(cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.Sender, NewTemplate()),
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
		maxRetries: defaultMaxRetries,
		baseDelay:  defaultBaseDelay,
	}
}

// SendWelcomeEmail consumes user.created events and mails every new user until Close is called.
func (s *MailService) SendWelcomeEmail() error {
	msgs, err := s.mb.Consume(common.UserCreatedKey, common.UserExchange, common.UserCreatedQueue)
	if err != nil {
		s.logger.Error("could not consume message", slog.String("error", err.Error()))
		return err
	}

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				s.handleUserCreated(msg)

			case <-s.ctx.Done():
				s.logger.Info("stopping SendWelcomeEmail due to context cancellation")
				return
			}
		}
	}()

	return nil
}

// handleUserCreated acks every delivery once it was handled. A message that cannot be
// decoded or delivered after all retries is dropped.
func (s *MailService) handleUserCreated(msg amqp.Delivery) {
	defer msg.Ack(false)

	var event common.UserCreatedEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		s.logger.Error("could not unmarshal message", slog.String("error", err.Error()))
		return
	}

	if event.Email == "" {
		s.logger.Error("user created event without email")
		return
	}

	data := welcomeData{Fullname: event.Fullname, Username: event.Username}

	if err := s.sendWithRetry(event.Email, data, welcomeTemplate); err != nil {
		s.logger.Error("could not send welcome email", slog.String("email", event.Email), slog.String("error", err.Error()))
		return
	}

	s.logger.Info("welcome email sent", slog.String("email", event.Email))
}

// sendWithRetry retries with exponential backoff and full jitter.
func (s *MailService) sendWithRetry(recipient string, data any, templateFile string) error {
	var err error
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		err = s.m.send(recipient, data, templateFile)
		if err == nil {
			return nil
		}

		if attempt == s.maxRetries-1 {
			break
		}

		delay := time.Duration(rand.Int63n(int64(s.baseDelay)<<uint(attempt) + 1))
		s.logger.Info("delaying email", slog.String("email", recipient), slog.Int("attempt", attempt), slog.Duration("delay", delay))

		select {
		case <-time.After(delay):
		case <-s.ctx.Done():
			return s.ctx.Err()
		}
	}

	return err
}

func (s *MailService) Close() {
	s.cancel()
}
