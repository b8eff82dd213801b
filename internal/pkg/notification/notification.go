package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Notifier defines the interface for best-effort push notifications. Delivery
// is fire-and-forget: failures are logged and never surfaced to the caller.
type Notifier interface {
	NotifySessionAccepted(deviceToken, teacherName string, scheduledTime time.Time)
	NotifySessionRejected(deviceToken, teacherName, reason string)
	NotifySessionEnded(deviceToken, participantName string)
}

// Config holds configuration for the push gateway
type Config struct {
	GatewayURL string
	APIKey     string
	Timeout    time.Duration
	QueueSize  int
}

// message is the payload posted to the push gateway
type message struct {
	ID          string            `json:"id"`
	DeviceToken string            `json:"deviceToken"`
	Event       string            `json:"event"`
	Data        map[string]string `json:"data,omitempty"`
}

// PushService implements Notifier against an HTTP push gateway. Messages are
// handed to a background dispatcher so a slow gateway can never block a caller.
type PushService struct {
	config Config
	client *http.Client
	queue  chan message
	done   chan struct{}
	logger zerolog.Logger
}

// NewPushService creates a PushService and starts its dispatcher
func NewPushService(config Config, logger zerolog.Logger) *PushService {
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Second
	}
	if config.QueueSize <= 0 {
		config.QueueSize = 256
	}

	s := &PushService{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		queue:  make(chan message, config.QueueSize),
		done:   make(chan struct{}),
		logger: logger,
	}

	go s.dispatch()

	return s
}

// NotifySessionAccepted notifies a student's device that their request was accepted
func (s *PushService) NotifySessionAccepted(deviceToken, teacherName string, scheduledTime time.Time) {
	s.enqueue(message{
		ID:          uuid.New().String(),
		DeviceToken: deviceToken,
		Event:       "session.accepted",
		Data: map[string]string{
			"teacherName":   teacherName,
			"scheduledTime": scheduledTime.Format(time.RFC3339),
		},
	})
}

// NotifySessionRejected notifies a student's device that their request was rejected
func (s *PushService) NotifySessionRejected(deviceToken, teacherName, reason string) {
	s.enqueue(message{
		ID:          uuid.New().String(),
		DeviceToken: deviceToken,
		Event:       "session.rejected",
		Data: map[string]string{
			"teacherName": teacherName,
			"reason":      reason,
		},
	})
}

// NotifySessionEnded notifies a participant's device that their session ended
func (s *PushService) NotifySessionEnded(deviceToken, participantName string) {
	s.enqueue(message{
		ID:          uuid.New().String(),
		DeviceToken: deviceToken,
		Event:       "session.ended",
		Data: map[string]string{
			"participantName": participantName,
		},
	})
}

// Close stops the dispatcher after draining queued messages
func (s *PushService) Close() {
	close(s.queue)
	<-s.done
}

// enqueue hands a message to the dispatcher without blocking the caller
func (s *PushService) enqueue(msg message) {
	if msg.DeviceToken == "" {
		s.logger.Debug().Str("event", msg.Event).Msg("No device token registered, skipping notification")
		return
	}

	select {
	case s.queue <- msg:
	default:
		s.logger.Warn().Str("event", msg.Event).Msg("Notification queue full, dropping message")
	}
}

func (s *PushService) dispatch() {
	defer close(s.done)

	for msg := range s.queue {
		if err := s.send(msg); err != nil {
			s.logger.Error().Err(err).
				Str("event", msg.Event).
				Str("messageID", msg.ID).
				Msg("Failed to deliver push notification")
		}
	}
}

func (s *PushService) send(msg message) error {
	// If no gateway is configured, log the notification instead (for development)
	if s.config.GatewayURL == "" {
		s.logger.Info().
			Str("event", msg.Event).
			Str("deviceToken", msg.DeviceToken).
			Interface("data", msg.Data).
			Msg("Push gateway not configured - notification not sent")
		return nil
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal notification payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.GatewayURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("push gateway returned status %d", resp.StatusCode)
	}

	return nil
}
