// internal/notification/nats.go
package notification

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/nats-io/nats.go"

	"libris/internal/membership"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// notice is the wire shape published to the broker.
type notice struct {
	MemberID string    `json:"member_id"`
	Email    string    `json:"email"`
	Message  string    `json:"message"`
	SentAt   time.Time `json:"sent_at"`
}

// NATSSink publishes notices to a NATS subject so downstream
// consumers (SMS gateways, audit pipelines) can react to them.
type NATSSink struct {
	conn    *nats.Conn
	subject string
}

func NewNATSSink(conn *nats.Conn, subject string) *NATSSink {
	if subject == "" {
		subject = "libris.notifications"
	}
	return &NATSSink{conn: conn, subject: subject}
}

func (s *NATSSink) Notify(_ context.Context, member *membership.Member, message string) error {
	payload, err := jsonAPI.Marshal(notice{
		MemberID: member.ID.String(),
		Email:    member.Email,
		Message:  message,
		SentAt:   time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode notice: %w", err)
	}
	if err := s.conn.Publish(s.subject, payload); err != nil {
		return fmt.Errorf("publish notice: %w", err)
	}
	return nil
}
