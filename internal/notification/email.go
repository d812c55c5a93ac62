// internal/notification/email.go
package notification

import (
	"context"
	"fmt"
	"log"

	"libris/internal/membership"
)

// EmailSink writes notices to the process log in place of a real mail
// transport. Members without a stored address get a synthesized one
// under the configured domain.
type EmailSink struct {
	Domain string
}

func NewEmailSink(domain string) *EmailSink {
	if domain == "" {
		domain = "school.edu"
	}
	return &EmailSink{Domain: domain}
}

func (s *EmailSink) Notify(_ context.Context, member *membership.Member, message string) error {
	address := member.Email
	if address == "" {
		address = fmt.Sprintf("%s@%s", member.ID, s.Domain)
	}
	log.Printf("notification: email To: %s | %s", address, message)
	return nil
}
