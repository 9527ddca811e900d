package contact

import (
	"context"
	"fmt"
	"time"

	"github.com/villa-booking-api/internal/domain"
	"github.com/villa-booking-api/internal/pkg/id"
	"github.com/villa-booking-api/internal/pkg/validate"
)

type Service interface {
	Submit(ctx context.Context, req domain.ContactRequest) error
}

type contactStore interface {
	Put(ctx context.Context, c *domain.Contact) error
}

type mailer interface {
	SendEmail(to, subject, htmlBody string) error
}

type service struct {
	repo    contactStore
	mailer  mailer
	adminTo string
}

func NewService(repo contactStore, m mailer, adminTo string) Service {
	return &service{repo: repo, mailer: m, adminTo: adminTo}
}

// Submit persists the message and forwards it to the configured admin
// address. There is no retry; a failed send surfaces as a generic error.
func (s *service) Submit(ctx context.Context, req domain.ContactRequest) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}
	c := &domain.Contact{
		ContactID: id.New(),
		FullName:  req.FullName,
		Email:     req.Email,
		Persons:   req.Persons,
		VisitDate: req.VisitDate,
		Message:   req.Message,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Put(ctx, c); err != nil {
		return err
	}

	body := fmt.Sprintf(`
		<h3>New contact message</h3>
		<p><strong>Name:</strong> %s</p>
		<p><strong>Email:</strong> %s</p>
		<p><strong>Persons:</strong> %d</p>
		<p><strong>Date:</strong> %s</p>
		<p><strong>Message:</strong></p>
		<p>%s</p>`,
		c.FullName, c.Email, c.Persons, c.VisitDate, c.Message)
	return s.mailer.SendEmail(s.adminTo, "New contact form message", body)
}
