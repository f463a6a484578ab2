package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"libraryhub-backend/internal/logger"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) send(to, toName, subject, plainText, htmlContent string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)

	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	client := sendgrid.NewSendClient(s.apiKey)
	logger.ExternalServiceCall("sendgrid", "send", "to", to, "subject", subject)
	response, err := client.Send(message)
	logger.ExternalServiceResult("sendgrid", "send", err)

	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *emailService) SendWelcome(ctx context.Context, email, name string) error {
	subject := "Welcome to LibraryHub!"
	plain := fmt.Sprintf("Hello %s,\n\nWelcome to LibraryHub! Browse the catalog and send your first borrow request whenever you are ready.", name)
	return s.send(email, name, subject, plain, renderTemplate(subject, welcomeBody(name)))
}

func (s *emailService) SendBorrowApproved(ctx context.Context, email, name, bookTitle, bookAuthor string, returnDate time.Time) error {
	subject := "Borrow Request Approved - LibraryHub"
	plain := fmt.Sprintf("Hello %s,\n\nYour borrow request for \"%s\" by %s has been approved. Please return it by %s.", name, bookTitle, bookAuthor, returnDate.Format("January 2, 2006"))
	return s.send(email, name, subject, plain, renderTemplate(subject, borrowApprovedBody(name, bookTitle, bookAuthor, returnDate)))
}

func (s *emailService) SendBorrowRejected(ctx context.Context, email, name, bookTitle, reason string) error {
	subject := "Borrow Request Rejected - LibraryHub"
	plain := fmt.Sprintf("Hello %s,\n\nYour borrow request for \"%s\" was rejected. %s", name, bookTitle, reason)
	return s.send(email, name, subject, plain, renderTemplate(subject, borrowRejectedBody(name, bookTitle, reason)))
}

func (s *emailService) SendPasswordReset(ctx context.Context, email, name, resetURL string) error {
	subject := "Password Reset Request - LibraryHub"
	plain := fmt.Sprintf("Hello %s,\n\nYou requested a password reset. Use this link within the next hour: %s\n\nIf you didn't request it, ignore this email.", name, resetURL)
	return s.send(email, name, subject, plain, renderTemplate(subject, passwordResetBody(name, resetURL)))
}

func (s *emailService) SendOverdueReminder(ctx context.Context, email, name, bookTitle string, daysLate, fineCents int32) error {
	subject := "Overdue Book Reminder - LibraryHub"
	plain := fmt.Sprintf("Hello %s,\n\n\"%s\" is %d day(s) overdue. Your fine so far is $%.2f and grows daily. Please return the book as soon as possible.", name, bookTitle, daysLate, float64(fineCents)/100)
	return s.send(email, name, subject, plain, renderTemplate(subject, overdueReminderBody(name, bookTitle, daysLate, fineCents)))
}
