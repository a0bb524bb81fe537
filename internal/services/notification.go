package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pourpal/pourpal-backend/internal/models"
	"github.com/pourpal/pourpal-backend/pkg/sendgrid"
)

// NotificationService sends the transactional emails of the store. Callers
// treat every send as best effort.
type NotificationService interface {
	SendWelcomeEmail(ctx context.Context, user *models.User) error
	SendAdminCredentialsEmail(ctx context.Context, user *models.User, password string) error
	SendOrderConfirmationEmail(ctx context.Context, user *models.User, order *models.Order) error
}

type notificationService struct {
	emailService sendgrid.EmailService
}

func NewNotificationService(emailService sendgrid.EmailService) NotificationService {
	return &notificationService{emailService: emailService}
}

func (n *notificationService) SendWelcomeEmail(ctx context.Context, user *models.User) error {
	return n.emailService.Send(ctx, &sendgrid.Email{
		To:      user.Email,
		Subject: "Welcome to PourPal",
		Content: fmt.Sprintf("Hi %s,\n\nYour PourPal account is ready. Browse the catalog and fill your first cart.\n\nCheers,\nThe PourPal team", user.Name),
		HTMLContent: fmt.Sprintf("<p>Hi %s,</p><p>Your PourPal account is ready. Browse the catalog and fill your first cart.</p><p>Cheers,<br>The PourPal team</p>",
			user.Name),
	})
}

func (n *notificationService) SendAdminCredentialsEmail(ctx context.Context, user *models.User, password string) error {
	return n.emailService.Send(ctx, &sendgrid.Email{
		To:      user.Email,
		Subject: "Your PourPal admin account",
		Content: fmt.Sprintf("Hi %s,\n\nAn admin account was created for this address.\n\nTemporary password: %s\n\nPlease log in and keep it safe.\n\nThe PourPal team",
			user.Name, password),
		HTMLContent: fmt.Sprintf("<p>Hi %s,</p><p>An admin account was created for this address.</p><p>Temporary password: <strong>%s</strong></p><p>Please log in and keep it safe.</p><p>The PourPal team</p>",
			user.Name, password),
	})
}

func (n *notificationService) SendOrderConfirmationEmail(ctx context.Context, user *models.User, order *models.Order) error {
	var plain, html strings.Builder

	fmt.Fprintf(&plain, "Hi %s,\n\nThanks for your order %s.\n\n", user.Name, order.OrderNumber)
	fmt.Fprintf(&html, "<p>Hi %s,</p><p>Thanks for your order <strong>%s</strong>.</p><ul>", user.Name, order.OrderNumber)

	for _, line := range order.Lines {
		fmt.Fprintf(&plain, "  %d x %s - %s\n", line.Quantity, line.Title, line.TotalPrice)
		fmt.Fprintf(&html, "<li>%d x %s - %s</li>", line.Quantity, line.Title, line.TotalPrice)
	}

	fmt.Fprintf(&plain, "\nTotal: %s\n\nWe will let you know when it ships.\n\nThe PourPal team", order.Total)
	fmt.Fprintf(&html, "</ul><p>Total: <strong>%s</strong></p><p>We will let you know when it ships.</p><p>The PourPal team</p>", order.Total)

	return n.emailService.Send(ctx, &sendgrid.Email{
		To:          user.Email,
		Subject:     fmt.Sprintf("Order %s confirmed", order.OrderNumber),
		Content:     plain.String(),
		HTMLContent: html.String(),
	})
}
