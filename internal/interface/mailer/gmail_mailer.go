// Package mailer delivers price alerts through the Gmail API.
package mailer

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"flightwatch-service/internal/domain/entity"
	"flightwatch-service/internal/domain/repository"
	"flightwatch-service/pkg/logger"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const alertSubject = "Flight Price Alert"

// GmailMailer implements the MailerRepository interface using the Gmail API
type GmailMailer struct {
	service *gmail.Service
	from    string
	logger  logger.Logger
}

// NewGmailMailer creates a new Gmail-backed mailer
func NewGmailMailer(ctx context.Context, tokenSource oauth2.TokenSource, from string, logger logger.Logger) (repository.MailerRepository, error) {
	service, err := gmail.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, err
	}

	return &GmailMailer{
		service: service,
		from:    from,
		logger:  logger,
	}, nil
}

// SendPriceAlert composes and sends one alert as multipart/alternative with a
// plain-text body and an HTML alternative
func (m *GmailMailer) SendPriceAlert(ctx context.Context, alert *entity.PriceAlert) error {
	raw := base64.URLEncoding.EncodeToString([]byte(composeMessage(m.from, alert)))

	_, err := m.service.Users.Messages.Send("me", &gmail.Message{Raw: raw}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("send alert to %s: %w", alert.ToEmail, err)
	}

	m.logger.Info("Price alert sent",
		"to", alert.ToEmail,
		"route", alert.OriginCode+"-"+alert.DestCode,
		"currentPrice", alert.CurrentPrice)
	return nil
}

func composeMessage(from string, alert *entity.PriceAlert) string {
	const boundary = "flightwatch-alert-boundary"
	departure := alert.DepartureDate.Format("2 Jan 2006")

	var sb strings.Builder
	sb.WriteString("From: " + from + "\r\n")
	sb.WriteString("To: " + alert.ToEmail + "\r\n")
	sb.WriteString("Subject: " + alertSubject + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: multipart/alternative; boundary=" + boundary + "\r\n")
	sb.WriteString("\r\n")

	sb.WriteString("--" + boundary + "\r\n")
	sb.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	sb.WriteString("Good news!\r\n\r\n")
	sb.WriteString("The flight you were watching has dropped below your target price.\r\n\r\n")
	sb.WriteString(fmt.Sprintf("Flight: %s -> %s\r\n", alert.OriginCode, alert.DestCode))
	sb.WriteString(fmt.Sprintf("Departure date: %s\r\n", departure))
	sb.WriteString(fmt.Sprintf("Your target price: %.2f EUR\r\n", alert.TargetPrice))
	sb.WriteString(fmt.Sprintf("Current price: %.2f EUR\r\n", alert.CurrentPrice))
	if alert.BookingURL != "" {
		sb.WriteString(fmt.Sprintf("Book now: %s\r\n", alert.BookingURL))
	}
	sb.WriteString("\r\nNote: you will no longer receive alerts for this flight unless you reactivate it.\r\n")

	sb.WriteString("\r\n--" + boundary + "\r\n")
	sb.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	sb.WriteString("<html><body>")
	sb.WriteString("<h2>Good news!</h2>")
	sb.WriteString("<p>The flight you were watching has dropped below your target price.</p>")
	sb.WriteString("<table>")
	sb.WriteString(fmt.Sprintf("<tr><td>Flight</td><td>%s &rarr; %s</td></tr>", alert.OriginCode, alert.DestCode))
	sb.WriteString(fmt.Sprintf("<tr><td>Departure date</td><td>%s</td></tr>", departure))
	sb.WriteString(fmt.Sprintf("<tr><td>Your target price</td><td>%.2f&nbsp;EUR</td></tr>", alert.TargetPrice))
	sb.WriteString(fmt.Sprintf("<tr><td>Current price</td><td><strong>%.2f&nbsp;EUR</strong></td></tr>", alert.CurrentPrice))
	sb.WriteString("</table>")
	if alert.BookingURL != "" {
		sb.WriteString(fmt.Sprintf("<p><a href=\"%s\">Book this flight</a></p>", alert.BookingURL))
	}
	sb.WriteString("<p><small>You will no longer receive alerts for this flight unless you reactivate it.</small></p>")
	sb.WriteString("</body></html>\r\n")

	sb.WriteString("\r\n--" + boundary + "--\r\n")
	return sb.String()
}
