package usecase

import (
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/shandysiswandi/newsletter/internal/pkg/mail"
	"github.com/shandysiswandi/newsletter/internal/pkg/valueobject"
)

const confirmationSubject = "Welcome!"

func confirmationLink(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/subscriptions/confirm?subscription_token=" + url.QueryEscape(token)
}

func confirmationEmail(to valueobject.Email, link string) mail.Message {
	return mail.Message{
		To:      to,
		Subject: confirmationSubject,
		HTMLBody: fmt.Sprintf(
			`Welcome to our newsletter!<br />Click <a href="%s">here</a> to confirm your subscription.`,
			html.EscapeString(link),
		),
		TextBody: fmt.Sprintf("Welcome to our newsletter!\nVisit %s to confirm your subscription.", link),
	}
}
