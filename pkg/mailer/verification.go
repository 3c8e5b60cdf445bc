package mailer

import (
	"context"
	"net/url"
	"strings"

	tpl "github.com/oksasatya/go-account-service/pkg/mailer/templates"
)

// JobPublisher puts an email job on a queue.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// VerificationMailer enqueues the verify_email job sent after registration.
type VerificationMailer struct {
	Pub         JobPublisher
	BaseURL     string // verification endpoint prefix, e.g. http://host/api/users
	AppName     string
	CompanyName string
}

func NewVerificationMailer(pub JobPublisher, baseURL, appName, companyName string) *VerificationMailer {
	return &VerificationMailer{Pub: pub, BaseURL: baseURL, AppName: appName, CompanyName: companyName}
}

// VerifyLink builds {BaseURL}/{userID}/{token}, the address served by the verification route.
func (m *VerificationMailer) VerifyLink(userID, token string) string {
	return strings.TrimRight(m.BaseURL, "/") + "/" + url.PathEscape(userID) + "/" + url.PathEscape(token)
}

func (m *VerificationMailer) SendVerification(ctx context.Context, userID, name, email, token string) error {
	data := tpl.VerifyEmailData{
		Name:        name,
		Email:       email,
		VerifyURL:   m.VerifyLink(userID, token),
		AppName:     m.AppName,
		CompanyName: m.CompanyName,
	}
	return m.Pub.PublishJSON(ctx, EmailJob{To: email, Template: tpl.VerifyEmail, Data: data.ToMap()})
}
