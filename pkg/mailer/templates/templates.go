package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
	texttpl "text/template"
)

//go:embed *.tmpl
var FS embed.FS

const VerifyEmail = "verify_email"

var subjects = map[string]string{
	VerifyEmail: "Verify your email address",
}

var (
	htmlTemplates = htmpl.Must(htmpl.ParseFS(FS, "*.html.tmpl"))
	textTemplates = texttpl.Must(texttpl.ParseFS(FS, "*.txt.tmpl"))
)

// VerifyEmailData is the data the verify_email templates read.
type VerifyEmailData struct {
	Name        string
	Email       string
	VerifyURL   string
	AppName     string
	CompanyName string
}

// ToMap flattens d into the map shape carried by an email job.
func (d VerifyEmailData) ToMap() map[string]any {
	return map[string]any{
		"Name":        d.Name,
		"Email":       d.Email,
		"VerifyURL":   d.VerifyURL,
		"AppName":     d.AppName,
		"CompanyName": d.CompanyName,
	}
}

// Render executes the named template and returns subject, text and html bodies.
func Render(name string, data map[string]any) (string, string, string, error) {
	subject, ok := subjects[name]
	if !ok {
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}
	var text, html bytes.Buffer
	if err := textTemplates.ExecuteTemplate(&text, name+".txt.tmpl", data); err != nil {
		return "", "", "", err
	}
	if err := htmlTemplates.ExecuteTemplate(&html, name+".html.tmpl", data); err != nil {
		return "", "", "", err
	}
	return subject, text.String(), html.String(), nil
}
