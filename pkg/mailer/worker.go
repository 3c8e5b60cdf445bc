package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	tpl "github.com/oksasatya/go-account-service/pkg/mailer/templates"
)

// ErrPermanent marks a job that will never succeed and must not be requeued.
var ErrPermanent = errors.New("permanent email job failure")

// Processor turns queued EmailJob payloads into sent emails.
type Processor struct {
	Sender Sender
}

// Handle decodes, renders and sends one job. Errors wrapping ErrPermanent
// mean the message is bad; any other error is a delivery failure worth retrying.
func (p *Processor) Handle(ctx context.Context, body []byte) error {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrPermanent, err)
	}
	if job.To == "" {
		return fmt.Errorf("%w: missing recipient", ErrPermanent)
	}

	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		var err error
		subject, text, html, err = tpl.Render(job.Template, job.Data)
		if err != nil {
			return fmt.Errorf("%w: render %s: %v", ErrPermanent, job.Template, err)
		}
	} else if subject == "" || (text == "" && html == "") {
		return fmt.Errorf("%w: either template or subject with text/html is required", ErrPermanent)
	}

	return p.Sender.Send(ctx, job.To, subject, text, html)
}
