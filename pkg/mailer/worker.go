package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	tpl "github.com/yunusemrekoyun/fast-food-app/pkg/mailer/templates"
)

// Sender delivers one rendered mail.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// ErrBadJob marks a job that can never be delivered; it should be dropped,
// not requeued.
var ErrBadJob = errors.New("bad email job")

// Worker turns queued EmailJobs into sent mails.
type Worker struct {
	Sender   Sender
	Resolver tpl.GeoResolver // optional, fills Location for sign-in notifications
	Logger   *logrus.Logger
	Timeout  time.Duration
}

// Handle decodes, renders and sends one job. Errors wrapping ErrBadJob are
// permanent; any other error is worth a retry.
func (w *Worker) Handle(ctx context.Context, body []byte) error {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("%w: %v", ErrBadJob, err)
	}
	if job.To == "" {
		return fmt.Errorf("%w: missing recipient", ErrBadJob)
	}

	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		if job.Template == tpl.SignInNotification {
			tpl.EnrichLocation(ctx, w.Resolver, job.Data)
		}
		s, t, h, err := tpl.Render(job.Template, job.Data)
		if err != nil {
			return fmt.Errorf("%w: render %s: %v", ErrBadJob, job.Template, err)
		}
		subject, text, html = s, t, h
	}
	if subject == "" || (text == "" && html == "") {
		return fmt.Errorf("%w: empty mail", ErrBadJob)
	}

	timeout := w.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := w.Sender.Send(c, job.To, subject, text, html); err != nil {
		return fmt.Errorf("send to %s: %w", job.To, err)
	}
	if w.Logger != nil {
		w.Logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template}).Info("email sent")
	}
	return nil
}
