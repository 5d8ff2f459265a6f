package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	mailtpl "github.com/oksasatya/spaceboard/pkg/mailer/templates"
)

// ErrBadJob marks a job that can never be delivered; it must not be requeued.
var ErrBadJob = errors.New("bad email job")

// Sender delivers one rendered email. *Mailgun implements it.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// Worker turns queued EmailJobs into sent mail.
type Worker struct {
	Sender      Sender
	Logger      *logrus.Logger
	SendTimeout time.Duration
}

func NewWorker(sender Sender, logger *logrus.Logger) *Worker {
	return &Worker{Sender: sender, Logger: logger, SendTimeout: 15 * time.Second}
}

// Prepare validates the job and renders its template, if any, into
// Subject/Text/HTML.
func Prepare(job *EmailJob) error {
	job.To = strings.TrimSpace(job.To)
	if job.To == "" {
		return fmt.Errorf("%w: missing recipient", ErrBadJob)
	}
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["RecipientEmail"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["RecipientEmail"] = job.To
	}

	if job.Template == "" {
		if job.Subject == "" || (job.Text == "" && job.HTML == "") {
			return fmt.Errorf("%w: no template and no body", ErrBadJob)
		}
		return nil
	}
	name := strings.ToLower(job.Template)
	if !mailtpl.Known(name) {
		return fmt.Errorf("%w: unknown template %q", ErrBadJob, job.Template)
	}
	s, t, h, err := mailtpl.Render(name, job.Data)
	if err != nil {
		return fmt.Errorf("%w: render %s: %v", ErrBadJob, name, err)
	}
	job.Subject, job.Text, job.HTML = s, t, h
	return nil
}

// Handle processes one message body. Errors wrapping ErrBadJob are
// permanent; any other error is worth a retry.
func (w *Worker) Handle(ctx context.Context, body []byte) error {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("%w: %v", ErrBadJob, err)
	}
	if err := Prepare(&job); err != nil {
		return err
	}

	c, cancel := context.WithTimeout(ctx, w.SendTimeout)
	defer cancel()
	if err := w.Sender.Send(c, job.To, job.Subject, job.Text, job.HTML); err != nil {
		return fmt.Errorf("send to %s: %w", job.To, err)
	}
	w.Logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template}).Info("email sent")
	return nil
}
