package notify

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/spaceboard/config"
	"github.com/oksasatya/spaceboard/internal/application"
	"github.com/oksasatya/spaceboard/pkg/mailer"
	mailtpl "github.com/oksasatya/spaceboard/pkg/mailer/templates"
)

// Publisher puts a JSON payload on the email queue. *helpers.RabbitPublisher implements it.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// EmailNotifier turns domain notifications into EmailJobs for the email worker.
type EmailNotifier struct {
	Publisher Publisher
	Config    *config.Config
	Logger    *logrus.Logger
}

var _ application.Notifier = (*EmailNotifier)(nil)

func NewEmailNotifier(pub Publisher, cfg *config.Config, logger *logrus.Logger) *EmailNotifier {
	return &EmailNotifier{Publisher: pub, Config: cfg, Logger: logger}
}

func (n *EmailNotifier) MemberAdded(ctx context.Context, ev application.MemberAdded) error {
	data := mailtpl.NewMemberAddedData(n.Config, ev.RecipientName, ev.RecipientEmail, ev.AddedBy, ev.TargetKind, ev.TargetName)
	return n.publish(ctx, ev.RecipientEmail, mailtpl.MemberAdded, data)
}

func (n *EmailNotifier) IssueAssigned(ctx context.Context, ev application.IssueAssigned) error {
	data := mailtpl.NewIssueAssignedData(n.Config, ev.RecipientName, ev.RecipientEmail, ev.AssignedBy,
		ev.IssueID, ev.Title, ev.SpaceName, ev.Priority, ev.DueDate)
	return n.publish(ctx, ev.RecipientEmail, mailtpl.IssueAssigned, data)
}

func (n *EmailNotifier) publish(ctx context.Context, to, template string, data map[string]any) error {
	to = strings.TrimSpace(to)
	if to == "" {
		return nil
	}
	if n.Publisher == nil || !n.Config.MailSendEnabled {
		n.Logger.WithFields(logrus.Fields{"to": to, "template": template}).Debug("email disabled; notification dropped")
		return nil
	}
	return n.Publisher.PublishJSON(ctx, mailer.EmailJob{To: to, Template: template, Data: data})
}
