package templates

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/oksasatya/spaceboard/config"
)

// Option pattern
type Option func(*EmailData)

func WithActor(name string) Option { return func(d *EmailData) { d.ActorName = name } }
func WithTarget(kind, name string) Option {
	return func(d *EmailData) {
		d.TargetKind = kind
		d.TargetName = name
	}
}
func WithIssue(issueID, title, priority string) Option {
	return func(d *EmailData) {
		d.IssueID = issueID
		d.Title = title
		d.Priority = priority
	}
}
func WithSpace(name string) Option { return func(d *EmailData) { d.SpaceName = name } }

// WithDueDate renders the date plus a relative hint, e.g. "21 October 2026 (6 days from now)".
func WithDueDate(due *time.Time) Option {
	return func(d *EmailData) {
		if due == nil || due.IsZero() {
			return
		}
		utc := due.UTC()
		d.DueDate = &utc
		d.DueDateText = utc.Format("02 January 2006") + " (" + humanize.Time(utc) + ")"
	}
}

// WithActionURL joins path onto the configured app URL.
func WithActionURL(base, path string) Option {
	return func(d *EmailData) {
		base = strings.TrimRight(strings.TrimSpace(base), "/")
		if base == "" {
			return
		}
		d.ActionURL = base + "/" + strings.TrimLeft(path, "/")
	}
}

// NewBaseEmailData fills the branding fields from config, then applies opts.
func NewBaseEmailData(cfg *config.Config, typ, name, recipient string, opts ...Option) EmailData {
	d := EmailData{
		Name:           name,
		RecipientEmail: recipient,
		Type:           typ,

		CompanyName:    cfg.CompanyName,
		CompanyAddress: cfg.CompanyAddress,
		AppName:        cfg.AppName,

		LogoURL:        cfg.LogoURL,
		SupportURL:     cfg.SupportURL,
		UnsubscribeURL: cfg.UnsubscribeURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewMemberAddedData(cfg *config.Config, name, recipient, actor, kind, target string) map[string]any {
	d := NewBaseEmailData(cfg, MemberAdded, name, recipient,
		WithActor(actor),
		WithTarget(kind, target),
		WithActionURL(cfg.AppURL, ""),
	)
	return ToMap(d)
}

func NewIssueAssignedData(cfg *config.Config, name, recipient, actor, issueID, title, space, priority string, due *time.Time) map[string]any {
	d := NewBaseEmailData(cfg, IssueAssigned, name, recipient,
		WithActor(actor),
		WithIssue(issueID, title, priority),
		WithSpace(space),
		WithDueDate(due),
		WithActionURL(cfg.AppURL, "issues/"+issueID),
	)
	return ToMap(d)
}
