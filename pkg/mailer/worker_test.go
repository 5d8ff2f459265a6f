package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sent struct{ to, subject, text, html string }

type fakeSender struct {
	err  error
	mail []sent
}

func (f *fakeSender) Send(_ context.Context, to, subject, text, html string) error {
	if f.err != nil {
		return f.err
	}
	f.mail = append(f.mail, sent{to, subject, text, html})
	return nil
}

func newTestWorker(s Sender) *Worker {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewWorker(s, logger)
}

func body(t *testing.T, job EmailJob) []byte {
	t.Helper()
	b, err := json.Marshal(job)
	require.NoError(t, err)
	return b
}

func TestWorkerRendersTemplate(t *testing.T) {
	s := &fakeSender{}
	w := newTestWorker(s)

	err := w.Handle(context.Background(), body(t, EmailJob{
		To:       "bob@example.com",
		Template: "member_added",
		Data:     map[string]any{"Name": "Bob", "ActorName": "Alice", "TargetKind": "project", "TargetName": "Website"},
	}))
	require.NoError(t, err)
	require.Len(t, s.mail, 1)
	assert.Equal(t, "bob@example.com", s.mail[0].to)
	assert.Equal(t, "Alice added you to the project Website", s.mail[0].subject)
	assert.NotEmpty(t, s.mail[0].html)
}

func TestWorkerPlainJob(t *testing.T) {
	s := &fakeSender{}
	w := newTestWorker(s)

	require.NoError(t, w.Handle(context.Background(), body(t, EmailJob{To: "a@example.com", Subject: "Hi", Text: "hello"})))
	require.Len(t, s.mail, 1)
	assert.Equal(t, "hello", s.mail[0].text)
}

func TestWorkerRejectsBadJobs(t *testing.T) {
	w := newTestWorker(&fakeSender{})
	ctx := context.Background()

	cases := map[string][]byte{
		"not json":         []byte("{"),
		"no recipient":     body(t, EmailJob{Subject: "x", Text: "y"}),
		"no body":          body(t, EmailJob{To: "a@example.com"}),
		"unknown template": body(t, EmailJob{To: "a@example.com", Template: "login_otp"}),
	}
	for name, b := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, w.Handle(ctx, b), ErrBadJob)
		})
	}
}

func TestWorkerSendFailureIsRetryable(t *testing.T) {
	w := newTestWorker(&fakeSender{err: errors.New("mailgun down")})

	err := w.Handle(context.Background(), body(t, EmailJob{To: "a@example.com", Subject: "Hi", Text: "x"}))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrBadJob)
}
