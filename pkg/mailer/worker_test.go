package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tpl "github.com/yunusemrekoyun/fast-food-app/pkg/mailer/templates"
)

type sentMail struct {
	to, subject, text, html string
}

type fakeSender struct {
	sent []sentMail
	err  error
}

func (f *fakeSender) Send(_ context.Context, to, subject, text, html string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to, subject, text, html})
	return nil
}

type fixedResolver struct{ geo tpl.Geo }

func (r fixedResolver) Lookup(context.Context, string) (tpl.Geo, error) { return r.geo, nil }

func encode(t *testing.T, job EmailJob) []byte {
	t.Helper()
	b, err := json.Marshal(job)
	require.NoError(t, err)
	return b
}

func TestWorker_TemplateJob(t *testing.T) {
	s := &fakeSender{}
	w := &Worker{Sender: s, Resolver: fixedResolver{geo: tpl.Geo{City: "Istanbul", Country: "Turkey"}}}
	data := tpl.NewData(tpl.Branding{AppName: "Fast Food"}, "Ada", "ada@example.com", tpl.WithIP("203.0.113.9"))

	err := w.Handle(context.Background(), encode(t, EmailJob{To: "ada@example.com", Template: tpl.SignInNotification, Data: data}))

	require.NoError(t, err)
	require.Len(t, s.sent, 1)
	assert.Equal(t, "ada@example.com", s.sent[0].to)
	assert.NotEmpty(t, s.sent[0].subject)
	assert.Contains(t, s.sent[0].text, "Istanbul, Turkey")
}

func TestWorker_RawJob(t *testing.T) {
	s := &fakeSender{}
	w := &Worker{Sender: s}

	err := w.Handle(context.Background(), encode(t, EmailJob{To: "a@b.c", Subject: "Hi", Text: "hello"}))

	require.NoError(t, err)
	assert.Equal(t, "Hi", s.sent[0].subject)
}

func TestWorker_BadJobs(t *testing.T) {
	w := &Worker{Sender: &fakeSender{}}
	ctx := context.Background()

	assert.ErrorIs(t, w.Handle(ctx, []byte("{")), ErrBadJob)
	assert.ErrorIs(t, w.Handle(ctx, encode(t, EmailJob{Subject: "x", Text: "y"})), ErrBadJob)
	assert.ErrorIs(t, w.Handle(ctx, encode(t, EmailJob{To: "a@b.c"})), ErrBadJob)
	assert.ErrorIs(t, w.Handle(ctx, encode(t, EmailJob{To: "a@b.c", Template: "nope"})), ErrBadJob)
}

func TestWorker_SendFailureIsRetryable(t *testing.T) {
	w := &Worker{Sender: &fakeSender{err: errors.New("mailgun down")}}

	err := w.Handle(context.Background(), encode(t, EmailJob{To: "a@b.c", Subject: "Hi", Text: "hello"}))

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrBadJob)
}
