package notification

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/senecapartners/seneca-cms-backend/internal/application"
)

type memRepo struct {
	mu   sync.Mutex
	logs []NotificationLog
}

func (m *memRepo) CreateLog(_ context.Context, l *NotificationLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, *l)
	return nil
}

func (m *memRepo) ListLogs(_ context.Context, siteID uint, _ *uint, _, _ int) ([]NotificationLog, int64, error) {
	return m.logs, int64(len(m.logs)), nil
}

type fakeChannel struct {
	name string
	err  error
	mu   sync.Mutex
	got  []Message
}

func (f *fakeChannel) Name() string         { return f.name }
func (f *fakeChannel) Recipients() []string { return []string{f.name + "@test"} }
func (f *fakeChannel) Send(_ context.Context, msg Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, msg)
	return f.err
}

func sampleApp() application.Application {
	return application.Application{
		ID:        12,
		SiteID:    1,
		Name:      "Айгерим",
		Phone:     "+77015550000",
		CreatedAt: time.Date(2024, 3, 8, 9, 30, 0, 0, time.UTC),
	}
}

func TestNewApplicationMessage(t *testing.T) {
	msg := NewApplicationMessage(sampleApp())
	assert.Equal(t, "Новая заявка от Айгерим", msg.Subject)
	assert.Contains(t, msg.Body, "ID:    12")
	assert.Contains(t, msg.Body, "Телефон: +77015550000")
	assert.Contains(t, msg.Body, "Дата:  2024-03-08 09:30")
	assert.Equal(t, EventLeadCreated, msg.Lead.Event)
}

func TestNotifyFansOutAndSwallowsErrors(t *testing.T) {
	repo := &memRepo{}
	ok := &fakeChannel{name: "email"}
	broken := &fakeChannel{name: "kafka", err: errors.New("broker down")}
	svc := NewService(repo, ok, broken)

	svc.NotifyNewApplication(sampleApp())
	svc.Wait()

	assert.Len(t, ok.got, 1)
	assert.Len(t, broken.got, 1)

	require.Len(t, repo.logs, 2)
	sort.Slice(repo.logs, func(i, j int) bool { return repo.logs[i].Channel < repo.logs[j].Channel })
	assert.Equal(t, StatusSent, repo.logs[0].Status)
	assert.Nil(t, repo.logs[0].Error)
	assert.JSONEq(t, `["email@test"]`, string(repo.logs[0].Recipients))
	assert.Equal(t, StatusFailed, repo.logs[1].Status)
	require.NotNil(t, repo.logs[1].Error)
	assert.Equal(t, "broker down", *repo.logs[1].Error)
}

func TestNotifyWithoutChannels(t *testing.T) {
	svc := NewService(nil)
	svc.NotifyNewApplication(sampleApp())
	svc.Wait()
}

type fakeWriter struct {
	msgs []kafka.Message
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestKafkaPublisherPayload(t *testing.T) {
	w := &fakeWriter{}
	pub := &KafkaPublisher{writer: w, topic: "seneca.leads"}

	require.NoError(t, pub.Send(context.Background(), NewApplicationMessage(sampleApp())))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "12", string(w.msgs[0].Key))
	assert.Equal(t, EventLeadCreated, string(w.msgs[0].Headers[0].Value))

	var evt LeadEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &evt))
	assert.Equal(t, uint(12), evt.ApplicationID)
	assert.Equal(t, "Айгерим", evt.Name)
	assert.Equal(t, []string{"seneca.leads"}, pub.Recipients())
}

func TestEmailBuildMessage(t *testing.T) {
	dir := t.TempDir()
	tmplPath := filepath.Join(dir, "mail.html")
	require.NoError(t, os.WriteFile(tmplPath, []byte(`<h1>{{.Subject}}</h1>{{range .Lines}}<p>{{.}}</p>{{end}}`), 0o644))

	sender := &EmailSender{
		FromName:     "Seneca",
		FromAddr:     "noreply@seneca.kz",
		To:           []string{"ops@seneca.kz", "sales@seneca.kz"},
		TemplatePath: tmplPath,
	}
	raw, err := sender.buildMessage(NewApplicationMessage(sampleApp()))
	require.NoError(t, err)

	text := string(raw)
	assert.Contains(t, text, "To: ops@seneca.kz, sales@seneca.kz\r\n")
	assert.Contains(t, text, "Content-Type: text/html")
	assert.Contains(t, text, "<h1>Новая заявка от Айгерим</h1>")
	assert.Contains(t, text, "<p>Имя:   Айгерим</p>")
	assert.False(t, strings.Contains(text, "{{"))
}

func TestEmailConfigured(t *testing.T) {
	assert.False(t, (&EmailSender{Host: "smtp", FromAddr: "a@b"}).Configured())
	assert.True(t, (&EmailSender{Host: "smtp", FromAddr: "a@b", To: []string{"c@d"}}).Configured())
}
