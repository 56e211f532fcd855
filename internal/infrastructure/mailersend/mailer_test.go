package mailersend

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-rider-auth/internal/config"
	"github.com/mailersend/mailersend-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockEmail struct{ mock.Mock }

func (m *mockEmail) Send(ctx context.Context, msg *mailersend.Message) (*mailersend.Response, error) {
	args := m.Called(ctx, msg)
	res, _ := args.Get(0).(*mailersend.Response)
	return res, args.Error(1)
}

func TestNewMailer_RequiresKeyAndSender(t *testing.T) {
	_, err := NewMailer(&config.Config{MailFrom: "noreply@example.com"})
	assert.Error(t, err)
	_, err = NewMailer(&config.Config{MailerSendAPIKey: "key"})
	assert.Error(t, err)
}

func TestSendEmail_BuildsMessage(t *testing.T) {
	api := &mockEmail{}
	var sent *mailersend.Message
	var deadline time.Time
	api.On("Send", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			deadline, _ = args.Get(0).(context.Context).Deadline()
			sent = args.Get(1).(*mailersend.Message)
		}).
		Return(&mailersend.Response{}, nil)
	m := &Mailer{email: api, from: mailersend.From{Name: "Ride Accounts", Email: "noreply@example.com"}}

	require.NoError(t, m.SendEmail(context.Background(), "alice@x.com", "Your code", "<p>123456</p>"))

	require.NotNil(t, sent)
	assert.False(t, deadline.IsZero())
	raw, err := json.Marshal(sent)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "Your code", body["subject"])
	assert.Equal(t, "<p>123456</p>", body["html"])
	assert.Equal(t, "noreply@example.com", body["from"].(map[string]any)["email"])
	to := body["to"].([]any)
	require.Len(t, to, 1)
	assert.Equal(t, "alice@x.com", to[0].(map[string]any)["email"])
}

func TestSendEmail_WrapsAPIError(t *testing.T) {
	api := &mockEmail{}
	boom := errors.New("422 unprocessable")
	api.On("Send", mock.Anything, mock.Anything).Return(nil, boom)
	m := &Mailer{email: api}

	err := m.SendEmail(context.Background(), "alice@x.com", "s", "h")

	assert.ErrorIs(t, err, boom)
}
