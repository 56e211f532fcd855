package logmail

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendEmail_WritesToLog(t *testing.T) {
	var buf bytes.Buffer
	m := NewMailer(slog.New(slog.NewJSONHandler(&buf, nil)))

	require.NoError(t, m.SendEmail(context.Background(), "alice@x.com", "Verify your email", "<b>123456</b>"))

	assert.Contains(t, buf.String(), `"to":"alice@x.com"`)
	assert.Contains(t, buf.String(), "123456")
}
