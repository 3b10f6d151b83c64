package emailsvc

import (
	"net/mail"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-landing/core"
	"github.com/trezcool/masomo-landing/tests"
)

var testConf = &core.Config{
	AppName:          "Masomo",
	DefaultFromEmail: mail.Address{Name: "Masomo", Address: "noreply@test.cd"},
}

func TestConsoleService_SendMessages(t *testing.T) {
	logger := testutil.NewLogger(t)
	svc := NewConsoleService(testConf, logger)

	svc.SendMessages(
		&core.EmailMessage{
			To:      []mail.Address{{Name: "Jane", Address: "jane@test.cd"}},
			Subject: "Hello",
			BodyStr: "plain body",
		},
		&core.EmailMessage{Subject: "nobody to send to", BodyStr: "lost"},
	)
	svc.Wait()

	msgs := logger.Messages()
	require.Len(t, msgs, 1)
	out := msgs[0]
	assert.True(t, strings.HasPrefix(out, "INFO emailsvc: message sent"))
	assert.Contains(t, out, "Subject: [Masomo] Hello\r\n")
	assert.Contains(t, out, `To: "Jane" <jane@test.cd>`)
	assert.Contains(t, out, "plain body")
	assert.NotContains(t, out, "CC:")
}

func TestConsoleServiceMock_SendMessages(t *testing.T) {
	core.ParseEmailTemplates(true, testutil.NewLogger(t))
	logger := testutil.NewLogger(t)
	svc := NewConsoleServiceMock(testConf, logger)

	svc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Address: "sales@test.cd"}},
		Subject:      "New lead",
		TemplateName: "lead_notify",
		TemplateData: map[string]string{
			"SchoolName":    "Greenfield",
			"ContactPerson": "Jane",
			"Email":         "jane@test.cd",
			"Phone":         "+243 81 000 0000",
			"StudentsCount": "0-500",
			"Plan":          "Premium",
			"Billing":       "annual",
			"Message":       "",
		},
	})

	sent := svc.SentMessages()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].TextContent, "New demo request from Greenfield.")
	assert.Contains(t, sent[0].TextContent, "Message: -")
	assert.Contains(t, sent[0].TextContent, "The Masomo Team")
	assert.Empty(t, sent[0].HTMLContent, "lead_notify has no html template")
	assert.Empty(t, logger.Messages(), "mock writes no output")
}
