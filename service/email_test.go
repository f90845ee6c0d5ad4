package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"expensetracker/config"
	"expensetracker/errs"
	"expensetracker/store"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

func sampleReport() *Report {
	return &Report{
		UserID:        "u1",
		UserName:      "Ann <ops>",
		UserEmail:     "ann@example.com",
		PeriodLabel:   "2024-03",
		TotalSpent:    190,
		PreviousTotal: 240,
		TopCategories: []store.CategoryTotal{
			{Category: "food", Total: 100}, {Category: "fun", Total: 50},
		},
		MonthlyBudget:   500,
		RemainingBudget: 310,
		CSV:             []byte("title,amount,category,date,tags,note"),
	}
}

func TestReportBodies(t *testing.T) {
	htmlBody, text := reportBodies(sampleReport())

	assert.Contains(t, text, "Hi Ann <ops>,")
	assert.Contains(t, text, "Your 2024-03 expense report is ready.")
	assert.Contains(t, text, "Total spent: 190.00")
	assert.Contains(t, text, "Previous period: 240.00 (down by 50.00)")
	assert.Contains(t, text, "Top categories: food: 100.00, fun: 50.00")
	assert.Contains(t, text, "Budget remaining: 310.00 of 500.00")
	assert.Contains(t, text, "See attached CSV for full detail.")

	assert.Contains(t, htmlBody, "Hi Ann &lt;ops&gt;,")
	assert.Contains(t, htmlBody, "<strong>Previous period:</strong> 240.00 (down by 50.00)")

	r := sampleReport()
	r.TopCategories = nil
	r.PreviousTotal = 100
	_, text = reportBodies(r)
	assert.Contains(t, text, "Top categories: N/A")
	assert.Contains(t, text, "Previous period: 100.00 (up by 90.00)")
}

func TestReportFilename(t *testing.T) {
	assert.Equal(t, "expenses-2024-03.csv", reportFilename("2024-03"))
	assert.Equal(t, "expenses-March-2024.csv", reportFilename("March 2024"))
}

func TestNewMailer(t *testing.T) {
	smtp := config.SMTPConfig{Host: "smtp.example.com", Port: 587, Username: "u", Password: "p"}

	assert.Equal(t, "sendgrid", NewMailer(config.EmailConfig{SendGrid: config.SendGridConfig{APIKey: "SG.x"}, SMTP: smtp}).Name())
	assert.Equal(t, "smtp", NewMailer(config.EmailConfig{SMTP: smtp}).Name())

	m := NewMailer(config.EmailConfig{SMTP: config.SMTPConfig{Host: "smtp.example.com"}})
	assert.Equal(t, "disabled", m.Name())
	err := m.Send(context.Background(), Message{To: "ann@example.com"})
	var mailErr *errs.MailDeliveryFailure
	require.True(t, errors.As(err, &mailErr))
	assert.Equal(t, "ann@example.com", mailErr.To)
}

func TestFromAddress(t *testing.T) {
	assert.Equal(t, "ops@example.com", FromAddress(config.EmailConfig{From: "ops@example.com", SMTP: config.SMTPConfig{Username: "u@example.com"}}))
	assert.Equal(t, "u@example.com", FromAddress(config.EmailConfig{SMTP: config.SMTPConfig{Username: "u@example.com"}}))
	assert.Equal(t, defaultFrom, FromAddress(config.EmailConfig{}))
}

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	d.sent = append(d.sent, m...)
	return d.err
}

func TestSMTPMailer(t *testing.T) {
	d := &fakeDialer{}
	m := &SMTPMailer{dialer: d}
	rm := NewReportMailer(m, "reports@example.com")

	require.NoError(t, rm.SendReport(context.Background(), sampleReport()))
	require.Len(t, d.sent, 1)

	msg := d.sent[0]
	assert.Equal(t, []string{"reports@example.com"}, msg.GetHeader("From"))
	assert.Equal(t, []string{"ann@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"Expense report - 2024-03"}, msg.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `filename="expenses-2024-03.csv"`)
	assert.Contains(t, buf.String(), "text/csv")

	d.err = errors.New("connection refused")
	err = rm.SendReport(context.Background(), sampleReport())
	var mailErr *errs.MailDeliveryFailure
	assert.True(t, errors.As(err, &mailErr))
}

type fakeSendGrid struct {
	sent   []*mail.SGMailV3
	status int
	err    error
}

func (f *fakeSendGrid) SendWithContext(_ context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	f.sent = append(f.sent, email)
	if f.err != nil {
		return nil, f.err
	}
	return &rest.Response{StatusCode: f.status, Body: "bad request"}, nil
}

func TestSendGridMailer(t *testing.T) {
	client := &fakeSendGrid{status: 202}
	rm := NewReportMailer(&SendGridMailer{client: client}, "reports@example.com")

	require.NoError(t, rm.SendReport(context.Background(), sampleReport()))
	require.Len(t, client.sent, 1)

	sg := client.sent[0]
	assert.Equal(t, "Expense report - 2024-03", sg.Subject)
	assert.Equal(t, "reports@example.com", sg.From.Address)
	assert.Equal(t, "ann@example.com", sg.Personalizations[0].To[0].Address)
	require.Len(t, sg.Attachments, 1)
	assert.Equal(t, "expenses-2024-03.csv", sg.Attachments[0].Filename)
	assert.Equal(t, "text/csv", sg.Attachments[0].Type)
	assert.Equal(t, base64.StdEncoding.EncodeToString(sampleReport().CSV), sg.Attachments[0].Content)

	client.status = 400
	err := rm.SendReport(context.Background(), sampleReport())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sendgrid status 400")
}
