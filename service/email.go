package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"html"
	"io"
	"strings"

	"expensetracker/config"
	"expensetracker/errs"
	"expensetracker/logger"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

const defaultFrom = "reports@example.com"

// Attachment 邮件附件
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Message 一封邮件，两种发送方式共用
type Message struct {
	From       string
	To         string
	Subject    string
	HTML       string
	Text       string
	Attachment *Attachment
}

// Mailer 邮件发送策略，启动时按配置选定
type Mailer interface {
	Send(ctx context.Context, msg Message) error
	Name() string
}

// NewMailer 配置了 SendGrid API key 时用 SendGrid，否则 SMTP；都未配置时返回禁用的 Mailer
func NewMailer(cfg config.EmailConfig) Mailer {
	switch {
	case cfg.SendGrid.APIKey != "":
		return NewSendGridMailer(cfg.SendGrid.APIKey)
	case cfg.SMTP.Configured():
		return NewSMTPMailer(cfg.SMTP)
	default:
		logger.Warn("no mail transport configured, report emails are disabled")
		return disabledMailer{}
	}
}

// FromAddress 发件人：email.from > SMTP 用户名 > 默认地址
func FromAddress(cfg config.EmailConfig) string {
	if cfg.From != "" {
		return cfg.From
	}
	if cfg.SMTP.Username != "" {
		return cfg.SMTP.Username
	}
	return defaultFrom
}

type disabledMailer struct{}

func (disabledMailer) Name() string { return "disabled" }

func (disabledMailer) Send(_ context.Context, msg Message) error {
	return &errs.MailDeliveryFailure{To: msg.To, Err: errors.New("SMTP configuration is missing (host, username, password)")}
}

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer 通过 SMTP 发送，端口 465 时使用 SSL
type SMTPMailer struct {
	dialer dialer
}

func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)}
}

func (s *SMTPMailer) Name() string { return "smtp" }

func (s *SMTPMailer) Send(_ context.Context, msg Message) error {
	if err := s.dialer.DialAndSend(buildGomailMessage(msg)); err != nil {
		return &errs.MailDeliveryFailure{To: msg.To, Err: err}
	}
	return nil
}

func buildGomailMessage(msg Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	m.AddAlternative("text/html", msg.HTML)
	if a := msg.Attachment; a != nil {
		m.Attach(a.Filename,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(a.Content)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {a.ContentType}}),
		)
	}
	return m
}

type sendgridClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridMailer 通过 SendGrid API 发送
type SendGridMailer struct {
	client sendgridClient
}

func NewSendGridMailer(apiKey string) *SendGridMailer {
	return &SendGridMailer{client: sendgrid.NewSendClient(apiKey)}
}

func (s *SendGridMailer) Name() string { return "sendgrid" }

func (s *SendGridMailer) Send(ctx context.Context, msg Message) error {
	resp, err := s.client.SendWithContext(ctx, buildSendGridMessage(msg))
	if err != nil {
		return &errs.MailDeliveryFailure{To: msg.To, Err: err}
	}
	if resp.StatusCode >= 300 {
		return &errs.MailDeliveryFailure{To: msg.To, Err: errors.Errorf("sendgrid status %d: %s", resp.StatusCode, resp.Body)}
	}
	return nil
}

func buildSendGridMessage(msg Message) *mail.SGMailV3 {
	m := mail.NewSingleEmail(mail.NewEmail("", msg.From), msg.Subject, mail.NewEmail("", msg.To), msg.Text, msg.HTML)
	if a := msg.Attachment; a != nil {
		att := mail.NewAttachment()
		att.SetContent(base64.StdEncoding.EncodeToString(a.Content))
		att.SetType(a.ContentType)
		att.SetFilename(a.Filename)
		att.SetDisposition("attachment")
		m.AddAttachment(att)
	}
	return m
}

// ReportMailer 发送月度报表邮件
type ReportMailer struct {
	mailer Mailer
	from   string
}

func NewReportMailer(mailer Mailer, from string) *ReportMailer {
	return &ReportMailer{mailer: mailer, from: from}
}

// SendReport 正文列出本期合计、与上期对比、top 分类、剩余预算，附件为本期 CSV
func (s *ReportMailer) SendReport(ctx context.Context, report *Report) error {
	htmlBody, textBody := reportBodies(report)
	err := s.mailer.Send(ctx, Message{
		From:    s.from,
		To:      report.UserEmail,
		Subject: "Expense report - " + report.PeriodLabel,
		HTML:    htmlBody,
		Text:    textBody,
		Attachment: &Attachment{
			Filename:    reportFilename(report.PeriodLabel),
			ContentType: "text/csv",
			Content:     report.CSV,
		},
	})
	if err != nil {
		return err
	}
	logger.Info("report email sent",
		zap.String("userId", report.UserID),
		zap.String("period", report.PeriodLabel),
		zap.String("transport", s.mailer.Name()))
	return nil
}

func reportFilename(periodLabel string) string {
	return "expenses-" + strings.Join(strings.Fields(periodLabel), "-") + ".csv"
}

func formatTopCategories(report *Report) string {
	parts := make([]string, 0, len(report.TopCategories))
	for _, c := range report.TopCategories {
		parts = append(parts, fmt.Sprintf("%s: %.2f", c.Category, c.Total))
	}
	if len(parts) == 0 {
		return "N/A"
	}
	return strings.Join(parts, ", ")
}

func reportBodies(report *Report) (string, string) {
	topCats := formatTopCategories(report)
	delta := report.TotalSpent - report.PreviousTotal
	direction := "up"
	if delta < 0 {
		direction = "down"
		delta = -delta
	}
	previous := fmt.Sprintf("%.2f (%s by %.2f)", report.PreviousTotal, direction, delta)
	remaining := fmt.Sprintf("%.2f of %.2f", report.RemainingBudget, report.MonthlyBudget)

	var h bytes.Buffer
	fmt.Fprintf(&h, "<p>Hi %s,</p>\n", html.EscapeString(report.UserName))
	fmt.Fprintf(&h, "<p>Your %s expense report is ready.</p>\n<ul>\n", report.PeriodLabel)
	fmt.Fprintf(&h, "  <li><strong>Total spent:</strong> %.2f</li>\n", report.TotalSpent)
	fmt.Fprintf(&h, "  <li><strong>Previous period:</strong> %s</li>\n", previous)
	fmt.Fprintf(&h, "  <li><strong>Top categories:</strong> %s</li>\n", html.EscapeString(topCats))
	fmt.Fprintf(&h, "  <li><strong>Budget remaining:</strong> %s</li>\n</ul>\n", remaining)
	h.WriteString("<p>See attached CSV for full detail.</p>\n")

	var t strings.Builder
	fmt.Fprintf(&t, "Hi %s,\n\n", report.UserName)
	fmt.Fprintf(&t, "Your %s expense report is ready.\n", report.PeriodLabel)
	fmt.Fprintf(&t, "Total spent: %.2f\n", report.TotalSpent)
	fmt.Fprintf(&t, "Previous period: %s\n", previous)
	fmt.Fprintf(&t, "Top categories: %s\n", topCats)
	fmt.Fprintf(&t, "Budget remaining: %s\n\n", remaining)
	t.WriteString("See attached CSV for full detail.")

	return h.String(), t.String()
}
