package service

import (
	"context"
	"time"

	"expensetracker/config"
	"expensetracker/daterange"
	"expensetracker/logger"
	"expensetracker/metrics"
	"expensetracker/store"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// BroadcastResult 一次群发的结果
type BroadcastResult struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// Broadcaster 给所有用户发送月度报表
type Broadcaster struct {
	users    store.UserStore
	reporter *Reporter
	mailer   *ReportMailer
	period   string
	now      func() time.Time
}

// NewBroadcaster period 为 current 或 previous
func NewBroadcaster(users store.UserStore, reporter *Reporter, mailer *ReportMailer, period string, now func() time.Time) *Broadcaster {
	if now == nil {
		now = time.Now
	}
	return &Broadcaster{users: users, reporter: reporter, mailer: mailer, period: period, now: now}
}

func (b *Broadcaster) target() (*int, *int) {
	if b.period != config.ReportPeriodPrevious {
		return nil, nil
	}
	prev := daterange.Current(b.now()).Previous()
	month, year := prev.Month(), prev.Year()
	return &month, &year
}

// RunAll 逐个用户生成并发送报表，单个用户失败只记录日志
func (b *Broadcaster) RunAll(ctx context.Context) (BroadcastResult, error) {
	var result BroadcastResult
	users, err := b.users.ListUsers(ctx)
	if err != nil {
		return result, errors.Wrap(err, "list users")
	}
	month, year := b.target()
	for _, u := range users {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		if _, err := b.SendOne(ctx, u.ID, month, year); err != nil {
			result.Failed++
			logger.Error("send report failed", zap.String("userId", u.ID), zap.Error(err))
			continue
		}
		result.Sent++
	}
	logger.Info("report broadcast finished", zap.Int("sent", result.Sent), zap.Int("failed", result.Failed))
	return result, nil
}

// SendOne 给单个用户生成并发送报表
func (b *Broadcaster) SendOne(ctx context.Context, userID string, month, year *int) (*Report, error) {
	report, err := b.reporter.GenerateUserReport(ctx, userID, month, year)
	if err != nil {
		return nil, err
	}
	err = b.mailer.SendReport(ctx, report)
	metrics.ObserveMail(err)
	if err != nil {
		return report, err
	}
	return report, nil
}
