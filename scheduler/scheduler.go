// Package scheduler 定时群发月度报表，以及可选的周期支出扫描
package scheduler

import (
	"context"
	"time"

	"expensetracker/config"
	"expensetracker/logger"
	"expensetracker/service"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Broadcaster 报表群发
type Broadcaster interface {
	RunAll(ctx context.Context) (service.BroadcastResult, error)
}

// RecurringRunner 周期支出执行
type RecurringRunner interface {
	RunDue(ctx context.Context, policy service.BatchPolicy) (*service.RunDueResult, error)
}

// Scheduler 基于 cron 的定时任务
type Scheduler struct {
	cron      *cron.Cron
	broadcast Broadcaster
	recurring RecurringRunner
	policy    service.BatchPolicy
	timeout   time.Duration
}

// New 注册月度、年度报表任务；RecurringSpec 非空时注册周期支出扫描
func New(cfg config.SchedulerConfig, broadcast Broadcaster, recurring RecurringRunner, policy service.BatchPolicy) (*Scheduler, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, errors.Wrapf(err, "load timezone %q", cfg.Timezone)
	}
	log := cronLogger{logger.With(zap.String("component", "scheduler")).Sugar()}
	s := &Scheduler{
		cron:      cron.New(cron.WithLocation(loc), cron.WithLogger(log), cron.WithChain(cron.Recover(log), cron.SkipIfStillRunning(log))),
		broadcast: broadcast,
		recurring: recurring,
		policy:    policy,
		timeout:   time.Hour,
	}

	jobs := []struct {
		name string
		spec string
		run  func(context.Context)
	}{
		{"monthly-report", cfg.MonthlySpec, s.runBroadcast},
		{"annual-report", cfg.AnnualSpec, s.runBroadcast},
		{"recurring", cfg.RecurringSpec, s.runRecurring},
	}
	for _, job := range jobs {
		if job.spec == "" {
			continue
		}
		if err := s.add(job.name, job.spec, job.run); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Scheduler) add(name, spec string, run func(context.Context)) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		logger.Info("scheduled job started", zap.String("job", name))
		run(ctx)
	})
	return errors.Wrapf(err, "schedule %s (%q)", name, spec)
}

func (s *Scheduler) runBroadcast(ctx context.Context) {
	res, err := s.broadcast.RunAll(ctx)
	if err != nil {
		logger.Error("report broadcast aborted", zap.Error(err), zap.Int("sent", res.Sent), zap.Int("failed", res.Failed))
	}
}

func (s *Scheduler) runRecurring(ctx context.Context) {
	res, err := s.recurring.RunDue(ctx, s.policy)
	if err != nil {
		logger.Error("recurring sweep failed", zap.String("policy", s.policy.String()), zap.Error(err))
		return
	}
	logger.Info("recurring sweep finished", zap.Int("processed", res.Processed), zap.Int("failed", res.Failed))
}

// Start 后台运行
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop 停止调度，返回的 context 在运行中的任务结束后关闭
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// Entries 已注册的任务数
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

// cronLogger 把 cron 的日志转到 zap
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
