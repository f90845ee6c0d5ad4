package service

import (
	"context"
	"math"
	"strings"
	"time"

	"expensetracker/daterange"
	"expensetracker/errs"
	"expensetracker/events"
	"expensetracker/logger"
	"expensetracker/metrics"
	"expensetracker/models"
	"expensetracker/store"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ExpenseInput 写入消费记录的请求
type ExpenseInput struct {
	Title    string   `json:"title" validate:"required,min=2,max=200"`
	Amount   float64  `json:"amount" validate:"gt=0"`
	Category string   `json:"category" validate:"required,min=2,max=50"`
	Date     *Date    `json:"date" swaggertype:"string" example:"2024-03-01"`
	Tags     []string `json:"tags" validate:"omitempty,dive,min=1,max=30"`
	Note     string   `json:"note" validate:"max=500"`
	UserID   string   `json:"userId" validate:"required"`
}

func (in *ExpenseInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Category = strings.TrimSpace(in.Category)
	in.Note = strings.TrimSpace(in.Note)
	in.UserID = strings.TrimSpace(in.UserID)
}

// IngestResult 写入结果
type IngestResult struct {
	Expense          *models.Expense `json:"expense"`
	BudgetStatus     BudgetStatus    `json:"budgetStatus"`
	WebhookTriggered bool            `json:"webhookTriggered"`
}

// EventPublisher 写入事件发布
type EventPublisher interface {
	PublishExpenseIngested(ctx context.Context, msg events.ExpenseIngested) error
}

// ReportCache 报表缓存
type ReportCache interface {
	Get(userID, option string, dst interface{}) bool
	Set(userID, option string, v interface{}) error
	Invalidate(userID string) error
}

// IngestStore 写入流程需要的存储能力
type IngestStore interface {
	store.UserStore
	store.ExpenseStore
	store.AuditStore
}

// Pipeline 消费写入流程，直接创建、CSV 导入、周期生成共用
type Pipeline struct {
	store   IngestStore
	webhook WebhookDispatcher
	events  EventPublisher
	cache   ReportCache
	now     func() time.Time
}

type PipelineOption func(*Pipeline)

func WithClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) { p.now = now }
}

func WithEvents(pub EventPublisher) PipelineOption {
	return func(p *Pipeline) { p.events = pub }
}

func WithCache(c ReportCache) PipelineOption {
	return func(p *Pipeline) { p.cache = c }
}

func NewPipeline(st IngestStore, webhook WebhookDispatcher, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{store: st, webhook: webhook, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Now 流程使用的当前时间
func (p *Pipeline) Now() time.Time {
	return p.now()
}

// Ingest 写入一条消费记录并评估预算
// webhook 失败只记录日志，不影响写入结果
func (p *Pipeline) Ingest(ctx context.Context, in ExpenseInput, action string) (*IngestResult, error) {
	start := time.Now()
	res, err := p.ingest(ctx, in, action)
	metrics.ObserveIngest(action, time.Since(start), err)
	return res, err
}

func (p *Pipeline) ingest(ctx context.Context, in ExpenseInput, action string) (*IngestResult, error) {
	in.normalize()
	if math.IsInf(in.Amount, 0) || math.IsNaN(in.Amount) {
		return nil, invalidAmount()
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	user, err := loadUser(ctx, p.store, in.UserID)
	if err != nil {
		return nil, err
	}

	now := p.now()
	date := now
	if in.Date != nil {
		date = in.Date.Time
	}
	expense := &models.Expense{
		Title:    in.Title,
		Amount:   in.Amount,
		Category: in.Category,
		Date:     date,
		Tags:     in.Tags,
		Note:     in.Note,
		UserID:   user.ID,
	}
	if expense.Tags == nil {
		expense.Tags = []string{}
	}
	if err := p.store.CreateExpense(ctx, expense); err != nil {
		return nil, errors.Wrap(err, "persist expense")
	}

	audit := &models.ExpenseAudit{
		ExpenseID: expense.ID,
		UserID:    user.ID,
		Action:    action,
		Snapshot:  expense.Snapshot(),
	}
	if err := p.store.CreateAudit(ctx, audit); err != nil {
		return nil, errors.Wrap(err, "persist audit")
	}

	// 以当前时间所在自然月统计，与消费记录自身日期无关
	month := daterange.Current(now)
	filter := store.ExpenseFilter{UserID: user.ID, From: month.Start, To: month.End}
	total, err := p.store.SumExpenses(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "sum month spend")
	}

	var categorySpent *float64
	if _, ok := user.CategoryLimit(expense.Category); ok {
		filter.Category = expense.Category
		spent, err := p.store.SumExpenses(ctx, filter)
		if err != nil {
			return nil, errors.Wrap(err, "sum category spend")
		}
		categorySpent = &spent
	}

	status := EvaluateBudget(user, total, expense.Category, categorySpent)
	triggered := false
	if status.WebhookEligible {
		triggered = p.notify(ctx, user, status)
	}

	p.afterIngest(ctx, expense, action, status, triggered)

	return &IngestResult{Expense: expense, BudgetStatus: status, WebhookTriggered: triggered}, nil
}

func (p *Pipeline) notify(ctx context.Context, user *models.User, status BudgetStatus) bool {
	err := p.webhook.Dispatch(ctx, user.WebhookURL, BudgetThresholdEvent{
		Type:            "budget_threshold",
		UserID:          user.ID,
		RemainingBudget: status.RemainingBudget,
		MonthlyBudget:   status.MonthlyBudget,
	})
	metrics.ObserveWebhook(err)
	if err != nil {
		logger.Warn("budget webhook failed", zap.String("userId", user.ID), zap.Error(err))
		return false
	}
	return true
}

// afterIngest 事件发布与缓存失效，失败只记录日志
func (p *Pipeline) afterIngest(ctx context.Context, e *models.Expense, action string, status BudgetStatus, triggered bool) {
	if p.cache != nil {
		if err := p.cache.Invalidate(e.UserID); err != nil {
			logger.Warn("invalidate report cache", zap.String("userId", e.UserID), zap.Error(err))
		}
	}
	if p.events != nil {
		err := p.events.PublishExpenseIngested(ctx, events.ExpenseIngested{
			ExpenseID:        e.ID,
			UserID:           e.UserID,
			Action:           action,
			Title:            e.Title,
			Amount:           e.Amount,
			Category:         e.Category,
			Date:             e.Date,
			RemainingBudget:  status.RemainingBudget,
			WebhookTriggered: triggered,
		})
		if err != nil {
			logger.Warn("publish expense event", zap.String("expenseId", e.ID), zap.Error(err))
		}
	}
}

// loadUser 校验 ID 格式并读取用户
func loadUser(ctx context.Context, users store.UserStore, id string) (*models.User, error) {
	if err := checkUserID(id); err != nil {
		return nil, err
	}
	user, err := users.GetUser(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errs.ErrUserNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "load user")
	}
	return user, nil
}
