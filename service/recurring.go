package service

import (
	"context"
	"strings"
	"time"

	"expensetracker/logger"
	"expensetracker/metrics"
	"expensetracker/models"
	"expensetracker/store"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// RecurringInput 创建周期支出模板
type RecurringInput struct {
	Title      string   `json:"title" validate:"required,min=2,max=200"`
	Amount     float64  `json:"amount" validate:"gt=0"`
	Category   string   `json:"category" validate:"required,min=2,max=50"`
	DayOfMonth int      `json:"dayOfMonth" validate:"min=1,max=28"`
	Cadence    string   `json:"cadence" validate:"omitempty,oneof=monthly"`
	Tags       []string `json:"tags" validate:"omitempty,dive,min=1,max=30"`
	Note       string   `json:"note" validate:"max=500"`
	UserID     string   `json:"userId" validate:"required"`
}

// RecurringRunItem 单个模板的执行结果
type RecurringRunItem struct {
	RecurringID string          `json:"recurringId"`
	Expense     *models.Expense `json:"expense,omitempty"`
	Error       string          `json:"error,omitempty"`
	Err         error           `json:"-"`
}

// RunDueResult 执行到期模板的结果
type RunDueResult struct {
	Processed int                `json:"processed"`
	Failed    int                `json:"failed"`
	Items     []RecurringRunItem `json:"items"`
}

// RecurringStore 周期引擎需要的存储能力
type RecurringStore interface {
	store.UserStore
	store.RecurringStore
}

// RecurringEngine 周期支出
type RecurringEngine struct {
	store    RecurringStore
	pipeline *Pipeline
}

func NewRecurringEngine(st RecurringStore, p *Pipeline) *RecurringEngine {
	return &RecurringEngine{store: st, pipeline: p}
}

// NextRunFrom 本月 dayOfMonth 零点，已过则顺延一个月
func NextRunFrom(now time.Time, dayOfMonth int) time.Time {
	next := time.Date(now.Year(), now.Month(), dayOfMonth, 0, 0, 0, 0, now.Location())
	if next.Before(now) {
		next = next.AddDate(0, 1, 0)
	}
	return next
}

// Create 创建模板，active 默认为 true
func (e *RecurringEngine) Create(ctx context.Context, in RecurringInput) (*models.RecurringExpense, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Category = strings.TrimSpace(in.Category)
	in.UserID = strings.TrimSpace(in.UserID)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	user, err := loadUser(ctx, e.store, in.UserID)
	if err != nil {
		return nil, err
	}
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	rec := &models.RecurringExpense{
		Title:      in.Title,
		Amount:     in.Amount,
		Category:   in.Category,
		DayOfMonth: in.DayOfMonth,
		Cadence:    models.CadenceMonthly,
		Tags:       tags,
		Note:       strings.TrimSpace(in.Note),
		UserID:     user.ID,
		Active:     true,
		NextRun:    NextRunFrom(e.pipeline.Now(), in.DayOfMonth),
	}
	if err := e.store.CreateRecurring(ctx, rec); err != nil {
		return nil, errors.Wrap(err, "create recurring")
	}
	return rec, nil
}

// RunDue 依次执行到期模板，消费日期取模板的 nextRun，成功后 nextRun 顺延一个月
// AbortOnError 时返回已处理的结果和首个错误
func (e *RecurringEngine) RunDue(ctx context.Context, policy BatchPolicy) (*RunDueResult, error) {
	due, err := e.store.ListDueRecurring(ctx, e.pipeline.Now())
	if err != nil {
		return nil, err
	}

	result := &RunDueResult{Items: []RecurringRunItem{}}
	for _, rec := range due {
		item := RecurringRunItem{RecurringID: rec.ID}
		expense, err := e.runOne(ctx, rec)
		metrics.ObserveRecurring(err)
		// 消费已写入但 nextRun 未顺延时仍带回记录
		item.Expense = expense
		if err != nil {
			item.Err, item.Error = err, err.Error()
			result.Failed++
			result.Items = append(result.Items, item)
			if policy == AbortOnError {
				return result, errors.Wrapf(err, "recurring %s", rec.ID)
			}
			logger.Warn("recurring item failed", zap.String("recurringId", rec.ID), zap.Error(err))
			continue
		}
		result.Processed++
		result.Items = append(result.Items, item)
	}
	return result, nil
}

func (e *RecurringEngine) runOne(ctx context.Context, rec models.RecurringExpense) (*models.Expense, error) {
	res, err := e.pipeline.Ingest(ctx, ExpenseInput{
		Title:    rec.Title,
		Amount:   rec.Amount,
		Category: rec.Category,
		Date:     NewDate(rec.NextRun),
		Tags:     rec.Tags,
		Note:     rec.Note,
		UserID:   rec.UserID,
	}, models.AuditRecurring)
	if err != nil {
		return nil, err
	}
	if err := e.store.UpdateNextRun(ctx, rec.ID, rec.NextRun.AddDate(0, 1, 0)); err != nil {
		logger.Error("recurring expense created but next run not advanced",
			zap.String("recurringId", rec.ID),
			zap.String("expenseId", res.Expense.ID),
			zap.Error(err),
		)
		return res.Expense, errors.Wrap(err, "advance next run")
	}
	return res.Expense, nil
}
