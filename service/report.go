package service

import (
	"context"
	"time"

	"expensetracker/daterange"
	"expensetracker/errs"
	"expensetracker/logger"
	"expensetracker/models"
	"expensetracker/store"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const topCategoryCount = 3

// ReportStore 报表需要的存储能力
type ReportStore interface {
	store.UserStore
	store.ExpenseStore
	store.RecurringStore
}

// Reporter 汇总、报表、洞察、预测
type Reporter struct {
	store ReportStore
	cache ReportCache
	now   func() time.Time
}

// NewReporter cache 可为 nil
func NewReporter(st ReportStore, cache ReportCache, now func() time.Time) *Reporter {
	if now == nil {
		now = time.Now
	}
	return &Reporter{store: st, cache: cache, now: now}
}

// MonthlySummary 月度汇总
type MonthlySummary struct {
	Month           int     `json:"month"`
	Year            int     `json:"year"`
	TotalSpent      float64 `json:"totalSpent"`
	ExpenseCount    int64   `json:"expenseCount"`
	MonthlyBudget   float64 `json:"monthlyBudget"`
	RemainingBudget float64 `json:"remainingBudget"`
}

// ExpensePage 分页的消费记录
type ExpensePage struct {
	Expenses []models.Expense `json:"expenses"`
	Page     int              `json:"page"`
	Limit    int              `json:"limit"`
	Total    int64            `json:"total"`
}

// Report 用户月度报表
type Report struct {
	UserID          string                `json:"userId"`
	UserName        string                `json:"userName"`
	UserEmail       string                `json:"userEmail"`
	PeriodLabel     string                `json:"periodLabel"`
	Start           time.Time             `json:"start"`
	End             time.Time             `json:"end"`
	TotalSpent      float64               `json:"totalSpent"`
	PreviousTotal   float64               `json:"previousTotal"`
	TopCategories   []store.CategoryTotal `json:"topCategories"`
	MonthlyBudget   float64               `json:"monthlyBudget"`
	RemainingBudget float64               `json:"remainingBudget"`
	ExpenseCount    int                   `json:"expenseCount"`
	CSV             []byte                `json:"-"`
}

// Spike 相比上月翻倍的分类
type Spike struct {
	Category string  `json:"category"`
	Current  float64 `json:"current"`
	Previous float64 `json:"previous"`
}

// Period 零基月份与年份
type Period struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

// Totals 本月与上月合计
type Totals struct {
	Current  float64 `json:"current"`
	Previous float64 `json:"previous"`
}

// Insights 月度洞察
type Insights struct {
	Period            Period                `json:"period"`
	Totals            Totals                `json:"totals"`
	CategoryBreakdown []store.CategoryTotal `json:"categoryBreakdown"`
	TopCategories     []store.CategoryTotal `json:"topCategories"`
	Spikes            []Spike               `json:"spikes"`
	MonthlyBudget     float64               `json:"monthlyBudget"`
	RemainingBudget   float64               `json:"remainingBudget"`
}

// Forecast 月度支出预测
type Forecast struct {
	Month            int     `json:"month"`
	Year             int     `json:"year"`
	ForecastTotal    float64 `json:"forecastTotal"`
	RecurringTotal   float64 `json:"recurringTotal"`
	VariableEstimate float64 `json:"variableEstimate"`
	MonthlyBudget    float64 `json:"monthlyBudget"`
	RemainingBudget  float64 `json:"remainingBudget"`
}

// MonthlySummary month 为零基，缺省取当前月/年
func (r *Reporter) MonthlySummary(ctx context.Context, userID string, month, year *int) (*MonthlySummary, error) {
	user, err := loadUser(ctx, r.store, userID)
	if err != nil {
		return nil, err
	}
	rng := daterange.Resolve(r.now(), month, year)
	key := "summary:" + rng.Label()

	var cached MonthlySummary
	if r.cache != nil && r.cache.Get(user.ID, key, &cached) {
		return &cached, nil
	}

	filter := store.ExpenseFilter{UserID: user.ID, From: rng.Start, To: rng.End}
	var (
		total float64
		count int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		total, err = r.store.SumExpenses(gctx, filter)
		return err
	})
	g.Go(func() (err error) {
		count, err = r.store.CountExpenses(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "monthly summary")
	}

	summary := &MonthlySummary{
		Month:           rng.Month(),
		Year:            rng.Year(),
		TotalSpent:      total,
		ExpenseCount:    count,
		MonthlyBudget:   user.MonthlyBudget,
		RemainingBudget: user.MonthlyBudget - total,
	}
	r.saveCache(user.ID, key, summary)
	return summary, nil
}

// ListExpenses 分页查询，page 从 1 开始，limit 1-100
func (r *Reporter) ListExpenses(ctx context.Context, userID string, page, limit int, category string) (*ExpensePage, error) {
	var fields []errs.FieldError
	if page < 1 {
		fields = append(fields, errs.FieldError{Field: "page", Message: "must be at least 1", Tag: "min"})
	}
	if limit < 1 || limit > 100 {
		fields = append(fields, errs.FieldError{Field: "limit", Message: "must be between 1 and 100", Tag: "range"})
	}
	if len(fields) > 0 {
		return nil, errs.Validation(fields...)
	}
	user, err := loadUser(ctx, r.store, userID)
	if err != nil {
		return nil, err
	}

	filter := store.ExpenseFilter{UserID: user.ID, Category: category}
	total, err := r.store.CountExpenses(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "count expenses")
	}
	filter.Skip, filter.Limit = (page-1)*limit, limit
	list, err := r.store.ListExpenses(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "list expenses")
	}
	return &ExpensePage{Expenses: list, Page: page, Limit: limit, Total: total}, nil
}

// GenerateUserReport 生成月度报表及对应 CSV，三项查询并发执行
func (r *Reporter) GenerateUserReport(ctx context.Context, userID string, month, year *int) (*Report, error) {
	user, err := loadUser(ctx, r.store, userID)
	if err != nil {
		return nil, err
	}
	rng := daterange.Resolve(r.now(), month, year)
	prev := rng.Previous()

	var (
		breakdown []store.CategoryTotal
		prevTotal float64
		expenses  []models.Expense
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		breakdown, err = r.store.SumByCategory(gctx, store.ExpenseFilter{UserID: user.ID, From: rng.Start, To: rng.End})
		return err
	})
	g.Go(func() (err error) {
		prevTotal, err = r.store.SumExpenses(gctx, store.ExpenseFilter{UserID: user.ID, From: prev.Start, To: prev.End})
		return err
	})
	g.Go(func() (err error) {
		expenses, err = r.store.ListExpenses(gctx, store.ExpenseFilter{UserID: user.ID, From: rng.Start, To: rng.End})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "generate report")
	}

	total := sumTotals(breakdown)
	return &Report{
		UserID:          user.ID,
		UserName:        user.Name,
		UserEmail:       user.Email,
		PeriodLabel:     rng.Label(),
		Start:           rng.Start,
		End:             rng.End,
		TotalSpent:      total,
		PreviousTotal:   prevTotal,
		TopCategories:   topCategories(breakdown),
		MonthlyBudget:   user.MonthlyBudget,
		RemainingBudget: user.MonthlyBudget - total,
		ExpenseCount:    len(expenses),
		CSV:             BuildCSV(expenses),
	}, nil
}

// Insights 本月与上月对比
func (r *Reporter) Insights(ctx context.Context, userID string, month, year *int) (*Insights, error) {
	user, err := loadUser(ctx, r.store, userID)
	if err != nil {
		return nil, err
	}
	rng := daterange.Resolve(r.now(), month, year)
	prev := rng.Previous()
	key := "insights:" + rng.Label()

	var cached Insights
	if r.cache != nil && r.cache.Get(user.ID, key, &cached) {
		return &cached, nil
	}

	var current, previous []store.CategoryTotal
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		current, err = r.store.SumByCategory(gctx, store.ExpenseFilter{UserID: user.ID, From: rng.Start, To: rng.End})
		return err
	})
	g.Go(func() (err error) {
		previous, err = r.store.SumByCategory(gctx, store.ExpenseFilter{UserID: user.ID, From: prev.Start, To: prev.End})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "insights")
	}

	currentTotal := sumTotals(current)
	insights := &Insights{
		Period:            Period{Month: rng.Month(), Year: rng.Year()},
		Totals:            Totals{Current: currentTotal, Previous: sumTotals(previous)},
		CategoryBreakdown: current,
		TopCategories:     topCategories(current),
		Spikes:            DetectSpikes(current, previous),
		MonthlyBudget:     user.MonthlyBudget,
		RemainingBudget:   user.MonthlyBudget - currentTotal,
	}
	r.saveCache(user.ID, key, insights)
	return insights, nil
}

// Forecast 周期模板合计加最近 30 天支出
func (r *Reporter) Forecast(ctx context.Context, userID string, month, year *int) (*Forecast, error) {
	user, err := loadUser(ctx, r.store, userID)
	if err != nil {
		return nil, err
	}
	now := r.now()
	rng := daterange.Resolve(now, month, year)

	var recurringTotal, last30 float64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		recurringTotal, err = r.store.SumActiveRecurring(gctx, user.ID)
		return err
	})
	g.Go(func() (err error) {
		last30, err = r.store.SumExpenses(gctx, store.ExpenseFilter{UserID: user.ID, From: now.AddDate(0, 0, -30), To: now})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "forecast")
	}

	// TODO: 产品确认后改为按当月剩余天数推算日均支出，替换固定的 30/30 缩放
	variable := (last30 / 30) * 30
	forecast := recurringTotal + variable
	return &Forecast{
		Month:            rng.Month(),
		Year:             rng.Year(),
		ForecastTotal:    forecast,
		RecurringTotal:   recurringTotal,
		VariableEstimate: variable,
		MonthlyBudget:    user.MonthlyBudget,
		RemainingBudget:  user.MonthlyBudget - forecast,
	}, nil
}

func (r *Reporter) saveCache(userID, key string, v interface{}) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Set(userID, key, v); err != nil {
		logger.Warn("cache report", zap.String("userId", userID), zap.String("key", key), zap.Error(err))
	}
}

// DetectSpikes 本月 >= 上月 2 倍且上月 > 0 的分类
func DetectSpikes(current, previous []store.CategoryTotal) []Spike {
	prev := make(map[string]float64, len(previous))
	for _, p := range previous {
		prev[p.Category] = p.Total
	}
	spikes := []Spike{}
	for _, c := range current {
		p := prev[c.Category]
		if p > 0 && c.Total >= 2*p {
			spikes = append(spikes, Spike{Category: c.Category, Current: c.Total, Previous: p})
		}
	}
	return spikes
}

func sumTotals(list []store.CategoryTotal) float64 {
	var total float64
	for _, c := range list {
		total += c.Total
	}
	return total
}

func topCategories(list []store.CategoryTotal) []store.CategoryTotal {
	sorted := append([]store.CategoryTotal{}, list...)
	store.SortCategoryTotals(sorted)
	if len(sorted) > topCategoryCount {
		sorted = sorted[:topCategoryCount]
	}
	return sorted
}
