// Package store 定义持久化接口及 MySQL、MongoDB、内存三种实现
package store

import (
	"context"
	"time"

	"expensetracker/models"

	"github.com/pkg/errors"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
)

// ExpenseFilter 消费记录查询条件，零值字段不参与过滤
type ExpenseFilter struct {
	UserID   string
	Category string
	From     time.Time
	To       time.Time
	Skip     int
	Limit    int
}

// CategoryTotal 分类汇总
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int64   `json:"count"`
}

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

type ExpenseStore interface {
	CreateExpense(ctx context.Context, e *models.Expense) error
	// ListExpenses 按 date 倒序
	ListExpenses(ctx context.Context, f ExpenseFilter) ([]models.Expense, error)
	CountExpenses(ctx context.Context, f ExpenseFilter) (int64, error)
	SumExpenses(ctx context.Context, f ExpenseFilter) (float64, error)
	// SumByCategory 按 total 倒序，相同时按分类名升序
	SumByCategory(ctx context.Context, f ExpenseFilter) ([]CategoryTotal, error)
}

type AuditStore interface {
	CreateAudit(ctx context.Context, a *models.ExpenseAudit) error
}

type RecurringStore interface {
	CreateRecurring(ctx context.Context, r *models.RecurringExpense) error
	// ListDueRecurring active 且 nextRun <= now，按 nextRun 升序
	ListDueRecurring(ctx context.Context, now time.Time) ([]models.RecurringExpense, error)
	UpdateNextRun(ctx context.Context, id string, next time.Time) error
	SumActiveRecurring(ctx context.Context, userID string) (float64, error)
}

type CategoryStore interface {
	CreateCategory(ctx context.Context, c *models.Category) error
	// ListCategories 按名称升序
	ListCategories(ctx context.Context) ([]models.Category, error)
}

// Store 全部持久化能力
type Store interface {
	UserStore
	ExpenseStore
	AuditStore
	RecurringStore
	CategoryStore
	Close(ctx context.Context) error
}
