package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"expensetracker/models"
)

// MemoryStore 进程内存储，用于本地运行和测试
type MemoryStore struct {
	mu         sync.RWMutex
	users      []models.User
	expenses   []models.Expense
	audits     []models.ExpenseAudit
	recurring  []models.RecurringExpense
	categories []models.Category
	now        func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (s *MemoryStore) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return ErrDuplicate
		}
	}
	s.stamp(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	s.users = append(s.users, *u)
	return nil
}

func (s *MemoryStore) GetUser(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.users {
		if s.users[i].ID == id {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ListUsers(context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.User(nil), s.users...), nil
}

func (s *MemoryStore) CreateExpense(_ context.Context, e *models.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stamp(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	s.expenses = append(s.expenses, *e)
	return nil
}

func (s *MemoryStore) match(f ExpenseFilter) []models.Expense {
	var out []models.Expense
	for _, e := range s.expenses {
		if f.UserID != "" && e.UserID != f.UserID {
			continue
		}
		if f.Category != "" && e.Category != f.Category {
			continue
		}
		if !f.From.IsZero() && e.Date.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && e.Date.After(f.To) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (s *MemoryStore) ListExpenses(_ context.Context, f ExpenseFilter) ([]models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.match(f)
	sort.SliceStable(list, func(i, j int) bool { return list[i].Date.After(list[j].Date) })
	if f.Skip > 0 {
		if f.Skip >= len(list) {
			return []models.Expense{}, nil
		}
		list = list[f.Skip:]
	}
	if f.Limit > 0 && f.Limit < len(list) {
		list = list[:f.Limit]
	}
	if list == nil {
		list = []models.Expense{}
	}
	return list, nil
}

func (s *MemoryStore) CountExpenses(_ context.Context, f ExpenseFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.match(f))), nil
}

func (s *MemoryStore) SumExpenses(_ context.Context, f ExpenseFilter) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total float64
	for _, e := range s.match(f) {
		total += e.Amount
	}
	return total, nil
}

func (s *MemoryStore) SumByCategory(_ context.Context, f ExpenseFilter) ([]CategoryTotal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := map[string]int{}
	out := []CategoryTotal{}
	for _, e := range s.match(f) {
		i, ok := idx[e.Category]
		if !ok {
			i = len(out)
			idx[e.Category] = i
			out = append(out, CategoryTotal{Category: e.Category})
		}
		out[i].Total += e.Amount
		out[i].Count++
	}
	SortCategoryTotals(out)
	return out, nil
}

func (s *MemoryStore) CreateAudit(_ context.Context, a *models.ExpenseAudit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var updated time.Time
	s.stamp(&a.ID, &a.CreatedAt, &updated)
	s.audits = append(s.audits, *a)
	return nil
}

// Audits 返回某条消费的审计记录
func (s *MemoryStore) Audits(expenseID string) []models.ExpenseAudit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.ExpenseAudit
	for _, a := range s.audits {
		if a.ExpenseID == expenseID {
			out = append(out, a)
		}
	}
	return out
}

func (s *MemoryStore) CreateRecurring(_ context.Context, r *models.RecurringExpense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stamp(&r.ID, &r.CreatedAt, &r.UpdatedAt)
	s.recurring = append(s.recurring, *r)
	return nil
}

func (s *MemoryStore) ListDueRecurring(_ context.Context, now time.Time) ([]models.RecurringExpense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.RecurringExpense{}
	for _, r := range s.recurring {
		if r.Active && !r.NextRun.After(now) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].NextRun.Before(out[j].NextRun) })
	return out, nil
}

func (s *MemoryStore) UpdateNextRun(_ context.Context, id string, next time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.recurring {
		if s.recurring[i].ID == id {
			s.recurring[i].NextRun = next
			s.recurring[i].UpdatedAt = s.now()
			return nil
		}
	}
	return ErrNotFound
}

// Recurring 按 ID 取周期模板
func (s *MemoryStore) Recurring(id string) (models.RecurringExpense, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.recurring {
		if r.ID == id {
			return r, true
		}
	}
	return models.RecurringExpense{}, false
}

func (s *MemoryStore) SumActiveRecurring(_ context.Context, userID string) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total float64
	for _, r := range s.recurring {
		if r.Active && r.UserID == userID {
			total += r.Amount
		}
	}
	return total, nil
}

func (s *MemoryStore) CreateCategory(_ context.Context, c *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.categories {
		if existing.Slug == c.Slug {
			return ErrDuplicate
		}
	}
	s.stamp(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	s.categories = append(s.categories, *c)
	return nil
}

func (s *MemoryStore) ListCategories(context.Context) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]models.Category{}, s.categories...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) Close(context.Context) error { return nil }

func (s *MemoryStore) stamp(id *string, created, updated *time.Time) {
	if *id == "" {
		*id = models.NewID()
	}
	t := s.now()
	*created, *updated = t, t
}

// SortCategoryTotals total 倒序，相同时按分类名升序
func SortCategoryTotals(list []CategoryTotal) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Total != list[j].Total {
			return list[i].Total > list[j].Total
		}
		return list[i].Category < list[j].Category
	})
}
