package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"expensetracker/events"
	"expensetracker/models"
	"expensetracker/store"

	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type fakeWebhook struct {
	mu    sync.Mutex
	calls []BudgetThresholdEvent
	urls  []string
	err   error
}

func (f *fakeWebhook) Dispatch(_ context.Context, url string, event BudgetThresholdEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.urls = append(f.urls, url)
	f.calls = append(f.calls, event)
	return f.err
}

type fakePublisher struct {
	msgs []events.ExpenseIngested
	err  error
}

func (f *fakePublisher) PublishExpenseIngested(_ context.Context, msg events.ExpenseIngested) error {
	f.msgs = append(f.msgs, msg)
	return f.err
}

type fakeCache struct {
	data        map[string]interface{}
	invalidated []string
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string]interface{}{}} }

func (f *fakeCache) Get(userID, option string, dst interface{}) bool {
	v, ok := f.data[userID+":"+option]
	if !ok {
		return false
	}
	switch d := dst.(type) {
	case *MonthlySummary:
		*d = *(v.(*MonthlySummary))
	case *Insights:
		*d = *(v.(*Insights))
	default:
		return false
	}
	return true
}

func (f *fakeCache) Set(userID, option string, v interface{}) error {
	f.data[userID+":"+option] = v
	return nil
}

func (f *fakeCache) Invalidate(userID string) error {
	f.invalidated = append(f.invalidated, userID)
	for k := range f.data {
		if len(k) > len(userID) && k[:len(userID)+1] == userID+":" {
			delete(f.data, k)
		}
	}
	return nil
}

type fakeMailer struct {
	sent   []Message
	failTo map[string]error
}

func (f *fakeMailer) Name() string { return "fake" }

func (f *fakeMailer) Send(_ context.Context, msg Message) error {
	if err := f.failTo[msg.To]; err != nil {
		return err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fixture struct {
	store    *store.MemoryStore
	webhook  *fakeWebhook
	pipeline *Pipeline
}

func newFixture(opts ...PipelineOption) *fixture {
	st := store.NewMemoryStore()
	hook := &fakeWebhook{}
	opts = append([]PipelineOption{WithClock(fixedClock)}, opts...)
	return &fixture{store: st, webhook: hook, pipeline: NewPipeline(st, hook, opts...)}
}

func (f *fixture) user(t *testing.T, u models.User) *models.User {
	t.Helper()
	if u.Name == "" {
		u.Name = "Ann"
	}
	if u.Email == "" {
		u.Email = models.NewID()[:8] + "@example.com"
	}
	if u.MonthlyBudget == 0 {
		u.MonthlyBudget = 100
	}
	require.NoError(t, f.store.CreateUser(context.Background(), &u))
	return &u
}

func (f *fixture) expense(t *testing.T, userID, category string, amount float64, date time.Time) {
	t.Helper()
	require.NoError(t, f.store.CreateExpense(context.Background(), &models.Expense{
		Title: "seed", Amount: amount, Category: category, Date: date, UserID: userID,
	}))
}

func intPtr(v int) *int { return &v }
