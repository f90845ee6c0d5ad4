package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"expensetracker/config"
	"expensetracker/models"
	"expensetracker/service"
	"expensetracker/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)

type stubHook struct{ calls int }

func (s *stubHook) Dispatch(context.Context, string, service.BudgetThresholdEvent) error {
	s.calls++
	return nil
}

type stubMailer struct {
	sent []service.Message
	err  error
}

func (s *stubMailer) Name() string { return "stub" }

func (s *stubMailer) Send(_ context.Context, msg service.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

type testEnv struct {
	cfg    *config.Config
	store  *store.MemoryStore
	hook   *stubHook
	mailer *stubMailer
	router *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		cfg:    &config.Config{Server: config.ServerConfig{Mode: "debug"}},
		store:  store.NewMemoryStore(),
		hook:   &stubHook{},
		mailer: &stubMailer{},
	}
	clock := func() time.Time { return testNow }
	pipeline := service.NewPipeline(env.store, env.hook, service.WithClock(clock))
	io := service.NewExpenseIO(pipeline, env.store)
	reporter := service.NewReporter(env.store, nil, clock)
	broadcaster := service.NewBroadcaster(env.store, reporter, service.NewReportMailer(env.mailer, "reports@example.com"), config.ReportPeriodCurrent, clock)

	users := NewUserHandler(env.cfg, service.NewUserService(env.store))
	expenses := NewExpenseHandler(env.cfg, pipeline, io)
	exports := NewExportHandler(env.cfg, io)
	reports := NewReportHandler(env.cfg, reporter, broadcaster)
	recurring := NewRecurringHandler(env.cfg, service.NewRecurringEngine(env.store, pipeline), service.AbortOnError)
	categories := NewCategoryHandler(env.cfg, service.NewCategoryService(env.store))

	r := gin.New()
	r.POST("/api/users", users.Create)
	r.GET("/api/users/:id/expenses", reports.Expenses)
	r.GET("/api/users/:id/expenses/export", exports.ExportCSV)
	r.GET("/api/users/:id/expenses/export/xlsx", exports.ExportXLSX)
	r.GET("/api/users/:id/summary", reports.Summary)
	r.GET("/api/users/:id/insights", reports.Insights)
	r.GET("/api/users/:id/forecast", reports.Forecast)
	r.POST("/api/users/:id/test-report", reports.TestReport)
	r.POST("/api/expenses", expenses.Create)
	r.POST("/api/expenses/import", expenses.Import)
	r.POST("/api/recurring", recurring.Create)
	r.POST("/api/recurring/run", recurring.Run)
	r.GET("/api/categories", categories.List)
	r.POST("/api/categories", categories.Create)
	env.router = r
	return env
}

func (e *testEnv) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) user(t *testing.T, u models.User) *models.User {
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
	require.NoError(t, e.store.CreateUser(context.Background(), &u))
	return &u
}

// testResponse 解析通用响应，data 保留原始 JSON 供各用例再解析
type testResponse struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  []json.RawMessage `json:"errors"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) testResponse {
	t.Helper()
	var resp testResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	if data != nil && len(resp.Data) > 0 {
		require.NoError(t, json.Unmarshal(resp.Data, data))
	}
	return resp
}

func fieldNames(t *testing.T, resp testResponse) []string {
	t.Helper()
	var names []string
	for _, raw := range resp.Errors {
		var fe struct {
			Field string `json:"field"`
		}
		require.NoError(t, json.Unmarshal(raw, &fe))
		names = append(names, fe.Field)
	}
	return names
}
