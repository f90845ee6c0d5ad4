package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"expensetracker/errs"

	"github.com/pkg/errors"
)

// BudgetThresholdEvent 预算提醒 webhook 的请求体
type BudgetThresholdEvent struct {
	Type            string  `json:"type"`
	UserID          string  `json:"userId"`
	RemainingBudget float64 `json:"remainingBudget"`
	MonthlyBudget   float64 `json:"monthlyBudget"`
}

// WebhookDispatcher 投递预算提醒
type WebhookDispatcher interface {
	Dispatch(ctx context.Context, url string, event BudgetThresholdEvent) error
}

// HTTPWebhook 单次 POST，不重试
type HTTPWebhook struct {
	client *http.Client
}

func NewHTTPWebhook(timeout time.Duration) *HTTPWebhook {
	return &HTTPWebhook{client: &http.Client{Timeout: timeout}}
}

func (w *HTTPWebhook) Dispatch(ctx context.Context, url string, event BudgetThresholdEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal webhook event")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return &errs.WebhookDeliveryFailure{URL: url, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return &errs.WebhookDeliveryFailure{URL: url, Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &errs.WebhookDeliveryFailure{URL: url, Status: resp.StatusCode}
	}
	return nil
}
