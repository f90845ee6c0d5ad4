package events

import (
	"encoding/json"
	"time"
)

// ExpenseIngested 一条消费记录写入完成后发布
type ExpenseIngested struct {
	ExpenseID        string    `json:"expenseId"`
	UserID           string    `json:"userId"`
	Action           string    `json:"action"`
	Title            string    `json:"title"`
	Amount           float64   `json:"amount"`
	Category         string    `json:"category"`
	Date             time.Time `json:"date"`
	RemainingBudget  float64   `json:"remainingBudget"`
	WebhookTriggered bool      `json:"webhookTriggered"`
	Timestamp        time.Time `json:"timestamp"`
}

func (m *ExpenseIngested) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ExpenseIngestedFromJSON(data []byte) (*ExpenseIngested, error) {
	var msg ExpenseIngested
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
