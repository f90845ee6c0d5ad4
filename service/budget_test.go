package service

import (
	"testing"

	"expensetracker/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateBudget_Threshold(t *testing.T) {
	user := &models.User{MonthlyBudget: 100, WebhookURL: "https://hooks.example.com/budget"}

	status := EvaluateBudget(user, 85, "food", nil)
	assert.Equal(t, 15.0, status.RemainingBudget)
	assert.True(t, status.WebhookEligible)
	assert.Nil(t, status.CategoryLimit)
	assert.Nil(t, status.CategoryRemaining)

	// 恰好 20% 也触发
	assert.True(t, EvaluateBudget(user, 80, "food", nil).WebhookEligible)
	assert.False(t, EvaluateBudget(user, 79.99, "food", nil).WebhookEligible)

	// 没有 webhookUrl 时不触发
	noHook := &models.User{MonthlyBudget: 100}
	assert.False(t, EvaluateBudget(noHook, 85, "food", nil).WebhookEligible)
}

func TestEvaluateBudget_Overspend(t *testing.T) {
	user := &models.User{MonthlyBudget: 100, WebhookURL: "https://hooks.example.com"}
	status := EvaluateBudget(user, 130, "rent", nil)
	assert.Equal(t, -30.0, status.RemainingBudget)
	assert.True(t, status.WebhookEligible)
}

func TestEvaluateBudget_Category(t *testing.T) {
	user := &models.User{
		MonthlyBudget:   200,
		CategoryBudgets: []models.CategoryBudget{{Category: "food", Limit: 50}},
	}
	spent := 55.0
	status := EvaluateBudget(user, 55, "food", &spent)

	require.NotNil(t, status.CategoryLimit)
	require.NotNil(t, status.CategoryRemaining)
	assert.Equal(t, 50.0, *status.CategoryLimit)
	assert.Equal(t, -5.0, *status.CategoryRemaining)
	assert.Equal(t, 145.0, status.RemainingBudget)
	assert.False(t, status.WebhookEligible)
}
