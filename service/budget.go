package service

import "expensetracker/models"

// WebhookThreshold 剩余预算占比不高于该值时触发提醒
const WebhookThreshold = 0.20

// BudgetStatus 预算评估结果
type BudgetStatus struct {
	MonthlyBudget     float64  `json:"monthlyBudget"`
	TotalSpent        float64  `json:"totalSpent"`
	RemainingBudget   float64  `json:"remainingBudget"`
	Category          string   `json:"category,omitempty"`
	CategoryLimit     *float64 `json:"categoryLimit,omitempty"`
	CategorySpent     *float64 `json:"categorySpent,omitempty"`
	CategoryRemaining *float64 `json:"categoryRemaining,omitempty"`
	WebhookEligible   bool     `json:"webhookEligible"`
}

// EvaluateBudget 计算剩余预算及分类剩余预算，决定是否需要 webhook 提醒
// categorySpent 仅在该分类配置了预算时有值
func EvaluateBudget(user *models.User, totalSpent float64, category string, categorySpent *float64) BudgetStatus {
	remaining := user.MonthlyBudget - totalSpent
	status := BudgetStatus{
		MonthlyBudget:   user.MonthlyBudget,
		TotalSpent:      totalSpent,
		RemainingBudget: remaining,
		WebhookEligible: user.WebhookURL != "" && remaining/user.MonthlyBudget <= WebhookThreshold,
	}
	if limit, ok := user.CategoryLimit(category); ok {
		spent := 0.0
		if categorySpent != nil {
			spent = *categorySpent
		}
		left := limit - spent
		status.Category = category
		status.CategoryLimit = &limit
		status.CategorySpent = &spent
		status.CategoryRemaining = &left
	}
	return status
}
