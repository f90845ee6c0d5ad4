package service

import (
	"context"
	"errors"
	"testing"

	"expensetracker/errs"
	"expensetracker/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Create(t *testing.T) {
	svc := NewUserService(store.NewMemoryStore())

	u, err := svc.Create(context.Background(), CreateUserInput{
		Name:            "  Ann  ",
		Email:           "Ann@Example.com",
		MonthlyBudget:   1000,
		CategoryBudgets: []CategoryBudgetInput{{Category: " food ", Limit: 200}},
		WebhookURL:      "https://hooks.example.com/x",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "Ann", u.Name)
	assert.Equal(t, "ann@example.com", u.Email)
	assert.Equal(t, "food", u.CategoryBudgets[0].Category)

	got, err := svc.Get(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)

	_, err = svc.Create(context.Background(), CreateUserInput{Name: "Ann2", Email: "ANN@example.com", MonthlyBudget: 1})
	assert.Equal(t, errs.KindConflict, errs.KindOf(err))
	assert.EqualError(t, err, "Email already registered")
}

func TestUserService_CreateValidation(t *testing.T) {
	svc := NewUserService(store.NewMemoryStore())

	_, err := svc.Create(context.Background(), CreateUserInput{
		Name:            "A",
		Email:           "not-an-email",
		MonthlyBudget:   0,
		CategoryBudgets: []CategoryBudgetInput{{Category: "food", Limit: -1}},
		WebhookURL:      "ftp://example.com",
	})
	e, ok := errs.As(err)
	require.True(t, ok)
	var fields []string
	for _, fe := range e.Fields {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"name", "email", "monthlyBudget", "categoryBudgets[0].limit", "webhookUrl"}, fields)
}

func TestUserService_Get(t *testing.T) {
	svc := NewUserService(store.NewMemoryStore())

	_, err := svc.Get(context.Background(), "123")
	assert.True(t, errors.Is(err, errs.ErrInvalidUserID))

	_, err = svc.Get(context.Background(), "6f1c2d3e-4b5a-4c6d-8e7f-0a1b2c3d4e5f")
	assert.True(t, errors.Is(err, errs.ErrUserNotFound))
}
