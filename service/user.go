package service

import (
	"context"
	"strings"

	"expensetracker/errs"
	"expensetracker/models"
	"expensetracker/store"

	"github.com/pkg/errors"
)

// CreateUserInput 创建用户
type CreateUserInput struct {
	Name            string                `json:"name" validate:"required,min=2,max=100"`
	Email           string                `json:"email" validate:"required,email"`
	MonthlyBudget   float64               `json:"monthlyBudget" validate:"gt=0"`
	CategoryBudgets []CategoryBudgetInput `json:"categoryBudgets" validate:"omitempty,dive"`
	WebhookURL      string                `json:"webhookUrl" validate:"omitempty,httpurl"`
}

// CategoryBudgetInput 分类预算
type CategoryBudgetInput struct {
	Category string  `json:"category" validate:"required,min=2,max=50"`
	Limit    float64 `json:"limit" validate:"gt=0"`
}

// UserService 用户
type UserService struct {
	store store.UserStore
}

func NewUserService(st store.UserStore) *UserService {
	return &UserService{store: st}
}

// Create 邮箱转小写，重复时返回 Conflict
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.WebhookURL = strings.TrimSpace(in.WebhookURL)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	budgets := make([]models.CategoryBudget, 0, len(in.CategoryBudgets))
	for _, b := range in.CategoryBudgets {
		budgets = append(budgets, models.CategoryBudget{Category: strings.TrimSpace(b.Category), Limit: b.Limit})
	}
	user := &models.User{
		Name:            in.Name,
		Email:           in.Email,
		MonthlyBudget:   in.MonthlyBudget,
		CategoryBudgets: budgets,
		WebhookURL:      in.WebhookURL,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, errs.Conflict("Email already registered")
		}
		return nil, errors.Wrap(err, "create user")
	}
	return user, nil
}

// Get 按 ID 读取用户
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	return loadUser(ctx, s.store, id)
}
