package service

import (
	"context"
	"strings"

	"expensetracker/errs"
	"expensetracker/logger"
	"expensetracker/models"
	"expensetracker/store"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// CategoryInput 创建类别
type CategoryInput struct {
	Name  string `json:"name" validate:"required,min=2,max=50"`
	Emoji string `json:"emoji" validate:"max=4"`
	Color string `json:"color" validate:"max=20"`
}

// CategoryService 消费类别
type CategoryService struct {
	store store.CategoryStore
}

func NewCategoryService(st store.CategoryStore) *CategoryService {
	return &CategoryService{store: st}
}

// Create slug 由名称生成，重复时返回 Conflict
func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*models.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Emoji = strings.TrimSpace(in.Emoji)
	in.Color = strings.TrimSpace(in.Color)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	slug := models.Slugify(in.Name)
	if slug == "" {
		return nil, errs.Validation(errs.FieldError{Field: "name", Message: "must contain letters or digits", Tag: "slug"})
	}
	c := &models.Category{Name: in.Name, Slug: slug, Emoji: in.Emoji, Color: in.Color}
	if err := s.store.CreateCategory(ctx, c); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, errs.Conflict("Category already exists")
		}
		return nil, errors.Wrap(err, "create category")
	}
	return c, nil
}

// List 按名称排序
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.store.ListCategories(ctx)
}

// defaultCategories 首次启动时写入的类别及颜色
var defaultCategories = []CategoryInput{
	{Name: "Food", Emoji: "🍔", Color: "#ef4444"},
	{Name: "Transport", Emoji: "🚌", Color: "#3b82f6"},
	{Name: "Shopping", Emoji: "🛍️", Color: "#a855f7"},
	{Name: "Entertainment", Emoji: "🎬", Color: "#ec4899"},
	{Name: "Health", Emoji: "💊", Color: "#10b981"},
	{Name: "Housing", Emoji: "🏠", Color: "#14b8a6"},
	{Name: "Other", Emoji: "📦", Color: "#64748b"},
}

// SeedDefaults 类别表为空时写入默认类别
func (s *CategoryService) SeedDefaults(ctx context.Context) error {
	existing, err := s.store.ListCategories(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, in := range defaultCategories {
		if _, err := s.Create(ctx, in); err != nil {
			return err
		}
	}
	logger.Info("seeded default categories", zap.Int("count", len(defaultCategories)))
	return nil
}
