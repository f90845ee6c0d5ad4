package store

import (
	"context"
	"time"

	"expensetracker/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// GormStore 基于 gorm 的 MySQL 存储
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

func (s *GormStore) CreateUser(ctx context.Context, u *models.User) error {
	return errors.Wrap(translate(s.db.WithContext(ctx).Create(u).Error), "create user")
}

func (s *GormStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, errors.Wrap(translate(err), "get user")
	}
	return &u, nil
}

func (s *GormStore) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "list users")
	}
	return users, nil
}

func (s *GormStore) CreateExpense(ctx context.Context, e *models.Expense) error {
	return errors.Wrap(translate(s.db.WithContext(ctx).Create(e).Error), "create expense")
}

func expenseScope(f ExpenseFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.UserID != "" {
			db = db.Where("user_id = ?", f.UserID)
		}
		if f.Category != "" {
			db = db.Where("category = ?", f.Category)
		}
		if !f.From.IsZero() {
			db = db.Where("date >= ?", f.From)
		}
		if !f.To.IsZero() {
			db = db.Where("date <= ?", f.To)
		}
		return db
	}
}

func (s *GormStore) ListExpenses(ctx context.Context, f ExpenseFilter) ([]models.Expense, error) {
	query := s.db.WithContext(ctx).Model(&models.Expense{}).Scopes(expenseScope(f)).Order("date DESC")
	if f.Skip > 0 {
		query = query.Offset(f.Skip)
	}
	if f.Limit > 0 {
		query = query.Limit(f.Limit)
	}
	list := []models.Expense{}
	if err := query.Find(&list).Error; err != nil {
		return nil, errors.Wrap(err, "list expenses")
	}
	return list, nil
}

func (s *GormStore) CountExpenses(ctx context.Context, f ExpenseFilter) (int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Expense{}).Scopes(expenseScope(f)).Count(&total).Error; err != nil {
		return 0, errors.Wrap(err, "count expenses")
	}
	return total, nil
}

func (s *GormStore) SumExpenses(ctx context.Context, f ExpenseFilter) (float64, error) {
	var total float64
	err := s.db.WithContext(ctx).Model(&models.Expense{}).
		Scopes(expenseScope(f)).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, errors.Wrap(err, "sum expenses")
	}
	return total, nil
}

func (s *GormStore) SumByCategory(ctx context.Context, f ExpenseFilter) ([]CategoryTotal, error) {
	list := []CategoryTotal{}
	err := s.db.WithContext(ctx).Model(&models.Expense{}).
		Scopes(expenseScope(f)).
		Select("category, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Group("category").
		Order("total DESC, category ASC").
		Scan(&list).Error
	if err != nil {
		return nil, errors.Wrap(err, "sum by category")
	}
	return list, nil
}

func (s *GormStore) CreateAudit(ctx context.Context, a *models.ExpenseAudit) error {
	return errors.Wrap(s.db.WithContext(ctx).Create(a).Error, "create audit")
}

func (s *GormStore) CreateRecurring(ctx context.Context, r *models.RecurringExpense) error {
	return errors.Wrap(s.db.WithContext(ctx).Create(r).Error, "create recurring")
}

func (s *GormStore) ListDueRecurring(ctx context.Context, now time.Time) ([]models.RecurringExpense, error) {
	list := []models.RecurringExpense{}
	err := s.db.WithContext(ctx).
		Where("active = ? AND next_run <= ?", true, now).
		Order("next_run ASC").
		Find(&list).Error
	if err != nil {
		return nil, errors.Wrap(err, "list due recurring")
	}
	return list, nil
}

func (s *GormStore) UpdateNextRun(ctx context.Context, id string, next time.Time) error {
	res := s.db.WithContext(ctx).Model(&models.RecurringExpense{}).
		Where("id = ?", id).
		Update("next_run", next)
	if res.Error != nil {
		return errors.Wrap(res.Error, "update next run")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) SumActiveRecurring(ctx context.Context, userID string) (float64, error) {
	var total float64
	err := s.db.WithContext(ctx).Model(&models.RecurringExpense{}).
		Where("user_id = ? AND active = ?", userID, true).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, errors.Wrap(err, "sum recurring")
	}
	return total, nil
}

func (s *GormStore) CreateCategory(ctx context.Context, c *models.Category) error {
	return errors.Wrap(translate(s.db.WithContext(ctx).Create(c).Error), "create category")
}

func (s *GormStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	list := []models.Category{}
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&list).Error; err != nil {
		return nil, errors.Wrap(err, "list categories")
	}
	return list, nil
}

func (s *GormStore) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
