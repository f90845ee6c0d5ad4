package database

import (
	"context"
	"fmt"

	"expensetracker/config"
	"expensetracker/logger"
	"expensetracker/models"
	"expensetracker/store"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open 按配置的驱动打开存储
func Open(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Database.Driver {
	case config.DriverMySQL:
		db, err := OpenMySQL(cfg)
		if err != nil {
			return nil, err
		}
		return store.NewGormStore(db), nil
	case config.DriverMongo:
		client, err := OpenMongo(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		return store.NewMongoStore(client, cfg.Database.MongoDB), nil
	default:
		logger.Warn("using in-memory store, data is lost on restart")
		return store.NewMemoryStore(), nil
	}
}

// DSN MySQL 连接字符串
func DSN(c config.DatabaseConfig) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
		c.Username,
		c.Password,
		c.Host,
		c.Port,
		c.DBName,
		c.Charset,
	)
}

// OpenMySQL 初始化 MySQL 连接并迁移表结构
func OpenMySQL(cfg *config.Config) (*gorm.DB, error) {
	level := gormlogger.Info
	if cfg.IsRelease() {
		level = gormlogger.Warn
	}
	db, err := gorm.Open(mysql.Open(DSN(cfg.Database)), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "connect mysql")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	logger.Info("mysql initialized", zap.String("host", cfg.Database.Host), zap.String("db", cfg.Database.DBName))
	return db, nil
}

// Migrate 自动迁移表结构
func Migrate(db *gorm.DB) error {
	return errors.Wrap(db.AutoMigrate(
		&models.User{},
		&models.Expense{},
		&models.ExpenseAudit{},
		&models.RecurringExpense{},
		&models.Category{},
	), "auto migrate")
}
