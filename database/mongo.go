package database

import (
	"context"
	"time"

	"expensetracker/config"
	"expensetracker/logger"
	"expensetracker/store"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// OpenMongo 连接 MongoDB 并确保索引存在
func OpenMongo(ctx context.Context, c config.DatabaseConfig) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(c.MongoURI))
	if err != nil {
		return nil, errors.Wrap(err, "connect mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, errors.Wrap(err, "ping mongo")
	}

	if err := EnsureIndexes(ctx, client.Database(c.MongoDB)); err != nil {
		return nil, err
	}
	logger.Info("mongo initialized", zap.String("db", c.MongoDB))
	return client, nil
}

// Indexes 各集合需要的索引
func Indexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		store.CollUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		store.CollExpenses: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}}},
		},
		store.CollRecurring: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "nextRun", Value: 1}, {Key: "active", Value: 1}}},
		},
		store.CollAudits: {
			{Keys: bson.D{{Key: "expenseId", Value: 1}, {Key: "action", Value: 1}}},
		},
		store.CollCategories: {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}
}

// EnsureIndexes 创建索引，已存在时为空操作
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for coll, models := range Indexes() {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return errors.Wrapf(err, "create indexes on %s", coll)
		}
	}
	return nil
}
