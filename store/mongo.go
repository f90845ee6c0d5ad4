package store

import (
	"context"
	"time"

	"expensetracker/models"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// 集合名
const (
	CollUsers      = "users"
	CollExpenses   = "expenses"
	CollAudits     = "expense_audits"
	CollRecurring  = "recurring_expenses"
	CollCategories = "categories"
)

// MongoStore MongoDB 存储
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
	now    func() time.Time
}

var _ Store = (*MongoStore)(nil)

func NewMongoStore(client *mongo.Client, dbName string) *MongoStore {
	return &MongoStore{client: client, db: client.Database(dbName), now: time.Now}
}

func mongoErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	default:
		return err
	}
}

func (s *MongoStore) stamp(id *string, created, updated *time.Time) {
	if *id == "" {
		*id = models.NewID()
	}
	t := s.now()
	*created = t
	if updated != nil {
		*updated = t
	}
}

func (s *MongoStore) CreateUser(ctx context.Context, u *models.User) error {
	s.stamp(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	_, err := s.db.Collection(CollUsers).InsertOne(ctx, u)
	return errors.Wrap(mongoErr(err), "create user")
}

func (s *MongoStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.db.Collection(CollUsers).FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, errors.Wrap(mongoErr(err), "get user")
	}
	return &u, nil
}

func (s *MongoStore) ListUsers(ctx context.Context) ([]models.User, error) {
	cursor, err := s.db.Collection(CollUsers).Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(err, "list users")
	}
	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, errors.Wrap(err, "decode users")
	}
	return users, nil
}

func (s *MongoStore) CreateExpense(ctx context.Context, e *models.Expense) error {
	s.stamp(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	_, err := s.db.Collection(CollExpenses).InsertOne(ctx, e)
	return errors.Wrap(mongoErr(err), "create expense")
}

// ExpenseMatch 把查询条件转换为 mongo 过滤文档
func ExpenseMatch(f ExpenseFilter) bson.M {
	filter := bson.M{}
	if f.UserID != "" {
		filter["userId"] = f.UserID
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	date := bson.M{}
	if !f.From.IsZero() {
		date["$gte"] = f.From
	}
	if !f.To.IsZero() {
		date["$lte"] = f.To
	}
	if len(date) > 0 {
		filter["date"] = date
	}
	return filter
}

// SumPipeline 金额合计
func SumPipeline(f ExpenseFilter) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: ExpenseMatch(f)}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
		}}},
	}
}

// CategoryPipeline 按分类合计，total 倒序
func CategoryPipeline(f ExpenseFilter) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: ExpenseMatch(f)}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$category"},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "total", Value: -1}, {Key: "_id", Value: 1}}}},
	}
}

func (s *MongoStore) ListExpenses(ctx context.Context, f ExpenseFilter) ([]models.Expense, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	if f.Skip > 0 {
		opts.SetSkip(int64(f.Skip))
	}
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}
	cursor, err := s.db.Collection(CollExpenses).Find(ctx, ExpenseMatch(f), opts)
	if err != nil {
		return nil, errors.Wrap(err, "list expenses")
	}
	list := []models.Expense{}
	if err := cursor.All(ctx, &list); err != nil {
		return nil, errors.Wrap(err, "decode expenses")
	}
	return list, nil
}

func (s *MongoStore) CountExpenses(ctx context.Context, f ExpenseFilter) (int64, error) {
	n, err := s.db.Collection(CollExpenses).CountDocuments(ctx, ExpenseMatch(f))
	return n, errors.Wrap(err, "count expenses")
}

func (s *MongoStore) sum(ctx context.Context, coll string, pipeline mongo.Pipeline) (float64, error) {
	cursor, err := s.db.Collection(coll).Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

func (s *MongoStore) SumExpenses(ctx context.Context, f ExpenseFilter) (float64, error) {
	total, err := s.sum(ctx, CollExpenses, SumPipeline(f))
	return total, errors.Wrap(err, "sum expenses")
}

func (s *MongoStore) SumByCategory(ctx context.Context, f ExpenseFilter) ([]CategoryTotal, error) {
	cursor, err := s.db.Collection(CollExpenses).Aggregate(ctx, CategoryPipeline(f))
	if err != nil {
		return nil, errors.Wrap(err, "sum by category")
	}
	var rows []struct {
		Category string  `bson:"_id"`
		Total    float64 `bson:"total"`
		Count    int64   `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, errors.Wrap(err, "decode category totals")
	}
	out := make([]CategoryTotal, 0, len(rows))
	for _, r := range rows {
		out = append(out, CategoryTotal{Category: r.Category, Total: r.Total, Count: r.Count})
	}
	return out, nil
}

func (s *MongoStore) CreateAudit(ctx context.Context, a *models.ExpenseAudit) error {
	s.stamp(&a.ID, &a.CreatedAt, nil)
	_, err := s.db.Collection(CollAudits).InsertOne(ctx, a)
	return errors.Wrap(err, "create audit")
}

func (s *MongoStore) CreateRecurring(ctx context.Context, r *models.RecurringExpense) error {
	s.stamp(&r.ID, &r.CreatedAt, &r.UpdatedAt)
	_, err := s.db.Collection(CollRecurring).InsertOne(ctx, r)
	return errors.Wrap(err, "create recurring")
}

// DueFilter 到期的周期模板
func DueFilter(now time.Time) bson.M {
	return bson.M{"active": true, "nextRun": bson.M{"$lte": now}}
}

func (s *MongoStore) ListDueRecurring(ctx context.Context, now time.Time) ([]models.RecurringExpense, error) {
	opts := options.Find().SetSort(bson.D{{Key: "nextRun", Value: 1}})
	cursor, err := s.db.Collection(CollRecurring).Find(ctx, DueFilter(now), opts)
	if err != nil {
		return nil, errors.Wrap(err, "list due recurring")
	}
	list := []models.RecurringExpense{}
	if err := cursor.All(ctx, &list); err != nil {
		return nil, errors.Wrap(err, "decode recurring")
	}
	return list, nil
}

func (s *MongoStore) UpdateNextRun(ctx context.Context, id string, next time.Time) error {
	res, err := s.db.Collection(CollRecurring).UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"nextRun": next, "updatedAt": s.now()}},
	)
	if err != nil {
		return errors.Wrap(err, "update next run")
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) SumActiveRecurring(ctx context.Context, userID string) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": userID, "active": true}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
		}}},
	}
	total, err := s.sum(ctx, CollRecurring, pipeline)
	return total, errors.Wrap(err, "sum recurring")
}

func (s *MongoStore) CreateCategory(ctx context.Context, c *models.Category) error {
	s.stamp(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	_, err := s.db.Collection(CollCategories).InsertOne(ctx, c)
	return errors.Wrap(mongoErr(err), "create category")
}

func (s *MongoStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	cursor, err := s.db.Collection(CollCategories).Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(err, "list categories")
	}
	list := []models.Category{}
	if err := cursor.All(ctx, &list); err != nil {
		return nil, errors.Wrap(err, "decode categories")
	}
	return list, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
