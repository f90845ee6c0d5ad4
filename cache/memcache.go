package cache

import (
	"encoding/json"
	"strconv"

	"expensetracker/logger"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type client interface {
	Get(key string) (*memcache.Item, error)
	Set(item *memcache.Item) error
	Increment(key string, delta uint64) (uint64, error)
}

// ReportCache 按用户缓存汇总类报表
// 每个用户有一个代数计数，写入新消费时递增，旧代数的缓存自然失效
type ReportCache struct {
	client client
	ttl    int32
}

// NewMemcache 连接 memcached
func NewMemcache(hosts []string, ttlSeconds int32) (*ReportCache, error) {
	logger.Info("memcached hosts", zap.Strings("hosts", hosts))
	mc := memcache.New(hosts...)
	return &ReportCache{client: mc, ttl: ttlSeconds}, mc.Ping()
}

func genKey(userID string) string {
	return userID + ":gen"
}

func formatKey(userID string, gen uint64, option string) string {
	return userID + ":" + strconv.FormatUint(gen, 10) + ":" + option
}

func (c *ReportCache) generation(userID string) (uint64, error) {
	item, err := c.client.Get(genKey(userID))
	if errors.Is(err, memcache.ErrCacheMiss) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(string(item.Value), 10, 64)
}

// Get 命中时把缓存内容解码到 dst
func (c *ReportCache) Get(userID, option string, dst interface{}) bool {
	gen, err := c.generation(userID)
	if err != nil {
		logger.Warn("read cache generation", zap.String("userId", userID), zap.Error(err))
		return false
	}
	item, err := c.client.Get(formatKey(userID, gen, option))
	if err != nil {
		if !errors.Is(err, memcache.ErrCacheMiss) {
			logger.Warn("get report from cache", zap.String("userId", userID), zap.Error(err))
		}
		return false
	}
	return json.Unmarshal(item.Value, dst) == nil
}

// Set 写入缓存
func (c *ReportCache) Set(userID, option string, v interface{}) error {
	gen, err := c.generation(userID)
	if err != nil {
		return err
	}
	body, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "marshal report")
	}
	return c.client.Set(&memcache.Item{
		Key:        formatKey(userID, gen, option),
		Value:      body,
		Expiration: c.ttl,
	})
}

// Invalidate 使该用户已有的缓存全部失效
func (c *ReportCache) Invalidate(userID string) error {
	_, err := c.client.Increment(genKey(userID), 1)
	if errors.Is(err, memcache.ErrCacheMiss) {
		return c.client.Set(&memcache.Item{Key: genKey(userID), Value: []byte("1")})
	}
	return err
}
