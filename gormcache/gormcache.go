// Package gormcache 提供数据库存储的缓存层，实现
// cache.Level[string, []byte]，适合做多进程共享的最底层缓存。
package gormcache

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/saltfishpr/asynccache/cache"
	"github.com/saltfishpr/asynccache/future"
	"github.com/saltfishpr/asynccache/routine"
)

// Entry 是缓存条目的表结构。
type Entry struct {
	Key       string `gorm:"primaryKey;size:255"`
	Value     []byte
	ExpiresAt int64 // Unix 秒；0 表示永不过期
	UpdatedAt time.Time
}

// TableName 指定表名。
func (Entry) TableName() string {
	return "cache_entries"
}

// Level 是基于 GORM 的 cache.Level[string, []byte] 实现。
type Level struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

// Option 配置 Level 的函数选项。
type Option func(*Level)

// WithTTL 设置条目的过期时间。默认不过期。
func WithTTL(ttl time.Duration) Option {
	return func(l *Level) {
		l.ttl = ttl
	}
}

// New 创建一个数据库缓存层。调用方负责先执行 Migrate 或自行建表。
func New(db *gorm.DB, options ...Option) *Level {
	l := &Level{db: db, now: time.Now}
	for _, option := range options {
		option(l)
	}
	return l
}

// Migrate 创建或更新 cache_entries 表。
func (l *Level) Migrate() error {
	return errors.WithStack(l.db.AutoMigrate(&Entry{}))
}

// Get 在 future 执行器上查询条目。未找到或已过期时以
// cache.ErrValueNotFound 失败。
func (l *Level) Get(key string) *future.Future[[]byte] {
	return future.Async(func() ([]byte, error) {
		var e Entry
		err := l.db.Take(&e, "key = ?", key).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, cache.ErrValueNotFound
		}
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if e.ExpiresAt > 0 && e.ExpiresAt <= l.now().Unix() {
			// 惰性删除过期条目
			l.db.Delete(&Entry{}, "key = ?", key)
			return nil, cache.ErrValueNotFound
		}
		return e.Value, nil
	})
}

// Set 在后台 upsert 条目，失败时静默丢弃。
func (l *Level) Set(value []byte, key string) {
	e := Entry{Key: key, Value: value}
	if l.ttl > 0 {
		e.ExpiresAt = l.now().Add(l.ttl).Unix()
	}
	routine.GoSafe(func() {
		l.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&e)
	})
}

// Clear 删除所有条目。
func (l *Level) Clear() {
	l.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Entry{})
}

// OnMemoryWarning 是空操作：数据不占用进程内存。
func (l *Level) OnMemoryWarning() {}
