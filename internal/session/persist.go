package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"enku-backoffice/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// MemoryPersister keeps sessions in process memory. Sessions do not survive
// a restart.
type MemoryPersister struct {
	mu   sync.Mutex
	data map[string]Identity
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{data: map[string]Identity{}}
}

func (p *MemoryPersister) Save(_ context.Context, id string, ident Identity) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data[id] = ident
	return nil
}

func (p *MemoryPersister) Load(_ context.Context, id string) (Identity, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	ident, ok := p.data[id]
	return ident, ok, nil
}

func (p *MemoryPersister) Delete(_ context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.data, id)
	return nil
}

// GormPersister stores sessions in the session_records table.
type GormPersister struct {
	db *gorm.DB
}

func NewGormPersister(db *gorm.DB) *GormPersister {
	return &GormPersister{db: db}
}

func (p *GormPersister) Save(ctx context.Context, id string, ident Identity) error {
	rec := models.SessionRecord{
		ID:       id,
		UserID:   ident.UserID,
		Username: ident.Username,
		Role:     ident.Role,
		IsAdmin:  ident.IsAdmin,
	}
	if err := p.db.WithContext(ctx).Save(&rec).Error; err != nil {
		return fmt.Errorf("session could not be saved: %w", err)
	}
	return nil
}

func (p *GormPersister) Load(ctx context.Context, id string) (Identity, bool, error) {
	var rec models.SessionRecord
	err := p.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Identity{}, false, nil
	}
	if err != nil {
		return Identity{}, false, fmt.Errorf("session could not be loaded: %w", err)
	}
	return Identity{
		UserID:   rec.UserID,
		Username: rec.Username,
		Role:     rec.Role,
		IsAdmin:  rec.IsAdmin,
	}, true, nil
}

func (p *GormPersister) Delete(ctx context.Context, id string) error {
	if err := p.db.WithContext(ctx).Delete(&models.SessionRecord{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("session could not be deleted: %w", err)
	}
	return nil
}

// RedisPersister stores sessions as JSON under "session:<id>" with a TTL.
type RedisPersister struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisPersister(rdb *redis.Client, ttl time.Duration) *RedisPersister {
	return &RedisPersister{rdb: rdb, ttl: ttl}
}

// ConnectRedis opens a client for addr ("host:port" or a redis:// URL) and
// pings it.
func ConnectRedis(ctx context.Context, addr string) (*redis.Client, error) {
	opt, err := redis.ParseURL(addr)
	if err != nil {
		opt, err = redis.ParseURL("redis://" + addr)
	}
	if err != nil {
		opt = &redis.Options{Addr: addr}
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}

func redisKey(id string) string { return "session:" + id }

func (p *RedisPersister) Save(ctx context.Context, id string, ident Identity) error {
	data, err := json.Marshal(ident)
	if err != nil {
		return err
	}
	if err := p.rdb.Set(ctx, redisKey(id), data, p.ttl).Err(); err != nil {
		return fmt.Errorf("session could not be saved: %w", err)
	}
	return nil
}

func (p *RedisPersister) Load(ctx context.Context, id string) (Identity, bool, error) {
	raw, err := p.rdb.Get(ctx, redisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Identity{}, false, nil
	}
	if err != nil {
		return Identity{}, false, fmt.Errorf("session could not be loaded: %w", err)
	}
	var ident Identity
	if err := json.Unmarshal(raw, &ident); err != nil {
		return Identity{}, false, fmt.Errorf("session %s is corrupt: %w", id, err)
	}
	return ident, true, nil
}

func (p *RedisPersister) Delete(ctx context.Context, id string) error {
	if err := p.rdb.Del(ctx, redisKey(id)).Err(); err != nil {
		return fmt.Errorf("session could not be deleted: %w", err)
	}
	return nil
}
