package cache

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RunLock гарантирует не больше одного прогона пайплайна одновременно:
// мьютекс закрывает конкуренцию тикера и ручного запуска внутри
// процесса, Redis — между процессами-обработчиками.
type RunLock struct {
	mu  sync.Mutex
	rdb *redis.Client
	key string
	ttl time.Duration
}

func NewRunLock(rdb *redis.Client, key string, ttl time.Duration) *RunLock {
	return &RunLock{rdb: rdb, key: key, ttl: ttl}
}

// TryAcquire возвращает false, если прогон уже идёт в этом или другом
// процессе. Без Redis (локальная разработка) остаётся локальный мьютекс.
func (l *RunLock) TryAcquire(ctx context.Context) (bool, error) {
	if !l.mu.TryLock() {
		return false, nil
	}
	if l.rdb == nil {
		return true, nil
	}
	ok, err := l.rdb.SetNX(ctx, l.key, time.Now().Unix(), l.ttl).Result()
	if err != nil || !ok {
		l.mu.Unlock()
	}
	return ok, err
}

func (l *RunLock) Release(ctx context.Context) {
	if l.rdb != nil {
		l.rdb.Del(ctx, l.key)
	}
	l.mu.Unlock()
}
