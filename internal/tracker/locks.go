// ABOUTME: Per-(user, day) mutexes serializing writes to one aggregate bucket.
// ABOUTME: Entries are refcounted and dropped once no writer holds or waits on them.
package tracker

import (
	"sync"
	"time"

	"github.com/harperreed/dailylog/internal/models"
)

type bucketKey struct {
	userID int64
	day    string
}

type bucketLock struct {
	mu   sync.Mutex
	refs int
}

type bucketLocks struct {
	mu    sync.Mutex
	locks map[bucketKey]*bucketLock
}

func newBucketLocks() *bucketLocks {
	return &bucketLocks{locks: make(map[bucketKey]*bucketLock)}
}

// lock blocks until the bucket for (userID, day of t) is free and returns its unlock func.
func (b *bucketLocks) lock(userID int64, t time.Time) func() {
	key := bucketKey{userID, models.DayKey(t)}

	b.mu.Lock()
	l, ok := b.locks[key]
	if !ok {
		l = &bucketLock{}
		b.locks[key] = l
	}
	l.refs++
	b.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		b.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(b.locks, key)
		}
		b.mu.Unlock()
	}
}

// size reports how many buckets are currently tracked.
func (b *bucketLocks) size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.locks)
}
