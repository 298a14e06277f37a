package ledger

import (
	"sync"
)

// UserLocker hands out one mutex per user id, so trades for the same
// user serialize without a global lock across users.
type UserLocker struct {
	userLocks map[int64]*sync.Mutex // Map of user_id → mutex
	mapMutex  sync.RWMutex          // Protects the map itself
}

func NewUserLocker() *UserLocker {
	return &UserLocker{
		userLocks: make(map[int64]*sync.Mutex),
	}
}

// Lock locks the trade path for a specific user
func (ul *UserLocker) Lock(userID int64) {
	// First, get or create the mutex for this user
	ul.mapMutex.Lock()

	if ul.userLocks[userID] == nil {
		ul.userLocks[userID] = &sync.Mutex{}
	}

	userMutex := ul.userLocks[userID]
	ul.mapMutex.Unlock()

	userMutex.Lock()
}

// Unlock unlocks the trade path for a specific user
func (ul *UserLocker) Unlock(userID int64) {
	ul.mapMutex.RLock()
	userMutex := ul.userLocks[userID]
	ul.mapMutex.RUnlock()

	if userMutex != nil {
		userMutex.Unlock()
	}
}
