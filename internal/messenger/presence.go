package messenger

import "sync"

// PresenceTracker is a set of user ids currently online, driven purely
// by transport events. Everyone starts offline; an entry lives until an
// explicit offline event removes it. No last-seen times, no expiry.
type PresenceTracker struct {
	mu     sync.RWMutex
	online map[int64]struct{}
}

func NewPresenceTracker() *PresenceTracker {
	return &PresenceTracker{online: make(map[int64]struct{})}
}

func (p *PresenceTracker) Set(userID int64, online bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if online {
		p.online[userID] = struct{}{}
		return
	}
	delete(p.online, userID)
}

func (p *PresenceTracker) IsOnline(userID int64) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.online[userID]
	return ok
}
