package qa

import "sync"

// sessionLocks tracks the sessions with an ask in flight. A busy session is refused rather than queued.
// An entry lives only while its ask runs.
type sessionLocks struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{inFlight: make(map[string]struct{})}
}

func (s *sessionLocks) tryLock(sessionId string) (func(), bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[sessionId]; busy {
		return nil, false
	}
	s.inFlight[sessionId] = struct{}{}
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.inFlight, sessionId)
	}, true
}

func (s *sessionLocks) tracked() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inFlight)
}
