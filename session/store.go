package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store はセッションを id ごとにメモリ上で保持します
type Store struct {
	mu       sync.RWMutex
	depth    int
	sessions map[uuid.UUID]*Session
}

// NewStore は空の Store を返します。各セッションは depth 手まで Undo できます
func NewStore(depth int) *Store {
	return &Store{
		depth:    depth,
		sessions: make(map[uuid.UUID]*Session),
	}
}

func (st *Store) Create(p Params) (*Session, error) {
	s, err := New(p, st.depth)
	if err != nil {
		return nil, err
	}
	st.Add(s)
	return s, nil
}

// Add は既存のセッションを登録します
func (st *Store) Add(s *Session) {
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
}

func (st *Store) Get(id uuid.UUID) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (st *Store) Delete(id uuid.UUID) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(st.sessions, id)
	return nil
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep は ttl より長く操作されていないセッションを削除し、削除数を返します
func (st *Store) Sweep(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)
	st.mu.Lock()
	defer st.mu.Unlock()
	removed := 0
	for id, s := range st.sessions {
		if s.Touched().Before(cutoff) {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// Run は ctx が終わるまで interval ごとに Sweep します。
// onSweep が nil でなければ、毎回の削除数を受け取ります
func (st *Store) Run(ctx context.Context, ttl, interval time.Duration, onSweep func(int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n := st.Sweep(ttl)
			if onSweep != nil {
				onSweep(n)
			}
		}
	}
}
