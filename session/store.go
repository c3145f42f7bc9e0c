package session

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Store はメモリ上でゲームを管理します
// 1つのゲームへの操作は With で直列化されます
type Store struct {
	mu    sync.RWMutex
	games map[uuid.UUID]*entry
}

type entry struct {
	mu   sync.Mutex
	game *Game
}

func NewStore() *Store {
	return &Store{games: make(map[uuid.UUID]*entry)}
}

// Create は新しいゲームを作って登録します
func (s *Store) Create(p Params) (*Game, error) {
	g, err := NewGame(p)
	if err != nil {
		return nil, err
	}
	s.Add(g)
	return g, nil
}

// Add は作成済みのゲームを登録します
func (s *Store) Add(g *Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[g.ID] = &entry{game: g}
}

// With はゲームのロックを取ったまま fn を実行します
func (s *Store) With(id uuid.UUID, fn func(g *Game) error) error {
	s.mu.RLock()
	e, ok := s.games[id]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.game)
}

// Delete はゲームを削除します
func (s *Store) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; !ok {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	delete(s.games, id)
	return nil
}

// Len は登録されているゲーム数です
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}
