// Package bridge はフロントエンドとゲームループの間で値を受け渡します。
package bridge

import "sync"

// Mailbox は値を1つだけ保持する箱です
// Put は上書き、Take は取り出して空にします
type Mailbox[T any] struct {
	mu    sync.Mutex
	value T
	full  bool
}

func (m *Mailbox[T]) Put(v T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = v
	m.full = true
}

// Take は値を取り出します。空なら ok=false です
func (m *Mailbox[T]) Take() (v T, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok = m.value, m.full
	var zero T
	m.value, m.full = zero, false
	return v, ok
}

// Peek は取り出さずに値を読みます
func (m *Mailbox[T]) Peek() (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value, m.full
}
