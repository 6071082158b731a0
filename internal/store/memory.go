package store

import (
	"sync"
	"time"

	"hurricane-skill-backend/internal/skill"
)

type Message struct {
	Role    string
	Content string
}

type entry struct {
	attrs     skill.Attributes
	messages  []Message
	updatedAt time.Time
}

// MemoryStore keeps console conversations: the attribute bag the skill
// returned last turn and a bounded transcript for the intent classifier.
// Entries idle longer than the TTL are treated as ended.
type MemoryStore struct {
	mu          sync.RWMutex
	sessions    map[string]*entry
	maxMessages int
	ttl         time.Duration
	now         func() time.Time
}

func NewMemoryStore(maxMessages int, ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions:    make(map[string]*entry),
		maxMessages: maxMessages,
		ttl:         ttl,
		now:         time.Now,
	}
}

// Exists reports whether sessionID has a live conversation.
func (m *MemoryStore) Exists(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.liveLocked(sessionID) != nil
}

// Attributes returns the stored bag, or the empty bag for unknown or expired
// sessions.
func (m *MemoryStore) Attributes(sessionID string) skill.Attributes {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e := m.liveLocked(sessionID); e != nil {
		return e.attrs
	}
	return skill.Attributes{}
}

// SetAttributes replaces the bag, creating the session if needed.
func (m *MemoryStore) SetAttributes(sessionID string, attrs skill.Attributes) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.ensureLocked(sessionID)
	e.attrs = attrs
	e.updatedAt = m.now()
}

func (m *MemoryStore) Append(sessionID string, msg Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.ensureLocked(sessionID)
	e.messages = append(e.messages, msg)
	e.updatedAt = m.now()
	if m.maxMessages > 0 && len(e.messages) > m.maxMessages {
		e.messages = e.messages[len(e.messages)-m.maxMessages:]
	}
}

func (m *MemoryStore) Get(sessionID string) []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.liveLocked(sessionID)
	if e == nil {
		return nil
	}
	out := make([]Message, len(e.messages))
	copy(out, e.messages)
	return out
}

// Delete drops the conversation. Called when the session ends.
func (m *MemoryStore) Delete(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
}

// Sweep removes expired conversations and returns how many were dropped.
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.sessions {
		if m.expiredLocked(e) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// Len returns the number of stored conversations, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *MemoryStore) liveLocked(sessionID string) *entry {
	e, ok := m.sessions[sessionID]
	if !ok {
		return nil
	}
	if m.expiredLocked(e) {
		delete(m.sessions, sessionID)
		return nil
	}
	return e
}

func (m *MemoryStore) ensureLocked(sessionID string) *entry {
	if e := m.liveLocked(sessionID); e != nil {
		return e
	}
	e := &entry{updatedAt: m.now()}
	m.sessions[sessionID] = e
	return e
}

func (m *MemoryStore) expiredLocked(e *entry) bool {
	return m.ttl > 0 && m.now().Sub(e.updatedAt) > m.ttl
}
