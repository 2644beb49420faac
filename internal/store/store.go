// Package store holds the in-process working set of chat sessions and
// documents. It preserves insertion order so listings render the way the
// user created them, and it tracks which session and document are active.
package store

import (
	"sync"

	"github.com/google/uuid"

	"academic-ai-be/internal/entity"
)

// SessionStore keeps chat sessions in insertion order with an active pointer.
type SessionStore struct {
	mu       sync.RWMutex
	order    []uuid.UUID
	sessions map[uuid.UUID]*entity.ChatSession
	active   uuid.UUID
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[uuid.UUID]*entity.ChatSession),
	}
}

// Load replaces the whole working set, keeping the given order.
func (s *SessionStore) Load(sessions []*entity.ChatSession) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = s.order[:0]
	s.sessions = make(map[uuid.UUID]*entity.ChatSession, len(sessions))
	s.active = uuid.Nil
	for _, session := range sessions {
		s.order = append(s.order, session.Id)
		s.sessions[session.Id] = session
	}
}

// Upsert inserts a new session at the end of the order, or replaces the
// stored copy in place when the id is already present.
func (s *SessionStore) Upsert(session *entity.ChatSession) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[session.Id]; !ok {
		s.order = append(s.order, session.Id)
	}
	s.sessions[session.Id] = session
}

func (s *SessionStore) Get(id uuid.UUID) (*entity.ChatSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	return session, ok
}

// Remove drops the session and clears the active pointer when it pointed
// at the removed session.
func (s *SessionStore) Remove(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return
	}
	delete(s.sessions, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if s.active == id {
		s.active = uuid.Nil
	}
}

// Rekey moves a session to a new id, preserving its position in the order.
// The active pointer follows when it referenced the old id. Used when a
// locally-created session is first persisted and adopts the server id.
func (s *SessionStore) Rekey(oldId, newId uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[oldId]
	if !ok || oldId == newId {
		return
	}
	delete(s.sessions, oldId)
	session.Id = newId
	s.sessions[newId] = session
	for i, existing := range s.order {
		if existing == oldId {
			s.order[i] = newId
			break
		}
	}
	if s.active == oldId {
		s.active = newId
	}
}

// All returns the sessions in insertion order.
func (s *SessionStore) All() []*entity.ChatSession {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entity.ChatSession, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.sessions[id])
	}
	return out
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.order)
}

// SetActive marks the session as current. Unknown ids are ignored.
func (s *SessionStore) SetActive(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return false
	}
	s.active = id
	return true
}

// Active returns the current session, or nil when none is selected.
func (s *SessionStore) Active() *entity.ChatSession {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.active == uuid.Nil {
		return nil
	}
	return s.sessions[s.active]
}

func (s *SessionStore) ClearActive() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active = uuid.Nil
}

// DocumentStore keeps uploaded documents in insertion order with an active
// pointer for the document currently open in the analysis panel.
type DocumentStore struct {
	mu        sync.RWMutex
	order     []uuid.UUID
	documents map[uuid.UUID]*entity.Document
	active    uuid.UUID
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[uuid.UUID]*entity.Document),
	}
}

func (s *DocumentStore) Load(documents []*entity.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = s.order[:0]
	s.documents = make(map[uuid.UUID]*entity.Document, len(documents))
	s.active = uuid.Nil
	for _, document := range documents {
		s.order = append(s.order, document.Id)
		s.documents[document.Id] = document
	}
}

func (s *DocumentStore) Upsert(document *entity.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.documents[document.Id]; !ok {
		s.order = append(s.order, document.Id)
	}
	s.documents[document.Id] = document
}

func (s *DocumentStore) Get(id uuid.UUID) (*entity.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	document, ok := s.documents[id]
	return document, ok
}

func (s *DocumentStore) Remove(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.documents[id]; !ok {
		return
	}
	delete(s.documents, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if s.active == id {
		s.active = uuid.Nil
	}
}

func (s *DocumentStore) Rekey(oldId, newId uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	document, ok := s.documents[oldId]
	if !ok || oldId == newId {
		return
	}
	delete(s.documents, oldId)
	document.Id = newId
	s.documents[newId] = document
	for i, existing := range s.order {
		if existing == oldId {
			s.order[i] = newId
			break
		}
	}
	if s.active == oldId {
		s.active = newId
	}
}

func (s *DocumentStore) All() []*entity.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entity.Document, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.documents[id])
	}
	return out
}

func (s *DocumentStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.order)
}

func (s *DocumentStore) SetActive(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.documents[id]; !ok {
		return false
	}
	s.active = id
	return true
}

func (s *DocumentStore) Active() *entity.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.active == uuid.Nil {
		return nil
	}
	return s.documents[s.active]
}

func (s *DocumentStore) ClearActive() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active = uuid.Nil
}
