package chatbot

import (
	"context"
	"sync"

	"github.com/kapu/tia-transfer-bot-go/internal/domain"
	"github.com/kapu/tia-transfer-bot-go/internal/service/audit"
	"go.uber.org/zap"
)

type AuditRecorder interface {
	Record(ctx context.Context, entry audit.Entry) error
}

// ManagerDeps wires a Manager. Snapshots and Audit are optional.
type ManagerDeps struct {
	Extractor Extractor
	Enhancer  Enhancer
	Snapshots SnapshotStore
	Audit     AuditRecorder
	Logger    *zap.Logger
}

// Manager keeps one Service per conversation key. Turns of the same key run
// one at a time; different keys never block each other.
type Manager struct {
	deps ManagerDeps

	mu       sync.Mutex
	sessions map[string]*sessionSlot
}

type sessionSlot struct {
	mu      sync.Mutex
	service *Service

	// disposed is set under mu once the slot left the map; holders must look it up again.
	disposed bool
}

func NewManager(deps ManagerDeps) *Manager {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Manager{
		deps:     deps,
		sessions: make(map[string]*sessionSlot),
	}
}

func (m *Manager) slot(key string) *sessionSlot {
	m.mu.Lock()
	defer m.mu.Unlock()

	slot, ok := m.sessions[key]
	if !ok {
		slot = &sessionSlot{}
		m.sessions[key] = slot
	}
	return slot
}

// lockSlot returns the live slot for key with its mutex held.
func (m *Manager) lockSlot(key string) *sessionSlot {
	for {
		slot := m.slot(key)
		slot.mu.Lock()
		if !slot.disposed {
			return slot
		}
		slot.mu.Unlock()
	}
}

// ProcessMessage runs one turn for the conversation identified by key.
func (m *Manager) ProcessMessage(ctx context.Context, key, text string) *domain.Reply {
	slot := m.lockSlot(key)
	defer slot.mu.Unlock()

	if slot.service == nil {
		slot.service = NewService(m.deps.Extractor, m.deps.Enhancer, m.restore(ctx, key), m.deps.Logger)
	}

	reply := slot.service.ProcessMessage(ctx, text)

	if committed(reply.State) {
		m.save(ctx, key, slot.service.Session())
	}
	m.record(ctx, key, reply)

	return reply
}

// Reset clears the session for key, including its snapshot.
func (m *Manager) Reset(ctx context.Context, key string) {
	slot := m.lockSlot(key)
	defer slot.mu.Unlock()

	if slot.service != nil {
		slot.service.Reset()
	}
	if m.deps.Snapshots != nil {
		if err := m.deps.Snapshots.Delete(ctx, key); err != nil {
			m.deps.Logger.Warn("Failed to delete session snapshot", zap.String("session", key), zap.Error(err))
		}
	}
}

// Dispose drops the in-memory session for key. A snapshot, if any, is kept.
// It waits for a turn in progress on key to finish first.
func (m *Manager) Dispose(key string) {
	m.mu.Lock()
	slot, ok := m.sessions[key]
	m.mu.Unlock()
	if !ok {
		return
	}

	slot.mu.Lock()
	defer slot.mu.Unlock()

	m.mu.Lock()
	if m.sessions[key] == slot {
		delete(m.sessions, key)
	}
	m.mu.Unlock()
	slot.disposed = true
}

// Session returns a copy of the in-memory session for key.
func (m *Manager) Session(key string) (*domain.Session, bool) {
	m.mu.Lock()
	slot, ok := m.sessions[key]
	m.mu.Unlock()
	if !ok {
		return nil, false
	}

	slot.mu.Lock()
	defer slot.mu.Unlock()
	if slot.disposed || slot.service == nil {
		return nil, false
	}
	return slot.service.Session(), true
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) restore(ctx context.Context, key string) *domain.Session {
	if m.deps.Snapshots == nil {
		return nil
	}
	session, found, err := m.deps.Snapshots.Load(ctx, key)
	if err != nil {
		m.deps.Logger.Warn("Failed to load session snapshot", zap.String("session", key), zap.Error(err))
		return nil
	}
	if !found {
		return nil
	}
	m.deps.Logger.Debug("Session restored from snapshot", zap.String("session", key))
	return session
}

func (m *Manager) save(ctx context.Context, key string, session *domain.Session) {
	if m.deps.Snapshots == nil {
		return
	}
	if err := m.deps.Snapshots.Save(ctx, key, session); err != nil {
		m.deps.Logger.Warn("Failed to save session snapshot", zap.String("session", key), zap.Error(err))
	}
}

func (m *Manager) record(ctx context.Context, key string, reply *domain.Reply) {
	if m.deps.Audit == nil {
		return
	}
	if err := m.deps.Audit.Record(ctx, audit.NewEntry(key, reply)); err != nil {
		m.deps.Logger.Warn("Failed to record audit entry", zap.String("session", key), zap.Error(err))
	}
}

func committed(state domain.State) bool {
	return state != domain.StateFailure
}
