package services

import (
	"sync"

	"go.uber.org/zap"

	"meetsync/domain/events"
	"meetsync/infrastructure/persistence/memory"
	"meetsync/pkg/observability"
)

// recordingPublisher captures notifications for assertions
type recordingPublisher struct {
	mu        sync.Mutex
	published []events.ChangeNotification
}

func (p *recordingPublisher) Publish(n events.ChangeNotification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, n)
}

func (p *recordingPublisher) notifications() []events.ChangeNotification {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.ChangeNotification, len(p.published))
	copy(out, p.published)
	return out
}

func (p *recordingPublisher) last() (events.ChangeNotification, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.published) == 0 {
		return events.ChangeNotification{}, false
	}
	return p.published[len(p.published)-1], true
}

type testEnv struct {
	store     *memory.Store
	publisher *recordingPublisher
	meetings  *MeetingService
	tasks     *TaskService
}

func newTestEnv() *testEnv {
	store := memory.NewStore()
	publisher := &recordingPublisher{}
	metrics := observability.NewCollector("test")
	logger := zap.NewNop()

	registry := NewParticipantRegistry(store.Meetings(), store.Users())
	return &testEnv{
		store:     store,
		publisher: publisher,
		meetings:  NewMeetingService(store.Meetings(), registry, publisher, metrics, logger),
		tasks:     NewTaskService(store.Tasks(), store.Meetings(), publisher, metrics, logger),
	}
}
