package services_test

import (
	"context"
	"path"
	"sync"

	"github.com/stretchr/testify/mock"
	"github.com/tripwise/backend/internal/domain/entities"
	"github.com/tripwise/backend/internal/domain/providers"
)

func ptr[T any](v T) *T { return &v }

type MockHotelRepository struct {
	mock.Mock
}

func (m *MockHotelRepository) Search(ctx context.Context, query entities.HotelQuery) ([]*entities.Hotel, error) {
	args := m.Called(ctx, query)
	hotels, _ := args.Get(0).([]*entities.Hotel)
	return hotels, args.Error(1)
}

func (m *MockHotelRepository) Upsert(ctx context.Context, hotels []*entities.Hotel) error {
	args := m.Called(ctx, hotels)
	return args.Error(0)
}

type MockRestaurantRepository struct {
	mock.Mock
}

func (m *MockRestaurantRepository) Search(ctx context.Context, query entities.RestaurantQuery) ([]*entities.Restaurant, error) {
	args := m.Called(ctx, query)
	restaurants, _ := args.Get(0).([]*entities.Restaurant)
	return restaurants, args.Error(1)
}

func (m *MockRestaurantRepository) Upsert(ctx context.Context, restaurants []*entities.Restaurant) error {
	args := m.Called(ctx, restaurants)
	return args.Error(0)
}

type MockSearchAnalyticsRepository struct {
	mock.Mock
}

func (m *MockSearchAnalyticsRepository) LogEvent(ctx context.Context, event *entities.SearchEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockSearchAnalyticsRepository) GetZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error) {
	args := m.Called(ctx, limit)
	events, _ := args.Get(0).([]*entities.SearchEvent)
	return events, args.Error(1)
}

// recordingTracker keeps tracked events in memory
type recordingTracker struct {
	mu     sync.Mutex
	events []*entities.SearchEvent
}

func (r *recordingTracker) TrackSearch(_ context.Context, event *entities.SearchEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingTracker) last() *entities.SearchEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return nil
	}
	return r.events[len(r.events)-1]
}

// MockCacheProvider is an in-memory cache with glob deletes
type MockCacheProvider struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMockCacheProvider() *MockCacheProvider {
	return &MockCacheProvider{data: make(map[string][]byte)}
}

func (m *MockCacheProvider) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if val, ok := m.data[key]; ok {
		return val, nil
	}
	return nil, providers.ErrCacheMiss
}

func (m *MockCacheProvider) Set(_ context.Context, key string, value []byte, _ int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCacheProvider) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MockCacheProvider) DeletePattern(_ context.Context, pattern string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for key := range m.data {
		if ok, _ := path.Match(pattern, key); ok {
			delete(m.data, key)
			n++
		}
	}
	return n, nil
}

func (m *MockCacheProvider) Exists(_ context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[key]
	return ok, nil
}

func (m *MockCacheProvider) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	return keys
}

// MockEventBus delivers published events to in-process subscribers
type MockEventBus struct {
	mu          sync.Mutex
	subscribers map[string][]chan *entities.CatalogEvent
	published   []*entities.CatalogEvent
	publishErr  error
}

func NewMockEventBus() *MockEventBus {
	return &MockEventBus{subscribers: make(map[string][]chan *entities.CatalogEvent)}
}

func (m *MockEventBus) Publish(_ context.Context, channel string, event *entities.CatalogEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.publishErr != nil {
		return m.publishErr
	}
	m.published = append(m.published, event)
	for _, ch := range m.subscribers[channel] {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

func (m *MockEventBus) Subscribe(_ context.Context, channel string) (<-chan *entities.CatalogEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan *entities.CatalogEvent, 10)
	m.subscribers[channel] = append(m.subscribers[channel], ch)
	return ch, nil
}

func (m *MockEventBus) Unsubscribe(_ context.Context, channel string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ch := range m.subscribers[channel] {
		close(ch)
	}
	delete(m.subscribers, channel)
	return nil
}

func (m *MockEventBus) Close() error {
	return nil
}

func (m *MockEventBus) Published() []*entities.CatalogEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*entities.CatalogEvent(nil), m.published...)
}

