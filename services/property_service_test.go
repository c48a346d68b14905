package services

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"properties-api/domain"
	"properties-api/dto"
	"properties-api/publishers"
	"properties-api/repositories"
)

// ============================================
// Mocks
// ============================================

// mockPropertyRepository guarda copias para que modificar una entidad
// devuelta no cambie lo "persistido"
type mockPropertyRepository struct {
	properties map[uint]domain.Property
	owners     map[uint]bool
	nextID     uint
}

func newMockPropertyRepository(ownerIDs ...uint) *mockPropertyRepository {
	owners := make(map[uint]bool)
	for _, id := range ownerIDs {
		owners[id] = true
	}
	return &mockPropertyRepository{
		properties: make(map[uint]domain.Property),
		owners:     owners,
	}
}

func (m *mockPropertyRepository) Create(ctx context.Context, property *domain.Property) error {
	if !m.owners[property.OwnerID] {
		return &domain.ReferenceError{Field: "owner_id", ID: property.OwnerID}
	}
	m.nextID++
	property.ID = m.nextID
	m.properties[property.ID] = *property
	return nil
}

func (m *mockPropertyRepository) GetByID(ctx context.Context, id uint) (*domain.Property, error) {
	property, exists := m.properties[id]
	if !exists {
		return nil, &domain.NotFoundError{Entity: "property", ID: id}
	}
	return &property, nil
}

func (m *mockPropertyRepository) Update(ctx context.Context, property *domain.Property) error {
	current, exists := m.properties[property.ID]
	if !exists {
		return &domain.NotFoundError{Entity: "property", ID: property.ID}
	}
	if !m.owners[property.OwnerID] {
		return &domain.ReferenceError{Field: "owner_id", ID: property.OwnerID}
	}
	updated := *property
	updated.CreatedAt = current.CreatedAt
	m.properties[property.ID] = updated
	return nil
}

func (m *mockPropertyRepository) Delete(ctx context.Context, id uint) error {
	if _, exists := m.properties[id]; !exists {
		return &domain.NotFoundError{Entity: "property", ID: id}
	}
	delete(m.properties, id)
	return nil
}

func (m *mockPropertyRepository) List(ctx context.Context, filter repositories.PropertyFilter) ([]domain.Property, int64, error) {
	var matched []domain.Property
	for id := uint(1); id <= m.nextID; id++ {
		p, exists := m.properties[id]
		if !exists {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.PropertyType != "" && p.PropertyType != filter.PropertyType {
			continue
		}
		if filter.OwnerID != 0 && p.OwnerID != filter.OwnerID {
			continue
		}
		matched = append(matched, p)
	}

	start := (filter.Page - 1) * filter.PageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], int64(len(matched)), nil
}

// pausingPropertyRepository detiene el primer GetByID después de leer la
// fila, hasta que el test lo libera.
type pausingPropertyRepository struct {
	*mockPropertyRepository
	read    chan struct{}
	release chan struct{}
	paused  bool
}

func (m *pausingPropertyRepository) GetByID(ctx context.Context, id uint) (*domain.Property, error) {
	property, err := m.mockPropertyRepository.GetByID(ctx, id)
	if !m.paused {
		m.paused = true
		close(m.read)
		<-m.release
	}
	return property, err
}

type mockCache struct {
	items map[uint]domain.Property
}

func newMockCache() *mockCache {
	return &mockCache{items: make(map[uint]domain.Property)}
}

func (c *mockCache) Get(id uint) (*domain.Property, bool) {
	p, ok := c.items[id]
	if !ok {
		return nil, false
	}
	return &p, true
}

func (c *mockCache) Set(property *domain.Property) { c.items[property.ID] = *property }

func (c *mockCache) Delete(id uint) { delete(c.items, id) }

type recordingPublisher struct {
	messages []publishers.PropertyMessage
	err      error
}

func (p *recordingPublisher) Publish(ctx context.Context, msg publishers.PropertyMessage) error {
	p.messages = append(p.messages, msg)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

type propertyFixture struct {
	repo      *mockPropertyRepository
	cache     *mockCache
	publisher *recordingPublisher
	service   PropertyService
}

func newPropertyFixture() *propertyFixture {
	f := &propertyFixture{
		repo:      newMockPropertyRepository(1, 2),
		cache:     newMockCache(),
		publisher: &recordingPublisher{},
	}
	f.service = NewPropertyService(f.repo, f.cache, f.publisher, newTestClock())
	return f
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func lakeviewRequest() dto.CreatePropertyRequest {
	return dto.CreatePropertyRequest{
		Title:        "Lakeview Villa",
		PropertyType: "house",
		Price:        price("250000.00"),
		Location:     "Lakeview",
		OwnerID:      1,
	}
}

// ============================================
// Tests
// ============================================

func TestCreateProperty_LakeviewVilla(t *testing.T) {
	f := newPropertyFixture()

	property, err := f.service.CreateProperty(context.Background(), lakeviewRequest())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if property.ID == 0 {
		t.Error("Expected an assigned ID")
	}
	if property.Status != domain.PropertyStatusAvailable {
		t.Errorf("Expected status available, got %s", property.Status)
	}
	if !property.CreatedAt.Equal(newTestClock().T) || !property.UpdatedAt.Equal(property.CreatedAt) {
		t.Errorf("Expected both timestamps from clock, got %v / %v", property.CreatedAt, property.UpdatedAt)
	}

	resp := dto.NewPropertyResponse(property)
	if resp.Price.String() != "250000.00" {
		t.Errorf("Expected serialized price 250000.00, got %s", resp.Price)
	}

	if len(f.publisher.messages) != 1 || f.publisher.messages[0].Action != publishers.ActionCreate {
		t.Errorf("Expected one create event, got %+v", f.publisher.messages)
	}
}

func TestCreateProperty_ThenGet(t *testing.T) {
	f := newPropertyFixture()
	req := lakeviewRequest()
	bedrooms := 3
	req.Bedrooms = &bedrooms

	created, err := f.service.CreateProperty(context.Background(), req)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Leer directo del repo, sin cache
	f.cache.Delete(created.ID)

	got, err := f.service.GetProperty(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if got.Title != req.Title || got.Location != req.Location || got.OwnerID != req.OwnerID {
		t.Errorf("Stored fields differ: %+v", got)
	}
	if !got.Price.Equal(*req.Price) {
		t.Errorf("Expected price %s, got %s", req.Price, got.Price)
	}
	if got.Bedrooms == nil || *got.Bedrooms != 3 {
		t.Errorf("Expected 3 bedrooms, got %v", got.Bedrooms)
	}

	if _, cached := f.cache.Get(created.ID); !cached {
		t.Error("Expected GetProperty to populate the cache")
	}
}

func TestCreateProperty_InvalidType(t *testing.T) {
	f := newPropertyFixture()
	req := lakeviewRequest()
	req.PropertyType = "castle"

	property, err := f.service.CreateProperty(context.Background(), req)

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if property != nil {
		t.Error("Expected nil property")
	}
	if len(f.repo.properties) != 0 {
		t.Error("Nothing should have been stored")
	}
}

func TestCreateProperty_MissingPrice(t *testing.T) {
	f := newPropertyFixture()
	req := lakeviewRequest()
	req.Price = nil

	_, err := f.service.CreateProperty(context.Background(), req)

	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Field != "price" {
		t.Errorf("Expected price ValidationError, got %v", err)
	}
}

func TestCreateProperty_UnknownOwner(t *testing.T) {
	f := newPropertyFixture()
	req := lakeviewRequest()
	req.OwnerID = 99

	_, err := f.service.CreateProperty(context.Background(), req)

	var rerr *domain.ReferenceError
	if !errors.As(err, &rerr) {
		t.Fatalf("Expected ReferenceError, got %v", err)
	}
	if len(f.publisher.messages) != 0 {
		t.Error("No event should be published for a failed create")
	}
}

func TestCreateProperty_PublishFailureKeepsWrite(t *testing.T) {
	f := newPropertyFixture()
	f.publisher.err = errors.New("broker down")

	property, err := f.service.CreateProperty(context.Background(), lakeviewRequest())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, stored := f.repo.properties[property.ID]; !stored {
		t.Error("Expected property to be stored despite publish failure")
	}
}

func TestUpdateProperty_RefreshesUpdatedAt(t *testing.T) {
	f := newPropertyFixture()
	clock := newTestClock()
	f.service = NewPropertyService(f.repo, f.cache, f.publisher, clock)

	created, err := f.service.CreateProperty(context.Background(), lakeviewRequest())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	createdAt := created.CreatedAt

	clock.T = clock.T.Add(time.Hour)
	sold := "sold"
	updated, err := f.service.UpdateProperty(context.Background(), created.ID, dto.UpdatePropertyRequest{
		Status: &sold,
		Price:  price("240000.50"),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if updated.Status != domain.PropertyStatusSold {
		t.Errorf("Expected status sold, got %s", updated.Status)
	}
	if !updated.Price.Equal(decimal.RequireFromString("240000.50")) {
		t.Errorf("Expected new price, got %s", updated.Price)
	}
	if !updated.UpdatedAt.Equal(clock.T) {
		t.Errorf("Expected updated_at %v, got %v", clock.T, updated.UpdatedAt)
	}
	if !updated.CreatedAt.Equal(createdAt) {
		t.Errorf("created_at must not change, got %v", updated.CreatedAt)
	}
	if updated.Title != "Lakeview Villa" {
		t.Errorf("Fields absent from the request must be kept, got title %q", updated.Title)
	}
	if _, cached := f.cache.Get(created.ID); cached {
		t.Error("Expected update to invalidate the cache")
	}
}

func TestUpdateProperty_AnyStatusTransition(t *testing.T) {
	f := newPropertyFixture()
	created, err := f.service.CreateProperty(context.Background(), lakeviewRequest())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	for _, status := range []string{"sold", "available", "pending", "rented", "available"} {
		s := status
		if _, err := f.service.UpdateProperty(context.Background(), created.ID, dto.UpdatePropertyRequest{Status: &s}); err != nil {
			t.Errorf("Expected transition to %s to be allowed, got %v", status, err)
		}
	}
}

func TestUpdateProperty_NotFound(t *testing.T) {
	f := newPropertyFixture()
	title := "Nowhere"

	_, err := f.service.UpdateProperty(context.Background(), 999, dto.UpdatePropertyRequest{Title: &title})

	var notFound *domain.NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("Expected NotFoundError, got %v", err)
	}
}

func TestUpdateProperty_InvalidChange(t *testing.T) {
	f := newPropertyFixture()
	created, err := f.service.CreateProperty(context.Background(), lakeviewRequest())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	_, err = f.service.UpdateProperty(context.Background(), created.ID, dto.UpdatePropertyRequest{
		Price: price("100.999"),
	})

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if !f.repo.properties[created.ID].Price.Equal(decimal.RequireFromString("250000")) {
		t.Error("A rejected update must not change the stored entity")
	}
}

func TestUpdateProperty_UnknownOwner(t *testing.T) {
	f := newPropertyFixture()
	created, err := f.service.CreateProperty(context.Background(), lakeviewRequest())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	owner := uint(42)
	_, err = f.service.UpdateProperty(context.Background(), created.ID, dto.UpdatePropertyRequest{OwnerID: &owner})

	var rerr *domain.ReferenceError
	if !errors.As(err, &rerr) {
		t.Errorf("Expected ReferenceError, got %v", err)
	}
}

func TestDeleteProperty(t *testing.T) {
	f := newPropertyFixture()
	created, err := f.service.CreateProperty(context.Background(), lakeviewRequest())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := f.service.DeleteProperty(context.Background(), created.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	_, err = f.service.GetProperty(context.Background(), created.ID)
	var notFound *domain.NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("Expected NotFoundError after delete, got %v", err)
	}

	last := f.publisher.messages[len(f.publisher.messages)-1]
	if last.Action != publishers.ActionDelete {
		t.Errorf("Expected delete event, got %s", last.Action)
	}
}

func TestDeleteProperty_NotFound(t *testing.T) {
	f := newPropertyFixture()

	err := f.service.DeleteProperty(context.Background(), 999)

	var notFound *domain.NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("Expected NotFoundError, got %v", err)
	}
}

func TestListProperties_FiltersAndDefaults(t *testing.T) {
	f := newPropertyFixture()
	for i := 0; i < 3; i++ {
		if _, err := f.service.CreateProperty(context.Background(), lakeviewRequest()); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
	}
	land := lakeviewRequest()
	land.PropertyType = "land"
	land.OwnerID = 2
	if _, err := f.service.CreateProperty(context.Background(), land); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	properties, total, filter, err := f.service.ListProperties(context.Background(), dto.ListPropertiesRequest{PropertyType: "house"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if total != 3 || len(properties) != 3 {
		t.Errorf("Expected 3 houses, got %d (total %d)", len(properties), total)
	}
	if filter.Page != 1 || filter.PageSize != defaultPageSize {
		t.Errorf("Expected default pagination, got page=%d size=%d", filter.Page, filter.PageSize)
	}

	properties, total, _, err = f.service.ListProperties(context.Background(), dto.ListPropertiesRequest{OwnerID: 2})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if total != 1 || properties[0].PropertyType != domain.PropertyTypeLand {
		t.Errorf("Expected the land listing of owner 2, got %+v", properties)
	}
}

func TestListProperties_InvalidFilter(t *testing.T) {
	f := newPropertyFixture()

	cases := []dto.ListPropertiesRequest{
		{Status: "archived"},
		{PropertyType: "castle"},
		{PageSize: maxPageSize + 1},
		{Page: -1},
		{Page: math.MaxInt},
		{Page: math.MaxInt / 50, PageSize: 100},
	}
	for _, req := range cases {
		_, _, _, err := f.service.ListProperties(context.Background(), req)
		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("Expected ValidationError for %+v, got %v", req, err)
		}
	}
}

func TestGetProperty_StaleReadDoesNotRefillCache(t *testing.T) {
	f := newPropertyFixture()
	created, err := f.service.CreateProperty(context.Background(), lakeviewRequest())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	f.cache.Delete(created.ID)

	repo := &pausingPropertyRepository{
		mockPropertyRepository: f.repo,
		read:                   make(chan struct{}),
		release:                make(chan struct{}),
	}
	service := NewPropertyService(repo, f.cache, f.publisher, newTestClock())

	done := make(chan *domain.Property)
	go func() {
		property, err := service.GetProperty(context.Background(), created.ID)
		if err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
		done <- property
	}()

	// El GET ya leyó la fila vieja; el update se confirma antes de que siga.
	<-repo.read
	sold := "sold"
	if _, err := service.UpdateProperty(context.Background(), created.ID, dto.UpdatePropertyRequest{Status: &sold}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	close(repo.release)

	if stale := <-done; stale == nil || stale.Status != domain.PropertyStatusAvailable {
		t.Fatalf("Expected the in-flight read to see the old row, got %+v", stale)
	}
	if _, cached := f.cache.Get(created.ID); cached {
		t.Error("Expected the stale row to stay out of the cache")
	}

	got, err := service.GetProperty(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got.Status != domain.PropertyStatusSold {
		t.Errorf("Expected status sold after update, got %s", got.Status)
	}
}

func TestGetProperty_FillsCacheWithoutConcurrentWrites(t *testing.T) {
	f := newPropertyFixture()
	created, err := f.service.CreateProperty(context.Background(), lakeviewRequest())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	f.cache.Delete(created.ID)

	if _, err := f.service.GetProperty(context.Background(), created.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, cached := f.cache.Get(created.ID); !cached {
		t.Error("Expected GetProperty to fill the cache")
	}
}
