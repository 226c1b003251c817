package categories

import (
	"context"
	"testing"

	"eventhub/internal/shared/validation"
	"eventhub/pkg/cache"
	"eventhub/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type MockRepository struct {
	categories  map[uuid.UUID]*Category
	eventCounts map[uuid.UUID]int64
	listCalls   int
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		categories:  make(map[uuid.UUID]*Category),
		eventCounts: make(map[uuid.UUID]int64),
	}
}

func (m *MockRepository) Create(ctx context.Context, category *Category) error {
	m.categories[category.ID] = category
	return nil
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (m *MockRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]Category, error) {
	var out []Category
	for _, id := range ids {
		if c, ok := m.categories[id]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *MockRepository) NameTaken(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	for id, c := range m.categories {
		if c.Name == name && (excludeID == nil || *excludeID != id) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockRepository) Update(ctx context.Context, category *Category) error {
	m.categories[category.ID] = category
	return nil
}

func (m *MockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.categories, id)
	return nil
}

func (m *MockRepository) ListWithCounts(ctx context.Context) ([]CategoryWithCount, error) {
	var out []CategoryWithCount
	for id, c := range m.categories {
		out = append(out, CategoryWithCount{Category: *c, EventCount: m.eventCounts[id]})
	}
	return out, nil
}

func (m *MockRepository) ListActive(ctx context.Context) ([]Category, error) {
	m.listCalls++
	var out []Category
	for _, c := range m.categories {
		if c.IsActive {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *MockRepository) CountEvents(ctx context.Context, id uuid.UUID) (int64, error) {
	return m.eventCounts[id], nil
}

func (m *MockRepository) EventsOf(ctx context.Context, id uuid.UUID) ([]EventSummary, error) {
	return []EventSummary{}, nil
}

func newTestService(repo *MockRepository) Service {
	return NewService(repo, cache.NewNoop(), logger.Discard())
}

func TestGenerateSlug(t *testing.T) {
	assert.Equal(t, "rock-nacional", generateSlug("  Rock   Nacional! "))
	assert.Equal(t, "música-en-vivo", generateSlug("Música en vivo"))
}

func TestCreate(t *testing.T) {
	repo := NewMockRepository()
	svc := newTestService(repo)

	category, err := svc.Create(context.Background(), CategoryRequest{Name: "  Cumbia ", Description: "Música tropical"})
	require.NoError(t, err)
	assert.Equal(t, "Cumbia", category.Name)
	assert.Equal(t, "cumbia", category.Slug)
	assert.True(t, category.IsActive)
}

func TestCreate_FieldErrors(t *testing.T) {
	repo := NewMockRepository()
	svc := newTestService(repo)
	_, err := svc.Create(context.Background(), CategoryRequest{Name: "Jazz", Description: "Jazz clasico"})
	require.NoError(t, err)

	cases := []struct {
		name string
		req  CategoryRequest
		want map[string]string
	}{
		{"blank name", CategoryRequest{Name: "   ", Description: "ok"}, map[string]string{"name": "category name cannot be blank"}},
		{"duplicate", CategoryRequest{Name: " Jazz ", Description: "ok"}, map[string]string{"name": "category name already exists"}},
		{"missing description", CategoryRequest{Name: "Rock", Description: "  "}, map[string]string{"description": "description is required"}},
		{"bad description", CategoryRequest{Name: "Rock", Description: "rock & roll!"}, map[string]string{"description": "description may only contain letters, numbers and spaces"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.req)
			fieldErrs, ok := validation.As(err)
			require.True(t, ok)
			for field, msg := range tc.want {
				assert.Equal(t, msg, fieldErrs[field])
			}
		})
	}
}

func TestUpdate_SameNameAllowed(t *testing.T) {
	repo := NewMockRepository()
	svc := newTestService(repo)
	category, err := svc.Create(context.Background(), CategoryRequest{Name: "Teatro", Description: "Obras"})
	require.NoError(t, err)

	inactive := false
	updated, err := svc.Update(context.Background(), category.ID, CategoryRequest{Name: "Teatro", Description: "Obras de teatro", IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "Obras de teatro", updated.Description)
}

func TestDelete_Rules(t *testing.T) {
	repo := NewMockRepository()
	svc := newTestService(repo)

	active := &Category{ID: uuid.New(), Name: "A", IsActive: true}
	attached := &Category{ID: uuid.New(), Name: "B", IsActive: false}
	free := &Category{ID: uuid.New(), Name: "C", IsActive: false}
	for _, c := range []*Category{active, attached, free} {
		repo.categories[c.ID] = c
	}
	repo.eventCounts[attached.ID] = 1

	assert.ErrorIs(t, svc.Delete(context.Background(), active.ID), ErrCategoryActive)
	assert.ErrorIs(t, svc.Delete(context.Background(), attached.ID), ErrCategoryInUse)
	require.NoError(t, svc.Delete(context.Background(), free.ID))
	assert.NotContains(t, repo.categories, free.ID)
	assert.ErrorIs(t, svc.Delete(context.Background(), free.ID), ErrCategoryNotFound)
}

func TestResolveActive(t *testing.T) {
	repo := NewMockRepository()
	svc := newTestService(repo)

	on := &Category{ID: uuid.New(), Name: "on", IsActive: true}
	off := &Category{ID: uuid.New(), Name: "off", IsActive: false}
	repo.categories[on.ID] = on
	repo.categories[off.ID] = off

	got, err := svc.ResolveActive(context.Background(), []uuid.UUID{on.ID, on.ID})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = svc.ResolveActive(context.Background(), []uuid.UUID{on.ID, off.ID})
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	_, err = svc.ResolveActive(context.Background(), []uuid.UUID{uuid.New()})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestListActive_UsesRepository(t *testing.T) {
	repo := NewMockRepository()
	repo.categories[uuid.New()] = &Category{Name: "x", IsActive: true}
	svc := newTestService(repo)

	got, err := svc.ListActive(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 1, repo.listCalls)
}
