package detail

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-otp-auth/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockDetailStore struct{ mock.Mock }

func (m *mockDetailStore) Put(ctx context.Context, d *domain.Detail) error {
	return m.Called(ctx, d).Error(0)
}
func (m *mockDetailStore) Scan(ctx context.Context) ([]domain.Detail, error) {
	args := m.Called(ctx)
	if ds, _ := args.Get(0).([]domain.Detail); ds != nil {
		return ds, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestCreate(t *testing.T) {
	repo := &mockDetailStore{}
	repo.On("Put", mock.Anything, mock.AnythingOfType("*domain.Detail")).Return(nil)

	svc := NewService(repo)
	d, err := svc.Create(context.Background(), domain.DetailInput{Title: " Title ", Description: "Body"})
	require.NoError(t, err)
	assert.NotEmpty(t, d.DetailID)
	assert.Equal(t, "Title", d.Title)
	assert.Equal(t, "Body", d.Description)
	assert.WithinDuration(t, time.Now(), d.CreatedAt, 5*time.Second)
	repo.AssertExpectations(t)
}

func TestCreate_MissingFields(t *testing.T) {
	repo := &mockDetailStore{}
	svc := NewService(repo)

	for _, in := range []domain.DetailInput{{Title: "t"}, {Description: "d"}, {Title: "  ", Description: "d"}} {
		_, err := svc.Create(context.Background(), in)
		assert.True(t, errors.Is(err, domain.ErrBadRequest), "input %+v", in)
	}
	repo.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestCreate_StoreFailure(t *testing.T) {
	repo := &mockDetailStore{}
	repo.On("Put", mock.Anything, mock.Anything).Return(errors.New("throttled"))

	_, err := NewService(repo).Create(context.Background(), domain.DetailInput{Title: "t", Description: "d"})
	assert.True(t, errors.Is(err, domain.ErrUpstream))
}

func TestList_NewestFirst(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := &mockDetailStore{}
	repo.On("Scan", mock.Anything).Return([]domain.Detail{
		{DetailID: "01A", CreatedAt: base},
		{DetailID: "01C", CreatedAt: base.Add(2 * time.Hour)},
		{DetailID: "01B", CreatedAt: base.Add(time.Hour)},
		{DetailID: "01D", CreatedAt: base.Add(time.Hour)},
	}, nil)

	got, err := NewService(repo).List(context.Background())
	require.NoError(t, err)
	var ids []string
	for _, d := range got {
		ids = append(ids, d.DetailID)
	}
	assert.Equal(t, []string{"01C", "01D", "01B", "01A"}, ids)
}

func TestList_EmptyIsNotNil(t *testing.T) {
	repo := &mockDetailStore{}
	repo.On("Scan", mock.Anything).Return(nil, nil)

	got, err := NewService(repo).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
