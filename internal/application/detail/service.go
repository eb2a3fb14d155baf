package detail

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-otp-auth/internal/domain"
	"github.com/go-otp-auth/internal/pkg/id"
	"github.com/go-otp-auth/internal/pkg/validate"
)

type Service interface {
	Create(ctx context.Context, input domain.DetailInput) (*domain.Detail, error)
	List(ctx context.Context) ([]domain.Detail, error) // newest first
}

type detailStore interface {
	Put(ctx context.Context, d *domain.Detail) error
	Scan(ctx context.Context) ([]domain.Detail, error)
}

type service struct {
	repo detailStore
	now  func() time.Time
}

func NewService(repo detailStore) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) Create(ctx context.Context, input domain.DetailInput) (*domain.Detail, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrBadRequest, err)
	}
	d := &domain.Detail{
		DetailID:    id.New(),
		Title:       input.Title,
		Description: input.Description,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.Put(ctx, d); err != nil {
		return nil, fmt.Errorf("store detail: %w: %w", domain.ErrUpstream, err)
	}
	return d, nil
}

func (s *service) List(ctx context.Context) ([]domain.Detail, error) {
	details, err := s.repo.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan details: %w: %w", domain.ErrUpstream, err)
	}
	// ULIDs sort by creation time, so they break timestamp ties.
	sort.SliceStable(details, func(i, j int) bool {
		if !details[i].CreatedAt.Equal(details[j].CreatedAt) {
			return details[i].CreatedAt.After(details[j].CreatedAt)
		}
		return details[i].DetailID > details[j].DetailID
	})
	if details == nil {
		details = []domain.Detail{}
	}
	return details, nil
}
