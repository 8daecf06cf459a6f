package usecase_test

import (
	"context"
	"time"

	"go-profile-directory/internal/domain"
	"go-profile-directory/pkg/supabase"

	"github.com/stretchr/testify/mock"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) EnsureExists(ctx context.Context, user *domain.User) (*domain.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) SetAdmin(ctx context.Context, id string, isAdmin bool) (*domain.User, error) {
	args := m.Called(ctx, id, isAdmin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) List(ctx context.Context, active *bool) ([]domain.Profile, error) {
	args := m.Called(ctx, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Profile), args.Error(1)
}

func (m *MockProfileRepo) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepo) Create(ctx context.Context, p *domain.Profile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProfileRepo) Update(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepo) SetActive(ctx context.Context, id string, active bool, at time.Time) (*domain.Profile, error) {
	args := m.Called(ctx, id, active, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepo) SetImageURL(ctx context.Context, id, imageURL string, at time.Time) (*domain.Profile, error) {
	args := m.Called(ctx, id, imageURL, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepo) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockCommentRepo struct {
	mock.Mock
}

func (m *MockCommentRepo) ListByProfile(ctx context.Context, profileID string) ([]domain.Comment, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Comment), args.Error(1)
}

func (m *MockCommentRepo) Create(ctx context.Context, c *domain.Comment) error {
	return m.Called(ctx, c).Error(0)
}

type MockTouchPointRepo struct {
	mock.Mock
}

func (m *MockTouchPointRepo) ListByProfile(ctx context.Context, profileID string) ([]domain.TouchPoint, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TouchPoint), args.Error(1)
}

func (m *MockTouchPointRepo) LatestByProfile(ctx context.Context, profileID string) (*domain.TouchPoint, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TouchPoint), args.Error(1)
}

func (m *MockTouchPointRepo) LatestForProfiles(ctx context.Context, ids []string) (map[string]domain.TouchPoint, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.TouchPoint), args.Error(1)
}

func (m *MockTouchPointRepo) Create(ctx context.Context, tp *domain.TouchPoint) error {
	return m.Called(ctx, tp).Error(0)
}

type MockMentorRepo struct {
	mock.Mock
}

func (m *MockMentorRepo) List(ctx context.Context) ([]domain.Mentor, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Mentor), args.Error(1)
}

func (m *MockMentorRepo) GetByID(ctx context.Context, id string) (*domain.Mentor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Mentor), args.Error(1)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, key, data, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockStorage) KeyFromURL(publicURL string) (string, bool) {
	args := m.Called(publicURL)
	return args.String(0), args.Bool(1)
}

type MockOAuth struct {
	mock.Mock
}

func (m *MockOAuth) AuthorizeURL(provider, redirectTo string) (string, string) {
	args := m.Called(provider, redirectTo)
	return args.String(0), args.String(1)
}

func (m *MockOAuth) ExchangeCode(ctx context.Context, code, verifier string) (*supabase.Session, error) {
	args := m.Called(ctx, code, verifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*supabase.Session), args.Error(1)
}

func (m *MockOAuth) SignOut(ctx context.Context, accessToken string) error {
	return m.Called(ctx, accessToken).Error(0)
}

func asUser(id string) context.Context {
	return domain.WithIdentity(context.Background(), &domain.Identity{ID: id, Email: id + "@example.com", Name: "User " + id})
}

func asAdmin(id string) context.Context {
	return domain.WithIdentity(context.Background(), &domain.Identity{ID: id, Email: id + "@example.com", Name: "Admin", IsAdmin: true})
}

func asMentor(id string) context.Context {
	return domain.WithIdentity(context.Background(), domain.Mentor{ID: id, Name: "Mentor"}.Identity())
}
