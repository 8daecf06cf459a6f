package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-profile-directory/config"
	"go-profile-directory/internal/domain"
	"go-profile-directory/pkg/apperror"
	"go-profile-directory/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "handler-secret"
	userID     = "7d5bb7a4-8a3f-4f0e-9f44-3b0f3f4c1a01"
	adminID    = "0c3a2b1d-5e6f-4a7b-8c9d-0e1f2a3b4c5d"
	profileID  = "a1b2c3d4-e5f6-4a7b-8c9d-0e1f2a3b4c5d"
)

type mockAuthUC struct {
	mock.Mock
}

// ResolveIdentity is deterministic so every test can authenticate.
func (m *mockAuthUC) ResolveIdentity(_ context.Context, claims domain.TokenClaims) (*domain.Identity, error) {
	return &domain.Identity{ID: claims.Subject, Email: claims.Email, Name: "Tester", IsAdmin: claims.Subject == adminID}, nil
}

func (m *mockAuthUC) SyncUser(ctx context.Context) (*domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockAuthUC) SignInURL(redirectTo string) (string, string, error) {
	args := m.Called(redirectTo)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *mockAuthUC) CompleteSignIn(ctx context.Context, code, verifier string) (*domain.Session, error) {
	args := m.Called(ctx, code, verifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *mockAuthUC) SignOut(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockAuthUC) SetAdmin(ctx context.Context, id string, isAdmin bool) (*domain.User, error) {
	args := m.Called(ctx, id, isAdmin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type mockMentorUC struct{}

func (mockMentorUC) List(context.Context) ([]domain.Mentor, error) {
	return []domain.Mentor{{ID: "mentor-1", Name: "Ali"}}, nil
}

func (mockMentorUC) Identify(_ context.Context, id string) (*domain.Identity, error) {
	if id != "mentor-1" {
		return nil, apperror.Unauthorized("Unknown mentor")
	}
	return domain.Mentor{ID: id, Name: "Ali"}.Identity(), nil
}

type mockProfileUC struct {
	mock.Mock
}

func (m *mockProfileUC) List(ctx context.Context, f domain.ProfileFilter) ([]domain.Profile, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Profile), args.Error(1)
}

func (m *mockProfileUC) Get(ctx context.Context, id string) (*domain.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *mockProfileUC) GetDetail(ctx context.Context, id string) (*domain.ProfileDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProfileDetail), args.Error(1)
}

func (m *mockProfileUC) Create(ctx context.Context, in domain.ProfileInput) (*domain.Profile, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *mockProfileUC) Update(ctx context.Context, id string, in domain.ProfileInput) (*domain.Profile, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *mockProfileUC) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockProfileUC) SetStatus(ctx context.Context, id string, active bool) (*domain.Profile, error) {
	args := m.Called(ctx, id, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *mockProfileUC) UploadImage(ctx context.Context, id string, up domain.ImageUpload) (*domain.Profile, error) {
	args := m.Called(ctx, id, up)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *mockProfileUC) Export(ctx context.Context) (*domain.Export, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Export), args.Error(1)
}

type mockCommentUC struct {
	mock.Mock
}

func (m *mockCommentUC) List(ctx context.Context, id string) ([]domain.Comment, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]domain.Comment), args.Error(1)
}

func (m *mockCommentUC) Add(ctx context.Context, id string, in domain.CommentInput) (*domain.Comment, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comment), args.Error(1)
}

type mockTouchPointUC struct {
	mock.Mock
}

func (m *mockTouchPointUC) List(ctx context.Context, id string) ([]domain.TouchPoint, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]domain.TouchPoint), args.Error(1)
}

func (m *mockTouchPointUC) Latest(ctx context.Context, id string) (*domain.TouchPoint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TouchPoint), args.Error(1)
}

func (m *mockTouchPointUC) LatestForProfiles(ctx context.Context, ids []string) (map[string]domain.TouchPoint, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[string]domain.TouchPoint), args.Error(1)
}

func (m *mockTouchPointUC) Add(ctx context.Context, id string, in domain.TouchPointInput) (*domain.TouchPoint, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TouchPoint), args.Error(1)
}

type stubHealthUC struct {
	report domain.HealthReport
}

func (s stubHealthUC) Check(context.Context) domain.HealthReport { return s.report }

type testServer struct {
	router      *gin.Engine
	auth        *mockAuthUC
	profiles    *mockProfileUC
	comments    *mockCommentUC
	touchPoints *mockTouchPointUC
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &testServer{
		auth:        new(mockAuthUC),
		profiles:    new(mockProfileUC),
		comments:    new(mockCommentUC),
		touchPoints: new(mockTouchPointUC),
	}
	s.router = NewRouter(RouterDeps{
		AuthUC:       s.auth,
		MentorUC:     mockMentorUC{},
		ProfileUC:    s.profiles,
		CommentUC:    s.comments,
		TouchPointUC: s.touchPoints,
		HealthUC:     stubHealthUC{report: domain.HealthReport{Status: "ok", Components: map[string]string{"database": "ok"}}},
		Audit:        security.NopAuditLogger(),
		Config: &config.Config{
			SupabaseJWTSecret:        testSecret,
			AllowedOrigins:           []string{"http://localhost:3000"},
			RateLimitWindowSeconds:   60,
			RateLimitGlobalThreshold: 1000,
			RateLimitWriteThreshold:  1000,
		},
	})
	return s
}

func bearer(t *testing.T, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   sub,
		"email": "someone@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	s, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + s
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func jsonBody(t *testing.T, v interface{}) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(httptest.NewRequest(http.MethodGet, "/v1/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["success"])
}

func TestListProfiles(t *testing.T) {
	s := newTestServer(t)
	s.profiles.On("List", mock.Anything, domain.ProfileFilter{Search: "Go", Status: "all"}).
		Return([]domain.Profile{{ID: profileID, Name: "Sara"}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/profiles?search=Go&status=all", nil)
	req.Header.Set("Authorization", bearer(t, userID))
	w := s.do(req)

	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].([]interface{})
	assert.Len(t, data, 1)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestListProfilesRejectsBadStatusAndAnonymous(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/profiles?status=deleted", nil)
	req.Header.Set("Authorization", bearer(t, userID))
	assert.Equal(t, http.StatusBadRequest, s.do(req).Code)

	assert.Equal(t, http.StatusUnauthorized, s.do(httptest.NewRequest(http.MethodGet, "/v1/profiles", nil)).Code)
}

func TestGetProfileValidatesID(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/profiles/not-a-uuid", nil)
	req.Header.Set("Authorization", bearer(t, userID))
	assert.Equal(t, http.StatusBadRequest, s.do(req).Code)
	s.profiles.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestGetProfileNotFound(t *testing.T) {
	s := newTestServer(t)
	s.profiles.On("Get", mock.Anything, profileID).Return(nil, apperror.NotFound("Profile not found"))

	req := httptest.NewRequest(http.MethodGet, "/v1/profiles/"+profileID, nil)
	req.Header.Set("Authorization", bearer(t, userID))
	w := s.do(req)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Profile not found", decode(t, w)["message"])
}

func TestMentorCanReadAndPostTouchPoints(t *testing.T) {
	s := newTestServer(t)
	s.profiles.On("GetDetail", mock.Anything, profileID).Return(&domain.ProfileDetail{Profile: &domain.Profile{ID: profileID}}, nil)
	s.touchPoints.On("Add", mock.MatchedBy(func(ctx context.Context) bool {
		id, ok := domain.IdentityFromContext(ctx)
		return ok && id.IsMentor
	}), profileID, domain.TouchPointInput{Content: "called"}).Return(&domain.TouchPoint{ID: "t1"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/profiles/"+profileID+"/detail", nil)
	req.Header.Set("X-Mentor-ID", "mentor-1")
	assert.Equal(t, http.StatusOK, s.do(req).Code)

	req = httptest.NewRequest(http.MethodPost, "/v1/profiles/"+profileID+"/touch-points", jsonBody(t, ContentRequest{Content: "called"}))
	req.Header.Set("X-Mentor-ID", "mentor-1")
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusCreated, s.do(req).Code)
}

func TestMentorCannotComment(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/v1/profiles/"+profileID+"/comments", jsonBody(t, ContentRequest{Content: "hi"}))
	req.Header.Set("X-Mentor-ID", "mentor-1")
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusForbidden, s.do(req).Code)
	s.comments.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserComments(t *testing.T) {
	s := newTestServer(t)
	s.comments.On("Add", mock.Anything, profileID, domain.CommentInput{Content: "great"}).Return(&domain.Comment{ID: "c1"}, nil)
	s.comments.On("List", mock.Anything, profileID).Return([]domain.Comment{{ID: "c1"}}, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/profiles/"+profileID+"/comments", jsonBody(t, ContentRequest{Content: "great"}))
	req.Header.Set("Authorization", bearer(t, userID))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusCreated, s.do(req).Code)

	req = httptest.NewRequest(http.MethodGet, "/v1/profiles/"+profileID+"/comments", nil)
	req.Header.Set("Authorization", bearer(t, userID))
	assert.Equal(t, http.StatusOK, s.do(req).Code)
}

func TestLatestTouchPointNull(t *testing.T) {
	s := newTestServer(t)
	s.touchPoints.On("Latest", mock.Anything, profileID).Return(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/profiles/"+profileID+"/touch-points/latest", nil)
	req.Header.Set("Authorization", bearer(t, userID))
	w := s.do(req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decode(t, w)["data"])
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/profiles", jsonBody(t, domain.ProfileInput{Name: "Sara"}))
	req.Header.Set("Authorization", bearer(t, userID))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusForbidden, s.do(req).Code)

	req = httptest.NewRequest(http.MethodGet, "/v1/admin/profiles/export", nil)
	req.Header.Set("X-Mentor-ID", "mentor-1")
	assert.Equal(t, http.StatusForbidden, s.do(req).Code)
}

func TestAdminCreateProfileValidation(t *testing.T) {
	s := newTestServer(t)
	s.profiles.On("Create", mock.Anything, mock.Anything).
		Return(nil, apperror.BadRequest("Validation failed").WithDetails([]string{"Name is required"}))

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/profiles", jsonBody(t, domain.ProfileInput{}))
	req.Header.Set("Authorization", bearer(t, adminID))
	req.Header.Set("Content-Type", "application/json")
	w := s.do(req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []interface{}{"Name is required"}, decode(t, w)["error"])
}

func TestAdminSetStatus(t *testing.T) {
	s := newTestServer(t)
	s.profiles.On("SetStatus", mock.Anything, profileID, false).Return(&domain.Profile{ID: profileID}, nil)

	req := httptest.NewRequest(http.MethodPatch, "/v1/admin/profiles/"+profileID+"/status", strings.NewReader(`{"is_active": false}`))
	req.Header.Set("Authorization", bearer(t, adminID))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusOK, s.do(req).Code)

	req = httptest.NewRequest(http.MethodPatch, "/v1/admin/profiles/"+profileID+"/status", strings.NewReader(`{}`))
	req.Header.Set("Authorization", bearer(t, adminID))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusBadRequest, s.do(req).Code)
}

func TestAdminUploadImage(t *testing.T) {
	s := newTestServer(t)
	s.profiles.On("UploadImage", mock.Anything, profileID, mock.MatchedBy(func(up domain.ImageUpload) bool {
		return up.Filename == "photo.png" && string(up.Data) == "fake-bytes"
	})).Return(&domain.Profile{ID: profileID, ImageURL: "https://img"}, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "photo.png")
	require.NoError(t, err)
	_, _ = part.Write([]byte("fake-bytes"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/profiles/"+profileID+"/image", &buf)
	req.Header.Set("Authorization", bearer(t, adminID))
	req.Header.Set("Content-Type", mw.FormDataContentType())
	assert.Equal(t, http.StatusOK, s.do(req).Code)

	req = httptest.NewRequest(http.MethodPost, "/v1/admin/profiles/"+profileID+"/image", strings.NewReader(""))
	req.Header.Set("Authorization", bearer(t, adminID))
	assert.Equal(t, http.StatusBadRequest, s.do(req).Code)
}

func TestAdminExport(t *testing.T) {
	s := newTestServer(t)
	s.profiles.On("Export", mock.Anything).Return(&domain.Export{
		Filename:    "profiles_20240101_000000.xlsx",
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        []byte("PK"),
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/profiles/export", nil)
	req.Header.Set("Authorization", bearer(t, adminID))
	w := s.do(req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "profiles_20240101_000000.xlsx")
	assert.Equal(t, "PK", w.Body.String())
}

func TestAdminSetAdmin(t *testing.T) {
	s := newTestServer(t)
	s.auth.On("SetAdmin", mock.Anything, userID, true).Return(&domain.User{ID: userID, IsAdmin: true}, nil)

	req := httptest.NewRequest(http.MethodPut, "/v1/admin/users/"+userID+"/admin", strings.NewReader(`{"is_admin": true}`))
	req.Header.Set("Authorization", bearer(t, adminID))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusOK, s.do(req).Code)
}

func TestGoogleSignInSetsVerifierCookie(t *testing.T) {
	s := newTestServer(t)
	s.auth.On("SignInURL", "").Return("https://x.supabase.co/auth/v1/authorize?provider=google", "verifier-123", nil)

	w := s.do(httptest.NewRequest(http.MethodGet, "/v1/auth/google", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://x.supabase.co/auth/v1/authorize?provider=google", w.Header().Get("Location"))

	var found bool
	for _, ck := range w.Result().Cookies() {
		if ck.Name == pkceCookieName {
			found = true
			assert.Equal(t, "verifier-123", ck.Value)
			assert.True(t, ck.HttpOnly)
		}
	}
	assert.True(t, found)
}

func TestCallbackSetsAuthCookie(t *testing.T) {
	s := newTestServer(t)
	s.auth.On("CompleteSignIn", mock.Anything, "code-1", "verifier-123").Return(&domain.Session{
		AccessToken: "access",
		ExpiresIn:   3600,
		User:        &domain.Identity{ID: userID},
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/callback", strings.NewReader(`{"code":"code-1"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: pkceCookieName, Value: "verifier-123"})
	w := s.do(req)
	require.Equal(t, http.StatusOK, w.Code)

	cookies := map[string]*http.Cookie{}
	for _, ck := range w.Result().Cookies() {
		cookies[ck.Name] = ck
	}
	require.Contains(t, cookies, "auth_token")
	assert.Equal(t, "access", cookies["auth_token"].Value)
	assert.True(t, cookies[pkceCookieName].MaxAge < 0)
}

func TestCallbackRequiresCode(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/callback", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusBadRequest, s.do(req).Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	s := newTestServer(t)
	s.auth.On("SignOut", mock.Anything, "tok").Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer tok")
	w := s.do(req)
	assert.Equal(t, http.StatusOK, w.Code)

	var cleared bool
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "auth_token" {
			cleared = ck.Value == "" && ck.MaxAge < 0
		}
	}
	assert.True(t, cleared)
}

func TestMeAndSync(t *testing.T) {
	s := newTestServer(t)
	s.auth.On("SyncUser", mock.Anything).Return(&domain.User{ID: userID}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
	req.Header.Set("Authorization", bearer(t, userID))
	w := s.do(req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, decode(t, w)["data"].(map[string]interface{})["id"])

	req = httptest.NewRequest(http.MethodPost, "/v1/auth/sync", nil)
	req.Header.Set("Authorization", bearer(t, userID))
	assert.Equal(t, http.StatusOK, s.do(req).Code)

	req = httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
	req.Header.Set("X-Mentor-ID", "mentor-1")
	assert.Equal(t, http.StatusForbidden, s.do(req).Code)
}

func TestMentorsArePublic(t *testing.T) {
	s := newTestServer(t)
	w := s.do(httptest.NewRequest(http.MethodGet, "/v1/mentors", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["data"], 1)
}
