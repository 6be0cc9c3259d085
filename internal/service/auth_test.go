package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"todolist-web/internal/domain"
	"todolist-web/internal/repository"
	"todolist-web/internal/repository/mocks"
	"todolist-web/internal/service"
)

const testSecret = "very-secret-key"

func newAuthService(t *testing.T, users *mocks.UserRepository, sessions repository.SessionStore) *service.AuthService {
	t.Helper()
	authService, err := service.NewAuthService(users, sessions, service.NewPBKDF2Hasher(1000), testSecret, time.Hour)
	require.NoError(t, err, "创建 AuthService 不应失败")
	return authService
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := service.NewPBKDF2Hasher(1000).Hash(password)
	require.NoError(t, err)
	return h
}

// --- 测试 Register 方法 ---

func TestAuthService_Register_Success(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := newAuthService(t, mockUserRepo, nil)
	ctx := context.Background()

	mockUserRepo.On("FindByEmail", ctx, "a@x.com").Return(nil, repository.ErrUserNotFound).Once()
	mockUserRepo.On("Create", ctx, mock.MatchedBy(func(user *domain.User) bool {
		return user.Email == "a@x.com" && user.Username == "alice" &&
			strings.HasPrefix(user.Password, "pbkdf2:sha256:") &&
			service.CheckPassword(user.Password, "pw1")
	})).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.User).ID = 5 // 模拟数据库分配 ID
		}).
		Return(nil).Once()

	user, err := authService.Register(ctx, " a@x.com ", "pw1", "alice")

	require.NoError(t, err)
	assert.Equal(t, uint(5), user.ID)
	assert.Equal(t, "a@x.com", user.Email)
	assert.NotEqual(t, "pw1", user.Password, "密码不能以明文保存")
	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Register_EmailTaken(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := newAuthService(t, mockUserRepo, nil)
	ctx := context.Background()

	existing := &domain.User{ID: 10, Email: "a@x.com"}
	mockUserRepo.On("FindByEmail", ctx, "a@x.com").Return(existing, nil).Once()

	_, err := authService.Register(ctx, "a@x.com", "pw1", "alice")

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrEmailTaken))
	mockUserRepo.AssertExpectations(t)
	mockUserRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_Register_CreateFails_DuplicateEntry(t *testing.T) {
	// 预检查通过但并发请求抢先插入，唯一索引拒绝第二次插入
	mockUserRepo := new(mocks.UserRepository)
	authService := newAuthService(t, mockUserRepo, nil)
	ctx := context.Background()

	mockUserRepo.On("FindByEmail", ctx, "a@x.com").Return(nil, repository.ErrUserNotFound).Once()
	mockUserRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(repository.ErrDuplicateEntry).Once()

	_, err := authService.Register(ctx, "a@x.com", "pw1", "alice")

	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrEmailTaken)
	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Register_RepositoryError(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := newAuthService(t, mockUserRepo, nil)
	ctx := context.Background()

	mockUserRepo.On("FindByEmail", ctx, "a@x.com").Return(nil, errors.New("connection reset")).Once()

	_, err := authService.Register(ctx, "a@x.com", "pw1", "alice")
	assert.ErrorIs(t, err, service.ErrInternalServer)
}

func TestAuthService_Register_MissingFields(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := newAuthService(t, mockUserRepo, nil)

	for _, in := range [][3]string{{"", "pw", "u"}, {"a@x.com", "", "u"}, {"a@x.com", "pw", "  "}} {
		_, err := authService.Register(context.Background(), in[0], in[1], in[2])
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	}
	mockUserRepo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}

// --- 测试 Login 方法 ---

func TestAuthService_Login_Success(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := newAuthService(t, mockUserRepo, nil)
	ctx := context.Background()
	userInDb := &domain.User{ID: 1, Email: "a@x.com", Password: hashed(t, "pw1")}

	mockUserRepo.On("FindByEmail", ctx, "a@x.com").Return(userInDb, nil).Once()

	user, err := authService.Login(ctx, "a@x.com", "pw1")

	require.NoError(t, err)
	assert.Equal(t, uint(1), user.ID)
	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := newAuthService(t, mockUserRepo, nil)
	ctx := context.Background()

	mockUserRepo.On("FindByEmail", ctx, "nobody@x.com").Return(nil, repository.ErrUserNotFound).Once()

	user, err := authService.Login(ctx, "nobody@x.com", "pw1")

	require.Error(t, err)
	assert.Nil(t, user)
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestAuthService_Login_IncorrectPassword(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := newAuthService(t, mockUserRepo, nil)
	ctx := context.Background()
	userInDb := &domain.User{ID: 1, Email: "a@x.com", Password: hashed(t, "pw1")}

	mockUserRepo.On("FindByEmail", ctx, "a@x.com").Return(userInDb, nil).Once()

	user, err := authService.Login(ctx, "a@x.com", "wrong")

	require.Error(t, err)
	assert.Nil(t, user, "错误密码绝不能认证成功")
	assert.ErrorIs(t, err, service.ErrIncorrectPassword)
}

// --- 测试会话 ---

func TestAuthService_SessionRoundTrip(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := newAuthService(t, mockUserRepo, nil)
	ctx := context.Background()
	alice := &domain.User{ID: 7, Email: "a@x.com"}

	token, expiresAt, err := authService.IssueSession(alice)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	mockUserRepo.On("FindByID", ctx, uint(7)).Return(alice, nil).Once()

	user, err := authService.ResolveSession(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), user.ID)
	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_ResolveSession_Rejects(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := newAuthService(t, mockUserRepo, nil)
	ctx := context.Background()

	// 其他密钥签名的令牌
	other, err := service.NewAuthService(mockUserRepo, nil, nil, "another-secret", time.Hour)
	require.NoError(t, err)
	forged, _, err := other.IssueSession(&domain.User{ID: 7})
	require.NoError(t, err)

	// 使用 none 算法的令牌
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, service.SessionClaims{
		UserID: 7,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "x",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	// 已过期的令牌
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, service.SessionClaims{
		UserID: 7,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "y",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	for name, token := range map[string]string{"empty": "", "garbage": "not-a-token", "forged": forged, "none": unsigned, "expired": expired} {
		_, err := authService.ResolveSession(ctx, token)
		assert.ErrorIs(t, err, service.ErrInvalidSession, name)
	}
	mockUserRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestAuthService_ResolveSession_DeletedUser(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := newAuthService(t, mockUserRepo, nil)
	ctx := context.Background()

	token, _, err := authService.IssueSession(&domain.User{ID: 9})
	require.NoError(t, err)
	mockUserRepo.On("FindByID", ctx, uint(9)).Return(nil, repository.ErrUserNotFound).Once()

	_, err = authService.ResolveSession(ctx, token)
	assert.ErrorIs(t, err, service.ErrInvalidSession)
}

func TestAuthService_Logout_RevokesSession(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	mockSessions := new(mocks.SessionStore)
	authService := newAuthService(t, mockUserRepo, mockSessions)
	ctx := context.Background()

	token, expiresAt, err := authService.IssueSession(&domain.User{ID: 3})
	require.NoError(t, err)

	mockSessions.On("Revoke", ctx, mock.AnythingOfType("string"), mock.MatchedBy(func(at time.Time) bool {
		return at.Unix() == expiresAt.Unix()
	})).Return(nil).Once()
	require.NoError(t, authService.Logout(ctx, token))

	mockSessions.On("IsRevoked", ctx, mock.AnythingOfType("string")).Return(true, nil).Once()
	_, err = authService.ResolveSession(ctx, token)
	assert.ErrorIs(t, err, service.ErrInvalidSession)

	mockSessions.AssertExpectations(t)
	mockUserRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestAuthService_Logout_InvalidTokenIsNoop(t *testing.T) {
	mockSessions := new(mocks.SessionStore)
	authService := newAuthService(t, new(mocks.UserRepository), mockSessions)

	assert.NoError(t, authService.Logout(context.Background(), "garbage"))
	mockSessions.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything, mock.Anything)
}

func TestNewAuthService_EmptySecret(t *testing.T) {
	_, err := service.NewAuthService(new(mocks.UserRepository), nil, nil, "", time.Hour)
	assert.Error(t, err)
}
