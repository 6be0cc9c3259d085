package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"todolist-web/internal/domain"
	"todolist-web/internal/repository"
)

// SessionClaims 是会话令牌中携带的声明。
// ID (jti) 用于退出登录时单独注销该会话。
type SessionClaims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

// AuthService 负责注册、登录以及会话令牌的签发、解析和注销。
type AuthService struct {
	userRepo   repository.UserRepository
	sessions   repository.SessionStore
	hasher     PasswordHasher
	secret     []byte        // 签名密钥
	sessionTTL time.Duration // 会话有效期
	now        func() time.Time
}

// NewAuthService 创建 AuthService 实例。
// sessions 为 nil 时退出登录只依赖客户端删除 Cookie。
func NewAuthService(userRepo repository.UserRepository, sessions repository.SessionStore, hasher PasswordHasher, secretKey string, sessionTTL time.Duration) (*AuthService, error) {
	if userRepo == nil {
		panic("UserRepository cannot be nil for AuthService")
	}
	if secretKey == "" {
		return nil, fmt.Errorf("secret key cannot be empty")
	}
	if sessions == nil {
		sessions = repository.NopSessionStore{}
	}
	if hasher == nil {
		hasher = NewPBKDF2Hasher(DefaultPBKDF2Iterations)
	}
	if sessionTTL <= 0 {
		sessionTTL = 30 * 24 * time.Hour
	}
	return &AuthService{
		userRepo:   userRepo,
		sessions:   sessions,
		hasher:     hasher,
		secret:     []byte(secretKey),
		sessionTTL: sessionTTL,
		now:        time.Now,
	}, nil
}

// Register 处理用户注册。
// 先按邮箱预检查，再依赖唯一索引兜底并发注册。
func (s *AuthService) Register(ctx context.Context, email, password, username string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)
	logCtx := logrus.WithFields(logrus.Fields{"email": email, "username": username})

	// 1. 基本验证
	if email == "" || password == "" || username == "" {
		return nil, ErrInvalidInput
	}

	// 2. 邮箱预检查
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		logCtx.Warn("Registration failed: email already exists")
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		logCtx.WithError(err).Error("Database error checking email during registration")
		return nil, ErrInternalServer
	}

	// 3. 哈希密码
	hashedPassword, err := s.hasher.Hash(password)
	if err != nil {
		logCtx.WithError(err).Error("Failed to hash password during registration")
		return nil, ErrInternalServer
	}

	// 4. 保存用户
	user := &domain.User{
		Email:    email,
		Password: hashedPassword,
		Username: username,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			logCtx.WithError(err).Warn("Registration failed: email already exists (repo error)")
			return nil, ErrEmailTaken
		}
		logCtx.WithError(err).Error("Database error during user creation")
		return nil, ErrInternalServer
	}

	logCtx.WithField("user_id", user.ID).Info("User registered successfully")
	return user, nil
}

// Login 校验邮箱和密码，成功时返回用户。
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	logCtx := logrus.WithField("email", email)

	// 1. 查找用户
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			logCtx.Warn("Login attempt failed: User not found")
			return nil, ErrUserNotFound
		}
		logCtx.WithError(err).Error("Login attempt failed: Error finding user")
		return nil, ErrInternalServer
	}

	// 2. 验证密码
	if !CheckPassword(user.Password, password) {
		logCtx.Warn("Login attempt failed: Invalid password")
		return nil, ErrIncorrectPassword
	}

	logCtx.WithField("user_id", user.ID).Info("User logged in successfully")
	return user, nil
}

// IssueSession 为用户签发会话令牌，返回令牌及其过期时间。
func (s *AuthService) IssueSession(user *domain.User) (string, time.Time, error) {
	if user == nil || user.ID == 0 {
		return "", time.Time{}, ErrInvalidInput
	}
	now := s.now()
	expiresAt := now.Add(s.sessionTTL)
	claims := SessionClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, expiresAt, nil
}

// ResolveSession 验证令牌并加载对应的用户。
// 签名错误、过期、已注销或用户不存在时都返回 ErrInvalidSession。
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.parseSession(token)
	if err != nil {
		logrus.WithError(err).Debug("ResolveSession: invalid token")
		return nil, ErrInvalidSession
	}
	logCtx := logrus.WithFields(logrus.Fields{"user_id": claims.UserID, "session_id": claims.ID})

	revoked, err := s.sessions.IsRevoked(ctx, claims.ID)
	if err != nil {
		logCtx.WithError(err).Error("ResolveSession: session store error")
		return nil, ErrInternalServer
	}
	if revoked {
		logCtx.Debug("ResolveSession: session revoked")
		return nil, ErrInvalidSession
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			logCtx.Warn("ResolveSession: user no longer exists")
			return nil, ErrInvalidSession
		}
		logCtx.WithError(err).Error("ResolveSession: repository error")
		return nil, ErrInternalServer
	}
	return user, nil
}

// Logout 注销令牌对应的会话。无效令牌视为已经退出。
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.parseSession(token)
	if err != nil {
		return nil
	}
	if err := s.sessions.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		logrus.WithError(err).WithField("user_id", claims.UserID).Error("Logout: failed to revoke session")
		return ErrInternalServer
	}
	logrus.WithField("user_id", claims.UserID).Info("User logged out")
	return nil
}

func (s *AuthService) parseSession(tokenStr string) (*SessionClaims, error) {
	if tokenStr == "" {
		return nil, errors.New("empty token")
	}
	claims := &SessionClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}
	if !token.Valid || claims.UserID == 0 || claims.ID == "" || claims.ExpiresAt == nil {
		return nil, errors.New("invalid token or claims")
	}
	return claims, nil
}
