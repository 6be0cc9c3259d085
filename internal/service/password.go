package service

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"hash"
	"math/big"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// DefaultPBKDF2Iterations 与 werkzeug 生成 pbkdf2 哈希时的默认迭代次数一致
	DefaultPBKDF2Iterations = 600000
	pbkdf2SaltLength        = 8
	saltChars               = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// PasswordHasher 生成密码哈希字符串。
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// NewPasswordHasher 根据名称创建哈希器 ("pbkdf2" 或 "bcrypt")。
func NewPasswordHasher(name string, iterations int) (PasswordHasher, error) {
	switch strings.ToLower(name) {
	case "", "pbkdf2":
		return NewPBKDF2Hasher(iterations), nil
	case "bcrypt":
		return BcryptHasher{Cost: bcrypt.DefaultCost}, nil
	default:
		return nil, fmt.Errorf("unknown password hasher %q", name)
	}
}

// PBKDF2Hasher 生成 "pbkdf2:sha256:<iterations>$<salt>$<hex>" 格式的哈希，
// 与已有数据库中 werkzeug 写入的记录兼容。
type PBKDF2Hasher struct {
	Iterations int
}

func NewPBKDF2Hasher(iterations int) *PBKDF2Hasher {
	if iterations <= 0 {
		iterations = DefaultPBKDF2Iterations
	}
	return &PBKDF2Hasher{Iterations: iterations}
}

func (h *PBKDF2Hasher) Hash(password string) (string, error) {
	salt, err := randomSalt(pbkdf2SaltLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	sum := pbkdf2.Key([]byte(password), []byte(salt), h.Iterations, sha256.Size, sha256.New)
	return fmt.Sprintf("pbkdf2:sha256:%d$%s$%s", h.Iterations, salt, hex.EncodeToString(sum)), nil
}

// BcryptHasher 使用 bcrypt 生成哈希
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", fmt.Errorf("failed to generate hash from password: %w", err)
	}
	return string(bytes), nil
}

// CheckPassword 验证密码是否与存储的哈希匹配。
// 根据哈希前缀选择算法，因此与当前配置的哈希器无关。
func CheckPassword(stored, password string) bool {
	switch {
	case strings.HasPrefix(stored, "pbkdf2:"):
		return checkPBKDF2(stored, password)
	case strings.HasPrefix(stored, "$2a$"), strings.HasPrefix(stored, "$2b$"), strings.HasPrefix(stored, "$2y$"):
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	default:
		return false
	}
}

func checkPBKDF2(stored, password string) bool {
	parts := strings.SplitN(stored, "$", 3)
	if len(parts) != 3 {
		return false
	}
	method, salt, expectedHex := parts[0], parts[1], parts[2]

	// method: pbkdf2:<hash>[:<iterations>]
	fields := strings.Split(method, ":")
	if len(fields) < 2 || len(fields) > 3 {
		return false
	}
	var newHash func() hash.Hash
	var size int
	switch fields[1] {
	case "sha256":
		newHash, size = sha256.New, sha256.Size
	case "sha512":
		newHash, size = sha512.New, sha512.Size
	default:
		return false
	}
	iterations := DefaultPBKDF2Iterations
	if len(fields) == 3 {
		n, err := strconv.Atoi(fields[2])
		if err != nil || n <= 0 {
			return false
		}
		iterations = n
	}

	expected, err := hex.DecodeString(expectedHex)
	if err != nil || len(expected) != size {
		return false
	}
	actual := pbkdf2.Key([]byte(password), []byte(salt), iterations, size, newHash)
	return subtle.ConstantTimeCompare(actual, expected) == 1
}

func randomSalt(n int) (string, error) {
	max := big.NewInt(int64(len(saltChars)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = saltChars[idx.Int64()]
	}
	return string(b), nil
}
