package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/spaceboard/internal/domain/apperror"
	"github.com/oksasatya/spaceboard/internal/domain/entity"
	repo "github.com/oksasatya/spaceboard/internal/domain/repository"
	"github.com/oksasatya/spaceboard/pkg/helpers"
)

var (
	ErrInvalidCredentials = apperror.Unauthenticated("invalid email or password")
	ErrUserNotFound       = apperror.NotFound("user not found")
	ErrWrongPassword      = apperror.Unauthenticated("current password is incorrect")
)

const (
	sessionTTL        = 24 * time.Hour
	minPasswordLength = 8
	searchCacheTTL    = 30 * time.Second
)

var pictureExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true}

type UserService struct {
	Repo   repo.UserRepository
	JWT    *helpers.JWTManager
	Blobs  BlobStore
	Redis  *redis.Client
	Logger *logrus.Logger
	Index  UserIndex
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

// SessionKey is the Redis hash holding the live session of a user.
func SessionKey(userID string) string {
	return "user:session:" + userID
}

func hashErr(err error) error {
	if errors.Is(err, helpers.ErrPasswordTooLong) {
		return apperror.Validation(err.Error())
	}
	return apperror.Internal("hash password", err)
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func NewUserService(repo repo.UserRepository, jwt *helpers.JWTManager, blobs BlobStore, rdb *redis.Client, logger *logrus.Logger, index UserIndex) *UserService {
	return &UserService{
		Repo:   repo,
		JWT:    jwt,
		Blobs:  blobs,
		Redis:  rdb,
		Logger: logger,
		Index:  index,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates an account and signs the new user in.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*entity.User, TokenPair, error) {
	email := normalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if name == "" || email == "" || in.Password == "" {
		return nil, TokenPair{}, apperror.Validation("name, email and password are required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, TokenPair{}, apperror.Validation("password must be at least 8 characters")
	}
	if _, err := s.Repo.GetByEmail(ctx, email); err == nil {
		return nil, TokenPair{}, apperror.Conflict("user already exists")
	} else if !apperror.Is(err, apperror.KindNotFound) {
		return nil, TokenPair{}, err
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, TokenPair{}, hashErr(err)
	}
	u := &entity.User{Name: name, Email: email, Password: hash}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, TokenPair{}, err
	}
	s.indexUser(ctx, u)

	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// Authenticate validates email/password and returns the user without issuing tokens.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// IssueTokens generates access/refresh tokens and records a session in Redis.
func (s *UserService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, apperror.Internal("generate access token", err)
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, apperror.Internal("generate refresh token", err)
	}

	if s.Redis != nil {
		fields := map[string]any{
			"user_id":    u.ID,
			"email":      u.Email,
			"name":       u.Name,
			"sid":        sid,
			"created_at": nowRFC3339(),
		}
		key := SessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, sessionTTL)
		if _, rErr := pipe.Exec(ctx); rErr != nil {
			warn(s.Logger, rErr, "redis pipeline failed", logrus.Fields{"key": key})
		}
	}

	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*entity.User, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// Refresh validates the refresh token against the live session and rotates both tokens.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (TokenPair, string, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	u, err := s.Repo.GetByID(ctx, claims.UserID)
	if err != nil || u == nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	if s.Redis != nil {
		data, rErr := s.Redis.HGetAll(ctx, SessionKey(u.ID)).Result()
		if rErr != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return TokenPair{}, "", ErrInvalidCredentials
		}
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return TokenPair{}, "", err
	}
	return pair, u.ID, nil
}

// Logout drops the Redis session so outstanding access tokens stop working.
func (s *UserService) Logout(ctx context.Context, userID string) {
	if s.Redis == nil || userID == "" {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, SessionKey(userID)); err != nil {
		warn(s.Logger, err, "redis session delete failed", logrus.Fields{"user_id": userID})
	}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]entity.User, error) {
	return s.Repo.List(ctx)
}

type UpdateProfileInput struct {
	Name  string
	Email string
}

// UpdateProfile changes name and/or email; a new email must not be taken.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		u.Name = name
	}
	if email := normalizeEmail(in.Email); email != "" && email != u.Email {
		if other, err := s.Repo.GetByEmail(ctx, email); err == nil && other != nil {
			return nil, apperror.Conflict("email already in use")
		} else if err != nil && !apperror.Is(err, apperror.KindNotFound) {
			return nil, err
		}
		u.Email = email
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}

	if s.Redis != nil {
		key := SessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"name":       u.Name,
			"email":      u.Email,
			"updated_at": nowRFC3339(),
		})
		if ttl, tErr := s.Redis.TTL(ctx, key).Result(); tErr == nil && ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		if _, pErr := pipe.Exec(ctx); pErr != nil {
			warn(s.Logger, pErr, "redis pipeline failed", logrus.Fields{"key": key})
		}
	}

	s.indexUser(ctx, u)
	return u, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID, current, next string) error {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if !helpers.CompareHashAndPassword(u.Password, current) {
		return ErrWrongPassword
	}
	if len(next) < minPasswordLength {
		return apperror.Validation("new password must be at least 8 characters")
	}
	hash, err := helpers.HashPassword(next)
	if err != nil {
		return hashErr(err)
	}
	u.Password = hash
	return s.Repo.Update(ctx, u)
}

// UploadProfilePicture stores an image and records its URL on the user.
func (s *UserService) UploadProfilePicture(ctx context.Context, userID string, r io.Reader, filename, contentType string) (*entity.User, error) {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !pictureExts[ext] || !strings.HasPrefix(contentType, "image/") {
		return nil, apperror.Validation("profile picture must be a jpeg, png or gif image")
	}
	if s.Blobs == nil {
		return nil, apperror.Internal("upload profile picture", errBlobStoreMissing)
	}
	objectPath := filepath.ToSlash(filepath.Join("profile_pictures", userID, uuid.NewString()+ext))
	url, err := s.Blobs.Put(ctx, objectPath, contentType, r)
	if err != nil {
		return nil, apperror.Internal("upload profile picture", err)
	}
	u.ProfilePicture = url
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}
	s.indexUser(ctx, u)
	return u, nil
}

// SearchUsers queries the user index; without an index it returns nothing.
func (s *UserService) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.Index == nil {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	q = strings.TrimSpace(q)
	key := fmt.Sprintf("users:search:%d:%s", size, strings.ToLower(q))
	if s.Redis != nil {
		var cached []map[string]any
		if hit, err := helpers.RedisGetJSON(ctx, s.Redis, key, &cached); err == nil && hit {
			return cached, nil
		}
	}
	out, err := s.Index.SearchUsers(ctx, q, size)
	if err != nil {
		return nil, err
	}
	if s.Redis != nil {
		warn(s.Logger, helpers.RedisSetJSON(ctx, s.Redis, key, out, searchCacheTTL), "search cache write failed", logrus.Fields{"key": key})
	}
	return out, nil
}

func (s *UserService) indexUser(ctx context.Context, u *entity.User) {
	if s.Index == nil {
		return
	}
	warn(s.Logger, s.Index.IndexUser(ctx, u), "user index failed", logrus.Fields{"user_id": u.ID})
}
