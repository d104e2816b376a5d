package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yunusemrekoyun/fast-food-app/internal/domain/entity"
	repo "github.com/yunusemrekoyun/fast-food-app/internal/domain/repository"
	"github.com/yunusemrekoyun/fast-food-app/pkg/helpers"
	"github.com/yunusemrekoyun/fast-food-app/pkg/mailer"
	tpl "github.com/yunusemrekoyun/fast-food-app/pkg/mailer/templates"
)

// Uploader stores an object and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

// JobPublisher puts a job on the mail queue.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

type AuthService struct {
	Users    repo.UserRepository
	Sessions repo.SessionRepository
	JWT      *helpers.JWTManager
	Uploader Uploader     // optional
	Mail     JobPublisher // optional
	Logger   *logrus.Logger

	AvatarBaseURL string
	Branding      tpl.Branding
}

func NewAuthService(users repo.UserRepository, sessions repo.SessionRepository, jwt *helpers.JWTManager, logger *logrus.Logger) *AuthService {
	return &AuthService{Users: users, Sessions: sessions, JWT: jwt, Logger: logger}
}

type TokenPair struct {
	AccessToken        string    `json:"access_token"`
	AccessTokenExpiry  time.Time `json:"access_expires_at"`
	RefreshToken       string    `json:"refresh_token"`
	RefreshTokenExpiry time.Time `json:"refresh_expires_at"`
}

type SignUpInput struct {
	Name     string
	Email    string
	Password string
}

// RequestMeta describes the device a sign-in came from. It only feeds mails.
type RequestMeta struct {
	IP        string
	UserAgent string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp creates the account and signs it in.
func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (*entity.User, TokenPair, error) {
	if err := requireFields(map[string]string{
		"name":     in.Name,
		"email":    in.Email,
		"password": in.Password,
	}); err != nil {
		return nil, TokenPair{}, err
	}
	email := normalizeEmail(in.Email)
	if existing, err := s.Users.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, TokenPair{}, ErrEmailTaken
	} else if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, TokenPair{}, err
	}

	hash, err := helpers.HashPassword(in.Password)
	if errors.Is(err, helpers.ErrPasswordTooLong) {
		return nil, TokenPair{}, &ValidationError{Fields: map[string]string{"password": "must be at most 72 bytes"}}
	}
	if err != nil {
		return nil, TokenPair{}, fmt.Errorf("hash password: %w", err)
	}
	name := strings.Join(strings.Fields(in.Name), " ")
	u := &entity.User{
		Email:     email,
		Password:  hash,
		Name:      name,
		AvatarURL: helpers.InitialsAvatarURL(s.AvatarBaseURL, name),
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return nil, TokenPair{}, ErrEmailTaken
		}
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	s.enqueue(ctx, u, tpl.Welcome, tpl.WithAvatar(u.AvatarURL), tpl.WithTime(time.Now()))
	return u, pair, nil
}

// Authenticate validates email/password and returns the user without issuing tokens.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repo.ErrNotFound) || (err == nil && u == nil) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load user by email: %w", err)
	}
	if !helpers.PasswordMatches(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *AuthService) SignIn(ctx context.Context, email, password string, meta RequestMeta) (*entity.User, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	s.enqueue(ctx, u, tpl.SignInNotification,
		tpl.WithIP(meta.IP),
		tpl.WithUserAgent(meta.UserAgent),
		tpl.WithTime(time.Now()),
	)
	return u, pair, nil
}

// IssueTokens starts a new session for u, replacing any previous one.
func (s *AuthService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	pair, err := s.tokens(u.ID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate tokens failed")
		}
		return TokenPair{}, err
	}
	if err := s.Sessions.Put(ctx, entity.Session{
		UserID:    u.ID,
		SessionID: sid,
		Email:     u.Email,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
		CreatedAt: time.Now(),
	}); err != nil {
		return TokenPair{}, fmt.Errorf("store session: %w", err)
	}
	return pair, nil
}

func (s *AuthService) tokens(userID, sid string) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(userID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(userID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// Current returns the account behind a session.
func (s *AuthService) Current(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// SignOut ends the current session. Signing out twice is not an error.
func (s *AuthService) SignOut(ctx context.Context, userID string) error {
	if err := s.Sessions.Delete(ctx, userID); err != nil && !errors.Is(err, repo.ErrNotFound) {
		return err
	}
	return nil
}

// Refresh trades a refresh token of the live session for a new pair and
// rotates the session id, so the old pair stops working.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, string, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	sess, err := s.Sessions.Get(ctx, claims.UserID)
	if err != nil || sess.SessionID != claims.SessionID {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	u, err := s.Users.GetByID(ctx, claims.UserID)
	if err != nil || u == nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return TokenPair{}, "", err
	}
	return pair, u.ID, nil
}

// UploadAvatar stores a square PNG version of the image and makes it the
// account's avatar.
func (s *AuthService) UploadAvatar(ctx context.Context, userID string, r io.Reader) (string, error) {
	if s.Uploader == nil {
		return "", ErrStorageUnavailable
	}
	u, err := s.Current(ctx, userID)
	if err != nil {
		return "", err
	}
	img, err := helpers.NormalizeAvatar(r)
	if err != nil {
		return "", &ValidationError{Fields: map[string]string{"avatar": "is not a supported image"}}
	}
	objectPath := path.Join("avatars", userID, uuid.NewString()+".png")
	url, err := s.Uploader.Upload(ctx, objectPath, "image/png", img)
	if err != nil {
		return "", fmt.Errorf("upload avatar: %w", err)
	}
	u.AvatarURL = url
	if err := s.Users.Update(ctx, u); err != nil {
		return "", err
	}
	if err := s.Sessions.Touch(ctx, u.ID, map[string]any{"avatar_url": url}); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("session avatar refresh failed")
	}
	return url, nil
}

func (s *AuthService) enqueue(ctx context.Context, u *entity.User, template string, opts ...tpl.Option) {
	if s.Mail == nil {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: template,
		Data:     tpl.NewData(s.Branding, u.Name, u.Email, opts...),
	}
	if err := s.Mail.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{"user_id": u.ID, "template": template}).Warn("enqueue email failed")
	}
}
