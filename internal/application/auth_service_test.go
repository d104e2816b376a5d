package application

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yunusemrekoyun/fast-food-app/internal/domain/entity"
	repo "github.com/yunusemrekoyun/fast-food-app/internal/domain/repository"
	"github.com/yunusemrekoyun/fast-food-app/internal/infrastructure/memory"
	"github.com/yunusemrekoyun/fast-food-app/pkg/helpers"
	"github.com/yunusemrekoyun/fast-food-app/pkg/mailer"
	tpl "github.com/yunusemrekoyun/fast-food-app/pkg/mailer/templates"
)

type stubUserRepo struct {
	byID      map[string]*entity.User
	createErr error
	lookupErr error
}

func newStubUserRepo() *stubUserRepo { return &stubUserRepo{byID: map[string]*entity.User{}} }

func (r *stubUserRepo) Create(_ context.Context, u *entity.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	u.ID = uuid.NewString()
	u.CreatedAt, u.UpdatedAt = time.Now(), time.Now()
	cp := *u
	r.byID[u.ID] = &cp
	return nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	for _, u := range r.byID {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *stubUserRepo) Update(_ context.Context, u *entity.User) error {
	if _, ok := r.byID[u.ID]; !ok {
		return repo.ErrNotFound
	}
	cp := *u
	r.byID[u.ID] = &cp
	return nil
}

type recordingPublisher struct {
	jobs []mailer.EmailJob
	err  error
}

func (p *recordingPublisher) PublishJSON(_ context.Context, body any) error {
	p.jobs = append(p.jobs, body.(mailer.EmailJob))
	return p.err
}

type recordingUploader struct {
	path        string
	contentType string
	size        int
}

func (u *recordingUploader) Upload(_ context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	u.path, u.contentType, u.size = objectPath, contentType, len(b)
	return "https://storage.example.com/" + objectPath, nil
}

func newAuthService(t *testing.T) (*AuthService, *recordingPublisher) {
	t.Helper()
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
	svc := NewAuthService(newStubUserRepo(), memory.NewSessionStore(), jwt, nil)
	pub := &recordingPublisher{}
	svc.Mail = pub
	svc.AvatarBaseURL = "https://avatars.example.com/initials"
	svc.Branding = tpl.Branding{AppName: "Fast Food"}
	return svc, pub
}

func signUp(t *testing.T, svc *AuthService) (*entity.User, TokenPair) {
	t.Helper()
	u, pair, err := svc.SignUp(context.Background(), SignUpInput{Name: "Ada  Lovelace", Email: "Ada@Example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	return u, pair
}

func TestSignUp(t *testing.T) {
	svc, pub := newAuthService(t)

	u, pair := signUp(t, svc)

	assert.Equal(t, "ada@example.com", u.Email)
	assert.Equal(t, "Ada Lovelace", u.Name)
	assert.Equal(t, "https://avatars.example.com/initials?name=Ada+Lovelace&size=256", u.AvatarURL)
	assert.NotEqual(t, "s3cret-pass", u.Password)
	assert.NotEmpty(t, pair.AccessToken)

	sess, err := svc.Sessions.Get(context.Background(), u.ID)
	require.NoError(t, err)
	claims, err := svc.JWT.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, sess.SessionID, claims.SessionID)

	require.Len(t, pub.jobs, 1)
	assert.Equal(t, tpl.Welcome, pub.jobs[0].Template)
	assert.Equal(t, "ada@example.com", pub.jobs[0].To)
}

func TestSignUp_EmailTaken(t *testing.T) {
	svc, _ := newAuthService(t)
	signUp(t, svc)

	_, _, err := svc.SignUp(context.Background(), SignUpInput{Name: "Other", Email: "ADA@example.com ", Password: "x"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

// Two sign-ups racing past the lookup: the losing insert hits the unique index.
func TestSignUp_ConcurrentDuplicateInsert(t *testing.T) {
	svc, pub := newAuthService(t)
	svc.Users.(*stubUserRepo).createErr = fmt.Errorf("insert user: %w", repo.ErrConflict)

	_, _, err := svc.SignUp(context.Background(), SignUpInput{Name: "Ada", Email: "ada@example.com", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Empty(t, pub.jobs)
}

func TestSignUp_Validation(t *testing.T) {
	svc, _ := newAuthService(t)
	_, _, err := svc.SignUp(context.Background(), SignUpInput{Email: "a@b.c"})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "password")
}

func TestSignIn(t *testing.T) {
	svc, pub := newAuthService(t)
	signUp(t, svc)

	u, pair, err := svc.SignIn(context.Background(), "ada@example.com", "s3cret-pass", RequestMeta{IP: "203.0.113.9", UserAgent: "test"})

	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", u.Name)
	assert.NotEmpty(t, pair.RefreshToken)
	require.Len(t, pub.jobs, 2)
	assert.Equal(t, tpl.SignInNotification, pub.jobs[1].Template)
	assert.Equal(t, "203.0.113.9", pub.jobs[1].Data["IP"])
}

func TestSignIn_InvalidCredentials(t *testing.T) {
	svc, _ := newAuthService(t)
	signUp(t, svc)

	_, _, err := svc.SignIn(context.Background(), "ada@example.com", "wrong", RequestMeta{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.SignIn(context.Background(), "nobody@example.com", "s3cret-pass", RequestMeta{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignIn_StoreFailureIsNotInvalidCredentials(t *testing.T) {
	svc, _ := newAuthService(t)
	outage := errors.New("connection refused")
	svc.Users.(*stubUserRepo).lookupErr = outage

	_, _, err := svc.SignIn(context.Background(), "ada@example.com", "s3cret-pass", RequestMeta{})
	assert.ErrorIs(t, err, outage)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignIn_MailFailureDoesNotFail(t *testing.T) {
	svc, pub := newAuthService(t)
	signUp(t, svc)
	pub.err = errors.New("broker down")

	_, _, err := svc.SignIn(context.Background(), "ada@example.com", "s3cret-pass", RequestMeta{})
	assert.NoError(t, err)
}

func TestSignInReplacesPreviousSession(t *testing.T) {
	svc, _ := newAuthService(t)
	_, first := signUp(t, svc)

	_, _, err := svc.SignIn(context.Background(), "ada@example.com", "s3cret-pass", RequestMeta{})
	require.NoError(t, err)

	_, _, err = svc.Refresh(context.Background(), first.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRotatesSession(t *testing.T) {
	svc, _ := newAuthService(t)
	u, pair := signUp(t, svc)

	next, uid, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, uid)

	_, _, err = svc.Refresh(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Refresh(context.Background(), next.RefreshToken)
	assert.NoError(t, err)
}

func TestRefresh_Garbage(t *testing.T) {
	svc, _ := newAuthService(t)
	_, _, err := svc.Refresh(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignOut(t *testing.T) {
	svc, _ := newAuthService(t)
	u, pair := signUp(t, svc)

	require.NoError(t, svc.SignOut(context.Background(), u.ID))
	require.NoError(t, svc.SignOut(context.Background(), u.ID))

	_, err := svc.Sessions.Get(context.Background(), u.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)
	_, _, err = svc.Refresh(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCurrent(t *testing.T) {
	svc, _ := newAuthService(t)
	u, _ := signUp(t, svc)

	got, err := svc.Current(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)

	_, err = svc.Current(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUploadAvatar(t *testing.T) {
	svc, _ := newAuthService(t)
	up := &recordingUploader{}
	svc.Uploader = up
	u, _ := signUp(t, svc)

	in := &bytes.Buffer{}
	require.NoError(t, png.Encode(in, image.NewRGBA(image.Rect(0, 0, 400, 300))))

	url, err := svc.UploadAvatar(context.Background(), u.ID, in)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(up.path, "avatars/"+u.ID+"/"))
	assert.True(t, strings.HasSuffix(up.path, ".png"))
	assert.Equal(t, "image/png", up.contentType)
	assert.Positive(t, up.size)

	got, err := svc.Current(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, url, got.AvatarURL)
	sess, err := svc.Sessions.Get(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, url, sess.AvatarURL)
}

func TestUploadAvatar_Errors(t *testing.T) {
	svc, _ := newAuthService(t)
	u, _ := signUp(t, svc)

	_, err := svc.UploadAvatar(context.Background(), u.ID, strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	svc.Uploader = &recordingUploader{}
	_, err = svc.UploadAvatar(context.Background(), u.ID, strings.NewReader("not an image"))
	assert.ErrorIs(t, err, ErrValidation)
}
