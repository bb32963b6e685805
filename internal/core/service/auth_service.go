package service

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/notes-api/internal/api/metrics"
	"github.com/99minutos/notes-api/internal/core/domain"
	"github.com/99minutos/notes-api/internal/core/ports"
)

const (
	// sessionKeyBytes is 256 bits of entropy per session key.
	sessionKeyBytes = 32
	// maxPasswordBytes is the bcrypt input limit.
	maxPasswordBytes = 72
)

// AuthService implements registration and login.
type AuthService struct {
	users    ports.UserRepository
	sessions ports.SessionRepository
	notes    ports.NoteRepository
	activity ports.ActivityRecorder
	log      zerolog.Logger
	cost     int
	now      func() time.Time

	dummyOnce sync.Once
	dummyHash []byte
}

func NewAuthService(
	users ports.UserRepository,
	sessions ports.SessionRepository,
	notes ports.NoteRepository,
	activity ports.ActivityRecorder,
	bcryptCost int,
	log zerolog.Logger,
) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	if activity == nil {
		activity = nopRecorder{}
	}
	return &AuthService{
		users:    users,
		sessions: sessions,
		notes:    notes,
		activity: activity,
		log:      log,
		cost:     bcryptCost,
		now:      utcNow,
	}
}

// Register creates the user, a starter note and a first session.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, &domain.User{
		Email:        domain.NormalizeEmail(in.Email),
		Name:         in.Name,
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	now := s.now()
	if _, err := s.notes.Create(ctx, &domain.Note{
		UserID:    user.ID,
		Name:      domain.StarterNoteName,
		Text:      domain.StarterNoteText,
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		s.discardUser(ctx, user.ID)
		return nil, fmt.Errorf("register: starter note: %w", err)
	}

	token, err := s.issueSession(ctx, user.ID)
	if err != nil {
		s.discardUser(ctx, user.ID)
		return nil, fmt.Errorf("register: %w", err)
	}

	metrics.UsersRegisteredTotal.Inc()
	s.activity.Record(domain.Activity{UserID: user.ID, Action: domain.ActivityRegister, At: now})
	s.log.Info().Int64("user_id", user.ID).Msg("user registered")

	return &ports.AuthResult{Token: token, User: user}, nil
}

// discardUser undoes a half-finished registration so the email can be
// registered again. It runs even when ctx is already cancelled.
func (s *AuthService) discardUser(ctx context.Context, userID int64) {
	if err := s.users.Delete(context.WithoutCancel(ctx), userID); err != nil {
		s.log.Error().Err(err).Int64("user_id", userID).Msg("failed to discard partially registered user")
	}
}

// Login verifies the password and opens a new session. An unknown email
// and a wrong password both return domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("login: %w", err)
		}
		// Spend the same bcrypt time as a real comparison.
		_ = bcrypt.CompareHashAndPassword(s.dummy(), stripNUL(password))
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), stripNUL(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.issueSession(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.activity.Record(domain.Activity{UserID: user.ID, Action: domain.ActivityLogin, At: s.now()})
	s.log.Info().Int64("user_id", user.ID).Msg("user logged in")

	return &ports.AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) issueSession(ctx context.Context, userID int64) (string, error) {
	key, err := newSessionKey()
	if err != nil {
		return "", err
	}
	session, err := s.sessions.Create(ctx, userID, key)
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return domain.NewToken(session).String(), nil
}

func (s *AuthService) hashPassword(password string) ([]byte, error) {
	p := stripNUL(password)
	if len(p) > maxPasswordBytes {
		return nil, domain.ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword(p, s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

func (s *AuthService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy password"), s.cost)
	})
	return s.dummyHash
}

// stripNUL removes embedded NUL bytes before hashing or comparing.
func stripNUL(password string) []byte {
	return bytes.ReplaceAll([]byte(password), []byte{0}, nil)
}

// newSessionKey returns a random URL-safe key without padding.
func newSessionKey() (string, error) {
	b := make([]byte, sessionKeyBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("session key: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func utcNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

type nopRecorder struct{}

func (nopRecorder) Record(domain.Activity) {}
