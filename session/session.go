package session

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/platewise/platewise/config"
	"github.com/platewise/platewise/database/dbhelper"
	"github.com/platewise/platewise/middlewares"
	"github.com/platewise/platewise/models"
	"github.com/platewise/platewise/utils"
)

// UserDirectory resolves an email to a user id. Backed by dbhelper in
// production, faked in tests.
type UserDirectory interface {
	Lookup(email string) (uuid.UUID, error)
	GetOrCreate(email string) (uuid.UUID, error)
}

type dbDirectory struct{}

func (dbDirectory) Lookup(email string) (uuid.UUID, error)      { return dbhelper.GetUserByEmail(email) }
func (dbDirectory) GetOrCreate(email string) (uuid.UUID, error) { return dbhelper.GetOrCreateUserByEmail(email) }

// LinkRequest mirrors sign-in-with-one-time-link: email, redirect target,
// creation-allowed flag and arbitrary metadata.
type LinkRequest struct {
	Email      string
	RedirectTo string
	CreateUser bool
	Metadata   map[string]string
}

// Service is the session provider: it issues sessions, dispatches magic
// links and emits auth state-change notifications.
type Service struct {
	store  *LinkStore
	mailer Mailer
	bus    *Bus
	users  UserDirectory
}

func NewService(store *LinkStore, mailer Mailer, bus *Bus) *Service {
	return &Service{store: store, mailer: mailer, bus: bus, users: dbDirectory{}}
}

// WithUserDirectory replaces the dbhelper-backed directory, for tests.
func (s *Service) WithUserDirectory(users UserDirectory) *Service {
	s.users = users
	return s
}

func (s *Service) Subscribe(fn func(Event)) func() {
	return s.bus.Subscribe(fn)
}

// SignInWithLink stores a one-time token and mails the link. It does not
// touch the user table; the user is resolved when the link is consumed.
func (s *Service) SignInWithLink(ctx context.Context, req LinkRequest) error {
	token, err := utils.GenerateLinkToken()
	if err != nil {
		return err
	}

	payload := LinkPayload{
		Email:      req.Email,
		RedirectTo: req.RedirectTo,
		CreateUser: req.CreateUser,
		Metadata:   req.Metadata,
	}
	if err := s.store.Save(ctx, token, payload); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/auth/callback?token=%s", config.BaseURL, url.QueryEscape(token))
	return s.mailer.SendMagicLink(req.Email, link)
}

// ConsumeLink redeems a one-time token, issues a session JWT and publishes
// the signed-in notification. Returns the token, the session and the
// redirect target carried by the link.
func (s *Service) ConsumeLink(ctx context.Context, token string) (string, *models.Session, string, error) {
	payload, err := s.store.Consume(ctx, token)
	if err != nil {
		return "", nil, "", err
	}

	var userID uuid.UUID
	if payload.CreateUser {
		userID, err = s.users.GetOrCreate(payload.Email)
	} else {
		userID, err = s.users.Lookup(payload.Email)
		if err == sql.ErrNoRows {
			return "", nil, "", ErrLinkNotFound
		}
	}
	if err != nil {
		return "", nil, "", err
	}

	sessionToken, err := utils.GenerateSessionToken(userID, payload.Email)
	if err != nil {
		return "", nil, "", err
	}

	sess := &models.Session{
		UserID:    userID,
		Email:     payload.Email,
		CreatedAt: time.Now(),
	}
	s.bus.Publish(Event{Kind: SignedIn, Session: sess, Metadata: payload.Metadata})

	logrus.Infof("magic-link sign-in for user %s", userID)
	return sessionToken, sess, payload.RedirectTo, nil
}

// CurrentSession returns the verified session carried by the request, or
// nil when the request is anonymous.
func (s *Service) CurrentSession(r *http.Request) *models.Session {
	tokenStr, err := middlewares.ExtractBearerToken(r)
	if err != nil {
		return nil
	}
	claims, err := middlewares.ParseToken(tokenStr)
	if err != nil {
		return nil
	}

	sess := &models.Session{UserID: claims.UserID, Email: claims.Email}
	if claims.IssuedAt != nil {
		sess.CreatedAt = claims.IssuedAt.Time
	}
	return sess
}

// SignOut only emits the notification; the JWT simply stops being
// presented. The session identifies whose checkouts should reset.
func (s *Service) SignOut(sess *models.Session) {
	s.bus.Publish(Event{Kind: SignedOut, Session: sess})
}
