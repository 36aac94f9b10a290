package usersController

import (
	"context"
	"time"
	"xrayserver/config"
	"xrayserver/internal/database"
	"xrayserver/internal/events"
	"xrayserver/internal/lifecycle"
	"xrayserver/internal/logger"
	"xrayserver/internal/repositories"

	. "xrayserver/internal/models"

	"github.com/google/uuid"
)

const sessionKeyPrefix = "session:"

// SessionKey returns the cache key holding the session for a token. Shared
// with the auth middleware.
func SessionKey(token string) string {
	return sessionKeyPrefix + token
}

type UserController struct {
	db       database.DB
	userRepo repositories.UserRepository
	eventBus *events.EventBus
	Config   config.Config
	log      logger.Logger
}

func New(
	db database.DB,
	eventBus *events.EventBus,
	userRepo repositories.UserRepository,
	config config.Config,
) *UserController {
	return &UserController{
		db:       db,
		userRepo: userRepo,
		eventBus: eventBus,
		Config:   config,
		log:      logger.New("UserController"),
	}
}

// Login verifies credentials and issues an opaque session token held in the
// session cache with a TTL.
func (c *UserController) Login(ctx context.Context, username, password string) (User, string, error) {
	log := c.log.Function("Login")

	user, err := c.userRepo.Verify(ctx, username, password)
	if err != nil {
		return User{}, "", log.Err("failed to verify credentials", err, "username", username)
	}
	if user == nil {
		log.Warn("login rejected", "username", username)
		return User{}, "", ErrInvalidCredentials
	}

	tokenID, _ := uuid.NewV7()
	token := tokenID.String()

	sanitized := user.Sanitized()
	if err := database.NewCacheBuilder(c.db.Cache.Session, SessionKey(token)).
		WithStruct(sanitized).
		WithTTL(time.Duration(c.Config.SessionTTLHours) * time.Hour).
		WithContext(ctx).
		Set(); err != nil {
		return User{}, "", log.Err("failed to store session", err, "username", username)
	}

	log.Info("user logged in", "username", username, "role", user.Role)
	return sanitized, token, nil
}

func (c *UserController) Logout(ctx context.Context, token string) error {
	log := c.log.Function("Logout")

	if err := database.NewCacheBuilder(c.db.Cache.Session, SessionKey(token)).
		WithContext(ctx).
		Delete(); err != nil {
		return log.Err("failed to delete session", err)
	}

	return nil
}

// Resolve maps a session token back to its user. Returns nil when the token
// is unknown or expired.
func (c *UserController) Resolve(ctx context.Context, token string) (*User, error) {
	var user User
	found, err := database.NewCacheBuilder(c.db.Cache.Session, SessionKey(token)).
		WithContext(ctx).
		Get(&user)
	if err != nil {
		return nil, c.log.Function("Resolve").Err("failed to read session", err)
	}
	if !found {
		return nil, nil
	}
	return &user, nil
}

// AddUser creates an account. Admin only; usernames are unique.
func (c *UserController) AddUser(ctx context.Context, actor User, user User) error {
	log := c.log.Function("AddUser")

	if !lifecycle.CanPerform(actor.Role, lifecycle.ActionManageUsers) {
		return NewGuardViolation("", "AddUser", "actor is not an admin")
	}
	if user.Username == "" {
		return NewValidationError("username", "required")
	}
	if user.Password == "" {
		return NewValidationError("password", "required")
	}
	if user.FullName == "" {
		return NewValidationError("fullName", "required")
	}
	if !user.Role.Valid() {
		return NewValidationError("role", "unknown role")
	}

	if err := c.userRepo.Add(ctx, user); err != nil {
		return err
	}

	log.Info("user added", "username", user.Username, "role", user.Role)
	c.publishChange(actor, "add", user.Username)
	return nil
}

// ListUsers returns all accounts with secrets stripped. Admin only.
func (c *UserController) ListUsers(ctx context.Context, actor User) ([]User, error) {
	if !lifecycle.CanPerform(actor.Role, lifecycle.ActionManageUsers) {
		return nil, NewGuardViolation("", "ListUsers", "actor is not an admin")
	}

	users, err := c.userRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	sanitized := make([]User, 0, len(users))
	for _, user := range users {
		sanitized = append(sanitized, user.Sanitized())
	}
	return sanitized, nil
}

func (c *UserController) publishChange(actor User, action, id string) {
	if c.eventBus == nil {
		return
	}

	event := events.Event{
		ID:        uuid.New().String(),
		Type:      "collection",
		Channel:   CollectionUsers,
		Action:    action,
		UserID:    actor.Username,
		Data:      map[string]any{"id": id},
		Timestamp: time.Now(),
	}

	if err := c.eventBus.Publish(events.BroadcastChannel, event); err != nil {
		c.log.Function("publishChange").Er("failed to publish event", err, "event", event)
	}
}
