package middleware

import (
	"context"
	"strings"
	"xrayserver/config"
	"xrayserver/internal/database"
	"xrayserver/internal/events"
	"xrayserver/internal/logger"
	"xrayserver/internal/repositories"

	usersController "xrayserver/internal/controllers/users"
	. "xrayserver/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SessionLookup maps a bearer token to its user. Nil user means the token is
// unknown or expired.
type SessionLookup func(ctx context.Context, token string) (*User, error)

type Middleware struct {
	db       database.DB
	config   config.Config
	userRepo repositories.UserRepository
	lookup   SessionLookup
	log      logger.Logger
}

func New(
	db database.DB,
	eventBus *events.EventBus,
	config config.Config,
	userRepo repositories.UserRepository,
) Middleware {
	m := Middleware{
		db:       db,
		config:   config,
		userRepo: userRepo,
		log:      logger.New("middleware"),
	}
	m.lookup = m.cacheLookup
	return m
}

// NewWithSessionLookup builds a middleware with a custom session source,
// bypassing the session cache.
func NewWithSessionLookup(
	config config.Config,
	userRepo repositories.UserRepository,
	lookup SessionLookup,
) Middleware {
	return Middleware{
		config:   config,
		userRepo: userRepo,
		lookup:   lookup,
		log:      logger.New("middleware"),
	}
}

func (m Middleware) cacheLookup(ctx context.Context, token string) (*User, error) {
	var user User
	found, err := database.NewCacheBuilder(m.db.Cache.Session, usersController.SessionKey(token)).
		WithContext(ctx).
		Get(&user)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &user, nil
}

// RequireAuth resolves the bearer token to a user and stores it in locals.
func (m Middleware) RequireAuth() fiber.Handler {
	log := m.log.Function("RequireAuth")

	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).
				JSON(fiber.Map{"message": "error", "error": "missing bearer token"})
		}

		user, err := m.lookup(c.Context(), token)
		if err != nil {
			log.Er("failed to read session", err)
			return c.Status(fiber.StatusInternalServerError).
				JSON(fiber.Map{"message": "error", "error": "session lookup failed"})
		}
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).
				JSON(fiber.Map{"message": "error", "error": "session expired or unknown"})
		}

		c.Locals("user", *user)
		c.Locals("token", token)
		return c.Next()
	}
}

// RequireRole gates a route to the given roles. Controllers still re-check
// permissions; this only keeps obviously wrong calls out.
func (m Middleware) RequireRole(roles ...Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := c.Locals("user").(User)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).
				JSON(fiber.Map{"message": "error", "error": "not authenticated"})
		}

		for _, role := range roles {
			if user.Role == role {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).
			JSON(fiber.Map{"message": "error", "error": "role not permitted"})
	}
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
