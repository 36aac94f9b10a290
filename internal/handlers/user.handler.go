package handlers

import (
	"xrayserver/internal/app"
	usersController "xrayserver/internal/controllers/users"
	"xrayserver/internal/logger"
	. "xrayserver/internal/models"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	Handler
	controller *usersController.UserController
}

func NewUserHandler(app app.App, router fiber.Router) *UserHandler {
	log := logger.New("handlers").File("user_handler")
	return &UserHandler{
		controller: app.UserController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *UserHandler) Register() {
	users := h.router.Group("/users")
	users.Post("/login", h.login)

	users.Use(h.middleware.RequireAuth())
	users.Get("/me", h.getUser)
	users.Post("/logout", h.logout)

	admin := h.middleware.RequireRole(RoleAdmin)
	users.Get("/", admin, h.listUsers)
	users.Post("/", admin, h.addUser)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *UserHandler) login(c *fiber.Ctx) error {
	log := h.log.Function("login")

	var body loginRequest
	if err := c.BodyParser(&body); err != nil {
		log.Er("failed to parse login request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse login request"})
	}

	user, token, err := h.controller.Login(c.Context(), body.Username, body.Password)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "success", "user": user, "token": token})
}

func (h *UserHandler) logout(c *fiber.Ctx) error {
	token, _ := c.Locals("token").(string)
	if err := h.controller.Logout(c.Context(), token); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "success"})
}

func (h *UserHandler) getUser(c *fiber.Ctx) error {
	user := currentUser(c)
	if user.Username == "" {
		h.log.Function("getUser").ErMsg("No user found in locals")
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "error", "error": "failed to get user"})
	}

	return c.JSON(fiber.Map{"message": "success", "user": user})
}

func (h *UserHandler) listUsers(c *fiber.Ctx) error {
	users, err := h.controller.ListUsers(c.Context(), currentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "success", "users": users})
}

func (h *UserHandler) addUser(c *fiber.Ctx) error {
	log := h.log.Function("addUser")

	var user User
	if err := c.BodyParser(&user); err != nil {
		log.Er("failed to parse user", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse user"})
	}

	if err := h.controller.AddUser(c.Context(), currentUser(c), user); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).
		JSON(fiber.Map{"message": "success", "user": user.Sanitized()})
}
