package app

import (
	"context"
	"xrayserver/cmd/migration/initialize"
	"xrayserver/config"
	"xrayserver/internal/database"
	"xrayserver/internal/events"
	"xrayserver/internal/handlers/middleware"
	"xrayserver/internal/lifecycle"
	"xrayserver/internal/logger"
	"xrayserver/internal/repositories"
	"xrayserver/internal/services/advice"
	"xrayserver/internal/websockets"

	catalogController "xrayserver/internal/controllers/catalog"
	reportsController "xrayserver/internal/controllers/reports"
	requestsController "xrayserver/internal/controllers/requests"
	usersController "xrayserver/internal/controllers/users"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	Websocket  *websockets.Manager
	EventBus   *events.EventBus
	Config     config.Config

	// Services
	AdviceService *advice.Service

	// Repositories
	Store       repositories.CollectionStore
	UserRepo    repositories.UserRepository
	PartRepo    repositories.PartRepository
	RequestRepo repositories.RequestRepository

	// Controllers
	UserController    *usersController.UserController
	RequestController *requestsController.RequestController
	CatalogController *catalogController.CatalogController
	ReportController  *reportsController.ReportController
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.InitConfig()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	eventBus := events.New(db.Cache.Events, config)

	// Initialize services
	adviceService := advice.New(config)

	// Initialize repositories
	store := repositories.NewCollectionStore(db)
	userRepo := repositories.NewUser(store)
	partRepo := repositories.NewPart(store)
	requestRepo := repositories.NewRequest(store, db.Cache.Request)

	if err := initialize.InitializeCollections(context.Background(), store, logger.New("app")); err != nil {
		return &App{}, log.Err("failed to initialize collections", err)
	}

	// Initialize controllers with repositories and services
	middleware := middleware.New(db, eventBus, config, userRepo)
	userController := usersController.New(db, eventBus, userRepo, config)
	requestController := requestsController.New(requestRepo, lifecycle.New(), eventBus)
	catalogController := catalogController.New(partRepo, eventBus)
	reportController := reportsController.New(requestRepo)

	websocket, err := websockets.New(db, eventBus, config)
	if err != nil {
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	app := &App{
		Database:          db,
		Config:            config,
		Middleware:        middleware,
		EventBus:          eventBus,
		Websocket:         websocket,
		AdviceService:     adviceService,
		Store:             store,
		UserRepo:          userRepo,
		PartRepo:          partRepo,
		RequestRepo:       requestRepo,
		UserController:    userController,
		RequestController: requestController,
		CatalogController: catalogController,
		ReportController:  reportController,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.Websocket,
		a.EventBus,
		a.AdviceService,
		a.Store,
		a.UserRepo,
		a.PartRepo,
		a.RequestRepo,
		a.UserController,
		a.RequestController,
		a.CatalogController,
		a.ReportController,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
