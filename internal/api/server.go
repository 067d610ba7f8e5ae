package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/campusconnect/campus-api/docs"
	v1 "github.com/campusconnect/campus-api/internal/api/handler/v1"
	"github.com/campusconnect/campus-api/internal/api/handler/v1/response"
	"github.com/campusconnect/campus-api/internal/api/middleware"
	"github.com/campusconnect/campus-api/internal/config"
	"github.com/campusconnect/campus-api/internal/db"
	"github.com/campusconnect/campus-api/internal/mailer"
	"github.com/campusconnect/campus-api/internal/repository"
	"github.com/campusconnect/campus-api/internal/repository/dao"
	"github.com/campusconnect/campus-api/internal/service"
)

const basePath = "/api/v1"

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

type Handlers struct {
	Event        *v1.EventHandler
	Registration *v1.RegistrationHandler
	User         *v1.UserHandler
	Auth         *v1.AuthHandler
	Chat         *v1.ChatHandler
	Photo        *v1.PhotoHandler
}

// NewServer wires the handlers over the lazily connected database handle h.
func NewServer(conf *config.AppConfig, h *db.Handle) *Server {
	return NewServerWithHandlers(conf, initHandlers(conf, h))
}

// NewServerWithHandlers mounts prebuilt handlers; tests use it with fake services.
func NewServerWithHandlers(conf *config.AppConfig, handlers Handlers) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	response.HideDetails(conf.API.IsProduction())

	s.MountMiddlewares()
	s.MountHandlers(handlers)

	return s
}

func initHandlers(conf *config.AppConfig, h *db.Handle) Handlers {
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(h))
	registrationRepo := repository.NewRegistrationRepository(dao.NewRegistrationDAO(h))
	userRepo := repository.NewUserRepository(dao.NewUserDAO(h))
	chatRepo := repository.NewChatRepository(dao.NewChatDAO(h))
	photoRepo := repository.NewPhotoRepository(dao.NewPhotoDAO(h))

	eventSvc := service.NewEventService(eventRepo, conf.Events.DefaultCapacity)
	registrationSvc := service.NewRegistrationService(registrationRepo, eventRepo, userRepo)
	userSvc := service.NewUserService(userRepo, mailer.New(conf.Mail), conf.Mail)
	authSvc := service.NewAuthService(userRepo)
	chatSvc := service.NewChatService(chatRepo, eventRepo)
	photoSvc := service.NewPhotoService(photoRepo, eventRepo)

	return Handlers{
		Event:        v1.NewEventHandler(eventSvc, conf.API.TolerantListing),
		Registration: v1.NewRegistrationHandler(registrationSvc),
		User:         v1.NewUserHandler(userSvc),
		Auth:         v1.NewAuthHandler(conf.API, authSvc),
		Chat:         v1.NewChatHandler(chatSvc),
		Photo:        v1.NewPhotoHandler(photoSvc),
	}
}

func (s *Server) MountMiddlewares() {
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.RequestLogger())
	s.Router.Use(middleware.Recovery())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
	s.Router.Use(middleware.NewPrincipalResolver(s.Config.API.JWTSigningKey).Resolve())
}

func (s *Server) MountHandlers(h Handlers) {
	public := s.Router.Group(basePath)
	{
		public.GET("/health", v1.HandleHealthcheck)
		public.POST("/auth/login", h.Auth.HandleLogin)

		public.GET("/events", h.Event.HandleListEvents)
		public.GET("/events/:eventID", h.Event.HandleGetEvent)
		public.GET("/events/:eventID/chat/status", h.Chat.HandleGetStatus)
		public.GET("/events/:eventID/photos", h.Photo.HandleGetGallery)
	}

	// Anonymous callers still reach the services, which answer 401 themselves.
	events := s.Router.Group(basePath)
	{
		events.POST("/events", h.Event.HandleCreateEvent)
		events.PUT("/events/:eventID", h.Event.HandleUpdateEvent)
		events.DELETE("/events/:eventID", h.Event.HandleDeleteEvent)

		events.POST("/events/:eventID/register", h.Registration.HandleRegister)
		events.DELETE("/events/:eventID/register", h.Registration.HandleUnregister)
		events.GET("/events/:eventID/registration", h.Registration.HandleGetRegistrationStatus)
		events.GET("/events/:eventID/attendees", h.Registration.HandleGetAttendees)

		events.GET("/events/:eventID/chat", h.Chat.HandleGetMessages)
		events.POST("/events/:eventID/chat", h.Chat.HandlePostMessage)

		events.POST("/events/:eventID/photos", h.Photo.HandleAddPhoto)
		events.DELETE("/photos/:photoID", h.Photo.HandleDeletePhoto)
	}

	users := s.Router.Group(basePath, middleware.RequireAuth())
	{
		users.GET("/getUser", h.User.HandleGetPrincipal)
		users.GET("/users/me", h.User.HandleGetPrincipal)
		users.PUT("/users/me/password", h.Auth.HandleChangePassword)
		users.POST("/users", h.User.HandleCreateUser)
		users.GET("/users/email/:email", h.User.HandleGetUserByEmail)
		users.GET("/users/:userID", h.User.HandleGetUser)
		users.GET("/users/:userID/registrations", h.Registration.HandleListUserRegistrations)
		users.GET("/users/:userID/events", h.Event.HandleListUserEvents)
	}

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "CampusConnect API"
	docs.SwaggerInfo.Description = "Campus events, registrations, chat and photos."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
