package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/taskflow/internal/auth"
	"github.com/adanyl0v/taskflow/internal/metrics"
	"github.com/adanyl0v/taskflow/internal/services"
	"github.com/adanyl0v/taskflow/internal/validation"
)

type Handler interface {
	// RegisterRoutes mounts every v1 endpoint on router,
	// which is expected to be the /api/v1 group.
	RegisterRoutes(router gin.IRouter)

	HandleAuthMiddleware(c *gin.Context)
}

type Dependencies struct {
	Users     services.UserService
	Projects  services.ProjectService
	Tasks     services.TaskService
	Hasher    auth.Hasher
	Tokens    auth.TokenService
	Validator *validation.Validator
	Metrics   *metrics.Metrics

	// CookieSecure marks the token cookie as HTTPS-only.
	CookieSecure bool
}

type handlerImpl struct {
	logger       zerolog.Logger
	users        services.UserService
	projects     services.ProjectService
	tasks        services.TaskService
	hasher       auth.Hasher
	tokens       auth.TokenService
	validator    *validation.Validator
	metrics      *metrics.Metrics
	cookieSecure bool
}

func New(logger zerolog.Logger, deps Dependencies) Handler {
	return &handlerImpl{
		logger:       logger,
		users:        deps.Users,
		projects:     deps.Projects,
		tasks:        deps.Tasks,
		hasher:       deps.Hasher,
		tokens:       deps.Tokens,
		validator:    deps.Validator,
		metrics:      deps.Metrics,
		cookieSecure: deps.CookieSecure,
	}
}

func (h *handlerImpl) RegisterRoutes(router gin.IRouter) {
	usersRouter := router.Group("/users")
	usersRouter.POST("/sign-up", h.handle(h.handleSignUp))
	usersRouter.POST("/sign-in", h.handle(h.handleSignIn))
	usersRouter.POST("/sign-out", h.handle(h.handleSignOut))
	usersRouter.GET("/me", h.HandleAuthMiddleware, h.handle(h.handleGetMe))
	usersRouter.GET("/:id", h.handle(h.handleGetUser))

	projectsRouter := router.Group("/projects", h.HandleAuthMiddleware)
	projectsRouter.GET("", h.handle(h.handleGetProjects))
	projectsRouter.POST("/create", h.handle(h.handleCreateProject))
	projectsRouter.GET("/:id", h.handle(h.handleGetProject))
	projectsRouter.PATCH("/:id", h.handle(h.handleUpdateProject))
	projectsRouter.DELETE("/:id", h.handle(h.handleDeleteProject))
	projectsRouter.GET("/:id/tasks", h.handle(h.handleGetProjectTasks))

	tasksRouter := router.Group("/tasks", h.HandleAuthMiddleware)
	tasksRouter.GET("", h.handle(h.handleGetTasks))
	tasksRouter.POST("/create", h.handle(h.handleCreateTask))
	tasksRouter.GET("/:id", h.handle(h.handleGetTask))
	tasksRouter.PATCH("/:id", h.handle(h.handleUpdateTask))
	tasksRouter.DELETE("/:id", h.handle(h.handleDeleteTask))
	tasksRouter.PATCH("/:id/status", h.handle(h.handleUpdateTaskStatus))
}
