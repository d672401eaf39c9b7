package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/eduplan/lesson-planner-api/internal/handler"
	"github.com/eduplan/lesson-planner-api/internal/middleware"
	"github.com/eduplan/lesson-planner-api/internal/service"
	"github.com/eduplan/lesson-planner-api/pkg/config"
	"github.com/eduplan/lesson-planner-api/pkg/logger"
	"github.com/eduplan/lesson-planner-api/pkg/middleware/cors"
	"github.com/eduplan/lesson-planner-api/pkg/middleware/requestid"
)

// Handlers groups the HTTP handlers wired into the router.
type Handlers struct {
	Auth        *handler.AuthHandler
	Users       *handler.UserHandler
	Grades      *handler.GradeHandler
	Subjects    *handler.SubjectHandler
	Assignments *handler.AssignmentHandler
	Weeks       *handler.WeekHandler
	Plans       *handler.PlanHandler
	Metrics     *handler.MetricsHandler
}

// New assembles the gin engine with middleware and all API routes.
func New(cfg *config.Config, log *zap.Logger, auth *service.AuthService, metrics *service.MetricsService, h Handlers) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestid.Middleware())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(cors.New(cfg.CORS.AllowedOrigins))
	engine.Use(middleware.Metrics(metrics))

	engine.GET("/health", h.Metrics.Health)
	engine.GET("/ready", h.Metrics.Ready)
	engine.GET("/metrics", h.Metrics.Prometheus)
	engine.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := engine.Group(cfg.APIPrefix)

	api.POST("/login", h.Auth.Login)
	api.POST("/refresh", h.Auth.Refresh)

	authed := api.Group("")
	authed.Use(middleware.JWT(auth))

	authed.POST("/logout", h.Auth.Logout)
	authed.GET("/user", h.Auth.Me)
	authed.PATCH("/users/:id/password", h.Auth.ChangePassword)

	admin := authed.Group("")
	admin.Use(middleware.AdminOnly())

	admin.POST("/register", h.Users.Register)
	admin.GET("/users", h.Users.List)
	admin.GET("/teachers", h.Users.ListTeachers)
	admin.PATCH("/users/:id/role", h.Users.SetRole)
	admin.DELETE("/users/:id", h.Users.Delete)

	authed.GET("/users/:id", middleware.AdminOrSelf("id"), h.Users.Get)
	authed.PATCH("/users/:id", middleware.AdminOrSelf("id"), h.Users.UpdateProfile)

	authed.GET("/grades", h.Grades.List)
	authed.GET("/grades/:id", h.Grades.Get)
	admin.POST("/grades", h.Grades.Create)
	admin.PUT("/grades/:id", h.Grades.Update)
	admin.DELETE("/grades/:id", h.Grades.Delete)

	authed.GET("/subjects", h.Subjects.List)
	authed.GET("/subjects/:id", h.Subjects.Get)
	admin.POST("/subjects", h.Subjects.Create)
	admin.PUT("/subjects/:id", h.Subjects.Update)
	admin.DELETE("/subjects/:id", h.Subjects.Delete)

	authed.GET("/teachers/:teacherId/grades", h.Assignments.ListGrades)
	authed.GET("/teachers/:teacherId/subjects", h.Assignments.ListSubjects)
	admin.POST("/teacher-grades", h.Assignments.AssignGrade)
	admin.DELETE("/teacher-grades/:teacherId/:gradeId", h.Assignments.UnassignGrade)
	admin.POST("/teacher-subjects", h.Assignments.AssignSubject)
	admin.DELETE("/teacher-subjects/:teacherId/:gradeId/:subjectId", h.Assignments.UnassignSubject)

	authed.GET("/planning-weeks", h.Weeks.List)
	authed.GET("/planning-weeks/active", h.Weeks.ListActive)
	authed.GET("/planning-weeks/:id", h.Weeks.Get)
	admin.POST("/planning-weeks", h.Weeks.Create)
	admin.PATCH("/planning-weeks/:id/toggle", h.Weeks.ToggleActive)
	admin.PUT("/planning-weeks/:id/toggle", h.Weeks.ToggleActive)
	admin.DELETE("/planning-weeks/:id", h.Weeks.Delete)

	authed.GET("/weekly-plans", h.Plans.ListWeekly)
	authed.POST("/weekly-plans", h.Plans.CreateWeekly)
	authed.GET("/weekly-plans/:id", h.Plans.GetWeekly)
	authed.DELETE("/weekly-plans/:id", h.Plans.DeleteWeekly)
	authed.GET("/weekly-plans/:id/complete", h.Plans.Complete)
	authed.PATCH("/weekly-plans/:id/notes", h.Plans.UpdateNotes)
	authed.PUT("/weekly-plans/:id/notes", h.Plans.UpdateNotes)
	authed.GET("/weekly-plans/:id/export", h.Plans.Export)
	authed.GET("/weekly-plans/:id/daily-plans", h.Plans.ListDaily)
	authed.POST("/daily-plans", h.Plans.CreateDaily)
	authed.PUT("/daily-plans/:id", h.Plans.UpdateDaily)
	authed.DELETE("/daily-plans/:id", h.Plans.DeleteDaily)

	return engine
}
