package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/timetable-api/internal/middleware"
	"github.com/noah-isme/timetable-api/internal/service"
	"github.com/noah-isme/timetable-api/pkg/config"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Auth      *AuthHandler
	Teachers  *TeacherHandler
	Subjects  *SubjectHandler
	Rooms     *RoomHandler
	Classes   *ClassHandler
	TimeSlots *TimeSlotHandler
	Timetable *TimetableHandler
	Conflicts *ConflictHandler
	Analytics *AnalyticsHandler
	Dashboard *DashboardHandler
	Exports   *ExportHandler
}

// RegisterRoutes mounts the API under cfg.APIPrefix. Auth signup/login/refresh
// and the signed export download stay public; everything else sits behind JWT.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, auth *service.AuthService, h Handlers) {
	api := r.Group(cfg.APIPrefix)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/signup", h.Auth.Signup)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
	}

	if cfg.Exports.Enabled && h.Exports != nil {
		api.GET("/exports/download", h.Exports.Download)
	}

	protected := api.Group("")
	protected.Use(middleware.JWT(auth))

	me := protected.Group("/auth")
	{
		me.POST("/logout", h.Auth.Logout)
		me.GET("/me", h.Auth.Profile)
		me.PUT("/me", h.Auth.UpdateProfile)
		me.PUT("/password", h.Auth.ChangePassword)
	}

	teachers := protected.Group("/teachers")
	{
		teachers.GET("", h.Teachers.List)
		teachers.POST("", h.Teachers.Create)
		teachers.GET("/:id", h.Teachers.Get)
		teachers.PUT("/:id", h.Teachers.Update)
		teachers.DELETE("/:id", h.Teachers.Delete)
	}

	subjects := protected.Group("/subjects")
	{
		subjects.GET("", h.Subjects.List)
		subjects.POST("", h.Subjects.Create)
		subjects.GET("/:id", h.Subjects.Get)
		subjects.PUT("/:id", h.Subjects.Update)
		subjects.DELETE("/:id", h.Subjects.Delete)
	}

	rooms := protected.Group("/rooms")
	{
		rooms.GET("", h.Rooms.List)
		rooms.POST("", h.Rooms.Create)
		rooms.GET("/:id", h.Rooms.Get)
		rooms.PUT("/:id", h.Rooms.Update)
		rooms.DELETE("/:id", h.Rooms.Delete)
	}

	classes := protected.Group("/classes")
	{
		classes.GET("", h.Classes.List)
		classes.POST("", h.Classes.Create)
		classes.GET("/:id", h.Classes.Get)
		classes.PUT("/:id", h.Classes.Update)
		classes.DELETE("/:id", h.Classes.Delete)
	}

	slots := protected.Group("/time-slots")
	{
		slots.GET("", h.TimeSlots.List)
		slots.POST("", h.TimeSlots.Create)
		slots.DELETE("/:id", h.TimeSlots.Delete)
	}

	timetable := protected.Group("/timetable")
	{
		timetable.POST("/generate", h.Timetable.Generate)
		timetable.GET("/class/:id", h.Timetable.GridByClass)
		timetable.GET("/teacher/:id", h.Timetable.ListByTeacher)
		timetable.DELETE("/entries/:id", h.Timetable.DeleteEntry)
		timetable.POST("/check-conflicts", h.Conflicts.Check)
		timetable.GET("/available-rooms", h.Conflicts.AvailableRooms)
	}

	if cfg.Analytics.Enabled && h.Analytics != nil {
		protected.GET("/analytics", h.Analytics.Report)
	}

	if cfg.Dashboard.Enabled && h.Dashboard != nil {
		protected.GET("/dashboard", h.Dashboard.Summary)
	}

	if cfg.Exports.Enabled && h.Exports != nil {
		exports := protected.Group("/exports")
		exports.POST("", h.Exports.Enqueue)
		exports.GET("/:id", h.Exports.Job)
	}
}
