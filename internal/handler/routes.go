package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ensino-labs/agenda-api/internal/middleware"
	"github.com/ensino-labs/agenda-api/internal/models"
	"github.com/ensino-labs/agenda-api/internal/service"
)

// Registry groups the handlers the router mounts.
type Registry struct {
	Holidays     *HolidayHandler
	Availability *AvailabilityHandler
	Slots        *SlotHandler
	Bookings     *BookingHandler
	Projection   *ProjectionHandler
}

// RegisterRoutes mounts every API route under the given prefix. All routes
// require a valid token; write access is narrowed per group.
func RegisterRoutes(r *gin.Engine, prefix string, auth *service.AuthService, reg Registry) {
	api := r.Group(prefix)
	api.Use(middleware.JWT(auth))

	admin := string(models.RoleAdmin)
	teacher := string(models.RoleTeacher)
	student := string(models.RoleStudent)

	holidays := api.Group("/holidays")
	holidays.GET("", reg.Holidays.List)
	holidays.POST("", middleware.RBAC(admin), reg.Holidays.Create)
	holidays.PUT("/:id", middleware.RBAC(admin), reg.Holidays.Update)
	holidays.DELETE("/:id", middleware.RBAC(admin), reg.Holidays.Delete)

	teachers := api.Group("/teachers/:teacherId")
	teachers.GET("/availability", reg.Availability.ListByTeacher)
	teachers.POST("/availability", middleware.RBAC(admin, "SELF"), reg.Availability.Create)
	teachers.POST("/availability/validate", middleware.RBAC(admin, "SELF"), reg.Availability.Validate)
	teachers.GET("/availability/conflicts", middleware.RBAC(admin, "SELF"), reg.Availability.Conflicts)
	teachers.GET("/slots", reg.Slots.ListByTeacher)
	teachers.GET("/slots/next", reg.Slots.NextAvailable)
	teachers.GET("/calendar", reg.Slots.Calendar)

	api.PUT("/availability/:id", middleware.RBAC(admin, teacher), reg.Availability.Update)
	api.DELETE("/availability/:id", middleware.RBAC(admin, teacher), reg.Availability.Deactivate)
	api.GET("/availability/conflicts", middleware.RBAC(admin), reg.Availability.AllConflicts)

	bookings := api.Group("/bookings")
	bookings.POST("", middleware.RBAC(admin, student), reg.Bookings.Create)
	bookings.POST("/:id/cancel", middleware.RBAC(admin, student), reg.Bookings.Cancel)

	api.POST("/courses/projection", reg.Projection.Project)
}
