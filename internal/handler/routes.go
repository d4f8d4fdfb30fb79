package handler

import "github.com/gin-gonic/gin"

// Handlers groups the HTTP handlers mounted under the API prefix.
type Handlers struct {
	Faculty  *FacultyHandler
	Location *LocationHandler
	Export   *ExportHandler
	Jobs     *ExportJobHandler
}

// RegisterRoutes mounts the locator API on group.
func RegisterRoutes(group *gin.RouterGroup, h Handlers) {
	faculty := group.Group("/faculty")
	faculty.GET("", h.Faculty.List)
	faculty.POST("", h.Faculty.Create)
	faculty.GET("/names", h.Faculty.Names)
	faculty.POST("/custom", h.Faculty.CreateCustom)
	faculty.GET("/:id", h.Faculty.Get)
	faculty.GET("/:id/schedule", h.Faculty.Schedule)
	faculty.GET("/:id/location", h.Location.Locate)
	faculty.GET("/:id/export", h.Export.Export)

	group.GET("/slots", h.Location.Slots)
	group.GET("/exports/formats", h.Export.Formats)

	if h.Jobs != nil {
		faculty.POST("/:id/exports", h.Jobs.CreateJob)
		group.GET("/exports/jobs/:id", h.Jobs.JobStatus)
		group.GET("/exports/download/:token", h.Jobs.Download)
	}
}
