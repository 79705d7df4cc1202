package handler

import "github.com/gin-gonic/gin"

// Handlers groups the course store's API handlers.
type Handlers struct {
	Courses     *CourseHandler
	Sections    *SectionHandler
	Submissions *SubmissionHandler
	Reports     *ReportHandler
}

// Register mounts the course store API on api. guard runs ahead of every
// mutating route; reads stay open.
func Register(api gin.IRouter, h Handlers, guard ...gin.HandlerFunc) {
	write := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		chain := make([]gin.HandlerFunc, 0, len(guard)+1)
		chain = append(chain, guard...)
		return append(chain, handler)
	}

	course := api.Group("/course")
	course.GET("/details", h.Courses.List)
	course.POST("/add", write(h.Courses.Create)...)
	course.PUT("/update", write(h.Courses.Update)...)
	course.DELETE("/delete", write(h.Courses.Delete)...)

	section := course.Group("/section")
	section.GET("/details", h.Sections.List)
	section.POST("/add", write(h.Sections.Create)...)
	section.PUT("/update", write(h.Sections.Update)...)
	section.DELETE("/delete", write(h.Sections.Delete)...)

	content := section.Group("/content")
	content.GET("/details", h.Sections.Contents)
	content.POST("/add", write(h.Sections.AddContent)...)
	content.DELETE("/delete", write(h.Sections.DeleteContent)...)

	api.GET("/assignments/course", h.Submissions.Assignments)
	api.POST("/assignments", write(h.Submissions.CreateAssignment)...)
	api.GET("/submissions/courses/:courseId/student-progress", h.Submissions.Progress)
	api.PUT("/submissions/courses/:courseId/student-progress", write(h.Submissions.RecordProgress)...)

	if h.Reports != nil {
		api.POST("/submissions/courses/:courseId/student-progress/export", write(h.Reports.ExportProgress)...)
		api.GET("/exports/:token", h.Reports.Download)
	}
}
