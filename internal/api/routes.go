package api

import (
	"net/http"

	"learnhub/course-platform/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires all handlers onto the router. The uploadsDir is
// served under /uploads so local-fallback URLs stay fetchable.
func SetupRoutes(
	router *gin.Engine,
	uploadsDir string,
	instructorService service.InstructorService,
	courseService service.CourseService,
	mediaService service.MediaService,
	revenueService service.RevenueService,
) {
	instructorHandler := NewInstructorHandler(instructorService)
	courseHandler := NewCourseHandler(courseService)
	mediaHandler := NewMediaHandler(mediaService, courseService)
	revenueHandler := NewRevenueHandler(revenueService, courseService)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Static file route backing the local half of the upload chain.
	router.Static("/uploads", uploadsDir)

	apiV1 := router.Group("/api/v1")
	{
		// --- Instructors ---
		apiV1.POST("/instructors", instructorHandler.Register)
		apiV1.GET("/instructors/:instructorId", instructorHandler.GetInstructor)

		// --- Courses & Lessons ---
		instructorGroup := apiV1.Group("/instructors/:instructorId")
		{
			instructorGroup.POST("/courses", courseHandler.CreateCourse)
			instructorGroup.GET("/courses", courseHandler.GetInstructorCourses)
			instructorGroup.PUT("/courses/:courseId", courseHandler.UpdateCourse)
			instructorGroup.DELETE("/courses/:courseId", courseHandler.DeleteCourse)
			instructorGroup.POST("/courses/:courseId/lessons", courseHandler.AddLesson)

			// --- Media uploads ---
			instructorGroup.POST("/media", mediaHandler.Upload)
			instructorGroup.GET("/media", mediaHandler.GetInstructorMedia)

			// --- Revenue ledger ---
			instructorGroup.POST("/revenue", revenueHandler.AddRevenue)
			instructorGroup.GET("/revenue", revenueHandler.GetLedger)
			instructorGroup.POST("/bonuses", revenueHandler.AddBonus)
			instructorGroup.GET("/revenue/share", revenueHandler.GetMonthlyShare)
			instructorGroup.PUT("/revenue/metrics", revenueHandler.SetPerformanceInputs)
			instructorGroup.PUT("/tier", revenueHandler.ChangeTier)

			// --- Payout state machine ---
			instructorGroup.POST("/revenue/payout", revenueHandler.ProcessPayout)
			instructorGroup.POST("/revenue/payout/complete", revenueHandler.CompletePayout)
			instructorGroup.POST("/revenue/payout/fail", revenueHandler.FailPayout)
		}

		apiV1.GET("/courses/:courseId", courseHandler.GetCourse)
		apiV1.GET("/courses/:courseId/lessons", courseHandler.GetCourseLessons)

		// Lesson completions accrue subscription revenue.
		apiV1.POST("/lessons/:lessonId/completions", revenueHandler.RecordLessonCompletion)

		// --- Platform roll-ups ---
		apiV1.GET("/revenue/top-performers", revenueHandler.TopPerformers)
		apiV1.GET("/revenue/payout-total", revenueHandler.MonthlyPayoutTotal)
	}
}
