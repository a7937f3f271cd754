package handlers

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"trainingplatform/internal/infrastructure/security"
	"trainingplatform/internal/middleware"
)

func NewRouter(
	authHandler *AuthHandler,
	employeeHandler *EmployeeHandler,
	platformHandler *PlatformHandler,
	courseHandler *CourseHandler,
	assignmentHandler *AssignmentHandler,
	importHandler *ImportHandler,
	limiter *middleware.RateLimiter,
	tokens *security.TokenManager,
) *gin.Engine {
	r := gin.Default()

	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"http://localhost:4200", "http://localhost:3000"}
	config.AllowCredentials = true
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"}
	r.Use(cors.New(config))

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", limiter.Limit("login", 5, 1*time.Minute), authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/logout", authHandler.Logout)
		}

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(tokens))
		{
			employees := protected.Group("/employees")
			{
				employees.GET("", employeeHandler.List)
				employees.GET("/:id", employeeHandler.GetOne)
				employees.POST("", employeeHandler.Create)
				employees.PUT("/:id", employeeHandler.Update)
				employees.DELETE("/:id", employeeHandler.Delete)
			}

			platforms := protected.Group("/platforms")
			{
				platforms.GET("", platformHandler.List)
				platforms.POST("", platformHandler.Create)
				platforms.DELETE("/:id", platformHandler.Delete)
			}

			courses := protected.Group("/courses")
			{
				courses.GET("", courseHandler.List)
				courses.GET("/:id", courseHandler.GetOne)
				courses.POST("", courseHandler.Create)
				courses.PUT("/:id", courseHandler.Update)
				courses.DELETE("/:id", courseHandler.Delete)
			}

			assignments := protected.Group("/assignments")
			{
				assignments.GET("", assignmentHandler.List)
				assignments.GET("/:id", assignmentHandler.GetOne)
				assignments.POST("", assignmentHandler.Create)
				assignments.PUT("/:id", assignmentHandler.Update)
				assignments.DELETE("/:id", assignmentHandler.Delete)
			}

			// Массовые импорты тяжёлые, лимит жёстче обычного
			imports := protected.Group("/import")
			{
				imports.POST("/assignments", limiter.Limit("import", 10, 1*time.Minute), importHandler.ImportAssignments)
				imports.POST("/employees", limiter.Limit("import", 10, 1*time.Minute), importHandler.ImportEmployees)
				imports.POST("/employees/check-duplicates", importHandler.CheckEmployeeDuplicates)
			}
		}
	}

	return r
}

// NewProcessorRouter — служебный HTTP-интерфейс воркера пайплайна.
func NewProcessorRouter(processingHandler *ProcessingHandler) *gin.Engine {
	r := gin.Default()

	api := r.Group("/api/v1/processing")
	{
		api.GET("/health", processingHandler.Health)
		api.GET("/stats", processingHandler.Stats)
		api.POST("/ingest", processingHandler.Ingest)
		api.POST("/process", processingHandler.Process)
	}

	return r
}
