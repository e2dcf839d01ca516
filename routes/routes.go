package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/fcode/course-platform-backend/controllers"
	"github.com/fcode/course-platform-backend/middleware"
	"github.com/fcode/course-platform-backend/models"
	"github.com/fcode/course-platform-backend/ratelimit"
	"github.com/fcode/course-platform-backend/repository"
	"github.com/fcode/course-platform-backend/services"
	"github.com/fcode/course-platform-backend/utils"
	"github.com/fcode/course-platform-backend/ws"
)

// Deps carries everything the router wires into services and handlers.
// Redis, Images and both limiters may be nil.
type Deps struct {
	Store          repository.Store
	Tokens         *utils.JWTManager
	Hub            *ws.Hub
	Redis          *redis.Client
	Images         utils.ImageStore
	APILimiter     ratelimit.Limiter
	ChatLimiter    ratelimit.Limiter
	RequestTimeout time.Duration
	AllowedOrigins []string
}

func SetupRouter(r *gin.Engine, d Deps) *gin.Engine {
	authSvc := services.NewAuthService(d.Store, d.Tokens)
	courseSvc := services.NewCourseService(d.Store)
	enrollSvc := services.NewEnrollmentService(d.Store)
	reviewSvc := services.NewReviewService(d.Store)
	chatSvc := services.NewChatService(d.Store, d.Hub, d.ChatLimiter)

	authCtl := controllers.NewAuthController(authSvc)
	courseCtl := controllers.NewCourseController(courseSvc, enrollSvc)
	categoryCtl := controllers.NewCategoryController(courseSvc)
	learningCtl := controllers.NewLearningController(enrollSvc)
	reviewCtl := controllers.NewReviewController(reviewSvc)
	chatCtl := controllers.NewChatController(chatSvc)
	uploadCtl := controllers.NewUploadController(d.Images)
	healthCtl := controllers.NewHealthController(d.Store, d.Redis, d.Hub)

	requireAuth := middleware.AuthMiddleware(d.Tokens)
	authors := middleware.RequireRoles(d.Tokens, models.RoleTeacher, models.RoleAdmin)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.GET("/health", healthCtl.HealthCheck)

	// Long-lived socket; kept outside the request timeout.
	r.GET("/ws/chat", middleware.RequestID(), ws.NewChatHandler(d.Hub, chatSvc, d.Tokens, d.AllowedOrigins).Serve)

	api := r.Group("/api")
	api.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RateLimit(d.APILimiter),
		middleware.Timeout(d.RequestTimeout),
	)

	auth := api.Group("/auth")
	{
		auth.POST("/register", authCtl.Register)
		auth.POST("/login", authCtl.Login)
		auth.GET("/me", requireAuth, authCtl.Me)
		auth.PUT("/profile", requireAuth, authCtl.UpdateProfile)
	}

	courses := api.Group("/courses")
	{
		// Static segments first so they are not read as a course id.
		courses.GET("", courseCtl.List)
		courses.GET("/my-courses", requireAuth, courseCtl.MyCourses)
		courses.GET("/my-enrolled", requireAuth, learningCtl.MyEnrolled)
		courses.POST("/create", authors, courseCtl.Create)
		courses.POST("/enroll", requireAuth, learningCtl.Enroll)
		courses.GET("/enrolled/:id", requireAuth, learningCtl.EnrolledDetail)
		courses.GET("/lesson/:lessonId", requireAuth, learningCtl.LessonDetail)
		courses.POST("/lesson/:lessonId/complete", requireAuth, learningCtl.Complete)
		courses.PUT("/lesson/:lessonId/progress", requireAuth, learningCtl.Progress)

		courses.GET("/:id", middleware.OptionalAuth(d.Tokens), courseCtl.Detail)
		courses.PUT("/:id", authors, courseCtl.Update)
		courses.DELETE("/:id", authors, courseCtl.Delete)
	}

	categories := api.Group("/categories")
	{
		categories.GET("", categoryCtl.List)
		categories.POST("", middleware.RequireRoles(d.Tokens, models.RoleAdmin), categoryCtl.Create)
	}

	reviews := api.Group("/reviews")
	{
		reviews.GET("/course/:courseId", reviewCtl.List)
		reviews.GET("/course/:courseId/summary", reviewCtl.Summary)
		reviews.POST("/course/:courseId", requireAuth, reviewCtl.Create)
		reviews.PUT("/:reviewId", requireAuth, reviewCtl.Update)
		reviews.DELETE("/:reviewId", requireAuth, reviewCtl.Delete)
	}

	api.GET("/chat", chatCtl.History)
	api.POST("/uploads/image", authors, uploadCtl.UploadImage)

	return r
}
