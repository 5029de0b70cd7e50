package router

import (
	"time"

	"github.com/Dacosmicgiant/fitness-mock/internal/handlers"
	"github.com/Dacosmicgiant/fitness-mock/internal/repository"
	"github.com/Dacosmicgiant/fitness-mock/internal/selector"
	"github.com/Dacosmicgiant/fitness-mock/internal/service"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}

func rateErrorHandler(c *gin.Context, info ratelimit.Info) {
	c.JSON(429, gin.H{"message": "Too many requests. Try again later."})
}

// Setup wires repositories, services and handlers onto a Gin engine. All
// dependencies flow in through this function; nothing reaches for globals.
func Setup(log *zap.Logger, db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
	})
	router.Use(func(c *gin.Context) {
		if err := secureMiddleware.Process(c.Writer, c.Request); err != nil {
			c.Abort()
			return
		}
	})

	// Repositories and services
	userRepo := repository.NewUserRepo(db)
	contentRepo := repository.NewContentRepo(db)
	questionRepo := repository.NewQuestionRepo(db)
	attemptRepo := repository.NewAttemptRepo(db)
	planRepo := repository.NewPlanRepo(db)

	sel := selector.New(contentRepo, questionRepo)
	testService := service.NewTestService(sel, userRepo, contentRepo, questionRepo, attemptRepo, log)

	// Handlers
	authHandler := handlers.NewAuthHandler(userRepo, log)
	testHandler := handlers.NewTestHandler(testService, log)
	certHandler := handlers.NewCertificationHandler(contentRepo, log)
	moduleHandler := handlers.NewModuleHandler(contentRepo, log)
	questionHandler := handlers.NewQuestionHandler(questionRepo, contentRepo, log)
	subscriptionHandler := handlers.NewSubscriptionHandler(planRepo, userRepo, log)

	rateLimitStore := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: 5,
	})
	limiter := ratelimit.RateLimiter(rateLimitStore, &ratelimit.Options{
		ErrorHandler: rateErrorHandler,
		KeyFunc:      keyFunc,
	})

	api := router.Group("/api")
	api.Use(UserLoaderMiddleware(log, userRepo))

	api.POST("/auth/register", limiter, authHandler.Register)
	api.POST("/auth/login", limiter, authHandler.Login)

	authorized := api.Group("/")
	authorized.Use(AuthRequired())
	{
		authorized.GET("/auth/profile", authHandler.Profile)
		authorized.PUT("/auth/profile", authHandler.UpdateProfile)
		authorized.PUT("/auth/password", authHandler.ChangePassword)

		testRoutes := authorized.Group("/tests")
		{
			testRoutes.GET("/questions-for-test", testHandler.QuestionsForTest)
			testRoutes.POST("/attempts", testHandler.SubmitAttempt)
			testRoutes.GET("/attempts", testHandler.ListAttempts)
			testRoutes.GET("/attempts/:id", testHandler.AttemptByID)
			testRoutes.GET("/stats", testHandler.Stats)
		}

		authorized.GET("/certifications", certHandler.List)
		authorized.GET("/certifications/:id", certHandler.Get)
		authorized.GET("/modules", moduleHandler.List)
		authorized.GET("/modules/:id", moduleHandler.Get)
		authorized.GET("/questions/module/:moduleId", questionHandler.ByModule)

		authorized.GET("/subscriptions/plans", subscriptionHandler.Plans)
		authorized.POST("/subscriptions/upgrade", subscriptionHandler.Upgrade)
	}

	admin := authorized.Group("/")
	admin.Use(AdminRequired())
	{
		admin.POST("/certifications", certHandler.Create)
		admin.PUT("/certifications/:id", certHandler.Update)
		admin.DELETE("/certifications/:id", certHandler.Delete)

		admin.POST("/modules", moduleHandler.Create)
		admin.PUT("/modules/:id", moduleHandler.Update)
		admin.DELETE("/modules/:id", moduleHandler.Delete)

		admin.GET("/questions", questionHandler.List)
		admin.GET("/questions/:id", questionHandler.Get)
		admin.POST("/questions", questionHandler.Create)
		admin.PUT("/questions/:id", questionHandler.Update)
		admin.DELETE("/questions/:id", questionHandler.Delete)
	}

	return router
}
