package main

import (
	"fmt"
	"log"
	"os"

	"main/handler"
	"main/middleware"
	"main/repository"
	"main/services"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MaxUploadSize caps multipart bodies on the note endpoints; image uploads
// larger than this are rejected before they reach the blob store.
const MaxUploadSize = 10 << 20 // 10 MiB

func init() {
	if err := godotenv.Load(); err != nil && os.Getenv("GO_ENV") != "test" {
		log.Printf("No .env file loaded: %v", err)
	}

	requiredEnvVars := []string{
		"MONGO_URI",
		"MONGO_DB",
		"JWT_SECRET_KEY",
		"JWT_EXPIRATION_TIME",
		"REFRESH_TOKEN_EXPIRATION_TIME",
	}

	for _, envVar := range requiredEnvVars {
		if os.Getenv(envVar) == "" && os.Getenv("GO_ENV") != "test" {
			log.Fatalf("Required environment variable %s is not set", envVar)
		}
	}

	utils.InitValidator()
	utils.InitJWT()
	utils.InitMongoClient()
}

func setupRouter(blobs services.BlobStore) *gin.Engine {
	router := gin.Default()

	userRepo := repository.GetUserRepo(utils.MongoClient)
	notesRepo := repository.GetNotesRepo(utils.MongoClient)
	sessionRepo := repository.GetSessionRepo(utils.MongoClient)

	userService := &usecase.UserService{UsersRepo: userRepo}
	notesService := &usecase.NotesService{
		NotesRepo: notesRepo,
		Blobs:     blobs,
	}

	statsHandler := handler.NewStatsHandler(userRepo, notesRepo, sessionRepo)

	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.SessionMiddleware(sessionRepo))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", handler.HealthHandler)

	// Public routes (no authentication required)
	public := router.Group("/api")
	{
		auth := public.Group("/auth")
		{
			auth.POST("/register", func(c *gin.Context) {
				handler.RegistrationHandler(c, userService)
			})
			auth.POST("/login", func(c *gin.Context) {
				handler.LoginHandler(c, userService, sessionRepo)
			})
			auth.POST("/refresh", handler.RefreshHandler)
		}
	}

	// Protected routes (authentication required)
	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		user := protected.Group("/user")
		{
			user.GET("/profile", func(c *gin.Context) {
				handler.GetUserProfileHandler(c, userRepo)
			})
			user.POST("/change-password", func(c *gin.Context) {
				handler.ChangePasswordHandler(c, userService, sessionRepo)
			})
			user.POST("/logout", func(c *gin.Context) {
				handler.LogoutHandler(c, sessionRepo)
			})
			user.DELETE("/delete", func(c *gin.Context) {
				handler.DeleteUserHandler(c, userRepo, notesRepo, sessionRepo)
			})

			twofa := user.Group("/2fa")
			{
				twofa.POST("/enable", func(c *gin.Context) {
					handler.Enable2FAHandler(c, userRepo)
				})
				twofa.POST("/verify", func(c *gin.Context) {
					handler.Verify2FAHandler(c, userRepo)
				})
				twofa.POST("/disable", func(c *gin.Context) {
					handler.Disable2FAHandler(c, userRepo)
				})
			}
		}

		sessions := protected.Group("/sessions")
		{
			sessions.GET("/active", func(c *gin.Context) {
				handler.GetActiveSessions(c, sessionRepo)
			})
			sessions.POST("/logout-all", func(c *gin.Context) {
				handler.LogoutAllSessions(c, sessionRepo)
			})
		}

		notes := protected.Group("/notes")
		{
			notes.GET("/", func(c *gin.Context) {
				handler.GetUserNotesHandler(c, notesService)
			})
			notes.GET("/search", func(c *gin.Context) {
				handler.SearchNotesHandler(c, notesService)
			})
			notes.POST("/", middleware.RequestSizeLimiter(MaxUploadSize), func(c *gin.Context) {
				handler.CreateNoteHandler(c, notesService)
			})
			notes.PUT("/:id", middleware.RequestSizeLimiter(MaxUploadSize), func(c *gin.Context) {
				handler.UpdateNoteHandler(c, notesService)
			})
			notes.DELETE("/:id", func(c *gin.Context) {
				handler.DeleteNoteHandler(c, notesService)
			})
		}

		protected.GET("/images/:key", func(c *gin.Context) {
			handler.GetImageHandler(c, blobs)
		})

		protected.GET("/stats", statsHandler.GetUserStats)
	}

	return router
}

func main() {
	db := utils.MongoClient.Database(os.Getenv("MONGO_DB"))
	if err := repository.SetupIndexes(db); err != nil {
		log.Fatalf("Failed to set up indexes: %v", err)
	}

	blobs, err := services.NewGridFSBlobStore(utils.MongoClient)
	if err != nil {
		log.Fatalf("Failed to set up blob store: %v", err)
	}

	// Redis is optional: without it, sessions are served from MongoDB and
	// logout relies on session invalidation alone.
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cache, err := services.NewSessionCache(redisURL)
		if err != nil {
			log.Fatalf("Failed to connect session cache: %v", err)
		}
		services.GlobalSessionCache = cache

		blacklist, err := services.NewTokenBlacklist(redisURL)
		if err != nil {
			log.Fatalf("Failed to connect token blacklist: %v", err)
		}
		services.TokenBlacklist = blacklist

		limiter, err := services.NewLoginRateLimiter(redisURL)
		if err != nil {
			log.Fatalf("Failed to connect login rate limiter: %v", err)
		}
		services.GlobalLoginLimiter = limiter
	} else {
		log.Println("REDIS_URL not set; running without session cache, token blacklist and login rate limiting")
	}

	router := setupRouter(blobs)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	serverAddr := fmt.Sprintf(":%s", port)
	log.Printf("Server starting on %s", serverAddr)
	if err := router.Run(serverAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
