package main

import (
	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/taskflow-app/taskflow-api/internal/config"
	"github.com/taskflow-app/taskflow-api/internal/constants"
	"github.com/taskflow-app/taskflow-api/internal/database"
	"github.com/taskflow-app/taskflow-api/internal/handlers"
	"github.com/taskflow-app/taskflow-api/internal/logging"
	"github.com/taskflow-app/taskflow-api/internal/mailer"
	"github.com/taskflow-app/taskflow-api/internal/middleware"
	"github.com/taskflow-app/taskflow-api/internal/repository"
	"github.com/taskflow-app/taskflow-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set up logging and Gin mode
	logging.Init(cfg.LogFile, cfg.GinMode != "release")
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		logging.Logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		logging.Logger.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		logging.Logger.Fatalf("Failed to create Redis store: %v", err)
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Initialize mailer
	mail := mailer.NewSMTPMailer(
		cfg.SMTPHost,
		cfg.SMTPPort,
		cfg.SMTPUser,
		cfg.SMTPPassword,
		cfg.SMTPFrom,
		cfg.FrontendURL,
	)

	// Initialize repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, mail)
	projectService := services.NewProjectService(projectRepo)
	taskService := services.NewTaskService(taskRepo, projectRepo)
	commentService := services.NewCommentService(commentRepo, taskRepo)
	invitationService := services.NewInvitationService(invitationRepo, projectRepo, userRepo, mail)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	profileHandler := handlers.NewProfileHandler(authService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)
	commentHandler := handlers.NewCommentHandler(commentService)
	teamHandler := handlers.NewTeamHandler(invitationService, projectService, authService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "TaskFlow API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/verify-otp", authHandler.VerifyOTP)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Profile routes (protected)
		profile := api.Group("/profile")
		profile.Use(middleware.RequireAuth())
		{
			profile.GET("", profileHandler.GetProfile)
			profile.PUT("", profileHandler.UpdateProfile)
			profile.PUT("/change-password", profileHandler.ChangePassword)
			profile.DELETE("/delete-account", profileHandler.DeleteAccount)
		}

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(middleware.RequireAuth())
		{
			projects.POST("", projectHandler.CreateProject)
			projects.GET("", projectHandler.ListProjects)
			projects.GET("/:id", projectHandler.GetProject)
			projects.PUT("/:id", projectHandler.UpdateProject)
			projects.DELETE("/:id", projectHandler.DeleteProject)
			projects.GET("/:id/members", projectHandler.ListMembers)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("", taskHandler.ListTasks)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}

		// Comment routes (protected)
		comments := api.Group("/comments")
		comments.Use(middleware.RequireAuth())
		{
			comments.POST("", commentHandler.AddComment)
			comments.GET("/task/:taskId", commentHandler.ListTaskComments)
			comments.GET("/:id", commentHandler.GetComment)
			comments.PUT("/:id", commentHandler.UpdateComment)
			comments.DELETE("/:id", commentHandler.DeleteComment)
		}

		// Team routes (protected)
		team := api.Group("/team")
		team.Use(middleware.RequireAuth())
		{
			team.GET("/search-users", teamHandler.SearchUsers)
			team.POST("/invite", teamHandler.Invite)
			team.GET("/invitations/:projectId", teamHandler.ListInvitations)
			team.POST("/accept-invitation/:token", teamHandler.AcceptInvitation)
			team.POST("/decline-invitation/:token", teamHandler.DeclineInvitation)
			team.DELETE("/remove/:projectId/:userId", teamHandler.RemoveMember)
		}
	}

	// Start server
	logging.Logger.Info("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		logging.Logger.Fatalf("Failed to start server: %v", err)
	}
}
