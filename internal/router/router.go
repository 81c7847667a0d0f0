package router

import (
	"updoot/internal/handlers"
	"updoot/internal/middleware"
	"updoot/internal/repository"
	"updoot/internal/services"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires services and handlers onto the engine. The
// store is the only storage dependency; everything else hangs off it.
func RegisterRoutes(r *gin.Engine, store repository.Store) {
	// Services
	mailService := services.NewMailService()
	userService := services.NewUserService(store, mailService)
	postService := services.NewPostService(store)
	voteService := services.NewVoteService(store)
	loader := services.NewLoader(store)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	postHandler := handlers.NewPostHandler(postService, loader)
	voteHandler := handlers.NewVoteHandler(voteService, postService)

	r.Use(middleware.LoadUser(store))

	api := r.Group("/api")

	// Public routes
	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)
	api.POST("/logout", authHandler.Logout)
	api.GET("/me", authHandler.Me)
	api.POST("/forgot-password", authHandler.ForgotPassword)
	api.POST("/reset-password", authHandler.ResetPassword)

	api.GET("/posts", postHandler.List)
	api.GET("/posts/:id", postHandler.Detail)

	// Protected routes
	authorized := api.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.POST("/posts", postHandler.Create)
		authorized.PUT("/posts/:id", postHandler.Update)
		authorized.DELETE("/posts/:id", postHandler.Delete)
		authorized.POST("/posts/:id/vote", voteHandler.Vote)
	}
}
