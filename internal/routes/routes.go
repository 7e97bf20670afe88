package routes

import (
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Ishimwediane/IremeCorner-Academy-sub000/internal/config"
	"github.com/Ishimwediane/IremeCorner-Academy-sub000/internal/handlers"
	"github.com/Ishimwediane/IremeCorner-Academy-sub000/internal/middleware"
	"github.com/Ishimwediane/IremeCorner-Academy-sub000/internal/repository"
	"github.com/Ishimwediane/IremeCorner-Academy-sub000/internal/services"
	chatws "github.com/Ishimwediane/IremeCorner-Academy-sub000/internal/websocket"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool) {
	userRepo := repository.NewUserRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	certificateRepo := repository.NewCertificateRepository(db)
	templateRepo := repository.NewTemplateRepository(db)

	var storageService services.StorageService
	if cfg.SupabaseURL != "" && cfg.SupabaseBucket != "" && cfg.SupabaseServiceKey != "" {
		storageService = services.NewSupabaseStorageService(cfg.SupabaseURL, cfg.SupabaseBucket, cfg.SupabaseServiceKey)
	}

	authHandler := handlers.NewAuthHandler(userRepo, cfg.JWTSecret)
	chatHub := chatws.NewHub()
	go chatHub.Run()
	chatService := services.NewChatService(db, conversationRepo, messageRepo, userRepo)
	chatHandler := handlers.NewChatHandler(chatService, chatHub, cfg.JWTSecret)
	certificateService := services.NewCertificateService(certificateRepo, templateRepo, userRepo, storageService)
	certificateHandler := handlers.NewCertificateHandler(certificateService)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)

	// Public certificate verification by number.
	api.Get("/verify/:number", certificateHandler.Verify)

	authProtected := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret))

	authProtected.Get("/users/:id", chatHandler.GetPartner)

	conversations := authProtected.Group("/conversations")
	conversations.Get("", chatHandler.ListConversations)
	conversations.Get("/:partnerId/messages", chatHandler.GetMessages)

	authProtected.Post("/messages", chatHandler.SendMessage)

	certificates := authProtected.Group("/certificates")
	certificates.Post("", certificateHandler.Issue)
	certificates.Get("", certificateHandler.ListMine)
	certificates.Put("/templates/:variant", certificateHandler.SaveTemplate)
	certificates.Get("/templates/:variant", certificateHandler.LoadTemplate)
	certificates.Get("/:id", certificateHandler.Get)
	certificates.Post("/:id/image", certificateHandler.RenderImage)

	api.Use("/v1/ws", chatHandler.WebSocketAuth)
	api.Get("/v1/ws", websocket.New(chatHandler.HandleWebSocket))
}
