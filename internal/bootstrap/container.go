package bootstrap

import (
	"context"
	"log"

	"academic-ai-be/internal/config"
	"academic-ai-be/internal/controller"
	"academic-ai-be/internal/handler"
	"academic-ai-be/internal/pkg/logger"
	"academic-ai-be/internal/repository/memory"
	"academic-ai-be/internal/repository/unitofwork"
	"academic-ai-be/internal/service"
	"academic-ai-be/internal/websocket"
	"academic-ai-be/pkg/inference/azure"
	"academic-ai-be/pkg/inference/deepgram"

	pktNats "academic-ai-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController      controller.IAuthController
	ChatController      controller.IChatController
	DocumentController  controller.IDocumentController
	DashboardController controller.IDashboardController

	// Background Services (Exposed for main.go to run)
	ProcessorService service.IProcessorService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Inference gateway
	gateway := azure.NewClient(
		cfg.Inference.BaseURL,
		cfg.Inference.APIKey,
		cfg.Inference.Model,
		cfg.Inference.MaxTokens,
		cfg.Inference.RequestTimeout,
	)
	log.Printf("[INFO] Using inference model: %s", cfg.Inference.Model)

	transcriber := deepgram.NewClient(
		cfg.Inference.TranscribeURL,
		cfg.Inference.TranscribeKey,
		cfg.Inference.RequestTimeout,
	)

	// In-memory workspace storage
	workspaces := memory.NewWorkspaceRepository()

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Services
	publisherService := service.NewPublisherService(pubSub, cfg.App.UploadTopic)
	processorService := service.NewProcessorService(
		pubSub,
		cfg.App.UploadTopic,
		uowFactory,
		workspaces,
		natsPub,
		sysLogger,
	)

	authService := service.NewAuthService(uowFactory, cfg, natsPub, sysLogger)
	chatService := service.NewChatService(
		uowFactory,
		gateway,
		transcriber,
		workspaces,
		natsPub,
		sysLogger,
	)
	documentService := service.NewDocumentService(
		uowFactory,
		gateway,
		workspaces,
		publisherService,
		natsPub,
		sysLogger,
	)
	dashboardService := service.NewDashboardService(uowFactory)

	// 3.5 Notification System
	notifService := service.NewNotificationService(natsSub, wsHub, wsLogger) // Hub implements NotificationDelivery

	// Start Service (Worker)
	if natsSub != nil {
		go notifService.Start()
	}

	// Handler
	notifHandler := handler.NewNotificationHandler(wsHub, wsLogger)

	// 4. Controllers
	return &Container{
		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,
		AuthController:      controller.NewAuthController(authService),
		ChatController:      controller.NewChatController(chatService),
		DocumentController:  controller.NewDocumentController(documentService, sysLogger),
		DashboardController: controller.NewDashboardController(dashboardService),

		ProcessorService: processorService,
	}
}
