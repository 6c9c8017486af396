package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"go-gin-prize-draw/config"
	"go-gin-prize-draw/internal/cache"
	"go-gin-prize-draw/internal/database"
	"go-gin-prize-draw/internal/handler"
	"go-gin-prize-draw/internal/queue"
	"go-gin-prize-draw/internal/realtime"
	"go-gin-prize-draw/internal/repository"
	"go-gin-prize-draw/internal/service"
	"go-gin-prize-draw/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.LoadConfig()

	pool, err := database.InitDatabase(&cfg.Database)

	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	defer pool.Close()

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to initialize redis: %v", err)
	}
	defer rdb.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Repositories
	userRepo := repository.NewUserRepository(pool)
	roomRepo := repository.NewRoomRepository(pool)
	participantRepo := repository.NewParticipantRepository(pool)
	prizeRepo := repository.NewPrizeRepository(pool)
	winnerRepo := repository.NewWinnerRepository(pool)

	// 事件隊列：提交順序即廣播順序
	eventQueue, err := queue.NewRedisStreamEventQueue(rdb, "", nil)
	if err != nil {
		log.Fatalf("Failed to initialize event queue: %v", err)
	}

	roundState := cache.NewRoundStateManager(rdb)

	// Services
	userService := service.NewUserService(userRepo)
	roomService := service.NewRoomService(pool, roomRepo, participantRepo, participantRepo)
	participantService := service.NewParticipantService(pool, participantRepo, roomRepo, participantRepo)
	prizeService := service.NewPrizeService(prizeRepo, roomRepo, participantRepo, eventQueue)
	winnerService := service.NewWinnerService(pool, winnerRepo, roomRepo, participantRepo, prizeRepo, participantRepo, eventQueue)
	roundService := service.NewRoundService(roundState, roomRepo, participantRepo, participantRepo, eventQueue)

	// 廣播：Hub 以 participantRepo 做訂閱時的成員資格驗證
	hub := realtime.NewHub(participantRepo)
	broadcastWorker := worker.NewBroadcastWorker(hub, eventQueue)
	if err := broadcastWorker.Start(ctx); err != nil {
		log.Fatalf("Failed to start broadcast worker: %v", err)
	}

	auth := handler.AuthRequired(userService)

	router := gin.Default()
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	handler.NewUserHandler(userService).RegisterRoutes(router)
	handler.NewRoomHandler(roomService, auth).RegisterRoutes(router)
	handler.NewParticipantHandler(participantService, auth).RegisterRoutes(router)
	handler.NewPrizeHandler(prizeService, auth).RegisterRoutes(router)
	handler.NewWinnerHandler(winnerService, auth).RegisterRoutes(router)
	handler.NewRoundHandler(roundService, auth).RegisterRoutes(router)
	handler.NewWSHandler(hub, roomService, auth).RegisterRoutes(router)

	router.Run(":" + cfg.Server.Port)
}
