package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"doodlechain/internal/cache"
	"doodlechain/internal/config"
	"doodlechain/internal/game"
	"doodlechain/internal/notify"
	"doodlechain/internal/repository"
	"doodlechain/internal/service"
	"doodlechain/internal/transport/rest"
	"doodlechain/internal/transport/ws"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if os.Getenv("LOG_LEVEL") == "debug" {
		log.SetLevel(logrus.DebugLevel)
	}

	cfg := config.Load()
	ctx := context.Background()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.WithError(err).Fatal("failed to connect to MongoDB")
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.WithError(err).Fatal("failed to ping MongoDB")
	}
	log.Info("connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.WithError(err).Fatal("failed to ping Redis")
	}
	log.Info("connected to Redis")

	// WebSocket hub
	wsHub := ws.NewHub()

	// Repositories
	roomRepo := repository.NewRoomRepo(db)
	playerRepo := repository.NewPlayerRepo(db)
	submissionRepo := repository.NewSubmissionRepo(db)
	voteRepo := repository.NewVoteRepo(db)
	messageRepo := repository.NewMessageRepo(db)

	// Caches and notifications
	roomCache := cache.NewRoomCache(rdb)
	scoreCache := cache.NewScoreCache(rdb)
	notifier := notify.NewRedisNotifier(rdb)

	// Per-room controllers
	manager := game.NewManager(game.ControllerDeps{
		Rooms:        roomRepo,
		Players:      playerRepo,
		Submissions:  submissionRepo,
		Votes:        voteRepo,
		RoomCache:    roomCache,
		Notifier:     notifier,
		Broadcaster:  wsHub,
		PollInterval: cfg.PollInterval,
	})

	// Services
	authSvc := service.NewAuthService(cfg.JWTSecret)
	roomSvc := service.NewRoomService(roomRepo, playerRepo, submissionRepo, voteRepo, messageRepo, roomCache, scoreCache, notifier, manager, authSvc, cfg.CodeLength)
	playerSvc := service.NewPlayerService(roomRepo, playerRepo, roomCache, notifier, authSvc)
	submissionSvc := service.NewSubmissionService(roomRepo, playerRepo, submissionRepo, voteRepo, scoreCache, notifier, manager)
	voteSvc := service.NewVoteService(roomRepo, playerRepo, voteRepo, notifier, manager)
	resultsSvc := service.NewResultsService(roomRepo, playerRepo, submissionRepo, voteRepo, scoreCache)
	chatSvc := service.NewChatService(playerRepo, messageRepo)

	// Inject broadcaster (wsHub implements game.Broadcaster)
	roomSvc.SetBroadcaster(wsHub)
	playerSvc.SetBroadcaster(wsHub)
	submissionSvc.SetBroadcaster(wsHub)
	voteSvc.SetBroadcaster(wsHub)
	chatSvc.SetBroadcaster(wsHub)

	router := rest.NewRouter(&rest.Container{
		AuthService:       authSvc,
		RoomService:       roomSvc,
		PlayerService:     playerSvc,
		SubmissionService: submissionSvc,
		VoteService:       voteSvc,
		ResultsService:    resultsSvc,
		ChatService:       chatSvc,
		WSHub:             wsHub,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.WithField("port", cfg.HTTPPort).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("listen and serve")
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Fatal("server forced to shutdown")
	}

	manager.StopAll()
	log.Info("server exited")
}
