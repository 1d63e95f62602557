package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"puttpals_server/config"
	"puttpals_server/logger"
	"puttpals_server/push"
	"puttpals_server/realtime"
	"puttpals_server/routes"
	"puttpals_server/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := logger.Init(os.Getenv("DEBUG") != ""); err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Log.Infof("initializing DynamoDB client (region %s)", cfg.AWS.Region)
	dynamoClient, err := services.InitializeDynamoDBClient(ctx, cfg.AWS.Region)
	if err != nil {
		return err
	}
	dynamoService := &services.DynamoService{Client: dynamoClient, TablePrefix: cfg.AWS.TablePrefix}

	s3Client, err := services.InitializeS3Client(ctx, cfg.AWS.Region)
	if err != nil {
		return err
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	// Realtime change feed and push relay
	rtServer := realtime.NewServer()
	go func() {
		if err := rtServer.Run(); err != nil {
			logger.Log.Errorf("socket server stopped: %v", err)
		}
	}()
	defer rtServer.Close()

	hub := push.NewHub(rdb)
	go func() {
		if err := hub.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Log.Errorf("push hub stopped: %v", err)
		}
	}()
	notifier := &push.Notifier{Client: rdb}

	// Services
	authService := &services.AuthService{
		Dynamo:   dynamoService,
		Sessions: &services.RedisSessionStore{Client: rdb},
		Secret:   []byte(cfg.JWT.Secret),
		TokenTTL: cfg.JWT.Expiry,
	}
	profileService := &services.ProfileService{Dynamo: dynamoService}
	discoveryService := &services.DiscoveryService{Dynamo: dynamoService, Profiles: profileService}
	matchService := &services.MatchService{Dynamo: dynamoService, Profiles: profileService, Publisher: rtServer, Push: notifier}
	chatService := &services.ChatService{Dynamo: dynamoService, Matches: matchService, Publisher: rtServer, Push: notifier}
	equipmentService := &services.EquipmentService{Dynamo: dynamoService}
	mediaService := &services.MediaService{Client: s3Client, Bucket: cfg.AWS.S3Bucket}

	// Router
	r := mux.NewRouter()
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to PuttPals")
	}).Methods("GET")
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}).Methods("GET")
	r.HandleFunc("/privacy-policy", routes.PrivacyPolicyHandler).Methods("GET")

	routes.RegisterAuthRoutes(r, authService)
	routes.RegisterProfileRoutes(r, authService, profileService, discoveryService)
	routes.RegisterMatchRoutes(r, authService, matchService)
	routes.RegisterChatRoutes(r, authService, chatService)
	routes.RegisterEquipmentRoutes(r, authService, equipmentService)
	routes.RegisterMediaRoutes(r, authService, mediaService)
	routes.RegisterPushRoutes(r, authService, hub)
	r.PathPrefix("/socket.io/").Handler(rtServer.Handler())

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      corsHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Infof("starting server on port %s", cfg.Server.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Log.Info("shutting down")
		return srv.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}
