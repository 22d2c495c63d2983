package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agenda_backend/internal/config"
	"agenda_backend/internal/database"
	"agenda_backend/internal/localstore"
	"agenda_backend/internal/repositories"
	"agenda_backend/internal/router"
	"agenda_backend/internal/services"
	"agenda_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load(utils.Getenv("ENV_FILE", ".env"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	utils.InitLogger(cfg.LogLevel, !cfg.IsProduction())

	local, closeLocal, err := openLocalStore(cfg)
	if err != nil {
		utils.LogError(err, "Failed to open local store")
		os.Exit(1)
	}
	defer closeLocal()

	serviceRepo, apptRepo, closeStore, err := openStore(cfg, local)
	if err != nil {
		utils.LogError(err, "Failed to open store", map[string]interface{}{"backend": cfg.StoreBackend})
		os.Exit(1)
	}
	defer closeStore()

	agenda, signer, err := buildAgenda(cfg, serviceRepo, apptRepo, local)
	if err != nil {
		utils.LogError(err, "Failed to build agenda")
		os.Exit(1)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(utils.GinLogger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.AllowCredentials = true
	engine.Use(cors.New(corsConfig))

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.Setup(engine, agenda, signer)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		utils.LogInfo("Server starting", map[string]interface{}{"port": cfg.Port, "store": cfg.StoreBackend})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.LogError(err, "Failed to start server")
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.LogError(err, "Server shutdown failed")
	}
	utils.LogInfo("Server stopped")
}

// openLocalStore opens the key/value backend behind the local store. Keys are
// namespaced by LOCAL_NAMESPACE and then by operator.
func openLocalStore(cfg *config.Config) (*localstore.Store, func(), error) {
	var (
		backend localstore.Backend
		closeFn = func() {}
	)
	switch cfg.LocalBackend {
	case config.LocalRedis:
		rdb := localstore.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx); err != nil {
			rdb.Close()
			return nil, nil, fmt.Errorf("redis %s: %w", cfg.Redis.Addr, err)
		}
		backend = rdb
		closeFn = func() { _ = rdb.Close() }
	case config.LocalMemory:
		backend = localstore.NewMemory()
	default:
		fb, err := localstore.NewFile(cfg.LocalDir)
		if err != nil {
			return nil, nil, err
		}
		backend = fb
	}
	store := localstore.New(backend, cfg.LocalNamespace).WithNamespace(cfg.Operator.Username)
	utils.LogInfo("Local store ready", map[string]interface{}{"backend": cfg.LocalBackend, "prefix": store.Key("")})
	return store, closeFn, nil
}

// openStore selects the remote store adapter.
func openStore(cfg *config.Config, local *localstore.Store) (repositories.ServiceRepository, repositories.AppointmentRepository, func(), error) {
	switch cfg.StoreBackend {
	case config.StorePostgres:
		db, err := database.Open(cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.SSLMode)
		if err != nil {
			return nil, nil, nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := database.ApplySchema(ctx, db, cfg.DB.SchemaPath); err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		return repositories.NewServiceRepository(db), repositories.NewAppointmentRepository(db), func() { _ = db.Close() }, nil
	case config.StoreLocal:
		repo := repositories.NewLocalRepository(local)
		return repo, repo, func() {}, nil
	default:
		client, err := database.NewSupabaseClient(cfg.SupabaseURL, cfg.SupabaseAnonKey)
		if err != nil {
			return nil, nil, nil, err
		}
		return repositories.NewSupabaseServiceRepository(client), repositories.NewSupabaseAppointmentRepository(client), func() {}, nil
	}
}

func buildAgenda(cfg *config.Config, serviceRepo repositories.ServiceRepository, apptRepo repositories.AppointmentRepository, local *localstore.Store) (services.AgendaService, *utils.SessionSigner, error) {
	verifier, err := services.NewStaticVerifier(cfg.Operator.Name, cfg.Operator.Username, cfg.Operator.Password, cfg.Operator.PasswordHash)
	if err != nil {
		return nil, nil, err
	}
	policy, err := services.ParseAttendancePolicy(cfg.AttendancePolicy)
	if err != nil {
		return nil, nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}
	signer, err := utils.NewSessionSigner(cfg.SessionSecret)
	if err != nil {
		return nil, nil, err
	}
	if previous := local.LoadUser(); previous != nil {
		utils.LogInfo("Previous session was not closed", map[string]interface{}{"user": previous.Name})
	}

	agenda := services.NewAgendaService(services.NewAuthService(verifier), serviceRepo, apptRepo, services.AgendaConfig{
		AttendancePolicy: policy,
		Location:         loc,
		UserStore:        local,
	})
	return agenda, signer, nil
}
