package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"pokerleague/internal/auth"
	"pokerleague/internal/cache"
	"pokerleague/internal/config"
	cronrunner "pokerleague/internal/cron"
	"pokerleague/internal/db"
	"pokerleague/internal/handler"
	"pokerleague/internal/logger"
	gormrepository "pokerleague/internal/repository/gorm"
	"pokerleague/internal/service"

	_ "pokerleague/docs"
)

func main() {
	issueToken := flag.String("issue-token", "", "print an admin bearer token for the given subject and exit")
	tokenTTL := flag.Duration("token-ttl", 24*time.Hour, "lifetime of the issued token")
	flag.Parse()

	_ = godotenv.Load()

	cfgPath := os.Getenv("LG_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("LG_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	verifier := newVerifier(cfg.Auth)
	if *issueToken != "" {
		if verifier == nil {
			fmt.Fprintln(os.Stderr, "auth is disabled or auth.jwt_secret is empty")
			os.Exit(1)
		}
		tok, err := verifier.Sign(*issueToken, auth.RoleAdmin, *tokenTTL)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(tok)
		return
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		log.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		log.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		log.Fatal("auto-migrate failed", zap.Error(err))
	}

	location, err := time.LoadLocation(cfg.Membership.Timezone)
	if err != nil {
		log.Warn("invalid membership timezone, using UTC", zap.String("timezone", cfg.Membership.Timezone), zap.Error(err))
		location = time.UTC
	}

	store := gormrepository.New(dbConn.Gorm)
	derived := cache.New(cfg.Redis)
	cacheTTL := cfg.Jackpot.CacheTTL
	if cfg.Redis.TTL > 0 {
		cacheTTL = cfg.Redis.TTL
	}

	settingsSvc := &service.SystemSettingsService{Repo: store}
	if err := settingsSvc.EnsureDefaultSwitches(context.Background()); err != nil {
		log.Warn("init default system switches failed", zap.Error(err))
	}
	jackpotSvc := &service.JackpotService{
		Repo:        store,
		Cache:       derived,
		Settings:    settingsSvc,
		Logger:      logger.Component(log, "jackpot"),
		SettleDelay: cfg.Jackpot.SettleDelay,
		CacheTTL:    cacheTTL,
	}
	membershipSvc := &service.MembershipService{
		Repo:     store,
		Logger:   logger.Component(log, "membership"),
		Location: location,
	}
	gameSvc := &service.GameService{
		Repo:       store,
		Jackpot:    jackpotSvc,
		Membership: membershipSvc,
		Settings:   settingsSvc,
		Logger:     logger.Component(log, "game"),
	}
	seasonSvc := &service.SeasonService{
		Repo:    store,
		Jackpot: jackpotSvc,
		Logger:  logger.Component(log, "season"),
	}
	playerSvc := &service.PlayerService{Repo: store}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	guard := auth.RequireAdmin(verifier)
	if verifier == nil {
		log.Warn("write routes are not protected", zap.Bool("auth_disabled", cfg.Auth.Disabled))
	}

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	if rs, ok := derived.(*cache.RedisStore); ok {
		healthHandler.Cache = rs
		defer rs.Close()
	}
	healthHandler.Register(engine)

	seasonHandler := &handler.SeasonHandler{Seasons: seasonSvc, Games: gameSvc, Jackpot: jackpotSvc, Guard: guard}
	seasonHandler.Register(engine)
	gameHandler := &handler.GameHandler{Games: gameSvc, Jackpot: jackpotSvc, Membership: membershipSvc, Guard: guard}
	gameHandler.Register(engine)
	playerHandler := &handler.PlayerHandler{Players: playerSvc, Membership: membershipSvc, Guard: guard}
	playerHandler.Register(engine)
	settingsHandler := &handler.SystemSettingsHandler{Settings: settingsSvc, Guard: guard}
	settingsHandler.Register(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cronRunner := cronrunner.New(logger.Component(log, "cron"), ctx)
	if cfg.Cron.Enabled && cfg.Cron.JackpotReconcile != "" {
		_, err = cronRunner.Add("jackpot_reconcile", cfg.Cron.JackpotReconcile, jackpotSvc.ReconcileActiveSeasons)
		if err != nil {
			log.Fatal("cron add jackpot reconcile failed", zap.Error(err))
		}
	}
	if cronRunner.Entries() > 0 {
		cronRunner.Start()
		defer cronRunner.Stop()
	}

	errCh := make(chan error, 1)

	go func() {
		log.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
	case err := <-errCh:
		log.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

// newVerifier returns nil when write routes should stay open.
func newVerifier(cfg config.AuthConfig) *auth.Verifier {
	secret := strings.TrimSpace(cfg.JWTSecret)
	if cfg.Disabled || secret == "" {
		return nil
	}
	return &auth.Verifier{Secret: []byte(secret), Issuer: cfg.Issuer}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
