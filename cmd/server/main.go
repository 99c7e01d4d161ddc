package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/emirhankose/dizifilm-api/internal/config"
	"github.com/emirhankose/dizifilm-api/internal/database"
	"github.com/emirhankose/dizifilm-api/internal/handler"
	"github.com/emirhankose/dizifilm-api/internal/middleware"
	"github.com/emirhankose/dizifilm-api/internal/queue"
	"github.com/emirhankose/dizifilm-api/internal/repository"
	"github.com/emirhankose/dizifilm-api/internal/router"
)

func main() {
	// .env is a development convenience; in production the variables
	// come from the environment and the file is simply absent.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database open: %v", err)
	}
	defer db.Close()

	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.Migrate(migrateCtx, db); err != nil {
		log.Fatalf("database migrate: %v", err)
	}

	// Redis backs the response cache and the rate limiter.  Both fail
	// open, so a missing Redis only disables them.
	rdb := config.NewRedisClient()
	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()

	films := repository.NewFilmRepo(db)
	series := repository.NewSeriesRepo(db)
	genres := repository.NewGenreRepo(db)
	actors := repository.NewActorRepo(db)
	directors := repository.NewDirectorRepo(db)
	users := repository.NewUserRepo(db)
	ratings := repository.NewRatingRepo(db)
	lists := repository.NewListRepo(db)

	h := router.Handlers{
		Auth:      handler.NewAuthHandler(cfg, users),
		Films:     handler.NewFilmHandler(films, ratings, users),
		Series:    handler.NewSeriesHandler(series, ratings, users),
		Genres:    handler.NewGenreHandler(genres, films, series),
		Actors:    handler.NewActorHandler(actors, films, series),
		Directors: handler.NewDirectorHandler(directors, films, series),
		Lists:     handler.NewListHandler(lists),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.NewTokenBucket(rlCfg, rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, h.Auth, cfg.JWTSecret)
	router.RegisterCatalog(e, h, cfg.JWTSecret, middleware.NewRedisCache(cacheCfg, rdb))

	// Background consumer that turns rating.submitted events into log
	// lines.  It reconnects on its own and never brings the server down.
	go func() {
		if err := queue.StartRatingConsumer(); err != nil {
			log.Printf("rating consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
