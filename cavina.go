//go:build !cli
// +build !cli

package main

import (
	"html/template"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"cavina.GO/api"
	_ "cavina.GO/api/catalog"
	_ "cavina.GO/api/graphql"
	_ "cavina.GO/api/realtime"
	_ "cavina.GO/api/sales"
	_ "cavina.GO/api/stock"
	"cavina.GO/config"
	"cavina.GO/core/auth"
	_ "cavina.GO/custom"
	html "cavina.GO/html"
)

func main() {
	config.LoadEnv()
	config.LoadAppConfig()
	log := config.GetLogger()

	config.InitRedis()
	if config.RedisClient != nil {
		if err := config.RedisClient.Ping(config.RedisCtx()).Err(); err != nil {
			config.RedisClient = nil
			log.Warn("Redis configured but not reachable, reconciliation locks disabled")
		} else {
			log.Info("Redis connection successful")
		}
	} else {
		log.Info("Redis not configured, reconciliation locks disabled")
	}

	db, err := config.NewDB()
	if err != nil {
		log.WithError(err).Fatal("failed to connect to DB")
	}
	sqldb, err := db.DB()
	if err != nil {
		log.WithError(err).Fatal("failed to get DB instance")
	}
	if err := sqldb.Ping(); err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	log.Info("Database connection successful")

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.Gzip())
	e.Use(middleware.Decompress())

	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start).Milliseconds()
			c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))
			return err
		}
	})

	t := &html.Template{
		Templates: template.Must(template.ParseGlob("html/templates/*.html")),
	}
	e.Renderer = t

	apiGroup := e.Group("/api")
	apiGroup.Use(auth.Middleware(db))

	api.ApplyModules(apiGroup, db)
	api.ApplyRoutes(e, db)
	html.RegisterStockHTMLRoutes(e, db)

	port := config.AppConfig.Port
	if port == "" {
		port = "8080"
	}
	log.WithField("port", port).Info("server starting")
	e.Logger.Fatal(e.Start(":" + port))
}
