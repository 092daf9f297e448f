package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/utils"

	"markme_backend/internals/configs"
	database "markme_backend/internals/databases"
	scheduler "markme_backend/internals/features/users/auth/scheduler"
	helper "markme_backend/internals/helpers"
	"markme_backend/internals/helpers/ai"
	"markme_backend/internals/helpers/mailer"
	helperOSS "markme_backend/internals/helpers/oss"
	middlewares "markme_backend/internals/middlewares"
	routes "markme_backend/internals/route"
)

// endpoint berat (AI + bulk upload) boleh berjalan jauh lebih lama
func requestTimeoutFor(path string) time.Duration {
	switch {
	case strings.HasPrefix(path, "/api/attendance-sessions/process"),
		strings.HasPrefix(path, "/api/classroom-images"),
		strings.HasPrefix(path, "/api/students/bulk"):
		return 3 * time.Minute
	default:
		return 10 * time.Second
	}
}

func main() {
	configs.LoadEnv()

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
		ProxyHeader:           fiber.HeaderXForwardedFor,
		BodyLimit:             64 * 1024 * 1024, // zip foto massal
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			msg := "Internal Server Error"
			if fe, ok := err.(*fiber.Error); ok {
				code = fe.Code
				msg = fe.Message
			}
			return helper.JsonError(c, code, msg)
		},
	})

	// ⚙️ middleware dasar + performa
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())

	// 🔎 Request-ID + timing
	app.Use(func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = utils.UUID()
		}
		c.Set("X-Request-ID", id)
		c.Locals("reqid", id)
		start := time.Now()
		ctx, cancel := context.WithTimeout(c.Context(), requestTimeoutFor(c.Path()))
		defer cancel()
		c.SetUserContext(ctx)
		err := c.Next()
		dur := time.Since(start)
		log.Printf("[REQ] id=%s %s %s status=%d dur=%s", id, c.Method(), c.OriginalURL(), c.Response().StatusCode(), dur)
		return err
	})

	middlewares.SetupMiddlewares(app)

	// 🔌 DB connect + pool + warm-up
	database.ConnectDB()
	database.TunePool()
	database.WarmUpQueries()

	// ⏱ scheduler setelah DB siap
	scheduler.StartAuthCleanupScheduler(database.DB)

	// 🤝 kolaborator eksternal
	ossSvc, err := helperOSS.NewOSSServiceFromEnv(configs.GetEnv("OSS_PREFIX", "markme"))
	if err != nil {
		log.Fatalf("❌ OSS init gagal: %v", err)
	}
	mailSvc, err := mailer.NewMailerFromEnv()
	if err != nil {
		log.Fatalf("❌ Mailer init gagal: %v", err)
	}
	aiClient := ai.NewClientFromEnv()

	// ✅ Routes
	routes.SetupRoutes(app, database.DB, routes.Deps{
		OSS:    ossSvc,
		AI:     aiClient,
		Mailer: mailSvc,
	})

	// 🔒 timeout koneksi server (write longgar untuk endpoint AI)
	app.Server().ReadTimeout = 30 * time.Second
	app.Server().WriteTimeout = 210 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	go func() {
		log.Printf("✅ Listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown + tutup pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
