package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/kenzyo3030/cafe/internal/handlers"
	"github.com/kenzyo3030/cafe/internal/middleware"
	"github.com/kenzyo3030/cafe/internal/models"
	"github.com/kenzyo3030/cafe/internal/objstore"
	"github.com/kenzyo3030/cafe/internal/repositories"
	"github.com/kenzyo3030/cafe/internal/services"
	"github.com/kenzyo3030/cafe/internal/store"
	"github.com/kenzyo3030/cafe/pkg/events"

	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_DSN", "") // empty: local SQLite catalog
	viper.SetDefault("CATALOG_DB_PATH", "cafe.db")
	viper.SetDefault("LOCAL_DB_PATH", "local.db")
	viper.SetDefault("UPLOAD_DIR", "uploads")
	viper.SetDefault("PUBLIC_BASE_URL", "http://localhost:8080")
	viper.SetDefault("JWT_SECRET", "change-me")
	viper.SetDefault("WHATSAPP_PHONE", "6282121989177")
	viper.SetDefault("STOREFRONT_URL", "http://localhost:8080")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("ADMIN_EMAIL", "")
	viper.SetDefault("ADMIN_PASSWORD", "")
	viper.AutomaticEnv() // Load environment variables

	appPort := viper.GetString("APP_PORT")

	// --- Catalog Database ---
	// The catalog and admin accounts live in the hosted store
	// (PostgreSQL); without a DSN a local SQLite file stands in.
	var dialector gorm.Dialector
	if dsn := viper.GetString("DATABASE_DSN"); dsn != "" {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(viper.GetString("CATALOG_DB_PATH"))
	}
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to catalog database: %v", err)
	}
	if err := db.AutoMigrate(&models.MenuItem{}, &models.Admin{}); err != nil {
		log.Fatalf("Failed to migrate catalog database: %v", err)
	}

	// --- Local Mirror ---
	// Cart and order-log state is shadowed into a local SQLite file
	// so a restart resumes in-progress carts and keeps the history.
	localDB, err := gorm.Open(sqlite.Open(viper.GetString("LOCAL_DB_PATH")), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to open local mirror database: %v", err)
	}
	kv, err := store.NewGORMKV(localDB)
	if err != nil {
		log.Fatalf("Failed to initialize local mirror: %v", err)
	}

	// --- Image Object Store ---
	images, err := objstore.NewDiskStore(viper.GetString("UPLOAD_DIR"), viper.GetString("PUBLIC_BASE_URL"))
	if err != nil {
		log.Fatalf("Failed to initialize image store: %v", err)
	}

	// --- Order Events (optional) ---
	var publisher services.OrderPublisher
	if mqURL := viper.GetString("RABBITMQ_URL"); mqURL != "" {
		mqClient, err := events.NewClient(events.Config{URL: mqURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close() // Ensure the connection is closed on exit
		publisher = mqClient

		// Kitchen-display consumer: tails the orders queue and logs
		// each checkout as it is published.
		go func() {
			log.Println("Starting order events consumer...")
			if consumerErr := mqClient.ConsumeOrderEvents(events.LogOrderEvent); consumerErr != nil {
				log.Printf("Failed to start order events consumer: %v", consumerErr)
			}
		}()
	}

	// --- Initialize Repositories ---
	menuRepo := repositories.NewGORMMenuItemRepository(db)
	adminRepo := repositories.NewGORMAdminRepository(db)

	// --- Initialize Services ---
	catalogService := services.NewCatalogService(menuRepo, images)
	cartService := services.NewCartService(kv, publisher, viper.GetString("WHATSAPP_PHONE"))
	authService := services.NewAuthService(adminRepo, viper.GetString("JWT_SECRET"))

	// Seed the admin account from config when it does not exist yet.
	seedAdmin(authService, viper.GetString("ADMIN_EMAIL"), viper.GetString("ADMIN_PASSWORD"))

	// --- Initialize Handlers ---
	menuHandler := handlers.NewMenuHandler(catalogService)
	cartHandler := handlers.NewCartHandler(cartService, catalogService)
	orderHandler := handlers.NewOrderHandler(cartService, catalogService)
	authHandler := handlers.NewAuthHandler(authService)
	qrHandler := handlers.NewQRHandler(viper.GetString("STOREFRONT_URL"))

	// --- Initialize Fiber App ---
	app := fiber.New()

	// --- Middleware ---
	app.Use(logger.New()) // Request logger

	// Uploaded menu images are public
	app.Static("/uploads", images.Dir())

	// --- API Routes ---
	apiV1 := app.Group("/api/v1")

	// Public storefront routes
	authHandler.RegisterRoutes(apiV1)
	menuHandler.RegisterPublicRoutes(apiV1)
	cartHandler.RegisterRoutes(apiV1)
	qrHandler.RegisterRoutes(apiV1)

	// Admin routes behind the session gate
	adminRoutes := apiV1.Group("/admin", middleware.AuthRequired(authService))
	menuHandler.RegisterAdminRoutes(adminRoutes)
	orderHandler.RegisterRoutes(adminRoutes)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}

// seedAdmin creates the configured staff account if it is missing.
func seedAdmin(authService *services.AuthService, email, password string) {
	if email == "" || password == "" {
		log.Println("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed")
		return
	}
	admin := &models.Admin{Email: email, Password: password}
	if err := authService.RegisterAdmin(admin); err != nil {
		log.Printf("Admin seed: %v", err)
	} else {
		log.Printf("Seeded admin account: %s", email)
	}
}
