package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/malcolmdjones/dishco-sub002/config"
	httpDelivery "github.com/malcolmdjones/dishco-sub002/internal/delivery/http"
	"github.com/malcolmdjones/dishco-sub002/internal/domain"
	"github.com/malcolmdjones/dishco-sub002/internal/infrastructure/catalog"
	"github.com/malcolmdjones/dishco-sub002/internal/infrastructure/database"
	"github.com/malcolmdjones/dishco-sub002/internal/infrastructure/kvstore"
	"github.com/malcolmdjones/dishco-sub002/internal/infrastructure/planstore"
	"github.com/malcolmdjones/dishco-sub002/internal/infrastructure/usda"
	"github.com/malcolmdjones/dishco-sub002/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting Dishco Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Storage: plans=%s kv=%s", cfg.Storage.Plans, cfg.Storage.KV)

	ctx := context.Background()

	// Initialize infrastructure dependencies
	recipes, err := loadRecipes(ctx, cfg.Catalog)
	if err != nil {
		log.Fatalf("Failed to load recipe catalog: %v", err)
	}
	recipeCatalog := catalog.NewMemory(recipes)
	log.Printf("Catalog: %d recipes from %s", len(recipes), cfg.Catalog.Source)

	var sqliteDB *sql.DB
	if cfg.Storage.Plans == "sqlite" || cfg.Storage.KV == "sqlite" {
		sqliteDB, err = database.OpenSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			log.Fatalf("Failed to open SQLite database: %v", err)
		}
		defer sqliteDB.Close()
		log.Printf("SQLite database: %s", cfg.Storage.SQLitePath)
	}

	var plans domain.PlanRepository
	switch cfg.Storage.Plans {
	case "sqlite":
		plans = planstore.NewSQL(sqliteDB)
	case "postgres":
		pool, err := database.OpenPostgres(ctx, cfg.Storage.PostgresURL)
		if err != nil {
			log.Fatalf("Failed to connect to Postgres: %v", err)
		}
		defer pool.Close()
		plans = planstore.NewPostgres(pool)
	default:
		plans = planstore.NewMemory()
	}

	var store domain.KeyValueStore
	if cfg.Storage.KV == "sqlite" {
		sqliteStore := kvstore.NewSQLite(sqliteDB)
		purgeCtx, stopPurge := context.WithCancel(ctx)
		defer stopPurge()
		go sqliteStore.RunPurger(purgeCtx, kvstore.DefaultCleanupInterval)
		store = sqliteStore
	} else {
		memoryStore := kvstore.NewMemory(time.Minute)
		defer memoryStore.Close()
		store = memoryStore
		log.Printf("WARNING: key-value store is in memory; grocery lists and meal logs are lost on restart")
	}

	// Initialize usecase layer
	aggregator := usecase.NewNutritionAggregator(usecase.NutritionAggregatorConfig{
		Tolerances:   tolerancesFromConfig(cfg.Nutrition.Tolerance),
		DefaultGoals: goalsFromConfig(cfg.Nutrition.Goals),
	})

	services := httpDelivery.Services{
		Catalog:    recipeCatalog,
		Aggregator: aggregator,
		Regenerator: usecase.NewPlanRegenerator(recipeCatalog, nil, usecase.PlanRegeneratorConfig{
			SnackCapacity: cfg.Planner.SnackCapacity,
			Delay:         cfg.Planner.RegenerateDelay,
		}),
		Plans:   usecase.NewPlanService(plans),
		Grocery: usecase.NewGroceryService(store, nil),
		MealLog: usecase.NewMealLogService(store, aggregator),
	}
	log.Printf("Planner: snack capacity=%d, delay=%s", cfg.Planner.SnackCapacity, cfg.Planner.RegenerateDelay)

	if cfg.USDA.APIKey != "" {
		usdaClient := usda.NewClientWithLimit(cfg.USDA.APIKey, cfg.USDA.BaseURL, cfg.RateLimit.USDA)

		// Enable debug mode in development environment
		if cfg.Server.Environment == "development" {
			usdaClient.SetDebug(true)
			log.Printf("USDA client debug mode enabled")
		}

		services.Foods = usecase.NewFoodSearchService(store, usdaClient, usecase.FoodSearchServiceConfig{
			CacheTTL: cfg.Cache.TTL,
		})
		log.Printf("USDA API configured: %s (cache TTL %s)", cfg.USDA.BaseURL, cfg.Cache.TTL)
	} else {
		log.Printf("WARNING: USDA API key not configured, food search is disabled")
	}

	if cfg.Auth.JWTSecret == "" {
		log.Printf("WARNING: JWT auth disabled, callers are identified by the %s header", httpDelivery.UserIDHeader)
	}

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(services)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// loadRecipes reads the catalog from the configured source
func loadRecipes(ctx context.Context, cfg config.CatalogConfig) ([]domain.Recipe, error) {
	switch cfg.Source {
	case "file":
		return catalog.LoadFile(cfg.Path)
	case "s3":
		source, err := catalog.NewS3Source(ctx, catalog.S3Config{
			Endpoint:        cfg.S3.Endpoint,
			Region:          cfg.S3.Region,
			Bucket:          cfg.S3.Bucket,
			Key:             cfg.S3.Key,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
		})
		if err != nil {
			return nil, err
		}
		loadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		return source.Load(loadCtx)
	default:
		return catalog.Seed()
	}
}

func goalsFromConfig(cfg config.GoalsConfig) domain.NutritionGoals {
	return domain.NutritionGoals{
		Calories: cfg.Calories,
		Protein:  cfg.Protein,
		Carbs:    cfg.Carbs,
		Fat:      cfg.Fat,
	}
}

func tolerancesFromConfig(cfg config.ToleranceConfig) domain.Tolerances {
	band := func(b config.BandConfig) domain.Tolerance {
		return domain.Tolerance{Above: b.Above, Below: b.Below}
	}
	return domain.Tolerances{
		Calories: band(cfg.Calories),
		Protein:  band(cfg.Protein),
		Carbs:    band(cfg.Carbs),
		Fat:      band(cfg.Fat),
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
