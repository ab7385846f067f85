package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/bluepine/itam/internal/assets/handler"
	"github.com/bluepine/itam/internal/assets/repository"
	"github.com/bluepine/itam/internal/assets/service"
	"github.com/bluepine/itam/internal/assets/sse"
	"github.com/bluepine/itam/internal/config"
	"github.com/bluepine/itam/internal/middleware"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// 加载 .env 文件
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting itam service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	// 初始化数据库
	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// 建表、目录种子数据、唯一索引。唯一索引依赖目录主键，顺序不能变。
	if err := repository.Migrate(db); err != nil {
		zapLogger.Fatal("Failed to migrate tables", zap.Error(err))
	}
	if err := repository.SeedCatalogs(db); err != nil {
		zapLogger.Fatal("Failed to seed catalogs", zap.Error(err))
	}
	if err := repository.EnsureIndexes(db); err != nil {
		zapLogger.Fatal("Failed to create indexes", zap.Error(err))
	}

	// 初始化Redis（目录解析缓存）
	rdb := initRedis(cfg.Redis)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		zapLogger.Warn("Redis unavailable, catalog cache disabled", zap.Error(err))
		rdb = nil
	}

	// 仓库、服务、处理器
	repos := repository.NewRepositories(db)
	hub := sse.NewHub(zapLogger)
	services := service.NewServices(repos, db, rdb, hub)
	handlers := handler.NewHandlers(services, hub)

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建路由
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// 注册路由
	registerRoutes(router, handlers, cfg)

	// 创建HTTP服务器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 启动服务器
	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, cfg *config.Config) {
	// 健康检查
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 版本信息
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	// API v1（全部需要认证）
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(cfg.JWT.Secret))
	{
		// 履历事件推送
		v1.GET("/events", h.Event.Stream)

		devices := v1.Group("/devices")
		{
			devices.GET("", h.Device.List)
			devices.GET("/available", h.Device.ListAvailable)
			devices.GET("/code/:code", h.Device.GetByAssetCode)
			devices.GET("/:id", h.Device.Get)
			devices.GET("/:id/movements", h.Device.ListMovements)
			devices.POST("", h.Device.Create)
			devices.PUT("/:id", h.Device.Update)
			devices.PATCH("/:id/state", h.Device.UpdateState)
			devices.DELETE("/:id", h.Device.Delete)
		}

		employees := v1.Group("/employees")
		{
			employees.GET("", h.Employee.List)
			employees.GET("/code/:code", h.Employee.GetByCode)
			employees.GET("/:id", h.Employee.Get)
			employees.GET("/:id/assignments", h.Employee.ListAssignments)
			employees.POST("", h.Employee.Create)
			employees.PUT("/:id", h.Employee.Update)
			employees.POST("/:id/terminate", h.Employee.Terminate)
		}

		assignments := v1.Group("/assignments")
		{
			assignments.GET("", h.Assignment.List)
			assignments.GET("/active", h.Assignment.ListActive)
			assignments.GET("/device/:id", h.Assignment.ListByDevice)
			assignments.GET("/:id", h.Assignment.Get)
			assignments.POST("", h.Assignment.Assign)
			assignments.POST("/:id/return", h.Assignment.Return)
			assignments.POST("/:id/cancel", h.Assignment.Cancel)
		}

		replacements := v1.Group("/replacements")
		{
			replacements.GET("", h.Replacement.List)
			replacements.GET("/pending", h.Replacement.ListPending)
			replacements.GET("/employee/:id", h.Replacement.ListByEmployee)
			replacements.GET("/:id", h.Replacement.Get)
			replacements.POST("", h.Replacement.Create)
			replacements.POST("/:id/execute", h.Replacement.Execute)
			replacements.POST("/:id/cancel", h.Replacement.Cancel)
		}

		returns := v1.Group("/returns")
		{
			returns.GET("", h.Return.List)
			returns.GET("/overdue", h.Return.ListOverdue)
			returns.GET("/employee/:id", h.Return.ListByEmployee)
			returns.GET("/:id", h.Return.Get)
			returns.POST("", h.Return.Create)
			returns.PUT("/:id", h.Return.Update)
			returns.POST("/:id/items", h.Return.AddItem)
			returns.PUT("/items/:itemId", h.Return.UpdateItem)
			returns.DELETE("/items/:itemId", h.Return.RemoveItem)
			returns.POST("/:id/complete", h.Return.Complete)
			returns.POST("/:id/cancel", h.Return.Cancel)
		}

		catalogs := v1.Group("/catalogs")
		{
			catalogs.GET("/device-states", h.Catalog.ListDeviceStates)
			catalogs.GET("/return-conditions", h.Catalog.ListReturnConditions)
			catalogs.GET("/replacement-reasons", h.Catalog.ListReplacementReasons)
			catalogs.GET("/brands", h.Catalog.ListBrands)
			catalogs.GET("/device-types", h.Catalog.ListDeviceTypes)
			catalogs.POST("/brands", middleware.RequireRole("itam_admin"), h.Catalog.CreateBrand)
			catalogs.POST("/device-types", middleware.RequireRole("itam_admin"), h.Catalog.CreateDeviceType)
			catalogs.PUT("/brands/:id", middleware.RequireRole("itam_admin"), h.Catalog.UpdateBrand)
			catalogs.PUT("/device-types/:id", middleware.RequireRole("itam_admin"), h.Catalog.UpdateDeviceType)
			catalogs.DELETE("/brands/:id", middleware.RequireRole("itam_admin"), h.Catalog.DeactivateBrand)
			catalogs.DELETE("/device-types/:id", middleware.RequireRole("itam_admin"), h.Catalog.DeactivateDeviceType)
		}
	}
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}
