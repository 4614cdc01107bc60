package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-sync-api/internal/config"
	"github.com/BuzzLyutic/task-sync-api/internal/handler"
	"github.com/BuzzLyutic/task-sync-api/internal/notion"
	"github.com/BuzzLyutic/task-sync-api/internal/repo"
	"github.com/BuzzLyutic/task-sync-api/internal/service"
)

func main() {
	// Подключаем логгер
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Без БД сервер стартует, но локальные операции отвечают 500
	var (
		taskRepo    repo.TaskRepository
		projectRepo repo.ProjectRepository
		db          handler.Pinger
	)
	if cfg.DatabaseConfigured() {
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL) // Создаем новое соединение к БД
		if err != nil {
			logger.Fatal("Failed to connect to Database.", zap.Error(err))
		}
		defer pool.Close() // Запланированное закрытие соединения

		if err := pool.Ping(context.Background()); err != nil { // Пытаемся пингануть БД
			logger.Fatal("Failed to ping the Database.", zap.Error(err))
		}
		logger.Info("Successfully connected to the Database!", zap.String("schema", cfg.DBName))

		if err := repo.EnsureSchema(context.Background(), pool, cfg.DBName); err != nil {
			logger.Fatal("Failed to prepare the schema", zap.Error(err))
		}

		taskRepo = repo.NewTaskRepo(pool, cfg.DBName)
		projectRepo = repo.NewProjectRepo(pool, cfg.DBName)
		db = pool
	} else {
		logger.Warn("DATABASE_URL is not set, running without a record store")
	}

	var board service.Board
	if cfg.NotionConfigured() {
		board = notion.New(cfg.NotionToken, cfg.NotionDatabaseID, cfg.NotionTimeout, logger)
		logger.Info("Notion sync enabled", zap.String("database_id", cfg.NotionDatabaseID))
	} else {
		logger.Warn("NOTION_TOKEN or NOTION_DATABASE_ID is not set, Notion sync disabled")
	}

	syncService := service.NewSyncService(taskRepo, board, logger)
	taskService := service.NewTaskService(taskRepo, syncService, logger)
	projectService := service.NewProjectService(projectRepo, taskRepo)

	r := handler.NewRouter(cfg.APIPrefix, handler.Handlers{
		Tasks:    handler.NewTaskHandler(taskService, logger),
		Projects: handler.NewProjectHandler(projectService, logger),
		Sync:     handler.NewSyncHandler(syncService, logger),
		System:   handler.NewSystemHandler(db, cfg.NotionConfigured()),
	})

	srv := http.Server{ // Создаем сервер
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Minute, // полный sync делает много вызовов Notion
	}

	go func() { // Запуск сервера и обработка ошибок
		logger.Info("Server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Shutdown error", zap.Error(err))
	}
	logger.Info("Server stopped successfully!")
}
