package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskboard/internal/access"
	"taskboard/internal/audit"
	"taskboard/internal/config"
	"taskboard/internal/handler"
	"taskboard/internal/middleware"
	"taskboard/internal/model"
	"taskboard/internal/repository"
	"taskboard/internal/scanner"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Server struct {
	Engine  *gin.Engine
	DB      *gorm.DB
	Config  *config.Config
	Log     *slog.Logger
	scanner *scanner.Scanner
}

func Init(cfg *config.Config) (*Server, error) {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	db, err := connect(cfg, log)
	if err != nil {
		return nil, err
	}

	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	portfolioRepo := repository.NewPortfolioRepository(db)
	boardRepo := repository.NewBoardRepository(db)
	memberRepo := repository.NewBoardMemberRepository(db)
	listRepo := repository.NewListRepository(db)
	cardRepo := repository.NewCardRepository(db)
	labelRepo := repository.NewLabelRepository(db)
	priorityRepo := repository.NewPriorityRepository(db)
	checklistRepo := repository.NewChecklistRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	resolver := access.NewResolver(boardRepo, memberRepo, listRepo, cardRepo)
	recorder := audit.NewRecorder(auditRepo, log)
	base := handler.NewBase(userRepo, resolver, recorder)

	// Handlers
	authHandler := handler.NewAuthHandler(base, cfg)
	profileHandler := handler.NewProfileHandler(base, cfg)
	portfolioHandler := handler.NewPortfolioHandler(base, portfolioRepo, boardRepo)
	boardHandler := handler.NewBoardHandler(base, boardRepo, portfolioRepo)
	memberHandler := handler.NewMemberHandler(base, boardRepo, memberRepo, notificationRepo)
	listHandler := handler.NewListHandler(base, listRepo, boardRepo)
	cardHandler := handler.NewCardHandler(base, cardRepo, listRepo, boardRepo, memberRepo, notificationRepo)
	labelHandler := handler.NewLabelHandler(base, labelRepo, cardRepo, boardRepo)
	priorityHandler := handler.NewPriorityHandler(base, priorityRepo, cardRepo, boardRepo)
	checklistHandler := handler.NewChecklistHandler(base, checklistRepo, cardRepo)
	commentHandler := handler.NewCommentHandler(base, commentRepo, cardRepo, notificationRepo)
	notificationHandler := handler.NewNotificationHandler(base, notificationRepo)
	dashboardHandler := handler.NewDashboardHandler(base, cardRepo)
	adminHandler := handler.NewAdminHandler(base, auditRepo)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.Static("/uploads/avatars", cfg.AvatarDir)

	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)

	authorized := r.Group("/")
	authorized.Use(middleware.SessionAuth(cfg.JWTSecret))
	{
		authorized.POST("/logout", authHandler.Logout)
		authorized.GET("/me", authHandler.Me)
		authorized.PUT("/profile", profileHandler.Update)
		authorized.PUT("/profile/password", profileHandler.ChangePassword)
		authorized.POST("/profile/avatar", profileHandler.UploadAvatar)

		authorized.GET("/dashboard", dashboardHandler.Overview)
		authorized.GET("/dashboard/overdue", dashboardHandler.Overdue)

		authorized.POST("/portfolios", portfolioHandler.Create)
		authorized.GET("/portfolios", portfolioHandler.GetAll)
		authorized.GET("/portfolios/:id", portfolioHandler.GetByID)
		authorized.PUT("/portfolios/:id", portfolioHandler.Update)
		authorized.DELETE("/portfolios/:id", portfolioHandler.Delete)

		authorized.POST("/boards", boardHandler.Create)
		authorized.GET("/boards", boardHandler.GetAll)
		authorized.GET("/boards/:id", boardHandler.GetByID)
		authorized.PUT("/boards/:id", boardHandler.Update)
		authorized.DELETE("/boards/:id", boardHandler.Delete)

		authorized.GET("/boards/:id/members", memberHandler.List)
		authorized.POST("/boards/:id/members", memberHandler.Invite)
		authorized.PUT("/boards/:id/members/:user_id", memberHandler.UpdateRole)
		authorized.DELETE("/boards/:id/members/:user_id", memberHandler.Remove)

		authorized.POST("/boards/:id/lists", listHandler.Create)
		authorized.GET("/boards/:id/lists", listHandler.GetByBoard)
		authorized.POST("/boards/:id/lists/reorder", listHandler.Reorder)
		authorized.PUT("/lists/:id", listHandler.Update)
		authorized.DELETE("/lists/:id", listHandler.Delete)

		authorized.POST("/lists/:id/cards", cardHandler.Create)
		authorized.GET("/lists/:id/cards", cardHandler.GetByList)
		authorized.GET("/cards/:id", cardHandler.GetByID)
		authorized.PUT("/cards/:id", cardHandler.Update)
		authorized.DELETE("/cards/:id", cardHandler.Delete)
		authorized.POST("/cards/:id/move", cardHandler.Move)
		authorized.POST("/cards/:id/complete", cardHandler.Complete)
		authorized.GET("/cards/:id/members", cardHandler.Members)
		authorized.POST("/cards/:id/members/:user_id", cardHandler.AddMember)
		authorized.DELETE("/cards/:id/members/:user_id", cardHandler.RemoveMember)

		authorized.POST("/boards/:id/labels", labelHandler.Create)
		authorized.GET("/boards/:id/labels", labelHandler.GetByBoard)
		authorized.PUT("/labels/:id", labelHandler.Update)
		authorized.DELETE("/labels/:id", labelHandler.Delete)
		authorized.GET("/cards/:id/labels", labelHandler.GetByCard)
		authorized.POST("/cards/:id/labels/:label_id", labelHandler.AddToCard)
		authorized.DELETE("/cards/:id/labels/:label_id", labelHandler.RemoveFromCard)

		authorized.POST("/boards/:id/priorities", priorityHandler.Create)
		authorized.GET("/boards/:id/priorities", priorityHandler.GetByBoard)
		authorized.PUT("/priorities/:id", priorityHandler.Update)
		authorized.DELETE("/priorities/:id", priorityHandler.Delete)
		authorized.GET("/cards/:id/priority", priorityHandler.GetForCard)
		authorized.PUT("/cards/:id/priority/:priority_id", priorityHandler.SetOnCard)
		authorized.DELETE("/cards/:id/priority", priorityHandler.ClearFromCard)

		authorized.POST("/cards/:id/checklists", checklistHandler.Create)
		authorized.GET("/cards/:id/checklists", checklistHandler.GetByCard)
		authorized.PUT("/checklists/:id", checklistHandler.Update)
		authorized.DELETE("/checklists/:id", checklistHandler.Delete)
		authorized.POST("/checklists/:id/items", checklistHandler.CreateItem)
		authorized.GET("/checklists/:id/items", checklistHandler.GetItems)
		authorized.POST("/checklists/:id/items/reorder", checklistHandler.ReorderItems)
		authorized.PUT("/checklist-items/:id", checklistHandler.UpdateItem)
		authorized.DELETE("/checklist-items/:id", checklistHandler.DeleteItem)
		authorized.POST("/checklist-items/:id/members/:user_id", checklistHandler.AddItemMember)
		authorized.DELETE("/checklist-items/:id/members/:user_id", checklistHandler.RemoveItemMember)

		authorized.POST("/cards/:id/comments", commentHandler.Create)
		authorized.GET("/cards/:id/comments", commentHandler.GetByCard)
		authorized.PUT("/comments/:id", commentHandler.Update)
		authorized.DELETE("/comments/:id", commentHandler.Delete)

		authorized.GET("/notifications", notificationHandler.List)
		authorized.PUT("/notifications/:id/read", notificationHandler.MarkRead)
		authorized.DELETE("/notifications/:id", notificationHandler.Delete)

		admin := authorized.Group("/admin")
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.DELETE("/users/:id", adminHandler.DeleteUser)
			admin.GET("/audit-logs", adminHandler.ListAuditLogs)
		}
	}

	overdueScanner := scanner.New(cardRepo, notificationRepo, recorder, cfg.OverdueScanInterval, log)

	return &Server{
		Engine:  r,
		DB:      db,
		Config:  cfg,
		Log:     log,
		scanner: overdueScanner,
	}, nil
}

// connect opens the database with a bounded retry loop so the server
// survives starting before Postgres is ready.
func connect(cfg *config.Config, log *slog.Logger) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)

	var db *gorm.DB
	var err error
	for attempt := 1; attempt <= cfg.DBConnectRetries; attempt++ {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
		if err == nil {
			break
		}
		log.Warn("database connection failed", "attempt", attempt, "error", err)
		time.Sleep(cfg.DBConnectBackoff * time.Duration(attempt))
	}
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("access underlying connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

	log.Info("connected to database", "host", cfg.DBHost, "name", cfg.DBName)
	return db, nil
}

func migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return err
	}
	return db.AutoMigrate(
		&model.User{},
		&model.Portfolio{},
		&model.Board{},
		&model.BoardMember{},
		&model.List{},
		&model.Card{},
		&model.CardMember{},
		&model.Label{},
		&model.CardLabel{},
		&model.Priority{},
		&model.CardPriority{},
		&model.Checklist{},
		&model.ChecklistItem{},
		&model.ChecklistItemMember{},
		&model.Comment{},
		&model.Notification{},
		&model.AuditLog{},
	)
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	scanCtx, stopScanner := context.WithCancel(context.Background())
	go s.scanner.Run(scanCtx)

	go func() {
		s.Log.Info("server listening", "port", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.Log.Error("listen failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	s.Log.Info("shutting down")

	stopScanner()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		s.Log.Error("forced shutdown", "error", err)
		os.Exit(1)
	}

	s.Log.Info("server exited")
}
