package main

import (
	"os"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"minichat/internal/core/config"
	"minichat/internal/core/database"
	"minichat/internal/core/logger"
	"minichat/internal/domain"
	"minichat/internal/identity"
	"minichat/internal/repo"
	"minichat/internal/seed"
)

// 独立的引导入口：建表 + 种默认数据后退出，适合脚本和 CI
// 哈希走同步路径，这里没有并发模型要保护
func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if err := db.AutoMigrate(&domain.User{}, &domain.Passport{}, &domain.Message{}); err != nil {
		log.Fatal("automigrate failed", zap.Error(err))
	}

	idn := identity.NewService(identity.NewHasher(cfg.Hash.Cost), log)
	users := repo.NewUserRepo(db, idn)
	messages := repo.NewMessageRepo(db, nil)

	if err := seed.EnsureDefaults(users, messages, log); err != nil {
		log.Fatal("seed failed", zap.Error(err))
	}
	log.Info("seed done")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
