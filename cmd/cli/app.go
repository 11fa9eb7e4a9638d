package cli

import (
	"fmt"
	"time"

	"CivicPortal/internal/config"
	"CivicPortal/internal/database"
	"CivicPortal/internal/repository"
	"CivicPortal/internal/service"
	"CivicPortal/internal/utils/logger"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// app 各子命令共用的组件
type app struct {
	cfg    *config.Config
	logger *logrus.Logger
	loc    *time.Location
	db     *gorm.DB
	store  *service.EventStoreService
}

// bootstrap 加载配置、初始化日志、连接数据库并迁移
func bootstrap() (*app, error) {
	// 1. 加载配置文件
	cfg, err := config.LoadConfigFrom(configDir)
	if err != nil {
		return nil, fmt.Errorf("加载配置文件失败: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	// 2. 初始化日志
	log := logger.New(cfg.Log)
	log.WithField("config_dir", configDir).Info("配置文件加载成功")

	loc, err := cfg.Calendar.Location()
	if err != nil {
		return nil, err
	}

	// 3. 连接数据库（库不存在则先创建再连）
	db, err := database.Open(cfg.Database, database.ParseSQLLevel(cfg.Log.SQLLevel), log)
	if err != nil {
		return nil, err
	}

	// 4. 库表不存在则自动创建
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	log.Info("数据库表结构检查完成")

	repo := repository.NewEventRepository(db)
	return &app{
		cfg:    cfg,
		logger: log,
		loc:    loc,
		db:     db,
		store:  service.NewEventStoreService(repo, log),
	}, nil
}

func (a *app) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
