package database

import (
	"fmt"
	"log"
	"net/url"
	"time"

	"spendwatch/config"
	"spendwatch/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open 按配置打开数据库连接并完成表结构迁移
func Open(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(dialector(cfg.Database, cfg.Budget.Location), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel(cfg.Database.LogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// 设置连接池参数
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("数据库初始化成功")
	return db, nil
}

// Migrate 自动迁移数据库表
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Transaction{},
		&models.Budget{},
		&models.Bill{},
		&models.Notification{},
	); err != nil {
		return fmt.Errorf("迁移数据库表失败: %w", err)
	}
	return nil
}

// Close 关闭底层连接池
func Close(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func dialector(c config.DatabaseConfig, loc *time.Location) gorm.Dialector {
	if c.Driver == "postgres" {
		return postgres.Open(dsn(c, loc))
	}
	return mysql.Open(dsn(c, loc))
}

// dsn 连接串的时区与预算时区一致，DATE 列按同一时区读写
func dsn(c config.DatabaseConfig, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	switch c.Driver {
	case "postgres":
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
			c.Host, c.Port, c.Username, c.Password, c.DBName, c.SSLMode, loc.String())
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=%s",
			c.Username, c.Password, c.Host, c.Port, c.DBName, c.Charset, url.QueryEscape(loc.String()))
	}
}

func logLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
