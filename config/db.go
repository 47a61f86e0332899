package config

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"hotel-pricing/models"

	"github.com/cenkalti/backoff/v4"
	mysqldriver "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

// ResolveMySQLDSN builds the DSN from MYSQL_URL / DATABASE_URL or the DB_*
// parts and validates it with the driver's parser. It returns the DSN and
// the database name.
func ResolveMySQLDSN(cfg *Config) (string, string, error) {
	raw := strings.TrimSpace(cfg.MySQLURL)
	if raw == "" {
		raw = strings.TrimSpace(cfg.DatabaseURL)
	}

	var dsn string
	switch {
	case strings.HasPrefix(raw, "mysql://"):
		d, err := mysqlDSNFromURL(raw)
		if err != nil {
			return "", "", err
		}
		dsn = d
	case raw != "":
		dsn = raw
	default:
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName,
		)
	}

	parsed, err := mysqldriver.ParseDSN(dsn)
	if err != nil {
		return "", "", fmt.Errorf("invalid mysql dsn: %w", err)
	}
	return dsn, parsed.DBName, nil
}

// ConnectDatabase opens MySQL, retrying with exponential backoff until
// cfg.DBConnectTimeout elapses, then migrates and (optionally) seeds.
func ConnectDatabase(ctx context.Context, cfg *Config, zl *zap.Logger) (*gorm.DB, error) {
	dsn, dbName, err := ResolveMySQLDSN(cfg)
	if err != nil {
		return nil, err
	}

	level := logger.Warn
	if cfg.IsDevelopment() {
		level = logger.Info
	}
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      level,
			Colorful:      cfg.IsDevelopment(),
		},
	)

	retryPolicy := backoff.NewExponentialBackOff()
	retryPolicy.MaxElapsedTime = cfg.DBConnectTimeout
	retryPolicy.MaxInterval = 15 * time.Second

	zl.Info("Connecting to MySQL...", zap.String("database", dbName))

	var db *gorm.DB
	err = backoff.RetryNotify(
		func() error {
			conn, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: gormLogger})
			if err != nil {
				return fmt.Errorf("open: %w", err)
			}
			sqlDB, err := conn.DB()
			if err != nil {
				return backoff.Permanent(fmt.Errorf("raw sql.DB: %w", err))
			}
			if err := sqlDB.PingContext(ctx); err != nil {
				return fmt.Errorf("ping: %w", err)
			}
			db = conn
			return nil
		},
		backoff.WithContext(retryPolicy, ctx),
		func(err error, next time.Duration) {
			zl.Warn("MySQL connection failed, retrying...",
				zap.Error(err),
				zap.Duration("next_attempt_in", next))
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect after retries: %w", err)
	}

	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	if cfg.DBSeed {
		SeedDatabase(db, zl)
	}
	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Property{},
		&models.RoomType{},
		&models.AddOnService{},
		&models.SelectionState{},
	)
}

func intPtr(v int) *int { return &v }

// SeedDatabase fills an empty catalog with a demo property, room types and
// services. Tables that already have rows are left alone.
func SeedDatabase(db *gorm.DB, zl *zap.Logger) {
	// ---------------- Property ----------------
	var propertyCount int64
	db.Model(&models.Property{}).Count(&propertyCount)
	if propertyCount == 0 {
		vat := 7.0
		links, _ := json.Marshal(map[string]string{
			"facebook":  "https://facebook.com/",
			"instagram": "https://instagram.com/",
		})
		property := models.Property{
			Name:            "Demo Hotel",
			HotelStarRating: 4,
			SocialLinks:     datatypes.JSON(links),
			CheckInTime:     "14:00",
			CheckOutTime:    "12:00",
			VATPercentage:   &vat,
		}
		if err := db.Create(&property).Error; err != nil {
			zl.Warn("failed to seed property", zap.Error(err))
		} else {
			zl.Info("Property seeded")
		}
	}

	// ---------------- RoomTypes ----------------
	var rtCount int64
	db.Model(&models.RoomType{}).Count(&rtCount)
	if rtCount == 0 {
		roomTypes := []models.RoomType{
			{TypeName: "Standard", Description: "Standard Room", BaseRate: 1200, MaxAdults: 2, MaxChildren: 0},
			{TypeName: "Superior", Description: "Superior Room", BaseRate: 1800, MaxAdults: 2, MaxChildren: 1},
			{TypeName: "Deluxe", Description: "Deluxe Room", BaseRate: 2500, MaxAdults: 3, MaxChildren: 1, MaxTotal: intPtr(4)},
			{TypeName: "Connecting", Description: "Connecting Room", BaseRate: 3900, MaxAdults: 4, MaxChildren: 2, MaxTotal: intPtr(5)},
		}
		if err := db.Create(&roomTypes).Error; err != nil {
			zl.Warn("failed to seed room types", zap.Error(err))
		} else {
			zl.Info("RoomTypes seeded")
		}
	}

	// ---------------- Services ----------------
	var svcCount int64
	db.Model(&models.AddOnService{}).Count(&svcCount)
	if svcCount == 0 {
		transfer, _ := json.Marshal([]string{"sedan", "van"})
		addOns := []models.AddOnService{
			{Category: "dining", Name: "Breakfast", Price: 350, VAT: 7},
			{Category: "transport", Name: "Airport transfer", Price: 900, VAT: 7, Transportation: datatypes.JSON(transfer)},
		}
		if err := db.Create(&addOns).Error; err != nil {
			zl.Warn("failed to seed services", zap.Error(err))
		} else {
			zl.Info("Services seeded")
		}
	}
}
