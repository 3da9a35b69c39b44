package config

import (
	"os"
	"strconv"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"food-marketplace-api/models"
	"food-marketplace-api/pricing"
)

var DB *gorm.DB

// Pricing is the quote/eligibility engine, built once at boot from env
// configuration and injected everywhere orders are priced.
var Pricing *pricing.Engine

// JWTSecret signs access tokens — read from env or fallback for dev.
var JWTSecret = []byte(getEnv("JWT_SECRET", "food_marketplace_super_secret_2024"))

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		logrus.WithField("key", key).Warn("ignoring non-numeric env value")
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		logrus.WithField("key", key).Warn("ignoring non-numeric env value")
	}
	return fallback
}

// LoadPricing builds the pricing configuration from the environment. The
// resulting struct is injected into the engine; nothing in pricing reads
// env vars itself.
func LoadPricing() pricing.Config {
	return pricing.Config{
		ServiceFeeRate:   getEnvFloat("SERVICE_FEE_RATE", 0.10),
		DeliveryBaseFee:  getEnvFloat("DELIVERY_BASE_FEE", 2.00),
		DeliveryPerKMFee: getEnvFloat("DELIVERY_PER_KM_FEE", 0.60),
		BikeMaxKM:        getEnvFloat("BIKE_MAX_KM", 8),
		CarMaxKM:         getEnvFloat("CAR_MAX_KM", 15),
		PayPerKM:         getEnvFloat("PAY_PER_KM", 0.15),
		BonusEveryN:      getEnvInt("BONUS_EVERY_N_ORDERS", 25),
		BonusAmount:      getEnvFloat("BONUS_AMOUNT", 25.00),
	}
}

// InitPricing constructs the pricing engine from the environment.
func InitPricing() {
	Pricing = pricing.NewEngine(LoadPricing())
}

// InitDB opens the database, migrates the schema and seeds the role catalog.
func InitDB() {
	var err error
	DB, err = gorm.Open(sqlite.Open(getEnv("DATABASE_PATH", "food_marketplace.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.RoleAssignment{},
		&models.City{},
		&models.Restaurant{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusHistory{},
		&models.Driver{},
		&models.Delivery{},
	)
	if err != nil {
		logrus.WithError(err).Fatal("failed to migrate database")
	}

	SeedRoles(DB)

	logrus.Info("database connected and migrated")
}

// SeedRoles installs the built-in role catalog. Existing codes are left
// untouched so re-running the seed is safe.
func SeedRoles(db *gorm.DB) {
	for _, r := range models.SeedRoles {
		var existing models.Role
		if err := db.Where("code = ?", r.Code).First(&existing).Error; err == nil {
			continue
		}
		r.IsActive = true
		if err := db.Create(&r).Error; err != nil {
			logrus.WithError(err).WithField("role", r.Code).Error("failed to seed role")
		}
	}
}
