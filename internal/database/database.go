package database

import (
	"log"

	"github.com/vybraa/vybraa-api-v1/config"
	"github.com/vybraa/vybraa-api-v1/internal/domain"
	"github.com/vybraa/vybraa-api-v1/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error), // Only log errors, not every SQL query
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.CelebrityProfile{},
		&models.Wallet{},
		&models.Request{},
		&models.Transaction{},
		&models.WalletEarningsHistory{},
		&models.ConfigSetting{},
		&models.ExchangeRate{},
		&models.Notification{},
	)
}

// SeedDefaults creates the rows the settlement pipeline cannot run
// without: the platform super-admin wallet, the fee configuration and a
// starter set of exchange rates. Safe to call on every boot.
func SeedDefaults(db *gorm.DB, adminEmail, adminPassword string) error {
	if err := seedSuperAdmin(db, adminEmail, adminPassword); err != nil {
		return err
	}
	if err := seedConfigSettings(db); err != nil {
		return err
	}
	return seedExchangeRates(db)
}

func seedSuperAdmin(db *gorm.DB, email, password string) error {
	var count int64
	if err := db.Model(&models.Wallet{}).Where("is_super_admin = ?", true).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    "Vybraa",
		LastName:     "Admin",
		Role:         domain.RoleAdmin,
		IsVerified:   true,
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ?", email).FirstOrCreate(&admin, admin).Error; err != nil {
			return err
		}
		wallet := models.Wallet{
			UserID:        &admin.ID,
			WalletBalance: decimal.Zero,
			Currency:      "USD",
			IsSuperAdmin:  true,
		}
		if err := tx.Create(&wallet).Error; err != nil {
			return err
		}
		log.Printf("[Database] seeded super-admin wallet id=%d", wallet.ID)
		return nil
	})
}

func seedConfigSettings(db *gorm.DB) error {
	defaults := []models.ConfigSetting{
		{
			Name:            "Request Fee Charge",
			Description:     "Platform cut taken from each released request payment",
			Slug:            "request_fee_charge",
			Value:           "10",
			CalculationType: domain.CalculationTypePercentage,
		},
		{
			Name:            "Withdrawal Fee Charge",
			Description:     "Platform cut taken from wallet withdrawals",
			Slug:            "withdrawal_fee_charge",
			Value:           "5",
			CalculationType: domain.CalculationTypePercentage,
		},
	}
	for i := range defaults {
		var existing models.ConfigSetting
		err := db.Where("slug = ?", defaults[i].Slug).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := db.Create(&defaults[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedExchangeRates(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.ExchangeRate{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	rates := []models.ExchangeRate{
		{FromCurrency: "USD", ToCurrency: "NGN", Rate: decimal.NewFromInt(1500), IsActive: true},
		{FromCurrency: "USD", ToCurrency: "GHS", Rate: decimal.NewFromInt(15), IsActive: true},
		{FromCurrency: "USD", ToCurrency: "KES", Rate: decimal.NewFromInt(129), IsActive: true},
	}
	return db.Create(&rates).Error
}
