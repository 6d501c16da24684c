package catalog

import (
	"context"
	"fmt"

	"github.com/example/freshcart/pkg/config"
	"github.com/example/freshcart/pkg/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// GormSource reads shops, products and banners from a SQL database. Users and
// order history always come from the built-in seed.
type GormSource struct {
	db *gorm.DB
}

func OpenMySQL(cfg *config.MySQLConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	return db, nil
}

func NewGormSource(db *gorm.DB) *GormSource {
	return &GormSource{db: db}
}

func (s *GormSource) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&models.Shop{}, &models.Product{}, &models.Banner{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// SeedIfEmpty writes the given reference data when the shops table is empty.
func (s *GormSource) SeedIfEmpty(ctx context.Context, data Data) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Shop{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count shops: %w", err)
	}
	if count > 0 {
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(data.Shops) > 0 {
			if err := tx.Create(&data.Shops).Error; err != nil {
				return fmt.Errorf("failed to seed shops: %w", err)
			}
		}
		if len(data.Products) > 0 {
			if err := tx.Create(&data.Products).Error; err != nil {
				return fmt.Errorf("failed to seed products: %w", err)
			}
		}
		if len(data.Banners) > 0 {
			if err := tx.Create(&data.Banners).Error; err != nil {
				return fmt.Errorf("failed to seed banners: %w", err)
			}
		}
		return nil
	})
}

// Load replaces the shops, products and banners of base with the database
// contents.
func (s *GormSource) Load(ctx context.Context, base Data) (Data, error) {
	db := s.db.WithContext(ctx)

	var shops []models.Shop
	if err := db.Order("id").Find(&shops).Error; err != nil {
		return Data{}, fmt.Errorf("failed to load shops: %w", err)
	}

	var products []models.Product
	if err := db.Order("shop_id, id").Find(&products).Error; err != nil {
		return Data{}, fmt.Errorf("failed to load products: %w", err)
	}

	var banners []models.Banner
	if err := db.Order("id").Find(&banners).Error; err != nil {
		return Data{}, fmt.Errorf("failed to load banners: %w", err)
	}

	base.Shops = shops
	base.Products = products
	base.Banners = banners
	return base, nil
}
