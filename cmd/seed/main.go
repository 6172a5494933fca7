package main

import (
	"github.com/tadka-store/internal/config"
	"github.com/tadka-store/internal/logger"
	"github.com/tadka-store/internal/models"

	"github.com/shopspring/decimal"
)

type menuSeed struct {
	Category    string
	Name        string
	Description string
	Price       string
	GSTRate     string
}

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, cfg.Database.LogLevel); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加分类
	categories := []models.Category{
		{Name: "Starters", Slug: "starters", SortOrder: 30},
		{Name: "Mains", Slug: "mains", SortOrder: 20},
		{Name: "Breads", Slug: "breads", SortOrder: 10},
		{Name: "Beverages", Slug: "beverages", SortOrder: 0},
	}

	categoryIDs := map[string]uint{}
	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("slug = ?", cat.Slug).First(&existing).Error; err != nil {
			// 不存在则创建
			if err := models.DB.Create(&cat).Error; err != nil {
				stdLog.Printf("Failed to create category %s: %v", cat.Slug, err)
				continue
			}
			stdLog.Printf("Created category: %s", cat.Slug)
			categoryIDs[cat.Slug] = cat.ID
		} else {
			stdLog.Printf("Category already exists: %s", cat.Slug)
			categoryIDs[cat.Slug] = existing.ID
		}
	}

	// 添加菜品（按 分类 + 名称 去重，重复执行时同步价格与税率）
	items := []menuSeed{
		{Category: "starters", Name: "Paneer Tikka", Description: "Char-grilled cottage cheese, mint chutney", Price: "249.00", GSTRate: "5"},
		{Category: "starters", Name: "Veg Samosa (2 pcs)", Description: "Spiced potato and peas in crisp pastry", Price: "89.00", GSTRate: "5"},
		{Category: "mains", Name: "Butter Chicken", Description: "Tandoori chicken in tomato butter gravy", Price: "349.00", GSTRate: "5"},
		{Category: "mains", Name: "Dal Makhani", Description: "Black lentils slow cooked overnight", Price: "279.00", GSTRate: "5"},
		{Category: "mains", Name: "Hyderabadi Veg Biryani", Description: "Dum-cooked basmati with vegetables", Price: "299.00", GSTRate: "5"},
		{Category: "breads", Name: "Butter Naan", Description: "Leavened bread from the tandoor", Price: "59.00", GSTRate: "5"},
		{Category: "breads", Name: "Garlic Naan", Description: "Naan topped with garlic and coriander", Price: "69.00", GSTRate: "5"},
		{Category: "beverages", Name: "Sweet Lassi", Description: "Chilled yoghurt drink", Price: "99.00", GSTRate: "5"},
		{Category: "beverages", Name: "Aerated Soft Drink", Description: "Chilled 300ml can", Price: "60.00", GSTRate: "18"},
	}

	for _, seed := range items {
		categoryID := categoryIDs[seed.Category]
		if categoryID == 0 {
			stdLog.Printf("Skip menu item %s: category %s missing", seed.Name, seed.Category)
			continue
		}
		price := models.NewMoneyFromDecimal(decimal.RequireFromString(seed.Price))
		rate := models.NewPercentFromDecimal(decimal.RequireFromString(seed.GSTRate))

		var existing models.MenuItem
		if err := models.DB.Where("category_id = ? AND name = ?", categoryID, seed.Name).First(&existing).Error; err != nil {
			item := models.MenuItem{
				CategoryID:  categoryID,
				Name:        seed.Name,
				Description: seed.Description,
				Price:       price,
				GSTRate:     rate,
				IsActive:    true,
			}
			if err := models.DB.Create(&item).Error; err != nil {
				stdLog.Printf("Failed to create menu item %s: %v", seed.Name, err)
			} else {
				stdLog.Printf("Created menu item: %s", seed.Name)
			}
			continue
		}
		existing.Description = seed.Description
		existing.Price = price
		existing.GSTRate = rate
		if err := models.DB.Save(&existing).Error; err != nil {
			stdLog.Printf("Failed to update menu item %s: %v", seed.Name, err)
		} else {
			stdLog.Printf("Updated menu item: %s", seed.Name)
		}
	}

	stdLog.Printf("Seed completed")
}
