package main

import (
	"fmt"

	"github.com/ava-bijoux/ava-next/internal/config"
	"github.com/ava-bijoux/ava-next/internal/constants"
	"github.com/ava-bijoux/ava-next/internal/logger"
	"github.com/ava-bijoux/ava-next/internal/models"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("failed to migrate database: %v", err)
	}

	seedProducts(stdLog.Printf)
	seedSalons(stdLog.Printf)

	fmt.Println("seed finished")
}

const defaultFonts = `["script","serif","block"]`
const defaultColors = `["gold","rose-gold","silver"]`

func seedProducts(logf func(format string, v ...interface{})) {
	var count int64
	models.DB.Model(&models.Product{}).Count(&count)
	if count > 0 {
		logf("products already seeded, skipping")
		return
	}

	products := []models.Product{
		{
			Name:        "Collier Plaque Or",
			Slug:        "collier-plaque-or",
			Description: "Élégant collier avec plaque rectangulaire personnalisable, plaqué or 18 carats.",
			Category:    "colliers",
			Price:       models.NewMoneyFromFloat(39.90),
			MaxChars:    12,
			Fonts:       defaultFonts,
			Colors:      defaultColors,
			InStock:     true,
			SortOrder:   1,
		},
		{
			Name:        "Médaillon Cœur",
			Slug:        "collier-medaillon-coeur",
			Description: "Délicat médaillon en forme de cœur à personnaliser. Plaqué or rose.",
			Category:    "colliers",
			Price:       models.NewMoneyFromFloat(34.90),
			MaxChars:    8,
			Fonts:       defaultFonts,
			Colors:      defaultColors,
			InStock:     true,
			SortOrder:   2,
		},
		{
			Name:        "Collier Barre Argent",
			Slug:        "collier-barre-argent",
			Description: "Collier minimaliste avec barre horizontale gravable. Argent 925.",
			Category:    "colliers",
			Price:       models.NewMoneyFromFloat(32.90),
			MaxChars:    15,
			Fonts:       defaultFonts,
			Colors:      defaultColors,
			InStock:     true,
			SortOrder:   3,
		},
		{
			Name:        "Jonc Personnalisé Or",
			Slug:        "bracelet-jonc-or",
			Description: "Bracelet jonc ouvert à graver sur le dessus. Plaqué or 18 carats.",
			Category:    "bracelets",
			Price:       models.NewMoneyFromFloat(44.90),
			MaxChars:    10,
			Fonts:       defaultFonts,
			Colors:      defaultColors,
			InStock:     true,
			SortOrder:   4,
		},
		{
			Name:        "Bracelet Chaîne Plaque",
			Slug:        "bracelet-chaine-plaque",
			Description: "Bracelet chaîne fine avec plaque centrale personnalisable.",
			Category:    "bracelets",
			Price:       models.NewMoneyFromFloat(36.90),
			MaxChars:    12,
			Fonts:       defaultFonts,
			Colors:      defaultColors,
			InStock:     true,
			SortOrder:   5,
		},
		{
			Name:        "Bracelet Cuir & Argent",
			Slug:        "bracelet-cuir-argent",
			Description: "Bracelet en cuir véritable avec plaque argent 925 à personnaliser.",
			Category:    "bracelets",
			Price:       models.NewMoneyFromFloat(42.90),
			MaxChars:    10,
			Fonts:       defaultFonts,
			Colors:      defaultColors,
			InStock:     true,
			SortOrder:   6,
		},
	}

	for i := range products {
		if err := models.DB.Create(&products[i]).Error; err != nil {
			logf("seed product %s failed: %v", products[i].Slug, err)
		}
	}
	logf("seeded %d products", len(products))
}

func seedSalons(logf func(format string, v ...interface{})) {
	var count int64
	models.DB.Model(&models.Salon{}).Count(&count)
	if count > 0 {
		logf("salons already seeded, skipping")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("salon123"), bcrypt.DefaultCost)
	if err != nil {
		logf("hash demo password failed: %v", err)
		return
	}

	salons := []models.Salon{
		{
			Name:           "Salon Marie Coiffure",
			Slug:           "salon-marie-coiffure",
			Email:          "marie@salonmarie.fr",
			Password:       string(hashed),
			City:           "Paris",
			CommissionRate: 0.30,
			Status:         constants.SalonStatusActive,
		},
		{
			Name:           "Coiff & Style",
			Slug:           "coiff-style",
			Email:          "contact@coiffstyle.fr",
			Password:       string(hashed),
			City:           "Lyon",
			CommissionRate: 0.30,
			Status:         constants.SalonStatusActive,
		},
		{
			Name:           "Hair Beauté",
			Slug:           "hair-beaute",
			Email:          "hello@hairbeaute.fr",
			Password:       string(hashed),
			City:           "Marseille",
			CommissionRate: 0.30,
			Status:         constants.SalonStatusActive,
		},
	}

	for i := range salons {
		if err := models.DB.Create(&salons[i]).Error; err != nil {
			logf("seed salon %s failed: %v", salons[i].Slug, err)
		}
	}
	logf("seeded %d demo salons (password: salon123)", len(salons))
}
