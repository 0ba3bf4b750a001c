// Command seed populates the database with demo accounts and listings for
// local development. It is not idempotent for auctions; run it against a
// fresh database.
package main

import (
	"context"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"golang.org/x/crypto/bcrypt"

	"auction-marketplace/internal/config"
	"auction-marketplace/internal/domain"
	"auction-marketplace/internal/infrastructure/mysql"
	"auction-marketplace/pkg/logger"
	"auction-marketplace/pkg/utils"
)

type categorySeed struct {
	category string
	titles   []string
}

var categories = []categorySeed{
	{
		category: "Collectibles",
		titles: []string{
			"Vintage Enamel Pin Set",
			"Signed Vinyl Record Lot",
			"Limited Edition Comic Bundle",
			"Collector's Dice Tray",
		},
	},
	{
		category: "Design",
		titles: []string{
			"Studio Desk Lamp, 1960",
			"Modernist Ceramic Pitcher",
			"Minimalist Wall Clock",
			"Bentwood Lounge Chair",
		},
	},
	{
		category: "Tech",
		titles: []string{
			"Compact Robotics Kit",
			"Modular IoT Sensor Pack",
			"Precision Smart Caliper",
			"Prototyping Breadboard Set",
		},
	},
	{
		category: "Art",
		titles: []string{
			"Abstract Riso Print",
			"Hand-Pulled Linocut Series",
			"Small Format Oil Study",
			"Gallery Sketchbook Pages",
		},
	},
}

func main() {
	log := logger.New()
	log.Info("Seeding demo data")

	cfg, err := config.Load()
	if err != nil {
		log.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db := utils.InitializeMysql(ctx, cfg, log)
	defer db.Close()

	if err := mysql.Migrate(ctx, db); err != nil {
		log.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	userRepo := mysql.NewMySQLUserRepository(db)
	auctionRepo := mysql.NewMySQLAuctionRepository(db)

	now := time.Now().UTC()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), 10)
	if err != nil {
		log.Error("Failed to hash password", "error", err)
		os.Exit(1)
	}

	sellers := make([]*domain.User, 0, 2)
	for _, email := range []string{"seller@example.com", "collector@example.com"} {
		user := &domain.User{
			ID:           utils.GenerateID("user"),
			Email:        email,
			PasswordHash: string(hash),
			CreatedAt:    now,
		}
		if err := userRepo.CreateUser(ctx, user); err != nil {
			log.Error("Failed to create user", "email", email, "error", err)
			os.Exit(1)
		}
		sellers = append(sellers, user)
	}

	count := 0
	for i, seed := range categories {
		for j, title := range seed.titles {
			startingPrice := int64(2500 + 1500*(i+j)) // cents
			status := domain.AuctionActive
			if j == len(seed.titles)-1 {
				status = domain.AuctionPending
			}
			auction := &domain.Auction{
				ID:            utils.GenerateID("auction"),
				SellerID:      sellers[count%len(sellers)].ID,
				Title:         title,
				Description:   "Demo listing seeded for local development. Condition and provenance notes would go here.",
				Category:      seed.category,
				StartingPrice: startingPrice,
				CurrentPrice:  startingPrice,
				Status:        status,
				StartsAt:      now.Add(-time.Hour),
				EndAt:         now.Add(time.Duration(24+6*count) * time.Hour),
				CreatedAt:     now,
			}
			if err := auctionRepo.CreateAuction(ctx, auction); err != nil {
				log.Error("Failed to create auction", "title", title, "error", err)
				os.Exit(1)
			}
			count++
		}
	}

	log.Info("Seed complete", "users", len(sellers), "auctions", count)
}
