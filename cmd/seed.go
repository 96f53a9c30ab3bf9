package main

import (
	"context"
	"errors"
	"fmt"

	"storefront/config"
	"storefront/database"
	"storefront/logger"
	"storefront/models"
	"storefront/services"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a starter catalog and the default site settings",
	Long: `Populate an empty database with a few products and the contact and
homepage settings. Existing products and settings are left untouched.`,
	RunE: seed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

const seedImage = "https://placehold.co/400x400?text=Drink+It"

var starterCatalog = []services.ProductInput{
	{
		Name:     "Coca-Cola",
		Price:    50,
		Category: "Refrigerantes",
		ImageURL: seedImage,
		Variations: []models.Variation{
			{Name: "Lata 330ml", Price: 50},
			{Name: "Garrafa 2L", Price: 150},
		},
	},
	{
		Name:     "Água Mineral",
		Price:    30,
		Category: "Águas",
		ImageURL: seedImage,
		Variations: []models.Variation{
			{Name: "500ml", Price: 30},
			{Name: "1.5L", Price: 60},
		},
	},
	{Name: "2M", Price: 90, Category: "Cervejas", ImageURL: seedImage},
	{Name: "Sumo de Manga", Price: 120, Category: "Sumos", ImageURL: seedImage},
}

func seed(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log.Development)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer log.Sync()

	ctx := cmd.Context()
	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	existing, err := store.Query(ctx, database.Collection(database.ProductsCollection))
	if err != nil {
		return fmt.Errorf("failed to list products: %w", err)
	}
	if len(existing) > 0 {
		log.Info("catalog not empty, skipping products", zap.Int("count", len(existing)))
	} else {
		catalog := services.NewCatalogService(store, log)
		for _, in := range starterCatalog {
			p, err := catalog.Create(ctx, in)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", in.Name, err)
			}
			log.Info("product created", zap.String("id", p.ID), zap.String("name", p.Name))
		}
	}

	defaults := map[string]any{
		database.ContactDocument:  models.ContactConfig{BusinessPhoneNumber: cfg.Shop.DefaultBusinessPhone},
		database.HomepageDocument: models.HomepageConfig{Slogan: models.DefaultSlogan, HeroImageURL: models.DefaultHeroImageURL},
	}
	for id, data := range defaults {
		_, err := store.Get(ctx, database.ConfigCollection, id)
		if err == nil {
			continue
		}
		if !errors.Is(err, database.ErrNotFound) {
			return fmt.Errorf("failed to read config/%s: %w", id, err)
		}
		if err := store.Set(ctx, database.ConfigCollection, id, data, false); err != nil {
			return fmt.Errorf("failed to write config/%s: %w", id, err)
		}
		log.Info("config written", zap.String("doc", id))
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Seed complete")
	return nil
}
