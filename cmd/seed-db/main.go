package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/ishop-io/ishop-backend/internal/domain/catalog"
	"github.com/ishop-io/ishop-backend/internal/storage/postgres"
)

// productJSON mirrors a record from a catalog dump. Identifiers vary by
// provenance: native records carry _id, migrated ones carry a numeric id or
// a product_id code.
type productJSON struct {
	ID       string           `json:"_id"`
	LegacyID *int64           `json:"id"`
	Code     string           `json:"product_id"`
	Title    string           `json:"title"`
	Name     string           `json:"name"`
	Price    *decimal.Decimal `json:"price"`
	Category string           `json:"category"`
}

type categoryJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type seedFile struct {
	Categories []categoryJSON `json:"categories"`
	Products   []productJSON  `json:"products"`
}

func main() {
	var (
		databaseURL string
		seedPath    string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&seedPath, "seed-file", "db/seed/products.json", "path to seed JSON file")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, seedPath); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, seedPath string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	slog.Info("reading seed file", slog.String("path", seedPath))

	data, err := os.ReadFile(seedPath)
	if err != nil {
		return errors.Wrap(err, "read seed file")
	}

	var seed seedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return errors.Wrap(err, "parse seed JSON")
	}

	if err := seedCategories(ctx, postgres.NewCategoryRepository(pool), seed.Categories); err != nil {
		return errors.Wrap(err, "seed categories")
	}

	return seedProducts(ctx, postgres.NewProductRepository(pool), seed.Products)
}

func seedCategories(ctx context.Context, repo *postgres.CategoryRepository, categories []categoryJSON) error {
	slog.Info("upserting categories", slog.Int("count", len(categories)))

	for _, c := range categories {
		if err := repo.Upsert(ctx, catalog.Category{ID: c.ID, Name: c.Name}); err != nil {
			return err
		}
	}
	return nil
}

func seedProducts(ctx context.Context, repo *postgres.ProductRepository, products []productJSON) error {
	slog.Info("upserting products", slog.Int("count", len(products)))

	for _, in := range products {
		p := catalog.Product{
			ID:         in.ID,
			LegacyID:   in.LegacyID,
			LegacyCode: in.Code,
			Title:      in.Title,
			Name:       in.Name,
			Category:   in.Category,
		}
		if in.Price != nil {
			p.Price = catalog.PriceFrom(*in.Price)
		}
		// Migrated records have no native primary key; derive one from the
		// identifier they do carry so every row is addressable.
		if p.ID == "" {
			switch {
			case p.LegacyID != nil:
				p.ID = strconv.FormatInt(*p.LegacyID, 10)
			case p.LegacyCode != "":
				p.ID = p.LegacyCode
			default:
				return errors.Errorf("product %q has no identifier", p.Title)
			}
		}

		if err := repo.Upsert(ctx, p); err != nil {
			return err
		}

		slog.Info("upserted product", slog.String("id", p.ID), slog.String("title", p.DisplayTitle()))
	}
	return nil
}
