package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solemate/solemate/internal/model"
	"github.com/solemate/solemate/internal/store"
)

func newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the starter catalog",
		Long:  "Insert the standard shoe-care products and services into an empty catalog.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed()
		},
	}
	return cmd
}

// seedProducts is the starter catalog: cleaning services plus the retail
// items the shop sells alongside them.
var seedProducts = []model.Product{
	{Name: "Express clean", Description: "Surface clean and buff, ready in 30 minutes", Price: 15.00, Category: "service"},
	{Name: "Deep clean", Description: "Full disassembly clean: uppers, soles, laces, insoles", Price: 35.00, Category: "service"},
	{Name: "Suede restoration", Description: "Brush-up, stain removal, and recoloring for suede and nubuck", Price: 45.00, Category: "service"},
	{Name: "Sole whitening", Description: "Oxidation treatment for yellowed rubber soles", Price: 25.00, Category: "service"},
	{Name: "Waterproofing treatment", Description: "Impregnation spray treatment for all materials", Price: 12.00, Category: "service"},
	{Name: "Premium shoe shampoo", Description: "250ml concentrated cleaning solution", Price: 9.90, Category: "product"},
	{Name: "Horsehair brush", Description: "Soft natural-bristle brush for delicate materials", Price: 14.50, Category: "product"},
	{Name: "Microfibre cloth set", Description: "Pack of three lint-free polishing cloths", Price: 6.00, Category: "product"},
	{Name: "Cedar shoe trees", Description: "Pair of adjustable cedar shoe trees", Price: 22.00, Category: "product"},
	{Name: "Waterproofing spray", Description: "200ml nano-coating protective spray", Price: 11.50, Category: "product"},
}

func runSeed() error {
	cfg := loadConfig()
	st, err := store.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	existing, err := st.ListAvailableProducts(ctx, 0, 1)
	if err != nil {
		return fmt.Errorf("check catalog: %w", err)
	}
	if len(existing) > 0 {
		return fmt.Errorf("catalog is not empty; refusing to seed")
	}

	for i := range seedProducts {
		p := seedProducts[i]
		p.Available = true
		if err := st.CreateProduct(ctx, &p); err != nil {
			return fmt.Errorf("seed product %q: %w", p.Name, err)
		}
		fmt.Printf("  + %s (%.2f)\n", p.Name, p.Price)
	}

	fmt.Printf("Seeded %d products\n", len(seedProducts))
	return nil
}
