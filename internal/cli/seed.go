package cli

import (
	"context"
	"fmt"

	"sitetrack/internal/catalog"
	"sitetrack/internal/services"
)

// SeedCatalog loads a starter catalog through the regular import path.
// Import upserts by natural key, so re-running the seed is harmless.
func SeedCatalog(ctx context.Context, svc *services.CatalogService) error {
	res, err := svc.Import(ctx, starterCatalog())
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	if len(res.Failures) > 0 {
		return fmt.Errorf("seed catalog: %d nodes rejected", len(res.Failures))
	}
	return nil
}

func starterCatalog() catalog.ImportPayload {
	return catalog.ImportPayload{
		Categories: []catalog.CategoryPayload{
			{
				Code: "STR", Name: "Structural", Order: 1,
				Activities: []catalog.ActivityPayload{
					{
						Code: "CONC", Name: "Concreting", DefaultUnit: "Cu.m", Order: 1,
						SubTasks: []catalog.SubTaskPayload{
							{Name: "Pour foundation", DefaultProductivity: 1.5, Unit: "Cu.m", Order: 1},
							{Name: "Pour slab", DefaultProductivity: 2, Unit: "Cu.m", Order: 2},
						},
					},
					{
						Code: "REBAR", Name: "Reinforcement", DefaultUnit: "Kg", Order: 2,
						SubTasks: []catalog.SubTaskPayload{
							{Name: "Fix rebar", DefaultProductivity: 120, Unit: "Kg", Order: 1},
						},
					},
				},
			},
			{
				Code: "EARTH", Name: "Earthworks", Order: 2,
				Activities: []catalog.ActivityPayload{
					{
						Code: "EXC", Name: "Excavation", DefaultUnit: "Cu.m", Order: 1,
						SubTasks: []catalog.SubTaskPayload{
							{Name: "Bulk excavation", DefaultProductivity: 64, Unit: "Cu.m", Order: 1},
						},
					},
				},
			},
			{
				Code: "MEP", Name: "Mechanical, Electrical & Plumbing", Order: 3,
				Activities: []catalog.ActivityPayload{
					{
						Code: "HVAC", Name: "HVAC", DefaultUnit: "Sq.m", Order: 1,
						SubTasks: []catalog.SubTaskPayload{
							{Name: "Duct installation", DefaultProductivity: 8, Unit: "Sq.m", Order: 1},
						},
					},
				},
			},
		},
	}
}
