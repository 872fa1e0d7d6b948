// Command seed fills a development database with demo data.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/coursemate/backend/internal/bootstrap"
	"github.com/coursemate/backend/internal/pkg/logger"
	"github.com/coursemate/backend/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 10, "Number of users to create")
	perUser := flag.Int("resources", 5, "Resources uploaded by each user")
	clean := flag.Bool("clean", false, "Truncate users, tracked courses and resources first")
	fixedSeed := flag.Int64("seed", 0, "Random seed, 0 for a random one")
	flag.Parse()

	ctx := context.Background()

	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		os.Exit(1)
	}

	pool, err := bootstrap.SetupDatabase(ctx, cfg, lgr)
	if err != nil {
		os.Exit(1)
	}
	defer pool.Close()

	seeder := seed.NewSeeder(pool, lgr, seed.Options{
		Users:            *numUsers,
		ResourcesPerUser: *perUser,
		Clean:            *clean,
		BaseURL:          cfg.PublicBaseURL(),
		Seed:             *fixedSeed,
	})
	if err := seeder.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("Seeding failed")
		pool.Close()
		os.Exit(1)
	}

	lgr.Info().Str("email", seed.DemoEmail).Str("password", seed.DemoPassword).Msg("Seeding finished, every account shares the demo password")
}
