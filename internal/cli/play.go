package cli

import (
	"context"
	"log"
	"time"

	"starquest/internal/app"
	"starquest/internal/config"
	"starquest/internal/domain"
	"starquest/internal/infra/memory"
	pgcatalog "starquest/internal/infra/postgres"
	redisinfra "starquest/internal/infra/redis"
	"starquest/internal/tui"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewPlayCmd builds the CLI subcommand that starts an interactive session.
func NewPlayCmd(configPath, worldID *string) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Start an interactive quest session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), *configPath, *worldID)
		},
	}
}

func runPlay(ctx context.Context, configPath, worldFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	world := worldFlag
	if world == "" {
		world = cfg.World.ID
	}
	if world == "" {
		world = "default"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	var loader memory.CatalogLoader = memory.NewStaticCatalogLoader(defaultCatalog())
	if pool != nil {
		loader = pgcatalog.NewCatalogLoader(pool)
	}

	catalogTTL := config.TTLDuration(cfg.Catalog.TTL, 10*time.Minute)
	var catalog app.CatalogRepository
	if redisClient != nil {
		catalog = redisinfra.NewCatalogRepository(redisClient, loader, catalogTTL)
	} else {
		catalog = memory.NewCatalogRepository(loader, catalogTTL)
	}

	var worlds app.WorldRepository
	if redisClient != nil {
		worlds = redisinfra.NewWorldStore(redisClient, redisTTL)
	} else {
		worlds = memory.NewWorldStore()
	}

	service := app.NewGameService(worlds, catalog)

	log.Printf("starting quest session in world %q", world)
	return tui.Run(ctx, service, world)
}

// defaultCatalog provides the built-in quest board and shop; configure
// Postgres to manage this content in a backing store instead.
func defaultCatalog() domain.Catalog {
	now := time.Now()
	return domain.Catalog{
		Tasks: []domain.Task{
			{
				ID:                  "t-official-1",
				Type:                domain.TaskOfficial,
				QuestionType:        domain.MultipleChoice,
				Title:               "每日百科：地理篇",
				Description:         "請問太陽系中，哪一顆行星被稱為「紅色星球」？",
				Options:             []string{"金星", "火星", "木星", "土星"},
				Answer:              "火星",
				RewardPerPerson:     50,
				MaxParticipants:     1000,
				CurrentParticipants: 128,
				CreatedAt:           now,
			},
			{
				ID:                  "t-official-2",
				Type:                domain.TaskOfficial,
				QuestionType:        domain.ShortAnswer,
				Title:               "成語填空",
				Description:         "請填出正確成語：「破釜○舟」",
				Answer:              "沉",
				RewardPerPerson:     30,
				MaxParticipants:     500,
				CurrentParticipants: 89,
				CreatedAt:           now,
			},
		},
		Rewards: []domain.Reward{
			{
				ID:          "r1",
				Name:        "7-11 咖啡兌換券",
				Description: "全台門市皆可兌換大杯拿鐵一杯。",
				PointsCost:  500,
				Stock:       10,
			},
			{
				ID:          "r2",
				Name:        "傳奇冒險家勳章",
				Description: "專屬個人檔案標章，彰顯你的資深地位。",
				PointsCost:  200,
				Stock:       999,
			},
			{
				ID:          "r3",
				Name:        "Steam 300元 點數卡",
				Description: "可用於購買遊戲或軟體的虛擬禮物卡。",
				PointsCost:  1500,
				Stock:       5,
			},
		},
	}
}
