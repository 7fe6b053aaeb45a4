package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"starquest/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// CatalogLoader loads the official quest board and reward shop from
// Postgres. Rows hold one JSONB document each.
type CatalogLoader struct {
	pool *pgxpool.Pool
}

func NewCatalogLoader(pool *pgxpool.Pool) *CatalogLoader {
	return &CatalogLoader{pool: pool}
}

func (l *CatalogLoader) LoadCatalog(ctx context.Context) (domain.Catalog, error) {
	catalog := domain.Catalog{}

	rows, err := l.pool.Query(ctx, `SELECT data FROM official_tasks ORDER BY id`)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("load tasks: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return domain.Catalog{}, fmt.Errorf("scan task: %w", err)
		}
		var task domain.Task
		if err := json.Unmarshal(raw, &task); err != nil {
			return domain.Catalog{}, fmt.Errorf("unmarshal task: %w", err)
		}
		catalog.Tasks = append(catalog.Tasks, task)
	}
	if err := rows.Err(); err != nil {
		return domain.Catalog{}, fmt.Errorf("read tasks: %w", err)
	}

	rewardRows, err := l.pool.Query(ctx, `SELECT data FROM rewards ORDER BY id`)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("load rewards: %w", err)
	}
	defer rewardRows.Close()
	for rewardRows.Next() {
		var raw []byte
		if err := rewardRows.Scan(&raw); err != nil {
			return domain.Catalog{}, fmt.Errorf("scan reward: %w", err)
		}
		var reward domain.Reward
		if err := json.Unmarshal(raw, &reward); err != nil {
			return domain.Catalog{}, fmt.Errorf("unmarshal reward: %w", err)
		}
		catalog.Rewards = append(catalog.Rewards, reward)
	}
	if err := rewardRows.Err(); err != nil {
		return domain.Catalog{}, fmt.Errorf("read rewards: %w", err)
	}

	if len(catalog.Tasks) == 0 && len(catalog.Rewards) == 0 {
		return domain.Catalog{}, domain.ErrCatalogNotFound
	}
	return catalog, nil
}
