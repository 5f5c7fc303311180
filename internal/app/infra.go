package app

import (
	"context"
	"fmt"
	"net/http"

	"auth-gateway/internal/auth"
	"auth-gateway/internal/config"
	"auth-gateway/internal/directory"
	"auth-gateway/internal/logger"
	"auth-gateway/internal/redis"
)

type Infra struct {
	Redis      *redis.Client
	Partitions []*directory.Client
	Customer   *directory.Client
}

// partitionTable resolves the configured priority list to concrete
// partitions. The resulting order IS the login tie-break policy.
func partitionTable(cfg config.Partitions) ([]directory.Partition, error) {
	byName := map[string]directory.Partition{
		"admin":    {Name: "admin", Role: auth.RoleAdmin, BaseURL: cfg.AdminURL},
		"owner":    {Name: "owner", Role: auth.RoleRestaurantOwner, BaseURL: cfg.OwnerURL},
		"customer": {Name: "customer", Role: auth.RoleCustomer, BaseURL: cfg.CustomerURL},
		"rider":    {Name: "rider", Role: auth.RoleDeliveryRider, BaseURL: cfg.RiderURL},
	}

	table := make([]directory.Partition, 0, len(cfg.Priority))
	for _, name := range cfg.Priority {
		p, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown partition in priority list: %q", name)
		}
		if p.BaseURL == "" {
			return nil, fmt.Errorf("partition %q has no base url configured", name)
		}
		table = append(table, p)
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("no partitions configured")
	}
	return table, nil
}

func setupInfra(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Infra, error) {
	redisClient, err := redis.New(ctx, cfg.Redis.Addr, cfg.Redis.Password)
	if err != nil {
		return nil, err
	}
	log.Info("redis ready")

	table, err := partitionTable(cfg.Partitions)
	if err != nil {
		return nil, err
	}

	// One shared outbound pool, read-only after startup.
	httpClient := &http.Client{Timeout: cfg.Fanout.PartitionTimeout}

	infra := &Infra{Redis: redisClient}
	for _, p := range table {
		client := directory.NewClient(p, httpClient)
		infra.Partitions = append(infra.Partitions, client)
		if p.Role == auth.RoleCustomer {
			infra.Customer = client
		}
	}
	if infra.Customer == nil {
		return nil, fmt.Errorf("customer partition missing from priority list")
	}

	log.Info("partition table ready", "partitions", len(infra.Partitions))
	return infra, nil
}
