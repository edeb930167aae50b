package repository_test

import (
	"context"
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

func startPostgres(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	postgresContainer, err := postgres.Run(ctx, "postgres:17.6-alpine3.22",
		postgres.BasicWaitStrategies(),
		postgres.WithInitScripts(
			"../migrations/01_cart_slots.up.sql"),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("pc.ConnectionString: %w", err)
	}

	return postgresContainer, connStr, nil
}

func randomKey() string {
	return "cart:" + gofakeit.UUID()
}

func randomPayload() []byte {
	return fmt.Appendf(nil, `[{"id":%d,"name":%q,"price":%.2f,"image":"images/%s.jpg","quantity":%d}]`,
		gofakeit.IntRange(1, 1000),
		gofakeit.ProductName(),
		gofakeit.Price(1, 100),
		gofakeit.Word(),
		gofakeit.IntRange(1, 9),
	)
}
