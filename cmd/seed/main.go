package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/vitos/crypto_alert_monitor/internal/domain"
	"github.com/vitos/crypto_alert_monitor/internal/infrastructure/storage"
)

// Seeds a database with a handful of positions, alerts and prices so the
// monitor has something to evaluate.
func main() {
	dbPath := flag.String("db", "mother_brain.db", "sqlite database path")
	flag.Parse()

	store, err := storage.NewSQLiteStore(*dbPath)
	if err != nil {
		fmt.Printf("Failed to open db: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()
	positions := []*domain.Position{
		{ID: "btc-long-1", AssetType: "BTC", PositionType: domain.PositionLong, WalletName: "R2Vault",
			Profit: domain.Number(80), CurrentTravelPercent: domain.Number(-12), LiquidationDistance: domain.Number(14)},
		{ID: "eth-short-1", AssetType: "ETH", PositionType: domain.PositionShort, WalletName: "ObiVault",
			Profit: domain.Number(-5), CurrentTravelPercent: domain.Number(-62), LiquidationDistance: domain.Number(4)},
		{ID: "sol-long-1", AssetType: "SOL", PositionType: domain.PositionLong, WalletName: "LandoVault",
			Profit: domain.Number(30), CurrentTravelPercent: domain.Number(8)},
	}
	for _, p := range positions {
		if err := store.SavePosition(ctx, p); err != nil {
			fmt.Printf("Failed to save position %s: %v\n", p.ID, err)
			os.Exit(1)
		}
	}

	alerts := []*domain.PriceAlert{
		{ID: "eth-above-3000", AssetType: "ETH", AlertType: domain.AlertTypePriceThreshold, Condition: domain.ConditionAbove,
			TriggerValue: domain.Number(3000), Status: domain.AlertStatusActive},
		{ID: "btc-below-40000", AssetType: "BTC", AlertType: domain.AlertTypePriceThreshold, Condition: domain.ConditionBelow,
			TriggerValue: domain.Number(40000), Status: domain.AlertStatusActive, PositionID: "btc-long-1",
			PositionType: domain.PositionLong, WalletName: "R2Vault"},
	}
	for _, a := range alerts {
		if err := store.SavePriceAlert(ctx, a); err != nil {
			fmt.Printf("Failed to save alert %s: %v\n", a.ID, err)
			os.Exit(1)
		}
	}

	now := time.Now()
	for asset, price := range map[string]float64{"BTC": 52000, "ETH": 3100, "SOL": 140} {
		if err := store.SavePrice(ctx, &domain.PriceSnapshot{AssetType: asset, CurrentPrice: price, Source: "Seed", UpdatedAt: now}); err != nil {
			fmt.Printf("Failed to save price %s: %v\n", asset, err)
			os.Exit(1)
		}
	}

	fmt.Printf("Seeded %d positions, %d alerts, 3 prices into %s\n", len(positions), len(alerts), *dbPath)
}
