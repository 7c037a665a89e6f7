package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/vitos/crypto_alert_monitor/internal/domain"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS positions (
			id TEXT PRIMARY KEY,
			asset_type TEXT NOT NULL,
			position_type TEXT NOT NULL,
			wallet_name TEXT NOT NULL DEFAULT '',
			profit REAL,
			current_travel_percent REAL,
			liquidation_distance REAL
		);`,
		`CREATE TABLE IF NOT EXISTS alerts (
			id TEXT PRIMARY KEY,
			asset_type TEXT NOT NULL,
			alert_type TEXT NOT NULL,
			condition TEXT NOT NULL DEFAULT 'ABOVE',
			trigger_value REAL,
			status TEXT NOT NULL DEFAULT 'Active',
			position_id TEXT NOT NULL DEFAULT '',
			position_type TEXT NOT NULL DEFAULT '',
			wallet_name TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS prices (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			asset_type TEXT NOT NULL,
			current_price REAL NOT NULL,
			source TEXT NOT NULL DEFAULT '',
			last_update_time DATETIME NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_prices_asset_time ON prices(asset_type, last_update_time);`,
		`CREATE TABLE IF NOT EXISTS alert_cycles (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			count INTEGER NOT NULL,
			messages TEXT NOT NULL,
			dispatched BOOLEAN NOT NULL DEFAULT 0,
			dispatch_error TEXT NOT NULL DEFAULT '',
			started_at DATETIME NOT NULL,
			duration TEXT NOT NULL DEFAULT ''
		);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("failed to exec query %s: %w", q, err)
		}
	}
	return nil
}

func nullable(f domain.NumericField) any {
	if !f.Valid {
		return nil
	}
	return f.Raw
}

func numeric(ns sql.NullString) domain.NumericField {
	return domain.NumericField{Raw: ns.String, Valid: ns.Valid}
}

// MetricSource Implementation

func (s *SQLiteStore) SavePosition(ctx context.Context, p *domain.Position) error {
	query := `INSERT INTO positions (id, asset_type, position_type, wallet_name, profit, current_travel_percent, liquidation_distance)
			  VALUES (?, ?, ?, ?, ?, ?, ?)
			  ON CONFLICT(id) DO UPDATE SET
			  asset_type=excluded.asset_type,
			  position_type=excluded.position_type,
			  wallet_name=excluded.wallet_name,
			  profit=excluded.profit,
			  current_travel_percent=excluded.current_travel_percent,
			  liquidation_distance=excluded.liquidation_distance`
	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.AssetType, string(p.PositionType), p.WalletName,
		nullable(p.Profit), nullable(p.CurrentTravelPercent), nullable(p.LiquidationDistance))
	return err
}

func (s *SQLiteStore) ListPositions(ctx context.Context) ([]*domain.Position, error) {
	query := `SELECT id, asset_type, position_type, wallet_name, profit, current_travel_percent, liquidation_distance FROM positions ORDER BY rowid`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var positions []*domain.Position
	for rows.Next() {
		var p domain.Position
		var posType string
		var profit, travel, liq sql.NullString
		if err := rows.Scan(&p.ID, &p.AssetType, &posType, &p.WalletName, &profit, &travel, &liq); err != nil {
			return nil, err
		}
		p.PositionType = domain.PositionType(posType)
		p.Profit = numeric(profit)
		p.CurrentTravelPercent = numeric(travel)
		p.LiquidationDistance = numeric(liq)
		positions = append(positions, &p)
	}
	return positions, rows.Err()
}

func (s *SQLiteStore) SavePriceAlert(ctx context.Context, a *domain.PriceAlert) error {
	query := `INSERT INTO alerts (id, asset_type, alert_type, condition, trigger_value, status, position_id, position_type, wallet_name)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			  ON CONFLICT(id) DO UPDATE SET
			  asset_type=excluded.asset_type,
			  alert_type=excluded.alert_type,
			  condition=excluded.condition,
			  trigger_value=excluded.trigger_value,
			  status=excluded.status,
			  position_id=excluded.position_id,
			  position_type=excluded.position_type,
			  wallet_name=excluded.wallet_name`
	_, err := s.db.ExecContext(ctx, query,
		a.ID, a.AssetType, string(a.AlertType), string(a.Condition), nullable(a.TriggerValue),
		string(a.Status), a.PositionID, string(a.PositionType), a.WalletName)
	return err
}

// ListActivePriceAlerts returns price-threshold alerts whose status is active.
func (s *SQLiteStore) ListActivePriceAlerts(ctx context.Context) ([]*domain.PriceAlert, error) {
	query := `SELECT id, asset_type, alert_type, condition, trigger_value, status, position_id, position_type, wallet_name
			  FROM alerts WHERE alert_type = ? AND lower(status) = 'active' ORDER BY rowid`
	rows, err := s.db.QueryContext(ctx, query, string(domain.AlertTypePriceThreshold))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []*domain.PriceAlert
	for rows.Next() {
		var a domain.PriceAlert
		var alertType, cond, status, posType string
		var trigger sql.NullString
		if err := rows.Scan(&a.ID, &a.AssetType, &alertType, &cond, &trigger, &status, &a.PositionID, &posType, &a.WalletName); err != nil {
			return nil, err
		}
		a.AlertType = domain.AlertType(alertType)
		a.Condition = domain.Condition(cond)
		a.Status = domain.AlertStatus(status)
		a.PositionType = domain.PositionType(posType)
		a.TriggerValue = numeric(trigger)
		alerts = append(alerts, &a)
	}
	return alerts, rows.Err()
}

func (s *SQLiteStore) SavePrice(ctx context.Context, p *domain.PriceSnapshot) error {
	updated := p.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	query := `INSERT INTO prices (asset_type, current_price, source, last_update_time) VALUES (?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query, domain.NormalizeAsset(p.AssetType), p.CurrentPrice, p.Source, updated.UTC())
	return err
}

// LatestPrice returns nil, nil when no price has been stored for asset.
func (s *SQLiteStore) LatestPrice(ctx context.Context, asset string) (*domain.PriceSnapshot, error) {
	query := `SELECT asset_type, current_price, source, last_update_time FROM prices
			  WHERE asset_type = ? ORDER BY last_update_time DESC, id DESC LIMIT 1`
	row := s.db.QueryRowContext(ctx, query, domain.NormalizeAsset(asset))

	var p domain.PriceSnapshot
	if err := row.Scan(&p.AssetType, &p.CurrentPrice, &p.Source, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// CycleRecorder Implementation

func (s *SQLiteStore) SaveCycle(ctx context.Context, c *domain.CycleSummary) error {
	messages, err := json.Marshal(c.Messages)
	if err != nil {
		return err
	}
	query := `INSERT INTO alert_cycles (id, source, count, messages, dispatched, dispatch_error, started_at, duration)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = s.db.ExecContext(ctx, query,
		c.ID, c.Source, c.Count, string(messages), c.Dispatched, c.DispatchErr, c.StartedAt.UTC(), c.Duration)
	return err
}

func (s *SQLiteStore) ListCycles(ctx context.Context, limit int) ([]*domain.CycleSummary, error) {
	query := `SELECT id, source, count, messages, dispatched, dispatch_error, started_at, duration
			  FROM alert_cycles ORDER BY started_at DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cycles []*domain.CycleSummary
	for rows.Next() {
		var c domain.CycleSummary
		var messages string
		if err := rows.Scan(&c.ID, &c.Source, &c.Count, &messages, &c.Dispatched, &c.DispatchErr, &c.StartedAt, &c.Duration); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(messages), &c.Messages); err != nil {
			return nil, fmt.Errorf("decode messages of cycle %s: %w", c.ID, err)
		}
		cycles = append(cycles, &c)
	}
	return cycles, rows.Err()
}
