package db

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ekzore/tibia-agent/internal/split"
)

// StoredSplit is one historical split result row.
type StoredSplit struct {
	ID          int64         `json:"id"`
	Success     bool          `json:"success"`
	NetProfit   int64         `json:"net_profit"`
	PlayerCount int           `json:"player_count"`
	Result      *split.Result `json:"result"`
	CreatedAt   time.Time     `json:"created_at"`
}

// InsertSplit stores a split result for later lookup. Failed results are
// stored too; they are the interesting ones when a dump would not parse.
func (db *DB) InsertSplit(ctx context.Context, result *split.Result) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}

	var netProfit int64
	if result.Summary != nil {
		netProfit = result.Summary.NetProfit
	}

	_, err = db.pool.Exec(ctx,
		"INSERT INTO session_splits (success, net_profit, player_count, result) VALUES ($1, $2, $3, $4)",
		result.Success, netProfit, len(result.PlayersParsed), payload,
	)
	return err
}

// ListSplits returns the most recent split results, newest first.
func (db *DB) ListSplits(ctx context.Context, limit int) ([]StoredSplit, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.pool.Query(ctx,
		"SELECT id, success, net_profit, player_count, result, created_at FROM session_splits ORDER BY created_at DESC, id DESC LIMIT $1",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var splits []StoredSplit
	for rows.Next() {
		var s StoredSplit
		var payload []byte
		if err := rows.Scan(&s.ID, &s.Success, &s.NetProfit, &s.PlayerCount, &payload, &s.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(payload, &s.Result); err != nil {
			return nil, err
		}
		splits = append(splits, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return splits, nil
}
