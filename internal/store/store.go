// Package store wraps the persistence collaborator's REST surface behind
// per-table repositories.
package store

import (
	"context"
	"time"
)

// Store holds the REST client and all table repositories
type Store struct {
	client *Client

	Players        *PlayerRepository
	Teams          *TeamRepository
	MissingPlayers *MissingPlayerRepository
	PropLines      *PropLineRepository
	GameLogs       *GameLogRepository
}

// NewStore creates a store over the collaborator at baseURL
func NewStore(baseURL, serviceKey string, timeout time.Duration) *Store {
	s := &Store{client: NewClient(baseURL, serviceKey, timeout)}
	s.Players = &PlayerRepository{client: s.client}
	s.Teams = &TeamRepository{client: s.client}
	s.MissingPlayers = &MissingPlayerRepository{client: s.client}
	s.PropLines = &PropLineRepository{client: s.client}
	s.GameLogs = &GameLogRepository{client: s.client}
	return s
}

// Health checks collaborator reachability with a minimal read
func (s *Store) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	var rows []map[string]interface{}
	return s.client.Get(ctx, "players", "select=player_id&limit=1", &rows)
}
