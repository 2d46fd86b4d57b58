package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"pokerleague/internal/models"
	"pokerleague/internal/repository"
)

type PlayerService struct {
	Repo repository.Repository
}

func (s *PlayerService) CreatePlayer(ctx context.Context, name string) (*models.Player, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("player service not configured")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	p := &models.Player{ID: uuid.NewString(), Name: name}
	if err := s.Repo.SavePlayer(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PlayerService) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("player service not configured")
	}
	p, err := s.Repo.GetPlayer(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, notFound("player", id)
	}
	return p, nil
}

func (s *PlayerService) ListPlayers(ctx context.Context, params repository.ListPlayersParams) ([]models.Player, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("player service not configured")
	}
	return s.Repo.ListPlayers(ctx, params)
}
