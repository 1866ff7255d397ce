package service

import (
	"context"
	"fmt"

	"canteen-bot/internal/repository"
)

// StatsService aggregates usage numbers for the administrator.
type StatsService struct {
	userRepo    *repository.UserRepository
	requestRepo *repository.RequestRepository
}

func NewStatsService(userRepo *repository.UserRepository, requestRepo *repository.RequestRepository) *StatsService {
	return &StatsService{userRepo: userRepo, requestRepo: requestRepo}
}

// Summary is a point-in-time snapshot of bot usage.
type Summary struct {
	Users        int64
	Requests     int64
	LastMealDate string // "" when no requests exist
	Canteens     []repository.CanteenCount
	RecentDates  []repository.DateCount
}

func (s *StatsService) Summary(ctx context.Context) (Summary, error) {
	var sum Summary
	var err error

	if sum.Users, err = s.userRepo.Count(ctx); err != nil {
		return sum, fmt.Errorf("count users: %w", err)
	}
	if sum.Requests, err = s.requestRepo.Count(ctx); err != nil {
		return sum, fmt.Errorf("count requests: %w", err)
	}
	if sum.LastMealDate, err = s.requestRepo.LastMealDate(ctx); err != nil {
		return sum, fmt.Errorf("last meal date: %w", err)
	}
	if sum.Canteens, err = s.requestRepo.CountByCanteen(ctx); err != nil {
		return sum, fmt.Errorf("canteen stats: %w", err)
	}
	if sum.RecentDates, err = s.requestRepo.CountByRecentDates(ctx, 7); err != nil {
		return sum, fmt.Errorf("date stats: %w", err)
	}
	return sum, nil
}
