package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"canteen-bot/internal/model"
	"canteen-bot/internal/repository"
)

func newTestRepos(t *testing.T) (*repository.UserRepository, *repository.RequestRepository) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Request{}))
	return repository.NewUserRepository(db), repository.NewRequestRepository(db)
}

func seedUser(t *testing.T, users *repository.UserRepository, telegramID int64, name string) *model.User {
	t.Helper()
	user, err := users.Upsert(context.Background(), telegramID, name,
		time.Date(2025, time.December, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return user
}
