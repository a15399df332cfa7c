package main

import (
	"github.com/IsSact22/Gestion-tareas-sub001/internal/common/config"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/common/logger"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/db"
	notificationstore "github.com/IsSact22/Gestion-tareas-sub001/internal/notifications/store"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/persistence"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/task/repository/sqldb"
	userstore "github.com/IsSact22/Gestion-tareas-sub001/internal/user/store"
)

func provideRepositories(cfg *config.Config, log *logger.Logger) (*Repositories, []func() error, error) {
	cleanups := make([]func() error, 0, 1)
	pool, cleanup, err := persistence.Provide(cfg, log)
	if err != nil {
		return nil, cleanups, err
	}
	if cleanup != nil {
		cleanups = append(cleanups, cleanup)
	}
	return newRepositories(pool), cleanups, nil
}

func newRepositories(pool *db.Pool) *Repositories {
	return &Repositories{
		Task:          sqldb.NewWithPool(pool),
		User:          userstore.NewSQLRepository(pool),
		Notifications: notificationstore.NewSQLRepository(pool),
	}
}
