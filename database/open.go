package database

import (
	"fmt"

	"github.com/sri-maddineni/college-shortlister/config"
)

// Open connects to the store selected by DB_DRIVER and prepares its schema
func Open(getEnv *config.EnviornmentVariable) (Storage, error) {
	var (
		store Storage
		err   error
	)
	switch getEnv.DB_DRIVER {
	case DriverGORM:
		store, err = StartGORM(getEnv)
	case DriverMemory:
		store = NewMemoryStore()
	default:
		store, err = Start(getEnv)
	}
	if err != nil {
		return nil, err
	}

	if err := store.Init(); err != nil {
		store.Close()
		return nil, fmt.Errorf("initialize database: %w", err)
	}
	return store, nil
}
