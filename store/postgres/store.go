package postgres

import (
	"context"
	"errors"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/bascore/appointment-app/models"
	"github.com/bascore/appointment-app/store"
)

// Store is the GORM/Postgres implementation of store.Store.
type Store struct {
	db *gorm.DB
}

// Open establishes the database connection.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// New wraps an existing GORM handle, transaction-scoped or not.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// AutoMigrate applies the schema. Run explicitly, not on every start.
func (s *Store) AutoMigrate() error {
	return s.db.AutoMigrate(
		&models.User{},
		&models.Qualification{},
		&models.Appointment{},
		&models.Notification{},
	)
}

func (s *Store) Users() store.Users                 { return &users{db: s.db} }
func (s *Store) Appointments() store.Appointments   { return &appointments{db: s.db} }
func (s *Store) Notifications() store.Notifications { return &notifications{db: s.db} }

func (s *Store) WithTx(ctx context.Context, fn func(tx store.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// translate maps GORM errors onto the store sentinels so services never see
// driver-specific failures.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return store.ErrAlreadyExists
	}
	return err
}
