package storage

import (
	"github.com/pdamaso/cityfall/internal/game"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func OpenAndMigrate(dataSourceName string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Keep the schema updated via AutoMigrate; the content catalog lives in
	// the config file, not the database, so there is nothing to seed.
	err = db.AutoMigrate(
		&game.Session{},
		&game.Node{},
		&game.Actor{},
		&game.Team{},
		&game.Gear{},
		&game.Target{},
		&game.OngoingEffect{},
		&game.MessageEntry{},
		&game.ActionAdjust{},
		&game.Faction{},
		&game.User{},
	)
	if err != nil {
		return nil, err
	}

	// Session lookups by UUID happen on every request; make sure the index
	// exists even on databases created before the gorm tag was added.
	if execErr := db.Exec("CREATE INDEX IF NOT EXISTS idx_sessions_session_uuid ON sessions(session_uuid);").Error; execErr != nil {
		return nil, execErr
	}
	return db, nil
}
