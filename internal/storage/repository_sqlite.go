package storage

import (
	"time"

	"github.com/pdamaso/cityfall/internal/game"
	"gorm.io/gorm"
)

type sqliteRepository struct {
	db *gorm.DB
}

func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

// sessionPreloads lists every child collection of the session aggregate.
// Engine operations work on a fully loaded session, so partial loads are
// never useful here.
var sessionPreloads = []string{
	"Nodes", "Actors", "Teams", "Gear", "Targets",
	"Factions", "ActionAdjusts", "Ongoing", "Messages",
}

func (r *sqliteRepository) preloaded() *gorm.DB {
	q := r.db
	for _, p := range sessionPreloads {
		q = q.Preload(p)
	}
	return q
}

func (r *sqliteRepository) CreateSession(s *game.Session) error {
	return r.db.Create(s).Error
}

func (r *sqliteRepository) GetSessionByID(id uint) (*game.Session, error) {
	var s game.Session
	if err := r.preloaded().First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sqliteRepository) FindSessionByUUID(uuid string) (*game.Session, error) {
	var s game.Session
	if err := r.preloaded().Where("session_uuid = ?", uuid).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sqliteRepository) FindSessionByJoinCode(code string) (*game.Session, error) {
	var s game.Session
	if err := r.preloaded().Where("join_code = ?", code).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sqliteRepository) GetOpenSessions() ([]game.Session, error) {
	var sessions []game.Session
	cutoff := time.Now().Add(-30 * time.Minute)
	err := r.db.
		Where("status = ? AND created_at > ?", game.StatusInProgress, cutoff).
		Order("created_at desc").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

// UpdateSession persists the whole aggregate. Save with FullSaveAssociations
// only upserts child rows, so rows the engine dropped from the in-memory
// slices (burnt gear, withdrawn teams, expired ongoing effects, decayed
// action adjusts) have to be deleted explicitly or the next preload brings
// them back.
func (r *sqliteRepository) UpdateSession(s *game.Session) error {
	tx := r.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	if err := deleteRemovedChildren(tx, s); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(s).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// deleteRemovedChildren hard-deletes child rows absent from the in-memory
// aggregate. Only the collections the engine shrinks are covered: nodes,
// actors, factions and targets live for the whole session, and the message
// log is append-only.
func deleteRemovedChildren(tx *gorm.DB, s *game.Session) error {
	if s.ID == 0 {
		return nil
	}
	removals := []struct {
		model interface{}
		kept  []uint
	}{
		{&game.Gear{}, keptRowIDs(len(s.Gear), func(i int) uint { return s.Gear[i].ID })},
		{&game.Team{}, keptRowIDs(len(s.Teams), func(i int) uint { return s.Teams[i].ID })},
		{&game.OngoingEffect{}, keptRowIDs(len(s.Ongoing), func(i int) uint { return s.Ongoing[i].ID })},
		{&game.ActionAdjust{}, keptRowIDs(len(s.ActionAdjusts), func(i int) uint { return s.ActionAdjusts[i].ID })},
	}
	for _, rm := range removals {
		q := tx.Unscoped().Where("session_id = ?", s.ID)
		if len(rm.kept) > 0 {
			q = q.Where("id NOT IN ?", rm.kept)
		}
		if err := q.Delete(rm.model).Error; err != nil {
			return err
		}
	}
	return nil
}

// keptRowIDs collects the non-zero primary keys of a child slice. Rows the
// engine appended this turn have no key yet and are created by the Save.
func keptRowIDs(n int, id func(int) uint) []uint {
	out := make([]uint, 0, n)
	for i := 0; i < n; i++ {
		if v := id(i); v != 0 {
			out = append(out, v)
		}
	}
	return out
}

func (r *sqliteRepository) UpsertUser(email, uuid, name string) error {
	var u game.User
	if err := r.db.Where("email = ?", email).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			u = game.User{Email: email, PlayerUUID: uuid, PlayerName: name}
		} else {
			return err
		}
	}
	u.PlayerName = name
	u.PlayerUUID = uuid
	return r.db.Save(&u).Error
}

func (r *sqliteRepository) GetStatsByEmail(email string) (*game.User, error) {
	var u game.User
	if err := r.db.Where("email = ?", email).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return &game.User{Email: email}, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *sqliteRepository) SaveUser(u *game.User) error {
	return r.db.Save(u).Error
}

// GetTopPlayers returns the top N players ordered by wins, then sessions
// played.
func (r *sqliteRepository) GetTopPlayers(limit int) ([]game.User, error) {
	if limit <= 0 {
		limit = 10
	}
	var users []game.User
	err := r.db.Model(&game.User{}).
		Order("wins DESC").
		Order("sessions_played DESC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *sqliteRepository) UpdateStatsOnSessionEnd(s *game.Session, resigned bool) error {
	if s.PlayerEmail == "" || s.StatsCounted {
		return nil
	}
	var u game.User
	if err := r.db.Where("email = ?", s.PlayerEmail).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			u = game.User{Email: s.PlayerEmail, PlayerName: s.PlayerName}
		} else {
			return err
		}
	}
	u.SessionsPlayed++
	if s.WinSide == s.PlayerSide {
		u.Wins++
	}
	if resigned {
		u.Resignations++
	}
	if err := r.db.Save(&u).Error; err != nil {
		return err
	}
	s.StatsCounted = true
	return r.db.Model(s).Update("stats_counted", true).Error
}

func (r *sqliteRepository) FindTimedOutSessions(now time.Time) ([]game.Session, error) {
	var sessions []game.Session
	err := r.preloaded().
		Where("status = ? AND action_deadline <= ? AND action_deadline > ?",
			game.StatusInProgress, now, time.Time{}).
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}
