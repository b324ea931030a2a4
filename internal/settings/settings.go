// Package settings persists the operator's local preferences: the session
// token, the remembered default product, the sales page title and the app
// background color. It replaces ad hoc browser-storage reads with one
// store that is read at startup and written only through explicit updates
// (login/logout and the settings screen).
package settings

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// Known setting keys.
const (
	KeyToken           = "token"
	KeyProductID       = "productId"
	KeySalesTitle      = "salesTitle"
	KeyBackgroundColor = "appBackgroundColor"
)

// Settings is the startup snapshot of all persisted values.
type Settings struct {
	Token            string `json:"-"`
	DefaultProductID string `json:"productId"`
	SalesTitle       string `json:"salesTitle"`
	BackgroundColor  string `json:"appBackgroundColor"`
}

type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Load reads the full settings snapshot. Missing keys load as empty
// strings.
func (s *Store) Load() (Settings, error) {
	var out Settings
	for key, dest := range map[string]*string{
		KeyToken:           &out.Token,
		KeyProductID:       &out.DefaultProductID,
		KeySalesTitle:      &out.SalesTitle,
		KeyBackgroundColor: &out.BackgroundColor,
	} {
		value, err := s.get(key)
		if err != nil {
			return Settings{}, err
		}
		*dest = value
	}
	return out, nil
}

func (s *Store) get(key string) (string, error) {
	var value string
	err := s.db.Get(&value, `SELECT value FROM settings WHERE key = $1`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

// Set upserts one setting.
func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(`INSERT INTO settings (key, value, updated_at) VALUES ($1, $2, CURRENT_TIMESTAMP)
        ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`, key, value)
	return err
}

func (s *Store) SetToken(token string) error {
	return s.Set(KeyToken, token)
}

// ClearToken removes the persisted session, used on logout and on any 401.
func (s *Store) ClearToken() error {
	return s.Set(KeyToken, "")
}
