package models

import (
	"time"
)

// User is a site member identified by their Discord account
type User struct {
	ID           int64     `db:"id"`
	DiscordID    string    `db:"discord_id"`
	DisplayName  string    `db:"display_name"`
	GameUsername *string   `db:"game_username"`
	Balance      int64     `db:"balance"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
