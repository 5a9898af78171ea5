package models

import (
	"time"
)

// User is a registered player, keyed by Discord ID
type User struct {
	DiscordID int64     `db:"discord_id"`
	Username  string    `db:"username"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
