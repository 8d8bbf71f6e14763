package postgres

import "time"

type vipStatusInsertModel struct {
	UserID    string    `db:"user_id"`
	EventID   string    `db:"event_public_id"`
	GrantedAt time.Time `db:"granted_at"`
}

type scoreUnlockInsertModel struct {
	UserID     string    `db:"user_id"`
	MatchID    string    `db:"match_public_id"`
	UnlockedAt time.Time `db:"unlocked_at"`
}

type eventVipCountRow struct {
	EventID   string `db:"event_public_id"`
	EventName string `db:"name"`
	Count     int    `db:"vip_count"`
}
