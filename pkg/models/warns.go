package models

// Warn representa una advertencia individual
type Warn struct {
	ID        string `bson:"id" json:"id"`
	Reason    string `bson:"reason" json:"reason"`
	Moderator string `bson:"moderator" json:"moderator"`
	Timestamp int64  `bson:"timestamp" json:"timestamp"`
}

// GuildWarns maps a user ID to their warns, oldest first
type GuildWarns map[string][]Warn

// WarnsData is the persisted shape under the "warns" key: guild ID to GuildWarns
type WarnsData map[string]GuildWarns
