package models

// TicketSettings is the ticket configuration of one guild
type TicketSettings struct {
	CategoryID    string `bson:"category_id" json:"category_id"`
	SupportRoleID string `bson:"support_role_id" json:"support_role_id"`
}

// LogSettings is the audit log configuration of one guild
type LogSettings struct {
	LogsChannelID string `bson:"logs_channel_id" json:"logs_channel_id"`
}

// VoiceSettings is the temporary voice configuration of one guild
type VoiceSettings struct {
	HubChannelID string `bson:"hub_channel_id" json:"hub_channel_id"`
}

// GuildSettings groups every setting of one guild, used for display and the web API
type GuildSettings struct {
	GuildID string          `json:"guild_id"`
	Tickets *TicketSettings `json:"tickets,omitempty"`
	Logs    *LogSettings    `json:"logs,omitempty"`
	Voice   *VoiceSettings  `json:"voice,omitempty"`
}

// StoredDocument is one named configuration value in the "stored_config" collection.
// Data holds the JSON encoding so every backend shares the same format.
type StoredDocument struct {
	Name      string `bson:"_id" json:"name"`
	Data      string `bson:"data" json:"data"`
	UpdatedAt int64  `bson:"updated_at" json:"updated_at"`
}
