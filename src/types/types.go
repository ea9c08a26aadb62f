package types

import "time"

type Poll struct {
	ID            uint64 `gorm:"primaryKey"`
	CreatedAt     time.Time
	CreatedBy     string `gorm:"size:32"` // Slack user id; empty for workflow-created polls
	Title         string `gorm:"size:255;not null"`
	Channel       string `gorm:"size:32;not null"`
	Anonymous     bool   `gorm:"not null;default:false"`
	MultipleVotes bool   `gorm:"not null;default:false"`
	OthersCanAdd  bool   `gorm:"not null;default:false"`
	Open          bool   `gorm:"not null;default:true"`
	Timestamp     string `gorm:"size:32"` // ts of the posted chat message, set after the first post

	Options []PollOption `gorm:"constraint:OnDelete:CASCADE"`
	Votes   []Vote       `gorm:"constraint:OnDelete:CASCADE"`
}

type PollOption struct {
	ID        uint64 `gorm:"primaryKey"`
	PollID    uint64 `gorm:"index;not null"`
	Name      string `gorm:"size:255;not null"`
	CreatedBy string `gorm:"size:32"`

	Votes []Vote `gorm:"foreignKey:OptionID;constraint:OnDelete:CASCADE"`
}

// Vote rows carry a composite unique index so the database, not the request
// path, is the arbiter when two clicks on the same option race each other.
type Vote struct {
	ID        uint64 `gorm:"primaryKey"`
	CreatedAt time.Time
	PollID    uint64 `gorm:"not null;uniqueIndex:idx_vote_once"`
	OptionID  uint64 `gorm:"not null;uniqueIndex:idx_vote_once"`
	User      string `gorm:"size:32;not null;uniqueIndex:idx_vote_once"`
}

// Token authenticates the external HTTP API. Unrelated to poll voting.
type Token struct {
	ID        uint64 `gorm:"primaryKey"`
	CreatedAt time.Time
	User      string `gorm:"size:32;not null"`
	Token     string `gorm:"size:64;not null;uniqueIndex"`
}
