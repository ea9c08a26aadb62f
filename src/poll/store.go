package poll

import (
	"context"
	"errors"

	"github.com/dinopoll/dinopoll/src/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the persistence seam for polls. Data comes back as plain records;
// all behavior lives in the service.
type Store interface {
	GetPoll(ctx context.Context, id uint64) (*types.Poll, error)
	CreatePoll(ctx context.Context, p *types.Poll) error
	SetTimestamp(ctx context.Context, id uint64, ts string) error
	SetOpen(ctx context.Context, id uint64, open bool) error
	AddOption(ctx context.Context, o *types.PollOption) error
	ToggleVote(ctx context.Context, pollID, optionID uint64, multipleVotes bool, user string) error
	FindToken(ctx context.Context, token string) (*types.Token, error)
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// GetPoll loads the poll aggregate: options in creation order, each with its
// votes in cast order, plus the poll-level vote list for totals.
func (s *GormStore) GetPoll(ctx context.Context, id uint64) (*types.Poll, error) {
	var p types.Poll
	err := s.db.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("Options.Votes", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Preload("Votes").
		First(&p, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *GormStore) CreatePoll(ctx context.Context, p *types.Poll) error {
	return s.db.WithContext(ctx).Create(p).Error
}

func (s *GormStore) SetTimestamp(ctx context.Context, id uint64, ts string) error {
	return s.db.WithContext(ctx).Model(&types.Poll{}).Where("id = ?", id).
		Update("timestamp", ts).Error
}

func (s *GormStore) SetOpen(ctx context.Context, id uint64, open bool) error {
	return s.db.WithContext(ctx).Model(&types.Poll{}).Where("id = ?", id).
		Update("open", open).Error
}

func (s *GormStore) AddOption(ctx context.Context, o *types.PollOption) error {
	return s.db.WithContext(ctx).Create(o).Error
}

// ToggleVote applies the toggle state machine inside a transaction. The
// SELECT ... FOR UPDATE on the user's votes serializes concurrent clicks on
// the same poll, and the unique index on (poll, option, user) backstops any
// insert that still slips through.
func (s *GormStore) ToggleVote(ctx context.Context, pollID, optionID uint64, multipleVotes bool, user string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []types.Vote
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("poll_id = ? AND user = ?", pollID, user).
			Order("id ASC").
			Find(&existing).Error
		if err != nil {
			return err
		}

		act := resolveToggle(multipleVotes, existing, optionID)
		if len(act.remove) > 0 {
			if err := tx.Delete(&types.Vote{}, act.remove).Error; err != nil {
				return err
			}
		}
		if act.create {
			return tx.Create(&types.Vote{PollID: pollID, OptionID: optionID, User: user}).Error
		}
		return nil
	})
}

func (s *GormStore) FindToken(ctx context.Context, token string) (*types.Token, error) {
	var t types.Token
	err := s.db.WithContext(ctx).First(&t, "token = ?", token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}
