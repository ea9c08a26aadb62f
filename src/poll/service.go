package poll

import (
	"context"
	"fmt"
	"log"

	"github.com/dinopoll/dinopoll/src/render"
	"github.com/dinopoll/dinopoll/src/types"
	"github.com/slack-go/slack"
)

// Fallback text for clients that cannot render blocks.
const fallbackText = "This message can't be displayed in your client."

// Messenger is the outbound chat seam. Implemented by chat.Client.
type Messenger interface {
	PostMessage(ctx context.Context, channel string, blocks []slack.Block, fallback string) (string, error)
	UpdateMessage(ctx context.Context, channel, ts string, blocks []slack.Block, fallback string) error
	PostEphemeral(ctx context.Context, channel, user string, blocks []slack.Block, fallback string) error
}

// Guard deduplicates interaction deliveries and rate limits creation.
// Implemented by data.Guard; nil disables guarding.
type Guard interface {
	ClaimVote(ctx context.Context, pollID, optionID uint64, user string) bool
	AllowCreate(ctx context.Context, user string) bool
}

// Service orchestrates poll mutations and keeps the posted chat message in
// sync with the stored state.
type Service struct {
	store Store
	chat  Messenger
	guard Guard
}

func NewService(store Store, chat Messenger, guard Guard) *Service {
	return &Service{store: store, chat: chat, guard: guard}
}

// Create persists the poll with its options, posts the poll message, and
// records the message timestamp so every later change edits that one message.
// A creator, when known, gets an ephemeral confirmation.
func (s *Service) Create(ctx context.Context, p *types.Poll) (*types.Poll, error) {
	if err := s.store.CreatePoll(ctx, p); err != nil {
		return nil, fmt.Errorf("create poll: %w", err)
	}

	full, err := s.store.GetPoll(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("load poll %d: %w", p.ID, err)
	}

	ts, err := s.chat.PostMessage(ctx, full.Channel, render.Message(full), fallbackText)
	if err != nil {
		return nil, fmt.Errorf("post poll %d: %w", p.ID, err)
	}
	if err := s.store.SetTimestamp(ctx, p.ID, ts); err != nil {
		return nil, fmt.Errorf("store timestamp for poll %d: %w", p.ID, err)
	}
	full.Timestamp = ts

	if full.CreatedBy != "" {
		err := s.chat.PostEphemeral(ctx, full.Channel, full.CreatedBy,
			render.ConfirmationBlocks(full.ID),
			fmt.Sprintf("Poll successfully created! Run `/dinopoll-toggle %d` to close the poll once you're done.", full.ID))
		if err != nil {
			log.Printf("poll %d: confirmation message: %v", full.ID, err)
		}
	}

	return full, nil
}

// Refresh re-renders the poll into its existing chat message. It never posts
// a second message.
func (s *Service) Refresh(ctx context.Context, id uint64) error {
	p, err := s.store.GetPoll(ctx, id)
	if err != nil {
		return err
	}
	if p.Timestamp == "" {
		return nil
	}
	if err := s.chat.UpdateMessage(ctx, p.Channel, p.Timestamp, render.Message(p), fallbackText); err != nil {
		return fmt.Errorf("update poll %d: %w", id, err)
	}
	return nil
}

// ToggleVote casts, moves, or retracts a vote, then refreshes the message.
func (s *Service) ToggleVote(ctx context.Context, pollID, optionID uint64, user string) error {
	p, err := s.store.GetPoll(ctx, pollID)
	if err != nil {
		return err
	}
	if !p.Open {
		return ErrClosed
	}
	if !hasOption(p, optionID) {
		return ErrBadOption
	}
	if s.guard != nil && !s.guard.ClaimVote(ctx, pollID, optionID, user) {
		// Duplicate delivery of the same click; the first one won.
		return nil
	}
	if err := s.store.ToggleVote(ctx, pollID, optionID, p.MultipleVotes, user); err != nil {
		return fmt.Errorf("toggle vote on poll %d: %w", pollID, err)
	}
	return s.Refresh(ctx, pollID)
}

// AddOption appends an option to an open poll that allows it.
func (s *Service) AddOption(ctx context.Context, pollID uint64, name, user string) error {
	p, err := s.store.GetPoll(ctx, pollID)
	if err != nil {
		return err
	}
	if !p.Open {
		return ErrClosed
	}
	if !p.OthersCanAdd {
		return ErrNotAllowed
	}
	opt := &types.PollOption{PollID: pollID, Name: name, CreatedBy: user}
	if err := s.store.AddOption(ctx, opt); err != nil {
		return fmt.Errorf("add option to poll %d: %w", pollID, err)
	}
	return s.Refresh(ctx, pollID)
}

// ToggleOpen flips the open state. A non-empty user must be the creator; the
// HTTP API passes an empty user and may toggle any poll.
func (s *Service) ToggleOpen(ctx context.Context, pollID uint64, user string) error {
	p, err := s.store.GetPoll(ctx, pollID)
	if err != nil {
		return err
	}
	if user != "" && p.CreatedBy != user {
		return ErrNotFound
	}
	if err := s.store.SetOpen(ctx, pollID, !p.Open); err != nil {
		return fmt.Errorf("toggle poll %d: %w", pollID, err)
	}
	return s.Refresh(ctx, pollID)
}

func hasOption(p *types.Poll, optionID uint64) bool {
	for _, o := range p.Options {
		if o.ID == optionID {
			return true
		}
	}
	return false
}
