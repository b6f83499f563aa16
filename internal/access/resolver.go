package access

import (
	"context"
	"errors"

	"taskboard/internal/model"

	"github.com/google/uuid"
)

// ErrNotFound is returned when the resource being classified does not exist.
var ErrNotFound = errors.New("resource not found")

type BoardSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Board, error)
}

type MemberSource interface {
	GetRole(ctx context.Context, boardID, userID uuid.UUID) (string, error)
}

type CardSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Card, error)
}

type ListSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.List, error)
}

// Resolver classifies a user against a board. It never enforces anything and
// never consults the system role; enforcement and the admin override belong
// to Authorize.
type Resolver struct {
	boards  BoardSource
	members MemberSource
	lists   ListSource
	cards   CardSource
}

func NewResolver(boards BoardSource, members MemberSource, lists ListSource, cards CardSource) *Resolver {
	return &Resolver{boards: boards, members: members, lists: lists, cards: cards}
}

// Role classifies userID against an already-loaded board: owner when the
// board's creator, otherwise the stored membership role, otherwise none.
func (r *Resolver) Role(ctx context.Context, userID uuid.UUID, board *model.Board) (Role, error) {
	if board.OwnerID == userID {
		return RoleOwner, nil
	}
	stored, err := r.members.GetRole(ctx, board.ID, userID)
	if err != nil {
		return RoleNone, err
	}
	return RoleFromString(stored), nil
}

// BoardRole loads the board and classifies userID against it.
func (r *Resolver) BoardRole(ctx context.Context, userID, boardID uuid.UUID) (Role, error) {
	board, err := r.boards.GetByID(ctx, boardID)
	if err != nil {
		return RoleNone, err
	}
	if board == nil {
		return RoleNone, ErrNotFound
	}
	return r.Role(ctx, userID, board)
}

// BoardForList walks list -> board. Returns nil when either link is missing.
func (r *Resolver) BoardForList(ctx context.Context, listID uuid.UUID) (*model.Board, error) {
	list, err := r.lists.GetByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, nil
	}
	return r.boards.GetByID(ctx, list.BoardID)
}

// BoardForCard walks card -> list -> board. Card-level assignment rows are
// deliberately not consulted: assignment is responsibility, not access.
func (r *Resolver) BoardForCard(ctx context.Context, cardID uuid.UUID) (*model.Board, error) {
	card, err := r.cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, nil
	}
	return r.BoardForList(ctx, card.ListID)
}

// CardRole resolves the user's role on the board owning cardID.
func (r *Resolver) CardRole(ctx context.Context, userID, cardID uuid.UUID) (Role, error) {
	board, err := r.BoardForCard(ctx, cardID)
	if err != nil {
		return RoleNone, err
	}
	if board == nil {
		return RoleNone, ErrNotFound
	}
	return r.Role(ctx, userID, board)
}
