package access_test

import (
	"context"
	"testing"

	"taskboard/internal/access"
	"taskboard/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeBoards struct {
	boards map[uuid.UUID]*model.Board
}

func (f *fakeBoards) GetByID(_ context.Context, id uuid.UUID) (*model.Board, error) {
	return f.boards[id], nil
}

type fakeMembers struct {
	roles map[uuid.UUID]map[uuid.UUID]string
}

func (f *fakeMembers) GetRole(_ context.Context, boardID, userID uuid.UUID) (string, error) {
	return f.roles[boardID][userID], nil
}

type fakeLists struct {
	lists map[uuid.UUID]*model.List
}

func (f *fakeLists) GetByID(_ context.Context, id uuid.UUID) (*model.List, error) {
	return f.lists[id], nil
}

type fakeCards struct {
	cards map[uuid.UUID]*model.Card
}

func (f *fakeCards) GetByID(_ context.Context, id uuid.UUID) (*model.Card, error) {
	return f.cards[id], nil
}

type resolverFixture struct {
	resolver *access.Resolver
	ownerID  uuid.UUID
	editorID uuid.UUID
	board    *model.Board
	list     *model.List
	card     *model.Card
}

func newResolverFixture() *resolverFixture {
	ownerID := uuid.New()
	editorID := uuid.New()
	board := &model.Board{ID: uuid.New(), OwnerID: ownerID}
	list := &model.List{ID: uuid.New(), BoardID: board.ID}
	card := &model.Card{ID: uuid.New(), ListID: list.ID}

	boards := &fakeBoards{boards: map[uuid.UUID]*model.Board{board.ID: board}}
	members := &fakeMembers{roles: map[uuid.UUID]map[uuid.UUID]string{
		board.ID: {editorID: model.RoleEditor},
	}}
	lists := &fakeLists{lists: map[uuid.UUID]*model.List{list.ID: list}}
	cards := &fakeCards{cards: map[uuid.UUID]*model.Card{card.ID: card}}

	return &resolverFixture{
		resolver: access.NewResolver(boards, members, lists, cards),
		ownerID:  ownerID,
		editorID: editorID,
		board:    board,
		list:     list,
		card:     card,
	}
}

func TestResolver_OwnerBeatsStoredRole(t *testing.T) {
	f := newResolverFixture()

	role, err := f.resolver.Role(context.Background(), f.ownerID, f.board)

	assert.NoError(t, err)
	assert.Equal(t, access.RoleOwner, role)
}

func TestResolver_StoredMembershipRole(t *testing.T) {
	f := newResolverFixture()

	role, err := f.resolver.Role(context.Background(), f.editorID, f.board)

	assert.NoError(t, err)
	assert.Equal(t, access.RoleEditor, role)
}

func TestResolver_StrangerIsNone(t *testing.T) {
	f := newResolverFixture()

	role, err := f.resolver.Role(context.Background(), uuid.New(), f.board)

	assert.NoError(t, err)
	assert.Equal(t, access.RoleNone, role)
}

// Admins get no special treatment here: the resolver classifies membership
// only and the system-role override lives in Authorize.
func TestResolver_IgnoresSystemRole(t *testing.T) {
	f := newResolverFixture()
	adminID := uuid.New()

	role, err := f.resolver.Role(context.Background(), adminID, f.board)

	assert.NoError(t, err)
	assert.Equal(t, access.RoleNone, role)
}

func TestResolver_BoardRole_MissingBoard(t *testing.T) {
	f := newResolverFixture()

	_, err := f.resolver.BoardRole(context.Background(), f.ownerID, uuid.New())

	assert.ErrorIs(t, err, access.ErrNotFound)
}

func TestResolver_CardRole_WalksToBoard(t *testing.T) {
	f := newResolverFixture()

	role, err := f.resolver.CardRole(context.Background(), f.editorID, f.card.ID)

	assert.NoError(t, err)
	assert.Equal(t, access.RoleEditor, role)
}

func TestResolver_CardRole_MissingCard(t *testing.T) {
	f := newResolverFixture()

	_, err := f.resolver.CardRole(context.Background(), f.editorID, uuid.New())

	assert.ErrorIs(t, err, access.ErrNotFound)
}

func TestResolver_BoardForList(t *testing.T) {
	f := newResolverFixture()

	board, err := f.resolver.BoardForList(context.Background(), f.list.ID)
	assert.NoError(t, err)
	assert.Equal(t, f.board.ID, board.ID)

	board, err = f.resolver.BoardForList(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, board)
}
