package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"automacorp-client/internal/domain/model"
	"automacorp-client/internal/ports"
)

type MockRoomService struct {
	mock.Mock
}

func (m *MockRoomService) FindAll(ctx context.Context) ([]model.Room, error) {
	args := m.Called(ctx)
	if rooms := args.Get(0); rooms != nil {
		return rooms.([]model.Room), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRoomService) FindByID(ctx context.Context, id int64) (*model.Room, error) {
	args := m.Called(ctx, id)
	if room := args.Get(0); room != nil {
		return room.(*model.Room), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRoomService) Create(ctx context.Context, cmd model.RoomCommand) (*model.Room, error) {
	args := m.Called(ctx, cmd)
	if room := args.Get(0); room != nil {
		return room.(*model.Room), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRoomService) Update(ctx context.Context, id int64, cmd model.RoomCommand) (*model.Room, error) {
	args := m.Called(ctx, id, cmd)
	if room := args.Get(0); room != nil {
		return room.(*model.Room), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRoomService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRoomService) FindWindowsByRoomID(ctx context.Context, roomID int64) ([]model.Window, error) {
	args := m.Called(ctx, roomID)
	if windows := args.Get(0); windows != nil {
		return windows.([]model.Window), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRoomService) UpdateWindowStatus(ctx context.Context, windowID int64, cmd model.WindowCommand) (*model.Window, error) {
	args := m.Called(ctx, windowID, cmd)
	if window := args.Get(0); window != nil {
		return window.(*model.Window), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestRoomSync_LoadAllSortsByName(t *testing.T) {
	svc := new(MockRoomService)
	svc.On("FindAll", mock.Anything).Return([]model.Room{
		{ID: 2, Name: "B2 Office"},
		{ID: 1, Name: "A1 Meeting"},
	}, nil)

	c := NewRoomSync(svc, zap.NewNop())
	c.LoadAll(context.Background())

	state := c.Rooms()
	assert.Empty(t, state.Err)
	assert.Len(t, state.Rooms, 2)
	assert.Equal(t, "A1 Meeting", state.Rooms[0].Name)
	assert.Equal(t, "B2 Office", state.Rooms[1].Name)
}

func TestRoomSync_LoadAllTransportError(t *testing.T) {
	svc := new(MockRoomService)
	svc.On("FindAll", mock.Anything).Return(nil, ports.Unreachable(assert.AnError))

	c := NewRoomSync(svc, zap.NewNop())
	c.LoadAll(context.Background())

	state := c.Rooms()
	assert.Empty(t, state.Rooms)
	assert.NotEmpty(t, state.Err)
}

func TestRoomSync_LoadOneNotFoundClearsRoom(t *testing.T) {
	svc := new(MockRoomService)
	svc.On("FindByID", mock.Anything, int64(9)).Return(nil, ports.NotFound())

	c := NewRoomSync(svc, zap.NewNop())
	c.LoadOne(context.Background(), 9)

	assert.Nil(t, c.CurrentRoom())
	assert.True(t, ports.IsNotFound(c.LastError()))
}

func TestRoomSync_CommitRoundsTargetTemperature(t *testing.T) {
	svc := new(MockRoomService)
	updated := model.Room{ID: 1, Name: "A1 Meeting", TargetTemperature: model.Float64(18.0)}
	svc.On("Update", mock.Anything, int64(1), mock.MatchedBy(func(cmd model.RoomCommand) bool {
		return cmd.TargetTemperature != nil && *cmd.TargetTemperature == 18.0
	})).Return(&updated, nil)

	c := NewRoomSync(svc, zap.NewNop())
	c.Commit(context.Background(), 1, model.Room{
		ID:                1,
		Name:              "A1 Meeting",
		TargetTemperature: model.Float64(17.96),
	})

	svc.AssertExpectations(t)
}

func TestRoomSync_CommitTakesServerBody(t *testing.T) {
	svc := new(MockRoomService)
	// the server recomputed the current temperature; its body wins
	serverRoom := model.Room{
		ID:                 1,
		Name:               "A1 Meeting",
		CurrentTemperature: model.Float64(21.5),
		TargetTemperature:  model.Float64(19.0),
	}
	svc.On("Update", mock.Anything, int64(1), mock.Anything).Return(&serverRoom, nil)

	c := NewRoomSync(svc, zap.NewNop())
	c.ApplyLocalEdit(model.Room{ID: 1, Name: "A1 Meeting", CurrentTemperature: model.Float64(99)})
	c.Commit(context.Background(), 1, model.Room{ID: 1, Name: "A1 Meeting", TargetTemperature: model.Float64(19.0)})

	room := c.CurrentRoom()
	assert.NotNil(t, room)
	assert.Equal(t, 21.5, *room.CurrentTemperature)
	assert.Equal(t, 19.0, *room.TargetTemperature)
}

func TestRoomSync_CommitFailureRestoresConfirmed(t *testing.T) {
	svc := new(MockRoomService)
	confirmed := model.Room{ID: 1, Name: "A1 Meeting", TargetTemperature: model.Float64(19.0)}
	svc.On("FindByID", mock.Anything, int64(1)).Return(&confirmed, nil)
	svc.On("Update", mock.Anything, int64(1), mock.Anything).Return(nil, ports.Rejected(500, "boom"))

	c := NewRoomSync(svc, zap.NewNop())
	c.LoadOne(context.Background(), 1)

	edited := confirmed.Clone()
	edited.TargetTemperature = model.Float64(25.0)
	c.ApplyLocalEdit(edited)
	c.Commit(context.Background(), 1, edited)

	room := c.CurrentRoom()
	assert.NotNil(t, room)
	assert.Equal(t, 19.0, *room.TargetTemperature)
	assert.Error(t, c.LastError())
}

func TestRoomSync_ApplyLocalEditNoNetwork(t *testing.T) {
	svc := new(MockRoomService)

	c := NewRoomSync(svc, zap.NewNop())
	c.ApplyLocalEdit(model.Room{ID: 4, Name: "D4 Laboratory"})

	room := c.CurrentRoom()
	assert.NotNil(t, room)
	assert.Equal(t, "D4 Laboratory", room.Name)
	svc.AssertNotCalled(t, "Update")
	svc.AssertNotCalled(t, "FindByID")
}

func TestRoomSync_SetWindowStatusRefetchesRoom(t *testing.T) {
	svc := new(MockRoomService)
	room := model.Room{ID: 7, Name: "G7 Boardroom", Windows: []model.Window{
		{ID: 12, Name: "Bay Window 12", RoomID: 7, RoomName: "G7 Boardroom", Status: model.WindowClosed},
	}}
	window := room.Windows[0]
	window.Status = model.WindowOpened
	svc.On("FindByID", mock.Anything, int64(7)).Return(&room, nil)
	svc.On("UpdateWindowStatus", mock.Anything, int64(12), model.WindowCommand{Status: model.WindowOpened}).
		Return(&window, nil)

	c := NewRoomSync(svc, zap.NewNop())
	c.LoadOne(context.Background(), 7)
	c.SetWindowStatus(context.Background(), 12, model.WindowOpened)

	// one initial fetch plus exactly one follow-up fetch of the owning room
	svc.AssertNumberOfCalls(t, "FindByID", 2)
}

func TestRoomSync_SetWindowStatusFailureLeavesStateUntouched(t *testing.T) {
	svc := new(MockRoomService)
	room := model.Room{ID: 7, Name: "G7 Boardroom"}
	svc.On("FindByID", mock.Anything, int64(7)).Return(&room, nil)
	svc.On("UpdateWindowStatus", mock.Anything, int64(12), mock.Anything).
		Return(nil, ports.Unreachable(assert.AnError))

	c := NewRoomSync(svc, zap.NewNop())
	c.LoadOne(context.Background(), 7)
	c.SetWindowStatus(context.Background(), 12, model.WindowOpened)

	svc.AssertNumberOfCalls(t, "FindByID", 1)
	current := c.CurrentRoom()
	assert.NotNil(t, current)
	assert.Equal(t, "G7 Boardroom", current.Name)
}

func TestRoomSync_CreateRefreshesList(t *testing.T) {
	svc := new(MockRoomService)
	created := model.Room{ID: 3, Name: "C3 Room"}
	svc.On("Create", mock.Anything, mock.Anything).Return(&created, nil)
	svc.On("FindAll", mock.Anything).Return([]model.Room{created}, nil)

	c := NewRoomSync(svc, zap.NewNop())
	c.Create(context.Background(), model.RoomCommand{Name: "C3 Room"})

	state := c.Rooms()
	assert.Empty(t, state.Err)
	assert.Len(t, state.Rooms, 1)
	svc.AssertNumberOfCalls(t, "FindAll", 1)
}

func TestRoomSync_CreateFailureKeepsRooms(t *testing.T) {
	svc := new(MockRoomService)
	svc.On("FindAll", mock.Anything).Return([]model.Room{{ID: 1, Name: "A1 Meeting"}}, nil)
	svc.On("Create", mock.Anything, mock.Anything).Return(nil, ports.Rejected(500, "boom"))

	c := NewRoomSync(svc, zap.NewNop())
	c.LoadAll(context.Background())
	c.Create(context.Background(), model.RoomCommand{Name: "C3 Room"})

	state := c.Rooms()
	assert.Len(t, state.Rooms, 1)
	assert.NotEmpty(t, state.Err)
	svc.AssertNumberOfCalls(t, "FindAll", 1)
}

func TestRoomSync_DeleteDropsSelection(t *testing.T) {
	svc := new(MockRoomService)
	room := model.Room{ID: 5, Name: "E5 Office"}
	svc.On("FindByID", mock.Anything, int64(5)).Return(&room, nil)
	svc.On("Delete", mock.Anything, int64(5)).Return(nil)
	svc.On("FindAll", mock.Anything).Return([]model.Room{}, nil)

	c := NewRoomSync(svc, zap.NewNop())
	c.LoadOne(context.Background(), 5)
	c.Delete(context.Background(), 5)

	assert.Nil(t, c.CurrentRoom())
	svc.AssertNumberOfCalls(t, "FindAll", 1)
}

func TestRoomSync_DeleteFailureKeepsStaleEntry(t *testing.T) {
	svc := new(MockRoomService)
	svc.On("FindAll", mock.Anything).Return([]model.Room{{ID: 5, Name: "E5 Office"}}, nil)
	svc.On("Delete", mock.Anything, int64(5)).Return(ports.Unreachable(assert.AnError))

	c := NewRoomSync(svc, zap.NewNop())
	c.LoadAll(context.Background())
	c.Delete(context.Background(), 5)

	state := c.Rooms()
	assert.Len(t, state.Rooms, 1)
	assert.NotEmpty(t, state.Err)
}

// blockingService lets a test hold a FindByID call open while a newer one
// completes, to exercise the superseded-fetch guard.
type blockingService struct {
	*MockRoomService
	findByID func(ctx context.Context, id int64) (*model.Room, error)
}

func (s *blockingService) FindByID(ctx context.Context, id int64) (*model.Room, error) {
	return s.findByID(ctx, id)
}

func TestRoomSync_SupersededFetchDoesNotWrite(t *testing.T) {
	first := model.Room{ID: 1, Name: "A1 Meeting"}
	second := model.Room{ID: 2, Name: "B2 Office"}

	entered := make(chan struct{})
	release := make(chan struct{})
	svc := &blockingService{MockRoomService: new(MockRoomService)}
	svc.findByID = func(ctx context.Context, id int64) (*model.Room, error) {
		if id == 1 {
			close(entered)
			<-release
			return &first, nil
		}
		return &second, nil
	}

	c := NewRoomSync(svc, zap.NewNop())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.LoadOne(context.Background(), 1)
	}()
	<-entered

	c.LoadOne(context.Background(), 2)
	close(release)
	wg.Wait()

	room := c.CurrentRoom()
	assert.NotNil(t, room)
	assert.Equal(t, int64(2), room.ID)
}
