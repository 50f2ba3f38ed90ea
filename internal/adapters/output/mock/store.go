package mock

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"sync"

	"automacorp-client/internal/domain/model"
	"automacorp-client/internal/ports"
)

var (
	roomKinds   = []string{"Room", "Meeting", "Laboratory", "Office", "Boardroom"}
	windowKinds = []string{"Sliding", "Bay", "Casement", "Hung", "Fixed"}
)

// DefaultRoomCount matches the data set the mobile prototype shipped with.
const DefaultRoomCount = 50

// Store is an in-memory RoomService for prototyping without a backend.
// The shape is deterministic (room count, 1-6 windows each, sequential ids);
// the content is drawn from the seed.
type Store struct {
	mu           sync.RWMutex
	rooms        []model.Room
	nextRoomID   int64
	nextWindowID int64
	rng          *rand.Rand
}

func NewStore(roomCount int, seed int64) *Store {
	s := &Store{
		nextRoomID:   1,
		nextWindowID: 1,
		rng:          rand.New(rand.NewSource(seed)),
	}
	for i := 0; i < roomCount; i++ {
		s.rooms = append(s.rooms, s.generateRoom())
	}
	return s
}

func (s *Store) generateRoom() model.Room {
	id := s.nextRoomID
	s.nextRoomID++
	letter := rune('A' + s.rng.Intn(26))
	name := fmt.Sprintf("%c%d %s", letter, id, roomKinds[s.rng.Intn(len(roomKinds))])

	count := 1 + s.rng.Intn(6)
	windows := make([]model.Window, 0, count)
	for i := 0; i < count; i++ {
		windows = append(windows, s.generateWindow(id, name))
	}

	return model.Room{
		ID:                 id,
		Name:               name,
		CurrentTemperature: model.Float64(float64(15 + s.rng.Intn(16))),
		TargetTemperature:  model.Float64(float64(15 + s.rng.Intn(8))),
		Windows:            windows,
	}
}

func (s *Store) generateWindow(roomID int64, roomName string) model.Window {
	id := s.nextWindowID
	s.nextWindowID++
	status := model.WindowClosed
	if s.rng.Intn(2) == 0 {
		status = model.WindowOpened
	}
	return model.Window{
		ID:       id,
		Name:     fmt.Sprintf("%s Window %d", windowKinds[s.rng.Intn(len(windowKinds))], id),
		RoomID:   roomID,
		RoomName: roomName,
		Status:   status,
	}
}

// FindAll returns every room sorted by name, regardless of insertion order.
func (s *Store) FindAll(ctx context.Context) ([]model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rooms := make([]model.Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		rooms = append(rooms, r.Clone())
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].Name < rooms[j].Name })
	return rooms, nil
}

func (s *Store) FindByID(ctx context.Context, id int64) (*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.rooms {
		if r.ID == id {
			room := r.Clone()
			return &room, nil
		}
	}
	return nil, ports.NotFound()
}

func (s *Store) FindByName(ctx context.Context, name string) (*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.rooms {
		if r.Name == name {
			room := r.Clone()
			return &room, nil
		}
	}
	return nil, ports.NotFound()
}

// FindByNameOrID resolves a digits-only string as an id and anything else as
// a name. An empty string resolves to nothing.
func (s *Store) FindByNameOrID(ctx context.Context, nameOrID string) (*model.Room, error) {
	if nameOrID == "" {
		return nil, ports.NotFound()
	}
	if id, err := strconv.ParseInt(nameOrID, 10, 64); err == nil {
		return s.FindByID(ctx, id)
	}
	return s.FindByName(ctx, nameOrID)
}

func (s *Store) Create(ctx context.Context, cmd model.RoomCommand) (*model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room := model.Room{
		ID:                 s.nextRoomID,
		Name:               cmd.Name,
		CurrentTemperature: cloneFloat(cmd.CurrentTemperature),
		TargetTemperature:  cloneFloat(cmd.TargetTemperature),
		Windows:            []model.Window{},
	}
	s.nextRoomID++
	s.rooms = append(s.rooms, room)
	result := room.Clone()
	return &result, nil
}

// Update is an upsert: it replaces the room when the id exists (windows are
// kept, they are not part of the command) and appends a new room otherwise.
func (s *Store) Update(ctx context.Context, id int64, cmd model.RoomCommand) (*model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.rooms {
		if r.ID == id {
			updated := r.Clone()
			updated.Name = cmd.Name
			updated.TargetTemperature = cloneFloat(cmd.TargetTemperature)
			updated.CurrentTemperature = cloneFloat(cmd.CurrentTemperature)
			s.rooms[i] = updated
			result := updated.Clone()
			return &result, nil
		}
	}

	room := model.Room{
		ID:                 id,
		Name:               cmd.Name,
		CurrentTemperature: cloneFloat(cmd.CurrentTemperature),
		TargetTemperature:  cloneFloat(cmd.TargetTemperature),
		Windows:            []model.Window{},
	}
	s.rooms = append(s.rooms, room)
	if id >= s.nextRoomID {
		s.nextRoomID = id + 1
	}
	result := room.Clone()
	return &result, nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.rooms {
		if r.ID == id {
			s.rooms = append(s.rooms[:i], s.rooms[i+1:]...)
			return nil
		}
	}
	return ports.NotFound()
}

func (s *Store) FindWindowsByRoomID(ctx context.Context, roomID int64) ([]model.Window, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.rooms {
		if r.ID == roomID {
			windows := make([]model.Window, len(r.Windows))
			copy(windows, r.Windows)
			return windows, nil
		}
	}
	return nil, ports.NotFound()
}

func (s *Store) UpdateWindowStatus(ctx context.Context, windowID int64, cmd model.WindowCommand) (*model.Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.rooms {
		for j := range s.rooms[i].Windows {
			if s.rooms[i].Windows[j].ID == windowID {
				s.rooms[i].Windows[j].Status = cmd.Status
				window := s.rooms[i].Windows[j]
				return &window, nil
			}
		}
	}
	return nil, ports.NotFound()
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	value := *v
	return &value
}
