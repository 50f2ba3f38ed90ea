package service

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"automacorp-client/internal/domain/model"
	"automacorp-client/internal/ports"
)

// RoomList is the list-level state observed by the presentation layer. A
// failed load leaves Rooms empty and Err set; failures are never raised to
// the caller directly.
type RoomList struct {
	Rooms []model.Room
	Err   string
}

// RoomSync owns the current-room and room-list state and reconciles it with
// a RoomService. Every mutation re-fetches authoritative state rather than
// merging locally, except Commit, which trusts the server's response body.
//
// Edits are held as a pending copy next to the last server-confirmed value;
// a failed commit restores the confirmed value instead of clearing the room.
type RoomSync struct {
	svc    ports.RoomService
	logger *zap.Logger

	mu        sync.RWMutex
	confirmed *model.Room
	pending   *model.Room
	lastErr   error
	roomList  RoomList

	// generation counters; a fetch superseded by a newer one must not write
	roomGen uint64
	listGen uint64

	onChange func()
}

func NewRoomSync(svc ports.RoomService, logger *zap.Logger) *RoomSync {
	return &RoomSync{svc: svc, logger: logger}
}

// OnChange registers a callback invoked after every state update. Intended
// for the presentation layer; not required.
func (c *RoomSync) OnChange(fn func()) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// LoadAll fetches every room, sorted by name. On failure the list becomes
// empty with a human-readable error; LoadAll itself never returns one.
func (c *RoomSync) LoadAll(ctx context.Context) {
	c.mu.Lock()
	c.listGen++
	gen := c.listGen
	c.mu.Unlock()

	rooms, err := c.svc.FindAll(ctx)

	c.mu.Lock()
	if gen != c.listGen {
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.roomList = RoomList{Rooms: []model.Room{}, Err: ports.UserMessage(err)}
	} else {
		sort.Slice(rooms, func(i, j int) bool { return rooms[i].Name < rooms[j].Name })
		c.roomList = RoomList{Rooms: rooms}
	}
	c.mu.Unlock()
	c.notify()
}

// LoadOne fetches a single room into the current-room state. Any failure
// clears the current room; the typed cause stays available via LastError.
func (c *RoomSync) LoadOne(ctx context.Context, id int64) {
	c.mu.Lock()
	c.roomGen++
	gen := c.roomGen
	c.mu.Unlock()

	room, err := c.svc.FindByID(ctx, id)

	c.mu.Lock()
	if gen != c.roomGen {
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.confirmed = nil
		c.pending = nil
		c.lastErr = err
	} else {
		fetched := room.Clone()
		c.confirmed = &fetched
		c.pending = nil
		c.lastErr = nil
	}
	c.mu.Unlock()
	c.notify()
}

// ApplyLocalEdit replaces the displayed room with an optimistic copy, no
// network call. Bounds are enforced at the presentation boundary, not here.
func (c *RoomSync) ApplyLocalEdit(room model.Room) {
	edit := room.Clone()
	c.mu.Lock()
	c.pending = &edit
	c.mu.Unlock()
	c.notify()
}

// Commit pushes the given room through the update endpoint, rounding the
// target temperature to one decimal. On success the server's representation
// becomes the current room, even where it differs from the optimistic edit;
// on failure the last confirmed value is restored and the edit is dropped.
func (c *RoomSync) Commit(ctx context.Context, id int64, room model.Room) {
	cmd := model.RoomCommand{
		Name:               room.Name,
		CurrentTemperature: room.CurrentTemperature,
	}
	if room.TargetTemperature != nil {
		cmd.TargetTemperature = model.Float64(model.RoundTemperature(*room.TargetTemperature))
	}

	updated, err := c.svc.Update(ctx, id, cmd)

	c.mu.Lock()
	c.roomGen++
	if err != nil {
		c.pending = nil
		c.lastErr = err
		c.logger.Warn("room update failed, restoring confirmed state",
			zap.Int64("room_id", id), zap.Error(err))
	} else {
		fetched := updated.Clone()
		c.confirmed = &fetched
		c.pending = nil
		c.lastErr = nil
	}
	c.mu.Unlock()
	c.notify()
}

// Create adds a room and refreshes the whole list on success; a failure is
// recorded on the list state without touching the rooms already shown.
func (c *RoomSync) Create(ctx context.Context, cmd model.RoomCommand) {
	if _, err := c.svc.Create(ctx, cmd); err != nil {
		c.mu.Lock()
		c.roomList.Err = ports.UserMessage(err)
		c.mu.Unlock()
		c.notify()
		return
	}
	c.LoadAll(ctx)
}

// Delete removes a room and refreshes the list on success, also dropping the
// deleted room from the current selection. On failure the stale entry stays
// visible and the error is recorded on the list state.
func (c *RoomSync) Delete(ctx context.Context, id int64) {
	if err := c.svc.Delete(ctx, id); err != nil {
		c.mu.Lock()
		c.roomList.Err = ports.UserMessage(err)
		c.mu.Unlock()
		c.notify()
		return
	}

	c.mu.Lock()
	if c.currentLocked() != nil && c.currentLocked().ID == id {
		c.roomGen++
		c.confirmed = nil
		c.pending = nil
	}
	c.mu.Unlock()
	c.LoadAll(ctx)
}

// SetWindowStatus toggles a window and, on success, re-fetches the owning
// room so server-computed fields stay authoritative. Failures are logged and
// otherwise ignored; no state changes.
func (c *RoomSync) SetWindowStatus(ctx context.Context, windowID int64, status model.WindowStatus) {
	if _, err := c.svc.UpdateWindowStatus(ctx, windowID, model.WindowCommand{Status: status}); err != nil {
		c.logger.Warn("window update failed, state unchanged",
			zap.Int64("window_id", windowID), zap.Error(err))
		return
	}

	c.mu.RLock()
	current := c.currentLocked()
	var roomID int64
	if current != nil {
		roomID = current.ID
	}
	c.mu.RUnlock()

	if current != nil {
		c.LoadOne(ctx, roomID)
	}
}

// CurrentRoom returns the pending edit when one exists, otherwise the last
// confirmed room, otherwise nil.
func (c *RoomSync) CurrentRoom() *model.Room {
	c.mu.RLock()
	defer c.mu.RUnlock()
	room := c.currentLocked()
	if room == nil {
		return nil
	}
	current := room.Clone()
	return &current
}

func (c *RoomSync) currentLocked() *model.Room {
	if c.pending != nil {
		return c.pending
	}
	return c.confirmed
}

func (c *RoomSync) Rooms() RoomList {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rooms := make([]model.Room, len(c.roomList.Rooms))
	copy(rooms, c.roomList.Rooms)
	return RoomList{Rooms: rooms, Err: c.roomList.Err}
}

// LastError reports the typed cause of the last current-room failure, so a
// caller can tell a 404 from an unreachable service if it wants to.
func (c *RoomSync) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

func (c *RoomSync) notify() {
	c.mu.RLock()
	fn := c.onChange
	c.mu.RUnlock()
	if fn != nil {
		fn()
	}
}
