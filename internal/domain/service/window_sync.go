package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"automacorp-client/internal/domain/model"
	"automacorp-client/internal/ports"
)

// WindowList is the per-room window state observed by the presentation layer.
type WindowList struct {
	Windows []model.Window
	Err     string
}

// WindowSync owns a room's window list. Unlike RoomSync's fire-and-forget
// window path, a failed toggle here keeps the stale list visible and records
// the error next to it.
type WindowSync struct {
	svc    ports.RoomService
	logger *zap.Logger

	mu    sync.RWMutex
	state WindowList
	gen   uint64
}

func NewWindowSync(svc ports.RoomService, logger *zap.Logger) *WindowSync {
	return &WindowSync{svc: svc, logger: logger}
}

func (c *WindowSync) LoadWindows(ctx context.Context, roomID int64) {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	windows, err := c.svc.FindWindowsByRoomID(ctx, roomID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	if err != nil {
		c.state = WindowList{Windows: []model.Window{}, Err: ports.UserMessage(err)}
		return
	}
	c.state = WindowList{Windows: windows}
}

// SetWindowStatus toggles a window and re-fetches the owning room's windows
// on success. The window's RoomID is the weak back-reference used for the
// re-query.
func (c *WindowSync) SetWindowStatus(ctx context.Context, windowID int64, window model.Window, status model.WindowStatus) {
	_, err := c.svc.UpdateWindowStatus(ctx, windowID, model.WindowCommand{Status: status})
	if err != nil {
		c.logger.Warn("window update failed",
			zap.Int64("window_id", windowID), zap.Error(err))
		c.mu.Lock()
		c.state = WindowList{Windows: c.state.Windows, Err: ports.UserMessage(err)}
		c.mu.Unlock()
		return
	}
	c.LoadWindows(ctx, window.RoomID)
}

func (c *WindowSync) Windows() WindowList {
	c.mu.RLock()
	defer c.mu.RUnlock()
	windows := make([]model.Window, len(c.state.Windows))
	copy(windows, c.state.Windows)
	return WindowList{Windows: windows, Err: c.state.Err}
}
