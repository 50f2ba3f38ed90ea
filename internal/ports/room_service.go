package ports

import (
	"context"

	"automacorp-client/internal/domain/model"
)

// RoomService is the boundary contract of the remote room API. The resty
// client and the in-memory mock store both implement it.
type RoomService interface {
	FindAll(ctx context.Context) ([]model.Room, error)
	FindByID(ctx context.Context, id int64) (*model.Room, error)
	Create(ctx context.Context, cmd model.RoomCommand) (*model.Room, error)
	Update(ctx context.Context, id int64, cmd model.RoomCommand) (*model.Room, error)
	Delete(ctx context.Context, id int64) error
	FindWindowsByRoomID(ctx context.Context, roomID int64) ([]model.Window, error)
	UpdateWindowStatus(ctx context.Context, windowID int64, cmd model.WindowCommand) (*model.Window, error)
}
