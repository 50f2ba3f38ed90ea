package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"automacorp-client/internal/adapters/output/automacorp"
	"automacorp-client/internal/adapters/output/mock"
	"automacorp-client/internal/config"
	"automacorp-client/internal/domain/model"
	"automacorp-client/internal/domain/service"
	"automacorp-client/internal/logger"
	"automacorp-client/internal/ports"
)

const usage = `usage: roomctl [-mock] <command> [args]

commands:
  list                                list all rooms
  show <id|name>                      show one room (name lookup needs -mock)
  create <name> [target]              create a room
  rename <id|name> <new-name>         rename a room
  set-temp <id|name> <temperature>    set a room's target temperature
  delete <id|name>                    delete a room
  windows <roomId>                    list a room's windows
  window <roomId> <windowId> <open|close>  toggle a window
`

func main() {
	useMock := flag.Bool("mock", false, "use the in-memory store instead of the remote API")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot load configuration:", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "roomctl")
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot build logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	var svc ports.RoomService
	var store *mock.Store
	if *useMock {
		store = mock.NewStore(cfg.Mock.Rooms, time.Now().UnixNano())
		svc = store
	} else {
		svc = automacorp.NewClient(automacorp.Options{
			BaseURL:      cfg.API.BaseURL,
			Username:     cfg.API.Username,
			Password:     cfg.API.Password,
			Timeout:      cfg.APITimeout(),
			InsecureHost: cfg.API.InsecureHost,
		}, log)
	}

	app := &app{
		cfg:     cfg,
		store:   store,
		rooms:   service.NewRoomSync(svc, log),
		windows: service.NewWindowSync(svc, log),
	}
	if err := app.run(context.Background(), flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type app struct {
	cfg     *config.Config
	store   *mock.Store // nil when talking to the remote API
	rooms   *service.RoomSync
	windows *service.WindowSync
}

func (a *app) run(ctx context.Context, args []string) error {
	switch args[0] {
	case "list":
		a.rooms.LoadAll(ctx)
		return a.printList()
	case "show":
		if len(args) != 2 {
			return fmt.Errorf("usage: roomctl show <id|name>")
		}
		id, err := a.resolveID(ctx, args[1])
		if err != nil {
			return err
		}
		a.rooms.LoadOne(ctx, id)
		return a.printCurrent()
	case "create":
		if len(args) < 2 {
			return fmt.Errorf("usage: roomctl create <name> [target]")
		}
		cmd := model.RoomCommand{Name: args[1]}
		if len(args) > 2 {
			target, err := a.parseTemperature(args[2])
			if err != nil {
				return err
			}
			cmd.TargetTemperature = model.Float64(target)
		}
		a.rooms.Create(ctx, cmd)
		return a.printList()
	case "rename":
		if len(args) != 3 {
			return fmt.Errorf("usage: roomctl rename <id|name> <new-name>")
		}
		return a.edit(ctx, args[1], func(room *model.Room) {
			room.Name = args[2]
		})
	case "set-temp":
		if len(args) != 3 {
			return fmt.Errorf("usage: roomctl set-temp <id|name> <temperature>")
		}
		target, err := a.parseTemperature(args[2])
		if err != nil {
			return err
		}
		return a.edit(ctx, args[1], func(room *model.Room) {
			room.TargetTemperature = model.Float64(target)
		})
	case "delete":
		if len(args) != 2 {
			return fmt.Errorf("usage: roomctl delete <id|name>")
		}
		id, err := a.resolveID(ctx, args[1])
		if err != nil {
			return err
		}
		a.rooms.Delete(ctx, id)
		return a.printList()
	case "windows":
		if len(args) != 2 {
			return fmt.Errorf("usage: roomctl windows <roomId>")
		}
		roomID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid room id %q", args[1])
		}
		a.windows.LoadWindows(ctx, roomID)
		return a.printWindows()
	case "window":
		if len(args) != 4 {
			return fmt.Errorf("usage: roomctl window <roomId> <windowId> <open|close>")
		}
		return a.toggleWindow(ctx, args[1], args[2], args[3])
	default:
		return fmt.Errorf("unknown command %q\n\n%s", args[0], usage)
	}
}

// edit loads a room, applies an optimistic local change and commits it.
func (a *app) edit(ctx context.Context, ref string, change func(*model.Room)) error {
	id, err := a.resolveID(ctx, ref)
	if err != nil {
		return err
	}
	a.rooms.LoadOne(ctx, id)
	room := a.rooms.CurrentRoom()
	if room == nil {
		return fmt.Errorf("room %q: %s", ref, ports.UserMessage(a.rooms.LastError()))
	}
	change(room)
	a.rooms.ApplyLocalEdit(*room)
	a.rooms.Commit(ctx, id, *room)
	if err := a.rooms.LastError(); err != nil {
		return fmt.Errorf("update failed: %s", ports.UserMessage(err))
	}
	return a.printCurrent()
}

func (a *app) toggleWindow(ctx context.Context, roomRef, windowRef, action string) error {
	var status model.WindowStatus
	switch action {
	case "open":
		status = model.WindowOpened
	case "close":
		status = model.WindowClosed
	default:
		return fmt.Errorf("action must be open or close, got %q", action)
	}

	roomID, err := a.resolveID(ctx, roomRef)
	if err != nil {
		return err
	}
	windowID, err := strconv.ParseInt(windowRef, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid window id %q", windowRef)
	}

	a.windows.LoadWindows(ctx, roomID)
	state := a.windows.Windows()
	if state.Err != "" {
		return fmt.Errorf("room %d windows: %s", roomID, state.Err)
	}
	for _, w := range state.Windows {
		if w.ID == windowID {
			a.windows.SetWindowStatus(ctx, windowID, w, status)
			return a.printWindows()
		}
	}
	return fmt.Errorf("window %d not found in room %d", windowID, roomID)
}

// resolveID accepts a numeric id everywhere; names resolve only against the
// mock store, which keeps a name index.
func (a *app) resolveID(ctx context.Context, ref string) (int64, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return id, nil
	}
	if a.store == nil {
		return 0, fmt.Errorf("room lookup by name needs -mock; use a numeric id")
	}
	room, err := a.store.FindByNameOrID(ctx, ref)
	if err != nil {
		return 0, fmt.Errorf("room %q: %s", ref, ports.UserMessage(err))
	}
	return room.ID, nil
}

// parseTemperature clamps into the editor range, the way the slider does;
// bounds live at the presentation boundary, never inside the sync client.
func (a *app) parseTemperature(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid temperature %q", raw)
	}
	bounds := a.cfg.Temperature.Editor
	if !bounds.Contains(v) {
		clamped := bounds.Clamp(v)
		fmt.Fprintf(os.Stderr, "temperature %.1f outside [%.0f, %.0f], using %.1f\n",
			v, bounds.Min, bounds.Max, clamped)
		return clamped, nil
	}
	return v, nil
}

func (a *app) printList() error {
	state := a.rooms.Rooms()
	if state.Err != "" {
		return fmt.Errorf("cannot list rooms: %s", state.Err)
	}
	for _, room := range state.Rooms {
		fmt.Printf("%4d  %-24s current %s  target %s  windows %d\n",
			room.ID, room.Name,
			formatTemperature(room.CurrentTemperature),
			formatTemperature(room.TargetTemperature),
			len(room.Windows))
	}
	return nil
}

func (a *app) printCurrent() error {
	room := a.rooms.CurrentRoom()
	if room == nil {
		return fmt.Errorf("room not found: %s", ports.UserMessage(a.rooms.LastError()))
	}
	fmt.Printf("Room %d: %s\n", room.ID, room.Name)
	fmt.Printf("  current temperature: %s\n", formatTemperature(room.CurrentTemperature))
	fmt.Printf("  target temperature:  %s\n", formatTemperature(room.TargetTemperature))
	for _, w := range room.Windows {
		fmt.Printf("  window %d: %-24s %s\n", w.ID, w.Name, w.Status)
	}
	return nil
}

func (a *app) printWindows() error {
	state := a.windows.Windows()
	if state.Err != "" {
		return fmt.Errorf("cannot list windows: %s", state.Err)
	}
	for _, w := range state.Windows {
		fmt.Printf("%4d  %-24s %s (room %s)\n", w.ID, w.Name, w.Status, w.RoomName)
	}
	return nil
}

func formatTemperature(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f°C", *v)
}
