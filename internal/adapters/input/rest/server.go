package rest

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"automacorp-client/internal/domain/model"
	"automacorp-client/internal/ports"
)

// Server exposes a RoomService over the room API's HTTP surface. It exists
// so the mock store can stand in for the real backend during development.
type Server struct {
	svc      ports.RoomService
	username string
	password string
	logger   *zap.Logger
	router   *mux.Router
}

func NewServer(svc ports.RoomService, username, password string, logger *zap.Logger) *Server {
	s := &Server{
		svc:      svc,
		username: username,
		password: password,
		logger:   logger,
	}

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.basicAuth)
	api.HandleFunc("/rooms", s.listRooms).Methods("GET")
	api.HandleFunc("/rooms", s.createRoom).Methods("POST")
	api.HandleFunc("/rooms/{id:[0-9]+}", s.getRoom).Methods("GET")
	api.HandleFunc("/rooms/{id:[0-9]+}", s.updateRoom).Methods("PUT")
	api.HandleFunc("/rooms/{id:[0-9]+}", s.deleteRoom).Methods("DELETE")
	api.HandleFunc("/rooms/{roomId:[0-9]+}/windows", s.listWindows).Methods("GET")
	api.HandleFunc("/windows/{windowId:[0-9]+}", s.updateWindow).Methods("PUT")
	s.router = r

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) basicAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok ||
			subtle.ConstantTimeCompare([]byte(user), []byte(s.username)) != 1 ||
			subtle.ConstantTimeCompare([]byte(pass), []byte(s.password)) != 1 {
			w.Header().Set("WWW-Authenticate", `Basic realm="automacorp"`)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) listRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.svc.FindAll(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rooms)
}

func (s *Server) getRoom(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	room, err := s.svc.FindByID(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, room)
}

func (s *Server) createRoom(w http.ResponseWriter, r *http.Request) {
	var cmd model.RoomCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if cmd.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	room, err := s.svc.Create(r.Context(), cmd)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, room)
}

func (s *Server) updateRoom(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	var cmd model.RoomCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	room, err := s.svc.Update(r.Context(), id, cmd)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, room)
}

func (s *Server) deleteRoom(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err := s.svc.Delete(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listWindows(w http.ResponseWriter, r *http.Request) {
	roomID, _ := strconv.ParseInt(mux.Vars(r)["roomId"], 10, 64)
	windows, err := s.svc.FindWindowsByRoomID(r.Context(), roomID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, windows)
}

func (s *Server) updateWindow(w http.ResponseWriter, r *http.Request) {
	windowID, _ := strconv.ParseInt(mux.Vars(r)["windowId"], 10, 64)
	var cmd model.WindowCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if cmd.Status != model.WindowOpened && cmd.Status != model.WindowClosed {
		http.Error(w, "invalid window status", http.StatusBadRequest)
		return
	}
	window, err := s.svc.UpdateWindowStatus(r.Context(), windowID, cmd)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, window)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("cannot encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	if ports.IsNotFound(err) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	s.logger.Error("request failed", zap.Error(err))
	http.Error(w, "internal error", http.StatusInternalServerError)
}
