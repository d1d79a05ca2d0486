package server

import (
	"encoding/json"
	"net/http"

	"tilesight-server/internal/domain"
	"tilesight-server/internal/engine"
	"tilesight-server/pkg/logger"
)

// DebugHandler предоставляет доступ к внутреннему состоянию движка
type DebugHandler struct {
	Service *engine.Service
}

func NewDebugHandler(s *engine.Service) *DebugHandler {
	return &DebugHandler{Service: s}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/rooms", h.handleListRooms)
	mux.HandleFunc("/debug/entities", h.handleDumpEntities)
}

// /debug/rooms - список комнат уровня и состав их тайлов
func (h *DebugHandler) handleListRooms(w http.ResponseWriter, _ *http.Request) {
	type RoomSummary struct {
		X        int `json:"x"`
		Y        int `json:"y"`
		Width    int `json:"width"`
		Height   int `json:"height"`
		Floors   int `json:"floors"`
		Walls    int `json:"walls"`
		Entities int `json:"entities"`
	}

	var summary []RoomSummary

	level := h.Service.Level
	level.Lock()
	for _, room := range level.Rooms {
		rs := RoomSummary{
			X:      room.Rect.X,
			Y:      room.Rect.Y,
			Width:  room.Rect.W,
			Height: room.Rect.H,
		}
		for _, tile := range room.Tiles() {
			switch tile.State() {
			case domain.Floor:
				rs.Floors++
			case domain.Wall:
				rs.Walls++
			}
			rs.Entities += tile.EntityCount()
		}
		summary = append(summary, rs)
	}
	level.Unlock()

	writeDebugJSON(w, summary)
}

// /debug/entities - все сущности уровня с абсолютными координатами
func (h *DebugHandler) handleDumpEntities(w http.ResponseWriter, _ *http.Request) {
	type EntityDump struct {
		ID    int32  `json:"id"`
		Class string `json:"class"`
		X     int    `json:"x"`
		Y     int    `json:"y"`
	}

	var dump []EntityDump

	level := h.Service.Level
	level.Lock()
	for _, room := range level.Rooms {
		for _, tile := range room.Tiles() {
			for _, e := range tile.Entities() {
				dump = append(dump, EntityDump{
					ID:    e.ID,
					Class: e.Class,
					X:     e.Pos.X,
					Y:     e.Pos.Y,
				})
			}
		}
	}
	level.Unlock()

	writeDebugJSON(w, dump)
}

func writeDebugJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.WithError(err).Debug("Debug write failed")
	}
}
