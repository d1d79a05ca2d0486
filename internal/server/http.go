package server

import (
	"encoding/json"
	"net/http"
	_ "net/http/pprof" // Profiling

	"tilesight-server/internal/engine"
	"tilesight-server/internal/version"
	"tilesight-server/pkg/logger"
)

type Server struct {
	Service *engine.Service
	Port    string
}

func New(svc *engine.Service, port string) *Server {
	return &Server{
		Service: svc,
		Port:    port,
	}
}

// Run запускает HTTP сервер.
func (s *Server) Run() error {
	mux := http.DefaultServeMux

	mux.HandleFunc("/ws", enableCORS(s.handleWS))
	mux.HandleFunc("/health", enableCORS(s.handleHealth))
	mux.HandleFunc("/version", enableCORS(s.handleVersion))
	mux.HandleFunc("/stats", enableCORS(s.handleStats))

	NewDebugHandler(s.Service).RegisterRoutes(mux)

	logger.Log.Infof("Tilesight server running on :%s", s.Port)
	return http.ListenAndServe(":"+s.Port, mux)
}

func enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		next(w, r)
	}
}

// handleWS обрабатывает подключение по WebSocket.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.WithError(err).Error("Upgrade error")
		return
	}

	client := NewClient(s.Service, conn)

	// Запускаем пампы
	go client.writePump()
	go client.readPump()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ok")); err != nil {
		logger.Log.WithError(err).Debug("Health write failed")
	}
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(version.Get()); err != nil {
		logger.Log.WithError(err).Debug("Version write failed")
	}
}

// handleStats отдает краткую сводку состояния мира (для отладки).
func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	// Счетчик соединений берем ДО блокировки уровня: Connect захватывает
	// замки в порядке "реестр, затем уровень", и здесь порядок тот же.
	connections := s.Service.ConnectionCount()

	level := s.Service.Level
	level.Lock()
	stats := map[string]any{
		"time":        level.Time,
		"rooms":       len(level.Rooms),
		"connections": connections,
	}
	level.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		logger.Log.WithError(err).Debug("Stats write failed")
	}
}
