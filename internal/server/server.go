// Package server exposes the scene repository and the printer over a
// small HTTP API.
package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Masterchef365/receipt-collage/internal/bitmap"
	"github.com/Masterchef365/receipt-collage/internal/printer"
	"github.com/Masterchef365/receipt-collage/internal/scene"
)

// Transport is the byte sink print jobs are encoded to, usually a
// bluetooth printer connection.
type Transport interface {
	io.Writer
	Connect() error
}

type Server struct {
	Repository *scene.Repository
	Transport  Transport
}

// PrintingRequest carries one 1-bit bitmap as a flat byte-per-pixel
// buffer, row-major; Data is base64 in the JSON encoding.
type PrintingRequest struct {
	Width int    `json:"width"`
	Data  []byte `json:"data"`
}

type sceneResponse struct {
	Uuid      string    `json:"uuid"`
	CreatedAt time.Time `json:"createdAt"`
	scene.Scene
}

func (s *Server) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /scenes", s.handleListScenes)
	mux.HandleFunc("POST /scenes", s.handleCreateScene)
	mux.HandleFunc("GET /scenes/{uuid}", s.handleGetScene)
	mux.HandleFunc("PUT /scenes/{uuid}", s.handleUpdateScene)
	mux.HandleFunc("DELETE /scenes/{uuid}", s.handleDeleteScene)
	mux.HandleFunc("POST /print", s.handlePrint)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Couldn't write response", "error", err)
	}
}

func toResponse(sc *scene.Scene) sceneResponse {
	return sceneResponse{
		Uuid:      sc.Uuid.String(),
		CreatedAt: sc.CreatedAt,
		Scene:     *sc,
	}
}

func (s *Server) handleListScenes(w http.ResponseWriter, r *http.Request) {
	scenes, err := s.Repository.List()
	if err != nil {
		slog.Error("Couldn't list scenes", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	out := make([]sceneResponse, len(scenes))
	for i := range scenes {
		out[i] = toResponse(&scenes[i])
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateScene(w http.ResponseWriter, r *http.Request) {
	sc := scene.Default()
	if err := json.NewDecoder(r.Body).Decode(&sc); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sc.Uuid = uuid.New()
	sc.CreatedAt = time.Now().UTC()

	err := s.Repository.Transact(func(tx *sql.Tx) error {
		return s.Repository.Create(tx, &sc)
	})
	if err != nil {
		slog.Error("Couldn't create scene", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(&sc))
}

func (s *Server) sceneUuid(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	u, err := uuid.Parse(r.PathValue("uuid"))
	if err != nil {
		http.Error(w, "Invalid scene UUID", http.StatusBadRequest)
		return uuid.UUID{}, false
	}
	return u, true
}

func (s *Server) handleGetScene(w http.ResponseWriter, r *http.Request) {
	u, ok := s.sceneUuid(w, r)
	if !ok {
		return
	}

	sc, err := s.Repository.Get(u)
	if err != nil {
		slog.Error("Couldn't fetch scene", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if sc == nil {
		http.NotFound(w, r)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(sc))
}

func (s *Server) handleUpdateScene(w http.ResponseWriter, r *http.Request) {
	u, ok := s.sceneUuid(w, r)
	if !ok {
		return
	}

	sc := scene.Default()
	if err := json.NewDecoder(r.Body).Decode(&sc); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sc.Uuid = u

	err := s.Repository.Transact(func(tx *sql.Tx) error {
		return s.Repository.Update(tx, u, &sc)
	})
	if err != nil {
		slog.Error("Couldn't update scene", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(&sc))
}

func (s *Server) handleDeleteScene(w http.ResponseWriter, r *http.Request) {
	u, ok := s.sceneUuid(w, r)
	if !ok {
		return
	}

	err := s.Repository.Transact(func(tx *sql.Tx) error {
		return s.Repository.Delete(tx, u)
	})
	if err != nil {
		slog.Error("Couldn't delete scene", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePrint(w http.ResponseWriter, r *http.Request) {
	if s.Transport == nil {
		http.Error(w, "No printer configured", http.StatusServiceUnavailable)
		return
	}

	var request PrintingRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	b, err := bitmap.FromFlat(request.Data, request.Width)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.Transport.Connect(); err != nil {
		slog.Error("Couldn't connect to printer", "error", err)
		http.Error(w, "Printer not connected", http.StatusServiceUnavailable)
		return
	}

	if err := printer.Encode(s.Transport, bitmap.Pack(b)); err != nil {
		slog.Error("Couldn't print bitmap", "error", err)
		status := http.StatusServiceUnavailable
		if errors.Is(err, printer.ErrWrongWidth) || errors.Is(err, printer.ErrEmptyBitmap) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}

	slog.Info("Printed bitmap", "width", b.Width(), "height", b.Height())
	w.WriteHeader(http.StatusOK)
}
