package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/skip2/go-qrcode"

	"wordduel/internal/domain"
)

// qrSize is the edge length of invite QR codes in pixels
const qrSize = 320

// Response is a standard API response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo contains error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// GetRoomResponse is the response for getting room info
type GetRoomResponse struct {
	RoomCode         string       `json:"roomCode"`
	ParticipantCount int          `json:"participantCount"`
	Phase            domain.Phase `json:"phase"`
	CanJoin          bool         `json:"canJoin"`
	InviteLink       string       `json:"inviteLink"`
}

// RoomExistsResponse is the response for checking if room exists
type RoomExistsResponse struct {
	Exists bool `json:"exists"`
}

// HealthResponse is the response for health check
type HealthResponse struct {
	Status string `json:"status"`
}

// handleGetRoom handles GET /api/rooms/{roomCode}
func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	info, err := s.dispatcher.RoomInfo(roomCode(r))
	if err != nil {
		s.sendDomainError(w, err)
		return
	}

	s.sendSuccess(w, &GetRoomResponse{
		RoomCode:         info.RoomID,
		ParticipantCount: info.ParticipantCount,
		Phase:            info.Phase,
		CanJoin:          info.CanJoin,
		InviteLink:       inviteLink(r, info.RoomID),
	})
}

// handleRoomExists handles GET /api/rooms/{roomCode}/exists
func (s *Server) handleRoomExists(w http.ResponseWriter, r *http.Request) {
	_, err := s.dispatcher.RoomInfo(roomCode(r))

	s.sendSuccess(w, &RoomExistsResponse{
		Exists: err == nil,
	})
}

// handleRoomQR handles GET /api/rooms/{roomCode}/qr with a PNG invite code
func (s *Server) handleRoomQR(w http.ResponseWriter, r *http.Request) {
	info, err := s.dispatcher.RoomInfo(roomCode(r))
	if err != nil {
		s.sendDomainError(w, err)
		return
	}

	png, err := qrcode.Encode(inviteLink(r, info.RoomID), qrcode.Medium, qrSize)
	if err != nil {
		s.logger.Error("qr generation failed", "roomId", info.RoomID, "error", err)
		s.sendError(w, http.StatusInternalServerError, string(domain.KindInternal), "QR generation failed")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}

// handleHealth handles GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, &HealthResponse{
		Status: "ok",
	})
}

// handleStats handles GET /api/stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := s.dispatcher.Stats()
	s.sendSuccess(w, &stats)
}

// sendSuccess sends a successful JSON response
func (s *Server) sendSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&Response{
		Success: true,
		Data:    data,
	})
}

// sendError sends an error JSON response
func (s *Server) sendError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(&Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	})
}

// sendDomainError maps a domain error to a status code and error kind
func (s *Server) sendDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound):
		s.sendError(w, http.StatusNotFound, string(domain.KindRoomNotFound), "Room not found")
	default:
		s.logger.Error("request failed", "error", err)
		s.sendError(w, http.StatusInternalServerError, string(domain.KindInternal), "Internal server error")
	}
}

func roomCode(r *http.Request) string {
	return strings.ToUpper(chi.URLParam(r, "roomCode"))
}

// inviteLink builds the join URL a second participant opens
func inviteLink(r *http.Request, roomID string) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/join/" + roomID
}
