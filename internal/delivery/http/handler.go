package http

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/concours-app/backend/internal/apperr"
	"github.com/concours-app/backend/internal/config"
	"github.com/concours-app/backend/internal/domain"
	"github.com/concours-app/backend/internal/usecase"
)

type Handler struct {
	cfg            *config.Config
	authUsecase    *usecase.AuthUsecase
	userUsecase    *usecase.UserUsecase
	memberRepo     domain.MemberRepository
	facultyRepo    domain.FacultyRepository
	departmentRepo domain.DepartmentRepository
	contestRepo    domain.ContestRepository
	specialtyRepo  domain.SpecialtyRepository
	candidateRepo  domain.CandidateRepository
	eventRepo      domain.AuthEventRepository
	logger         *slog.Logger
}

func NewHandler(
	cfg *config.Config,
	auth *usecase.AuthUsecase,
	users *usecase.UserUsecase,
	memberRepo domain.MemberRepository,
	facultyRepo domain.FacultyRepository,
	departmentRepo domain.DepartmentRepository,
	contestRepo domain.ContestRepository,
	specialtyRepo domain.SpecialtyRepository,
	candidateRepo domain.CandidateRepository,
	eventRepo domain.AuthEventRepository,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		cfg:            cfg,
		authUsecase:    auth,
		userUsecase:    users,
		memberRepo:     memberRepo,
		facultyRepo:    facultyRepo,
		departmentRepo: departmentRepo,
		contestRepo:    contestRepo,
		specialtyRepo:  specialtyRepo,
		candidateRepo:  candidateRepo,
		eventRepo:      eventRepo,
		logger:         logger,
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}

// writeAppError maps an error through the apperr taxonomy. Internal failures
// are logged server-side; the client only sees the stable code.
func (h *Handler) writeAppError(w http.ResponseWriter, err error) {
	appErr := apperr.As(err)
	if appErr.Status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "code", appErr.Code, "error", err)
	}
	writeJSON(w, appErr.Status, map[string]any{"error": appErr})
}

func pathID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

// clientMeta extracts advisory request metadata for the session audit trail.
func clientMeta(r *http.Request) usecase.ClientMeta {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first, _, found := strings.Cut(fwd, ","); found {
			ip = strings.TrimSpace(first)
		} else {
			ip = strings.TrimSpace(fwd)
		}
	}
	return usecase.ClientMeta{UserAgent: r.UserAgent(), IPAddress: ip}
}
