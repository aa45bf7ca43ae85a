package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/concours-app/backend/internal/apperr"
	"github.com/concours-app/backend/internal/domain"
	"github.com/concours-app/backend/internal/validate"
)

type candidateRequest struct {
	LastName        string     `json:"last_name" validate:"required,max=100"`
	FirstName       string     `json:"first_name" validate:"required,max=100"`
	Matricule       string     `json:"matricule" validate:"required,max=50"`
	BirthDate       *time.Time `json:"birth_date"`
	CommonStatus    string     `json:"common_status" validate:"omitempty,oneof=PRESENT ABSENT"`
	SpecialtyStatus string     `json:"specialty_status" validate:"omitempty,oneof=PRESENT ABSENT"`
	SpecialtyID     string     `json:"specialty_id" validate:"required,uuid"`
}

func (req *candidateRequest) toDomain(id uuid.UUID) *domain.Candidate {
	commonStatus := domain.AttendanceStatus(req.CommonStatus)
	if commonStatus == "" {
		commonStatus = domain.AttendanceAbsent
	}
	specialtyStatus := domain.AttendanceStatus(req.SpecialtyStatus)
	if specialtyStatus == "" {
		specialtyStatus = domain.AttendanceAbsent
	}
	return &domain.Candidate{
		ID:              id,
		LastName:        req.LastName,
		FirstName:       req.FirstName,
		Matricule:       req.Matricule,
		BirthDate:       req.BirthDate,
		CommonStatus:    commonStatus,
		SpecialtyStatus: specialtyStatus,
		SpecialtyID:     uuid.MustParse(req.SpecialtyID),
	}
}

func (h *Handler) CreateCandidate(w http.ResponseWriter, r *http.Request) {
	var req candidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	candidate := req.toDomain(uuid.Nil)
	if err := h.candidateRepo.Create(candidate); err != nil {
		h.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, candidate)
}

func (h *Handler) GetCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid candidate id")
		return
	}

	candidate, err := h.candidateRepo.GetByID(id)
	if err != nil {
		h.writeAppError(w, err)
		return
	}
	if candidate == nil {
		h.writeAppError(w, apperr.NotFound("candidate"))
		return
	}
	writeJSON(w, http.StatusOK, candidate)
}

// ListCandidates filters by ?specialty_id= or looks up one by ?matricule=.
func (h *Handler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	if matricule := r.URL.Query().Get("matricule"); matricule != "" {
		candidate, err := h.candidateRepo.GetByMatricule(matricule)
		if err != nil {
			h.writeAppError(w, err)
			return
		}
		if candidate == nil {
			h.writeAppError(w, apperr.NotFound("candidate"))
			return
		}
		writeJSON(w, http.StatusOK, candidate)
		return
	}

	var (
		candidates []*domain.Candidate
		err        error
	)
	if raw := r.URL.Query().Get("specialty_id"); raw != "" {
		specialtyID, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid specialty_id filter")
			return
		}
		candidates, err = h.candidateRepo.ListBySpecialty(specialtyID)
	} else {
		candidates, err = h.candidateRepo.List()
	}
	if err != nil {
		h.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"candidates": candidates})
}

func (h *Handler) UpdateCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid candidate id")
		return
	}

	var req candidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	candidate := req.toDomain(id)
	if err := h.candidateRepo.Update(candidate); err != nil {
		h.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, candidate)
}

func (h *Handler) DeleteCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid candidate id")
		return
	}
	if err := h.candidateRepo.Delete(id); err != nil {
		h.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "candidate deleted"})
}
