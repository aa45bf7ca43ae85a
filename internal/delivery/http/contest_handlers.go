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

type contestRequest struct {
	Name         string     `json:"name" validate:"required,max=200"`
	Year         int        `json:"year" validate:"required,gte=2000"`
	Date         *time.Time `json:"date"`
	DepartmentID string     `json:"department_id" validate:"required,uuid"`
}

func (h *Handler) CreateContest(w http.ResponseWriter, r *http.Request) {
	var req contestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	contest := &domain.Contest{
		Name:         req.Name,
		Year:         req.Year,
		Date:         req.Date,
		DepartmentID: uuid.MustParse(req.DepartmentID),
	}
	if err := h.contestRepo.Create(contest); err != nil {
		h.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, contest)
}

func (h *Handler) GetContest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid contest id")
		return
	}

	contest, err := h.contestRepo.GetByID(id)
	if err != nil {
		h.writeAppError(w, err)
		return
	}
	if contest == nil {
		h.writeAppError(w, apperr.NotFound("contest"))
		return
	}
	writeJSON(w, http.StatusOK, contest)
}

// ListContests optionally filters by department via ?department_id=.
func (h *Handler) ListContests(w http.ResponseWriter, r *http.Request) {
	var (
		contests []*domain.Contest
		err      error
	)
	if raw := r.URL.Query().Get("department_id"); raw != "" {
		departmentID, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid department_id filter")
			return
		}
		contests, err = h.contestRepo.ListByDepartment(departmentID)
	} else {
		contests, err = h.contestRepo.List()
	}
	if err != nil {
		h.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"contests": contests})
}

func (h *Handler) UpdateContest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid contest id")
		return
	}

	var req contestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	contest := &domain.Contest{
		ID:           id,
		Name:         req.Name,
		Year:         req.Year,
		Date:         req.Date,
		DepartmentID: uuid.MustParse(req.DepartmentID),
	}
	if err := h.contestRepo.Update(contest); err != nil {
		h.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contest)
}

func (h *Handler) DeleteContest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid contest id")
		return
	}
	if err := h.contestRepo.Delete(id); err != nil {
		h.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "contest deleted"})
}

type specialtyRequest struct {
	Track     string `json:"track" validate:"required,max=100"`
	Name      string `json:"name" validate:"required,max=200"`
	SeatCount int    `json:"seat_count" validate:"required,gte=1"`
	ContestID string `json:"contest_id" validate:"required,uuid"`
}

func (h *Handler) CreateSpecialty(w http.ResponseWriter, r *http.Request) {
	var req specialtyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	specialty := &domain.Specialty{
		Track:     req.Track,
		Name:      req.Name,
		SeatCount: req.SeatCount,
		ContestID: uuid.MustParse(req.ContestID),
	}
	if err := h.specialtyRepo.Create(specialty); err != nil {
		h.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, specialty)
}

func (h *Handler) GetSpecialty(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid specialty id")
		return
	}

	specialty, err := h.specialtyRepo.GetByID(id)
	if err != nil {
		h.writeAppError(w, err)
		return
	}
	if specialty == nil {
		h.writeAppError(w, apperr.NotFound("specialty"))
		return
	}
	writeJSON(w, http.StatusOK, specialty)
}

// ListSpecialties optionally filters by contest via ?contest_id=.
func (h *Handler) ListSpecialties(w http.ResponseWriter, r *http.Request) {
	var (
		specialties []*domain.Specialty
		err         error
	)
	if raw := r.URL.Query().Get("contest_id"); raw != "" {
		contestID, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid contest_id filter")
			return
		}
		specialties, err = h.specialtyRepo.ListByContest(contestID)
	} else {
		specialties, err = h.specialtyRepo.List()
	}
	if err != nil {
		h.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"specialties": specialties})
}

func (h *Handler) UpdateSpecialty(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid specialty id")
		return
	}

	var req specialtyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	specialty := &domain.Specialty{
		ID:        id,
		Track:     req.Track,
		Name:      req.Name,
		SeatCount: req.SeatCount,
		ContestID: uuid.MustParse(req.ContestID),
	}
	if err := h.specialtyRepo.Update(specialty); err != nil {
		h.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, specialty)
}

func (h *Handler) DeleteSpecialty(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid specialty id")
		return
	}
	if err := h.specialtyRepo.Delete(id); err != nil {
		h.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "specialty deleted"})
}
