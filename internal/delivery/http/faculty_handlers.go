package http

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/concours-app/backend/internal/apperr"
	"github.com/concours-app/backend/internal/domain"
	"github.com/concours-app/backend/internal/validate"
)

type facultyRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

func (h *Handler) CreateFaculty(w http.ResponseWriter, r *http.Request) {
	var req facultyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	faculty := &domain.Faculty{Name: req.Name}
	if err := h.facultyRepo.Create(faculty); err != nil {
		h.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, faculty)
}

func (h *Handler) GetFaculty(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid faculty id")
		return
	}

	faculty, err := h.facultyRepo.GetByID(id)
	if err != nil {
		h.writeAppError(w, err)
		return
	}
	if faculty == nil {
		h.writeAppError(w, apperr.NotFound("faculty"))
		return
	}
	writeJSON(w, http.StatusOK, faculty)
}

func (h *Handler) ListFaculties(w http.ResponseWriter, r *http.Request) {
	faculties, err := h.facultyRepo.List()
	if err != nil {
		h.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"faculties": faculties})
}

func (h *Handler) UpdateFaculty(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid faculty id")
		return
	}

	var req facultyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	faculty := &domain.Faculty{ID: id, Name: req.Name}
	if err := h.facultyRepo.Update(faculty); err != nil {
		h.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, faculty)
}

func (h *Handler) DeleteFaculty(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid faculty id")
		return
	}
	if err := h.facultyRepo.Delete(id); err != nil {
		h.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "faculty deleted"})
}

type departmentRequest struct {
	Name      string `json:"name" validate:"required,max=200"`
	FacultyID string `json:"faculty_id" validate:"required,uuid"`
}

func (h *Handler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	var req departmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	department := &domain.Department{Name: req.Name, FacultyID: uuid.MustParse(req.FacultyID)}
	if err := h.departmentRepo.Create(department); err != nil {
		h.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, department)
}

func (h *Handler) GetDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid department id")
		return
	}

	department, err := h.departmentRepo.GetByID(id)
	if err != nil {
		h.writeAppError(w, err)
		return
	}
	if department == nil {
		h.writeAppError(w, apperr.NotFound("department"))
		return
	}
	writeJSON(w, http.StatusOK, department)
}

// ListDepartments optionally filters by faculty via ?faculty_id=.
func (h *Handler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	var (
		departments []*domain.Department
		err         error
	)
	if raw := r.URL.Query().Get("faculty_id"); raw != "" {
		facultyID, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid faculty_id filter")
			return
		}
		departments, err = h.departmentRepo.ListByFaculty(facultyID)
	} else {
		departments, err = h.departmentRepo.List()
	}
	if err != nil {
		h.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"departments": departments})
}

func (h *Handler) UpdateDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid department id")
		return
	}

	var req departmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	department := &domain.Department{ID: id, Name: req.Name, FacultyID: uuid.MustParse(req.FacultyID)}
	if err := h.departmentRepo.Update(department); err != nil {
		h.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, department)
}

func (h *Handler) DeleteDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid department id")
		return
	}
	if err := h.departmentRepo.Delete(id); err != nil {
		h.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "department deleted"})
}
