package http

import (
	"encoding/json"
	"net/http"

	"github.com/concours-app/backend/internal/apperr"
	"github.com/concours-app/backend/internal/domain"
	"github.com/concours-app/backend/internal/validate"
)

type memberRequest struct {
	LastName        string     `json:"last_name" validate:"required,max=100"`
	FirstName       string     `json:"first_name" validate:"required,max=100"`
	LastNameArabic  *string    `json:"last_name_ar"`
	FirstNameArabic *string    `json:"first_name_ar"`
	Grade           *string    `json:"grade"`
	Sex             domain.Sex `json:"sex" validate:"required,oneof=HOMME FEMME"`
}

func (h *Handler) CreateMember(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	member := &domain.Member{
		LastName:        req.LastName,
		FirstName:       req.FirstName,
		LastNameArabic:  req.LastNameArabic,
		FirstNameArabic: req.FirstNameArabic,
		Grade:           req.Grade,
		Sex:             req.Sex,
	}
	if err := h.memberRepo.Create(member); err != nil {
		h.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, member)
}

func (h *Handler) GetMember(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid member id")
		return
	}

	member, err := h.memberRepo.GetByID(id)
	if err != nil {
		h.writeAppError(w, err)
		return
	}
	if member == nil {
		h.writeAppError(w, apperr.NotFound("member"))
		return
	}
	writeJSON(w, http.StatusOK, member)
}

func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.memberRepo.List()
	if err != nil {
		h.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"members": members})
}

func (h *Handler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid member id")
		return
	}

	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	member := &domain.Member{
		ID:              id,
		LastName:        req.LastName,
		FirstName:       req.FirstName,
		LastNameArabic:  req.LastNameArabic,
		FirstNameArabic: req.FirstNameArabic,
		Grade:           req.Grade,
		Sex:             req.Sex,
	}
	if err := h.memberRepo.Update(member); err != nil {
		h.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, member)
}

func (h *Handler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid member id")
		return
	}
	if err := h.memberRepo.Delete(id); err != nil {
		h.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "member deleted"})
}
