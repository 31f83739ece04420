package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baharkarakas/thoughts-backend/internal/api/httpx"
	"github.com/baharkarakas/thoughts-backend/internal/models"
	"github.com/baharkarakas/thoughts-backend/internal/services"
)

type ThoughtHandler struct {
	svc *services.ThoughtService
}

func NewThoughtHandler(svc *services.ThoughtService) *ThoughtHandler {
	return &ThoughtHandler{svc: svc}
}

type createThoughtReq struct {
	ThoughtText string `json:"thoughtText"`
	Username    string `json:"username"`
}

type reactionReq struct {
	ReactionID   string `json:"reactionId"`
	ReactionBody string `json:"reactionBody"`
	Username     string `json:"username"`
}

func (h *ThoughtHandler) List(w http.ResponseWriter, r *http.Request) {
	ts, err := h.svc.List(r.Context())
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newThoughtViews(ts))
}

func (h *ThoughtHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.Get(r.Context(), chi.URLParam(r, "thoughtId"))
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newThoughtView(t))
}

func (h *ThoughtHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createThoughtReq
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Fail(w, r, err)
		return
	}
	t, err := h.svc.Create(r.Context(), models.Thought{ThoughtText: req.ThoughtText, Username: req.Username})
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newThoughtView(t))
}

func (h *ThoughtHandler) Update(w http.ResponseWriter, r *http.Request) {
	var p models.ThoughtPatch
	if err := httpx.Decode(w, r, &p); err != nil {
		httpx.Fail(w, r, err)
		return
	}
	t, err := h.svc.Update(r.Context(), chi.URLParam(r, "thoughtId"), p)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newThoughtView(t))
}

func (h *ThoughtHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "thoughtId")); err != nil {
		httpx.Fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, messageResp{Message: models.MsgThoughtDeleted})
}

func (h *ThoughtHandler) AddReaction(w http.ResponseWriter, r *http.Request) {
	var req reactionReq
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Fail(w, r, err)
		return
	}
	t, err := h.svc.AddReaction(r.Context(), chi.URLParam(r, "thoughtId"), models.Reaction{
		ReactionID:   req.ReactionID,
		ReactionBody: req.ReactionBody,
		Username:     req.Username,
	})
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newThoughtView(t))
}

func (h *ThoughtHandler) RemoveReaction(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.RemoveReaction(r.Context(), chi.URLParam(r, "thoughtId"), chi.URLParam(r, "reactionId"))
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newThoughtView(t))
}
