package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baharkarakas/thoughts-backend/internal/api/httpx"
	"github.com/baharkarakas/thoughts-backend/internal/models"
	"github.com/baharkarakas/thoughts-backend/internal/services"
)

type UserHandler struct {
	svc *services.UserService
}

func NewUserHandler(svc *services.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

type createUserReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	us, err := h.svc.List(r.Context())
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newUserViews(us))
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Get(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newUserSummary(u))
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserReq
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Fail(w, r, err)
		return
	}
	u, err := h.svc.Create(r.Context(), models.User{Username: req.Username, Email: req.Email})
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newUserView(u))
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var p models.UserPatch
	if err := httpx.Decode(w, r, &p); err != nil {
		httpx.Fail(w, r, err)
		return
	}
	u, err := h.svc.Update(r.Context(), chi.URLParam(r, "userId"), p)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newUserView(u))
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "userId")); err != nil {
		httpx.Fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, messageResp{Message: models.MsgUserDeleted})
}

func (h *UserHandler) AddFriend(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.AddFriend(r.Context(), chi.URLParam(r, "userId"), chi.URLParam(r, "friendId"))
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newUserView(u))
}

func (h *UserHandler) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.RemoveFriend(r.Context(), chi.URLParam(r, "userId"), chi.URLParam(r, "friendId"))
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newUserView(u))
}
