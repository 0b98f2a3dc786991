package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/pulse/internal/common"
	"github.com/dmitrijs2005/pulse/internal/server/threads"
	"github.com/dmitrijs2005/pulse/internal/server/users"
	"github.com/go-chi/chi/v5"
)

const validationFailed = "Validation failed"

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	s.stats.login.Add(1)

	var in loginRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeFail(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if errs := in.validate(); len(errs) > 0 {
		writeFail(w, http.StatusBadRequest, validationFailed, errs)
		return
	}

	res, err := s.users.Login(r.Context(), in.Identifier, in.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		s.logger.Error(r.Context(), "login failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.logger.Info(r.Context(), "Logged in", "username", res.User.UserName)
	writeSuccess(w, http.StatusOK, res)
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	s.stats.register.Add(1)

	var in users.RegisterInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeFail(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if errs := validateRegister(in); len(errs) > 0 {
		writeFail(w, http.StatusBadRequest, validationFailed, errs)
		return
	}

	res, err := s.users.Register(r.Context(), in)
	if err != nil {
		var conflict *users.ConflictError
		if errors.As(err, &conflict) {
			msg := "Username is already taken"
			if conflict.Field == "email" {
				msg = "Email is already registered"
			}
			writeFail(w, http.StatusConflict, msg, map[string][]string{conflict.Field: {msg}})
			return
		}
		s.logger.Error(r.Context(), "registration failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.logger.Info(r.Context(), "Registered", "username", in.Username)
	writeSuccess(w, http.StatusCreated, res)
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	s.stats.refresh.Add(1)

	var in refreshRequest
	if err := decodeJSON(w, r, &in); err != nil || in.RefreshToken == "" {
		writeFail(w, http.StatusBadRequest, validationFailed, map[string][]string{"refreshToken": {"Refresh token is required"}})
		return
	}

	pair, err := s.users.Refresh(r.Context(), in.RefreshToken)
	switch {
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrRefreshTokenExpired):
		writeError(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	case err != nil:
		s.logger.Error(r.Context(), "refresh failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeSuccess(w, http.StatusOK, pair)
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	s.stats.me.Add(1)
	writeSuccess(w, http.StatusOK, userFrom(r.Context()))
}

func (s *Server) listThreads(w http.ResponseWriter, r *http.Request) {
	s.stats.listThreads.Add(1)

	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 10)

	res, err := s.threads.List(r.Context(), userFrom(r.Context()).ID, page, limit)
	if err != nil {
		s.logger.Error(r.Context(), "list threads failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (s *Server) createThread(w http.ResponseWriter, r *http.Request) {
	s.stats.createThread.Add(1)

	var in createThreadRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeFail(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if errs := in.validate(); len(errs) > 0 {
		writeFail(w, http.StatusBadRequest, validationFailed, errs)
		return
	}

	u := userFrom(r.Context())
	author := threads.Author{ID: u.ID, Username: u.UserName, FirstName: u.FirstName, LastName: u.LastName}

	th, err := s.threads.Create(r.Context(), author, in.Title, in.Content)
	if err != nil {
		s.logger.Error(r.Context(), "create thread failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeSuccess(w, http.StatusCreated, th)
}

func (s *Server) subscribe(w http.ResponseWriter, r *http.Request) {
	s.stats.subscribe.Add(1)
	s.writeSubscription(w, r, s.threads.Subscribe(r.Context(), chi.URLParam(r, "id"), userFrom(r.Context()).ID))
}

func (s *Server) unsubscribe(w http.ResponseWriter, r *http.Request) {
	s.stats.unsubscribe.Add(1)
	s.writeSubscription(w, r, s.threads.Unsubscribe(r.Context(), chi.URLParam(r, "id"), userFrom(r.Context()).ID))
}

func (s *Server) writeSubscription(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, "Thread not found")
	case err != nil:
		s.logger.Error(r.Context(), "subscription change failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	default:
		writeSuccess(w, http.StatusOK, nil)
	}
}

func queryInt(r *http.Request, name string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v < 1 {
		return def
	}
	return v
}
