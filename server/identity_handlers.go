package server

import (
	"net/http"

	"tourney/domain/entities"
	"tourney/domain/interfaces"
)

type gamingIDRequest struct {
	Platform    string `json:"platform"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	IsPrimary   bool   `json:"is_primary"`
	IsActive    *bool  `json:"is_active"`
}

func (req gamingIDRequest) input() interfaces.GamingIDInput {
	return interfaces.GamingIDInput{
		Platform:    req.Platform,
		Username:    req.Username,
		DisplayName: req.DisplayName,
		IsPrimary:   req.IsPrimary,
		IsActive:    req.IsActive,
	}
}

type teamRequest struct {
	Name    string          `json:"name"`
	Email   string          `json:"email"`
	Members []memberPayload `json:"members"`
}

func (req teamRequest) input() interfaces.TeamInput {
	members := make([]entities.MemberInput, 0, len(req.Members))
	for _, m := range req.Members {
		members = append(members, entities.MemberInput{
			Username:       m.Username,
			ExternalGameID: m.ExternalGameID,
			Email:          m.Email,
		})
	}
	return interfaces.TeamInput{Name: req.Name, Email: req.Email, Members: members}
}

type toggleRequest struct {
	Active bool `json:"active"`
}

func (s *Server) handleListGamingIDs(w http.ResponseWriter, r *http.Request) {
	ids, err := s.platform.ListGamingIDs(r.Context(), actorFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toGamingIDs(ids))
}

func (s *Server) handleAddGamingID(w http.ResponseWriter, r *http.Request) {
	var req gamingIDRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	gid, err := s.platform.AddGamingID(r.Context(), actorFrom(r.Context()), req.input())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGamingID(gid))
}

func (s *Server) handleEditGamingID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req gamingIDRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	gid, err := s.platform.EditGamingID(r.Context(), actorFrom(r.Context()), id, req.input())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toGamingID(gid))
}

func (s *Server) handleSetPrimaryGamingID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	gid, err := s.platform.SetPrimaryGamingID(r.Context(), actorFrom(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toGamingID(gid))
}

func (s *Server) handleListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := s.platform.ListTeams(r.Context(), actorFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTeams(teams))
}

func (s *Server) handleCreateTeam(w http.ResponseWriter, r *http.Request) {
	var req teamRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	team, err := s.platform.CreateTeam(r.Context(), actorFrom(r.Context()), req.input())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTeam(team))
}

func (s *Server) handleEditTeam(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req teamRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	team, err := s.platform.EditTeam(r.Context(), actorFrom(r.Context()), id, req.input())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTeam(team))
}

func (s *Server) handleToggleTeam(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req toggleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	team, err := s.platform.ToggleTeam(r.Context(), actorFrom(r.Context()), id, req.Active)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTeam(team))
}
