package server

import (
	"net/http"
	"strconv"
	"strings"

	"tourney/domain"
	"tourney/domain/entities"
	"tourney/domain/interfaces"
	"tourney/infrastructure"
)

type selectWinnerRequest struct {
	GamingIDID int64  `json:"gaming_id_id"`
	Position   int    `json:"position"`
	Notes      string `json:"notes"`
}

type rejectRequest struct {
	Note string `json:"note"`
}

type standingsResponse struct {
	Standings []standingResponse `json:"standings"`
	Winners   []winnerResponse   `json:"winners"`
}

// handleRecordKills takes a multipart form with gaming_id_id, kills_count
// and an optional proof screenshot
func (s *Server) handleRecordKills(w http.ResponseWriter, r *http.Request) {
	roomID, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := parseUpload(w, r); err != nil {
		writeError(w, r, err)
		return
	}
	gamingIDID, err := strconv.ParseInt(strings.TrimSpace(r.FormValue("gaming_id_id")), 10, 64)
	if err != nil || gamingIDID <= 0 {
		writeError(w, r, domain.ErrInvalidInput.WithMessage("Invalid gaming ID"))
		return
	}
	kills, err := strconv.Atoi(strings.TrimSpace(r.FormValue("kills_count")))
	if err != nil || kills < 0 {
		writeError(w, r, domain.ErrInvalidInput.WithMessage("Kills must be a non-negative whole number"))
		return
	}

	proofRef, err := s.saveProof(r, "proof", true, func(original string) (string, error) {
		return infrastructure.KillProofName(roomID, gamingIDID, original, s.now())
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := s.platform.RecordKills(r.Context(), actorFrom(r.Context()), interfaces.KillsInput{
		RoomID:     roomID,
		GamingIDID: gamingIDID,
		KillsCount: kills,
		ProofRef:   proofRef,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toKills(result))
}

func (s *Server) handleStandings(w http.ResponseWriter, r *http.Request) {
	roomID, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	standings, err := s.platform.Standings(r.Context(), roomID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	winners, err := s.platform.Winners(r.Context(), roomID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, standingsResponse{Standings: toStandings(standings), Winners: toWinners(winners)})
}

func (s *Server) handleSelectWinner(w http.ResponseWriter, r *http.Request) {
	roomID, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req selectWinnerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	winner, err := s.platform.SelectWinner(r.Context(), actorFrom(r.Context()), interfaces.WinnerInput{
		RoomID:     roomID,
		GamingIDID: req.GamingIDID,
		Position:   req.Position,
		Notes:      req.Notes,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toWinner(winner))
}

// handleDistribute pays every pending winner. A partial run reports what
// was paid alongside the error.
func (s *Server) handleDistribute(w http.ResponseWriter, r *http.Request) {
	roomID, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	summary, err := s.platform.DistributeRewards(r.Context(), actorFrom(r.Context()), roomID)
	if err != nil {
		if summary != nil && summary.WinnersPaid > 0 {
			w.Header().Set("X-Winners-Paid", strconv.Itoa(summary.WinnersPaid))
		}
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, distributionResponse{
		RoomID:           summary.RoomID,
		WinnersPaid:      summary.WinnersPaid,
		TotalDistributed: summary.TotalDistributed,
		Skipped:          summary.Skipped,
	})
}

func (s *Server) handleWinnerHistory(w http.ResponseWriter, r *http.Request) {
	roomID, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	history, err := s.platform.WinnerHistory(r.Context(), actorFrom(r.Context()), roomID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toWinnerHistory(history))
}

func (s *Server) handlePendingPayments(w http.ResponseWriter, r *http.Request) {
	kind := entities.PaymentRequestKind(r.URL.Query().Get("kind"))
	switch kind {
	case "", entities.PaymentRequestKindTopUp, entities.PaymentRequestKindWithdrawal:
	default:
		writeError(w, r, domain.ErrInvalidInput.WithMessage("Unknown payment kind"))
		return
	}
	requests, err := s.platform.ListPendingPayments(r.Context(), actorFrom(r.Context()), kind)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPayments(requests))
}

// handleApprovePayment approves a request. Withdrawal approvals upload the
// payout screenshot as a multipart proof field.
func (s *Server) handleApprovePayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	actor := actorFrom(r.Context())

	var proofRef string
	if isMultipart(r) {
		if err := parseUpload(w, r); err != nil {
			writeError(w, r, err)
			return
		}
		proofRef, err = s.saveProof(r, "proof", true, func(original string) (string, error) {
			return infrastructure.PaymentProofName(actor.UserID, original, s.now())
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
	}

	request, err := s.platform.ApprovePayment(r.Context(), actor, id, proofRef)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPayment(request))
}

func (s *Server) handleRejectPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req rejectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	request, err := s.platform.RejectPayment(r.Context(), actorFrom(r.Context()), id, req.Note)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPayment(request))
}
