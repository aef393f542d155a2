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

const defaultHistoryLimit = 50

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type withdrawalRequest struct {
	Amount       int64  `json:"amount"`
	PayoutHandle string `json:"payout_handle"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := s.platform.Signup(r.Context(), interfaces.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.writeSession(w, r, http.StatusCreated, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := s.platform.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.writeSession(w, r, http.StatusOK, user)
}

func (s *Server) writeSession(w http.ResponseWriter, r *http.Request, status int, user *entities.User) {
	token, expiresAt, err := s.IssueToken(user)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, status, sessionResponse{Token: token, ExpiresAt: expiresAt, User: toUser(user)})
}

func (s *Server) handleWallet(w http.ResponseWriter, r *http.Request) {
	balance, err := s.platform.GetBalance(r.Context(), actorFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"balance": balance})
}

func (s *Server) handleWalletHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.platform.BalanceHistory(r.Context(), actorFrom(r.Context()), queryLimit(r, defaultHistoryLimit))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toHistory(history))
}

// handleTopUp takes a multipart form with an amount and a proof screenshot
func (s *Server) handleTopUp(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	if err := parseUpload(w, r); err != nil {
		writeError(w, r, err)
		return
	}
	amount, err := strconv.ParseInt(strings.TrimSpace(r.FormValue("amount")), 10, 64)
	if err != nil || amount <= 0 {
		writeError(w, r, domain.ErrInvalidAmount.WithMessage("Amount must be a positive whole number"))
		return
	}

	proofRef, err := s.saveProof(r, "proof", false, func(original string) (string, error) {
		return infrastructure.PaymentProofName(actor.UserID, original, s.now())
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	request, err := s.platform.RequestTopUp(r.Context(), actor, amount, proofRef)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPayment(request))
}

func (s *Server) handleWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req withdrawalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	request, err := s.platform.RequestWithdrawal(r.Context(), actorFrom(r.Context()), req.Amount, req.PayoutHandle)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPayment(request))
}

func (s *Server) handleMyPayments(w http.ResponseWriter, r *http.Request) {
	requests, err := s.platform.ListMyPayments(r.Context(), actorFrom(r.Context()), queryLimit(r, defaultHistoryLimit))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPayments(requests))
}
