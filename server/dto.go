package server

import (
	"time"

	"tourney/domain/entities"
	"tourney/domain/interfaces"
)

type userResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Balance   int64     `json:"balance"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

func toUser(u *entities.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Balance:   u.Balance,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}

type sessionResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      userResponse `json:"user"`
}

type historyResponse struct {
	ID              int64          `json:"id"`
	BalanceBefore   int64          `json:"balance_before"`
	BalanceAfter    int64          `json:"balance_after"`
	ChangeAmount    int64          `json:"change_amount"`
	TransactionType string         `json:"transaction_type"`
	Description     string         `json:"description"`
	Metadata        map[string]any `json:"metadata,omitempty"`
	RelatedID       *int64         `json:"related_id,omitempty"`
	RelatedType     *string        `json:"related_type,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

func toHistory(entries []*entities.BalanceHistory) []historyResponse {
	out := make([]historyResponse, 0, len(entries))
	for _, h := range entries {
		resp := historyResponse{
			ID:              h.ID,
			BalanceBefore:   h.BalanceBefore,
			BalanceAfter:    h.BalanceAfter,
			ChangeAmount:    h.ChangeAmount,
			TransactionType: h.TransactionType.String(),
			Description:     h.Description,
			Metadata:        h.TransactionMetadata,
			RelatedID:       h.RelatedID,
			CreatedAt:       h.CreatedAt,
		}
		if h.RelatedType != nil {
			rt := string(*h.RelatedType)
			resp.RelatedType = &rt
		}
		out = append(out, resp)
	}
	return out
}

type paymentResponse struct {
	ID            int64      `json:"id"`
	UserID        int64      `json:"user_id"`
	Kind          string     `json:"kind"`
	Amount        int64      `json:"amount"`
	Status        string     `json:"status"`
	ProofRef      *string    `json:"proof_ref,omitempty"`
	PayoutHandle  *string    `json:"payout_handle,omitempty"`
	AdminProofRef *string    `json:"admin_proof_ref,omitempty"`
	Note          string     `json:"note,omitempty"`
	ProcessedBy   *int64     `json:"processed_by,omitempty"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func toPayment(p *entities.PaymentRequest) paymentResponse {
	return paymentResponse{
		ID:            p.ID,
		UserID:        p.UserID,
		Kind:          string(p.Kind),
		Amount:        p.Amount,
		Status:        string(p.Status),
		ProofRef:      p.ProofRef,
		PayoutHandle:  p.PayoutHandle,
		AdminProofRef: p.AdminProofRef,
		Note:          p.Note,
		ProcessedBy:   p.ProcessedBy,
		ProcessedAt:   p.ProcessedAt,
		CreatedAt:     p.CreatedAt,
	}
}

func toPayments(requests []*entities.PaymentRequest) []paymentResponse {
	out := make([]paymentResponse, 0, len(requests))
	for _, p := range requests {
		out = append(out, toPayment(p))
	}
	return out
}

type gamingIDResponse struct {
	ID          int64  `json:"id"`
	Platform    string `json:"platform"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	IsPrimary   bool   `json:"is_primary"`
	IsActive    bool   `json:"is_active"`
}

func toGamingID(g *entities.GamingID) gamingIDResponse {
	return gamingIDResponse{
		ID:          g.ID,
		Platform:    g.Platform,
		Username:    g.Username,
		DisplayName: g.DisplayName,
		IsPrimary:   g.IsPrimary,
		IsActive:    g.IsActive,
	}
}

func toGamingIDs(ids []*entities.GamingID) []gamingIDResponse {
	out := make([]gamingIDResponse, 0, len(ids))
	for _, g := range ids {
		out = append(out, toGamingID(g))
	}
	return out
}

type memberPayload struct {
	Username       string `json:"username"`
	ExternalGameID string `json:"external_game_id"`
	Email          string `json:"email"`
	IsLeader       bool   `json:"is_leader,omitempty"`
}

type teamResponse struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	TeamSize int             `json:"team_size"`
	IsActive bool            `json:"is_active"`
	Members  []memberPayload `json:"members"`
}

func toTeam(t *entities.Team) teamResponse {
	members := make([]memberPayload, 0, len(t.Members))
	for _, m := range t.Members {
		members = append(members, memberPayload{
			Username:       m.Username,
			ExternalGameID: m.ExternalGameID,
			Email:          m.Email,
			IsLeader:       m.IsLeader,
		})
	}
	return teamResponse{
		ID:       t.ID,
		Name:     t.Name,
		Email:    t.Email,
		TeamSize: t.TeamSize,
		IsActive: t.IsActive,
		Members:  members,
	}
}

func toTeams(teams []*entities.Team) []teamResponse {
	out := make([]teamResponse, 0, len(teams))
	for _, t := range teams {
		out = append(out, toTeam(t))
	}
	return out
}

type killRewardPayload struct {
	Enabled          bool  `json:"enabled"`
	MinKillsRequired int   `json:"min_kills_required"`
	RewardPerKill    int64 `json:"reward_per_kill"`
}

type rewardTierPayload struct {
	Position         int   `json:"position"`
	BaseReward       int64 `json:"base_reward"`
	KillBonusPerKill int64 `json:"kill_bonus_per_kill"`
	MaxKillBonus     int64 `json:"max_kill_bonus"`
}

type roomResponse struct {
	ID                int64             `json:"id"`
	Name              string            `json:"name"`
	GameType          string            `json:"game_type"`
	EntryFee          int64             `json:"entry_fee"`
	PrizePool         int64             `json:"prize_pool"`
	MaxPlayers        int               `json:"max_players"`
	MinTeamSize       int               `json:"min_team_size"`
	MaxTeamSize       int               `json:"max_team_size"`
	MinPlayersToStart int               `json:"min_players_to_start"`
	IsMultiplayer     bool              `json:"is_multiplayer"`
	IsActive          bool              `json:"is_active"`
	Status            string            `json:"status"`
	GameRoomID        string            `json:"game_room_id,omitempty"`
	GameRoomPassword  string            `json:"game_room_password,omitempty"`
	EventTiming       *time.Time        `json:"event_timing,omitempty"`
	KillReward        killRewardPayload `json:"kill_reward"`
	CreatedAt         time.Time         `json:"created_at"`
}

func toRoom(r *entities.Room) roomResponse {
	return roomResponse{
		ID:                r.ID,
		Name:              r.Name,
		GameType:          r.GameType,
		EntryFee:          r.EntryFee,
		PrizePool:         r.PrizePool,
		MaxPlayers:        r.MaxPlayers,
		MinTeamSize:       r.MinTeamSize,
		MaxTeamSize:       r.MaxTeamSize,
		MinPlayersToStart: r.MinPlayersToStart,
		IsMultiplayer:     r.IsMultiplayer,
		IsActive:          r.IsActive,
		Status:            string(r.Status),
		GameRoomID:        r.GameRoomID,
		GameRoomPassword:  r.GameRoomPassword,
		EventTiming:       r.EventTiming,
		KillReward: killRewardPayload{
			Enabled:          r.KillReward.Enabled,
			MinKillsRequired: r.KillReward.MinKillsRequired,
			RewardPerKill:    r.KillReward.RewardPerKill,
		},
		CreatedAt: r.CreatedAt,
	}
}

func toRooms(rooms []*entities.Room) []roomResponse {
	out := make([]roomResponse, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, toRoom(r))
	}
	return out
}

type roomDetailsResponse struct {
	roomResponse
	RewardTiers    []rewardTierPayload `json:"reward_tiers"`
	SlotsUsed      int                 `json:"slots_used"`
	SlotsRemaining int                 `json:"slots_remaining"`
}

func toRoomDetails(d *interfaces.RoomDetails) roomDetailsResponse {
	tiers := make([]rewardTierPayload, 0, len(d.RewardTiers))
	for _, t := range d.RewardTiers {
		tiers = append(tiers, rewardTierPayload{
			Position:         t.Position,
			BaseReward:       t.BaseReward,
			KillBonusPerKill: t.KillBonusPerKill,
			MaxKillBonus:     t.MaxKillBonus,
		})
	}
	return roomDetailsResponse{
		roomResponse:   toRoom(d.Room),
		RewardTiers:    tiers,
		SlotsUsed:      d.Occupancy.Used,
		SlotsRemaining: d.Occupancy.Remaining(),
	}
}

type blockResponse struct {
	Changed bool   `json:"changed"`
	Warning string `json:"warning,omitempty"`
}

type enrollmentResponse struct {
	ID            int64   `json:"id"`
	RoomID        int64   `json:"room_id"`
	Kind          string  `json:"kind"`
	TeamID        *int64  `json:"team_id,omitempty"`
	GamingIDs     []int64 `json:"gaming_ids"`
	SlotCount     int     `json:"slot_count"`
	TotalEntryFee int64   `json:"total_entry_fee"`
	PaymentStatus string  `json:"payment_status"`
	Replayed      bool    `json:"replayed"`
	NewBalance    int64   `json:"new_balance"`
}

func toEnrollment(res *interfaces.EnrollmentResult) enrollmentResponse {
	e := res.Enrollment
	return enrollmentResponse{
		ID:            e.ID,
		RoomID:        e.RoomID,
		Kind:          string(e.Kind),
		TeamID:        e.TeamID,
		GamingIDs:     e.GamingIDs,
		SlotCount:     e.SlotCount,
		TotalEntryFee: e.TotalEntryFee,
		PaymentStatus: string(e.PaymentStatus),
		Replayed:      res.Replayed,
		NewBalance:    res.NewBalance,
	}
}

type killsResponse struct {
	ID             int64   `json:"id"`
	GamingIDID     int64   `json:"gaming_id_id"`
	KillsCount     int     `json:"kills_count"`
	RewardEarned   int64   `json:"reward_earned"`
	RewardCredited int64   `json:"reward_credited"`
	RewardStatus   string  `json:"reward_status"`
	ProofRef       *string `json:"proof_ref,omitempty"`
	Credited       int64   `json:"credited"`
}

func toKills(res *interfaces.KillsResult) killsResponse {
	k := res.Record
	return killsResponse{
		ID:             k.ID,
		GamingIDID:     k.GamingIDID,
		KillsCount:     k.KillsCount,
		RewardEarned:   k.RewardEarned,
		RewardCredited: k.RewardCredited,
		RewardStatus:   string(k.RewardStatus),
		ProofRef:       k.ProofRef,
		Credited:       res.Credited,
	}
}

type standingResponse struct {
	GamingIDID     int64  `json:"gaming_id_id"`
	UserID         int64  `json:"user_id"`
	OwnerUsername  string `json:"owner_username"`
	GamingUsername string `json:"gaming_username"`
	DisplayName    string `json:"display_name"`
	KillsCount     int    `json:"kills_count"`
	KillReward     int64  `json:"kill_reward"`
	WinnerPosition *int   `json:"winner_position,omitempty"`
	WinnerReward   *int64 `json:"winner_reward,omitempty"`
}

func toStandings(rows []*entities.RoomStanding) []standingResponse {
	out := make([]standingResponse, 0, len(rows))
	for _, s := range rows {
		out = append(out, standingResponse{
			GamingIDID:     s.GamingIDID,
			UserID:         s.UserID,
			OwnerUsername:  s.OwnerUsername,
			GamingUsername: s.GamingUsername,
			DisplayName:    s.DisplayName,
			KillsCount:     s.KillsCount,
			KillReward:     s.KillReward,
			WinnerPosition: s.WinnerPosition,
			WinnerReward:   s.WinnerReward,
		})
	}
	return out
}

type winnerResponse struct {
	ID                int64      `json:"id"`
	Position          int        `json:"position"`
	GamingIDID        int64      `json:"gaming_id_id"`
	UserID            int64      `json:"user_id"`
	KillsCount        int        `json:"kills_count"`
	PerformanceScore  int64      `json:"performance_score"`
	RewardAmount      int64      `json:"reward_amount"`
	RewardDistributed bool       `json:"reward_distributed"`
	DistributedAt     *time.Time `json:"distributed_at,omitempty"`
	Notes             string     `json:"notes,omitempty"`
}

func toWinner(w *entities.Winner) winnerResponse {
	return winnerResponse{
		ID:                w.ID,
		Position:          w.Position,
		GamingIDID:        w.GamingIDID,
		UserID:            w.UserID,
		KillsCount:        w.KillsCount,
		PerformanceScore:  w.PerformanceScore,
		RewardAmount:      w.RewardAmount,
		RewardDistributed: w.RewardDistributed,
		DistributedAt:     w.DistributedAt,
		Notes:             w.Notes,
	}
}

func toWinners(winners []*entities.Winner) []winnerResponse {
	out := make([]winnerResponse, 0, len(winners))
	for _, w := range winners {
		out = append(out, toWinner(w))
	}
	return out
}

type winnerHistoryResponse struct {
	ID           int64     `json:"id"`
	ActionType   string    `json:"action_type"`
	GamingIDID   *int64    `json:"gaming_id_id,omitempty"`
	Position     *int      `json:"position,omitempty"`
	RewardAmount int64     `json:"reward_amount"`
	AdminUserID  int64     `json:"admin_user_id"`
	Details      string    `json:"details"`
	CreatedAt    time.Time `json:"created_at"`
}

func toWinnerHistory(entries []*entities.WinnerSelectionHistory) []winnerHistoryResponse {
	out := make([]winnerHistoryResponse, 0, len(entries))
	for _, h := range entries {
		out = append(out, winnerHistoryResponse{
			ID:           h.ID,
			ActionType:   string(h.ActionType),
			GamingIDID:   h.GamingIDID,
			Position:     h.Position,
			RewardAmount: h.RewardAmount,
			AdminUserID:  h.AdminUserID,
			Details:      h.Details,
			CreatedAt:    h.CreatedAt,
		})
	}
	return out
}

type distributionResponse struct {
	RoomID           int64 `json:"room_id"`
	WinnersPaid      int   `json:"winners_paid"`
	TotalDistributed int64 `json:"total_distributed"`
	Skipped          int   `json:"skipped"`
}
