package httpapi

import (
	"time"

	"github.com/riskibarqy/quiniela/internal/domain/fixture"
	"github.com/riskibarqy/quiniela/internal/domain/scoring"
	"github.com/riskibarqy/quiniela/internal/domain/ticket"
)

type submitTicketRequest struct {
	Username        string              `json:"username" validate:"required,max=120"`
	Email           string              `json:"email" validate:"required,email,max=254"`
	Phone           string              `json:"phone" validate:"required,max=40"`
	PaymentProofURL string              `json:"paymentProofUrl" validate:"required,url,max=2048"`
	Picks           []submitPickRequest `json:"picks" validate:"required,min=1,dive"`
}

type submitPickRequest struct {
	EventID  int64  `json:"eventId" validate:"required,gt=0"`
	HomeTeam string `json:"homeTeam" validate:"omitempty,max=80"`
	AwayTeam string `json:"awayTeam" validate:"omitempty,max=80"`
	Pick     string `json:"pick" validate:"required"`
}

type submitTicketResponse struct {
	OK        bool      `json:"ok"`
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

type syncRoundsRequest struct {
	Rounds     []string `json:"rounds" validate:"omitempty,dive,required"`
	MaxWorkers int      `json:"maxWorkers" validate:"gte=0,lte=32"`
	DryRun     bool     `json:"dryRun"`
}

type scheduleSyncRequest struct {
	Rounds       []string `json:"rounds" validate:"omitempty,dive,required"`
	MaxWorkers   int      `json:"maxWorkers" validate:"gte=0,lte=32"`
	DryRun       bool     `json:"dryRun"`
	DelaySeconds int64    `json:"delaySeconds" validate:"gte=0,lte=604800"`
}

type matchResultDTO struct {
	FixtureID int64      `json:"fixtureId"`
	Status    string     `json:"status"`
	Winner    string     `json:"winner,omitempty"`
	HomeScore *int       `json:"homeScore,omitempty"`
	AwayScore *int       `json:"awayScore,omitempty"`
	KickoffAt *time.Time `json:"kickoffAt,omitempty"`
	HomeTeam  string     `json:"homeTeam,omitempty"`
	AwayTeam  string     `json:"awayTeam,omitempty"`
}

type ticketPickDTO struct {
	EventID  int64  `json:"eventId"`
	HomeTeam string `json:"homeTeam,omitempty"`
	AwayTeam string `json:"awayTeam,omitempty"`
	Pick     string `json:"pick"`
}

type ticketDTO struct {
	ID              string          `json:"id"`
	Username        string          `json:"username"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone"`
	PaymentProofURL string          `json:"paymentProofUrl"`
	Picks           []ticketPickDTO `json:"picks"`
	CreatedAt       time.Time       `json:"createdAt"`
}

type scoredPickDTO struct {
	EventID     int64      `json:"eventId"`
	HomeTeam    string     `json:"homeTeam"`
	AwayTeam    string     `json:"awayTeam"`
	Pick        string     `json:"pick"`
	PickLabel   string     `json:"pickLabel"`
	Result      string     `json:"result"`
	WinnerLabel string     `json:"winnerLabel,omitempty"`
	Points      int        `json:"points"`
	KickoffAt   *time.Time `json:"kickoffAt,omitempty"`
}

type rankedTicketDTO struct {
	Position    int             `json:"position,omitempty"`
	TotalPoints int             `json:"totalPoints"`
	Ticket      ticketDTO       `json:"ticket"`
	Picks       []scoredPickDTO `json:"picks"`
}

func matchResultToDTO(v fixture.MatchOutcome) matchResultDTO {
	out := matchResultDTO{
		FixtureID: int64(v.FixtureID),
		Status:    string(v.Status),
		HomeScore: v.HomeScore,
		AwayScore: v.AwayScore,
		KickoffAt: v.KickoffAt,
		HomeTeam:  v.HomeTeamName,
		AwayTeam:  v.AwayTeamName,
	}
	if v.Winner != nil {
		out.Winner = v.Winner.String()
	}
	return out
}

func ticketToDTO(v ticket.Ticket) ticketDTO {
	picks := make([]ticketPickDTO, 0, len(v.Picks))
	for _, pick := range v.Picks {
		picks = append(picks, ticketPickDTO{
			EventID:  int64(pick.FixtureID),
			HomeTeam: pick.HomeTeamLabel,
			AwayTeam: pick.AwayTeamLabel,
			Pick:     pick.Selection.String(),
		})
	}

	return ticketDTO{
		ID:              v.ID,
		Username:        v.ParticipantName,
		Email:           v.Email,
		Phone:           v.Phone,
		PaymentProofURL: v.PaymentProofRef,
		Picks:           picks,
		CreatedAt:       v.CreatedAt,
	}
}

func rankedTicketToDTO(v scoring.RankedTicket) rankedTicketDTO {
	picks := make([]scoredPickDTO, 0, len(v.ScoredPicks))
	for _, item := range v.ScoredPicks {
		picks = append(picks, scoredPickDTO{
			EventID:     int64(item.Pick.FixtureID),
			HomeTeam:    item.HomeTeam,
			AwayTeam:    item.AwayTeam,
			Pick:        item.Pick.Selection.String(),
			PickLabel:   item.SelectionLabel,
			Result:      item.Result,
			WinnerLabel: item.WinnerLabel,
			Points:      item.Points,
			KickoffAt:   item.KickoffAt,
		})
	}

	return rankedTicketDTO{
		Position:    v.Position,
		TotalPoints: v.TotalPoints,
		Ticket:      ticketToDTO(v.Ticket),
		Picks:       picks,
	}
}
