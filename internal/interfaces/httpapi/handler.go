package httpapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/quiniela/internal/platform/logging"
	"github.com/riskibarqy/quiniela/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

type Handler struct {
	roundService       *usecase.RoundService
	submissionService  *usecase.SubmissionService
	leaderboardService *usecase.LeaderboardService
	roundSyncService   *usecase.RoundSyncService
	syncScheduler      *usecase.RoundSyncScheduler
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	roundService *usecase.RoundService,
	submissionService *usecase.SubmissionService,
	leaderboardService *usecase.LeaderboardService,
	roundSyncService *usecase.RoundSyncService,
	syncScheduler *usecase.RoundSyncScheduler,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		roundService:       roundService,
		submissionService:  submissionService,
		leaderboardService: leaderboardService,
		roundSyncService:   roundSyncService,
		syncScheduler:      syncScheduler,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListRounds serves the stored feed keyed by round label, the document the entry form renders.
func (h *Handler) ListRounds(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRounds")
	defer span.End()

	payload, err := h.roundService.ListRaw(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list rounds failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any(payload))
}

func (h *Handler) ListResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListResults")
	defer span.End()

	outcomes, err := h.roundService.ListResults(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list results failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchResultDTO, 0, len(outcomes))
	for _, item := range outcomes {
		items = append(items, matchResultToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) SubmitTicket(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitTicket")
	defer span.End()

	var req submitTicketRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	picks := make([]usecase.SubmitPickInput, 0, len(req.Picks))
	for _, pick := range req.Picks {
		picks = append(picks, usecase.SubmitPickInput{
			FixtureID: pick.EventID,
			Selection: pick.Pick,
			HomeTeam:  pick.HomeTeam,
			AwayTeam:  pick.AwayTeam,
		})
	}

	item, err := h.submissionService.Submit(ctx, usecase.SubmitTicketInput{
		ParticipantName: req.Username,
		Email:           req.Email,
		Phone:           req.Phone,
		PaymentProofRef: req.PaymentProofURL,
		Picks:           picks,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit ticket failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, submitTicketResponse{
		OK:        true,
		ID:        item.ID,
		CreatedAt: item.CreatedAt,
	})
}

func (h *Handler) ListTickets(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTickets")
	defer span.End()

	tickets, err := h.leaderboardService.ListTickets(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list tickets failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]ticketDTO, 0, len(tickets))
	for _, item := range tickets {
		items = append(items, ticketToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetTicket(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTicket")
	defer span.End()

	ticketID := r.PathValue("ticketID")
	item, err := h.leaderboardService.GetTicket(ctx, ticketID)
	if err != nil {
		h.logger.WarnContext(ctx, "get ticket failed", "ticket_id", ticketID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rankedTicketToDTO(item))
}

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeaderboard")
	defer span.End()

	ranked, err := h.leaderboardService.Build(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "build leaderboard failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]rankedTicketDTO, 0, len(ranked))
	for _, item := range ranked {
		items = append(items, rankedTicketToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) RunSyncRoundsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncRoundsJob")
	defer span.End()

	if h.roundSyncService == nil {
		writeError(ctx, w, fmt.Errorf("%w: round sync is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req syncRoundsRequest
	if err := decodeJSONBody(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.roundSyncService.Sync(ctx, usecase.SyncRoundsInput{
		Labels:     req.Rounds,
		MaxWorkers: req.MaxWorkers,
		DryRun:     req.DryRun,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "run sync rounds job failed", "rounds", req.Rounds, "dry_run", req.DryRun, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "sync rounds job finished",
		"rounds", result.RoundCount,
		"success", result.SuccessCount,
		"failed", result.FailedCount,
		"skipped", result.SkippedCount,
	)
	writeSuccess(ctx, w, http.StatusOK, result)
}

// ScheduleSyncRoundsJob queues the sync-rounds job to run later through the job queue.
func (h *Handler) ScheduleSyncRoundsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ScheduleSyncRoundsJob")
	defer span.End()

	if h.syncScheduler == nil {
		writeError(ctx, w, fmt.Errorf("%w: job scheduling is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req scheduleSyncRequest
	if err := decodeJSONBody(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	scheduled, err := h.syncScheduler.Schedule(ctx, usecase.ScheduleSyncInput{
		SyncRoundsInput: usecase.SyncRoundsInput{
			Labels:     req.Rounds,
			MaxWorkers: req.MaxWorkers,
			DryRun:     req.DryRun,
		},
		Delay: time.Duration(req.DelaySeconds) * time.Second,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "schedule sync rounds job failed", "rounds", req.Rounds, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusAccepted, scheduled)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

var errEmptyBody = fmt.Errorf("%w: request body is empty", usecase.ErrInvalidInput)

var strictJSON = sonic.Config{DisallowUnknownFields: true}.Froze()

func decodeJSONBody(r *http.Request, target any) error {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodyBytes+1))
	if err != nil {
		return fmt.Errorf("%w: read request body: %v", usecase.ErrInvalidInput, err)
	}
	if len(raw) > maxRequestBodyBytes {
		return fmt.Errorf("%w: request body exceeds %d bytes", usecase.ErrInvalidInput, maxRequestBodyBytes)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return errEmptyBody
	}

	if err := strictJSON.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}
