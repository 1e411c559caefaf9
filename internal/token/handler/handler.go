package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	guard "sunhex/internal/guard/service"
	"sunhex/internal/token/models"
	dErrors "sunhex/pkg/domain-errors"
	"sunhex/pkg/platform/httputil"
	"sunhex/pkg/requestcontext"
)

// Service is the token boundary the HTTP layer depends on.
type Service interface {
	Generate(ctx context.Context, cmd models.GenerateCommand) (*models.GenerateResult, error)
	Decode(ctx context.Context, cmd models.DecodeCommand) (*models.DecodeResult, error)
	Countries(ctx context.Context) []string
}

type Handler struct {
	service     Service
	logger      *slog.Logger
	debugOutput bool
}

// New builds the handler. With debugOutput set, responses carry the codec
// trace (intermediate SIN and field encodings).
func New(service Service, logger *slog.Logger, debugOutput bool) *Handler {
	return &Handler{service: service, logger: logger, debugOutput: debugOutput}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/api/generate", h.HandleGenerate)
	r.Post("/api/decode", h.HandleDecode)
	r.Get("/api/countries", h.HandleCountries)
}

// HandleGenerate turns personal information and a PIN into a hex code.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[GenerateRequest](w, r, h.logger)
	if !ok {
		return
	}

	res, err := h.service.Generate(ctx, req.ToCommand())
	if err != nil {
		h.writeError(ctx, w, "generate failed", err)
		return
	}

	resp := GenerateResponse{Status: statusSuccess, HexCode: res.Token}
	if h.debugOutput {
		resp.DebugInfo = res.Trace
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleDecode recovers personal information from a hex code and PIN.
func (h *Handler) HandleDecode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[DecodeRequest](w, r, h.logger)
	if !ok {
		return
	}

	res, err := h.service.Decode(ctx, req.ToCommand())
	if err != nil {
		var locked *guard.LockedError
		if errors.As(err, &locked) {
			w.Header().Set("Retry-After", strconv.Itoa(locked.RetryAfter(time.Now())))
		}
		h.writeError(ctx, w, "decode failed", err)
		return
	}

	resp := DecodeResponse{Status: statusSuccess, PersonalInfo: res.Info}
	if h.debugOutput {
		resp.DebugInfo = res.Trace
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleCountries(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, CountriesResponse{
		Status:    statusSuccess,
		Countries: h.service.Countries(r.Context()),
	})
}

// writeError logs client mistakes at warn and everything else at error.
func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	level := slog.LevelError
	if dErrors.CodeOf(err).ClientFault() {
		level = slog.LevelWarn
	}
	h.logger.Log(ctx, level, msg, "error", err, "request_id", requestcontext.RequestID(ctx))
	httputil.WriteError(w, err)
}
