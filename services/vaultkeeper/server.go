package vaultkeeper

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"vaultrewards/native/vaultrewards"
)

// RewardsReader is the read-only slice of the reward engine served over HTTP.
type RewardsReader interface {
	Global() (*vaultrewards.GlobalState, error)
	Participant(addr common.Address) (*vaultrewards.Participant, error)
	PendingRewards(addr common.Address, height uint64) (vaultrewards.Amount, error)
	RewardPerCollateral(height uint64) (vaultrewards.Amount, error)
}

// ParticipantLister enumerates stored participants.
type ParticipantLister interface {
	Participants() ([]*vaultrewards.Participant, error)
}

type StatusSource interface {
	Status() Status
}

type ServerConfig struct {
	Logger       *slog.Logger
	Rewards      RewardsReader
	Participants ParticipantLister
	Heights      HeightSource
	Keeper       StatusSource
	RateLimit    RateLimit
}

type Server struct {
	log     *slog.Logger
	cfg     ServerConfig
	limiter *clientLimiter
}

func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Rewards == nil {
		return nil, errors.New("rewards reader is required")
	}
	if cfg.Heights == nil {
		return nil, errors.New("height source is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Server{log: cfg.Logger, cfg: cfg, limiter: newClientLimiter(cfg.RateLimit)}, nil
}

type globalResponse struct {
	Height              uint64                    `json:"height"`
	Stored              *vaultrewards.GlobalState `json:"stored"`
	RewardPerCollateral vaultrewards.Amount       `json:"projectedRewardPerCollateral"`
	Keeper              *Status                   `json:"keeper,omitempty"`
}

type participantResponse struct {
	Height         uint64                    `json:"height"`
	Participant    *vaultrewards.Participant `json:"participant"`
	PendingRewards vaultrewards.Amount       `json:"pendingRewards"`
}

// Handler builds the HTTP routes, instrumented with OpenTelemetry.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(withRequestID)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/v1", func(sr chi.Router) {
		if s.limiter != nil {
			sr.Use(s.limiter.middleware)
		}
		sr.Get("/global", s.getGlobal)
		if s.cfg.Participants != nil {
			sr.Get("/participants", s.listParticipants)
		}
		sr.Get("/participants/{address}", s.getParticipant)
	})
	return otelhttp.NewHandler(r, "vaultkeeper")
}

func (s *Server) getGlobal(w http.ResponseWriter, r *http.Request) {
	height := s.cfg.Heights.CurrentHeight()
	stored, err := s.cfg.Rewards.Global()
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	projected, err := s.cfg.Rewards.RewardPerCollateral(height)
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	resp := globalResponse{Height: height, Stored: stored, RewardPerCollateral: projected}
	if s.cfg.Keeper != nil {
		status := s.cfg.Keeper.Status()
		resp.Keeper = &status
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) listParticipants(w http.ResponseWriter, r *http.Request) {
	participants, err := s.cfg.Participants.Participants()
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	if participants == nil {
		participants = []*vaultrewards.Participant{}
	}
	writeJSON(w, http.StatusOK, participants)
}

func (s *Server) getParticipant(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(chi.URLParam(r, "address"))
	if !common.IsHexAddress(raw) {
		s.fail(w, r, http.StatusBadRequest, errors.New("invalid address"))
		return
	}
	addr := common.HexToAddress(raw)
	height := s.cfg.Heights.CurrentHeight()

	participant, err := s.cfg.Rewards.Participant(addr)
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	pending, err := s.cfg.Rewards.PendingRewards(addr, height)
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, participantResponse{
		Height:         height,
		Participant:    participant,
		PendingRewards: pending,
	})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.log.Error("vaultkeeper: request failed", "path", r.URL.Path, "requestID", requestID(r.Context()), "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
