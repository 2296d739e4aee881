package app

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/cardhall/pitwatch/internal/flow"
	"github.com/cardhall/pitwatch/internal/ledger"
	"github.com/cardhall/pitwatch/internal/platform/errors"
	"github.com/cardhall/pitwatch/internal/risk"
	"github.com/cardhall/pitwatch/internal/signal"
	"github.com/cardhall/pitwatch/internal/storage"
	"github.com/cardhall/pitwatch/internal/view"
)

const defaultTopN = 10

type entryResponse struct {
	Seq       uint64    `json:"seq"`
	Hash      string    `json:"hash"`
	PrevHash  string    `json:"prev_hash"`
	Timestamp time.Time `json:"timestamp"`
}

func entryResponseOf[P ledger.Payload](e ledger.Entry[P]) entryResponse {
	return entryResponse{
		Seq:       e.Seq,
		Hash:      e.Hash,
		PrevHash:  e.PrevHash,
		Timestamp: e.Timestamp,
	}
}

type errorBody struct {
	Code     string            `json:"code"`
	Message  string            `json:"message"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	writeJSON(w, code.HTTPStatus(), errorResponse{Error: errorBody{
		Code:     string(code),
		Message:  err.Error(),
		Metadata: errors.GetMetadata(err),
	}})
}

func decode(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		writeError(w, errors.Wrap(errors.CodeInvalidInput, "malformed request body", err))
		return false
	}
	return true
}

type appendSignalRequest struct {
	Kind       string    `json:"kind"`
	PlayerID   string    `json:"player_id"`
	TableID    string    `json:"table_id"`
	SessionID  string    `json:"session_id"`
	Intensity  float64   `json:"intensity"`
	DurationMs int64     `json:"duration_ms"`
	RefID      string    `json:"ref_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

func (s *Server) handleAppendSignal(w http.ResponseWriter, r *http.Request) {
	var req appendSignalRequest
	if !decode(w, r, &req) {
		return
	}
	entry, err := s.signals.Append(signal.Signal{
		Kind:       signal.Kind(req.Kind),
		PlayerID:   req.PlayerID,
		TableID:    req.TableID,
		SessionID:  req.SessionID,
		Intensity:  req.Intensity,
		DurationMs: req.DurationMs,
		RefID:      req.RefID,
	}, req.Timestamp)
	if err != nil {
		writeError(w, err)
		return
	}
	persist(r.Context(), s.store, storage.LedgerSignals, entry)
	writeJSON(w, http.StatusCreated, entryResponseOf(entry))
}

type appendFlowRequest struct {
	Direction string    `json:"direction"`
	Source    string    `json:"source"`
	PlayerID  string    `json:"player_id"`
	TableID   string    `json:"table_id"`
	SessionID string    `json:"session_id"`
	Units     int64     `json:"units"`
	RefID     string    `json:"ref_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *Server) handleAppendFlow(w http.ResponseWriter, r *http.Request) {
	var req appendFlowRequest
	if !decode(w, r, &req) {
		return
	}
	entry, err := s.flows.Append(flow.Flow{
		Direction: flow.Direction(req.Direction),
		Source:    flow.Source(req.Source),
		PlayerID:  req.PlayerID,
		TableID:   req.TableID,
		SessionID: req.SessionID,
		Units:     req.Units,
		RefID:     req.RefID,
	}, req.Timestamp)
	if err != nil {
		writeError(w, err)
		return
	}
	persist(r.Context(), s.store, storage.LedgerFlows, entry)
	writeJSON(w, http.StatusCreated, entryResponseOf(entry))
}

type thresholdRequest struct {
	Kind         string  `json:"kind"`
	MaxCount     int     `json:"max_count,omitempty"`
	MaxPerWindow int     `json:"max_per_window,omitempty"`
	WindowMs     int64   `json:"window_ms,omitempty"`
	MinGapMs     int64   `json:"min_gap_ms,omitempty"`
	MaxPercent   float64 `json:"max_percent,omitempty"`
}

type appendRuleRequest struct {
	Name      string           `json:"name"`
	Category  string           `json:"category"`
	Severity  string           `json:"severity"`
	Threshold thresholdRequest `json:"threshold"`
	Timestamp time.Time        `json:"timestamp"`
}

func (s *Server) handleAppendRule(w http.ResponseWriter, r *http.Request) {
	var req appendRuleRequest
	if !decode(w, r, &req) {
		return
	}
	entry, err := s.rules.Append(risk.Rule{
		Name:     req.Name,
		Category: risk.Category(req.Category),
		Severity: risk.Severity(req.Severity),
		Threshold: risk.Threshold{
			Kind:         risk.ThresholdKind(req.Threshold.Kind),
			MaxCount:     req.Threshold.MaxCount,
			MaxPerWindow: req.Threshold.MaxPerWindow,
			WindowMs:     req.Threshold.WindowMs,
			MinGapMs:     req.Threshold.MinGapMs,
			MaxPercent:   req.Threshold.MaxPercent,
		},
	}, req.Timestamp)
	if err != nil {
		writeError(w, err)
		return
	}
	persist(r.Context(), s.store, storage.LedgerRules, entry)
	writeJSON(w, http.StatusCreated, entryResponseOf(entry))
}

type subjectEventRequest struct {
	SubjectID string    `json:"subject_id"`
	Category  string    `json:"category"`
	Timestamp time.Time `json:"timestamp"`
}

type evaluateRequest struct {
	At     time.Time             `json:"at"`
	Events []subjectEventRequest `json:"events"`
}

type evaluateResponse struct {
	Flags []risk.Flag `json:"flags"`
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if !decode(w, r, &req) {
		return
	}
	events := make([]risk.SubjectEvent, 0, len(req.Events))
	for _, evt := range req.Events {
		events = append(events, risk.SubjectEvent{
			SubjectID: evt.SubjectID,
			Category:  risk.Category(evt.Category),
			Timestamp: evt.Timestamp,
		})
	}
	flags := risk.EvaluateAll(s.rules.All(), events, req.At)
	writeJSON(w, http.StatusOK, evaluateResponse{Flags: flags})
}

type ledgerIntegrity struct {
	Ledger string `json:"ledger"`
	OK     bool   `json:"ok"`
	Code   string `json:"code,omitempty"`
	Seq    string `json:"seq,omitempty"`
}

type integrityResponse struct {
	OK      bool              `json:"ok"`
	Ledgers []ledgerIntegrity `json:"ledgers"`
}

func (s *Server) handleIntegrity(w http.ResponseWriter, r *http.Request) {
	checks := []struct {
		name   string
		verify func() error
	}{
		{storage.LedgerSignals, s.signals.VerifyIntegrity},
		{storage.LedgerRules, s.rules.VerifyIntegrity},
		{storage.LedgerFlows, s.flows.VerifyIntegrity},
	}
	resp := integrityResponse{OK: true}
	for _, check := range checks {
		status := ledgerIntegrity{Ledger: check.name, OK: true}
		if err := check.verify(); err != nil {
			resp.OK = false
			status.OK = false
			status.Code = string(errors.GetCode(err))
			status.Seq = errors.GetMetadata(err)["seq"]
		}
		resp.Ledgers = append(resp.Ledgers, status)
	}
	writeJSON(w, http.StatusOK, resp)
}

// signalViews builds a view builder over the current signal snapshot.
func (s *Server) signalViews() *view.Builder {
	return view.NewBuilder(signal.Samples(s.signals.All()), signal.Kinds())
}

func (s *Server) handleGlobalView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.signalViews().Global())
}

func (s *Server) handleKindView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.signalViews().ByKind(r.PathValue("kind")))
}

func (s *Server) handlePlayerView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.signalViews().ByActor(r.PathValue("id")))
}

func (s *Server) handleTraceView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.signalViews().Trace(r.PathValue("id")))
}

func (s *Server) handleTableView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.signalViews().ByContext(r.PathValue("id")))
}

func (s *Server) handleSessionView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.signalViews().ByPeriod(r.PathValue("id")))
}

func topN(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("n"))
	if err != nil || n <= 0 {
		return defaultTopN
	}
	return n
}

func (s *Server) handleTopPlayers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.signalViews().TopActors(topN(r)))
}

func (s *Server) handleTopTables(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.signalViews().TopContexts(topN(r)))
}

type flowReportResponse struct {
	Volume       flow.VolumeSummary      `json:"volume"`
	Frequency    flow.FrequencySummary   `json:"frequency"`
	Distribution flow.SourceDistribution `json:"distribution"`
	InOutRatio   float64                 `json:"in_out_ratio"`
}

func (s *Server) handleFlowReport(w http.ResponseWriter, r *http.Request) {
	entries := s.flows.All()
	writeJSON(w, http.StatusOK, flowReportResponse{
		Volume:       flow.SummarizeVolume(entries),
		Frequency:    flow.SummarizeFrequency(entries),
		Distribution: flow.DistributeSources(entries),
		InOutRatio:   flow.InOutRatio(entries),
	})
}
