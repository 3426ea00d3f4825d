package services

import (
	"encoding/json"
	"net/http"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/gorilla/mux"
	"github.com/vishal-24-1/Inzighted-G-sub000/db"
	"github.com/vishal-24-1/Inzighted-G-sub000/tutor"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// TutorService is the HTTP surface of the tutoring engine. Handlers stay
// thin: decode, call the orchestrator, encode.
type TutorService struct {
	orch *tutor.Orchestrator
}

func ProvideTutorService(orch *tutor.Orchestrator) *TutorService {
	return &TutorService{orch: orch}
}

// Router wires all routes. The learner identity arrives in the
// X-Learner-Id header; raw identities never appear in paths or bodies.
func (s *TutorService) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.health).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/sessions", s.startSession).Methods(http.MethodPost)
	v1.HandleFunc("/sessions/{id}/turns", s.submitTurn).Methods(http.MethodPost)
	v1.HandleFunc("/sessions/{id}/end", s.endSession).Methods(http.MethodPost)
	v1.HandleFunc("/sessions/{id}/feedback", s.submitFeedback).Methods(http.MethodPost)
	return r
}

type startSessionRequest struct {
	DocumentIDs []string `json:"documentIds"`
	Language    string   `json:"language"`
}

type questionPayload struct {
	ID           string `json:"id"`
	Order        int    `json:"order"`
	Archetype    string `json:"archetype"`
	Difficulty   string `json:"difficulty"`
	QuestionText string `json:"questionText"`
}

type startSessionResponse struct {
	SessionID     string           `json:"sessionId"`
	Status        string           `json:"status"`
	FirstQuestion *questionPayload `json:"firstQuestion"`
}

func (s *TutorService) startSession(w http.ResponseWriter, r *http.Request) {
	learnerID := r.Header.Get("X-Learner-Id")
	if learnerID == "" {
		writeError(w, status.Error(codes.Unauthenticated, "X-Learner-Id header is required"))
		return
	}

	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, status.Error(codes.InvalidArgument, "malformed request body"))
		return
	}

	res, err := s.orch.StartSession(r.Context(), learnerID, req.DocumentIDs, req.Language)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, startSessionResponse{
		SessionID:     res.Session.ID,
		Status:        res.Session.Status,
		FirstQuestion: toQuestionPayload(res.FirstQuestion),
	})
}

type submitTurnRequest struct {
	TurnID string `json:"turnId"`
	Text   string `json:"text"`
}

type evaluationPayload struct {
	Score       float64 `json:"score"`
	RewardUnits int     `json:"rewardUnits"`
	Correct     bool    `json:"correct"`
	Rationale   string  `json:"rationale"`
	Confidence  float64 `json:"confidence"`
}

type replyPayload struct {
	Text     string `json:"text"`
	Grounded bool   `json:"grounded"`
}

type submitTurnResponse struct {
	TurnID          string             `json:"turnId"`
	Intent          string             `json:"intent"`
	Evaluation      *evaluationPayload `json:"evaluation,omitempty"`
	Reply           *replyPayload      `json:"reply,omitempty"`
	NextQuestion    *questionPayload   `json:"nextQuestion,omitempty"`
	SessionComplete bool               `json:"sessionComplete"`
}

func (s *TutorService) submitTurn(w http.ResponseWriter, r *http.Request) {
	var req submitTurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, status.Error(codes.InvalidArgument, "malformed request body"))
		return
	}

	res, err := s.orch.SubmitTurn(r.Context(), mux.Vars(r)["id"], req.TurnID, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := submitTurnResponse{
		TurnID:          res.TurnID,
		Intent:          string(res.Intent),
		NextQuestion:    toQuestionPayload(res.NextQuestion),
		SessionComplete: res.SessionComplete,
	}
	if res.Evaluation != nil {
		resp.Evaluation = &evaluationPayload{
			Score:       res.Evaluation.Score,
			RewardUnits: res.Evaluation.RewardUnits,
			Correct:     res.Evaluation.Correct,
			Rationale:   res.Evaluation.Rationale,
			Confidence:  res.Evaluation.Confidence,
		}
	}
	if res.Reply != nil {
		resp.Reply = &replyPayload{Text: res.Reply.Text, Grounded: res.Reply.Grounded}
	}
	writeJSON(w, http.StatusOK, resp)
}

type zonePayload struct {
	Bullets       []string `json:"bullets"`
	Justification string   `json:"justification"`
}

type summaryResponse struct {
	SessionID       string      `json:"sessionId"`
	WeakAreas       zonePayload `json:"weakAreas"`
	StrongAreas     zonePayload `json:"strongAreas"`
	GrowthPotential zonePayload `json:"growthPotential"`
	AccuracyPercent float64     `json:"accuracyPercent"`
	TotalReward     int         `json:"totalReward"`
}

func (s *TutorService) endSession(w http.ResponseWriter, r *http.Request) {
	summary, err := s.orch.EndSession(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryResponse(summary))
}

type feedbackRequest struct {
	Rating  int    `json:"rating"`
	Liked   string `json:"liked"`
	Improve string `json:"improve"`
	Skipped bool   `json:"skipped"`
}

func (s *TutorService) submitFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, status.Error(codes.InvalidArgument, "malformed request body"))
		return
	}

	if err := s.orch.SubmitFeedback(r.Context(), mux.Vars(r)["id"],
		req.Rating, req.Liked, req.Improve, req.Skipped); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *TutorService) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func toQuestionPayload(q *db.QuestionItemModel) *questionPayload {
	if q == nil {
		return nil
	}
	return &questionPayload{
		ID:           q.ID,
		Order:        q.Order,
		Archetype:    q.Archetype,
		Difficulty:   q.Difficulty,
		QuestionText: q.QuestionText,
	}
}

func toSummaryResponse(s *db.SessionSummaryModel) summaryResponse {
	return summaryResponse{
		SessionID:       s.ID,
		WeakAreas:       zonePayload(s.WeakAreas),
		StrongAreas:     zonePayload(s.StrongAreas),
		GrowthPotential: zonePayload(s.GrowthPotential),
		AccuracyPercent: s.AccuracyPercent,
		TotalReward:     s.TotalReward,
	}
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("writing response failed", zap.Error(err))
	}
}

// writeError maps the engine's status codes onto HTTP.
func writeError(w http.ResponseWriter, err error) {
	st, _ := status.FromError(err)
	httpCode := http.StatusInternalServerError
	switch st.Code() {
	case codes.InvalidArgument:
		httpCode = http.StatusBadRequest
	case codes.NotFound:
		httpCode = http.StatusNotFound
	case codes.FailedPrecondition:
		httpCode = http.StatusPreconditionFailed
	case codes.Unauthenticated:
		httpCode = http.StatusUnauthorized
	case codes.PermissionDenied:
		httpCode = http.StatusForbidden
	case codes.DeadlineExceeded:
		httpCode = http.StatusGatewayTimeout
	}
	writeJSON(w, httpCode, map[string]string{"error": st.Message()})
}
