package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"student-app/internal/app"
	"student-app/internal/domain"
)

// WSHandler bridges the learning use cases to a UI over a websocket. Each inbound
// message carries a type and request id; every message gets exactly one reply.
type WSHandler struct {
	service  *app.LearningService
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

func NewWSHandler(service *app.LearningService, log zerolog.Logger) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

type inboundMessage struct {
	Type      string          `json:"type"`
	RequestID string          `json:"requestId"`
	Payload   json.RawMessage `json:"payload"`
}

type outboundMessage struct {
	Type      string `json:"type"`
	RequestID string `json:"requestId,omitempty"`
	Payload   any    `json:"payload"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type moduleRequest struct {
	ModuleID domain.ID `json:"moduleId"`
}

type subjectRequest struct {
	SubjectID domain.ID `json:"subjectId"`
}

type startQuizRequest struct {
	ModuleID  domain.ID `json:"moduleId"`
	SubjectID domain.ID `json:"subjectId"`
}

type answerRequest struct {
	SubjectID  domain.ID `json:"subjectId"`
	QuestionID domain.ID `json:"questionId"`
	Option     string    `json:"option"`
}

type syncResult struct {
	ModuleID domain.ID `json:"moduleId"`
	Synced   bool      `json:"synced"`
}

type subjectsResult struct {
	Module   domain.Module    `json:"module"`
	Subjects []domain.Subject `json:"subjects"`
}

type resultEntry struct {
	domain.ResultView
	Performance string `json:"performance"`
}

type finishResult struct {
	app.QuizOutcome
	Performance string `json:"performance"`
	// SaveError is set when the result could not be stored; the UI shows it as a warning.
	SaveError *errorPayload `json:"saveError,omitempty"`
}

// ServeWS upgrades HTTP requests to websockets and dispatches messages until the client
// disconnects.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage, 16)
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.log.Warn().Err(err).Msg("ws write failed")
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		reply := h.dispatch(r.Context(), inbound)
		select {
		case send <- reply:
		case <-writerDone:
		}
	}

	close(send)
	<-writerDone
}

func (h *WSHandler) dispatch(ctx context.Context, in inboundMessage) outboundMessage {
	payload, err := h.handle(ctx, in)
	if err != nil {
		h.log.Debug().Err(err).Str("type", in.Type).Str("request_id", in.RequestID).Msg("ws request failed")
		return outboundMessage{
			Type:      "error",
			RequestID: in.RequestID,
			Payload:   errorPayload{Code: errorCode(err), Message: err.Error()},
		}
	}
	return outboundMessage{Type: in.Type + "Result", RequestID: in.RequestID, Payload: payload}
}

func (h *WSHandler) handle(ctx context.Context, in inboundMessage) (any, error) {
	switch in.Type {
	case "sync":
		var req moduleRequest
		if err := decodePayload(in.Payload, &req); err != nil {
			return nil, err
		}
		synced, err := h.service.SyncModule(ctx, req.ModuleID)
		if err != nil {
			return nil, err
		}
		return syncResult{ModuleID: req.ModuleID, Synced: synced}, nil

	case "progress":
		var req moduleRequest
		if err := decodePayload(in.Payload, &req); err != nil {
			return nil, err
		}
		return h.service.GetModuleProgress(ctx, req.ModuleID)

	case "subjects":
		var req moduleRequest
		if err := decodePayload(in.Payload, &req); err != nil {
			return nil, err
		}
		module, err := h.service.GetModule(ctx, req.ModuleID)
		if err != nil {
			return nil, err
		}
		subjects, err := h.service.ListSubjects(ctx, req.ModuleID)
		if err != nil {
			return nil, err
		}
		return subjectsResult{Module: module, Subjects: subjects}, nil

	case "theory":
		var req subjectRequest
		if err := decodePayload(in.Payload, &req); err != nil {
			return nil, err
		}
		return h.service.GetTheoryPages(ctx, req.SubjectID)

	case "results":
		var req subjectRequest
		if err := decodePayload(in.Payload, &req); err != nil {
			return nil, err
		}
		views, err := h.service.GetResultsForSubject(ctx, req.SubjectID)
		if err != nil {
			return nil, err
		}
		entries := make([]resultEntry, 0, len(views))
		for _, v := range views {
			entries = append(entries, resultEntry{ResultView: v, Performance: domain.Performance(v.Score, v.TotalQuestions)})
		}
		return entries, nil

	case "startQuiz":
		var req startQuizRequest
		if err := decodePayload(in.Payload, &req); err != nil {
			return nil, err
		}
		return h.service.StartQuiz(ctx, req.ModuleID, req.SubjectID)

	case "answer":
		var req answerRequest
		if err := decodePayload(in.Payload, &req); err != nil {
			return nil, err
		}
		return h.service.AnswerQuestion(ctx, req.SubjectID, req.QuestionID, req.Option)

	case "finishQuiz":
		var req subjectRequest
		if err := decodePayload(in.Payload, &req); err != nil {
			return nil, err
		}
		outcome, err := h.service.FinishQuiz(ctx, req.SubjectID)
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, err
		}
		// A failed save still shows the score, with the reason attached.
		reply := finishResult{QuizOutcome: outcome, Performance: domain.Performance(outcome.Score, outcome.Total)}
		if err != nil {
			h.log.Warn().Err(err).Stringer("subject_id", req.SubjectID).Msg("quiz finished but result not saved")
			reply.SaveError = &errorPayload{Code: errorCode(err), Message: err.Error()}
		}
		return reply, nil
	}
	return nil, errUnsupported
}

var (
	errUnsupported = errors.New("unsupported message type")
	errBadPayload  = errors.New("invalid payload")
)

func decodePayload(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: missing payload", errBadPayload)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %v", errBadPayload, err)
	}
	return nil
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, errUnsupported):
		return "unsupported"
	case errors.Is(err, errBadPayload):
		return "bad_payload"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrSessionNotFound):
		return "no_session"
	case errors.Is(err, domain.ErrInvalidResult):
		return "invalid_result"
	case errors.Is(err, domain.ErrQuestionNotFound), errors.Is(err, domain.ErrInvalidOption):
		return "invalid_answer"
	case errors.Is(err, domain.ErrMalformedDocument):
		return "malformed_document"
	case errors.Is(err, domain.ErrStorageFailure):
		return "storage"
	default:
		return "internal"
	}
}
