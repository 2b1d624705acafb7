package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ananya/resumatch/internal/chat"
	"github.com/ananya/resumatch/internal/events"
	"github.com/ananya/resumatch/internal/types"
)

// AnalyzeRequest is the request body for /analyze and /analyze/stream
type AnalyzeRequest struct {
	ResumeText     string `json:"resume_text" validate:"required,min=50"`
	JobDescription string `json:"job_description,omitempty"`
}

// AnalyzeResponse is the response for /analyze
type AnalyzeResponse struct {
	AnalysisID string                `json:"analysis_id"`
	Report     *types.AnalysisReport `json:"report"`
}

// ChatRequest is the request body for /chat
type ChatRequest struct {
	Question   string `json:"question" validate:"required"`
	AnalysisID string `json:"analysis_id,omitempty"`
}

// ChatResponse is the response for /chat
type ChatResponse struct {
	Reply string `json:"reply"`
}

// resumeInput combines the resume with an optional target job description.
func (req *AnalyzeRequest) resumeInput() string {
	if req.JobDescription == "" {
		return req.ResumeText
	}
	return req.ResumeText + "\n\nTARGET JOB DESCRIPTION:\n" + req.JobDescription
}

// decodeAndValidate decodes a JSON body and runs struct validation.
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return false
	}
	return true
}

// handleAnalyze runs the full pipeline synchronously and returns the report
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	report := s.pipeline.Run(r.Context(), req.resumeInput(), nil)
	id := s.cache.Put(report)
	s.persist(r.Context(), report)

	s.jsonResponse(w, http.StatusOK, AnalyzeResponse{AnalysisID: id, Report: report})
}

// handleAnalyzeStream runs the pipeline and streams progress via SSE
func (s *Server) handleAnalyzeStream(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	ch := events.NewChannel(events.DefaultBuffer)

	// Producer and consumer are coupled only through the channel. Waiting
	// on the group keeps persistence running to completion even when the
	// client disconnects mid-stream.
	var g errgroup.Group
	g.Go(func() error {
		report := s.pipeline.Run(r.Context(), req.resumeInput(), ch)
		s.cache.Put(report)
		s.persist(context.Background(), report)
		ch.Finish(report)
		return nil
	})
	g.Go(func() error {
		err := ch.Drain(r.Context(), sse.WriteEvent)
		if err != nil {
			// Client is gone; discard the rest so the producer's
			// terminal sends are never stranded.
			_ = ch.Drain(context.Background(), func(events.Event) error { return nil })
		}
		return err
	})

	if err := g.Wait(); err != nil {
		log.Printf("SSE stream ended early: %v", err)
	}
}

// handleChat answers one career-coach turn
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	var report *types.AnalysisReport
	if req.AnalysisID != "" {
		report = s.cache.Get(req.AnalysisID)
	}

	reply, err := s.coach.Reply(r.Context(), chat.Request{Question: req.Question, Report: report})
	if err != nil {
		log.Printf("chat failed: %v", err)
		s.errorResponse(w, http.StatusBadGateway, "Chat is unavailable right now.")
		return
	}

	s.jsonResponse(w, http.StatusOK, ChatResponse{Reply: reply})
}

// handleGetResult returns a cached analysis report
func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if report := s.cache.Get(id); report != nil {
		s.jsonResponse(w, http.StatusOK, report)
		return
	}

	if s.db != nil {
		if runID, err := uuid.Parse(id); err == nil {
			report, err := s.db.GetReport(r.Context(), runID)
			if err != nil {
				log.Printf("report lookup failed: %v", err)
			} else if report != nil {
				s.jsonResponse(w, http.StatusOK, report)
				return
			}
		}
	}

	s.errorResponse(w, http.StatusNotFound, "No result for that analysis id")
}

// persist best-effort stores a report; persistence failures are logged
// and never surfaced to the caller.
func (s *Server) persist(ctx context.Context, report *types.AnalysisReport) {
	if s.db == nil {
		return
	}

	runID, err := s.db.CreateRun(ctx, report.DetectedRole)
	if err != nil {
		log.Printf("warning: could not record analysis run: %v", err)
		return
	}
	if err := s.db.SaveReport(ctx, runID, report); err != nil {
		log.Printf("warning: could not save report: %v", err)
		return
	}

	status := "completed"
	if report.Error != "" {
		status = "degraded"
	}
	if err := s.db.CompleteRun(ctx, runID, status); err != nil {
		log.Printf("warning: could not complete run: %v", err)
	}
}
