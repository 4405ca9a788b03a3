package server

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"sattva/internal/activity"
	"sattva/internal/coherence"
	"sattva/internal/mentor"
	"sattva/internal/schedule"
	"sattva/internal/session"
)

func (s *Server) handleState(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleScore(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"score": s.store.Score()})
}

func (s *Server) handleRecommendation(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Recommendation())
}

func (s *Server) handleLog(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Snapshot().ActivityLog)
}

func (s *Server) handleMentors(c *gin.Context) {
	type mentorView struct {
		ID        mentor.ID `json:"id"`
		Name      string    `json:"name"`
		Dimension string    `json:"dimension"`
		Label     string    `json:"label"`
	}
	out := make([]mentorView, 0)
	for _, m := range mentor.All() {
		out = append(out, mentorView{ID: m.ID, Name: m.Name, Dimension: string(m.Dimension), Label: m.Label})
	}
	c.JSON(http.StatusOK, out)
}

type logActivityRequest struct {
	MentorID   mentor.ID          `json:"mentorId"`
	Kind       activity.Kind      `json:"kind" binding:"required"`
	Transcript []activity.Message `json:"transcript"`
	ToolID     string             `json:"toolId"`
	ToolResult json.RawMessage    `json:"toolResult"`
}

func (s *Server) handleLogActivity(c *gin.Context) {
	var req logActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entry := s.store.LogActivity(activity.Draft{
		MentorID:   req.MentorID,
		Kind:       req.Kind,
		Transcript: req.Transcript,
		ToolID:     req.ToolID,
		ToolResult: req.ToolResult,
	})
	c.JSON(http.StatusOK, entry)
}

// handleVectorAnalysis replaces the whole coherence vector with the result
// of an external deep-analysis pass. The store clamps it before use.
func (s *Server) handleVectorAnalysis(c *gin.Context) {
	var v coherence.Vector
	if err := c.ShouldBindJSON(&v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.store.ApplyVectorAnalysis(v)
	c.JSON(http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleSetToolState(c *gin.Context) {
	var req struct {
		Data json.RawMessage `json:"data" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.store.SetToolState(c.Param("id"), req.Data)
	c.JSON(http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleAppendToolHistory(c *gin.Context) {
	var req struct {
		Item json.RawMessage `json:"item" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.store.AppendToolHistory(c.Param("id"), req.Item)
	c.JSON(http.StatusOK, s.store.Snapshot())
}

type startSessionRequest struct {
	Variant    session.Variant `json:"variant" binding:"required"`
	Origin     session.Origin  `json:"origin"`
	MentorID   mentor.ID       `json:"mentorId"`
	VoiceMode  bool            `json:"voiceMode"`
	ToolID     string          `json:"toolId"`
	ScheduleID string          `json:"scheduleId"`
	Activity   string          `json:"activity"`
	Queued     bool            `json:"queued"` // start after the navigator closes
}

func (s *Server) handleStartSession(c *gin.Context) {
	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	origin := req.Origin
	if origin == "" {
		origin = session.OriginManual
	}

	var sess *session.Session
	switch req.Variant {
	case session.VariantMentorChat:
		if _, ok := mentor.Get(req.MentorID); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown mentor"})
			return
		}
		sess = session.NewMentorChat(req.MentorID, req.VoiceMode, origin)
	case session.VariantTool:
		sess = session.NewTool(req.ToolID, origin)
	case session.VariantScheduledCall:
		sess = session.NewScheduledCall(req.ScheduleID, req.Activity)
	case session.VariantJourney:
		sess = session.NewJourney(origin)
	case session.VariantHelp:
		sess = session.NewHelp(origin)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown session variant"})
		return
	}

	if req.Queued {
		s.store.QueueSession(sess)
	} else {
		s.store.StartSession(sess)
	}
	c.JSON(http.StatusOK, s.store.Snapshot())
}

type endSessionRequest struct {
	ManualExit bool            `json:"manualExit"`
	ToolResult json.RawMessage `json:"toolResult"`
}

func (s *Server) handleEndSession(c *gin.Context) {
	var req endSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.store.EndSession(req.ManualExit, req.ToolResult)
	c.JSON(http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleSwitchMentor(c *gin.Context) {
	var req struct {
		MentorID mentor.ID `json:"mentorId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, ok := mentor.Get(req.MentorID); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown mentor"})
		return
	}
	s.store.SwitchMentor(req.MentorID)
	c.JSON(http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleChatMessage(c *gin.Context) {
	var req struct {
		MentorID mentor.ID `json:"mentorId" binding:"required"`
		Text     string    `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.store.SendChatMessage(req.MentorID, req.Text)
	c.JSON(http.StatusAccepted, gin.H{"status": "pending"})
}

func (s *Server) handleNavigatorOpen(c *gin.Context) {
	s.store.OpenVoiceNavigator()
	c.JSON(http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleNavigatorClose(c *gin.Context) {
	s.store.CloseVoiceNavigator()
	c.JSON(http.StatusOK, s.store.Snapshot())
}

type addScheduleRequest struct {
	Activity   string              `json:"activity" binding:"required"`
	Time       string              `json:"time" binding:"required"` // RFC 3339
	Recurrence schedule.Recurrence `json:"recurrence"`
	CustomDays []int               `json:"customDays"`
}

func (s *Server) handleAddSchedule(c *gin.Context) {
	var req addScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	at, err := parseRFC3339(req.Time)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "time must be RFC 3339"})
		return
	}
	if req.Recurrence == "" {
		req.Recurrence = schedule.RecurrenceNone
	}
	sc := schedule.New(req.Activity, at, req.Recurrence, toWeekdays(req.CustomDays))
	s.store.AddSchedule(sc)
	c.JSON(http.StatusOK, sc)
}

func (s *Server) handleRemoveSchedule(c *gin.Context) {
	s.store.RemoveSchedule(c.Param("id"))
	c.JSON(http.StatusOK, s.store.Snapshot().Schedules)
}

func (s *Server) handleCompleteSchedule(c *gin.Context) {
	s.store.CompleteSchedule(c.Param("id"))
	c.JSON(http.StatusOK, s.store.Snapshot().Schedules)
}

func (s *Server) handleRefreshQuest(c *gin.Context) {
	s.store.RefreshQuest()
	c.JSON(http.StatusAccepted, gin.H{"status": "pending"})
}

func (s *Server) handleDismissQuest(c *gin.Context) {
	s.store.DismissQuest()
	c.JSON(http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleTourStart(c *gin.Context) {
	var req struct {
		TourID  string `json:"tourId" binding:"required"`
		Context string `json:"context"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.store.StartTour(req.TourID, req.Context)
	c.JSON(http.StatusOK, s.store.TourState())
}

func (s *Server) handleTourNext(c *gin.Context) {
	s.store.NextTourStep()
	c.JSON(http.StatusOK, s.store.TourState())
}

func (s *Server) handleTourPrevious(c *gin.Context) {
	s.store.PreviousTourStep()
	c.JSON(http.StatusOK, s.store.TourState())
}

func (s *Server) handleTourEnd(c *gin.Context) {
	s.store.EndTour()
	c.JSON(http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleListeningMode(c *gin.Context) {
	var req struct {
		Active bool `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.store.SetListeningMode(req.Active)
	c.JSON(http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleFontSize(c *gin.Context) {
	var req struct {
		Size string `json:"size" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.store.SetFontSize(req.Size)
	c.JSON(http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleReset(c *gin.Context) {
	s.store.Reset()
	c.JSON(http.StatusOK, s.store.Snapshot())
}
