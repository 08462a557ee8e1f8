package api

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"biaslab/backend/internal/lexicon"
	"biaslab/backend/internal/report"
	"biaslab/backend/internal/session"
	"biaslab/backend/internal/store"
)

// Config defines server dependencies.
type Config struct {
	DBPath         string
	LexiconPath    string
	AllowedOrigins []string
	SilentDB       bool
}

// Server wires HTTP handlers with the session engine and persistence.
type Server struct {
	db             *store.Database
	manager        *session.Manager
	notifier       *SessionNotifier
	lexPath        string
	lex            *lexicon.Lexicon
	allowedOrigins []string
}

// NewServer constructs the API server.
func NewServer(cfg Config) (*Server, error) {
	if cfg.DBPath == "" {
		return nil, errors.New("db path required")
	}
	db, err := store.Open(cfg.DBPath, cfg.SilentDB)
	if err != nil {
		return nil, err
	}

	lex := lexicon.Default()
	lexPath := strings.TrimSpace(cfg.LexiconPath)
	if lexPath != "" {
		loaded, err := lexicon.NewFromFile(lexPath)
		if err != nil {
			return nil, fmt.Errorf("load lexicon: %w", err)
		}
		lex = loaded
		logrus.WithField("path", lexPath).Info("lexicon loaded from file")
	}

	return &Server{
		db:             db,
		manager:        session.NewManager(lex),
		notifier:       NewSessionNotifier(),
		lexPath:        lexPath,
		lex:            lex,
		allowedOrigins: cfg.AllowedOrigins,
	}, nil
}

// Close releases server resources.
func (s *Server) Close() error {
	return s.db.Close()
}

// Router configures gin routes.
func (s *Server) Router() (*gin.Engine, error) {
	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowCredentials = true
	if len(s.allowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = s.allowedOrigins
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	corsCfg.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	r.Use(cors.New(corsCfg))

	r.GET("/api/healthz", s.handleHealth)
	r.GET("/api/config", s.handleConfig)

	api := r.Group("/api")
	{
		api.POST("/sessions", s.handleStartSession)
		api.GET("/sessions/stream", s.handleSessionStream)
		api.GET("/sessions/status", s.handleSessionStatus)
		api.GET("/sessions/:id/next", s.handleNextQuestion)
		api.POST("/sessions/:id/answers", s.handleSubmitAnswer)
		api.GET("/sessions/:id/result", s.handleResult)
		api.GET("/sessions/:id/report", s.handleReport)
		api.DELETE("/sessions/:id", s.handleDiscardSession)
		api.GET("/history", s.handleHistory)
		api.GET("/history/:sessionID", s.handleHistoryDetail)
		api.GET("/export.csv", s.handleExportCSV)
		api.GET("/export.json", s.handleExportJSON)
	}

	return r, nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleConfig(c *gin.Context) {
	stored, err := s.db.CountSessions()
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}

	contexts := make([]string, 0, len(s.lex.Contexts))
	for _, entry := range s.lex.Contexts {
		contexts = append(contexts, entry.Name)
	}

	c.JSON(http.StatusOK, gin.H{
		"lexicon_path":    s.lexPath,
		"contexts":        contexts,
		"active_sessions": s.manager.Count(),
		"stored_sessions": stored,
	})
}

func (s *Server) handleStartSession(c *gin.Context) {
	var req StartSessionRequest
	if c.Request.Body != nil {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			s.renderError(c, http.StatusBadRequest, err)
			return
		}
	}

	sess := s.manager.Start(req.Decision, req.OptionA, req.OptionB, strings.ToUpper(strings.TrimSpace(req.Leaning)))
	progress := sess.Progress()
	optionA, optionB := sess.Options()

	logrus.WithFields(logrus.Fields{
		"session": sess.ID(),
		"context": sess.Profile().Context,
		"scale":   sess.Profile().Scale,
		"total":   progress.Total,
	}).Info("session started")

	s.notifier.Broadcast(SessionEvent{
		Type:      "started",
		SessionID: sess.ID(),
		Total:     progress.Total,
		Phase:     progress.Phase,
	})

	c.JSON(http.StatusCreated, StartSessionResponse{
		SessionID: sess.ID(),
		Profile:   sess.Profile(),
		OptionA:   optionA,
		OptionB:   optionB,
		Question:  sess.Next(),
		Progress:  progress,
	})
}

func (s *Server) handleNextQuestion(c *gin.Context) {
	sess, ok := s.lookupSession(c)
	if !ok {
		return
	}

	current := sess.Next()
	c.JSON(http.StatusOK, NextResponse{
		SessionID: sess.ID(),
		Done:      current == nil,
		Question:  current,
		Progress:  sess.Progress(),
	})
}

func (s *Server) handleSubmitAnswer(c *gin.Context) {
	sess, ok := s.lookupSession(c)
	if !ok {
		return
	}

	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.QuestionID) == "" {
		s.renderError(c, http.StatusBadRequest, errors.New("question_id is required"))
		return
	}

	payload := session.AnswerPayload{
		Value:  req.Value,
		ValueA: req.ValueA,
		ValueB: req.ValueB,
		Text:   req.Text,
	}

	progress, injected, err := sess.Submit(req.QuestionID, payload)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrSessionComplete):
			s.renderError(c, http.StatusConflict, err)
		case errors.Is(err, session.ErrQuestionMismatch):
			s.renderError(c, http.StatusConflict, err)
		case errors.Is(err, session.ErrAnswerRequired):
			s.renderError(c, http.StatusUnprocessableEntity, err)
		default:
			s.renderError(c, http.StatusBadRequest, err)
		}
		return
	}

	done := sess.Done()
	if done {
		s.finalizeSession(sess)
	} else {
		s.notifier.Broadcast(SessionEvent{
			Type:      "progress",
			SessionID: sess.ID(),
			Completed: progress.Completed,
			Total:     progress.Total,
			Phase:     progress.Phase,
		})
	}

	c.JSON(http.StatusOK, AnswerResponse{
		SessionID: sess.ID(),
		Progress:  progress,
		Injected:  injected,
		Done:      done,
		Question:  sess.Next(),
	})
}

// finalizeSession computes, persists and broadcasts the completed result.
// SaveSession is an upsert, so re-finalizing is harmless.
func (s *Server) finalizeSession(sess *session.Session) ResultDTO {
	result := sess.Finalize()
	dto := ResultFromSession(sess.ID(), result)

	if err := s.db.SaveSession(RecordFromResult(sess.ID(), result)); err != nil {
		logrus.WithError(err).WithField("session", sess.ID()).Warn("persist session result")
	}

	progress := sess.Progress()
	s.notifier.Broadcast(SessionEvent{
		Type:      "completed",
		SessionID: sess.ID(),
		Completed: progress.Completed,
		Total:     progress.Total,
		Phase:     progress.Phase,
		RiskLabel: result.RiskLabel,
		Result:    &dto,
	})
	return dto
}

func (s *Server) handleResult(c *gin.Context) {
	sess, ok := s.lookupSession(c)
	if !ok {
		return
	}
	if !sess.Done() {
		s.renderError(c, http.StatusConflict, errors.New("questionnaire is not complete"))
		return
	}
	c.JSON(http.StatusOK, s.finalizeSession(sess))
}

func (s *Server) handleReport(c *gin.Context) {
	sess, ok := s.lookupSession(c)
	if !ok {
		return
	}
	if !sess.Done() {
		s.renderError(c, http.StatusConflict, errors.New("questionnaire is not complete"))
		return
	}
	s.finalizeSession(sess)
	c.Header("Content-Disposition", "attachment; filename=biaslab-report.txt")
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(report.Build(sess.Finalize())))
}

func (s *Server) handleSessionStatus(c *gin.Context) {
	resp := SessionStatusResponse{ActiveSessions: s.manager.Count()}
	if status := s.notifier.LastStatus(); status != nil {
		resp.State = status.Type
		resp.SessionID = status.SessionID
		resp.Completed = status.Completed
		resp.Total = status.Total
		resp.Phase = status.Phase
		resp.RiskLabel = status.RiskLabel
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleDiscardSession(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if !s.manager.Discard(id) {
		s.renderError(c, http.StatusNotFound, fmt.Errorf("session %s not found", id))
		return
	}
	if err := s.db.DeleteSession(id); err != nil {
		logrus.WithError(err).WithField("session", id).Warn("delete persisted session")
	}
	logrus.WithField("session", id).Info("session discarded")
	s.notifier.Broadcast(SessionEvent{
		Type:      "discarded",
		SessionID: id,
	})
	c.JSON(http.StatusOK, gin.H{"status": "discarded"})
}

func (s *Server) handleSessionStream(c *gin.Context) {
	upgrader := websocket.Upgrader{
		HandshakeTimeout:  5 * time.Second,
		EnableCompression: true,
		CheckOrigin: func(r *http.Request) bool {
			if len(s.allowedOrigins) == 0 {
				return true
			}
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			for _, allowed := range s.allowedOrigins {
				if strings.EqualFold(origin, allowed) {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("upgrade websocket")
		return
	}

	client := s.notifier.Register(conn)
	logrus.WithField("remote", conn.RemoteAddr().String()).Info("session websocket connected")
	defer s.notifier.Unregister(client)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithField("remote", conn.RemoteAddr().String()).Info("session websocket closed")
			} else {
				logrus.WithError(err).Warn("session websocket unexpected close")
			}
			break
		}
	}
}

func (s *Server) handleHistory(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	if page < 0 {
		page = 0
	}
	pageSize, _ := strconv.Atoi(c.Query("pageSize"))
	if pageSize <= 0 {
		pageSize = 50
	}

	rows, total, err := s.db.ListSessions(store.SessionQuery{
		Query:     strings.TrimSpace(c.Query("q")),
		Context:   c.Query("context"),
		Scale:     c.Query("scale"),
		RiskLabel: c.Query("risk"),
		Practical: c.Query("practical"),
		Sort:      c.Query("sort"),
		Offset:    page * pageSize,
		Limit:     pageSize,
	})
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	dtos := make([]HistoryDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, FromRecord(row))
	}
	c.JSON(http.StatusOK, HistoryResponse{Items: dtos, Total: total})
}

func (s *Server) handleHistoryDetail(c *gin.Context) {
	id := strings.TrimSpace(c.Param("sessionID"))
	if id == "" {
		s.renderError(c, http.StatusBadRequest, errors.New("session id is required"))
		return
	}
	record, err := s.db.GetSession(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.renderError(c, http.StatusNotFound, fmt.Errorf("session %s not found", id))
		} else {
			s.renderError(c, http.StatusInternalServerError, err)
		}
		return
	}
	c.JSON(http.StatusOK, FromRecord(*record))
}

func (s *Server) handleExportCSV(c *gin.Context) {
	rows, _, err := s.db.ListSessions(store.SessionQuery{Limit: -1, Sort: "created_asc"})
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=biaslab-sessions.csv")
	c.Header("Content-Type", "text/csv")

	writer := csv.NewWriter(c.Writer)
	headers := []string{"session_id", "created_at", "decision", "context", "scale", "confidence", "chosen_option", "other_option", "distortion_risk", "integrity_score", "chosen_rational", "other_rational", "justification_gap", "bias_pressure", "foresight_gap", "fairness_risk", "risk_label", "practical_preference", "findings", "duration_ms"}
	if err := writer.Write(headers); err != nil {
		return
	}
	for _, row := range rows {
		dto := FromRecord(row)
		names := make([]string, 0, len(dto.Findings))
		for _, finding := range dto.Findings {
			names = append(names, finding.Name)
		}
		line := []string{
			dto.SessionID,
			dto.CreatedAt.UTC().Format(time.RFC3339),
			dto.Decision,
			dto.Context,
			dto.Scale,
			dto.Confidence,
			dto.ChosenOption,
			dto.OtherOption,
			fmt.Sprintf("%.4f", dto.DistortionRisk),
			fmt.Sprintf("%.4f", dto.IntegrityScore),
			fmt.Sprintf("%.4f", dto.ChosenRational),
			fmt.Sprintf("%.4f", dto.OtherRational),
			fmt.Sprintf("%.4f", dto.JustificationGap),
			fmt.Sprintf("%.4f", dto.BiasPressure),
			fmt.Sprintf("%.4f", dto.ForesightGap),
			fmt.Sprintf("%.4f", dto.FairnessRisk),
			dto.RiskLabel,
			strconv.FormatBool(dto.Practical),
			strings.Join(names, "|"),
			strconv.FormatInt(dto.DurationMs, 10),
		}
		if err := writer.Write(line); err != nil {
			return
		}
	}
	writer.Flush()
}

func (s *Server) handleExportJSON(c *gin.Context) {
	rows, _, err := s.db.ListSessions(store.SessionQuery{Limit: -1, Sort: "created_asc"})
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	dtos := make([]HistoryDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, FromRecord(row))
	}
	c.Header("Content-Disposition", "attachment; filename=biaslab-sessions.json")
	c.JSON(http.StatusOK, dtos)
}

func (s *Server) lookupSession(c *gin.Context) (*session.Session, bool) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		s.renderError(c, http.StatusBadRequest, errors.New("session id is required"))
		return nil, false
	}
	sess, ok := s.manager.Get(id)
	if !ok {
		s.renderError(c, http.StatusNotFound, fmt.Errorf("session %s not found", id))
		return nil, false
	}
	return sess, true
}

func (s *Server) renderError(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}
