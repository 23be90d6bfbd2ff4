// Message HTTP handlers.
//
// This file exposes the chat ingress endpoint:
//   - POST /messages   (run one conversational turn for a user utterance)
//
// Handlers are transport-thin:
//   - validate & normalize inputs (including newline and length constraints)
//   - delegate the turn to the orchestrator
//   - map turn outcomes onto HTTP statuses (429 for a rate-limited turn)
//
// The transport does not interpret the conversation: intent detection, food
// resolution, and response wording all live behind the BotService boundary so
// that the same pipeline can serve a Slack event adapter or a CLI unchanged.
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/vithika-cyber/Calorie-Bot/internal/orchestrator"
)

// maxMessageRunes caps the length of a single inbound utterance. Chat
// transports cap messages far below this; the limit exists to bound AI
// token spend on hand-crafted requests.
const maxMessageRunes = 2000

// BotService runs one conversational turn. Satisfied by
// orchestrator.Orchestrator.
type BotService interface {
	ProcessMessage(ctx context.Context, userID, teamID, message string) orchestrator.Result
}

// Handlers bundles the HTTP handlers and their dependencies.
type Handlers struct {
	bot BotService
}

// New constructs the handler set around the given turn processor.
func New(bot BotService) *Handlers {
	return &Handlers{bot: bot}
}

//
// DTOs
//

// PostMessageRequest is the JSON payload for one user utterance.
//
// Text is normalized by the handler (line endings and excessive blank lines)
// before being passed to the orchestrator.
type PostMessageRequest struct {
	// UserID is the chat-platform identity of the sender. It must be non-empty.
	UserID string `json:"user_id" binding:"required,min=1"`
	// TeamID is the optional workspace/tenant the sender belongs to.
	TeamID string `json:"team_id"`
	// Text is the user utterance. It must be non-empty.
	Text string `json:"text" binding:"required,min=1"`
}

// PostMessageResponse is the JSON envelope for a completed turn.
//
// Response is the mrkdwn-formatted bot reply. Intent names the route the
// turn took (log_food, query_today, ...). Error carries a diagnostic when
// the turn degraded; the reply text is still user-presentable.
type PostMessageResponse struct {
	Response string `json:"response"`
	Intent   string `json:"intent"`
	Error    string `json:"error,omitempty"`
}

//
// Helpers
//

// nlCollapseRE collapses runs of 3+ newlines to two, preserving paragraphs.
var nlCollapseRE = regexp.MustCompile(`\n{3,}`)

// sanitizeText normalizes user text for consistent downstream behavior:
//   - converts CRLF/CR to LF,
//   - collapses runs of 3+ LFs to exactly two (paragraph separation),
//   - trims surrounding whitespace.
func sanitizeText(raw string) string {
	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = nlCollapseRE.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

//
// Handlers
//

// PostMessage runs one conversational turn.
//
// The request is validated and sanitized at the edge; the orchestrator never
// fails a turn outright (degradations fold into the reply text), so the only
// non-200 outcomes here are binding errors and rate-limited turns.
func (h *Handlers) PostMessage(c *gin.Context) {
	ctx := c.Request.Context()

	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "user_id and text required")
		return
	}

	// Sanitize + size cap to fail fast at the edge.
	text := sanitizeText(req.Text)
	if text == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "text required")
		return
	}
	if utf8.RuneCountInString(text) > maxMessageRunes {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, fmt.Sprintf("text too long: max %d runes", maxMessageRunes))
		return
	}

	// Expose the sender identity to downstream middleware/log enrichment.
	c.Set("userID", req.UserID)

	res := h.bot.ProcessMessage(ctx, req.UserID, strings.TrimSpace(req.TeamID), text)

	status := http.StatusOK
	if res.Intent == "rate_limited" {
		// The reply still carries the human-readable wait hint.
		status = http.StatusTooManyRequests
	}
	ok(c, status, PostMessageResponse{
		Response: res.Response,
		Intent:   res.Intent,
		Error:    res.Error,
	})
}

// Health reports process liveness.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
