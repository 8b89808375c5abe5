package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/example/tickethook/internal/ports/primary"
)

// Handlers holds the webhook handler dependencies.
type Handlers struct {
	log      zerolog.Logger
	listener primary.ChangeListener
}

// NewHandlers creates the webhook handlers.
func NewHandlers(log zerolog.Logger, listener primary.ChangeListener) *Handlers {
	return &Handlers{log: log, listener: listener}
}

// Healthz reports liveness.
func (h *Handlers) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// changesetRequest is the webhook payload for added and modified events.
type changesetRequest struct {
	// Event is "added" (default) or "modified".
	Event string `json:"event"`

	Repository  string `json:"repository"`
	ShortRevLen int    `json:"short_rev_len"`

	Rev     string    `json:"rev" binding:"required"`
	Message string    `json:"message" binding:"required"`
	Author  string    `json:"author" binding:"required"`
	Date    time.Time `json:"date"`

	// OldMessage carries the pre-edit message on modified events.
	OldMessage string `json:"old_message"`
}

// Changeset applies one changeset event and returns the per-ticket
// outcomes. Processing always completes: per-ticket failures are folded
// into the outcomes, so the handler only rejects malformed payloads.
func (h *Handlers) Changeset(c *gin.Context) {
	var req changesetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	repo := primary.RepoInfo{RepoName: req.Repository, ShortRevLen: req.ShortRevLen}
	cs := primary.Changeset{Rev: req.Rev, Message: req.Message, Author: req.Author, Date: req.Date}

	var outcomes map[int]*primary.TicketOutcome
	switch req.Event {
	case "", "added":
		outcomes = h.listener.ChangesetAdded(c.Request.Context(), repo, cs)
	case "modified":
		var old *primary.Changeset
		if req.OldMessage != "" {
			o := cs
			o.Message = req.OldMessage
			old = &o
		}
		outcomes = h.listener.ChangesetModified(c.Request.Context(), repo, cs, old)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "event must be \"added\" or \"modified\""})
		return
	}

	if outcomes == nil {
		c.JSON(http.StatusOK, gin.H{"duplicate": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"outcomes": outcomes})
}
