// Voice chat HTTP handler.
//
//   - POST /voicechat/voice
//
// An empty message returns the canned intro without touching the LLM or TTS
// providers; otherwise the pipeline synthesizes up to three spoken replies.
package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/careermate/go-career-backend/internal/voice"
)

// VoiceChatRequest is the JSON payload for a voice interaction.
type VoiceChatRequest struct {
	Message string `json:"message" example:"How do I restart my career after a break?"`
}

// VoiceChatResponse carries the synthesized replies: text, base64 audio,
// mouth cues, and the avatar's expression and animation.
type VoiceChatResponse struct {
	Messages []voice.Message `json:"messages"`
}

// VoiceChat godoc
// @ID          voiceChat
// @Summary     Get a spoken reply
// @Description Runs the LLM → TTS → lip-sync pipeline and returns up to three messages with base64 audio and mouth cues.
// @Tags        Voice
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.VoiceChatRequest  false  "User message (empty or absent returns the intro)"
//
// @Success     200  {object}  handlers.VoiceChatResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Pipeline failure"
// @Router      /voicechat/voice [post]
func (h *Handlers) VoiceChat(c *gin.Context) {
	var req VoiceChatRequest
	// An absent body is an empty message, which serves the intro.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	messages, err := h.voiceSvc.Respond(c.Request.Context(), req.Message)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeUpstreamFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, VoiceChatResponse{Messages: messages})
}
