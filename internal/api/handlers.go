package api

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"chatrelay/internal/models"
	"chatrelay/internal/service/relay"
)

// RelayPath is the fixed path of the relay endpoint.
const RelayPath = "/api/openai"

// maxBodyBytes bounds the request body read before validation.
const maxBodyBytes = 1 << 20

type Relayer interface {
	Handle(ctx context.Context, messages []models.Message) (string, error)
	Probe() relay.Descriptor
}

// Handler wires HTTP routes to the relay service.
type Handler struct {
	relay Relayer
}

// NewHandler constructs a Handler instance.
func NewHandler(service Relayer) *Handler {
	return &Handler{relay: service}
}

// RegisterRoutes attaches all HTTP routes to the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestID())
	router.GET("/healthz", h.health)
	router.GET(RelayPath, h.probe)
	router.POST(RelayPath, h.relayConversation)
	registerUI(router)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) probe(c *gin.Context) {
	c.JSON(http.StatusOK, h.relay.Probe())
}

func (h *Handler) relayConversation(c *gin.Context) {
	reqID := requestIDFromContext(c)
	if c.ContentType() != gin.MIMEJSON {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content type must be application/json"})
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "request body too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	messages, err := parseRelayBody(body)
	if err != nil {
		debugLog("[relay %s] rejected request: %v", reqID, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	debugLog("[relay %s] forwarding %d message(s)", reqID, len(messages))

	// a forwarded request is not abandoned when the caller goes away
	ctx := context.WithoutCancel(c.Request.Context())
	text, err := h.relay.Handle(ctx, messages)
	if err != nil {
		rerr := relay.AsError(err)
		if rerr.Kind != relay.KindInvalidRequest {
			log.Printf("relay %s: %v", reqID, err)
		}
		c.JSON(rerr.Status(), gin.H{"error": rerr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": text})
}
