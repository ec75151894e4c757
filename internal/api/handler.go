package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hmeyer/daypeak/internal/domain/dto"
	"github.com/hmeyer/daypeak/internal/domain/models"
	"github.com/hmeyer/daypeak/internal/metrics"
	"github.com/hmeyer/daypeak/internal/tracker"
)

// Publisher enqueues state-change events for serialized dispatch to the
// tracker. Satisfied by *bus.Bus.
type Publisher interface {
	Publish(ev models.StateChangeEvent) error
}

// Handler provides HTTP handlers for the tracker surface.
//
// Responsibilities:
//   - Expose the tracker's primary value and attribute set
//   - Accept state-change notifications and hand them to the event bus
//   - Back the manual-reset action
type Handler struct {
	trk *tracker.Tracker
	pub Publisher
}

// NewHandler constructs a Handler around a tracker and an event publisher.
func NewHandler(trk *tracker.Tracker, pub Publisher) *Handler {
	return &Handler{trk: trk, pub: pub}
}

// GetState handles GET /api/v1/state requests.
//
// The state field is the tracker's primary value (min or max depending on
// configuration): "unavailable" once a unit mismatch has latched, "unknown"
// while nothing has been observed, otherwise the formatted number.
//
// GetState godoc
// @Summary      Current tracker state
// @Description  Returns the primary value plus the exposed attribute set
// @Tags         tracker
// @Produce      json
// @Success      200  {object}  dto.StateResponse  "Success"
// @Router       /api/v1/state [get]
func (h *Handler) GetState(c *gin.Context) {
	// One lock acquisition, so state and attributes describe the same instant.
	st := h.trk.State()
	resp := dto.StateResponse{
		Name:       st.Name,
		Kind:       string(st.Kind),
		Unit:       st.Unit,
		Attributes: st.Attributes,
	}

	switch {
	case !st.Available:
		resp.State = models.StateUnavailable
	case st.Value == nil:
		resp.State = models.StateUnknown
	default:
		resp.State = strconv.FormatFloat(*st.Value, 'f', -1, 64)
	}

	c.JSON(http.StatusOK, resp)
}

// PostState handles POST /api/v1/states requests: one value-change
// notification for a tracked entity.
//
// Responses:
//   - 202 Accepted: the event was queued for dispatch.
//   - 400 Bad Request: malformed JSON body or missing entity_id.
//   - 404 Not Found: the entity id is not tracked by this instance.
//   - 503 Service Unavailable: the event queue is full.
//
// PostState godoc
// @Summary      Submit a state change
// @Description  Queues a value-change notification for a tracked entity
// @Tags         tracker
// @Accept       json
// @Produce      json
// @Param        event  body      dto.StateChangeRequest  true  "State change"
// @Success      202    {object}  map[string]string       "Accepted"
// @Failure      400    {object}  dto.ErrorResponse       "Bad Request"
// @Failure      404    {object}  dto.ErrorResponse       "Not Found"
// @Failure      503    {object}  dto.ErrorResponse       "Queue Full"
// @Router       /api/v1/states [post]
func (h *Handler) PostState(c *gin.Context) {
	var req dto.StateChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid state change payload", err))
		return
	}

	if !h.trk.Tracks(req.EntityID) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse("entity is not tracked", nil))
		return
	}

	ev := models.StateChangeEvent{EntityID: req.EntityID, State: req.State, Unit: req.Unit}
	if err := h.pub.Publish(ev); err != nil {
		c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse("unable to queue state change", err))
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

// PostReset handles POST /api/v1/reset requests: the manual-reset action.
// It takes no parameters and always restarts the extremum window, even when
// scheduled resets are disabled.
//
// PostReset godoc
// @Summary      Manual reset
// @Description  Restarts the extremum window from the last observed reading
// @Tags         tracker
// @Produce      json
// @Success      200  {object}  dto.ResetResponse  "Success"
// @Router       /api/v1/reset [post]
func (h *Handler) PostReset(c *gin.Context) {
	h.trk.Reset()
	metrics.ResetsTotal.WithLabelValues("manual").Inc()
	c.JSON(http.StatusOK, dto.ResetResponse{Status: "reset"})
}
