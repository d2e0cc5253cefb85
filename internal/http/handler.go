package http

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"parking-service/internal/domain/parking"
	"parking-service/internal/observability"
	"parking-service/internal/service"
)

var licensePlatePattern = regexp.MustCompile(`^[A-Z0-9- ]{3,20}$`)

type Handler struct {
	sessions *service.SessionService
	queries  *service.QueryService
	metrics  *observability.Metrics
	log      zerolog.Logger
}

func NewHandler(
	sessions *service.SessionService,
	queries *service.QueryService,
	metrics *observability.Metrics,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		sessions: sessions,
		queries:  queries,
		metrics:  metrics,
		log:      log,
	}
}

func (h *Handler) Register(r *gin.Engine) {
	r.GET("/healthz", h.health)

	public := r.Group("/api/v1")
	{
		public.POST("/sessions/check-in", h.checkIn)
		public.POST("/sessions/check-out", h.checkOut)
		public.GET("/lots", h.listLots)
		public.GET("/lots/:lotId/floors", h.listFloors)
		public.GET("/floors/:floorId/spots", h.listSpots)
		public.GET("/lots/:lotId/active-ticket", h.findActiveTicket)
		public.GET("/stats", h.stats)
	}
}

type checkInRequest struct {
	LotID         string `json:"lot_id" binding:"required,uuid"`
	EntranceID    string `json:"entrance_id" binding:"omitempty,uuid"`
	LicensePlate  string `json:"license_plate" binding:"required"`
	VehicleSize   string `json:"vehicle_size" binding:"required"`
	ReservationID string `json:"reservation_id" binding:"omitempty,uuid"`
	RequestedAt   string `json:"requested_at" binding:"omitempty"`
}

func (h *Handler) checkIn(c *gin.Context) {
	var req checkInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	plate := strings.ToUpper(strings.TrimSpace(req.LicensePlate))
	if !licensePlatePattern.MatchString(plate) {
		c.JSON(http.StatusBadRequest, errorResponse("invalid license plate"))
		return
	}

	size, err := parking.ParseSpotSize(req.VehicleSize)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	cmd := service.CheckInCommand{
		LotID:        uuid.MustParse(req.LotID),
		LicensePlate: plate,
		VehicleSize:  size,
		RequestedAt:  time.Now().UTC(),
	}
	if req.EntranceID != "" {
		cmd.EntranceID = uuid.MustParse(req.EntranceID)
	}
	if req.ReservationID != "" {
		id := uuid.MustParse(req.ReservationID)
		cmd.ReservationID = &id
	}
	if req.RequestedAt != "" {
		at, err := time.Parse(time.RFC3339, req.RequestedAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("requested_at must be RFC3339"))
			return
		}
		cmd.RequestedAt = at
	}

	result, err := h.sessions.CheckIn(c.Request.Context(), cmd)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(result))
}

type checkOutRequest struct {
	LotID    string `json:"lot_id" binding:"required,uuid"`
	TicketID string `json:"ticket_id" binding:"required,uuid"`
	ExitAt   string `json:"exit_at" binding:"omitempty"`
}

func (h *Handler) checkOut(c *gin.Context) {
	var req checkOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	cmd := service.CheckOutCommand{
		LotID:    uuid.MustParse(req.LotID),
		TicketID: uuid.MustParse(req.TicketID),
		ExitAt:   time.Now().UTC(),
	}
	if req.ExitAt != "" {
		at, err := time.Parse(time.RFC3339, req.ExitAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("exit_at must be RFC3339"))
			return
		}
		cmd.ExitAt = at
	}

	result, err := h.sessions.CheckOut(c.Request.Context(), cmd)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(result))
}

func (h *Handler) listLots(c *gin.Context) {
	lots, err := h.queries.ListLots(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(lots))
}

func (h *Handler) listFloors(c *gin.Context) {
	lotID, err := uuid.Parse(c.Param("lotId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid lot id"))
		return
	}
	floors, err := h.queries.ListFloors(c.Request.Context(), lotID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(floors))
}

func (h *Handler) listSpots(c *gin.Context) {
	floorID, err := uuid.Parse(c.Param("floorId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid floor id"))
		return
	}

	if sizeParam := strings.TrimSpace(c.Query("size")); sizeParam != "" {
		size, err := parking.ParseSpotSize(sizeParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		spots, err := h.queries.ListAvailableSpotsByFloor(c.Request.Context(), floorID, size)
		if err != nil {
			h.handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, successResponse(spots))
		return
	}

	spots, err := h.queries.ListSpotsByFloor(c.Request.Context(), floorID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(spots))
}

func (h *Handler) findActiveTicket(c *gin.Context) {
	plate := strings.ToUpper(strings.TrimSpace(c.Query("plate")))
	if plate == "" {
		c.JSON(http.StatusBadRequest, errorResponse("plate parameter is required"))
		return
	}
	lotID, err := uuid.Parse(c.Param("lotId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid lot id"))
		return
	}

	ticket, err := h.queries.FindActiveTicketByVehicle(c.Request.Context(), plate, lotID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(ticket))
}

func (h *Handler) stats(c *gin.Context) {
	c.JSON(http.StatusOK, successResponse(h.metrics.Snapshot()))
}

func (h *Handler) health(c *gin.Context) {
	count, err := h.queries.LotCount(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "error": "database unreachable"})
		return
	}
	if count == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "error": "no lots configured"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "lots": count})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	writeError(c, h.log, err)
}

// writeError maps domain errors onto HTTP statuses: business rule
// violations become 422 with a machine-readable code, missing entities
// 404, state conflicts 409, everything else 500.
func writeError(c *gin.Context, log zerolog.Logger, err error) {
	var ruleErr *parking.BusinessRuleError
	switch {
	case errors.As(err, &ruleErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":          ruleErr.Message,
			"code":           ruleErr.Code,
			"correlation_id": correlationID(c),
		})
	case errors.Is(err, parking.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, parking.ErrConflict):
		c.JSON(http.StatusConflict, errorResponse(err.Error()))
	default:
		log.Error().Err(err).Str(correlationIDKey, correlationID(c)).Msg("handler error")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
	}
}

func successResponse(data interface{}) gin.H {
	return gin.H{
		"data": data,
	}
}

func errorResponse(message string) gin.H {
	return gin.H{
		"error": message,
	}
}
