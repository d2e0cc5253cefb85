package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"parking-service/internal/domain/parking"
	"parking-service/internal/service"
)

type AdminHandler struct {
	admin *service.AdminService
	log   zerolog.Logger
}

func NewAdminHandler(admin *service.AdminService, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{admin: admin, log: log}
}

func (h *AdminHandler) Register(r *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := r.Group("/api/v1/admin")
	protected.Use(authMiddleware)
	{
		protected.POST("/lots", h.createLot)
		protected.PATCH("/lots/:lotId", h.updateLot)
		protected.POST("/lots/:lotId/floors", h.createFloor)
		protected.PATCH("/floors/:floorId", h.updateFloor)
		protected.POST("/floors/:floorId/spots", h.createSpot)
		protected.PATCH("/spots/:spotId", h.updateSpot)
		protected.POST("/rate-cards", h.createRateCard)
	}
}

type createLotRequest struct {
	Name     string `json:"name" binding:"required"`
	Address  string `json:"address"`
	Timezone string `json:"timezone" binding:"required"`
}

func (h *AdminHandler) createLot(c *gin.Context) {
	var req createLotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	lot, err := h.admin.CreateLot(c.Request.Context(), req.Name, req.Address, req.Timezone)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse(lot))
}

type updateLotRequest struct {
	Name        *string `json:"name"`
	Address     *string `json:"address"`
	Timezone    *string `json:"timezone"`
	Maintenance *bool   `json:"maintenance"`
}

func (h *AdminHandler) updateLot(c *gin.Context) {
	lotID, err := uuid.Parse(c.Param("lotId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid lot id"))
		return
	}
	var req updateLotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	var lot *parking.Lot
	ctx := c.Request.Context()
	if req.Name != nil {
		if lot, err = h.admin.RenameLot(ctx, lotID, *req.Name); err != nil {
			h.handleError(c, err)
			return
		}
	}
	if req.Address != nil {
		if lot, err = h.admin.SetLotAddress(ctx, lotID, *req.Address); err != nil {
			h.handleError(c, err)
			return
		}
	}
	if req.Timezone != nil {
		if lot, err = h.admin.ChangeLotTimezone(ctx, lotID, *req.Timezone); err != nil {
			h.handleError(c, err)
			return
		}
	}
	if req.Maintenance != nil {
		if lot, err = h.admin.SetLotMaintenance(ctx, lotID, *req.Maintenance); err != nil {
			h.handleError(c, err)
			return
		}
	}
	if lot == nil {
		c.JSON(http.StatusBadRequest, errorResponse("no fields to update"))
		return
	}
	c.JSON(http.StatusOK, successResponse(lot))
}

type createFloorRequest struct {
	Label    string `json:"label" binding:"required"`
	Ordering int    `json:"ordering" binding:"required"`
}

func (h *AdminHandler) createFloor(c *gin.Context) {
	lotID, err := uuid.Parse(c.Param("lotId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid lot id"))
		return
	}
	var req createFloorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	floor, err := h.admin.CreateFloor(c.Request.Context(), lotID, req.Label, req.Ordering)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse(floor))
}

type updateFloorRequest struct {
	Label    *string `json:"label"`
	Ordering *int    `json:"ordering"`
}

func (h *AdminHandler) updateFloor(c *gin.Context) {
	floorID, err := uuid.Parse(c.Param("floorId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid floor id"))
		return
	}
	var req updateFloorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	var floor *parking.Floor
	ctx := c.Request.Context()
	if req.Label != nil {
		if floor, err = h.admin.RelabelFloor(ctx, floorID, *req.Label); err != nil {
			h.handleError(c, err)
			return
		}
	}
	if req.Ordering != nil {
		if floor, err = h.admin.ReorderFloor(ctx, floorID, *req.Ordering); err != nil {
			h.handleError(c, err)
			return
		}
	}
	if floor == nil {
		c.JSON(http.StatusBadRequest, errorResponse("no fields to update"))
		return
	}
	c.JSON(http.StatusOK, successResponse(floor))
}

type createSpotRequest struct {
	Code string `json:"code" binding:"required"`
	Size string `json:"size" binding:"required"`
}

func (h *AdminHandler) createSpot(c *gin.Context) {
	floorID, err := uuid.Parse(c.Param("floorId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid floor id"))
		return
	}
	var req createSpotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	size, err := parking.ParseSpotSize(req.Size)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	spot, err := h.admin.CreateSpot(c.Request.Context(), floorID, req.Code, size)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse(spot))
}

type updateSpotRequest struct {
	Code         *string `json:"code"`
	OutOfService *bool   `json:"out_of_service"`
}

func (h *AdminHandler) updateSpot(c *gin.Context) {
	spotID, err := uuid.Parse(c.Param("spotId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid spot id"))
		return
	}
	var req updateSpotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	var spot *parking.Spot
	ctx := c.Request.Context()
	if req.Code != nil {
		if spot, err = h.admin.RelabelSpot(ctx, spotID, *req.Code); err != nil {
			h.handleError(c, err)
			return
		}
	}
	if req.OutOfService != nil {
		if *req.OutOfService {
			spot, err = h.admin.SetSpotOutOfService(ctx, spotID)
		} else {
			spot, err = h.admin.RestoreSpot(ctx, spotID)
		}
		if err != nil {
			h.handleError(c, err)
			return
		}
	}
	if spot == nil {
		c.JSON(http.StatusBadRequest, errorResponse("no fields to update"))
		return
	}
	c.JSON(http.StatusOK, successResponse(spot))
}

type rateRuleRequest struct {
	StartMinute  int    `json:"start_minute"`
	EndMinute    *int   `json:"end_minute"`
	PricePerUnit int64  `json:"price_per_unit"`
	Unit         string `json:"unit" binding:"required"`
}

type createRateCardRequest struct {
	Name          string            `json:"name" binding:"required"`
	Currency      string            `json:"currency" binding:"required"`
	EffectiveFrom time.Time         `json:"effective_from" binding:"required"`
	EffectiveTo   *time.Time        `json:"effective_to"`
	LotID         *string           `json:"lot_id" binding:"omitempty,uuid"`
	FloorID       *string           `json:"floor_id" binding:"omitempty,uuid"`
	Size          *string           `json:"size"`
	Rules         []rateRuleRequest `json:"rules" binding:"required,min=1"`
}

func (h *AdminHandler) createRateCard(c *gin.Context) {
	var req createRateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	params := service.CreateRateCardParams{
		Name:          req.Name,
		Currency:      req.Currency,
		EffectiveFrom: req.EffectiveFrom,
		EffectiveTo:   req.EffectiveTo,
	}
	if req.LotID != nil {
		id := uuid.MustParse(*req.LotID)
		params.LotID = &id
	}
	if req.FloorID != nil {
		id := uuid.MustParse(*req.FloorID)
		params.FloorID = &id
	}
	if req.Size != nil {
		size, err := parking.ParseSpotSize(*req.Size)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		params.Size = &size
	}
	for _, r := range req.Rules {
		params.Rules = append(params.Rules, service.CreateRateRuleParams{
			StartMinute:  r.StartMinute,
			EndMinute:    r.EndMinute,
			PricePerUnit: r.PricePerUnit,
			Unit:         parking.RateUnit(r.Unit),
		})
	}

	card, err := h.admin.CreateRateCard(c.Request.Context(), params)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse(card))
}

func (h *AdminHandler) handleError(c *gin.Context, err error) {
	writeError(c, h.log, err)
}
