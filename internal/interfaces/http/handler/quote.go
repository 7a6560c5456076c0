package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	billingapp "github.com/facturio/backend/internal/application/billing"
	"github.com/facturio/backend/internal/interfaces/http/dto"
)

// QuoteHandler handles quote API endpoints
type QuoteHandler struct {
	BaseHandler
	quoteService      *billingapp.QuoteService
	conversionService *billingapp.ConversionService
}

// NewQuoteHandler creates a new QuoteHandler
func NewQuoteHandler(quoteService *billingapp.QuoteService, conversionService *billingapp.ConversionService) *QuoteHandler {
	return &QuoteHandler{
		quoteService:      quoteService,
		conversionService: conversionService,
	}
}

// RegisterRoutes mounts the quote endpoints on the given group
func (h *QuoteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/quotes")
	{
		quotes.POST("", h.Create)
		quotes.GET("", h.List)
		quotes.GET("/number/:number", h.GetByNumber)
		quotes.GET("/:id", h.GetByID)
		quotes.PUT("/:id", h.Update)
		quotes.DELETE("/:id", h.Delete)
		quotes.POST("/:id/send", h.Send)
		quotes.POST("/:id/accept", h.Accept)
		quotes.POST("/:id/reject", h.Reject)
		quotes.POST("/:id/expire", h.Expire)
		quotes.POST("/:id/convert", h.Convert)
	}
}

// listQuotesQuery is the query string for listing quotes
type listQuotesQuery struct {
	dto.ListRequest
	Status   string `form:"status" binding:"omitempty,oneof=draft sent accepted rejected expired converted"`
	ClientID string `form:"client_id" binding:"omitempty,uuid"`
}

// Create godoc
// @Summary      Create a draft quote
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        request body billingapp.CreateQuoteRequest true "Quote creation request"
// @Success      201 {object} dto.Response{data=billingapp.QuoteResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /quotes [post]
func (h *QuoteHandler) Create(c *gin.Context) {
	var req billingapp.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.quoteService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List godoc
// @Summary      List quotes
// @Tags         quotes
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        status query string false "Filter by status"
// @Param        client_id query string false "Filter by client"
// @Param        search query string false "Search in number and client name"
// @Success      200 {object} dto.Response{data=[]billingapp.QuoteResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /quotes [get]
func (h *QuoteHandler) List(c *gin.Context) {
	var query listQuotesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := billingapp.ListFilter{
		Page:     query.Page,
		PageSize: query.PageSize,
		OrderBy:  query.OrderBy,
		OrderDir: query.OrderDir,
		Search:   query.Search,
		Status:   query.Status,
	}
	if query.ClientID != "" {
		clientID, err := uuid.Parse(query.ClientID)
		if err != nil {
			h.BadRequest(c, "Invalid client_id format")
			return
		}
		filter.ClientID = &clientID
	}

	page, err := h.quoteService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetByID godoc
// @Summary      Get a quote by ID
// @Tags         quotes
// @Produce      json
// @Param        id path string true "Quote ID"
// @Success      200 {object} dto.Response{data=billingapp.QuoteResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /quotes/{id} [get]
func (h *QuoteHandler) GetByID(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.quoteService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetByNumber godoc
// @Summary      Get a quote by document number
// @Tags         quotes
// @Produce      json
// @Param        number path string true "Document number, e.g. DEV-2026-00042"
// @Success      200 {object} dto.Response{data=billingapp.QuoteResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /quotes/number/{number} [get]
func (h *QuoteHandler) GetByNumber(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Document number is required")
		return
	}

	resp, err := h.quoteService.GetByNumber(c.Request.Context(), number)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update godoc
// @Summary      Update a draft quote
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        id path string true "Quote ID"
// @Param        request body billingapp.UpdateQuoteRequest true "Quote update request"
// @Success      200 {object} dto.Response{data=billingapp.QuoteResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /quotes/{id} [put]
func (h *QuoteHandler) Update(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req billingapp.UpdateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.quoteService.UpdateDraft(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
// @Summary      Delete a draft quote
// @Tags         quotes
// @Param        id path string true "Quote ID"
// @Success      204 "No Content"
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /quotes/{id} [delete]
func (h *QuoteHandler) Delete(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.quoteService.DeleteDraft(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Send godoc
// @Summary      Send a quote to the client
// @Tags         quotes
// @Produce      json
// @Param        id path string true "Quote ID"
// @Success      200 {object} dto.Response{data=billingapp.QuoteResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /quotes/{id}/send [post]
func (h *QuoteHandler) Send(c *gin.Context) {
	h.transition(c, h.quoteService.Send)
}

// Accept godoc
// @Summary      Mark a sent quote as accepted
// @Tags         quotes
// @Produce      json
// @Param        id path string true "Quote ID"
// @Success      200 {object} dto.Response{data=billingapp.QuoteResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /quotes/{id}/accept [post]
func (h *QuoteHandler) Accept(c *gin.Context) {
	h.transition(c, h.quoteService.Accept)
}

// Reject godoc
// @Summary      Mark a sent quote as rejected
// @Tags         quotes
// @Produce      json
// @Param        id path string true "Quote ID"
// @Success      200 {object} dto.Response{data=billingapp.QuoteResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /quotes/{id}/reject [post]
func (h *QuoteHandler) Reject(c *gin.Context) {
	h.transition(c, h.quoteService.Reject)
}

// Expire godoc
// @Summary      Mark a sent quote as expired
// @Tags         quotes
// @Produce      json
// @Param        id path string true "Quote ID"
// @Success      200 {object} dto.Response{data=billingapp.QuoteResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /quotes/{id}/expire [post]
func (h *QuoteHandler) Expire(c *gin.Context) {
	h.transition(c, h.quoteService.Expire)
}

// Convert godoc
// @Summary      Convert an accepted quote into a draft invoice
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        id path string true "Quote ID"
// @Param        request body billingapp.ConvertQuoteRequest false "Date overrides"
// @Success      201 {object} dto.Response{data=billingapp.InvoiceResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /quotes/{id}/convert [post]
func (h *QuoteHandler) Convert(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	// body is optional: an empty request uses the default dates
	var req billingapp.ConvertQuoteRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err.Error())
			return
		}
	}

	resp, err := h.conversionService.Convert(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

func (h *QuoteHandler) transition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*billingapp.QuoteResponse, error)) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
