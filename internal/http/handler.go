package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/evermore-events/weddingops/internal/http/middleware"
	"github.com/evermore-events/weddingops/internal/model"
	"github.com/evermore-events/weddingops/internal/money"
	"github.com/evermore-events/weddingops/internal/service"
)

type Handler struct {
	billing    *service.BillingService
	statements *service.StatementService
	catalog    *service.CatalogService
	log        zerolog.Logger
}

func NewHandler(billing *service.BillingService, statements *service.StatementService, catalog *service.CatalogService, log zerolog.Logger) *Handler {
	return &Handler{billing: billing, statements: statements, catalog: catalog, log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(authMiddleware)

	protected.GET("/contracts/:id/billing", h.getSettlement)
	protected.POST("/contracts/:id/recompute", h.recompute)
	protected.PUT("/contracts/:id/selections", h.updateSelections)
	protected.POST("/contracts/:id/schedule/mode", h.setScheduleMode)
	protected.POST("/contracts/:id/schedule/entries", h.addScheduleEntry)
	protected.PUT("/contracts/:id/schedule/entries/:entryID", h.editScheduleEntry)
	protected.DELETE("/contracts/:id/schedule/entries/:entryID", h.removeScheduleEntry)
	protected.POST("/contracts/:id/payments", h.recordPayment)
	protected.PUT("/contracts/:id/payments/:paymentID", h.editPayment)
	protected.DELETE("/contracts/:id/payments/:paymentID", h.deletePayment)
	protected.GET("/contracts/:id/statement.pdf", h.statementPDF)
	protected.GET("/contracts/:id/ledger.xlsx", h.ledgerExcel)

	protected.GET("/catalog/packages", h.listPackages)
	protected.GET("/catalog/staff-options", h.listStaffOptions)
	protected.GET("/catalog/overtime-rates", h.listOvertimeRates)
	protected.GET("/catalog/addons", h.listAddOns)
	protected.GET("/catalog/products", h.listProducts)
	protected.GET("/catalog/discounts", h.listDiscounts)
	protected.GET("/catalog/locations", h.listLocations)
}

func (h *Handler) getSettlement(c *gin.Context) {
	if _, ok := middleware.MustPrincipal(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	contractID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return
	}

	result, err := h.billing.GetSettlement(c.Request.Context(), contractID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, settlementView(result))
}

func (h *Handler) recompute(c *gin.Context) {
	if _, ok := middleware.MustPrincipal(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	contractID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return
	}

	result, err := h.billing.ComputeTotal(c.Request.Context(), contractID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, settlementView(result))
}

type overtimeRequest struct {
	RateID string `json:"rate_id" binding:"required"`
	Hours  int    `json:"hours" binding:"required"`
}

type selectionRequest struct {
	Category     string            `json:"category" binding:"required"`
	PackageID    *string           `json:"package_id"`
	ExtraStaffID *string           `json:"extra_staff_id"`
	Overtime     []overtimeRequest `json:"overtime"`
}

type productRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

type updateSelectionsRequest struct {
	Selections              []selectionRequest `json:"selections"`
	Products                []productRequest   `json:"products"`
	LocationID              *string            `json:"location_id"`
	AddOnID                 *string            `json:"addon_id"`
	DiscretionaryDiscountID *string            `json:"discretionary_discount_id"`
	ExpectedVersion         int64              `json:"expected_version"`
}

func (h *Handler) updateSelections(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	contractID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return
	}

	var req updateSelectionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := service.UpdateSelectionsInput{
		ContractID:      contractID,
		ExpectedVersion: req.ExpectedVersion,
		Principal:       principal,
	}
	for _, sel := range req.Selections {
		selInput := service.SelectionInput{Category: model.Category(strings.ToUpper(strings.TrimSpace(sel.Category)))}
		if selInput.PackageID, err = parseOptionalID(sel.PackageID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid package_id"})
			return
		}
		if selInput.ExtraStaffID, err = parseOptionalID(sel.ExtraStaffID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid extra_staff_id"})
			return
		}
		for _, ot := range sel.Overtime {
			rateID, err := parseID(ot.RateID)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid overtime rate_id"})
				return
			}
			selInput.Overtime = append(selInput.Overtime, service.OvertimeInput{RateID: rateID, Hours: ot.Hours})
		}
		input.Selections = append(input.Selections, selInput)
	}
	for _, p := range req.Products {
		productID, err := parseID(p.ProductID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product_id"})
			return
		}
		input.Products = append(input.Products, service.ProductInput{ProductID: productID, Quantity: p.Quantity})
	}
	if input.LocationID, err = parseOptionalID(req.LocationID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid location_id"})
		return
	}
	if input.AddOnID, err = parseOptionalID(req.AddOnID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid addon_id"})
		return
	}
	if input.DiscretionaryDiscountID, err = parseOptionalID(req.DiscretionaryDiscountID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid discretionary_discount_id"})
		return
	}

	result, err := h.billing.UpdateSelections(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, settlementView(result))
}

type setScheduleModeRequest struct {
	Mode            string `json:"mode" binding:"required"`
	ExpectedVersion int64  `json:"expected_version"`
}

func (h *Handler) setScheduleMode(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	contractID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return
	}

	var req setScheduleModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.billing.SetScheduleMode(c.Request.Context(), service.SetScheduleModeInput{
		ContractID:      contractID,
		Mode:            model.ScheduleMode(strings.ToUpper(strings.TrimSpace(req.Mode))),
		ExpectedVersion: req.ExpectedVersion,
		Principal:       principal,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, settlementView(result))
}

type scheduleEntryRequest struct {
	Description     string `json:"description" binding:"required"`
	DueDate         string `json:"due_date"`
	Amount          string `json:"amount" binding:"required"`
	ExpectedVersion int64  `json:"expected_version"`
}

func (h *Handler) scheduleEntryInput(c *gin.Context, entryID uuid.UUID) (service.ScheduleEntryInput, bool) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return service.ScheduleEntryInput{}, false
	}

	contractID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return service.ScheduleEntryInput{}, false
	}

	var req scheduleEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return service.ScheduleEntryInput{}, false
	}

	amount, err := money.Parse(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
		return service.ScheduleEntryInput{}, false
	}

	input := service.ScheduleEntryInput{
		ContractID:      contractID,
		EntryID:         entryID,
		Description:     strings.TrimSpace(req.Description),
		Amount:          amount,
		ExpectedVersion: req.ExpectedVersion,
		Principal:       principal,
	}
	if req.DueDate != "" {
		due, err := parseDate(req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due_date"})
			return service.ScheduleEntryInput{}, false
		}
		input.DueDate = &due
	}
	return input, true
}

func (h *Handler) addScheduleEntry(c *gin.Context) {
	input, ok := h.scheduleEntryInput(c, uuid.Nil)
	if !ok {
		return
	}
	result, err := h.billing.AddScheduleEntry(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, settlementView(result))
}

func (h *Handler) editScheduleEntry(c *gin.Context) {
	entryID, err := parseID(c.Param("entryID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}
	input, ok := h.scheduleEntryInput(c, entryID)
	if !ok {
		return
	}
	result, err := h.billing.EditScheduleEntry(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, settlementView(result))
}

func (h *Handler) removeScheduleEntry(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	contractID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return
	}
	entryID, err := parseID(c.Param("entryID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}
	expectedVersion, err := parseVersion(c.Query("expected_version"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expected_version"})
		return
	}

	result, err := h.billing.RemoveScheduleEntry(c.Request.Context(), contractID, entryID, expectedVersion, principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, settlementView(result))
}

type paymentRequest struct {
	Amount          string `json:"amount" binding:"required"`
	Method          string `json:"method"`
	Reference       string `json:"reference"`
	Memo            string `json:"memo"`
	Purpose         string `json:"purpose"`
	ReceivedAt      string `json:"received_at"`
	ExpectedVersion int64  `json:"expected_version"`
}

func (h *Handler) paymentInput(c *gin.Context, paymentID uuid.UUID) (service.PaymentInput, bool) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return service.PaymentInput{}, false
	}

	contractID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return service.PaymentInput{}, false
	}

	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return service.PaymentInput{}, false
	}

	amount, err := money.Parse(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
		return service.PaymentInput{}, false
	}

	input := service.PaymentInput{
		ContractID:      contractID,
		PaymentID:       paymentID,
		Amount:          amount,
		Method:          strings.TrimSpace(req.Method),
		Reference:       strings.TrimSpace(req.Reference),
		Memo:            strings.TrimSpace(req.Memo),
		Purpose:         strings.TrimSpace(req.Purpose),
		ExpectedVersion: req.ExpectedVersion,
		Principal:       principal,
	}
	if req.ReceivedAt != "" {
		receivedAt, err := parseDate(req.ReceivedAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid received_at"})
			return service.PaymentInput{}, false
		}
		input.ReceivedAt = receivedAt
	}
	return input, true
}

func (h *Handler) recordPayment(c *gin.Context) {
	input, ok := h.paymentInput(c, uuid.Nil)
	if !ok {
		return
	}
	result, err := h.billing.RecordPayment(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, settlementView(result))
}

func (h *Handler) editPayment(c *gin.Context) {
	paymentID, err := parseID(c.Param("paymentID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment id"})
		return
	}
	input, ok := h.paymentInput(c, paymentID)
	if !ok {
		return
	}
	result, err := h.billing.EditPayment(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, settlementView(result))
}

func (h *Handler) deletePayment(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	contractID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return
	}
	paymentID, err := parseID(c.Param("paymentID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment id"})
		return
	}
	expectedVersion, err := parseVersion(c.Query("expected_version"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expected_version"})
		return
	}

	result, err := h.billing.DeletePayment(c.Request.Context(), contractID, paymentID, expectedVersion, principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, settlementView(result))
}

func (h *Handler) statementPDF(c *gin.Context) {
	if _, ok := middleware.MustPrincipal(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	contractID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return
	}

	result, err := h.statements.StatementPDF(c.Request.Context(), contractID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/pdf", result.Content)
}

func (h *Handler) ledgerExcel(c *gin.Context) {
	if _, ok := middleware.MustPrincipal(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	contractID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return
	}

	result, err := h.statements.LedgerExcel(c.Request.Context(), contractID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", result.Content)
}

func (h *Handler) listPackages(c *gin.Context) {
	category := model.Category(strings.ToUpper(strings.TrimSpace(c.Query("category"))))
	items, err := h.catalog.Packages(c.Request.Context(), category)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"packages": items})
}

func (h *Handler) listStaffOptions(c *gin.Context) {
	category := model.Category(strings.ToUpper(strings.TrimSpace(c.Query("category"))))
	items, err := h.catalog.StaffOptions(c.Request.Context(), category)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"staff_options": items})
}

func (h *Handler) listOvertimeRates(c *gin.Context) {
	category := model.Category(strings.ToUpper(strings.TrimSpace(c.Query("category"))))
	items, err := h.catalog.OvertimeRates(c.Request.Context(), category)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"overtime_rates": items})
}

func (h *Handler) listAddOns(c *gin.Context) {
	items, err := h.catalog.AddOns(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"addons": items})
}

func (h *Handler) listProducts(c *gin.Context) {
	items, err := h.catalog.Products(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": items})
}

func (h *Handler) listDiscounts(c *gin.Context) {
	items, err := h.catalog.DiscountOptions(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"discounts": items})
}

func (h *Handler) listLocations(c *gin.Context) {
	items, err := h.catalog.Locations(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": items})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("contract billing request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseID(raw string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(raw))
}

func parseOptionalID(raw *string) (*uuid.UUID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*raw))
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseVersion(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, service.ErrInvalidInput
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, service.ErrInvalidInput
}
