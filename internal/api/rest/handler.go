package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/feral-file/notary-bridge/internal/addresspool"
	"github.com/feral-file/notary-bridge/internal/domain"
	"github.com/feral-file/notary-bridge/internal/governor"
	"github.com/feral-file/notary-bridge/internal/metrics"
	"github.com/feral-file/notary-bridge/internal/notary"
	"github.com/feral-file/notary-bridge/internal/proof"
)

// Handler defines the interface for REST API handlers
//
//go:generate mockgen -source=handler.go -destination=../../mocks/api_handler.go -package=mocks -mock_names=Handler=MockAPIHandler,HealthChecker=MockHealthChecker
type Handler interface {
	// RequestProof signs an operation with the notary key
	// POST /api/v1/proofs
	RequestProof(c *gin.Context)

	// Register allocates a deposit address to a ledger account
	// POST /api/v1/registrations
	Register(c *gin.Context)

	// GetRegistration returns the address allocated to an account
	// GET /api/v1/registrations/:account_id
	GetRegistration(c *gin.Context)

	// GetFreeAddresses returns the address pool occupancy
	// GET /api/v1/addresses/free
	GetFreeAddresses(c *gin.Context)

	// GetWithdrawalLimit returns the current withdrawal ceiling of the governed asset
	// GET /api/v1/withdrawal-limit
	GetWithdrawalLimit(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// HealthChecker reports whether a backing service is reachable
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// RegistrationRequest is the body of POST /api/v1/registrations
type RegistrationRequest struct {
	AccountID string `json:"account_id" binding:"required"`
}

// RegistrationResponse maps a ledger account to its deposit address
type RegistrationResponse struct {
	AccountID string `json:"account_id"`
	Address   string `json:"address"`
}

// AddressPoolResponse is the address pool occupancy
type AddressPoolResponse struct {
	Free      int `json:"free"`
	Allocated int `json:"allocated"`
}

// handler implements the Handler interface
type handler struct {
	notary   notary.Service
	pool     addresspool.Pool
	governor governor.Governor
	health   HealthChecker
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewHandler creates a new REST API handler. gov and health may be nil.
func NewHandler(svc notary.Service, pool addresspool.Pool, gov governor.Governor, health HealthChecker, m *metrics.Metrics, logger *zap.Logger) Handler {
	return &handler{
		notary:   svc,
		pool:     pool,
		governor: gov,
		health:   health,
		metrics:  m,
		logger:   logger,
	}
}

// RequestProof signs an operation and returns the signature in its wire form
func (h *handler) RequestProof(c *gin.Context) {
	var op domain.Operation
	if err := c.ShouldBindJSON(&op); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	issued, err := h.notary.Sign(c.Request.Context(), op)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMalformedOperation):
			respondBadRequest(c, "Malformed operation", err.Error())
		case errors.Is(err, domain.ErrAlreadyUsed):
			respondConflict(c, "Trigger already used", err.Error())
		case errors.Is(err, domain.ErrUnverifiedTrigger):
			respondUnverified(c, err.Error())
		case errors.Is(err, domain.ErrKeyUnavailable):
			respondUnavailable(c, err, "Signing key unavailable")
		default:
			respondInternalError(c, h.logger, err, "Failed to sign operation")
		}
		return
	}

	c.JSON(http.StatusOK, proof.NewSignatureResponse(issued.Digest, issued.Proof))
}

// Register allocates a deposit address. A repeated registration answers 409 with the held address.
func (h *handler) Register(c *gin.Context) {
	var req RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	accountID := strings.TrimSpace(req.AccountID)
	if accountID == "" {
		respondValidationError(c, "account_id is required")
		return
	}

	address, err := h.pool.Allocate(c.Request.Context(), accountID)
	if err != nil {
		var registered *domain.AlreadyRegisteredError
		switch {
		case errors.As(err, &registered):
			h.metrics.Registrations.WithLabelValues("already_registered").Inc()
			respondConflict(c, "Account already registered", registered.Address)
		case errors.Is(err, domain.ErrNoFreeAddress):
			h.metrics.Registrations.WithLabelValues("no_free_address").Inc()
			respondUnavailable(c, err, "No free address")
		default:
			h.metrics.Registrations.WithLabelValues("failed").Inc()
			respondInternalError(c, h.logger, err, "Failed to allocate address", zap.String("account_id", accountID))
		}
		return
	}

	h.metrics.Registrations.WithLabelValues("allocated").Inc()
	h.logger.Info("Allocated deposit address", zap.String("account_id", accountID), zap.String("address", address))

	c.JSON(http.StatusCreated, RegistrationResponse{AccountID: accountID, Address: address})
}

// GetRegistration returns the address allocated to an account
func (h *handler) GetRegistration(c *gin.Context) {
	accountID := c.Param("account_id")
	if accountID == "" {
		respondBadRequest(c, "account_id is required")
		return
	}

	address, ok, err := h.pool.AddressOf(c.Request.Context(), accountID)
	if err != nil {
		respondInternalError(c, h.logger, err, "Failed to get registration", zap.String("account_id", accountID))
		return
	}
	if !ok {
		respondNotFound(c, "Account not registered")
		return
	}

	c.JSON(http.StatusOK, RegistrationResponse{AccountID: accountID, Address: address})
}

// GetFreeAddresses returns how many addresses are free and allocated
func (h *handler) GetFreeAddresses(c *gin.Context) {
	ctx := c.Request.Context()

	free, err := h.pool.FreeCount(ctx)
	if err != nil {
		respondInternalError(c, h.logger, err, "Failed to count free addresses")
		return
	}
	allocated, err := h.pool.AllocatedCount(ctx)
	if err != nil {
		respondInternalError(c, h.logger, err, "Failed to count allocated addresses")
		return
	}

	h.metrics.FreeAddresses.Set(float64(free))
	c.JSON(http.StatusOK, AddressPoolResponse{Free: free, Allocated: allocated})
}

// GetWithdrawalLimit returns the current withdrawal ceiling
func (h *handler) GetWithdrawalLimit(c *gin.Context) {
	if h.governor == nil {
		respondNotFound(c, "No governed asset")
		return
	}

	state, err := h.governor.Current(c.Request.Context())
	if err != nil {
		respondInternalError(c, h.logger, err, "Failed to get withdrawal limit")
		return
	}
	if state == nil {
		respondNotFound(c, "Withdrawal limit not computed yet")
		return
	}

	c.JSON(http.StatusOK, state)
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	if h.health != nil {
		if err := h.health.Ping(c.Request.Context()); err != nil {
			h.logger.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unavailable",
				"service": "notary",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "notary",
		"signer":  h.notary.Address().Hex(),
	})
}
