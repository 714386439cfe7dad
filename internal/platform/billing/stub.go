package billing

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// StubHandler is a scripted stand-in for the real billing system. Every
// provisioning request gets the same account back, which makes end-to-end
// runs and integration tests deterministic.
type StubHandler struct {
	logger zerolog.Logger
}

func NewStubHandler(logger zerolog.Logger) *StubHandler {
	return &StubHandler{logger: logger}
}

func (h *StubHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/billing/accounts", h.CreateAccount)
}

func (h *StubHandler) CreateAccount(c echo.Context) error {
	var req accountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	h.logger.Info().
		Str("patient_id", req.PatientID).
		Str("email", req.Email).
		Msg("billing account request received")

	return c.JSON(http.StatusOK, Account{AccountID: "12345", Status: "ACTIVE"})
}
