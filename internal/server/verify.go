package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mohammad-safakhou/factcheck/internal/factcheck"
	"github.com/mohammad-safakhou/factcheck/internal/store"
)

const (
	msgMissingStatement = "Missing statement in request body"
	msgInvalidStatement = "Statement must be a non-empty string"
	msgUnexpectedPrefix = "An unexpected error occurred: "

	maxRequestBytes = 1 << 20
	auditTimeout    = 5 * time.Second
)

// Verifier runs one verification.
type Verifier interface {
	Verify(ctx context.Context, statement string) (factcheck.VerdictRecord, error)
}

// AuditRecorder persists finished verifications.
type AuditRecorder interface {
	RecordVerification(ctx context.Context, rec store.VerificationRecord) error
}

// VerifyHandler serves POST /api/verify.
type VerifyHandler struct {
	Verifier Verifier
	// Audit is optional; write failures are logged and never affect the response.
	Audit   AuditRecorder
	Timeout time.Duration
	Logger  *log.Logger
}

func (h *VerifyHandler) Register(g *echo.Group) {
	g.POST("/verify", h.verify)
}

func (h *VerifyHandler) verify(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxRequestBytes))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgMissingStatement)
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil || len(payload) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, msgMissingStatement)
	}
	raw, ok := payload["statement"]
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, msgMissingStatement)
	}
	var statement string
	if err := json.Unmarshal(raw, &statement); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidStatement)
	}

	ctx := c.Request().Context()
	if h.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Timeout)
		defer cancel()
	}
	verdict, err := h.Verifier.Verify(ctx, statement)
	switch {
	case errors.Is(err, factcheck.ErrInvalidInput):
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidStatement)
	case err != nil:
		return echo.NewHTTPError(http.StatusInternalServerError, msgUnexpectedPrefix+err.Error()).SetInternal(err)
	}

	if h.Audit != nil {
		rec := store.NewVerificationRecord(statement, verdict)
		actx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditTimeout)
		if err := h.Audit.RecordVerification(actx, rec); err != nil {
			h.logger().Printf("audit write %s failed: %v", rec.ID, err)
		}
		cancel()
	}
	return c.JSON(http.StatusOK, verdict)
}

func (h *VerifyHandler) logger() *log.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return log.Default()
}
