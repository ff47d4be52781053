// SPDX-License-Identifier: MIT

package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/katalvlaran/lca/core"
	"github.com/katalvlaran/lca/units"
)

// KindInvalidRequest marks payloads rejected before any calculation.
const KindInvalidRequest core.Kind = "invalid_request"

// Failure is the error body of every endpoint.
type Failure struct {
	Kind    core.Kind `json:"kind"`
	Message string    `json:"message"`
}

// statusOf maps a failure kind to its HTTP status.
func statusOf(k core.Kind) int {
	switch k {
	case KindInvalidRequest:
		return http.StatusBadRequest
	case core.KindUnitConversion, core.KindIncompatibleUnits, core.KindNoOutput,
		core.KindSingularSystem, core.KindDimensionMismatch:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// kindOf is core.KindOf plus the unit table's own sentinels.
func kindOf(err error) core.Kind {
	switch {
	case errors.Is(err, units.ErrUnknownUnit):
		return core.KindUnitConversion
	case errors.Is(err, units.ErrDimension):
		return KindInvalidRequest
	default:
		return core.KindOf(err)
	}
}

func (s *Server) fail(c echo.Context, err error) error {
	kind := kindOf(err)
	msg := err.Error()
	if kind == core.KindInternal {
		s.logger.Error("request failed", "uri", c.Request().RequestURI, "err", err)
		msg = "internal error"
	}

	return c.JSON(statusOf(kind), Failure{Kind: kind, Message: msg})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, Failure{Kind: KindInvalidRequest, Message: msg})
}
