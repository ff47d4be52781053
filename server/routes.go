// SPDX-License-Identifier: MIT

package server

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/katalvlaran/lca/analysis"
	"github.com/katalvlaran/lca/core"
	"github.com/katalvlaran/lca/impact"
	"github.com/katalvlaran/lca/report"
	"github.com/katalvlaran/lca/scaling"
)

// GraphRequest is the calculation payload. Only the first row is used: its
// functional_unit holds the product demand values separated by spaces or commas.
type GraphRequest struct {
	Rows []GraphRow `json:"rows" validate:"required,min=1,dive"`
}

// GraphRow is one demand row.
type GraphRow struct {
	FunctionalUnit    string `json:"functional_unit" validate:"required"`
	ImpactCategory    string `json:"impact_category"`
	NonProductColumns *int   `json:"non_product_columns,omitempty" validate:"omitempty,min=0"`
}

// GraphResponse is the calculation result.
type GraphResponse struct {
	ID                uuid.UUID             `json:"id"`
	Version           string                `json:"version"`
	Category          string                `json:"impact_category"`
	TotalImpact       float64               `json:"total_impact"`
	ContributionTable []impact.Contribution `json:"contribution_table"`
	Chart             []report.Slice        `json:"chart,omitempty"`
	Warnings          []core.Warning        `json:"warnings,omitempty"`
}

// ConvertRequest asks for value expressed in From to be expressed in To.
// An empty To means the base unit of From's dimension.
type ConvertRequest struct {
	Value float64 `json:"value"`
	From  string  `json:"from" validate:"required"`
	To    string  `json:"to"`
}

// ConvertResponse is the converted quantity.
type ConvertResponse struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

func (s *Server) routes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.POST("/results/graph", s.handleGraph)
	s.echo.POST("/results/csv", s.handleCSV)
	s.echo.POST("/units/convert", s.handleConvert)
	if s.metrics != nil {
		s.echo.GET("/metrics", echo.WrapHandler(s.metrics))
	}
}

func (s *Server) handleHealth(c echo.Context) error {
	if s.health != nil {
		if err := s.health(c.Request().Context()); err != nil {
			s.logger.Warn("health check failed", "err", err)
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		}
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// calculate binds, validates and runs a GraphRequest. A nil result means the
// response has already been written.
func (s *Server) calculate(c echo.Context) (*analysis.Result, error) {
	payload := new(GraphRequest)
	if err := c.Bind(payload); err != nil {
		return nil, badRequest(c, "invalid request body")
	}
	if err := c.Validate(payload); err != nil {
		return nil, badRequest(c, "no rows data provided")
	}
	row := payload.Rows[0]
	demand, err := scaling.ParseDemand(row.FunctionalUnit)
	if err != nil {
		return nil, badRequest(c, err.Error())
	}

	res, err := s.calc.Calculate(c.Request().Context(), analysis.Request{
		Demand:            demand,
		Category:          row.ImpactCategory,
		NonProductColumns: row.NonProductColumns,
	})
	if err != nil {
		return nil, s.fail(c, err)
	}

	return res, nil
}

func (s *Server) handleGraph(c echo.Context) error {
	res, err := s.calculate(c)
	if res == nil {
		return err
	}

	out := GraphResponse{
		ID:                res.ID,
		Version:           res.Version,
		Category:          res.Category,
		TotalImpact:       res.TotalImpact,
		ContributionTable: res.Contributions,
		Warnings:          res.Warnings,
	}
	if out.ContributionTable == nil {
		out.ContributionTable = []impact.Contribution{}
	}
	chart, err := report.PieSlices(res.Contributions, report.DefaultThreshold)
	switch {
	case err == nil:
		out.Chart = chart
	case errors.Is(err, report.ErrNegativeValue), errors.Is(err, report.ErrEmptyTotal):
		s.logger.Debug("no pie chart for result", "id", res.ID, "reason", err)
	default:
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleCSV(c echo.Context) error {
	res, err := s.calculate(c)
	if res == nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="contributions-`+res.ID.String()+`.csv"`)
	c.Response().WriteHeader(http.StatusOK)

	return report.WriteCSV(c.Response(), res.Contributions)
}

func (s *Server) handleConvert(c echo.Context) error {
	req := new(ConvertRequest)
	if err := c.Bind(req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return badRequest(c, "from is required")
	}

	if req.To == "" {
		q, err := s.normalizer.Normalize(req.Value, req.From)
		if err != nil {
			return s.fail(c, err)
		}
		return c.JSON(http.StatusOK, ConvertResponse{Value: q.Value, Unit: q.Unit})
	}
	v, err := s.normalizer.Convert(req.Value, req.From, req.To)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, ConvertResponse{Value: v, Unit: req.To})
}
