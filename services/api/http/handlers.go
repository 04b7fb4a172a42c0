package http

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/floatchat/argo-explorer/services/api/db"
)

// DefaultRangeDeg is the region half-width used when rangeDeg is omitted.
const DefaultRangeDeg = 1.0

func (s *Server) handleEverything(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	rows, err := s.store.Everything(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.respondMeasurements(c, rows)
}

func (s *Server) handleLatLong(c *gin.Context) {
	lat, err := floatQuery(c, "lat")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lon, err := floatQuery(c, "lon")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	rows, err := s.store.AtLocation(ctx, lat, lon)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.respondMeasurements(c, rows)
}

func (s *Server) handleProfiles(c *gin.Context) {
	region, err := regionQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	rows, err := s.store.Profiles(ctx, region)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.respondMeasurements(c, rows)
}

func (s *Server) handleMetric(metric string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
		defer cancel()

		points, err := s.store.MetricPoints(ctx, metric)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		normalizeMetricPoints(points)
		s.metrics.RowsReturned.WithLabelValues(c.FullPath()).Add(float64(len(points)))
		c.JSON(http.StatusOK, points)
	}
}

func (s *Server) respondMeasurements(c *gin.Context, rows []db.Measurement) {
	normalizeMeasurements(rows)
	s.metrics.RowsReturned.WithLabelValues(c.FullPath()).Add(float64(len(rows)))
	c.JSON(http.StatusOK, rows)
}

// floatQuery parses a required finite float query parameter.
func floatQuery(c *gin.Context, name string) (float64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	return parseFinite(name, raw)
}

func parseFinite(name, raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid %s: %s", name, raw)
	}
	return v, nil
}

func regionQuery(c *gin.Context) (db.Region, error) {
	lat, err := floatQuery(c, "lat")
	if err != nil {
		return db.Region{}, err
	}
	lon, err := floatQuery(c, "lon")
	if err != nil {
		return db.Region{}, err
	}

	rangeDeg := DefaultRangeDeg
	if raw := strings.TrimSpace(c.Query("rangeDeg")); raw != "" {
		if rangeDeg, err = parseFinite("rangeDeg", raw); err != nil {
			return db.Region{}, err
		}
	}
	return newRegion(lat, lon, rangeDeg)
}

func newRegion(lat, lon, rangeDeg float64) (db.Region, error) {
	if rangeDeg < 0 {
		return db.Region{}, fmt.Errorf("invalid rangeDeg: %v", rangeDeg)
	}
	return db.Region{Lat: lat, Lon: lon, RangeDeg: rangeDeg}, nil
}
