package http

import (
	"context"
	"errors"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/floatchat/argo-explorer/services/api/chat"
	"github.com/floatchat/argo-explorer/services/api/db"
)

type chatRequest struct {
	Messages []chat.Message `json:"messages"`
	Lat      *float64       `json:"lat"`
	Lon      *float64       `json:"lon"`
	RangeDeg *float64       `json:"rangeDeg"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// region returns the requested map selection; ok is false when none was
// sent.
func (r chatRequest) region() (region db.Region, ok bool, err error) {
	if r.Lat == nil && r.Lon == nil {
		return db.Region{}, false, nil
	}
	if r.Lat == nil || r.Lon == nil {
		return db.Region{}, false, errors.New("lat and lon must be sent together")
	}
	for _, v := range []*float64{r.Lat, r.Lon, r.RangeDeg} {
		if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
			return db.Region{}, false, errors.New("lat, lon and rangeDeg must be finite")
		}
	}

	rangeDeg := DefaultRangeDeg
	if r.RangeDeg != nil {
		rangeDeg = *r.RangeDeg
	}
	region, err = newRegion(*r.Lat, *r.Lon, rangeDeg)
	return region, err == nil, err
}

func (s *Server) handleChat(c *gin.Context) {
	if s.generator == nil {
		s.metrics.ChatRequests.WithLabelValues("unavailable").Inc()
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "chat is not configured: GEMINI_API_KEY is missing"})
		return
	}

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.metrics.ChatRequests.WithLabelValues("bad_request").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	bounds, hasRegion, err := req.region()
	if err != nil {
		s.metrics.ChatRequests.WithLabelValues("bad_request").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.cfg.ChatTimeout)
	defer cancel()

	var region *chat.Region
	if hasRegion {
		region = &chat.Region{Lat: bounds.Lat, Lon: bounds.Lon, RangeDeg: bounds.RangeDeg}
		summary, err := s.store.RegionSummary(ctx, bounds)
		if err != nil {
			s.logger.Warn("region summary unavailable, answering without it", "lat", region.Lat, "lon", region.Lon, "error", err)
		} else {
			region.Summary = &summary
		}
	}

	prompt, err := chat.ComposePrompt(s.clock.Now(), req.Messages, region)
	if err != nil {
		s.metrics.ChatRequests.WithLabelValues("bad_request").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start := s.clock.Now()
	reply, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.metrics.ChatRequests.WithLabelValues("error").Inc()
		s.logger.Error("text generation failed", "error", err, "elapsed", s.clock.Since(start))
		c.JSON(http.StatusBadGateway, gin.H{"error": "text generation failed: " + err.Error()})
		return
	}

	s.metrics.ChatRequests.WithLabelValues("ok").Inc()
	s.logger.Debug("chat answered", "messages", len(req.Messages), "region", region != nil, "elapsed", s.clock.Since(start))
	c.JSON(http.StatusOK, chatResponse{Reply: reply})
}
