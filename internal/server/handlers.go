package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/pomolit/internal/aggregator"
	"github.com/julianstephens/pomolit/internal/constants"
	"github.com/julianstephens/pomolit/internal/models"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": constants.Version,
	})
}

// handleRecords lists records newest first. from and to are inclusive days;
// either may be omitted.
func (s *Server) handleRecords(c *gin.Context) {
	records := s.agg.AllRecords()

	from, to := c.Query("from"), c.Query("to")
	if from != "" || to != "" {
		lower := time.Time{}
		upper := models.NextDay(s.clock.Now()).AddDate(100, 0, 0)
		if from != "" {
			d, err := models.ParseDay(from, s.clock.Now().Location())
			if err != nil {
				badDate(c, "from", from)
				return
			}
			lower = d
		}
		if to != "" {
			d, err := models.ParseDay(to, s.clock.Now().Location())
			if err != nil {
				badDate(c, "to", to)
				return
			}
			upper = models.NextDay(d)
		}
		if upper.Before(lower) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "from must not be after to",
			})
			return
		}
		records = aggregator.InRange(records, lower, upper)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"records": records,
		"count":   len(records),
	})
}

func (s *Server) handleRecord(c *gin.Context) {
	raw := c.Param("date")
	d, err := models.ParseDay(raw, s.clock.Now().Location())
	if err != nil {
		badDate(c, "date", raw)
		return
	}

	rec := s.agg.RecordForDate(d)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"record":  rec,
		"saved":   rec.ID != "",
		"met":     rec.IsDailyTargetMet(),
	})
}

func (s *Server) handleStats(c *gin.Context) {
	asOf := s.clock.Now()
	if raw := c.Query("date"); raw != "" {
		d, err := models.ParseDay(raw, asOf.Location())
		if err != nil {
			badDate(c, "date", raw)
			return
		}
		asOf = d
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   s.agg.Summary(asOf),
	})
}

func badDate(c *gin.Context, param, value string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   param + " must be YYYY-MM-DD, got " + value,
	})
}
