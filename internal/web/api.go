package web

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Veraticus/hotelpro/internal/common"
	"github.com/Veraticus/hotelpro/internal/model"
	"github.com/Veraticus/hotelpro/internal/service"
	"github.com/Veraticus/hotelpro/internal/storage"
	"github.com/gin-gonic/gin"
)

// recordJSON is the wire form of a sales record.
type recordJSON struct {
	Date     string  `json:"date"`
	RoomType string  `json:"roomType"`
	Revenue  float64 `json:"revenue"`
}

func toRecordJSON(records []model.SalesRecord) []recordJSON {
	out := make([]recordJSON, 0, len(records))
	for _, r := range records {
		out = append(out, recordJSON{Date: model.DayKey(r.Date), RoomType: r.RoomType, Revenue: r.Revenue})
	}
	return out
}

// unreadableJSON is the wire form of a stored row that could not be read.
type unreadableJSON struct {
	Date     string `json:"date"`
	RoomType string `json:"roomType"`
	Revenue  string `json:"revenue"`
	Reason   string `json:"reason"`
	Line     int    `json:"line"`
}

func toUnreadableJSON(rows []model.UnreadableRow) []unreadableJSON {
	out := make([]unreadableJSON, 0, len(rows))
	for _, u := range rows {
		out = append(out, unreadableJSON{Date: u.Date, RoomType: u.RoomType, Revenue: u.Revenue, Reason: u.Reason, Line: u.Line})
	}
	return out
}

func fromRecordJSON(in []recordJSON) ([]model.SalesRecord, error) {
	records := make([]model.SalesRecord, 0, len(in))
	for i, r := range in {
		date, err := storage.ParseDate(r.Date)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, model.SalesRecord{Date: date, RoomType: r.RoomType, Revenue: r.Revenue})
	}
	return records, nil
}

func (s *Server) apiError(c *gin.Context, op string, err error) {
	_ = c.Error(err)
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, common.ErrBackendUnavailable):
		status = http.StatusServiceUnavailable
		s.metrics.backendError(s.store.Name(), op)
	case errors.Is(err, common.ErrInvalidRecord):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": common.UserMessage(err)})
}

func (s *Server) handleAPISummary(c *gin.Context) {
	records, err := s.store.Load(c.Request.Context())
	if err != nil {
		s.apiError(c, "load", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"backend":     s.store.Name(),
		"generatedAt": time.Now().UTC().Format(time.RFC3339),
		"summary":     s.summarize(records),
	})
}

func (s *Server) handleAPIRecords(c *gin.Context) {
	table, err := service.LoadTable(c.Request.Context(), s.store)
	if err != nil {
		s.apiError(c, "load", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"records":    toRecordJSON(table.Records),
		"unreadable": toUnreadableJSON(table.Unreadable),
	})
}

// handleAPIReplaceRecords overwrites the whole table with the request body, including
// any rows the store could not read.
func (s *Server) handleAPIReplaceRecords(c *gin.Context) {
	var body struct {
		Records []recordJSON `json:"records"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must be {\"records\": [...]}"})
		return
	}

	records, err := fromRecordJSON(body.Records)
	if err != nil {
		s.apiError(c, "save", err)
		return
	}
	if err := s.store.Save(c.Request.Context(), records); err != nil {
		s.apiError(c, "save", err)
		return
	}

	s.metrics.saved(len(records))
	s.logger.Info("saved records via api",
		"backend", s.store.Name(),
		"user", currentSession(c).UserID,
		"rows", len(records))
	c.JSON(http.StatusOK, gin.H{"saved": len(records)})
}
