package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/Veraticus/hotelpro/internal/model"
	"github.com/Veraticus/hotelpro/internal/report"
	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"login", "dashboard", "edit"}

var templateFuncs = template.FuncMap{
	"currency": report.FormatCurrency,
	"percent":  report.FormatPercent,
	"day":      func(t time.Time) string { return model.DayKey(t) },
}

// parseTemplates builds one template set per page, each sharing the base layout.
func parseTemplates() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(templateFuncs).ParseFS(templateFS, "templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		pages[name] = t
	}
	return pages, nil
}

type pageData struct {
	Title   string
	User    string
	Backend string
	Notice  string
	Warning string
	Error   string
}

type loginData struct {
	pageData
	ID string
}

type chartData struct {
	DailyLabels []string  `json:"dailyLabels"`
	DailyValues []float64 `json:"dailyValues"`
	RoomLabels  []string  `json:"roomLabels"`
	RoomCounts  []int     `json:"roomCounts"`
}

type dashboardData struct {
	pageData
	Chart   chartData
	Summary report.Summary
}

// EditRow is one line of the editable grid as submitted, before coercion.
type EditRow struct {
	Date     string
	RoomType string
	Revenue  string
	Error    string
	Index    int
	Delete   bool
}

type editData struct {
	pageData
	// Version is the fingerprint of the table the rows were loaded from.
	Version string
	Rows    []EditRow
	// ReadOnly hides the save form when the table could not be loaded.
	ReadOnly bool
}

func newChartData(s report.Summary) chartData {
	chart := chartData{
		DailyLabels: make([]string, 0, len(s.Daily)),
		DailyValues: make([]float64, 0, len(s.Daily)),
		RoomLabels:  make([]string, 0, len(s.RoomTypes)),
		RoomCounts:  make([]int, 0, len(s.RoomTypes)),
	}
	for _, d := range s.Daily {
		chart.DailyLabels = append(chart.DailyLabels, model.DayKey(d.Date))
		chart.DailyValues = append(chart.DailyValues, d.Revenue)
	}
	for _, rt := range s.RoomTypes {
		chart.RoomLabels = append(chart.RoomLabels, rt.RoomType)
		chart.RoomCounts = append(chart.RoomCounts, rt.Count)
	}
	return chart
}

func (s *Server) page(c *gin.Context, title string) pageData {
	return pageData{
		Title:   title,
		User:    currentSession(c).UserID,
		Backend: s.store.Name(),
	}
}

func (s *Server) render(c *gin.Context, status int, name string, data any) {
	t, ok := s.templates[name]
	if !ok {
		_ = c.Error(fmt.Errorf("unknown template %q", name))
		c.String(http.StatusInternalServerError, "internal error")
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		_ = c.Error(fmt.Errorf("failed to render %s: %w", name, err))
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}
