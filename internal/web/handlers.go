package web

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/Veraticus/hotelpro/internal/auth"
	"github.com/Veraticus/hotelpro/internal/common"
	"github.com/Veraticus/hotelpro/internal/model"
	"github.com/Veraticus/hotelpro/internal/report"
	"github.com/Veraticus/hotelpro/internal/service"
	"github.com/gin-gonic/gin"
)

const exportFileName = "hotel_report.csv"

func (s *Server) handleLoginForm(c *gin.Context) {
	if currentSession(c).Authenticated {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	s.render(c, http.StatusOK, "login", loginData{pageData: pageData{Title: "Login"}})
}

func (s *Server) handleLogin(c *gin.Context) {
	id := c.PostForm("id")
	secret := c.PostForm("secret")

	sess := currentSession(c)
	ok := s.gate.Authenticate(sess, id, secret)
	s.metrics.login(ok)
	if !ok {
		s.logger.Warn("login failed", "user", id, "client_ip", c.ClientIP())
		s.render(c, http.StatusUnauthorized, "login", loginData{
			pageData: pageData{Title: "Login", Error: common.UserMessage(common.ErrAuthFailure)},
			ID:       id,
		})
		return
	}

	token, err := s.tokens.Issue(sess)
	if err != nil {
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	s.setSessionCookie(c, token, int(s.tokens.TTL().Seconds()))
	s.logger.Info("login succeeded", "user", sess.UserID, "session", sess.ID)
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) handleLogout(c *gin.Context) {
	sess := currentSession(c)
	if sess.Authenticated {
		s.logger.Info("logout", "user", sess.UserID, "session", sess.ID)
	}
	s.gate.Logout(sess)
	s.setSessionCookie(c, "", -1)
	c.Redirect(http.StatusSeeOther, "/login")
}

func (s *Server) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, value, maxAge, "/", "", s.opts.SecureCookies, true)
}

// errTableChanged rejects an editor save whose form was not loaded from the stored table.
var errTableChanged = errors.New("table changed since the editor was loaded")

// loadTable loads the table, degrading a backend failure to an empty table and a message.
func (s *Server) loadTable(c *gin.Context) (model.Table, string) {
	table, err := service.LoadTable(c.Request.Context(), s.store)
	if err != nil {
		s.logBackendFailure(c, "load", err)
		return model.Table{}, common.UserMessage(err)
	}
	if !table.Complete() {
		s.logger.Warn("table has unreadable rows",
			"backend", s.store.Name(),
			"rows", len(table.Unreadable))
	}
	return table, ""
}

func (s *Server) logBackendFailure(c *gin.Context, op string, err error) {
	s.metrics.backendError(s.store.Name(), op)
	s.logger.Error("backend "+op+" failed",
		"backend", s.store.Name(),
		"user", currentSession(c).UserID,
		"error", err)
}

func unreadableWarning(table model.Table, advice string) string {
	if table.Complete() {
		return ""
	}
	return fmt.Sprintf("%d row(s) in the table could not be read. %s", len(table.Unreadable), advice)
}

func (s *Server) summarize(records []model.SalesRecord) report.Summary {
	return report.Summarize(records, s.opts.TotalRooms, s.opts.TargetRevenue)
}

func (s *Server) handleDashboard(c *gin.Context) {
	table, loadErr := s.loadTable(c)
	summary := s.summarize(table.Records)

	data := dashboardData{
		pageData: s.page(c, "Dashboard"),
		Summary:  summary,
		Chart:    newChartData(summary),
	}
	data.Error = loadErr
	data.Warning = unreadableWarning(table, "They are left out of the figures until they are fixed in the editor.")
	if c.Query("saved") != "" {
		data.Notice = "Saved."
	}
	s.render(c, http.StatusOK, "dashboard", data)
}

func (s *Server) handleExport(c *gin.Context) {
	records, err := s.store.Load(c.Request.Context())
	if err != nil {
		s.metrics.backendError(s.store.Name(), "load")
		_ = c.Error(err)
		c.String(http.StatusServiceUnavailable, common.UserMessage(err))
		return
	}

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, records); err != nil {
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "internal error")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+exportFileName+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// handleEditForm renders the grid. When the table cannot be loaded the page shows the
// error without a save form, so an empty grid can never be saved over the stored table.
func (s *Server) handleEditForm(c *gin.Context) {
	table, loadErr := s.loadTable(c)
	data := editData{pageData: s.page(c, "Edit data")}
	if loadErr != "" {
		data.Error = loadErr
		data.ReadOnly = true
		s.render(c, http.StatusOK, "edit", data)
		return
	}

	data.Rows = rowsFromTable(table)
	data.Version = tableVersion(table)
	data.Warning = unreadableWarning(table, "They are marked below; fix or delete them before saving.")
	s.render(c, http.StatusOK, "edit", data)
}

// handleEditSave writes the submitted working copy. The form must carry the version of
// the table still stored; otherwise nothing is written and the submission comes back
// with the current version, so saving again is an explicit choice to overwrite. On any
// failure the grid is rendered again from the submitted values so nothing typed is lost.
func (s *Server) handleEditSave(c *gin.Context) {
	version := c.PostForm("version")
	rows := parseEditForm(
		c.PostFormArray("date"),
		c.PostFormArray("roomType"),
		c.PostFormArray("revenue"),
		c.PostFormArray("delete"),
	)

	records, err := recordsFromRows(rows)
	if err != nil {
		s.renderEditFailure(c, http.StatusUnprocessableEntity, version, rows, err)
		return
	}

	ctx := c.Request.Context()
	current, err := service.LoadTable(ctx, s.store)
	if err != nil {
		s.logBackendFailure(c, "load", err)
		s.renderEditFailure(c, backendStatus(err), version, rows, err)
		return
	}
	if latest := tableVersion(current); version != latest {
		s.logger.Warn("edit rejected: table changed since it was loaded",
			"backend", s.store.Name(),
			"user", currentSession(c).UserID,
			"had_version", version != "")
		s.renderEditFailure(c, http.StatusConflict, latest, rows, common.NewUserError(
			"The table changed after this editor was opened, so nothing was saved. "+
				"Save again to replace it with the rows below, or reload the editor to start over.",
			errTableChanged))
		return
	}

	if err := s.store.Save(ctx, records); err != nil {
		s.logBackendFailure(c, "save", err)
		s.renderEditFailure(c, backendStatus(err), version, rows, err)
		return
	}

	s.metrics.saved(len(records))
	s.logger.Info("saved records",
		"backend", s.store.Name(),
		"user", currentSession(c).UserID,
		"rows", len(records))
	c.Redirect(http.StatusSeeOther, "/?saved=1")
}

func backendStatus(err error) int {
	if errors.Is(err, common.ErrBackendUnavailable) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) renderEditFailure(c *gin.Context, status int, version string, rows []EditRow, err error) {
	_ = c.Error(err)
	data := editData{
		pageData: s.page(c, "Edit data"),
		Version:  version,
		Rows:     appendBlankRows(trimTrailingBlank(rows)),
	}
	data.Error = common.UserMessage(err)
	s.render(c, status, "edit", data)
}
