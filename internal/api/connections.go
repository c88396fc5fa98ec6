package api

import (
	"context"
	"net/http"
	"strings"

	"wpconn-dashboard/internal/gateway"
	"wpconn-dashboard/internal/listview"
	"wpconn-dashboard/internal/notify"
	"wpconn-dashboard/internal/session"
	"wpconn-dashboard/internal/web"
	"wpconn-dashboard/pkg/models"

	"github.com/gin-gonic/gin"
)

const connectionsPath = "/dashboard/connections"

type tenantView = tableView[models.Tenant, struct{}, tenantForm]

// ConnectionHandler manages tenant connections.
type ConnectionHandler struct {
	*Base
}

func NewConnectionHandler(base *Base) *ConnectionHandler {
	return &ConnectionHandler{Base: base}
}

func (h *ConnectionHandler) view(c *gin.Context) *tenantView {
	sess := session.FromContext(c)
	return listview.Lookup(h.Views, sess.ID, "connections", "tenants", func() *tenantView {
		return newTableView[models.Tenant, struct{}, tenantForm](h.PageSize, func(t models.Tenant) string { return t.ID }, struct{}{})
	})
}

func (h *ConnectionHandler) controller(c *gin.Context) listview.Controller[models.Tenant, struct{}] {
	client := h.client(c)
	return listview.NewController(func(ctx context.Context, _ struct{}, limit, offset int) ([]models.Tenant, error) {
		return client.ListTenants(ctx, gateway.TenantQuery{Limit: limit, Offset: offset})
	})
}

func (h *ConnectionHandler) List(c *gin.Context) {
	v := h.view(c)
	drive(h.Base, c, "connections", v.list, h.controller(c), func() struct{} { return struct{}{} })

	switch {
	case c.Query("new") != "":
		v.form.Open("", tenantForm{IsActive: true})
	case c.Query("edit") != "":
		id := c.Query("edit")
		t, ok := v.list.Find(id)
		if !ok {
			h.notice(c, notify.LevelError, "That connection is no longer in the current page")
			break
		}
		// The token is write-only and never pre-filled.
		v.form.Open(id, tenantForm{
			Alias:         t.DisplayName(),
			WabaID:        t.WabaID,
			PhoneNumberID: t.PhoneNumberID,
			WebhookURL:    t.WebhookURL,
			IsActive:      t.IsActive,
		})
	case c.Query("cancel") != "":
		v.form.Dismiss()
	}

	h.render(c, http.StatusOK, web.PageConnections, "connections", "Connections", newTableModel(connectionsPath, "", v))
}

func (h *ConnectionHandler) Create(c *gin.Context) {
	v := h.view(c)
	var form tenantForm
	if err := c.ShouldBind(&form); err != nil {
		v.form.Keep("", form)
		h.notice(c, notify.LevelError, bindMessage(err))
		redirect(c, connectionsPath)
		return
	}
	if strings.TrimSpace(form.Token) == "" {
		v.form.Keep("", form)
		h.notice(c, notify.LevelError, "Access token is required")
		redirect(c, connectionsPath)
		return
	}
	if err := v.form.Begin(); err != nil {
		h.notice(c, notify.LevelInfo, "Already saving, please wait")
		redirect(c, connectionsPath)
		return
	}
	defer v.form.End()

	_, err := h.client(c).CreateTenant(c.Request.Context(), models.TenantInput{
		Alias:         strings.TrimSpace(form.Alias),
		WabaID:        strings.TrimSpace(form.WabaID),
		PhoneNumberID: strings.TrimSpace(form.PhoneNumberID),
		Token:         strings.TrimSpace(form.Token),
		WebhookURL:    strings.TrimSpace(form.WebhookURL),
	})
	if err != nil {
		v.form.Keep("", form)
		h.fail(c, "connections", "Failed to create connection", err)
		redirect(c, connectionsPath)
		return
	}

	v.form.Reset()
	h.notice(c, notify.LevelSuccess, "Connection created")
	refresh(h.Base, c, "connections", v.list, h.controller(c))
	redirect(c, connectionsPath)
}

func (h *ConnectionHandler) Update(c *gin.Context) {
	id := c.Param("id")
	v := h.view(c)
	var form tenantForm
	if err := c.ShouldBind(&form); err != nil {
		v.form.Keep(id, form)
		h.notice(c, notify.LevelError, bindMessage(err))
		redirect(c, connectionsPath)
		return
	}
	if err := v.form.Begin(); err != nil {
		h.notice(c, notify.LevelInfo, "Already saving, please wait")
		redirect(c, connectionsPath)
		return
	}
	defer v.form.End()

	update := models.TenantUpdate{
		Alias:         strings.TrimSpace(form.Alias),
		WabaID:        strings.TrimSpace(form.WabaID),
		PhoneNumberID: strings.TrimSpace(form.PhoneNumberID),
		WebhookURL:    strings.TrimSpace(form.WebhookURL),
		IsActive:      form.IsActive,
	}
	if token := strings.TrimSpace(form.Token); token != "" {
		update.Token = &token
	}

	if _, err := h.client(c).UpdateTenant(c.Request.Context(), id, update); err != nil {
		v.form.Keep(id, form)
		h.fail(c, "connections", "Failed to update connection", err)
		redirect(c, connectionsPath)
		return
	}

	v.form.Reset()
	h.notice(c, notify.LevelSuccess, "Connection updated")
	refresh(h.Base, c, "connections", v.list, h.controller(c))
	redirect(c, connectionsPath)
}

func (h *ConnectionHandler) ConfirmDelete(c *gin.Context) {
	id := c.Param("id")
	t, ok := h.view(c).list.Find(id)
	if !ok {
		h.notice(c, notify.LevelError, "That connection is no longer in the current page")
		redirect(c, connectionsPath)
		return
	}
	h.render(c, http.StatusOK, web.PageConfirm, "connections", "Delete connection", confirmView{
		Title:   "Delete connection",
		Message: "Delete connection " + t.DisplayName() + " (" + t.PhoneNumberID + ")? This cannot be undone.",
		Action:  connectionsPath + "/" + id + "/delete",
		Back:    connectionsPath,
	})
}

func (h *ConnectionHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if c.PostForm("confirm") != "yes" {
		h.notice(c, notify.LevelInfo, "Deletion cancelled")
		redirect(c, connectionsPath)
		return
	}

	v := h.view(c)
	if err := h.client(c).DeleteTenant(c.Request.Context(), id); err != nil {
		h.fail(c, "connections", "Failed to delete connection", err)
		redirect(c, connectionsPath)
		return
	}

	h.notice(c, notify.LevelSuccess, "Connection deleted")
	refresh(h.Base, c, "connections", v.list, h.controller(c))
	redirect(c, connectionsPath)
}

type confirmView struct {
	Title   string
	Message string
	Action  string
	Back    string
}
