package api

import (
	"strings"

	"wpconn-dashboard/internal/notify"
	"wpconn-dashboard/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetScope changes the tenant the session's log queries are scoped to.
// Cached views are discarded so nothing keeps showing the old scope.
func (h *DashboardHandler) SetScope(c *gin.Context) {
	var form scopeForm
	bindErr := c.ShouldBind(&form)

	next := "/dashboard"
	if strings.HasPrefix(form.Next, "/dashboard") && !strings.HasPrefix(form.Next, "//") {
		next = form.Next
	}
	if bindErr != nil {
		h.notice(c, notify.LevelError, bindMessage(bindErr))
		redirect(c, next)
		return
	}

	sess := session.FromContext(c)
	sess.TenantScope = strings.TrimSpace(form.TenantID)
	if err := h.Sessions.Update(c.Request.Context(), sess); err != nil {
		h.Logger.Error("failed saving scope", zap.String("component", "scope"), zap.Error(err))
		h.notice(c, notify.LevelError, "Could not change the tenant scope")
		redirect(c, next)
		return
	}

	h.Views.Enter(sess.ID, "scope")
	if sess.TenantScope == "" {
		h.notice(c, notify.LevelInfo, "Showing all tenants")
	} else {
		h.notice(c, notify.LevelInfo, "Scoped to tenant "+sess.TenantScope)
	}
	redirect(c, next)
}
