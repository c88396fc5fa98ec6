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

const usersPath = "/dashboard/users"

type userView = tableView[models.User, struct{}, userForm]

// UserHandler manages dashboard operator accounts on the gateway.
type UserHandler struct {
	*Base
}

func NewUserHandler(base *Base) *UserHandler {
	return &UserHandler{Base: base}
}

func (h *UserHandler) view(c *gin.Context) *userView {
	sess := session.FromContext(c)
	return listview.Lookup(h.Views, sess.ID, "users", "users", func() *userView {
		return newTableView[models.User, struct{}, userForm](h.PageSize, func(u models.User) string { return u.ID }, struct{}{})
	})
}

func (h *UserHandler) controller(c *gin.Context) listview.Controller[models.User, struct{}] {
	client := h.client(c)
	return listview.NewController(func(ctx context.Context, _ struct{}, limit, offset int) ([]models.User, error) {
		return client.ListUsers(ctx, gateway.UserQuery{Limit: limit, Offset: offset})
	})
}

func (h *UserHandler) List(c *gin.Context) {
	v := h.view(c)
	drive(h.Base, c, "users", v.list, h.controller(c), func() struct{} { return struct{}{} })

	switch {
	case c.Query("new") != "":
		v.form.Open("", userForm{Role: "user", IsActive: true})
	case c.Query("edit") != "":
		id := c.Query("edit")
		u, ok := v.list.Find(id)
		if !ok {
			h.notice(c, notify.LevelError, "That user is no longer in the current page")
			break
		}
		v.form.Open(id, userForm{Email: u.Email, Name: u.Name, Role: u.Role, IsActive: u.IsActive})
	case c.Query("cancel") != "":
		v.form.Dismiss()
	}

	h.render(c, http.StatusOK, web.PageUsers, "users", "Users", newTableModel(usersPath, "", v))
}

func (h *UserHandler) Create(c *gin.Context) {
	v := h.view(c)
	var form userForm
	if err := c.ShouldBind(&form); err != nil {
		v.form.Keep("", form)
		h.notice(c, notify.LevelError, bindMessage(err))
		redirect(c, usersPath)
		return
	}
	switch {
	case strings.TrimSpace(form.Email) == "":
		v.form.Keep("", form)
		h.notice(c, notify.LevelError, "Email is required")
		redirect(c, usersPath)
		return
	case form.Password == "":
		v.form.Keep("", form)
		h.notice(c, notify.LevelError, "Password is required")
		redirect(c, usersPath)
		return
	}
	if err := v.form.Begin(); err != nil {
		h.notice(c, notify.LevelInfo, "Already saving, please wait")
		redirect(c, usersPath)
		return
	}
	defer v.form.End()

	_, err := h.client(c).CreateUser(c.Request.Context(), models.UserInput{
		Email:    strings.TrimSpace(form.Email),
		Password: form.Password,
		Name:     strings.TrimSpace(form.Name),
		Role:     form.Role,
	})
	if err != nil {
		v.form.Keep("", form)
		h.fail(c, "users", "Failed to create user", err)
		redirect(c, usersPath)
		return
	}

	v.form.Reset()
	h.notice(c, notify.LevelSuccess, "User created")
	refresh(h.Base, c, "users", v.list, h.controller(c))
	redirect(c, usersPath)
}

func (h *UserHandler) Update(c *gin.Context) {
	id := c.Param("id")
	v := h.view(c)
	var form userForm
	if err := c.ShouldBind(&form); err != nil {
		v.form.Keep(id, form)
		h.notice(c, notify.LevelError, bindMessage(err))
		redirect(c, usersPath)
		return
	}
	if err := v.form.Begin(); err != nil {
		h.notice(c, notify.LevelInfo, "Already saving, please wait")
		redirect(c, usersPath)
		return
	}
	defer v.form.End()

	update := models.UserUpdate{
		Name:     strings.TrimSpace(form.Name),
		Role:     form.Role,
		IsActive: form.IsActive,
	}
	if form.Password != "" {
		pw := form.Password
		update.Password = &pw
	}

	if _, err := h.client(c).UpdateUser(c.Request.Context(), id, update); err != nil {
		v.form.Keep(id, form)
		h.fail(c, "users", "Failed to update user", err)
		redirect(c, usersPath)
		return
	}

	v.form.Reset()
	h.notice(c, notify.LevelSuccess, "User updated")
	refresh(h.Base, c, "users", v.list, h.controller(c))
	redirect(c, usersPath)
}

func (h *UserHandler) ConfirmDelete(c *gin.Context) {
	id := c.Param("id")
	u, ok := h.view(c).list.Find(id)
	if !ok {
		h.notice(c, notify.LevelError, "That user is no longer in the current page")
		redirect(c, usersPath)
		return
	}
	h.render(c, http.StatusOK, web.PageConfirm, "users", "Delete user", confirmView{
		Title:   "Delete user",
		Message: "Delete user " + u.Email + "? This cannot be undone.",
		Action:  usersPath + "/" + id + "/delete",
		Back:    usersPath,
	})
}

func (h *UserHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if c.PostForm("confirm") != "yes" {
		h.notice(c, notify.LevelInfo, "Deletion cancelled")
		redirect(c, usersPath)
		return
	}

	v := h.view(c)
	if err := h.client(c).DeleteUser(c.Request.Context(), id); err != nil {
		h.fail(c, "users", "Failed to delete user", err)
		redirect(c, usersPath)
		return
	}

	h.notice(c, notify.LevelSuccess, "User deleted")
	refresh(h.Base, c, "users", v.list, h.controller(c))
	redirect(c, usersPath)
}
