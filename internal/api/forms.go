package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

type loginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type tenantForm struct {
	Alias         string `form:"alias" binding:"required"`
	WabaID        string `form:"waba_id" binding:"required"`
	PhoneNumberID string `form:"phone_number_id" binding:"required"`
	Token         string `form:"token"`
	WebhookURL    string `form:"webhook_url" binding:"omitempty,url"`
	IsActive      bool   `form:"is_active"`
}

type userForm struct {
	Email    string `form:"email" binding:"omitempty,email"`
	Name     string `form:"name" binding:"required"`
	Role     string `form:"role" binding:"omitempty,oneof=admin user"`
	Password string `form:"password"`
	IsActive bool   `form:"is_active"`
}

type scopeForm struct {
	TenantID string `form:"tenant_id" binding:"omitempty,max=128"`
	Next     string `form:"next"`
}

var fieldLabels = map[string]string{
	"Username":      "Username",
	"Password":      "Password",
	"Alias":         "Alias",
	"WabaID":        "WABA ID",
	"PhoneNumberID": "Phone number ID",
	"WebhookURL":    "Webhook URL",
	"Email":         "Email",
	"Name":          "Name",
	"Role":          "Role",
	"TenantID":      "Tenant ID",
}

// bindMessage turns a binding error into one operator-facing sentence.
func bindMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid form submission"
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		label, ok := fieldLabels[fe.Field()]
		if !ok {
			label = fe.Field()
		}
		switch fe.Tag() {
		case "required":
			parts = append(parts, label+" is required")
		case "email":
			parts = append(parts, label+" must be a valid email address")
		case "url":
			parts = append(parts, label+" must be a valid URL")
		case "max":
			parts = append(parts, label+" is too long")
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(fe.Param(), " ", ", ")))
		default:
			parts = append(parts, label+" is invalid")
		}
	}
	return strings.Join(parts, "; ")
}
