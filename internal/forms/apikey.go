package forms

import (
	"mondedesparfum.com/admin/internal/datatable"
	"mondedesparfum.com/admin/internal/http/validation"
)

type APIKeyInput struct {
	Name   string `form:"name" json:"name" validate:"required"`
	Domain string `form:"domain" json:"domain" validate:"required"`
}

var APIKeyForm = &Definition[APIKeyInput]{
	Title:    "API Key",
	Resource: "/users/auth/create-api-key",
	Messages: validation.Messages{
		"name":   "API Key name is required",
		"domain": "Domain name is required",
	},
	Defaults:   func() APIKeyInput { return APIKeyInput{} },
	Encode:     func(in APIKeyInput) Payload { return Payload{JSON: in} },
	CreatedMsg: "API Key created successfully",
	UpdatedMsg: "API Key updated successfully",
}

func APIKeyFromRecord(r datatable.Record) APIKeyInput {
	return APIKeyInput{Name: r.String("name"), Domain: r.String("domain")}
}
