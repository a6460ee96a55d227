package forms

import (
	"net/url"

	"mondedesparfum.com/admin/internal/apiclient"
	"mondedesparfum.com/admin/internal/datatable"
	"mondedesparfum.com/admin/internal/http/validation"
)

type CategoryInput struct {
	Name        string  `form:"name" validate:"required"`
	Description string  `form:"description"`
	Parent      string  `form:"parent"`
	ParentName  string  `form:"-"`
	Image       *Upload `form:"-"`
	// ImageURL is the current image when editing.
	ImageURL string `form:"-"`
}

var CategoryForm = &Definition[CategoryInput]{
	Title:    "Category",
	Resource: "/commerce/categories",
	Messages: validation.Messages{
		"name": "Name is required",
	},
	Defaults:   func() CategoryInput { return CategoryInput{} },
	Encode:     encodeCategory,
	CreatedMsg: "Category created successfully",
	UpdatedMsg: "Category updated successfully",
}

// Categories go as JSON unless a new image file is attached.
func encodeCategory(c CategoryInput) Payload {
	if c.Image != nil {
		fields := url.Values{}
		fields.Set("name", c.Name)
		fields.Set("description", c.Description)
		if c.Parent != "" {
			fields.Set("parent", c.Parent)
		}
		return Payload{Multipart: &apiclient.Multipart{
			Fields: fields,
			Files: []apiclient.File{{
				Field:       "image",
				Name:        c.Image.Name,
				ContentType: c.Image.ContentType,
				Content:     c.Image.Content,
			}},
		}}
	}

	body := map[string]any{
		"name":        c.Name,
		"description": c.Description,
		"parent":      nil,
	}
	if c.Parent != "" {
		body["parent"] = c.Parent
	}
	return Payload{JSON: body}
}

func CategoryFromRecord(r datatable.Record) CategoryInput {
	parent := r.String("parent.id")
	if parent == "" {
		parent = r.String("parent")
	}
	return CategoryInput{
		Name:        r.String("name"),
		Description: r.String("description"),
		Parent:      parent,
		ParentName:  r.String("parent.name"),
		ImageURL:    categoryImage(r),
	}
}

func categoryImage(r datatable.Record) string {
	if u := r.String("cloudinary_url"); u != "" {
		return u
	}
	return r.String("image")
}
