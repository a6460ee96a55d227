package forms

import (
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"mondedesparfum.com/admin/internal/apiclient"
	"mondedesparfum.com/admin/internal/datatable"
	"mondedesparfum.com/admin/internal/http/validation"
)

// ProductImage is an image already stored on the backend.
type ProductImage struct {
	ID        string
	URL       string
	AltText   string
	IsPrimary bool
}

type ProductInput struct {
	Name        string `form:"name" validate:"required"`
	Slug        string `form:"slug"` // server-derived, never sent
	Description string `form:"description"`
	TopNotes    string `form:"top_notes" validate:"required"`
	MiddleNotes string `form:"middle_notes" validate:"required"`
	BaseNotes   string `form:"base_notes" validate:"required"`
	Price       string `form:"price" validate:"required,decimal,dgt=0"`
	SalePrice   string `form:"sale_price" validate:"omitempty,decimal,dltefield=Price"`
	CategoryID  string `form:"category_id" validate:"required"`
	// CategoryName labels CategoryID in the picker.
	CategoryName string `form:"-"`
	Stock        int    `form:"stock" validate:"gt=0"`
	IsActive     bool   `form:"is_active"`

	Images         []Upload       `form:"-"`
	ExistingImages []ProductImage `form:"-"`
}

var ProductForm = &Definition[ProductInput]{
	Title:    "Product",
	Resource: "/commerce/products",
	Messages: validation.Messages{
		"name":                 "Name is required",
		"price.required":       "Price must be greater than 0",
		"price.dgt":            "Price must be greater than 0",
		"price.decimal":        "Price must be a number",
		"sale_price.decimal":   "Sale price must be a number",
		"sale_price.dltefield": "Sale price cannot be greater than price",
		"category_id":          "Category is required",
		"stock":                "Stock cannot be less than or equal to 0",
		"top_notes":            "Top notes is required",
		"middle_notes":         "Middle notes is required",
		"base_notes":           "Base notes is required",
	},
	Defaults: func() ProductInput {
		return ProductInput{Price: "0", SalePrice: "0", IsActive: true}
	},
	Encode:     encodeProduct,
	CreatedMsg: "Product created successfully",
	UpdatedMsg: "Product updated successfully",
}

// Products are always sent as multipart so new images can ride along.
func encodeProduct(p ProductInput) Payload {
	fields := url.Values{}
	fields.Set("name", p.Name)
	fields.Set("description", p.Description)
	fields.Set("top_notes", p.TopNotes)
	fields.Set("middle_notes", p.MiddleNotes)
	fields.Set("base_notes", p.BaseNotes)
	fields.Set("price", normalizeDecimal(p.Price))
	if p.SalePrice != "" {
		fields.Set("sale_price", normalizeDecimal(p.SalePrice))
	}
	fields.Set("category_id", p.CategoryID)
	fields.Set("stock", strconv.Itoa(p.Stock))
	fields.Set("is_active", strconv.FormatBool(p.IsActive))

	mp := &apiclient.Multipart{Fields: fields}
	for _, img := range p.Images {
		mp.Files = append(mp.Files, apiclient.File{
			Field:       "_images",
			Name:        img.Name,
			ContentType: img.ContentType,
			Content:     img.Content,
		})
	}
	return Payload{Multipart: mp}
}

// ProductFromRecord pre-fills the edit form from a backend product.
func ProductFromRecord(r datatable.Record) ProductInput {
	categoryID := r.String("category.id")
	if categoryID == "" {
		categoryID = r.String("category")
	}
	stock, _ := strconv.Atoi(r.String("stock"))

	in := ProductInput{
		Name:         r.String("name"),
		Slug:         r.String("slug"),
		Description:  r.String("description"),
		TopNotes:     r.String("top_notes"),
		MiddleNotes:  r.String("middle_notes"),
		BaseNotes:    r.String("base_notes"),
		Price:        r.String("price"),
		SalePrice:    r.String("sale_price"),
		CategoryID:   categoryID,
		CategoryName: r.String("category.name"),
		Stock:        stock,
		IsActive:     r.String("is_active") == "true",
	}
	if imgs, ok := r.Lookup("images"); ok {
		if list, ok := imgs.([]any); ok {
			for _, x := range list {
				m, ok := x.(map[string]any)
				if !ok {
					continue
				}
				img := datatable.Record(m)
				u := img.String("cloudinary_url")
				if u == "" {
					u = img.String("image")
				}
				in.ExistingImages = append(in.ExistingImages, ProductImage{
					ID:        img.ID(),
					URL:       u,
					AltText:   img.String("alt_text"),
					IsPrimary: img.String("is_primary") == "true",
				})
			}
		}
	}
	return in
}

func normalizeDecimal(s string) string {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return s
	}
	return d.String()
}
