// Package products holds product operations that are not plain form
// submissions.
package products

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"mondedesparfum.com/admin/internal/apiclient"
)

const (
	Resource      = "/commerce/products"
	ImageResource = "/commerce/product-images"
)

var ErrNoImage = errors.New("products: image id required")

// DeleteImage removes one uploaded image from a product.
func DeleteImage(ctx context.Context, api apiclient.Doer, imageID string) error {
	imageID = strings.TrimSpace(imageID)
	if imageID == "" {
		return ErrNoImage
	}
	_, err := api.Do(ctx, apiclient.Request{URL: ImageResource + "/" + imageID, Method: http.MethodDelete})
	return err
}
