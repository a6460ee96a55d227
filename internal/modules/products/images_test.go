package products

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mondedesparfum.com/admin/internal/apiclient"
)

func TestDeleteImage(t *testing.T) {
	var calls []apiclient.Request
	api := apiclient.DoerFunc(func(_ context.Context, req apiclient.Request) (*apiclient.Response, error) {
		calls = append(calls, req)
		return &apiclient.Response{Status: http.StatusNoContent}, nil
	})

	require.NoError(t, DeleteImage(context.Background(), api, "31"))
	assert.ErrorIs(t, DeleteImage(context.Background(), api, " "), ErrNoImage)

	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodDelete, calls[0].Method)
	assert.Equal(t, "/commerce/product-images/31", calls[0].URL)
}
