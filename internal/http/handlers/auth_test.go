package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeReturnTo(t *testing.T) {
	cases := map[string]string{
		"":                               "",
		"/admin/ecommerce/orders?page=2": "/admin/ecommerce/orders?page=2",
		"admin":                          "",
		"//evil.com":                     "",
		"/\\evil.com":                    "",
		"https://evil.com/admin":         "",
		"/redirect?to=http://evil.com":   "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeReturnTo(in), in)
	}
}
