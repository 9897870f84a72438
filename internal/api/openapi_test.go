// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadOpenAPIDoc(t *testing.T) *openapi3.T {
	t.Helper()
	doc, err := openapi3.NewLoader().LoadFromData(OpenAPISpec())
	require.NoError(t, err, "openapi load")
	require.NoError(t, doc.Validate(context.Background()), "openapi validate")
	return doc
}

// exampleRequest builds a request that the handler accepts for method and path.
func exampleRequest(method, path string) *http.Request {
	switch {
	case path == PathHello:
		return httptest.NewRequest(method, path+"?name=Bob", nil)
	case method == http.MethodPut:
		req := httptest.NewRequest(method, path, strings.NewReader(`{"prefix":"Hola"}`))
		req.Header.Set("Content-Type", "application/json")
		return req
	default:
		return httptest.NewRequest(method, path, nil)
	}
}

func TestOpenAPI_RoutesMounted(t *testing.T) {
	doc := loadOpenAPIDoc(t)
	env := newTestEnv(t, "hello: Hola\n", false)

	var ops int
	for path, item := range doc.Paths.Map() {
		for method := range item.Operations() {
			ops++
			rec := httptest.NewRecorder()
			env.server.Handler().ServeHTTP(rec, exampleRequest(method, path))
			assert.NotContains(t, []int{http.StatusNotFound, http.StatusMethodNotAllowed}, rec.Code,
				"route not mounted: %s %s", method, path)
		}
	}
	assert.Equal(t, 5, ops)
}

func TestOpenAPI_ResponsesMatchContract(t *testing.T) {
	doc := loadOpenAPIDoc(t)
	router, err := legacy.NewRouter(doc)
	require.NoError(t, err)
	env := newTestEnv(t, "hello: Hola\n", false)

	cases := []struct {
		method, target, body string
		status               int
	}{
		{http.MethodGet, PathHello + "?name=Bob", "", http.StatusOK},
		{http.MethodGet, PathHello + "?name=", "", http.StatusBadRequest},
		{http.MethodGet, PathConfig, "", http.StatusOK},
		{http.MethodPut, PathConfig, `{"prefix":"Salut"}`, http.StatusOK},
		{http.MethodPut, PathConfig, `{"prefix":""}`, http.StatusBadRequest},
		{http.MethodDelete, PathConfig, "", http.StatusOK},
		{http.MethodPost, PathReload, "", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.target, func(t *testing.T) {
			rec := env.do(t, tc.method, tc.target, tc.body)
			require.Equal(t, tc.status, rec.Code, rec.Body.String())

			req := httptest.NewRequest(tc.method, tc.target, nil)
			route, params, err := router.FindRoute(req)
			require.NoError(t, err, "openapi route lookup")

			input := &openapi3filter.ResponseValidationInput{
				RequestValidationInput: &openapi3filter.RequestValidationInput{
					Request:    req,
					PathParams: params,
					Route:      route,
				},
				Status: rec.Code,
				Header: rec.Header(),
			}
			input.SetBodyBytes(rec.Body.Bytes())
			assert.NoError(t, openapi3filter.ValidateResponse(context.Background(), input))
		})
	}
}

func TestOpenAPI_Served(t *testing.T) {
	env := newTestEnv(t, "", false)

	rec := env.do(t, http.MethodGet, PathSpec, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	assert.Equal(t, OpenAPISpec(), rec.Body.Bytes())
}
