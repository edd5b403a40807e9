package testutil

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

// NewRequestWithURLParams creates an HTTP request with chi URL parameters.
// This helper simplifies testing chi handlers that use chi.URLParam() to extract path parameters.
//
// Example:
//
//	req := testutil.NewRequestWithURLParams(
//	    http.MethodGet,
//	    "/api/account/123-456",
//	    map[string]string{"uuid": "123-456"},
//	)
func NewRequestWithURLParams(method, path string, params map[string]string) *http.Request {
	return withURLParams(httptest.NewRequest(method, path, nil), params)
}

// NewRequestWithQueryParams creates an HTTP request with query parameters.
// This helper simplifies testing handlers that use r.URL.Query() to extract query string parameters.
//
// Example:
//
//	req := testutil.NewRequestWithQueryParams(
//	    http.MethodGet,
//	    "/api/account/123-456/activity",
//	    map[string]string{
//	        "page": "0",
//	        "perPage": "25",
//	    },
//	)
func NewRequestWithQueryParams(method, path string, queryParams map[string]string) *http.Request {
	req := httptest.NewRequest(method, path, nil)

	if len(queryParams) > 0 {
		q := req.URL.Query()
		for key, value := range queryParams {
			q.Add(key, value)
		}
		req.URL.RawQuery = q.Encode()
	}

	return req
}

// NewJSONRequest creates an HTTP request with a JSON body and chi URL parameters.
//
// Example:
//
//	req := testutil.NewJSONRequest(http.MethodPut, "/api/config",
//	    `{"kuveraFunds":[]}`, nil)
func NewJSONRequest(method, path, body string, params map[string]string) *http.Request {
	req := withURLParams(httptest.NewRequest(method, path, bytes.NewBufferString(body)), params)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// NewUploadRequest creates a multipart/form-data request carrying data as the
// form file "file" named fileName.
//
// Example:
//
//	file := testutil.NewCSVFile("kuvera.csv", header, row)
//	req := testutil.NewUploadRequest(t, "/api/import/account/"+id, file.Name, file.Data,
//	    map[string]string{"uuid": id})
func NewUploadRequest(t *testing.T, path, fileName string, data []byte, params map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	if _, err := io.Copy(part, bytes.NewReader(data)); err != nil {
		t.Fatalf("Failed to write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("Failed to close multipart writer: %v", err)
	}

	req := withURLParams(httptest.NewRequest(http.MethodPost, path, &body), params)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func withURLParams(req *http.Request, params map[string]string) *http.Request {
	if len(params) == 0 {
		return req
	}
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}
