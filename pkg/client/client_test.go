package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientValidatesBaseURL(t *testing.T) {
	_, err := NewClient("")
	assert.Error(t, err)

	_, err = NewClient("ftp://example.com")
	assert.Error(t, err)

	c, err := NewClient("http://localhost:8080/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", c.baseURL)
}

func TestClientGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/chains/generate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req GenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 5, req.Units)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(GenerateResult{XYZ: "5\n...\n", AtomCount: 5, BondCount: 4})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	res, err := c.Generate(context.Background(), GenerateRequest{Units: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, res.AtomCount)
	assert.Equal(t, 4, res.BondCount)
}

func TestClientRepeatSendsMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/chains/repeat", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		file, _, err := r.FormFile("monomer")
		require.NoError(t, err)
		defer file.Close()

		assert.Equal(t, "3", r.FormValue("units"))
		assert.Equal(t, "true", r.FormValue("strict"))
		assert.Equal(t, "1.5", r.FormValue("offset_x"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(RepeatResult{AtomCount: 9, MonomerAtoms: 3})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	res, err := c.Repeat(context.Background(), []byte("3\nm\nO 0 0 0\nH 0 0 0\nH 0 0 0\n"), RepeatRequest{
		Units:  3,
		Strict: true,
		Offset: &Vec3{X: 1.5},
	})
	require.NoError(t, err)
	assert.Equal(t, 9, res.AtomCount)
}

func TestClientInspectStrictQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/xyz/inspect", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("strict"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(InspectReport{AtomCount: 3, Comment: "water"})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	report, err := c.Inspect(context.Background(), []byte("3\nwater\n"), true)
	require.NoError(t, err)
	assert.Equal(t, "water", report.Comment)
}

func TestClientDecodesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"code":    "CHAIN_001",
			"message": "units must be >= 1",
		})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), GenerateRequest{Units: 0})
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, "CHAIN_001", apiErr.Code)
	assert.True(t, apiErr.IsInvalidParam())
	assert.Contains(t, apiErr.Error(), "units must be >= 1")
}

func TestClientToleratesNonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway timeout", http.StatusGatewayTimeout)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = c.ListDocuments(context.Background())
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.True(t, apiErr.IsServerError())
	assert.Contains(t, apiErr.Message, "gateway timeout")
}

func TestClientDocumentOperations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/documents/":
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(listResponse{
				Documents: []DocumentInfo{{Name: "poly.xyz", Size: 42, Modified: time.Now()}},
				Count:     1,
			})
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/documents/poly.xyz":
			w.Header().Set("Content-Type", "text/plain")
			_, _ = w.Write([]byte("3\npoly\n"))
		case r.Method == http.MethodDelete && r.URL.Path == "/api/v1/documents/poly.xyz":
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)
	ctx := context.Background()

	docs, err := c.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "poly.xyz", docs[0].Name)

	data, err := c.GetDocument(ctx, "poly.xyz")
	require.NoError(t, err)
	assert.Equal(t, "3\npoly\n", string(data))

	require.NoError(t, c.DeleteDocument(ctx, "poly.xyz"))
}
