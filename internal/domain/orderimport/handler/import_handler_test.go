package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wasely/courier-admin/internal/domain/orderimport/gazetteer"
	"github.com/wasely/courier-admin/internal/domain/orderimport/order"
	"github.com/wasely/courier-admin/internal/domain/orderimport/parser"
	"github.com/wasely/courier-admin/internal/domain/orderimport/service"
	"github.com/wasely/courier-admin/internal/domain/orderimport/sniffer"
)

type stubRefs struct{}

func (stubRefs) FetchResolver(context.Context) (*gazetteer.Resolver, error) {
	return gazetteer.NewResolver(
		[]gazetteer.Governorate{{ID: 1, NameEn: "Cairo", NameAr: "القاهرة"}},
		[]gazetteer.City{{ID: 10, GovernorateID: 1, NameEn: "Nasr City", NameAr: "مدينة نصر"}},
	), nil
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewImportService(stubRefs{}, logger)
	h := NewImportHandler(svc, logger)

	r := gin.New()
	h.Register(r.Group("/v1"))
	return r
}

func uploadRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/imports/preview", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestPreviewEndpoint(t *testing.T) {
	r := newRouter(t)

	t.Run("returns rows and summary", func(t *testing.T) {
		csv := strings.Join([]string{
			"Customer Name,Mobile,Address,Governorate,City,Product Name",
			"Ahmed Hassan,01012345678,12 El Nasr St,Cairo,Nasr City,Wallet",
		}, "\n")

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, uploadRequest(t, "orders.csv", csv))

		require.Equal(t, http.StatusOK, rec.Code)

		var preview service.Preview
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &preview))
		require.Len(t, preview.Rows, 1)
		assert.Equal(t, "Ahmed Hassan", preview.Rows[0].CustomerName)
		assert.Equal(t, 1, preview.Summary.OrderCount)
		assert.Zero(t, preview.Summary.InvalidRows)
	})

	t.Run("missing file part", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/imports/preview", nil)
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "missing file upload")
	})

	t.Run("oversized upload is rejected whole, not truncated", func(t *testing.T) {
		var csv bytes.Buffer
		csv.WriteString("Customer Name,Mobile\n")
		row := []byte("Ahmed Hassan,01012345678\n")
		for csv.Len() <= maxUploadBytes {
			csv.Write(row)
		}

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, uploadRequest(t, "orders.csv", csv.String()))

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assert.NotContains(t, rec.Body.String(), `"rows"`)
	})

	t.Run("unsupported extension is a single fatal error", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, uploadRequest(t, "orders.pdf", "not a spreadsheet"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp["error"])
		assert.NotContains(t, resp, "rows")
	})
}

func TestValidateEndpoint(t *testing.T) {
	r := newRouter(t)

	t.Run("revalidates edited rows", func(t *testing.T) {
		row := order.NewRow()
		row.CustomerName = "Mona Ali"
		row.Mobile = "0123"
		row.Address = "5 Tahrir Sq"
		row.ProductName = "Scarf"

		body, err := json.Marshal(gin.H{"rows": []*order.Row{row}})
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/imports/validate", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Rows        []*order.Row `json:"rows"`
			InvalidRows int          `json:"invalid_rows"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.InvalidRows)
		require.Len(t, resp.Rows, 1)
		assert.Equal(t, order.CodeMobileInvalid, resp.Rows[0].Errors["mobile"])
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/imports/validate", strings.NewReader("{"))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTemplateEndpoint(t *testing.T) {
	r := newRouter(t)

	t.Run("csv by default", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/imports/template", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "orders-template.csv")
		assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), sniffer.BOM))
	})

	t.Run("xlsx on request", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/imports/template?format=xlsx", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "orders-template.xlsx")
		assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			rec.Header().Get("Content-Type"))

		table, err := parser.ParseWorkbook(rec.Body.Bytes())
		require.NoError(t, err)
		assert.Equal(t, parser.TemplateHeaders(), table.Headers)
	})

	t.Run("unknown format", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/imports/template?format=ods", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
