// Package service orchestrates the bulk order import pipeline: parse, map,
// normalize, materialize, resolve, validate.
package service

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/wasely/courier-admin/internal/domain/orderimport/gazetteer"
	"github.com/wasely/courier-admin/internal/domain/orderimport/mapper"
	"github.com/wasely/courier-admin/internal/domain/orderimport/order"
	"github.com/wasely/courier-admin/internal/domain/orderimport/parser"
	"github.com/wasely/courier-admin/internal/domain/orderimport/shopify"
)

var (
	importFiles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_import_files_total",
		Help: "Uploaded import files by outcome.",
	}, []string{"status"})
	importRows = promauto.NewCounter(prometheus.CounterOpts{
		Name: "order_import_rows_total",
		Help: "Order rows produced by import previews.",
	})
	importInvalidRows = promauto.NewCounter(prometheus.CounterOpts{
		Name: "order_import_invalid_rows_total",
		Help: "Order rows that failed validation in import previews.",
	})
)

// ReferenceSource supplies the place-name resolver for an import session.
type ReferenceSource interface {
	FetchResolver(ctx context.Context) (*gazetteer.Resolver, error)
}

// Summary is the batch-level readout shown above the preview grid.
type Summary struct {
	RowCount            int      `json:"row_count"`
	OrderCount          int      `json:"order_count"`
	InvalidRows         int      `json:"invalid_rows"`
	UnresolvedLocations int      `json:"unresolved_locations"`
	UnmappedHeaders     []string `json:"unmapped_headers,omitempty"`
	ShopifyExport       bool     `json:"shopify_export"`
}

// Preview is everything the dashboard needs to render and edit the batch.
type Preview struct {
	Rows    []*order.Row    `json:"rows"`
	Columns []mapper.Column `json:"columns"`
	Summary Summary         `json:"summary"`
}

// ImportService runs the pipeline over one in-memory file at a time. It holds
// no per-import state, so concurrent sessions cannot interfere.
type ImportService struct {
	refs   ReferenceSource
	logger *slog.Logger
}

// NewImportService creates an import service.
func NewImportService(refs ReferenceSource, logger *slog.Logger) *ImportService {
	return &ImportService{refs: refs, logger: logger}
}

// Preview parses an uploaded file into validated order rows. Parse failures
// are fatal for the whole import; validation and resolution failures are
// per-row data for the preview grid.
func (s *ImportService) Preview(ctx context.Context, filename string, data []byte) (*Preview, error) {
	table, err := parser.ParseFile(filename, data)
	if err != nil {
		importFiles.WithLabelValues("failed").Inc()
		return nil, err
	}

	m := mapper.MapColumns(table.Headers)

	isShopify := shopify.IsExport(table.Headers)
	orderRefColumn := ""
	if isShopify {
		shopify.Normalize(table)
		orderRefColumn = shopify.OrderRefColumn
	}

	rows := order.Materialize(table, m, orderRefColumn)

	resolver, err := s.refs.FetchResolver(ctx)
	if err != nil {
		// Rows are still previewable; locations just stay unresolved for
		// manual correction.
		s.logger.Warn("reference data unavailable, skipping location resolution", "error", err)
	} else {
		resolver.ResolveRows(rows)
	}

	invalid := order.ValidateAll(rows)

	summary := Summary{
		RowCount:            len(rows),
		OrderCount:          countOrders(rows, isShopify),
		InvalidRows:         invalid,
		UnresolvedLocations: countUnresolved(rows),
		UnmappedHeaders:     m.Unmapped(),
		ShopifyExport:       isShopify,
	}

	importFiles.WithLabelValues("succeeded").Inc()
	importRows.Add(float64(len(rows)))
	importInvalidRows.Add(float64(invalid))

	s.logger.Info("import previewed",
		"file", filename,
		"rows", summary.RowCount,
		"orders", summary.OrderCount,
		"invalid", summary.InvalidRows,
		"shopify", isShopify)

	return &Preview{Rows: rows, Columns: m.Columns(), Summary: summary}, nil
}

// Revalidate re-runs validation over edited rows and returns the fresh
// invalid-row count. Each pass replaces every row's error map wholesale.
func (s *ImportService) Revalidate(rows []*order.Row) int {
	return order.ValidateAll(rows)
}

// countOrders reports how many logical orders the batch holds: distinct
// order references for grouped sources, one order per row otherwise. Rows
// without a reference in a grouped file count individually.
func countOrders(rows []*order.Row, grouped bool) int {
	if !grouped {
		return len(rows)
	}
	refs := make(map[string]bool, len(rows))
	count := 0
	for _, r := range rows {
		if r.OrderRef == "" {
			count++
			continue
		}
		if !refs[r.OrderRef] {
			refs[r.OrderRef] = true
			count++
		}
	}
	return count
}

func countUnresolved(rows []*order.Row) int {
	n := 0
	for _, r := range rows {
		if r.GovernorateID == nil {
			n++
		}
	}
	return n
}
