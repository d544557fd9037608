package service

import (
	"context"
	"path"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/sangkips/pedidos-api/internal/infrastructure/storage"
	"github.com/sangkips/pedidos-api/pkg/apperror"
	"github.com/sangkips/pedidos-api/pkg/metrics"
	"github.com/sangkips/pedidos-api/pkg/orderview"
)

const (
	profitSheet = "Ganancias"
	xlsxMIME    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var profitHeaders = []interface{}{
	"Resumen", "Cliente", "Pedido", "Venta", "Costo compra", "Envío",
	"Impuestos asignados", "Costo total proveedor", "Ganancia", "Margen %",
}

// ExportService renders the profit table as a spreadsheet
type ExportService struct {
	summaries *SummaryService
	archive   storage.ArchiveStore
	metrics   *metrics.Metrics
	log       *zap.Logger
	now       func() time.Time
}

// NewExportService creates a new export service. archive may be nil.
func NewExportService(summaries *SummaryService, archive storage.ArchiveStore, m *metrics.Metrics, log *zap.Logger) *ExportService {
	return &ExportService{
		summaries: summaries,
		archive:   archive,
		metrics:   m,
		log:       log,
		now:       time.Now,
	}
}

// Export is a generated file
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
	Archived    *storage.Object
}

// ProfitWorkbook builds the profit spreadsheet and archives a copy. An archive
// failure is logged and the file is still returned.
func (s *ExportService) ProfitWorkbook(ctx context.Context) (*Export, error) {
	report, err := s.summaries.ProfitReport(ctx)
	if err != nil {
		return nil, err
	}

	data, err := profitWorkbook(report)
	if err != nil {
		return nil, apperror.NewInternalError("Failed to build spreadsheet", err)
	}

	key := storage.ExportKey("ganancias", s.now(), "xlsx")
	export := &Export{
		Filename:    path.Base(key),
		ContentType: xlsxMIME,
		Data:        data,
	}
	if s.archive != nil {
		obj, err := s.archive.Put(ctx, key, xlsxMIME, data)
		if err != nil {
			s.log.Warn("export archive failed", zap.String("key", key), zap.Error(err))
		} else {
			export.Archived = &obj
			s.log.Info("export archived", zap.String("key", obj.Key), zap.String("driver", obj.Driver))
		}
	}
	s.metrics.ExportGenerated()
	return export, nil
}

func profitWorkbook(report *orderview.ProfitReport) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", profitSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(profitSheet, "A1", &profitHeaders); err != nil {
		return nil, err
	}

	row := 2
	for _, r := range report.Rows {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, err
		}
		values := []interface{}{
			r.SummaryID, r.Customer, r.OrderLabel,
			cents(r.Sale), cents(r.PurchaseCost), cents(r.Shipping),
			cents(r.AllocatedTax), cents(r.SupplierCost), cents(r.Profit), cents(r.Margin),
		}
		if err := f.SetSheetRow(profitSheet, cell, &values); err != nil {
			return nil, err
		}
		row++
	}

	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return nil, err
	}
	t := report.Totals
	totals := []interface{}{
		"TOTAL", "", "",
		cents(t.Sales), cents(t.PurchaseCost), cents(t.Shipping),
		cents(t.AllocatedTaxes), cents(t.SupplierCost), cents(t.Profit), cents(t.Margin),
	}
	if err := f.SetSheetRow(profitSheet, cell, &totals); err != nil {
		return nil, err
	}
	if t.UnallocatedTaxes != 0 {
		extra, err := excelize.CoordinatesToCellName(1, row+1)
		if err != nil {
			return nil, err
		}
		unallocated := []interface{}{"Impuestos sin asignar", "", "", "", "", "", cents(t.UnallocatedTaxes)}
		if err := f.SetSheetRow(profitSheet, extra, &unallocated); err != nil {
			return nil, err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	last, err := excelize.CoordinatesToCellName(len(profitHeaders), row)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(profitSheet, "A1", "J1", bold); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(profitSheet, cell, last, bold); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// cents rounds v to two decimals for display
func cents(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
