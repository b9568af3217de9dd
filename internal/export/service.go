// Package export writes stored entities of one type to a spreadsheet, one
// row per entity, columns following the declared property order.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/rpattn/fedentity/internal/domain"
	"github.com/rpattn/fedentity/internal/repository"
	"github.com/rpattn/fedentity/internal/schema"
)

type Service struct {
	registry *schema.Registry
	entities repository.EntityRepository

	exportDir string
	pageSize  int
	now       func() time.Time
}

type Option func(*Service)

func WithExportDirectory(dir string) Option {
	return func(s *Service) {
		if strings.TrimSpace(dir) != "" {
			s.exportDir = filepath.Clean(dir)
		}
	}
}

func WithPageSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.pageSize = size
		}
	}
}

func NewService(registry *schema.Registry, entities repository.EntityRepository, opts ...Option) *Service {
	service := &Service{
		registry:  registry,
		entities:  entities,
		exportDir: filepath.Join(os.TempDir(), "fedentity-exports"),
		pageSize:  1000,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	if service.pageSize <= 0 {
		service.pageSize = 1000
	}
	if strings.TrimSpace(service.exportDir) == "" {
		service.exportDir = filepath.Join(os.TempDir(), "fedentity-exports")
	}
	if service.now == nil {
		service.now = time.Now
	}
	return service
}

// ExportEntityType writes every stored entity of the given type to a new
// workbook in the export directory and returns its path and row count.
func (s *Service) ExportEntityType(ctx context.Context, typeName string) (string, int, error) {
	workbook, rows, err := s.buildWorkbook(ctx, typeName)
	if err != nil {
		return "", 0, err
	}
	defer func() { _ = workbook.Close() }()

	if err := os.MkdirAll(s.exportDir, 0o755); err != nil {
		return "", 0, fmt.Errorf("create export directory: %w", err)
	}
	fileName := fmt.Sprintf("%s-%s.xlsx", typeName, s.now().UTC().Format("20060102-150405"))
	path := filepath.Join(s.exportDir, fileName)
	if err := workbook.SaveAs(path); err != nil {
		return "", 0, fmt.Errorf("save workbook: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"entity_type": typeName,
		"rows":        rows,
		"file":        path,
	}).Info("exported entities")
	return path, rows, nil
}

// buildWorkbook pages through the repository and renders the sheet.
func (s *Service) buildWorkbook(ctx context.Context, typeName string) (*excelize.File, int, error) {
	sch, ok := s.registry.Lookup(typeName)
	if !ok {
		return nil, 0, &domain.InvalidTypeError{
			TypeName: typeName,
			Reason:   "entity type is not declared",
		}
	}

	headers := append([]string{"guid", "author", "received_at"}, sch.PropertyNames()...)

	workbook := excelize.NewFile()
	sheet := workbook.GetSheetName(0)
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, 0, fmt.Errorf("header cell: %w", err)
		}
		if err := workbook.SetCellValue(sheet, cell, header); err != nil {
			return nil, 0, fmt.Errorf("write header: %w", err)
		}
	}

	row := 2
	offset := 0
	for {
		if ctx.Err() != nil {
			return nil, 0, ctx.Err()
		}
		stored, total, err := s.entities.ListByType(ctx, typeName, s.pageSize, offset)
		if err != nil {
			return nil, 0, fmt.Errorf("list entities: %w", err)
		}
		for _, entity := range stored {
			values := append([]any{entity.GUID, entity.Author, entity.ReceivedAt.UTC()},
				propertyValues(sch, entity.Properties)...)
			for col, value := range values {
				cell, err := excelize.CoordinatesToCellName(col+1, row)
				if err != nil {
					return nil, 0, fmt.Errorf("data cell: %w", err)
				}
				if err := workbook.SetCellValue(sheet, cell, value); err != nil {
					return nil, 0, fmt.Errorf("write row %d: %w", row, err)
				}
			}
			row++
		}
		offset += len(stored)
		if offset >= total || len(stored) == 0 {
			break
		}
	}
	return workbook, row - 2, nil
}

func propertyValues(sch *domain.Schema, properties map[string]any) []any {
	names := sch.PropertyNames()
	values := make([]any, len(names))
	for i, name := range names {
		values[i] = formatCell(properties[name])
	}
	return values
}

// formatCell flattens composite values so every cell holds a scalar.
func formatCell(value any) any {
	switch v := value.(type) {
	case nil:
		return ""
	case string, bool, int, int64, float64, time.Time:
		return v
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(encoded)
	}
}
