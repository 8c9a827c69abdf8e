package service

import (
	"context"

	"github.com/xuri/excelize/v2"

	"larsbees/pkg/export"
)

type ExportService interface {
	// Table loads one export by entity name (export.Sites, export.Actions ...).
	Table(ctx context.Context, uid uint, entity string) (*export.Table, error)
	Workbook(ctx context.Context, uid uint) (*excelize.File, error)
}
