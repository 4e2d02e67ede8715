package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"legal_office_go/models"
	"legal_office_go/services/judicial"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ImportResult contains the summary of a spreadsheet import
type ImportResult struct {
	TotalProcessed int
	CreatedCount   int
	MergedCount    int
	FailedCount    int
	Errors         []string
}

const importSheetName = "Processos"

var importHeaders = []string{
	"Número do Processo (CNJ)",
	"Classificação Interna",
	"Etiquetas (separadas por vírgula)",
	"Observações",
}

// ImportService handles bulk spreadsheet imports of case numbers. Each row
// goes through the resolver; when a provider is configured the full detail is
// fetched so imported cases arrive populated.
type ImportService struct {
	db       *gorm.DB
	resolver *CaseResolver
	provider judicial.Provider // nil disables detail fetch
}

func NewImportService(db *gorm.DB, resolver *CaseResolver, provider judicial.Provider) *ImportService {
	return &ImportService{db: db, resolver: resolver, provider: provider}
}

// GenerateExcelTemplate builds the spreadsheet users fill in for bulk import
func (s *ImportService) GenerateExcelTemplate() (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", importSheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	for i, header := range importHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(importSheetName, cell, header)
	}
	lastCol, _ := excelize.CoordinatesToCellName(len(importHeaders), 1)
	f.SetCellStyle(importSheetName, "A1", lastCol, headerStyle)

	f.SetColWidth(importSheetName, "A", "A", 30)
	f.SetColWidth(importSheetName, "B", "D", 25)

	// Example row
	f.SetCellValue(importSheetName, "A2", "1234567-89.2024.8.26.0100")
	f.SetCellValue(importSheetName, "B2", "Contencioso")
	f.SetCellValue(importSheetName, "C2", "urgente, revisar")
	f.SetCellValue(importSheetName, "D2", "Importado da planilha anterior")

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to generate template: %w", err)
	}
	return buf, nil
}

// ImportFromExcel reads the filled template and upserts one case per row.
// Row failures are collected; the batch continues past them.
func (s *ImportService) ImportFromExcel(ctx context.Context, firmID string, reader io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheet := importSheetName
	if idx, idxErr := f.GetSheetIndex(sheet); idxErr != nil || idx < 0 {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	result := &ImportResult{}
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		result.TotalProcessed++

		caseNumber := strings.TrimSpace(row[0])
		record, action, err := s.importRow(ctx, firmID, caseNumber)
		if err != nil {
			result.FailedCount++
			result.Errors = append(result.Errors, fmt.Sprintf("linha %d (%s): %v", i+1, caseNumber, err))
			continue
		}

		s.applyRowExtras(ctx, record, row)

		if action == ResolveActionCreated {
			result.CreatedCount++
		} else {
			result.MergedCount++
		}
	}

	log.Printf("[IMPORT] firm %s: %d processed, %d created, %d merged, %d failed",
		firmID, result.TotalProcessed, result.CreatedCount, result.MergedCount, result.FailedCount)
	return result, nil
}

func (s *ImportService) importRow(ctx context.Context, firmID string, caseNumber string) (*models.CaseRecord, string, error) {
	in := IncomingCase{CaseNumber: caseNumber, Origin: models.CaseOriginManualImport}

	if s.provider != nil {
		detail, err := s.provider.FetchCaseDetail(ctx, caseNumber)
		switch {
		case err == nil:
			in = IncomingFromDetail(*detail, models.CaseOriginManualImport)
		case errors.Is(err, judicial.ErrRejected):
			return nil, "", err
		default:
			// transient provider trouble: import the bare number anyway
			log.Printf("[WARNING] detail fetch for %s failed, importing bare: %v", caseNumber, err)
		}
	}

	return s.resolver.Resolve(ctx, firmID, in)
}

// applyRowExtras sets the user-edited columns. These belong to the user, so
// the import writes them directly instead of going through the merge policy.
func (s *ImportService) applyRowExtras(ctx context.Context, record *models.CaseRecord, row []string) {
	values := map[string]interface{}{}

	if v := cellAt(row, 1); v != "" {
		values["internal_classification"] = v
	}
	if v := cellAt(row, 2); v != "" {
		tags := models.JSONStrings{}
		for _, tag := range strings.Split(v, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
		if len(tags) > 0 {
			values["tags"] = tags
		}
	}
	if v := cellAt(row, 3); v != "" {
		values["notes"] = v
	}

	if len(values) == 0 {
		return
	}
	if err := s.db.WithContext(ctx).Model(record).Updates(values).Error; err != nil {
		log.Printf("[WARNING] failed to apply import columns for %s: %v", record.CaseNumber, err)
	}
}

func cellAt(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
