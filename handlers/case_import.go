package handlers

import (
	"net/http"

	"legal_office_go/middleware"

	"github.com/labstack/echo/v4"
)

// DownloadImportTemplateHandler serves the spreadsheet users fill in for
// bulk case import
func DownloadImportTemplateHandler(c echo.Context) error {
	buf, err := Importer.GenerateExcelTemplate()
	if err != nil {
		return serviceError(err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="importacao_processos.xlsx"`)
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}

// ImportCasesHandler ingests a filled import spreadsheet
func ImportCasesHandler(c echo.Context) error {
	firm := middleware.FirmFromContext(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing file")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable file")
	}
	defer file.Close()

	result, err := Importer.ImportFromExcel(c.Request().Context(), firm.ID, file)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}
