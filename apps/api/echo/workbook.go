package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/tatame-app/tatame/services/export"
)

// sendWorkbook writes wb as an attachment named filename and closes it.
func sendWorkbook(ctx echo.Context, wb *excelize.File, filename string) error {
	defer wb.Close()

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return errors.Wrap(err, "writing workbook")
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return ctx.Blob(http.StatusOK, export.ContentType, buf.Bytes())
}
