package api

import (
	"net/http"

	"expensetracker/config"
	"expensetracker/service"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler 导出处理器
type ExportHandler struct {
	cfg *config.Config
	io  *service.ExpenseIO
}

// NewExportHandler 创建导出处理器
func NewExportHandler(cfg *config.Config, io *service.ExpenseIO) *ExportHandler {
	return &ExportHandler{cfg: cfg, io: io}
}

// ExportCSV 导出消费记录为 CSV
// @Summary 导出消费记录
// @Description 导出用户全部消费记录，按日期倒序
// @Tags 导出
// @Produce text/csv
// @Param id path string true "用户ID"
// @Success 200 {file} file "CSV 文件"
// @Failure 400 {object} Response "用户ID格式错误"
// @Failure 404 {object} Response "用户不存在"
// @Router /api/users/{id}/expenses/export [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	data, err := h.io.Export(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, h.cfg, err, "Failed to export expenses")
		return
	}
	c.Header("Content-Disposition", "attachment; filename=expenses.csv")
	c.Data(http.StatusOK, "text/csv", data)
}

// ExportXLSX 导出消费记录为 Excel
// @Summary 导出 Excel
// @Description 导出用户全部消费记录为 xlsx，末行为合计
// @Tags 导出
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "用户ID"
// @Success 200 {file} file "Excel 文件"
// @Failure 404 {object} Response "用户不存在"
// @Router /api/users/{id}/expenses/export/xlsx [get]
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	data, err := h.io.ExportXLSX(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, h.cfg, err, "Failed to export expenses")
		return
	}
	c.Header("Content-Disposition", "attachment; filename=expenses.xlsx")
	c.Data(http.StatusOK, xlsxContentType, data)
}
