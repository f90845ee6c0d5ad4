package api

import (
	"expensetracker/config"
	"expensetracker/models"
	"expensetracker/service"

	"github.com/gin-gonic/gin"
)

// ExpenseHandler 消费记录写入与 CSV 导入
type ExpenseHandler struct {
	cfg      *config.Config
	pipeline *service.Pipeline
	io       *service.ExpenseIO
}

func NewExpenseHandler(cfg *config.Config, pipeline *service.Pipeline, io *service.ExpenseIO) *ExpenseHandler {
	return &ExpenseHandler{cfg: cfg, pipeline: pipeline, io: io}
}

// ImportRequest CSV 导入请求
type ImportRequest struct {
	UserID string `json:"userId" binding:"required" example:"6f1c2d3e-4b5a-4c6d-8e7f-0a1b2c3d4e5f"`
	CSV    string `json:"csv" binding:"required,min=1" example:"title,amount,category,date,tags,note\nLunch,12.5,food,,,"`
}

// Create 创建消费记录
// @Summary 创建消费记录
// @Description 写入一条消费记录，返回记录、预算状态以及是否触发了预算提醒
// @Tags 消费记录
// @Accept json
// @Produce json
// @Param request body service.ExpenseInput true "消费记录"
// @Success 201 {object} Response{data=service.IngestResult} "创建成功"
// @Failure 400 {object} Response "参数错误"
// @Failure 404 {object} Response "用户不存在"
// @Router /api/expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req service.ExpenseInput
	if err := bindJSON(c, &req); err != nil {
		Fail(c, h.cfg, err, "")
		return
	}
	res, err := h.pipeline.Ingest(c.Request.Context(), req, models.AuditCreated)
	if err != nil {
		Fail(c, h.cfg, err, "Failed to create expense")
		return
	}
	Created(c, res)
}

// Import CSV 导入
// @Summary 导入消费记录
// @Description 按表头 title,amount,category,date,tags,note 逐行导入；onError=abort 时首个失败行终止导入，continue 时跳过失败行
// @Tags 消费记录
// @Accept json
// @Produce json
// @Param onError query string false "abort 或 continue" default(abort)
// @Param request body ImportRequest true "用户 ID 与 CSV 内容"
// @Success 201 {object} Response{data=service.ImportResult} "导入完成"
// @Failure 400 {object} Response "参数错误或某一行校验失败"
// @Failure 404 {object} Response "用户不存在"
// @Router /api/expenses/import [post]
func (h *ExpenseHandler) Import(c *gin.Context) {
	policy, err := service.ParseBatchPolicy(c.Query("onError"), service.AbortOnError)
	if err != nil {
		Fail(c, h.cfg, err, "")
		return
	}
	var req ImportRequest
	if err := bindJSON(c, &req); err != nil {
		Fail(c, h.cfg, err, "")
		return
	}
	res, err := h.io.Import(c.Request.Context(), req.UserID, req.CSV, policy)
	if err != nil {
		Fail(c, h.cfg, err, "Failed to import expenses", res)
		return
	}
	Created(c, res)
}
