package api

import (
	"expensetracker/config"
	"expensetracker/service"

	"github.com/gin-gonic/gin"
)

// RecurringHandler 周期支出
type RecurringHandler struct {
	cfg    *config.Config
	engine *service.RecurringEngine
	policy service.BatchPolicy
}

// NewRecurringHandler policy 为未传 onError 时的默认策略
func NewRecurringHandler(cfg *config.Config, engine *service.RecurringEngine, policy service.BatchPolicy) *RecurringHandler {
	return &RecurringHandler{cfg: cfg, engine: engine, policy: policy}
}

// Create 创建周期支出模板
// @Summary 创建周期支出
// @Description 每月 dayOfMonth 日生成一条消费记录，dayOfMonth 取值 1-28
// @Tags 周期支出
// @Accept json
// @Produce json
// @Param request body service.RecurringInput true "模板信息"
// @Success 201 {object} Response{data=models.RecurringExpense} "创建成功"
// @Failure 400 {object} Response "参数错误"
// @Failure 404 {object} Response "用户不存在"
// @Router /api/recurring [post]
func (h *RecurringHandler) Create(c *gin.Context) {
	var req service.RecurringInput
	if err := bindJSON(c, &req); err != nil {
		Fail(c, h.cfg, err, "")
		return
	}
	rec, err := h.engine.Create(c.Request.Context(), req)
	if err != nil {
		Fail(c, h.cfg, err, "Failed to create recurring expense")
		return
	}
	Created(c, rec)
}

// Run 执行到期的周期支出
// @Summary 执行到期模板
// @Description 依次为 nextRun 已到期的模板生成消费记录并顺延一个月
// @Tags 周期支出
// @Produce json
// @Param onError query string false "abort 或 continue"
// @Success 200 {object} Response{data=service.RunDueResult} "执行结果"
// @Failure 400 {object} Response "参数错误"
// @Failure 429 {object} Response "请求过于频繁"
// @Router /api/recurring/run [post]
func (h *RecurringHandler) Run(c *gin.Context) {
	policy, err := service.ParseBatchPolicy(c.Query("onError"), h.policy)
	if err != nil {
		Fail(c, h.cfg, err, "")
		return
	}
	res, err := h.engine.RunDue(c.Request.Context(), policy)
	if err != nil {
		Fail(c, h.cfg, err, "Failed to run recurring expenses", res)
		return
	}
	Success(c, res)
}
