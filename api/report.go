package api

import (
	"expensetracker/config"
	"expensetracker/service"

	"github.com/gin-gonic/gin"
)

// ReportHandler 消费查询、汇总、洞察、预测与测试报表
type ReportHandler struct {
	cfg         *config.Config
	reporter    *service.Reporter
	broadcaster *service.Broadcaster
}

func NewReportHandler(cfg *config.Config, reporter *service.Reporter, broadcaster *service.Broadcaster) *ReportHandler {
	return &ReportHandler{cfg: cfg, reporter: reporter, broadcaster: broadcaster}
}

// ExpenseListQuery 消费记录列表请求
type ExpenseListQuery struct {
	Page     int    `form:"page,default=1" json:"page" binding:"min=1" example:"1"`
	Limit    int    `form:"limit,default=10" json:"limit" binding:"min=1,max=100" example:"10"`
	Category string `form:"category" json:"category" binding:"omitempty,min=2,max=50" example:"food"`
}

// TestReportResponse 测试报表结果
type TestReportResponse struct {
	Sent   bool            `json:"sent"`
	Report *service.Report `json:"report"`
}

// Expenses 获取消费记录列表
// @Summary 获取消费记录列表
// @Description 按日期倒序分页，可按类别筛选
// @Tags 报表
// @Produce json
// @Param id path string true "用户ID"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Param category query string false "类别筛选"
// @Success 200 {object} Response{data=service.ExpensePage} "获取成功"
// @Failure 400 {object} Response "参数错误"
// @Failure 404 {object} Response "用户不存在"
// @Router /api/users/{id}/expenses [get]
func (h *ReportHandler) Expenses(c *gin.Context) {
	var q ExpenseListQuery
	if err := bindQuery(c, &q); err != nil {
		Fail(c, h.cfg, err, "")
		return
	}
	page, err := h.reporter.ListExpenses(c.Request.Context(), c.Param("id"), q.Page, q.Limit, q.Category)
	if err != nil {
		Fail(c, h.cfg, err, "Failed to list expenses")
		return
	}
	Success(c, page)
}

// Summary 月度汇总
// @Summary 月度汇总
// @Description month 从 0 开始，缺省为当前月份
// @Tags 报表
// @Produce json
// @Param id path string true "用户ID"
// @Param month query int false "月份 0-11"
// @Param year query int false "年份"
// @Success 200 {object} Response{data=service.MonthlySummary} "获取成功"
// @Failure 400 {object} Response "参数错误"
// @Failure 404 {object} Response "用户不存在"
// @Router /api/users/{id}/summary [get]
func (h *ReportHandler) Summary(c *gin.Context) {
	var q PeriodQuery
	if err := bindQuery(c, &q); err != nil {
		Fail(c, h.cfg, err, "")
		return
	}
	summary, err := h.reporter.MonthlySummary(c.Request.Context(), c.Param("id"), q.Month, q.Year)
	if err != nil {
		Fail(c, h.cfg, err, "Failed to load summary")
		return
	}
	Success(c, summary)
}

// Insights 月度洞察
// @Summary 月度洞察
// @Description 本月与上月对比，列出分类明细、top 3 分类和翻倍增长的分类
// @Tags 报表
// @Produce json
// @Param id path string true "用户ID"
// @Param month query int false "月份 0-11"
// @Param year query int false "年份"
// @Success 200 {object} Response{data=service.Insights} "获取成功"
// @Failure 400 {object} Response "参数错误"
// @Failure 404 {object} Response "用户不存在"
// @Router /api/users/{id}/insights [get]
func (h *ReportHandler) Insights(c *gin.Context) {
	var q PeriodQuery
	if err := bindQuery(c, &q); err != nil {
		Fail(c, h.cfg, err, "")
		return
	}
	insights, err := h.reporter.Insights(c.Request.Context(), c.Param("id"), q.Month, q.Year)
	if err != nil {
		Fail(c, h.cfg, err, "Failed to load insights")
		return
	}
	Success(c, insights)
}

// Forecast 月度支出预测
// @Summary 支出预测
// @Description 周期模板合计加最近 30 天支出
// @Tags 报表
// @Produce json
// @Param id path string true "用户ID"
// @Param month query int false "月份 0-11"
// @Param year query int false "年份"
// @Success 200 {object} Response{data=service.Forecast} "获取成功"
// @Failure 400 {object} Response "参数错误"
// @Failure 404 {object} Response "用户不存在"
// @Router /api/users/{id}/forecast [get]
func (h *ReportHandler) Forecast(c *gin.Context) {
	var q PeriodQuery
	if err := bindQuery(c, &q); err != nil {
		Fail(c, h.cfg, err, "")
		return
	}
	forecast, err := h.reporter.Forecast(c.Request.Context(), c.Param("id"), q.Month, q.Year)
	if err != nil {
		Fail(c, h.cfg, err, "Failed to build forecast")
		return
	}
	Success(c, forecast)
}

// TestReport 立即生成并发送一份报表
// @Summary 发送测试报表
// @Description 为单个用户生成指定月份的报表并发送邮件
// @Tags 报表
// @Produce json
// @Param id path string true "用户ID"
// @Param month query int false "月份 0-11"
// @Param year query int false "年份"
// @Success 200 {object} Response{data=TestReportResponse} "发送成功"
// @Failure 400 {object} Response "参数错误"
// @Failure 404 {object} Response "用户不存在"
// @Failure 429 {object} Response "请求过于频繁"
// @Failure 500 {object} Response "邮件发送失败"
// @Router /api/users/{id}/test-report [post]
func (h *ReportHandler) TestReport(c *gin.Context) {
	var q PeriodQuery
	if err := bindQuery(c, &q); err != nil {
		Fail(c, h.cfg, err, "")
		return
	}
	report, err := h.broadcaster.SendOne(c.Request.Context(), c.Param("id"), q.Month, q.Year)
	if err != nil {
		Fail(c, h.cfg, err, "Failed to send report")
		return
	}
	Success(c, TestReportResponse{Sent: true, Report: report})
}
