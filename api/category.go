package api

import (
	"expensetracker/config"
	"expensetracker/service"

	"github.com/gin-gonic/gin"
)

// CategoryHandler 消费类别
type CategoryHandler struct {
	cfg        *config.Config
	categories *service.CategoryService
}

func NewCategoryHandler(cfg *config.Config, categories *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{cfg: cfg, categories: categories}
}

// List 列出所有类别
// @Summary 获取消费类别列表
// @Tags 消费类别
// @Produce json
// @Success 200 {object} Response{data=[]models.Category} "获取成功"
// @Router /api/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	list, err := h.categories.List(c.Request.Context())
	if err != nil {
		Fail(c, h.cfg, err, "Failed to list categories")
		return
	}
	Success(c, list)
}

// Create 创建类别
// @Summary 创建消费类别
// @Description slug 由名称生成，重复时返回 409
// @Tags 消费类别
// @Accept json
// @Produce json
// @Param request body service.CategoryInput true "类别信息"
// @Success 201 {object} Response{data=models.Category} "创建成功"
// @Failure 400 {object} Response "参数错误"
// @Failure 409 {object} Response "类别已存在"
// @Router /api/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req service.CategoryInput
	if err := bindJSON(c, &req); err != nil {
		Fail(c, h.cfg, err, "")
		return
	}
	category, err := h.categories.Create(c.Request.Context(), req)
	if err != nil {
		Fail(c, h.cfg, err, "Failed to create category")
		return
	}
	Created(c, category)
}
