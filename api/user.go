package api

import (
	"expensetracker/config"
	"expensetracker/service"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户
type UserHandler struct {
	cfg   *config.Config
	users *service.UserService
}

func NewUserHandler(cfg *config.Config, users *service.UserService) *UserHandler {
	return &UserHandler{cfg: cfg, users: users}
}

// Create 创建用户
// @Summary 创建用户
// @Description 创建用户并设置月度预算、分类预算和预算提醒 webhook
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body service.CreateUserInput true "用户信息"
// @Success 201 {object} Response{data=models.User} "创建成功"
// @Failure 400 {object} Response "参数错误"
// @Failure 409 {object} Response "邮箱已注册"
// @Router /api/users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req service.CreateUserInput
	if err := bindJSON(c, &req); err != nil {
		Fail(c, h.cfg, err, "")
		return
	}
	user, err := h.users.Create(c.Request.Context(), req)
	if err != nil {
		Fail(c, h.cfg, err, "Failed to create user")
		return
	}
	Created(c, user)
}
