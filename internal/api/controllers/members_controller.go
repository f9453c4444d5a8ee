package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fundly/internal/models/request_models"
	"fundly/internal/services"
	"fundly/pkg/middleware"
	"fundly/pkg/utils"
)

type MembersController struct {
	memberService services.MemberServiceInterface
}

func NewMembersController(memberService services.MemberServiceInterface) *MembersController {
	return &MembersController{
		memberService: memberService,
	}
}

// CreateMemberHandler grants a role directly, outside the order path.
func (mc *MembersController) CreateMemberHandler(c *gin.Context) {
	var req request_models.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid member payload")
		return
	}

	member, err := mc.memberService.CreateMember(c.Request.Context(), middleware.ActorID(c), c.Param("slug"), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, member, "Member created")
}

func (mc *MembersController) ListMembersHandler(c *gin.Context) {
	members, err := mc.memberService.ListMembers(c.Request.Context(), middleware.ActorID(c), c.Param("slug"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, members, "Fetched members successfully")
}
