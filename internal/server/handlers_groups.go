package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/rcampano/vaquita/internal/settlement"
)

type createGroupRequest struct {
	Name              string            `json:"name"`
	Total             decimal.Decimal   `json:"total"`
	Category          string            `json:"category"`
	DueDate           *time.Time        `json:"dueDate"`
	Description       string            `json:"description"`
	ParticipantPhones []string          `json:"participantPhones"`
	CustomSplit       bool              `json:"customSplit"`
	CustomAmounts     []decimal.Decimal `json:"customAmounts"`
}

func (s *Server) createGroup(c *fiber.Ctx) error {
	var req createGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "group name is required")
	}

	result, err := s.svc.CreateGroup(c.Context(), settlement.CreateGroupInput{
		Name:              req.Name,
		CreatorID:         callerID(c),
		Total:             req.Total,
		Category:          req.Category,
		DueDate:           req.DueDate,
		Description:       req.Description,
		ParticipantPhones: req.ParticipantPhones,
		CustomSplit:       req.CustomSplit,
		CustomAmounts:     req.CustomAmounts,
	})
	if err != nil {
		return err
	}

	shares := make([]fiber.Map, 0, len(result.Participants))
	for _, p := range result.Participants {
		shares = append(shares, fiber.Map{
			"userId": p.UserID,
			"share":  p.Share,
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":      true,
		"group":        groupJSON(*result.Group),
		"participants": shares,
	})
}

func (s *Server) listGroups(c *fiber.Ctx) error {
	entries, err := s.svc.ListGroupsForUser(c.Context(), callerID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"groups":  groupListJSON(entries),
	})
}

func (s *Server) groupDetail(c *fiber.Ctx) error {
	detail, err := s.svc.GetGroupDetail(c.Context(), c.Params("groupId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"detail":  groupDetailJSON(detail),
	})
}

func (s *Server) deleteGroup(c *fiber.Ctx) error {
	result, err := s.svc.DeleteGroup(c.Context(), c.Params("groupId"), callerID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":             true,
		"groupId":             result.GroupID,
		"groupName":           result.GroupName,
		"deletedPayments":     result.DeletedPayments,
		"deletedParticipants": result.DeletedParticipants,
	})
}

func (s *Server) previewDelete(c *fiber.Ctx) error {
	preview, err := s.svc.PreviewDelete(c.Context(), c.Params("groupId"), callerID(c))
	if err != nil {
		return err
	}
	warnings := preview.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return c.JSON(fiber.Map{
		"success":          true,
		"groupId":          preview.GroupID,
		"groupName":        preview.GroupName,
		"creatorId":        preview.CreatorID,
		"creatorName":      preview.CreatorName,
		"isCreator":        preview.IsCreator,
		"canDelete":        preview.CanDelete,
		"warnings":         warnings,
		"participantCount": preview.ParticipantCount,
		"paymentCount":     preview.PaymentCount,
		"paidCount":        preview.PaidCount,
		"total":            preview.Total,
	})
}

func (s *Server) verifyCreator(c *fiber.Ctx) error {
	check, err := s.svc.VerifyCreator(c.Context(), c.Params("groupId"), callerID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":     true,
		"groupId":     check.GroupID,
		"groupName":   check.GroupName,
		"creatorId":   check.CreatorID,
		"creatorName": check.CreatorName,
		"isCreator":   check.IsCreator,
	})
}

func (s *Server) categoryStats(c *fiber.Ctx) error {
	stats, err := s.svc.GetCategoryStatistics(c.Context(), callerID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"categories": categoryStatsJSON(stats),
	})
}

func (s *Server) upcomingDue(c *fiber.Ctx) error {
	due, err := s.svc.GetUpcomingDueDates(c.Context(), callerID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"upcoming": upcomingJSON(due),
	})
}
