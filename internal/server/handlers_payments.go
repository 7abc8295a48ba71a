package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type payRequest struct {
	Method string `json:"method"`
}

type payWithProofRequest struct {
	Method string          `json:"method"`
	Proof  string          `json:"proof"`
	Amount decimal.Decimal `json:"amount"`
}

type validateProofRequest struct {
	Approved bool   `json:"approved"`
	Comment  string `json:"comment"`
}

func (s *Server) payWithoutProof(c *fiber.Ctx) error {
	var req payRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	result, err := s.svc.RecordPaymentWithoutProof(c.Context(), c.Params("groupId"), callerID(c), req.Method)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"groupId":   result.GroupID,
		"userId":    result.UserID,
		"userName":  result.UserName,
		"amount":    result.Amount,
		"withProof": result.WithProof,
		"paidAt":    result.PaidAt.UTC().Format(timeLayout),
	})
}

func (s *Server) payWithProof(c *fiber.Ctx) error {
	var req payWithProofRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	result, err := s.svc.RecordPaymentWithProof(c.Context(), c.Params("groupId"), callerID(c),
		req.Method, req.Proof, req.Amount)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"groupId":   result.GroupID,
		"userId":    result.UserID,
		"userName":  result.UserName,
		"amount":    result.Amount,
		"withProof": result.WithProof,
		"paidAt":    result.PaidAt.UTC().Format(timeLayout),
	})
}

func (s *Server) validateProof(c *fiber.Ctx) error {
	var req validateProofRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	result, err := s.svc.ValidateProof(c.Context(), c.Params("groupId"), c.Params("userId"),
		callerID(c), req.Approved, req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":     true,
		"groupId":     result.GroupID,
		"userId":      result.UserID,
		"validatedBy": result.ValidatedBy,
		"approved":    result.Approved,
		"validatedAt": result.ValidatedAt.UTC().Format(timeLayout),
	})
}

func (s *Server) pendingPayments(c *fiber.Ctx) error {
	pending, err := s.svc.GetPendingPayments(c.Context(), callerID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"pending": pendingJSON(pending),
	})
}

func (s *Server) listProofs(c *fiber.Ctx) error {
	proofs, err := s.svc.ListGroupProofs(c.Context(), c.Params("groupId"))
	if err != nil {
		return err
	}
	roster := make([]fiber.Map, 0, len(proofs.Proofs))
	for _, p := range proofs.Proofs {
		roster = append(roster, proofSummaryJSON(p))
	}
	return c.JSON(fiber.Map{
		"success":       true,
		"groupId":       proofs.GroupID,
		"groupName":     proofs.GroupName,
		"creatorId":     proofs.CreatorID,
		"creatorName":   proofs.CreatorName,
		"totalPayments": proofs.TotalPayments,
		"withProof":     proofs.WithProof,
		"withoutProof":  proofs.WithoutProof,
		"withProofPct":  proofs.WithProofPct,
		"proofs":        roster,
	})
}

func (s *Server) getProof(c *fiber.Ctx) error {
	proof, err := s.svc.GetProofOfPayment(c.Context(), c.Params("groupId"), c.Params("userId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"groupId":   proof.GroupID,
		"groupName": proof.GroupName,
		"userId":    proof.UserID,
		"userName":  proof.UserName,
		"phone":     proof.Phone,
		"share":     proof.Share,
		"paidAt":    optTime(proof.PaidAt),
		"method":    proof.Method,
		"hasProof":  proof.HasProof,
		"proof":     proof.Proof,
		"status":    proof.Status.String(),
	})
}
