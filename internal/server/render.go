package server

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/rcampano/vaquita/internal/models"
	"github.com/rcampano/vaquita/internal/settlement"
)

// The JSON shapes below are built from fiber.Map per projection rather
// than separate DTO structs; each helper renders one service result.

const timeLayout = time.RFC3339

func unixTime(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(timeLayout)
}

func optTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func urgencyJSON(u models.Urgency) fiber.Map {
	m := fiber.Map{
		"urgent":  u.Urgent,
		"overdue": u.Overdue,
		"tier":    u.Tier,
	}
	if u.DaysRemaining != nil {
		m["daysRemaining"] = *u.DaysRemaining
	} else {
		m["daysRemaining"] = nil
	}
	return m
}

func groupJSON(g models.Group) fiber.Map {
	return fiber.Map{
		"id":          g.ID,
		"name":        g.Name,
		"total":       g.Total,
		"category":    g.Category,
		"dueDate":     optTime(g.DueDate),
		"description": g.Description,
		"creatorId":   g.CreatorID,
		"createdAt":   unixTime(g.CreatedAt),
	}
}

func participantDetailJSON(p settlement.ParticipantDetail) fiber.Map {
	return fiber.Map{
		"userId":         p.UserID,
		"name":           p.Name,
		"phone":          p.Phone,
		"share":          p.Share,
		"amountPaid":     p.AmountPaid,
		"paid":           p.Paid,
		"paidAt":         optTime(p.PaidAt),
		"method":         p.Method,
		"hasProof":       p.HasProof,
		"proofPreview":   p.ProofPreview,
		"proofStatus":    p.ProofStatus.String(),
		"validatedAt":    optTime(p.ValidatedAt),
		"validatedBy":    p.ValidatedBy,
		"validationNote": p.ValidationNote,
	}
}

func groupDetailJSON(d *settlement.GroupDetail) fiber.Map {
	participants := make([]fiber.Map, 0, len(d.Participants))
	for _, p := range d.Participants {
		participants = append(participants, participantDetailJSON(p))
	}
	return fiber.Map{
		"group":        groupJSON(d.Group),
		"participants": participants,
		"totalPaid":    d.TotalPaid,
		"urgency":      urgencyJSON(d.Urgency),
		"proofStats": fiber.Map{
			"participants": d.ProofStats.Participants,
			"paidCount":    d.ProofStats.PaidCount,
			"withProof":    d.ProofStats.WithProof,
			"withoutProof": d.ProofStats.WithoutProof,
			"withProofPct": d.ProofStats.WithProofPct,
		},
	}
}

func groupListJSON(entries []*settlement.GroupListEntry) []fiber.Map {
	out := make([]fiber.Map, 0, len(entries))
	for _, e := range entries {
		out = append(out, fiber.Map{
			"group":            groupJSON(e.Group),
			"role":             e.Role,
			"isCreator":        e.IsCreator,
			"share":            e.Share,
			"paid":             e.Paid,
			"participantCount": e.ParticipantCount,
			"paidCount":        e.PaidCount,
			"urgency":          urgencyJSON(e.Urgency),
		})
	}
	return out
}

func pendingJSON(pending []*settlement.PendingPayment) []fiber.Map {
	out := make([]fiber.Map, 0, len(pending))
	for _, p := range pending {
		out = append(out, fiber.Map{
			"groupId":          p.GroupID,
			"groupName":        p.GroupName,
			"groupTotal":       p.GroupTotal,
			"share":            p.Share,
			"createdAt":        unixTime(p.CreatedAt),
			"creatorName":      p.CreatorName,
			"creatorPhone":     p.CreatorPhone,
			"participantCount": p.ParticipantCount,
			"paidCount":        p.PaidCount,
			"paidPercent":      p.PaidPercent,
			"daysOpen":         p.DaysOpen,
			"urgency":          p.Urgency,
		})
	}
	return out
}

func upcomingJSON(due []*settlement.UpcomingDue) []fiber.Map {
	out := make([]fiber.Map, 0, len(due))
	for _, d := range due {
		out = append(out, fiber.Map{
			"groupId":   d.GroupID,
			"groupName": d.GroupName,
			"category":  d.Category,
			"dueDate":   d.DueDate.UTC().Format(time.RFC3339),
			"share":     d.Share,
			"urgency":   urgencyJSON(d.Urgency),
		})
	}
	return out
}

func categoryStatsJSON(stats []*settlement.CategoryStat) []fiber.Map {
	out := make([]fiber.Map, 0, len(stats))
	for _, st := range stats {
		out = append(out, fiber.Map{
			"category":      st.Category,
			"groupCount":    st.GroupCount,
			"totalAmount":   st.TotalAmount,
			"averageAmount": st.AverageAmount,
			"paidCount":     st.PaidCount,
			"amountPaid":    st.AmountPaid,
			"amountPending": st.AmountPending,
		})
	}
	return out
}

func proofSummaryJSON(p settlement.ProofSummary) fiber.Map {
	return fiber.Map{
		"userId":       p.UserID,
		"name":         p.Name,
		"phone":        p.Phone,
		"share":        p.Share,
		"paidAt":       optTime(p.PaidAt),
		"method":       p.Method,
		"hasProof":     p.HasProof,
		"proofPreview": p.ProofPreview,
		"status":       p.Status.String(),
	}
}
