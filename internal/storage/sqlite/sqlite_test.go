package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rcampano/vaquita/internal/models"
	"github.com/rcampano/vaquita/internal/settlement"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "vaquita-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func createTestUser(t *testing.T, store *Store, name, phone string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Phone: phone, PasswordHash: "x"}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createTestUser(t, store, "Alice", "111")
	bob := createTestUser(t, store, "Bob", "222")
	carol := createTestUser(t, store, "Carol", "333")

	t.Run("CreateUser rejects duplicate phone", func(t *testing.T) {
		dup := &models.User{Name: "Alice Again", Phone: "111", PasswordHash: "x"}
		err := store.CreateUser(ctx, dup)
		if !settlement.IsKind(err, settlement.InvalidInput) {
			t.Errorf("Expected InvalidInput, got %v", err)
		}
	})

	t.Run("GetUserByPhone round-trips", func(t *testing.T) {
		got, err := store.GetUserByPhone(ctx, "222")
		if err != nil {
			t.Fatalf("GetUserByPhone failed: %v", err)
		}
		if got.ID != bob.ID || got.Name != "Bob" {
			t.Errorf("Got user %+v, want Bob", got)
		}

		_, err = store.GetUserByPhone(ctx, "999")
		if !settlement.IsKind(err, settlement.NotFound) {
			t.Errorf("Expected NotFound for unknown phone, got %v", err)
		}
	})

	group := &models.Group{
		Name:      "Dinner",
		Total:     decimal.NewFromInt(90),
		Category:  "food",
		CreatorID: alice.ID,
	}
	share := decimal.NewFromInt(30)
	participants := []*models.Participant{
		{UserID: alice.ID, Share: share},
		{UserID: bob.ID, Share: share},
		{UserID: carol.ID, Share: share},
	}

	t.Run("CreateGroup generates ID and persists participants", func(t *testing.T) {
		if err := store.CreateGroup(ctx, group, participants); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		if group.ID == "" {
			t.Fatal("Expected group ID to be generated")
		}
		if group.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}

		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if !got.Total.Equal(group.Total) {
			t.Errorf("Total = %s, want %s", got.Total, group.Total)
		}

		list, err := store.ListParticipants(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListParticipants failed: %v", err)
		}
		if len(list) != 3 {
			t.Fatalf("Expected 3 participants, got %d", len(list))
		}
		// ListParticipants orders by user name.
		if list[0].Name != "Alice" || list[2].Name != "Carol" {
			t.Errorf("Unexpected ordering: %s, %s, %s", list[0].Name, list[1].Name, list[2].Name)
		}
	})

	t.Run("MarkPaid flips participant and appends history", func(t *testing.T) {
		err := store.MarkPaid(ctx, settlement.MarkPaidParams{
			GroupID: group.ID,
			UserID:  bob.ID,
			Amount:  share,
			Method:  "yape",
		})
		if err != nil {
			t.Fatalf("MarkPaid failed: %v", err)
		}

		rec, err := store.GetParticipant(ctx, group.ID, bob.ID)
		if err != nil {
			t.Fatalf("GetParticipant failed: %v", err)
		}
		if !rec.Paid || rec.PaidAt == nil || rec.Method != "yape" {
			t.Errorf("Participant not marked paid: %+v", rec)
		}

		total, err := store.TotalPaid(ctx, group.ID)
		if err != nil {
			t.Fatalf("TotalPaid failed: %v", err)
		}
		if !total.Equal(share) {
			t.Errorf("TotalPaid = %s, want %s", total, share)
		}

		n, err := store.CountPayments(ctx, group.ID)
		if err != nil {
			t.Fatalf("CountPayments failed: %v", err)
		}
		if n != 1 {
			t.Errorf("CountPayments = %d, want 1", n)
		}
	})

	t.Run("MarkPaid twice returns AlreadyPaid", func(t *testing.T) {
		err := store.MarkPaid(ctx, settlement.MarkPaidParams{
			GroupID: group.ID,
			UserID:  bob.ID,
			Amount:  share,
			Method:  "yape",
		})
		if !settlement.IsKind(err, settlement.AlreadyPaid) {
			t.Errorf("Expected AlreadyPaid, got %v", err)
		}

		// The history must not grow on the failed attempt.
		n, err := store.CountPayments(ctx, group.ID)
		if err != nil {
			t.Fatalf("CountPayments failed: %v", err)
		}
		if n != 1 {
			t.Errorf("CountPayments = %d, want 1", n)
		}
	})

	t.Run("MarkPaid for unknown participant returns NotFound", func(t *testing.T) {
		err := store.MarkPaid(ctx, settlement.MarkPaidParams{
			GroupID: group.ID,
			UserID:  "nobody",
			Amount:  share,
		})
		if !settlement.IsKind(err, settlement.NotFound) {
			t.Errorf("Expected NotFound, got %v", err)
		}
	})

	t.Run("SetProofValidation requires paid with proof", func(t *testing.T) {
		// Bob paid without proof, so validation must fail.
		err := store.SetProofValidation(ctx, settlement.ProofValidationParams{
			GroupID:     group.ID,
			UserID:      bob.ID,
			Approved:    true,
			ValidatedBy: alice.ID,
		})
		if !settlement.IsKind(err, settlement.NotFound) {
			t.Errorf("Expected NotFound for proofless payment, got %v", err)
		}

		err = store.MarkPaid(ctx, settlement.MarkPaidParams{
			GroupID: group.ID,
			UserID:  carol.ID,
			Amount:  share,
			Method:  "transferencia",
			Proof:   "base64-proof-bytes",
		})
		if err != nil {
			t.Fatalf("MarkPaid failed: %v", err)
		}

		err = store.SetProofValidation(ctx, settlement.ProofValidationParams{
			GroupID:     group.ID,
			UserID:      carol.ID,
			Approved:    true,
			ValidatedBy: alice.ID,
			Note:        "looks good",
		})
		if err != nil {
			t.Fatalf("SetProofValidation failed: %v", err)
		}

		rec, err := store.GetParticipant(ctx, group.ID, carol.ID)
		if err != nil {
			t.Fatalf("GetParticipant failed: %v", err)
		}
		if rec.ProofStatus != models.ProofApproved {
			t.Errorf("ProofStatus = %v, want approved", rec.ProofStatus)
		}
		if rec.ValidatedBy != alice.ID || rec.ValidatedAt == nil {
			t.Errorf("Validation fields not set: %+v", rec)
		}
	})

	t.Run("ListGroupsForUser annotates role and counts", func(t *testing.T) {
		entries, err := store.ListGroupsForUser(ctx, bob.ID)
		if err != nil {
			t.Fatalf("ListGroupsForUser failed: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("Expected 1 group, got %d", len(entries))
		}
		e := entries[0]
		if e.Role != "participant" || e.IsCreator {
			t.Errorf("Role = %s, IsCreator = %v, want participant", e.Role, e.IsCreator)
		}
		if !e.Paid || !e.Share.Equal(share) {
			t.Errorf("Share/Paid wrong: %+v", e)
		}
		if e.ParticipantCount != 3 || e.PaidCount != 2 {
			t.Errorf("Counts = %d/%d, want 3/2", e.PaidCount, e.ParticipantCount)
		}

		entries, err = store.ListGroupsForUser(ctx, alice.ID)
		if err != nil {
			t.Fatalf("ListGroupsForUser failed: %v", err)
		}
		if len(entries) != 1 || entries[0].Role != "creator" {
			t.Errorf("Expected creator role for Alice, got %+v", entries)
		}
	})

	t.Run("ListPendingForUser reports progress", func(t *testing.T) {
		pending, err := store.ListPendingForUser(ctx, alice.ID)
		if err != nil {
			t.Fatalf("ListPendingForUser failed: %v", err)
		}
		if len(pending) != 1 {
			t.Fatalf("Expected 1 pending payment, got %d", len(pending))
		}
		pp := pending[0]
		if pp.GroupID != group.ID || pp.CreatorName != "Alice" {
			t.Errorf("Unexpected pending row: %+v", pp)
		}
		if pp.PaidPercent != 66 {
			t.Errorf("PaidPercent = %d, want 66", pp.PaidPercent)
		}

		// Bob already paid, nothing pending for him.
		pending, err = store.ListPendingForUser(ctx, bob.ID)
		if err != nil {
			t.Fatalf("ListPendingForUser failed: %v", err)
		}
		if len(pending) != 0 {
			t.Errorf("Expected no pending payments for Bob, got %d", len(pending))
		}
	})

	t.Run("ListUpcomingDue filters by window and paid state", func(t *testing.T) {
		due := time.Now().Add(48 * time.Hour)
		g2 := &models.Group{
			Name:      "Rent",
			Total:     decimal.NewFromInt(100),
			Category:  "housing",
			DueDate:   &due,
			CreatorID: alice.ID,
		}
		err := store.CreateGroup(ctx, g2, []*models.Participant{
			{UserID: alice.ID, Share: decimal.NewFromInt(50)},
			{UserID: bob.ID, Share: decimal.NewFromInt(50)},
		})
		if err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}

		since := time.Now().AddDate(0, 0, -7)
		upcoming, err := store.ListUpcomingDue(ctx, bob.ID, since)
		if err != nil {
			t.Fatalf("ListUpcomingDue failed: %v", err)
		}
		if len(upcoming) != 1 || upcoming[0].GroupID != g2.ID {
			t.Fatalf("Expected the rent group, got %+v", upcoming)
		}

		// The first group has no due date and must not appear.
		for _, u := range upcoming {
			if u.GroupID == group.ID {
				t.Error("Group without due date appeared in upcoming list")
			}
		}
	})

	t.Run("CategoryStats aggregates without fan-out", func(t *testing.T) {
		stats, err := store.CategoryStats(ctx, alice.ID)
		if err != nil {
			t.Fatalf("CategoryStats failed: %v", err)
		}
		if len(stats) != 2 {
			t.Fatalf("Expected 2 categories, got %d", len(stats))
		}
		// Ordered by total, descending: housing (100) before food (90).
		if stats[0].Category != "housing" || stats[1].Category != "food" {
			t.Errorf("Unexpected order: %s, %s", stats[0].Category, stats[1].Category)
		}
		food := stats[1]
		if food.GroupCount != 1 {
			t.Errorf("GroupCount = %d, want 1", food.GroupCount)
		}
		if !food.TotalAmount.Equal(decimal.NewFromInt(90)) {
			t.Errorf("TotalAmount = %s, want 90", food.TotalAmount)
		}
		if food.PaidCount != 2 {
			t.Errorf("PaidCount = %d, want 2", food.PaidCount)
		}
		if !food.AmountPaid.Equal(decimal.NewFromInt(60)) {
			t.Errorf("AmountPaid = %s, want 60", food.AmountPaid)
		}
		if !food.AmountPending.Equal(decimal.NewFromInt(30)) {
			t.Errorf("AmountPending = %s, want 30", food.AmountPending)
		}
	})

	t.Run("DeleteGroupCascade removes all rows and counts them", func(t *testing.T) {
		payments, participants, err := store.DeleteGroupCascade(ctx, group.ID)
		if err != nil {
			t.Fatalf("DeleteGroupCascade failed: %v", err)
		}
		if payments != 2 || participants != 3 {
			t.Errorf("Deleted %d payments, %d participants, want 2 and 3", payments, participants)
		}

		_, err = store.GetGroup(ctx, group.ID)
		if !settlement.IsKind(err, settlement.NotFound) {
			t.Errorf("Expected NotFound after delete, got %v", err)
		}

		_, _, err = store.DeleteGroupCascade(ctx, group.ID)
		if !settlement.IsKind(err, settlement.NotFound) {
			t.Errorf("Expected NotFound on second delete, got %v", err)
		}
	})
}
