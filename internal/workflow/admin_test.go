package workflow

import (
	"context"
	"fmt"
	"testing"
	"time"

	"conference-app/internal/domain/billing"
	"conference-app/internal/domain/conference"

	"github.com/shopspring/decimal"
)

func TestTransactionsByUserAndReceipt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	reg := mustRegister(t, env, "ledger@example.org", "Student")

	list, err := env.svc.ListTransactionsByUser(ctx, reg.ID, "")
	if err != nil || len(list) != 1 {
		t.Fatalf("list = %v, %v", list, err)
	}
	pending, err := env.svc.ListTransactionsByUser(ctx, reg.ID, "Completed")
	if err != nil || len(pending) != 0 {
		t.Fatalf("completed = %v, %v", pending, err)
	}
	_, err = env.svc.ListTransactionsByUser(ctx, reg.ID, "Paid")
	assertKind(t, err, KindValidation)

	_, err = env.svc.GetReceipt(ctx, list[0].ID)
	assertKind(t, err, KindNotFound)

	order := initiate(t, env, reg.ID)
	if _, err := env.svc.ConfirmPayment(ctx, PaymentCallback{OrderID: order.OrderID, PaymentID: "pay_r", Status: "captured"}); err != nil {
		t.Fatal(err)
	}

	receipt, err := env.svc.GetReceipt(ctx, list[0].ID)
	if err != nil {
		t.Fatalf("GetReceipt: %v", err)
	}
	if receipt.RegistrationCode != reg.Code || receipt.PaymentID != "pay_r" || !receipt.Amount.Equal(decimal.NewFromInt(2500)) {
		t.Errorf("receipt = %+v", receipt)
	}

	tx, err := env.svc.GetTransaction(ctx, list[0].ID)
	if err != nil || tx.PaymentStatus != conference.PaymentCompleted {
		t.Fatalf("transaction = %v, %v", tx, err)
	}
	_, err = env.svc.GetTransaction(ctx, 31337)
	assertKind(t, err, KindNotFound)
}

func TestListRegistrationsCappedNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < listLimit+5; i++ {
		reg := conference.Registration{
			Code:       fmt.Sprintf("PHAR-2026-%05d", 10000+i),
			Salutation: "Ms.", FullName: "R", Email: "bulk" + itoa(uint(i)) + "@example.org", Phone: "1",
			Affiliation: "a", Designation: "d", Institute: "i", Address: "a", City: "c", State: "s",
			Country: "c", PostalCode: "p", RegistrationType: conference.TypeGuest,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		if err := env.db.Create(&reg).Error; err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	list, err := env.svc.ListRegistrations(ctx, RegistrationFilter{})
	if err != nil {
		t.Fatalf("ListRegistrations: %v", err)
	}
	if len(list) != listLimit {
		t.Fatalf("len = %d, want %d", len(list), listLimit)
	}
	if list[0].Email != "bulk"+itoa(listLimit+4)+"@example.org" {
		t.Errorf("first = %s, want the newest", list[0].Email)
	}

	_, err = env.svc.ListRegistrations(ctx, RegistrationFilter{PaymentStatus: "Paid"})
	assertKind(t, err, KindValidation)
}

func TestListAbstractsFilter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := submitTestAbstract(t, env, "a@example.org")
	submitTestAbstract(t, env, "b@example.org")
	if _, err := env.svc.UpdateAbstractStatus(ctx, a.ID, "Accepted", ""); err != nil {
		t.Fatal(err)
	}

	accepted, err := env.svc.ListAbstracts(ctx, "Accepted")
	if err != nil || len(accepted) != 1 || accepted[0].ID != a.ID {
		t.Fatalf("accepted = %v, %v", accepted, err)
	}
	all, err := env.svc.ListAbstracts(ctx, "")
	if err != nil || len(all) != 2 {
		t.Fatalf("all = %v, %v", all, err)
	}
	_, err = env.svc.ListAbstracts(ctx, "Draft")
	assertKind(t, err, KindValidation)
}

func TestUpdateRegistrationStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	reg := mustRegister(t, env, "confirm@example.org", "Academic")

	out, err := env.svc.UpdateRegistrationStatus(ctx, reg.ID, "Confirmed")
	if err != nil || out.RegistrationStatus != conference.RegistrationConfirmed {
		t.Fatalf("update = %v, %v", out, err)
	}
	_, err = env.svc.UpdateRegistrationStatus(ctx, reg.ID, "Approved")
	assertKind(t, err, KindValidation)
	_, err = env.svc.UpdateRegistrationStatus(ctx, 404, "Confirmed")
	assertKind(t, err, KindNotFound)
}

func TestDeleteRegistrationUnlinksAbstracts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	reg := mustRegister(t, env, "gone@example.org", "Student")
	abs := submitTestAbstract(t, env, "gone@example.org")

	if err := env.svc.DeleteRegistration(ctx, reg.ID); err != nil {
		t.Fatalf("DeleteRegistration: %v", err)
	}
	_, err := env.svc.GetRegistration(ctx, reg.ID)
	assertKind(t, err, KindNotFound)

	var n int64
	env.db.Model(&billing.Transaction{}).Where("registration_id = ?", reg.ID).Count(&n)
	if n != 0 {
		t.Errorf("transactions left = %d", n)
	}

	kept, err := env.svc.GetAbstract(ctx, abs.ID)
	if err != nil {
		t.Fatalf("abstract removed with registration: %v", err)
	}
	if kept.RegistrationID != nil || kept.RegistrationCompleted {
		t.Errorf("abstract still linked: %v/%v", kept.RegistrationID, kept.RegistrationCompleted)
	}

	if err := env.svc.DeleteAbstract(ctx, abs.ID); err != nil {
		t.Fatalf("DeleteAbstract: %v", err)
	}
	assertKind(t, env.svc.DeleteAbstract(ctx, abs.ID), KindNotFound)
}

func TestStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	student := mustRegister(t, env, "s@example.org", "Student")
	mustRegister(t, env, "g@example.org", "Guest")
	mustRegister(t, env, "i@example.org", "Industry")
	submitTestAbstract(t, env, "s@example.org")

	order := initiate(t, env, student.ID)
	if _, err := env.svc.ConfirmPayment(ctx, PaymentCallback{OrderID: order.OrderID, PaymentID: "pay_s", Status: "captured"}); err != nil {
		t.Fatal(err)
	}

	st, err := env.svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.Registrations != 3 || st.Abstracts != 1 {
		t.Errorf("totals = %d/%d", st.Registrations, st.Abstracts)
	}
	if st.ByCategory["Student"] != 1 || st.ByCategory["Guest"] != 1 {
		t.Errorf("by category = %v", st.ByCategory)
	}
	if st.ByPaymentStatus["Completed"] != 2 || st.ByPaymentStatus["Pending"] != 1 {
		t.Errorf("by payment = %v", st.ByPaymentStatus)
	}
	if !st.CollectedAmount.Equal(decimal.NewFromInt(2500)) || st.CompletedPayments != 1 {
		t.Errorf("collected = %s over %d", st.CollectedAmount, st.CompletedPayments)
	}
}
