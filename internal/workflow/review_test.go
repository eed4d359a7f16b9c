package workflow

import (
	"context"
	"testing"

	"conference-app/internal/domain/conference"
)

func submitTestAbstract(t *testing.T, env *testEnv, email string) *AbstractResult {
	t.Helper()
	res, err := env.svc.SubmitAbstract(context.Background(), abstractInput(email), pdfUpload())
	if err != nil {
		t.Fatalf("SubmitAbstract: %v", err)
	}
	return res
}

func TestUpdateAbstractStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	res := submitTestAbstract(t, env, "review@example.org")

	out, err := env.svc.UpdateAbstractStatus(ctx, res.ID, "Revisions", "Shorten the methods section")
	if err != nil {
		t.Fatalf("UpdateAbstractStatus: %v", err)
	}
	if out.Status != conference.AbstractRevisions || out.RejectionComment != "Shorten the methods section" {
		t.Errorf("result = %+v", out)
	}

	// an empty comment is accepted for every status
	out, err = env.svc.UpdateAbstractStatus(ctx, res.ID, "Accepted", "")
	if err != nil {
		t.Fatalf("UpdateAbstractStatus: %v", err)
	}
	abs, err := env.svc.GetAbstract(ctx, res.ID)
	if err != nil {
		t.Fatal(err)
	}
	if abs.Status != conference.AbstractAccepted || abs.RejectionComment != "" {
		t.Errorf("stored = %s/%q", abs.Status, abs.RejectionComment)
	}
	if got := env.notifier.count("abstract_reviewed"); got != 2 {
		t.Errorf("review mails = %d, want 2", got)
	}
}

func TestUpdateAbstractStatusInvalid(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	res := submitTestAbstract(t, env, "invalid@example.org")

	_, err := env.svc.UpdateAbstractStatus(ctx, res.ID, "Published", "")
	assertKind(t, err, KindValidation)
	if err.Error() != "Invalid status value" {
		t.Errorf("message = %q", err.Error())
	}

	abs, _ := env.svc.GetAbstract(ctx, res.ID)
	if abs.Status != conference.AbstractInReview {
		t.Errorf("status changed to %s", abs.Status)
	}

	_, err = env.svc.UpdateAbstractStatus(ctx, 777, "Accepted", "")
	assertKind(t, err, KindNotFound)
}

func TestResubmitAbstractClearsComment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	res := submitTestAbstract(t, env, "resubmit@example.org")

	if _, err := env.svc.UpdateAbstractStatus(ctx, res.ID, "Rejected", "Out of scope"); err != nil {
		t.Fatal(err)
	}

	abs, err := env.svc.ResubmitAbstract(ctx, res.ID, "https://files.test/abstracts/new.pdf")
	if err != nil {
		t.Fatalf("ResubmitAbstract: %v", err)
	}
	if abs.Status != conference.AbstractInReview || abs.RejectionComment != "" {
		t.Errorf("result = %s/%q", abs.Status, abs.RejectionComment)
	}

	stored, _ := env.svc.GetAbstract(ctx, res.ID)
	if stored.FileURL != "https://files.test/abstracts/new.pdf" || stored.RejectionComment != "" {
		t.Errorf("stored = %q/%q", stored.FileURL, stored.RejectionComment)
	}

	_, err = env.svc.ResubmitAbstract(ctx, res.ID, " ")
	assertKind(t, err, KindValidation)
}

func TestResubmitInReviewAbstractClearsComment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	res := submitTestAbstract(t, env, "inreview@example.org")

	if _, err := env.svc.UpdateAbstractStatus(ctx, res.ID, "InReview", "Second reader assigned"); err != nil {
		t.Fatal(err)
	}
	before, _ := env.svc.GetAbstract(ctx, res.ID)
	if before.RejectionComment != "Second reader assigned" {
		t.Fatalf("comment before resubmission = %q", before.RejectionComment)
	}

	if _, err := env.svc.ResubmitAbstract(ctx, res.ID, "https://files.test/abstracts/v2.pdf"); err != nil {
		t.Fatalf("ResubmitAbstract: %v", err)
	}

	stored, _ := env.svc.GetAbstract(ctx, res.ID)
	if stored.Status != conference.AbstractInReview || stored.RejectionComment != "" {
		t.Errorf("stored = %s/%q", stored.Status, stored.RejectionComment)
	}
	if stored.FileURL != "https://files.test/abstracts/v2.pdf" {
		t.Errorf("fileUrl = %q", stored.FileURL)
	}
}
