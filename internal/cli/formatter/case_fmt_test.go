package formatter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mbelozerov/caseline/internal/domain"
	"github.com/mbelozerov/caseline/internal/service"
	"github.com/mbelozerov/caseline/internal/testsvc"
)

func TestFormatDraft(t *testing.T) {
	remoteID := int64(501)
	suite := int64(8)
	c := &domain.CaseDraft{
		ID:    3,
		Title: "Checkout works",
		Steps: []domain.CaseStep{
			{Action: "Pay", Expected: "Receipt shown"},
		},
		Preconditions:  "Cart is filled",
		ExpectedResult: "Order placed",
		TestType:       domain.TestNegative,
		Status:         domain.CasePending,
		SuiteID:        &suite,
		RemoteCaseID:   &remoteID,
	}

	out := FormatDraft(c)
	assert.Contains(t, out, "Checkout works")
	assert.Contains(t, out, "PENDING")
	assert.Contains(t, out, "negative")
	assert.Contains(t, out, "Cart is filled")
	assert.Contains(t, out, "Pay")
	assert.Contains(t, out, "Receipt shown")
	assert.Contains(t, out, "suite #8")
	assert.Contains(t, out, "remote case #501")
}

func TestFormatRemoteCases(t *testing.T) {
	out := FormatRemoteCases([]testsvc.RemoteCase{
		{ID: 501, Title: "Login", TestType: domain.TestPositive, AssignedTo: "Dana Lee"},
	})
	assert.Contains(t, out, "501")
	assert.Contains(t, out, "Dana Lee")

	assert.Contains(t, FormatRemoteCases(nil), "No test cases")
}

func TestFormatDraftList_Empty(t *testing.T) {
	assert.Contains(t, FormatDraftList(nil), "No drafts")
}

func TestFormatReviewQueue(t *testing.T) {
	suite := int64(8)
	batches := []service.ReviewBatch{
		{SuiteID: &suite, AuthorID: 1, Cases: []*domain.CaseDraft{{ID: 3, Title: "first"}}},
		{AuthorID: 2, Cases: []*domain.CaseDraft{{ID: 4, Title: "second"}}},
	}

	out := FormatReviewQueue(batches, map[int64]string{1: "tess"})
	assert.Contains(t, out, "Batch 1")
	assert.Contains(t, out, "suite #8")
	assert.Contains(t, out, "tess")
	// Unknown author falls back to the id.
	assert.Contains(t, out, "#2")
	assert.Contains(t, out, "no suite")

	assert.Contains(t, FormatReviewQueue(nil, nil), "Nothing waiting")
}

func TestFormatBatchResult(t *testing.T) {
	assert.Contains(t, FormatBatchResult(3, 3, nil), "all 3")
	assert.Contains(t, FormatBatchResult(1, 3, errors.New("boom")), "Stopped after 1 of 3")
}

func TestFormatDecision(t *testing.T) {
	remoteID := int64(501)
	approved := &domain.CaseDraft{Title: "a", Status: domain.CaseApproved, RemoteCaseID: &remoteID}
	assert.Contains(t, FormatDecision(approved), "approved")
	assert.Contains(t, FormatDecision(approved), "#501")

	rejected := &domain.CaseDraft{Title: "b", Status: domain.CaseRejected}
	assert.Contains(t, FormatDecision(rejected), "rejected")
}
