package collective

import "testing"

func TestTierAtLeast(t *testing.T) {
	if TierObserver.AtLeast(TierReviewer) {
		t.Fatal("observer ranked at or above reviewer")
	}
	if TierContributor.AtLeast(TierReviewer) {
		t.Fatal("contributor ranked at or above reviewer")
	}
	if !TierReviewer.AtLeast(TierReviewer) {
		t.Fatal("reviewer should rank at least reviewer")
	}
	if !TierCore.AtLeast(TierObserver) {
		t.Fatal("core should rank above observer")
	}
	if Tier("unknown").AtLeast(TierObserver) {
		t.Fatal("unknown tier must never pass a rank check")
	}
}

func TestEnumValidity(t *testing.T) {
	valid := []bool{
		RoleAdmin.Valid(), RoleAuditor.Valid(), RoleClient.Valid(),
		TierObserver.Valid(), TierCore.Valid(),
		StatusApplied.Valid(), StatusRemoved.Valid(),
		AuditIntake.Valid(), AuditFinalized.Valid(),
		AssignmentLead.Valid(), AssignmentReviewer.Valid(),
		SeverityInfo.Valid(), SeverityCritical.Valid(),
		FindingDraft.Valid(), FindingRejected.Valid(),
		DecisionApprove.Valid(), DecisionRequestChanges.Valid(),
	}
	for i, ok := range valid {
		if !ok {
			t.Fatalf("expected valid enum at index %d", i)
		}
	}

	invalid := []bool{
		Role("superuser").Valid(),
		Tier("grandmaster").Valid(),
		UserStatus("banned").Valid(),
		AuditStatus("archived").Valid(),
		AssignmentType("auditor").Valid(),
		Severity("catastrophic").Valid(),
		FindingStatus("open").Valid(),
		ReviewDecision("defer").Valid(),
	}
	for i, ok := range invalid {
		if ok {
			t.Fatalf("expected invalid enum at index %d", i)
		}
	}
}
