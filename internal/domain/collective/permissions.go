package collective

// Authorization rules, each a pure predicate of the caller (and, where the
// rule depends on a resource, the relevant fact about it). Handlers never
// inspect role or tier directly.

func CanManageUsers(u User) bool {
	return u.Role == RoleAdmin
}

func CanReviewVetting(u User) bool {
	return u.Role == RoleAdmin
}

func CanCreateAudit(u User) bool {
	return u.Role == RoleAdmin || u.Role == RoleClient
}

func CanAssignAuditors(u User) bool {
	return u.Role == RoleAdmin
}

// CanReportFinding gates finding creation: the caller must hold an
// assignment on the parent audit unless they are an admin.
func CanReportFinding(u User, assigned bool) bool {
	return assigned || u.Role == RoleAdmin
}

// CanReviewFinding gates the review transition on tier alone; an admin with
// tier observer cannot review.
func CanReviewFinding(u User) bool {
	return u.Tier.AtLeast(TierReviewer)
}
