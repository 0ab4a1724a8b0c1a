package workflow

import (
	domainwf "github.com/dinkominfo-bms/itsa-review/internal/domain/workflow"
)

// BuildReviewTable creates the transition table for the ITSA review lifecycle
func BuildReviewTable() domainwf.Table {
	builder := domainwf.NewBuilder()

	// submitted: admin decides; revision and rejection must explain why
	builder.Configure(domainwf.StateSubmitted).
		PermitWithReply(domainwf.StateRevision, domainwf.ByAdmin).
		Permit(domainwf.StateApproved, domainwf.ByAdmin).
		PermitWithReply(domainwf.StateRejected, domainwf.ByAdmin)

	// revision: the owner resubmits; the prior admin reply stays as history
	builder.Configure(domainwf.StateRevision).
		Permit(domainwf.StateSubmitted, domainwf.ByOwner)

	// approved: completion happens only through result attachment
	builder.Configure(domainwf.StateApproved).
		Permit(domainwf.StateCompleted, domainwf.Internal)

	// rejected and completed are terminal - no outgoing transitions

	return builder.Build()
}
