package queries

import (
	"errors"
	"fmt"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/pkg/guard"
)

var (
	ErrGetPartnerEarningsQueryIsNotConstructed = errors.New(
		"GetPartnerEarningsQuery must be created via NewGetPartnerEarningsQuery constructor",
	)
)

// GetPartnerEarningsQuery sums a partner's payouts by transfer status.
// Partners may only ask about themselves.
type GetPartnerEarningsQuery struct { //nolint:recvcheck //using for validation
	partnerID kernel.UUID
	guard     guard.ConstructorGuard
}

func NewGetPartnerEarningsQuery(partnerID kernel.UUID, actor kernel.Actor) (GetPartnerEarningsQuery, error) {
	if err := errors.Join(partnerID.Validate(), actor.Require(kernel.CapViewEarnings)); err != nil {
		return GetPartnerEarningsQuery{}, err
	}
	if actor.Role() == kernel.RolePartner && !actor.ID().IsEqual(partnerID) {
		return GetPartnerEarningsQuery{}, fmt.Errorf("%w: partner %s cannot view earnings of %s",
			kernel.ErrForbidden, actor.ID(), partnerID)
	}
	return GetPartnerEarningsQuery{
		partnerID: partnerID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetPartnerEarningsQuery) Validate() error {
	return q.guard.Validate(ErrGetPartnerEarningsQueryIsNotConstructed)
}

func (q GetPartnerEarningsQuery) PartnerID() kernel.UUID {
	return q.partnerID
}

// GetPartnerEarningsQueryResponse holds partner earnings (gross minus
// platform fee) per payout status. Failed payouts are not counted.
type GetPartnerEarningsQueryResponse struct {
	PartnerID  kernel.UUID
	Pending    kernel.Money
	Processing kernel.Money
	Completed  kernel.Money
	Total      kernel.Money
	Payouts    int
}
