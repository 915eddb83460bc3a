package queries

import (
	"context"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/payout"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type GetPartnerEarningsQueryHandler struct {
	db *gorm.DB
}

func NewGetPartnerEarningsQueryHandler(db *gorm.DB) GetPartnerEarningsQueryHandler {
	return GetPartnerEarningsQueryHandler{db: db}
}

// Handle aggregates in the database. A partner without payouts gets zeros.
func (h GetPartnerEarningsQueryHandler) Handle(
	ctx context.Context,
	query GetPartnerEarningsQuery,
) (GetPartnerEarningsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetPartnerEarningsQueryResponse{}, err
	}

	resp := GetPartnerEarningsQueryResponse{
		PartnerID:  query.PartnerID(),
		Pending:    kernel.ZeroMoney(),
		Processing: kernel.ZeroMoney(),
		Completed:  kernel.ZeroMoney(),
		Total:      kernel.ZeroMoney(),
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			status,
			COUNT(*),
			COALESCE(SUM(earning), 0)
		FROM payouts
		WHERE partner_id = ? AND status IN ?
		GROUP BY status
	`, query.PartnerID().Bytes(), []string{
		payout.StatusPending.String(),
		payout.StatusProcessing.String(),
		payout.StatusCompleted.String(),
	}).Rows()
	if err != nil {
		return GetPartnerEarningsQueryResponse{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		var sum decimal.Decimal

		if err = rows.Scan(&status, &count, &sum); err != nil {
			return GetPartnerEarningsQueryResponse{}, err
		}

		amount, moneyErr := kernel.NewMoney(sum)
		if moneyErr != nil {
			return GetPartnerEarningsQueryResponse{}, moneyErr
		}
		switch status {
		case payout.StatusPending.String():
			resp.Pending = amount
		case payout.StatusProcessing.String():
			resp.Processing = amount
		case payout.StatusCompleted.String():
			resp.Completed = amount
		}
		resp.Total = resp.Total.Add(amount)
		resp.Payouts += count
	}

	if err = rows.Err(); err != nil {
		return GetPartnerEarningsQueryResponse{}, err
	}

	return resp, nil
}
