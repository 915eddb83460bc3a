package voucher_test

import (
	"testing"
	"time"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/voucher"
	"laundry/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	validFrom  = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	validUntil = time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC)
	midYear    = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
)

func baseTerms(kind voucher.Kind, value int64) voucher.Terms {
	return voucher.Terms{
		Kind:            kind,
		Value:           decimal.NewFromInt(value),
		MaxUsagePerUser: 1,
		TotalQuota:      100,
		ValidFrom:       validFrom,
		ValidUntil:      validUntil,
	}
}

func approvedVoucher(t *testing.T, terms voucher.Terms) *voucher.Voucher {
	t.Helper()
	v, err := voucher.NewVoucher(kernel.NewUUID(), kernel.NewUUID(), "hemat", terms)
	require.NoError(t, err)
	v.Approve()
	return v
}

func TestNewVoucher(t *testing.T) {
	t.Run("should normalise code and start unapproved", func(t *testing.T) {
		v, err := voucher.NewVoucher(kernel.NewUUID(), kernel.NewUUID(), "  hemat10 ", baseTerms(voucher.KindFixed, 5000))

		require.NoError(t, err)
		require.NoError(t, v.Validate())
		assert.Equal(t, "HEMAT10", v.Code())
		assert.True(t, v.IsActive())
		assert.False(t, v.IsApproved())
		assert.Equal(t, 0, v.UsedCount())
	})

	t.Run("should collect every invalid term", func(t *testing.T) {
		terms := baseTerms(voucher.KindUnknown, -1)
		terms.MaxUsagePerUser = 0
		terms.TotalQuota = 0
		terms.ValidUntil = validFrom.Add(-time.Hour)

		_, err := voucher.NewVoucher(kernel.NewUUID(), kernel.NewUUID(), "", terms)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		for _, field := range []string{"code", "voucherKind", "value", "maxUsagePerUser", "totalQuota", "validUntil"} {
			assert.Contains(t, err.Error(), field)
		}
	})

	t.Run("should reject percentage above 100", func(t *testing.T) {
		_, err := voucher.NewVoucher(kernel.NewUUID(), kernel.NewUUID(), "X", baseTerms(voucher.KindPercentage, 150))

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestVoucher_IsValid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(v *voucher.Voucher)
		now    time.Time
		want   bool
	}{
		{"approved and in window", func(*voucher.Voucher) {}, midYear, true},
		{"start instant is inclusive", func(*voucher.Voucher) {}, validFrom, true},
		{"end instant is inclusive", func(*voucher.Voucher) {}, validUntil, true},
		{"before window", func(*voucher.Voucher) {}, validFrom.Add(-time.Second), false},
		{"after window", func(*voucher.Voucher) {}, validUntil.Add(time.Second), false},
		{"deactivated", func(v *voucher.Voucher) { v.Deactivate() }, midYear, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := approvedVoucher(t, baseTerms(voucher.KindFixed, 5000))
			tt.mutate(v)

			assert.Equal(t, tt.want, v.IsValid(tt.now))
		})
	}

	t.Run("unapproved voucher is invalid", func(t *testing.T) {
		v, _ := voucher.NewVoucher(kernel.NewUUID(), kernel.NewUUID(), "X", baseTerms(voucher.KindFixed, 5000))

		assert.False(t, v.IsValid(midYear))
	})

	t.Run("exhausted quota is invalid", func(t *testing.T) {
		terms := baseTerms(voucher.KindFixed, 5000)
		terms.TotalQuota = 1
		v := approvedVoucher(t, terms)

		require.NoError(t, v.Redeem())

		assert.False(t, v.IsValid(midYear))
	})
}

func TestVoucher_CanBeUsedBy(t *testing.T) {
	terms := baseTerms(voucher.KindFixed, 5000)
	terms.MaxUsagePerUser = 2
	v := approvedVoucher(t, terms)

	assert.True(t, v.CanBeUsedBy(0, midYear))
	assert.True(t, v.CanBeUsedBy(1, midYear))
	assert.False(t, v.CanBeUsedBy(2, midYear))
	assert.False(t, v.CanBeUsedBy(0, validUntil.AddDate(0, 0, 1)))
}

func TestVoucher_CalculateDiscount(t *testing.T) {
	codFee := kernel.MoneyFromInt(7000)
	maxDiscount := kernel.MoneyFromInt(2000)

	tests := []struct {
		name   string
		terms  func() voucher.Terms
		amount int64
		weight string
		want   string
	}{
		{
			name:   "free shipping returns delivery fee",
			terms:  func() voucher.Terms { return baseTerms(voucher.KindFreeShipping, 0) },
			amount: 40000, weight: "5", want: "7000.00",
		},
		{
			name:   "percentage of order amount",
			terms:  func() voucher.Terms { return baseTerms(voucher.KindPercentage, 10) },
			amount: 15000, weight: "2", want: "1500.00",
		},
		{
			name: "percentage capped by max discount",
			terms: func() voucher.Terms {
				terms := baseTerms(voucher.KindPercentage, 10)
				terms.MaxDiscount = &maxDiscount
				return terms
			},
			amount: 40000, weight: "5", want: "2000.00",
		},
		{
			name: "zero max discount leaves percentage uncapped",
			terms: func() voucher.Terms {
				terms := baseTerms(voucher.KindPercentage, 10)
				zero := kernel.ZeroMoney()
				terms.MaxDiscount = &zero
				return terms
			},
			amount: 40000, weight: "5", want: "4000.00",
		},
		{
			name:   "fixed value",
			terms:  func() voucher.Terms { return baseTerms(voucher.KindFixed, 10000) },
			amount: 40000, weight: "5", want: "10000.00",
		},
		{
			name:   "free kg uses price per kilogram",
			terms:  func() voucher.Terms { return baseTerms(voucher.KindFreeKg, 1) },
			amount: 40000, weight: "5", want: "8000.00",
		},
		{
			name: "below minimum amount yields zero",
			terms: func() voucher.Terms {
				terms := baseTerms(voucher.KindFixed, 10000)
				terms.MinOrderAmount = kernel.MoneyFromInt(50000)
				return terms
			},
			amount: 40000, weight: "5", want: "0.00",
		},
		{
			name: "below minimum weight yields zero",
			terms: func() voucher.Terms {
				terms := baseTerms(voucher.KindFixed, 10000)
				terms.MinOrderWeight = decimal.NewFromInt(6)
				return terms
			},
			amount: 40000, weight: "5", want: "0.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := approvedVoucher(t, tt.terms())

			got := v.CalculateDiscount(kernel.MoneyFromInt(tt.amount), decimal.RequireFromString(tt.weight), codFee, midYear)

			assert.Equal(t, tt.want, got.String())
		})
	}

	t.Run("invalid voucher yields zero", func(t *testing.T) {
		v := approvedVoucher(t, baseTerms(voucher.KindFixed, 10000))
		v.Deactivate()

		got := v.CalculateDiscount(kernel.MoneyFromInt(40000), decimal.NewFromInt(5), codFee, midYear)

		assert.True(t, got.IsZero())
	})

	t.Run("free kg with zero weight yields zero", func(t *testing.T) {
		v := approvedVoucher(t, baseTerms(voucher.KindFreeKg, 1))

		got := v.DiscountFor(kernel.MoneyFromInt(40000), decimal.Zero, codFee)

		assert.True(t, got.IsZero())
	})

	t.Run("unknown kind restored from storage yields zero", func(t *testing.T) {
		v, err := voucher.RestoreVoucher(kernel.NewUUID(), kernel.NewUUID(), "LEGACY",
			baseTerms(voucher.Kind(42), 5000), 0, true, true)
		require.NoError(t, err)

		got := v.CalculateDiscount(kernel.MoneyFromInt(40000), decimal.NewFromInt(5), codFee, midYear)

		assert.True(t, got.IsZero())
	})
}

func TestVoucher_DiscountForIgnoresQuota(t *testing.T) {
	terms := baseTerms(voucher.KindFixed, 3000)
	terms.TotalQuota = 1
	v := approvedVoucher(t, terms)
	require.NoError(t, v.Redeem())

	assert.True(t, v.CalculateDiscount(kernel.MoneyFromInt(40000), decimal.NewFromInt(5), kernel.ZeroMoney(), midYear).IsZero())
	assert.Equal(t, "3000.00", v.DiscountFor(kernel.MoneyFromInt(40000), decimal.NewFromInt(5), kernel.ZeroMoney()).String())
}

func TestVoucher_Redeem(t *testing.T) {
	terms := baseTerms(voucher.KindFixed, 3000)
	terms.TotalQuota = 2
	v := approvedVoucher(t, terms)

	require.NoError(t, v.Redeem())
	require.NoError(t, v.Redeem())
	err := v.Redeem()

	require.ErrorIs(t, err, voucher.ErrVoucherQuotaExhausted)
	assert.Equal(t, 2, v.UsedCount())
}

func TestParseKind(t *testing.T) {
	k, err := voucher.ParseKind("percentage_discount")
	require.NoError(t, err)
	assert.Equal(t, voucher.KindPercentage, k)
	assert.Equal(t, "free_kg", voucher.KindFreeKg.String())

	k, err = voucher.ParseKind("cashback")
	require.Error(t, err)
	assert.Equal(t, voucher.KindUnknown, k)
}

func TestRestoreVoucher_RejectsNegativeUsage(t *testing.T) {
	_, err := voucher.RestoreVoucher(kernel.NewUUID(), kernel.NewUUID(), "X",
		baseTerms(voucher.KindFixed, 1), -1, true, true)

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
