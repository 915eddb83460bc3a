// Package services holds the stateless domain services of the marketplace.
//
// PricingEngine computes an order's price breakdown from the listing price,
// the COD fee schedule, the platform fee rate and an optional voucher.
// SettlementEngine computes the partner payout once an order is paid.
//
// Neither service performs I/O. Command handlers load the aggregates, call
// the service and persist the result inside one unit of work.
package services
