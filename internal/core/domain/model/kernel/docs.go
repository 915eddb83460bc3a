// Package kernel provides the shared value objects of the laundry marketplace domain.
//
// The package includes:
//   - UUID: identifier value object for every aggregate
//   - Money: exact currency amounts backed by shopspring/decimal
//   - Coordinates: latitude/longitude pairs and the haversine distance between them
//   - Actor and Role: the customer, partner or admin behind an operation, with capability checks
//
// All value objects are immutable. Those with a constructor guard fail Validate
// when created as zero values.
package kernel
