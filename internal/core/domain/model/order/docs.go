// Package order provides the Order aggregate of the laundry marketplace: its
// price breakdown, status lifecycle and append-only status history.
//
// The package includes:
//   - Order: The aggregate root owning details, pricing, payment flag and history
//   - Status: The lifecycle pending -> picked_up -> processing -> ready -> in_transit -> delivered,
//     with cancelled reachable from any non-terminal state
//   - Pricing: The immutable breakdown laundry + cod + platform - discount
//   - PaymentMethod: COD or one of the online channels
//
// Key business rules:
//   - Partners and admins move orders forward, possibly skipping steps
//   - Only the ordering customer confirms delivery, and only from ready or in_transit
//   - A delivered COD order is paid; online orders are paid on payment verification
//   - Weight and distance may be corrected only before processing starts and while unpaid
package order
