// Package models defines the core domain models for the pizzeria ordering widget.
//
// # Menu Models
//
// The menu is described by immutable product schemas:
//   - Product: a purchasable item with a base price and option categories
//   - Category: an ordered group of related options (e.g., "sauce")
//   - Option: a single variation carrying a price delta and a default flag
//
// A Product's BasePrice already includes the cost of every option marked as
// Default. Pricing only ever adds the delta of extra options and subtracts the
// delta of removed defaults.
//
// # Order Models
//
//   - Selection: the options a user currently has checked, per category
//   - LineItem: one configured product plus quantity inside a cart
//   - OrderPayload: the JSON document submitted to the backend
//   - Order: a payload persisted by the backend
//
// # Design Principles
//
// 1. **Ordered schemas**: categories and options are slices so the menu order
// of the source data survives into summaries and payloads
// 2. **Derived values are methods**: totals such as LineItem.TotalPrice are
// computed on demand and never stored
// 3. **IDs instead of pointers**: relationships use string IDs
package models
