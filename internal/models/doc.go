// Package models defines the core domain models for sharefare.
//
// # Models
//
//   - User: Registered user account
//   - Share: A group of users tracking expenses together in one currency
//   - Fare: A single expense within a share, paid by one participant and
//     split equally among a subset of participants
//
// # Design Principles
//
// 1. **Avoid circular references**: Use ID strings instead of pointers for relationships
// 2. **Money is decimal**: Amounts are shopspring decimals, never float64
// 3. **Order is data**: Participant and split lists keep their insertion order
package models
