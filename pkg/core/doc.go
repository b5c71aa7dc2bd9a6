// Package core defines the shared language of the statusrules system.
//
// This package contains:
//   - Rule conditions and their operators (Condition, Operator)
//   - The AND/OR tree produced from a rule cell (Node, OrGroup, RuleTree)
//   - The converted form of a spreadsheet row (StatusEntry)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
