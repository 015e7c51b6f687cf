// SPDX-License-Identifier: MPL-2.0

// Package issue turns failures into messages a user can act on.
//
// ActionableError carries the failed operation, the resource involved and
// suggested fixes; the Markdown catalog (Get, Values) explains recurring
// problems such as a missing JDK or unresolved dependencies at length and is
// rendered for the terminal with glamour.
package issue
