// Package registry answers which scalar binding reads or writes a host type.
//
// Lookups follow a fixed order:
//  1. the absence type gets a no-op binding,
//  2. enumerations get a fresh dedicated binding,
//  3. the table is scanned for a structurally equal entry, optionally
//     filtered by data kind,
//  4. anything else cannot be bound and yields nil.
//
// A pointer to a bindable type is its nullable form: reads check for NULL
// and writes bind NULL for nil.
package registry
