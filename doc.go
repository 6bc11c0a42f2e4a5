// Package dynser serializes dynamically typed Go values into
// structured output.
//
// The values dynser walks have no declared schema: they are maps,
// slices, scalars, structs and domain values (dates, times,
// durations, UUIDs, URLs) nested in arbitrary ways, typically
// produced by decoding untyped input or by a scripting layer. dynser
// walks such a value and emits it through a [fragments.Visitor], the
// token stream consumed by concrete encoders such as package
// jsontext.
//
// Every value's exact type is first looked up in a fixed type table
// built once per process (see [Lookup]). Values of other types are
// probed by behavior: [Marshaler], map-like, sequence-like and
// struct-like values are all serialized without registration. What
// remains can be handled by [Options.Default].
//
// Walks are bounded: nesting deeper than [MaxDepth] compound values,
// including any self-referential value, fails with a
// [RecursionError] rather than exhausting the stack.
//
// Extension types (civil dates and times, time.Time, time.Duration,
// uuid.UUID, url.URL) can be removed from the type table by building
// with the dynser_noext tag.
package dynser
