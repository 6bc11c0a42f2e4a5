// package fragments provides the structured output contract that the
// dynser walker emits into, and low-level helpers around it.
//
// A [Visitor] receives a stream of map, sequence and scalar tokens.
// Concrete encoders (JSON text, URL forms, ...) implement Visitor.
// [Builder] is a Visitor that materialises the stream into a [Value]
// tree, which can be inspected, key-sorted and replayed into another
// Visitor.
//
// You should not need to use this package directly unless you are
// writing your own encoder, or a dynser.Marshaler implementation, in
// which case your code will be handed an [Encoder] and expected to
// produce well-formed output with it.
package fragments
