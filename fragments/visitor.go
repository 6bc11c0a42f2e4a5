package fragments

// A Visitor receives the structured output of a serialization walk.
//
// Maps are delivered as BeginMap, then alternating Key and value
// calls, then EndMap. Sequences are delivered as BeginSeq, one value
// call per element, then EndSeq. A value call is either one of the
// scalar methods, or a nested BeginMap/BeginSeq.
//
// The length given to BeginMap and BeginSeq is the number of entries
// that follow, or -1 if the producer does not know it in advance.
//
// Any error returned by a Visitor method aborts the walk, and is
// returned unchanged to the walk's caller.
type Visitor interface {
	BeginMap(n int) error
	Key(k string) error
	EndMap() error

	BeginSeq(n int) error
	EndSeq() error

	Null() error
	Bool(b bool) error
	Int(i int64) error
	Uint(u uint64) error
	Float(f float64) error
	String(s string) error
	Bytes(bs []byte) error
}
