package main

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"iter"
	"math/big"
	"net/url"
	"os"
	"reflect"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/creachadair/mds/mapset"
	"github.com/danderson/dynser"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// readInput decodes the YAML (or JSON) document named by args, or
// stdin if args is empty.
func readInput(args []string) (any, error) {
	switch len(args) {
	case 0:
		return decodeInput(os.Stdin)
	case 1:
		f, err := os.Open(args[0])
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return decodeInput(f)
	default:
		return nil, errors.New("too many arguments")
	}
}

// decodeInput decodes the first YAML document in r. An empty input
// decodes to nil.
func decodeInput(r io.Reader) (any, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parsing input: %w", err)
	}
	nr := nodeReader{active: map[*yaml.Node]bool{}}
	return nr.value(&doc, 0)
}

// maxAliasValues bounds the number of values produced by expanding
// aliases.
const maxAliasValues = 1 << 18

// nodeReader converts YAML nodes into the values dynser
// serializes. Mappings with string keys become *dynser.Map, so that
// document order is preserved in the output.
type nodeReader struct {
	// active are the anchored nodes currently being converted.
	active map[*yaml.Node]bool
	// inAlias is the number of aliases being expanded.
	inAlias int
	// aliased is the number of values produced under an alias.
	aliased int
}

// value converts n, which is nested in depth containers.
func (r *nodeReader) value(n *yaml.Node, depth int) (any, error) {
	if n.Anchor != "" {
		r.active[n] = true
		defer delete(r.active, n)
	}
	if r.inAlias > 0 {
		r.aliased++
		if r.aliased > maxAliasValues {
			return nil, fmt.Errorf("line %d: aliases expand to more than %d values", n.Line, maxAliasValues)
		}
	}
	if (n.Kind == yaml.MappingNode || n.Kind == yaml.SequenceNode) && depth >= dynser.MaxDepth {
		return nil, fmt.Errorf("line %d: nesting deeper than %d", n.Line, dynser.MaxDepth)
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return r.value(n.Content[0], depth)
	case yaml.AliasNode:
		if r.active[n.Alias] {
			return nil, fmt.Errorf("line %d: alias *%s refers to itself", n.Line, n.Value)
		}
		r.inAlias++
		defer func() { r.inAlias-- }()
		return r.value(n.Alias, depth)
	case yaml.MappingNode:
		return r.mapping(n, depth)
	case yaml.SequenceNode:
		items := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := r.value(c, depth+1)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		switch n.Tag {
		case "!set", "!frozenset":
			for i, v := range items {
				if v != nil && !reflect.ValueOf(v).Comparable() {
					return nil, fmt.Errorf("line %d: set member %d is not hashable", n.Content[i].Line, i)
				}
			}
		}
		switch n.Tag {
		case "!tuple":
			return dynser.Tuple(items), nil
		case "!set":
			return mapset.New(items...), nil
		case "!frozenset":
			return dynser.NewFrozenSet(items...), nil
		}
		return items, nil
	case yaml.ScalarNode:
		v, err := scalarValue(n)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("line %d: unknown YAML node kind %v", n.Line, n.Kind)
	}
}

// mapping converts a mapping node. Keys keep their YAML type, so
// that the serializer applies its own key rules to them.
func (r *nodeReader) mapping(n *yaml.Node, depth int) (any, error) {
	var (
		ents       keyedMap
		allStrings = true
	)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: mapping keys must be scalars", k.Line)
		}
		kv, err := scalarValue(k)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", k.Line, err)
		}
		if _, ok := kv.(string); !ok {
			allStrings = false
		}
		val, err := r.value(v, depth+1)
		if err != nil {
			return nil, err
		}
		ents = append(ents, [2]any{kv, val})
	}
	if !allStrings {
		return ents, nil
	}
	m := dynser.NewMap()
	for _, ent := range ents {
		m.Set(ent[0].(string), ent[1])
	}
	return m, nil
}

// keyedMap is a mapping with at least one non-string key, in
// document order.
type keyedMap [][2]any

func (m keyedMap) Len() int { return len(m) }

func (m keyedMap) Items() iter.Seq2[any, any] {
	return func(yield func(any, any) bool) {
		for _, ent := range m {
			if !yield(ent[0], ent[1]) {
				return
			}
		}
	}
}

func scalarValue(n *yaml.Node) (any, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		err := n.Decode(&b)
		return b, err
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return i, nil
		}
		b, ok := new(big.Int).SetString(strings.ReplaceAll(n.Value, "_", ""), 0)
		if !ok {
			return nil, fmt.Errorf("invalid integer %q", n.Value)
		}
		return b, nil
	case "!!float":
		// Integers too large for 64 bits resolve as floats.
		if b, ok := new(big.Int).SetString(n.Value, 10); ok {
			return b, nil
		}
		var f float64
		err := n.Decode(&f)
		return f, err
	case "!!binary":
		return base64.StdEncoding.DecodeString(strings.Join(strings.Fields(n.Value), ""))
	case "!!timestamp":
		var t time.Time
		err := n.Decode(&t)
		return t, err
	case "!date":
		return civil.ParseDate(n.Value)
	case "!time":
		return civil.ParseTime(n.Value)
	case "!datetime":
		return civil.ParseDateTime(n.Value)
	case "!duration":
		return time.ParseDuration(n.Value)
	case "!uuid":
		return uuid.Parse(n.Value)
	case "!url":
		return url.Parse(n.Value)
	default:
		return n.Value, nil
	}
}
