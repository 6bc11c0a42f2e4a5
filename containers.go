package dynser

import (
	"reflect"

	"github.com/creachadair/mds/mapset"
	"github.com/danderson/dynser/fragments"
)

// The walkers below expect s to already be one level deeper than the
// container they walk.

func (s state) reflectMap(vis fragments.Visitor, v reflect.Value) error {
	n := v.Len()
	if n == 0 {
		return emptyMap(vis)
	}
	if err := vis.BeginMap(n); err != nil {
		return err
	}
	iter := v.MapRange()
	for iter.Next() {
		if err := key(vis, iter.Key()); err != nil {
			return err
		}
		if err := s.value(vis, iter.Value()); err != nil {
			return err
		}
	}
	return vis.EndMap()
}

func (s state) mapLike(vis fragments.Visitor, m MapLike) error {
	n := m.Len()
	if n == 0 {
		return emptyMap(vis)
	}
	if err := vis.BeginMap(n); err != nil {
		return err
	}
	for k, v := range m.Items() {
		if err := key(vis, reflect.ValueOf(k)); err != nil {
			return err
		}
		if err := s.value(vis, reflect.ValueOf(v)); err != nil {
			return err
		}
	}
	return vis.EndMap()
}

func (s state) reflectSeq(vis fragments.Visitor, v reflect.Value) error {
	n := v.Len()
	if n == 0 {
		return emptySeq(vis)
	}
	if err := vis.BeginSeq(n); err != nil {
		return err
	}
	for i := range n {
		if err := s.value(vis, v.Index(i)); err != nil {
			return err
		}
	}
	return vis.EndSeq()
}

func (s state) seqLike(vis fragments.Visitor, q SeqLike) error {
	n := q.Len()
	if n == 0 {
		return emptySeq(vis)
	}
	if err := vis.BeginSeq(n); err != nil {
		return err
	}
	for v := range q.Items() {
		if err := s.value(vis, reflect.ValueOf(v)); err != nil {
			return err
		}
	}
	return vis.EndSeq()
}

func (s state) reflectSet(vis fragments.Visitor, set mapset.Set[any]) error {
	if len(set) == 0 {
		return emptySeq(vis)
	}
	if err := vis.BeginSeq(len(set)); err != nil {
		return err
	}
	for v := range set {
		if err := s.value(vis, reflect.ValueOf(v)); err != nil {
			return err
		}
	}
	return vis.EndSeq()
}

func emptyMap(vis fragments.Visitor) error {
	if err := vis.BeginMap(0); err != nil {
		return err
	}
	return vis.EndMap()
}

func emptySeq(vis fragments.Visitor) error {
	if err := vis.BeginSeq(0); err != nil {
		return err
	}
	return vis.EndSeq()
}
