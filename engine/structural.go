// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package engine

import (
	"fmt"
	"reflect"

	"rivaas.dev/structive/stateref"
)

// structTag is the optional struct-field tag used to map a Go field name
// to a path segment that doesn't match it verbatim (mirroring the
// teacher's config package's use of mapstructure tags for key aliasing).
const structTag = "structive"

// structuralGet walks root following ref.Info.PathSegments when no
// explicit Getter is registered for ref.Info.Pattern (spec §4.5: "walk
// parentRef -> child-segment structurally"). Struct fields, map keys, and
// slice/array elements are all supported; wildcard segments consume the
// next position from ref.ListIndex's Indexes(), in wildcard ordinal order.
func structuralGet(root any, ref *stateref.Ref) (any, error) {
	indexes := wildcardIndexes(ref)
	v := reflect.ValueOf(root)
	wc := 0
	for _, seg := range ref.Info.PathSegments {
		var err error
		v, wc, err = step(v, seg, indexes, wc)
		if err != nil {
			return nil, err
		}
	}
	if !v.IsValid() {
		return nil, nil
	}
	return v.Interface(), nil
}

// structuralSet mirrors structuralGet but writes value into the final
// segment's slot.
func structuralSet(root any, ref *stateref.Ref, value any) error {
	indexes := wildcardIndexes(ref)
	v := reflect.ValueOf(root)
	wc := 0
	segs := ref.Info.PathSegments
	for i := 0; i < len(segs)-1; i++ {
		var err error
		v, wc, err = step(v, segs[i], indexes, wc)
		if err != nil {
			return err
		}
	}
	last := segs[len(segs)-1]
	return assign(v, last, indexes, wc, value)
}

func wildcardIndexes(ref *stateref.Ref) []int {
	if ref.ListIndex == nil {
		return nil
	}
	return ref.ListIndex.Indexes()
}

// step dereferences v by one path segment, returning the next value, the
// updated wildcard-ordinal counter, and an error if the segment cannot be
// resolved.
func step(v reflect.Value, seg string, indexes []int, wc int) (reflect.Value, int, error) {
	v = deref(v)
	if !v.IsValid() {
		return reflect.Value{}, wc, fmt.Errorf("structural: nil value while resolving segment %q", seg)
	}

	if seg == "*" {
		if wc >= len(indexes) {
			return reflect.Value{}, wc, fmt.Errorf("structural: missing list index for wildcard segment %d", wc)
		}
		idx := indexes[wc]
		wc++
		v = deref(v)
		switch v.Kind() {
		case reflect.Slice, reflect.Array:
			if idx < 0 || idx >= v.Len() {
				return reflect.Value{}, wc, fmt.Errorf("structural: index %d out of range (len %d)", idx, v.Len())
			}
			return v.Index(idx), wc, nil
		default:
			return reflect.Value{}, wc, fmt.Errorf("structural: segment %q is not a list (kind %s)", seg, v.Kind())
		}
	}

	switch v.Kind() {
	case reflect.Map:
		mv := v.MapIndex(reflect.ValueOf(seg).Convert(v.Type().Key()))
		return mv, wc, nil
	case reflect.Struct:
		fv := fieldByPathSegment(v, seg)
		if !fv.IsValid() {
			return reflect.Value{}, wc, fmt.Errorf("structural: no field matching segment %q on %s", seg, v.Type())
		}
		return fv, wc, nil
	default:
		return reflect.Value{}, wc, fmt.Errorf("structural: cannot descend into kind %s for segment %q", v.Kind(), seg)
	}
}

func assign(v reflect.Value, seg string, indexes []int, wc int, value any) error {
	v = deref(v)
	if !v.IsValid() {
		return fmt.Errorf("structural: nil value while assigning segment %q", seg)
	}

	if seg == "*" {
		if wc >= len(indexes) {
			return fmt.Errorf("structural: missing list index for wildcard segment %d", wc)
		}
		idx := indexes[wc]
		if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
			return fmt.Errorf("structural: segment %q is not a list (kind %s)", seg, v.Kind())
		}
		if idx < 0 || idx >= v.Len() {
			return fmt.Errorf("structural: index %d out of range (len %d)", idx, v.Len())
		}
		return setReflect(v.Index(idx), value)
	}

	switch v.Kind() {
	case reflect.Map:
		v.SetMapIndex(reflect.ValueOf(seg).Convert(v.Type().Key()), reflect.ValueOf(value))
		return nil
	case reflect.Struct:
		fv := fieldByPathSegment(v, seg)
		if !fv.IsValid() {
			return fmt.Errorf("structural: no field matching segment %q on %s", seg, v.Type())
		}
		return setReflect(fv, value)
	default:
		return fmt.Errorf("structural: cannot assign into kind %s for segment %q", v.Kind(), seg)
	}
}

func setReflect(dst reflect.Value, value any) error {
	if !dst.CanSet() {
		return fmt.Errorf("structural: destination field is not settable (did you pass a pointer?)")
	}
	rv := reflect.ValueOf(value)
	if !rv.IsValid() {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}
	if rv.Type().AssignableTo(dst.Type()) {
		dst.Set(rv)
		return nil
	}
	if rv.Type().ConvertibleTo(dst.Type()) {
		dst.Set(rv.Convert(dst.Type()))
		return nil
	}
	return fmt.Errorf("structural: cannot assign %s into %s", rv.Type(), dst.Type())
}

func deref(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return v
		}
		v = v.Elem()
	}
	return v
}

// fieldByPathSegment finds the struct field matching seg: first by an
// exact `structive:"seg"` tag, then by case-insensitive name match with
// seg's first letter capitalized (Go exported-field convention).
func fieldByPathSegment(v reflect.Value, seg string) reflect.Value {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if tag := f.Tag.Get(structTag); tag == seg {
			return v.Field(i)
		}
	}
	exported := capitalize(seg)
	if fv := v.FieldByName(exported); fv.IsValid() {
		return fv
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if sameLower(f.Name, seg) {
			return v.Field(i)
		}
	}
	return reflect.Value{}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}

func sameLower(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		ca, cb := a[i], b[i]
		if ca >= 'A' && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if cb >= 'A' && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
