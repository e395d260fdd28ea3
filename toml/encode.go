package toml

import (
	"bytes"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Marshal returns the TOML encoding of v
//
// Root must be a struct or map[string]T:
//   - Scalars are written before nested tables so keys precede sub-tables
//   - Struct fields keep declaration order; map keys are sorted
//   - Nil pointers and fields tagged `toml:"-"` are skipped
//   - Fields with `omitempty` are skipped when zero
func Marshal(v any) ([]byte, error) {
	val := reflect.ValueOf(v)
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil, fmt.Errorf("marshal: cannot marshal nil pointer")
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct && val.Kind() != reflect.Map {
		return nil, fmt.Errorf("marshal: root must be struct or map, got %v", val.Kind())
	}

	enc := &encoder{w: new(bytes.Buffer)}
	if err := enc.encodeTable(val, ""); err != nil {
		return nil, err
	}
	return enc.w.Bytes(), nil
}

type encoder struct {
	w *bytes.Buffer
}

type entry struct {
	key string
	val reflect.Value
}

func (e *encoder) encodeTable(rv reflect.Value, prefix string) error {
	entries, err := tableEntries(rv)
	if err != nil {
		return err
	}

	var tables []entry
	for _, en := range entries {
		if isTable(en.val) {
			tables = append(tables, en)
			continue
		}
		e.w.WriteString(quoteKey(en.key))
		e.w.WriteString(" = ")
		if err := e.encodeValue(en.val); err != nil {
			return fmt.Errorf("%s: %w", en.key, err)
		}
		e.w.WriteByte('\n')
	}

	for _, en := range tables {
		full := quoteKey(en.key)
		if prefix != "" {
			full = prefix + "." + full
		}
		if e.w.Len() > 0 {
			e.w.WriteByte('\n')
		}
		fmt.Fprintf(e.w, "[%s]\n", full)
		if err := e.encodeTable(deref(en.val), full); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) encodeValue(v reflect.Value) error {
	v = deref(v)
	switch v.Kind() {
	case reflect.String:
		e.w.WriteString(strconv.Quote(v.String()))
	case reflect.Bool:
		e.w.WriteString(strconv.FormatBool(v.Bool()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		e.w.WriteString(strconv.FormatInt(v.Int(), 10))
	case reflect.Float32, reflect.Float64:
		s := strconv.FormatFloat(v.Float(), 'f', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		e.w.WriteString(s)
	case reflect.Slice, reflect.Array:
		e.w.WriteByte('[')
		for i := 0; i < v.Len(); i++ {
			if i > 0 {
				e.w.WriteString(", ")
			}
			if err := e.encodeValue(v.Index(i)); err != nil {
				return err
			}
		}
		e.w.WriteByte(']')
	default:
		return fmt.Errorf("unsupported kind %s", v.Kind())
	}
	return nil
}

func tableEntries(rv reflect.Value) ([]entry, error) {
	var entries []entry
	switch rv.Kind() {
	case reflect.Struct:
		typ := rv.Type()
		for i := 0; i < rv.NumField(); i++ {
			f := typ.Field(i)
			if !f.IsExported() {
				continue
			}
			key := fieldKey(f)
			fv := rv.Field(i)
			if key == "" || (fv.Kind() == reflect.Ptr && fv.IsNil()) {
				continue
			}
			if strings.Contains(f.Tag.Get("toml"), ",omitempty") && fv.IsZero() {
				continue
			}
			entries = append(entries, entry{key, fv})
		}
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("only map[string]T is supported")
		}
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
		for _, k := range keys {
			entries = append(entries, entry{k.String(), rv.MapIndex(k)})
		}
	default:
		return nil, fmt.Errorf("expected table, got %s", rv.Kind())
	}
	return entries, nil
}

func isTable(v reflect.Value) bool {
	v = deref(v)
	return v.Kind() == reflect.Struct || v.Kind() == reflect.Map
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

// quoteKey leaves bare keys alone and quotes everything else
func quoteKey(s string) string {
	if s == "" {
		return `""`
	}
	for _, c := range s {
		if !isBareChar(c) {
			return strconv.Quote(s)
		}
	}
	return s
}
