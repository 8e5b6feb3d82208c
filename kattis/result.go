package kattis

import (
	"reflect"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Result is an ordered, repeatable sequence of records. Capabilities return
// their rows already sorted by natural key, and a Result never mutates or
// consumes its contents on iteration.
type Result[T any] struct {
	records []T
}

func NewResult[T any](records []T) Result[T] {
	return Result[T]{records: records}
}

// Records returns a copy of the underlying slice so callers cannot disturb
// the memoized result.
func (r Result[T]) Records() []T {
	out := make([]T, len(r.records))
	copy(out, r.records)
	return out
}

func (r Result[T]) Len() int {
	return len(r.records)
}

// Table renders the records as a text table: one row per record, one column
// per struct field (named by its json tag), nil fields blank.
func (r Result[T]) Table() string {
	w := table.NewWriter()

	var zero T
	typ := reflect.TypeOf(zero)
	if typ == nil || typ.Kind() != reflect.Struct {
		header := table.Row{"value"}
		w.AppendHeader(header)
		for _, rec := range r.records {
			w.AppendRow(table.Row{rec})
		}
		return w.Render()
	}

	var fields []int
	header := table.Row{}
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if !f.IsExported() {
			continue
		}
		name := strings.Split(f.Tag.Get("json"), ",")[0]
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		fields = append(fields, i)
		header = append(header, name)
	}
	w.AppendHeader(header)

	for _, rec := range r.records {
		v := reflect.ValueOf(rec)
		row := table.Row{}
		for _, i := range fields {
			fv := v.Field(i)
			if fv.Kind() == reflect.Pointer {
				if fv.IsNil() {
					row = append(row, "")
					continue
				}
				fv = fv.Elem()
			}
			row = append(row, fv.Interface())
		}
		w.AppendRow(row)
	}
	return w.Render()
}
