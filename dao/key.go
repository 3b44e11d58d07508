/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package dao

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

// keyBinding pairs a table's ordered primary key fields with the identifier
// type used to address rows. For composite keys the identifier must be a
// struct whose exported fields correspond, in declaration order, to the key
// fields. The pairing is positional; the binding validates arity so a shape
// mismatch fails instead of producing a malformed row comparison.
type keyBinding struct {
	pks      []*schema.Field
	idFields []reflect.StructField // composite identifiers only
}

func newKeyBinding(table *schema.Table, idType reflect.Type) (keyBinding, error) {
	b := keyBinding{pks: table.PKs}
	if len(b.pks) < 2 {
		return b, nil
	}
	for idType.Kind() == reflect.Ptr {
		idType = idType.Elem()
	}
	// An interface identifier type defers validation to call time.
	if idType.Kind() == reflect.Interface {
		return b, nil
	}
	if idType.Kind() != reflect.Struct {
		return b, fmt.Errorf("%w: table %s has a composite key but identifier type %s is not a struct",
			ErrIdentifierMismatch, table.Name, idType)
	}
	b.idFields = exportedFields(idType)
	if len(b.idFields) != len(b.pks) {
		return b, fmt.Errorf("%w: table %s declares %d key fields, identifier type %s declares %d",
			ErrIdentifierMismatch, table.Name, len(b.pks), idType, len(b.idFields))
	}
	return b, nil
}

func (b keyBinding) hasKey() bool { return len(b.pks) > 0 }

// equal builds the primary key equality condition for id: a plain column
// comparison for single-column keys, a row-value comparison
// (col1, ..., coln) = (v1, ..., vn) for composite keys.
func (b keyBinding) equal(id any) (*Condition, error) {
	if !b.hasKey() {
		return nil, ErrNoPrimaryKey
	}
	if len(b.pks) == 1 {
		return NewCondition("? = ?", bun.Ident(b.pks[0].Name), id), nil
	}
	values, err := b.identifierValues(id)
	if err != nil {
		return nil, err
	}
	n := len(b.pks)
	expr := "(" + placeholders(n) + ") = (" + placeholders(n) + ")"
	args := make([]any, 0, 2*n)
	for _, pk := range b.pks {
		args = append(args, bun.Ident(pk.Name))
	}
	args = append(args, values...)
	return NewCondition(expr, args...), nil
}

// identifierValues extracts the identifier's exported field values in
// declaration order, pairing them positionally with the key fields.
func (b keyBinding) identifierValues(id any) ([]any, error) {
	v := reflect.ValueOf(id)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, fmt.Errorf("%w: identifier is nil", ErrIdentifierMismatch)
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: composite key requires a struct identifier, got %T",
			ErrIdentifierMismatch, id)
	}
	fields := b.idFields
	if fields == nil {
		fields = exportedFields(v.Type())
	}
	if len(fields) != len(b.pks) {
		return nil, fmt.Errorf("%w: %d key fields, %d identifier fields",
			ErrIdentifierMismatch, len(b.pks), len(fields))
	}
	values := make([]any, len(fields))
	for i, f := range fields {
		values[i] = v.FieldByIndex(f.Index).Interface()
	}
	return values, nil
}

func exportedFields(t reflect.Type) []reflect.StructField {
	fields := make([]reflect.StructField, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		fields = append(fields, f)
	}
	return fields
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}
