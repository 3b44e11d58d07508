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

package types

import (
	"reflect"
	"testing"
)

func TestPageRequestDefaults(t *testing.T) {
	p := NewDefaultPageRequest(0, 0)
	if p.GetPage() != 1 {
		t.Errorf("expected default page 1, got %d", p.GetPage())
	}
	if p.GetPageSize() != 10 {
		t.Errorf("expected default page size 10, got %d", p.GetPageSize())
	}
	if p.GetOffset() != 0 {
		t.Errorf("expected offset 0, got %d", p.GetOffset())
	}
}

func TestPageRequestOffset(t *testing.T) {
	p := NewDefaultPageRequest(3, 25)
	if p.GetOffset() != 50 {
		t.Errorf("expected offset 50, got %d", p.GetOffset())
	}
}

func TestPageRequestFilterAndOrders(t *testing.T) {
	filter := NewQueryFilter("age > ?", 30)
	p := NewPageRequest(1, 10, filter, []string{"age DESC"})
	if p.GetFilter() != filter {
		t.Error("filter not preserved")
	}
	if got := p.GetOrders(); len(got) != 1 || got[0] != "age DESC" {
		t.Errorf("orders not preserved: %v", got)
	}
}

func TestJsonObjectScan(t *testing.T) {
	var fromBytes JsonObject
	if err := fromBytes.Scan([]byte(`{"name":"Ann","age":27}`)); err != nil {
		t.Fatalf("scan bytes: %v", err)
	}
	if fromBytes["name"] != "Ann" {
		t.Fatalf("unexpected object: %v", fromBytes)
	}

	var fromString JsonObject
	if err := fromString.Scan(`{"name":"Ben"}`); err != nil {
		t.Fatalf("scan string: %v", err)
	}
	if fromString["name"] != "Ben" {
		t.Fatalf("unexpected object: %v", fromString)
	}

	var fromNil JsonObject
	if err := fromNil.Scan(nil); err != nil {
		t.Fatalf("scan nil: %v", err)
	}
	if fromNil == nil || len(fromNil) != 0 {
		t.Fatalf("expected empty object, got %v", fromNil)
	}

	var invalid JsonObject
	if err := invalid.Scan(42); err == nil {
		t.Fatal("expected error for unsupported column type")
	}
}

func TestJsonArrayRoundTrip(t *testing.T) {
	arr := JsonArray{{"id": float64(1)}, {"id": float64(2)}}
	v, err := arr.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}

	var scanned JsonArray
	if err := scanned.Scan(v); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !reflect.DeepEqual(scanned, arr) {
		t.Fatalf("round trip mismatch: %v != %v", scanned, arr)
	}
}
