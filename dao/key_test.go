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
	"database/sql"
	"errors"
	"reflect"
	"testing"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type singleKeyed struct {
	bun.BaseModel `bun:"table:single_keyed"`

	ID   int64  `bun:"id,pk,autoincrement"`
	Name string `bun:"name"`
}

type pairKeyed struct {
	bun.BaseModel `bun:"table:pair_keyed"`

	ClubID    int64  `bun:"club_id,pk"`
	AthleteID int64  `bun:"athlete_id,pk"`
	Role      string `bun:"role"`
}

type pairID struct {
	ClubID    int64
	AthleteID int64
}

type keyless struct {
	bun.BaseModel `bun:"table:keyless"`

	Message string `bun:"message"`
}

func newSchemaDB(t *testing.T) *bun.DB {
	t.Helper()
	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestKeyBindingSingleColumn(t *testing.T) {
	db := newSchemaDB(t)
	table := db.Table(reflect.TypeOf(singleKeyed{}))

	binding, err := newKeyBinding(table, reflect.TypeOf(int64(0)))
	if err != nil {
		t.Fatalf("binding error: %v", err)
	}

	cond, err := binding.equal(int64(42))
	if err != nil {
		t.Fatalf("equal error: %v", err)
	}
	if cond.Expr() != "? = ?" {
		t.Fatalf("unexpected expr: %q", cond.Expr())
	}
	args := cond.Args()
	if len(args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(args))
	}
	if args[0] != bun.Ident("id") {
		t.Errorf("expected id ident, got %v", args[0])
	}
	if args[1] != int64(42) {
		t.Errorf("expected value 42, got %v", args[1])
	}
}

func TestKeyBindingCompositeRowComparison(t *testing.T) {
	db := newSchemaDB(t)
	table := db.Table(reflect.TypeOf(pairKeyed{}))

	binding, err := newKeyBinding(table, reflect.TypeOf(pairID{}))
	if err != nil {
		t.Fatalf("binding error: %v", err)
	}

	cond, err := binding.equal(pairID{ClubID: 1, AthleteID: 2})
	if err != nil {
		t.Fatalf("equal error: %v", err)
	}
	if cond.Expr() != "(?, ?) = (?, ?)" {
		t.Fatalf("unexpected expr: %q", cond.Expr())
	}
	want := []any{bun.Ident("club_id"), bun.Ident("athlete_id"), int64(1), int64(2)}
	if !reflect.DeepEqual(cond.Args(), want) {
		t.Fatalf("unexpected args: %v", cond.Args())
	}
}

func TestKeyBindingCompositePointerIdentifier(t *testing.T) {
	db := newSchemaDB(t)
	table := db.Table(reflect.TypeOf(pairKeyed{}))

	binding, err := newKeyBinding(table, reflect.TypeOf(&pairID{}))
	if err != nil {
		t.Fatalf("binding error: %v", err)
	}
	cond, err := binding.equal(&pairID{ClubID: 3, AthleteID: 4})
	if err != nil {
		t.Fatalf("equal error: %v", err)
	}
	if got := cond.Args()[2]; got != int64(3) {
		t.Errorf("expected club value 3, got %v", got)
	}
}

func TestKeyBindingNoPrimaryKey(t *testing.T) {
	db := newSchemaDB(t)
	table := db.Table(reflect.TypeOf(keyless{}))

	binding, err := newKeyBinding(table, reflect.TypeOf(int64(0)))
	if err != nil {
		t.Fatalf("binding error: %v", err)
	}
	if _, err := binding.equal(int64(1)); !errors.Is(err, ErrNoPrimaryKey) {
		t.Fatalf("expected ErrNoPrimaryKey, got %v", err)
	}
}

func TestKeyBindingArityMismatch(t *testing.T) {
	db := newSchemaDB(t)
	table := db.Table(reflect.TypeOf(pairKeyed{}))

	type shortID struct{ ClubID int64 }
	if _, err := newKeyBinding(table, reflect.TypeOf(shortID{})); !errors.Is(err, ErrIdentifierMismatch) {
		t.Fatalf("expected ErrIdentifierMismatch, got %v", err)
	}

	if _, err := newKeyBinding(table, reflect.TypeOf(int64(0))); !errors.Is(err, ErrIdentifierMismatch) {
		t.Fatalf("expected ErrIdentifierMismatch for scalar identifier, got %v", err)
	}
}

func TestKeyBindingInterfaceIdentifierDeferred(t *testing.T) {
	db := newSchemaDB(t)
	table := db.Table(reflect.TypeOf(pairKeyed{}))

	binding, err := newKeyBinding(table, reflect.TypeOf((*any)(nil)).Elem())
	if err != nil {
		t.Fatalf("binding error: %v", err)
	}

	// Valid struct value succeeds.
	if _, err := binding.equal(pairID{ClubID: 1, AthleteID: 2}); err != nil {
		t.Fatalf("equal error: %v", err)
	}
	// Non-struct value fails at call time.
	if _, err := binding.equal(int64(7)); !errors.Is(err, ErrIdentifierMismatch) {
		t.Fatalf("expected ErrIdentifierMismatch, got %v", err)
	}
}

func TestConditionCombinators(t *testing.T) {
	a := NewCondition("age > ?", 30)
	b := NewCondition("name = ?", "Ann")

	and := a.And(b)
	if and.Expr() != "(age > ?) AND (name = ?)" {
		t.Fatalf("unexpected AND expr: %q", and.Expr())
	}
	if !reflect.DeepEqual(and.Args(), []any{30, "Ann"}) {
		t.Fatalf("unexpected AND args: %v", and.Args())
	}

	or := a.Or(b)
	if or.Expr() != "(age > ?) OR (name = ?)" {
		t.Fatalf("unexpected OR expr: %q", or.Expr())
	}

	var nilCond *Condition
	if got := nilCond.And(a); got != a {
		t.Fatalf("nil.And should return the other condition")
	}
	if got := a.And(nil); got != a {
		t.Fatalf("And(nil) should return the receiver")
	}
}
