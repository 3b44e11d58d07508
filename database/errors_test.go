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

package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
)

func TestIsSqlErrorMySQLNumbers(t *testing.T) {
	cases := []struct {
		number uint16
		want   SQLError
	}{
		{1062, DuplicateKeyErr},
		{1054, NoColumnErr},
		{1048, NotNullViolationErr},
		{1217, ForeignKeyViolationErr},
		{9999, UnknownErr},
	}
	for _, c := range cases {
		err := &mysql.MySQLError{Number: c.number, Message: "driver error"}
		is, kind := IsSqlError(err)
		if !is {
			t.Errorf("number %d: expected recognition", c.number)
		}
		if kind != c.want {
			t.Errorf("number %d: expected %v, got %v", c.number, c.want, kind)
		}
	}
}

func TestIsSqlErrorWrappedMySQLError(t *testing.T) {
	inner := &mysql.MySQLError{Number: 1062, Message: "duplicate entry"}
	wrapped := fmt.Errorf("insert athlete: %w", inner)
	is, kind := IsSqlError(wrapped)
	if !is || kind != DuplicateKeyErr {
		t.Fatalf("expected DuplicateKeyErr, got is=%v kind=%v", is, kind)
	}
}

func TestIsSqlErrorMessagePatterns(t *testing.T) {
	cases := []struct {
		msg  string
		want SQLError
	}{
		{`ERROR: duplicate key value violates unique constraint "athlete_pkey" (SQLSTATE 23505)`, DuplicateKeyErr},
		{"UNIQUE constraint failed: athlete.id", DuplicateKeyErr},
		{"no such table: athlete", NoTableErr},
		{`ERROR: relation "athlete" does not exist (SQLSTATE 42P01)`, NoTableErr},
		{"no such column: nickname", NoColumnErr},
		{"NOT NULL constraint failed: athlete.name", NotNullViolationErr},
		{"FOREIGN KEY constraint failed", ForeignKeyViolationErr},
		{"datatype mismatch", InvalidTypeCastErr},
	}
	for _, c := range cases {
		is, kind := IsSqlError(errors.New(c.msg))
		if !is {
			t.Errorf("%q: expected recognition", c.msg)
			continue
		}
		if kind != c.want {
			t.Errorf("%q: expected %v, got %v", c.msg, c.want, kind)
		}
	}
}

func TestIsSqlErrorUnrelated(t *testing.T) {
	is, kind := IsSqlError(errors.New("context deadline exceeded"))
	if is {
		t.Fatalf("expected no recognition, got %v", kind)
	}
}
