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
	"strings"

	"github.com/go-sql-driver/mysql"
)

// SQLError classifies storage-native errors. The DAO layer never translates
// errors itself; this helper is for callers who want to interpret them.
type SQLError int

const (
	UnknownErr SQLError = iota
	NoRowsErr
	NoIndexErr
	NoColumnErr
	ExistIndexErr
	ExistColumnErr
	NoTableErr
	ExistTableErr
	DuplicateKeyErr
	NotNullViolationErr
	ForeignKeyViolationErr
	CheckConstraintViolationErr
	DataTruncatedErr
	InvalidTypeCastErr
)

// MySQL driver error numbers.
var mysqlErrNumbers = map[uint16]SQLError{
	1091: NoIndexErr,
	1054: NoColumnErr,
	1061: ExistIndexErr,
	1060: ExistColumnErr,
	1062: DuplicateKeyErr,
	1048: NotNullViolationErr,
	1216: ForeignKeyViolationErr,
	1217: ForeignKeyViolationErr,
	3819: CheckConstraintViolationErr,
	1265: DataTruncatedErr,
}

// Substring patterns covering Postgres SQLSTATE messages and SQLite text.
// Every pattern of a group must match.
var sqlErrPatterns = []struct {
	kind     SQLError
	anyOf    []string
	required string // empty means no extra requirement
}{
	{NoColumnErr, []string{"sqlstate 42703", "undefined column", "no such column"}, ""},
	{NoIndexErr, []string{"sqlstate 42704", "no such index"}, ""},
	{NoIndexErr, []string{"does not exist"}, "index"},
	{NoTableErr, []string{"sqlstate 42p01", "undefined table", "no such table"}, ""},
	{ExistIndexErr, []string{"already exists"}, "index"},
	{ExistTableErr, []string{"already exists"}, "table"},
	{ExistTableErr, []string{"already exists"}, "relation"},
	{DuplicateKeyErr, []string{"duplicate key value", "unique constraint failed", "sqlstate 23505"}, ""},
	{NotNullViolationErr, []string{"not-null constraint", "sqlstate 23502", "not null constraint failed"}, ""},
	{ForeignKeyViolationErr, []string{"foreign key violation", "foreign key constraint failed", "sqlstate 23503"}, ""},
	{CheckConstraintViolationErr, []string{"check constraint", "sqlstate 23514"}, ""},
	{DataTruncatedErr, []string{"string data right truncation", "sqlstate 22001", "data truncated"}, ""},
	{InvalidTypeCastErr, []string{"datatype mismatch", "sqlstate 42804"}, ""},
}

// IsSqlError reports whether err is a recognizable storage error and, if
// so, its classification.
func IsSqlError(err error) (is bool, sqlErr SQLError) {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		if kind, ok := mysqlErrNumbers[mysqlErr.Number]; ok {
			return true, kind
		}
		return true, UnknownErr
	}
	s := strings.ToLower(err.Error())
	for _, p := range sqlErrPatterns {
		if p.required != "" && !strings.Contains(s, p.required) {
			continue
		}
		for _, sub := range p.anyOf {
			if strings.Contains(s, sub) {
				return true, p.kind
			}
		}
	}
	return false, UnknownErr
}
