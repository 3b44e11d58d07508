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

import "errors"

var (
	// ErrNoPrimaryKey is returned by key-based operations when the mapped
	// table does not declare a primary key.
	ErrNoPrimaryKey = errors.New("bundao: table has no primary key")

	// ErrIdentifierMismatch is returned when the identifier value does not
	// match the shape of the table's composite primary key.
	ErrIdentifierMismatch = errors.New("bundao: identifier does not match primary key fields")

	// ErrNilCondition is returned by bulk operations that refuse to run
	// without a filter.
	ErrNilCondition = errors.New("bundao: condition cannot be nil")
)
