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
	"context"

	"github.com/uptrace/bun/schema"
)

// Reader defines the read-only operations of a table DAO.
type Reader[R any, ID any] interface {
	// FindByID returns the record addressed by id, or (nil, nil) when no
	// row matches. Returns ErrNoPrimaryKey for tables without a key.
	FindByID(ctx context.Context, id ID) (*R, error)

	// FindAll returns every record of the table.
	FindAll(ctx context.Context) ([]*R, error)

	// Find returns records matching cond (nil matches all), optionally
	// ordered.
	Find(ctx context.Context, cond *Condition, orderBy ...Order) ([]*R, error)

	// FindPage returns at most limit records after skipping offset, ordered
	// per orderBy. A limit <= 0 disables the limit.
	FindPage(ctx context.Context, cond *Condition, offset, limit int, orderBy ...Order) ([]*R, error)

	// Count returns the total number of rows.
	Count(ctx context.Context) (int, error)

	// CountWhere returns the number of rows matching cond.
	CountWhere(ctx context.Context, cond *Condition) (int, error)
}

// Writer defines the mutating operations of a table DAO. Every call runs
// inside a transaction unless the DAO is already bound to one.
type Writer[R any, ID any] interface {
	// Save inserts the record when its primary key fields are all zero,
	// otherwise updates the row addressed by the key. Returns the
	// driver-reported affected row count, -1 when the driver cannot tell.
	Save(ctx context.Context, record *R) (int64, error)

	// SaveAll saves every record in one transaction and returns the
	// per-record affected counts in input order.
	SaveAll(ctx context.Context, records []*R) ([]int64, error)

	// Merge upserts the record using the primary key as conflict target.
	Merge(ctx context.Context, record *R) (int64, error)

	// Delete removes the row addressed by the record's current key value.
	Delete(ctx context.Context, record *R) (int64, error)

	// DeleteByID removes the row addressed by id.
	DeleteByID(ctx context.Context, id ID) (int64, error)

	// DeleteWhere removes every row matching cond and returns the count.
	DeleteWhere(ctx context.Context, cond *Condition) (int64, error)
}

// TableDAO combines read and write access to one table.
type TableDAO[R any, ID any] interface {
	Reader[R, ID]
	Writer[R, ID]
	Table() *schema.Table
	Dialect() schema.Dialect
}

var _ TableDAO[struct{}, int64] = (*DAO[struct{}, int64])(nil)
