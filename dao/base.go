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
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/feature"
	"github.com/uptrace/bun/schema"
)

// DAO is a stateless accessor bound to the table Bun maps the record type R
// to. ID addresses rows by primary key: a scalar for single-column keys, a
// struct whose exported fields match the key fields in order for composite
// keys. A DAO is safe for concurrent use.
type DAO[R any, ID any] struct {
	db    *bun.DB
	tx    *bun.Tx // set when bound to a caller-managed transaction
	table *schema.Table
	key   keyBinding
}

// NewDAO resolves the table metadata for R and validates the identifier
// binding against the table's primary key.
func NewDAO[R any, ID any](db *bun.DB) (*DAO[R, ID], error) {
	typ := reflect.TypeOf((*R)(nil)).Elem()
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("bundao: record type %s is not a struct", typ)
	}
	table := db.Table(typ)
	idType := reflect.TypeOf((*ID)(nil)).Elem()
	key, err := newKeyBinding(table, idType)
	if err != nil {
		return nil, err
	}
	return &DAO[R, ID]{db: db, table: table, key: key}, nil
}

// WithTx returns a DAO that executes every operation on tx instead of
// opening its own transactions.
func (d *DAO[R, ID]) WithTx(tx bun.Tx) *DAO[R, ID] {
	clone := *d
	clone.tx = &tx
	return &clone
}

// Table returns the resolved table metadata.
func (d *DAO[R, ID]) Table() *schema.Table { return d.table }

// Dialect returns the dialect of the underlying database.
func (d *DAO[R, ID]) Dialect() schema.Dialect { return d.db.Dialect() }

func (d *DAO[R, ID]) idb() bun.IDB {
	if d.tx != nil {
		return d.tx
	}
	return d.db
}

// runWrite executes fn inside a transaction, reusing the bound one if any.
func (d *DAO[R, ID]) runWrite(ctx context.Context, fn func(idb bun.IDB) (int64, error)) (int64, error) {
	if d.tx != nil {
		return fn(d.tx)
	}
	var n int64
	err := d.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var err error
		n, err = fn(tx)
		return err
	})
	return n, err
}

func (d *DAO[R, ID]) FindByID(ctx context.Context, id ID) (*R, error) {
	cond, err := d.key.equal(id)
	if err != nil {
		return nil, err
	}
	record := new(R)
	err = d.idb().NewSelect().Model(record).
		Where(cond.Expr(), cond.Args()...).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (d *DAO[R, ID]) FindAll(ctx context.Context) ([]*R, error) {
	var records []*R
	err := d.idb().NewSelect().Model(&records).Scan(ctx)
	return records, err
}

func (d *DAO[R, ID]) Find(ctx context.Context, cond *Condition, orderBy ...Order) ([]*R, error) {
	var records []*R
	q := d.idb().NewSelect().Model(&records)
	if cond != nil {
		q = q.Where(cond.Expr(), cond.Args()...)
	}
	q = applyOrders(q, orderBy)
	err := q.Scan(ctx)
	return records, err
}

func (d *DAO[R, ID]) FindPage(ctx context.Context, cond *Condition, offset, limit int, orderBy ...Order) ([]*R, error) {
	var records []*R
	q := d.idb().NewSelect().Model(&records)
	if cond != nil {
		q = q.Where(cond.Expr(), cond.Args()...)
	}
	q = applyOrders(q, orderBy)
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Scan(ctx)
	return records, err
}

func (d *DAO[R, ID]) Count(ctx context.Context) (int, error) {
	return d.idb().NewSelect().Model((*R)(nil)).Count(ctx)
}

func (d *DAO[R, ID]) CountWhere(ctx context.Context, cond *Condition) (int, error) {
	q := d.idb().NewSelect().Model((*R)(nil))
	if cond != nil {
		q = q.Where(cond.Expr(), cond.Args()...)
	}
	return q.Count(ctx)
}

func (d *DAO[R, ID]) Save(ctx context.Context, record *R) (int64, error) {
	return d.runWrite(ctx, func(idb bun.IDB) (int64, error) {
		if d.isNew(record) {
			res, err := idb.NewInsert().Model(record).Exec(ctx)
			if err != nil {
				return 0, err
			}
			return rowsAffected(res), nil
		}
		res, err := idb.NewUpdate().Model(record).WherePK().Exec(ctx)
		if err != nil {
			return 0, err
		}
		return rowsAffected(res), nil
	})
}

func (d *DAO[R, ID]) SaveAll(ctx context.Context, records []*R) ([]int64, error) {
	counts := make([]int64, 0, len(records))
	save := func(txd *DAO[R, ID]) error {
		for _, record := range records {
			n, err := txd.Save(ctx, record)
			if err != nil {
				return err
			}
			counts = append(counts, n)
		}
		return nil
	}
	if d.tx != nil {
		return counts, save(d)
	}
	err := d.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return save(d.WithTx(tx))
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// Merge upserts the record with the primary key as conflict target,
// using whichever conflict clause the dialect supports.
func (d *DAO[R, ID]) Merge(ctx context.Context, record *R) (int64, error) {
	if !d.key.hasKey() {
		return 0, ErrNoPrimaryKey
	}
	return d.runWrite(ctx, func(idb bun.IDB) (int64, error) {
		switch {
		case d.db.HasFeature(feature.InsertOnConflict):
			return d.mergeOnConflict(ctx, idb, record)
		case d.db.HasFeature(feature.InsertOnDuplicateKey):
			return d.mergeOnDuplicateKey(ctx, idb, record)
		default:
			return d.mergeFallback(ctx, idb, record)
		}
	})
}

func (d *DAO[R, ID]) mergeOnConflict(ctx context.Context, idb bun.IDB, record *R) (int64, error) {
	keys := make([]string, len(d.table.PKs))
	for i, pk := range d.table.PKs {
		keys[i] = pk.Name
	}
	q := idb.NewInsert().Model(record)
	if len(d.table.DataFields) == 0 {
		q = q.On("CONFLICT (" + strings.Join(keys, ", ") + ") DO NOTHING")
	} else {
		assignments := make([]string, len(d.table.DataFields))
		for i, f := range d.table.DataFields {
			assignments[i] = fmt.Sprintf("%s = EXCLUDED.%s", f.Name, f.Name)
		}
		q = q.On("CONFLICT (" + strings.Join(keys, ", ") + ") DO UPDATE").
			Set(strings.Join(assignments, ", "))
	}
	res, err := q.Exec(ctx)
	if err != nil {
		return 0, err
	}
	return rowsAffected(res), nil
}

func (d *DAO[R, ID]) mergeOnDuplicateKey(ctx context.Context, idb bun.IDB, record *R) (int64, error) {
	fields := d.table.DataFields
	if len(fields) == 0 {
		// MySQL requires at least one assignment after the clause.
		fields = d.table.PKs[:1]
	}
	assignments := make([]string, len(fields))
	for i, f := range fields {
		assignments[i] = fmt.Sprintf("%s = VALUES(%s)", f.Name, f.Name)
	}
	res, err := idb.NewInsert().Model(record).
		On("DUPLICATE KEY UPDATE " + strings.Join(assignments, ", ")).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return rowsAffected(res), nil
}

func (d *DAO[R, ID]) mergeFallback(ctx context.Context, idb bun.IDB, record *R) (int64, error) {
	res, err := idb.NewInsert().Model(record).Exec(ctx)
	if err == nil {
		return rowsAffected(res), nil
	}
	res, updateErr := idb.NewUpdate().Model(record).WherePK().Exec(ctx)
	if updateErr != nil {
		return 0, fmt.Errorf("bundao: merge failed: insert error: %v, update error: %v", err, updateErr)
	}
	return rowsAffected(res), nil
}

func (d *DAO[R, ID]) Delete(ctx context.Context, record *R) (int64, error) {
	if !d.key.hasKey() {
		return 0, ErrNoPrimaryKey
	}
	return d.runWrite(ctx, func(idb bun.IDB) (int64, error) {
		res, err := idb.NewDelete().Model(record).WherePK().Exec(ctx)
		if err != nil {
			return 0, err
		}
		return rowsAffected(res), nil
	})
}

func (d *DAO[R, ID]) DeleteByID(ctx context.Context, id ID) (int64, error) {
	cond, err := d.key.equal(id)
	if err != nil {
		return 0, err
	}
	return d.runWrite(ctx, func(idb bun.IDB) (int64, error) {
		res, err := idb.NewDelete().Model((*R)(nil)).
			Where(cond.Expr(), cond.Args()...).
			Exec(ctx)
		if err != nil {
			return 0, err
		}
		return rowsAffected(res), nil
	})
}

func (d *DAO[R, ID]) DeleteWhere(ctx context.Context, cond *Condition) (int64, error) {
	if cond == nil {
		return 0, ErrNilCondition
	}
	return d.runWrite(ctx, func(idb bun.IDB) (int64, error) {
		res, err := idb.NewDelete().Model((*R)(nil)).
			Where(cond.Expr(), cond.Args()...).
			Exec(ctx)
		if err != nil {
			return 0, err
		}
		return rowsAffected(res), nil
	})
}

// isNew reports whether the record should be inserted rather than updated:
// true when the table has no key or every key field holds its zero value.
func (d *DAO[R, ID]) isNew(record *R) bool {
	if !d.key.hasKey() {
		return true
	}
	v := reflect.ValueOf(record).Elem()
	for _, pk := range d.table.PKs {
		if !pk.HasZeroValue(v) {
			return false
		}
	}
	return true
}

// rowsAffected passes the driver's affected row count through unchanged,
// reporting -1 when the driver cannot tell.
func rowsAffected(res sql.Result) int64 {
	n, err := res.RowsAffected()
	if err != nil {
		return -1
	}
	return n
}
