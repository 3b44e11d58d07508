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

package bundao

import (
	"context"
	"strings"
	"sync"

	"github.com/tomoncle/bundao/dao"
	"github.com/tomoncle/bundao/database"
	"github.com/tomoncle/bundao/types"

	"github.com/uptrace/bun"
)

type Service[T any, ID any] interface {
	// Get returns the entity addressed by id, or nil when absent.
	Get(ctx context.Context, id ID) (*T, error)

	// All returns all entities.
	All(ctx context.Context) ([]*T, error)

	// Find returns entities matching the condition, optionally ordered.
	Find(ctx context.Context, cond *dao.Condition, orderBy ...dao.Order) ([]*T, error)

	// FindPage returns a filtered, ordered slice of entities with offset/limit.
	FindPage(ctx context.Context, cond *dao.Condition, offset, limit int, orderBy ...dao.Order) ([]*T, error)

	// Count returns the total number of entities.
	Count(ctx context.Context) (int, error)

	// CountBy returns the number of entities matching the condition.
	CountBy(ctx context.Context, cond *dao.Condition) (int, error)

	// Page returns a paginated list of entities with the total count.
	Page(ctx context.Context, page *types.PageRequest) (*types.Pagination[T], error)

	// Save inserts a new entity or updates an existing one by primary key.
	Save(ctx context.Context, model *T) (int64, error)

	// SaveAll saves entities in one transaction, returning per-entity counts.
	SaveAll(ctx context.Context, models []*T) ([]int64, error)

	// Merge upserts the entity using the primary key as conflict target.
	Merge(ctx context.Context, model *T) (int64, error)

	// Delete removes the entity addressed by the model's primary key value.
	Delete(ctx context.Context, model *T) (int64, error)

	// DeleteByID removes the entity addressed by id.
	DeleteByID(ctx context.Context, id ID) (int64, error)

	// DeleteBy removes every entity matching the condition.
	DeleteBy(ctx context.Context, cond *dao.Condition) (int64, error)

	// SelectBuilder returns a Bun select query builder for the entity.
	SelectBuilder() *bun.SelectQuery

	// InsertBuilder returns a Bun insert query builder for the entity.
	InsertBuilder() *bun.InsertQuery

	// UpdateBuilder returns a Bun update query builder for the entity.
	UpdateBuilder() *bun.UpdateQuery

	// DeleteBuilder returns a Bun delete query builder for the entity.
	DeleteBuilder() *bun.DeleteQuery
}

type baseServiceImpl[T any, ID any] struct {
	accessor *dao.DAO[T, ID]
	initErr  error
	once     sync.Once
}

// NewService returns a Service bound to the table of T, backed by the
// global database connection.
func NewService[T any, ID any]() Service[T, ID] {
	return &baseServiceImpl[T, ID]{}
}

func (s *baseServiceImpl[T, ID]) dao() (*dao.DAO[T, ID], error) {
	s.once.Do(func() {
		s.accessor, s.initErr = dao.NewDAO[T, ID](database.GetDB())
	})
	return s.accessor, s.initErr
}

func (s *baseServiceImpl[T, ID]) Get(ctx context.Context, id ID) (*T, error) {
	d, err := s.dao()
	if err != nil {
		return nil, err
	}
	return d.FindByID(ctx, id)
}

func (s *baseServiceImpl[T, ID]) All(ctx context.Context) ([]*T, error) {
	d, err := s.dao()
	if err != nil {
		return nil, err
	}
	return d.FindAll(ctx)
}

func (s *baseServiceImpl[T, ID]) Find(ctx context.Context, cond *dao.Condition, orderBy ...dao.Order) ([]*T, error) {
	d, err := s.dao()
	if err != nil {
		return nil, err
	}
	return d.Find(ctx, cond, orderBy...)
}

func (s *baseServiceImpl[T, ID]) FindPage(ctx context.Context, cond *dao.Condition, offset, limit int, orderBy ...dao.Order) ([]*T, error) {
	d, err := s.dao()
	if err != nil {
		return nil, err
	}
	return d.FindPage(ctx, cond, offset, limit, orderBy...)
}

func (s *baseServiceImpl[T, ID]) Count(ctx context.Context) (int, error) {
	d, err := s.dao()
	if err != nil {
		return 0, err
	}
	return d.Count(ctx)
}

func (s *baseServiceImpl[T, ID]) CountBy(ctx context.Context, cond *dao.Condition) (int, error) {
	d, err := s.dao()
	if err != nil {
		return 0, err
	}
	return d.CountWhere(ctx, cond)
}

func (s *baseServiceImpl[T, ID]) Page(ctx context.Context, page *types.PageRequest) (*types.Pagination[T], error) {
	d, err := s.dao()
	if err != nil {
		return nil, err
	}
	var cond *dao.Condition
	if f := page.GetFilter(); f != nil {
		cond = dao.NewCondition(f.Schema, f.Args...)
	}
	pagination := types.NewDefaultPagination[T](page.GetPage(), page.GetPageSize())
	total, err := d.CountWhere(ctx, cond)
	if err != nil || total == 0 {
		return pagination, err
	}
	items, err := d.FindPage(ctx, cond, page.GetOffset(), page.GetPageSize(), parseOrders(page.GetOrders())...)
	if err != nil {
		return nil, err
	}
	pagination.Total = total
	pagination.Items = items
	return pagination, nil
}

// parseOrders converts "name DESC" style order clauses into dao orders.
func parseOrders(orders []string) []dao.Order {
	result := make([]dao.Order, 0, len(orders))
	for _, o := range orders {
		parts := strings.Fields(o)
		if len(parts) == 0 {
			continue
		}
		desc := len(parts) > 1 && strings.EqualFold(parts[1], "DESC")
		result = append(result, dao.Order{Column: parts[0], Desc: desc})
	}
	return result
}

func (s *baseServiceImpl[T, ID]) Save(ctx context.Context, model *T) (int64, error) {
	d, err := s.dao()
	if err != nil {
		return 0, err
	}
	return d.Save(ctx, model)
}

func (s *baseServiceImpl[T, ID]) SaveAll(ctx context.Context, models []*T) ([]int64, error) {
	d, err := s.dao()
	if err != nil {
		return nil, err
	}
	return d.SaveAll(ctx, models)
}

func (s *baseServiceImpl[T, ID]) Merge(ctx context.Context, model *T) (int64, error) {
	d, err := s.dao()
	if err != nil {
		return 0, err
	}
	return d.Merge(ctx, model)
}

func (s *baseServiceImpl[T, ID]) Delete(ctx context.Context, model *T) (int64, error) {
	d, err := s.dao()
	if err != nil {
		return 0, err
	}
	return d.Delete(ctx, model)
}

func (s *baseServiceImpl[T, ID]) DeleteByID(ctx context.Context, id ID) (int64, error) {
	d, err := s.dao()
	if err != nil {
		return 0, err
	}
	return d.DeleteByID(ctx, id)
}

func (s *baseServiceImpl[T, ID]) DeleteBy(ctx context.Context, cond *dao.Condition) (int64, error) {
	d, err := s.dao()
	if err != nil {
		return 0, err
	}
	return d.DeleteWhere(ctx, cond)
}

func (s *baseServiceImpl[T, ID]) SelectBuilder() *bun.SelectQuery {
	return database.GetDB().NewSelect()
}

func (s *baseServiceImpl[T, ID]) InsertBuilder() *bun.InsertQuery {
	return database.GetDB().NewInsert()
}

func (s *baseServiceImpl[T, ID]) UpdateBuilder() *bun.UpdateQuery {
	return database.GetDB().NewUpdate()
}

func (s *baseServiceImpl[T, ID]) DeleteBuilder() *bun.DeleteQuery {
	return database.GetDB().NewDelete()
}
