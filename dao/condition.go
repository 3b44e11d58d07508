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
	"github.com/uptrace/bun"
)

// Condition is an opaque boolean predicate passed through to Bun's WHERE
// clause. The expression uses Bun placeholders, e.g. "age > ?".
type Condition struct {
	expr string
	args []any
}

// NewCondition creates a condition from a Bun where expression and its args.
func NewCondition(expr string, args ...any) *Condition {
	return &Condition{expr: expr, args: args}
}

// Expr returns the where expression.
func (c *Condition) Expr() string { return c.expr }

// Args returns the expression arguments.
func (c *Condition) Args() []any { return c.args }

// And combines two conditions with AND. A nil receiver or argument yields
// the other condition unchanged.
func (c *Condition) And(other *Condition) *Condition {
	return c.combine("AND", other)
}

// Or combines two conditions with OR.
func (c *Condition) Or(other *Condition) *Condition {
	return c.combine("OR", other)
}

func (c *Condition) combine(op string, other *Condition) *Condition {
	if c == nil {
		return other
	}
	if other == nil {
		return c
	}
	args := make([]any, 0, len(c.args)+len(other.args))
	args = append(args, c.args...)
	args = append(args, other.args...)
	return &Condition{
		expr: "(" + c.expr + ") " + op + " (" + other.expr + ")",
		args: args,
	}
}

// Order describes one column of an ORDER BY clause.
type Order struct {
	Column string
	Desc   bool
}

// Asc orders by the given column ascending.
func Asc(column string) Order { return Order{Column: column} }

// Desc orders by the given column descending.
func Desc(column string) Order { return Order{Column: column, Desc: true} }

func applyOrders(q *bun.SelectQuery, orders []Order) *bun.SelectQuery {
	for _, o := range orders {
		if o.Desc {
			q = q.OrderExpr("? DESC", bun.Ident(o.Column))
		} else {
			q = q.OrderExpr("? ASC", bun.Ident(o.Column))
		}
	}
	return q
}
