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

package bundao_test

import (
	"context"
	"testing"

	"github.com/tomoncle/bundao"
	"github.com/tomoncle/bundao/dao"
	"github.com/tomoncle/bundao/database"
	"github.com/tomoncle/bundao/types"

	"github.com/uptrace/bun"
)

type Athlete struct {
	bun.BaseModel `bun:"table:athlete,alias:a"`

	ID   int64  `bun:"id,pk,autoincrement"`
	Name string `bun:"name,notnull"`
	Age  int    `bun:"age"`
}

func initTestDatabase(t *testing.T) {
	t.Helper()
	cfg := &database.Config{ConnectionConfig: database.ConnectionConfig{
		Type:   "sqlite",
		DBName: ":memory:",
	}}
	db, err := database.InitDB(cfg)
	if err != nil {
		t.Fatalf("init database: %v", err)
	}
	t.Cleanup(func() { _ = database.CloseDB() })

	if _, err := db.NewCreateTable().Model((*Athlete)(nil)).Exec(context.Background()); err != nil {
		t.Fatalf("create table: %v", err)
	}
}

func TestServiceRoundTrip(t *testing.T) {
	initTestDatabase(t)
	svc := bundao.NewService[Athlete, int64]()
	ctx := context.Background()

	ann := &Athlete{Name: "Ann", Age: 27}
	n, err := svc.Save(ctx, ann)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if n != 1 || ann.ID == 0 {
		t.Fatalf("expected inserted row with id, got n=%d id=%d", n, ann.ID)
	}

	got, err := svc.Get(ctx, ann.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.Name != "Ann" {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	if _, err := svc.SaveAll(ctx, []*Athlete{
		{Name: "Ben", Age: 31},
		{Name: "Cleo", Age: 45},
	}); err != nil {
		t.Fatalf("save all: %v", err)
	}

	total, err := svc.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected 3 rows, got %d", total)
	}

	matching, err := svc.CountBy(ctx, dao.NewCondition("age > ?", 30))
	if err != nil {
		t.Fatalf("count by: %v", err)
	}
	if matching != 2 {
		t.Fatalf("expected 2 matching rows, got %d", matching)
	}

	n, err = svc.DeleteByID(ctx, ann.ID)
	if err != nil {
		t.Fatalf("delete by id: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 deleted row, got %d", n)
	}
	absent, err := svc.Get(ctx, ann.ID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if absent != nil {
		t.Fatalf("expected nil for deleted row, got %+v", absent)
	}
}

func TestServicePage(t *testing.T) {
	initTestDatabase(t)
	svc := bundao.NewService[Athlete, int64]()
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		a := &Athlete{Name: string(rune('A' + i)), Age: 20 + i}
		if _, err := svc.Save(ctx, a); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	page, err := svc.Page(ctx, types.NewPageRequestWithOrders(2, 3, []string{"age DESC"}))
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if page.Total != 7 {
		t.Fatalf("expected total 7, got %d", page.Total)
	}
	if len(page.Items) != 3 {
		t.Fatalf("expected 3 items on page 2, got %d", len(page.Items))
	}
	// Second page in descending age order starts after 26, 25, 24.
	if page.Items[0].Age != 23 {
		t.Fatalf("expected age 23 first on page 2, got %d", page.Items[0].Age)
	}

	filtered, err := svc.Page(ctx, types.NewPageRequestWithFilter(1, 10, types.NewQueryFilter("age >= ?", 25)))
	if err != nil {
		t.Fatalf("filtered page: %v", err)
	}
	if filtered.Total != 2 || len(filtered.Items) != 2 {
		t.Fatalf("expected 2 filtered rows, got total=%d items=%d", filtered.Total, len(filtered.Items))
	}

	empty, err := svc.Page(ctx, types.NewPageRequestWithFilter(1, 10, types.NewQueryFilter("age > ?", 100)))
	if err != nil {
		t.Fatalf("empty page: %v", err)
	}
	if empty.Total != 0 || len(empty.Items) != 0 {
		t.Fatalf("expected empty pagination, got %+v", empty)
	}
}

func TestServiceQueryBuilders(t *testing.T) {
	initTestDatabase(t)
	svc := bundao.NewService[Athlete, int64]()
	ctx := context.Background()

	if _, err := svc.Save(ctx, &Athlete{Name: "Ann", Age: 27}); err != nil {
		t.Fatalf("save: %v", err)
	}

	var names []string
	err := svc.SelectBuilder().
		Model((*Athlete)(nil)).
		Column("name").
		Scan(ctx, &names)
	if err != nil {
		t.Fatalf("select builder: %v", err)
	}
	if len(names) != 1 || names[0] != "Ann" {
		t.Fatalf("unexpected names: %v", names)
	}
}
