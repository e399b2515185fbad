package postgres

import (
	"context"
	"testing"

	"github.com/asakaida/gakumu/internal/entities"
	"github.com/asakaida/gakumu/internal/repositories"
)

func TestEntityRepository_Create(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	repo := NewPostgresEntityRepository(db)
	ctx := context.Background()

	t.Run("正常系: ベース行の作成", func(t *testing.T) {
		id, err := repo.Create(ctx, "course", "CS101 Section", true)
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if id == 0 {
			t.Error("Expected non-zero ID")
		}
	})

	t.Run("正常系: 非アクティブで作成", func(t *testing.T) {
		id, err := repo.Create(ctx, "room", "Room B-201", false)
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}

		entity, err := repo.GetByID(ctx, id)
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if entity.IsActive {
			t.Error("Expected inactive entity")
		}
	})

	t.Run("異常系: エンティティ型が空", func(t *testing.T) {
		_, err := repo.Create(ctx, "", "nameless", true)
		if err == nil {
			t.Fatal("Expected validation error, got nil")
		}
	})

	t.Run("異常系: 名前が空", func(t *testing.T) {
		_, err := repo.Create(ctx, "course", "", true)
		if err == nil {
			t.Fatal("Expected validation error, got nil")
		}
	})
}

func TestEntityRepository_GetByID(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	repo := NewPostgresEntityRepository(db)
	ctx := context.Background()

	t.Run("正常系: 存在するエンティティの取得", func(t *testing.T) {
		id, err := repo.Create(ctx, "course", "CS101 Section", true)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		entity, err := repo.GetByID(ctx, id)
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if entity == nil {
			t.Fatal("Expected entity, got nil")
		}
		if entity.EntityType != "course" || entity.Name != "CS101 Section" {
			t.Errorf("Unexpected entity: %+v", entity)
		}
		if entity.CreatedAt.IsZero() || entity.UpdatedAt.IsZero() {
			t.Error("Expected timestamps to be set")
		}
	})

	t.Run("正常系: 存在しないIDはnilを返す", func(t *testing.T) {
		entity, err := repo.GetByID(ctx, 999999)
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if entity != nil {
			t.Errorf("Expected nil, got %+v", entity)
		}
	})
}

func TestEntityRepository_ListByType(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	repo := NewPostgresEntityRepository(db)
	ctx := context.Background()

	id1, _ := repo.Create(ctx, "room", "Room A-101", true)
	id2, _ := repo.Create(ctx, "room", "Room A-102", true)
	id3, _ := repo.Create(ctx, "room", "Room B-201", false)
	repo.Create(ctx, "course", "CS101 Section", true)

	t.Run("正常系: 型で絞り込み新しい順に返す", func(t *testing.T) {
		result, err := repo.ListByType(ctx, "room", nil)
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if len(result) != 3 {
			t.Fatalf("Expected 3 rooms, got %d", len(result))
		}
		if result[0].ID != id3 || result[1].ID != id2 || result[2].ID != id1 {
			t.Errorf("Expected descending ID order, got %d, %d, %d", result[0].ID, result[1].ID, result[2].ID)
		}
	})

	t.Run("正常系: isActiveフィルタ", func(t *testing.T) {
		active := true
		result, err := repo.ListByType(ctx, "room", &repositories.EntityFilter{IsActive: &active})
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if len(result) != 2 {
			t.Errorf("Expected 2 active rooms, got %d", len(result))
		}
		for _, entity := range result {
			if !entity.IsActive {
				t.Errorf("Expected only active entities, got %+v", entity)
			}
		}
	})

	t.Run("正常系: 該当なしは空", func(t *testing.T) {
		result, err := repo.ListByType(ctx, "auditorium", nil)
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if len(result) != 0 {
			t.Errorf("Expected empty result, got %d", len(result))
		}
	})
}

func TestEntityRepository_Update(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	repo := NewPostgresEntityRepository(db)
	ctx := context.Background()

	t.Run("正常系: 許可リストのカラムを更新", func(t *testing.T) {
		id, err := repo.Create(ctx, "room", "Room A-101", true)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		err = repo.Update(ctx, id, map[string]interface{}{
			"name":     "Room A-101 (改装中)",
			"isActive": false,
		})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}

		entity, err := repo.GetByID(ctx, id)
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if entity.Name != "Room A-101 (改装中)" {
			t.Errorf("Expected updated name, got %q", entity.Name)
		}
		if entity.IsActive {
			t.Error("Expected inactive entity")
		}
	})

	t.Run("正常系: 許可リスト外のキーは無視される", func(t *testing.T) {
		id, err := repo.Create(ctx, "room", "Room A-102", true)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		err = repo.Update(ctx, id, map[string]interface{}{
			"entity_type": "auditorium",
			"id":          0,
			"name":        "Room A-102 East",
		})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}

		entity, err := repo.GetByID(ctx, id)
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if entity.EntityType != "room" {
			t.Errorf("Expected entity type unchanged, got %q", entity.EntityType)
		}
		if entity.Name != "Room A-102 East" {
			t.Errorf("Expected name updated, got %q", entity.Name)
		}
	})

	t.Run("正常系: 許可キーなしはクエリを発行しない", func(t *testing.T) {
		err := repo.Update(ctx, 999999, map[string]interface{}{"entity_type": "x"})
		if err != nil {
			t.Errorf("Expected no-op, got: %v", err)
		}
	})

	t.Run("正常系: 存在しないIDの更新はエラーにならない", func(t *testing.T) {
		err := repo.Update(ctx, 999999, map[string]interface{}{"name": "ghost"})
		if err != nil {
			t.Errorf("Expected silent no-op, got: %v", err)
		}
	})
}

func TestEntityRepository_Delete(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	entityRepo := NewPostgresEntityRepository(db)
	valueRepo := NewPostgresValueRepository(db)
	registry := NewPostgresAttributeRegistry(db)
	ctx := context.Background()

	t.Run("正常系: 削除で値の行もカスケードされる", func(t *testing.T) {
		id, err := entityRepo.Create(ctx, "maintenance", "Request #1", true)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		def, err := registry.GetOrCreate(ctx, "description", entities.DataTypeText, "")
		if err != nil {
			t.Fatalf("GetOrCreate failed: %v", err)
		}
		if err := valueRepo.Upsert(ctx, id, def.ID, entities.TextValue("leaking faucet")); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}

		if err := entityRepo.Delete(ctx, id); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}

		entity, err := entityRepo.GetByID(ctx, id)
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if entity != nil {
			t.Error("Expected entity to be gone")
		}

		rows, err := valueRepo.ListByEntity(ctx, id)
		if err != nil {
			t.Fatalf("ListByEntity failed: %v", err)
		}
		if len(rows) != 0 {
			t.Errorf("Expected cascaded value rows to be gone, got %d", len(rows))
		}
	})

	t.Run("正常系: 存在しないIDの削除はエラーにならない", func(t *testing.T) {
		if err := entityRepo.Delete(ctx, 999999); err != nil {
			t.Errorf("Expected silent no-op, got: %v", err)
		}
	})
}
