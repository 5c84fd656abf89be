package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
)

func TestRedisRemote_LoadAll(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	remote := NewRedisRemoteFromClient(db, "test:records")

	mock.ExpectHGetAll("test:records").SetVal(map[string]string{
		"a.md": `{"hash":"h"}`,
		"b.md": `{"hash":"g"}`,
	})

	vals, err := remote.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(vals) != 2 {
		t.Errorf("Expected 2 values, got %d", len(vals))
	}
	if string(vals["a.md"]) != `{"hash":"h"}` {
		t.Errorf("Unexpected value for a.md: %s", vals["a.md"])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisRemote_LoadAll_Error(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	remote := NewRedisRemoteFromClient(db, "")

	mock.ExpectHGetAll(DefaultRedisKey).SetErr(errors.New("connection refused"))

	if _, err := remote.LoadAll(context.Background()); err == nil {
		t.Error("Expected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisRemote_Upsert(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	remote := NewRedisRemoteFromClient(db, "test:records")

	mock.ExpectHSet("test:records", "a.md", `{"hash":"h"}`).SetVal(1)

	if err := remote.Upsert(context.Background(), "a.md", []byte(`{"hash":"h"}`)); err != nil {
		t.Errorf("Upsert failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisRemote_Ping(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	remote := NewRedisRemoteFromClient(db, "")

	mock.ExpectPing().SetVal("PONG")

	if err := remote.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisRemote_InStore(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	remote := NewRedisRemoteFromClient(db, "")
	s := NewStore(t.TempDir()+"/cache.json", WithRemote(remote))

	mock.ExpectHGetAll(DefaultRedisKey).SetVal(map[string]string{
		"a.md": `{"hash":"h","model":"m","translatedTitle":"T","wrappedContent":"<div></div>"}`,
	})

	recs, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if recs["a.md"].Hash != "h" {
		t.Errorf("Expected remote record to be merged, got %+v", recs)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}
