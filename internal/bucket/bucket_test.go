package bucket

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"gocloud.dev/blob"
	"gocloud.dev/blob/memblob"
)

func newMemStore(t *testing.T, keys map[string]string) (Store, *blob.Bucket) {
	t.Helper()
	b := memblob.OpenBucket(nil)
	ctx := context.Background()
	for key, body := range keys {
		if err := b.WriteAll(ctx, key, []byte(body), nil); err != nil {
			t.Fatalf("seed %s: %v", key, err)
		}
	}
	return NewStore(b, "test-bucket"), b
}

func TestListYieldsAllObjects(t *testing.T) {
	store, _ := newMemStore(t, map[string]string{
		"a/one.txt": "1",
		"a/two.txt": "22",
		"b/three":   "333",
	})
	defer store.Close()

	var keys []string
	err := store.List(context.Background(), func(o Object) error {
		keys = append(keys, o.Key)
		if o.LastModified.IsZero() {
			t.Errorf("object %s has zero LastModified", o.Key)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(keys) != 3 {
		t.Fatalf("List yielded %d keys, want 3: %v", len(keys), keys)
	}
	// gocloud lists in lexical key order
	want := []string{"a/one.txt", "a/two.txt", "b/three"}
	for i, k := range want {
		if keys[i] != k {
			t.Errorf("keys[%d] = %q, want %q", i, keys[i], k)
		}
	}
}

func TestListPropagatesCallbackError(t *testing.T) {
	store, _ := newMemStore(t, map[string]string{"x": "x", "y": "y"})
	defer store.Close()

	sentinel := errors.New("stop")
	var seen int
	err := store.List(context.Background(), func(o Object) error {
		seen++
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("List error = %v, want sentinel", err)
	}
	if seen != 1 {
		t.Errorf("callback ran %d times, want 1", seen)
	}
}

func TestPutThenGet(t *testing.T) {
	store, _ := newMemStore(t, nil)
	defer store.Close()
	ctx := context.Background()

	if err := store.Put(ctx, "dir/obj", strings.NewReader("payload")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	r, err := store.Get(ctx, "dir/obj")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	defer r.Close()

	buf := new(strings.Builder)
	if _, err := io.Copy(buf, r); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if buf.String() != "payload" {
		t.Errorf("Get returned %q, want %q", buf.String(), "payload")
	}
}

func TestGetMissingKey(t *testing.T) {
	store, _ := newMemStore(t, nil)
	defer store.Close()

	if _, err := store.Get(context.Background(), "absent"); err == nil {
		t.Fatal("Get on missing key should fail")
	}
}
