package internal

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/fares303/Ai-instagram-message/testutil"
)

func TestNewDeduplicator(t *testing.T) {
	d := NewDeduplicator()
	if d == nil {
		t.Fatal("NewDeduplicator() returned nil")
	}
	if d.Len() != 0 {
		t.Errorf("Len() = %d, want 0", d.Len())
	}
}

func TestDeduplicator_Add(t *testing.T) {
	d := NewDeduplicator()

	first, created := d.Add("key1", 10, "/a/one.jpg", AttachmentRef{Sequence: 5}, KindPhoto)
	if !created {
		t.Error("first Add() should create an entry")
	}
	if _, created := d.Add("key1", 10, "/b/copy.jpg", AttachmentRef{Sequence: 1}, KindPhoto); created {
		t.Error("Add() with a known key should not create an entry")
	}
	d.Add("key1", 10, "/a/one.jpg", AttachmentRef{Sequence: 5}, KindPhoto)
	d.Add("key2", 20, "/a/two.mp4", AttachmentRef{Sequence: 3}, KindVideo)

	if d.Len() != 2 {
		t.Errorf("Len() = %d, want 2", d.Len())
	}
	if first.Source != "/a/one.jpg" {
		t.Errorf("Source = %q, want the first source", first.Source)
	}
	if !reflect.DeepEqual(first.References, []int{1, 5}) {
		t.Errorf("References = %v, want [1 5]", first.References)
	}
	if !reflect.DeepEqual(first.Aliases, []string{"/b/copy.jpg"}) {
		t.Errorf("Aliases = %v", first.Aliases)
	}

	entries := d.Entries()
	if entries[0].Key != "key1" || entries[1].Key != "key2" {
		t.Errorf("Entries() not in first-seen order")
	}
}

func TestHashFile(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteRaw(t, filepath.Join(dir, "hello.txt"), []byte("hello"))

	key, size, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile() error = %v", err)
	}
	if key != "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824" {
		t.Errorf("HashFile() key = %s", key)
	}
	if size != 5 {
		t.Errorf("HashFile() size = %d, want 5", size)
	}

	if _, _, err := HashFile(filepath.Join(dir, "missing")); err == nil {
		t.Error("HashFile() on a missing file should fail")
	}
}
