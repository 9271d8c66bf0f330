package vault

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"albumdex/internal/catalog"
)

// runVaultTests exercises the behaviour every Vault implementation shares.
func runVaultTests(t *testing.T, newVault func(t *testing.T) catalog.Vault) {
	ctx := context.Background()

	t.Run("content round trip", func(t *testing.T) {
		v := newVault(t)
		for i, content := range []string{"%PDF-1.4 scan", "", strings.Repeat("x", 10000)} {
			checksum := "sum-" + strconv.Itoa(i)
			if err := v.PutContent(ctx, checksum, strings.NewReader(content), int64(len(content))); err != nil {
				t.Fatalf("PutContent() error = %v", err)
			}
			var buf bytes.Buffer
			if err := v.GetContent(ctx, checksum, &buf); err != nil {
				t.Fatalf("GetContent() error = %v", err)
			}
			if buf.String() != content {
				t.Errorf("GetContent() = %d bytes, want %d", buf.Len(), len(content))
			}
		}
	})

	t.Run("put content is idempotent", func(t *testing.T) {
		v := newVault(t)
		for i := 0; i < 2; i++ {
			if err := v.PutContent(ctx, "same", strings.NewReader("data"), 4); err != nil {
				t.Fatalf("PutContent() iteration %d error = %v", i+1, err)
			}
		}
	})

	t.Run("size mismatch fails", func(t *testing.T) {
		v := newVault(t)
		if err := v.PutContent(ctx, "short", strings.NewReader("abc"), 10); err == nil {
			t.Error("PutContent() expected size mismatch error")
		}
		if err := v.PutMetadata(ctx, "catalog", strings.NewReader("abc"), 10, 1); err == nil {
			t.Error("PutMetadata() expected size mismatch error")
		}
	})

	t.Run("missing content is not found", func(t *testing.T) {
		v := newVault(t)
		var buf bytes.Buffer
		err := v.GetContent(ctx, "nope", &buf)
		if !errors.Is(err, catalog.ErrNotFound) {
			t.Errorf("GetContent() error = %v, want ErrNotFound", err)
		}
		err = v.GetMetadata(ctx, "catalog", &buf)
		if !errors.Is(err, catalog.ErrNotFound) {
			t.Errorf("GetMetadata() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("metadata versions", func(t *testing.T) {
		v := newVault(t)
		version, err := v.GetMetadataVersion(ctx, "catalog")
		if err != nil || version != 0 {
			t.Fatalf("GetMetadataVersion() = %d, %v; want 0, nil", version, err)
		}

		for i, body := range []string{`{"v":1}`, `{"v":2}`} {
			if err := v.PutMetadata(ctx, "catalog", strings.NewReader(body), int64(len(body)), int64(i+1)); err != nil {
				t.Fatalf("PutMetadata() error = %v", err)
			}
		}
		version, err = v.GetMetadataVersion(ctx, "catalog")
		if err != nil || version != 2 {
			t.Errorf("GetMetadataVersion() = %d, %v; want 2, nil", version, err)
		}
		var buf bytes.Buffer
		if err := v.GetMetadata(ctx, "catalog", &buf); err != nil {
			t.Fatalf("GetMetadata() error = %v", err)
		}
		if buf.String() != `{"v":2}` {
			t.Errorf("GetMetadata() = %q, want latest body", buf.String())
		}

		if version, _ := v.GetMetadataVersion(ctx, "catalog.age"); version != 0 {
			t.Errorf("GetMetadataVersion(other name) = %d, want 0", version)
		}
	})

	t.Run("validate setup", func(t *testing.T) {
		if err := newVault(t).ValidateSetup(ctx); err != nil {
			t.Errorf("ValidateSetup() error = %v", err)
		}
	})
}

func TestMemoryVault(t *testing.T) {
	runVaultTests(t, func(t *testing.T) catalog.Vault { return NewMemoryVault("mem") })
}

func TestFileSystemVault(t *testing.T) {
	newFS := func(t *testing.T) catalog.Vault {
		v, err := NewFileSystemVault("fs", t.TempDir())
		if err != nil {
			t.Fatalf("NewFileSystemVault() error = %v", err)
		}
		return v
	}
	runVaultTests(t, newFS)

	t.Run("rejects keys that escape the root", func(t *testing.T) {
		v := newFS(t)
		ctx := context.Background()
		for _, key := range []string{"", "..", "../etc", `a\b`} {
			if err := v.PutMetadata(ctx, key, strings.NewReader("x"), 1, 1); err == nil {
				t.Errorf("PutMetadata(%q) expected error", key)
			}
		}
	})
}

func TestS3Vault(t *testing.T) {
	runVaultTests(t, func(t *testing.T) catalog.Vault {
		return NewS3Vault("s3", "bucket", "albumdex", newFakeS3())
	})

	t.Run("keys live under the prefix", func(t *testing.T) {
		fake := newFakeS3()
		v := NewS3Vault("s3", "bucket", "pre", fake)
		ctx := context.Background()
		v.PutContent(ctx, "abc", strings.NewReader("pdf"), 3)
		v.PutMetadata(ctx, "catalog", strings.NewReader("{}"), 2, 7)

		if _, ok := fake.objects["pre/scans/abc.pdf"]; !ok {
			t.Errorf("scan key missing, have %v", fake.keys())
		}
		obj, ok := fake.objects["pre/snapshots/catalog"]
		if !ok {
			t.Fatalf("snapshot key missing, have %v", fake.keys())
		}
		if obj.meta[versionKey] != "7" {
			t.Errorf("version metadata = %q, want 7", obj.meta[versionKey])
		}
	})

	t.Run("validate setup reports a missing bucket", func(t *testing.T) {
		fake := newFakeS3()
		fake.bucketMissing = true
		v := NewS3Vault("s3", "bucket", "", fake)
		if err := v.ValidateSetup(context.Background()); err == nil {
			t.Error("ValidateSetup() expected error")
		}
	})
}
