package media

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"io"
	"sort"
	"sync"
	"testing"

	"github.com/vega-tools/catalog/pkg/storage/local"
)

type memCounts struct {
	mu     sync.Mutex
	counts map[string]uint
}

func newMemCounts() *memCounts {
	return &memCounts{counts: make(map[string]uint)}
}

func (m *memCounts) ImageCount(ctx context.Context, owner Owner) (uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[owner.lockKey()], nil
}

func (m *memCounts) SetImageCount(ctx context.Context, owner Owner, count uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[owner.lockKey()] = count
	return nil
}

func newTestManager(t *testing.T) (*Manager, *memCounts, *local.Storage) {
	t.Helper()
	store, err := local.New(t.TempDir())
	if err != nil {
		t.Fatalf("create local storage: %v", err)
	}
	counts := newMemCounts()
	variants := []VariantSpec{
		{Name: "original", MaxWidth: 1200, MaxHeight: 1200, Quality: 85},
		{Name: "thumbnail", MaxWidth: 300, MaxHeight: 300, Quality: 80},
		{Name: "micro", MaxWidth: 50, MaxHeight: 50, Quality: 70},
	}
	keys := NewKeyScheme("catalog/images", "https://cdn.example.com")
	return NewManager(store, counts, keys, variants), counts, store
}

func readObject(t *testing.T, store *local.Storage, key string) []byte {
	t.Helper()
	rc, err := store.GetObject(context.Background(), key)
	if err != nil {
		t.Fatalf("get %s: %v", key, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read %s: %v", key, err)
	}
	return data
}

func TestManager_UploadAppends(t *testing.T) {
	m, counts, store := newTestManager(t)
	ctx := context.Background()
	owner := Owner{ID: 1, Kind: "product", StableName: "drill-x"}

	first := pngBytes(t, 40, 40, color.RGBA{R: 220, A: 255})
	second := pngBytes(t, 40, 40, color.RGBA{B: 220, A: 255})

	idx, err := m.Upload(ctx, owner, first, "image/png")
	if err != nil {
		t.Fatalf("first Upload() error = %v", err)
	}
	if idx != 0 {
		t.Errorf("first index = %d, want 0", idx)
	}

	idx, err = m.Upload(ctx, owner, second, "image/png")
	if err != nil {
		t.Fatalf("second Upload() error = %v", err)
	}
	if idx != 1 {
		t.Errorf("second index = %d, want 1", idx)
	}

	if c, _ := counts.ImageCount(ctx, owner); c != 2 {
		t.Errorf("image count = %d, want 2", c)
	}

	wantKeys := []string{
		"catalog/images/drill-x/original.webp",
		"catalog/images/drill-x/thumbnail.webp",
		"catalog/images/drill-x/micro.webp",
		"catalog/images/drill-x/original_1.webp",
		"catalog/images/drill-x/thumbnail_1.webp",
		"catalog/images/drill-x/micro_1.webp",
	}
	for _, key := range wantKeys {
		ok, err := store.ObjectExists(ctx, key)
		if err != nil {
			t.Fatalf("exists %s: %v", key, err)
		}
		if !ok {
			t.Errorf("object %s missing after uploads", key)
		}
	}
}

func TestManager_UploadRejectsNonImage(t *testing.T) {
	m, counts, store := newTestManager(t)
	ctx := context.Background()
	owner := Owner{ID: 1, Kind: "product", StableName: "drill-x"}

	_, err := m.Upload(ctx, owner, []byte("just some text"), "text/plain")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("Upload() error = %v, want ErrInvalidInput", err)
	}

	if c, _ := counts.ImageCount(ctx, owner); c != 0 {
		t.Errorf("image count = %d after rejected upload, want 0", c)
	}
	ok, _ := store.ObjectExists(ctx, "catalog/images/drill-x/original.webp")
	if ok {
		t.Error("store contains an object after a rejected upload")
	}
}

func TestManager_UploadEmptyPayload(t *testing.T) {
	m, _, _ := newTestManager(t)
	owner := Owner{ID: 1, Kind: "product", StableName: "drill-x"}

	_, err := m.Upload(context.Background(), owner, nil, "image/png")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("Upload() error = %v, want ErrInvalidInput", err)
	}
}

func TestManager_OwnerNotReady(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()
	owner := Owner{ID: 1, Kind: "product"}
	img := pngBytes(t, 4, 4, color.RGBA{A: 255})

	if _, err := m.Upload(ctx, owner, img, "image/png"); !errors.Is(err, ErrOwnerNotReady) {
		t.Errorf("Upload() error = %v, want ErrOwnerNotReady", err)
	}
	if err := m.Replace(ctx, owner, 0, img, "image/png"); !errors.Is(err, ErrOwnerNotReady) {
		t.Errorf("Replace() error = %v, want ErrOwnerNotReady", err)
	}
	if err := m.Delete(ctx, owner, 0); !errors.Is(err, ErrOwnerNotReady) {
		t.Errorf("Delete() error = %v, want ErrOwnerNotReady", err)
	}
	if err := m.DeleteAll(ctx, owner); !errors.Is(err, ErrOwnerNotReady) {
		t.Errorf("DeleteAll() error = %v, want ErrOwnerNotReady", err)
	}
}

func TestManager_Replace(t *testing.T) {
	m, counts, store := newTestManager(t)
	ctx := context.Background()
	owner := Owner{ID: 1, Kind: "product", StableName: "drill-x"}

	if _, err := m.Upload(ctx, owner, pngBytes(t, 40, 40, color.RGBA{R: 220, A: 255}), "image/png"); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if _, err := m.Upload(ctx, owner, pngBytes(t, 40, 40, color.RGBA{G: 220, A: 255}), "image/png"); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	before := readObject(t, store, "catalog/images/drill-x/original.webp")
	neighbor := readObject(t, store, "catalog/images/drill-x/original_1.webp")

	err := m.Replace(ctx, owner, 0, pngBytes(t, 40, 40, color.RGBA{B: 220, A: 255}), "image/png")
	if err != nil {
		t.Fatalf("Replace() error = %v", err)
	}

	after := readObject(t, store, "catalog/images/drill-x/original.webp")
	if bytes.Equal(before, after) {
		t.Error("object at index 0 unchanged after replace")
	}
	if !bytes.Equal(neighbor, readObject(t, store, "catalog/images/drill-x/original_1.webp")) {
		t.Error("replace touched the object at index 1")
	}
	if c, _ := counts.ImageCount(ctx, owner); c != 2 {
		t.Errorf("image count = %d after replace, want 2", c)
	}
}

func TestManager_ReplaceOutOfRange(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()
	owner := Owner{ID: 1, Kind: "product", StableName: "drill-x"}
	img := pngBytes(t, 4, 4, color.RGBA{A: 255})

	if err := m.Replace(ctx, owner, 0, img, "image/png"); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Replace() on empty owner error = %v, want ErrIndexOutOfRange", err)
	}

	if _, err := m.Upload(ctx, owner, img, "image/png"); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if err := m.Replace(ctx, owner, 1, img, "image/png"); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Replace(1) error = %v, want ErrIndexOutOfRange", err)
	}
	if err := m.Replace(ctx, owner, -1, img, "image/png"); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Replace(-1) error = %v, want ErrIndexOutOfRange", err)
	}
}

func TestManager_DeleteShiftsDown(t *testing.T) {
	m, counts, store := newTestManager(t)
	ctx := context.Background()
	owner := Owner{ID: 1, Kind: "product", StableName: "drill-x"}

	colors := []color.RGBA{
		{R: 220, A: 255},
		{G: 220, A: 255},
		{B: 220, A: 255},
	}
	for _, c := range colors {
		if _, err := m.Upload(ctx, owner, pngBytes(t, 40, 40, c), "image/png"); err != nil {
			t.Fatalf("Upload() error = %v", err)
		}
	}

	keepFirst := readObject(t, store, "catalog/images/drill-x/original.webp")
	keepLast := readObject(t, store, "catalog/images/drill-x/original_2.webp")

	if err := m.Delete(ctx, owner, 1); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if c, _ := counts.ImageCount(ctx, owner); c != 2 {
		t.Errorf("image count = %d after delete, want 2", c)
	}
	if !bytes.Equal(keepFirst, readObject(t, store, "catalog/images/drill-x/original.webp")) {
		t.Error("object below the deleted index changed")
	}
	if !bytes.Equal(keepLast, readObject(t, store, "catalog/images/drill-x/original_1.webp")) {
		t.Error("object above the deleted index did not shift down")
	}
	for _, variant := range []string{"original", "thumbnail", "micro"} {
		key := "catalog/images/drill-x/" + variant + "_2.webp"
		if ok, _ := store.ObjectExists(ctx, key); ok {
			t.Errorf("stale object %s left behind after shift", key)
		}
	}
}

func TestManager_DeleteOutOfRange(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()
	owner := Owner{ID: 1, Kind: "product", StableName: "drill-x"}

	if err := m.Delete(ctx, owner, 0); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Delete() on empty owner error = %v, want ErrIndexOutOfRange", err)
	}
}

func TestManager_DeleteAll(t *testing.T) {
	m, counts, store := newTestManager(t)
	ctx := context.Background()
	owner := Owner{ID: 1, Kind: "product", StableName: "drill-x"}

	for i := 0; i < 3; i++ {
		c := color.RGBA{R: uint8(60 * (i + 1)), A: 255}
		if _, err := m.Upload(ctx, owner, pngBytes(t, 20, 20, c), "image/png"); err != nil {
			t.Fatalf("Upload() error = %v", err)
		}
	}

	if err := m.DeleteAll(ctx, owner); err != nil {
		t.Fatalf("DeleteAll() error = %v", err)
	}
	if c, _ := counts.ImageCount(ctx, owner); c != 0 {
		t.Errorf("image count = %d after DeleteAll, want 0", c)
	}
	for i := 0; i < 3; i++ {
		key := m.Key(owner, "original", i)
		if ok, _ := store.ObjectExists(ctx, key); ok {
			t.Errorf("object %s still exists after DeleteAll", key)
		}
	}

	// Empty owner is a no-op success.
	if err := m.DeleteAll(ctx, owner); err != nil {
		t.Errorf("DeleteAll() on empty owner error = %v", err)
	}
}

func TestManager_Exists(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()
	owner := Owner{ID: 1, Kind: "product", StableName: "drill-x"}

	ok, err := m.Exists(ctx, owner, 0)
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if ok {
		t.Error("Exists() = true before any upload")
	}

	if _, err := m.Upload(ctx, owner, pngBytes(t, 10, 10, color.RGBA{A: 255}), "image/png"); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	ok, err = m.Exists(ctx, owner, 0)
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if !ok {
		t.Error("Exists() = false for uploaded image")
	}
	if ok, _ := m.Exists(ctx, owner, 1); ok {
		t.Error("Exists() = true past the uploaded range")
	}
}

func TestManager_URLWithoutStore(t *testing.T) {
	m, _, _ := newTestManager(t)
	owner := Owner{ID: 1, Kind: "product", StableName: "drill-x"}

	got := m.URL(owner, "thumbnail", 1)
	want := "https://cdn.example.com/catalog/images/drill-x/thumbnail_1.webp"
	if got != want {
		t.Errorf("URL() = %q, want %q", got, want)
	}
}

func TestManager_UploadMany(t *testing.T) {
	m, counts, _ := newTestManager(t)
	ctx := context.Background()
	owner := Owner{ID: 1, Kind: "product", StableName: "drill-x"}

	files := [][]byte{
		pngBytes(t, 10, 10, color.RGBA{R: 200, A: 255}),
		pngBytes(t, 10, 10, color.RGBA{G: 200, A: 255}),
	}
	indices, err := m.UploadMany(ctx, owner, files, []string{"image/png", "image/png"})
	if err != nil {
		t.Fatalf("UploadMany() error = %v", err)
	}
	if len(indices) != 2 || indices[0] != 0 || indices[1] != 1 {
		t.Errorf("indices = %v, want [0 1]", indices)
	}
	if c, _ := counts.ImageCount(ctx, owner); c != 2 {
		t.Errorf("image count = %d, want 2", c)
	}
}

func TestManager_ConcurrentUploadsSameOwner(t *testing.T) {
	m, counts, store := newTestManager(t)
	ctx := context.Background()
	owner := Owner{ID: 1, Kind: "product", StableName: "drill-x"}

	const n = 8
	img := pngBytes(t, 10, 10, color.RGBA{R: 128, A: 255})

	var wg sync.WaitGroup
	results := make([]int, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = m.Upload(ctx, owner, img, "image/png")
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("concurrent Upload() %d error = %v", i, err)
		}
	}

	sort.Ints(results)
	for i, idx := range results {
		if idx != i {
			t.Fatalf("indices not contiguous: %v", results)
		}
	}
	if c, _ := counts.ImageCount(ctx, owner); c != n {
		t.Errorf("image count = %d, want %d", c, n)
	}
	for i := 0; i < n; i++ {
		key := m.Key(owner, "original", i)
		if ok, _ := store.ObjectExists(ctx, key); !ok {
			t.Errorf("object %s missing after concurrent uploads", key)
		}
	}
}
