package media

import (
	"bytes"
	"context"

	"github.com/vega-tools/catalog/pkg/lock"
	"github.com/vega-tools/catalog/pkg/storage"
	"github.com/vega-tools/catalog/pkg/validator"
)

// Owner identifies the entity a set of images belongs to. StableName is the
// immutable slug-like identifier used in storage keys; Kind namespaces
// owners of different types so a product and a category with the same slug
// never collide on locks.
type Owner struct {
	ID         uint
	Kind       string
	StableName string
}

func (o Owner) lockKey() string { return o.Kind + "/" + o.StableName }

// CountStore persists the authoritative image count per owner. The count is
// the single source of truth for how many images an owner has; the store is
// never listed to discover images.
type CountStore interface {
	ImageCount(ctx context.Context, owner Owner) (uint, error)
	SetImageCount(ctx context.Context, owner Owner, count uint) error
}

// Manager orchestrates the image lifecycle for an owner: transcoding into
// variants, writing them to the object store under deterministic keys, and
// keeping the persisted image count in step. All mutating operations
// serialize per owner; operations on different owners run concurrently.
type Manager struct {
	store      storage.Storage
	counts     CountStore
	keys       KeyScheme
	transcoder *Transcoder
	variants   []VariantSpec
	locks      *lock.KeyedMutex
}

func NewManager(store storage.Storage, counts CountStore, keys KeyScheme, variants []VariantSpec) *Manager {
	return &Manager{
		store:      store,
		counts:     counts,
		keys:       keys,
		transcoder: NewTranscoder(),
		variants:   variants,
		locks:      lock.NewKeyedMutex(),
	}
}

// Variants returns the configured variant specs in order.
func (m *Manager) Variants() []VariantSpec { return m.variants }

// URL returns the public URL for one variant of the owner's image at index.
// It is computed from the key scheme alone and never touches the store, so
// it is valid to call for indices that have not been uploaded yet.
func (m *Manager) URL(owner Owner, variant string, index int) string {
	return m.keys.URL(owner.StableName, variant, index)
}

// Key exposes the object key for one variant of the image at index.
func (m *Manager) Key(owner Owner, variant string, index int) string {
	return m.keys.Key(owner.StableName, variant, index)
}

// Upload appends a new image for the owner. Every configured variant is
// transcoded and written at index image_count, then the count is advanced.
// Returns the index the image was stored at.
func (m *Manager) Upload(ctx context.Context, owner Owner, data []byte, contentType string) (int, error) {
	if err := m.checkInput(owner, data, contentType); err != nil {
		return 0, err
	}

	m.locks.Lock(owner.lockKey())
	defer m.locks.Unlock(owner.lockKey())

	count, err := m.counts.ImageCount(ctx, owner)
	if err != nil {
		return 0, err
	}
	index := int(count)

	if err := m.writeVariants(ctx, owner, index, data, "upload"); err != nil {
		return 0, err
	}

	if err := m.counts.SetImageCount(ctx, owner, count+1); err != nil {
		return 0, err
	}
	return index, nil
}

// UploadMany appends several images in order and returns the indices they
// were stored at. It stops at the first failure; earlier images remain
// uploaded and counted.
func (m *Manager) UploadMany(ctx context.Context, owner Owner, files [][]byte, contentTypes []string) ([]int, error) {
	indices := make([]int, 0, len(files))
	for i, data := range files {
		ct := ""
		if i < len(contentTypes) {
			ct = contentTypes[i]
		}
		idx, err := m.Upload(ctx, owner, data, ct)
		if err != nil {
			return indices, err
		}
		indices = append(indices, idx)
	}
	return indices, nil
}

// Replace overwrites the image at index with new content. All variant keys
// at that index are deleted first, then rewritten from the new source. The
// image count does not change.
func (m *Manager) Replace(ctx context.Context, owner Owner, index int, data []byte, contentType string) error {
	if err := m.checkInput(owner, data, contentType); err != nil {
		return err
	}

	m.locks.Lock(owner.lockKey())
	defer m.locks.Unlock(owner.lockKey())

	count, err := m.counts.ImageCount(ctx, owner)
	if err != nil {
		return err
	}
	if index < 0 || index >= int(count) {
		return ErrIndexOutOfRange
	}

	for _, v := range m.variants {
		key := m.keys.Key(owner.StableName, v.Name, index)
		if err := m.store.DeleteObject(ctx, key); err != nil {
			return &StoreError{Op: "delete", Key: key, Err: err}
		}
	}

	return m.writeVariants(ctx, owner, index, data, "replace")
}

// Delete removes the image at index and closes the gap: every image above
// it shifts down one slot, then the count is decremented. The shift walks
// indices in ascending order; each slot is copied onto its predecessor
// before the source is deleted, so a crash mid-shift leaves a recoverable
// prefix rather than lost images.
func (m *Manager) Delete(ctx context.Context, owner Owner, index int) error {
	if owner.StableName == "" {
		return ErrOwnerNotReady
	}

	m.locks.Lock(owner.lockKey())
	defer m.locks.Unlock(owner.lockKey())

	count, err := m.counts.ImageCount(ctx, owner)
	if err != nil {
		return err
	}
	if index < 0 || index >= int(count) {
		return ErrIndexOutOfRange
	}

	for _, v := range m.variants {
		key := m.keys.Key(owner.StableName, v.Name, index)
		if err := m.store.DeleteObject(ctx, key); err != nil {
			return &StoreError{Op: "delete", Key: key, Err: err}
		}
	}

	for j := index + 1; j < int(count); j++ {
		for _, v := range m.variants {
			src := m.keys.Key(owner.StableName, v.Name, j)
			dst := m.keys.Key(owner.StableName, v.Name, j-1)
			if err := m.store.CopyObject(ctx, src, dst); err != nil {
				return &PartialWriteError{
					Owner:   owner.StableName,
					Index:   j,
					Variant: v.Name,
					Step:    "reindex",
					Err:     &StoreError{Op: "copy", Key: src, Err: err},
				}
			}
			if err := m.store.DeleteObject(ctx, src); err != nil {
				return &PartialWriteError{
					Owner:   owner.StableName,
					Index:   j,
					Variant: v.Name,
					Step:    "reindex",
					Err:     &StoreError{Op: "delete", Key: src, Err: err},
				}
			}
		}
	}

	return m.counts.SetImageCount(ctx, owner, count-1)
}

// DeleteAll removes every image the owner has and resets the count to zero.
// A zero count is a no-op success. Object deletes are idempotent, so a
// partially failed DeleteAll can simply be retried.
func (m *Manager) DeleteAll(ctx context.Context, owner Owner) error {
	if owner.StableName == "" {
		return ErrOwnerNotReady
	}

	m.locks.Lock(owner.lockKey())
	defer m.locks.Unlock(owner.lockKey())

	count, err := m.counts.ImageCount(ctx, owner)
	if err != nil {
		return err
	}
	if count == 0 {
		return nil
	}

	for i := 0; i < int(count); i++ {
		for _, v := range m.variants {
			key := m.keys.Key(owner.StableName, v.Name, i)
			if err := m.store.DeleteObject(ctx, key); err != nil {
				return &StoreError{Op: "delete", Key: key, Err: err}
			}
		}
	}

	return m.counts.SetImageCount(ctx, owner, 0)
}

// Exists probes the store for the image at index by checking its primary
// variant. Unlike URL, this consults the backend and reports the real state.
func (m *Manager) Exists(ctx context.Context, owner Owner, index int) (bool, error) {
	if owner.StableName == "" {
		return false, ErrOwnerNotReady
	}
	key := m.keys.Key(owner.StableName, m.primaryVariant().Name, index)
	ok, err := m.store.ObjectExists(ctx, key)
	if err != nil {
		return false, &StoreError{Op: "exists", Key: key, Err: err}
	}
	return ok, nil
}

func (m *Manager) primaryVariant() VariantSpec {
	for _, v := range m.variants {
		if v.Name == "original" {
			return v
		}
	}
	return m.variants[0]
}

func (m *Manager) checkInput(owner Owner, data []byte, contentType string) error {
	if owner.StableName == "" {
		return ErrOwnerNotReady
	}
	if len(data) == 0 || !validator.IsImageType(validator.NormalizeMimeType(contentType)) {
		return ErrInvalidInput
	}
	return nil
}

// writeVariants transcodes data into every variant, then writes them to the
// store in configuration order. All variants are transcoded up front so a
// codec failure never leaves a half-written index; only store failures after
// the first successful put surface as PartialWriteError.
func (m *Manager) writeVariants(ctx context.Context, owner Owner, index int, data []byte, step string) error {
	encoded := make([][]byte, len(m.variants))
	for i, v := range m.variants {
		out, err := m.transcoder.Transcode(data, v)
		if err != nil {
			return err
		}
		encoded[i] = out
	}

	for i, v := range m.variants {
		key := m.keys.Key(owner.StableName, v.Name, index)
		body := encoded[i]
		err := m.store.PutObject(ctx, key, bytes.NewReader(body), ContentType, int64(len(body)))
		if err != nil {
			serr := &StoreError{Op: "put", Key: key, Err: err}
			if i > 0 {
				return &PartialWriteError{
					Owner:   owner.StableName,
					Index:   index,
					Variant: v.Name,
					Step:    step,
					Err:     serr,
				}
			}
			return serr
		}
	}
	return nil
}
