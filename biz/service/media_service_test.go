package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/vega-tools/catalog/biz/dal/model"
	"github.com/vega-tools/catalog/biz/media"
)

func testImage(t *testing.T, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestService_ProductImageLifecycle(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	if _, err := s.CreateProduct(ctx, &model.Product{Name: "Drill X", SKU: "DRX-1", Price: 100}); err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}

	index, set, err := s.UploadImage(ctx, OwnerKindProduct, "drill-x", testImage(t, color.RGBA{R: 200, A: 255}), "image/png")
	if err != nil {
		t.Fatalf("UploadImage() error = %v", err)
	}
	if index != 0 {
		t.Errorf("first index = %d, want 0", index)
	}
	want := "http://localhost:8080/catalog/images/drill-x/original.webp"
	if set.URLs["original"] != want {
		t.Errorf("original URL = %q, want %q", set.URLs["original"], want)
	}

	if _, _, err := s.UploadImage(ctx, OwnerKindProduct, "drill-x", testImage(t, color.RGBA{G: 200, A: 255}), "image/png"); err != nil {
		t.Fatalf("second UploadImage() error = %v", err)
	}

	view, err := s.GetProductBySlug(ctx, "drill-x")
	if err != nil {
		t.Fatalf("GetProductBySlug() error = %v", err)
	}
	if view.ImageCount != 2 {
		t.Errorf("image count = %d, want 2", view.ImageCount)
	}
	if len(view.Images) != 2 {
		t.Fatalf("len(images) = %d, want 2", len(view.Images))
	}
	if view.Images[1].URLs["thumbnail"] != "http://localhost:8080/catalog/images/drill-x/thumbnail_1.webp" {
		t.Errorf("second thumbnail URL = %q", view.Images[1].URLs["thumbnail"])
	}

	exists, err := s.ImageExists(ctx, OwnerKindProduct, "drill-x", 1)
	if err != nil {
		t.Fatalf("ImageExists() error = %v", err)
	}
	if !exists {
		t.Error("ImageExists(1) = false after upload")
	}

	if err := s.DeleteImage(ctx, OwnerKindProduct, "drill-x", 0); err != nil {
		t.Fatalf("DeleteImage() error = %v", err)
	}
	view, _ = s.GetProductBySlug(ctx, "drill-x")
	if view.ImageCount != 1 {
		t.Errorf("image count after delete = %d, want 1", view.ImageCount)
	}
	exists, _ = s.ImageExists(ctx, OwnerKindProduct, "drill-x", 1)
	if exists {
		t.Error("ImageExists(1) = true after the shift down")
	}

	if err := s.DeleteAllImages(ctx, OwnerKindProduct, "drill-x"); err != nil {
		t.Fatalf("DeleteAllImages() error = %v", err)
	}
	view, _ = s.GetProductBySlug(ctx, "drill-x")
	if view.ImageCount != 0 {
		t.Errorf("image count after DeleteAll = %d, want 0", view.ImageCount)
	}
}

func TestService_UploadImageRejectsMislabeledText(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	if _, err := s.CreateProduct(ctx, &model.Product{Name: "Drill X", SKU: "DRX-1", Price: 100}); err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}

	_, _, err := s.UploadImage(ctx, OwnerKindProduct, "drill-x", []byte("plain text payload"), "image/png")
	if !errors.Is(err, media.ErrInvalidInput) {
		t.Fatalf("error = %v, want ErrInvalidInput", err)
	}

	view, _ := s.GetProductBySlug(ctx, "drill-x")
	if view.ImageCount != 0 {
		t.Errorf("image count = %d after rejected upload, want 0", view.ImageCount)
	}
}

func TestService_UploadImageAcceptsMislabeledImage(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	if _, err := s.CreateProduct(ctx, &model.Product{Name: "Drill X", SKU: "DRX-1", Price: 100}); err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}

	// Genuine PNG declared as a generic binary stream still uploads; the
	// sniffed type decides.
	index, _, err := s.UploadImage(ctx, OwnerKindProduct, "drill-x", testImage(t, color.RGBA{B: 200, A: 255}), "application/octet-stream")
	if err != nil {
		t.Fatalf("UploadImage() error = %v", err)
	}
	if index != 0 {
		t.Errorf("index = %d, want 0", index)
	}
}

func TestService_SettingImages(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	if err := s.CreateSetting(ctx, &model.SiteSetting{
		Key: "homepage_carousel", Category: model.SettingCategorySections, Value: `{}`, IsPublic: true,
	}); err != nil {
		t.Fatalf("CreateSetting() error = %v", err)
	}

	if _, _, err := s.UploadImage(ctx, OwnerKindSetting, "homepage_carousel", testImage(t, color.RGBA{R: 90, A: 255}), "image/png"); err != nil {
		t.Fatalf("UploadImage(setting) error = %v", err)
	}

	setting, _ := s.GetSetting(ctx, "homepage_carousel")
	if setting.ImageCount != 1 {
		t.Errorf("setting image count = %d, want 1", setting.ImageCount)
	}

	sets, err := s.ImageSets(ctx, OwnerKindSetting, "homepage_carousel")
	if err != nil {
		t.Fatalf("ImageSets() error = %v", err)
	}
	if len(sets) != 1 {
		t.Fatalf("len(sets) = %d, want 1", len(sets))
	}
	if sets[0].URLs["original"] != "http://localhost:8080/catalog/images/homepage_carousel/original.webp" {
		t.Errorf("setting original URL = %q", sets[0].URLs["original"])
	}
}

func TestService_DeleteProductWithImages(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	if _, err := s.CreateProduct(ctx, &model.Product{Name: "Drill X", SKU: "DRX-1", Price: 100}); err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}
	if _, _, err := s.UploadImage(ctx, OwnerKindProduct, "drill-x", testImage(t, color.RGBA{R: 10, A: 255}), "image/png"); err != nil {
		t.Fatalf("UploadImage() error = %v", err)
	}

	if err := s.DeleteProductWithImages(ctx, "drill-x"); err != nil {
		t.Fatalf("DeleteProductWithImages() error = %v", err)
	}
	if _, err := s.GetProductBySlug(ctx, "drill-x"); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("product still resolvable after delete: %v", err)
	}
	ok, _ := s.store.ObjectExists(ctx, "catalog/images/drill-x/original.webp")
	if ok {
		t.Error("image object survived product deletion")
	}
}

func TestService_AttachmentLifecycle(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	att, err := s.UploadAttachment(ctx, FileUploadInput{
		OwnerType:   "setting",
		OwnerKey:    "homepage_carousel",
		FileName:    "banner one.png",
		ContentType: "image/png",
		Data:        testImage(t, color.RGBA{R: 120, A: 255}),
	})
	if err != nil {
		t.Fatalf("UploadAttachment() error = %v", err)
	}
	if att.FileID == "" {
		t.Fatal("attachment has no file id")
	}
	if att.FileName != "banner_one.png" {
		t.Errorf("file name = %q, want sanitized %q", att.FileName, "banner_one.png")
	}

	got, rc, err := s.GetAttachment(ctx, att.FileID)
	if err != nil {
		t.Fatalf("GetAttachment() error = %v", err)
	}
	rc.Close()
	if got.ContentType != "image/png" {
		t.Errorf("content type = %q, want image/png", got.ContentType)
	}

	listed, err := s.ListAttachments(ctx, "setting", "homepage_carousel")
	if err != nil {
		t.Fatalf("ListAttachments() error = %v", err)
	}
	if len(listed) != 1 {
		t.Errorf("len(attachments) = %d, want 1", len(listed))
	}

	if err := s.DeleteAttachment(ctx, att.FileID); err != nil {
		t.Fatalf("DeleteAttachment() error = %v", err)
	}
	if _, _, err := s.GetAttachment(ctx, att.FileID); !errors.Is(err, ErrAttachmentNotFound) {
		t.Errorf("attachment still resolvable after delete: %v", err)
	}
}

func TestService_UploadImagesBatch(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	if _, err := s.CreateProduct(ctx, &model.Product{Name: "Drill X", SKU: "DRL-1", Price: 10, Published: true}); err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}

	files := [][]byte{
		testImage(t, color.RGBA{R: 200, A: 255}),
		testImage(t, color.RGBA{G: 200, A: 255}),
		testImage(t, color.RGBA{B: 200, A: 255}),
	}
	types := []string{"image/png", "image/png", "image/png"}

	sets, err := s.UploadImages(ctx, OwnerKindProduct, "drill-x", files, types)
	if err != nil {
		t.Fatalf("UploadImages() error = %v", err)
	}
	if len(sets) != 3 {
		t.Fatalf("len(sets) = %d, want 3", len(sets))
	}
	for i, set := range sets {
		if set.Index != i {
			t.Errorf("sets[%d].Index = %d, want %d", i, set.Index, i)
		}
	}

	view, err := s.GetProductBySlug(ctx, "drill-x")
	if err != nil {
		t.Fatalf("GetProductBySlug() error = %v", err)
	}
	if view.ImageCount != 3 {
		t.Errorf("image count = %d, want 3", view.ImageCount)
	}
}

func TestService_UploadImagesRejectsWholeBatch(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	if _, err := s.CreateProduct(ctx, &model.Product{Name: "Drill X", SKU: "DRL-1", Price: 10, Published: true}); err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}

	files := [][]byte{
		testImage(t, color.RGBA{R: 200, A: 255}),
		[]byte("not an image at all"),
	}
	types := []string{"image/png", "image/png"}

	if _, err := s.UploadImages(ctx, OwnerKindProduct, "drill-x", files, types); !errors.Is(err, media.ErrInvalidInput) {
		t.Fatalf("UploadImages() error = %v, want ErrInvalidInput", err)
	}

	view, err := s.GetProductBySlug(ctx, "drill-x")
	if err != nil {
		t.Fatalf("GetProductBySlug() error = %v", err)
	}
	if view.ImageCount != 0 {
		t.Errorf("image count = %d, want 0 after rejected batch", view.ImageCount)
	}
}
