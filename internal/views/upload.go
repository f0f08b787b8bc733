package views

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sandeepkv93/shophub-client/internal/domain"
	"github.com/sandeepkv93/shophub-client/internal/forms"
	"github.com/sandeepkv93/shophub-client/internal/http/client"
	"github.com/sandeepkv93/shophub-client/internal/navigation"
	"github.com/sandeepkv93/shophub-client/internal/observability"
)

const (
	MsgUploadSucceeded = "Product uploaded successfully!"
	MsgUploadFailed    = "Failed to upload product."
)

type UploadResult struct {
	Errors  forms.FieldErrors
	Message string
	Product *domain.Product
	// Next is where the view goes after a successful upload.
	Next string
}

type Uploader struct {
	api    UploadAPI
	logger *slog.Logger
}

func NewUploader(api UploadAPI, logger *slog.Logger) *Uploader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Uploader{api: api, logger: logger}
}

func (u *Uploader) Upload(ctx context.Context, f forms.UploadForm) UploadResult {
	if errs := forms.ValidateUpload(f); len(errs) > 0 {
		return UploadResult{Errors: errs}
	}
	file, err := os.Open(f.ImagePath)
	if err != nil {
		u.logger.ErrorContext(ctx, "open product image failed", "path", f.ImagePath, "error", err)
		return UploadResult{Errors: forms.FieldErrors{forms.FieldImage: forms.MsgImageRequired}}
	}
	defer file.Close()

	product, err := u.api.UploadProduct(ctx, client.ProductUpload{
		Name:      f.Name,
		Price:     f.Price,
		Category:  f.Category,
		ImageName: filepath.Base(f.ImagePath),
		Image:     file,
	})
	if err != nil {
		u.logger.ErrorContext(ctx, "upload product failed", "error", err)
		return UploadResult{Message: MsgUploadFailed}
	}
	observability.Audit(ctx, "product.upload", "product_id", product.ID)
	return UploadResult{Message: MsgUploadSucceeded, Product: product, Next: navigation.ProfilePath}
}
