package www

import (
	"image/color"
	"log/slog"
	"net/http"

	"github.com/skip2/go-qrcode"
)

const (
	defaultQrSize = 256
	minQrSize     = 64
	maxQrSize     = 1024
)

var (
	qrForeground = color.RGBA{0x26, 0x32, 0x38, 0xFF}
	qrBackground = color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
)

// NewQrHandler renders the share link of the page as a PNG.
func NewQrHandler(logger *slog.Logger, publicUrl string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		size := max(minQrSize, min(intOrDefault(r.URL, "size", defaultQrSize), maxQrSize))

		qr, err := qrcode.New(publicUrl, qrcode.Medium)
		if err != nil {
			logger.Error("handling qr request", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		qr.ForegroundColor = qrForeground
		qr.BackgroundColor = qrBackground

		png, err := qr.PNG(size)
		if err != nil {
			logger.Error("handling qr request", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "public, max-age=86400")
		if _, err := w.Write(png); err != nil {
			logger.Warn("writing qr response", slog.Any("error", err))
		}
	}
}
