// Package qr renders a URL as a scannable QR code image.
package qr

import (
	"bytes"
	"encoding/base64"
	"fmt"

	qrcode "github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"
)

type nopCloser struct {
	*bytes.Buffer
}

func (nopCloser) Close() error { return nil }

// DataURI encodes url into a PNG QR code and returns it as a
// data:image/png;base64 URI. The url's shape is not validated; only
// encoder-internal errors fail.
func DataURI(url string) (string, error) {
	png, err := PNG(url)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// PNG encodes url into raw PNG bytes.
func PNG(url string) ([]byte, error) {
	code, err := qrcode.NewWith(url,
		qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionMedium),
	)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}

	var buf bytes.Buffer
	w := standard.NewWithWriter(nopCloser{&buf},
		standard.WithQRWidth(10),
		standard.WithBuiltinImageEncoder(standard.PNG_FORMAT),
	)
	if err := code.Save(w); err != nil {
		return nil, fmt.Errorf("render qr: %w", err)
	}
	return buf.Bytes(), nil
}
