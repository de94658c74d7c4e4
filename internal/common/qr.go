package common

import (
	"encoding/base64"
	"fmt"

	"github.com/skip2/go-qrcode"
)

// DefaultQRSize is the PNG edge length used when the caller passes 0
const DefaultQRSize = 256

// AddressQR renders address as a PNG QR code
func AddressQR(address string, size int) ([]byte, error) {
	if address == "" {
		return nil, fmt.Errorf("address is empty")
	}
	if size <= 0 {
		size = DefaultQRSize
	}

	qr, err := qrcode.New(address, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	png, err := qr.PNG(size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}
	return png, nil
}

// AddressQRBase64 is AddressQR encoded as base64, the form stored in key files
func AddressQRBase64(address string) (string, error) {
	png, err := AddressQR(address, DefaultQRSize)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(png), nil
}
