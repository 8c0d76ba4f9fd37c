// Package qrcode reads otpauth:// provisioning URIs out of QR code images.
package qrcode

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// For testing - allows us to mock these functions
var (
	execCommand = exec.Command
	tempDir     = os.TempDir
)

// ErrNotProvisioningURI is returned when a QR code decodes to something other
// than an otpauth:// URI.
var ErrNotProvisioningURI = errors.New("QR code does not contain an otpauth:// URI")

// minScreenshotSize is the smallest file screencapture writes for a real
// selection; anything smaller means the user cancelled.
const minScreenshotSize = 100

// DecodeImage returns the otpauth:// URI encoded in img.
func DecodeImage(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("failed to process image for QR reading: %w", err)
	}

	result, err := qrcode.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decode QR code: %w", err)
	}

	text := strings.TrimSpace(result.GetText())
	if !strings.HasPrefix(strings.ToLower(text), "otpauth://") {
		return "", ErrNotProvisioningURI
	}

	return text, nil
}

// ReadFile decodes a PNG, JPEG or GIF file and returns the URI in its QR code.
func ReadFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return "", fmt.Errorf("failed to decode image %s: %w", filepath.Base(path), err)
	}

	return DecodeImage(img)
}

// ScanScreen lets the user select a screen region with macOS screencapture
// and decodes the QR code in it.
func ScanScreen() (string, error) {
	tempFile := filepath.Join(tempDir(), fmt.Sprintf("otpcode-qr-%d.png", time.Now().UnixNano()))
	defer os.Remove(tempFile)

	cmd := execCommand("screencapture", "-i", tempFile)
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to capture screenshot: %w", err)
	}

	fileInfo, err := os.Stat(tempFile)
	if err != nil || fileInfo.Size() < minScreenshotSize {
		return "", fmt.Errorf("screenshot capture was canceled or failed")
	}

	uri, err := ReadFile(tempFile)
	if err != nil {
		return "", fmt.Errorf("%w\nMake sure the QR code is clearly visible in the screenshot", err)
	}

	return uri, nil
}
