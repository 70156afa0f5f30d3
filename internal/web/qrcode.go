package web

import (
	"strings"

	qr "github.com/skip2/go-qrcode"
)

// QRCode creates a QR code PNG image for the given URL.
func QRCode(url string) ([]byte, error) {
	return qr.Encode(url, qr.Medium, 256)
}

// QRTerminal renders url as a QR code using half-block characters, two
// modules per line.
func QRTerminal(url string) (string, error) {
	code, err := qr.New(url, qr.Medium)
	if err != nil {
		return "", err
	}
	bits := code.Bitmap()

	var b strings.Builder
	for y := 0; y < len(bits); y += 2 {
		for x := range bits[y] {
			top := bits[y][x]
			bottom := y+1 < len(bits) && bits[y+1][x]
			switch {
			case top && bottom:
				b.WriteRune('█')
			case top:
				b.WriteRune('▀')
			case bottom:
				b.WriteRune('▄')
			default:
				b.WriteRune(' ')
			}
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}
