package helper

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"mime/multipart"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"
)

const (
	coverMaxW     = 1600
	coverMaxH     = 1200
	coverQuality  = 80.0
	coverMaxBytes = 5 << 20
)

// ConvertImageToWebP decodes an uploaded JPEG/PNG/WEBP, downsizes it to the
// cover bounds keeping aspect ratio, and re-encodes lossy WebP. Course cover
// images always land in storage as WebP regardless of what the admin sent.
func ConvertImageToWebP(fh *multipart.FileHeader) ([]byte, error) {
	if fh.Size > coverMaxBytes {
		return nil, fmt.Errorf("image exceeds the %d MiB limit", coverMaxBytes>>20)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		// retry as webp, which image.Decode does not register by default
		if _, serr := f.Seek(0, 0); serr == nil {
			if wimg, werr := webp.Decode(f); werr == nil {
				img = wimg
				err = nil
			}
		}
		if err != nil {
			return nil, fmt.Errorf("decode image: %w", err)
		}
	}

	b := img.Bounds()
	if b.Dx() > coverMaxW || b.Dy() > coverMaxH {
		img = imaging.Fit(img, coverMaxW, coverMaxH, imaging.Lanczos)
	} else if _, ok := img.(*image.NRGBA); !ok {
		// normalize the pixel format so webp encoding is predictable
		dst := image.NewNRGBA(b)
		xdraw.Draw(dst, b, img, b.Min, xdraw.Src)
		img = dst
	}

	var out bytes.Buffer
	if err := webp.Encode(&out, img, &webp.Options{Quality: coverQuality}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return out.Bytes(), nil
}
