package asset

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"badtracing/engine"
)

// LoadBitmap decodes the image at path. Any format registered with the
// image package is accepted (png, jpeg, gif, bmp, tiff, webp).
func LoadBitmap(path string) (*engine.Bitmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	b, err := DecodeBitmap(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return b, nil
}

func DecodeBitmap(r io.Reader) (*engine.Bitmap, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return BitmapFromImage(img), nil
}

// BitmapFromImage copies img into a Bitmap, marking pixels under half
// alpha as transparent.
func BitmapFromImage(img image.Image) *engine.Bitmap {
	bounds := img.Bounds()
	b := engine.NewBitmap(bounds.Dx(), bounds.Dy())
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			c, opaque := engine.FromColor(img.At(bounds.Min.X+x, bounds.Min.Y+y))
			b.Set(x, y, c, opaque)
		}
	}
	return b
}

// LoadTexture loads a bitmap texture. When fallback is set, a texture that
// fails to load is replaced by a solid one and the failure is logged.
func LoadTexture(path string, fallback *engine.Color) (*engine.Texture, error) {
	tex, err := loadBitmapTexture(path)
	if err == nil {
		return tex, nil
	}
	if fallback == nil {
		return nil, err
	}
	log.Printf("texture %q unavailable, using solid #%06x: %v", path, uint32(*fallback), err)
	return engine.SolidTexture(*fallback), nil
}

func loadBitmapTexture(path string) (*engine.Texture, error) {
	b, err := LoadBitmap(path)
	if err != nil {
		return nil, err
	}
	tex, err := engine.NewBitmapTexture(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tex, nil
}

func LoadSkybox(path string) (*engine.Skybox, error) {
	b, err := LoadBitmap(path)
	if err != nil {
		return nil, err
	}
	sky, err := engine.NewSkybox(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sky, nil
}
