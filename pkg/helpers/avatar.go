package helpers

import (
	"bytes"
	"image"
	"image/png"
	"io"
	"net/url"
	"strings"

	"github.com/disintegration/imaging"

	// decoders for uploaded avatars
	_ "image/gif"
	_ "image/jpeg"
)

// AvatarSize is the edge length, in pixels, of stored avatars.
const AvatarSize = 256

// InitialsAvatarURL builds a deterministic avatar URL for a display name.
// The same name always yields the same URL.
func InitialsAvatarURL(baseURL, name string) string {
	name = strings.Join(strings.Fields(name), " ")
	q := url.Values{}
	q.Set("name", name)
	q.Set("size", "256")
	sep := "?"
	if strings.Contains(baseURL, "?") {
		sep = "&"
	}
	return baseURL + sep + q.Encode()
}

// NormalizeAvatar decodes an uploaded image, crops it to a centered square of
// AvatarSize pixels and re-encodes it as PNG.
func NormalizeAvatar(r io.Reader) (*bytes.Buffer, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	dst := imaging.Fill(src, AvatarSize, AvatarSize, imaging.Center, imaging.Lanczos)
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, dst); err != nil {
		return nil, err
	}
	return buf, nil
}
