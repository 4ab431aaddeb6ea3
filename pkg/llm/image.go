package llm

import (
	"encoding/base64"
	"net/http"
	"strings"
)

// DefaultImageType is used when the media type can be neither read nor sniffed.
const DefaultImageType = "image/jpeg"

// DecodeImage decodes a base64 image payload. A "data:<mime>;base64," prefix is
// accepted and its media type wins over sniffing.
func DecodeImage(s string) (Image, error) {
	s = strings.TrimSpace(s)
	var hint string
	if strings.HasPrefix(s, "data:") {
		if idx := strings.IndexByte(s, ','); idx > 0 {
			meta := s[len("data:"):idx]
			if semi := strings.IndexByte(meta, ';'); semi >= 0 {
				hint = meta[:semi]
			} else {
				hint = meta
			}
			s = s[idx+1:]
		}
	}

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		var err2 error
		if data, err2 = base64.URLEncoding.DecodeString(s); err2 != nil {
			return Image{}, ErrInvalidImage
		}
	}
	if len(data) == 0 {
		return Image{}, ErrInvalidImage
	}

	mediaType := strings.TrimSpace(hint)
	if mediaType == "" {
		mediaType = SniffImageType(data)
	}
	return Image{MediaType: mediaType, Data: data}, nil
}

// SniffImageType returns the image media type detected from magic bytes, or
// DefaultImageType when the bytes are not a recognised image.
func SniffImageType(data []byte) string {
	ct := http.DetectContentType(data)
	if strings.HasPrefix(ct, "image/") {
		return ct
	}
	return DefaultImageType
}
