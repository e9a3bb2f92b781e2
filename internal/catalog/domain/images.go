package domain

import "strings"

// ImageShape tags how a product document stores its images.
type ImageShape int

const (
	ImagesMissing ImageShape = iota
	// ImagesStringList is images: ["url", ...].
	ImagesStringList
	// ImagesURLObjectList is images: [{url: "..."}, ...].
	ImagesURLObjectList
	// ImagesStringURL is images: "url".
	ImagesStringURL
	// ImagesLegacySingle is a top-level imageUrl: "url" with no usable images field.
	ImagesLegacySingle
)

func (s ImageShape) String() string {
	switch s {
	case ImagesStringList:
		return "string_list"
	case ImagesURLObjectList:
		return "url_object_list"
	case ImagesStringURL:
		return "string_url"
	case ImagesLegacySingle:
		return "legacy_single"
	}
	return "missing"
}

// ImageField is a product's image data resolved to an ordered URL list.
type ImageField struct {
	Shape ImageShape
	URLs  []string
}

const (
	groupDelimiter   = "~"
	directImageMark  = "/nth/"
	firstGroupMember = "/nth/0/"
)

// ClassifyImages resolves the image list of a raw product document. The
// shape is decided by the first element of images, then by images being a
// bare string, then by the legacy imageUrl field. An empty images list falls
// through to imageUrl.
func ClassifyImages(data map[string]interface{}) ImageField {
	switch v := data["images"].(type) {
	case []string:
		if len(v) > 0 {
			urls := make([]string, len(v))
			copy(urls, v)
			return ImageField{Shape: ImagesStringList, URLs: urls}
		}
	case []interface{}:
		if len(v) > 0 {
			if _, ok := v[0].(string); ok {
				urls := make([]string, 0, len(v))
				for _, it := range v {
					if s, ok := it.(string); ok {
						urls = append(urls, s)
					}
				}
				return ImageField{Shape: ImagesStringList, URLs: urls}
			}
			if u := urlOf(v[0]); u != "" {
				urls := make([]string, 0, len(v))
				for _, it := range v {
					if u := urlOf(it); u != "" {
						urls = append(urls, u)
					}
				}
				return ImageField{Shape: ImagesURLObjectList, URLs: urls}
			}
		}
	case []map[string]interface{}:
		if len(v) > 0 && urlOf(v[0]) != "" {
			urls := make([]string, 0, len(v))
			for _, it := range v {
				if u := urlOf(it); u != "" {
					urls = append(urls, u)
				}
			}
			return ImageField{Shape: ImagesURLObjectList, URLs: urls}
		}
	case string:
		if v != "" {
			return ImageField{Shape: ImagesStringURL, URLs: []string{v}}
		}
	}

	if u, ok := data["imageUrl"].(string); ok && u != "" {
		return ImageField{Shape: ImagesLegacySingle, URLs: []string{u}}
	}
	return ImageField{Shape: ImagesMissing, URLs: []string{}}
}

func urlOf(v interface{}) string {
	switch m := v.(type) {
	case map[string]interface{}:
		if u, ok := m["url"].(string); ok {
			return u
		}
	case map[string]string:
		return m["url"]
	}
	return ""
}

// SafeImageURL turns an image-host file-group reference into a reference to
// the group's first file. URLs already selecting a single file, and URLs that
// are not group references, are returned unchanged, so the rewrite is
// idempotent.
func SafeImageURL(u string) string {
	if u == "" {
		return ""
	}
	if strings.Contains(u, directImageMark) {
		return u
	}
	if strings.Contains(u, groupDelimiter) {
		return strings.TrimSuffix(u, "/") + firstGroupMember
	}
	return u
}
