package model

// VideoInfo is the result of resolving a share link: a directly fetchable,
// watermark-free media URL plus minimal presentation metadata.
type VideoInfo struct {
	// URL of the media file. Never empty on a successful resolution.
	URL string `json:"url"`
	// Cover image URL, optional.
	Cover string `json:"cover"`
	// Human readable description, optional.
	Desc string `json:"desc"`
	// Demo marks a non-authoritative placeholder substituted when every
	// extraction strategy came up empty.
	Demo bool `json:"is_demo"`
}
