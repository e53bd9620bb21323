package model

// UploadedMedia describes an asset stored on the media CDN.
type UploadedMedia struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
	Bytes    int    `json:"bytes"`
	Format   string `json:"format"`
}
