package media

// Asset is a single hosted media asset as reported by the upstream API.
type Asset struct {
	PublicID  string `json:"publicId"`
	Format    string `json:"format"`
	Bytes     int64  `json:"bytes"`
	URL       string `json:"url"`
	SecureURL string `json:"secureUrl"`
	Folder    string `json:"folder,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// AssetList carries one upstream page of assets. NextCursor is the
// upstream's opaque pagination cursor, passed through untouched.
type AssetList struct {
	Assets     []Asset `json:"assets"`
	NextCursor string  `json:"nextCursor,omitempty"`
}
