package transfer

type UploadedAsset struct {
	ImageName string `json:"imageName"`
	Key       string `json:"key"`
	URL       string `json:"url"`
	SHA256    string `json:"sha256"`
	Size      int64  `json:"size"`
	Mime      string `json:"mime"`
}

type TempUpload struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type SavedCaptions struct {
	Key   string `json:"key"`
	URL   string `json:"url"`
	Count int    `json:"count"`
}

type SaveCaptionsRequest struct {
	Captions []string `json:"captions"`
}

type CaptionsRequest struct {
	Key string `json:"key"`
}

type HashtagsRequest struct {
	Caption string `json:"caption"`
}
