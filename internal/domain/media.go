package domain

// Тег провайдера хранится рядом с каждым артефактом, удаление
// маршрутизируется по нему, а не по подстрокам URL
const (
	ProviderS3    = "s3"
	ProviderLocal = "local"
)

const (
	MediaKindImage = "image"
	MediaKindAudio = "audio"
)

// MediaArtifact - один загруженный объект в хранилище
type MediaArtifact struct {
	URL        string `json:"url"`
	StorageKey string `json:"storage_key"`
	ByteSize   int64  `json:"byte_size"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Provider   string `json:"provider"`
}

// MediaArtifactSet - три рендишна изображения. Создаётся атомарно:
// либо все три, либо ничего.
type MediaArtifactSet struct {
	Original  MediaArtifact `json:"original"`
	Medium    MediaArtifact `json:"medium"`
	Thumbnail MediaArtifact `json:"thumbnail"`
}

// Artifacts возвращает рендишны для поштучной обработки (удаление)
func (s *MediaArtifactSet) Artifacts() []MediaArtifact {
	return []MediaArtifact{s.Original, s.Medium, s.Thumbnail}
}

// AudioArtifact - голосовая заметка, один объект без рендишнов
type AudioArtifact struct {
	URL             string `json:"url"`
	StorageKey      string `json:"storage_key"`
	ByteSize        int64  `json:"byte_size"`
	DurationSeconds int    `json:"duration_seconds,omitempty"`
	Provider        string `json:"provider"`
}
