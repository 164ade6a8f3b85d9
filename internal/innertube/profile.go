package innertube

const (
	// OriginYouTubeMusic is the origin every persona presents and signs against.
	OriginYouTubeMusic  = "https://music.youtube.com"
	RefererYouTubeMusic = "https://music.youtube.com/"

	playerEndpoint = "https://music.youtube.com/youtubei/v1/player"
	embedURLPrefix = "https://www.youtube.com/watch?v="
)

// Persona describes one simulated client identity. Values are plain data;
// NewPlayerRequest and SignHeaders are the only interpreters of the flags.
type Persona struct {
	// ID is the catalog alias (e.g. "ANDROID_VR_1_43_32"), distinct from the
	// InnerTube clientName ("ANDROID_VR").
	ID            string
	Name          string
	Version       string
	ContextNameID int
	APIEndpoint   string
	Origin        string
	Referer       string
	UserAgent     string

	OSName            string
	OSVersion         string
	DeviceMake        string
	DeviceModel       string
	AndroidSDKVersion string

	LoginSupported        bool
	LoginRequired         bool
	UseSignatureTimestamp bool
	Embedded              bool
}

// DisplayName is the name reported to callers for an accepted persona.
func (p Persona) DisplayName() string {
	return p.Name
}

func (p Persona) endpoint() string {
	if p.APIEndpoint != "" {
		return p.APIEndpoint
	}
	return playerEndpoint
}

func (p Persona) origin() string {
	if p.Origin != "" {
		return p.Origin
	}
	return OriginYouTubeMusic
}

func (p Persona) referer() string {
	if p.Referer != "" {
		return p.Referer
	}
	return RefererYouTubeMusic
}
