package quality

import (
	"fmt"
	"strconv"
	"strings"
)

// Resolution represents the vertical video resolution of a release.
type Resolution int

const (
	ResolutionUnknown Resolution = 0
	Resolution480p    Resolution = 480
	Resolution576p    Resolution = 576
	Resolution720p    Resolution = 720
	Resolution1080p   Resolution = 1080
	Resolution2160p   Resolution = 2160
)

var resolutionAliases = map[string]Resolution{
	"480p":  Resolution480p,
	"480i":  Resolution480p,
	"sd":    Resolution480p,
	"576p":  Resolution576p,
	"576i":  Resolution576p,
	"720p":  Resolution720p,
	"hd":    Resolution720p,
	"1080p": Resolution1080p,
	"1080i": Resolution1080p,
	"fhd":   Resolution1080p,
	"2160p": Resolution2160p,
	"4k":    Resolution2160p,
	"uhd":   Resolution2160p,
}

// ParseResolution converts a release token ("1080p", "4K", "UHD") to a Resolution.
func ParseResolution(token string) Resolution {
	if res, ok := resolutionAliases[normalizeToken(token)]; ok {
		return res
	}
	return ResolutionUnknown
}

// ResolutionFromDimensions classifies a video stream by its pixel dimensions.
// Width is considered alongside height so letterboxed encodes (1920x800)
// still land in the right bucket. Zero dimensions yield ResolutionUnknown.
func ResolutionFromDimensions(width, height int) Resolution {
	if width <= 0 && height <= 0 {
		return ResolutionUnknown
	}
	switch {
	case width >= 3200 || height >= 2100:
		return Resolution2160p
	case width >= 1800 || height >= 1000:
		return Resolution1080p
	case width >= 1200 || height >= 700:
		return Resolution720p
	case height >= 560:
		return Resolution576p
	default:
		return Resolution480p
	}
}

func (r Resolution) String() string {
	if !r.Known() {
		return "unknown"
	}
	return strconv.Itoa(int(r)) + "p"
}

// Valid reports whether r is one of the declared resolutions.
func (r Resolution) Valid() bool {
	switch r {
	case ResolutionUnknown, Resolution480p, Resolution576p, Resolution720p, Resolution1080p, Resolution2160p:
		return true
	default:
		return false
	}
}

// Known reports whether r carries an actual resolution.
func (r Resolution) Known() bool {
	return r != ResolutionUnknown && r.Valid()
}

func (r Resolution) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("resolution: invalid value %d", int(r))
	}
	return []byte(r.String()), nil
}

func (r *Resolution) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	if raw == "" || strings.EqualFold(raw, "unknown") {
		*r = ResolutionUnknown
		return nil
	}
	parsed := ParseResolution(raw)
	if parsed == ResolutionUnknown {
		return fmt.Errorf("resolution: unsupported value %q", raw)
	}
	*r = parsed
	return nil
}
