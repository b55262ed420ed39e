package quality

// Codec is a canonical video codec name. The zero value means unknown.
type Codec string

const (
	CodecUnknown Codec = ""
	CodecH264    Codec = "h264"
	CodecHEVC    Codec = "hevc"
	CodecAV1     Codec = "av1"
	CodecVC1     Codec = "vc1"
	CodecMPEG2   Codec = "mpeg2"
	CodecXviD    Codec = "xvid"
	CodecVP9     Codec = "vp9"
)

var codecAliases = map[string]Codec{
	"x264":       CodecH264,
	"h264":       CodecH264,
	"avc":        CodecH264,
	"avc1":       CodecH264,
	"x265":       CodecHEVC,
	"h265":       CodecHEVC,
	"hevc":       CodecHEVC,
	"hvc1":       CodecHEVC,
	"av1":        CodecAV1,
	"vc1":        CodecVC1,
	"wvc1":       CodecVC1,
	"mpeg2":      CodecMPEG2,
	"mpeg2video": CodecMPEG2,
	"xvid":       CodecXviD,
	"divx":       CodecXviD,
	"mpeg4":      CodecXviD,
	"vp9":        CodecVP9,
}

// ParseCodec canonicalizes release tokens ("x265", "H.264") and ffprobe codec
// names ("hevc", "mpeg2video"). Unrecognized names yield CodecUnknown.
func ParseCodec(name string) Codec {
	if codec, ok := codecAliases[normalizeToken(name)]; ok {
		return codec
	}
	return CodecUnknown
}

func (c Codec) String() string {
	if c == CodecUnknown {
		return "unknown"
	}
	return string(c)
}

// Known reports whether c names a recognized codec.
func (c Codec) Known() bool {
	_, ok := canonicalCodecs[c]
	return ok
}

var canonicalCodecs = map[Codec]struct{}{
	CodecH264: {}, CodecHEVC: {}, CodecAV1: {}, CodecVC1: {},
	CodecMPEG2: {}, CodecXviD: {}, CodecVP9: {},
}
