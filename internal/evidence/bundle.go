package evidence

// Kind names one of the four evidence sources a bundle may carry.
type Kind string

const (
	KindFilename  Kind = "filename"
	KindFolder    Kind = "folder"
	KindMediaInfo Kind = "media_info"
	KindRelease   Kind = "release"
)

// Bundle is the read-only evidence gathered for one import unit. Build it
// with NewBundle; accessors hand out copies so no reader can alter what
// another reader sees.
type Bundle struct {
	filename  *ParsedInfo
	folder    *ParsedInfo
	mediaInfo *MediaInfo
	release   *ReleaseInfo
}

// Option populates one source of a bundle under construction.
type Option func(*Bundle)

// WithFilename attaches the parser's result for the file name.
func WithFilename(info ParsedInfo) Option {
	return func(b *Bundle) {
		c := info.clone()
		b.filename = &c
	}
}

// WithFolder attaches the parser's result for the containing folder name.
func WithFolder(info ParsedInfo) Option {
	return func(b *Bundle) {
		c := info.clone()
		b.folder = &c
	}
}

// WithMediaInfo attaches the probed embedded metadata.
func WithMediaInfo(info MediaInfo) Option {
	return func(b *Bundle) {
		c := info.clone()
		b.mediaInfo = &c
	}
}

// WithRelease attaches the matched external release record.
func WithRelease(info ReleaseInfo) Option {
	return func(b *Bundle) {
		c := info.clone()
		b.release = &c
	}
}

// NewBundle builds a bundle from the supplied sources.
func NewBundle(opts ...Option) Bundle {
	var b Bundle
	for _, opt := range opts {
		if opt != nil {
			opt(&b)
		}
	}
	return b
}

// Filename returns the parsed file name, if present.
func (b Bundle) Filename() (ParsedInfo, bool) {
	if b.filename == nil {
		return ParsedInfo{}, false
	}
	return b.filename.clone(), true
}

// Folder returns the parsed folder name, if present.
func (b Bundle) Folder() (ParsedInfo, bool) {
	if b.folder == nil {
		return ParsedInfo{}, false
	}
	return b.folder.clone(), true
}

// MediaInfo returns the embedded metadata, if present.
func (b Bundle) MediaInfo() (MediaInfo, bool) {
	if b.mediaInfo == nil {
		return MediaInfo{}, false
	}
	return b.mediaInfo.clone(), true
}

// Release returns the external release record, if present.
func (b Bundle) Release() (ReleaseInfo, bool) {
	if b.release == nil {
		return ReleaseInfo{}, false
	}
	return b.release.clone(), true
}

// Kinds lists the sources present in the bundle in a fixed order.
func (b Bundle) Kinds() []Kind {
	kinds := make([]Kind, 0, 4)
	if b.filename != nil {
		kinds = append(kinds, KindFilename)
	}
	if b.folder != nil {
		kinds = append(kinds, KindFolder)
	}
	if b.mediaInfo != nil {
		kinds = append(kinds, KindMediaInfo)
	}
	if b.release != nil {
		kinds = append(kinds, KindRelease)
	}
	return kinds
}

// Empty reports whether no source is present.
func (b Bundle) Empty() bool {
	return len(b.Kinds()) == 0
}
