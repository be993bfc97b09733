// Package pack turns a content request into a downloadable export pack.
package pack

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/opencontainers/go-digest"

	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/config"
	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/manifest"
	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/ziparchive"
)

// Archive member names, in the order they are written.
const (
	ScriptFile      = "script.txt"
	DescriptionFile = "description.txt"
	TagsFile        = "tags.txt"
	ThumbnailFile   = "thumbnail.txt"
	TTSFile         = "tts.txt"
	SubtitlesFile   = "subtitles.srt"
)

// FallbackSlug names packs whose title has no usable characters.
const FallbackSlug = "autotube-pack"

// Request is the JSON body accepted by the export endpoint.
// Empty strings take their default. A nil Tags takes the default tags;
// an empty, non-nil Tags produces an empty tags file.
type Request struct {
	Title         string   `json:"title"`
	Script        string   `json:"script"`
	Description   string   `json:"description"`
	Tags          []string `json:"tags"`
	ThumbnailText string   `json:"thumbnailText"`
	TTS           string   `json:"tts"`
	SRT           string   `json:"srt"`
}

// ParseRequest decodes a request body. A body that is empty, not JSON or
// JSON of the wrong shape yields the zero Request, which resolves to all
// defaults; the decode error is returned for logging only.
func ParseRequest(body []byte) (Request, error) {
	var req Request
	if len(strings.TrimSpace(string(body))) == 0 {
		return req, nil
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return Request{}, err
	}
	return req, nil
}

// Resolve fills every empty field of req from defaults, which are first
// completed from the built-in texts. TTS falls back to the resolved script.
func Resolve(req Request, defaults config.PackDefaults) Request {
	defaults = defaults.Complete()
	out := Request{
		Title:         firstNonEmpty(req.Title, defaults.Title),
		Script:        firstNonEmpty(req.Script, defaults.Script),
		Description:   firstNonEmpty(req.Description, defaults.Description),
		Tags:          req.Tags,
		ThumbnailText: firstNonEmpty(req.ThumbnailText, defaults.ThumbnailText),
		SRT:           firstNonEmpty(req.SRT, defaults.Subtitles),
	}
	if out.Tags == nil {
		out.Tags = append([]string{}, defaults.Tags...)
	}
	out.TTS = firstNonEmpty(req.TTS, out.Script)
	return out
}

func firstNonEmpty(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

// Entries maps a resolved request onto archive members.
func Entries(req Request) []ziparchive.Entry {
	return []ziparchive.Entry{
		{Name: ScriptFile, Content: req.Script},
		{Name: DescriptionFile, Content: req.Description},
		{Name: TagsFile, Content: strings.Join(req.Tags, ", ")},
		{Name: ThumbnailFile, Content: req.ThumbnailText},
		{Name: TTSFile, Content: req.TTS},
		{Name: SubtitlesFile, Content: req.SRT},
	}
}

var nonAlnum = regexp.MustCompile(`[^A-Za-z0-9]+`)

// Slug collapses every run of non-alphanumeric characters in title to a
// single dash and lower-cases the result.
func Slug(title string) string {
	slug := strings.ToLower(nonAlnum.ReplaceAllString(title, "-"))
	if slug == "" {
		return FallbackSlug
	}
	return slug
}

// FileName is the attachment name for a pack titled title.
func FileName(title string) string {
	return Slug(title) + ".zip"
}

// Pack is a built export pack.
type Pack struct {
	Title    string
	Slug     string
	FileName string
	Entries  []ziparchive.Entry
	Data     []byte
	Digest   digest.Digest
}

// Build resolves req against defaults and encodes the archive.
func Build(req Request, defaults config.PackDefaults) *Pack {
	resolved := Resolve(req, defaults)
	entries := Entries(resolved)
	data := ziparchive.Create(entries)
	return &Pack{
		Title:    resolved.Title,
		Slug:     Slug(resolved.Title),
		FileName: FileName(resolved.Title),
		Entries:  entries,
		Data:     data,
		Digest:   manifest.Compute(data),
	}
}

// Names returns the member names in archive order.
func (p *Pack) Names() []string {
	names := make([]string, len(p.Entries))
	for i, e := range p.Entries {
		names[i] = e.Name
	}
	return names
}
