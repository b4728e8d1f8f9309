package chat

import (
	"fmt"
	"net/url"
	"strings"

	"mschat/errors"
)

// Emote is an immutable display decoration attached to a message.
// Compared by value.
type Emote struct {
	code     string
	imageURL string
}

func NewEmote(code, imageURL string) (Emote, error) {
	if strings.TrimSpace(code) == "" {
		return Emote{}, fmt.Errorf("%w: emote code cannot be empty", errors.ErrValidation)
	}
	if !isValidImageURL(imageURL) {
		return Emote{}, fmt.Errorf("%w: emote image URL %q is not valid", errors.ErrValidation, imageURL)
	}
	return Emote{code: code, imageURL: imageURL}, nil
}

func (e Emote) Code() string     { return e.code }
func (e Emote) ImageURL() string { return e.imageURL }

// Badge is an immutable display decoration attached to a participant.
type Badge struct {
	name     string
	imageURL string
}

func NewBadge(name, imageURL string) (Badge, error) {
	if len(strings.TrimSpace(name)) < 2 {
		return Badge{}, fmt.Errorf("%w: badge name needs at least 2 characters", errors.ErrValidation)
	}
	if !isValidImageURL(imageURL) {
		return Badge{}, fmt.Errorf("%w: badge image URL %q is not valid", errors.ErrValidation, imageURL)
	}
	return Badge{name: name, imageURL: imageURL}, nil
}

func (b Badge) Name() string     { return b.name }
func (b Badge) ImageURL() string { return b.imageURL }

// isValidImageURL accepts http(s) URLs of shape scheme://host/path,
// with a non-empty host and at least one path segment.
func isValidImageURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	if parsed.Host == "" {
		return false
	}
	return len(strings.TrimPrefix(parsed.Path, "/")) > 0
}
