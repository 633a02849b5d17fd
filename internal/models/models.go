package models

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RegisterInput is the payload accepted by the registration proxy. It is
// validated before the upstream call; the raw body is forwarded unmodified.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone" validate:"required,min=7"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}

// BlogCreateInput is the payload accepted by the blog create proxy
type BlogCreateInput struct {
	Title        string   `json:"title" validate:"required,min=3"`
	Content      string   `json:"content" validate:"required,richtext"`
	Excerpt      string   `json:"excerpt" validate:"required"`
	IsFeatured   bool     `json:"isFeatured"`
	ThumbnailURL string   `json:"thumbnailUrl" validate:"required,url"`
	Tags         []string `json:"tags" validate:"omitempty,dive,min=1"`
	Categories   []string `json:"categories" validate:"required,min=1,dive,min=1"`
}

// BlogUpdateInput is the payload accepted by the blog update proxy. All
// fields are optional but keep their minimum rules when provided.
type BlogUpdateInput struct {
	Title        *string  `json:"title" validate:"omitempty,min=3"`
	Content      *string  `json:"content" validate:"omitempty,richtext"`
	Excerpt      *string  `json:"excerpt" validate:"omitempty,min=1"`
	IsFeatured   *bool    `json:"isFeatured"`
	ThumbnailURL *string  `json:"thumbnailUrl" validate:"omitempty,url"`
	Tags         []string `json:"tags" validate:"omitempty,dive,min=1"`
	Categories   []string `json:"categories" validate:"omitempty,min=1,dive,min=1"`
}

// minimum number of visible characters required in rich-text content
const minContentLength = 10

var (
	styleBlockRe  = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	scriptBlockRe = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	tagRe         = regexp.MustCompile(`<[^>]+>`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
)

// StripHTML reduces rich-text markup to its visible text: style and script
// blocks are dropped, tags removed, non-breaking spaces mapped to plain
// spaces and whitespace collapsed
func StripHTML(s string) string {
	s = styleBlockRe.ReplaceAllString(s, " ")
	s = scriptBlockRe.ReplaceAllString(s, " ")
	s = tagRe.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// RegisterValidations registers the custom validations used by the payload
// schemas on the given validator instance
func RegisterValidations(validate *validator.Validate) error {
	// Rich-text content must have real text once markup is stripped
	return validate.RegisterValidation("richtext", func(fl validator.FieldLevel) bool {
		text := StripHTML(fl.Field().String())
		return len(text) >= minContentLength
	})
}
