package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// TagName is the struct tag key read by FromStruct.
const TagName = "tierbin"

// Tag is a parsed `tierbin:"..."` struct tag.
//
//	tierbin:"-"              field never reaches the wire
//	tierbin:"skip"           same as "-"
//	tierbin:"index=3"        explicit order index
//	tierbin:"with=unixnano"  delegate to a named override codec
//
// Options may be combined with commas, e.g. `tierbin:"index=1,with=unixnano"`.
type Tag struct {
	Skip     bool
	Index    int
	HasIndex bool
	With     string
}

func ParseTag(s string) (Tag, error) {
	var tag Tag
	s = strings.TrimSpace(s)
	if s == "" {
		return tag, nil
	}
	if s == "-" {
		tag.Skip = true
		return tag, nil
	}
	for _, opt := range strings.Split(s, ",") {
		opt = strings.TrimSpace(opt)
		key, val, hasVal := strings.Cut(opt, "=")
		switch key {
		case "skip", "-":
			if hasVal {
				return Tag{}, fmt.Errorf("%w: %q takes no value", ErrBadTag, key)
			}
			tag.Skip = true
		case "index":
			n, err := strconv.Atoi(val)
			if !hasVal || err != nil || n < 0 {
				return Tag{}, fmt.Errorf("%w: bad index %q", ErrBadTag, val)
			}
			tag.Index, tag.HasIndex = n, true
		case "with":
			if !hasVal || val == "" {
				return Tag{}, fmt.Errorf("%w: with needs a codec name", ErrBadTag)
			}
			tag.With = val
		default:
			return Tag{}, fmt.Errorf("%w: unknown option %q", ErrBadTag, opt)
		}
	}
	return tag, nil
}
