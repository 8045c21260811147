package cache

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

// KeySeparator delimits cache key segments. Filter values are escaped so a
// separator inside a value can never make two distinct filter sets collide.
const KeySeparator = ":"

// Fold selects the case normalization applied to a string filter value before
// it enters the key. Free-text fields (names, emails) fold to lower case;
// identifier-like fields (identification numbers) fold to upper case.
type Fold int

const (
	// FoldLower lower-cases the value. Default for free-text filters.
	FoldLower Fold = iota
	// FoldUpper upper-cases the value, for identifier-like filters.
	FoldUpper
	// FoldNone leaves the value as-is after trimming.
	FoldNone
)

// FilterField is one (name, value) pair of a filter fingerprint. Call sites
// must supply fields in a fixed order: the builder does not sort, so a stable
// order is what keeps semantically equal filter sets on the same key.
type FilterField struct {
	Name  string
	Value any
	Fold  Fold
}

// KeyBuilder produces deterministic cache keys from a collection name, the
// collection's current version and a normalized filter fingerprint.
type KeyBuilder interface {
	BuildKey(collection string, version int64, fields []FilterField) string
}

// nullSentinel stands in for absent, blank or whitespace-only filter values
// so "no filter" always lands on the same key.
const nullSentinel = "null"

type fingerprintKeyBuilder struct{}

// NewKeyBuilder returns the default key builder. Output shape:
//
//	{collection}:v{version}:{field1}:{value1}:{field2}:{value2}:...
//
// Values are trimmed, case-folded per field and separator-escaped before
// inclusion.
func NewKeyBuilder() KeyBuilder {
	return fingerprintKeyBuilder{}
}

func (fingerprintKeyBuilder) BuildKey(collection string, version int64, fields []FilterField) string {
	var b strings.Builder
	b.WriteString(collection)
	b.WriteString(KeySeparator)
	b.WriteString("v")
	b.WriteString(strconv.FormatInt(version, 10))
	for _, f := range fields {
		b.WriteString(KeySeparator)
		b.WriteString(f.Name)
		b.WriteString(KeySeparator)
		b.WriteString(normalizeValue(f.Value, f.Fold))
	}
	return b.String()
}

type hashedKeyBuilder struct{}

// NewHashedKeyBuilder returns a builder that digests the filter fingerprint
// with xxhash64 instead of concatenating it. Useful for backends with key
// length limits or when filter values are long free text. The version segment
// stays in the clear so version bumps still retire every fingerprint at once.
func NewHashedKeyBuilder() KeyBuilder {
	return hashedKeyBuilder{}
}

func (hashedKeyBuilder) BuildKey(collection string, version int64, fields []FilterField) string {
	var fp strings.Builder
	for _, f := range fields {
		fp.WriteString(f.Name)
		fp.WriteString(KeySeparator)
		fp.WriteString(normalizeValue(f.Value, f.Fold))
		fp.WriteString(KeySeparator)
	}
	sum := xxhash.Sum64String(fp.String())
	return collection + KeySeparator + "v" + strconv.FormatInt(version, 10) +
		KeySeparator + "h" + KeySeparator + strconv.FormatUint(sum, 16)
}

// normalizeValue renders a filter value into its canonical key segment.
// Nil values, nil pointers and blank strings all collapse to the null
// sentinel; times render as dates; everything else uses its natural string
// form.
func normalizeValue(v any, fold Fold) string {
	switch t := v.(type) {
	case nil:
		return nullSentinel
	case string:
		return normalizeString(t, fold)
	case *string:
		if t == nil {
			return nullSentinel
		}
		return normalizeString(*t, fold)
	case time.Time:
		if t.IsZero() {
			return nullSentinel
		}
		return t.Format("2006-01-02")
	case *time.Time:
		if t == nil || t.IsZero() {
			return nullSentinel
		}
		return t.Format("2006-01-02")
	case *int:
		if t == nil {
			return nullSentinel
		}
		return strconv.Itoa(*t)
	case *int64:
		if t == nil {
			return nullSentinel
		}
		return strconv.FormatInt(*t, 10)
	default:
		return escapeSegment(fmt.Sprintf("%v", v))
	}
}

func normalizeString(s string, fold Fold) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nullSentinel
	}
	switch fold {
	case FoldLower:
		s = strings.ToLower(s)
	case FoldUpper:
		s = strings.ToUpper(s)
	}
	return escapeSegment(s)
}

// escapeSegment percent-encodes the separator (and the escape character
// itself) so values containing ":" cannot collide with field boundaries.
func escapeSegment(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	return strings.ReplaceAll(s, KeySeparator, "%3A")
}
