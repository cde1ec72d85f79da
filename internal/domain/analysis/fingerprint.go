package analysis

import (
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"
)

const fingerprintVersion = "v1"

// Fingerprint hashes the normalised record together with the options that
// change the result. asOf is the civil date of a daily analysis, "" otherwise.
func Fingerprint(record BirthRecord, typ Type, tier Tier, asOf string) string {
	var b strings.Builder
	field := func(name, value string) {
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(value)
		b.WriteByte('\n')
	}
	field("version", fingerprintVersion)
	field("name", normalizeName(record.Name))
	field("gender", strings.ToLower(string(record.Gender)))
	field("birth", record.BirthTime.UTC().Format(time.RFC3339))
	field("offset", strconv.Itoa(int(record.Offset()/time.Minute)))
	field("place", normalizeName(record.BirthPlace.Name))
	field("lat", formatCoordinate(record.BirthPlace.Latitude))
	field("lng", formatCoordinate(record.BirthPlace.Longitude))
	field("type", string(typ))
	field("tier", string(tier))
	field("asOf", asOf)

	sum := blake2b.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// DeriveFingerprint recomputes the fingerprint from the result document.
func (r Result) DeriveFingerprint() string {
	return Fingerprint(r.Record, r.Type, r.Tier, r.AsOf)
}

func normalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func formatCoordinate(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 6, 64)
}

// civilDate formats t as a date in the given offset.
func civilDate(t time.Time, offset time.Duration) string {
	return t.In(time.FixedZone("", int(offset/time.Second))).Format("2006-01-02")
}
