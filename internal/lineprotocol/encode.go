package lineprotocol

import (
	"strconv"

	"github.com/nerrad567/solar-grabber/internal/metric"
)

// Characters escaped in each part of a line.
const (
	measurementSpecials = ", "
	keySpecials         = ",= "
	stringFieldSpecials = `"\`
)

// Encode formats data as one line-protocol line for the given measurement.
//
// Format: measurement[,tag=value...] field=value[,field=value...]
//
// Tags are written in the order they were added, then fields in the order
// they were added. No timestamp is appended, so the backend stamps the
// point on receipt. The caller is responsible for data holding at least
// one field; without one the line is not accepted by a backend.
//
// Example:
//
//	data := metric.NewPublishData()
//	data.AddTag("device", metric.String("a,b"))
//	data.AddField("p", metric.Float(1.5))
//	lineprotocol.Encode("m", data) // m,device=a\,b p=1.5
func Encode(measurement string, data *metric.PublishData) string {
	return string(Append(nil, measurement, data))
}

// Append is like Encode but appends the line to dst.
func Append(dst []byte, measurement string, data *metric.PublishData) []byte {
	dst = appendEscaped(dst, measurement, measurementSpecials)

	fields := data.Fields()
	for _, f := range fields {
		if f.Class != metric.ClassTag {
			continue
		}
		dst = append(dst, ',')
		dst = appendEscaped(dst, f.Name, keySpecials)
		dst = append(dst, '=')
		dst = appendTagValue(dst, f.Value)
	}

	dst = append(dst, ' ')
	first := true
	for _, f := range fields {
		if f.Class != metric.ClassField {
			continue
		}
		if !first {
			dst = append(dst, ',')
		}
		first = false
		dst = appendEscaped(dst, f.Name, keySpecials)
		dst = append(dst, '=')
		dst = appendFieldValue(dst, f.Value)
	}

	return dst
}

func appendTagValue(dst []byte, v metric.Value) []byte {
	if s, ok := v.AsString(); ok {
		return appendEscaped(dst, s, keySpecials)
	}
	return appendNumber(dst, v)
}

func appendFieldValue(dst []byte, v metric.Value) []byte {
	if s, ok := v.AsString(); ok {
		dst = append(dst, '"')
		dst = appendEscaped(dst, s, stringFieldSpecials)
		return append(dst, '"')
	}
	return appendNumber(dst, v)
}

// appendNumber writes the shortest decimal that round-trips, never using
// exponent notation.
func appendNumber(dst []byte, v metric.Value) []byte {
	f, _ := v.AsFloat()
	return strconv.AppendFloat(dst, f, 'f', -1, 64)
}

// appendEscaped copies s to dst, prefixing every byte found in specials with
// a backslash. It is a single pass, so backslashes it inserts are never
// escaped again.
func appendEscaped(dst []byte, s string, specials string) []byte {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isSpecial(c, specials) {
			dst = append(dst, '\\')
		}
		dst = append(dst, c)
	}
	return dst
}

func isSpecial(c byte, specials string) bool {
	for i := 0; i < len(specials); i++ {
		if specials[i] == c {
			return true
		}
	}
	return false
}

// EscapeMeasurement escapes a measurement name (comma and space).
func EscapeMeasurement(s string) string {
	return string(appendEscaped(nil, s, measurementSpecials))
}

// EscapeKey escapes a tag key, tag value or field key (comma, equals sign
// and space).
func EscapeKey(s string) string {
	return string(appendEscaped(nil, s, keySpecials))
}

// EscapeStringField escapes the body of a string field value (double quote
// and backslash). The surrounding quotes are not included.
func EscapeStringField(s string) string {
	return string(appendEscaped(nil, s, stringFieldSpecials))
}
