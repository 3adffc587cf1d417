package scroll

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/zoobzio/scroll/event"
)

// boolLiterals holds the YAML 1.1 boolean family. The empty string is true
// so that a bare "key:" reads as a set flag.
var boolLiterals = map[string]bool{
	"y": true, "Y": true, "yes": true, "Yes": true, "YES": true,
	"true": true, "True": true, "TRUE": true,
	"on": true, "On": true, "ON": true,
	"": true,
	"n": false, "N": false, "no": false, "No": false, "NO": false,
	"false": false, "False": false, "FALSE": false,
	"off": false, "Off": false, "OFF": false,
}

var nullLiterals = map[string]struct{}{
	"null": {}, "Null": {}, "NULL": {}, "~": {}, "": {},
}

var floatSpecials = map[string]float64{
	".inf": math.Inf(1), ".Inf": math.Inf(1), ".INF": math.Inf(1),
	"+.inf": math.Inf(1), "+.Inf": math.Inf(1), "+.INF": math.Inf(1),
	"-.inf": math.Inf(-1), "-.Inf": math.Inf(-1), "-.INF": math.Inf(-1),
	".nan": math.NaN(), ".NaN": math.NaN(), ".NAN": math.NaN(),
}

func parseBool(s string) (value, ok bool) {
	value, ok = boolLiterals[s]
	return value, ok
}

func isNull(s string) bool {
	_, ok := nullLiterals[s]
	return ok
}

func parseFloat(s string, bits int) (float64, error) {
	if f, ok := floatSpecials[s]; ok {
		return f, nil
	}
	return strconv.ParseFloat(s, bits)
}

func parseUint(s string, bits int) (uint64, error) {
	if len(s) > 1 && s[0] == '+' {
		s = s[1:]
	}
	return strconv.ParseUint(s, 10, bits)
}

func numberError(ev event.Event, typ string, err error) error {
	cause := err
	var ne *strconv.NumError
	if errors.As(err, &ne) {
		cause = ne.Err
	}
	return &NumberParseError{Text: ev.Value, Type: typ, Err: cause, Span: ev.Span}
}

func formatFloat(f float64, bits int) string {
	switch {
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	case math.IsNaN(f):
		return ".nan"
	}
	return strconv.FormatFloat(f, 'g', -1, bits)
}

// ambiguous reports whether a plain scalar would not read back as the same
// string.
func ambiguous(s string) bool {
	if isNull(s) {
		return true
	}
	if _, ok := parseBool(s); ok {
		return true
	}
	if _, ok := floatSpecials[s]; ok {
		return true
	}
	if strings.TrimSpace(s) != s {
		return true
	}
	if strings.ContainsAny(s[:1], "-?:,[]{}#&*!|>'\"%@`") {
		return true
	}
	if strings.HasSuffix(s, ":") {
		return true
	}
	return strings.Contains(s, ": ") || strings.Contains(s, " #") || strings.ContainsAny(s, "\n\r\t")
}
