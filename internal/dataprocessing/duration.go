package dataprocessing

import (
	"math"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"workshopcli/pkg/contracts/domain"
)

const secondsPerDay = 86400

// serialEpoch is day zero of the 1900 date system as spreadsheets use it.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// TimeToSeconds normalizes a duration cell value to whole seconds.
//
//   - time.Time counts the clock fields only (hour, minute, second)
//   - time.Duration is truncated to whole seconds
//   - numbers are fractions of a day; floor(v*86400), with a value that lands
//     within a microsecond below a whole second counted as that second
//
// Anything else, including nil, NaN and infinities, is missing.
func TimeToSeconds(v any) domain.Seconds {
	switch t := v.(type) {
	case time.Time:
		return domain.SecondsOf(int64(t.Hour()*3600 + t.Minute()*60 + t.Second()))
	case time.Duration:
		return domain.SecondsOf(int64(t / time.Second))
	case float64:
		return daysToSeconds(t)
	case float32:
		return daysToSeconds(float64(t))
	case int:
		return daysToSeconds(float64(t))
	case int64:
		return daysToSeconds(float64(t))
	case int32:
		return daysToSeconds(float64(t))
	}
	return domain.Seconds{}
}

func daysToSeconds(days float64) domain.Seconds {
	if math.IsNaN(days) || math.IsInf(days, 0) {
		return domain.Seconds{}
	}
	// 1/1440 is 0.000694..., which times 86400 may land a hair under 60.
	return domain.SecondsOf(int64(math.Floor(days*secondsPerDay + 1e-6)))
}

// numFmtKind is how a numeric cell's number format asks to be read.
type numFmtKind int

const (
	numFmtPlain numFmtKind = iota
	numFmtTemporal
	numFmtElapsed
)

// builtInTimeFormats lists the built-in number formats that carry a date or
// time component, keyed by format ID.
var builtInTimeFormats = map[int]string{
	14: "mm-dd-yy",
	15: "d-mmm-yy",
	16: "d-mmm",
	17: "mmm-yy",
	18: "h:mm AM/PM",
	19: "h:mm:ss AM/PM",
	20: "h:mm",
	21: "h:mm:ss",
	22: "m/d/yy h:mm",
	45: "mm:ss",
	46: "[h]:mm:ss",
	47: "mmss.0",
}

// classifyStyle reports how the number format of style reads numbers.
// A nil style is plain.
func classifyStyle(style *excelize.Style) numFmtKind {
	if style == nil {
		return numFmtPlain
	}
	if style.CustomNumFmt != nil {
		return classifyFormatCode(*style.CustomNumFmt)
	}
	if code, ok := builtInTimeFormats[style.NumFmt]; ok {
		return classifyFormatCode(code)
	}
	// Locale date formats
	if (27 <= style.NumFmt && style.NumFmt <= 36) || (50 <= style.NumFmt && style.NumFmt <= 58) {
		return numFmtTemporal
	}
	return numFmtPlain
}

// classifyFormatCode inspects the first section of a format code, ignoring
// quoted literals, escapes and bracketed modifiers such as colors or
// locales. Bracketed hour, minute or second tokens mark an elapsed format.
func classifyFormatCode(code string) numFmtKind {
	if i := strings.IndexByte(code, ';'); i >= 0 {
		code = code[:i]
	}
	code = strings.ToLower(code)

	var b strings.Builder
	elapsed := false
	for i := 0; i < len(code); i++ {
		switch c := code[i]; c {
		case '"':
			if j := strings.IndexByte(code[i+1:], '"'); j >= 0 {
				i += j + 1
			} else {
				i = len(code)
			}
		case '\\', '_', '*':
			i++
		case '[':
			j := strings.IndexByte(code[i:], ']')
			if j < 0 {
				i = len(code)
				continue
			}
			token := code[i+1 : i+j]
			if token != "" && strings.Trim(token, "hms") == "" {
				elapsed = true
			}
			i += j
		default:
			b.WriteByte(c)
		}
	}

	if elapsed {
		return numFmtElapsed
	}
	if strings.ContainsAny(b.String(), "dmyhs") {
		return numFmtTemporal
	}
	return numFmtPlain
}

// numericCellValue converts a numeric cell into the value handed to
// TimeToSeconds. Temporal formats yield a clock time when the serial has no
// whole-day part and nil otherwise.
func numericCellValue(v float64, kind numFmtKind) any {
	switch kind {
	case numFmtElapsed:
		return time.Duration(math.Round(v*secondsPerDay*1e6)) * time.Microsecond
	case numFmtTemporal:
		if v < 0 || v >= 1 {
			return nil
		}
		micros := time.Duration(math.Round(v*secondsPerDay*1e6)) * time.Microsecond
		return serialEpoch.Add(micros)
	default:
		return v
	}
}
