package dataprocessing

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"

	"workshopcli/pkg/contracts/domain"
)

func TestTimeToSeconds(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  domain.Seconds
	}{
		{"clock time", time.Date(2024, 3, 1, 1, 2, 3, 0, time.UTC), domain.SecondsOf(3723)},
		{"clock time ignores date", time.Date(1899, 12, 30, 0, 1, 30, 0, time.UTC), domain.SecondsOf(90)},
		{"duration truncates", 90*time.Second + 999*time.Millisecond, domain.SecondsOf(90)},
		{"duration over a day", 25 * time.Hour, domain.SecondsOf(90000)},
		{"half day", 0.5, domain.SecondsOf(43200)},
		{"one minute fraction", 1.0 / 1440, domain.SecondsOf(60)},
		{"fraction floors", 1.5 / 86400, domain.SecondsOf(1)},
		{"float32", float32(0.25), domain.SecondsOf(21600)},
		{"int days", 1, domain.SecondsOf(86400)},
		{"int64 days", int64(2), domain.SecondsOf(172800)},
		{"int32 zero", int32(0), domain.SecondsOf(0)},
		{"NaN", math.NaN(), domain.Seconds{}},
		{"infinity", math.Inf(1), domain.Seconds{}},
		{"nil", nil, domain.Seconds{}},
		{"text", "01:30", domain.Seconds{}},
		{"bool", true, domain.Seconds{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() { TimeToSeconds(tt.input) })
			assert.Equal(t, tt.want, TimeToSeconds(tt.input))
		})
	}
}

func TestTimeToSecondsClockRoundTrip(t *testing.T) {
	for h := 0; h < 24; h++ {
		for m := 0; m < 60; m += 7 {
			for s := 0; s < 60; s += 13 {
				want := int64(h*3600 + m*60 + s)

				clock := time.Date(2024, 1, 1, h, m, s, 0, time.UTC)
				assert.Equal(t, domain.SecondsOf(want), TimeToSeconds(clock))

				// Same value stored as a time-formatted serial
				fromCell := numericCellValue(float64(want)/secondsPerDay, numFmtTemporal)
				assert.Equal(t, domain.SecondsOf(want), TimeToSeconds(fromCell), "%02d:%02d:%02d", h, m, s)
			}
		}
	}
}

func TestOneMinuteRendersAsMMSS(t *testing.T) {
	assert.Equal(t, "01:00", TimeToSeconds(1.0/1440).String())
}

func TestClassifyFormatCode(t *testing.T) {
	tests := []struct {
		code string
		want numFmtKind
	}{
		{"General", numFmtPlain},
		{"0.00", numFmtPlain},
		{"[Red]0.00", numFmtPlain},
		{`0 "hours"`, numFmtPlain},
		{"h:mm:ss", numFmtTemporal},
		{"hh:mm", numFmtTemporal},
		{"mm:ss", numFmtTemporal},
		{"yyyy-mm-dd hh:mm", numFmtTemporal},
		{"[$-409]h:mm AM/PM;@", numFmtTemporal},
		{"mm:ss;[Red]-mm:ss", numFmtTemporal},
		{"[h]:mm:ss", numFmtElapsed},
		{"[mm]:ss", numFmtElapsed},
		{"[ss]", numFmtElapsed},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyFormatCode(tt.code))
		})
	}
}

func TestClassifyStyle(t *testing.T) {
	custom := "[h]:mm"
	tests := []struct {
		name  string
		style *excelize.Style
		want  numFmtKind
	}{
		{"nil style", nil, numFmtPlain},
		{"general", &excelize.Style{NumFmt: 0}, numFmtPlain},
		{"two decimals", &excelize.Style{NumFmt: 2}, numFmtPlain},
		{"h:mm:ss", &excelize.Style{NumFmt: 21}, numFmtTemporal},
		{"datetime", &excelize.Style{NumFmt: 22}, numFmtTemporal},
		{"elapsed", &excelize.Style{NumFmt: 46}, numFmtElapsed},
		{"locale date", &excelize.Style{NumFmt: 30}, numFmtTemporal},
		{"custom wins", &excelize.Style{NumFmt: 0, CustomNumFmt: &custom}, numFmtElapsed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyStyle(tt.style))
		})
	}
}

func TestNumericCellValue(t *testing.T) {
	assert.Equal(t, time.Date(1899, 12, 30, 12, 0, 0, 0, time.UTC), numericCellValue(0.5, numFmtTemporal))
	assert.Nil(t, numericCellValue(45000.5, numFmtTemporal), "date-times are not durations")
	assert.Nil(t, numericCellValue(-0.1, numFmtTemporal))
	assert.Equal(t, 36*time.Hour, numericCellValue(1.5, numFmtElapsed))
	assert.Equal(t, 0.25, numericCellValue(0.25, numFmtPlain))
}
