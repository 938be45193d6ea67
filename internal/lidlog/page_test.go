package lidlog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lowellinst/lidlog/internal/testutil"
)

func pageMiniHeader(t *testing.T, clk string) []byte {
	t.Helper()
	return []byte("MHS\r\nCLK " + clk + "\r\nMHE\r\n")
}

func TestDecodePageScenarioS1(t *testing.T) {
	miniHeader := pageMiniHeader(t, "2013-11-15 09:05:40")
	block := []byte{0x8C, 0x8C, 0x70, 0xFC, 0xD5, 0x01, 0x15, 0x00, 0x87, 0xFE, 0xC2, 0xFF, 0x4C, 0x00}
	page := append(append([]byte{}, miniHeader...), block...)

	plan, err := NewPatternPlan(mh(true, true, true, 60, 60, 1, 1))
	testutil.AssertNoError(t, err)
	lt := NewLookupTables(DefaultHostStorage)

	result, err := DecodePage(page, len(miniHeader), plan, lt)
	testutil.AssertNoError(t, err)

	if len(result.TempRows) != 1 {
		t.Fatalf("expected 1 temp row, got %d: %v", len(result.TempRows), result.TempRows)
	}
	wantTemp := "2013-11-15,09:05:40.000,20.6912\r\n"
	if result.TempRows[0] != wantTemp {
		t.Fatalf("temp row = %q, want %q", result.TempRows[0], wantTemp)
	}

	if len(result.OriRows) != 1 {
		t.Fatalf("expected 1 orientation row, got %d: %v", len(result.OriRows), result.OriRows)
	}
	wantOri := "2013-11-15,09:05:40.000,-0.89063,0.45801,0.02051,-345.87,-56.88,69.72\r\n"
	if result.OriRows[0] != wantOri {
		t.Fatalf("orientation row = %q, want %q", result.OriRows[0], wantOri)
	}
}

func TestDecodePageScenarioS2MagnetometerOff(t *testing.T) {
	miniHeader := pageMiniHeader(t, "2013-11-15 09:05:40")
	// Same raw values as S1 but only the first 4 u16 fields (temp + accel
	// xyz) are present in the block since MGN is off (channels=3).
	block := []byte{0x8C, 0x8C, 0x70, 0xFC, 0xD5, 0x01, 0x15, 0x00}
	page := append(append([]byte{}, miniHeader...), block...)

	plan, err := NewPatternPlan(mh(true, true, false, 60, 60, 1, 1))
	testutil.AssertNoError(t, err)
	lt := NewLookupTables(DefaultHostStorage)

	result, err := DecodePage(page, len(miniHeader), plan, lt)
	testutil.AssertNoError(t, err)

	if len(result.OriRows) != 1 {
		t.Fatalf("expected 1 orientation row, got %d", len(result.OriRows))
	}
	wantOri := "2013-11-15,09:05:40.000,-0.89063,0.45801,0.02051\r\n"
	if result.OriRows[0] != wantOri {
		t.Fatalf("orientation row = %q, want %q", result.OriRows[0], wantOri)
	}
	if strings.Contains(result.OriRows[0], "-345.87") {
		t.Fatalf("magnetometer columns should not appear when MGN=0")
	}
}

func TestDecodePageScenarioS3SentinelStopsCleanly(t *testing.T) {
	miniHeader := pageMiniHeader(t, "2013-11-15 09:05:40")
	block := []byte{0x8C, 0x8C, 0x70, 0xFC, 0xD5, 0x01, 0x15, 0x00, 0x87, 0xFE, 0xC2, 0xFF, 0x4C, 0x00}

	var buf bytes.Buffer
	buf.Write(miniHeader)
	buf.Write(block)
	buf.Write(block)
	buf.Write(bytes.Repeat([]byte{0xFF}, sentinelLen))
	buf.Write(bytes.Repeat([]byte{0xFF}, 100)) // trailing pad beyond sentinel

	plan, err := NewPatternPlan(mh(true, true, true, 60, 60, 1, 1))
	testutil.AssertNoError(t, err)
	lt := NewLookupTables(DefaultHostStorage)

	result, err := DecodePage(buf.Bytes(), len(miniHeader), plan, lt)
	testutil.AssertNoError(t, err)

	if len(result.TempRows) != 2 {
		t.Fatalf("expected 2 temp rows, got %d", len(result.TempRows))
	}
	if len(result.OriRows) != 2 {
		t.Fatalf("expected 2 orientation rows, got %d", len(result.OriRows))
	}
}

func TestDecodePageScenarioS5BurstRestartPerInterval(t *testing.T) {
	miniHeader := pageMiniHeader(t, "2014-01-01 00:00:00")
	plan, err := NewPatternPlan(mh(true, true, true, 1, 60, 2, 2))
	testutil.AssertNoError(t, err)
	if plan.BlockBytes != 144 {
		t.Fatalf("expected block_bytes=144, got %d", plan.BlockBytes)
	}

	block := make([]byte, plan.BlockBytes)
	page := append(append([]byte{}, miniHeader...), block...)
	lt := NewLookupTables(DefaultHostStorage)

	result, err := DecodePage(page, len(miniHeader), plan, lt)
	testutil.AssertNoError(t, err)

	if len(result.OriRows) != 2 {
		t.Fatalf("expected 2 orientation rows (bmn=2 bursts), got %d", len(result.OriRows))
	}
	if len(result.TempRows) != 60 {
		t.Fatalf("expected 60 temperature rows (mul=60), got %d", len(result.TempRows))
	}

	wantTimes := []string{
		"2014-01-01,00:00:00.000",
		"2014-01-01,00:00:00.500",
	}
	for i, want := range wantTimes {
		if !strings.HasPrefix(result.OriRows[i], want) {
			t.Fatalf("orientation row %d = %q, want prefix %q", i, result.OriRows[i], want)
		}
	}
	if !strings.HasPrefix(result.TempRows[0], "2014-01-01,00:00:00.000") {
		t.Fatalf("first temp row = %q, want prefix at t=0", result.TempRows[0])
	}
	if !strings.HasPrefix(result.TempRows[1], "2014-01-01,00:00:01.000") {
		t.Fatalf("second temp row = %q, want prefix at t=1s", result.TempRows[1])
	}
	if !strings.HasPrefix(result.TempRows[59], "2014-01-01,00:00:59.000") {
		t.Fatalf("last temp row = %q, want prefix at t=59s", result.TempRows[59])
	}
}

func TestDecodePageTruncatedTailDiscardsPartialRecord(t *testing.T) {
	miniHeader := pageMiniHeader(t, "2013-11-15 09:05:40")
	// One full block plus 5 bytes: a complete temp u16, one complete
	// orientation i16, and a single dangling byte (<2 bytes, discarded).
	block := []byte{0x8C, 0x8C, 0x70, 0xFC, 0xD5, 0x01, 0x15, 0x00, 0x87, 0xFE, 0xC2, 0xFF, 0x4C, 0x00}
	tail := []byte{0x01, 0x00, 0x02, 0x00, 0xAB}
	page := append(append(append([]byte{}, miniHeader...), block...), tail...)

	plan, err := NewPatternPlan(mh(true, true, true, 60, 60, 1, 1))
	testutil.AssertNoError(t, err)
	lt := NewLookupTables(DefaultHostStorage)

	result, err := DecodePage(page, len(miniHeader), plan, lt)
	testutil.AssertNoError(t, err)

	// Full block contributes 1 temp row; the tail's complete u16 temp field
	// contributes a second. The tail has only 1 of the 6 required i16
	// values for an orientation group, so it contributes no orientation row.
	if len(result.TempRows) != 2 {
		t.Fatalf("expected 2 temp rows, got %d: %v", len(result.TempRows), result.TempRows)
	}
	if len(result.OriRows) != 1 {
		t.Fatalf("expected 1 orientation row (only from the full block), got %d", len(result.OriRows))
	}
}

func TestDecodePageMissingCLK(t *testing.T) {
	miniHeader := []byte("MHS\r\nMHE\r\n")
	plan, err := NewPatternPlan(mh(true, true, true, 60, 60, 1, 1))
	testutil.AssertNoError(t, err)
	lt := NewLookupTables(DefaultHostStorage)

	_, err = DecodePage(miniHeader, len(miniHeader), plan, lt)
	testutil.AssertError(t, err)
}
