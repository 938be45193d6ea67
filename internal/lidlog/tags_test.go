package lidlog

import (
	"testing"

	"github.com/lowellinst/lidlog/internal/testutil"
)

func TestParseCRLFTags(t *testing.T) {
	region := []byte("HDS\r\nLED 1\r\nSER ABC123\r\nMHS\r\nTMP 1\r\nMHE\r\nHDE\r\n")
	tags := ParseCRLFTags(region)

	want := map[string]string{
		"LED": "1",
		"SER": "ABC123",
		"TMP": "1",
	}
	for k, v := range want {
		if tags[k] != v {
			t.Fatalf("tag %s: got %q, want %q", k, tags[k], v)
		}
	}
	for _, marker := range []string{"HDS", "HDE", "MHS", "MHE"} {
		if _, ok := tags[marker]; ok {
			t.Fatalf("structural marker %s leaked into tag map", marker)
		}
	}
}

func TestParseCRLFTagsSkipsLinesWithoutSpace(t *testing.T) {
	tags := ParseCRLFTags([]byte("ABCDEF\r\nTMP 1\r\n"))
	if _, ok := tags["ABC"]; ok {
		t.Fatalf("expected no-space line to be skipped")
	}
	if tags["TMP"] != "1" {
		t.Fatalf("expected TMP=1, got %q", tags["TMP"])
	}
}

func TestParseHSSRegionDefaults(t *testing.T) {
	region := []byte("HSS" +
		"TMO40000" +
		"TMR510000" +
		"TMAF0.0011238100354" +
		"HSE")
	hss, err := ParseHSSRegion(region)
	testutil.AssertNoError(t, err)

	if hss.Ints["TMO"] != 0 {
		t.Fatalf("expected TMO=0, got %d", hss.Ints["TMO"])
	}
	if hss.Ints["TMR"] != 10000 {
		t.Fatalf("expected TMR=10000, got %d", hss.Ints["TMR"])
	}
	if hss.Floats["TMA"] != 0.0011238100354 {
		t.Fatalf("expected TMA=0.0011238100354, got %v", hss.Floats["TMA"])
	}
}

func TestParseHSSRegionHexLengthF(t *testing.T) {
	// Scenario S6: a length byte of 'F' must be read as the ASCII hex digit
	// 'F' = 15, giving a 15-byte value. Reading it as a raw byte value
	// would instead give 0x46 = 70, a length far past the end of this
	// region.
	value := "0.00112381004" // 13 bytes
	if len(value) != 13 {
		t.Fatalf("test fixture value must be 13 bytes, got %d", len(value))
	}
	value = value + "56" // pad to 15 bytes: "0.0011238100456"
	region := []byte("HSS" + "TMA" + "F" + value + "HSE")
	hss, err := ParseHSSRegion(region)
	testutil.AssertNoError(t, err)
	want := 0.0011238100456
	if hss.Floats["TMA"] != want {
		t.Fatalf("expected TMA=%v, got %v", want, hss.Floats["TMA"])
	}
}

func TestParseHSSRegionMissingMarker(t *testing.T) {
	_, err := ParseHSSRegion([]byte("no markers here"))
	testutil.AssertError(t, err)
}

func TestParseHSSRegionTruncatedRecord(t *testing.T) {
	_, err := ParseHSSRegion([]byte("HSSTMA5123HSE"[:10]))
	testutil.AssertError(t, err)
}

func TestParseHSSRegionBadLengthByte(t *testing.T) {
	_, err := ParseHSSRegion([]byte("HSSTMAZ123456789HSE"))
	testutil.AssertError(t, err)
}

func TestParseHSSRegionUnknownTagRetainedUnparsed(t *testing.T) {
	region := []byte("HSS" + "ZZZ" + "3" + "abc" + "HSE")
	hss, err := ParseHSSRegion(region)
	testutil.AssertNoError(t, err)
	if hss.Strings["ZZZ"] != "abc" {
		t.Fatalf("expected unknown tag ZZZ=abc, got %q", hss.Strings["ZZZ"])
	}
}
