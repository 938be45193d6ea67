package lidlog

import (
	"bytes"
	"encoding/binary"
	"time"
)

// PageSize is the fixed size of a data page.
const PageSize = 1024 * 1024

// sentinelLen is the length in bytes of the end-of-data marker.
const sentinelLen = 14

// clkLayout is the textual layout of a mini-header CLK field.
const clkLayout = "2006-01-02 15:04:05"

// timestampLayout formats decoded rows as "YYYY-MM-DD,HH:MM:SS.mmm". Go's
// time.Format truncates (rather than rounds) the fractional-second digits
// to however many the layout asks for, which reproduces the spec's
// "format to 6 digits then drop the last two characters" rule directly.
const timestampLayout = "2006-01-02,15:04:05.000"

// clockNudge is added to every page's parsed CLK. timestampLayout always
// prints three fractional digits and drops anything below a millisecond, so
// the nudge does not change the formatted output.
const clockNudge = time.Microsecond

// ParseClock parses a mini-header CLK field into a time.Time.
func ParseClock(raw string) (time.Time, error) {
	t, err := time.Parse(clkLayout, raw)
	if err != nil {
		return time.Time{}, wrapf(ErrBadClock, err, "CLK %q does not match %q", raw, clkLayout)
	}
	return t, nil
}

func formatTimestamp(t time.Time) string {
	return t.Format(timestampLayout)
}

var sentinel = bytes.Repeat([]byte{0xFF}, sentinelLen)

// PageResult holds one page's decoded CSV data rows (without headers),
// each already CRLF-terminated.
type PageResult struct {
	TempRows []string
	OriRows  []string
}

// DecodePage parses a page's mini-header and walks its block region,
// returning the temperature and orientation CSV rows it produced.
//
// miniHeaderSize is the byte length of the mini-header established by the
// main header's first mini-header template (§4.2); every page's
// mini-header is assumed to occupy that many bytes.
func DecodePage(page []byte, miniHeaderSize int, plan *PatternPlan, lt *LookupTables) (*PageResult, error) {
	if len(page) < miniHeaderSize {
		return nil, wrapf(ErrShortRead, nil, "page is %d bytes, shorter than mini-header size %d", len(page), miniHeaderSize)
	}
	miniTags := ParseCRLFTags(page[:miniHeaderSize])
	clkRaw, ok := miniTags["CLK"]
	if !ok {
		return nil, wrapf(ErrMissingField, nil, "page mini-header missing CLK")
	}
	clk, err := ParseClock(clkRaw)
	if err != nil {
		return nil, err
	}
	clk = clk.Add(clockNudge)

	blockRegion := page[miniHeaderSize:]
	result := &PageResult{}

	if plan.BlockBytes == 0 {
		return result, nil
	}

	sentinelOffset := bytes.Index(blockRegion, sentinel)

	decodeRegionEnd := len(blockRegion)
	if sentinelOffset >= 0 {
		decodeRegionEnd = sentinelOffset
	}

	blockPeriod := blockPeriodDuration(plan)

	pos := 0
	for pos+plan.BlockBytes <= decodeRegionEnd {
		block := blockRegion[pos : pos+plan.BlockBytes]
		temps, oris := decodeBlock(block, plan, clk, lt)
		result.TempRows = append(result.TempRows, temps...)
		result.OriRows = append(result.OriRows, oris...)
		clk = clk.Add(blockPeriod)
		pos += plan.BlockBytes
	}

	// A short final fragment before the decode boundary: decode whatever
	// complete fields it holds and drop the bytes left over. No fragment is
	// rejected as malformed.
	if pos < decodeRegionEnd {
		tail := blockRegion[pos:decodeRegionEnd]
		temps, oris := decodeTruncatedTail(tail, plan, clk, lt)
		result.TempRows = append(result.TempRows, temps...)
		result.OriRows = append(result.OriRows, oris...)
	}

	return result, nil
}

func blockPeriodDuration(plan *PatternPlan) time.Duration {
	if plan.CaseA {
		return time.Duration(plan.TRI) * time.Second
	}
	return time.Duration(plan.ORI) * time.Second
}

func burstDelta(plan *PatternPlan) time.Duration {
	return time.Second / time.Duration(plan.BMR)
}

// decodeBlock decodes exactly one full block (len(data) == plan.BlockBytes)
// into formatted temperature and orientation CSV rows.
func decodeBlock(data []byte, plan *PatternPlan, clk time.Time, lt *LookupTables) (tempRows, oriRows []string) {
	pos := 0

	if plan.CaseA {
		if plan.TMP {
			raw := binary.LittleEndian.Uint16(data[pos : pos+2])
			pos += 2
			tempRows = append(tempRows, formatTempRow(clk, raw, lt))
		}
		numGroups := plan.BMN * plan.Mul
		oriDelta := time.Duration(plan.ORI) * time.Second
		bDelta := burstDelta(plan)
		for g := 0; g < numGroups; g++ {
			intervalIdx := g / plan.BMN
			burstIdx := g % plan.BMN
			ts := clk.Add(time.Duration(intervalIdx)*oriDelta + time.Duration(burstIdx)*bDelta)
			group := readInt16Group(data[pos:pos+plan.Channels*2], plan.Channels)
			pos += plan.Channels * 2
			oriRows = append(oriRows, formatOrientationRow(ts, plan, group, lt))
		}
		return tempRows, oriRows
	}

	// Case B.
	triDelta := time.Duration(plan.TRI) * time.Second
	if plan.TMP {
		raw := binary.LittleEndian.Uint16(data[pos : pos+2])
		pos += 2
		tempRows = append(tempRows, formatTempRow(clk, raw, lt))
	}
	bDelta := burstDelta(plan)
	for g := 0; g < plan.BMN; g++ {
		ts := clk.Add(time.Duration(g) * bDelta)
		group := readInt16Group(data[pos:pos+plan.Channels*2], plan.Channels)
		pos += plan.Channels * 2
		oriRows = append(oriRows, formatOrientationRow(ts, plan, group, lt))
	}
	for k := 0; k < plan.TailTemps; k++ {
		raw := binary.LittleEndian.Uint16(data[pos : pos+2])
		pos += 2
		ts := clk.Add(time.Duration(k+1) * triDelta)
		tempRows = append(tempRows, formatTempRow(ts, raw, lt))
	}
	return tempRows, oriRows
}

// decodeTruncatedTail decodes whatever complete fields fit in a short final
// fragment of a page's block region, following the same field order as a
// full block but stopping at the first incomplete field or orientation
// group. The bytes of that incomplete field or group are discarded.
func decodeTruncatedTail(data []byte, plan *PatternPlan, clk time.Time, lt *LookupTables) (tempRows, oriRows []string) {
	pos := 0
	groupBytes := plan.Channels * 2

	if plan.CaseA {
		if plan.TMP {
			if pos+2 > len(data) {
				return tempRows, oriRows
			}
			raw := binary.LittleEndian.Uint16(data[pos : pos+2])
			pos += 2
			tempRows = append(tempRows, formatTempRow(clk, raw, lt))
		}
		if groupBytes == 0 {
			return tempRows, oriRows
		}
		oriDelta := time.Duration(plan.ORI) * time.Second
		bDelta := burstDelta(plan)
		for g := 0; pos+groupBytes <= len(data); g++ {
			intervalIdx := g / plan.BMN
			burstIdx := g % plan.BMN
			ts := clk.Add(time.Duration(intervalIdx)*oriDelta + time.Duration(burstIdx)*bDelta)
			group := readInt16Group(data[pos:pos+groupBytes], plan.Channels)
			pos += groupBytes
			oriRows = append(oriRows, formatOrientationRow(ts, plan, group, lt))
		}
		return tempRows, oriRows
	}

	triDelta := time.Duration(plan.TRI) * time.Second
	if plan.TMP {
		if pos+2 > len(data) {
			return tempRows, oriRows
		}
		raw := binary.LittleEndian.Uint16(data[pos : pos+2])
		pos += 2
		tempRows = append(tempRows, formatTempRow(clk, raw, lt))
	}
	if groupBytes > 0 {
		bDelta := burstDelta(plan)
		for g := 0; g < plan.BMN; g++ {
			if pos+groupBytes > len(data) {
				return tempRows, oriRows
			}
			ts := clk.Add(time.Duration(g) * bDelta)
			group := readInt16Group(data[pos:pos+groupBytes], plan.Channels)
			pos += groupBytes
			oriRows = append(oriRows, formatOrientationRow(ts, plan, group, lt))
		}
	}
	for k := 0; k < plan.TailTemps && pos+2 <= len(data); k++ {
		raw := binary.LittleEndian.Uint16(data[pos : pos+2])
		pos += 2
		ts := clk.Add(time.Duration(k+1) * triDelta)
		tempRows = append(tempRows, formatTempRow(ts, raw, lt))
	}
	return tempRows, oriRows
}

func readInt16Group(data []byte, channels int) []int16 {
	group := make([]int16, channels)
	for i := 0; i < channels; i++ {
		group[i] = int16(binary.LittleEndian.Uint16(data[i*2 : i*2+2]))
	}
	return group
}

func formatTempRow(ts time.Time, raw uint16, lt *LookupTables) string {
	return formatTimestamp(ts) + "," + lt.Temp(raw) + "\r\n"
}

func formatOrientationRow(ts time.Time, plan *PatternPlan, group []int16, lt *LookupTables) string {
	row := formatTimestamp(ts)
	idx := 0
	if plan.ACL {
		row += "," + lt.Accel(group[idx]) + "," + lt.Accel(group[idx+1]) + "," + lt.Accel(group[idx+2])
		idx += 3
	}
	if plan.MGN {
		row += "," + lt.Magne(group[idx]) + "," + lt.Magne(group[idx+1]) + "," + lt.Magne(group[idx+2])
	}
	return row + "\r\n"
}
