package lidlog

import (
	"bytes"
	"strconv"
)

// MainHeaderSize is the fixed size of a .lid file's main header page.
const MainHeaderSize = 32 * 1024

// requiredMiniHeaderFields lists the mini-header tags the decoder must see
// to build a PatternPlan and walk pages.
var requiredMiniHeaderFields = []string{"TMP", "ACL", "MGN", "TRI", "ORI", "BMN", "BMR", "CLK"}

// InstrumentSettings is the opaque key/value mapping carried by the main
// header outside the mini-header and HSS regions. Not used by decoder
// arithmetic; retained for completeness and diagnostics.
type InstrumentSettings map[string]string

// MiniHeaderTemplate holds the channel and timing parameters that every
// page's mini-header shares for the lifetime of a file.
type MiniHeaderTemplate struct {
	TMP, ACL, MGN bool
	TRI, ORI      int
	BMR, BMN      int
	CLK           string
}

// ParsedHeader is the result of parsing a file's main header.
type ParsedHeader struct {
	Settings       InstrumentSettings
	MiniHeader     MiniHeaderTemplate
	HostStorage    HostStorage
	MiniHeaderSize int
}

func parseBool01(tags map[string]string, field string) (bool, error) {
	raw, ok := tags[field]
	if !ok {
		return false, wrapf(ErrMissingField, nil, "missing field %s", field)
	}
	switch raw {
	case "0":
		return false, nil
	case "1":
		return true, nil
	default:
		return false, wrapf(ErrBadHeader, nil, "field %s is not 0/1: %q", field, raw)
	}
}

func parsePositiveInt(tags map[string]string, field string) (int, error) {
	raw, ok := tags[field]
	if !ok {
		return 0, wrapf(ErrMissingField, nil, "missing field %s", field)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, wrapf(ErrBadHeader, err, "field %s is not an integer: %q", field, raw)
	}
	return v, nil
}

// parseMiniHeaderTags checks that a CRLF tag map carries the TMP, ACL, MGN,
// TRI, ORI, BMR, BMN and CLK fields and turns it into a MiniHeaderTemplate.
func parseMiniHeaderTags(tags map[string]string) (MiniHeaderTemplate, error) {
	var mh MiniHeaderTemplate
	for _, field := range requiredMiniHeaderFields {
		if _, ok := tags[field]; !ok {
			return mh, wrapf(ErrMissingField, nil, "missing field %s", field)
		}
	}
	var err error
	if mh.TMP, err = parseBool01(tags, "TMP"); err != nil {
		return mh, err
	}
	if mh.ACL, err = parseBool01(tags, "ACL"); err != nil {
		return mh, err
	}
	if mh.MGN, err = parseBool01(tags, "MGN"); err != nil {
		return mh, err
	}
	if mh.TRI, err = parsePositiveInt(tags, "TRI"); err != nil {
		return mh, err
	}
	if mh.ORI, err = parsePositiveInt(tags, "ORI"); err != nil {
		return mh, err
	}
	if mh.BMR, err = parsePositiveInt(tags, "BMR"); err != nil {
		return mh, err
	}
	if mh.BMN, err = parsePositiveInt(tags, "BMN"); err != nil {
		return mh, err
	}
	mh.CLK = tags["CLK"]
	return mh, nil
}

// ParseHeader locates and parses the mini-header template, instrument
// settings, and host-storage region within a file's main header block,
// following the deterministic region-location algorithm of §4.2: locate
// markers by last-index search so later, authoritative occurrences win over
// any earlier ones a malformed or re-flashed header might carry.
func ParseHeader(block []byte) (*ParsedHeader, error) {
	if len(block) < MainHeaderSize {
		return nil, wrapf(ErrShortRead, nil, "main header is %d bytes, want %d", len(block), MainHeaderSize)
	}

	hssStart := bytes.LastIndex(block, []byte("HSS"))

	mhStart := bytes.LastIndex(block, []byte("MHS"))
	if mhStart < 0 {
		return nil, wrapf(ErrBadHeader, nil, "MHS marker not found")
	}
	mheIdx := bytes.LastIndex(block, []byte("MHE"))
	if mheIdx < 0 {
		return nil, wrapf(ErrBadHeader, nil, "MHE marker not found")
	}
	mhEnd := mheIdx + len("MHE\r\n")
	if mhEnd > len(block) {
		return nil, wrapf(ErrBadHeader, nil, "MHE marker truncated at end of header")
	}

	miniTags := ParseCRLFTags(block[mhStart:mhEnd])
	miniHeader, err := parseMiniHeaderTags(miniTags)
	if err != nil {
		return nil, err
	}

	settingsEnd := len(block)
	if hssStart >= 0 {
		settingsEnd = hssStart
	}
	var settingsRegion []byte
	settingsRegion = append(settingsRegion, block[:mhStart]...)
	if mhEnd < settingsEnd {
		settingsRegion = append(settingsRegion, block[mhEnd:settingsEnd]...)
	}
	settings := InstrumentSettings(ParseCRLFTags(settingsRegion))

	var hostStorage HostStorage
	if hssStart < 0 {
		hostStorage = DefaultHostStorage
	} else {
		hss, err := ParseHSSRegion(block[hssStart:])
		if err != nil {
			return nil, err
		}
		hostStorage = BuildHostStorage(hss)
	}

	return &ParsedHeader{
		Settings:       settings,
		MiniHeader:     miniHeader,
		HostStorage:    hostStorage,
		MiniHeaderSize: mhEnd - mhStart,
	}, nil
}
