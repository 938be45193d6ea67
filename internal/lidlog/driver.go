package lidlog

import (
	"bufio"
	"io"
)

// Driver decodes a whole .lid file into two CSV sinks. It owns its lookup
// tables and borrows (does not own) its input source and output sinks. Each
// page is read into a newly allocated buffer; no page buffer is reused.
type Driver struct {
	src    ByteSource
	plan   *PatternPlan
	lookup *LookupTables
	header *ParsedHeader
}

// NewDriver parses src's main header and builds the sampling-pattern plan
// and lookup tables needed to decode every subsequent page.
//
// forceDefaultCalibration, when true, ignores any HSS region the file
// carries and uses DefaultHostStorage instead.
func NewDriver(src ByteSource, forceDefaultCalibration bool) (*Driver, error) {
	headerBlock, err := src.ReadExact(MainHeaderSize)
	if err != nil {
		return nil, err
	}
	header, err := ParseHeader(headerBlock)
	if err != nil {
		return nil, err
	}
	if forceDefaultCalibration {
		header.HostStorage = DefaultHostStorage
	}

	plan, err := NewPatternPlan(header.MiniHeader)
	if err != nil {
		return nil, err
	}
	lookup := NewLookupTables(header.HostStorage)

	return &Driver{src: src, plan: plan, lookup: lookup, header: header}, nil
}

// Header exposes the parsed main header, mainly for diagnostics.
func (d *Driver) Header() *ParsedHeader { return d.header }

// TemperatureHeader returns the temperature CSV's column header row.
func (d *Driver) TemperatureHeader() string {
	if !d.header.MiniHeader.TMP {
		return "Date,Time\r\n"
	}
	return "Date,Time,Temperature (C)\r\n"
}

// OrientationHeader returns the orientation CSV's column header row.
func (d *Driver) OrientationHeader() string {
	row := "Date,Time"
	if d.header.MiniHeader.ACL {
		row += ",Ax (g),Ay (g),Az (g)"
	}
	if d.header.MiniHeader.MGN {
		row += ",Mx (mG),My (mG),Mz (mG)"
	}
	return row + "\r\n"
}

// Decode walks every data page in order, writing CSV rows to tempSink and
// oriSink as it goes. Each page's output is flushed before the next page is
// read, bounding live memory to roughly one page.
func (d *Driver) Decode(tempSink, oriSink io.Writer) error {
	size, err := d.src.Size()
	if err != nil {
		return err
	}
	if size < MainHeaderSize {
		return wrapf(ErrShortRead, nil, "file is %d bytes, shorter than main header size %d", size, MainHeaderSize)
	}

	tempW := bufio.NewWriter(tempSink)
	oriW := bufio.NewWriter(oriSink)

	if _, err := tempW.WriteString(d.TemperatureHeader()); err != nil {
		return wrapf(ErrIO, err, "write temperature header")
	}
	if _, err := oriW.WriteString(d.OrientationHeader()); err != nil {
		return wrapf(ErrIO, err, "write orientation header")
	}

	remaining := size - MainHeaderSize
	numPages := int((remaining + PageSize - 1) / PageSize)

	for i := 0; i < numPages; i++ {
		offset := int64(MainHeaderSize) + int64(i)*int64(PageSize)
		if err := d.src.Seek(offset); err != nil {
			return err
		}
		pageBytes, err := d.src.ReadExact(PageSize)
		if err != nil {
			// A final page shorter than 1 MiB still decodes: only a
			// short mini-header read is fatal.
			if len(pageBytes) < d.header.MiniHeaderSize {
				return wrapf(ErrShortRead, nil, "page %d at offset %d: %v", i, offset, err)
			}
		}

		result, err := DecodePage(pageBytes, d.header.MiniHeaderSize, d.plan, d.lookup)
		if err != nil {
			return wrapf(err.(*DecodeError).Kind, err, "page %d at offset %d", i, offset)
		}

		for _, row := range result.TempRows {
			if _, err := tempW.WriteString(row); err != nil {
				return wrapf(ErrIO, err, "write temperature row")
			}
		}
		if err := tempW.Flush(); err != nil {
			return wrapf(ErrIO, err, "flush temperature sink")
		}

		for _, row := range result.OriRows {
			if _, err := oriW.WriteString(row); err != nil {
				return wrapf(ErrIO, err, "write orientation row")
			}
		}
		if err := oriW.Flush(); err != nil {
			return wrapf(ErrIO, err, "flush orientation sink")
		}
	}

	return nil
}
