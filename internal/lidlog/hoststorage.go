package lidlog

// HostStorage is the calibration record used to convert raw 16-bit samples
// into engineering units.
type HostStorage struct {
	AXA, AYA, AZA int64
	AXB, AYB, AZB int64
	MXA, MYA, MZA int64
	MXS, MYS, MZS float64
	TMO           int64
	TMR           int64
	TMA, TMB, TMC float64
}

// DefaultHostStorage is the compiled-in calibration record used when a file
// carries no HSS region, per §6's host-storage defaults table.
var DefaultHostStorage = HostStorage{
	AXA: 0, AYA: 0, AZA: 0,
	AXB: 1024, AYB: 1024, AZB: 1024,
	MXA: 0, MYA: 0, MZA: 0,
	MXS: 0.91743, MYS: 0.91743, MZS: 0.91743,
	TMO: 0,
	TMR: 10000,
	TMA: 0.0011238100354,
	TMB: 0.0002349457073,
	TMC: 8.48361e-8,
}

// BuildHostStorage assembles a HostStorage from a parsed HSS region,
// falling back field-by-field to DefaultHostStorage for anything the region
// didn't carry. When hss is nil (no HSS marker found), it returns
// DefaultHostStorage verbatim.
func BuildHostStorage(hss *HSSValues) HostStorage {
	if hss == nil {
		return DefaultHostStorage
	}
	hs := DefaultHostStorage
	if v, ok := hss.Ints["AXA"]; ok {
		hs.AXA = v
	}
	if v, ok := hss.Ints["AYA"]; ok {
		hs.AYA = v
	}
	if v, ok := hss.Ints["AZA"]; ok {
		hs.AZA = v
	}
	if v, ok := hss.Ints["AXB"]; ok {
		hs.AXB = v
	}
	if v, ok := hss.Ints["AYB"]; ok {
		hs.AYB = v
	}
	if v, ok := hss.Ints["AZB"]; ok {
		hs.AZB = v
	}
	if v, ok := hss.Ints["MXA"]; ok {
		hs.MXA = v
	}
	if v, ok := hss.Ints["MYA"]; ok {
		hs.MYA = v
	}
	if v, ok := hss.Ints["MZA"]; ok {
		hs.MZA = v
	}
	if v, ok := hss.Floats["MXS"]; ok {
		hs.MXS = v
	}
	if v, ok := hss.Floats["MYS"]; ok {
		hs.MYS = v
	}
	if v, ok := hss.Floats["MZS"]; ok {
		hs.MZS = v
	}
	if v, ok := hss.Ints["TMO"]; ok {
		hs.TMO = v
	}
	if v, ok := hss.Ints["TMR"]; ok {
		hs.TMR = v
	}
	if v, ok := hss.Floats["TMA"]; ok {
		hs.TMA = v
	}
	if v, ok := hss.Floats["TMB"]; ok {
		hs.TMB = v
	}
	if v, ok := hss.Floats["TMC"]; ok {
		hs.TMC = v
	}
	return hs
}
