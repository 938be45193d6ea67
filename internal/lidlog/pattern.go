package lidlog

// PatternPlan describes the fixed byte layout of one repeating measurement
// block within a data page, for a given channel/timing configuration.
type PatternPlan struct {
	TMP, ACL, MGN bool
	Channels      int // 0, 3, or 6
	BMN, BMR      int
	TRI, ORI      int
	Mul           int  // tri/ori in Case A, ori/tri in Case B
	CaseA         bool // orientation at least as frequent as temperature

	// BlockBytes is the total size in bytes of one repeating block.
	BlockBytes int
	// TailTemps is the count of trailing single-sample u16 temperature
	// fields in Case B (mul-1 when TMP is set, else zero); zero in Case A.
	TailTemps int
}

// NewPatternPlan computes the PatternPlan for a mini-header template,
// rejecting configurations the decoder cannot express: non-positive tri/ori,
// a tri/ori pair where neither divides the other, or no channel enabled at
// all (channels = 0 and tmp = false leaves a block with no fields to decode
// samples from, so the planner refuses it instead of producing a
// zero-length block that would make the page's block count computation
// divide by zero).
func NewPatternPlan(mh MiniHeaderTemplate) (*PatternPlan, error) {
	if mh.TRI <= 0 || mh.ORI <= 0 || mh.BMN <= 0 || mh.BMR <= 0 {
		return nil, wrapf(ErrInvalidConfig, nil, "TRI, ORI, BMN, and BMR must be positive: tri=%d ori=%d bmn=%d bmr=%d", mh.TRI, mh.ORI, mh.BMN, mh.BMR)
	}
	if mh.TRI%mh.ORI != 0 && mh.ORI%mh.TRI != 0 {
		return nil, wrapf(ErrInvalidConfig, nil, "neither TRI (%d) nor ORI (%d) divides the other", mh.TRI, mh.ORI)
	}

	channels := 0
	if mh.ACL {
		channels += 3
	}
	if mh.MGN {
		channels += 3
	}
	if channels == 0 && !mh.TMP {
		return nil, wrapf(ErrInvalidConfig, nil, "no channels enabled: ACL=MGN=TMP=false")
	}

	plan := &PatternPlan{
		TMP: mh.TMP, ACL: mh.ACL, MGN: mh.MGN,
		Channels: channels,
		BMN:      mh.BMN,
		BMR:      mh.BMR,
		TRI:      mh.TRI,
		ORI:      mh.ORI,
	}

	if mh.ORI <= mh.TRI {
		plan.CaseA = true
		plan.Mul = mh.TRI / mh.ORI
		blockBytes := 0
		if mh.TMP {
			blockBytes += 2
		}
		blockBytes += mh.BMN * channels * plan.Mul * 2
		plan.BlockBytes = blockBytes
		return plan, nil
	}

	plan.CaseA = false
	plan.Mul = mh.ORI / mh.TRI
	blockBytes := 0
	if mh.TMP {
		blockBytes += 2
	}
	blockBytes += mh.BMN * channels * 2
	tailTemps := 0
	if mh.TMP {
		tailTemps = plan.Mul - 1
		blockBytes += tailTemps * 2
	}
	plan.TailTemps = tailTemps
	plan.BlockBytes = blockBytes
	return plan, nil
}
